package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/urfave/cli/v2"

	"github.com/tsawler/rulegrid/internal/pdftest"
)

// run executes the app with args and returns stdout, stderr and the error
func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()

	var out, errOut bytes.Buffer
	app := newApp()
	app.Writer = &out
	app.ErrWriter = &errOut
	app.ExitErrHandler = func(*cli.Context, error) {}

	err := app.Run(append([]string{"rulegrid"}, args...))
	return out.String(), errOut.String(), err
}

func writePDF(t *testing.T, dir, name string, pages ...pdftest.Page) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, pdftest.Build(pages...), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func exitCode(err error) int {
	var ec cli.ExitCoder
	if errors.As(err, &ec) {
		return ec.ExitCode()
	}
	return -1
}

// ============================================================================
// Command Tests
// ============================================================================

func TestTablesHTML(t *testing.T) {
	dir := t.TempDir()
	path := writePDF(t, dir, "grid.pdf", pdftest.Page{Content: pdftest.GridPage()})

	out, logs, err := run(t, "tables", path)
	if err != nil {
		t.Fatalf("run error: %v\n%s", err, logs)
	}
	if !strings.Contains(out, "page 1 table 0 -->") || !strings.Contains(out, "<td>B2</td>") {
		t.Errorf("output = %q", out)
	}
	if !strings.Contains(logs, `"msg":"extracted tables"`) {
		t.Errorf("logs = %q", logs)
	}
}

func TestTablesJSON(t *testing.T) {
	dir := t.TempDir()
	path := writePDF(t, dir, "grid.pdf", pdftest.Page{Content: pdftest.GridPage()})

	out, _, err := run(t, "--quiet", "tables", "--format", "json", path)
	if err != nil {
		t.Fatalf("run error: %v", err)
	}

	var doc fileTables
	if err := json.Unmarshal([]byte(out), &doc); err != nil {
		t.Fatalf("decode output: %v\n%s", err, out)
	}
	if doc.File != path || len(doc.Pages) != 1 || len(doc.Pages[0].Tables) != 1 {
		t.Fatalf("output = %+v", doc)
	}
	if n := len(doc.Pages[0].Tables[0].Children); n != 4 {
		t.Errorf("got %d cells, want 4", n)
	}
}

func TestTablesYAML(t *testing.T) {
	dir := t.TempDir()
	path := writePDF(t, dir, "grid.pdf", pdftest.Page{Content: pdftest.GridPage(), Rotate: 90})

	out, _, err := run(t, "-q", "tables", "-f", "yaml", path)
	if err != nil {
		t.Fatalf("run error: %v", err)
	}
	for _, want := range []string{"file: " + path, "rotation: 90", "text: A1"} {
		if !strings.Contains(out, want) {
			t.Errorf("output lacks %q:\n%s", want, out)
		}
	}

	out, _, err = run(t, "-q", "tables", "-f", "yaml", "--rotation", "0", path)
	if err != nil {
		t.Fatalf("run error: %v", err)
	}
	if strings.Contains(out, "rotation: 90") {
		t.Errorf("--rotation 0 was ignored:\n%s", out)
	}
}

func TestTablesMalformed(t *testing.T) {
	dir := t.TempDir()
	good := writePDF(t, dir, "a.pdf", pdftest.Page{Content: pdftest.GridPage()})
	writePDF(t, dir, "b.pdf", pdftest.Page{Content: pdftest.SparsePage()})

	out, logs, err := run(t, "tables", filepath.Join(dir, "*.pdf"))
	if exitCode(err) != exitMalformed {
		t.Fatalf("exit code = %d (%v), want %d", exitCode(err), err, exitMalformed)
	}
	if !strings.Contains(out, good) {
		t.Errorf("the well-formed file was not printed: %q", out)
	}
	if !strings.Contains(logs, "malformed-table") {
		t.Errorf("logs lack the warning: %q", logs)
	}
}

func TestTablesFailures(t *testing.T) {
	dir := t.TempDir()
	bad := filepath.Join(dir, "broken.pdf")
	if err := os.WriteFile(bad, []byte("not a pdf"), 0o644); err != nil {
		t.Fatal(err)
	}
	good := writePDF(t, dir, "good.pdf", pdftest.Page{Content: pdftest.GridPage()})

	tests := []struct {
		name string
		args []string
	}{
		{"no inputs", []string{"tables", filepath.Join(dir, "*.none")}},
		{"unreadable file", []string{"tables", bad, good}},
		{"bad format", []string{"tables", "--format", "csv", good}},
		{"bad rotation", []string{"tables", "--rotation", "45", good}},
		{"bad pages", []string{"tables", "--pages", "3-1", good}},
		{"page out of range", []string{"tables", "--pages", "2", good}},
		{"missing config", []string{"tables", "--config", filepath.Join(dir, "none.yaml"), good}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := run(t, tt.args...)
			if exitCode(err) != exitFailed {
				t.Errorf("exit code = %d (%v), want %d", exitCode(err), err, exitFailed)
			}
		})
	}
}

func TestTablesSkeleton(t *testing.T) {
	dir := t.TempDir()
	path := writePDF(t, dir, "grid.pdf", pdftest.Page{Content: pdftest.GridPage(), Width: 400, Height: 300})
	out := filepath.Join(dir, "skeletons")

	if _, _, err := run(t, "-q", "tables", "--skeleton", out, "--scale", "0.5", path); err != nil {
		t.Fatalf("run error: %v", err)
	}
	if _, err := os.Stat(filepath.Join(out, "grid-p1.png")); err != nil {
		t.Errorf("skeleton not written: %v", err)
	}
}

func TestConfigCommand(t *testing.T) {
	out, _, err := run(t, "config")
	if err != nil {
		t.Fatalf("run error: %v", err)
	}
	if !strings.Contains(out, "max_hierarchy: 10") || !strings.Contains(out, "variance: 2") {
		t.Errorf("output = %q", out)
	}

	cfgPath := filepath.Join(t.TempDir(), "rulegrid.yaml")
	if err := os.WriteFile(cfgPath, []byte("variance: 0.5\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	out, _, err = run(t, "config", "--config", cfgPath)
	if err != nil {
		t.Fatalf("run error: %v", err)
	}
	if !strings.Contains(out, "variance: 0.5") {
		t.Errorf("output = %q", out)
	}
}

// ============================================================================
// Helper Tests
// ============================================================================

func TestParsePages(t *testing.T) {
	tests := []struct {
		in      string
		want    []int
		wantErr bool
	}{
		{"", nil, false},
		{"1", []int{1}, false},
		{"1,3-5", []int{1, 3, 4, 5}, false},
		{" 2 , 4 ", []int{2, 4}, false},
		{"0", nil, true},
		{"5-3", nil, true},
		{"a", nil, true},
		{"1-", nil, true},
	}

	for _, tt := range tests {
		got, err := parsePages(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("parsePages(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if !reflect.DeepEqual(got, tt.want) {
			t.Errorf("parsePages(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestExpandInputs(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b.pdf", "a.pdf", "sub/c.pdf", "notes.txt"} {
		path := filepath.Join(dir, name)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, nil, 0o644); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.Mkdir(filepath.Join(dir, "dir.pdf"), 0o755); err != nil {
		t.Fatal(err)
	}

	got, err := expandInputs([]string{
		filepath.Join(dir, "**", "*.pdf"),
		filepath.Join(dir, "a.pdf"),
	})
	if err != nil {
		t.Fatalf("expandInputs() error: %v", err)
	}
	want := []string{
		filepath.Join(dir, "a.pdf"),
		filepath.Join(dir, "b.pdf"),
		filepath.Join(dir, "sub", "c.pdf"),
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("expandInputs() = %v, want %v", got, want)
	}

	if _, err := expandInputs([]string{"[unclosed"}); err == nil {
		t.Error("expected error for a bad pattern")
	}
}
