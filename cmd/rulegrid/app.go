package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/bmatcuk/doublestar"
	"github.com/urfave/cli/v2"
	"gopkg.in/yaml.v3"

	"github.com/tsawler/rulegrid"
	"github.com/tsawler/rulegrid/model"
	"github.com/tsawler/rulegrid/render"
	"github.com/tsawler/rulegrid/tables"
)

// Exit codes
const (
	exitMalformed = 1 // some tables have empty grid slots
	exitFailed    = 2 // some inputs could not be processed
)

func newApp() *cli.App {
	return &cli.App{
		Name:  "rulegrid",
		Usage: "reconstruct ruled tables from PDF vector graphics",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "quiet", Aliases: []string{"q"}, Usage: "only log errors"},
			&cli.BoolFlag{Name: "verbose", Aliases: []string{"v"}, Usage: "log per-page reconstruction details"},
		},
		Commands: []*cli.Command{
			{
				Name:      "tables",
				Usage:     "print the tables found in PDF files",
				ArgsUsage: "<file or glob>...",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "config", Aliases: []string{"c"}, Usage: "YAML configuration `FILE`"},
					&cli.StringFlag{Name: "pages", Aliases: []string{"p"}, Usage: "pages to read, e.g. 1,3-5 (default: all)"},
					&cli.StringFlag{Name: "rotation", Value: "auto", Usage: "table orientation: auto, 0 or 90"},
					&cli.StringFlag{Name: "format", Aliases: []string{"f"}, Value: "html", Usage: "output format: html, yaml or json"},
					&cli.StringFlag{Name: "skeleton", Usage: "write a PNG of each page's rulings and cells to `DIR`"},
					&cli.Float64Flag{Name: "scale", Value: 1, Usage: "skeleton pixels per point"},
				},
				Action: tablesAction,
			},
			{
				Name:  "config",
				Usage: "print the effective configuration as YAML",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "config", Aliases: []string{"c"}, Usage: "YAML configuration `FILE`"},
				},
				Action: configAction,
			},
		},
	}
}

func newLogger(c *cli.Context) *slog.Logger {
	level := slog.LevelInfo
	switch {
	case c.Bool("quiet"):
		level = slog.LevelError
	case c.Bool("verbose"):
		level = slog.LevelDebug
	}
	return slog.New(slog.NewJSONHandler(c.App.ErrWriter, &slog.HandlerOptions{Level: level}))
}

func loadConfig(c *cli.Context) (tables.Config, error) {
	if !c.IsSet("config") {
		return tables.DefaultConfig(), nil
	}
	return tables.LoadConfigFile(c.String("config"))
}

func configAction(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return cli.Exit(err, exitFailed)
	}

	enc := yaml.NewEncoder(c.App.Writer)
	enc.SetIndent(2)
	if err := enc.Encode(cfg); err != nil {
		return err
	}
	return enc.Close()
}

// fileTables is the YAML and JSON output for one input file
type fileTables struct {
	File  string       `json:"file" yaml:"file"`
	Pages []pageOutput `json:"pages" yaml:"pages"`
}

type pageOutput struct {
	Page     int           `json:"page" yaml:"page"`
	Rotation int           `json:"rotation" yaml:"rotation"`
	Tables   []*model.Cell `json:"tables" yaml:"tables"`
}

func tablesAction(c *cli.Context) error {
	logger := newLogger(c)

	cfg, err := loadConfig(c)
	if err != nil {
		return cli.Exit(err, exitFailed)
	}
	rotation, forced, err := resolveRotation(c, cfg)
	if err != nil {
		return cli.Exit(err, exitFailed)
	}
	pages, err := parsePages(c.String("pages"))
	if err != nil {
		return cli.Exit(err, exitFailed)
	}
	format := c.String("format")
	if format != "html" && format != "yaml" && format != "json" {
		return cli.Exit(fmt.Sprintf("unknown format %q", format), exitFailed)
	}

	paths, err := expandInputs(c.Args().Slice())
	if err != nil {
		return cli.Exit(err, exitFailed)
	}
	if len(paths) == 0 {
		return cli.Exit("no input files", exitFailed)
	}

	if dir := c.String("skeleton"); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return cli.Exit(err, exitFailed)
		}
	}

	failed, malformed := 0, 0
	for _, path := range paths {
		ext := rulegrid.Open(path).
			Logger(logger.With("file", path)).
			MaxHierarchy(cfg.MaxHierarchy).
			Variance(cfg.Variance).
			Pages(pages...)
		if !cfg.DetectStrikeThroughs {
			ext = ext.KeepStrikeThroughs()
		}
		if !cfg.TreatSmallRectAsLine {
			ext = ext.KeepThinRects()
		}
		if forced {
			ext = ext.Rotation(rotation)
		}

		result, warnings, err := ext.Tables()
		if err != nil {
			logger.Error("failed to extract tables", "file", path, "error", err)
			failed++
			continue
		}
		for _, w := range warnings {
			logger.Warn("extraction warning", "file", path, "page", w.Page, "table", w.Table, "kind", w.Kind.String(), "message", w.Message)
			if w.Kind == rulegrid.WarningMalformedTable {
				malformed++
			}
		}

		if err := writeTables(c.App.Writer, format, path, result); err != nil {
			return err
		}

		if dir := c.String("skeleton"); dir != "" {
			if err := writeSkeletons(dir, path, result, c.Float64("scale")); err != nil {
				logger.Error("failed to write skeleton", "file", path, "error", err)
				failed++
			}
		}

		count := 0
		for _, p := range result {
			count += len(p.Tables)
		}
		logger.Info("extracted tables", "file", path, "pages", len(result), "tables", count)
	}

	switch {
	case failed > 0:
		return cli.Exit(fmt.Sprintf("%d of %d files failed", failed, len(paths)), exitFailed)
	case malformed > 0:
		return cli.Exit(fmt.Sprintf("%d malformed tables", malformed), exitMalformed)
	}
	return nil
}

// resolveRotation returns the rotation to force on every page, if any.
// An explicit --rotation wins; otherwise a configuration file's rotation
// is forced; otherwise each page's Rotate entry decides.
func resolveRotation(c *cli.Context, cfg tables.Config) (int, bool, error) {
	if !c.IsSet("rotation") {
		if c.IsSet("config") {
			return cfg.Rotation, true, nil
		}
		return 0, false, nil
	}

	switch v := c.String("rotation"); v {
	case "auto":
		return 0, false, nil
	case "0", "90":
		r, _ := strconv.Atoi(v)
		return r, true, nil
	default:
		return 0, false, fmt.Errorf("invalid rotation %q: want auto, 0 or 90", v)
	}
}

// parsePages parses a list like "1,3-5" into page numbers
func parsePages(s string) ([]int, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}

	var pages []int
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		lo, hi, isRange := strings.Cut(part, "-")

		start, err := strconv.Atoi(lo)
		if err != nil || start < 1 {
			return nil, fmt.Errorf("invalid page %q", part)
		}
		end := start
		if isRange {
			end, err = strconv.Atoi(hi)
			if err != nil || end < start {
				return nil, fmt.Errorf("invalid page range %q", part)
			}
		}
		for n := start; n <= end; n++ {
			pages = append(pages, n)
		}
	}
	return pages, nil
}

// expandInputs expands glob patterns (** included) into regular files,
// sorted within each pattern and without duplicates
func expandInputs(patterns []string) ([]string, error) {
	seen := make(map[string]bool)
	var paths []string

	for _, pattern := range patterns {
		files, err := doublestar.Glob(pattern)
		if err != nil {
			return nil, fmt.Errorf("bad pattern %q: %w", pattern, err)
		}
		sort.Strings(files)

		for _, f := range files {
			info, err := os.Stat(f)
			if err != nil || !info.Mode().IsRegular() || seen[f] {
				continue
			}
			seen[f] = true
			paths = append(paths, f)
		}
	}
	return paths, nil
}

func writeTables(w io.Writer, format, path string, pages []rulegrid.PageTables) error {
	switch format {
	case "html":
		for _, p := range pages {
			for i, t := range p.Tables {
				out, err := t.ToHTML()
				if err != nil {
					// reported as a warning
					continue
				}
				if _, err := fmt.Fprintf(w, "<!-- %s page %d table %d -->\n%s\n", path, p.Page, i, out); err != nil {
					return err
				}
			}
		}
		return nil
	}

	doc := fileTables{File: path}
	for _, p := range pages {
		doc.Pages = append(doc.Pages, pageOutput{Page: p.Page, Rotation: p.Rotation, Tables: p.Tables})
	}

	if format == "json" {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(doc)
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return err
	}
	return enc.Close()
}

func writeSkeletons(dir, path string, pages []rulegrid.PageTables, scale float64) error {
	base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	for _, p := range pages {
		img, err := render.Skeleton(p.Width, p.Height, p.Result.Lines, p.Result.Rects, p.Tables, render.Options{Scale: scale})
		if err != nil {
			return fmt.Errorf("page %d: %w", p.Page, err)
		}
		out := filepath.Join(dir, fmt.Sprintf("%s-p%d.png", base, p.Page))
		if err := render.SavePNG(out, img); err != nil {
			return err
		}
	}
	return nil
}
