// Package pdftest builds small uncompressed PDF files for tests.
package pdftest

import (
	"bytes"
	"fmt"
	"sort"
	"strings"
)

// Page describes one page of a generated PDF
type Page struct {
	Content string
	Rotate  int

	// MediaBox size; zero means US Letter
	Width, Height float64

	// Fonts maps a font resource name to the source of its ToUnicode CMap
	Fonts map[string]string

	// Forms maps an XObject resource name to a form drawn with Do
	Forms map[string]Form
}

// Form is a form XObject. Its fonts are declared in its own resources.
type Form struct {
	Content string

	// Matrix entry; nil leaves it out
	Matrix []float64

	Fonts map[string]string
}

// writer numbers objects as they are allocated
type writer struct {
	objects []string
}

// alloc reserves an object number to be filled by set
func (w *writer) alloc() int {
	w.objects = append(w.objects, "")
	return len(w.objects)
}

func (w *writer) set(n int, obj string) {
	w.objects[n-1] = obj
}

func (w *writer) add(obj string) int {
	n := w.alloc()
	w.set(n, obj)
	return n
}

func stream(dict, content string) string {
	return fmt.Sprintf("<< %s /Length %d >>\nstream\n%s\nendstream", dict, len(content), content)
}

// resources writes the fonts and forms and returns the resource dictionary
func (w *writer) resources(fonts map[string]string, forms map[string]Form) string {
	var sb strings.Builder
	sb.WriteString("<<")
	if len(fonts) > 0 {
		sb.WriteString(" /Font <<")
		for _, name := range sortedKeys(fonts) {
			cmap := w.add(stream("", fonts[name]))
			font := w.add(fmt.Sprintf("<< /Type /Font /Subtype /Type0 /BaseFont /Test /Encoding /Identity-H /ToUnicode %d 0 R >>", cmap))
			fmt.Fprintf(&sb, " /%s %d 0 R", name, font)
		}
		sb.WriteString(" >>")
	}
	if len(forms) > 0 {
		sb.WriteString(" /XObject <<")
		for _, name := range sortedKeys(forms) {
			f := forms[name]
			dict := "/Type /XObject /Subtype /Form /BBox [0 0 1000 1000]"
			if f.Matrix != nil {
				parts := make([]string, len(f.Matrix))
				for i, v := range f.Matrix {
					parts[i] = fmt.Sprintf("%g", v)
				}
				dict += " /Matrix [" + strings.Join(parts, " ") + "]"
			}
			if len(f.Fonts) > 0 {
				dict += " /Resources " + w.resources(f.Fonts, nil)
			}
			fmt.Fprintf(&sb, " /%s %d 0 R", name, w.add(stream(dict, f.Content)))
		}
		sb.WriteString(" >>")
	}
	sb.WriteString(" >>")
	return sb.String()
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Build assembles a PDF with one uncompressed content stream per page and
// a correct cross-reference table.
func Build(pages ...Page) []byte {
	w := &writer{}
	catalog := w.alloc()
	tree := w.alloc()

	var kids []string
	for _, p := range pages {
		width, height := p.Width, p.Height
		if width == 0 || height == 0 {
			width, height = 612, 792
		}
		page := w.alloc()
		contents := w.add(stream("", p.Content))
		res := w.resources(p.Fonts, p.Forms)
		w.set(page, fmt.Sprintf("<< /Type /Page /Parent %d 0 R /MediaBox [0 0 %g %g] /Rotate %d /Resources %s /Contents %d 0 R >>",
			tree, width, height, p.Rotate, res, contents))
		kids = append(kids, fmt.Sprintf("%d 0 R", page))
	}
	w.set(catalog, fmt.Sprintf("<< /Type /Catalog /Pages %d 0 R >>", tree))
	w.set(tree, fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count %d >>", strings.Join(kids, " "), len(pages)))

	var buf bytes.Buffer
	buf.WriteString("%PDF-1.4\n")
	offsets := make([]int, len(w.objects))
	for i, obj := range w.objects {
		offsets[i] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", i+1, obj)
	}

	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n0000000000 65535 f \n", len(w.objects)+1)
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root %d 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(w.objects)+1, catalog, xref)
	return buf.Bytes()
}

// CMap returns ToUnicode CMap source mapping two-byte codes to runes
func CMap(codes map[uint16]rune) string {
	keys := make([]int, 0, len(codes))
	for k := range codes {
		keys = append(keys, int(k))
	}
	sort.Ints(keys)

	var sb strings.Builder
	sb.WriteString("/CIDInit /ProcSet findresource begin\n12 dict begin\nbegincmap\n")
	sb.WriteString("1 begincodespacerange\n<0000> <FFFF>\nendcodespacerange\n")
	fmt.Fprintf(&sb, "%d beginbfchar\n", len(keys))
	for _, k := range keys {
		fmt.Fprintf(&sb, "<%04X> <%04X>\n", k, codes[uint16(k)])
	}
	sb.WriteString("endbfchar\nendcmap\nCMapName currentdict /CMap defineresource pop\nend\nend\n")
	return sb.String()
}

// GridPage returns content stroking a 2x2 table of 100x50 cells with its
// lower left corner at (100,100), labelled A1, B1 (top row) and A2, B2.
func GridPage() string {
	var sb strings.Builder
	sb.WriteString(GridRulings())
	for _, c := range []struct {
		x, y  int
		label string
	}{{110, 170, "A1"}, {210, 170, "B1"}, {110, 120, "A2"}, {210, 120, "B2"}} {
		fmt.Fprintf(&sb, "BT /F1 10 Tf %d %d Td (%s) Tj ET\n", c.x, c.y, c.label)
	}
	return sb.String()
}

// GridRulings returns the rulings of GridPage without its labels
func GridRulings() string {
	var sb strings.Builder
	for _, y := range []int{100, 150, 200} {
		fmt.Fprintf(&sb, "100 %d m 300 %d l S\n", y, y)
	}
	for _, x := range []int{100, 200, 300} {
		fmt.Fprintf(&sb, "%d 100 m %d 200 l S\n", x, x)
	}
	return sb.String()
}

// SparsePage returns content filling three cells of a 2x2 grid, leaving
// the upper left one out
func SparsePage() string {
	return "100 100 100 100 re 0 0 100 100 re 100 0 100 100 re f\n"
}
