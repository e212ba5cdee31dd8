package rulegrid

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/tsawler/rulegrid/internal/pdfsource"
	"github.com/tsawler/rulegrid/model"
	"github.com/tsawler/rulegrid/tables"
)

// PageTables holds the tables reconstructed from one page.
type PageTables struct {
	// Page number, 1-indexed
	Page int

	// Page size in points and the rotation used for the tables
	Width    float64
	Height   float64
	Rotation int

	// Tables in top-to-bottom order
	Tables []*model.Cell

	// Result carries the collected geometry and per-stage counts
	Result *tables.PageResult
}

// Extractor provides a fluent interface for reconstructing tables from a
// PDF. Each configuration method returns a new Extractor instance, making
// it safe to branch a base configuration and allowing method chaining.
type Extractor struct {
	// Source: a file name or an open reader
	filename string
	source   io.ReadSeeker

	doc *pdfsource.Document

	// Configuration
	options ExtractOptions

	// Accumulated error (fail-fast)
	err error
}

// clone creates a shallow copy of the Extractor with a deep copy of options.
func (e *Extractor) clone() *Extractor {
	return &Extractor{
		filename: e.filename,
		source:   e.source,
		doc:      e.doc,
		options:  e.options.clone(),
		err:      e.err,
	}
}

// ensureDocument reads the PDF if not already read.
func (e *Extractor) ensureDocument() error {
	if e.doc != nil {
		return nil
	}

	var (
		doc *pdfsource.Document
		err error
	)
	switch {
	case e.source != nil:
		doc, err = pdfsource.OpenReader(e.source)
	case e.filename != "":
		doc, err = pdfsource.Open(e.filename)
	default:
		return errors.New("no filename specified")
	}
	if err != nil {
		return fmt.Errorf("failed to open PDF: %w", err)
	}

	e.doc = doc
	return nil
}

// ============================================================================
// Configuration Methods (return new Extractor instance)
// ============================================================================

// Pages specifies which pages to extract from (1-indexed).
// Multiple calls are cumulative.
//
// Example:
//
//	pages, _, err := rulegrid.Open("doc.pdf").Pages(1, 3, 5).Tables()
func (e *Extractor) Pages(pages ...int) *Extractor {
	newExt := e.clone()
	newExt.options.pages = append(newExt.options.pages, pages...)
	return newExt
}

// PageRange specifies a range of pages to extract (1-indexed, inclusive).
//
// Example:
//
//	pages, _, err := rulegrid.Open("doc.pdf").PageRange(5, 10).Tables()
func (e *Extractor) PageRange(start, end int) *Extractor {
	newExt := e.clone()
	for i := start; i <= end; i++ {
		newExt.options.pages = append(newExt.options.pages, i)
	}
	return newExt
}

// Config replaces the reconstruction settings. The rotation in cfg is used
// for every page.
//
// Example:
//
//	cfg, err := tables.LoadConfigFile("rulegrid.yaml")
//	...
//	pages, _, err := rulegrid.Open("doc.pdf").Config(cfg).Tables()
func (e *Extractor) Config(cfg tables.Config) *Extractor {
	newExt := e.clone()
	if err := cfg.Validate(); err != nil && newExt.err == nil {
		newExt.err = err
	}
	newExt.options.config = cfg
	newExt.options.forceRotation = true
	return newExt
}

// Rotation forces the logical orientation of every page to 0 or 90
// degrees instead of following each page's Rotate entry.
//
// Example:
//
//	pages, _, err := rulegrid.Open("landscape.pdf").Rotation(90).Tables()
func (e *Extractor) Rotation(degrees int) *Extractor {
	newExt := e.clone()
	if err := model.CheckRotation(degrees); err != nil && newExt.err == nil {
		newExt.err = fmt.Errorf("rotation %d: %w", degrees, err)
	}
	newExt.options.config.Rotation = degrees
	newExt.options.forceRotation = true
	return newExt
}

// MaxHierarchy limits how deep sub-tables are nested.
func (e *Extractor) MaxHierarchy(depth int) *Extractor {
	newExt := e.clone()
	if depth < 1 && newExt.err == nil {
		newExt.err = fmt.Errorf("%w: max hierarchy %d", tables.ErrInvalidConfig, depth)
	}
	newExt.options.config.MaxHierarchy = depth
	return newExt
}

// Variance sets the coordinate tolerance in points.
func (e *Extractor) Variance(v float64) *Extractor {
	newExt := e.clone()
	if v < 0 && newExt.err == nil {
		newExt.err = fmt.Errorf("%w: variance %v", tables.ErrInvalidConfig, v)
	}
	newExt.options.config.Variance = v
	return newExt
}

// KeepStrikeThroughs disables the strike-through filter.
func (e *Extractor) KeepStrikeThroughs() *Extractor {
	newExt := e.clone()
	newExt.options.config.DetectStrikeThroughs = false
	return newExt
}

// KeepThinRects keeps rectangles thinner than the variance as rectangles
// instead of turning them into rulings.
func (e *Extractor) KeepThinRects() *Extractor {
	newExt := e.clone()
	newExt.options.config.TreatSmallRectAsLine = false
	return newExt
}

// Logger sets the logger for per-page debug output.
func (e *Extractor) Logger(l *slog.Logger) *Extractor {
	newExt := e.clone()
	newExt.options.logger = l
	return newExt
}

// ============================================================================
// Terminal Operations (execute extraction and return results)
// ============================================================================

// PageCount returns the number of pages in the document.
func (e *Extractor) PageCount() (int, error) {
	if e.err != nil {
		return 0, e.err
	}
	if err := e.ensureDocument(); err != nil {
		return 0, err
	}
	return e.doc.PageCount(), nil
}

// Tables reconstructs the tables of the configured pages.
//
// Returns one entry per page, in the order requested, any warnings
// encountered during processing, and an error if extraction failed.
// Malformed tables are returned as built and reported as warnings.
//
// Example:
//
//	pages, warnings, err := rulegrid.Open("document.pdf").Tables()
//	for _, p := range pages {
//	    fmt.Printf("page %d: %d tables\n", p.Page, len(p.Tables))
//	}
func (e *Extractor) Tables() ([]PageTables, []Warning, error) {
	if e.err != nil {
		return nil, nil, e.err
	}
	if err := e.ensureDocument(); err != nil {
		return nil, nil, err
	}

	numbers, err := e.pageNumbers()
	if err != nil {
		return nil, nil, err
	}

	var opts []tables.Option
	if e.options.logger != nil {
		opts = append(opts, tables.WithLogger(e.options.logger))
	}

	var (
		out      []PageTables
		warnings []Warning
	)
	for _, n := range numbers {
		page, err := e.doc.Page(n)
		if err != nil {
			return nil, warnings, err
		}

		cfg := e.options.config
		if !e.options.forceRotation {
			cfg.Rotation = page.TableRotation()
		}

		pageOpts := append([]tables.Option{tables.WithFonts(page.Fonts), tables.WithForms(page.Forms)}, opts...)
		res, err := tables.ExtractPage(page.Content, cfg, pageOpts...)
		if err != nil {
			return nil, warnings, fmt.Errorf("page %d: %w", n, err)
		}

		if res.UnbalancedRestores > 0 {
			warnings = append(warnings, Warning{
				Page:    n,
				Table:   -1,
				Kind:    WarningUnbalancedRestore,
				Message: fmt.Sprintf("%d restore operators without a matching save", res.UnbalancedRestores),
			})
		}
		for i, t := range res.Tables {
			if err := t.Validate(); err != nil {
				warnings = append(warnings, Warning{
					Page:    n,
					Table:   i,
					Kind:    WarningMalformedTable,
					Message: err.Error(),
				})
			}
		}

		out = append(out, PageTables{
			Page:     n,
			Width:    page.Width,
			Height:   page.Height,
			Rotation: cfg.Rotation,
			Tables:   res.Tables,
			Result:   res,
		})
	}

	return out, warnings, nil
}

// HTML reconstructs the tables of the configured pages and renders each
// as an HTML table, preceded by a comment naming its page. Malformed
// tables are skipped and reported as warnings.
//
// Example:
//
//	html, warnings, err := rulegrid.Open("document.pdf").Pages(1).HTML()
func (e *Extractor) HTML() (string, []Warning, error) {
	pages, warnings, err := e.Tables()
	if err != nil {
		return "", warnings, err
	}

	var sb strings.Builder
	for _, p := range pages {
		for i, t := range p.Tables {
			out, err := t.ToHTML()
			if err != nil {
				// already reported by Tables
				continue
			}
			fmt.Fprintf(&sb, "<!-- page %d table %d -->\n%s\n", p.Page, i, out)
		}
	}
	return sb.String(), warnings, nil
}

// pageNumbers returns the selected pages, or every page
func (e *Extractor) pageNumbers() ([]int, error) {
	count := e.doc.PageCount()
	if e.options.pages == nil {
		numbers := make([]int, count)
		for i := range numbers {
			numbers[i] = i + 1
		}
		return numbers, nil
	}

	for _, n := range e.options.pages {
		if n < 1 || n > count {
			return nil, fmt.Errorf("page %d out of range (document has %d pages)", n, count)
		}
	}
	return e.options.pages, nil
}
