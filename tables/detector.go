package tables

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/tsawler/rulegrid/contentstream"
	"github.com/tsawler/rulegrid/font"
	"github.com/tsawler/rulegrid/graphicsstate"
	"github.com/tsawler/rulegrid/model"
	"github.com/tsawler/rulegrid/text"
)

// TextLocator returns the text drawn inside rect grown by tolerance
type TextLocator interface {
	LookupText(rect model.BBox, tolerance float64) string
}

// Option configures a Detector
type Option func(*Detector)

// WithLocator sets the text source for leaf cells. Without one, leaves
// have empty text.
func WithLocator(l TextLocator) Option {
	return func(d *Detector) {
		d.locator = l
	}
}

// WithLogger sets the logger for per-stage debug output
func WithLogger(l *slog.Logger) Option {
	return func(d *Detector) {
		if l != nil {
			d.logger = l
		}
	}
}

// WithFonts sets the ToUnicode maps of the page's fonts, by resource name.
// ExtractPage decodes text shown in these fonts through them.
func WithFonts(cmaps map[string]*font.CMap) Option {
	return func(d *Detector) {
		d.cmaps = cmaps
	}
}

// WithForms sets the page's form XObjects, by resource name. ExtractPage
// draws their rulings and text wherever the page invokes them with Do.
func WithForms(forms map[string]contentstream.Form) Option {
	return func(d *Detector) {
		d.forms = forms
	}
}

// maxFormDepth bounds the nesting of forms drawn from forms
const maxFormDepth = 8

// Stats holds per-stage counts of one page
type Stats struct {
	Lines          int // rulings collected
	Rects          int // rectangles collected
	StrikeThroughs int // rulings removed by the strike-through filter
	Points         int // grid points after snapping
	Groups         int // point groups
	Rectangles     int // reconstructed cells over all groups
	Tables         int // groups that produced a table

	Collector graphicsstate.CollectorStats
}

// Result is the outcome of reconstructing one page
type Result struct {
	// Lines after strike-through filtering, and the collected rectangles
	Lines []model.Line
	Rects []model.BBox

	// Tables in top-to-bottom page order
	Tables []*model.Cell

	Stats Stats
}

// Detector reconstructs the ruled tables of a single page. Feed the page's
// paths into Collector, then call Tables. A Detector must not be reused
// across pages.
type Detector struct {
	cfg       Config
	locator   TextLocator
	logger    *slog.Logger
	collector *graphicsstate.Collector
	result    *Result

	// page resources, used by ExtractPage
	cmaps map[string]*font.CMap
	forms map[string]contentstream.Form
}

// NewDetector creates a detector for one page. It fails when cfg does not
// validate.
func NewDetector(cfg Config, opts ...Option) (*Detector, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	d := &Detector{
		cfg:       cfg,
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
		collector: graphicsstate.NewCollector(cfg.Variance, cfg.TreatSmallRectAsLine),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d, nil
}

// Config returns the detector configuration
func (d *Detector) Config() Config {
	return d.cfg
}

// Collector returns the sink that receives the page's path events
func (d *Detector) Collector() *graphicsstate.Collector {
	return d.collector
}

// Tables runs the reconstruction over everything collected so far and
// returns one cell tree per independent table.
func (d *Detector) Tables() []*model.Cell {
	res := &Result{
		Rects: d.collector.Rects,
		Stats: Stats{
			Lines:     len(d.collector.Lines),
			Rects:     len(d.collector.Rects),
			Collector: d.collector.Stats,
		},
	}

	lines := append([]model.Line(nil), d.collector.Lines...)
	if d.cfg.DetectStrikeThroughs {
		lines, res.Stats.StrikeThroughs = RemoveStrikeThroughs(lines, d.cfg.Rotation, d.cfg.Variance)
	}
	res.Lines = lines

	points := ExtractPoints(lines, res.Rects, d.cfg.Variance)
	groups := GroupPoints(points)
	res.Stats.Points = len(points)
	res.Stats.Groups = len(groups)

	builder := Builder{Config: d.cfg, Locator: d.locator}
	for i, group := range groups {
		rects := ReconstructRectangles(group)
		if len(rects) == 0 {
			d.logger.Debug("group closes no cell", "group", i, "points", len(group))
			continue
		}
		res.Stats.Rectangles += len(rects)
		res.Tables = append(res.Tables, builder.Build(rects))
	}
	res.Stats.Tables = len(res.Tables)

	d.logger.Debug("reconstructed tables",
		"lines", res.Stats.Lines,
		"rects", res.Stats.Rects,
		"strike_throughs", res.Stats.StrikeThroughs,
		"points", res.Stats.Points,
		"groups", res.Stats.Groups,
		"cells", res.Stats.Rectangles,
		"tables", res.Stats.Tables,
		"dropped", res.Stats.Collector.Dropped(),
	)

	d.result = res
	return res.Tables
}

// Result returns the outcome of the last Tables call, or nil before it
func (d *Detector) Result() *Result {
	return d.result
}

// PageResult is the outcome of ExtractPage
type PageResult struct {
	*Result

	// Chunks holds the page text used for cell lookups
	Chunks []text.Chunk

	// UnbalancedRestores counts Q operators without a matching q
	UnbalancedRestores int
}

// ExtractPage reconstructs the tables of one page from its decoded content
// stream. Leaf text comes from the page's own text operators unless
// WithLocator supplies another source. Form XObjects given by WithForms
// are drawn in place.
func ExtractPage(content []byte, cfg Config, opts ...Option) (*PageResult, error) {
	d, err := NewDetector(cfg, opts...)
	if err != nil {
		return nil, err
	}

	ops, err := contentstream.NewParser(content).Parse()
	if err != nil {
		return nil, fmt.Errorf("parse content stream: %w", err)
	}
	ops, err = contentstream.ExpandForms(ops, d.forms, maxFormDepth)
	if err != nil {
		return nil, fmt.Errorf("expand forms: %w", err)
	}

	tx := text.NewExtractor()
	for name, cm := range d.cmaps {
		tx.RegisterCMap(name, cm)
	}
	chunks, err := tx.Extract(ops)
	if err != nil {
		return nil, fmt.Errorf("extract text: %w", err)
	}
	if d.locator == nil {
		d.locator = text.NewChunkLocator(chunks)
	}

	ge := graphicsstate.NewGraphicsExtractor(d.Collector())
	if err := ge.Extract(ops); err != nil {
		return nil, fmt.Errorf("extract graphics: %w", err)
	}
	d.Tables()

	return &PageResult{
		Result:             d.Result(),
		Chunks:             chunks,
		UnbalancedRestores: ge.UnbalancedRestores,
	}, nil
}
