package graphicsstate

import (
	"github.com/tsawler/rulegrid/model"
)

// PaintOp identifies how a buffered path is painted
type PaintOp int

const (
	// PaintNone ends the path without painting it (n operator, clipping)
	PaintNone PaintOp = iota
	// PaintStroke strokes the path
	PaintStroke
	// PaintFill fills the path
	PaintFill
	// PaintFillStroke fills and strokes the path
	PaintFillStroke
)

func (op PaintOp) String() string {
	switch op {
	case PaintNone:
		return "none"
	case PaintStroke:
		return "stroke"
	case PaintFill:
		return "fill"
	case PaintFillStroke:
		return "fill+stroke"
	default:
		return "unknown"
	}
}

// PathSink receives path construction and paint events from a content
// interpreter, in drawing order. Coordinates passed to BeginSubpath, LineTo
// and SetPendingRect are untransformed; the transform arrives with Paint.
type PathSink interface {
	BeginSubpath(p model.Point)
	LineTo(p model.Point)
	SetPendingRect(x, y, width, height float64)
	Paint(ctm model.Matrix, op PaintOp)
}

// CollectorStats counts the geometry a Collector dropped or converted.
// None of it is an error.
type CollectorStats struct {
	Oblique      int // segments that are neither horizontal nor vertical
	ZeroLength   int // segments whose endpoints coincide after rounding
	ZeroArea     int // rectangles with no extent in either direction
	RectsAsLines int // hairline rectangles stored as lines
	Discarded    int // events dropped by a PaintNone flush
}

// Dropped returns the number of primitives that produced no geometry.
func (s CollectorStats) Dropped() int {
	return s.Oblique + s.ZeroLength + s.ZeroArea + s.Discarded
}

type pathEvent struct {
	p    model.Point
	move bool
}

type pendingRect struct {
	x, y, w, h float64
}

// Collector is the PathSink that turns painted paths into axis-aligned
// rulings. Lines are stored canonical and rounded with model.FixAxis; Rects
// hold every painted rectangle that is not a hairline.
type Collector struct {
	// Variance is the extent below which a rectangle counts as a hairline.
	Variance float64

	// TreatSmallRectAsLine stores hairline rectangles as a single line.
	TreatSmallRectAsLine bool

	Lines []model.Line
	Rects []model.BBox
	Stats CollectorStats

	events  []pathEvent
	pending []pendingRect
}

// NewCollector creates a collector with the given hairline threshold
func NewCollector(variance float64, treatSmallRectAsLine bool) *Collector {
	return &Collector{
		Variance:             variance,
		TreatSmallRectAsLine: treatSmallRectAsLine,
		Lines:                make([]model.Line, 0),
		Rects:                make([]model.BBox, 0),
	}
}

// BeginSubpath queues a move to p
func (c *Collector) BeginSubpath(p model.Point) {
	c.events = append(c.events, pathEvent{p: p, move: true})
}

// LineTo queues a segment from the current point to p
func (c *Collector) LineTo(p model.Point) {
	c.events = append(c.events, pathEvent{p: p})
}

// SetPendingRect queues a rectangle. Negative extents are allowed.
func (c *Collector) SetPendingRect(x, y, width, height float64) {
	c.pending = append(c.pending, pendingRect{x: x, y: y, w: width, h: height})
}

// Paint transforms the buffered geometry with ctm and stores it. PaintNone
// drops the buffer.
func (c *Collector) Paint(ctm model.Matrix, op PaintOp) {
	defer c.reset()

	if op == PaintNone {
		c.Stats.Discarded += len(c.events) + len(c.pending)
		return
	}

	var cur model.Point
	hasCur := false
	for _, ev := range c.events {
		if ev.move || !hasCur {
			// a lineto without a current point behaves as a moveto
			cur, hasCur = ev.p, true
			continue
		}
		c.addSegment(ctm.Transform(cur), ctm.Transform(ev.p))
		cur = ev.p
	}

	for _, r := range c.pending {
		c.addRect(ctm, r)
	}
}

func (c *Collector) reset() {
	c.events = c.events[:0]
	c.pending = c.pending[:0]
}

func (c *Collector) addSegment(from, to model.Point) {
	line, ok := model.NewAxisLine(from, to)
	if ok {
		c.Lines = append(c.Lines, line)
		return
	}
	if model.FixAxis(from.X) == model.FixAxis(to.X) && model.FixAxis(from.Y) == model.FixAxis(to.Y) {
		c.Stats.ZeroLength++
	} else {
		c.Stats.Oblique++
	}
}

func (c *Collector) addRect(ctm model.Matrix, r pendingRect) {
	if r.w < 0 {
		r.x += r.w
		r.w = -r.w
	}
	if r.h < 0 {
		r.y += r.h
		r.h = -r.h
	}

	p1 := ctm.Transform(model.Point{X: r.x, Y: r.y})
	p2 := ctm.Transform(model.Point{X: r.x + r.w, Y: r.y + r.h})
	p1 = model.Point{X: model.FixAxis(p1.X), Y: model.FixAxis(p1.Y)}
	p2 = model.Point{X: model.FixAxis(p2.X), Y: model.FixAxis(p2.Y)}
	box := model.NewBBoxFromPoints(p1, p2)

	if box.Width == 0 && box.Height == 0 {
		c.Stats.ZeroArea++
		return
	}

	if c.TreatSmallRectAsLine {
		switch {
		case box.Width < c.Variance:
			c.Stats.RectsAsLines++
			c.addSegment(model.Point{X: box.Left(), Y: box.Bottom()}, model.Point{X: box.Left(), Y: box.Top()})
			return
		case box.Height < c.Variance:
			c.Stats.RectsAsLines++
			c.addSegment(model.Point{X: box.Left(), Y: box.Bottom()}, model.Point{X: box.Right(), Y: box.Bottom()})
			return
		}
	}

	if box.IsEmpty() {
		c.Stats.ZeroArea++
		return
	}
	c.Rects = append(c.Rects, box)
}
