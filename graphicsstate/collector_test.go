package graphicsstate

import (
	"testing"

	"github.com/tsawler/rulegrid/model"
)

func pt(x, y float64) model.Point {
	return model.Point{X: x, Y: y}
}

func TestCollectorSegments(t *testing.T) {
	tests := []struct {
		name  string
		build func(c *Collector)
		want  []model.Line
		stats CollectorStats
	}{
		{
			name: "horizontal",
			build: func(c *Collector) {
				c.BeginSubpath(pt(0, 10))
				c.LineTo(pt(50, 10))
			},
			want: []model.Line{{Start: pt(0, 10), End: pt(50, 10)}},
		},
		{
			name: "reversed vertical is canonicalized",
			build: func(c *Collector) {
				c.BeginSubpath(pt(5, 80))
				c.LineTo(pt(5, 0))
			},
			want: []model.Line{{Start: pt(5, 0), End: pt(5, 80)}},
		},
		{
			name: "polyline yields every segment",
			build: func(c *Collector) {
				c.BeginSubpath(pt(0, 0))
				c.LineTo(pt(10, 0))
				c.LineTo(pt(10, 10))
				c.LineTo(pt(0, 10))
			},
			want: []model.Line{
				{Start: pt(0, 0), End: pt(10, 0)},
				{Start: pt(10, 0), End: pt(10, 10)},
				{Start: pt(0, 10), End: pt(10, 10)},
			},
		},
		{
			name: "oblique dropped",
			build: func(c *Collector) {
				c.BeginSubpath(pt(0, 0))
				c.LineTo(pt(10, 10))
			},
			stats: CollectorStats{Oblique: 1},
		},
		{
			name: "zero length dropped",
			build: func(c *Collector) {
				c.BeginSubpath(pt(3, 3))
				c.LineTo(pt(3.001, 3))
			},
			stats: CollectorStats{ZeroLength: 1},
		},
		{
			name: "lineto without moveto starts the path",
			build: func(c *Collector) {
				c.LineTo(pt(0, 0))
				c.LineTo(pt(0, 20))
			},
			want: []model.Line{{Start: pt(0, 0), End: pt(0, 20)}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewCollector(2, true)
			tt.build(c)
			c.Paint(model.Identity(), PaintStroke)

			if len(c.Lines) != len(tt.want) {
				t.Fatalf("got %d lines %+v, want %d", len(c.Lines), c.Lines, len(tt.want))
			}
			for i := range tt.want {
				if c.Lines[i] != tt.want[i] {
					t.Errorf("line %d = %+v, want %+v", i, c.Lines[i], tt.want[i])
				}
			}
			if c.Stats != tt.stats {
				t.Errorf("stats = %+v, want %+v", c.Stats, tt.stats)
			}
		})
	}
}

func TestCollectorAppliesTransformAtPaint(t *testing.T) {
	c := NewCollector(2, true)
	c.BeginSubpath(pt(0, 0))
	c.LineTo(pt(10, 0))

	// quarter turn plus offset; rounding absorbs the cos(pi/2) noise
	m := model.Rotate(1.5707963267948966).Multiply(model.Translate(100, 100))
	c.Paint(m, PaintStroke)

	want := model.Line{Start: pt(100, 100), End: pt(100, 110)}
	if len(c.Lines) != 1 || c.Lines[0] != want {
		t.Errorf("lines = %+v, want [%+v]", c.Lines, want)
	}
}

func TestCollectorCanonicalOrdering(t *testing.T) {
	c := NewCollector(2, true)
	m := model.Matrix{1.5, 0, 0, -1.5, 13.37, 842}
	coords := [][4]float64{
		{0, 0, 100, 0}, {100, 0, 0, 0}, {7, 50, 7, -20},
		{3, 3, 9, 11}, {40.333, 1, 40.333, 99}, {-5, 8, 12, 8},
	}
	for _, c4 := range coords {
		c.BeginSubpath(pt(c4[0], c4[1]))
		c.LineTo(pt(c4[2], c4[3]))
	}
	c.SetPendingRect(10, 10, -30, 40)
	c.Paint(m, PaintStroke)

	if c.Stats.Oblique != 1 {
		t.Errorf("Oblique = %d, want 1", c.Stats.Oblique)
	}
	for _, l := range c.Lines {
		if l.End.Less(l.Start) {
			t.Errorf("line %+v is not canonical", l)
		}
		if l.Start.X != l.End.X && l.Start.Y != l.End.Y {
			t.Errorf("line %+v is diagonal", l)
		}
	}
}

func TestCollectorRectangles(t *testing.T) {
	tests := []struct {
		name      string
		rect      [4]float64
		ctm       model.Matrix
		asLine    bool
		wantRects []model.BBox
		wantLines []model.Line
	}{
		{
			name:      "plain",
			rect:      [4]float64{10, 20, 100, 50},
			ctm:       model.Identity(),
			asLine:    true,
			wantRects: []model.BBox{{X: 10, Y: 20, Width: 100, Height: 50}},
		},
		{
			name:      "negative extents normalized",
			rect:      [4]float64{110, 70, -100, -50},
			ctm:       model.Identity(),
			asLine:    true,
			wantRects: []model.BBox{{X: 10, Y: 20, Width: 100, Height: 50}},
		},
		{
			name:      "flipped by transform",
			rect:      [4]float64{10, 20, 100, 50},
			ctm:       model.Matrix{1, 0, 0, -1, 0, 200},
			asLine:    true,
			wantRects: []model.BBox{{X: 10, Y: 130, Width: 100, Height: 50}},
		},
		{
			name:      "thin vertical becomes line",
			rect:      [4]float64{50, 0, 0.5, 100},
			ctm:       model.Identity(),
			asLine:    true,
			wantLines: []model.Line{{Start: pt(50, 0), End: pt(50, 100)}},
		},
		{
			name:      "thin horizontal becomes line",
			rect:      [4]float64{0, 30, 80, 1},
			ctm:       model.Identity(),
			asLine:    true,
			wantLines: []model.Line{{Start: pt(0, 30), End: pt(80, 30)}},
		},
		{
			name:      "thin vertical kept when disabled",
			rect:      [4]float64{50, 0, 0.5, 100},
			ctm:       model.Identity(),
			asLine:    false,
			wantRects: []model.BBox{{X: 50, Y: 0, Width: 0.5, Height: 100}},
		},
		{
			name:   "zero area dropped",
			rect:   [4]float64{5, 5, 0, 0},
			ctm:    model.Identity(),
			asLine: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewCollector(2, tt.asLine)
			c.SetPendingRect(tt.rect[0], tt.rect[1], tt.rect[2], tt.rect[3])
			c.Paint(tt.ctm, PaintFill)

			if len(c.Rects) != len(tt.wantRects) || len(c.Lines) != len(tt.wantLines) {
				t.Fatalf("got rects %+v lines %+v", c.Rects, c.Lines)
			}
			for i, r := range tt.wantRects {
				if c.Rects[i] != r {
					t.Errorf("rect %d = %+v, want %+v", i, c.Rects[i], r)
				}
			}
			for i, l := range tt.wantLines {
				if c.Lines[i] != l {
					t.Errorf("line %d = %+v, want %+v", i, c.Lines[i], l)
				}
				if l.Length() != c.Lines[i].Length() {
					t.Errorf("line %d length = %v", i, c.Lines[i].Length())
				}
			}
		})
	}
}

func TestCollectorMultipleRectsPerPaint(t *testing.T) {
	c := NewCollector(2, true)
	c.SetPendingRect(0, 0, 10, 10)
	c.SetPendingRect(10, 0, 10, 10)
	c.SetPendingRect(20, 0, 10, 10)
	c.Paint(model.Identity(), PaintFill)

	if len(c.Rects) != 3 {
		t.Errorf("got %d rects, want 3", len(c.Rects))
	}
}

func TestCollectorPaintNoneDiscards(t *testing.T) {
	c := NewCollector(2, true)
	c.BeginSubpath(pt(0, 0))
	c.LineTo(pt(100, 0))
	c.SetPendingRect(0, 0, 100, 100)
	c.Paint(model.Identity(), PaintNone)

	if len(c.Lines) != 0 || len(c.Rects) != 0 {
		t.Errorf("clip path produced geometry: %+v %+v", c.Lines, c.Rects)
	}
	if c.Stats.Discarded != 3 || c.Stats.Dropped() != 3 {
		t.Errorf("stats = %+v", c.Stats)
	}

	// the buffer is empty for the next paint
	c.Paint(model.Identity(), PaintStroke)
	if len(c.Lines) != 0 {
		t.Errorf("discarded events were replayed: %+v", c.Lines)
	}
}

func TestPaintOpString(t *testing.T) {
	if PaintFillStroke.String() != "fill+stroke" || PaintOp(99).String() != "unknown" {
		t.Error("PaintOp.String mismatch")
	}
}
