// Package render draws a page's rulings and reconstructed cells to a
// raster image, for checking reconstruction results by eye.
package render

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"io"
	"math"

	"github.com/disintegration/imaging"
	"github.com/lucasb-eyer/go-colorful"
	"golang.org/x/image/vector"

	"github.com/tsawler/rulegrid/model"
)

// maxDimension bounds the canvas side in pixels
const maxDimension = 16384

// ErrCanvasSize is returned when the page does not fit a canvas
var ErrCanvasSize = errors.New("render: invalid canvas size")

// Options controls skeleton rendering
type Options struct {
	// Scale in pixels per point; 0 means 1
	Scale float64

	// RulingWidth in pixels; 0 means 1
	RulingWidth float64

	// Background fill; nil means white
	Background color.Color

	// HideRects skips the outlines of collected rectangles
	HideRects bool
}

func (o Options) withDefaults() Options {
	if o.Scale <= 0 {
		o.Scale = 1
	}
	if o.RulingWidth <= 0 {
		o.RulingWidth = 1
	}
	if o.Background == nil {
		o.Background = color.White
	}
	return o
}

// Skeleton renders a page of the given size in points. Leaf cells are
// filled with one hue per table, darker with nesting depth, then the
// rulings and rectangle outlines are stroked in black on top. The returned
// image has its origin at the top left like any raster image.
func Skeleton(width, height float64, lines []model.Line, rects []model.BBox, tables []*model.Cell, opts Options) (image.Image, error) {
	opts = opts.withDefaults()

	w := int(math.Ceil(width * opts.Scale))
	h := int(math.Ceil(height * opts.Scale))
	if w <= 0 || h <= 0 || w > maxDimension || h > maxDimension {
		return nil, fmt.Errorf("%w: %dx%d pixels", ErrCanvasSize, w, h)
	}

	// drawn in PDF orientation, flipped at the end
	canvas := imaging.New(w, h, opts.Background)

	for i, table := range tables {
		hue := math.Mod(float64(i)*137.508, 360)
		table.Walk(func(cell *model.Cell, depth int) bool {
			if cell.IsLeaf() {
				fillBox(canvas, cell.Rectangle, opts.Scale, cellColor(hue, depth))
			}
			return true
		})
	}

	z := vector.NewRasterizer(w, h)
	for _, l := range lines {
		strokeLine(z, l, opts.Scale, opts.RulingWidth, w, h)
	}
	if !opts.HideRects {
		for _, r := range rects {
			for _, e := range r.Edges() {
				strokeLine(z, e, opts.Scale, opts.RulingWidth, w, h)
			}
		}
	}
	z.Draw(canvas, canvas.Bounds(), image.NewUniform(color.Black), image.Point{})

	return imaging.FlipV(canvas), nil
}

// cellColor returns a pastel for the table hue, darker for deeper cells
func cellColor(hue float64, depth int) color.Color {
	v := 0.95 - 0.08*float64(min(depth, 6))
	return colorful.Hsv(hue, 0.35, v).Clamped()
}

func fillBox(dst draw.Image, b model.BBox, scale float64, c color.Color) {
	r := image.Rect(
		int(math.Floor(b.Left()*scale)),
		int(math.Floor(b.Bottom()*scale)),
		int(math.Ceil(b.Right()*scale)),
		int(math.Ceil(b.Top()*scale)),
	)
	draw.Draw(dst, r.Intersect(dst.Bounds()), image.NewUniform(c), image.Point{}, draw.Src)
}

// strokeLine adds an axis-aligned ruling as a filled rectangle of the
// given pixel width, clipped to the w × h canvas
func strokeLine(z *vector.Rasterizer, l model.Line, scale, width float64, w, h int) {
	half := width / 2
	x0, y0 := l.Start.X*scale, l.Start.Y*scale
	x1, y1 := l.End.X*scale, l.End.Y*scale
	if l.IsVertical() {
		x0, x1 = x0-half, x1+half
	} else {
		y0, y1 = y0-half, y1+half
	}

	x0, x1 = clamp(x0, 0, float64(w)), clamp(x1, 0, float64(w))
	y0, y1 = clamp(y0, 0, float64(h)), clamp(y1, 0, float64(h))
	if x0 == x1 || y0 == y1 {
		return
	}

	z.MoveTo(float32(x0), float32(y0))
	z.LineTo(float32(x1), float32(y0))
	z.LineTo(float32(x1), float32(y1))
	z.LineTo(float32(x0), float32(y1))
	z.ClosePath()
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

// WritePNG encodes img as PNG
func WritePNG(w io.Writer, img image.Image) error {
	return imaging.Encode(w, img, imaging.PNG)
}

// SavePNG writes img to path as PNG
func SavePNG(path string, img image.Image) error {
	if err := imaging.Save(img, path); err != nil {
		return fmt.Errorf("save skeleton: %w", err)
	}
	return nil
}
