package model

import "math"

// Point represents a 2D point in page space (origin bottom-left, y up)
type Point struct {
	X, Y float64
}

// Less orders points lexicographically, by X then by Y
func (p Point) Less(other Point) bool {
	if p.X != other.X {
		return p.X < other.X
	}
	return p.Y < other.Y
}

// FixAxis rounds a coordinate to two decimal digits. Transform arithmetic
// leaves noise in the last bits that would otherwise defeat exact comparisons.
func FixAxis(v float64) float64 {
	return math.Round(v*100) / 100
}

// Line is an axis-aligned segment with Start <= End. Oblique segments are
// never represented.
type Line struct {
	Start Point
	End   Point
}

// NewAxisLine rounds both endpoints with FixAxis and returns the canonical
// line between them. ok is false when the segment is oblique or has zero
// length.
func NewAxisLine(a, b Point) (line Line, ok bool) {
	a = Point{X: FixAxis(a.X), Y: FixAxis(a.Y)}
	b = Point{X: FixAxis(b.X), Y: FixAxis(b.Y)}

	switch {
	case a.X == b.X && a.Y < b.Y, a.Y == b.Y && a.X < b.X:
		return Line{Start: a, End: b}, true
	case a.X == b.X && a.Y > b.Y, a.Y == b.Y && a.X > b.X:
		return Line{Start: b, End: a}, true
	default:
		return Line{}, false
	}
}

// IsVertical reports whether the endpoints share an X coordinate.
func (l Line) IsVertical() bool {
	return l.Start.X == l.End.X
}

// Length returns the length of the segment
func (l Line) Length() float64 {
	return math.Abs(l.End.X-l.Start.X) + math.Abs(l.End.Y-l.Start.Y)
}

// BBox represents a bounding box (rectangle)
type BBox struct {
	X      float64 // Left
	Y      float64 // Bottom (PDF coordinate system)
	Width  float64
	Height float64
}

// NewBBox creates a bounding box from coordinates
func NewBBox(x, y, width, height float64) BBox {
	return BBox{X: x, Y: y, Width: width, Height: height}
}

// NewBBoxFromPoints creates a bounding box from two opposite corners
func NewBBoxFromPoints(p1, p2 Point) BBox {
	x := math.Min(p1.X, p2.X)
	y := math.Min(p1.Y, p2.Y)
	width := math.Abs(p2.X - p1.X)
	height := math.Abs(p2.Y - p1.Y)
	return BBox{X: x, Y: y, Width: width, Height: height}
}

// Left returns the left edge X coordinate
func (b BBox) Left() float64 {
	return b.X
}

// Right returns the right edge X coordinate
func (b BBox) Right() float64 {
	return b.X + b.Width
}

// Bottom returns the bottom edge Y coordinate
func (b BBox) Bottom() float64 {
	return b.Y
}

// Top returns the top edge Y coordinate
func (b BBox) Top() float64 {
	return b.Y + b.Height
}

// Corners returns the four corners: bottom-left, top-left, bottom-right, top-right
func (b BBox) Corners() [4]Point {
	return [4]Point{
		{X: b.Left(), Y: b.Bottom()},
		{X: b.Left(), Y: b.Top()},
		{X: b.Right(), Y: b.Bottom()},
		{X: b.Right(), Y: b.Top()},
	}
}

// Edges returns the four sides as canonical lines: bottom, top, left, right
func (b BBox) Edges() [4]Line {
	c := b.Corners()
	return [4]Line{
		{Start: c[0], End: c[2]},
		{Start: c[1], End: c[3]},
		{Start: c[0], End: c[1]},
		{Start: c[2], End: c[3]},
	}
}

// Contains checks if a point is inside the bounding box
func (b BBox) Contains(p Point) bool {
	return p.X >= b.Left() && p.X <= b.Right() &&
		p.Y >= b.Bottom() && p.Y <= b.Top()
}

// Union returns the union of two bounding boxes
func (b BBox) Union(other BBox) BBox {
	x := math.Min(b.Left(), other.Left())
	y := math.Min(b.Bottom(), other.Bottom())
	right := math.Max(b.Right(), other.Right())
	top := math.Max(b.Top(), other.Top())

	return BBox{
		X:      x,
		Y:      y,
		Width:  right - x,
		Height: top - y,
	}
}

// Area returns the area of the bounding box
func (b BBox) Area() float64 {
	return b.Width * b.Height
}

// Expand expands the bounding box by a margin on all sides
func (b BBox) Expand(margin float64) BBox {
	return BBox{
		X:      b.X - margin,
		Y:      b.Y - margin,
		Width:  b.Width + 2*margin,
		Height: b.Height + 2*margin,
	}
}

// IsEmpty returns true if the bounding box has zero area
func (b BBox) IsEmpty() bool {
	return b.Width <= 0 || b.Height <= 0
}

// Matrix represents a 2D affine transformation matrix [a b c d e f].
// Points are row vectors: p' = p × M.
type Matrix [6]float64

// Identity returns an identity matrix
func Identity() Matrix {
	return Matrix{1, 0, 0, 1, 0, 0}
}

// Transform applies the matrix transformation to a point
func (m Matrix) Transform(p Point) Point {
	return Point{
		X: m[0]*p.X + m[2]*p.Y + m[4],
		Y: m[1]*p.X + m[3]*p.Y + m[5],
	}
}

// Multiply returns m × other, i.e. m applied first, then other
func (m Matrix) Multiply(other Matrix) Matrix {
	return Matrix{
		m[0]*other[0] + m[1]*other[2],
		m[0]*other[1] + m[1]*other[3],
		m[2]*other[0] + m[3]*other[2],
		m[2]*other[1] + m[3]*other[3],
		m[4]*other[0] + m[5]*other[2] + other[4],
		m[4]*other[1] + m[5]*other[3] + other[5],
	}
}

// Translate creates a translation matrix
func Translate(tx, ty float64) Matrix {
	return Matrix{1, 0, 0, 1, tx, ty}
}

// Scale creates a scaling matrix
func Scale(sx, sy float64) Matrix {
	return Matrix{sx, 0, 0, sy, 0, 0}
}

// Rotate creates a rotation matrix (angle in radians)
func Rotate(angle float64) Matrix {
	cos := math.Cos(angle)
	sin := math.Sin(angle)
	return Matrix{cos, sin, -sin, cos, 0, 0}
}

// IsIdentity returns true if the matrix is an identity matrix
func (m Matrix) IsIdentity() bool {
	return m[0] == 1 && m[1] == 0 && m[2] == 0 && m[3] == 1 && m[4] == 0 && m[5] == 0
}
