package tables

import (
	"sort"

	"github.com/tsawler/rulegrid/model"
)

// ExtractPoints returns the grid vertices defined by lines and rectangles:
// every endpoint and corner plus every crossing of a horizontal and a
// vertical ruling, snapped with SnapPoints.
func ExtractPoints(lines []model.Line, rects []model.BBox, variance float64) []model.Point {
	candidates := make([]model.Point, 0, 2*len(lines)+4*len(rects))
	rulings := make([]model.Line, 0, len(lines)+4*len(rects))

	for _, l := range lines {
		candidates = append(candidates, l.Start, l.End)
		rulings = append(rulings, l)
	}
	for _, r := range rects {
		c := r.Corners()
		candidates = append(candidates, c[:]...)
		e := r.Edges()
		rulings = append(rulings, e[:]...)
	}

	candidates = append(candidates, crossings(rulings)...)
	return SnapPoints(candidates, variance)
}

// crossings returns the points where a vertical ruling passes strictly
// through the interior of a horizontal one
func crossings(rulings []model.Line) []model.Point {
	var horizontals, verticals []model.Line
	for _, l := range rulings {
		if l.IsVertical() {
			verticals = append(verticals, l)
		} else {
			horizontals = append(horizontals, l)
		}
	}

	var points []model.Point
	for _, h := range horizontals {
		y := h.Start.Y
		for _, v := range verticals {
			x := v.Start.X
			if x > h.Start.X && x < h.End.X && y > v.Start.Y && y < v.End.Y {
				points = append(points, model.Point{X: x, Y: y})
			}
		}
	}
	return points
}

// SnapPoints aligns coordinates that lie within variance of each other onto
// a single value per axis, removes exact duplicates, and sorts the result
// top row first, left to right. Running it on its own output is a no-op.
func SnapPoints(points []model.Point, variance float64) []model.Point {
	xs := newAxisSnapper(variance)
	ys := newAxisSnapper(variance)

	seen := make(map[model.Point]struct{}, len(points))
	out := make([]model.Point, 0, len(points))
	for _, p := range points {
		q := model.Point{X: xs.Snap(p.X), Y: ys.Snap(p.Y)}
		if _, dup := seen[q]; dup {
			continue
		}
		seen[q] = struct{}{}
		out = append(out, q)
	}

	sortReadingOrder(out)
	return out
}

// sortReadingOrder sorts by Y descending, then X ascending
func sortReadingOrder(points []model.Point) {
	sort.Slice(points, func(i, j int) bool {
		if points[i].Y != points[j].Y {
			return points[i].Y > points[j].Y
		}
		return points[i].X < points[j].X
	})
}
