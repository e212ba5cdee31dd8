package tables

import "github.com/tsawler/rulegrid/model"

type pointGroup struct {
	points []model.Point
	xs     map[float64]struct{}
	ys     map[float64]struct{}
}

func (g *pointGroup) add(p model.Point) {
	g.points = append(g.points, p)
	g.xs[p.X] = struct{}{}
	g.ys[p.Y] = struct{}{}
}

func (g *pointGroup) touches(p model.Point) bool {
	_, x := g.xs[p.X]
	_, y := g.ys[p.Y]
	return x || y
}

// GroupPoints splits snapped points into independent tables. Each point
// joins the first group holding a point with the same X or the same Y;
// otherwise it starts a new group. Given points in reading order, groups
// come out in top-to-bottom page order and keep that order internally.
func GroupPoints(points []model.Point) [][]model.Point {
	var groups []*pointGroup
	seen := make(map[model.Point]struct{}, len(points))

	for _, p := range points {
		if _, dup := seen[p]; dup {
			continue
		}
		seen[p] = struct{}{}

		joined := false
		for _, g := range groups {
			if g.touches(p) {
				g.add(p)
				joined = true
				break
			}
		}
		if !joined {
			g := &pointGroup{xs: make(map[float64]struct{}), ys: make(map[float64]struct{})}
			g.add(p)
			groups = append(groups, g)
		}
	}

	out := make([][]model.Point, len(groups))
	for i, g := range groups {
		out[i] = g.points
	}
	return out
}
