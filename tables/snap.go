package tables

import (
	"math"
	"sort"
)

// axisSnapper maps coordinates on one axis onto a growing set of known
// values. Known values are kept sorted and are pairwise at least eps apart,
// so snapping a known value returns it unchanged.
type axisSnapper struct {
	eps  float64
	seen []float64
}

func newAxisSnapper(eps float64) *axisSnapper {
	return &axisSnapper{eps: eps}
}

// Snap returns v itself when it is known, else the nearest known value
// closer than eps, else registers v and returns it. On a tie the lower
// value wins.
func (s *axisSnapper) Snap(v float64) float64 {
	i := sort.SearchFloat64s(s.seen, v)
	if i < len(s.seen) && s.seen[i] == v {
		return v
	}

	best, bestDist := v, math.Inf(1)
	if i > 0 {
		if d := v - s.seen[i-1]; d < s.eps {
			best, bestDist = s.seen[i-1], d
		}
	}
	if i < len(s.seen) {
		if d := s.seen[i] - v; d < s.eps && d < bestDist {
			best, bestDist = s.seen[i], d
		}
	}
	if !math.IsInf(bestDist, 1) {
		return best
	}

	s.seen = append(s.seen, 0)
	copy(s.seen[i+1:], s.seen[i:])
	s.seen[i] = v
	return v
}

// Values returns the known values in ascending order
func (s *axisSnapper) Values() []float64 {
	out := make([]float64, len(s.seen))
	copy(out, s.seen)
	return out
}
