package tables

import (
	"math"
	"sort"

	"github.com/tsawler/rulegrid/model"
)

const (
	// Two gaps belong to the same cluster when they differ by less than this
	strikeGapTolerance = 0.5

	// A dense run must have an average gap below maxStrikeGap and more than
	// minStrikeRun members to be treated as strike-through
	maxStrikeGap = 12.0
	minStrikeRun = 4
)

// gapCluster is a running mean of similar gaps
type gapCluster struct {
	avg   float64
	count int
}

// RemoveStrikeThroughs removes dense runs of evenly spaced text-direction
// rulings, which some producers emit to strike text out. It returns the
// remaining lines and the number removed.
//
// The detection is approximate: the most common gap between distinct
// ruling positions is found, and when it is small and frequent enough every
// pair of rulings separated by it is dropped. The outermost positions are
// kept since they border the table. On a page rotated by 90 degrees the X
// positions of vertical rulings are inspected.
func RemoveStrikeThroughs(lines []model.Line, rotation int, variance float64) ([]model.Line, int) {
	axis := func(p model.Point) float64 {
		if rotation == 90 {
			return p.X
		}
		return p.Y
	}
	// lines are exactly axis aligned, so a short perpendicular ruling
	// never counts as a text-direction position
	isTextDirection := func(l model.Line) bool {
		return l.IsVertical() == (rotation == 90)
	}

	var positions []float64
	for _, l := range lines {
		if !isTextDirection(l) {
			continue
		}
		if !containsNear(positions, axis(l.Start), variance) {
			positions = append(positions, axis(l.Start))
		}
	}
	if len(positions) < 2 {
		return lines, 0
	}
	sort.Float64s(positions)

	var clusters []gapCluster
	for i := 0; i+1 < len(positions); i++ {
		gap := positions[i+1] - positions[i]
		matched := false
		for j := range clusters {
			if math.Abs(gap-clusters[j].avg) < strikeGapTolerance {
				c := &clusters[j]
				c.avg = (c.avg*float64(c.count) + gap) / float64(c.count+1)
				c.count++
				matched = true
				break
			}
		}
		if !matched {
			clusters = append(clusters, gapCluster{avg: gap, count: 1})
		}
	}

	best := clusters[0]
	for _, c := range clusters[1:] {
		if c.count > best.count {
			best = c
		}
	}
	if best.avg >= maxStrikeGap || best.count <= minStrikeRun {
		return lines, 0
	}

	var strikes []float64
	for i := 1; i < len(positions)-2; i++ {
		if math.Abs(positions[i+1]-positions[i]-best.avg) < strikeGapTolerance {
			strikes = append(strikes, positions[i], positions[i+1])
		}
	}
	if len(strikes) == 0 {
		return lines, 0
	}

	kept := make([]model.Line, 0, len(lines))
	for _, l := range lines {
		if isTextDirection(l) && containsNear(strikes, axis(l.Start), variance) {
			continue
		}
		kept = append(kept, l)
	}
	return kept, len(lines) - len(kept)
}

// nearlyEqual reports whether x1 and x2 are diff apart, within variance
func nearlyEqual(x1, x2, diff, variance float64) bool {
	return x1 == x2 || math.Abs(math.Abs(x1-x2)-diff) < variance
}

func containsNear(values []float64, v, variance float64) bool {
	for _, x := range values {
		if nearlyEqual(x, v, 0, variance) {
			return true
		}
	}
	return false
}
