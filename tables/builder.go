package tables

import (
	"math"

	"github.com/tsawler/rulegrid/model"
)

// breakEpsilon absorbs float noise when matching edges during the break
// walks. Rectangle edges come from snapped points and match exactly.
const breakEpsilon = 1e-6

// Builder assembles reconstructed rectangles into a cell tree
type Builder struct {
	Config  Config
	Locator TextLocator
}

// Build returns the cell tree for the rectangles of one table. rects must
// not be empty.
//
// The column breaks are found by walking right from the left edge: all
// rectangles starting at the current X are merged and the walk continues
// at the furthest right edge among them. Rows are found the same way
// walking down from the top. Every grid slot then takes the rectangles it
// contains (within Variance) and is built recursively. A slot without
// rectangles produces no child, so sparse tables come out with fewer
// children than slots and fail Cell.Validate.
//
// A single rectangle, or any set at MaxHierarchy levels deep, becomes a
// leaf whose text is looked up over its bounds.
func (b Builder) Build(rects []model.BBox) *model.Cell {
	return b.build(rects, 0)
}

func (b Builder) build(rects []model.BBox, level int) *model.Cell {
	cell := model.NewCell(b.Config.Rotation)

	bounds := rects[0]
	for _, r := range rects[1:] {
		bounds = bounds.Union(r)
	}
	cell.Rectangle = bounds
	cell.ColumnBreaks = columnBreaks(rects, bounds)
	cell.RowBreaks = rowBreaks(rects, bounds)

	if len(rects) == 1 || level >= b.Config.MaxHierarchy {
		if b.Locator != nil {
			cell.Text = b.Locator.LookupText(bounds, b.Config.Variance)
		}
		return cell
	}

	for i := range cell.RowBreaks {
		for j := range cell.ColumnBreaks {
			slot := slotBounds(cell, bounds, i, j)
			var inside []model.BBox
			for _, r := range rects {
				if containsWithin(slot, r, b.Config.Variance) {
					inside = append(inside, r)
				}
			}
			if len(inside) > 0 {
				cell.Children = append(cell.Children, b.build(inside, level+1))
			}
		}
	}

	return cell
}

// columnBreaks walks left to right and returns the left edge of each column
func columnBreaks(rects []model.BBox, bounds model.BBox) []float64 {
	x := bounds.Left()
	breaks := []float64{x}

	maxLeft := math.Inf(-1)
	for _, r := range rects {
		maxLeft = math.Max(maxLeft, r.Left())
	}

	for x < maxLeft-breakEpsilon {
		next, found := x, false
		for _, r := range rects {
			if math.Abs(r.Left()-x) < breakEpsilon {
				next = math.Max(next, r.Right())
				found = true
			}
		}
		if !found {
			// no rectangle starts here; resume at the nearest left edge
			next = math.Inf(1)
			for _, r := range rects {
				if r.Left() > x+breakEpsilon {
					next = math.Min(next, r.Left())
				}
			}
		}
		if next <= x {
			break
		}
		x = next
		if x < bounds.Right()-breakEpsilon {
			breaks = append(breaks, x)
		}
	}

	return breaks
}

// rowBreaks walks top to bottom and returns the top edge of each row
func rowBreaks(rects []model.BBox, bounds model.BBox) []float64 {
	y := bounds.Top()
	breaks := []float64{y}

	minTop := math.Inf(1)
	for _, r := range rects {
		minTop = math.Min(minTop, r.Top())
	}

	for y > minTop+breakEpsilon {
		next, found := y, false
		for _, r := range rects {
			if math.Abs(r.Top()-y) < breakEpsilon {
				next = math.Min(next, r.Bottom())
				found = true
			}
		}
		if !found {
			next = math.Inf(-1)
			for _, r := range rects {
				if r.Top() < y-breakEpsilon {
					next = math.Max(next, r.Top())
				}
			}
		}
		if next >= y {
			break
		}
		y = next
		if y > bounds.Bottom()+breakEpsilon {
			breaks = append(breaks, y)
		}
	}

	return breaks
}

// slotBounds returns the bounds of grid slot (row i, column j)
func slotBounds(cell *model.Cell, bounds model.BBox, i, j int) model.BBox {
	left := cell.ColumnBreaks[j]
	right := bounds.Right()
	if j+1 < len(cell.ColumnBreaks) {
		right = cell.ColumnBreaks[j+1]
	}
	top := cell.RowBreaks[i]
	bottom := bounds.Bottom()
	if i+1 < len(cell.RowBreaks) {
		bottom = cell.RowBreaks[i+1]
	}
	return model.NewBBox(left, bottom, right-left, top-bottom)
}

// containsWithin reports whether inner lies inside outer, each edge allowed
// to overshoot by strictly less than variance. A rectangle exactly variance
// wide next to a slot therefore stays out of it.
func containsWithin(outer, inner model.BBox, variance float64) bool {
	return inner.Left() > outer.Left()-variance &&
		inner.Right() < outer.Right()+variance &&
		inner.Bottom() > outer.Bottom()-variance &&
		inner.Top() < outer.Top()+variance
}
