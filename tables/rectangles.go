package tables

import "github.com/tsawler/rulegrid/model"

// ReconstructRectangles finds the finest closed cells among points sorted
// in reading order (see SnapPoints). Each point is tried as an upper-left
// corner; the scan looks right along its row for an upper-right corner,
// then below for a lower-left corner in the same column and a lower-right
// corner under the upper-right one. A found cell moves the upper-left
// cursor to the upper-right corner. Reaching a new row moves it to the
// first point of that row.
//
// The scan is greedy. When several points lie on one ruling a valid cell
// can be missed, and points that never close a cell are dropped.
func ReconstructRectangles(points []model.Point) []model.BBox {
	n := len(points)
	var rects []model.BBox

	ul := 0
	for ul < n-3 {
		made := false
		ur := ul + 1
		for !made {
			if ur >= n-2 {
				return rects
			}
			upperLeft, upperRight := points[ul], points[ur]

			if upperLeft.X < upperRight.X && upperLeft.Y == upperRight.Y {
				ll := ur + 1
				for ll < n-1 && !made {
					for ll < n-1 && points[ll].X != upperLeft.X {
						ll++
					}
					if ll == n-1 {
						break
					}

					lowerLeft := points[ll]
					for lr := ll + 1; lr < n; lr++ {
						if points[lr].X == upperRight.X && points[lr].Y == lowerLeft.Y {
							made = true
							rects = append(rects, model.NewBBoxFromPoints(lowerLeft, upperRight))
							ul = ur
							break
						}
					}
					ll++
				}
			} else {
				ul = ur
				break
			}
			ur++
		}
	}

	return rects
}
