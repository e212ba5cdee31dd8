// Package model provides the geometry and table-tree types shared by the
// ruling collector and the table reconstruction pipeline.
//
// # Geometry
//
//   - [Point] - a page-space point (origin bottom-left, y up)
//   - [Line] - an axis-aligned segment in canonical order, see [NewAxisLine]
//   - [BBox] - an axis-aligned rectangle (left, bottom, width, height)
//   - [Matrix] - a 2D affine transformation matrix
//
// # Tables
//
// A reconstructed table is a tree of [Cell] values. Every non-leaf cell owns
// a grid described by its column and row breaks and holds one child per grid
// slot in row-major order:
//
//	cell, err := table.Get(row, col)
//	if errors.Is(err, model.ErrMalformedTable) {
//	    // the rulings did not close every slot of the grid
//	}
//
// [Cell.Get] honours the page rotation: on a page rotated by 90 degrees the
// logical rows run along the X axis. [Cell.ToHTML] serializes the tree as
// nested HTML tables.
package model
