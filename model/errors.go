package model

import (
	"errors"
	"fmt"
)

var (
	// ErrMalformedTable reports a cell whose children do not fill its
	// row/column grid.
	ErrMalformedTable = errors.New("model: malformed table grid")

	// ErrInvalidRotation reports a rotation other than 0 or 90 degrees.
	ErrInvalidRotation = errors.New("model: rotation must be 0 or 90")

	// ErrCellIndex reports a row or column outside the grid.
	ErrCellIndex = errors.New("model: cell index out of range")
)

// MalformedTableError carries the grid dimensions of a malformed cell.
type MalformedTableError struct {
	Rows     int
	Cols     int
	Children int
}

func (e *MalformedTableError) Error() string {
	return fmt.Sprintf("%v: %d rows x %d cols but %d children", ErrMalformedTable, e.Rows, e.Cols, e.Children)
}

// Unwrap allows errors.Is(err, ErrMalformedTable).
func (e *MalformedTableError) Unwrap() error {
	return ErrMalformedTable
}
