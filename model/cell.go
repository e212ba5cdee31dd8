package model

// Cell is a node of a reconstructed table tree. A cell with children is a
// (sub)table whose grid is delimited by ColumnBreaks and RowBreaks; a cell
// without children is a leaf carrying the text found inside its rectangle.
type Cell struct {
	Rectangle BBox `json:"rectangle" yaml:"rectangle"`

	// ColumnBreaks holds the left edge of every column, ascending.
	ColumnBreaks []float64 `json:"column_breaks" yaml:"column_breaks"`

	// RowBreaks holds the top edge of every row, descending.
	RowBreaks []float64 `json:"row_breaks" yaml:"row_breaks"`

	// Children in geometric row-major order (top row first, left to right).
	Children []*Cell `json:"children,omitempty" yaml:"children,omitempty"`

	Text     string `json:"text,omitempty" yaml:"text,omitempty"`
	Rotation int    `json:"rotation" yaml:"rotation"`
}

// NewCell creates an empty cell for a page with the given rotation
func NewCell(rotation int) *Cell {
	return &Cell{
		Rotation:     rotation,
		ColumnBreaks: make([]float64, 0),
		RowBreaks:    make([]float64, 0),
	}
}

// CheckRotation returns ErrInvalidRotation unless rotation is 0 or 90.
func CheckRotation(rotation int) error {
	if rotation != 0 && rotation != 90 {
		return ErrInvalidRotation
	}
	return nil
}

// IsLeaf reports whether the cell has no children
func (c *Cell) IsLeaf() bool {
	return len(c.Children) == 0
}

// GeometricRows returns the number of row breaks
func (c *Cell) GeometricRows() int {
	return len(c.RowBreaks)
}

// GeometricCols returns the number of column breaks
func (c *Cell) GeometricCols() int {
	return len(c.ColumnBreaks)
}

// Rows returns the number of logical rows. On a page rotated by 90 degrees
// the logical rows run along the X axis.
func (c *Cell) Rows() int {
	if c.Rotation == 90 {
		return len(c.ColumnBreaks)
	}
	return len(c.RowBreaks)
}

// Cols returns the number of logical columns
func (c *Cell) Cols() int {
	if c.Rotation == 90 {
		return len(c.RowBreaks)
	}
	return len(c.ColumnBreaks)
}

// Get returns the child at the logical (row, col) position.
func (c *Cell) Get(row, col int) (*Cell, error) {
	if err := CheckRotation(c.Rotation); err != nil {
		return nil, err
	}
	if err := c.checkGrid(); err != nil {
		return nil, err
	}

	rows, cols := c.Rows(), c.Cols()
	if row < 0 || row >= rows || col < 0 || col >= cols {
		return nil, ErrCellIndex
	}

	if c.Rotation == 90 {
		return c.Children[(cols-1-col)*rows+row], nil
	}
	return c.Children[row*cols+col], nil
}

// checkGrid verifies that a non-leaf cell has one child per grid slot
func (c *Cell) checkGrid() error {
	if c.IsLeaf() {
		return nil
	}
	slots := c.GeometricRows() * c.GeometricCols()
	if len(c.Children) != slots {
		return &MalformedTableError{Rows: c.Rows(), Cols: c.Cols(), Children: len(c.Children)}
	}
	return nil
}

// Validate checks the whole tree for rotation values and complete grids
func (c *Cell) Validate() error {
	var err error
	c.Walk(func(cell *Cell, _ int) bool {
		if err = CheckRotation(cell.Rotation); err != nil {
			return false
		}
		if err = cell.checkGrid(); err != nil {
			return false
		}
		return true
	})
	return err
}

// Walk visits the tree depth-first, parents before children. The root has
// depth 0. Returning false from fn stops the walk.
func (c *Cell) Walk(fn func(cell *Cell, depth int) bool) {
	c.walk(fn, 0)
}

func (c *Cell) walk(fn func(*Cell, int) bool, depth int) bool {
	if !fn(c, depth) {
		return false
	}
	for _, child := range c.Children {
		if !child.walk(fn, depth+1) {
			return false
		}
	}
	return true
}

// Depth returns the depth of the deepest leaf below c
func (c *Cell) Depth() int {
	deepest := 0
	c.Walk(func(_ *Cell, depth int) bool {
		if depth > deepest {
			deepest = depth
		}
		return true
	})
	return deepest
}

// Leaves returns every leaf in walk order
func (c *Cell) Leaves() []*Cell {
	var leaves []*Cell
	c.Walk(func(cell *Cell, _ int) bool {
		if cell.IsLeaf() {
			leaves = append(leaves, cell)
		}
		return true
	})
	return leaves
}
