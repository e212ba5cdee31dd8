package graphicsstate

import (
	"errors"

	"github.com/tsawler/rulegrid/contentstream"
	"github.com/tsawler/rulegrid/model"
)

// GraphicsExtractor interprets the path operators of a content stream and
// drives a PathSink. It tracks the CTM so the sink receives the transform
// in effect at each paint.
type GraphicsExtractor struct {
	gs   *GraphicsState
	sink PathSink

	// current point and subpath start in user space, for h and re
	current      model.Point
	subpathStart model.Point
	hasCurrent   bool

	// UnbalancedRestores counts Q operators with no matching q
	UnbalancedRestores int
}

// NewGraphicsExtractor creates a new graphics extractor feeding sink
func NewGraphicsExtractor(sink PathSink) *GraphicsExtractor {
	return &GraphicsExtractor{
		gs:   NewGraphicsState(),
		sink: sink,
	}
}

// Extract processes content stream operations in order
func (ge *GraphicsExtractor) Extract(operations []contentstream.Operation) error {
	for _, op := range operations {
		if err := ge.processOperation(op); err != nil {
			return err
		}
	}
	return nil
}

// ExtractFromBytes parses and extracts graphics from raw content stream data
func (ge *GraphicsExtractor) ExtractFromBytes(data []byte) error {
	parser := contentstream.NewParser(data)
	operations, err := parser.Parse()
	if err != nil {
		return err
	}
	return ge.Extract(operations)
}

// GraphicsState returns the current graphics state
func (ge *GraphicsExtractor) GraphicsState() *GraphicsState {
	return ge.gs
}

// processOperation processes a single content stream operation. Operations
// with malformed operands are skipped.
func (ge *GraphicsExtractor) processOperation(op contentstream.Operation) error {
	switch op.Operator {
	// Graphics state operators
	case "q":
		ge.gs.Save()
	case "Q":
		if err := ge.gs.Restore(); err != nil {
			if !errors.Is(err, ErrStackUnderflow) {
				return err
			}
			ge.UnbalancedRestores++
		}
	case "cm":
		if v, ok := op.Numbers(6); ok {
			ge.gs.Transform(model.Matrix(v))
		}

	// Path construction operators
	case "m":
		if v, ok := op.Numbers(2); ok {
			ge.moveTo(model.Point{X: v[0], Y: v[1]})
		}
	case "l":
		if v, ok := op.Numbers(2); ok {
			ge.lineTo(model.Point{X: v[0], Y: v[1]})
		}
	case "c":
		if v, ok := op.Numbers(6); ok {
			ge.curveTo(model.Point{X: v[4], Y: v[5]})
		}
	case "v", "y":
		if v, ok := op.Numbers(4); ok {
			ge.curveTo(model.Point{X: v[2], Y: v[3]})
		}
	case "h":
		ge.closePath()
	case "re":
		if v, ok := op.Numbers(4); ok {
			ge.sink.SetPendingRect(v[0], v[1], v[2], v[3])
			ge.moveTo(model.Point{X: v[0], Y: v[1]})
		}

	// Path painting operators
	case "S":
		ge.paint(PaintStroke)
	case "s":
		ge.closePath()
		ge.paint(PaintStroke)
	case "f", "F", "f*":
		ge.paint(PaintFill)
	case "B", "B*":
		ge.paint(PaintFillStroke)
	case "b", "b*":
		ge.closePath()
		ge.paint(PaintFillStroke)
	case "n":
		ge.paint(PaintNone)

	// Clipping only marks the path; the following n discards it
	case "W", "W*":
	}

	return nil
}

func (ge *GraphicsExtractor) moveTo(p model.Point) {
	ge.sink.BeginSubpath(p)
	ge.current = p
	ge.subpathStart = p
	ge.hasCurrent = true
}

func (ge *GraphicsExtractor) lineTo(p model.Point) {
	if !ge.hasCurrent {
		ge.moveTo(p)
		return
	}
	ge.sink.LineTo(p)
	ge.current = p
}

// curveTo moves the current point to the curve's end. Curves never form
// rulings.
func (ge *GraphicsExtractor) curveTo(end model.Point) {
	if !ge.hasCurrent {
		ge.moveTo(end)
		return
	}
	ge.sink.BeginSubpath(end)
	ge.current = end
}

func (ge *GraphicsExtractor) closePath() {
	if !ge.hasCurrent {
		return
	}
	if ge.current != ge.subpathStart {
		ge.sink.LineTo(ge.subpathStart)
	}
	ge.current = ge.subpathStart
}

func (ge *GraphicsExtractor) paint(op PaintOp) {
	ge.sink.Paint(ge.gs.CTM, op)
	ge.hasCurrent = false
}
