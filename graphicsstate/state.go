package graphicsstate

import (
	"errors"

	"github.com/tsawler/rulegrid/model"
)

// ErrStackUnderflow is returned by Restore when there is no saved state.
var ErrStackUnderflow = errors.New("graphicsstate: stack underflow")

// GraphicsState represents the subset of the PDF graphics state the
// reconstruction pipeline depends on: the CTM and the text state.
type GraphicsState struct {
	// Current Transformation Matrix
	CTM model.Matrix

	// Text state
	Text TextState

	// Graphics state stack (for q/Q operators)
	stack []GraphicsState
}

// TextState represents text-specific state
type TextState struct {
	FontName string
	FontSize float64

	CharSpacing       float64
	WordSpacing       float64
	HorizontalScaling float64 // percentage
	Leading           float64
	RenderingMode     int
	Rise              float64

	TextMatrix     model.Matrix
	TextLineMatrix model.Matrix
}

// NewGraphicsState creates a new graphics state with default values
func NewGraphicsState() *GraphicsState {
	return &GraphicsState{
		CTM: model.Identity(),
		Text: TextState{
			FontSize:          12.0,
			HorizontalScaling: 100.0,
			TextMatrix:        model.Identity(),
			TextLineMatrix:    model.Identity(),
		},
	}
}

// Save pushes the current graphics state onto the stack (q operator)
func (gs *GraphicsState) Save() {
	gs.stack = append(gs.stack, GraphicsState{CTM: gs.CTM, Text: gs.Text})
}

// Restore pops a graphics state from the stack (Q operator)
func (gs *GraphicsState) Restore() error {
	if len(gs.stack) == 0 {
		return ErrStackUnderflow
	}

	saved := gs.stack[len(gs.stack)-1]
	gs.stack = gs.stack[:len(gs.stack)-1]

	gs.CTM = saved.CTM
	gs.Text = saved.Text
	return nil
}

// Depth returns the number of saved states
func (gs *GraphicsState) Depth() int {
	return len(gs.stack)
}

// Transform concatenates m onto the CTM (cm operator): CTM' = m × CTM
func (gs *GraphicsState) Transform(m model.Matrix) {
	gs.CTM = m.Multiply(gs.CTM)
}

// SetFont sets the current font (Tf operator)
func (gs *GraphicsState) SetFont(name string, size float64) {
	gs.Text.FontName = name
	gs.Text.FontSize = size
}

// SetCharSpacing sets character spacing (Tc operator)
func (gs *GraphicsState) SetCharSpacing(spacing float64) {
	gs.Text.CharSpacing = spacing
}

// SetWordSpacing sets word spacing (Tw operator)
func (gs *GraphicsState) SetWordSpacing(spacing float64) {
	gs.Text.WordSpacing = spacing
}

// SetHorizontalScaling sets horizontal scaling (Tz operator)
func (gs *GraphicsState) SetHorizontalScaling(scale float64) {
	gs.Text.HorizontalScaling = scale
}

// SetLeading sets text leading (TL operator)
func (gs *GraphicsState) SetLeading(leading float64) {
	gs.Text.Leading = leading
}

// SetRenderingMode sets text rendering mode (Tr operator)
func (gs *GraphicsState) SetRenderingMode(mode int) {
	gs.Text.RenderingMode = mode
}

// SetTextRise sets text rise (Ts operator)
func (gs *GraphicsState) SetTextRise(rise float64) {
	gs.Text.Rise = rise
}

// BeginText initializes text state (BT operator)
func (gs *GraphicsState) BeginText() {
	gs.Text.TextMatrix = model.Identity()
	gs.Text.TextLineMatrix = model.Identity()
}

// SetTextMatrix sets the text matrix (Tm operator)
func (gs *GraphicsState) SetTextMatrix(m model.Matrix) {
	gs.Text.TextMatrix = m
	gs.Text.TextLineMatrix = m
}

// TranslateText translates the text matrix (Td operator)
func (gs *GraphicsState) TranslateText(tx, ty float64) {
	gs.Text.TextLineMatrix = model.Translate(tx, ty).Multiply(gs.Text.TextLineMatrix)
	gs.Text.TextMatrix = gs.Text.TextLineMatrix
}

// TranslateTextSetLeading translates text and sets leading (TD operator)
func (gs *GraphicsState) TranslateTextSetLeading(tx, ty float64) {
	gs.SetLeading(-ty)
	gs.TranslateText(tx, ty)
}

// NextLine moves to next line (T* operator)
func (gs *GraphicsState) NextLine() {
	gs.TranslateText(0, -gs.Text.Leading)
}

// AdvanceText moves the text matrix along the baseline by a displacement
// given in unscaled text space units.
func (gs *GraphicsState) AdvanceText(tx float64) {
	gs.Text.TextMatrix = model.Translate(tx, 0).Multiply(gs.Text.TextMatrix)
}

// TextAdvance returns the horizontal displacement for showing text whose
// glyph widths sum to width (already multiplied by the font size).
// tx = (w0*fs + Tc + Tw) * Th / 100, summed per glyph.
func (gs *GraphicsState) TextAdvance(text string, width float64) float64 {
	glyphs := 0
	spaces := 0
	for _, c := range text {
		glyphs++
		if c == ' ' {
			spaces++
		}
	}

	advance := width
	advance += float64(glyphs) * gs.Text.CharSpacing
	advance += float64(spaces) * gs.Text.WordSpacing
	return advance * gs.Text.HorizontalScaling / 100.0
}

// TextToDevice maps a point given in text space (relative to the current
// text matrix) to device space.
func (gs *GraphicsState) TextToDevice(x, y float64) model.Point {
	trm := gs.Text.TextMatrix.Multiply(gs.CTM)
	return trm.Transform(model.Point{X: x, Y: y + gs.Text.Rise})
}

// GetEffectiveFontSize returns the font size accounting for text matrix and
// CTM scaling. The text matrix can scale the font even when Tf uses size 1.
func (gs *GraphicsState) GetEffectiveFontSize() float64 {
	trm := gs.Text.TextMatrix.Multiply(gs.CTM)

	verticalScale := abs(trm[3])
	horizontalScale := abs(trm[0])
	if abs(trm[1]) > horizontalScale {
		// rotated text
		horizontalScale = abs(trm[1])
	}

	scale := verticalScale
	if horizontalScale > verticalScale {
		scale = horizontalScale
	}

	return gs.Text.FontSize * scale
}

// abs returns the absolute value
func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}
