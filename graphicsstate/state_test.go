package graphicsstate

import (
	"errors"
	"math"
	"testing"

	"github.com/tsawler/rulegrid/model"
)

// TestNewGraphicsState tests initial state
func TestNewGraphicsState(t *testing.T) {
	gs := NewGraphicsState()

	if gs.Text.FontSize != 12.0 {
		t.Errorf("expected font size 12.0, got %f", gs.Text.FontSize)
	}
	if gs.Text.HorizontalScaling != 100.0 {
		t.Errorf("expected horizontal scaling 100.0, got %f", gs.Text.HorizontalScaling)
	}
	if !gs.CTM.IsIdentity() {
		t.Error("expected CTM to be identity matrix")
	}
}

// TestSaveRestore tests q/Q operators
func TestSaveRestore(t *testing.T) {
	gs := NewGraphicsState()
	gs.Transform(model.Translate(10, 10))
	gs.SetFont("Helvetica", 14)

	gs.Save()
	gs.Transform(model.Scale(2, 2))
	gs.SetFont("Times", 18)

	if gs.Depth() != 1 {
		t.Errorf("Depth() = %d, want 1", gs.Depth())
	}

	if err := gs.Restore(); err != nil {
		t.Fatalf("Restore failed: %v", err)
	}
	if gs.CTM != model.Translate(10, 10) {
		t.Errorf("restored CTM = %v", gs.CTM)
	}
	if gs.Text.FontName != "Helvetica" || gs.Text.FontSize != 14 {
		t.Errorf("restored font = %s %v", gs.Text.FontName, gs.Text.FontSize)
	}
}

// TestRestoreUnderflow tests restore without save
func TestRestoreUnderflow(t *testing.T) {
	gs := NewGraphicsState()

	if err := gs.Restore(); !errors.Is(err, ErrStackUnderflow) {
		t.Errorf("Restore() = %v, want ErrStackUnderflow", err)
	}
}

// TestTransformOrder checks that cm prepends the new matrix: a point is
// mapped by the newest matrix first.
func TestTransformOrder(t *testing.T) {
	gs := NewGraphicsState()
	gs.Transform(model.Translate(100, 0))
	gs.Transform(model.Scale(2, 2))

	got := gs.CTM.Transform(model.Point{X: 1, Y: 1})
	if got != (model.Point{X: 102, Y: 2}) {
		t.Errorf("CTM maps (1,1) to %+v, want {102 2}", got)
	}
}

func TestTextPositioning(t *testing.T) {
	tests := []struct {
		name  string
		setup func(gs *GraphicsState)
		wantX float64
		wantY float64
	}{
		{"Td accumulates", func(gs *GraphicsState) {
			gs.TranslateText(10, 20)
			gs.TranslateText(5, 10)
		}, 15, 30},
		{"TD sets leading", func(gs *GraphicsState) {
			gs.TranslateTextSetLeading(0, -14)
			gs.NextLine()
		}, 0, -28},
		{"Td under scaled Tm", func(gs *GraphicsState) {
			gs.SetTextMatrix(model.Matrix{2, 0, 0, 2, 100, 100})
			gs.TranslateText(10, 0)
		}, 120, 100},
		{"advance then next line", func(gs *GraphicsState) {
			gs.SetLeading(12)
			gs.TranslateText(50, 700)
			gs.AdvanceText(30)
			gs.NextLine()
		}, 50, 688},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gs := NewGraphicsState()
			gs.BeginText()
			tt.setup(gs)

			p := gs.TextToDevice(0, 0)
			if math.Abs(p.X-tt.wantX) > 1e-9 || math.Abs(p.Y-tt.wantY) > 1e-9 {
				t.Errorf("text origin = %+v, want (%v, %v)", p, tt.wantX, tt.wantY)
			}
		})
	}
}

func TestTextAdvance(t *testing.T) {
	gs := NewGraphicsState()
	gs.SetCharSpacing(1)
	gs.SetWordSpacing(2)
	gs.SetHorizontalScaling(50)

	// (10 + 3 glyphs*1 + 1 space*2) * 0.5
	if got := gs.TextAdvance("a b", 10); got != 7.5 {
		t.Errorf("TextAdvance() = %v, want 7.5", got)
	}
}

func TestTextToDeviceWithCTMAndRise(t *testing.T) {
	gs := NewGraphicsState()
	gs.Transform(model.Translate(0, 100))
	gs.BeginText()
	gs.SetTextRise(3)
	gs.TranslateText(10, 0)

	p := gs.TextToDevice(0, 0)
	if p != (model.Point{X: 10, Y: 103}) {
		t.Errorf("TextToDevice = %+v, want {10 103}", p)
	}
}

func TestGetEffectiveFontSize(t *testing.T) {
	gs := NewGraphicsState()
	gs.SetFont("F1", 1)
	gs.SetTextMatrix(model.Matrix{9, 0, 0, 9, 0, 0})
	gs.Transform(model.Scale(2, 2))

	if got := gs.GetEffectiveFontSize(); got != 18 {
		t.Errorf("GetEffectiveFontSize() = %v, want 18", got)
	}

	// rotated text keeps its size
	gs.SetTextMatrix(model.Matrix{0, 9, -9, 0, 0, 0})
	if got := gs.GetEffectiveFontSize(); got != 18 {
		t.Errorf("rotated GetEffectiveFontSize() = %v, want 18", got)
	}
}

func TestTextStateSetters(t *testing.T) {
	gs := NewGraphicsState()
	gs.SetRenderingMode(3)
	gs.SetLeading(14)
	gs.SetFont("F2", 9)

	if gs.Text.RenderingMode != 3 || gs.Text.Leading != 14 || gs.Text.FontName != "F2" {
		t.Errorf("text state = %+v", gs.Text)
	}
}
