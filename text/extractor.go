package text

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"

	"github.com/tsawler/rulegrid/contentstream"
	"github.com/tsawler/rulegrid/font"
	"github.com/tsawler/rulegrid/graphicsstate"
	"github.com/tsawler/rulegrid/model"
)

// glyphWidth is the assumed advance of every glyph, in em. Font programs
// are not read, so widths are estimates.
const glyphWidth = 0.5

// invisibleMode is the text rendering mode that paints nothing (Tr 3)
const invisibleMode = 3

// Chunk is a run of text shown by a single string operand, with its
// baseline start and end in device space.
type Chunk struct {
	Text     string
	Start    model.Point
	End      model.Point
	FontSize float64
}

// Extractor interprets the text operators of a content stream and records
// positioned chunks.
type Extractor struct {
	gs     *graphicsstate.GraphicsState
	chunks []Chunk

	// ToUnicode maps by font resource name
	cmaps map[string]*font.CMap
}

// NewExtractor creates a new text extractor
func NewExtractor() *Extractor {
	return &Extractor{
		gs:     graphicsstate.NewGraphicsState(),
		chunks: make([]Chunk, 0),
		cmaps:  make(map[string]*font.CMap),
	}
}

// RegisterCMap sets the ToUnicode map for the font resource name, as
// selected by Tf. Strings shown in fonts without one are decoded as
// WinAnsiEncoding.
func (e *Extractor) RegisterCMap(name string, cm *font.CMap) {
	if cm != nil {
		e.cmaps[name] = cm
	}
}

// Extract extracts text chunks from content stream operations
func (e *Extractor) Extract(operations []contentstream.Operation) ([]Chunk, error) {
	e.chunks = make([]Chunk, 0)

	for i, op := range operations {
		if err := e.processOperation(op); err != nil {
			return nil, fmt.Errorf("operation %d (%s): %w", i, op.Operator, err)
		}
	}

	return e.chunks, nil
}

// ExtractFromBytes parses and extracts text from raw content stream data
func (e *Extractor) ExtractFromBytes(data []byte) ([]Chunk, error) {
	parser := contentstream.NewParser(data)
	operations, err := parser.Parse()
	if err != nil {
		return nil, fmt.Errorf("parse content stream: %w", err)
	}

	return e.Extract(operations)
}

// Chunks returns the chunks of the last extraction
func (e *Extractor) Chunks() []Chunk {
	return e.chunks
}

// processOperation processes a single content stream operation
func (e *Extractor) processOperation(op contentstream.Operation) error {
	switch op.Operator {
	// Graphics state
	case "q":
		e.gs.Save()
	case "Q":
		// an unbalanced Q is common in the wild and harmless here
		_ = e.gs.Restore()
	case "cm":
		if v, ok := op.Numbers(6); ok {
			e.gs.Transform(model.Matrix(v))
		}

	// Text state
	case "BT":
		e.gs.BeginText()
	case "Tf":
		if len(op.Operands) == 2 {
			if name, ok := op.Operands[0].(contentstream.Name); ok {
				if size, ok := contentstream.Float(op.Operands[1]); ok {
					e.gs.SetFont(string(name), size)
				}
			}
		}
	case "Tc":
		if v, ok := op.Numbers(1); ok {
			e.gs.SetCharSpacing(v[0])
		}
	case "Tw":
		if v, ok := op.Numbers(1); ok {
			e.gs.SetWordSpacing(v[0])
		}
	case "Tz":
		if v, ok := op.Numbers(1); ok {
			e.gs.SetHorizontalScaling(v[0])
		}
	case "TL":
		if v, ok := op.Numbers(1); ok {
			e.gs.SetLeading(v[0])
		}
	case "Tr":
		if v, ok := op.Numbers(1); ok {
			e.gs.SetRenderingMode(int(v[0]))
		}
	case "Ts":
		if v, ok := op.Numbers(1); ok {
			e.gs.SetTextRise(v[0])
		}

	// Text positioning
	case "Tm":
		if v, ok := op.Numbers(6); ok {
			e.gs.SetTextMatrix(model.Matrix(v))
		}
	case "Td":
		if v, ok := op.Numbers(2); ok {
			e.gs.TranslateText(v[0], v[1])
		}
	case "TD":
		if v, ok := op.Numbers(2); ok {
			e.gs.TranslateTextSetLeading(v[0], v[1])
		}
	case "T*":
		e.gs.NextLine()

	// Text showing
	case "Tj":
		if len(op.Operands) == 1 {
			if str, ok := op.Operands[0].(contentstream.String); ok {
				e.showText([]byte(str))
			}
		}
	case "TJ":
		if len(op.Operands) == 1 {
			if arr, ok := op.Operands[0].(contentstream.Array); ok {
				e.showTextArray(arr)
			}
		}
	case "'":
		e.gs.NextLine()
		if len(op.Operands) == 1 {
			if str, ok := op.Operands[0].(contentstream.String); ok {
				e.showText([]byte(str))
			}
		}
	case "\"":
		if len(op.Operands) == 3 {
			if wordSpacing, ok := contentstream.Float(op.Operands[0]); ok {
				e.gs.SetWordSpacing(wordSpacing)
			}
			if charSpacing, ok := contentstream.Float(op.Operands[1]); ok {
				e.gs.SetCharSpacing(charSpacing)
			}
			e.gs.NextLine()
			if str, ok := op.Operands[2].(contentstream.String); ok {
				e.showText([]byte(str))
			}
		}
	}

	return nil
}

// showText records a chunk for data and advances the text matrix
func (e *Extractor) showText(data []byte) {
	decoded := e.decode(data)
	width := float64(utf8.RuneCountInString(decoded)) * glyphWidth * e.gs.Text.FontSize
	advance := e.gs.TextAdvance(decoded, width)

	if e.gs.Text.RenderingMode != invisibleMode && strings.TrimSpace(decoded) != "" {
		e.chunks = append(e.chunks, Chunk{
			Text:     decoded,
			Start:    e.gs.TextToDevice(0, 0),
			End:      e.gs.TextToDevice(advance, 0),
			FontSize: e.gs.GetEffectiveFontSize(),
		})
	}

	e.gs.AdvanceText(advance)
}

// showTextArray processes a TJ array. Numbers move the pen back by
// thousandths of an em.
func (e *Extractor) showTextArray(arr contentstream.Array) {
	for _, item := range arr {
		if s, ok := item.(contentstream.String); ok {
			e.showText([]byte(s))
			continue
		}
		if v, ok := contentstream.Float(item); ok {
			adjustment := -v / 1000.0 * e.gs.Text.FontSize * e.gs.Text.HorizontalScaling / 100.0
			e.gs.AdvanceText(adjustment)
		}
	}
}

// decode maps string bytes to text through the current font's ToUnicode
// map, or WinAnsiEncoding, the usual encoding of simple fonts.
func (e *Extractor) decode(data []byte) string {
	if cm, ok := e.cmaps[e.gs.Text.FontName]; ok {
		return cm.Decode(data)
	}
	out, err := charmap.Windows1252.NewDecoder().Bytes(data)
	if err != nil {
		return string(data)
	}
	return string(out)
}
