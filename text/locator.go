package text

import (
	"sort"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/bidi"
	"golang.org/x/text/unicode/norm"

	"github.com/tsawler/rulegrid/model"
)

// spaceGap is the horizontal gap, in em, above which two chunks on a line
// are separated by a space.
const spaceGap = 0.15

// ChunkLocator answers text lookups for table cells from a page's chunks.
type ChunkLocator struct {
	chunks []Chunk
}

// NewChunkLocator creates a locator over chunks
func NewChunkLocator(chunks []Chunk) *ChunkLocator {
	return &ChunkLocator{chunks: chunks}
}

// LookupText returns the text of every chunk whose start and end both lie
// inside rect grown by tolerance, in reading order. Lines are separated by
// a newline.
func (l *ChunkLocator) LookupText(rect model.BBox, tolerance float64) string {
	area := rect.Expand(tolerance)

	var inside []Chunk
	for _, c := range l.chunks {
		if area.Contains(c.Start) && area.Contains(c.End) {
			inside = append(inside, c)
		}
	}
	if len(inside) == 0 {
		return ""
	}

	lines := groupLines(inside)

	var sb strings.Builder
	for i, line := range lines {
		if i > 0 {
			sb.WriteString("\n")
		}
		writeLine(&sb, line)
	}

	return strings.TrimSpace(norm.NFC.String(sb.String()))
}

// groupLines sorts chunks top to bottom and splits them into lines. A chunk
// joins the current line when its baseline is within half a font size.
func groupLines(chunks []Chunk) [][]Chunk {
	sort.SliceStable(chunks, func(i, j int) bool {
		if chunks[i].Start.Y != chunks[j].Start.Y {
			return chunks[i].Start.Y > chunks[j].Start.Y
		}
		return chunks[i].Start.X < chunks[j].Start.X
	})

	var lines [][]Chunk
	current := []Chunk{chunks[0]}
	lineY := chunks[0].Start.Y
	for _, c := range chunks[1:] {
		if abs(lineY-c.Start.Y) < c.FontSize/2 {
			current = append(current, c)
			continue
		}
		lines = append(lines, current)
		current = []Chunk{c}
		lineY = c.Start.Y
	}
	return append(lines, current)
}

// writeLine writes the chunks of one line in reading order
func writeLine(sb *strings.Builder, line []Chunk) {
	rtl := isRTL(line)
	sort.SliceStable(line, func(i, j int) bool {
		if rtl {
			return line[i].Start.X > line[j].Start.X
		}
		return line[i].Start.X < line[j].Start.X
	})

	for i, c := range line {
		if i > 0 && needsSpace(line[i-1], c, rtl) {
			sb.WriteString(" ")
		}
		sb.WriteString(c.Text)
	}
}

func needsSpace(prev, next Chunk, rtl bool) bool {
	if endsWithSpace(prev.Text) || startsWithSpace(next.Text) {
		return false
	}
	gap := next.Start.X - prev.End.X
	if rtl {
		gap = prev.Start.X - next.End.X
	}
	return gap > prev.FontSize*spaceGap
}

// isRTL reports whether strong right-to-left characters outnumber
// left-to-right ones on the line.
func isRTL(line []Chunk) bool {
	ltr, rtl := 0, 0
	for _, c := range line {
		for _, r := range c.Text {
			props, _ := bidi.LookupRune(r)
			switch props.Class() {
			case bidi.L:
				ltr++
			case bidi.R, bidi.AL:
				rtl++
			}
		}
	}
	return rtl > ltr
}

func endsWithSpace(s string) bool {
	return s != "" && unicode.IsSpace(rune(s[len(s)-1]))
}

func startsWithSpace(s string) bool {
	return s != "" && unicode.IsSpace(rune(s[0]))
}

func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}
