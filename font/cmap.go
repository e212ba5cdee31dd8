package font

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"golang.org/x/text/encoding/unicode"

	"github.com/tsawler/rulegrid/contentstream"
)

// ErrNoMappings is returned by ParseCMap when the data holds no bfchar or
// bfrange entries
var ErrNoMappings = errors.New("font: cmap has no mappings")

// maxCodeLength is the longest character code a codespace may declare
const maxCodeLength = 4

// CMap maps the character codes of a font to Unicode text, as declared by
// the font's ToUnicode stream.
type CMap struct {
	// Codespace ranges, shortest codes first
	codespaces []codespace

	// Single code mappings (bfchar and array-form bfrange)
	chars map[charCode]string

	// Contiguous code ranges (bfrange with a single destination)
	ranges []codeRange

	// Code length used when no codespace range is declared
	defaultLength int
}

// charCode is a code value together with its length in bytes, so <41> and
// <0041> stay distinct
type charCode struct {
	value  uint32
	length int
}

type codespace struct {
	low, high []byte
}

// codeRange maps low..high onto dst, with the last rune of dst advancing
// by the offset of the code
type codeRange struct {
	low, high uint32
	length    int
	dst       []rune
}

// ParseCMap reads a ToUnicode CMap. Only the codespacerange, bfchar and
// bfrange blocks are interpreted; bfchar entries that map to glyph names
// are skipped.
func ParseCMap(data []byte) (*CMap, error) {
	ops, err := contentstream.NewParser(data).Parse()
	if err != nil {
		return nil, fmt.Errorf("parse cmap: %w", err)
	}

	cm := &CMap{chars: make(map[charCode]string)}
	for _, op := range ops {
		switch op.Operator {
		case "endcodespacerange":
			cm.addCodespaces(op.Operands)
		case "endbfchar":
			cm.addChars(op.Operands)
		case "endbfrange":
			cm.addRanges(op.Operands)
		}
	}

	if len(cm.chars) == 0 && len(cm.ranges) == 0 {
		return nil, ErrNoMappings
	}
	sort.SliceStable(cm.codespaces, func(i, j int) bool {
		return len(cm.codespaces[i].low) < len(cm.codespaces[j].low)
	})
	return cm, nil
}

func (cm *CMap) addCodespaces(operands []contentstream.Operand) {
	for i := 0; i+1 < len(operands); i += 2 {
		low, ok1 := operands[i].(contentstream.String)
		high, ok2 := operands[i+1].(contentstream.String)
		if !ok1 || !ok2 || len(low) != len(high) || len(low) == 0 || len(low) > maxCodeLength {
			continue
		}
		cm.codespaces = append(cm.codespaces, codespace{low: []byte(low), high: []byte(high)})
	}
}

func (cm *CMap) addChars(operands []contentstream.Operand) {
	for i := 0; i+1 < len(operands); i += 2 {
		src, ok := operands[i].(contentstream.String)
		if !ok || len(src) == 0 || len(src) > maxCodeLength {
			continue
		}
		dst, ok := operands[i+1].(contentstream.String)
		if !ok {
			continue
		}
		cm.chars[codeOf([]byte(src))] = decodeUTF16(dst)
		cm.noteLength(len(src))
	}
}

func (cm *CMap) addRanges(operands []contentstream.Operand) {
	for i := 0; i+2 < len(operands); i += 3 {
		low, ok1 := operands[i].(contentstream.String)
		high, ok2 := operands[i+1].(contentstream.String)
		if !ok1 || !ok2 || len(low) != len(high) || len(low) == 0 || len(low) > maxCodeLength {
			continue
		}
		lo, hi := codeOf([]byte(low)), codeOf([]byte(high))
		if hi.value < lo.value {
			continue
		}
		cm.noteLength(lo.length)

		switch dst := operands[i+2].(type) {
		case contentstream.String:
			cm.ranges = append(cm.ranges, codeRange{
				low:    lo.value,
				high:   hi.value,
				length: lo.length,
				dst:    []rune(decodeUTF16(dst)),
			})
		case contentstream.Array:
			for k, item := range dst {
				s, ok := item.(contentstream.String)
				code := lo.value + uint32(k)
				if !ok || code > hi.value {
					continue
				}
				cm.chars[charCode{value: code, length: lo.length}] = decodeUTF16(s)
			}
		}
	}
}

func (cm *CMap) noteLength(n int) {
	if n > cm.defaultLength {
		cm.defaultLength = n
	}
}

// Lookup returns the text of a single character code
func (cm *CMap) Lookup(code []byte) (string, bool) {
	c := codeOf(code)
	if s, ok := cm.chars[c]; ok {
		return s, true
	}
	for _, r := range cm.ranges {
		if r.length != c.length || c.value < r.low || c.value > r.high || len(r.dst) == 0 {
			continue
		}
		out := append([]rune(nil), r.dst...)
		out[len(out)-1] += rune(c.value - r.low)
		return string(out), true
	}
	return "", false
}

// Decode converts a shown string to text. Codes are split according to the
// codespace ranges; codes without a mapping produce no text.
func (cm *CMap) Decode(data []byte) string {
	if cm == nil {
		return string(data)
	}

	var sb strings.Builder
	for i := 0; i < len(data); {
		n := cm.codeLength(data[i:])
		if i+n > len(data) {
			n = len(data) - i
		}
		if s, ok := cm.Lookup(data[i : i+n]); ok {
			sb.WriteString(s)
		}
		i += n
	}
	return sb.String()
}

// codeLength returns the length of the code starting data: the shortest
// codespace range that matches, else the shortest declared, else the
// longest code seen among the mappings
func (cm *CMap) codeLength(data []byte) int {
	for _, cs := range cm.codespaces {
		if cs.matches(data) {
			return len(cs.low)
		}
	}
	if len(cm.codespaces) > 0 {
		return len(cm.codespaces[0].low)
	}
	if cm.defaultLength > 0 {
		return cm.defaultLength
	}
	return 1
}

// matches reports whether data starts with a code inside the range, each
// byte compared against its own bounds
func (cs codespace) matches(data []byte) bool {
	if len(data) < len(cs.low) {
		return false
	}
	for k := range cs.low {
		if data[k] < cs.low[k] || data[k] > cs.high[k] {
			return false
		}
	}
	return true
}

func codeOf(b []byte) charCode {
	var v uint32
	for _, c := range b {
		v = v<<8 | uint32(c)
	}
	return charCode{value: v, length: len(b)}
}

// utf16 decodes ToUnicode destinations. A leading byte order mark is
// honoured and dropped.
var utf16 = unicode.UTF16(unicode.BigEndian, unicode.UseBOM)

// decodeUTF16 converts a destination string. One-byte destinations, which
// some producers write, are taken as Latin-1.
func decodeUTF16(s contentstream.String) string {
	if len(s) == 1 {
		return string(rune(s[0]))
	}
	out, err := utf16.NewDecoder().Bytes([]byte(s))
	if err != nil {
		return ""
	}
	return string(out)
}
