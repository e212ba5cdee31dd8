package contentstream

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"strconv"
)

// Operation is one operator together with the operands pushed before it.
// The graphics and text interpreters switch on Operator.
type Operation struct {
	Operator string
	Operands []Operand
}

// Parser turns decoded page content, or any PostScript-like token stream
// such as an embedded CMap, into operations. Operands accumulate on a
// stack that belongs to the parser and is emptied by every operator.
type Parser struct {
	data     []byte
	pos      int
	ops      []Operation
	operands []Operand
}

// NewParser returns a parser over data
func NewParser(data []byte) *Parser {
	return &Parser{data: data, ops: make([]Operation, 0)}
}

// Parse returns the operations of the stream in order. Operands left on
// the stack at the end of the data are dropped.
func (p *Parser) Parse() ([]Operation, error) {
	for {
		p.skipWhitespace()
		if p.pos >= len(p.data) {
			return p.ops, nil
		}
		if err := p.next(); err != nil {
			return nil, err
		}
	}
}

// next consumes one token: a comment, an operator or an operand
func (p *Parser) next() error {
	start := p.pos
	c := p.data[p.pos]

	switch {
	case c == '%':
		p.skipComment()
		return nil
	case isLetter(c) || c == '\'' || c == '"':
		p.operator()
		return nil
	}

	operand, err := p.parseOperand()
	if err != nil {
		return fmt.Errorf("at position %d: %w", start, err)
	}
	p.operands = append(p.operands, operand)
	return nil
}

// operator reads a keyword. true, false and null are pushed as operands;
// anything else becomes an Operation owning the current stack.
func (p *Parser) operator() {
	start := p.pos
	p.pos++
	for p.pos < len(p.data) && isOperatorByte(p.data[p.pos]) {
		p.pos++
	}
	word := string(p.data[start:p.pos])

	if kw, ok := keyword(word); ok {
		p.operands = append(p.operands, kw)
		return
	}

	operands := make([]Operand, len(p.operands))
	copy(operands, p.operands)
	p.ops = append(p.ops, Operation{Operator: word, Operands: operands})
	p.operands = p.operands[:0]

	if word == "ID" {
		p.skipInlineImage()
	}
}

func keyword(word string) (Operand, bool) {
	switch word {
	case "true":
		return Bool(true), true
	case "false":
		return Bool(false), true
	case "null":
		return Null{}, true
	}
	return nil, false
}

// parseOperand reads one operand value, recursing into arrays and
// dictionaries
func (p *Parser) parseOperand() (Operand, error) {
	p.skipWhitespace()
	if p.pos >= len(p.data) {
		return nil, fmt.Errorf("unexpected end of stream")
	}

	c := p.data[p.pos]
	switch {
	case c == '-' || c == '+' || c == '.' || (c >= '0' && c <= '9'):
		return p.parseNumber()
	case c == '(':
		return p.parseString()
	case c == '<' && p.peek(1) == '<':
		return p.parseDict()
	case c == '<':
		return p.parseHexString()
	case c == '/':
		return p.parseName(), nil
	case c == '[':
		return p.parseArray()
	case isLetter(c):
		// keywords nested in arrays and dictionaries
		end := p.pos
		for end < len(p.data) && isOperatorByte(p.data[end]) {
			end++
		}
		if kw, ok := keyword(string(p.data[p.pos:end])); ok {
			p.pos = end
			return kw, nil
		}
	}

	return nil, fmt.Errorf("unexpected character at position %d: %c", p.pos, c)
}

func (p *Parser) parseNumber() (Operand, error) {
	start := p.pos
	if c := p.data[p.pos]; c == '+' || c == '-' {
		p.pos++
	}

	isReal := false
	for p.pos < len(p.data) {
		c := p.data[p.pos]
		if c == '.' && !isReal {
			isReal = true
		} else if c < '0' || c > '9' {
			break
		}
		p.pos++
	}

	text := string(p.data[start:p.pos])
	if isReal {
		v, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid real number %q: %w", text, err)
		}
		return Real(v), nil
	}
	v, err := strconv.ParseInt(text, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid integer %q: %w", text, err)
	}
	return Int(v), nil
}

// literalEscapes maps the byte after a backslash to the byte it stands for
var literalEscapes = map[byte]byte{
	'n': '\n', 'r': '\r', 't': '\t', 'b': '\b', 'f': '\f',
	'(': '(', ')': ')', '\\': '\\',
}

// parseString reads a literal string. Balanced parentheses need no escape.
func (p *Parser) parseString() (Operand, error) {
	p.pos++ // (

	var buf bytes.Buffer
	depth := 1
	for p.pos < len(p.data) {
		c := p.data[p.pos]
		p.pos++

		switch c {
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				return String(buf.String()), nil
			}
		case '\\':
			p.unescape(&buf)
			continue
		}
		buf.WriteByte(c)
	}

	return nil, fmt.Errorf("unclosed string")
}

// unescape decodes the escape sequence following a backslash into buf
func (p *Parser) unescape(buf *bytes.Buffer) {
	if p.pos >= len(p.data) {
		return
	}
	c := p.data[p.pos]
	p.pos++

	if b, ok := literalEscapes[c]; ok {
		buf.WriteByte(b)
		return
	}

	switch {
	case c == '\r':
		// escaped end of line continues the string
		if p.peek(0) == '\n' {
			p.pos++
		}
	case c == '\n':
	case c >= '0' && c <= '7':
		v := int(c - '0')
		for i := 0; i < 2 && p.pos < len(p.data); i++ {
			d := p.data[p.pos]
			if d < '0' || d > '7' {
				break
			}
			v = v*8 + int(d-'0')
			p.pos++
		}
		buf.WriteByte(byte(v))
	default:
		buf.WriteByte(c)
	}
}

// parseHexString reads <...>. Whitespace between digits is ignored and an
// odd final digit is padded with 0.
func (p *Parser) parseHexString() (Operand, error) {
	p.pos++ // <

	digits := make([]byte, 0, 16)
	for {
		if p.pos >= len(p.data) {
			return nil, fmt.Errorf("unclosed hex string")
		}
		c := p.data[p.pos]
		p.pos++
		if c == '>' {
			break
		}
		if isWhitespace(c) {
			continue
		}
		if !isHexDigit(c) {
			return nil, fmt.Errorf("invalid hex digit: %c", c)
		}
		digits = append(digits, c)
	}
	if len(digits)%2 == 1 {
		digits = append(digits, '0')
	}

	out := make([]byte, len(digits)/2)
	if _, err := hex.Decode(out, digits); err != nil {
		return nil, fmt.Errorf("decode hex string: %w", err)
	}
	return String(out), nil
}

// parseName reads /Name, decoding #xx escapes. The slash is not kept.
func (p *Parser) parseName() Operand {
	p.pos++ // /

	var buf bytes.Buffer
	for p.pos < len(p.data) {
		c := p.data[p.pos]
		if isWhitespace(c) || isDelimiter(c) {
			break
		}
		if c == '#' && p.pos+2 < len(p.data) && isHexDigit(p.data[p.pos+1]) && isHexDigit(p.data[p.pos+2]) {
			buf.WriteByte(hexValue(p.data[p.pos+1])<<4 | hexValue(p.data[p.pos+2]))
			p.pos += 3
			continue
		}
		buf.WriteByte(c)
		p.pos++
	}
	return Name(buf.String())
}

func (p *Parser) parseArray() (Operand, error) {
	p.pos++ // [

	arr := Array{}
	for {
		p.skipWhitespace()
		if p.pos >= len(p.data) {
			return nil, fmt.Errorf("unclosed array")
		}
		if p.data[p.pos] == ']' {
			p.pos++
			return arr, nil
		}
		item, err := p.parseOperand()
		if err != nil {
			return nil, err
		}
		arr = append(arr, item)
	}
}

// parseDict reads <<...>>, which appears as marked-content properties and
// in CMap headers
func (p *Parser) parseDict() (Operand, error) {
	p.pos += 2 // <<

	dict := make(Dict)
	for {
		p.skipWhitespace()
		if p.pos >= len(p.data) {
			return nil, fmt.Errorf("unclosed dictionary")
		}
		if p.data[p.pos] == '>' && p.peek(1) == '>' {
			p.pos += 2
			return dict, nil
		}
		if p.data[p.pos] != '/' {
			return nil, fmt.Errorf("dictionary key must be a name")
		}
		key := p.parseName().(Name)

		value, err := p.parseOperand()
		if err != nil {
			return nil, err
		}
		dict[string(key)] = value
	}
}

func (p *Parser) skipComment() {
	for p.pos < len(p.data) && p.data[p.pos] != '\n' && p.data[p.pos] != '\r' {
		p.pos++
	}
}

// skipInlineImage jumps over the binary payload after ID to the EI that
// stands between whitespace, and records EI
func (p *Parser) skipInlineImage() {
	if p.pos < len(p.data) && isWhitespace(p.data[p.pos]) {
		p.pos++
	}
	for i := p.pos; i+1 < len(p.data); i++ {
		if p.data[i] != 'E' || p.data[i+1] != 'I' {
			continue
		}
		before := i == 0 || isWhitespace(p.data[i-1])
		after := i+2 >= len(p.data) || isWhitespace(p.data[i+2])
		if before && after {
			p.pos = i + 2
			p.ops = append(p.ops, Operation{Operator: "EI"})
			return
		}
	}
	p.pos = len(p.data)
}

func (p *Parser) skipWhitespace() {
	for p.pos < len(p.data) && isWhitespace(p.data[p.pos]) {
		p.pos++
	}
}

// peek returns the byte off bytes ahead, or 0 past the end
func (p *Parser) peek(off int) byte {
	if p.pos+off < len(p.data) {
		return p.data[p.pos+off]
	}
	return 0
}

func isWhitespace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\r' || c == '\n' || c == '\f' || c == 0
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

// isOperatorByte reports whether c may continue an operator such as f*, d0
// or begincodespacerange
func isOperatorByte(c byte) bool {
	return isLetter(c) || (c >= '0' && c <= '9') || c == '*' || c == '\'' || c == '"'
}

func isDelimiter(c byte) bool {
	return c == '(' || c == ')' || c == '<' || c == '>' ||
		c == '[' || c == ']' || c == '{' || c == '}' ||
		c == '/' || c == '%'
}

func isHexDigit(c byte) bool {
	return (c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

func hexValue(c byte) byte {
	switch {
	case c >= '0' && c <= '9':
		return c - '0'
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10
	}
	return 0
}
