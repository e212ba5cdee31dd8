package contentstream

import (
	"strconv"
	"strings"
)

// Operand is a content stream operand. The concrete types mirror the PDF
// object types that may appear before an operator.
type Operand interface {
	String() string
}

// Int is an integer operand
type Int int64

func (i Int) String() string { return strconv.FormatInt(int64(i), 10) }

// Real is a real number operand
type Real float64

func (r Real) String() string { return strconv.FormatFloat(float64(r), 'f', -1, 64) }

// Bool is a boolean operand
type Bool bool

func (b Bool) String() string { return strconv.FormatBool(bool(b)) }

// Null is the null operand
type Null struct{}

func (Null) String() string { return "null" }

// String is a literal or hex string operand holding raw bytes
type String string

func (s String) String() string { return string(s) }

// Name is a name operand without the leading slash
type Name string

func (n Name) String() string { return "/" + string(n) }

// Array is an array operand
type Array []Operand

func (a Array) String() string {
	parts := make([]string, len(a))
	for i, o := range a {
		parts[i] = o.String()
	}
	return "[" + strings.Join(parts, " ") + "]"
}

// Dict is an inline dictionary operand, as in marked content properties and
// CMap headers
type Dict map[string]Operand

func (d Dict) String() string {
	return "<<" + strconv.Itoa(len(d)) + " entries>>"
}

// Float returns the numeric value of an Int or Real operand.
func Float(o Operand) (float64, bool) {
	switch v := o.(type) {
	case Int:
		return float64(v), true
	case Real:
		return float64(v), true
	default:
		return 0, false
	}
}

// Numbers returns the operands as floats when the operation has exactly n
// numeric operands.
func (op Operation) Numbers(n int) ([]float64, bool) {
	if len(op.Operands) != n {
		return nil, false
	}
	vals := make([]float64, n)
	for i, o := range op.Operands {
		v, ok := Float(o)
		if !ok {
			return nil, false
		}
		vals[i] = v
	}
	return vals, true
}
