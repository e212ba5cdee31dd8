package contentstream

import "fmt"

// Form is a form XObject: a reusable content stream drawn by Do, with the
// matrix that maps form space into the space of the invoking stream.
type Form struct {
	Content []byte

	// Matrix [a b c d e f]; the zero value stands for identity
	Matrix [6]float64
}

// ExpandForms replaces every Do that names one of forms with the form's own
// operations, wrapped in q, cm and Q so the form matrix and any state the
// form changes stay local. Forms drawn from forms are expanded down to
// maxDepth levels. A form that draws itself, directly or through others,
// is left as a plain Do, as are image XObjects and unknown names.
func ExpandForms(ops []Operation, forms map[string]Form, maxDepth int) ([]Operation, error) {
	if len(forms) == 0 || maxDepth < 1 {
		return ops, nil
	}
	return expandForms(ops, forms, maxDepth, make(map[string]bool))
}

func expandForms(ops []Operation, forms map[string]Form, depth int, drawing map[string]bool) ([]Operation, error) {
	out := make([]Operation, 0, len(ops))
	for _, op := range ops {
		name, form, ok := formOf(op, forms)
		if !ok || depth == 0 || drawing[name] {
			out = append(out, op)
			continue
		}

		inner, err := NewParser(form.Content).Parse()
		if err != nil {
			return nil, fmt.Errorf("form %s: %w", name, err)
		}

		drawing[name] = true
		inner, err = expandForms(inner, forms, depth-1, drawing)
		delete(drawing, name)
		if err != nil {
			return nil, err
		}

		out = append(out, Operation{Operator: "q"}, Operation{Operator: "cm", Operands: matrixOperands(form.Matrix)})
		out = append(out, inner...)
		out = append(out, Operation{Operator: "Q"})
	}
	return out, nil
}

// formOf returns the form drawn by a Do operation
func formOf(op Operation, forms map[string]Form) (string, Form, bool) {
	if op.Operator != "Do" || len(op.Operands) != 1 {
		return "", Form{}, false
	}
	name, ok := op.Operands[0].(Name)
	if !ok {
		return "", Form{}, false
	}
	form, ok := forms[string(name)]
	return string(name), form, ok
}

func matrixOperands(m [6]float64) []Operand {
	if m == ([6]float64{}) {
		m = [6]float64{1, 0, 0, 1, 0, 0}
	}
	operands := make([]Operand, len(m))
	for i, v := range m {
		operands[i] = Real(v)
	}
	return operands
}
