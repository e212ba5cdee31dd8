// Package contentstream splits decoded PDF token streams into operations.
//
// rulegrid feeds it two kinds of input: page content, which the graphics
// collector and the text extractor interpret, and ToUnicode CMaps, whose
// bfchar and bfrange blocks arrive as operations with hex string operands.
//
//	ops, err := contentstream.NewParser(content).Parse()
//	for _, op := range ops {
//	    if v, ok := op.Numbers(4); ok && op.Operator == "re" {
//	        // v holds x, y, width, height
//	    }
//	}
//
// Comments are dropped and inline image payloads between ID and EI are
// skipped unread. The keywords true, false and null become operands, so
// every Operation carries a real operator.
//
// # Operand Types
//
// Operands are Int, Real, Bool, Null, String, Name, Array or Dict. Strings
// hold raw bytes; decoding them is up to the font in effect. Float and
// Operation.Numbers read numeric operands.
package contentstream
