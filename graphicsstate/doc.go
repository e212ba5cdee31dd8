// Package graphicsstate interprets the path and state operators of a PDF
// content stream and collects the rulings a page draws.
//
// # Graphics State
//
// GraphicsState tracks the CTM with its q/Q save stack and the text state
// (font, spacing, text and line matrices) used by the text interpreter:
//
//	gs := graphicsstate.NewGraphicsState()
//	gs.Save()              // q
//	gs.Transform(matrix)   // cm
//	gs.Restore()           // Q
//
// # Collecting Rulings
//
// A GraphicsExtractor drives a PathSink with untransformed path events and
// hands over the CTM at each paint. Collector is the sink that keeps the
// result as canonical axis-aligned lines and rectangles:
//
//	c := graphicsstate.NewCollector(2, true)
//	err := graphicsstate.NewGraphicsExtractor(c).ExtractFromBytes(content)
//	// c.Lines, c.Rects, c.Stats
//
// Oblique strokes, zero-length segments and zero-area rectangles are
// dropped and counted in Collector.Stats. Rectangles thinner than the
// collector's Variance can be stored as a single line along their long
// side. Curves only move the current point.
package graphicsstate
