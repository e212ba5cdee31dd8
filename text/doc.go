// Package text locates the text drawn inside table cells.
//
// The [Extractor] interprets the text operators of a content stream and
// records each shown string as a [Chunk] with its baseline start and end in
// device space:
//
//	chunks, err := text.NewExtractor().ExtractFromBytes(contentData)
//	loc := text.NewChunkLocator(chunks)
//	s := loc.LookupText(cellRect, 2)
//
// Font programs are not read. String bytes are decoded as WinAnsiEncoding
// and every glyph is assumed to be half an em wide, which is enough to tell
// whether a chunk lies inside a cell. Invisible text (rendering mode 3) is
// skipped.
//
// [ChunkLocator.LookupText] keeps chunks whose start and end both fall in
// the cell, orders them into lines top to bottom, and joins lines with a
// newline. Lines dominated by right-to-left characters are ordered right to
// left. The result is NFC normalized.
package text
