// Package font decodes the strings shown by text operators.
//
// Composite fonts (Type0 with Identity-H) and subset TrueType fonts show
// glyph codes, not characters; the text behind them is only recoverable
// through the font's ToUnicode CMap:
//
//	cm, err := font.ParseCMap(toUnicodeStream)
//	text := cm.Decode(shownBytes)
//
// Codes are split according to the codespace ranges the CMap declares, so
// one-byte and two-byte fonts decode alike. Strings shown in fonts without
// a ToUnicode map are decoded by the text package as WinAnsiEncoding.
package font
