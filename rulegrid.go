// Package rulegrid provides a fluent API for reconstructing ruled tables
// from PDF files.
//
// Basic usage:
//
//	pages, warnings, err := rulegrid.Open("report.pdf").Tables()
//	if err != nil {
//	    // handle error
//	}
//	if len(warnings) > 0 {
//	    log.Println("Warnings:", rulegrid.FormatWarnings(warnings))
//	}
//
// With options:
//
//	html, _, err := rulegrid.Open("report.pdf").
//	    Pages(2, 3).
//	    Rotation(90).
//	    HTML()
//
// For lower-level control, the tables package runs the reconstruction over
// a single decoded content stream.
package rulegrid

import "io"

// Open returns an Extractor for the PDF at filename. The file is read by
// the first terminal operation.
//
// Example:
//
//	pages, warnings, err := rulegrid.Open("document.pdf").Tables()
func Open(filename string) *Extractor {
	return &Extractor{
		filename: filename,
		options:  defaultOptions(),
	}
}

// FromReader returns an Extractor reading the PDF from rs.
//
// Example:
//
//	f, err := os.Open("document.pdf")
//	if err != nil {
//	    // handle error
//	}
//	defer f.Close()
//	pages, warnings, err := rulegrid.FromReader(f).Tables()
func FromReader(rs io.ReadSeeker) *Extractor {
	return &Extractor{
		source:  rs,
		options: defaultOptions(),
	}
}

// Must is a helper that wraps a call to a function returning (T, error)
// and panics if the error is non-nil. It is intended for use in scripts
// or tests where error handling would be cumbersome.
//
// Example:
//
//	count := rulegrid.Must(rulegrid.Open("document.pdf").PageCount())
func Must[T any](val T, err error) T {
	if err != nil {
		panic(err)
	}
	return val
}

// MustTables is like Must for calls that also return warnings, which it
// discards.
//
// Example:
//
//	pages := rulegrid.MustTables(rulegrid.Open("document.pdf").Tables())
func MustTables[T any](val T, _ []Warning, err error) T {
	if err != nil {
		panic(err)
	}
	return val
}
