// Package pdfsource reads page geometry and decoded content streams from
// PDF files.
package pdfsource

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"

	"github.com/tsawler/rulegrid/contentstream"
	"github.com/tsawler/rulegrid/font"
)

// maxResourceDepth bounds the descent into the resources of nested forms
const maxResourceDepth = 8

// ErrPageRange is returned for a page number outside the document
var ErrPageRange = errors.New("pdfsource: page out of range")

// Page is one page's geometry and content
type Page struct {
	Number int

	// Rotate entry of the page, normalized to 0, 90, 180 or 270
	Rotation int

	// MediaBox size in points
	Width  float64
	Height float64

	// Content holds the decoded content streams, joined by newlines
	Content []byte

	// ToUnicode maps of the page's fonts, by resource name. Fonts without
	// a readable map are absent.
	Fonts map[string]*font.CMap

	// Form XObjects by resource name, including forms nested in forms.
	// Fonts and forms of nested resources are merged in when their names
	// are not already taken.
	Forms map[string]contentstream.Form
}

// TableRotation maps the page rotation onto the rotations the table
// builder distinguishes: pages turned a quarter read as 90, all others
// as 0.
func (p *Page) TableRotation() int {
	if p.Rotation%180 == 90 {
		return 90
	}
	return 0
}

// Document is an open PDF
type Document struct {
	ctx *model.Context
}

// Open reads the PDF at path
func Open(path string) (*Document, error) {
	ctx, err := api.ReadContextFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return &Document{ctx: ctx}, nil
}

// OpenReader reads a PDF from rs
func OpenReader(rs io.ReadSeeker) (*Document, error) {
	ctx, err := api.ReadContext(rs, model.NewDefaultConfiguration())
	if err != nil {
		return nil, fmt.Errorf("read PDF: %w", err)
	}
	return &Document{ctx: ctx}, nil
}

// PageCount returns the number of pages
func (d *Document) PageCount() int {
	return d.ctx.PageCount
}

// Page loads page n, counting from 1
func (d *Document) Page(n int) (*Page, error) {
	if n < 1 || n > d.ctx.PageCount {
		return nil, fmt.Errorf("%w: %d of %d", ErrPageRange, n, d.ctx.PageCount)
	}

	dict, _, attrs, err := d.ctx.PageDict(n, false)
	if err != nil {
		return nil, fmt.Errorf("page %d: %w", n, err)
	}
	if dict == nil {
		return nil, fmt.Errorf("page %d: missing page dictionary", n)
	}

	page := &Page{Number: n, Width: 612, Height: 792}
	if attrs != nil {
		page.Rotation = ((attrs.Rotate % 360) + 360) % 360
		if attrs.MediaBox != nil {
			page.Width = attrs.MediaBox.Width()
			page.Height = attrs.MediaBox.Height()
		}
	}

	content, err := d.content(dict["Contents"])
	if err != nil {
		return nil, fmt.Errorf("page %d: %w", n, err)
	}
	page.Content = content

	page.Fonts = make(map[string]*font.CMap)
	page.Forms = make(map[string]contentstream.Form)
	res := d.dict(dict["Resources"])
	if res == nil && attrs != nil {
		res = attrs.Resources
	}
	d.loadResources(page, res, 0)

	return page, nil
}

// loadResources collects the ToUnicode maps and form XObjects of res.
// Unreadable entries are skipped: their text falls back to WinAnsi and
// their rulings are not drawn.
func (d *Document) loadResources(page *Page, res types.Dict, depth int) {
	if res == nil || depth > maxResourceDepth {
		return
	}

	for name, obj := range d.dict(res["Font"]) {
		if _, taken := page.Fonts[name]; taken {
			continue
		}
		fd := d.dict(obj)
		if fd == nil {
			continue
		}
		data, ok := d.stream(fd["ToUnicode"])
		if !ok {
			continue
		}
		if cm, err := font.ParseCMap(data); err == nil {
			page.Fonts[name] = cm
		}
	}

	for name, obj := range d.dict(res["XObject"]) {
		if _, taken := page.Forms[name]; taken {
			continue
		}
		sd, _, err := d.ctx.DereferenceStreamDict(deref(obj))
		if err != nil || sd == nil {
			continue
		}
		if subtype, ok := sd.Dict["Subtype"].(types.Name); !ok || subtype != "Form" {
			continue
		}
		if err := sd.Decode(); err != nil {
			continue
		}
		page.Forms[name] = contentstream.Form{
			Content: sd.Content,
			Matrix:  d.matrix(sd.Dict["Matrix"]),
		}
		d.loadResources(page, d.dict(sd.Dict["Resources"]), depth+1)
	}
}

// dict resolves obj to a dictionary, or nil
func (d *Document) dict(obj types.Object) types.Dict {
	if obj == nil {
		return nil
	}
	dict, err := d.ctx.DereferenceDict(deref(obj))
	if err != nil {
		return nil
	}
	return dict
}

// stream resolves obj to a stream and returns its decoded content
func (d *Document) stream(obj types.Object) ([]byte, bool) {
	if obj == nil {
		return nil, false
	}
	sd, _, err := d.ctx.DereferenceStreamDict(deref(obj))
	if err != nil || sd == nil {
		return nil, false
	}
	if err := sd.Decode(); err != nil {
		return nil, false
	}
	return sd.Content, true
}

// matrix reads a form Matrix entry; anything but six numbers yields the
// zero value, which stands for identity
func (d *Document) matrix(obj types.Object) [6]float64 {
	var m [6]float64
	arr, err := d.ctx.DereferenceArray(deref(obj))
	if err != nil || len(arr) != 6 {
		return m
	}
	for i, item := range arr {
		switch v := deref(item).(type) {
		case types.Integer:
			m[i] = float64(v)
		case types.Float:
			m[i] = float64(v)
		default:
			return [6]float64{}
		}
	}
	return m
}

// deref turns pointer references into the value form pdfcpu resolves
func deref(obj types.Object) types.Object {
	if ref, ok := obj.(*types.IndirectRef); ok && ref != nil {
		return *ref
	}
	return obj
}

// content decodes a Contents entry, which is a stream or an array of them
func (d *Document) content(obj types.Object) ([]byte, error) {
	var refs []types.IndirectRef

	switch v := obj.(type) {
	case nil:
		return nil, nil
	case types.IndirectRef:
		refs = append(refs, v)
	case *types.IndirectRef:
		refs = append(refs, *v)
	case types.Array:
		for _, item := range v {
			switch ref := item.(type) {
			case types.IndirectRef:
				refs = append(refs, ref)
			case *types.IndirectRef:
				refs = append(refs, *ref)
			}
		}
	default:
		return nil, fmt.Errorf("unexpected Contents type %T", obj)
	}

	var parts [][]byte
	for _, ref := range refs {
		sd, _, err := d.ctx.DereferenceStreamDict(ref)
		if err != nil {
			return nil, fmt.Errorf("content stream %s: %w", ref, err)
		}
		if sd == nil {
			continue
		}
		if err := sd.Decode(); err != nil {
			return nil, fmt.Errorf("decode content stream %s: %w", ref, err)
		}
		parts = append(parts, sd.Content)
	}

	return bytes.Join(parts, []byte("\n")), nil
}
