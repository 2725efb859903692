package pagedoc

import (
	"bytes"
	"fmt"
	"image"

	"github.com/docforge/docforge/internal/docerr"
	"github.com/docforge/docforge/internal/geometry"
)

// ElementKind is the type of an element placed on a page preview.
type ElementKind string

const (
	ElementText      ElementKind = "text"
	ElementImage     ElementKind = "image"
	ElementSignature ElementKind = "signature"
)

// Element is a single item the user placed on a rasterized page
// preview. Box is in the preview's raster space, top-left origin;
// Space maps that preview back onto the page it was rendered from.
type Element struct {
	Kind  ElementKind
	Page  int // 1-based
	Box   geometry.Box
	Space geometry.PageSpace

	Text       string
	FontSizePx float64 // raster pixels, converted per page
	Gray       int

	Image []byte // PNG or JPEG bytes
}

// ApplyElements burns the placed elements into the document. The
// original bytes are re-read so that preview quality never affects
// output quality, and each element converts through its own page
// space because page sizes may differ within one document.
func ApplyElements(doc *Document, elems []Element) ([]byte, error) {
	const op = "pagedoc.ApplyElements"

	if len(elems) == 0 {
		return nil, docerr.Newf(docerr.KindValidation, op, "no elements to apply")
	}

	byPage := make(map[int][]Element, len(elems))
	for i, e := range elems {
		if e.Page < 1 || e.Page > doc.PageCount() {
			return nil, docerr.Newf(docerr.KindValidation, op,
				"element %d targets page %d of a %d-page document", i+1, e.Page, doc.PageCount())
		}
		if err := e.Space.Validate(); err != nil {
			return nil, docerr.Newf(docerr.KindValidation, op, "element %d: %v", i+1, err)
		}
		byPage[e.Page] = append(byPage[e.Page], e)
	}

	c := NewComposer()
	defer c.Close()

	total, err := c.ImportDocument(doc.Bytes())
	if err != nil {
		return nil, docerr.New(docerr.KindDocumentLoad, op, err)
	}

	for p := 1; p <= total; p++ {
		if _, _, err := c.AddImportedPage(p); err != nil {
			return nil, fmt.Errorf("import page %d: %w", p, err)
		}
		for _, e := range byPage[p] {
			if err := applyElement(c, e); err != nil {
				return nil, fmt.Errorf("apply element on page %d: %w", p, err)
			}
		}
	}

	return c.Bytes()
}

func applyElement(c *Composer, e Element) error {
	native := e.Space.RasterBoxToNative(e.Box)

	switch e.Kind {
	case ElementText:
		size := e.FontSizePx * e.Space.ScaleY()
		if size <= 0 {
			size = 12
		}
		// The box bottom edge carries the text baseline.
		return c.DrawText(e.Text, native.X, native.Y, TextStyle{SizePt: size, Gray: e.Gray})
	case ElementImage, ElementSignature:
		_, format, err := image.DecodeConfig(bytes.NewReader(e.Image))
		if err != nil {
			return fmt.Errorf("decode element image: %w", err)
		}
		return c.DrawImage(e.Image, native.X, native.Y, native.Width, native.Height, ImageStyle{Format: format})
	default:
		return fmt.Errorf("unknown element kind %q", e.Kind)
	}
}
