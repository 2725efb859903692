package pagedoc

import (
	"image"

	"github.com/gen2brain/go-fitz"

	"github.com/docforge/docforge/internal/docerr"
	"github.com/docforge/docforge/internal/geometry"
)

// baseDPI is the PDF user-space resolution. Rendering at baseDPI*scale
// keeps the raster-to-native ratio equal to 1/scale on both axes.
const baseDPI = 72

// Renderer rasterizes PDF pages through MuPDF. A Renderer wraps one
// open document and must be closed after use.
type Renderer struct {
	doc *fitz.Document
}

// NewRenderer opens PDF bytes for rasterization.
func NewRenderer(data []byte) (*Renderer, error) {
	const op = "pagedoc.NewRenderer"

	doc, err := fitz.NewFromMemory(data)
	if err != nil {
		return nil, docerr.New(docerr.KindDocumentLoad, op, err)
	}
	return &Renderer{doc: doc}, nil
}

// Close releases the underlying MuPDF document.
func (r *Renderer) Close() error { return r.doc.Close() }

// PageCount reports the number of pages.
func (r *Renderer) PageCount() int { return r.doc.NumPage() }

// RenderPage rasterizes the zero-based page at the given scale and
// returns the image together with the page space mapping raster pixels
// back to native points.
func (r *Renderer) RenderPage(page int, scale float64) (image.Image, geometry.PageSpace, error) {
	const op = "pagedoc.RenderPage"

	bounds, err := r.doc.Bound(page)
	if err != nil {
		return nil, geometry.PageSpace{}, docerr.New(docerr.KindDocumentLoad, op, err)
	}

	img, err := r.doc.ImageDPI(page, baseDPI*scale)
	if err != nil {
		return nil, geometry.PageSpace{}, docerr.New(docerr.KindDocumentLoad, op, err)
	}

	space := geometry.PageSpace{
		NativeW: float64(bounds.Dx()),
		NativeH: float64(bounds.Dy()),
		RasterW: float64(img.Bounds().Dx()),
		RasterH: float64(img.Bounds().Dy()),
	}
	return img, space, nil
}

// PageSpace returns the coordinate mapping of the zero-based page at
// the given scale without producing pixels.
func (r *Renderer) PageSpace(page int, scale float64) (geometry.PageSpace, error) {
	const op = "pagedoc.PageSpace"

	bounds, err := r.doc.Bound(page)
	if err != nil {
		return geometry.PageSpace{}, docerr.New(docerr.KindDocumentLoad, op, err)
	}
	return geometry.PageSpace{
		NativeW: float64(bounds.Dx()),
		NativeH: float64(bounds.Dy()),
		RasterW: float64(bounds.Dx()) * scale,
		RasterH: float64(bounds.Dy()) * scale,
	}, nil
}

// PageText extracts the text of the zero-based page.
func (r *Renderer) PageText(page int) (string, error) {
	const op = "pagedoc.PageText"

	text, err := r.doc.Text(page)
	if err != nil {
		return "", docerr.New(docerr.KindDocumentLoad, op, err)
	}
	return text, nil
}
