package pagedoc

import (
	"bytes"
	"fmt"
	"image"

	"github.com/docforge/docforge/internal/docerr"
	"github.com/docforge/docforge/internal/geometry"
)

// WatermarkOptions configures Watermark. Either Text or Image must be
// set. Zero values fall back to the defaults: 0.3 opacity, -45
// degrees, 48pt font, centered placement, image at natural size.
type WatermarkOptions struct {
	Text string

	Image      []byte // PNG or JPEG bytes
	ImageScale float64

	FontSizePt  float64
	Gray        int
	Opacity     float64
	RotationDeg float64
	Anchor      geometry.Anchor
}

// Watermark stamps a text or image watermark onto every page at the
// anchor positions. Tiled placement repeats the mark across the whole
// page with spacing aware of the rotated bounding box.
func Watermark(doc *Document, opts WatermarkOptions) ([]byte, error) {
	const op = "pagedoc.Watermark"

	if opts.Text == "" && len(opts.Image) == 0 {
		return nil, docerr.Newf(docerr.KindValidation, op, "watermark needs text or an image")
	}
	if opts.Opacity <= 0 || opts.Opacity > 1 {
		opts.Opacity = 0.3
	}
	if opts.FontSizePt <= 0 {
		opts.FontSizePt = 48
	}
	if opts.ImageScale <= 0 {
		opts.ImageScale = 1
	}

	var imgW, imgH float64
	var imgFormat string
	if len(opts.Image) > 0 {
		cfg, format, err := image.DecodeConfig(bytes.NewReader(opts.Image))
		if err != nil {
			return nil, docerr.Newf(docerr.KindValidation, op, "decode watermark image: %v", err)
		}
		imgFormat = format
		imgW = float64(cfg.Width) * opts.ImageScale
		imgH = float64(cfg.Height) * opts.ImageScale
	}

	c := NewComposer()
	defer c.Close()

	total, err := c.ImportDocument(doc.Bytes())
	if err != nil {
		return nil, docerr.New(docerr.KindDocumentLoad, op, err)
	}

	for p := 1; p <= total; p++ {
		w, h, err := c.AddImportedPage(p)
		if err != nil {
			return nil, fmt.Errorf("import page %d: %w", p, err)
		}

		elemW, elemH := imgW, imgH
		if opts.Text != "" {
			elemW = c.TextWidth(opts.Text, opts.FontSizePt)
			elemH = opts.FontSizePt
		}

		positions := geometry.AnchorPositions(w, h, elemW, elemH, opts.Anchor, opts.RotationDeg)
		for _, pos := range positions {
			if opts.Text != "" {
				err = c.DrawText(opts.Text, pos.X, pos.Y, TextStyle{
					SizePt:   opts.FontSizePt,
					Gray:     opts.Gray,
					Opacity:  opts.Opacity,
					AngleDeg: opts.RotationDeg,
				})
			} else {
				err = c.DrawImage(opts.Image, pos.X, pos.Y, elemW, elemH, ImageStyle{
					Format:   imgFormat,
					Opacity:  opts.Opacity,
					AngleDeg: opts.RotationDeg,
				})
			}
			if err != nil {
				return nil, fmt.Errorf("stamp page %d: %w", p, err)
			}
		}
	}

	return c.Bytes()
}
