package pagedoc

import (
	"bytes"
	"fmt"
	"image/jpeg"
)

// Compression constants. Pages are re-rendered at their native size
// and re-encoded as JPEG, trading text selectability for size.
const (
	compressScale   = 1.0
	compressQuality = 70
)

// Compress rasterizes every page and rebuilds the document from the
// JPEG-encoded pages. The output is lossy: vector content and text
// become pixels.
func Compress(doc *Document) ([]byte, error) {
	r, err := NewRenderer(doc.Bytes())
	if err != nil {
		return nil, err
	}
	defer r.Close()

	c := NewComposer()
	defer c.Close()

	for p := 0; p < r.PageCount(); p++ {
		img, space, err := r.RenderPage(p, compressScale)
		if err != nil {
			return nil, err
		}

		var encoded bytes.Buffer
		if err := jpeg.Encode(&encoded, img, &jpeg.Options{Quality: compressQuality}); err != nil {
			return nil, fmt.Errorf("encode page %d: %w", p+1, err)
		}

		c.AddBlankPage(space.NativeW, space.NativeH)
		err = c.DrawImage(encoded.Bytes(), 0, 0, space.NativeW, space.NativeH, ImageStyle{Format: "jpeg"})
		if err != nil {
			return nil, fmt.Errorf("place page %d: %w", p+1, err)
		}
	}

	return c.Bytes()
}
