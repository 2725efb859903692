package pagedoc

import (
	"archive/zip"
	"bytes"
	"fmt"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"

	"github.com/pdfcpu/pdfcpu/pkg/api"

	"github.com/docforge/docforge/internal/docerr"
)

// ImagesToPDF builds a PDF with one page per input image, each page
// sized to its image. Supported inputs are JPEG and PNG bytes.
func ImagesToPDF(images [][]byte) ([]byte, error) {
	const op = "pagedoc.ImagesToPDF"

	if len(images) == 0 {
		return nil, docerr.Newf(docerr.KindValidation, op, "no images supplied")
	}

	dir, cleanup, err := workDir()
	if err != nil {
		return nil, err
	}
	defer cleanup()

	inputs := make([]string, len(images))
	for i, img := range images {
		ext, err := sniffImageExt(img)
		if err != nil {
			return nil, docerr.Newf(docerr.KindValidation, op, "image %d: %v", i+1, err)
		}
		path := filepath.Join(dir, fmt.Sprintf("img-%d%s", i, ext))
		if err := os.WriteFile(path, img, 0o600); err != nil {
			return nil, fmt.Errorf("stage image %d: %w", i, err)
		}
		inputs[i] = path
	}

	out := filepath.Join(dir, "out.pdf")
	if err := api.ImportImagesFile(inputs, out, nil, nil); err != nil {
		return nil, docerr.New(docerr.KindValidation, op, err)
	}

	data, err := os.ReadFile(out)
	if err != nil {
		return nil, fmt.Errorf("read image pdf: %w", err)
	}
	return data, nil
}

func sniffImageExt(data []byte) (string, error) {
	switch {
	case len(data) > 3 && bytes.Equal(data[:4], []byte("\x89PNG")):
		return ".png", nil
	case len(data) > 2 && bytes.Equal(data[:3], []byte("\xff\xd8\xff")):
		return ".jpg", nil
	default:
		return "", fmt.Errorf("unsupported image format")
	}
}

// ImageFormat selects the raster output encoding.
type ImageFormat string

const (
	ImagePNG  ImageFormat = "png"
	ImageJPEG ImageFormat = "jpeg"
)

// renderScale is the raster scale for page-to-image export.
const renderScale = 1.5

// PDFToImages rasterizes every page and returns a zip archive with
// entries named <stem>-page-<n>.<ext>.
func PDFToImages(doc *Document, format ImageFormat) ([]byte, error) {
	const op = "pagedoc.PDFToImages"

	r, err := NewRenderer(doc.Bytes())
	if err != nil {
		return nil, err
	}
	defer r.Close()

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	for p := 0; p < r.PageCount(); p++ {
		img, _, err := r.RenderPage(p, renderScale)
		if err != nil {
			return nil, err
		}

		var encoded bytes.Buffer
		var ext string
		switch format {
		case ImageJPEG:
			ext = "jpg"
			err = jpeg.Encode(&encoded, img, &jpeg.Options{Quality: 90})
		default:
			ext = "png"
			err = png.Encode(&encoded, img)
		}
		if err != nil {
			return nil, fmt.Errorf("encode page %d: %w", p+1, err)
		}

		w, err := zw.Create(fmt.Sprintf("%s-page-%d.%s", doc.Stem(), p+1, ext))
		if err != nil {
			return nil, fmt.Errorf("create archive entry: %w", err)
		}
		if _, err := w.Write(encoded.Bytes()); err != nil {
			return nil, fmt.Errorf("write archive entry: %w", err)
		}
	}

	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("finalize archive: %w", err)
	}
	return buf.Bytes(), nil
}
