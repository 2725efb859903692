package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"image/jpeg"

	"github.com/docforge/docforge/internal/ai"
	"github.com/docforge/docforge/internal/codec"
	"github.com/docforge/docforge/internal/docerr"
	"github.com/docforge/docforge/internal/htmlpdf"
	"github.com/docforge/docforge/internal/office"
	"github.com/docforge/docforge/internal/pagedoc"
)

const (
	cleanScale   = 2.0
	cleanQuality = 95
)

func (s *Service) requireAI(op string) error {
	if s.ai == nil {
		return docerr.Newf(docerr.KindValidation, op, "no AI provider is configured")
	}
	return nil
}

// decrypted returns the file's bytes with any encryption removed, so
// the raster renderer can open them.
func (s *Service) decrypted(op string, f File, password string) ([]byte, error) {
	doc, err := s.loadPDF(op, f, password)
	if err != nil {
		return nil, err
	}
	if !doc.Encrypted() {
		return doc.Bytes(), nil
	}
	return pagedoc.Unlock(doc.Bytes(), password)
}

// OutlookToPDF best-effort decodes a legacy .msg mail container as
// text, asks the model for the structured email fields, and prints
// the resulting HTML fragment. Fidelity is not guaranteed; the format
// has no deterministic parser on this path.
func (s *Service) OutlookToPDF(ctx context.Context, req DocumentRequest) (*Result, error) {
	const op = "pipeline.OutlookToPDF"

	if err := s.requireAI(op); err != nil {
		return nil, err
	}
	if err := s.requirePrinter(op); err != nil {
		return nil, err
	}
	if err := s.checkSize(op, req.File); err != nil {
		return nil, err
	}

	fragment, err := ai.ExtractOutlookMessage(ctx, s.ai, req.File.Data)
	if err != nil {
		return nil, err
	}

	page := fmt.Sprintf(`<!DOCTYPE html><html><head><meta charset="utf-8"></head><body>%s</body></html>`, fragment)
	out, err := s.printer.Print(ctx, page, htmlpdf.DefaultOptions())
	if err != nil {
		return nil, err
	}
	return &Result{
		Name: stem(req.File.Name) + ".pdf",
		MIME: codec.FormatPDF.MIME(),
		Data: out,
	}, nil
}

// ExtractPDFTables asks the model to reformat the believed-table
// regions of a document's text as CSV. A document without tables is
// an ExtractionFailed error rather than an empty file.
func (s *Service) ExtractPDFTables(ctx context.Context, req DocumentRequest) (*Result, error) {
	const op = "pipeline.ExtractPDFTables"

	if err := s.requireAI(op); err != nil {
		return nil, err
	}
	doc, err := s.loadPDF(op, req.File, req.Password)
	if err != nil {
		return nil, err
	}
	text, err := pagedoc.ExtractText(doc)
	if err != nil {
		return nil, err
	}

	csvText, err := ai.ExtractTables(ctx, s.ai, text)
	if err != nil {
		return nil, err
	}
	return &Result{
		Name: stem(req.File.Name) + "-tables.csv",
		MIME: codec.FormatCSV.MIME(),
		Data: []byte(csvText),
	}, nil
}

// PDFToPresentation summarizes each page's text into a slide title
// and bullets and rebuilds the document as a presentation. Pages
// without meaningful text become placeholder slides.
func (s *Service) PDFToPresentation(ctx context.Context, req DocumentRequest) (*Result, error) {
	const op = "pipeline.PDFToPresentation"

	if err := s.requireAI(op); err != nil {
		return nil, err
	}
	data, err := s.decrypted(op, req.File, req.Password)
	if err != nil {
		return nil, err
	}

	r, err := pagedoc.NewRenderer(data)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	texts := make([]string, 0, r.PageCount())
	for p := 0; p < r.PageCount(); p++ {
		text, err := r.PageText(p)
		if err != nil {
			return nil, err
		}
		texts = append(texts, text)
	}

	slides, err := ai.SummarizePages(ctx, s.ai, texts)
	if err != nil {
		return nil, err
	}

	out, err := office.WritePresentation(slides)
	if err != nil {
		return nil, err
	}
	return &Result{
		Name: stem(req.File.Name) + ".pptx",
		MIME: codec.FormatPPTX.MIME(),
		Data: out,
	}, nil
}

// RemoveWatermark renders each page, asks the vision model for a
// cleaned copy, and rebuilds the document from the cleaned pages. The
// output is raster-only, like Compress. The per-page loop checks the
// context between iterations so a long document can be cancelled.
func (s *Service) RemoveWatermark(ctx context.Context, req DocumentRequest) (*Result, error) {
	const op = "pipeline.RemoveWatermark"

	if err := s.requireAI(op); err != nil {
		return nil, err
	}
	data, err := s.decrypted(op, req.File, req.Password)
	if err != nil {
		return nil, err
	}

	r, err := pagedoc.NewRenderer(data)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	cleaned := make([][]byte, 0, r.PageCount())
	for p := 0; p < r.PageCount(); p++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		img, _, err := r.RenderPage(p, cleanScale)
		if err != nil {
			return nil, err
		}
		var buf bytes.Buffer
		if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: cleanQuality}); err != nil {
			return nil, fmt.Errorf("encode page %d: %w", p+1, err)
		}

		page, err := ai.CleanWatermark(ctx, s.ai, buf.Bytes())
		if err != nil {
			return nil, err
		}
		cleaned = append(cleaned, page)
	}

	out, err := pagedoc.ImagesToPDF(cleaned)
	if err != nil {
		return nil, err
	}
	return &Result{
		Name: "cleaned-" + stem(req.File.Name) + ".pdf",
		MIME: codec.FormatPDF.MIME(),
		Data: out,
	}, nil
}
