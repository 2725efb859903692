package pipeline

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/docforge/docforge/internal/ai"
	"github.com/docforge/docforge/internal/codec"
	"github.com/docforge/docforge/internal/dataset"
	"github.com/docforge/docforge/internal/docerr"
	"github.com/docforge/docforge/internal/geometry"
	"github.com/docforge/docforge/internal/htmlpdf"
	"github.com/docforge/docforge/internal/pagedoc"
)

// HTMLPrinter flattens an HTML document into PDF bytes. Satisfied by
// htmlpdf.Printer; kept as an interface so conversions that route
// through HTML stay testable without a browser.
type HTMLPrinter interface {
	Print(ctx context.Context, html string, opts htmlpdf.Options) ([]byte, error)
}

// Service orchestrates every document operation behind one facade.
// The AI client and the printer may be nil; operations that need them
// fail with a Validation error instead of panicking.
type Service struct {
	maxFileSize int64
	registry    *dataset.Registry
	ai          ai.Client
	printer     HTMLPrinter
}

// NewService creates a pipeline service.
func NewService(maxFileSize int64, aiClient ai.Client, printer HTMLPrinter) *Service {
	return &Service{
		maxFileSize: maxFileSize,
		registry:    dataset.NewRegistry(),
		ai:          aiClient,
		printer:     printer,
	}
}

// GetMaxFileSize returns the maximum input file size limit.
func (s *Service) GetMaxFileSize() int64 {
	return s.maxFileSize
}

// HasAI reports whether an AI provider is wired in.
func (s *Service) HasAI() bool {
	return s.ai != nil
}

// HasPrinter reports whether an HTML printer is wired in.
func (s *Service) HasPrinter() bool {
	return s.printer != nil
}

func (s *Service) checkSize(op string, f File) error {
	if len(f.Data) == 0 {
		return docerr.Newf(docerr.KindValidation, op, "file %q is empty", f.Name)
	}
	if s.maxFileSize > 0 && int64(len(f.Data)) > s.maxFileSize {
		return docerr.Newf(docerr.KindValidation, op,
			"file %q exceeds the maximum size of %d bytes", f.Name, s.maxFileSize)
	}
	return nil
}

func (s *Service) loadPDF(op string, f File, password string) (*pagedoc.Document, error) {
	if err := s.checkSize(op, f); err != nil {
		return nil, err
	}
	return pagedoc.Load(f.Name, f.Data, password)
}

// stem returns the filename without its extension.
func stem(name string) string {
	base := filepath.Base(name)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// MergePDFs concatenates every page of every input in listed order.
func (s *Service) MergePDFs(req MergeRequest) (*Result, error) {
	const op = "pipeline.MergePDFs"

	if len(req.Files) < 2 {
		return nil, docerr.Newf(docerr.KindValidation, op, "merging needs at least 2 documents, got %d", len(req.Files))
	}

	docs := make([]*pagedoc.Document, 0, len(req.Files))
	for i, f := range req.Files {
		password := ""
		if i < len(req.Passwords) {
			password = req.Passwords[i]
		}
		doc, err := s.loadPDF(op, f, password)
		if err != nil {
			return nil, fmt.Errorf("load %q: %w", f.Name, err)
		}
		docs = append(docs, doc)
	}

	out, err := pagedoc.Merge(docs)
	if err != nil {
		return nil, err
	}
	return &Result{
		Name: fmt.Sprintf("merged-%d.pdf", time.Now().Unix()),
		MIME: codec.FormatPDF.MIME(),
		Data: out,
	}, nil
}

// SplitPDFRange extracts the pages named by the range expression into
// a new document.
func (s *Service) SplitPDFRange(req SplitRangeRequest) (*Result, error) {
	const op = "pipeline.SplitPDFRange"

	doc, err := s.loadPDF(op, req.File, req.Password)
	if err != nil {
		return nil, err
	}
	out, err := pagedoc.SplitRange(doc, req.Pages)
	if err != nil {
		return nil, err
	}
	return &Result{
		Name: "split-" + filepath.Base(req.File.Name),
		MIME: codec.FormatPDF.MIME(),
		Data: out,
	}, nil
}

// ExtractAllPages splits a document into one single-page file per
// page, bundled into a zip archive.
func (s *Service) ExtractAllPages(req ExtractPagesRequest) (*Result, error) {
	const op = "pipeline.ExtractAllPages"

	doc, err := s.loadPDF(op, req.File, req.Password)
	if err != nil {
		return nil, err
	}
	out, err := pagedoc.SplitExtractAll(doc)
	if err != nil {
		return nil, err
	}
	return &Result{
		Name: stem(req.File.Name) + "-pages.zip",
		MIME: codec.FormatZIP.MIME(),
		Data: out,
	}, nil
}

// CompressPDF rasterizes every page and rebuilds the document from
// lossy JPEG images. Vector content and selectable text do not
// survive; the trade is deliberate.
func (s *Service) CompressPDF(req CompressRequest) (*Result, error) {
	const op = "pipeline.CompressPDF"

	doc, err := s.loadPDF(op, req.File, req.Password)
	if err != nil {
		return nil, err
	}
	out, err := pagedoc.Compress(doc)
	if err != nil {
		return nil, err
	}
	return &Result{
		Name: "compressed-" + filepath.Base(req.File.Name),
		MIME: codec.FormatPDF.MIME(),
		Data: out,
	}, nil
}

// ProtectPDF encrypts the document with the given password.
func (s *Service) ProtectPDF(req ProtectRequest) (*Result, error) {
	const op = "pipeline.ProtectPDF"

	doc, err := s.loadPDF(op, req.File, "")
	if err != nil {
		return nil, err
	}
	out, err := pagedoc.Protect(doc, req.Password)
	if err != nil {
		return nil, err
	}
	return &Result{
		Name: "protected-" + filepath.Base(req.File.Name),
		MIME: codec.FormatPDF.MIME(),
		Data: out,
	}, nil
}

// UnlockPDF removes the password from a protected document. A wrong
// password surfaces as a WrongPassword error, distinct from a corrupt
// document.
func (s *Service) UnlockPDF(req UnlockRequest) (*Result, error) {
	const op = "pipeline.UnlockPDF"

	if err := s.checkSize(op, req.File); err != nil {
		return nil, err
	}
	out, err := pagedoc.Unlock(req.File.Data, req.Password)
	if err != nil {
		return nil, err
	}
	return &Result{
		Name: "unlocked-" + filepath.Base(req.File.Name),
		MIME: codec.FormatPDF.MIME(),
		Data: out,
	}, nil
}

// AddPageNumbers stamps formatted page numbers onto selected pages.
func (s *Service) AddPageNumbers(req PageNumbersRequest) (*Result, error) {
	const op = "pipeline.AddPageNumbers"

	doc, err := s.loadPDF(op, req.File, req.Password)
	if err != nil {
		return nil, err
	}

	anchor := geometry.AnchorBottomCenter
	if req.Position != "" {
		anchor, err = geometry.ParseAnchor(req.Position)
		if err != nil {
			return nil, docerr.New(docerr.KindValidation, op, err)
		}
	}

	out, err := pagedoc.AddPageNumbers(doc, pagedoc.NumberOptions{
		Format:      pagedoc.NumberFormat(req.Format),
		Anchor:      anchor,
		MarginPt:    req.MarginPt,
		FontSizePt:  req.FontSizePt,
		StartNumber: req.StartNumber,
		Pages:       req.Pages,
	})
	if err != nil {
		return nil, err
	}
	return &Result{
		Name: "numbered-" + filepath.Base(req.File.Name),
		MIME: codec.FormatPDF.MIME(),
		Data: out,
	}, nil
}

// WatermarkPDF stamps a uniform text or image watermark across every
// page, at one of the nine anchors or tiled over the whole page.
func (s *Service) WatermarkPDF(req WatermarkRequest) (*Result, error) {
	const op = "pipeline.WatermarkPDF"

	if strings.TrimSpace(req.Text) == "" && len(req.Image) == 0 {
		return nil, docerr.Newf(docerr.KindValidation, op, "watermark needs text or an image")
	}

	doc, err := s.loadPDF(op, req.File, req.Password)
	if err != nil {
		return nil, err
	}

	anchor := geometry.AnchorCenter
	if req.Position != "" {
		anchor, err = geometry.ParseAnchor(req.Position)
		if err != nil {
			return nil, docerr.New(docerr.KindValidation, op, err)
		}
	}

	out, err := pagedoc.Watermark(doc, pagedoc.WatermarkOptions{
		Text:        req.Text,
		Image:       req.Image,
		ImageScale:  req.ImageScale,
		FontSizePt:  req.FontSizePt,
		Gray:        req.Gray,
		Opacity:     req.Opacity,
		RotationDeg: req.RotationDeg,
		Anchor:      anchor,
	})
	if err != nil {
		return nil, err
	}
	return &Result{
		Name: "watermarked-" + filepath.Base(req.File.Name),
		MIME: codec.FormatPDF.MIME(),
		Data: out,
	}, nil
}

// ImagesToPDF builds a document with one page per input image, each
// page sized to its image.
func (s *Service) ImagesToPDF(req ImagesToPDFRequest) (*Result, error) {
	const op = "pipeline.ImagesToPDF"

	if len(req.Files) == 0 {
		return nil, docerr.Newf(docerr.KindValidation, op, "no images supplied")
	}
	images := make([][]byte, 0, len(req.Files))
	for _, f := range req.Files {
		if err := s.checkSize(op, f); err != nil {
			return nil, err
		}
		images = append(images, f.Data)
	}

	out, err := pagedoc.ImagesToPDF(images)
	if err != nil {
		return nil, err
	}
	return &Result{
		Name: fmt.Sprintf("images-%d.pdf", time.Now().Unix()),
		MIME: codec.FormatPDF.MIME(),
		Data: out,
	}, nil
}

// PDFToImages renders every page as a raster image and bundles the
// images into a zip archive.
func (s *Service) PDFToImages(req PDFToImagesRequest) (*Result, error) {
	const op = "pipeline.PDFToImages"

	doc, err := s.loadPDF(op, req.File, req.Password)
	if err != nil {
		return nil, err
	}

	format := pagedoc.ImagePNG
	switch strings.ToLower(req.Format) {
	case "", "png":
	case "jpg", "jpeg":
		format = pagedoc.ImageJPEG
	default:
		return nil, docerr.Newf(docerr.KindValidation, op, "unsupported image format %q", req.Format)
	}

	out, err := pagedoc.PDFToImages(doc, format)
	if err != nil {
		return nil, err
	}
	return &Result{
		Name: stem(req.File.Name) + "-images.zip",
		MIME: codec.FormatZIP.MIME(),
		Data: out,
	}, nil
}

// ExtractPDFText returns the document's selectable text.
func (s *Service) ExtractPDFText(req TextRequest) (*Result, error) {
	const op = "pipeline.ExtractPDFText"

	doc, err := s.loadPDF(op, req.File, req.Password)
	if err != nil {
		return nil, err
	}
	text, err := pagedoc.ExtractText(doc)
	if err != nil {
		return nil, err
	}
	return &Result{
		Name: stem(req.File.Name) + ".txt",
		MIME: codec.FormatText.MIME(),
		Data: []byte(text),
	}, nil
}
