package pipeline

import (
	"context"
	"fmt"
	"html"
	"strings"

	"github.com/docforge/docforge/internal/codec"
	"github.com/docforge/docforge/internal/dataset"
	"github.com/docforge/docforge/internal/docerr"
	"github.com/docforge/docforge/internal/htmlpdf"
	"github.com/docforge/docforge/internal/office"
	"github.com/docforge/docforge/internal/pagedoc"
)

// ConvertTabular round-trips a tabular file into another tabular
// format through the shared dataset form.
func (s *Service) ConvertTabular(req ConvertRequest) (*Result, error) {
	const op = "pipeline.ConvertTabular"

	if err := s.checkSize(op, req.File); err != nil {
		return nil, err
	}

	from, err := codec.FromFilename(req.File.Name)
	if err != nil {
		return nil, docerr.New(docerr.KindValidation, op, err)
	}
	to := codec.Format(strings.ToLower(req.TargetFormat))
	if !to.Tabular() {
		return nil, docerr.Newf(docerr.KindValidation, op, "unsupported target format %q", req.TargetFormat)
	}

	out, err := s.registry.Convert(req.File.Data, from, to)
	if err != nil {
		return nil, err
	}
	return &Result{
		Name: stem(req.File.Name) + "." + to.Extension(),
		MIME: to.MIME(),
		Data: out,
	}, nil
}

// ConvertJSONToXML converts a JSON document to XML preserving its
// nesting, unlike the flat tabular round-trip.
func (s *Service) ConvertJSONToXML(req DocumentRequest) (*Result, error) {
	const op = "pipeline.ConvertJSONToXML"

	if err := s.checkSize(op, req.File); err != nil {
		return nil, err
	}
	out, err := dataset.JSONToXML(req.File.Data)
	if err != nil {
		return nil, err
	}
	return &Result{
		Name: stem(req.File.Name) + ".xml",
		MIME: codec.FormatXML.MIME(),
		Data: out,
	}, nil
}

// ConvertXMLToJSON converts an XML document to JSON preserving its
// nesting.
func (s *Service) ConvertXMLToJSON(req DocumentRequest) (*Result, error) {
	const op = "pipeline.ConvertXMLToJSON"

	if err := s.checkSize(op, req.File); err != nil {
		return nil, err
	}
	out, err := dataset.XMLToJSON(req.File.Data)
	if err != nil {
		return nil, err
	}
	return &Result{
		Name: stem(req.File.Name) + ".json",
		MIME: codec.FormatJSON.MIME(),
		Data: out,
	}, nil
}

// SplitTabularRows chunks a tabular file's data rows into fixed-size
// parts, each with the header re-attached, bundled into a zip.
func (s *Service) SplitTabularRows(req SplitRowsRequest) (*Result, error) {
	const op = "pipeline.SplitTabularRows"

	if err := s.checkSize(op, req.File); err != nil {
		return nil, err
	}

	from, err := codec.FromFilename(req.File.Name)
	if err != nil {
		return nil, docerr.New(docerr.KindValidation, op, err)
	}
	c, err := s.registry.Get(from)
	if err != nil {
		return nil, err
	}
	ds, err := c.Decode(req.File.Data)
	if err != nil {
		return nil, err
	}

	out, err := dataset.SplitRows(ds, req.RowsPerChunk, stem(req.File.Name))
	if err != nil {
		return nil, err
	}
	return &Result{
		Name: stem(req.File.Name) + "-parts.zip",
		MIME: codec.FormatZIP.MIME(),
		Data: out,
	}, nil
}

// SplitWorkbook splits a multi-sheet workbook into one single-sheet
// workbook per sheet. A single-sheet workbook has nothing to split.
func (s *Service) SplitWorkbook(req SplitWorkbookRequest) (*Result, error) {
	const op = "pipeline.SplitWorkbook"

	if err := s.checkSize(op, req.File); err != nil {
		return nil, err
	}
	out, err := dataset.SplitWorkbookBySheet(req.File.Data)
	if err != nil {
		return nil, err
	}
	return &Result{
		Name: stem(req.File.Name) + "-sheets.zip",
		MIME: codec.FormatZIP.MIME(),
		Data: out,
	}, nil
}

// TabularToPDF renders a tabular file, or every sheet of a workbook,
// as HTML tables flattened into a landscape paginated document. This
// is a presentation transform, not a lossless round-trip.
func (s *Service) TabularToPDF(ctx context.Context, req DocumentRequest) (*Result, error) {
	const op = "pipeline.TabularToPDF"

	if err := s.requirePrinter(op); err != nil {
		return nil, err
	}
	if err := s.checkSize(op, req.File); err != nil {
		return nil, err
	}

	from, err := codec.FromFilename(req.File.Name)
	if err != nil {
		return nil, docerr.New(docerr.KindValidation, op, err)
	}

	var page string
	if from == codec.FormatXLSX {
		titles, sets, err := dataset.WorkbookSheets(req.File.Data)
		if err != nil {
			return nil, err
		}
		page = dataset.RenderHTML(titles, sets)
	} else {
		c, err := s.registry.Get(from)
		if err != nil {
			return nil, err
		}
		ds, err := c.Decode(req.File.Data)
		if err != nil {
			return nil, err
		}
		page = dataset.RenderHTML([]string{stem(req.File.Name)}, []*dataset.Dataset{ds})
	}

	opts := htmlpdf.DefaultOptions()
	opts.Landscape = true
	out, err := s.printer.Print(ctx, page, opts)
	if err != nil {
		return nil, err
	}
	return &Result{
		Name: stem(req.File.Name) + ".pdf",
		MIME: codec.FormatPDF.MIME(),
		Data: out,
	}, nil
}

// PresentationToPDF renders each slide of a presentation as an
// absolutely positioned HTML page and prints the pages to PDF.
func (s *Service) PresentationToPDF(ctx context.Context, req DocumentRequest) (*Result, error) {
	const op = "pipeline.PresentationToPDF"

	if err := s.requirePrinter(op); err != nil {
		return nil, err
	}
	if err := s.checkSize(op, req.File); err != nil {
		return nil, err
	}

	pres, err := office.OpenPresentation(req.File.Data)
	if err != nil {
		return nil, err
	}

	opts := htmlpdf.DefaultOptions()
	opts.Landscape = true
	out, err := s.printer.Print(ctx, pres.RenderHTML(), opts)
	if err != nil {
		return nil, err
	}
	return &Result{
		Name: stem(req.File.Name) + ".pdf",
		MIME: codec.FormatPDF.MIME(),
		Data: out,
	}, nil
}

// WordToPDF extracts the text of a Word document and prints it as a
// sequence of paragraphs.
func (s *Service) WordToPDF(ctx context.Context, req DocumentRequest) (*Result, error) {
	const op = "pipeline.WordToPDF"

	if err := s.requirePrinter(op); err != nil {
		return nil, err
	}
	if err := s.checkSize(op, req.File); err != nil {
		return nil, err
	}

	text, err := office.ExtractDocxText(req.File.Data)
	if err != nil {
		return nil, err
	}

	out, err := s.printer.Print(ctx, textToHTML(stem(req.File.Name), text), htmlpdf.DefaultOptions())
	if err != nil {
		return nil, err
	}
	return &Result{
		Name: stem(req.File.Name) + ".pdf",
		MIME: codec.FormatPDF.MIME(),
		Data: out,
	}, nil
}

// PDFToWord rebuilds a document's selectable text as a Word file. The
// layout is not preserved, only the text.
func (s *Service) PDFToWord(req DocumentRequest) (*Result, error) {
	const op = "pipeline.PDFToWord"

	doc, err := s.loadPDF(op, req.File, req.Password)
	if err != nil {
		return nil, err
	}
	text, err := pagedoc.ExtractText(doc)
	if err != nil {
		return nil, err
	}

	out, err := office.WriteDocx(strings.Split(text, "\n"))
	if err != nil {
		return nil, err
	}
	return &Result{
		Name: stem(req.File.Name) + ".docx",
		MIME: codec.FormatDOCX.MIME(),
		Data: out,
	}, nil
}

func (s *Service) requirePrinter(op string) error {
	if s.printer == nil {
		return docerr.Newf(docerr.KindValidation, op, "no HTML printer is configured")
	}
	return nil
}

// textToHTML wraps plain text in a minimal printable HTML document,
// one paragraph per line.
func textToHTML(title, text string) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "<!DOCTYPE html><html><head><meta charset=\"utf-8\"><title>%s</title>", html.EscapeString(title))
	sb.WriteString(`<style>body{font-family:Helvetica,Arial,sans-serif;font-size:12pt;line-height:1.5}</style></head><body>`)
	for _, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(line) == "" {
			sb.WriteString("<br>")
			continue
		}
		fmt.Fprintf(&sb, "<p>%s</p>", html.EscapeString(line))
	}
	sb.WriteString("</body></html>")
	return sb.String()
}
