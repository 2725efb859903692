package pagedoc

import (
	"archive/zip"
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"

	"github.com/docforge/docforge/internal/docerr"
	"github.com/docforge/docforge/internal/pagerange"
)

// SplitRange extracts the pages selected by a range expression such as
// "1-3,7" into a single new PDF, preserving page order.
func SplitRange(doc *Document, expr string) ([]byte, error) {
	const op = "pagedoc.SplitRange"

	pages, err := pagerange.Parse(expr, doc.PageCount())
	if err != nil {
		return nil, err
	}

	in, cleanup, err := workFile("in.pdf", doc.Bytes())
	if err != nil {
		return nil, err
	}
	defer cleanup()

	// pdfcpu page selections are 1-indexed.
	selected := strings.Split(pagerange.Format(pages), ",")

	out := filepath.Join(filepath.Dir(in), "out.pdf")
	if err := api.TrimFile(in, out, selected, nil); err != nil {
		return nil, docerr.New(docerr.KindValidation, op, err)
	}

	data, err := os.ReadFile(out)
	if err != nil {
		return nil, fmt.Errorf("read split output: %w", err)
	}
	return data, nil
}

// SplitExtractAll extracts every page into its own single-page PDF and
// returns a zip archive with entries named <stem>-page-<n>.pdf.
func SplitExtractAll(doc *Document) ([]byte, error) {
	const op = "pagedoc.SplitExtractAll"

	if doc.PageCount() < 2 {
		return nil, docerr.Newf(docerr.KindValidation, op,
			"the document only has one page, there is nothing to split")
	}

	in, cleanup, err := workFile("in.pdf", doc.Bytes())
	if err != nil {
		return nil, err
	}
	defer cleanup()

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	for p := 1; p <= doc.PageCount(); p++ {
		out := filepath.Join(filepath.Dir(in), fmt.Sprintf("page-%d.pdf", p))
		if err := api.TrimFile(in, out, []string{strconv.Itoa(p)}, nil); err != nil {
			return nil, docerr.New(docerr.KindValidation, op, err)
		}
		data, err := os.ReadFile(out)
		if err != nil {
			return nil, fmt.Errorf("read page %d: %w", p, err)
		}

		w, err := zw.Create(fmt.Sprintf("%s-page-%d.pdf", doc.Stem(), p))
		if err != nil {
			return nil, fmt.Errorf("create archive entry: %w", err)
		}
		if _, err := w.Write(data); err != nil {
			return nil, fmt.Errorf("write archive entry: %w", err)
		}
	}

	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("finalize archive: %w", err)
	}
	return buf.Bytes(), nil
}
