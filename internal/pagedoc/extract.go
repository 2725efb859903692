package pagedoc

import (
	"bytes"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/docforge/docforge/internal/docerr"
)

// ExtractText pulls the plain text of every page, joined with a blank
// line between pages. Pages without a text layer contribute nothing;
// scanned documents therefore come back empty rather than failing.
func ExtractText(doc *Document) (string, error) {
	const op = "pagedoc.ExtractText"

	reader, err := pdf.NewReader(bytes.NewReader(doc.Bytes()), int64(len(doc.Bytes())))
	if err != nil {
		return "", docerr.New(docerr.KindDocumentLoad, op, err)
	}

	var pages []string
	for p := 1; p <= reader.NumPage(); p++ {
		page := reader.Page(p)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			// A single unreadable page should not sink the document.
			continue
		}
		if strings.TrimSpace(text) != "" {
			pages = append(pages, strings.TrimSpace(text))
		}
	}

	return strings.Join(pages, "\n\n"), nil
}
