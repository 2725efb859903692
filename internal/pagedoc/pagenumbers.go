package pagedoc

import (
	"fmt"
	"strings"

	"github.com/docforge/docforge/internal/docerr"
	"github.com/docforge/docforge/internal/geometry"
	"github.com/docforge/docforge/internal/pagerange"
)

// NumberFormat selects how a page number is rendered.
type NumberFormat string

const (
	FormatBare        NumberFormat = "1"
	FormatPage        NumberFormat = "Page 1"
	FormatOfTotal     NumberFormat = "1 of n"
	FormatPageOfTotal NumberFormat = "Page 1 of n"
)

func (f NumberFormat) render(n, total int) string {
	switch f {
	case FormatPage:
		return fmt.Sprintf("Page %d", n)
	case FormatOfTotal:
		return fmt.Sprintf("%d of %d", n, total)
	case FormatPageOfTotal:
		return fmt.Sprintf("Page %d of %d", n, total)
	default:
		return fmt.Sprintf("%d", n)
	}
}

// NumberOptions configures AddPageNumbers. Zero values fall back to
// defaults: format "1", bottom-center, 36pt margin, 12pt font, start
// at 1, all pages.
type NumberOptions struct {
	Format      NumberFormat
	Anchor      geometry.Anchor
	MarginPt    float64
	FontSizePt  float64
	StartNumber int
	Pages       string // range expression, "" or "all" for every page
}

// AddPageNumbers stamps a page number onto the selected pages. Numbers
// run from StartNumber in page order over the selected pages, while
// the "of n" total always refers to the whole document.
func AddPageNumbers(doc *Document, opts NumberOptions) ([]byte, error) {
	const op = "pagedoc.AddPageNumbers"

	if opts.MarginPt <= 0 {
		opts.MarginPt = 36
	}
	if opts.FontSizePt <= 0 {
		opts.FontSizePt = 12
	}
	if opts.StartNumber < 1 {
		opts.StartNumber = 1
	}
	if opts.Anchor == geometry.AnchorTile {
		return nil, docerr.Newf(docerr.KindValidation, op, "tiled placement does not apply to page numbers")
	}

	expr := opts.Pages
	if strings.TrimSpace(expr) == "" {
		expr = "all"
	}
	pages, err := pagerange.Parse(expr, doc.PageCount())
	if err != nil {
		return nil, err
	}
	// Parse returns zero-based indices; the stamping loop below walks
	// 1-based composer pages.
	selected := make(map[int]bool, len(pages))
	order := make(map[int]int, len(pages))
	for i, p := range pages {
		selected[p+1] = true
		order[p+1] = i
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
		if !selected[p] {
			continue
		}

		text := opts.Format.render(opts.StartNumber+order[p], doc.PageCount())
		textW := c.TextWidth(text, opts.FontSizePt)
		textH := opts.FontSizePt

		x := numberX(opts.Anchor, w, textW, opts.MarginPt)
		y := numberY(opts.Anchor, h, textH, opts.MarginPt)

		err = c.DrawText(text, x, y, TextStyle{SizePt: opts.FontSizePt})
		if err != nil {
			return nil, fmt.Errorf("stamp page %d: %w", p, err)
		}
	}

	return c.Bytes()
}

func numberX(a geometry.Anchor, pageW, textW, margin float64) float64 {
	switch a {
	case geometry.AnchorTopLeft, geometry.AnchorBottomLeft:
		return margin
	case geometry.AnchorTopRight, geometry.AnchorBottomRight:
		return pageW - textW - margin
	default:
		return (pageW - textW) / 2
	}
}

func numberY(a geometry.Anchor, pageH, textH, margin float64) float64 {
	switch a {
	case geometry.AnchorTopLeft, geometry.AnchorTopCenter, geometry.AnchorTopRight:
		return pageH - textH - margin/2
	default:
		return margin
	}
}
