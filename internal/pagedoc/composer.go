package pagedoc

import (
	"bytes"
	"fmt"

	gofpdf "github.com/lvillar/gofpdf"
	"github.com/lvillar/gofpdf/contrib/gofpdi"
	"github.com/pdfcpu/pdfcpu/pkg/api"
)

// defaultFont is the core font used for stamped text. Core fonts need
// no embedded font file, so output stays small.
const defaultFont = "Helvetica"

// Composer builds a new PDF page by page. Existing pages are imported
// as templates and drawn as the page background; text and images are
// then stamped on top at native PDF coordinates (origin bottom-left,
// y up), which the composer converts to the top-left space the
// underlying writer uses.
type Composer struct {
	pdf      *gofpdf.Fpdf
	imp      *gofpdi.Importer
	source   string
	cleanup  func()
	images   int
	curW     float64
	curH     float64
	pageOpen bool
}

// NewComposer returns an empty composer working in points.
func NewComposer() *Composer {
	pdf := gofpdf.NewCustom(&gofpdf.InitType{
		UnitStr: "pt",
		Size:    gofpdf.SizeType{Wd: 612, Ht: 792},
	})
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetFont(defaultFont, "", 12)
	return &Composer{pdf: pdf, imp: gofpdi.NewImporter()}
}

// ImportDocument registers PDF bytes as the template source and
// returns its page count. Only one source document can be registered
// per composer.
func (c *Composer) ImportDocument(data []byte) (int, error) {
	if c.source != "" {
		return 0, fmt.Errorf("composer already has a source document")
	}

	path, cleanup, err := workFile("source.pdf", data)
	if err != nil {
		return 0, err
	}
	c.source = path
	c.cleanup = cleanup

	n, err := api.PageCountFile(path)
	if err != nil {
		cleanup()
		c.source = ""
		c.cleanup = nil
		return 0, fmt.Errorf("count pages: %w", err)
	}
	return n, nil
}

// AddImportedPage appends the 1-based source page as a new page sized
// to its media box and returns the page dimensions in points.
func (c *Composer) AddImportedPage(page int) (w, h float64, err error) {
	if c.source == "" {
		return 0, 0, fmt.Errorf("no source document imported")
	}

	tpl := c.imp.ImportPage(c.pdf, c.source, page, "/MediaBox")
	sizes := c.imp.GetPageSizes()
	if dims, ok := sizes[page]; ok {
		if mb, ok := dims["/MediaBox"]; ok {
			w = mb["w"]
			h = mb["h"]
		}
	}
	if w == 0 || h == 0 {
		return 0, 0, fmt.Errorf("page %d has no media box", page)
	}

	c.addPage(w, h)
	c.imp.UseImportedTemplate(c.pdf, tpl, 0, 0, w, h)
	return w, h, nil
}

// AddBlankPage appends an empty page of the given size in points.
func (c *Composer) AddBlankPage(w, h float64) {
	c.addPage(w, h)
}

func (c *Composer) addPage(w, h float64) {
	orient := "P"
	if w > h {
		orient = "L"
	}
	c.pdf.AddPageFormat(orient, gofpdf.SizeType{Wd: w, Ht: h})
	c.curW, c.curH = w, h
	c.pageOpen = true
}

// PageSize returns the dimensions of the current page.
func (c *Composer) PageSize() (w, h float64) { return c.curW, c.curH }

// TextStyle controls stamped text.
type TextStyle struct {
	SizePt   float64
	Gray     int     // 0 black .. 255 white
	Opacity  float64 // 0..1
	AngleDeg float64 // counterclockwise about the text anchor
}

// DrawText stamps text with its baseline at (x, y) in native
// coordinates on the current page.
func (c *Composer) DrawText(text string, x, y float64, style TextStyle) error {
	if !c.pageOpen {
		return fmt.Errorf("no current page")
	}
	size := style.SizePt
	if size <= 0 {
		size = 12
	}
	opacity := style.Opacity
	if opacity <= 0 || opacity > 1 {
		opacity = 1
	}

	top := c.curH - y

	c.pdf.SetFont(defaultFont, "", size)
	c.pdf.SetTextColor(style.Gray, style.Gray, style.Gray)
	c.pdf.SetAlpha(opacity, "Normal")
	if style.AngleDeg != 0 {
		c.pdf.TransformBegin()
		c.pdf.TransformRotate(style.AngleDeg, x, top)
		c.pdf.Text(x, top, text)
		c.pdf.TransformEnd()
	} else {
		c.pdf.Text(x, top, text)
	}
	c.pdf.SetAlpha(1, "Normal")
	return c.pdf.Error()
}

// TextWidth measures text at the given size in points.
func (c *Composer) TextWidth(text string, sizePt float64) float64 {
	c.pdf.SetFont(defaultFont, "", sizePt)
	return c.pdf.GetStringWidth(text)
}

// ImageStyle controls stamped images.
type ImageStyle struct {
	Format   string  // "png" or "jpeg"
	Opacity  float64 // 0..1
	AngleDeg float64 // counterclockwise about the image center
}

// DrawImage stamps image bytes into the box whose bottom-left corner
// is (x, y) in native coordinates on the current page.
func (c *Composer) DrawImage(img []byte, x, y, w, h float64, style ImageStyle) error {
	if !c.pageOpen {
		return fmt.Errorf("no current page")
	}
	format := style.Format
	if format == "" {
		format = "png"
	}
	opacity := style.Opacity
	if opacity <= 0 || opacity > 1 {
		opacity = 1
	}

	c.images++
	name := fmt.Sprintf("img-%d", c.images)
	opts := gofpdf.ImageOptions{ImageType: format}
	c.pdf.RegisterImageOptionsReader(name, opts, bytes.NewReader(img))

	top := c.curH - y - h

	c.pdf.SetAlpha(opacity, "Normal")
	if style.AngleDeg != 0 {
		c.pdf.TransformBegin()
		c.pdf.TransformRotate(style.AngleDeg, x+w/2, top+h/2)
		c.pdf.ImageOptions(name, x, top, w, h, false, opts, 0, "")
		c.pdf.TransformEnd()
	} else {
		c.pdf.ImageOptions(name, x, top, w, h, false, opts, 0, "")
	}
	c.pdf.SetAlpha(1, "Normal")
	return c.pdf.Error()
}

// Bytes finalizes the document and returns its bytes.
func (c *Composer) Bytes() ([]byte, error) {
	var buf bytes.Buffer
	if err := c.pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("write pdf: %w", err)
	}
	return buf.Bytes(), nil
}

// Close removes the temp files backing the template source.
func (c *Composer) Close() {
	if c.cleanup != nil {
		c.cleanup()
		c.cleanup = nil
	}
}
