// Package office reads and writes the zip-of-XML Office formats:
// presentations (PPTX) and word-processing documents (DOCX).
//
// PPTX files are ZIP archives. The deck order comes from the sldIdLst
// in ppt/presentation.xml resolved through the presentation's rels
// file, not from the numeric slide file names. Shape positions are
// stored in EMUs; one pixel is 9525 EMUs.
package office

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"path"
	"strconv"
	"strings"

	"github.com/docforge/docforge/internal/docerr"
)

// emuPerPixel converts OOXML EMUs to CSS pixels.
const emuPerPixel = 9525

// defaultSlideW and defaultSlideH are the 16:9 fallback in pixels when
// the presentation carries no slide size.
const (
	defaultSlideW = 960
	defaultSlideH = 540
)

// Shape is one positioned element on a slide. A shape carries text,
// an image, or both (a picture with a caption body).
type Shape struct {
	X, Y, W, H float64 // pixels
	Text       string
	Image      []byte
	ImageMIME  string
}

// Slide is an ordered list of shapes.
type Slide struct {
	Shapes []Shape
}

// Presentation is a parsed deck with slide dimensions in pixels.
type Presentation struct {
	SlideW float64
	SlideH float64
	Slides []*Slide
}

// presentationXML captures the parts of ppt/presentation.xml we need.
type presentationXML struct {
	SldSz struct {
		Cx int64 `xml:"cx,attr"`
		Cy int64 `xml:"cy,attr"`
	} `xml:"sldSz"`
	SldIDs []struct {
		RID string `xml:"id,attr"`
	} `xml:"sldIdLst>sldId"`
}

// relationship is one entry of a .rels file.
type relationship struct {
	ID     string `xml:"Id,attr"`
	Target string `xml:"Target,attr"`
}

type relationships struct {
	Rels []relationship `xml:"Relationship"`
}

// OpenPresentation parses PPTX bytes into slides of positioned shapes.
func OpenPresentation(data []byte) (*Presentation, error) {
	const op = "office.OpenPresentation"

	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, docerr.New(docerr.KindDocumentLoad, op, err)
	}
	files := make(map[string]*zip.File, len(zr.File))
	for _, f := range zr.File {
		files[f.Name] = f
	}

	presData, err := readZipFile(files, "ppt/presentation.xml")
	if err != nil {
		return nil, docerr.New(docerr.KindDocumentLoad, op, err)
	}
	var pres presentationXML
	if err := xml.Unmarshal(presData, &pres); err != nil {
		return nil, docerr.New(docerr.KindDocumentLoad, op, fmt.Errorf("parse presentation.xml: %w", err))
	}
	if len(pres.SldIDs) == 0 {
		return nil, docerr.Newf(docerr.KindDocumentLoad, op, "presentation has no slides")
	}

	presRels, err := parseRels(files, "ppt/_rels/presentation.xml.rels")
	if err != nil {
		return nil, docerr.New(docerr.KindDocumentLoad, op, err)
	}

	p := &Presentation{
		SlideW: float64(pres.SldSz.Cx) / emuPerPixel,
		SlideH: float64(pres.SldSz.Cy) / emuPerPixel,
	}
	if p.SlideW <= 0 || p.SlideH <= 0 {
		p.SlideW, p.SlideH = defaultSlideW, defaultSlideH
	}

	for i, id := range pres.SldIDs {
		target, ok := presRels[id.RID]
		if !ok {
			return nil, docerr.Newf(docerr.KindDocumentLoad, op, "slide %d: unresolved relationship %s", i+1, id.RID)
		}
		slidePath := path.Join("ppt", target)

		slideData, err := readZipFile(files, slidePath)
		if err != nil {
			return nil, docerr.New(docerr.KindDocumentLoad, op, fmt.Errorf("slide %d: %w", i+1, err))
		}

		// Missing slide rels just means the slide embeds nothing.
		relsPath := path.Join("ppt/slides/_rels", path.Base(slidePath)+".rels")
		slideRels, err := parseRels(files, relsPath)
		if err != nil {
			slideRels = map[string]string{}
		}

		slide, err := parseSlide(slideData, slideRels, files)
		if err != nil {
			return nil, docerr.New(docerr.KindDocumentLoad, op, fmt.Errorf("slide %d: %w", i+1, err))
		}
		p.Slides = append(p.Slides, slide)
	}

	return p, nil
}

func readZipFile(files map[string]*zip.File, name string) ([]byte, error) {
	f, ok := files[name]
	if !ok {
		return nil, fmt.Errorf("archive has no %s", name)
	}
	rc, err := f.Open()
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", name, err)
	}
	defer rc.Close()
	return io.ReadAll(rc)
}

func parseRels(files map[string]*zip.File, name string) (map[string]string, error) {
	data, err := readZipFile(files, name)
	if err != nil {
		return nil, err
	}
	var rels relationships
	if err := xml.Unmarshal(data, &rels); err != nil {
		return nil, fmt.Errorf("parse %s: %w", name, err)
	}
	out := make(map[string]string, len(rels.Rels))
	for _, r := range rels.Rels {
		out[r.ID] = r.Target
	}
	return out, nil
}

// parseSlide walks a slide's XML token stream. Element names are
// compared by their local part so both the p: and a: namespaces match
// without namespace registration.
func parseSlide(data []byte, rels map[string]string, files map[string]*zip.File) (*Slide, error) {
	dec := xml.NewDecoder(bytes.NewReader(data))
	slide := &Slide{}

	var (
		cur       *Shape
		depth     int
		shapeEnds int
		texts     []string
	)

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("parse slide xml: %w", err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			depth++
			switch t.Name.Local {
			case "sp", "pic":
				if cur == nil {
					cur = &Shape{}
					shapeEnds = depth
					texts = nil
				}
			case "off":
				if cur != nil {
					cur.X = emuAttr(t, "x")
					cur.Y = emuAttr(t, "y")
				}
			case "ext":
				if cur != nil {
					cur.W = emuAttr(t, "cx")
					cur.H = emuAttr(t, "cy")
				}
			case "blip":
				if cur != nil {
					if embed := attrLocal(t, "embed"); embed != "" {
						img, mime := resolveImage(rels[embed], files)
						cur.Image = img
						cur.ImageMIME = mime
					}
				}
			case "t":
				if cur != nil {
					var text string
					if err := dec.DecodeElement(&text, &t); err != nil {
						return nil, fmt.Errorf("parse slide text: %w", err)
					}
					depth--
					texts = append(texts, text)
				}
			}
		case xml.EndElement:
			if cur != nil && depth == shapeEnds && (t.Name.Local == "sp" || t.Name.Local == "pic") {
				cur.Text = strings.Join(texts, "\n")
				if cur.W > 0 && cur.H > 0 && (cur.Text != "" || cur.Image != nil) {
					slide.Shapes = append(slide.Shapes, *cur)
				}
				cur = nil
			}
			depth--
		}
	}

	return slide, nil
}

func emuAttr(t xml.StartElement, name string) float64 {
	v := attrLocal(t, name)
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return 0
	}
	return float64(n) / emuPerPixel
}

func attrLocal(t xml.StartElement, name string) string {
	for _, a := range t.Attr {
		if a.Name.Local == name {
			return a.Value
		}
	}
	return ""
}

// resolveImage loads an embedded image behind a rels target. Targets
// are relative to ppt/slides/, with ../ walking back to ppt/.
func resolveImage(target string, files map[string]*zip.File) ([]byte, string) {
	if target == "" {
		return nil, ""
	}
	var imgPath string
	if strings.HasPrefix(target, "../") {
		imgPath = path.Join("ppt", strings.TrimPrefix(target, "../"))
	} else {
		imgPath = path.Join("ppt/slides", target)
	}
	data, err := readZipFile(files, imgPath)
	if err != nil {
		return nil, ""
	}
	mime := "image/jpeg"
	if strings.HasSuffix(strings.ToLower(imgPath), ".png") {
		mime = "image/png"
	}
	return data, mime
}
