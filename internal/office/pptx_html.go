package office

import (
	"encoding/base64"
	"fmt"
	"html"
	"strings"
)

// RenderHTML lays every slide out as an absolutely positioned block so
// a browser print run reproduces the deck geometry. Each slide becomes
// one page; embedded images are inlined as data URIs.
func (p *Presentation) RenderHTML() string {
	var sb strings.Builder
	sb.WriteString("<!DOCTYPE html><html><head><meta charset=\"utf-8\"><style>")
	sb.WriteString("body{margin:0;font-family:Helvetica,Arial,sans-serif;}")
	fmt.Fprintf(&sb, ".slide{position:relative;width:%.0fpx;height:%.0fpx;overflow:hidden;background:#fff;page-break-after:always;}", p.SlideW, p.SlideH)
	sb.WriteString(".shape{position:absolute;font-size:16px;word-wrap:break-word;white-space:pre-wrap;}")
	sb.WriteString("</style></head><body>")

	for _, slide := range p.Slides {
		sb.WriteString(`<div class="slide">`)
		for _, shape := range slide.Shapes {
			if shape.Image != nil {
				fmt.Fprintf(&sb,
					`<img style="position:absolute;left:%.1fpx;top:%.1fpx;width:%.1fpx;height:%.1fpx;" src="data:%s;base64,%s">`,
					shape.X, shape.Y, shape.W, shape.H,
					shape.ImageMIME, base64.StdEncoding.EncodeToString(shape.Image))
			}
			if shape.Text != "" {
				fmt.Fprintf(&sb,
					`<div class="shape" style="left:%.1fpx;top:%.1fpx;width:%.1fpx;height:%.1fpx;">%s</div>`,
					shape.X, shape.Y, shape.W, shape.H, html.EscapeString(shape.Text))
			}
		}
		sb.WriteString("</div>")
	}

	sb.WriteString("</body></html>")
	return sb.String()
}

// PlainText joins all shape text slide by slide, separated by blank
// lines, for downstream summarization.
func (p *Presentation) PlainText() []string {
	out := make([]string, len(p.Slides))
	for i, slide := range p.Slides {
		var parts []string
		for _, shape := range slide.Shapes {
			if strings.TrimSpace(shape.Text) != "" {
				parts = append(parts, shape.Text)
			}
		}
		out[i] = strings.Join(parts, "\n\n")
	}
	return out
}
