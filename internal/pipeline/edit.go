package pipeline

import (
	"github.com/docforge/docforge/internal/codec"
	"github.com/docforge/docforge/internal/docerr"
	"github.com/docforge/docforge/internal/geometry"
	"github.com/docforge/docforge/internal/pagedoc"
	"github.com/docforge/docforge/internal/session"
)

// EditPDF commits text, image and signature placements onto a
// document. Placements arrive in the preview's raster space; each is
// mapped through its own page's coordinate space because page sizes
// may differ within one document. The save always re-applies against
// the original bytes, never a previously mutated copy.
func (s *Service) EditPDF(req EditRequest) (*Result, error) {
	const op = "pipeline.EditPDF"

	if len(req.Placements) == 0 {
		return nil, docerr.Newf(docerr.KindValidation, op, "no elements to place")
	}
	if err := s.checkSize(op, req.File); err != nil {
		return nil, err
	}

	scale := req.RenderScale
	if scale <= 0 {
		scale = 1.0
	}

	// Encrypted input is unlocked up front; both the preview renderer
	// and the page composer need plain bytes.
	data, err := s.decrypted(op, req.File, req.Password)
	if err != nil {
		return nil, err
	}

	sess := session.New()
	if err := sess.Load(req.File.Name, data, ""); err != nil {
		return nil, err
	}

	r, err := pagedoc.NewRenderer(data)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	for i, p := range req.Placements {
		kind, err := parseElementKind(p.Kind)
		if err != nil {
			return nil, docerr.Newf(docerr.KindValidation, op, "placement %d: %v", i+1, err)
		}
		if p.Page < 1 || p.Page > r.PageCount() {
			return nil, docerr.Newf(docerr.KindValidation, op,
				"placement %d targets page %d of a %d-page document", i+1, p.Page, r.PageCount())
		}

		space, err := r.PageSpace(p.Page-1, scale)
		if err != nil {
			return nil, err
		}

		err = sess.Place(pagedoc.Element{
			Kind:       kind,
			Page:       p.Page,
			Box:        geometry.Box{X: p.X, Y: p.Y, Width: p.Width, Height: p.Height},
			Space:      space,
			Text:       p.Text,
			FontSizePx: p.FontSizePx,
			Gray:       p.Gray,
			Image:      p.Image,
		})
		if err != nil {
			return nil, err
		}
	}

	out, err := sess.Save()
	if err != nil {
		return nil, err
	}
	return &Result{
		Name: "edited-" + stem(req.File.Name) + ".pdf",
		MIME: codec.FormatPDF.MIME(),
		Data: out,
	}, nil
}

func parseElementKind(kind string) (pagedoc.ElementKind, error) {
	switch pagedoc.ElementKind(kind) {
	case pagedoc.ElementText, pagedoc.ElementImage, pagedoc.ElementSignature:
		return pagedoc.ElementKind(kind), nil
	default:
		return "", docerr.Newf(docerr.KindValidation, "pipeline.parseElementKind", "unknown element kind %q", kind)
	}
}
