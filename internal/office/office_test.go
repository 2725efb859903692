package office

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docforge/docforge/internal/docerr"
)

func TestPresentationRoundTrip(t *testing.T) {
	data, err := WritePresentation([]SlideContent{
		{Title: "Quarterly Review", Bullets: []string{"Revenue up 12%", "Churn flat"}},
		{Title: "Visual Content from Page 2"},
	})
	require.NoError(t, err)

	p, err := OpenPresentation(data)
	require.NoError(t, err)
	require.Len(t, p.Slides, 2)

	text := p.PlainText()
	assert.Contains(t, text[0], "Quarterly Review")
	assert.Contains(t, text[0], "Revenue up 12%")
	assert.Contains(t, text[1], "Visual Content from Page 2")
}

func TestPresentationPreservesSlideOrder(t *testing.T) {
	var slides []SlideContent
	for _, title := range []string{"first", "second", "third"} {
		slides = append(slides, SlideContent{Title: title})
	}
	data, err := WritePresentation(slides)
	require.NoError(t, err)

	p, err := OpenPresentation(data)
	require.NoError(t, err)

	text := p.PlainText()
	require.Len(t, text, 3)
	assert.Equal(t, "first", text[0])
	assert.Equal(t, "second", text[1])
	assert.Equal(t, "third", text[2])
}

func TestPresentationShapeGeometry(t *testing.T) {
	data, err := WritePresentation([]SlideContent{{Title: "T", Bullets: []string{"b"}}})
	require.NoError(t, err)

	p, err := OpenPresentation(data)
	require.NoError(t, err)

	assert.InDelta(t, float64(genSlideCx)/emuPerPixel, p.SlideW, 0.01)
	require.NotEmpty(t, p.Slides[0].Shapes)
	title := p.Slides[0].Shapes[0]
	assert.InDelta(t, 457200.0/emuPerPixel, title.X, 0.01)
	assert.Greater(t, title.W, 0.0)
}

func TestOpenPresentationRejectsGarbage(t *testing.T) {
	_, err := OpenPresentation([]byte("not a zip"))
	require.Error(t, err)
	assert.Equal(t, docerr.KindDocumentLoad, docerr.KindOf(err))
}

func TestPresentationRenderHTMLEscapes(t *testing.T) {
	data, err := WritePresentation([]SlideContent{{Title: "<Tom & Jerry>"}})
	require.NoError(t, err)

	p, err := OpenPresentation(data)
	require.NoError(t, err)

	html := p.RenderHTML()
	assert.Contains(t, html, "&lt;Tom &amp; Jerry&gt;")
	assert.Contains(t, html, `class="slide"`)
}

func TestDocxRoundTrip(t *testing.T) {
	data, err := WriteDocx([]string{"First paragraph.", "", "Third paragraph with <angle> & amp."})
	require.NoError(t, err)

	text, err := ExtractDocxText(data)
	require.NoError(t, err)
	assert.Contains(t, text, "First paragraph.")
	assert.Contains(t, text, "Third paragraph with <angle> & amp.")
}

func TestExtractDocxTextRejectsNonZip(t *testing.T) {
	_, err := ExtractDocxText([]byte("plain text"))
	require.Error(t, err)
	assert.Equal(t, docerr.KindDocumentLoad, docerr.KindOf(err))
}

func TestDocxContentToText(t *testing.T) {
	content := `<w:p><w:r><w:t>one</w:t></w:r></w:p><w:p><w:r><w:t>two</w:t><w:br/><w:t>three</w:t></w:r></w:p>`
	assert.Equal(t, "one\ntwo\nthree", docxContentToText(content))
}
