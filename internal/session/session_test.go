package session

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docforge/docforge/internal/docerr"
	"github.com/docforge/docforge/internal/geometry"
	"github.com/docforge/docforge/internal/pagedoc"
)

func makePDF(t *testing.T, pages int) []byte {
	t.Helper()
	c := pagedoc.NewComposer()
	defer c.Close()
	for p := 0; p < pages; p++ {
		c.AddBlankPage(612, 792)
	}
	data, err := c.Bytes()
	require.NoError(t, err)
	return data
}

func TestSessionStartsEmpty(t *testing.T) {
	s := New()
	assert.Equal(t, StateEmpty, s.State())
	assert.Nil(t, s.Document())
}

func TestLoadFailureLeavesEmpty(t *testing.T) {
	s := New()
	err := s.Load("bad.pdf", []byte("junk"), "")
	require.Error(t, err)
	assert.Equal(t, docerr.KindDocumentLoad, docerr.KindOf(err))
	assert.Equal(t, StateEmpty, s.State())
}

func TestLoadSuccess(t *testing.T) {
	s := New()
	require.NoError(t, s.Load("doc.pdf", makePDF(t, 2), ""))
	assert.Equal(t, StateLoaded, s.State())
	assert.Equal(t, 2, s.Document().PageCount())
}

func TestReloadReplacesDocumentAndDropsState(t *testing.T) {
	s := New()
	require.NoError(t, s.Load("a.pdf", makePDF(t, 1), ""))
	require.NoError(t, s.Place(textElement(1)))
	require.NoError(t, s.Load("b.pdf", makePDF(t, 3), ""))

	assert.Equal(t, StateLoaded, s.State())
	assert.Empty(t, s.Elements())
	assert.Equal(t, 3, s.Document().PageCount())
}

func TestPlaceMovesToEditing(t *testing.T) {
	s := New()
	require.NoError(t, s.Load("doc.pdf", makePDF(t, 1), ""))
	require.NoError(t, s.Place(textElement(1)))
	assert.Equal(t, StateEditing, s.State())
	assert.Len(t, s.Elements(), 1)
}

func TestPlaceWithoutDocument(t *testing.T) {
	s := New()
	err := s.Place(textElement(1))
	require.Error(t, err)
	assert.Equal(t, docerr.KindValidation, docerr.KindOf(err))
}

func TestRunSuccessEndsDone(t *testing.T) {
	s := New()
	require.NoError(t, s.Load("doc.pdf", makePDF(t, 2), ""))

	out, err := s.Run(func(doc *pagedoc.Document) ([]byte, error) {
		return doc.Bytes(), nil
	})
	require.NoError(t, err)
	assert.NotEmpty(t, out)
	assert.Equal(t, StateDone, s.State())
	assert.Equal(t, out, s.Result())
}

func TestRunRecoverableFailureReturnsToLoaded(t *testing.T) {
	s := New()
	require.NoError(t, s.Load("doc.pdf", makePDF(t, 2), ""))

	_, err := s.Run(func(doc *pagedoc.Document) ([]byte, error) {
		return nil, docerr.Newf(docerr.KindValidation, "test", "bad input")
	})
	require.Error(t, err)
	assert.Equal(t, StateLoaded, s.State())
	assert.NotNil(t, s.Document(), "file selection survives a recoverable failure")
}

func TestRunRejectsConcurrentOperation(t *testing.T) {
	s := New()
	require.NoError(t, s.Load("doc.pdf", makePDF(t, 1), ""))

	started := make(chan struct{})
	release := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_, _ = s.Run(func(doc *pagedoc.Document) ([]byte, error) {
			close(started)
			<-release
			return doc.Bytes(), nil
		})
	}()

	<-started
	_, err := s.Run(func(doc *pagedoc.Document) ([]byte, error) { return nil, nil })
	require.Error(t, err)
	assert.Equal(t, docerr.KindValidation, docerr.KindOf(err))

	close(release)
	wg.Wait()
	assert.Equal(t, StateDone, s.State())
}

func TestSaveCommitsElements(t *testing.T) {
	s := New()
	require.NoError(t, s.Load("doc.pdf", makePDF(t, 1), ""))
	require.NoError(t, s.Place(textElement(1)))

	out, err := s.Save()
	require.NoError(t, err)

	saved, err := pagedoc.Load("saved.pdf", out, "")
	require.NoError(t, err)
	assert.Equal(t, 1, saved.PageCount())
}

func TestResetReleasesEverything(t *testing.T) {
	s := New()
	require.NoError(t, s.Load("doc.pdf", makePDF(t, 1), ""))
	require.NoError(t, s.Place(textElement(1)))
	s.Reset()

	assert.Equal(t, StateEmpty, s.State())
	assert.Nil(t, s.Document())
	assert.Empty(t, s.Elements())
	assert.Nil(t, s.Result())
}

func textElement(page int) pagedoc.Element {
	return pagedoc.Element{
		Kind:       pagedoc.ElementText,
		Page:       page,
		Box:        geometry.Box{X: 50, Y: 50, Width: 100, Height: 20},
		Space:      geometry.PageSpace{NativeW: 612, NativeH: 792, RasterW: 918, RasterH: 1188},
		Text:       "hello",
		FontSizePx: 16,
	}
}
