// Package session tracks the lifecycle of one document being worked
// on: Empty, Loaded, Editing, Saving, Done or Failed. A session is a
// plain value object owned by whoever drives the pipeline; it carries
// no UI or transport concern.
package session

import (
	"fmt"
	"sync"

	"github.com/docforge/docforge/internal/docerr"
	"github.com/docforge/docforge/internal/pagedoc"
)

// State is the session lifecycle phase.
type State int

const (
	StateEmpty State = iota
	StateLoaded
	StateEditing
	StateSaving
	StateDone
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateEmpty:
		return "empty"
	case StateLoaded:
		return "loaded"
	case StateEditing:
		return "editing"
	case StateSaving:
		return "saving"
	case StateDone:
		return "done"
	case StateFailed:
		return "failed"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// DocumentSession owns one loaded document, its accumulated placed
// elements, and the latest result. One operation runs at a time; a
// second concurrent operation is rejected, not queued.
type DocumentSession struct {
	mu       sync.Mutex
	state    State
	doc      *pagedoc.Document
	elements []pagedoc.Element
	result   []byte
	inFlight bool
}

// New returns an empty session.
func New() *DocumentSession {
	return &DocumentSession{state: StateEmpty}
}

// State reports the current lifecycle phase.
func (s *DocumentSession) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Document returns the loaded document, or nil when empty.
func (s *DocumentSession) Document() *pagedoc.Document {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.doc
}

// Load parses file bytes into the session. A load failure leaves the
// session empty so the caller starts over with a fresh file; loading
// over an existing document replaces it and drops derived state.
func (s *DocumentSession) Load(name string, data []byte, password string) error {
	doc, err := pagedoc.Load(name, data, password)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.inFlight {
		return docerr.Newf(docerr.KindValidation, "session.Load", "another operation is in progress")
	}
	if err != nil {
		s.reset()
		return err
	}
	s.reset()
	s.doc = doc
	s.state = StateLoaded
	return nil
}

// Place appends an element during interactive editing.
func (s *DocumentSession) Place(e pagedoc.Element) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.doc == nil {
		return docerr.Newf(docerr.KindValidation, "session.Place", "no document loaded")
	}
	if s.state != StateLoaded && s.state != StateEditing {
		return docerr.Newf(docerr.KindValidation, "session.Place",
			"cannot edit while %s", s.state)
	}
	s.elements = append(s.elements, e)
	s.state = StateEditing
	return nil
}

// Elements returns a copy of the accumulated placed elements.
func (s *DocumentSession) Elements() []pagedoc.Element {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]pagedoc.Element, len(s.elements))
	copy(out, s.elements)
	return out
}

// Run executes one operation against the loaded document. The
// operation receives the document and returns result bytes. On
// success the session is Done and holds the result; on failure it
// returns to Loaded so the user can correct input and retry without
// reselecting the file.
func (s *DocumentSession) Run(op func(doc *pagedoc.Document) ([]byte, error)) ([]byte, error) {
	s.mu.Lock()
	if s.doc == nil {
		s.mu.Unlock()
		return nil, docerr.Newf(docerr.KindValidation, "session.Run", "no document loaded")
	}
	if s.inFlight {
		s.mu.Unlock()
		return nil, docerr.Newf(docerr.KindValidation, "session.Run", "another operation is in progress")
	}
	s.inFlight = true
	s.state = StateSaving
	doc := s.doc
	s.mu.Unlock()

	result, err := op(doc)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.inFlight = false
	if err != nil {
		s.state = StateFailed
		// Recoverable failures return to Loaded; the document stays.
		if docerr.Recoverable(err) {
			s.state = StateLoaded
		}
		return nil, err
	}
	// Replacing a previous result releases it.
	s.result = result
	s.state = StateDone
	return result, nil
}

// Save commits the accumulated elements onto a fresh decode of the
// original bytes, so repeated saves never double-apply edits.
func (s *DocumentSession) Save() ([]byte, error) {
	elems := s.Elements()
	return s.Run(func(doc *pagedoc.Document) ([]byte, error) {
		return pagedoc.ApplyElements(doc, elems)
	})
}

// Result returns the bytes of the last successful operation.
func (s *DocumentSession) Result() []byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.result
}

// Reset returns the session to empty, releasing the document, the
// placed elements and any result.
func (s *DocumentSession) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reset()
}

func (s *DocumentSession) reset() {
	s.doc = nil
	s.elements = nil
	s.result = nil
	s.state = StateEmpty
}
