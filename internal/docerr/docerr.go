// Package docerr defines the error taxonomy shared by every pipeline
// operation. Errors are classified into a small set of kinds so the
// tool boundary can render a single inline message and decide whether
// the session keeps its loaded document.
package docerr

import (
	"errors"
	"fmt"
)

// Kind classifies a pipeline failure.
type Kind int

const (
	// KindUnknown is the zero value for unclassified errors.
	KindUnknown Kind = iota

	// KindDocumentLoad covers unparsable, corrupt or unsupported input.
	KindDocumentLoad

	// KindWrongPassword means decryption failed specifically due to bad
	// credentials, as opposed to a generally unreadable document.
	KindWrongPassword

	// KindRangeParse covers malformed or out-of-bounds page/row selectors.
	KindRangeParse

	// KindValidation covers missing or inconsistent user input caught
	// before an operation starts, e.g. an empty password.
	KindValidation

	// KindExtractionFailed means the AI shim returned its failure sentinel
	// or structurally unusable output.
	KindExtractionFailed

	// KindTransport means a network or external service call itself failed.
	KindTransport
)

// String returns the canonical name of the kind.
func (k Kind) String() string {
	switch k {
	case KindDocumentLoad:
		return "DocumentLoadError"
	case KindWrongPassword:
		return "WrongPasswordError"
	case KindRangeParse:
		return "RangeParseError"
	case KindValidation:
		return "ValidationError"
	case KindExtractionFailed:
		return "ExtractionFailed"
	case KindTransport:
		return "TransportError"
	default:
		return "UnknownError"
	}
}

// Error is a classified pipeline error. Op names the failing operation,
// Token optionally names the offending input fragment (range selectors).
type Error struct {
	Kind  Kind
	Op    string
	Token string
	Err   error
}

// Error implements the error interface.
func (e *Error) Error() string {
	switch {
	case e.Token != "":
		return fmt.Sprintf("%s: %s: %q: %v", e.Op, e.Kind, e.Token, e.Err)
	case e.Err != nil:
		return fmt.Sprintf("%s: %s: %v", e.Op, e.Kind, e.Err)
	default:
		return fmt.Sprintf("%s: %s", e.Op, e.Kind)
	}
}

// Unwrap returns the wrapped error.
func (e *Error) Unwrap() error {
	return e.Err
}

// New creates a classified error wrapping err.
func New(kind Kind, op string, err error) *Error {
	return &Error{Kind: kind, Op: op, Err: err}
}

// Newf creates a classified error from a format string.
func Newf(kind Kind, op, format string, args ...any) *Error {
	return &Error{Kind: kind, Op: op, Err: fmt.Errorf(format, args...)}
}

// NewToken creates a range-parse style error naming the offending token.
func NewToken(kind Kind, op, token string, err error) *Error {
	return &Error{Kind: kind, Op: op, Token: token, Err: err}
}

// KindOf reports the kind of err, or KindUnknown if err carries none.
func KindOf(err error) Kind {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return KindUnknown
}

// Is reports whether err is classified as kind.
func Is(err error, kind Kind) bool {
	return KindOf(err) == kind
}

// Recoverable reports whether the session keeps its loaded document after
// err. Everything except a document-load failure leaves the tool in its
// pre-operation state so the user can correct input and retry.
func Recoverable(err error) bool {
	return KindOf(err) != KindDocumentLoad
}
