package docerr

import (
	"errors"
	"fmt"
	"testing"
)

func TestKindString(t *testing.T) {
	tests := []struct {
		kind Kind
		want string
	}{
		{KindDocumentLoad, "DocumentLoadError"},
		{KindWrongPassword, "WrongPasswordError"},
		{KindRangeParse, "RangeParseError"},
		{KindValidation, "ValidationError"},
		{KindExtractionFailed, "ExtractionFailed"},
		{KindTransport, "TransportError"},
		{KindUnknown, "UnknownError"},
	}

	for _, tt := range tests {
		if got := tt.kind.String(); got != tt.want {
			t.Errorf("Kind(%d).String() = %q, want %q", tt.kind, got, tt.want)
		}
	}
}

func TestKindOfThroughWrapping(t *testing.T) {
	base := New(KindWrongPassword, "unlock", errors.New("invalid password"))
	wrapped := fmt.Errorf("processing failed: %w", base)

	if got := KindOf(wrapped); got != KindWrongPassword {
		t.Errorf("KindOf(wrapped) = %v, want KindWrongPassword", got)
	}
	if KindOf(errors.New("plain")) != KindUnknown {
		t.Error("expected KindUnknown for unclassified error")
	}
}

func TestTokenInMessage(t *testing.T) {
	err := NewToken(KindRangeParse, "split", "3-2", errors.New("start after end"))
	if got := err.Error(); got != `split: RangeParseError: "3-2": start after end` {
		t.Errorf("unexpected message: %s", got)
	}
}

func TestRecoverable(t *testing.T) {
	if Recoverable(New(KindDocumentLoad, "load", errors.New("corrupt"))) {
		t.Error("document load errors must return the tool to its empty state")
	}
	for _, kind := range []Kind{KindWrongPassword, KindRangeParse, KindValidation, KindExtractionFailed, KindTransport} {
		if !Recoverable(New(kind, "op", errors.New("x"))) {
			t.Errorf("kind %v should be recoverable", kind)
		}
	}
}
