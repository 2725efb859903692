package pagerange

import (
	"errors"
	"reflect"
	"testing"

	"github.com/docforge/docforge/internal/docerr"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name       string
		expr       string
		totalPages int
		want       []int
	}{
		{"single page", "3", 5, []int{2}},
		{"simple range", "1-3", 5, []int{0, 1, 2}},
		{"mixed with spaces", "1-3, 5, 4", 10, []int{0, 1, 2, 3, 4}},
		{"duplicates collapse", "2,2,1-2", 5, []int{0, 1}},
		{"out of order input sorts ascending", "5,1,3", 5, []int{0, 2, 4}},
		{"all keyword", "all", 3, []int{0, 1, 2}},
		{"full span equals all", "1-4", 4, []int{0, 1, 2, 3}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.expr, tt.totalPages)
			if err != nil {
				t.Fatalf("Parse(%q, %d) returned error: %v", tt.expr, tt.totalPages, err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Parse(%q, %d) = %v, want %v", tt.expr, tt.totalPages, got, tt.want)
			}
		})
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name       string
		expr       string
		totalPages int
		wantToken  string
	}{
		{"reversed range", "3-2", 5, "3-2"},
		{"end out of bounds", "1-10", 5, "1-10"},
		{"page out of bounds", "6", 5, "6"},
		{"zero page", "0", 5, "0"},
		{"garbage token", "1,abc", 5, "abc"},
		{"dangling hyphen", "2-", 5, "2-"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.expr, tt.totalPages)
			if err == nil {
				t.Fatalf("Parse(%q, %d) succeeded, want RangeParseError", tt.expr, tt.totalPages)
			}
			if docerr.KindOf(err) != docerr.KindRangeParse {
				t.Errorf("error kind = %v, want KindRangeParse", docerr.KindOf(err))
			}
			var de *docerr.Error
			if !errors.As(err, &de) {
				t.Fatal("error is not a *docerr.Error")
			}
			if de.Token != tt.wantToken {
				t.Errorf("offending token = %q, want %q", de.Token, tt.wantToken)
			}
		})
	}
}

func TestParseEmptyExpression(t *testing.T) {
	_, err := Parse("   ", 5)
	if docerr.KindOf(err) != docerr.KindRangeParse {
		t.Errorf("empty expression: error kind = %v, want KindRangeParse", docerr.KindOf(err))
	}
}

func TestFormat(t *testing.T) {
	if got := Format([]int{0, 2, 4}); got != "1,3,5" {
		t.Errorf("Format = %q, want %q", got, "1,3,5")
	}
	if got := Format(nil); got != "" {
		t.Errorf("Format(nil) = %q, want empty", got)
	}
}
