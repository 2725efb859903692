// Package pagerange parses user-supplied page selections such as
// "1-3, 5, 8-10" into validated zero-based page indices.
package pagerange

import (
	"errors"
	"sort"
	"strconv"
	"strings"

	"github.com/docforge/docforge/internal/docerr"
)

// Parse resolves a 1-indexed page-range expression against totalPages and
// returns the referenced pages as ascending, de-duplicated zero-based
// indices. The expression is comma-separated integers and hyphenated
// inclusive ranges; the literal "all" selects every page. Malformed or
// out-of-bounds tokens produce a RangeParseError naming the offending
// token.
func Parse(expr string, totalPages int) ([]int, error) {
	const op = "pagerange.Parse"

	trimmed := strings.ToLower(strings.TrimSpace(expr))
	if trimmed == "all" {
		pages := make([]int, totalPages)
		for i := range pages {
			pages[i] = i
		}
		return pages, nil
	}
	if trimmed == "" {
		return nil, docerr.Newf(docerr.KindRangeParse, op, "page range cannot be empty")
	}

	seen := make(map[int]bool)
	for _, part := range strings.Split(trimmed, ",") {
		token := strings.TrimSpace(part)
		if strings.Contains(token, "-") {
			if err := parseSpan(op, token, totalPages, seen); err != nil {
				return nil, err
			}
			continue
		}
		page, err := strconv.Atoi(token)
		if err != nil || page < 1 || page > totalPages {
			return nil, docerr.NewToken(docerr.KindRangeParse, op, token,
				errors.New("invalid page number"))
		}
		seen[page-1] = true
	}

	pages := make([]int, 0, len(seen))
	for p := range seen {
		pages = append(pages, p)
	}
	sort.Ints(pages)
	return pages, nil
}

// parseSpan handles a single hyphenated inclusive token like "8-10".
func parseSpan(op, token string, totalPages int, seen map[int]bool) error {
	startStr, endStr, _ := strings.Cut(token, "-")
	start, errStart := strconv.Atoi(strings.TrimSpace(startStr))
	end, errEnd := strconv.Atoi(strings.TrimSpace(endStr))
	if errStart != nil || errEnd != nil || start > end || start < 1 || end > totalPages {
		return docerr.NewToken(docerr.KindRangeParse, op, token,
			errors.New("invalid range"))
	}
	for i := start; i <= end; i++ {
		seen[i-1] = true
	}
	return nil
}

// Format renders zero-based page indices as the 1-indexed comma-separated
// form accepted by Parse. Useful for logging and for handing selections to
// the underlying document library.
func Format(pages []int) string {
	parts := make([]string, len(pages))
	for i, p := range pages {
		parts[i] = strconv.Itoa(p + 1)
	}
	return strings.Join(parts, ",")
}
