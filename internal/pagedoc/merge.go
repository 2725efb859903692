package pagedoc

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pdfcpu/pdfcpu/pkg/api"

	"github.com/docforge/docforge/internal/docerr"
)

// Merge concatenates the documents in order into a single PDF. At
// least two documents are required.
func Merge(docs []*Document) ([]byte, error) {
	const op = "pagedoc.Merge"

	if len(docs) < 2 {
		return nil, docerr.Newf(docerr.KindValidation, op,
			"need at least 2 documents to merge, got %d", len(docs))
	}

	dir, cleanup, err := workDir()
	if err != nil {
		return nil, err
	}
	defer cleanup()

	inputs := make([]string, len(docs))
	for i, d := range docs {
		path := filepath.Join(dir, fmt.Sprintf("in-%d.pdf", i))
		if err := os.WriteFile(path, d.Bytes(), 0o600); err != nil {
			return nil, fmt.Errorf("stage input %d: %w", i, err)
		}
		inputs[i] = path
	}

	out := filepath.Join(dir, "merged.pdf")
	if err := api.MergeCreateFile(inputs, out, false, nil); err != nil {
		return nil, docerr.New(docerr.KindValidation, op, err)
	}

	merged, err := os.ReadFile(out)
	if err != nil {
		return nil, fmt.Errorf("read merged output: %w", err)
	}
	return merged, nil
}
