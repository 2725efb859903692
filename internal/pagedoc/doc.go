// Package pagedoc implements page-level PDF operations: loading,
// rasterizing, composing, merging, splitting, compressing, stamping
// and protecting documents held entirely in memory as byte slices.
package pagedoc

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"

	"github.com/docforge/docforge/internal/docerr"
)

// Document is an immutable loaded PDF. The raw bytes are retained so
// that every operation can re-read the original file instead of
// accumulating edits on a mutated copy.
type Document struct {
	data      []byte
	pageCount int
	encrypted bool
	name      string
}

// Load parses and validates PDF bytes. A structurally broken file
// yields a DocumentLoad error; an encrypted file opened with a missing
// or wrong password yields a WrongPassword error so callers can
// re-prompt instead of discarding the file.
func Load(name string, data []byte, password string) (*Document, error) {
	const op = "pagedoc.Load"

	if len(data) == 0 {
		return nil, docerr.Newf(docerr.KindDocumentLoad, op, "empty file")
	}

	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	if password != "" {
		conf.UserPW = password
		conf.OwnerPW = password
	}

	ctx, err := api.ReadContext(bytes.NewReader(data), conf)
	if err != nil {
		if isPasswordErr(err) {
			return nil, docerr.New(docerr.KindWrongPassword, op, err)
		}
		return nil, docerr.New(docerr.KindDocumentLoad, op, err)
	}
	if err := ctx.EnsurePageCount(); err != nil {
		return nil, docerr.New(docerr.KindDocumentLoad, op, err)
	}

	return &Document{
		data:      data,
		pageCount: ctx.PageCount,
		encrypted: ctx.E != nil,
		name:      name,
	}, nil
}

// Bytes returns the original file bytes.
func (d *Document) Bytes() []byte { return d.data }

// PageCount reports the number of pages.
func (d *Document) PageCount() int { return d.pageCount }

// Encrypted reports whether the file carries an encryption dictionary.
func (d *Document) Encrypted() bool { return d.encrypted }

// Name returns the filename the document was loaded under.
func (d *Document) Name() string { return d.name }

// Stem returns the filename without its extension, used to derive
// output names for split and compress results.
func (d *Document) Stem() string {
	base := filepath.Base(d.name)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func isPasswordErr(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "password") || strings.Contains(msg, "encrypt")
}

// workFile writes data to a temp file inside a fresh directory and
// returns its path with a cleanup func. The file-based pdfcpu API is
// the stable surface, so in-memory documents round-trip through disk.
func workFile(pattern string, data []byte) (string, func(), error) {
	dir, err := os.MkdirTemp("", "docforge-*")
	if err != nil {
		return "", nil, fmt.Errorf("create work dir: %w", err)
	}
	cleanup := func() { os.RemoveAll(dir) }

	path := filepath.Join(dir, pattern)
	if err := os.WriteFile(path, data, 0o600); err != nil {
		cleanup()
		return "", nil, fmt.Errorf("write work file: %w", err)
	}
	return path, cleanup, nil
}

// workDir creates a fresh temp directory with a cleanup func.
func workDir() (string, func(), error) {
	dir, err := os.MkdirTemp("", "docforge-*")
	if err != nil {
		return "", nil, fmt.Errorf("create work dir: %w", err)
	}
	return dir, func() { os.RemoveAll(dir) }, nil
}
