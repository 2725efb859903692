package pagedoc

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"

	"github.com/docforge/docforge/internal/docerr"
)

// Protect encrypts the document with the given password applied as
// both user and owner password.
func Protect(doc *Document, password string) ([]byte, error) {
	const op = "pagedoc.Protect"

	if strings.TrimSpace(password) == "" {
		return nil, docerr.Newf(docerr.KindValidation, op, "password must not be empty")
	}
	if doc.Encrypted() {
		return nil, docerr.Newf(docerr.KindValidation, op, "document is already protected")
	}

	in, cleanup, err := workFile("in.pdf", doc.Bytes())
	if err != nil {
		return nil, err
	}
	defer cleanup()

	conf := model.NewDefaultConfiguration()
	conf.UserPW = password
	conf.OwnerPW = password

	out := filepath.Join(filepath.Dir(in), "out.pdf")
	if err := api.EncryptFile(in, out, conf); err != nil {
		return nil, docerr.New(docerr.KindValidation, op, err)
	}

	data, err := os.ReadFile(out)
	if err != nil {
		return nil, fmt.Errorf("read protected output: %w", err)
	}
	return data, nil
}

// Unlock removes encryption from a protected document. A wrong
// password yields a WrongPassword error so callers can re-prompt.
func Unlock(data []byte, password string) ([]byte, error) {
	const op = "pagedoc.Unlock"

	in, cleanup, err := workFile("in.pdf", data)
	if err != nil {
		return nil, err
	}
	defer cleanup()

	conf := model.NewDefaultConfiguration()
	conf.UserPW = password
	conf.OwnerPW = password

	out := filepath.Join(filepath.Dir(in), "out.pdf")
	if err := api.DecryptFile(in, out, conf); err != nil {
		if isPasswordErr(err) {
			return nil, docerr.New(docerr.KindWrongPassword, op, err)
		}
		return nil, docerr.New(docerr.KindDocumentLoad, op, err)
	}

	unlocked, err := os.ReadFile(out)
	if err != nil {
		return nil, fmt.Errorf("read unlocked output: %w", err)
	}
	return unlocked, nil
}
