package dataset

import (
	"archive/zip"
	"bytes"
	"fmt"

	"github.com/docforge/docforge/internal/docerr"
	"github.com/xuri/excelize/v2"
)

// SplitRows partitions the dataset's data rows into consecutive chunks of
// chunkSize rows (the final chunk may be shorter), re-attaches the header
// to each chunk, and packages every chunk as CSV into one zip archive.
// Chunk files are named <stem>-part-<n>.csv. The header row is excluded
// from the count. Datasets with fewer data rows than one chunk are
// rejected: there is nothing to split.
func SplitRows(ds *Dataset, chunkSize int, stem string) ([]byte, error) {
	const op = "dataset.SplitRows"

	if chunkSize < 1 {
		return nil, docerr.Newf(docerr.KindValidation, op, "chunk size must be positive, got %d", chunkSize)
	}
	if len(ds.Rows) < chunkSize {
		return nil, docerr.Newf(docerr.KindValidation, op,
			"the file has fewer than %d data rows, nothing to split", chunkSize)
	}

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	enc := CSVCodec{}

	part := 0
	for start := 0; start < len(ds.Rows); start += chunkSize {
		end := start + chunkSize
		if end > len(ds.Rows) {
			end = len(ds.Rows)
		}
		part++

		chunk := &Dataset{Columns: ds.Columns, Rows: ds.Rows[start:end]}
		data, err := enc.Encode(chunk)
		if err != nil {
			return nil, fmt.Errorf("encode chunk %d: %w", part, err)
		}

		w, err := zw.Create(fmt.Sprintf("%s-part-%d.csv", stem, part))
		if err != nil {
			return nil, fmt.Errorf("create archive entry: %w", err)
		}
		if _, err := w.Write(data); err != nil {
			return nil, fmt.Errorf("write archive entry: %w", err)
		}
	}

	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("finalize archive: %w", err)
	}
	return buf.Bytes(), nil
}

// SplitWorkbookBySheet turns every sheet of a multi-sheet workbook into a
// single-sheet workbook file, packaged into one zip archive named by sheet.
// Single-sheet workbooks are rejected: there is nothing to split.
func SplitWorkbookBySheet(data []byte) ([]byte, error) {
	const op = "dataset.SplitWorkbookBySheet"

	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, docerr.New(docerr.KindDocumentLoad, op, err)
	}
	defer func() { _ = f.Close() }()

	sheets := f.GetSheetList()
	if len(sheets) <= 1 {
		return nil, docerr.Newf(docerr.KindValidation, op,
			"this workbook only has one sheet, there is nothing to split")
	}

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	for _, sheet := range sheets {
		ds, err := sheetToDataset(f, sheet)
		if err != nil {
			return nil, err
		}

		out := excelize.NewFile()
		if err := out.SetSheetName(defaultSheetName, sheet); err != nil {
			_ = out.Close()
			return nil, fmt.Errorf("name sheet %q: %w", sheet, err)
		}
		if err := writeSheet(out, sheet, ds); err != nil {
			_ = out.Close()
			return nil, err
		}
		single, err := out.WriteToBuffer()
		_ = out.Close()
		if err != nil {
			return nil, fmt.Errorf("write workbook for sheet %q: %w", sheet, err)
		}

		w, err := zw.Create(sheet + ".xlsx")
		if err != nil {
			return nil, fmt.Errorf("create archive entry: %w", err)
		}
		if _, err := w.Write(single.Bytes()); err != nil {
			return nil, fmt.Errorf("write archive entry: %w", err)
		}
	}

	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("finalize archive: %w", err)
	}
	return buf.Bytes(), nil
}

// WorkbookSheets decodes every sheet of a workbook in order, returning the
// sheet names alongside their datasets. Empty sheets are skipped.
func WorkbookSheets(data []byte) ([]string, []*Dataset, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, nil, fmt.Errorf("open workbook: %w", err)
	}
	defer func() { _ = f.Close() }()

	var names []string
	var sets []*Dataset
	for _, sheet := range f.GetSheetList() {
		rows, err := f.GetRows(sheet)
		if err != nil {
			return nil, nil, fmt.Errorf("read sheet %q: %w", sheet, err)
		}
		if len(rows) == 0 {
			continue
		}
		names = append(names, sheet)
		sets = append(sets, New(rows[0], rows[1:]))
	}
	return names, sets, nil
}
