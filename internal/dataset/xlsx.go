package dataset

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"
)

// defaultSheetName is the sheet used when encoding a dataset to a workbook.
const defaultSheetName = "Sheet1"

// XLSXCodec round-trips datasets through the first sheet of a spreadsheet
// workbook using excelize.
type XLSXCodec struct{}

// Decode reads the first sheet of a workbook into a dataset.
func (XLSXCodec) Decode(data []byte) (*Dataset, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer func() { _ = f.Close() }()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}
	return sheetToDataset(f, sheets[0])
}

// Encode writes the dataset into a single-sheet workbook.
func (XLSXCodec) Encode(ds *Dataset) ([]byte, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := writeSheet(f, defaultSheetName, ds); err != nil {
		return nil, err
	}
	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

// sheetToDataset reads one sheet, first row as header.
func sheetToDataset(f *excelize.File, sheet string) (*Dataset, error) {
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheet, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("sheet %q is empty", sheet)
	}
	return New(rows[0], rows[1:]), nil
}

// writeSheet writes a header row followed by the dataset's records.
func writeSheet(f *excelize.File, sheet string, ds *Dataset) error {
	idx, err := f.GetSheetIndex(sheet)
	if err != nil {
		return fmt.Errorf("look up sheet %q: %w", sheet, err)
	}
	if idx < 0 {
		if _, err := f.NewSheet(sheet); err != nil {
			return fmt.Errorf("create sheet %q: %w", sheet, err)
		}
	}

	header := make([]interface{}, len(ds.Columns))
	for i, col := range ds.Columns {
		header[i] = col
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return fmt.Errorf("write header row: %w", err)
	}

	for i := range ds.Rows {
		rec := ds.Record(i)
		cells := make([]interface{}, len(rec))
		for j, v := range rec {
			cells[j] = v
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return fmt.Errorf("compute cell name: %w", err)
		}
		if err := f.SetSheetRow(sheet, cell, &cells); err != nil {
			return fmt.Errorf("write row %d: %w", i+1, err)
		}
	}
	return nil
}
