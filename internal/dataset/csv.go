package dataset

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
)

// CSVCodec round-trips datasets through RFC 4180 delimited text. The first
// record is the header row.
type CSVCodec struct{}

// Decode parses CSV bytes into a dataset.
func (CSVCodec) Decode(data []byte) (*Dataset, error) {
	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = -1 // short rows become empty cells, not errors

	header, err := r.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("csv input is empty")
	}
	if err != nil {
		return nil, fmt.Errorf("read csv header: %w", err)
	}

	var records [][]string
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv row: %w", err)
		}
		records = append(records, rec)
	}
	return New(header, records), nil
}

// Encode writes the dataset as CSV, header first.
func (CSVCodec) Encode(ds *Dataset) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(ds.Columns); err != nil {
		return nil, fmt.Errorf("write csv header: %w", err)
	}
	for i := range ds.Rows {
		if err := w.Write(ds.Record(i)); err != nil {
			return nil, fmt.Errorf("write csv row %d: %w", i, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
