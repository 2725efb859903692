// Package dataset implements the row/column intermediate form used to
// interconvert CSV, XML, JSON and spreadsheet data, and the codec registry
// resolving one codec per tabular format.
//
// A Dataset's column set is computed once from the first row or record and
// applied uniformly: rows missing a field serialize as the empty string,
// never as a structural error.
package dataset

import (
	"fmt"

	"github.com/docforge/docforge/internal/codec"
)

// Row maps column names to string values.
type Row map[string]string

// Dataset is an ordered sequence of rows with a stable column order
// derived from first-seen headers.
type Dataset struct {
	Columns []string
	Rows    []Row
}

// New builds a dataset from an explicit header and pre-ordered records.
func New(columns []string, records [][]string) *Dataset {
	ds := &Dataset{Columns: columns}
	for _, rec := range records {
		row := make(Row, len(columns))
		for i, col := range columns {
			if i < len(rec) {
				row[col] = rec[i]
			} else {
				row[col] = ""
			}
		}
		ds.Rows = append(ds.Rows, row)
	}
	return ds
}

// Record returns row i's values in column order, empty string for missing
// fields.
func (ds *Dataset) Record(i int) []string {
	rec := make([]string, len(ds.Columns))
	for j, col := range ds.Columns {
		rec[j] = ds.Rows[i][col]
	}
	return rec
}

// Records returns all rows as string slices in column order.
func (ds *Dataset) Records() [][]string {
	out := make([][]string, len(ds.Rows))
	for i := range ds.Rows {
		out[i] = ds.Record(i)
	}
	return out
}

// Codec converts one tabular format to and from the dataset form.
type Codec interface {
	Decode(data []byte) (*Dataset, error)
	Encode(ds *Dataset) ([]byte, error)
}

// Registry resolves one codec per tabular format. Adding a format is a
// local change: implement Codec and add it to NewRegistry.
type Registry struct {
	codecs map[codec.Format]Codec
}

// NewRegistry returns a registry with every built-in tabular codec.
func NewRegistry() *Registry {
	return &Registry{
		codecs: map[codec.Format]Codec{
			codec.FormatCSV:  CSVCodec{},
			codec.FormatJSON: JSONCodec{},
			codec.FormatXML:  XMLCodec{},
			codec.FormatXLSX: XLSXCodec{},
		},
	}
}

// Get returns the codec for a format.
func (r *Registry) Get(format codec.Format) (Codec, error) {
	c, ok := r.codecs[format]
	if !ok {
		return nil, fmt.Errorf("no tabular codec for format %q", format)
	}
	return c, nil
}

// Convert decodes data from one tabular format and encodes it into another.
func (r *Registry) Convert(data []byte, from, to codec.Format) ([]byte, error) {
	dec, err := r.Get(from)
	if err != nil {
		return nil, err
	}
	enc, err := r.Get(to)
	if err != nil {
		return nil, err
	}
	ds, err := dec.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", from, err)
	}
	out, err := enc.Encode(ds)
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", to, err)
	}
	return out, nil
}
