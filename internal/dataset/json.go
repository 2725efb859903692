package dataset

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// JSONCodec round-trips datasets through a JSON array of flat objects.
// Column order follows the key order of the first object.
type JSONCodec struct{}

// Decode parses a JSON array of flat objects into a dataset.
func (JSONCodec) Decode(data []byte) (*Dataset, error) {
	columns, err := firstObjectKeys(data)
	if err != nil {
		return nil, err
	}

	var objects []map[string]any
	if err := json.Unmarshal(data, &objects); err != nil {
		return nil, fmt.Errorf("parse json array: %w", err)
	}

	ds := &Dataset{Columns: columns}
	for _, obj := range objects {
		row := make(Row, len(columns))
		for _, col := range columns {
			row[col] = stringifyScalar(obj[col])
		}
		ds.Rows = append(ds.Rows, row)
	}
	return ds, nil
}

// Encode writes the dataset as an indented JSON array of objects with keys
// in column order.
func (JSONCodec) Encode(ds *Dataset) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString("[")
	for i := range ds.Rows {
		if i > 0 {
			buf.WriteString(",")
		}
		buf.WriteString("\n  {")
		for j, col := range ds.Columns {
			if j > 0 {
				buf.WriteString(",")
			}
			buf.WriteString("\n    ")
			key, err := json.Marshal(col)
			if err != nil {
				return nil, err
			}
			val, err := json.Marshal(ds.Rows[i][col])
			if err != nil {
				return nil, err
			}
			buf.Write(key)
			buf.WriteString(": ")
			buf.Write(val)
		}
		buf.WriteString("\n  }")
	}
	buf.WriteString("\n]\n")
	return buf.Bytes(), nil
}

// firstObjectKeys extracts the key order of the first object in a JSON
// array using the token stream, since maps lose ordering.
func firstObjectKeys(data []byte) ([]string, error) {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("parse json: %w", err)
	}
	if d, ok := tok.(json.Delim); !ok || d != '[' {
		return nil, fmt.Errorf("json input must be an array of objects")
	}

	if !dec.More() {
		return nil, fmt.Errorf("json array is empty")
	}
	tok, err = dec.Token()
	if err != nil {
		return nil, fmt.Errorf("parse json: %w", err)
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, fmt.Errorf("json array elements must be objects")
	}

	var keys []string
	depth := 0
	for {
		tok, err = dec.Token()
		if err != nil {
			return nil, fmt.Errorf("parse json: %w", err)
		}
		if d, ok := tok.(json.Delim); ok {
			switch d {
			case '{', '[':
				depth++
			case '}', ']':
				if d == '}' && depth == 0 {
					return keys, nil
				}
				depth--
			}
			continue
		}
		if depth == 0 {
			if key, ok := tok.(string); ok {
				keys = append(keys, key)
				// Skip the value, which may itself be a container.
				var discard json.RawMessage
				if err := dec.Decode(&discard); err != nil {
					return nil, fmt.Errorf("parse json: %w", err)
				}
			}
		}
	}
}

// stringifyScalar renders a decoded JSON value as a cell string. Nulls and
// missing fields become empty strings per the dataset invariant.
func stringifyScalar(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case bool:
		return strconv.FormatBool(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	default:
		b, err := json.Marshal(t)
		if err != nil {
			return ""
		}
		return string(b)
	}
}
