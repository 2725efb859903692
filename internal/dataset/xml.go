package dataset

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"
)

// XMLCodec round-trips datasets through XML with a repeated child element
// per record. On decode, the document element's direct children are the
// records and the tag names of the first record's children become the
// column headers, applied uniformly to every subsequent record. Records
// missing a tag yield empty strings; extra tags are ignored. No schema
// validation happens beyond that.
type XMLCodec struct{}

// xmlRecordName is the element name used for each encoded record.
const xmlRecordName = "item"

// Decode parses record-per-child XML into a dataset.
func (XMLCodec) Decode(data []byte) (*Dataset, error) {
	dec := xml.NewDecoder(bytes.NewReader(data))

	ds := &Dataset{}
	depth := 0
	var fieldName string
	var fieldText strings.Builder
	var row Row
	firstRecord := true

	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("parse xml: %w", err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			depth++
			switch depth {
			case 2: // record
				row = Row{}
			case 3: // field
				fieldName = t.Name.Local
				fieldText.Reset()
				if firstRecord {
					ds.Columns = append(ds.Columns, fieldName)
				}
			}
		case xml.EndElement:
			switch depth {
			case 3:
				if _, exists := row[fieldName]; !exists {
					row[fieldName] = strings.TrimSpace(fieldText.String())
				}
			case 2:
				for _, col := range ds.Columns {
					if _, ok := row[col]; !ok {
						row[col] = ""
					}
				}
				ds.Rows = append(ds.Rows, row)
				firstRecord = false
			}
			depth--
		case xml.CharData:
			if depth >= 3 {
				fieldText.Write(t)
			}
		}
	}

	if len(ds.Rows) == 0 {
		return nil, fmt.Errorf("xml document has no record elements")
	}
	return ds, nil
}

// Encode writes the dataset as <root> with one element per record.
func (XMLCodec) Encode(ds *Dataset) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(xml.Header)
	buf.WriteString("<root>\n")
	for i := range ds.Rows {
		buf.WriteString("  <" + xmlRecordName + ">\n")
		for _, col := range ds.Columns {
			tag := sanitizeTag(col)
			buf.WriteString("    <" + tag + ">")
			if err := xml.EscapeText(&buf, []byte(ds.Rows[i][col])); err != nil {
				return nil, fmt.Errorf("escape xml value: %w", err)
			}
			buf.WriteString("</" + tag + ">\n")
		}
		buf.WriteString("  </" + xmlRecordName + ">\n")
	}
	buf.WriteString("</root>\n")
	return buf.Bytes(), nil
}

// sanitizeTag turns an arbitrary column header into a usable element name.
func sanitizeTag(name string) string {
	var b strings.Builder
	for i, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r == '_':
			b.WriteRune(r)
		case r >= '0' && r <= '9':
			if i == 0 {
				b.WriteRune('_')
			}
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	if b.Len() == 0 {
		return "field"
	}
	return b.String()
}
