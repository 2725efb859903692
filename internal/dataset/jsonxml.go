package dataset

import (
	"bytes"
	"encoding/json"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
)

// JSONToXML converts arbitrary (possibly nested) JSON into an XML document
// rooted at <root>. Arrays repeat their element name per entry; objects
// nest; scalars become text content. This direct path preserves structure
// the flat dataset form cannot.
func JSONToXML(data []byte) ([]byte, error) {
	var value any
	if err := json.Unmarshal(data, &value); err != nil {
		return nil, fmt.Errorf("parse json: %w", err)
	}

	var buf bytes.Buffer
	buf.WriteString(xml.Header)
	buf.WriteString("<root>")
	switch v := value.(type) {
	case map[string]any:
		if err := writeXMLObject(&buf, v); err != nil {
			return nil, err
		}
	case []any:
		if err := writeXMLValue(&buf, xmlRecordName, v); err != nil {
			return nil, err
		}
	default:
		if err := writeXMLValue(&buf, "value", v); err != nil {
			return nil, err
		}
	}
	buf.WriteString("</root>\n")
	return buf.Bytes(), nil
}

func writeXMLObject(buf *bytes.Buffer, obj map[string]any) error {
	// Key order of Go maps is unstable; sort for deterministic output.
	keys := make([]string, 0, len(obj))
	for k := range obj {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if err := writeXMLValue(buf, sanitizeTag(k), obj[k]); err != nil {
			return err
		}
	}
	return nil
}

func writeXMLValue(buf *bytes.Buffer, name string, v any) error {
	switch t := v.(type) {
	case []any:
		for _, item := range t {
			if err := writeXMLValue(buf, name, item); err != nil {
				return err
			}
		}
	case map[string]any:
		buf.WriteString("<" + name + ">")
		if err := writeXMLObject(buf, t); err != nil {
			return err
		}
		buf.WriteString("</" + name + ">")
	default:
		buf.WriteString("<" + name + ">")
		if err := xml.EscapeText(buf, []byte(stringifyScalar(t))); err != nil {
			return err
		}
		buf.WriteString("</" + name + ">")
	}
	return nil
}

// XMLToJSON converts arbitrary XML into a generic JSON structure: element
// children become object fields, repeated siblings collapse into arrays,
// attributes land under "@attributes", and text-only elements become
// strings.
func XMLToJSON(data []byte) ([]byte, error) {
	dec := xml.NewDecoder(bytes.NewReader(data))

	root, err := decodeXMLElement(dec)
	if err != nil {
		return nil, err
	}
	out, err := json.MarshalIndent(root, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode json: %w", err)
	}
	return append(out, '\n'), nil
}

// decodeXMLElement finds the document element and maps it recursively.
func decodeXMLElement(dec *xml.Decoder) (any, error) {
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("xml document has no root element")
		}
		if err != nil {
			return nil, fmt.Errorf("parse xml: %w", err)
		}
		if start, ok := tok.(xml.StartElement); ok {
			return mapXMLElement(dec, start)
		}
	}
}

func mapXMLElement(dec *xml.Decoder, start xml.StartElement) (any, error) {
	obj := map[string]any{}
	if len(start.Attr) > 0 {
		attrs := map[string]any{}
		for _, a := range start.Attr {
			attrs[a.Name.Local] = a.Value
		}
		obj["@attributes"] = attrs
	}

	var text strings.Builder
	for {
		tok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("parse xml: %w", err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			child, err := mapXMLElement(dec, t)
			if err != nil {
				return nil, err
			}
			appendXMLChild(obj, t.Name.Local, child)
		case xml.CharData:
			text.Write(t)
		case xml.EndElement:
			trimmed := strings.TrimSpace(text.String())
			if len(obj) == 0 {
				return trimmed, nil
			}
			if trimmed != "" {
				obj["#text"] = trimmed
			}
			return obj, nil
		}
	}
}

// appendXMLChild inserts a child, collapsing repeated names into arrays.
func appendXMLChild(obj map[string]any, name string, child any) {
	existing, ok := obj[name]
	if !ok {
		obj[name] = child
		return
	}
	if arr, ok := existing.([]any); ok {
		obj[name] = append(arr, child)
		return
	}
	obj[name] = []any{existing, child}
}
