package office

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"strings"

	"github.com/nguyenthenguyen/docx"

	"github.com/docforge/docforge/internal/docerr"
)

// ExtractDocxText pulls the plain text content of DOCX bytes with
// paragraph breaks normalized to single newlines.
func ExtractDocxText(data []byte) (string, error) {
	const op = "office.ExtractDocxText"

	if len(data) < 4 || data[0] != 0x50 || data[1] != 0x4B {
		return "", docerr.Newf(docerr.KindDocumentLoad, op, "not a zip-based document")
	}

	doc, err := docx.ReadDocxFromMemory(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", docerr.New(docerr.KindDocumentLoad, op, err)
	}
	defer doc.Close()

	text := docxContentToText(doc.Editable().GetContent())
	return text, nil
}

// docxContentToText strips the WordprocessingML markup the docx
// library leaves in place, turning paragraphs and breaks into
// newlines.
func docxContentToText(content string) string {
	if strings.HasPrefix(content, "<?xml") {
		if i := strings.Index(content, "?>"); i >= 0 {
			content = content[i+2:]
		}
	}
	dec := xml.NewDecoder(strings.NewReader("<root>" + content + "</root>"))
	var sb strings.Builder
	for {
		tok, err := dec.Token()
		if err != nil {
			break
		}
		switch t := tok.(type) {
		case xml.CharData:
			sb.Write(t)
		case xml.EndElement:
			if t.Name.Local == "p" {
				sb.WriteString("\n")
			}
		case xml.StartElement:
			if t.Name.Local == "br" {
				sb.WriteString("\n")
			}
		}
	}
	out := strings.ReplaceAll(sb.String(), "\r\n", "\n")
	return strings.TrimSpace(out)
}

// WriteDocx builds a minimal DOCX whose body is one paragraph per
// input line. Empty lines become empty paragraphs so spacing survives
// a round trip through plain text.
func WriteDocx(paragraphs []string) ([]byte, error) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	parts := map[string]string{
		"[Content_Types].xml":          docxContentTypesXML,
		"_rels/.rels":                  docxRootRelsXML,
		"word/document.xml":            documentXML(paragraphs),
		"word/_rels/document.xml.rels": docxDocumentRelsXML,
	}
	for name, content := range parts {
		w, err := zw.Create(name)
		if err != nil {
			return nil, fmt.Errorf("create %s: %w", name, err)
		}
		if _, err := w.Write([]byte(content)); err != nil {
			return nil, fmt.Errorf("write %s: %w", name, err)
		}
	}

	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("finalize docx: %w", err)
	}
	return buf.Bytes(), nil
}

func documentXML(paragraphs []string) string {
	var sb strings.Builder
	sb.WriteString(xml.Header)
	sb.WriteString(`<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>`)
	for _, p := range paragraphs {
		if p == "" {
			sb.WriteString(`<w:p/>`)
			continue
		}
		var escaped bytes.Buffer
		_ = xml.EscapeText(&escaped, []byte(p))
		fmt.Fprintf(&sb, `<w:p><w:r><w:t xml:space="preserve">%s</w:t></w:r></w:p>`, escaped.String())
	}
	sb.WriteString(`<w:sectPr><w:pgSz w:w="12240" w:h="15840"/></w:sectPr>`)
	sb.WriteString(`</w:body></w:document>`)
	return sb.String()
}

const docxContentTypesXML = xml.Header + `<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types"><Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/><Default Extension="xml" ContentType="application/xml"/><Override PartName="/word/document.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"/></Types>`

const docxRootRelsXML = xml.Header + `<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships"><Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument" Target="word/document.xml"/></Relationships>`

const docxDocumentRelsXML = xml.Header + `<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships"></Relationships>`
