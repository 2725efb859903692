// Package codec identifies supported document formats and resolves them
// from file names and MIME types. Each conversion tool constrains its
// inputs through the allow-lists defined here.
package codec

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Format identifies one supported file format.
type Format string

const (
	FormatPDF  Format = "pdf"
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
	FormatXML  Format = "xml"
	FormatXLSX Format = "xlsx"
	FormatPPTX Format = "pptx"
	FormatDOCX Format = "docx"
	FormatMSG  Format = "msg"
	FormatJPEG Format = "jpeg"
	FormatPNG  Format = "png"
	FormatZIP  Format = "zip"
	FormatText Format = "txt"
)

var extensionToFormat = map[string]Format{
	".pdf":  FormatPDF,
	".csv":  FormatCSV,
	".json": FormatJSON,
	".xml":  FormatXML,
	".xlsx": FormatXLSX,
	".pptx": FormatPPTX,
	".docx": FormatDOCX,
	".msg":  FormatMSG,
	".jpg":  FormatJPEG,
	".jpeg": FormatJPEG,
	".png":  FormatPNG,
	".zip":  FormatZIP,
	".txt":  FormatText,
}

var mimeToFormat = map[string]Format{
	"application/pdf": FormatPDF,
	"text/csv":        FormatCSV,
	"application/json": FormatJSON,
	"application/xml": FormatXML,
	"text/xml":        FormatXML,
	"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet":         FormatXLSX,
	"application/vnd.openxmlformats-officedocument.presentationml.presentation": FormatPPTX,
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document":   FormatDOCX,
	"application/vnd.ms-outlook": FormatMSG,
	"image/jpeg":                 FormatJPEG,
	"image/png":                  FormatPNG,
	"application/zip":            FormatZIP,
	"text/plain":                 FormatText,
}

// FromFilename resolves a format from a file name's extension.
func FromFilename(name string) (Format, error) {
	ext := strings.ToLower(filepath.Ext(name))
	f, ok := extensionToFormat[ext]
	if !ok {
		return "", fmt.Errorf("unsupported file extension %q", ext)
	}
	return f, nil
}

// FromMIME resolves a format from a MIME type.
func FromMIME(mime string) (Format, error) {
	f, ok := mimeToFormat[strings.ToLower(strings.TrimSpace(mime))]
	if !ok {
		return "", fmt.Errorf("unsupported MIME type %q", mime)
	}
	return f, nil
}

// MIME returns the canonical MIME type for a format.
func (f Format) MIME() string {
	switch f {
	case FormatPDF:
		return "application/pdf"
	case FormatCSV:
		return "text/csv"
	case FormatJSON:
		return "application/json"
	case FormatXML:
		return "application/xml"
	case FormatXLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	case FormatPPTX:
		return "application/vnd.openxmlformats-officedocument.presentationml.presentation"
	case FormatDOCX:
		return "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	case FormatMSG:
		return "application/vnd.ms-outlook"
	case FormatJPEG:
		return "image/jpeg"
	case FormatPNG:
		return "image/png"
	case FormatZIP:
		return "application/zip"
	case FormatText:
		return "text/plain"
	default:
		return "application/octet-stream"
	}
}

// Extension returns the canonical file extension, dot included.
func (f Format) Extension() string {
	if f == FormatJPEG {
		return ".jpg"
	}
	return "." + string(f)
}

// Tabular reports whether the format participates in dataset round-trips.
func (f Format) Tabular() bool {
	switch f {
	case FormatCSV, FormatJSON, FormatXML, FormatXLSX:
		return true
	default:
		return false
	}
}
