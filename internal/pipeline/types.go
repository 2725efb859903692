package pipeline

// File is one uploaded input: the original filename plus its bytes.
type File struct {
	Name string
	Data []byte
}

// Result is the single downloadable artifact an operation produces.
// Multi-output operations bundle their artifacts into one zip Result.
type Result struct {
	Name string
	MIME string
	Data []byte
}

// MergeRequest merges two or more page documents in listed order.
type MergeRequest struct {
	Files     []File
	Passwords []string // optional, parallel to Files
}

// SplitRangeRequest extracts the pages named by a range expression.
type SplitRangeRequest struct {
	File     File
	Password string
	Pages    string
}

// ExtractPagesRequest splits a document into one file per page.
type ExtractPagesRequest struct {
	File     File
	Password string
}

// CompressRequest re-encodes every page as a lossy raster image.
type CompressRequest struct {
	File     File
	Password string
}

// ProtectRequest sets a password on an unprotected document.
type ProtectRequest struct {
	File     File
	Password string
}

// UnlockRequest removes the password from a protected document.
type UnlockRequest struct {
	File     File
	Password string
}

// PageNumbersRequest stamps formatted page numbers onto a document.
type PageNumbersRequest struct {
	File        File
	Password    string
	Format      string // "1", "Page 1", "1 of n", "Page 1 of n"
	Position    string // anchor name, default bottom-center
	MarginPt    float64
	FontSizePt  float64
	StartNumber int
	Pages       string // range expression, empty for all pages
}

// WatermarkRequest stamps a uniform text or image watermark.
type WatermarkRequest struct {
	File        File
	Password    string
	Text        string
	Image       []byte
	ImageScale  float64
	Position    string // anchor name or "tile"
	FontSizePt  float64
	Gray        int
	Opacity     float64
	RotationDeg float64
}

// ImagesToPDFRequest stacks images into a one-page-per-image document.
type ImagesToPDFRequest struct {
	Files []File
}

// PDFToImagesRequest renders every page as a raster image.
type PDFToImagesRequest struct {
	File     File
	Password string
	Format   string // "png" or "jpeg"
}

// TextRequest extracts the selectable text of a document.
type TextRequest struct {
	File     File
	Password string
}

// ConvertRequest round-trips tabular data between formats.
type ConvertRequest struct {
	File         File
	TargetFormat string // "csv", "json", "xml" or "xlsx"
}

// SplitRowsRequest chunks a tabular file into fixed-size parts.
type SplitRowsRequest struct {
	File         File
	RowsPerChunk int
}

// SplitWorkbookRequest splits a workbook into one file per sheet.
type SplitWorkbookRequest struct {
	File File
}

// DocumentRequest is the common shape of single-file conversions.
type DocumentRequest struct {
	File     File
	Password string
}

// Placement is one element positioned on a rasterized page preview,
// in the preview's pixel space with the origin at the top left.
type Placement struct {
	Page   int    // 1-based
	Kind   string // "text", "image" or "signature"
	X      float64
	Y      float64
	Width  float64
	Height float64

	Text       string
	FontSizePx float64
	Gray       int

	Image []byte
}

// EditRequest commits placed elements onto a document. RenderScale is
// the raster scale the placements were made against.
type EditRequest struct {
	File        File
	Password    string
	RenderScale float64
	Placements  []Placement
}
