package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/docforge/docforge/internal/config"
	"github.com/docforge/docforge/internal/descriptions"
	"github.com/docforge/docforge/internal/pipeline"
)

const shutdownTimeout = 10 * time.Second

// Server represents the MCP server instance
type Server struct {
	config    *config.Config
	pipeline  *pipeline.Service
	mcpServer *server.MCPServer
}

// NewServer creates a new MCP server instance
func NewServer(cfg *config.Config, svc *pipeline.Service) (*Server, error) {
	if svc == nil {
		return nil, fmt.Errorf("pipeline service cannot be nil")
	}

	mcpServer := server.NewMCPServer(
		cfg.ServerName,
		cfg.Version,
		server.WithToolCapabilities(false), // We don't support dynamic tool capabilities
	)

	s := &Server{
		config:    cfg,
		pipeline:  svc,
		mcpServer: mcpServer,
	}

	s.registerTools()

	return s, nil
}

// registerTools registers all available MCP tools
func (s *Server) registerTools() {
	addTool := func(tool mcp.Tool, handler server.ToolHandlerFunc) {
		s.mcpServer.AddTool(tool, handler)
	}

	addTool(mcp.NewTool("pdf_merge",
		mcp.WithDescription(descriptions.GetToolDescription("pdf_merge")),
		mcp.WithString("paths", mcp.Required(),
			mcp.Description("Comma-separated paths of the PDF files to merge, in output order")),
		mcp.WithString("passwords",
			mcp.Description("Optional comma-separated passwords, parallel to paths")),
	), s.handleMerge)

	addTool(mcp.NewTool("pdf_split_range",
		mcp.WithDescription(descriptions.GetToolDescription("pdf_split_range")),
		mcp.WithString("path", mcp.Required(), mcp.Description("Path to the PDF file")),
		mcp.WithString("pages", mcp.Required(),
			mcp.Description("Page-range expression, e.g. \"1,3,5-9\" (1-indexed, inclusive)")),
		mcp.WithString("password", mcp.Description("Password if the file is protected")),
	), s.handleSplitRange)

	addTool(mcp.NewTool("pdf_extract_pages",
		mcp.WithDescription(descriptions.GetToolDescription("pdf_extract_pages")),
		mcp.WithString("path", mcp.Required(), mcp.Description("Path to the PDF file")),
		mcp.WithString("password", mcp.Description("Password if the file is protected")),
	), s.handleExtractPages)

	addTool(mcp.NewTool("pdf_compress",
		mcp.WithDescription(descriptions.GetToolDescription("pdf_compress")),
		mcp.WithString("path", mcp.Required(), mcp.Description("Path to the PDF file")),
		mcp.WithString("password", mcp.Description("Password if the file is protected")),
	), s.handleCompress)

	addTool(mcp.NewTool("pdf_protect",
		mcp.WithDescription(descriptions.GetToolDescription("pdf_protect")),
		mcp.WithString("path", mcp.Required(), mcp.Description("Path to the PDF file")),
		mcp.WithString("password", mcp.Required(), mcp.Description("Password to set")),
	), s.handleProtect)

	addTool(mcp.NewTool("pdf_unlock",
		mcp.WithDescription(descriptions.GetToolDescription("pdf_unlock")),
		mcp.WithString("path", mcp.Required(), mcp.Description("Path to the PDF file")),
		mcp.WithString("password", mcp.Required(), mcp.Description("Current password")),
	), s.handleUnlock)

	addTool(mcp.NewTool("pdf_add_page_numbers",
		mcp.WithDescription(descriptions.GetToolDescription("pdf_add_page_numbers")),
		mcp.WithString("path", mcp.Required(), mcp.Description("Path to the PDF file")),
		mcp.WithString("format",
			mcp.Description("Number format: \"1\", \"Page 1\", \"1 of n\" or \"Page 1 of n\"")),
		mcp.WithString("position",
			mcp.Description("Anchor position, e.g. bottom-center (default), top-right")),
		mcp.WithString("pages", mcp.Description("Range expression of pages to number, empty for all")),
		mcp.WithNumber("start_number", mcp.Description("First number to stamp, default 1")),
		mcp.WithNumber("font_size", mcp.Description("Font size in points, default 12")),
		mcp.WithNumber("margin", mcp.Description("Margin in points, default 36")),
		mcp.WithString("password", mcp.Description("Password if the file is protected")),
	), s.handleAddPageNumbers)

	addTool(mcp.NewTool("pdf_add_watermark",
		mcp.WithDescription(descriptions.GetToolDescription("pdf_add_watermark")),
		mcp.WithString("path", mcp.Required(), mcp.Description("Path to the PDF file")),
		mcp.WithString("text", mcp.Description("Watermark text (this or image_path is required)")),
		mcp.WithString("image_path", mcp.Description("Path to a PNG or JPEG watermark image")),
		mcp.WithString("position",
			mcp.Description("Anchor position or \"tile\" to cover the whole page, default center")),
		mcp.WithNumber("opacity", mcp.Description("Opacity 0-1, default 0.3")),
		mcp.WithNumber("rotation", mcp.Description("Rotation in degrees, default -45")),
		mcp.WithNumber("font_size", mcp.Description("Text size in points, default 48")),
		mcp.WithNumber("image_scale", mcp.Description("Image scale factor, default 1")),
		mcp.WithString("password", mcp.Description("Password if the file is protected")),
	), s.handleAddWatermark)

	addTool(mcp.NewTool("pdf_edit",
		mcp.WithDescription(descriptions.GetToolDescription("pdf_edit")),
		mcp.WithString("path", mcp.Required(), mcp.Description("Path to the PDF file")),
		mcp.WithString("elements", mcp.Required(),
			mcp.Description(`JSON array of placements: [{"page":1,"kind":"text","x":100,"y":200,`+
				`"width":120,"height":20,"text":"Approved","font_size":14}]. Kinds: text, image, signature; `+
				`image and signature take "image_path". Coordinates are preview pixels, top-left origin.`)),
		mcp.WithNumber("render_scale", mcp.Description("Preview scale the coordinates were taken at, default 1")),
		mcp.WithString("password", mcp.Description("Password if the file is protected")),
	), s.handleEdit)

	addTool(mcp.NewTool("images_to_pdf",
		mcp.WithDescription(descriptions.GetToolDescription("images_to_pdf")),
		mcp.WithString("paths", mcp.Required(),
			mcp.Description("Comma-separated paths of JPEG/PNG images, in page order")),
	), s.handleImagesToPDF)

	addTool(mcp.NewTool("pdf_to_images",
		mcp.WithDescription(descriptions.GetToolDescription("pdf_to_images")),
		mcp.WithString("path", mcp.Required(), mcp.Description("Path to the PDF file")),
		mcp.WithString("format", mcp.Description("Image format: png (default) or jpeg")),
		mcp.WithString("password", mcp.Description("Password if the file is protected")),
	), s.handlePDFToImages)

	addTool(mcp.NewTool("pdf_extract_text",
		mcp.WithDescription(descriptions.GetToolDescription("pdf_extract_text")),
		mcp.WithString("path", mcp.Required(), mcp.Description("Path to the PDF file")),
		mcp.WithString("password", mcp.Description("Password if the file is protected")),
	), s.handleExtractText)

	addTool(mcp.NewTool("tabular_convert",
		mcp.WithDescription(descriptions.GetToolDescription("tabular_convert")),
		mcp.WithString("path", mcp.Required(), mcp.Description("Path to the CSV/JSON/XML/XLSX file")),
		mcp.WithString("target", mcp.Required(), mcp.Description("Target format: csv, json, xml or xlsx")),
	), s.handleTabularConvert)

	addTool(mcp.NewTool("tabular_split_rows",
		mcp.WithDescription(descriptions.GetToolDescription("tabular_split_rows")),
		mcp.WithString("path", mcp.Required(), mcp.Description("Path to the tabular file")),
		mcp.WithNumber("rows", mcp.Required(), mcp.Description("Data rows per chunk (header excluded)")),
	), s.handleTabularSplitRows)

	addTool(mcp.NewTool("workbook_split_sheets",
		mcp.WithDescription(descriptions.GetToolDescription("workbook_split_sheets")),
		mcp.WithString("path", mcp.Required(), mcp.Description("Path to the XLSX workbook")),
	), s.handleWorkbookSplitSheets)

	addTool(mcp.NewTool("json_to_xml",
		mcp.WithDescription(descriptions.GetToolDescription("json_to_xml")),
		mcp.WithString("path", mcp.Required(), mcp.Description("Path to the JSON file")),
	), s.handleJSONToXML)

	addTool(mcp.NewTool("xml_to_json",
		mcp.WithDescription(descriptions.GetToolDescription("xml_to_json")),
		mcp.WithString("path", mcp.Required(), mcp.Description("Path to the XML file")),
	), s.handleXMLToJSON)

	addTool(mcp.NewTool("tabular_to_pdf",
		mcp.WithDescription(descriptions.GetToolDescription("tabular_to_pdf")),
		mcp.WithString("path", mcp.Required(), mcp.Description("Path to the CSV/JSON/XML/XLSX file")),
	), s.handleTabularToPDF)

	addTool(mcp.NewTool("pptx_to_pdf",
		mcp.WithDescription(descriptions.GetToolDescription("pptx_to_pdf")),
		mcp.WithString("path", mcp.Required(), mcp.Description("Path to the PPTX file")),
	), s.handlePPTXToPDF)

	addTool(mcp.NewTool("docx_to_pdf",
		mcp.WithDescription(descriptions.GetToolDescription("docx_to_pdf")),
		mcp.WithString("path", mcp.Required(), mcp.Description("Path to the DOCX file")),
	), s.handleDOCXToPDF)

	addTool(mcp.NewTool("pdf_to_docx",
		mcp.WithDescription(descriptions.GetToolDescription("pdf_to_docx")),
		mcp.WithString("path", mcp.Required(), mcp.Description("Path to the PDF file")),
		mcp.WithString("password", mcp.Description("Password if the file is protected")),
	), s.handlePDFToDOCX)

	addTool(mcp.NewTool("pdf_to_pptx",
		mcp.WithDescription(descriptions.GetToolDescription("pdf_to_pptx")),
		mcp.WithString("path", mcp.Required(), mcp.Description("Path to the PDF file")),
		mcp.WithString("password", mcp.Description("Password if the file is protected")),
	), s.handlePDFToPPTX)

	addTool(mcp.NewTool("pdf_extract_tables",
		mcp.WithDescription(descriptions.GetToolDescription("pdf_extract_tables")),
		mcp.WithString("path", mcp.Required(), mcp.Description("Path to the PDF file")),
		mcp.WithString("password", mcp.Description("Password if the file is protected")),
	), s.handleExtractTables)

	addTool(mcp.NewTool("msg_to_pdf",
		mcp.WithDescription(descriptions.GetToolDescription("msg_to_pdf")),
		mcp.WithString("path", mcp.Required(), mcp.Description("Path to the .msg file")),
	), s.handleMSGToPDF)

	addTool(mcp.NewTool("pdf_remove_watermark",
		mcp.WithDescription(descriptions.GetToolDescription("pdf_remove_watermark")),
		mcp.WithString("path", mcp.Required(), mcp.Description("Path to the PDF file")),
		mcp.WithString("password", mcp.Description("Password if the file is protected")),
	), s.handleRemoveWatermark)

	addTool(mcp.NewTool("server_info",
		mcp.WithDescription(descriptions.GetToolDescription("server_info")),
	), s.handleServerInfo)
}

// resolvePath expands a possibly relative path against the work
// directory.
func (s *Server) resolvePath(path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(s.config.WorkDirectory, path)
}

// readInput loads one input file.
func (s *Server) readInput(path string) (pipeline.File, error) {
	full := s.resolvePath(path)
	data, err := os.ReadFile(full)
	if err != nil {
		return pipeline.File{}, fmt.Errorf("read input %s: %w", full, err)
	}
	return pipeline.File{Name: filepath.Base(full), Data: data}, nil
}

// writeResult stores an operation's artifact in the work directory
// and returns its full path.
func (s *Server) writeResult(res *pipeline.Result) (string, error) {
	full := filepath.Join(s.config.WorkDirectory, res.Name)
	if err := os.WriteFile(full, res.Data, 0o644); err != nil {
		return "", fmt.Errorf("write result %s: %w", full, err)
	}
	return full, nil
}

// resultText is the uniform success response: where the artifact went
// and how big it is.
func (s *Server) resultText(res *pipeline.Result) (*mcp.CallToolResult, error) {
	full, err := s.writeResult(res)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	text := fmt.Sprintf("Created: %s\nType: %s\nSize: %d bytes", full, res.MIME, len(res.Data))
	return mcp.NewToolResultText(text), nil
}

func getString(args map[string]any, key string) string {
	if v, ok := args[key].(string); ok {
		return v
	}
	return ""
}

func getFloat(args map[string]any, key string) float64 {
	if v, ok := args[key].(float64); ok {
		return v
	}
	return 0
}

func splitList(csv string) []string {
	parts := strings.Split(csv, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Handler functions

func (s *Server) handleMerge(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	paths, err := request.RequireString("paths")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	args := request.GetArguments()
	passwords := splitList(getString(args, "passwords"))

	var files []pipeline.File
	for _, p := range splitList(paths) {
		f, err := s.readInput(p)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		files = append(files, f)
	}

	res, err := s.pipeline.MergePDFs(pipeline.MergeRequest{Files: files, Passwords: passwords})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return s.resultText(res)
}

func (s *Server) handleSplitRange(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := request.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	pages, err := request.RequireString("pages")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	file, err := s.readInput(path)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	res, err := s.pipeline.SplitPDFRange(pipeline.SplitRangeRequest{
		File:     file,
		Password: getString(request.GetArguments(), "password"),
		Pages:    pages,
	})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return s.resultText(res)
}

func (s *Server) handleExtractPages(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	file, password, errResult := s.fileAndPassword(request)
	if errResult != nil {
		return errResult, nil
	}

	res, err := s.pipeline.ExtractAllPages(pipeline.ExtractPagesRequest{File: file, Password: password})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return s.resultText(res)
}

func (s *Server) handleCompress(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	file, password, errResult := s.fileAndPassword(request)
	if errResult != nil {
		return errResult, nil
	}

	res, err := s.pipeline.CompressPDF(pipeline.CompressRequest{File: file, Password: password})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return s.resultText(res)
}

func (s *Server) handleProtect(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	file, password, errResult := s.fileAndPassword(request)
	if errResult != nil {
		return errResult, nil
	}

	res, err := s.pipeline.ProtectPDF(pipeline.ProtectRequest{File: file, Password: password})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return s.resultText(res)
}

func (s *Server) handleUnlock(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	file, password, errResult := s.fileAndPassword(request)
	if errResult != nil {
		return errResult, nil
	}

	res, err := s.pipeline.UnlockPDF(pipeline.UnlockRequest{File: file, Password: password})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return s.resultText(res)
}

func (s *Server) handleAddPageNumbers(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	file, password, errResult := s.fileAndPassword(request)
	if errResult != nil {
		return errResult, nil
	}
	args := request.GetArguments()

	res, err := s.pipeline.AddPageNumbers(pipeline.PageNumbersRequest{
		File:        file,
		Password:    password,
		Format:      getString(args, "format"),
		Position:    getString(args, "position"),
		Pages:       getString(args, "pages"),
		StartNumber: int(getFloat(args, "start_number")),
		FontSizePt:  getFloat(args, "font_size"),
		MarginPt:    getFloat(args, "margin"),
	})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return s.resultText(res)
}

func (s *Server) handleAddWatermark(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	file, password, errResult := s.fileAndPassword(request)
	if errResult != nil {
		return errResult, nil
	}
	args := request.GetArguments()

	var image []byte
	if imagePath := getString(args, "image_path"); imagePath != "" {
		img, err := s.readInput(imagePath)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		image = img.Data
	}

	res, err := s.pipeline.WatermarkPDF(pipeline.WatermarkRequest{
		File:        file,
		Password:    password,
		Text:        getString(args, "text"),
		Image:       image,
		ImageScale:  getFloat(args, "image_scale"),
		Position:    getString(args, "position"),
		FontSizePt:  getFloat(args, "font_size"),
		Opacity:     getFloat(args, "opacity"),
		RotationDeg: getFloat(args, "rotation"),
	})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return s.resultText(res)
}

// placementSpec is the wire shape of one pdf_edit element.
type placementSpec struct {
	Page      int     `json:"page"`
	Kind      string  `json:"kind"`
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
	Width     float64 `json:"width"`
	Height    float64 `json:"height"`
	Text      string  `json:"text"`
	FontSize  float64 `json:"font_size"`
	Gray      int     `json:"gray"`
	ImagePath string  `json:"image_path"`
}

func (s *Server) handleEdit(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	file, password, errResult := s.fileAndPassword(request)
	if errResult != nil {
		return errResult, nil
	}
	args := request.GetArguments()

	elementsJSON, err := request.RequireString("elements")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	var specs []placementSpec
	if err := json.Unmarshal([]byte(elementsJSON), &specs); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("parse elements: %v", err)), nil
	}

	placements := make([]pipeline.Placement, 0, len(specs))
	for _, spec := range specs {
		var image []byte
		if spec.ImagePath != "" {
			img, err := s.readInput(spec.ImagePath)
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}
			image = img.Data
		}
		placements = append(placements, pipeline.Placement{
			Page:       spec.Page,
			Kind:       spec.Kind,
			X:          spec.X,
			Y:          spec.Y,
			Width:      spec.Width,
			Height:     spec.Height,
			Text:       spec.Text,
			FontSizePx: spec.FontSize,
			Gray:       spec.Gray,
			Image:      image,
		})
	}

	res, err := s.pipeline.EditPDF(pipeline.EditRequest{
		File:        file,
		Password:    password,
		RenderScale: getFloat(args, "render_scale"),
		Placements:  placements,
	})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return s.resultText(res)
}

func (s *Server) handleImagesToPDF(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	paths, err := request.RequireString("paths")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var files []pipeline.File
	for _, p := range splitList(paths) {
		f, err := s.readInput(p)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		files = append(files, f)
	}

	res, err := s.pipeline.ImagesToPDF(pipeline.ImagesToPDFRequest{Files: files})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return s.resultText(res)
}

func (s *Server) handlePDFToImages(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	file, password, errResult := s.fileAndPassword(request)
	if errResult != nil {
		return errResult, nil
	}

	res, err := s.pipeline.PDFToImages(pipeline.PDFToImagesRequest{
		File:     file,
		Password: password,
		Format:   getString(request.GetArguments(), "format"),
	})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return s.resultText(res)
}

func (s *Server) handleExtractText(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	file, password, errResult := s.fileAndPassword(request)
	if errResult != nil {
		return errResult, nil
	}

	res, err := s.pipeline.ExtractPDFText(pipeline.TextRequest{File: file, Password: password})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	// Text is returned inline as well as written out, since the caller
	// usually wants to read it.
	full, err := s.writeResult(res)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	text := fmt.Sprintf("Created: %s\n\n%s", full, string(res.Data))
	return mcp.NewToolResultText(text), nil
}

func (s *Server) handleTabularConvert(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := request.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	target, err := request.RequireString("target")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	file, err := s.readInput(path)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	res, err := s.pipeline.ConvertTabular(pipeline.ConvertRequest{File: file, TargetFormat: target})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return s.resultText(res)
}

func (s *Server) handleTabularSplitRows(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := request.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	file, err := s.readInput(path)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	res, err := s.pipeline.SplitTabularRows(pipeline.SplitRowsRequest{
		File:         file,
		RowsPerChunk: int(getFloat(request.GetArguments(), "rows")),
	})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return s.resultText(res)
}

func (s *Server) handleWorkbookSplitSheets(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	file, errResult := s.singleFile(request)
	if errResult != nil {
		return errResult, nil
	}

	res, err := s.pipeline.SplitWorkbook(pipeline.SplitWorkbookRequest{File: file})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return s.resultText(res)
}

func (s *Server) handleJSONToXML(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	file, errResult := s.singleFile(request)
	if errResult != nil {
		return errResult, nil
	}

	res, err := s.pipeline.ConvertJSONToXML(pipeline.DocumentRequest{File: file})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return s.resultText(res)
}

func (s *Server) handleXMLToJSON(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	file, errResult := s.singleFile(request)
	if errResult != nil {
		return errResult, nil
	}

	res, err := s.pipeline.ConvertXMLToJSON(pipeline.DocumentRequest{File: file})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return s.resultText(res)
}

func (s *Server) handleTabularToPDF(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	file, errResult := s.singleFile(request)
	if errResult != nil {
		return errResult, nil
	}

	res, err := s.pipeline.TabularToPDF(ctx, pipeline.DocumentRequest{File: file})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return s.resultText(res)
}

func (s *Server) handlePPTXToPDF(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	file, errResult := s.singleFile(request)
	if errResult != nil {
		return errResult, nil
	}

	res, err := s.pipeline.PresentationToPDF(ctx, pipeline.DocumentRequest{File: file})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return s.resultText(res)
}

func (s *Server) handleDOCXToPDF(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	file, errResult := s.singleFile(request)
	if errResult != nil {
		return errResult, nil
	}

	res, err := s.pipeline.WordToPDF(ctx, pipeline.DocumentRequest{File: file})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return s.resultText(res)
}

func (s *Server) handlePDFToDOCX(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	file, password, errResult := s.fileAndPassword(request)
	if errResult != nil {
		return errResult, nil
	}

	res, err := s.pipeline.PDFToWord(pipeline.DocumentRequest{File: file, Password: password})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return s.resultText(res)
}

func (s *Server) handlePDFToPPTX(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	file, password, errResult := s.fileAndPassword(request)
	if errResult != nil {
		return errResult, nil
	}

	res, err := s.pipeline.PDFToPresentation(ctx, pipeline.DocumentRequest{File: file, Password: password})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return s.resultText(res)
}

func (s *Server) handleExtractTables(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	file, password, errResult := s.fileAndPassword(request)
	if errResult != nil {
		return errResult, nil
	}

	res, err := s.pipeline.ExtractPDFTables(ctx, pipeline.DocumentRequest{File: file, Password: password})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return s.resultText(res)
}

func (s *Server) handleMSGToPDF(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	file, errResult := s.singleFile(request)
	if errResult != nil {
		return errResult, nil
	}

	res, err := s.pipeline.OutlookToPDF(ctx, pipeline.DocumentRequest{File: file})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return s.resultText(res)
}

func (s *Server) handleRemoveWatermark(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	file, password, errResult := s.fileAndPassword(request)
	if errResult != nil {
		return errResult, nil
	}

	res, err := s.pipeline.RemoveWatermark(ctx, pipeline.DocumentRequest{File: file, Password: password})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return s.resultText(res)
}

func (s *Server) handleServerInfo(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	text := fmt.Sprintf("%s v%s - Server Information\n", s.config.ServerName, s.config.Version)
	text += fmt.Sprintf("Work directory: %s\n", s.config.WorkDirectory)
	text += fmt.Sprintf("Max file size: %d MB\n", s.config.MaxFileSize/(1024*1024))
	text += fmt.Sprintf("AI-backed tools available: %t\n", s.pipeline.HasAI())
	text += fmt.Sprintf("Browser-backed tools available: %t\n", s.pipeline.HasPrinter())

	names := descriptions.GetAllToolNames()
	sort.Strings(names)
	text += "\nAvailable tools:\n"
	for _, name := range names {
		text += fmt.Sprintf("  • %s\n", name)
	}

	text += "\nInputs are resolved against the work directory; results are written there too."
	return mcp.NewToolResultText(text), nil
}

// fileAndPassword reads the required "path" input and the optional
// "password" argument.
func (s *Server) fileAndPassword(request mcp.CallToolRequest) (pipeline.File, string, *mcp.CallToolResult) {
	path, err := request.RequireString("path")
	if err != nil {
		return pipeline.File{}, "", mcp.NewToolResultError(err.Error())
	}
	file, err := s.readInput(path)
	if err != nil {
		return pipeline.File{}, "", mcp.NewToolResultError(err.Error())
	}
	return file, getString(request.GetArguments(), "password"), nil
}

func (s *Server) singleFile(request mcp.CallToolRequest) (pipeline.File, *mcp.CallToolResult) {
	file, _, errResult := s.fileAndPassword(request)
	return file, errResult
}

// Run starts the MCP server in the configured mode
func (s *Server) Run(ctx context.Context) error {
	if s.config.IsServerMode() {
		return s.runServerMode(ctx)
	}
	return s.runStdioMode(ctx)
}

// runStdioMode runs the server in stdio mode
func (s *Server) runStdioMode(_ context.Context) error {
	if s.config.IsDebug() {
		log.Printf("Starting document tools server in stdio mode")
		log.Printf("Work directory: %s", s.config.WorkDirectory)
	}

	if err := server.ServeStdio(s.mcpServer); err != nil {
		return fmt.Errorf("failed to serve stdio: %w", err)
	}
	return nil
}

// runServerMode runs the server over SSE on the configured address,
// shutting down when the context is cancelled.
func (s *Server) runServerMode(ctx context.Context) error {
	sse := server.NewSSEServer(s.mcpServer)

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := sse.Shutdown(shutdownCtx); err != nil {
			log.Printf("shutdown: %v", err)
		}
	}()

	log.Printf("Starting document tools server on %s", s.config.Address())
	if err := sse.Start(s.config.Address()); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to serve: %w", err)
	}
	return nil
}
