package mcp

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/docforge/docforge/internal/config"
	"github.com/docforge/docforge/internal/pagedoc"
	"github.com/docforge/docforge/internal/pipeline"
)

// newTestServer builds a server whose work directory is a fresh temp
// dir. The returned dir holds both inputs and results.
func newTestServer(t *testing.T) (*Server, string) {
	t.Helper()

	tempDir := t.TempDir()
	cfg := &config.Config{
		Mode:          "stdio",
		Host:          "127.0.0.1",
		Port:          8080,
		WorkDirectory: tempDir,
		Version:       "1.0.0",
		ServerName:    "test-server",
		LogLevel:      "info",
		MaxFileSize:   100 * 1024 * 1024,
	}

	svc := pipeline.NewService(cfg.MaxFileSize, nil, nil)
	server, err := NewServer(cfg, svc)
	if err != nil {
		t.Fatalf("failed to create server: %v", err)
	}
	return server, tempDir
}

// writePDF composes an n-page document and stores it under the work
// directory.
func writePDF(t *testing.T, dir, name string, pages int) {
	t.Helper()

	c := pagedoc.NewComposer()
	defer c.Close()
	for p := 1; p <= pages; p++ {
		c.AddBlankPage(612, 792)
		if err := c.DrawText(fmt.Sprintf("page %d", p), 72, 720, pagedoc.TextStyle{SizePt: 14}); err != nil {
			t.Fatalf("failed to draw text: %v", err)
		}
	}
	data, err := c.Bytes()
	if err != nil {
		t.Fatalf("failed to compose fixture: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, name), data, 0o644); err != nil {
		t.Fatalf("failed to write fixture: %v", err)
	}
}

func callRequest(args map[string]any) mcp.CallToolRequest {
	return mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Arguments: args,
		},
	}
}

func TestNewServer(t *testing.T) {
	tempDir := t.TempDir()

	tests := []struct {
		name        string
		config      *config.Config
		service     *pipeline.Service
		expectError bool
	}{
		{
			name: "valid stdio mode config",
			config: &config.Config{
				Mode:          "stdio",
				Host:          "127.0.0.1",
				Port:          8080,
				WorkDirectory: tempDir,
				Version:       "1.0.0",
				ServerName:    "test-server",
				LogLevel:      "info",
				MaxFileSize:   1024 * 1024,
			},
			service:     pipeline.NewService(1024*1024, nil, nil),
			expectError: false,
		},
		{
			name: "valid server mode config",
			config: &config.Config{
				Mode:          "server",
				Host:          "127.0.0.1",
				Port:          8080,
				WorkDirectory: tempDir,
				Version:       "1.0.0",
				ServerName:    "test-server",
				LogLevel:      "info",
				MaxFileSize:   1024 * 1024,
			},
			service:     pipeline.NewService(1024*1024, nil, nil),
			expectError: false,
		},
		{
			name: "nil pipeline service",
			config: &config.Config{
				Mode:          "stdio",
				WorkDirectory: tempDir,
			},
			service:     nil,
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server, err := NewServer(tt.config, tt.service)
			if tt.expectError {
				if err == nil {
					t.Error("expected error but got none")
				}
				return
			}
			if err != nil {
				t.Errorf("unexpected error: %v", err)
			}
			if server == nil {
				t.Error("server should not be nil")
			}
		})
	}
}

func TestServer_HandleMerge(t *testing.T) {
	server, tempDir := newTestServer(t)
	writePDF(t, tempDir, "a.pdf", 2)
	writePDF(t, tempDir, "b.pdf", 3)

	request := callRequest(map[string]any{
		"paths": "a.pdf, b.pdf",
	})

	result, err := server.handleMerge(context.Background(), request)
	if err != nil {
		t.Fatalf("handler failed: %v", err)
	}

	resultText := extractTextFromResult(result)
	if !strings.Contains(resultText, "Created:") {
		t.Fatalf("expected a created artifact, got: %s", resultText)
	}

	matches, err := filepath.Glob(filepath.Join(tempDir, "merged-*.pdf"))
	if err != nil || len(matches) != 1 {
		t.Fatalf("expected one merged output, got %v (%v)", matches, err)
	}

	doc, err := pagedoc.Load(filepath.Base(matches[0]), readFile(t, matches[0]), "")
	if err != nil {
		t.Fatalf("output should be a readable PDF: %v", err)
	}
	if doc.PageCount() != 5 {
		t.Errorf("merged page count = %d, want 5", doc.PageCount())
	}
}

func TestServer_HandleSplitRange(t *testing.T) {
	server, tempDir := newTestServer(t)
	writePDF(t, tempDir, "report.pdf", 4)

	request := callRequest(map[string]any{
		"path":  "report.pdf",
		"pages": "2-3",
	})

	result, err := server.handleSplitRange(context.Background(), request)
	if err != nil {
		t.Fatalf("handler failed: %v", err)
	}
	if result.IsError {
		t.Fatalf("unexpected tool error: %s", extractTextFromResult(result))
	}

	out := filepath.Join(tempDir, "split-report.pdf")
	doc, err := pagedoc.Load(filepath.Base(out), readFile(t, out), "")
	if err != nil {
		t.Fatalf("output should be a readable PDF: %v", err)
	}
	if doc.PageCount() != 2 {
		t.Errorf("split page count = %d, want 2", doc.PageCount())
	}
}

func TestServer_HandleProtectUnlock(t *testing.T) {
	server, tempDir := newTestServer(t)
	writePDF(t, tempDir, "secret.pdf", 1)

	protectReq := callRequest(map[string]any{
		"path":     "secret.pdf",
		"password": "hunter2",
	})
	result, err := server.handleProtect(context.Background(), protectReq)
	if err != nil {
		t.Fatalf("protect handler failed: %v", err)
	}
	if result.IsError {
		t.Fatalf("unexpected tool error: %s", extractTextFromResult(result))
	}

	unlockReq := callRequest(map[string]any{
		"path":     "protected-secret.pdf",
		"password": "hunter2",
	})
	result, err = server.handleUnlock(context.Background(), unlockReq)
	if err != nil {
		t.Fatalf("unlock handler failed: %v", err)
	}
	if result.IsError {
		t.Fatalf("unexpected tool error: %s", extractTextFromResult(result))
	}

	out := filepath.Join(tempDir, "unlocked-protected-secret.pdf")
	if _, err := pagedoc.Load(filepath.Base(out), readFile(t, out), ""); err != nil {
		t.Errorf("unlocked output should open without a password: %v", err)
	}
}

func TestServer_HandleTabularConvert(t *testing.T) {
	server, tempDir := newTestServer(t)
	csv := "name,city\nAda,London\nGrace,Arlington\n"
	if err := os.WriteFile(filepath.Join(tempDir, "people.csv"), []byte(csv), 0o644); err != nil {
		t.Fatalf("failed to write fixture: %v", err)
	}

	request := callRequest(map[string]any{
		"path":   "people.csv",
		"target": "json",
	})

	result, err := server.handleTabularConvert(context.Background(), request)
	if err != nil {
		t.Fatalf("handler failed: %v", err)
	}
	if result.IsError {
		t.Fatalf("unexpected tool error: %s", extractTextFromResult(result))
	}

	out := string(readFile(t, filepath.Join(tempDir, "people.json")))
	if !strings.Contains(out, `"Ada"`) {
		t.Errorf("converted JSON should contain the data, got: %s", out)
	}
}

func TestServer_HandleEdit_BadElements(t *testing.T) {
	server, tempDir := newTestServer(t)
	writePDF(t, tempDir, "form.pdf", 1)

	request := callRequest(map[string]any{
		"path":     "form.pdf",
		"elements": "{not json",
	})

	result, err := server.handleEdit(context.Background(), request)
	if err != nil {
		t.Fatalf("handler failed: %v", err)
	}
	if !result.IsError {
		t.Fatal("expected a tool error for malformed elements")
	}
	if !strings.Contains(extractTextFromResult(result), "parse elements") {
		t.Errorf("error should mention element parsing, got: %s", extractTextFromResult(result))
	}
}

func TestServer_MissingInputFile(t *testing.T) {
	server, _ := newTestServer(t)

	request := callRequest(map[string]any{
		"path": "nope.pdf",
	})

	result, err := server.handleCompress(context.Background(), request)
	if err != nil {
		t.Fatalf("handler failed: %v", err)
	}
	if !result.IsError {
		t.Fatal("expected a tool error for a missing input")
	}
	if !strings.Contains(extractTextFromResult(result), "read input") {
		t.Errorf("error should mention the failed read, got: %s", extractTextFromResult(result))
	}
}

func TestServer_InvalidArguments(t *testing.T) {
	server, _ := newTestServer(t)

	handlers := map[string]func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error){
		"pdf_merge":          server.handleMerge,
		"pdf_split_range":    server.handleSplitRange,
		"pdf_compress":       server.handleCompress,
		"tabular_convert":    server.handleTabularConvert,
		"tabular_split_rows": server.handleTabularSplitRows,
	}

	for name, handler := range handlers {
		t.Run(name, func(t *testing.T) {
			result, err := handler(context.Background(), callRequest(map[string]any{}))
			if err != nil {
				t.Fatalf("handler failed: %v", err)
			}
			if !result.IsError {
				t.Error("expected a tool error for missing arguments")
			}
		})
	}
}

func TestServer_AIToolsUnavailable(t *testing.T) {
	server, tempDir := newTestServer(t)
	writePDF(t, tempDir, "scan.pdf", 1)

	request := callRequest(map[string]any{
		"path": "scan.pdf",
	})

	result, err := server.handleExtractTables(context.Background(), request)
	if err != nil {
		t.Fatalf("handler failed: %v", err)
	}
	if !result.IsError {
		t.Fatal("expected a tool error without an AI provider")
	}
	if !strings.Contains(extractTextFromResult(result), "no AI provider") {
		t.Errorf("error should name the missing provider, got: %s", extractTextFromResult(result))
	}
}

func TestServer_HandleServerInfo(t *testing.T) {
	server, tempDir := newTestServer(t)

	result, err := server.handleServerInfo(context.Background(), callRequest(nil))
	if err != nil {
		t.Fatalf("handler failed: %v", err)
	}

	resultText := extractTextFromResult(result)
	for _, want := range []string{
		"test-server v1.0.0",
		tempDir,
		"pdf_merge",
		"tabular_convert",
		"AI-backed tools available: false",
	} {
		if !strings.Contains(resultText, want) {
			t.Errorf("server info should contain %q, got: %s", want, resultText)
		}
	}
}

func extractTextFromResult(result *mcp.CallToolResult) string {
	if result == nil || len(result.Content) == 0 {
		return ""
	}

	for _, content := range result.Content {
		if textContent, ok := content.(mcp.TextContent); ok {
			return textContent.Text
		}
		if textContentPtr, ok := content.(*mcp.TextContent); ok {
			return textContentPtr.Text
		}
	}

	return ""
}

func readFile(t *testing.T, path string) []byte {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read %s: %v", path, err)
	}
	return data
}
