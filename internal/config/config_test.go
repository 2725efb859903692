package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	// Test default values
	if cfg.Mode != "stdio" {
		t.Errorf("Expected default mode to be 'stdio', got '%s'", cfg.Mode)
	}

	if cfg.Host != "127.0.0.1" {
		t.Errorf("Expected default host to be '127.0.0.1', got '%s'", cfg.Host)
	}

	if cfg.Port != 8080 {
		t.Errorf("Expected default port to be 8080, got %d", cfg.Port)
	}

	if cfg.Version != "1.0.0" {
		t.Errorf("Expected default version to be '1.0.0', got '%s'", cfg.Version)
	}

	if cfg.ServerName != "docforge" {
		t.Errorf("Expected default server name to be 'docforge', got '%s'", cfg.ServerName)
	}

	if cfg.LogLevel != "info" {
		t.Errorf("Expected default log level to be 'info', got '%s'", cfg.LogLevel)
	}

	if cfg.MaxFileSize != 100*1024*1024 {
		t.Errorf("Expected default max file size to be 100MB, got %d", cfg.MaxFileSize)
	}

	if cfg.AIProvider != "openai" {
		t.Errorf("Expected default AI provider to be 'openai', got '%s'", cfg.AIProvider)
	}

	// Test that work directory is set to current working directory by default
	currentDir, _ := os.Getwd()
	if cfg.WorkDirectory != currentDir {
		t.Errorf("Expected default work directory to be '%s', got '%s'", currentDir, cfg.WorkDirectory)
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		config  *Config
		wantErr bool
	}{
		{
			name:    "valid config - stdio mode",
			config:  DefaultConfig(),
			wantErr: false,
		},
		{
			name: "valid config - server mode",
			config: &Config{
				Mode:          "server",
				Host:          "127.0.0.1",
				Port:          8080,
				WorkDirectory: "/tmp/test",
				AIProvider:    "openai",
				LogLevel:      "info",
				MaxFileSize:   1024,
			},
			wantErr: false,
		},
		{
			name: "invalid mode",
			config: &Config{
				Mode:          "invalid",
				Host:          "127.0.0.1",
				Port:          8080,
				WorkDirectory: "/tmp/test",
				AIProvider:    "openai",
				LogLevel:      "info",
				MaxFileSize:   1024,
			},
			wantErr: true,
		},
		{
			name: "invalid port - too low (server mode)",
			config: &Config{
				Mode:          "server",
				Host:          "127.0.0.1",
				Port:          0,
				WorkDirectory: "/tmp/test",
				AIProvider:    "openai",
				LogLevel:      "info",
				MaxFileSize:   1024,
			},
			wantErr: true,
		},
		{
			name: "invalid port - too high (server mode)",
			config: &Config{
				Mode:          "server",
				Host:          "127.0.0.1",
				Port:          70000,
				WorkDirectory: "/tmp/test",
				AIProvider:    "openai",
				LogLevel:      "info",
				MaxFileSize:   1024,
			},
			wantErr: true,
		},
		{
			name: "invalid port ignored in stdio mode",
			config: &Config{
				Mode:          "stdio",
				Host:          "127.0.0.1",
				Port:          0,
				WorkDirectory: "/tmp/test",
				AIProvider:    "openai",
				LogLevel:      "info",
				MaxFileSize:   1024,
			},
			wantErr: false,
		},
		{
			name: "empty work directory",
			config: &Config{
				Mode:          "stdio",
				Host:          "127.0.0.1",
				Port:          8080,
				WorkDirectory: "",
				AIProvider:    "openai",
				LogLevel:      "info",
				MaxFileSize:   1024,
			},
			wantErr: true,
		},
		{
			name: "invalid ai provider",
			config: &Config{
				Mode:          "stdio",
				Host:          "127.0.0.1",
				Port:          8080,
				WorkDirectory: "/tmp/test",
				AIProvider:    "skynet",
				LogLevel:      "info",
				MaxFileSize:   1024,
			},
			wantErr: true,
		},
		{
			name: "invalid max file size",
			config: &Config{
				Mode:          "stdio",
				Host:          "127.0.0.1",
				Port:          8080,
				WorkDirectory: "/tmp/test",
				AIProvider:    "openai",
				LogLevel:      "info",
				MaxFileSize:   0,
			},
			wantErr: true,
		},
		{
			name: "invalid log level",
			config: &Config{
				Mode:          "stdio",
				Host:          "127.0.0.1",
				Port:          8080,
				WorkDirectory: "/tmp/test",
				AIProvider:    "openai",
				LogLevel:      "verbose",
				MaxFileSize:   1024,
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Config.Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestConfigAddress(t *testing.T) {
	cfg := &Config{
		Host: "192.168.1.1",
		Port: 9090,
	}

	expected := "192.168.1.1:9090"
	if addr := cfg.Address(); addr != expected {
		t.Errorf("Config.Address() = %v, want %v", addr, expected)
	}
}

func TestConfigIsDebug(t *testing.T) {
	tests := []struct {
		logLevel string
		want     bool
	}{
		{"debug", true},
		{"info", false},
		{"warn", false},
		{"error", false},
	}

	for _, tt := range tests {
		t.Run(tt.logLevel, func(t *testing.T) {
			cfg := &Config{LogLevel: tt.logLevel}
			if got := cfg.IsDebug(); got != tt.want {
				t.Errorf("Config.IsDebug() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestConfigString(t *testing.T) {
	cfg := &Config{
		Mode:          "server",
		Host:          "localhost",
		Port:          8080,
		WorkDirectory: "/docs",
		AIProvider:    "ollama",
		LogLevel:      "debug",
		MaxFileSize:   2048,
	}

	s := cfg.String()
	for _, want := range []string{"server", "localhost", "8080", "/docs", "ollama", "debug", "2048"} {
		if !strings.Contains(s, want) {
			t.Errorf("Config.String() = %v, missing %v", s, want)
		}
	}
}

func TestConfigValidateDirectoryCreation(t *testing.T) {
	tempDir := t.TempDir()
	newDir := filepath.Join(tempDir, "created-by-validate")

	cfg := &Config{
		Mode:          "stdio",
		Host:          "127.0.0.1",
		Port:          8080,
		WorkDirectory: newDir,
		AIProvider:    "openai",
		LogLevel:      "info",
		MaxFileSize:   1024,
	}

	if err := cfg.Validate(); err != nil {
		t.Fatalf("Config.Validate() unexpected error: %v", err)
	}

	if _, err := os.Stat(newDir); os.IsNotExist(err) {
		t.Error("Config.Validate() should have created the missing work directory")
	}
}

func TestConfigIsServerMode(t *testing.T) {
	cfg := &Config{Mode: "server"}
	if !cfg.IsServerMode() {
		t.Error("Config.IsServerMode() = false, want true")
	}
	if cfg.IsStdioMode() {
		t.Error("Config.IsStdioMode() = true, want false")
	}
}

func TestConfigIsStdioMode(t *testing.T) {
	cfg := &Config{Mode: "stdio"}
	if !cfg.IsStdioMode() {
		t.Error("Config.IsStdioMode() = false, want true")
	}
	if cfg.IsServerMode() {
		t.Error("Config.IsServerMode() = true, want false")
	}
}
