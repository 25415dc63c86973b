package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// executeValidateCmd runs the validate command with the given args and
// returns captured stdout and any error.
func executeValidateCmd(t *testing.T, args ...string) (string, error) {
	t.Helper()

	// capture stdout
	old := os.Stdout
	r, w, _ := os.Pipe()
	os.Stdout = w

	rootCmd.SetArgs(append([]string{"validate"}, args...))
	err := rootCmd.Execute()

	// restore stdout
	_ = w.Close()
	os.Stdout = old
	var buf bytes.Buffer
	_, _ = buf.ReadFrom(r)

	return buf.String(), err
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write %s: %v", name, err)
	}
	return path
}

func TestRunValidate_ValidConfig(t *testing.T) {
	configPath := writeFile(t, "config.yaml", `
title: Markets
port: 8080
data_file: finboard.json
request_timeout: 10s
`)

	output, err := executeValidateCmd(t, "-c", configPath)
	if err != nil {
		t.Fatalf("validate command error = %v", err)
	}

	expectedPhrases := []string{
		"Config is valid!",
		"Port:            8080",
		"Data file:       finboard.json",
		"Request timeout: 10s",
	}
	for _, phrase := range expectedPhrases {
		if !strings.Contains(output, phrase) {
			t.Errorf("output missing %q\nGot: %s", phrase, output)
		}
	}
}

func TestRunValidate_InvalidConfig(t *testing.T) {
	configPath := writeFile(t, "invalid.yaml", "port: -4\n")

	_, err := executeValidateCmd(t, "-c", configPath)
	if err == nil {
		t.Fatal("validate command expected error for invalid config, got nil")
	}
	if !strings.Contains(err.Error(), "port must be between") {
		t.Errorf("error should mention port range, got: %v", err)
	}
}

func TestRunValidate_MissingFile(t *testing.T) {
	_, err := executeValidateCmd(t, "-c", "/nonexistent/path/config.yaml")
	if err == nil {
		t.Fatal("validate command expected error for missing file, got nil")
	}
	if !strings.Contains(err.Error(), "failed to read") {
		t.Errorf("error should mention 'failed to read', got: %v", err)
	}
}

func TestRunValidate_WidgetExport(t *testing.T) {
	configPath := writeFile(t, "config.yaml", "port: 8080\n")
	widgetsPath := writeFile(t, "widgets.json", `[
		{"id": "w1", "type": "card", "apiEndpoint": "https://example.com/a"},
		{"id": "w2", "type": "table", "apiEndpoint": "https://example.com/b"}
	]`)

	output, err := executeValidateCmd(t, "-c", configPath, "--widgets", widgetsPath)
	if err != nil {
		t.Fatalf("validate command error = %v", err)
	}
	if !strings.Contains(output, "Widget configuration is valid!") {
		t.Errorf("output missing widget confirmation, got: %s", output)
	}
	if !strings.Contains(output, "Widgets: 2") {
		t.Errorf("output missing widget count, got: %s", output)
	}
}

func TestRunValidate_WidgetExportErrors(t *testing.T) {
	configPath := writeFile(t, "config.yaml", "port: 8080\n")

	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{
			name:    "not an array",
			content: `{"widgets": []}`,
			wantErr: "must be a JSON array",
		},
		{
			name:    "invalid widget",
			content: `[{"id": "w1", "type": "card", "apiEndpoint": "ftp://example.com"}]`,
			wantErr: "scheme must be http or https",
		},
		{
			name: "duplicate ids",
			content: `[
				{"id": "w1", "type": "card", "apiEndpoint": "https://example.com/a"},
				{"id": "w1", "type": "card", "apiEndpoint": "https://example.com/b"}
			]`,
			wantErr: "duplicate id",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			widgetsPath := writeFile(t, "widgets.json", tt.content)
			_, err := executeValidateCmd(t, "-c", configPath, "--widgets", widgetsPath)
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}
