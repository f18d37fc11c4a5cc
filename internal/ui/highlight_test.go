package ui

import (
	"strings"
	"testing"
)

func TestGetFileType(t *testing.T) {
	tests := []struct {
		filename string
		expected string
	}{
		{"org.gnome.gedit.desktop", "Desktop Entry"},
		{"Games.directory", "Directory Entry"},
		{"config.yaml", "YAML"},
		{"config.yml", "YAML"},
		{"mimeapps.list", "Config"},
		{"settings.ini", "Config"},
		{"run.sh", "Bash"},
		{"unknown.xyz", "Text"},
	}

	for _, tt := range tests {
		t.Run(tt.filename, func(t *testing.T) {
			result := GetFileType(tt.filename)
			if result != tt.expected {
				t.Errorf("GetFileType(%s) = %s, want %s", tt.filename, result, tt.expected)
			}
		})
	}
}

func TestGetLexerForFile(t *testing.T) {
	tests := []struct {
		filename string
		hasLexer bool
	}{
		{"app.desktop", true},
		{"Games.directory", true},
		{"config.yaml", true},
		{"mimeapps.list", true},
		{"run.sh", true},
		{"unknown.xyz123", false},
	}

	for _, tt := range tests {
		t.Run(tt.filename, func(t *testing.T) {
			lexer := getLexerForFile(tt.filename)
			if (lexer != nil) != tt.hasLexer {
				t.Errorf("getLexerForFile(%s) returned lexer=%v, want %v", tt.filename, lexer != nil, tt.hasLexer)
			}
		})
	}
}

func TestHighlighter_HighlightLine(t *testing.T) {
	h := NewHighlighter()

	lines := []string{
		"[Desktop Entry]",
		"Exec=flatpak-spawn --host gedit %U",
		"MimeType=text/plain;",
		"# comment",
	}

	for _, line := range lines {
		result := h.HighlightLine(line, "org.gnome.gedit.desktop")
		if result == "" {
			t.Errorf("HighlightLine(%q) should return non-empty result", line)
		}
		if strings.HasSuffix(result, "\n") {
			t.Errorf("HighlightLine(%q) should not add a newline", line)
		}
	}
}

func TestHighlighter_UnknownFile(t *testing.T) {
	h := NewHighlighter()

	line := "plain text"
	if result := h.HighlightLine(line, "unknown.xyz123"); result != line {
		t.Errorf("Unknown file should return the line as is, got %q", result)
	}
}

func TestHighlighter_HighlightLines(t *testing.T) {
	h := NewHighlighter()

	lines := []string{"[Desktop Entry]", "Name=Editor", "Exec=editor %f"}
	result := h.HighlightLines(lines, "editor.desktop")

	if len(result) != len(lines) {
		t.Fatalf("Expected %d lines, got %d", len(lines), len(result))
	}
	for i, line := range result {
		if line == "" {
			t.Errorf("Line %d should not be empty", i)
		}
	}

	if got := h.HighlightLines(nil, "editor.desktop"); len(got) != 0 {
		t.Errorf("Expected no lines, got %d", len(got))
	}
}
