package launch

import (
	"errors"
	"strings"
	"testing"

	"junction/internal/models"
)

func app(exec string) *models.Application {
	return &models.Application{
		ID:   "org.example.App.desktop",
		Name: "Example",
		Icon: "example-icon",
		Exec: exec,
		Path: "/usr/share/applications/org.example.App.desktop",
	}
}

func TestArgs(t *testing.T) {
	targets := []string{"file:///tmp/a.txt", "https://example.com"}

	tests := []struct {
		name     string
		exec     string
		targets  []string
		expected []string
	}{
		{"single url", "browser %u", targets, []string{"browser", "file:///tmp/a.txt"}},
		{"all urls", "browser --new %U", targets, []string{"browser", "--new", "file:///tmp/a.txt", "https://example.com"}},
		{"single file", "editor %f", targets, []string{"editor", "/tmp/a.txt"}},
		{"all files", "editor %F", []string{"/tmp/b.txt", "file:///tmp/c.txt"}, []string{"editor", "/tmp/b.txt", "/tmp/c.txt"}},
		{"no targets", "editor %F", nil, []string{"editor"}},
		{"icon", "viewer %i %f", []string{"/tmp/a.png"}, []string{"viewer", "--icon", "example-icon", "/tmp/a.png"}},
		{"name and path", "tool --class=%c --desktop=%k", nil, []string{"tool", "--class=Example", "--desktop=/usr/share/applications/org.example.App.desktop"}},
		{"literal percent", "printf 100%%", nil, []string{"printf", "100%"}},
		{"deprecated codes", "old %d %D %n %N %v %m app", nil, []string{"old", "app"}},
		{"quoted", `"/opt/My App/app" --flag "%u"`, []string{"x"}, []string{"/opt/My App/app", "--flag", "x"}},
		{"host prefix", "flatpak-spawn --host editor %U", []string{"/tmp/a"}, []string{"flatpak-spawn", "--host", "editor", "/tmp/a"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Args(app(tt.exec), tt.targets)
			if err != nil {
				t.Fatalf("Args failed: %v", err)
			}
			if strings.Join(got, "|") != strings.Join(tt.expected, "|") {
				t.Errorf("Args(%q) = %q, want %q", tt.exec, got, tt.expected)
			}
		})
	}
}

func TestArgs_Empty(t *testing.T) {
	if _, err := Args(app("%f"), nil); !errors.Is(err, ErrEmptyCommand) {
		t.Errorf("Expected ErrEmptyCommand, got %v", err)
	}
}

func TestArgs_Unbalanced(t *testing.T) {
	if _, err := Args(app(`editor "unterminated`), nil); err == nil {
		t.Error("Expected error for unbalanced quotes")
	}
}

func TestCommand(t *testing.T) {
	cmd, err := Command(app("editor --new %f"), []string{"/tmp/a.txt"})
	if err != nil {
		t.Fatalf("Command failed: %v", err)
	}
	if len(cmd.Args) != 3 || cmd.Args[0] != "editor" || cmd.Args[2] != "/tmp/a.txt" {
		t.Errorf("Unexpected args %v", cmd.Args)
	}
}

func TestStart_MissingProgram(t *testing.T) {
	if err := Start(app("this-command-does-not-exist-12345"), nil); err == nil {
		t.Error("Expected error starting a missing program")
	}
}
