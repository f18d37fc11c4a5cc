package models

import (
	"path/filepath"
	"strings"
)

// Application represents a usable desktop application entry
type Application struct {
	ID            string   // Descriptor file name, e.g. org.gnome.TextEditor.desktop
	Name          string   // Display name
	Icon          string   // Icon name or absolute path
	MimeTypes     []string // Declared content types, deduplicated
	NoDisplay     bool     // Entry asked to be hidden from menus
	Terminal      bool     // Entry wants a terminal
	Exec          string   // Launch command line (host-prefixed when sandboxed)
	OriginalExec  string   // Exec as written in the descriptor
	HostRewritten bool     // Whether Exec was prefixed for host execution
	Path          string   // Absolute path of the descriptor file
}

// ApplicationDefinition carries the descriptor fields an Application is built from
type ApplicationDefinition struct {
	Name          string
	Icon          string
	MimeTypes     []string
	NoDisplay     bool
	Terminal      bool
	Exec          string
	OriginalExec  string
	HostRewritten bool
	Path          string
}

// NewApplication creates a new Application from a definition.
// The ID is derived from the descriptor file name.
func NewApplication(def ApplicationDefinition) *Application {
	id := filepath.Base(def.Path)
	name := strings.TrimSpace(def.Name)
	if name == "" {
		name = strings.TrimSuffix(id, ".desktop")
	}

	return &Application{
		ID:            id,
		Name:          name,
		Icon:          def.Icon,
		MimeTypes:     normalizeMimeTypes(def.MimeTypes),
		NoDisplay:     def.NoDisplay,
		Terminal:      def.Terminal,
		Exec:          def.Exec,
		OriginalExec:  def.OriginalExec,
		HostRewritten: def.HostRewritten,
		Path:          def.Path,
	}
}

// HandlesMimeType reports whether the application declares the given content type
func (a *Application) HandlesMimeType(mimeType string) bool {
	if mimeType == "" {
		return false
	}
	for _, m := range a.MimeTypes {
		if m == mimeType {
			return true
		}
	}
	return false
}

// BaseName returns the ID without the .desktop suffix
func (a *Application) BaseName() string {
	return strings.TrimSuffix(a.ID, ".desktop")
}

func normalizeMimeTypes(types []string) []string {
	seen := make(map[string]bool, len(types))
	result := make([]string, 0, len(types))
	for _, t := range types {
		t = strings.TrimSpace(t)
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		result = append(result, t)
	}
	return result
}
