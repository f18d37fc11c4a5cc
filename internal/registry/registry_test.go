package registry

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"junction/internal/logging"
	"junction/internal/models"
	"junction/internal/sandbox"
	"junction/internal/scanner"
)

// fakeScanner returns canned results and counts calls
type fakeScanner struct {
	apps  map[string][]*models.Application
	errs  map[string]error
	calls atomic.Int32
}

func (f *fakeScanner) ScanDir(dir string) ([]*models.Application, error) {
	f.calls.Add(1)
	if err := f.errs[dir]; err != nil {
		return nil, err
	}
	return f.apps[dir], nil
}

func newApp(id string, mimeTypes ...string) *models.Application {
	return models.NewApplication(models.ApplicationDefinition{
		Name:      strings.TrimSuffix(id, ".desktop"),
		MimeTypes: mimeTypes,
		Exec:      "run",
		Path:      filepath.Join("/apps", id),
	})
}

func TestNew(t *testing.T) {
	dirs := []string{"/a", "/b"}
	r := New(&fakeScanner{}, dirs, nil)
	dirs[0] = "/changed"

	if r.Len() != 0 {
		t.Error("New registry should be empty")
	}
	if got := r.Dirs(); got[0] != "/a" {
		t.Errorf("Registry should keep its own copy of dirs, got %v", got)
	}
}

func TestBuild(t *testing.T) {
	fake := &fakeScanner{apps: map[string][]*models.Application{
		"/user":   {newApp("editor.desktop", "text/plain")},
		"/system": {newApp("viewer.desktop", "image/png"), newApp("browser.desktop", "text/html")},
	}}
	r := New(fake, []string{"/user", "/missing", "/system"}, nil)

	if err := r.Build(); err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if r.Len() != 3 {
		t.Fatalf("Expected 3 apps, got %d", r.Len())
	}

	// Directory order is kept
	all := r.All()
	expected := []string{"editor.desktop", "viewer.desktop", "browser.desktop"}
	for i, id := range expected {
		if all[i].ID != id {
			t.Errorf("All()[%d] = %s, want %s", i, all[i].ID, id)
		}
	}
}

func TestBuild_Idempotent(t *testing.T) {
	fake := &fakeScanner{apps: map[string][]*models.Application{
		"/a": {newApp("a.desktop", "text/plain")},
	}}
	r := New(fake, []string{"/a", "/b"}, nil)

	if err := r.Build(); err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if calls := fake.calls.Load(); calls != 2 {
		t.Fatalf("Expected 2 scans on first build, got %d", calls)
	}

	fake.apps["/b"] = []*models.Application{newApp("b.desktop", "text/plain")}
	if err := r.Build(); err != nil {
		t.Fatalf("second Build failed: %v", err)
	}
	if calls := fake.calls.Load(); calls != 2 {
		t.Errorf("Second build should not scan, got %d total scans", calls)
	}
	if r.Len() != 1 {
		t.Errorf("Registry should be unchanged, got %d apps", r.Len())
	}
}

func TestBuild_EmptyResultRescans(t *testing.T) {
	fake := &fakeScanner{}
	r := New(fake, []string{"/a"}, nil)

	r.Init()
	r.Init()
	if calls := fake.calls.Load(); calls != 2 {
		t.Errorf("An empty registry should be rebuilt, got %d scans", calls)
	}
}

func TestBuild_DeduplicatesByID(t *testing.T) {
	user := newApp("editor.desktop", "text/plain")
	user.Name = "User Editor"
	system := newApp("editor.desktop", "text/plain")
	system.Name = "System Editor"

	fake := &fakeScanner{apps: map[string][]*models.Application{
		"/user":   {user},
		"/system": {system},
	}}
	r := New(fake, []string{"/user", "/system"}, nil)
	if err := r.Build(); err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	if r.Len() != 1 {
		t.Fatalf("Expected 1 app after dedup, got %d", r.Len())
	}
	if app, _ := r.Find("editor.desktop"); app.Name != "User Editor" {
		t.Errorf("First directory should win, got %s", app.Name)
	}
}

func TestBuild_PartialFailure(t *testing.T) {
	scanErr := errors.New("permission denied")
	fake := &fakeScanner{
		apps: map[string][]*models.Application{"/ok": {newApp("ok.desktop", "text/plain")}},
		errs: map[string]error{"/locked": scanErr},
	}
	r := New(fake, []string{"/ok", "/locked"}, nil)

	err := r.Build()
	if !errors.Is(err, scanErr) {
		t.Fatalf("Expected scan error, got %v", err)
	}
	if r.Len() != 1 {
		t.Errorf("Results from healthy directories should be kept, got %d", r.Len())
	}
}

func TestInit_LogsFailure(t *testing.T) {
	var buf bytes.Buffer
	fake := &fakeScanner{errs: map[string]error{"/locked": errors.New("boom")}}
	r := New(fake, []string{"/locked"}, logging.New(&buf, false))

	r.Init()

	if !strings.Contains(buf.String(), "boom") {
		t.Errorf("Init should log the failure, got %q", buf.String())
	}
	if r.Len() != 0 {
		t.Errorf("Registry should stay empty, got %d", r.Len())
	}
}

func TestApplications(t *testing.T) {
	editor := newApp("editor.desktop", "text/plain", "text/markdown")
	viewer := newApp("viewer.desktop", "image/png")
	fake := &fakeScanner{apps: map[string][]*models.Application{"/a": {editor, viewer}}}
	r := New(fake, []string{"/a"}, nil)
	r.Init()

	got := r.Applications("text/plain")
	if len(got) != 1 || got[0] != editor {
		t.Errorf("Expected only the editor, got %v", got)
	}

	if got := r.Applications("video/mp4"); got == nil || len(got) != 0 {
		t.Errorf("Expected empty non-nil result, got %v", got)
	}
	if got := r.Applications(""); len(got) != 0 {
		t.Errorf("Expected no match for empty input, got %v", got)
	}
}

func TestApplications_KeepsOrder(t *testing.T) {
	first := newApp("first.desktop", "text/plain")
	second := newApp("second.desktop", "text/plain")
	fake := &fakeScanner{apps: map[string][]*models.Application{
		"/a": {first},
		"/b": {second},
	}}
	r := New(fake, []string{"/a", "/b"}, nil)
	r.Init()

	got := r.Applications("text/plain")
	if len(got) != 2 || got[0] != first || got[1] != second {
		t.Errorf("Expected registry order, got %v", got)
	}
}

func TestApplicationsFor(t *testing.T) {
	fake := &fakeScanner{apps: map[string][]*models.Application{
		"/a": {newApp("editor.desktop", "text/plain")},
	}}
	r := New(fake, []string{"/a"}, nil)
	r.Init()

	mimeType, apps := r.ApplicationsFor([]string{"text/x-go", "text/plain"})
	if mimeType != "text/plain" || len(apps) != 1 {
		t.Errorf("Expected fallback to text/plain, got %q with %d apps", mimeType, len(apps))
	}

	mimeType, apps = r.ApplicationsFor([]string{"image/png"})
	if mimeType != "" || len(apps) != 0 {
		t.Errorf("Expected no match, got %q with %d apps", mimeType, len(apps))
	}
}

func TestFind(t *testing.T) {
	fake := &fakeScanner{apps: map[string][]*models.Application{
		"/a": {newApp("org.example.App.desktop", "text/plain")},
	}}
	r := New(fake, []string{"/a"}, nil)
	r.Init()

	if _, ok := r.Find("org.example.App.desktop"); !ok {
		t.Error("Find by full ID failed")
	}
	if _, ok := r.Find("org.example.App"); !ok {
		t.Error("Find without suffix failed")
	}
	if _, ok := r.Find("other"); ok {
		t.Error("Find should fail for unknown IDs")
	}
}

func TestBuild_WithScanner(t *testing.T) {
	user := t.TempDir()
	system := t.TempDir()

	write := func(dir, name, content string) {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0644); err != nil {
			t.Fatalf("Failed to write %s: %v", name, err)
		}
	}
	write(user, "notes.desktop", "[Desktop Entry]\nType=Application\nName=Notes\nExec=notes %U\nMimeType=text/plain;text/markdown;\n")
	write(system, "images.desktop", "[Desktop Entry]\nType=Application\nName=Images\nExec=images %f\nMimeType=image/png;\n")
	write(system, "secret.desktop", "[Desktop Entry]\nType=Application\nName=Secret\nExec=secret\nNoDisplay=true\nMimeType=text/plain;\n")

	s := scanner.New(sandbox.Static(true))
	r := New(s, []string{user, filepath.Join(user, "missing"), system}, nil)
	if err := r.Build(); err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	got := r.Applications("text/plain")
	if len(got) != 1 || got[0].ID != "notes.desktop" {
		t.Fatalf("Expected only notes.desktop, got %v", got)
	}
	if got[0].Exec != "flatpak-spawn --host notes %U" {
		t.Errorf("Expected host-prefixed Exec, got %q", got[0].Exec)
	}
}
