package components

import (
	"strings"
	"testing"

	"junction/internal/diff"
)

const (
	original  = "[Desktop Entry]\nType=Application\nTryExec=app\nExec=app %U\nMimeType=text/html;\n"
	effective = "[Desktop Entry]\nType=Application\nExec=flatpak-spawn --host app %U\nMimeType=text/html;\n"
)

func TestNewDiffView(t *testing.T) {
	dv := NewDiffView()

	if dv == nil {
		t.Fatal("NewDiffView should return a DiffView")
	}
	if dv.Width != 80 {
		t.Errorf("Expected width 80, got %d", dv.Width)
	}
	if dv.Height != 0 {
		t.Errorf("Expected unlimited height, got %d", dv.Height)
	}
}

func TestDiffView_SetDiff(t *testing.T) {
	dv := NewDiffView()
	dv.ScrollOffset = 3
	dv.CurrentHunk = 2

	result := diff.Compute(original, effective)
	dv.SetDiff(result, "/usr/share/applications/app.desktop")

	if dv.DiffResult != result {
		t.Error("DiffResult should be set")
	}
	if dv.Path != "/usr/share/applications/app.desktop" {
		t.Errorf("Unexpected path %s", dv.Path)
	}
	if dv.ScrollOffset != 0 || dv.CurrentHunk != 0 {
		t.Error("Navigation should be reset")
	}
	if !dv.HasChanges() {
		t.Error("Expected changes")
	}
	if dv.HunkCount() != 1 {
		t.Errorf("Expected 1 hunk, got %d", dv.HunkCount())
	}
}

func TestDiffView_Scroll(t *testing.T) {
	dv := NewDiffView()

	dv.ScrollDown()
	dv.ScrollDown()
	if dv.ScrollOffset != 2 {
		t.Errorf("Expected 2, got %d", dv.ScrollOffset)
	}

	dv.ScrollUp()
	dv.ScrollUp()
	dv.ScrollUp()
	if dv.ScrollOffset != 0 {
		t.Error("ScrollOffset should not go below 0")
	}
}

func TestDiffView_Hunks(t *testing.T) {
	dv := NewDiffView()
	dv.SetDiff(diff.Compute(original, effective), "app.desktop")

	dv.NextHunk()
	if dv.CurrentHunk != 0 {
		t.Errorf("Only one hunk, expected to stay at 0, got %d", dv.CurrentHunk)
	}
	dv.PrevHunk()
	if dv.CurrentHunk != 0 {
		t.Errorf("Expected 0, got %d", dv.CurrentHunk)
	}
}

func TestDiffView_View(t *testing.T) {
	dv := NewDiffView()
	if dv.View() != "No diff to display" {
		t.Errorf("Unexpected empty view %q", dv.View())
	}

	dv.SetDiff(diff.Compute(original, effective), "app.desktop")
	dv.ToggleHighlight()
	view := dv.View()

	for _, want := range []string{"app.desktop", "- TryExec=app", "+ Exec=flatpak-spawn --host app %U", "+1", "-2"} {
		if !strings.Contains(view, want) {
			t.Errorf("Expected %q in view:\n%s", want, view)
		}
	}
}

func TestDiffView_Identical(t *testing.T) {
	dv := NewDiffView()
	dv.SetDiff(diff.Compute(original, original), "app.desktop")

	if dv.HasChanges() {
		t.Error("Identical texts should have no changes")
	}
	if !strings.Contains(dv.View(), "No differences found") {
		t.Errorf("Expected no differences message, got:\n%s", dv.View())
	}
}
