package components

import (
	"fmt"
	"path/filepath"
	"strings"

	"junction/internal/diff"
	"junction/internal/ui"

	"github.com/charmbracelet/lipgloss"
)

// DiffView displays how a descriptor changes when it is loaded
type DiffView struct {
	Width  int
	Height int // 0 renders every line

	Path       string
	DiffResult *diff.Result

	// Navigation
	ScrollOffset int
	CurrentHunk  int

	// Syntax highlighting
	highlighter     *ui.Highlighter
	enableHighlight bool

	// Styles
	addStyle     lipgloss.Style
	deleteStyle  lipgloss.Style
	contextStyle lipgloss.Style
	headerStyle  lipgloss.Style
}

// NewDiffView creates a new DiffView
func NewDiffView() *DiffView {
	return &DiffView{
		Width:           80,
		highlighter:     ui.NewHighlighter(),
		enableHighlight: true,
		addStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#a6e3a1")),
		deleteStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#f38ba8")),
		contextStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6c7086")),
		headerStyle: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#89b4fa")),
	}
}

// SetDiff sets the diff result to display
func (d *DiffView) SetDiff(result *diff.Result, path string) {
	d.DiffResult = result
	d.Path = path
	d.ScrollOffset = 0
	d.CurrentHunk = 0
}

// ScrollUp scrolls the view up
func (d *DiffView) ScrollUp() {
	if d.ScrollOffset > 0 {
		d.ScrollOffset--
	}
}

// ScrollDown scrolls the view down
func (d *DiffView) ScrollDown() {
	d.ScrollOffset++
}

// NextHunk moves to the next hunk
func (d *DiffView) NextHunk() {
	if d.DiffResult != nil && d.CurrentHunk < len(d.DiffResult.Hunks)-1 {
		d.CurrentHunk++
	}
}

// PrevHunk moves to the previous hunk
func (d *DiffView) PrevHunk() {
	if d.CurrentHunk > 0 {
		d.CurrentHunk--
	}
}

// ToggleHighlight toggles syntax highlighting
func (d *DiffView) ToggleHighlight() {
	d.enableHighlight = !d.enableHighlight
}

// View renders the diff view
func (d *DiffView) View() string {
	if d.DiffResult == nil {
		return "No diff to display"
	}

	var b strings.Builder
	b.WriteString(d.renderHeader())
	b.WriteString("\n")
	b.WriteString(d.renderStats())
	b.WriteString("\n\n")
	b.WriteString(d.renderDiff())
	return b.String()
}

func (d *DiffView) renderHeader() string {
	title := d.headerStyle.Render("Effective descriptor")
	return fmt.Sprintf("%s  %s  %s", title, ui.PathStyle.Render(d.Path),
		ui.MimeStyle.Render(ui.GetFileType(d.Path)))
}

func (d *DiffView) renderStats() string {
	if d.DiffResult.Identical {
		return ui.MutedStyle.Render("Loaded as written")
	}

	var parts []string
	if d.DiffResult.LinesAdded > 0 {
		parts = append(parts, d.addStyle.Render(fmt.Sprintf("+%d", d.DiffResult.LinesAdded)))
	}
	if d.DiffResult.LinesRemoved > 0 {
		parts = append(parts, d.deleteStyle.Render(fmt.Sprintf("-%d", d.DiffResult.LinesRemoved)))
	}

	hunks := fmt.Sprintf("%d hunks", len(d.DiffResult.Hunks))
	return strings.Join(parts, " ") + "  " + ui.MutedStyle.Render(hunks)
}

func (d *DiffView) renderDiff() string {
	if d.DiffResult.Identical {
		return ui.MutedStyle.Render("No differences found")
	}

	var lines []string
	lineWidth := d.Width - 4

	for hunkIdx, hunk := range d.DiffResult.Hunks {
		header := hunk.Header()
		if hunkIdx == d.CurrentHunk && len(d.DiffResult.Hunks) > 1 {
			header = ui.SelectedItemStyle.Render(header)
		} else {
			header = ui.MutedStyle.Render(header)
		}
		lines = append(lines, header)

		for _, line := range hunk.Lines {
			lines = append(lines, d.formatDiffLine(line, lineWidth))
		}
	}

	if d.Height <= 0 {
		return strings.Join(lines, "\n")
	}

	// Reserve space for the header and stats
	visibleLines := d.Height - 3
	if visibleLines < 1 {
		visibleLines = 10
	}

	start := d.ScrollOffset
	if start >= len(lines) {
		start = 0
	}
	end := min(start+visibleLines, len(lines))

	return strings.Join(lines[start:end], "\n")
}

func (d *DiffView) formatDiffLine(line diff.Line, maxWidth int) string {
	content := line.Content
	if maxWidth > 8 && len(content) > maxWidth-2 {
		content = content[:maxWidth-5] + "..."
	}

	if d.enableHighlight && line.Type == diff.Equal && d.highlighter != nil {
		content = d.highlighter.HighlightLine(content, filepath.Base(d.Path))
	}

	switch line.Type {
	case diff.Insert:
		return d.addStyle.Render("+ " + content)
	case diff.Delete:
		return d.deleteStyle.Render("- " + content)
	default:
		return d.contextStyle.Render("  ") + content
	}
}

// HasChanges returns true if there are differences
func (d *DiffView) HasChanges() bool {
	return d.DiffResult != nil && !d.DiffResult.Identical
}

// HunkCount returns the number of hunks
func (d *DiffView) HunkCount() int {
	if d.DiffResult == nil {
		return 0
	}
	return len(d.DiffResult.Hunks)
}
