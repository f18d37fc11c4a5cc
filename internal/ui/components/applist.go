package components

import (
	"fmt"
	"strings"

	"junction/internal/models"
	"junction/internal/ui"
)

// AppList is a list component for applications handling a content type
type AppList struct {
	Apps    []*models.Application
	Cursor  int
	Width   int
	Height  int
	Focused bool
	Title   string
}

// NewAppList creates a new app list
func NewAppList(apps []*models.Application) *AppList {
	return &AppList{
		Apps:    apps,
		Cursor:  0,
		Width:   60,
		Height:  15,
		Focused: true,
		Title:   "Applications",
	}
}

// SetApps updates the apps list
func (l *AppList) SetApps(apps []*models.Application) {
	l.Apps = apps
	if l.Cursor >= len(apps) {
		l.Cursor = max(0, len(apps)-1)
	}
}

// Remove drops the application with id from the list
func (l *AppList) Remove(id string) {
	apps := make([]*models.Application, 0, len(l.Apps))
	for _, app := range l.Apps {
		if app.ID != id {
			apps = append(apps, app)
		}
	}
	l.SetApps(apps)
}

// MoveUp moves cursor up
func (l *AppList) MoveUp() {
	if l.Cursor > 0 {
		l.Cursor--
	}
}

// MoveDown moves cursor down
func (l *AppList) MoveDown() {
	if l.Cursor < len(l.Apps)-1 {
		l.Cursor++
	}
}

// PageUp moves cursor up by a page
func (l *AppList) PageUp() {
	l.Cursor -= l.pageSize()
	if l.Cursor < 0 {
		l.Cursor = 0
	}
}

// PageDown moves cursor down by a page
func (l *AppList) PageDown() {
	l.Cursor += l.pageSize()
	if l.Cursor >= len(l.Apps) {
		l.Cursor = max(0, len(l.Apps)-1)
	}
}

func (l *AppList) pageSize() int {
	pageSize := l.Height - 3
	if pageSize < 1 {
		pageSize = 10
	}
	return pageSize
}

// GoToFirst moves cursor to the first item
func (l *AppList) GoToFirst() {
	l.Cursor = 0
}

// GoToLast moves cursor to the last item
func (l *AppList) GoToLast() {
	if len(l.Apps) > 0 {
		l.Cursor = len(l.Apps) - 1
	}
}

// Current returns the application under the cursor
func (l *AppList) Current() *models.Application {
	if len(l.Apps) > 0 && l.Cursor < len(l.Apps) {
		return l.Apps[l.Cursor]
	}
	return nil
}

// View renders the app list
func (l *AppList) View() string {
	var b strings.Builder

	title := l.Title
	if len(l.Apps) > 0 {
		title = fmt.Sprintf("%s (%d)", l.Title, len(l.Apps))
	}
	b.WriteString(ui.PanelTitleStyle.Render(title))
	b.WriteString("\n")
	b.WriteString(ui.DividerStyle.Render(strings.Repeat("─", max(0, l.Width-2))))
	b.WriteString("\n")

	if len(l.Apps) == 0 {
		b.WriteString(ui.ItemStyle.Render("No applications found"))
		return l.wrapInPanel(b.String())
	}

	// Minus title and divider
	visibleHeight := max(1, l.Height-3)
	startIdx := 0
	if l.Cursor >= visibleHeight {
		startIdx = l.Cursor - visibleHeight + 1
	}
	endIdx := min(startIdx+visibleHeight, len(l.Apps))

	if startIdx > 0 {
		b.WriteString(ui.MutedStyle.Render("  ↑ more"))
		b.WriteString("\n")
	}

	for i := startIdx; i < endIdx; i++ {
		b.WriteString(l.renderItem(l.Apps[i], i == l.Cursor))
		if i < endIdx-1 {
			b.WriteString("\n")
		}
	}

	if endIdx < len(l.Apps) {
		b.WriteString("\n")
		b.WriteString(ui.MutedStyle.Render("  ↓ more"))
	}

	return l.wrapInPanel(b.String())
}

// renderItem renders a single application
func (l *AppList) renderItem(app *models.Application, isCursor bool) string {
	name := app.Name
	maxNameLen := max(10, l.Width/2)
	if len(name) > maxNameLen {
		name = name[:maxNameLen-3] + "..."
	}

	var markers []string
	if app.Terminal {
		markers = append(markers, ui.MutedStyle.Render("[term]"))
	}
	if app.HostRewritten {
		markers = append(markers, ui.HostStyle.Render("[host]"))
	}

	content := fmt.Sprintf("%s %s %s", name, ui.PathStyle.Render(app.ID), strings.Join(markers, " "))
	content = strings.TrimRight(content, " ")

	if isCursor && l.Focused {
		return ui.SelectedItemStyle.Width(max(0, l.Width-4)).Render(content)
	}
	return ui.ItemStyle.Render(content)
}

// wrapInPanel wraps content in a panel border
func (l *AppList) wrapInPanel(content string) string {
	style := ui.PanelStyle
	if l.Focused {
		style = ui.ActivePanelStyle
	}
	return style.Width(l.Width).Height(l.Height).Render(content)
}
