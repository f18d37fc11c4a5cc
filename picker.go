package main

import (
	"fmt"
	"strings"

	"junction/internal/config"
	"junction/internal/diff"
	"junction/internal/launch"
	"junction/internal/models"
	"junction/internal/ui"
	"junction/internal/ui/components"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Screen represents different screens of the picker
type Screen int

const (
	ScreenList Screen = iota
	ScreenDetails
)

// descriptorRenderer renders a descriptor before and after loading
type descriptorRenderer interface {
	Effective(path string) (string, string, error)
}

// Messages
type launchedMsg struct {
	app *models.Application
	err error
}

type exclusionSavedMsg struct {
	id  string
	err error
}

// picker lets the user choose the application that opens the targets
type picker struct {
	config   *config.Config
	renderer descriptorRenderer
	targets  []string
	mimeType string
	start    func(*models.Application, []string) error

	// UI Components
	appList  *components.AppList
	diffView *components.DiffView
	help     help.Model
	keys     ui.KeyMap

	// State
	screen   Screen
	status   string
	width    int
	height   int
	launched *models.Application
	err      error
}

func newPicker(cfg *config.Config, renderer descriptorRenderer, targets []string, mimeType string, apps []*models.Application) *picker {
	list := components.NewAppList(apps)
	list.Title = "Open with"

	return &picker{
		config:   cfg,
		renderer: renderer,
		targets:  targets,
		mimeType: mimeType,
		start:    launch.Start,
		appList:  list,
		diffView: components.NewDiffView(),
		help:     help.New(),
		keys:     ui.DefaultKeyMap(),
		screen:   ScreenList,
		status:   fmt.Sprintf("%d applications for %s", len(apps), mimeType),
		width:    80,
		height:   24,
	}
}

func (m *picker) Init() tea.Cmd {
	return nil
}

func (m *picker) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.updateSizes()
		return m, nil

	case tea.KeyMsg:
		return m.handleKeyPress(msg)

	case launchedMsg:
		if msg.err != nil {
			m.err = msg.err
			m.status = fmt.Sprintf("Error: %v", msg.err)
			return m, nil
		}
		m.err = nil
		m.launched = msg.app
		return m, tea.Quit

	case exclusionSavedMsg:
		if msg.err != nil {
			m.status = fmt.Sprintf("Error: %v", msg.err)
			return m, nil
		}
		m.appList.Remove(msg.id)
		m.status = fmt.Sprintf("Excluded %s", msg.id)
	}

	return m, nil
}

func (m *picker) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Quit) {
		return m, tea.Quit
	}
	if key.Matches(msg, m.keys.Help) {
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	}

	if m.screen == ScreenDetails {
		return m.handleDetailsKeys(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Up):
		m.appList.MoveUp()
	case key.Matches(msg, m.keys.Down):
		m.appList.MoveDown()
	case key.Matches(msg, m.keys.PageUp):
		m.appList.PageUp()
	case key.Matches(msg, m.keys.PageDown):
		m.appList.PageDown()
	case key.Matches(msg, m.keys.Home):
		m.appList.GoToFirst()
	case key.Matches(msg, m.keys.End):
		m.appList.GoToLast()
	case key.Matches(msg, m.keys.Enter):
		return m.handleLaunch()
	case key.Matches(msg, m.keys.Details):
		return m.handleDetails()
	case key.Matches(msg, m.keys.Exclude):
		return m.handleExclude()
	case key.Matches(msg, m.keys.Escape):
		return m, tea.Quit
	}
	return m, nil
}

func (m *picker) handleDetailsKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Escape), key.Matches(msg, m.keys.Details):
		m.screen = ScreenList
	case key.Matches(msg, m.keys.Up):
		m.diffView.ScrollUp()
	case key.Matches(msg, m.keys.Down):
		m.diffView.ScrollDown()
	case key.Matches(msg, m.keys.Enter):
		return m.handleLaunch()
	}
	return m, nil
}

func (m *picker) handleLaunch() (tea.Model, tea.Cmd) {
	app := m.appList.Current()
	if app == nil {
		return m, nil
	}

	m.status = fmt.Sprintf("Opening with %s...", app.Name)
	start, targets := m.start, m.targets
	return m, func() tea.Msg {
		return launchedMsg{app: app, err: start(app, targets)}
	}
}

func (m *picker) handleDetails() (tea.Model, tea.Cmd) {
	app := m.appList.Current()
	if app == nil {
		return m, nil
	}

	original, effective, err := m.renderer.Effective(app.Path)
	if err != nil {
		m.status = fmt.Sprintf("Error: %v", err)
		return m, nil
	}

	m.diffView.SetDiff(diff.Compute(original, effective), app.Path)
	m.screen = ScreenDetails
	return m, nil
}

func (m *picker) handleExclude() (tea.Model, tea.Cmd) {
	app := m.appList.Current()
	if app == nil || m.config == nil {
		return m, nil
	}

	cfg, id := m.config, app.ID
	return m, func() tea.Msg {
		if err := cfg.AddExclusion(id); err != nil {
			return exclusionSavedMsg{id: id, err: err}
		}
		return exclusionSavedMsg{id: id, err: cfg.Save()}
	}
}

func (m *picker) updateSizes() {
	// Header, status and help lines
	listHeight := max(5, m.height-6)
	m.appList.Width = max(20, m.width-2)
	m.appList.Height = listHeight
	m.diffView.Width = m.width
	m.diffView.Height = listHeight
	m.help.Width = m.width
}

func (m *picker) View() string {
	var b strings.Builder

	b.WriteString(ui.HeaderStyle.Render(fmt.Sprintf("junction  %s", strings.Join(m.targets, " "))))
	b.WriteString("\n")

	switch m.screen {
	case ScreenDetails:
		b.WriteString(m.diffView.View())
	default:
		b.WriteString(m.appList.View())
	}

	b.WriteString("\n")
	b.WriteString(ui.MutedStyle.Render(m.status))
	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))

	return lipgloss.NewStyle().Padding(0, 1).Render(b.String())
}
