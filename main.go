package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"junction/internal/config"
	"junction/internal/contenttype"
	"junction/internal/diff"
	"junction/internal/launch"
	"junction/internal/logging"
	"junction/internal/models"
	"junction/internal/registry"
	"junction/internal/scanner"
	"junction/internal/ui"
	"junction/internal/ui/components"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Version info (set by ldflags)
var (
	version   = "dev"
	buildTime = "unknown"
	debugMode = false // Enable with --debug flag
)

var errUsage = errors.New("invalid usage")

// cli holds everything a command needs
type cli struct {
	config   *config.Config
	scanner  *scanner.Scanner
	registry *registry.Registry
	log      *slog.Logger
}

// newCLI loads the configuration and builds the registry
func newCLI(log *slog.Logger) (*cli, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	s := scanner.New(cfg.SandboxDetector(),
		scanner.WithLogger(log),
		scanner.WithExcluded(cfg.ExcludedApps...),
	)
	dirs := append(scanner.DefaultDirs(s.Sandboxed()), cfg.Dirs()...)
	reg := registry.New(s, dirs, log)
	reg.Init()

	log.Debug("registry ready", "apps", reg.Len(), "sandboxed", s.Sandboxed())
	return &cli{config: cfg, scanner: s, registry: reg, log: log}, nil
}

func printUsage() {
	fmt.Println("junction - choose the application that opens a file or link")
	fmt.Println()
	fmt.Println("Usage: junction [options] <command> [args]")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  list [mime]      List applications, optionally for a MIME type")
	fmt.Println("  dirs             List scanned directories")
	fmt.Println("  show <id>        Show an application and its effective descriptor")
	fmt.Println("  open <target>    Open a file or URI with the first matching application")
	fmt.Println("  pick <target>    Choose an application to open a file or URI")
	fmt.Println("  exclude <id>     Hide an application")
	fmt.Println("  include <id>     Stop hiding an application")
	fmt.Println()
	fmt.Println("Options:")
	fmt.Println("  -v, --version    Show version")
	fmt.Println("  -h, --help       Show this help")
	fmt.Println("  -d, --debug      Enable debug mode (logs to stderr)")
	fmt.Println()
	fmt.Println("Run without a command to list every application.")
}

func main() {
	var args []string
	for _, arg := range os.Args[1:] {
		switch arg {
		case "-v", "--version", "version":
			fmt.Printf("junction %s (built %s)\n", version, buildTime)
			return
		case "-h", "--help", "help":
			printUsage()
			return
		case "-d", "--debug":
			debugMode = true
		default:
			args = append(args, arg)
		}
	}

	log := logging.Stderr(debugMode)
	if err := run(args, log); err != nil {
		if errors.Is(err, errUsage) {
			fmt.Fprintf(os.Stderr, "Error: %v\n\n", err)
			printUsage()
			os.Exit(2)
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// run dispatches a command
func run(args []string, log *slog.Logger) error {
	command := "list"
	if len(args) > 0 {
		command, args = args[0], args[1:]
	}

	// Exclusions only touch the config file
	switch command {
	case "exclude", "include":
		if len(args) != 1 {
			return fmt.Errorf("%w: %s needs an application ID", errUsage, command)
		}
		return editExclusions(command, args[0])
	}

	a, err := newCLI(log)
	if err != nil {
		return err
	}

	switch command {
	case "list":
		if len(args) > 1 {
			return fmt.Errorf("%w: list takes at most one MIME type", errUsage)
		}
		mimeType := ""
		if len(args) == 1 {
			mimeType = args[0]
		}
		return a.list(mimeType)
	case "dirs":
		return a.dirs()
	case "show":
		if len(args) != 1 {
			return fmt.Errorf("%w: show needs an application ID", errUsage)
		}
		return a.show(args[0])
	case "open":
		if len(args) == 0 {
			return fmt.Errorf("%w: open needs a target", errUsage)
		}
		return a.open(args)
	case "pick":
		if len(args) == 0 {
			return fmt.Errorf("%w: pick needs a target", errUsage)
		}
		return a.pick(args)
	default:
		return fmt.Errorf("%w: unknown command %q", errUsage, command)
	}
}

func (a *cli) list(mimeType string) error {
	apps := a.registry.All()
	title := "Applications"
	if mimeType != "" {
		apps = a.registry.Applications(mimeType)
		title = "Applications for " + mimeType
	}

	fmt.Println(ui.HeaderStyle.Render(fmt.Sprintf("%s (%d)", title, len(apps))))
	for _, app := range apps {
		fmt.Println(renderListLine(app))
	}
	return nil
}

func renderListLine(app *models.Application) string {
	line := fmt.Sprintf("%s  %s  %s", ui.TitleStyle.Render(app.Name),
		ui.PathStyle.Render(app.ID), ui.RenderMimeTypes(app.MimeTypes, 3))
	if app.HostRewritten {
		line += "  " + ui.HostStyle.Render("[host]")
	}
	return line
}

func (a *cli) dirs() error {
	for _, dir := range a.registry.Dirs() {
		if _, err := os.Stat(dir); err != nil {
			fmt.Println(ui.MutedStyle.Render(dir + " (missing)"))
			continue
		}
		fmt.Println(dir)
	}
	return nil
}

func (a *cli) show(id string) error {
	app, ok := a.registry.Find(id)
	if !ok {
		return fmt.Errorf("no application %q", id)
	}

	rows := [][2]string{
		{"ID", app.ID},
		{"Name", app.Name},
		{"Icon", app.Icon},
		{"Exec", app.Exec},
		{"Terminal", fmt.Sprintf("%t", app.Terminal)},
		{"MIME types", strings.Join(app.MimeTypes, ";")},
		{"Path", app.Path},
	}
	if app.HostRewritten {
		rows = append(rows, [2]string{"Host Exec", app.OriginalExec})
	}

	label := lipgloss.NewStyle().Width(12).Foreground(ui.Secondary)
	for _, row := range rows {
		fmt.Println(label.Render(row[0]) + row[1])
	}
	fmt.Println()

	original, effective, err := a.scanner.Effective(app.Path)
	if err != nil {
		return fmt.Errorf("render %s: %w", app.Path, err)
	}

	view := components.NewDiffView()
	view.SetDiff(diff.Compute(original, effective), app.Path)
	fmt.Println(view.View())
	return nil
}

// candidates resolves the first target and returns the matching applications
func (a *cli) candidates(target string) (string, []*models.Application, error) {
	mimeTypes, err := contenttype.Resolve(target)
	if err != nil {
		return "", nil, err
	}
	a.log.Debug("resolved target", "target", target, "types", mimeTypes)

	mimeType, apps := a.registry.ApplicationsFor(mimeTypes)
	if len(apps) == 0 {
		return "", nil, fmt.Errorf("no application handles %s", strings.Join(mimeTypes, ", "))
	}
	return mimeType, apps, nil
}

func (a *cli) open(targets []string) error {
	_, apps, err := a.candidates(targets[0])
	if err != nil {
		return err
	}

	app := apps[0]
	a.log.Debug("launching", "app", app.ID, "exec", app.Exec)
	return launch.Start(app, targets)
}

func (a *cli) pick(targets []string) error {
	mimeType, apps, err := a.candidates(targets[0])
	if err != nil {
		return err
	}

	m := newPicker(a.config, a.scanner, targets, mimeType, apps)
	result, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
	if err != nil {
		return err
	}
	if p, ok := result.(*picker); ok && p.err != nil {
		return p.err
	}
	return nil
}

func editExclusions(command, id string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	if command == "exclude" {
		err = cfg.AddExclusion(id)
	} else {
		err = cfg.RemoveExclusion(id)
	}
	if err != nil {
		return err
	}

	if err := cfg.Save(); err != nil {
		return err
	}
	fmt.Println(ui.RenderNotification("success", fmt.Sprintf("%sd %s", command, id)))
	return nil
}
