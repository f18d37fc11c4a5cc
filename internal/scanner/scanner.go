package scanner

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"junction/internal/desktop"
	"junction/internal/logging"
	"junction/internal/models"
	"junction/internal/sandbox"

	"github.com/google/shlex"
)

// DefaultExcluded lists application IDs that never enter the registry
var DefaultExcluded = []string{
	// Ourselves
	"re.sonny.Junction.desktop",
	// Braus does the same job as Junction
	"com.properlypurple.braus.desktop",
	// SpaceFM registers itself for URLs
	"spacefm.desktop",
}

var (
	// ErrExecNotFound means the program named by Exec is not on PATH
	ErrExecNotFound = errors.New("program in Exec not found")

	// ErrTryExecNotFound means the TryExec program is not on PATH
	ErrTryExecNotFound = errors.New("program in TryExec not found")
)

// Scanner turns directories of desktop entries into application records
type Scanner struct {
	sandboxed bool
	excluded  map[string]bool
	lookPath  func(string) (string, error)
	log       *slog.Logger
}

// Option configures a Scanner
type Option func(*Scanner)

// WithLogger sets the logger used for skipped entries
func WithLogger(l *slog.Logger) Option {
	return func(s *Scanner) {
		s.log = logging.OrDiscard(l)
	}
}

// WithExcluded adds application IDs to the exclusion set
func WithExcluded(ids ...string) Option {
	return func(s *Scanner) {
		for _, id := range ids {
			if id = strings.TrimSpace(id); id != "" {
				s.excluded[id] = true
			}
		}
	}
}

// WithLookPath replaces exec.LookPath for program validation
func WithLookPath(fn func(string) (string, error)) Option {
	return func(s *Scanner) {
		s.lookPath = fn
	}
}

// New creates a new Scanner. The detector is queried once.
func New(detector sandbox.Detector, opts ...Option) *Scanner {
	s := &Scanner{
		sandboxed: detector != nil && detector.UnderSandbox(),
		excluded:  make(map[string]bool),
		lookPath:  exec.LookPath,
		log:       logging.Discard(),
	}
	for _, id := range DefaultExcluded {
		s.excluded[id] = true
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Sandboxed reports whether the scanner rewrites commands for the host
func (s *Scanner) Sandboxed() bool {
	return s.sandboxed
}

// IsExcluded reports whether the application ID is in the exclusion set
func (s *Scanner) IsExcluded(id string) bool {
	return s.excluded[id]
}

// ScanDir returns the usable applications described in dir.
// A missing path or a path that is not a directory yields no applications
// and no error. Unreadable or malformed files are logged and skipped.
func (s *Scanner) ScanDir(dir string) ([]*models.Application, error) {
	start := time.Now()

	info, err := os.Stat(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) || errors.Is(err, syscall.ENOTDIR) {
			s.log.Debug("skipping missing directory", "dir", dir)
			return nil, nil
		}
		return nil, fmt.Errorf("stat %s: %w", dir, err)
	}
	if !info.IsDir() {
		s.log.Debug("skipping non-directory", "dir", dir)
		return nil, nil
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read dir %s: %w", dir, err)
	}

	var apps []*models.Application
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasPrefix(name, ".") || !strings.HasSuffix(name, desktop.Suffix) {
			continue
		}

		path := filepath.Join(dir, name)
		if !isRegularFile(path, entry) {
			continue
		}

		app, err := s.LoadFile(path)
		if err != nil {
			s.log.Warn("could not load desktop entry", "path", path, "err", err)
			continue
		}
		if app != nil {
			apps = append(apps, app)
		}
	}

	s.log.Debug("scanned directory", "dir", dir, "apps", len(apps), "took", time.Since(start))
	return apps, nil
}

// LoadFile reads and filters a single desktop entry.
// It returns nil without error when the entry is filtered out.
func (s *Scanner) LoadFile(path string) (*models.Application, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	entry, err := desktop.Parse(data)
	if err != nil {
		return nil, err
	}

	return s.parseAndFilter(entry, path)
}

// Effective renders the descriptor before and after the host rewrite.
// Both sides go through the key file writer so they differ only in what
// the rewrite changed.
func (s *Scanner) Effective(path string) (string, string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", "", err
	}

	entry, err := desktop.Parse(data)
	if err != nil {
		return "", "", err
	}

	before, err := entry.Text()
	if err != nil {
		return "", "", err
	}
	if _, _, err := s.rewrite(entry); err != nil {
		return "", "", err
	}
	after, err := entry.Text()
	if err != nil {
		return "", "", err
	}
	return before, after, nil
}

// parseAndFilter builds an Application from a parsed entry. Malformed
// entries return an error; entries that are valid but unwanted return nil.
func (s *Scanner) parseAndFilter(entry *desktop.Entry, path string) (*models.Application, error) {
	original, rewritten, err := s.rewrite(entry)
	if err != nil {
		return nil, err
	}

	if err := s.validate(entry); err != nil {
		return nil, err
	}

	app := models.NewApplication(models.ApplicationDefinition{
		Name:          entry.String(desktop.KeyName),
		Icon:          entry.String(desktop.KeyIcon),
		MimeTypes:     entry.StringList(desktop.KeyMimeType),
		NoDisplay:     entry.Bool(desktop.KeyNoDisplay),
		Terminal:      entry.Bool(desktop.KeyTerminal),
		Exec:          entry.String(desktop.KeyExec),
		OriginalExec:  original,
		HostRewritten: rewritten,
		Path:          path,
	})

	switch {
	case entry.Bool(desktop.KeyHidden):
		s.log.Debug("skipping hidden entry", "path", path)
		return nil, nil
	case app.NoDisplay:
		s.log.Debug("skipping NoDisplay entry", "path", path)
		return nil, nil
	case s.IsExcluded(app.ID):
		s.log.Debug("skipping excluded entry", "id", app.ID)
		return nil, nil
	case len(app.MimeTypes) == 0:
		s.log.Debug("skipping entry without MimeType", "path", path)
		return nil, nil
	}

	return app, nil
}

// rewrite prefixes Exec for host execution and drops TryExec when
// sandboxed. It returns the Exec value found in the descriptor and whether
// it was prefixed.
func (s *Scanner) rewrite(entry *desktop.Entry) (string, bool, error) {
	original, ok := entry.Value(desktop.KeyExec)
	if !ok || strings.TrimSpace(original) == "" {
		return "", false, desktop.ErrMissingExec
	}

	if !s.sandboxed {
		return original, false, nil
	}

	rewritten := false
	if !sandbox.IsHostCommand(original) {
		entry.SetValue(desktop.KeyExec, sandbox.PrefixCommandLineForHost(original))
		rewritten = true
	}
	// TryExec would be resolved inside the sandbox
	entry.RemoveKey(desktop.KeyTryExec)

	return original, rewritten, nil
}

// validate applies the checks an application info loader performs.
// Program lookups are skipped when sandboxed since the programs live on
// the host.
func (s *Scanner) validate(entry *desktop.Entry) error {
	if entry.String(desktop.KeyType) != desktop.TypeApplication {
		return desktop.ErrNotApplication
	}

	if s.sandboxed {
		return nil
	}

	if tryExec := entry.String(desktop.KeyTryExec); tryExec != "" {
		if _, err := s.lookPath(tryExec); err != nil {
			return fmt.Errorf("%w: %s", ErrTryExecNotFound, tryExec)
		}
	}

	argv, err := shlex.Split(entry.String(desktop.KeyExec))
	if err != nil {
		return fmt.Errorf("split Exec: %w", err)
	}
	if len(argv) == 0 {
		return desktop.ErrMissingExec
	}
	if _, err := s.lookPath(argv[0]); err != nil {
		return fmt.Errorf("%w: %s", ErrExecNotFound, argv[0])
	}

	return nil
}

// isRegularFile follows symlinks, since exported applications are usually
// symlinks into an installation
func isRegularFile(path string, entry fs.DirEntry) bool {
	if entry.Type().IsRegular() {
		return true
	}
	if entry.Type()&fs.ModeSymlink == 0 {
		return false
	}
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return info.Mode().IsRegular()
}
