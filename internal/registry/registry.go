// Package registry holds the applications discovered at startup and answers
// content type queries against them.
package registry

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"junction/internal/logging"
	"junction/internal/models"

	"golang.org/x/sync/errgroup"
)

// DirScanner scans one directory for usable applications
type DirScanner interface {
	ScanDir(dir string) ([]*models.Application, error)
}

// Registry is the process-lifetime collection of applications.
// It is built once; later builds are no-ops while it holds applications.
type Registry struct {
	scanner DirScanner
	dirs    []string
	log     *slog.Logger

	mu   sync.RWMutex
	apps []*models.Application
}

// New creates an empty registry that scans dirs with scanner
func New(scanner DirScanner, dirs []string, log *slog.Logger) *Registry {
	return &Registry{
		scanner: scanner,
		dirs:    append([]string(nil), dirs...),
		log:     logging.OrDiscard(log),
	}
}

// Dirs returns the directories the registry scans
func (r *Registry) Dirs() []string {
	return append([]string(nil), r.dirs...)
}

// Init builds the registry and logs any failure instead of returning it
func (r *Registry) Init() {
	if err := r.Build(); err != nil {
		r.log.Error("failed to load applications", "err", err)
	}
}

// Build scans all directories concurrently and replaces the registry
// contents. It does nothing if the registry already holds applications.
//
// When a directory fails hard, the applications found elsewhere are still
// stored and the first failure is returned.
func (r *Registry) Build() error {
	if r.Len() > 0 {
		return nil
	}

	start := time.Now()
	results := make([][]*models.Application, len(r.dirs))

	var g errgroup.Group
	for i, dir := range r.dirs {
		i, dir := i, dir
		g.Go(func() error {
			apps, err := r.scanner.ScanDir(dir)
			if err != nil {
				return fmt.Errorf("scan %s: %w", dir, err)
			}
			results[i] = apps
			return nil
		})
	}
	err := g.Wait()

	apps := merge(results)

	r.mu.Lock()
	r.apps = apps
	r.mu.Unlock()

	r.log.Debug("loaded applications", "count", len(apps), "dirs", len(r.dirs), "took", time.Since(start))
	return err
}

// merge concatenates per-directory results in directory order, keeping the
// first application for each ID
func merge(results [][]*models.Application) []*models.Application {
	seen := make(map[string]bool)
	var apps []*models.Application
	for _, dirApps := range results {
		for _, app := range dirApps {
			if app == nil || seen[app.ID] {
				continue
			}
			seen[app.ID] = true
			apps = append(apps, app)
		}
	}
	return apps
}

// Applications returns the applications declaring mimeType, in registry order
func (r *Registry) Applications(mimeType string) []*models.Application {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := []*models.Application{}
	for _, app := range r.apps {
		if app.HandlesMimeType(mimeType) {
			result = append(result, app)
		}
	}
	return result
}

// ApplicationsFor returns the applications for the first content type in
// candidates that has any
func (r *Registry) ApplicationsFor(candidates []string) (string, []*models.Application) {
	for _, mimeType := range candidates {
		if apps := r.Applications(mimeType); len(apps) > 0 {
			return mimeType, apps
		}
	}
	return "", []*models.Application{}
}

// All returns every application in registry order
func (r *Registry) All() []*models.Application {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]*models.Application(nil), r.apps...)
}

// Find returns the application with the given ID. The .desktop suffix may
// be omitted.
func (r *Registry) Find(id string) (*models.Application, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, app := range r.apps {
		if app.ID == id || app.BaseName() == id {
			return app, true
		}
	}
	return nil, false
}

// Len returns the number of applications
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.apps)
}
