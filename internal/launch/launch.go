// Package launch starts applications from their Exec command line.
package launch

import (
	"errors"
	"fmt"
	"net/url"
	"os/exec"
	"path/filepath"
	"strings"

	"junction/internal/models"

	"github.com/google/shlex"
)

// ErrEmptyCommand means the Exec line produced no program
var ErrEmptyCommand = errors.New("empty command line")

// Args expands the application's Exec line into an argument vector.
//
// Field codes follow the Desktop Entry specification: %f/%u take the first
// target, %F/%U take all targets, %i, %c and %k expand to the icon, name and
// descriptor path, %% is a literal percent, and deprecated codes are dropped.
func Args(app *models.Application, targets []string) ([]string, error) {
	tokens, err := shlex.Split(app.Exec)
	if err != nil {
		return nil, fmt.Errorf("split Exec of %s: %w", app.ID, err)
	}

	var args []string
	for _, token := range tokens {
		switch token {
		case "%f":
			if len(targets) > 0 {
				args = append(args, toPath(targets[0]))
			}
		case "%F":
			for _, t := range targets {
				args = append(args, toPath(t))
			}
		case "%u":
			if len(targets) > 0 {
				args = append(args, targets[0])
			}
		case "%U":
			args = append(args, targets...)
		case "%i":
			if app.Icon != "" {
				args = append(args, "--icon", app.Icon)
			}
		default:
			if expanded := expandInline(token, app); expanded != "" {
				args = append(args, expanded)
			}
		}
	}

	if len(args) == 0 {
		return nil, ErrEmptyCommand
	}
	return args, nil
}

// expandInline expands field codes embedded inside a larger argument
func expandInline(token string, app *models.Application) string {
	if !strings.Contains(token, "%") {
		return token
	}

	var b strings.Builder
	for i := 0; i < len(token); i++ {
		if token[i] != '%' || i+1 >= len(token) {
			b.WriteByte(token[i])
			continue
		}
		i++
		switch token[i] {
		case '%':
			b.WriteByte('%')
		case 'c':
			b.WriteString(app.Name)
		case 'k':
			b.WriteString(app.Path)
		default:
			// File codes are only valid as standalone arguments;
			// deprecated codes expand to nothing
		}
	}
	return b.String()
}

// toPath converts file:// URIs to local paths for %f and %F
func toPath(target string) string {
	u, err := url.Parse(target)
	if err != nil || u.Scheme != "file" {
		return target
	}
	return filepath.FromSlash(u.Path)
}

// Command returns the command that opens targets with app
func Command(app *models.Application, targets []string) (*exec.Cmd, error) {
	args, err := Args(app, targets)
	if err != nil {
		return nil, err
	}
	return exec.Command(args[0], args[1:]...), nil
}

// Start launches app with targets and does not wait for it to exit
func Start(app *models.Application, targets []string) error {
	cmd, err := Command(app, targets)
	if err != nil {
		return err
	}
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start %s: %w", app.ID, err)
	}
	return cmd.Process.Release()
}
