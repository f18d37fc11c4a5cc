package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"junction/internal/sandbox"

	"github.com/adrg/xdg"
	"gopkg.in/yaml.v3"
)

// Sandbox modes
const (
	SandboxAuto   = "auto"   // Detect Flatpak/Snap at startup
	SandboxAlways = "always" // Always rewrite commands for the host
	SandboxNever  = "never"  // Never rewrite commands
)

// configFileName is the name of the config file
const configFileName = "config.yaml"

// Config holds the application configuration
type Config struct {
	ExcludedApps []string `yaml:"excluded_apps"` // Extra application IDs to hide
	ExtraDirs    []string `yaml:"extra_dirs"`    // Extra directories to scan
	Sandbox      string   `yaml:"sandbox"`       // auto, always or never
	FirstRun     bool     `yaml:"-"`             // No config file yet

	path string
}

// Default returns the default configuration
func Default() *Config {
	return &Config{
		ExcludedApps: []string{},
		ExtraDirs:    []string{},
		Sandbox:      SandboxAuto,
		FirstRun:     true,
		path:         ConfigPath(),
	}
}

// ConfigDir returns the directory containing junction config files
func ConfigDir() string {
	return filepath.Join(xdg.ConfigHome, "junction")
}

// ConfigPath returns the path to the config file
func ConfigPath() string {
	return filepath.Join(ConfigDir(), configFileName)
}

// Load loads the configuration from the default path
func Load() (*Config, error) {
	return LoadFrom(ConfigPath())
}

// LoadFrom loads the configuration from path. A missing file yields the
// defaults with FirstRun set.
func LoadFrom(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg := Default()
			cfg.path = path
			return cfg, nil
		}
		return nil, err
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}

	cfg.FirstRun = false
	cfg.path = path
	return cfg, nil
}

// Path returns the file the configuration is saved to
func (c *Config) Path() string {
	if c.path == "" {
		return ConfigPath()
	}
	return c.path
}

// Save saves the configuration to file
func (c *Config) Save() error {
	path := c.Path()

	// Create config directory
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return err
	}
	c.FirstRun = false
	return nil
}

// AddExclusion adds an application ID to the exclusion list
func (c *Config) AddExclusion(id string) error {
	id, err := normalizeID(id)
	if err != nil {
		return err
	}

	for _, existing := range c.ExcludedApps {
		if existing == id {
			return fmt.Errorf("application %q is already excluded", id)
		}
	}

	c.ExcludedApps = append(c.ExcludedApps, id)
	return nil
}

// RemoveExclusion removes an application ID from the exclusion list
func (c *Config) RemoveExclusion(id string) error {
	id, err := normalizeID(id)
	if err != nil {
		return err
	}

	for i, existing := range c.ExcludedApps {
		if existing == id {
			c.ExcludedApps = append(c.ExcludedApps[:i], c.ExcludedApps[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("application %q is not excluded", id)
}

// SandboxDetector returns the detector matching the sandbox mode
func (c *Config) SandboxDetector() sandbox.Detector {
	switch c.Sandbox {
	case SandboxAlways:
		return sandbox.Static(true)
	case SandboxNever:
		return sandbox.Static(false)
	default:
		return sandbox.Environment{}
	}
}

// Dirs returns the extra directories with ~ expanded
func (c *Config) Dirs() []string {
	dirs := make([]string, 0, len(c.ExtraDirs))
	for _, dir := range c.ExtraDirs {
		if dir = expandPath(strings.TrimSpace(dir)); dir != "" {
			dirs = append(dirs, dir)
		}
	}
	return dirs
}

func (c *Config) validate() error {
	switch c.Sandbox {
	case "":
		c.Sandbox = SandboxAuto
	case SandboxAuto, SandboxAlways, SandboxNever:
	default:
		return fmt.Errorf("unknown sandbox mode %q", c.Sandbox)
	}
	return nil
}

func normalizeID(id string) (string, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return "", errors.New("application id is required")
	}
	if strings.ContainsRune(id, filepath.Separator) {
		return "", fmt.Errorf("application id %q must be a file name", id)
	}
	if !strings.HasSuffix(id, ".desktop") {
		id += ".desktop"
	}
	return id, nil
}

func expandPath(path string) string {
	if path == "~" {
		return xdg.Home
	}
	if strings.HasPrefix(path, "~/") {
		return filepath.Join(xdg.Home, path[2:])
	}
	return path
}
