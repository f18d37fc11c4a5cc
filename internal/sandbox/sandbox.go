// Package sandbox detects Flatpak/Snap isolation and prepares command lines
// that must run on the host rather than inside the sandbox.
package sandbox

import (
	"os"
	"path/filepath"
	"strings"
)

const (
	// HostSpawn is the command that forwards execution to the host
	HostSpawn = "flatpak-spawn"

	// HostRoot is where the host filesystem is mounted inside the sandbox
	HostRoot = "/run/host"

	flatpakInfoPath = "/.flatpak-info"
)

// Detector answers whether the process runs under sandbox isolation
type Detector interface {
	UnderSandbox() bool
}

// Static is a Detector with a fixed answer
type Static bool

// UnderSandbox returns the fixed answer
func (s Static) UnderSandbox() bool {
	return bool(s)
}

// Environment detects the sandbox from the running environment
type Environment struct {
	// Root is prepended to well-known paths; empty means "/"
	Root string
	// Getenv defaults to os.Getenv
	Getenv func(string) string
}

// UnderSandbox reports whether this process runs inside Flatpak or Snap
func (e Environment) UnderSandbox() bool {
	return e.UnderFlatpak() || e.UnderSnap()
}

// UnderFlatpak reports whether /.flatpak-info exists
func (e Environment) UnderFlatpak() bool {
	_, err := os.Stat(filepath.Join(e.root(), flatpakInfoPath))
	return err == nil
}

// UnderSnap reports whether the snap runtime environment is set
func (e Environment) UnderSnap() bool {
	getenv := e.Getenv
	if getenv == nil {
		getenv = os.Getenv
	}
	return getenv("SNAP") != "" && getenv("SNAP_NAME") != ""
}

func (e Environment) root() string {
	if e.Root == "" {
		return "/"
	}
	return e.Root
}

// Detect reports whether the current process runs under sandbox isolation
func Detect() bool {
	return Environment{}.UnderSandbox()
}

// PrefixCommandLineForHost returns a command line that, run inside the
// sandbox, executes commandLine on the host
func PrefixCommandLineForHost(commandLine string) string {
	return HostSpawn + " --host " + commandLine
}

// IsHostCommand reports whether commandLine already targets the host
func IsHostCommand(commandLine string) bool {
	return strings.HasPrefix(strings.TrimSpace(commandLine), HostSpawn)
}

// HostPath maps a host absolute path to its location inside the sandbox
func HostPath(path string) string {
	return filepath.Join(HostRoot, path)
}
