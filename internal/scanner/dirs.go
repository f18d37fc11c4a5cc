package scanner

import (
	"path/filepath"

	"junction/internal/sandbox"

	"github.com/adrg/xdg"
)

// systemDirs are host paths holding system-wide and exported applications
var systemDirs = []string{
	"/usr/share/applications",
	"/var/lib/flatpak/exports/share/applications",
	"/var/lib/snapd/desktop/applications",
}

// Dirs returns the application directories to scan, user directories first.
// The home directory is mounted transparently in the sandbox, while system
// paths go through the host mount.
func Dirs(home string, sandboxed bool) []string {
	dirs := []string{
		filepath.Join(home, ".local", "share", "applications"),
		filepath.Join(home, ".local", "share", "flatpak", "exports", "share", "applications"),
	}

	for _, dir := range systemDirs {
		if sandboxed {
			dir = sandbox.HostPath(dir)
		}
		dirs = append(dirs, dir)
	}

	return dirs
}

// DefaultDirs returns Dirs for the current user's home directory
func DefaultDirs(sandboxed bool) []string {
	return Dirs(xdg.Home, sandboxed)
}
