// Package logging builds the structured logger shared by all packages.
package logging

import (
	"io"
	"log/slog"
	"os"
)

// New creates a text logger writing to w. Debug enables debug records.
func New(w io.Writer, debug bool) *slog.Logger {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// Stderr creates a logger writing to standard error
func Stderr(debug bool) *slog.Logger {
	return New(os.Stderr, debug)
}

// Discard returns a logger that drops every record
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// OrDiscard returns l, or a discarding logger when l is nil
func OrDiscard(l *slog.Logger) *slog.Logger {
	if l == nil {
		return Discard()
	}
	return l
}
