// Package desktop loads freedesktop.org desktop entry files.
//
// Descriptors are parsed with gopkg.in/ini.v1 using options that keep
// desktop-entry values intact (';' and '#' are not comment markers inside
// values, quotes are preserved, no line continuations). The parsed entry is
// mutable so callers can rewrite keys before building an application record.
package desktop

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"gopkg.in/ini.v1"
)

// Group and key names from the Desktop Entry specification
const (
	GroupDesktopEntry = "Desktop Entry"

	KeyType      = "Type"
	KeyName      = "Name"
	KeyIcon      = "Icon"
	KeyNoDisplay = "NoDisplay"
	KeyHidden    = "Hidden"
	KeyTryExec   = "TryExec"
	KeyExec      = "Exec"
	KeyTerminal  = "Terminal"
	KeyMimeType  = "MimeType"

	TypeApplication = "Application"

	// Suffix is the file name suffix of desktop entries
	Suffix = ".desktop"
)

var (
	// ErrMissingGroup means the file has no [Desktop Entry] group
	ErrMissingGroup = errors.New("missing [Desktop Entry] group")

	// ErrMissingExec means the entry has no Exec key
	ErrMissingExec = errors.New("missing Exec key")

	// ErrNotApplication means the entry Type is not Application
	ErrNotApplication = errors.New("entry type is not Application")
)

func init() {
	// Keep written descriptors in key=value form
	ini.PrettyFormat = false
}

var loadOptions = ini.LoadOptions{
	IgnoreInlineComment:      true,
	IgnoreContinuation:       true,
	PreserveSurroundedQuote:  true,
	KeyValueDelimiters:       "=",
	KeyValueDelimiterOnWrite: "=",
}

// Entry is a parsed desktop entry
type Entry struct {
	file    *ini.File
	section *ini.Section
}

// Parse parses the contents of a desktop entry file
func Parse(data []byte) (*Entry, error) {
	f, err := ini.LoadSources(loadOptions, data)
	if err != nil {
		return nil, fmt.Errorf("parse key file: %w", err)
	}

	section, err := f.GetSection(GroupDesktopEntry)
	if err != nil {
		return nil, ErrMissingGroup
	}

	return &Entry{file: f, section: section}, nil
}

// Value returns the raw value of a key and whether it is present
func (e *Entry) Value(key string) (string, bool) {
	if !e.section.HasKey(key) {
		return "", false
	}
	return e.section.Key(key).String(), true
}

// String returns the value of a key with desktop-entry escapes resolved.
// Missing keys yield an empty string.
func (e *Entry) String(key string) string {
	v, ok := e.Value(key)
	if !ok {
		return ""
	}
	return unescape(v)
}

// Bool returns a boolean key. Missing or unparsable keys yield false.
func (e *Entry) Bool(key string) bool {
	if !e.section.HasKey(key) {
		return false
	}
	b, err := e.section.Key(key).Bool()
	if err != nil {
		return false
	}
	return b
}

// StringList returns a ';' separated list, skipping empty items
func (e *Entry) StringList(key string) []string {
	if !e.section.HasKey(key) {
		return []string{}
	}

	items := e.section.Key(key).Strings(";")
	result := make([]string, 0, len(items))
	for _, item := range items {
		if item = strings.TrimSpace(item); item != "" {
			result = append(result, item)
		}
	}
	return result
}

// SetValue sets the raw value of a key, creating it when missing
func (e *Entry) SetValue(key, value string) {
	if e.section.HasKey(key) {
		e.section.Key(key).SetValue(value)
		return
	}
	_, _ = e.section.NewKey(key, value)
}

// RemoveKey deletes a key. Removing a missing key is a no-op.
func (e *Entry) RemoveKey(key string) {
	e.section.DeleteKey(key)
}

// HasKey reports whether the key is present in the [Desktop Entry] group
func (e *Entry) HasKey(key string) bool {
	return e.section.HasKey(key)
}

// Text renders the entry back to key file form
func (e *Entry) Text() (string, error) {
	var buf bytes.Buffer
	if _, err := e.file.WriteTo(&buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}

var escapeReplacer = strings.NewReplacer(
	`\s`, " ",
	`\n`, "\n",
	`\t`, "\t",
	`\r`, "\r",
	`\\`, `\`,
)

func unescape(s string) string {
	if !strings.Contains(s, `\`) {
		return s
	}
	return escapeReplacer.Replace(s)
}
