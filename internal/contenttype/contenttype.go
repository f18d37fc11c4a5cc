// Package contenttype resolves the content type of a file or URI that the
// user wants to open.
package contenttype

import (
	"fmt"
	"net/url"
	"os"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// SchemeHandlerPrefix prefixes pseudo content types for URI schemes
const SchemeHandlerPrefix = "x-scheme-handler/"

// Directory is the content type of folders
const Directory = "inode/directory"

// Resolve returns the candidate content types for target, most specific
// first. Targets with a URI scheme other than file map to a scheme handler;
// everything else is treated as a local path and sniffed.
func Resolve(target string) ([]string, error) {
	target = strings.TrimSpace(target)
	if target == "" {
		return nil, fmt.Errorf("empty target")
	}

	if scheme, path, ok := splitURI(target); ok {
		if scheme != "file" {
			return []string{SchemeHandlerPrefix + scheme}, nil
		}
		target = path
	}

	return ResolveFile(target)
}

// ResolveFile sniffs a local file and returns its content type followed by
// its parent types
func ResolveFile(path string) ([]string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if info.IsDir() {
		return []string{Directory}, nil
	}

	m, err := mimetype.DetectFile(path)
	if err != nil {
		return nil, fmt.Errorf("detect %s: %w", path, err)
	}

	var candidates []string
	for ; m != nil; m = m.Parent() {
		candidates = appendUnique(candidates, essence(m.String()))
	}
	return candidates, nil
}

// essence strips parameters such as charset
func essence(mimeType string) string {
	base, _, _ := strings.Cut(mimeType, ";")
	return strings.TrimSpace(base)
}

func splitURI(target string) (scheme, path string, ok bool) {
	u, err := url.Parse(target)
	if err != nil || u.Scheme == "" {
		return "", "", false
	}
	// Windows drive letters and bare "c:" style strings are not URIs
	if len(u.Scheme) == 1 {
		return "", "", false
	}
	scheme = strings.ToLower(u.Scheme)
	return scheme, u.Path, true
}

func appendUnique(list []string, item string) []string {
	if item == "" {
		return list
	}
	for _, existing := range list {
		if existing == item {
			return list
		}
	}
	return append(list, item)
}
