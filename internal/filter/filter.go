// Package filter decides which files and directories take part in a scan.
package filter

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// Filter matches file extensions case-insensitively and skips relative paths
// that match any exclude glob.
type Filter struct {
	extensions map[string]bool
	exclude    []string
}

// New builds a Filter. Extensions may be given with or without a leading dot
// and in any case. Exclude patterns use doublestar syntax against
// slash-separated paths relative to the scan root.
func New(extensions, exclude []string) (*Filter, error) {
	for _, pattern := range exclude {
		if !doublestar.ValidatePattern(pattern) {
			return nil, fmt.Errorf("invalid exclude pattern: %s", pattern)
		}
	}
	f := &Filter{
		extensions: make(map[string]bool, len(extensions)),
		exclude:    append([]string(nil), exclude...),
	}
	for _, ext := range extensions {
		ext = strings.ToLower(strings.TrimPrefix(ext, "."))
		if ext != "" {
			f.extensions[ext] = true
		}
	}
	return f, nil
}

// Extension returns the extension of name without the dot. Dotfiles such as
// ".gitignore" and names ending in a dot have no extension.
func Extension(name string) string {
	base := filepath.Base(name)
	ext := filepath.Ext(base)
	if ext == base {
		return ""
	}
	return strings.TrimPrefix(ext, ".")
}

// MatchFile reports whether a file name carries an accepted extension.
func (f *Filter) MatchFile(name string) bool {
	ext := Extension(name)
	if ext == "" {
		return false
	}
	return f.extensions[strings.ToLower(ext)]
}

// Excluded reports whether rel (relative to the scan root, OS separators)
// matches an exclude pattern.
func (f *Filter) Excluded(rel string) bool {
	if len(f.exclude) == 0 {
		return false
	}
	slashed := filepath.ToSlash(rel)
	for _, pattern := range f.exclude {
		if ok, _ := doublestar.Match(pattern, slashed); ok {
			return true
		}
	}
	return false
}
