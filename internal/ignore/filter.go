// Package ignore decides whether a candidate path is excluded by the user's
// --ignore (path prefix) or --ignore-match (substring) lists.
package ignore

import (
	"path/filepath"
	"strings"
)

// Mode selects how patterns are compared against candidates.
type Mode int

const (
	// ModePrefix excludes a candidate equal to, or below, a canonical pattern.
	ModePrefix Mode = iota
	// ModeSubstring excludes a candidate whose raw path contains a pattern.
	ModeSubstring
)

// Filter holds a canonicalized ignore list. The zero value ignores nothing.
type Filter struct {
	mode      Mode
	raw       []string
	canonical []string
}

// New builds a prefix-mode filter. Patterns are trimmed and empty entries
// dropped.
func New(patterns []string) *Filter {
	return NewWithMode(patterns, ModePrefix)
}

// NewWithMode builds a filter with an explicit comparison mode.
func NewWithMode(patterns []string, mode Mode) *Filter {
	f := &Filter{mode: mode}
	for _, p := range patterns {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		f.raw = append(f.raw, p)
		f.canonical = append(f.canonical, Canonical(p))
	}
	return f
}

// Patterns returns the trimmed patterns as supplied.
func (f *Filter) Patterns() []string {
	if f == nil {
		return nil
	}
	return append([]string(nil), f.raw...)
}

// Empty reports whether the filter has no patterns.
func (f *Filter) Empty() bool {
	return f == nil || len(f.raw) == 0
}

// Excluded applies the filter's mode.
func (f *Filter) Excluded(path string) bool {
	if f.Empty() {
		return false
	}
	if f.mode == ModeSubstring {
		return f.MatchSubstring(path)
	}
	return f.Match(path)
}

// Match reports whether the canonical form of path equals, or descends from,
// the canonical form of any pattern.
func (f *Filter) Match(path string) bool {
	if f.Empty() {
		return false
	}
	c := Canonical(path)
	for _, p := range f.canonical {
		if Within(c, p) {
			return true
		}
	}
	return false
}

// MatchSubstring reports whether the raw path contains any trimmed pattern.
// It is the coarse mode used before canonicalization is meaningful.
func (f *Filter) MatchSubstring(path string) bool {
	if f.Empty() {
		return false
	}
	for _, p := range f.raw {
		if strings.Contains(path, p) {
			return true
		}
	}
	return false
}

// Below returns the prefix patterns whose canonical form lies strictly
// below path. Removing path whole also removes everything those patterns
// name, so the caller can tell the user they have no effect.
func (f *Filter) Below(path string) []string {
	if f.Empty() || f.mode != ModePrefix {
		return nil
	}
	c := Canonical(path)
	var out []string
	for i, p := range f.canonical {
		if p != c && Within(p, c) {
			out = append(out, f.raw[i])
		}
	}
	return out
}

// Canonical resolves path to an absolute, symlink-free form. When the path
// itself does not exist, its deepest existing ancestor is resolved and the
// missing tail re-attached, so "/tmp/gone" and "/private/tmp/gone" agree on
// macOS. If nothing resolves, the cleaned absolute literal is returned.
func Canonical(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		return filepath.Clean(path)
	}

	dir, tail := abs, ""
	for {
		if resolved, err := filepath.EvalSymlinks(dir); err == nil {
			return filepath.Join(resolved, tail)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return abs
		}
		tail = filepath.Join(filepath.Base(dir), tail)
		dir = parent
	}
}

// Within reports whether path equals root or lies below it, comparing whole
// path components ("/tmp/ab" is not within "/tmp/a").
func Within(path, root string) bool {
	if path == root {
		return true
	}
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

// ExpandHome replaces a leading "~" in each pattern with home. Shells only
// expand the first element of a comma-separated flag value.
func ExpandHome(patterns []string, home string) []string {
	out := make([]string, len(patterns))
	for i, p := range patterns {
		p = strings.TrimSpace(p)
		switch {
		case p == "~":
			p = home
		case strings.HasPrefix(p, "~/"):
			p = filepath.Join(home, p[2:])
		}
		out[i] = p
	}
	return out
}
