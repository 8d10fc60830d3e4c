package clean

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/lakshaymaurya-felt/osxmole/internal/config"
	"github.com/lakshaymaurya-felt/osxmole/internal/ignore"
	"github.com/lakshaymaurya-felt/osxmole/internal/logging"
)

// Candidate is a path proposed by a source for cleanup.
type Candidate struct {
	Path     string
	Category string
}

// Source produces the candidates of one category. It has no side effects
// on the filesystem.
type Source struct {
	Kind   Kind
	Layout config.Layout

	// LargeFileThreshold is the minimum size of a Large Files candidate.
	LargeFileThreshold int64

	// Workers bounds concurrent directory reads during the Large Files walk.
	Workers int

	// Volumes optionally lists mounted volumes whose .Trashes directories
	// are added to the Trash category.
	Volumes func(ctx context.Context) []string

	Log *slog.Logger
}

// SourceOptions are shared by every source built with NewSources.
type SourceOptions struct {
	Layout             config.Layout
	LargeFileThreshold int64
	Workers            int
	Volumes            func(ctx context.Context) []string
	Log                *slog.Logger
}

// NewSources builds one source per kind.
func NewSources(kinds []Kind, opts SourceOptions) []Source {
	sources := make([]Source, 0, len(kinds))
	for _, k := range kinds {
		sources = append(sources, Source{
			Kind:               k,
			Layout:             opts.Layout,
			LargeFileThreshold: opts.LargeFileThreshold,
			Workers:            opts.Workers,
			Volumes:            opts.Volumes,
			Log:                opts.Log,
		})
	}
	return sources
}

// RequiresAdmin reports whether the category needs elevated privileges to
// be cleaned completely.
func (s Source) RequiresAdmin() bool {
	t, ok := config.GetTarget(s.Layout, s.Kind.String())
	return ok && t.RequiresAdmin
}

// Candidates discovers the category's paths. The only errors returned are
// structural ones (a malformed glob pattern, an unknown kind); unreadable
// locations are logged and skipped.
func (s Source) Candidates(ctx context.Context) ([]Candidate, error) {
	var (
		paths []string
		err   error
	)

	switch s.Kind {
	case KindSystemCaches, KindUserCaches, KindUserLogs, KindCrashReports, KindBrowserCaches:
		paths, err = s.targetPaths()
	case KindTrash:
		paths, err = s.trashPaths(ctx)
	case KindTemporaryFiles:
		paths = s.tempPaths()
	case KindLargeFiles:
		paths, err = s.largeFiles(ctx)
	default:
		return nil, fmt.Errorf("unknown cleanup category %v", s.Kind)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", s.Kind, err)
	}

	out := make([]Candidate, 0, len(paths))
	for _, p := range paths {
		out = append(out, Candidate{Path: p, Category: s.Kind.String()})
	}
	return out, nil
}

func (s Source) logger() *slog.Logger {
	if s.Log != nil {
		return s.Log
	}
	return logging.Discard()
}

// targetPaths returns the fixed paths plus the directory matches of the
// glob patterns configured for the category.
func (s Source) targetPaths() ([]string, error) {
	t, ok := config.GetTarget(s.Layout, s.Kind.String())
	if !ok {
		return nil, fmt.Errorf("no target definition")
	}

	paths := append([]string(nil), t.Paths...)
	matches, err := s.expandDirs(t.Patterns)
	if err != nil {
		return nil, err
	}
	return dedupe(append(paths, matches...)), nil
}

// trashPaths returns ~/.Trash, every /Volumes/*/.Trashes and the .Trashes
// of any extra mounted volume.
func (s Source) trashPaths(ctx context.Context) ([]string, error) {
	paths, err := s.targetPaths()
	if err != nil {
		return nil, err
	}
	if s.Volumes == nil {
		return paths, nil
	}

	for _, mount := range s.Volumes(ctx) {
		dir := filepath.Join(mount, ".Trashes")
		if info, err := os.Stat(dir); err == nil && info.IsDir() {
			paths = append(paths, dir)
		}
	}
	return dedupe(paths), nil
}

// expandDirs expands glob patterns and keeps only directories.
func (s Source) expandDirs(patterns []string) ([]string, error) {
	log := s.logger()
	var dirs []string
	for _, pattern := range patterns {
		matches, err := doublestar.FilepathGlob(pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid glob pattern %q: %w", pattern, err)
		}
		for _, m := range matches {
			info, err := os.Stat(m)
			if err != nil || !info.IsDir() {
				log.Debug("skipping non-directory match", "category", s.Kind.String(), "path", m)
				continue
			}
			dirs = append(dirs, m)
		}
	}
	return dirs, nil
}

// tempPaths enumerates the immediate children of each temp root. The roots
// themselves and the active temporary directory never become candidates.
func (s Source) tempPaths() []string {
	log := s.logger()

	var active string
	if s.Layout.ActiveTemp != "" {
		active = ignore.Canonical(s.Layout.ActiveTemp)
	}

	var paths []string
	seenRoot := make(map[string]bool)
	for _, root := range config.TempRoots(s.Layout) {
		canonicalRoot := ignore.Canonical(root)
		// /tmp and /private/tmp are the same directory on macOS.
		if seenRoot[canonicalRoot] {
			continue
		}
		seenRoot[canonicalRoot] = true

		entries, err := os.ReadDir(canonicalRoot)
		if err != nil {
			log.Debug("cannot read temporary directory", "path", canonicalRoot, "error", err)
			continue
		}

		for _, e := range entries {
			path := filepath.Join(canonicalRoot, e.Name())
			if path == canonicalRoot {
				continue
			}
			if s.Layout.ActiveTemp != "" &&
				(path == s.Layout.ActiveTemp || ignore.Canonical(path) == active) {
				log.Debug("skipping active TMPDIR entry", "path", path)
				continue
			}
			paths = append(paths, path)
		}
	}
	return paths
}

// dedupe removes repeated paths, preserving first-seen order.
func dedupe(paths []string) []string {
	seen := make(map[string]bool, len(paths))
	out := paths[:0]
	for _, p := range paths {
		if seen[p] {
			continue
		}
		seen[p] = true
		out = append(out, p)
	}
	return out
}
