package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/lakshaymaurya-felt/osxmole/internal/core"
)

// Layout anchors every well-known location. Production uses Root "/", the
// real home directory and $TMPDIR; tests relocate Root and Home under a
// temporary directory.
type Layout struct {
	// Root is the filesystem root system locations are resolved under.
	Root string

	// Home is the user's home directory.
	Home string

	// ActiveTemp is the per-user temporary directory in use by running
	// processes ($TMPDIR). It is never deleted.
	ActiveTemp string
}

// DefaultLayout reads the layout from the environment.
func DefaultLayout() Layout {
	home := os.Getenv("HOME")
	if home == "" {
		home, _ = os.UserHomeDir()
	}
	return Layout{
		Root:       "/",
		Home:       home,
		ActiveTemp: activeTemp(),
	}
}

// activeTemp returns $TMPDIR cleaned of its trailing slash, or "" when unset.
func activeTemp() string {
	t := strings.TrimSpace(os.Getenv("TMPDIR"))
	if t == "" {
		return ""
	}
	return filepath.Clean(t)
}

// System joins parts under the layout root.
func (l Layout) System(parts ...string) string {
	root := l.Root
	if root == "" {
		root = "/"
	}
	return filepath.Join(append([]string{root}, parts...)...)
}

// User joins parts under the home directory.
func (l Layout) User(parts ...string) string {
	return filepath.Join(append([]string{l.Home}, parts...)...)
}

// CleanTarget represents a category of files that can be cleaned.
type CleanTarget struct {
	// Name is the display name, also used as the outcome category.
	Name string

	// Paths is the list of fixed filesystem paths to clean.
	Paths []string

	// Patterns are glob patterns expanded at discovery time; only
	// directories are kept.
	Patterns []string

	// Description is a human-readable description.
	Description string

	// RequiresAdmin indicates whether elevated privileges are needed.
	RequiresAdmin bool

	// Group is a coarse grouping ("system", "user", "browser").
	Group string
}

// Display names of the cleanup categories.
const (
	NameSystemCaches   = "System Caches"
	NameUserCaches     = "User Caches"
	NameTemporaryFiles = "Temporary Files"
	NameUserLogs       = "User Logs"
	NameCrashReports   = "Crash Reporter Logs"
	NameTrash          = "Trash Bins"
	NameBrowserCaches  = "Browser Caches"
	NameLargeFiles     = "Large Files"
)

// GetCleanTargets returns the fixed-path and pattern-based cleanup targets
// with paths resolved against the layout.
func GetCleanTargets(l Layout) []CleanTarget {
	return []CleanTarget{
		// ── Caches ──────────────────────────────────────────────
		{
			Name: NameSystemCaches,
			Paths: []string{
				l.System("Library", "Caches"),
				l.System("System", "Library", "Caches"),
			},
			Description:   "System-wide application caches",
			RequiresAdmin: true,
			Group:         "system",
		},
		{
			Name:        NameUserCaches,
			Paths:       []string{l.User("Library", "Caches")},
			Description: "Per-user application caches",
			Group:       "user",
		},

		// ── Logs ────────────────────────────────────────────────
		{
			Name:        NameUserLogs,
			Paths:       []string{l.User("Library", "Logs")},
			Description: "Per-user application logs",
			Group:       "user",
		},
		{
			Name:        NameCrashReports,
			Paths:       []string{l.User("Library", "Application Support", "CrashReporter")},
			Description: "Crash reporter logs",
			Group:       "user",
		},

		// ── Trash ───────────────────────────────────────────────
		{
			Name:        NameTrash,
			Paths:       []string{l.User(".Trash")},
			Patterns:    []string{filepath.Join(core.EscapeGlob(l.System("Volumes")), "*", ".Trashes")},
			Description: "User Trash and per-volume trash bins",
			Group:       "user",
		},

		// ── Browser Caches ──────────────────────────────────────
		{
			Name:        NameBrowserCaches,
			Patterns:    browserCachePatterns(l),
			Description: "Chrome, Brave, Edge, Firefox and Safari caches",
			Group:       "browser",
		},
	}
}

// GetTarget returns the target with the given name.
func GetTarget(l Layout, name string) (CleanTarget, bool) {
	for _, t := range GetCleanTargets(l) {
		if t.Name == name {
			return t, true
		}
	}
	return CleanTarget{}, false
}

// browserCachePatterns covers the cache directories (not their contents) of
// the common browsers, including every Chromium profile. The layout prefix
// is escaped so a home directory containing glob metacharacters matches
// literally.
func browserCachePatterns(l Layout) []string {
	caches := core.EscapeGlob(l.User("Library", "Caches"))
	support := core.EscapeGlob(l.User("Library", "Application Support"))

	var patterns []string
	chromium := []string{
		filepath.Join("Google", "Chrome"),
		filepath.Join("BraveSoftware", "Brave-Browser"),
		"Microsoft Edge",
	}
	for _, vendor := range chromium {
		patterns = append(patterns,
			filepath.Join(caches, vendor, "*", "Cache"),
			filepath.Join(support, vendor, "*", "Cache"),
			filepath.Join(support, vendor, "*", "Code Cache"),
			filepath.Join(support, vendor, "*", "GPUCache"),
			filepath.Join(support, vendor, "*", "Service Worker", "CacheStorage"),
		)
	}

	patterns = append(patterns,
		filepath.Join(caches, "Firefox", "Profiles", "*", "cache2"),
		filepath.Join(caches, "Firefox", "Profiles", "*", "startupCache"),
		filepath.Join(caches, "com.apple.Safari", "WebKitCache"),
		filepath.Join(caches, "com.apple.Safari", "fsCachedData"),
	)
	return patterns
}

// TempRoots returns the shared temporary directories whose children are
// cleanup candidates. On macOS /tmp links to /private/tmp.
func TempRoots(l Layout) []string {
	return []string{
		l.System("tmp"),
		l.System("private", "tmp"),
		l.System("var", "tmp"),
	}
}

// LargeFileDirs returns the user directories walked for oversized files.
func LargeFileDirs(l Layout) []string {
	names := []string{"Downloads", "Desktop", "Documents", "Movies", "Music", "Pictures"}
	dirs := make([]string, 0, len(names))
	for _, n := range names {
		dirs = append(dirs, l.User(n))
	}
	return dirs
}

// ProtectedTemp returns the locations the engine must always skip: every
// temp root and the active temporary directory.
func ProtectedTemp(l Layout) []string {
	out := TempRoots(l)
	if l.ActiveTemp != "" {
		out = append(out, l.ActiveTemp)
	}
	return out
}

// LaunchItemDirs returns the launch agent and daemon directories.
func LaunchItemDirs(l Layout) []string {
	return []string{
		l.System("Library", "LaunchAgents"),
		l.System("Library", "LaunchDaemons"),
		l.User("Library", "LaunchAgents"),
	}
}

// ReceiptDirs returns the package receipt directories.
func ReceiptDirs(l Layout) []string {
	return []string{
		l.System("var", "db", "receipts"),
		l.System("Library", "Receipts"),
	}
}

// HomebrewCellars returns the candidate Homebrew Cellar directories.
func HomebrewCellars(l Layout) []string {
	return []string{
		l.System("opt", "homebrew", "Cellar"),
		l.System("usr", "local", "Cellar"),
	}
}
