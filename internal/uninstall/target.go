// Package uninstall removes an application bundle or command-line tool
// together with the files it leaves scattered around the system.
package uninstall

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/lakshaymaurya-felt/osxmole/internal/config"
	"github.com/lakshaymaurya-felt/osxmole/internal/core"
)

// ErrInvalidName is returned for target names that would expand into
// unrelated locations (empty, ".", "..", or containing a path separator).
var ErrInvalidName = errors.New("invalid uninstall target name")

// Kind enumerates the uninstall target kinds. The set is closed.
type Kind int

const (
	KindApp Kind = iota
	KindCLITool
)

// Category labels used on uninstall outcomes.
const (
	CategoryApp        = "Application"
	CategoryCLITool    = "CLI Tool"
	CategoryLaunchItem = "Launch Item"
	CategoryReceipt    = "Package Receipt"
)

// AllKinds lists every target kind.
var AllKinds = []Kind{KindApp, KindCLITool}

func (k Kind) String() string {
	switch k {
	case KindApp:
		return CategoryApp
	case KindCLITool:
		return CategoryCLITool
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Candidate is one path proposed for removal.
type Candidate struct {
	Path     string
	Category string
}

// ValidateName rejects names that are unsafe to substitute into templates.
func ValidateName(name string) error {
	trimmed := strings.TrimSpace(name)
	switch {
	case trimmed == "", trimmed == ".", trimmed == "..":
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	case strings.ContainsRune(trimmed, '/'), strings.ContainsRune(trimmed, filepath.Separator):
		return fmt.Errorf("%w: %q contains a path separator", ErrInvalidName, name)
	}
	return nil
}

// template is one entry of a kind's path template. Glob entries are
// expanded against the filesystem; literal entries are used as is.
type template struct {
	path string
	glob bool
}

func literal(parts ...string) template {
	return template{path: filepath.Join(parts...)}
}

// pattern joins an escaped directory with a glob leaf.
func pattern(dir, leaf string) template {
	return template{path: filepath.Join(core.EscapeGlob(dir), leaf), glob: true}
}

// templates returns the kind's path template for name.
func (k Kind) templates(l config.Layout, name string) []template {
	switch k {
	case KindApp:
		return appTemplates(l, name)
	case KindCLITool:
		return cliTemplates(l, name)
	default:
		return nil
	}
}

func appTemplates(l config.Layout, name string) []template {
	esc := core.EscapeGlob(name)
	lower := strings.ToLower(name)

	t := []template{
		literal(l.System("Applications"), name+".app"),
		literal(l.System("Library", "Application Support"), name),
		literal(l.User("Library", "Application Support"), name),
		literal(l.System("Library", "Preferences"), "com."+lower+".plist"),
		literal(l.User("Library", "Preferences"), "com."+lower+".plist"),
		literal(l.User("Library", "Caches"), name),
		literal(l.User("Library", "Logs"), name),
		literal(l.User("Library", "Saved Application State"), "com."+lower+".savedState"),
		literal(l.User("Library", "WebKit"), "com."+lower),
		pattern(l.User("Library", "Containers"), esc+".*"),
		pattern(l.User("Library", "Group Containers"), "*"+esc+".*"),
		pattern(l.User("Library", "Application Support", "CrashReporter"), esc+"_*.plist"),
	}

	// Plug-ins installed system-wide or per user.
	plugins := []struct {
		dir string
		ext string
	}{
		{"Input Methods", ".app"},
		{"Screen Savers", ".saver"},
		{"Widgets", ".wdgt"},
		{"QuickLook", ".qlgenerator"},
		{"Internet Plug-Ins", ".plugin"},
	}
	for _, p := range plugins {
		t = append(t,
			pattern(l.System("Library", p.dir), esc+"*"+p.ext),
			pattern(l.User("Library", p.dir), esc+"*"+p.ext),
		)
	}
	t = append(t,
		pattern(l.System("Library", "Fonts"), esc+"*"),
		pattern(l.User("Library", "Fonts"), esc+"*"),
	)
	return t
}

func cliTemplates(l config.Layout, name string) []template {
	t := []template{
		literal(l.System("usr", "local", "bin"), name),
		literal(l.System("usr", "bin"), name),
		literal(l.System("opt", "homebrew", "bin"), name),
		literal(l.System("usr", "local", "lib"), name),
		literal(l.System("Library", "Frameworks"), name+".framework"),
		literal(l.System("usr", "local", "Frameworks"), name+".framework"),
		literal(l.System("usr", "local", "share", "man", "man1"), name+".1"),
		literal(l.System("usr", "local", "share", "doc"), name),
		literal(l.System("etc"), name),
		literal(l.System("etc", "paths.d"), name),
	}
	for _, cellar := range config.HomebrewCellars(l) {
		if info, err := os.Stat(cellar); err == nil && info.IsDir() {
			t = append(t, literal(cellar, name))
		}
	}
	return t
}

// Paths returns the template paths of the kind for name. Glob entries are
// expanded and contribute only their matches.
func (k Kind) Paths(l config.Layout, name string) ([]string, error) {
	var out []string
	for _, t := range k.templates(l, name) {
		if !t.glob {
			out = append(out, t.path)
			continue
		}
		matches, err := doublestar.FilepathGlob(t.path)
		if err != nil {
			return nil, fmt.Errorf("expand %q: %w", t.path, err)
		}
		out = append(out, matches...)
	}
	return out, nil
}

// Candidates returns every path to remove for name: the template paths of
// each kind followed by the launch item and receipt heuristics, with
// duplicates dropped and first-seen order kept.
func Candidates(l config.Layout, name string) ([]Candidate, error) {
	if err := ValidateName(name); err != nil {
		return nil, err
	}
	name = strings.TrimSpace(name)

	var out []Candidate
	seen := make(map[string]bool)
	add := func(category string, paths []string) {
		for _, p := range paths {
			p = filepath.Clean(p)
			if seen[p] {
				continue
			}
			seen[p] = true
			out = append(out, Candidate{Path: p, Category: category})
		}
	}

	for _, k := range AllKinds {
		paths, err := k.Paths(l, name)
		if err != nil {
			return nil, err
		}
		add(k.String(), paths)
	}
	add(CategoryLaunchItem, LaunchItems(l, name))
	add(CategoryReceipt, Receipts(l, name))
	return out, nil
}
