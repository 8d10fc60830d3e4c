package config

import (
	"path/filepath"
	"strings"
	"testing"
)

func testLayout() Layout {
	return Layout{Root: "/r", Home: "/r/Users/me", ActiveTemp: "/r/var/folders/xy/T"}
}

func TestLayoutJoins(t *testing.T) {
	l := testLayout()
	if got := l.System("Library", "Caches"); got != "/r/Library/Caches" {
		t.Errorf("System = %q", got)
	}
	if got := l.User(".Trash"); got != "/r/Users/me/.Trash" {
		t.Errorf("User = %q", got)
	}
	if got := (Layout{}).System("tmp"); got != "/tmp" {
		t.Errorf("empty root System = %q, want /tmp", got)
	}
}

func TestDefaultLayoutCleansTMPDIR(t *testing.T) {
	t.Setenv("HOME", "/Users/someone")
	t.Setenv("TMPDIR", "/var/folders/ab/cd/T/")

	l := DefaultLayout()
	if l.Root != "/" {
		t.Errorf("Root = %q, want /", l.Root)
	}
	if l.Home != "/Users/someone" {
		t.Errorf("Home = %q", l.Home)
	}
	if l.ActiveTemp != "/var/folders/ab/cd/T" {
		t.Errorf("ActiveTemp = %q, want trailing slash removed", l.ActiveTemp)
	}
}

func TestGetCleanTargetsResolvedUnderLayout(t *testing.T) {
	l := testLayout()
	targets := GetCleanTargets(l)
	if len(targets) == 0 {
		t.Fatal("no targets")
	}
	seen := make(map[string]bool)
	for _, tg := range targets {
		if seen[tg.Name] {
			t.Errorf("duplicate target %q", tg.Name)
		}
		seen[tg.Name] = true
		for _, p := range append(append([]string{}, tg.Paths...), tg.Patterns...) {
			if !strings.HasPrefix(p, l.Root) {
				t.Errorf("%s: path %q escapes layout root", tg.Name, p)
			}
		}
	}
	for _, name := range []string{NameSystemCaches, NameUserCaches, NameUserLogs, NameCrashReports, NameTrash, NameBrowserCaches} {
		if !seen[name] {
			t.Errorf("missing target %q", name)
		}
	}

	sys, ok := GetTarget(l, NameSystemCaches)
	if !ok || !sys.RequiresAdmin {
		t.Errorf("System Caches should exist and require admin: %+v", sys)
	}
}

func TestProtectedTempIncludesActiveTemp(t *testing.T) {
	l := testLayout()
	got := ProtectedTemp(l)
	want := filepath.Join("/r", "private", "tmp")
	var hasRoot, hasActive bool
	for _, p := range got {
		hasRoot = hasRoot || p == want
		hasActive = hasActive || p == l.ActiveTemp
	}
	if !hasRoot || !hasActive {
		t.Errorf("ProtectedTemp = %v, want %s and %s", got, want, l.ActiveTemp)
	}

	l.ActiveTemp = ""
	if n := len(ProtectedTemp(l)); n != len(TempRoots(l)) {
		t.Errorf("without TMPDIR got %d entries, want %d", n, len(TempRoots(l)))
	}
}
