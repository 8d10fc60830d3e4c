package uninstall

import (
	"errors"
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/lakshaymaurya-felt/osxmole/internal/config"
	"github.com/lakshaymaurya-felt/osxmole/internal/logging"
	"github.com/lakshaymaurya-felt/osxmole/internal/result"
)

func testLayout(t *testing.T) config.Layout {
	t.Helper()
	root := t.TempDir()
	home := filepath.Join(root, "Users", "tester")
	if err := os.MkdirAll(home, 0o755); err != nil {
		t.Fatal(err)
	}
	return config.Layout{Root: root, Home: home}
}

func touch(t *testing.T, path string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
}

func newTestExecutor(l config.Layout, dryRun bool) *Executor {
	return NewExecutor(Options{DryRun: dryRun, Workers: 4, Layout: l, Log: logging.Discard()})
}

func candidatePaths(cands []Candidate) []string {
	out := make([]string, len(cands))
	for i, c := range cands {
		out[i] = c.Path
	}
	return out
}

func TestValidateName(t *testing.T) {
	tests := []struct {
		name    string
		wantErr bool
	}{
		{"Foo", false},
		{"Visual Studio Code", false},
		{"", true},
		{"   ", true},
		{".", true},
		{"..", true},
		{"../etc", true},
		{"a/b", true},
	}
	for _, tt := range tests {
		err := ValidateName(tt.name)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateName(%q) = %v, wantErr %v", tt.name, err, tt.wantErr)
		}
		if err != nil && !errors.Is(err, ErrInvalidName) {
			t.Errorf("ValidateName(%q) error does not wrap ErrInvalidName", tt.name)
		}
	}
}

func TestAppTemplateIncludesLiteralAndGlobPaths(t *testing.T) {
	l := testLayout(t)
	container := l.User("Library", "Containers", "Foo.helper")
	if err := os.MkdirAll(container, 0o755); err != nil {
		t.Fatal(err)
	}
	group := l.User("Library", "Group Containers", "ABCDE.Foo.shared")
	if err := os.MkdirAll(group, 0o755); err != nil {
		t.Fatal(err)
	}
	crash := l.User("Library", "Application Support", "CrashReporter", "Foo_1234.plist")
	touch(t, crash)
	touch(t, l.User("Library", "Application Support", "CrashReporter", "Foobar_1.plist"))

	got, err := KindApp.Paths(l, "Foo")
	if err != nil {
		t.Fatal(err)
	}

	for _, want := range []string{
		l.System("Applications", "Foo.app"),
		l.User("Library", "Application Support", "Foo"),
		l.User("Library", "Preferences", "com.foo.plist"),
		container,
		group,
		crash,
	} {
		if !slices.Contains(got, want) {
			t.Errorf("app paths missing %s", want)
		}
	}
	if slices.Contains(got, l.User("Library", "Application Support", "CrashReporter", "Foobar_1.plist")) {
		t.Error("crash report glob matched a different app")
	}
}

func TestGlobMetacharactersInNameAreLiteral(t *testing.T) {
	l := testLayout(t)
	// "F*" must not match every container starting with F.
	if err := os.MkdirAll(l.User("Library", "Containers", "Fancy.app"), 0o755); err != nil {
		t.Fatal(err)
	}

	got, err := KindApp.Paths(l, "F*")
	if err != nil {
		t.Fatal(err)
	}
	if slices.Contains(got, l.User("Library", "Containers", "Fancy.app")) {
		t.Error("glob metacharacters in the name were expanded")
	}
}

func TestCLITemplateUsesExistingCellars(t *testing.T) {
	l := testLayout(t)
	if err := os.MkdirAll(l.System("opt", "homebrew", "Cellar"), 0o755); err != nil {
		t.Fatal(err)
	}

	got, err := KindCLITool.Paths(l, "ripgrep")
	if err != nil {
		t.Fatal(err)
	}
	if !slices.Contains(got, l.System("opt", "homebrew", "Cellar", "ripgrep")) {
		t.Error("missing Apple Silicon cellar entry")
	}
	if slices.Contains(got, l.System("usr", "local", "Cellar", "ripgrep")) {
		t.Error("cellar that does not exist was included")
	}
	if !slices.Contains(got, l.System("usr", "local", "share", "man", "man1", "ripgrep.1")) {
		t.Error("missing man page")
	}
}

func TestHeuristics(t *testing.T) {
	l := testLayout(t)
	agent := l.User("Library", "LaunchAgents", "com.foo.updater.plist")
	touch(t, agent)
	daemon := l.System("Library", "LaunchDaemons", "COM.FOO.Helper.plist")
	touch(t, daemon)
	touch(t, l.User("Library", "LaunchAgents", "com.foo.notes.txt"))
	touch(t, l.User("Library", "LaunchAgents", "com.bar.agent.plist"))
	receipt := l.System("var", "db", "receipts", "com.foo.pkg.bom")
	touch(t, receipt)

	launch := LaunchItems(l, "Foo")
	slices.Sort(launch)
	want := []string{daemon, agent}
	slices.Sort(want)
	if !slices.Equal(launch, want) {
		t.Errorf("LaunchItems = %v, want %v", launch, want)
	}

	if got := Receipts(l, "FOO"); !slices.Equal(got, []string{receipt}) {
		t.Errorf("Receipts = %v, want [%s]", got, receipt)
	}
}

func TestCandidatesAreDeduplicated(t *testing.T) {
	l := testLayout(t)
	cands, err := Candidates(l, "Foo")
	if err != nil {
		t.Fatal(err)
	}
	paths := candidatePaths(cands)
	seen := make(map[string]bool)
	for _, p := range paths {
		if seen[p] {
			t.Errorf("duplicate candidate %s", p)
		}
		seen[p] = true
	}
	if paths[0] != l.System("Applications", "Foo.app") {
		t.Errorf("first candidate = %s, want the bundle", paths[0])
	}
}

func TestMissingBundleIsNotFoundFailure(t *testing.T) {
	l := testLayout(t)

	report, err := newTestExecutor(l, false).Run("Foo")
	if err != nil {
		t.Fatalf("Run returned %v, want success", err)
	}

	bundle := l.System("Applications", "Foo.app")
	var found bool
	for _, f := range report.Failures {
		if f.Path == bundle {
			found = true
			if !errors.Is(f.Err, result.ErrNotFound) {
				t.Errorf("bundle failure = %v, want not found", f.Err)
			}
		}
	}
	if !found {
		t.Errorf("no failure recorded for %s", bundle)
	}
	if len(report.Successes) != 0 {
		t.Errorf("successes = %+v, want none", report.Successes)
	}
}

func TestExecuteDeletesAndContinuesPastFailures(t *testing.T) {
	l := testLayout(t)
	bundle := l.System("Applications", "Foo.app")
	touch(t, filepath.Join(bundle, "Contents", "Info.plist"))
	prefs := l.User("Library", "Preferences", "com.foo.plist")
	touch(t, prefs)
	stuck := l.User("Library", "Caches", "Foo")
	touch(t, filepath.Join(stuck, "cache.db"))

	x := newTestExecutor(l, false)
	x.remove = func(path string) error {
		if path == stuck {
			return os.ErrPermission
		}
		return os.RemoveAll(path)
	}

	report := x.Execute([]Candidate{
		{Path: bundle, Category: CategoryApp},
		{Path: stuck, Category: CategoryApp},
		{Path: prefs, Category: CategoryApp},
	})

	if len(report.Successes) != 2 {
		t.Fatalf("successes = %+v, want bundle and prefs", report.Successes)
	}
	if len(report.Failures) != 1 || !errors.Is(report.Failures[0].Err, result.ErrDeleteFailed) {
		t.Fatalf("failures = %+v, want one delete failure", report.Failures)
	}
	for _, p := range []string{bundle, prefs} {
		if _, err := os.Lstat(p); !os.IsNotExist(err) {
			t.Errorf("%s still exists", p)
		}
	}
	if report.Total != 0 {
		t.Errorf("Total = %d, uninstall does not measure", report.Total)
	}
}

func TestExecuteDryRunLeavesFiles(t *testing.T) {
	l := testLayout(t)
	bundle := l.System("Applications", "Foo.app")
	touch(t, filepath.Join(bundle, "Contents", "Info.plist"))

	report := newTestExecutor(l, true).Execute([]Candidate{{Path: bundle, Category: CategoryApp}})

	if len(report.Successes) != 1 || !report.DryRun {
		t.Fatalf("report = %+v", report)
	}
	if _, err := os.Stat(bundle); err != nil {
		t.Errorf("dry run removed the bundle: %v", err)
	}
}

func TestExecuteRefusesProtectedPaths(t *testing.T) {
	l := testLayout(t)
	report := newTestExecutor(l, false).Execute([]Candidate{{Path: l.Home, Category: CategoryApp}})

	if len(report.Failures) != 1 || !errors.Is(report.Failures[0].Err, result.ErrProtectedPath) {
		t.Fatalf("failures = %+v", report.Failures)
	}
}
