package ui

import (
	"errors"
	"strings"
	"testing"

	"github.com/eiannone/keyboard"

	"github.com/lakshaymaurya-felt/osxmole/internal/core"
	"github.com/lakshaymaurya-felt/osxmole/internal/result"
)

func sampleReport(dryRun bool) *result.Report {
	c := result.NewCollector(dryRun)
	c.Add(result.Success{Path: "/Users/me/Library/Caches", Category: "User Caches", Bytes: 3 << 20, Dir: true})
	c.Add(result.Failure{Path: "/Library/Gone", Category: "System Caches", Err: result.ErrNotFound})
	c.Add(result.Failure{Path: "/Users/me/Library/Logs", Category: "User Logs", Err: errors.New("delete failed: permission denied")})
	c.Add(result.Skip{Path: "/private/tmp", Category: "Temporary Files", Err: result.ErrSafetyExcluded})
	c.Ignore("/Users/me/Downloads/keep.iso")
	c.Warn("System Integrity Protection is enabled")
	return c.Report()
}

func TestRenderCleanupLabels(t *testing.T) {
	tests := []struct {
		dryRun bool
		want   string
	}{
		{true, "Estimated space to free: 3.00 MB"},
		{false, "Total space freed: 3.00 MB"},
	}
	for _, tt := range tests {
		out := RenderCleanup(sampleReport(tt.dryRun), ReportOptions{})
		if !strings.Contains(out, tt.want) {
			t.Errorf("dryRun=%v: output missing %q:\n%s", tt.dryRun, tt.want, out)
		}
		if !strings.Contains(out, "Total") {
			t.Errorf("output missing Total row")
		}
	}
}

func TestRenderCleanupOptionalSections(t *testing.T) {
	r := sampleReport(true)

	quiet := RenderCleanup(r, ReportOptions{})
	for _, hidden := range []string{"active system temporary directory", "System Integrity Protection", "/Library/Gone"} {
		if strings.Contains(quiet, hidden) {
			t.Errorf("default output contains %q", hidden)
		}
	}
	for _, shown := range []string{"permission denied", "keep.iso"} {
		if !strings.Contains(quiet, shown) {
			t.Errorf("default output missing %q", shown)
		}
	}

	verbose := RenderCleanup(r, ReportOptions{ShowSkipped: true, ShowWarnings: true, ShowNotFound: true})
	for _, shown := range []string{"active system temporary directory", "System Integrity Protection", "not found"} {
		if !strings.Contains(verbose, shown) {
			t.Errorf("verbose output missing %q", shown)
		}
	}
}

func TestRenderUninstall(t *testing.T) {
	c := result.NewCollector(true)
	c.Add(result.Success{Path: "/Applications/Foo.app", Category: "Application"})
	c.Add(result.Failure{Path: "/usr/local/bin/Foo", Category: "CLI Tool", Err: result.ErrNotFound})

	out := RenderUninstall("Foo", c.Report(), ReportOptions{})
	if !strings.Contains(out, "Would remove") || !strings.Contains(out, "/Applications/Foo.app") {
		t.Errorf("unexpected output:\n%s", out)
	}
	if strings.Contains(out, "/usr/local/bin/Foo") {
		t.Error("not-found failures should be hidden by default")
	}
}

func TestColorBarWidth(t *testing.T) {
	for _, pct := range []float64{-5, 0, 42.5, 99, 150} {
		bar := colorBar(pct, 20)
		if n := strings.Count(bar, "█") + strings.Count(bar, "░"); n != 20 {
			t.Errorf("colorBar(%v) has %d cells, want 20", pct, n)
		}
	}
}

func TestRenderVolume(t *testing.T) {
	out := RenderVolume("Before", core.VolumeStat{Path: "/", Total: 1 << 30, Free: 1 << 29, UsedPercent: 50}, 10)
	if !strings.Contains(out, "512 MiB free of 1.0 GiB") {
		t.Errorf("RenderVolume = %q", out)
	}
}

func TestIsYes(t *testing.T) {
	tests := []struct {
		char rune
		key  keyboard.Key
		want bool
	}{
		{'y', 0, true},
		{'Y', 0, true},
		{'n', 0, false},
		{0, keyboard.KeyEnter, false},
		{0, keyboard.KeyEsc, false},
	}
	for _, tt := range tests {
		if got := isYes(tt.char, tt.key); got != tt.want {
			t.Errorf("isYes(%q, %v) = %v, want %v", tt.char, tt.key, got, tt.want)
		}
	}
}
