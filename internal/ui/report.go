package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/dustin/go-humanize"

	"github.com/lakshaymaurya-felt/osxmole/internal/core"
	"github.com/lakshaymaurya-felt/osxmole/internal/result"
)

// ReportOptions selects the optional sections of a rendered report.
type ReportOptions struct {
	// ShowSkipped renders the skipped-paths table.
	ShowSkipped bool

	// ShowWarnings renders informational warnings.
	ShowWarnings bool

	// ShowNotFound keeps "not found" failures, which are routine for
	// uninstall templates.
	ShowNotFound bool

	// Aggregate selects the categories grouped by directory.
	Aggregate func(category string) bool
}

// ─── Cleanup ─────────────────────────────────────────────────────────────────

// RenderCleanup renders the full cleanup report.
func RenderCleanup(r *result.Report, opts ReportOptions) string {
	var s strings.Builder

	title := "Cleanup summary"
	if r.DryRun {
		title += " (dry run)"
	}
	s.WriteString(TitleStyle.Render(title))
	s.WriteString("\n")

	if len(r.Successes) > 0 {
		s.WriteString(successTable(r.Rows(opts.Aggregate)))
		s.WriteString("\n")
	} else {
		s.WriteString(MutedStyle.Render("  Nothing to clean."))
		s.WriteString("\n")
	}

	writeCommonSections(&s, r, opts)

	label := "Total space freed"
	if r.DryRun {
		label = "Estimated space to free"
	}
	s.WriteString("\n")
	s.WriteString(SuccessStyle.Bold(true).Render(fmt.Sprintf("%s %s: %s", IconSuccess, label, core.FormatSize(r.Total))))
	s.WriteString("\n")
	s.WriteString(MutedStyle.Render(counts(r)))
	s.WriteString("\n")
	return s.String()
}

func successTable(rows []result.Row) string {
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(MutedStyle).
		Headers("Category", "Path", "Size")

	last := len(rows) - 1
	for _, row := range rows {
		t.Row(row.Category, row.Path, row.Size)
	}
	t.StyleFunc(func(row, col int) lipgloss.Style {
		switch {
		case row == table.HeaderRow:
			return HeaderStyle
		case row == last:
			return TotalStyle
		case col == 2:
			return CellStyle.Align(lipgloss.Right)
		default:
			return CellStyle
		}
	})
	return t.Render()
}

// ─── Uninstall ───────────────────────────────────────────────────────────────

// RenderUninstall renders the uninstall report for name.
func RenderUninstall(name string, r *result.Report, opts ReportOptions) string {
	var s strings.Builder

	verb := "Removed"
	if r.DryRun {
		verb = "Would remove"
	}
	s.WriteString(TitleStyle.Render(fmt.Sprintf("Uninstall %s", name)))
	s.WriteString("\n")

	if len(r.Successes) == 0 {
		s.WriteString(MutedStyle.Render(fmt.Sprintf("  No files found for %q.", name)))
		s.WriteString("\n")
	} else {
		t := table.New().
			Border(lipgloss.RoundedBorder()).
			BorderStyle(MutedStyle).
			Headers("Kind", verb)
		for _, ok := range r.Successes {
			t.Row(ok.Category, ok.Path)
		}
		t.StyleFunc(headerOr(CellStyle))
		s.WriteString(t.Render())
		s.WriteString("\n")
	}

	writeCommonSections(&s, r, opts)
	s.WriteString(MutedStyle.Render(counts(r)))
	s.WriteString("\n")
	return s.String()
}

// ─── Shared sections ─────────────────────────────────────────────────────────

func writeCommonSections(s *strings.Builder, r *result.Report, opts ReportOptions) {
	failures := r.Failures
	if !opts.ShowNotFound {
		failures = r.FailuresExcept(result.ErrNotFound)
	}
	if len(failures) > 0 {
		s.WriteString("\n")
		s.WriteString(ErrorStyle.Render(fmt.Sprintf("%s Failed (%d)", IconError, len(failures))))
		s.WriteString("\n")
		t := table.New().
			Border(lipgloss.NormalBorder()).
			BorderStyle(MutedStyle).
			Headers("Path", "Error")
		for _, f := range failures {
			t.Row(f.Path, f.Reason())
		}
		t.StyleFunc(headerOr(CellStyle))
		s.WriteString(t.Render())
		s.WriteString("\n")
	}

	if opts.ShowSkipped && len(r.Skipped) > 0 {
		s.WriteString("\n")
		s.WriteString(WarningStyle.Render(fmt.Sprintf("%s Skipped (%d)", IconSkip, len(r.Skipped))))
		s.WriteString("\n")
		t := table.New().
			Border(lipgloss.NormalBorder()).
			BorderStyle(MutedStyle).
			Headers("Path", "Reason")
		for _, sk := range r.Skipped {
			t.Row(sk.Path, sk.Reason())
		}
		t.StyleFunc(headerOr(CellStyle))
		s.WriteString(t.Render())
		s.WriteString("\n")
	}

	if len(r.Ignored) > 0 {
		s.WriteString("\n")
		s.WriteString(MutedStyle.Render(fmt.Sprintf("Ignored by user (%d)", len(r.Ignored))))
		s.WriteString("\n")
		for _, p := range r.Ignored {
			s.WriteString(MutedStyle.Render(fmt.Sprintf("  %s %s", IconChevron, p)))
			s.WriteString("\n")
		}
	}

	if opts.ShowWarnings && len(r.Warnings) > 0 {
		s.WriteString("\n")
		for _, w := range r.Warnings {
			s.WriteString(WarningStyle.Render(fmt.Sprintf("%s %s", IconWarning, w)))
			s.WriteString("\n")
		}
	}
}

func headerOr(cell lipgloss.Style) table.StyleFunc {
	return func(row, col int) lipgloss.Style {
		if row == table.HeaderRow {
			return HeaderStyle
		}
		return cell
	}
}

func counts(r *result.Report) string {
	return fmt.Sprintf("%s succeeded %s %s failed %s %s skipped %s %s ignored",
		humanize.Comma(int64(len(r.Successes))), IconPipe,
		humanize.Comma(int64(len(r.Failures))), IconPipe,
		humanize.Comma(int64(len(r.Skipped))), IconPipe,
		humanize.Comma(int64(len(r.Ignored))))
}

// ─── Volume ──────────────────────────────────────────────────────────────────

// RenderVolume renders one line of volume usage with a usage bar.
func RenderVolume(label string, v core.VolumeStat, width int) string {
	return fmt.Sprintf("%-7s %s %5.1f%%  %s free of %s",
		label,
		colorBar(v.UsedPercent, width),
		v.UsedPercent,
		humanize.IBytes(v.Free),
		humanize.IBytes(v.Total))
}

// RenderFreed summarizes the change in free space between two snapshots.
func RenderFreed(before, after core.VolumeStat) string {
	if after.Free <= before.Free {
		return MutedStyle.Render("Free space unchanged on " + after.Path)
	}
	return SuccessStyle.Render(fmt.Sprintf("Free space on %s grew by %s", after.Path, humanize.IBytes(after.Free-before.Free)))
}

func colorBar(pct float64, width int) string {
	if width <= 0 {
		return ""
	}
	pct = max(0, min(pct, 100))
	filled := min(int(pct/100*float64(width)), width)

	barColor := ColorSuccess
	switch {
	case pct >= 90:
		barColor = ColorError
	case pct >= 75:
		barColor = ColorCaution
	case pct >= 50:
		barColor = ColorWarning
	}

	fStr := lipgloss.NewStyle().Foreground(barColor).Render(strings.Repeat("█", filled))
	eStr := lipgloss.NewStyle().Foreground(ColorMuted).Render(strings.Repeat("░", width-filled))
	return fStr + eStr
}
