// Package ui renders run reports and the small interactive pieces of the
// command line: spinner and confirmation prompt.
package ui

import "github.com/charmbracelet/lipgloss"

// ─── Palette ─────────────────────────────────────────────────────────────────

var (
	ColorPrimary   = lipgloss.AdaptiveColor{Light: "#0891b2", Dark: "#22d3ee"}
	ColorSecondary = lipgloss.AdaptiveColor{Light: "#db2777", Dark: "#f472b6"}
	ColorSuccess   = lipgloss.AdaptiveColor{Light: "#16a34a", Dark: "#4ade80"}
	ColorWarning   = lipgloss.AdaptiveColor{Light: "#ca8a04", Dark: "#facc15"}
	ColorCaution   = lipgloss.AdaptiveColor{Light: "#ea580c", Dark: "#fb923c"}
	ColorError     = lipgloss.AdaptiveColor{Light: "#dc2626", Dark: "#f87171"}
	ColorMuted     = lipgloss.AdaptiveColor{Light: "#6b7280", Dark: "#9ca3af"}
)

// ─── Icons ───────────────────────────────────────────────────────────────────

const (
	IconSuccess = "✔"
	IconError   = "✘"
	IconWarning = "⚠"
	IconSkip    = "↷"
	IconPipe    = "│"
	IconChevron = "›"
)

// ─── Styles ──────────────────────────────────────────────────────────────────

var (
	TitleStyle   = lipgloss.NewStyle().Bold(true).Foreground(ColorPrimary)
	HeaderStyle  = lipgloss.NewStyle().Bold(true).Foreground(ColorSecondary).Padding(0, 1)
	CellStyle    = lipgloss.NewStyle().Padding(0, 1)
	MutedStyle   = lipgloss.NewStyle().Foreground(ColorMuted)
	SuccessStyle = lipgloss.NewStyle().Foreground(ColorSuccess)
	WarningStyle = lipgloss.NewStyle().Foreground(ColorWarning)
	ErrorStyle   = lipgloss.NewStyle().Foreground(ColorError)
	TotalStyle   = lipgloss.NewStyle().Bold(true).Foreground(ColorSuccess).Padding(0, 1)
)
