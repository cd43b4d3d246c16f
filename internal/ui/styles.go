// Package ui holds the shared terminal palette, icons and small rendering
// helpers used by the command output and the interactive views.
package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// ─── Palette ─────────────────────────────────────────────────────────────────

var (
	ColorPrimary   = lipgloss.AdaptiveColor{Light: "#7c3aed", Dark: "#a78bfa"}
	ColorSecondary = lipgloss.AdaptiveColor{Light: "#0891b2", Dark: "#22d3ee"}
	ColorCoral     = lipgloss.AdaptiveColor{Light: "#e11d48", Dark: "#fb7185"}
	ColorSuccess   = lipgloss.AdaptiveColor{Light: "#16a34a", Dark: "#4ade80"}
	ColorWarning   = lipgloss.AdaptiveColor{Light: "#ca8a04", Dark: "#facc15"}
	ColorError     = lipgloss.AdaptiveColor{Light: "#dc2626", Dark: "#f87171"}
	ColorText      = lipgloss.AdaptiveColor{Light: "#1f2937", Dark: "#e5e7eb"}
	ColorTextDim   = lipgloss.AdaptiveColor{Light: "#4b5563", Dark: "#9ca3af"}
	ColorMuted     = lipgloss.AdaptiveColor{Light: "#9ca3af", Dark: "#6b7280"}
)

// ─── Icons ───────────────────────────────────────────────────────────────────

const (
	IconSuccess = "✓"
	IconError   = "✗"
	IconWarning = "⚠"
	IconBullet  = "•"
	IconPipe    = "│"
	IconChevron = "›"
	IconDiamond = "◆"
	IconShield  = "⛨"
	IconBlock   = "█"
)

// ─── Styles ──────────────────────────────────────────────────────────────────

var (
	TitleStyle = lipgloss.NewStyle().Bold(true).Foreground(ColorPrimary)

	HeaderStyle = lipgloss.NewStyle().Bold(true).Foreground(ColorSecondary)

	MutedStyle = lipgloss.NewStyle().Foreground(ColorMuted)

	HintBarStyle = lipgloss.NewStyle().Foreground(ColorMuted).Italic(true)

	SuccessStyle = lipgloss.NewStyle().Foreground(ColorSuccess)

	ErrorStyle = lipgloss.NewStyle().Foreground(ColorError)

	TagWarningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#000000")).
			Background(ColorWarning).
			Padding(0, 1)

	TagDefaultStyle = lipgloss.NewStyle().
			Foreground(ColorTextDim).
			Border(lipgloss.NormalBorder(), false, false, false, true).
			BorderForeground(ColorMuted).
			PaddingLeft(1)

	CardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorSecondary).
			Padding(0, 1)
)

// Title renders a section heading with the diamond marker.
func Title(s string) string {
	return TitleStyle.Render(IconDiamond + " " + s)
}

// Success renders a check-marked line.
func Success(s string) string {
	return SuccessStyle.Render(IconSuccess + " " + s)
}

// Warn renders a warning line.
func Warn(s string) string {
	return lipgloss.NewStyle().Foreground(ColorWarning).Render(IconWarning + " " + s)
}

// Error renders a cross-marked line.
func Error(s string) string {
	return ErrorStyle.Render(IconError + " " + s)
}

// Hints joins key hints with the pipe separator.
func Hints(hints ...string) string {
	return HintBarStyle.Render("  " + strings.Join(hints, "  "+IconPipe+"  "))
}

// ─── Bars ────────────────────────────────────────────────────────────────────

// SeverityBar renders a ████░░░░ bar colored by how full it is.
func SeverityBar(pct float64, width int) string {
	pct = max(0, min(pct, 100))
	filled := min(int(pct/100*float64(width)), width)

	barColor := ColorSuccess
	switch {
	case pct >= 90:
		barColor = ColorError
	case pct >= 75:
		barColor = ColorCoral
	case pct >= 50:
		barColor = ColorWarning
	}

	fStr := lipgloss.NewStyle().Foreground(barColor).Render(strings.Repeat(IconBlock, filled))
	eStr := lipgloss.NewStyle().Foreground(ColorMuted).Render(strings.Repeat("░", width-filled))
	return fStr + eStr
}

// Truncate shortens s to width runes, ending with an ellipsis when cut.
func Truncate(s string, width int) string {
	r := []rune(s)
	if width <= 0 || len(r) <= width {
		return s
	}
	if width == 1 {
		return "…"
	}
	return string(r[:width-1]) + "…"
}
