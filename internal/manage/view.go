package manage

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/lakshaymaurya-felt/cleanpc/internal/ui"
)

// ─── Top-level view ──────────────────────────────────────────────────────────

func (m Model) renderView() string {
	w := max(m.width, 40)

	var s strings.Builder
	s.WriteString(m.renderHeader(w))
	s.WriteString("\n")
	s.WriteString(m.renderSearch())
	s.WriteString("\n")
	s.WriteString(m.renderBody(w))
	s.WriteString("\n")
	s.WriteString(m.renderFooter())
	return s.String()
}

// ─── Header ──────────────────────────────────────────────────────────────────

func (m Model) renderHeader(w int) string {
	title := lipgloss.NewStyle().
		Bold(true).
		Foreground(ui.ColorPrimary).
		Render("  " + ui.IconShield + " Whitelist Manager")

	counts := ui.MutedStyle.Render(fmt.Sprintf("  %d running  %s  %d protected by you  %s  %d built-in",
		len(m.running), ui.IconPipe, len(m.store.Processes()), ui.IconPipe, len(m.store.Defaults())))

	active := lipgloss.NewStyle().Bold(true).Foreground(ui.ColorPrimary).Underline(true)
	inactive := ui.MutedStyle
	labels := []string{"Running", "Protected"}
	var tabs []string
	for i, l := range labels {
		if Pane(i) == m.pane {
			tabs = append(tabs, active.Render(l))
		} else {
			tabs = append(tabs, inactive.Render(l))
		}
	}
	tabLine := "  " + strings.Join(tabs, "   ")

	inner := lipgloss.JoinVertical(lipgloss.Left, title, counts, tabLine)
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ui.ColorPrimary).
		Width(w - 2).
		Render(inner)
}

func (m Model) renderSearch() string {
	if m.searching || m.search.Value() != "" {
		return "  " + m.search.View()
	}
	return ui.MutedStyle.Render("  / to search")
}

// ─── Body ────────────────────────────────────────────────────────────────────

func (m Model) renderBody(w int) string {
	items := m.visibleItems()
	if len(items) == 0 {
		empty := "  (no processes)"
		if m.pane == PaneProtected {
			empty = "  (nothing protected)"
		}
		return ui.MutedStyle.Italic(true).Render(empty)
	}

	vh := m.viewportHeight()
	nameW := max(w-24, 16)

	var lines []string
	for i := m.offset; i < len(items) && i < m.offset+vh; i++ {
		lines = append(lines, m.renderEntry(items[i], nameW, i == m.cursor))
	}

	if len(items) > vh {
		lines = append(lines, ui.HintBarStyle.Render(
			fmt.Sprintf("  ── %d/%d ──", min(m.offset+vh, len(items)), len(items))))
	}
	return strings.Join(lines, "\n")
}

func (m Model) renderEntry(e Entry, nameW int, selected bool) string {
	marker := "  "
	if selected {
		marker = lipgloss.NewStyle().Foreground(ui.ColorPrimary).Render(ui.IconChevron + " ")
	}

	nameStyle := lipgloss.NewStyle().Foreground(ui.ColorText)
	if e.Protected {
		nameStyle = nameStyle.Foreground(ui.ColorSuccess)
	}
	if selected {
		nameStyle = nameStyle.Bold(true)
	}
	name := nameStyle.Render(fmt.Sprintf("%-*s", nameW, ui.Truncate(e.Name, nameW)))

	var tag string
	switch {
	case e.Default:
		tag = ui.TagDefaultStyle.Render("built-in")
	case e.Protected:
		tag = ui.SuccessStyle.Render(ui.IconSuccess + " protected")
	}
	if m.pane == PaneProtected && e.Running {
		tag += ui.MutedStyle.Render("  " + ui.IconBullet + " running")
	}

	return "  " + marker + name + " " + tag
}

// ─── Footer ──────────────────────────────────────────────────────────────────

func (m Model) renderFooter() string {
	var parts []string
	switch {
	case m.confirmRemove:
		if e, ok := m.selected(); ok {
			parts = append(parts, "  "+ui.TagWarningStyle.Render("Remove "+e.Name+"? Enter to confirm"))
		}
	case m.message != "":
		parts = append(parts, "  "+ui.MutedStyle.Render(m.message))
	}
	if m.err != nil {
		parts = append(parts, "  "+ui.Error(m.err.Error()))
	}
	parts = append(parts, ui.Hints("Tab switch", "/ search", "a add", "⌫ remove", "q quit"))
	return strings.Join(parts, "\n")
}
