package status

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/lakshaymaurya-felt/cleanpc/internal/memory"
	"github.com/lakshaymaurya-felt/cleanpc/internal/ui"
)

// ─── Top-level renderer ─────────────────────────────────────────────────────

func (m StatusModel) renderView() string {
	w := max(m.Width, 50)

	var s strings.Builder
	s.WriteString(m.renderTabs(w))
	s.WriteString("\n")

	if m.Stats == nil {
		s.WriteString(lipgloss.NewStyle().
			Foreground(ui.ColorMuted).
			Italic(true).
			Render("  Collecting memory figures…"))
		s.WriteString("\n")
		s.WriteString(m.renderStatusFooter())
		return s.String()
	}

	switch m.Tab {
	case TabOverview:
		s.WriteString(m.renderOverview(w))
	case TabProcesses:
		s.WriteString(m.renderProcesses(w))
	}

	s.WriteString("\n")
	s.WriteString(m.renderStatusFooter())
	return s.String()
}

// ─── Tab bar ─────────────────────────────────────────────────────────────────

func (m StatusModel) renderTabs(w int) string {
	active := lipgloss.NewStyle().
		Bold(true).
		Foreground(ui.ColorPrimary).
		Border(lipgloss.NormalBorder(), false, false, true, false).
		BorderForeground(ui.ColorPrimary).
		Padding(0, 2)

	inactive := lipgloss.NewStyle().
		Foreground(ui.ColorMuted).
		Padding(0, 2)

	var tabs []string
	for i, name := range TabNames {
		label := fmt.Sprintf("%d·%s", i+1, name)
		if Tab(i) == m.Tab {
			tabs = append(tabs, active.Render(label))
		} else {
			tabs = append(tabs, inactive.Render(label))
		}
	}

	bar := lipgloss.JoinHorizontal(lipgloss.Bottom, tabs...)
	divider := ui.MutedStyle.Render(strings.Repeat("─", w))
	return bar + "\n" + divider
}

// ─── Overview tab ────────────────────────────────────────────────────────────

func (m StatusModel) renderOverview(w int) string {
	st := *m.Stats
	f := memory.Format(st)

	barW := 40
	if w > 110 {
		barW = 56
	}

	lines := []string{
		fmt.Sprintf("  Used       %s  %s", ui.SeverityBar(st.UsedPercent, barW), f.Percent),
		"",
		fmt.Sprintf("  Total      %s", f.Total),
		fmt.Sprintf("  Used       %s", f.Used),
		fmt.Sprintf("  Available  %s", f.Available),
	}
	card := ui.CardStyle.Render(strings.Join(lines, "\n"))

	out := []string{"", card}
	if len(m.MemHistory) > 1 {
		spark := sparkline(m.MemHistory, 30)
		out = append(out, "", lipgloss.NewStyle().Foreground(ui.ColorSecondary).Render("  History  ")+spark)
	}
	return lipgloss.JoinVertical(lipgloss.Left, out...)
}

// ─── Processes tab ───────────────────────────────────────────────────────────

func (m StatusModel) renderProcesses(w int) string {
	barW := 24
	nameW := 22
	if w > 100 {
		barW = 32
		nameW = 30
	}

	lines := []string{
		"",
		ui.HeaderStyle.Render(fmt.Sprintf("  Top %d processes by memory", m.TopN)),
		"",
	}

	header := fmt.Sprintf("  %-7s %-*s %s  %9s  %6s", "PID", nameW, "Name", strings.Repeat(" ", barW), "MB", "Mem%")
	lines = append(lines, ui.MutedStyle.Render(header))
	lines = append(lines, ui.MutedStyle.Render("  "+strings.Repeat("─", w-4)))

	for _, p := range m.Usage {
		bar := ui.SeverityBar(float64(p.MemoryPercent), barW)
		lines = append(lines,
			fmt.Sprintf("  %-7d %-*s %s  %9.1f  %5.1f%%",
				p.PID, nameW, ui.Truncate(p.Name, nameW), bar, p.MemoryMB, p.MemoryPercent))
	}

	if len(m.Usage) == 0 {
		lines = append(lines,
			ui.MutedStyle.Italic(true).Render("  (no process data yet)"))
	}

	return strings.Join(lines, "\n")
}

// ─── Footer ──────────────────────────────────────────────────────────────────

func (m StatusModel) renderStatusFooter() string {
	var parts []string

	switch {
	case m.Optimizing:
		parts = append(parts, ui.MutedStyle.Render("  Optimizing memory…"))
	case m.LastResult != nil && m.LastResult.Supported:
		parts = append(parts, "  "+ui.Success(m.LastResult.Message))
	case m.LastResult != nil:
		parts = append(parts, "  "+ui.Warn(m.LastResult.Message))
	}

	if m.Err != nil {
		parts = append(parts, "  "+ui.Error(m.Err.Error()))
	}

	parts = append(parts, ui.Hints("Tab switch", "1-2 jump", "o optimize", "q quit"))
	return strings.Join(parts, "\n")
}

// ─── Drawing primitives ─────────────────────────────────────────────────────

// sparkline renders a mini chart of percentages using block chars.
func sparkline(data []float64, width int) string {
	blocks := []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}
	maxVal := 1.0
	for _, v := range data {
		maxVal = max(maxVal, v)
	}

	d := data
	if len(d) > width {
		d = d[len(d)-width:]
	}

	var b strings.Builder
	for _, v := range d {
		idx := min(max(int(v/maxVal*7), 0), 7)
		b.WriteRune(blocks[idx])
	}
	for i := len(d); i < width; i++ {
		b.WriteRune(blocks[0])
	}
	return lipgloss.NewStyle().Foreground(ui.ColorSecondary).Render(b.String())
}
