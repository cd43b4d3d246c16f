// Package manage is the interactive whitelist manager: a live list of
// running process names next to the protected list, with search and
// add/remove.
package manage

import (
	"context"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/lakshaymaurya-felt/cleanpc/internal/proc"
)

// DefaultPollInterval is how often the running list is refreshed.
const DefaultPollInterval = 2 * time.Second

// Store is the whitelist the manager edits. *whitelist.Manager satisfies it.
type Store interface {
	IsWhitelisted(name string) bool
	IsDefault(name string) bool
	Add(name string) bool
	Remove(name string) bool
	Processes() []string
	Defaults() []string
}

// Pane identifies which list has focus.
type Pane int

const (
	PaneRunning Pane = iota
	PaneProtected
)

// Entry is one row in either pane.
type Entry struct {
	Name      string
	Protected bool
	Default   bool
	Running   bool
}

// ─── Messages ────────────────────────────────────────────────────────────────

type tickMsg time.Time

type processesMsg struct {
	names []string
	err   error
}

// ─── Model ───────────────────────────────────────────────────────────────────

// Model is the bubbletea Model for the whitelist manager.
type Model struct {
	store    Store
	table    proc.Table
	interval time.Duration

	running []string // unique running names, sorted
	pane    Pane
	cursor  int
	offset  int
	width   int
	height  int

	search    textinput.Model
	searching bool

	confirmRemove bool // two-key remove: Backspace then Enter
	message       string
	err           error
	quitting      bool
}

// New builds a manager over store, polling table every interval.
func New(store Store, table proc.Table, interval time.Duration) Model {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	ti := textinput.New()
	ti.Placeholder = "Search processes…"
	ti.Prompt = "/ "
	ti.CharLimit = 64
	ti.Width = 30

	return Model{
		store:    store,
		table:    table,
		interval: interval,
		search:   ti,
		width:    80,
		height:   24,
	}
}

func (m Model) tick() tea.Cmd {
	return tea.Tick(m.interval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m Model) refresh() tea.Cmd {
	table := m.table
	return func() tea.Msg {
		procs, err := table.Processes(context.Background())
		if err != nil {
			return processesMsg{err: err}
		}
		return processesMsg{names: uniqueNames(procs)}
	}
}

func uniqueNames(procs []proc.Process) []string {
	seen := make(map[string]bool, len(procs))
	var out []string
	for _, p := range procs {
		if !seen[p.Name] {
			seen[p.Name] = true
			out = append(out, p.Name)
		}
	}
	slices.Sort(out)
	return out
}

// ─── tea.Model interface ─────────────────────────────────────────────────────

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.tick(), m.refresh())
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tickMsg:
		return m, tea.Batch(m.tick(), m.refresh())

	case processesMsg:
		m.err = msg.err
		if msg.err == nil {
			m.running = msg.names
			m.clampCursor()
		}
		return m, nil

	case tea.KeyMsg:
		if m.searching {
			return m.updateSearch(msg)
		}

		// If awaiting remove confirmation, only Enter confirms.
		if m.confirmRemove {
			m.confirmRemove = false
			if msg.String() == "enter" {
				m.removeSelected()
			}
			return m, nil
		}

		switch msg.String() {
		case "q", "esc", "ctrl+c":
			m.quitting = true
			return m, tea.Quit

		case "tab", "shift+tab":
			m.pane = 1 - m.pane
			m.cursor, m.offset = 0, 0
			m.message = ""

		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
				m.ensureVisible()
			}

		case "down", "j":
			if m.cursor < len(m.visibleItems())-1 {
				m.cursor++
				m.ensureVisible()
			}

		case "/":
			m.searching = true
			m.search.Focus()
			return m, textinput.Blink

		case "a", "enter", " ":
			m.addSelected()

		case "backspace", "delete", "d":
			if e, ok := m.selected(); ok && e.Protected && !e.Default {
				m.confirmRemove = true
			} else if ok && e.Default {
				m.message = e.Name + " is a built-in entry and cannot be removed"
			}

		case "r":
			return m, m.refresh()
		}
		return m, nil
	}

	return m, nil
}

func (m Model) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		m.searching = false
		m.search.Blur()
		return m, nil
	case "esc":
		m.searching = false
		m.search.Blur()
		m.search.SetValue("")
		m.cursor, m.offset = 0, 0
		return m, nil
	}
	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	m.cursor, m.offset = 0, 0
	return m, cmd
}

// View delegates to view.go renderView.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	return m.renderView()
}

// ─── Actions ─────────────────────────────────────────────────────────────────

func (m *Model) addSelected() {
	e, ok := m.selected()
	if !ok {
		return
	}
	switch {
	case e.Protected:
		m.message = e.Name + " is already protected"
	case m.store.Add(e.Name):
		m.message = "Protected " + e.Name
	default:
		m.message = "Could not protect " + e.Name
	}
}

func (m *Model) removeSelected() {
	e, ok := m.selected()
	if !ok {
		return
	}
	if m.store.Remove(e.Name) {
		m.message = "Removed " + e.Name
	} else {
		m.message = "Could not remove " + e.Name
	}
	m.clampCursor()
}

// ─── Helpers ─────────────────────────────────────────────────────────────────

func (m Model) selected() (Entry, bool) {
	items := m.visibleItems()
	if m.cursor < 0 || m.cursor >= len(items) {
		return Entry{}, false
	}
	return items[m.cursor], true
}

func (m *Model) clampCursor() {
	n := len(m.visibleItems())
	if m.cursor >= n {
		m.cursor = max(n-1, 0)
	}
	m.ensureVisible()
}

func (m *Model) ensureVisible() {
	vh := m.viewportHeight()
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+vh {
		m.offset = m.cursor - vh + 1
	}
}

func (m Model) viewportHeight() int {
	// header (4) + search (1) + footer (3) + padding
	return max(m.height-10, 1)
}

// visibleItems returns the rows of the focused pane filtered by the search
// query (case-insensitive substring).
func (m Model) visibleItems() []Entry {
	running := make(map[string]bool, len(m.running))
	for _, n := range m.running {
		running[n] = true
	}

	var names []string
	if m.pane == PaneRunning {
		names = m.running
	} else {
		names = append(m.store.Processes(), m.store.Defaults()...)
	}

	query := strings.ToLower(strings.TrimSpace(m.search.Value()))
	out := make([]Entry, 0, len(names))
	for _, n := range names {
		if query != "" && !strings.Contains(strings.ToLower(n), query) {
			continue
		}
		out = append(out, Entry{
			Name:      n,
			Protected: m.store.IsWhitelisted(n),
			Default:   m.store.IsDefault(n),
			Running:   running[n],
		})
	}
	return out
}
