// Package status is the live memory dashboard behind `cleanpc memory`.
package status

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/lakshaymaurya-felt/cleanpc/internal/memory"
)

// ─── Tab enumeration ─────────────────────────────────────────────────────────

// Tab identifies one of the dashboard sections.
type Tab int

const (
	TabOverview Tab = iota
	TabProcesses
)

// TabNames is the display label for each tab.
var TabNames = []string{"Overview", "Processes"}

// historyLen is how many readings the usage sparkline keeps.
const historyLen = 60

// Source is what the dashboard reads from. *memory.Manager satisfies it.
type Source interface {
	Stats(ctx context.Context) (memory.Stats, error)
	Usage(ctx context.Context) ([]memory.ProcessUsage, error)
	Optimize(ctx context.Context) memory.Result
}

// ─── Messages ────────────────────────────────────────────────────────────────

type tickMsg time.Time

type snapshotMsg struct {
	stats memory.Stats
	usage []memory.ProcessUsage
	err   error
}

type optimizeMsg memory.Result

// ─── Model ───────────────────────────────────────────────────────────────────

// StatusModel is the bubbletea Model for the memory dashboard.
type StatusModel struct {
	src             Source
	Stats           *memory.Stats
	Usage           []memory.ProcessUsage
	Tab             Tab
	Width           int
	Height          int
	TopN            int
	refreshInterval time.Duration
	quitting        bool
	Err             error

	Optimizing bool
	LastResult *memory.Result

	// MemHistory holds the last historyLen used-percent readings.
	MemHistory []float64
}

// NewStatusModel creates a StatusModel reading from src every
// refreshInterval and listing the topN largest processes.
func NewStatusModel(src Source, refreshInterval time.Duration, topN int) StatusModel {
	if refreshInterval <= 0 {
		refreshInterval = 2 * time.Second
	}
	if topN <= 0 {
		topN = 20
	}
	return StatusModel{
		src:             src,
		Width:           80,
		Height:          24,
		TopN:            topN,
		refreshInterval: refreshInterval,
	}
}

func (m StatusModel) doTick() tea.Cmd {
	return tea.Tick(m.refreshInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m StatusModel) collect() tea.Cmd {
	src, topN := m.src, m.TopN
	return func() tea.Msg {
		ctx := context.Background()
		stats, err := src.Stats(ctx)
		if err != nil {
			return snapshotMsg{err: err}
		}
		usage, err := src.Usage(ctx)
		if len(usage) > topN {
			usage = usage[:topN]
		}
		return snapshotMsg{stats: stats, usage: usage, err: err}
	}
}

func (m StatusModel) optimize() tea.Cmd {
	src := m.src
	return func() tea.Msg {
		return optimizeMsg(src.Optimize(context.Background()))
	}
}

// ─── tea.Model interface ─────────────────────────────────────────────────────

func (m StatusModel) Init() tea.Cmd {
	// The first snapshotMsg starts the tick loop, keeping collection and
	// display strictly sequential.
	return m.collect()
}

func (m StatusModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			m.quitting = true
			return m, tea.Quit
		case "tab", "shift+tab":
			m.Tab = (m.Tab + 1) % Tab(len(TabNames))
		case "1":
			m.Tab = TabOverview
		case "2":
			m.Tab = TabProcesses
		case "o":
			if !m.Optimizing {
				m.Optimizing = true
				return m, m.optimize()
			}
		}
		return m, nil

	case tickMsg:
		return m, m.collect()

	case snapshotMsg:
		m.Err = msg.err
		if msg.err == nil || msg.stats.Total > 0 {
			s := msg.stats
			m.Stats = &s
			m.Usage = msg.usage
			m.MemHistory = appendF64(m.MemHistory, s.UsedPercent, historyLen)
		}
		return m, m.doTick()

	case optimizeMsg:
		res := memory.Result(msg)
		m.Optimizing = false
		m.LastResult = &res
		// The pending tick picks up the new figures.
		return m, nil
	}

	return m, nil
}

func (m StatusModel) View() string {
	if m.quitting {
		return ""
	}
	return m.renderView()
}

// ─── History helpers ─────────────────────────────────────────────────────────

func appendF64(h []float64, v float64, maxLen int) []float64 {
	h = append(h, v)
	if len(h) > maxLen {
		h = h[1:]
	}
	return h
}
