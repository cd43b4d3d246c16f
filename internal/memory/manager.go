// Package memory reports system and per-process memory usage and asks the OS
// to give memory back.
package memory

import (
	"cmp"
	"context"
	"fmt"
	"slices"

	"github.com/rs/zerolog/log"
	"github.com/shirou/gopsutil/v4/mem"

	"github.com/lakshaymaurya-felt/cleanpc/internal/core"
	"github.com/lakshaymaurya-felt/cleanpc/internal/proc"
)

// DefaultFloorMB is the RSS a process must exceed to appear in Usage.
const DefaultFloorMB = 1.0

// Stats is a snapshot of physical memory, in bytes.
type Stats struct {
	Total       uint64
	Used        uint64
	Available   uint64
	Free        uint64
	Cached      uint64
	Buffers     uint64
	UsedPercent float64
}

// FormattedStats is Stats rendered for display.
type FormattedStats struct {
	Total     string
	Used      string
	Available string
	Percent   string
}

// ProcessUsage is one row of the per-process memory table.
type ProcessUsage struct {
	PID           int32
	Name          string
	MemoryMB      float64
	MemoryPercent float32
}

// Manager answers memory questions about the running system.
type Manager struct {
	table     proc.Table
	reclaimer Reclaimer
	floorMB   float64
	virtual   func(context.Context) (*mem.VirtualMemoryStat, error)
}

// Option configures a Manager.
type Option func(*Manager)

// WithReclaimer replaces the platform reclaimer.
func WithReclaimer(r Reclaimer) Option {
	return func(m *Manager) { m.reclaimer = r }
}

// WithFloorMB sets the Usage floor. Non-positive values keep the default.
func WithFloorMB(mb float64) Option {
	return func(m *Manager) {
		if mb > 0 {
			m.floorMB = mb
		}
	}
}

// NewManager builds a Manager over the given process table.
func NewManager(table proc.Table, opts ...Option) *Manager {
	m := &Manager{
		table:     table,
		reclaimer: SystemReclaimer(),
		floorMB:   DefaultFloorMB,
		virtual:   mem.VirtualMemoryWithContext,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Stats reads the current physical memory figures.
func (m *Manager) Stats(ctx context.Context) (Stats, error) {
	vm, err := m.virtual(ctx)
	if err != nil {
		return Stats{}, fmt.Errorf("read memory stats: %w", err)
	}
	return Stats{
		Total:       vm.Total,
		Used:        vm.Used,
		Available:   vm.Available,
		Free:        vm.Free,
		Cached:      vm.Cached,
		Buffers:     vm.Buffers,
		UsedPercent: vm.UsedPercent,
	}, nil
}

// FormattedStats renders Stats as "15.87 GB" and "42.5%" strings.
func (m *Manager) FormattedStats(ctx context.Context) (FormattedStats, error) {
	s, err := m.Stats(ctx)
	if err != nil {
		return FormattedStats{}, err
	}
	return Format(s), nil
}

// Format renders s for display.
func Format(s Stats) FormattedStats {
	return FormattedStats{
		Total:     core.FormatGiB(s.Total),
		Used:      core.FormatGiB(s.Used),
		Available: core.FormatGiB(s.Available),
		Percent:   core.FormatPercent(s.UsedPercent),
	}
}

// Usage lists processes using more than the floor, largest first.
func (m *Manager) Usage(ctx context.Context) ([]ProcessUsage, error) {
	procs, err := m.table.Processes(ctx)
	if err != nil {
		return nil, fmt.Errorf("read process memory: %w", err)
	}

	out := make([]ProcessUsage, 0, len(procs))
	for _, p := range procs {
		mb := float64(p.RSS) / core.MiB
		if mb <= m.floorMB {
			continue
		}
		out = append(out, ProcessUsage{
			PID:           p.PID,
			Name:          p.Name,
			MemoryMB:      mb,
			MemoryPercent: p.MemoryPercent,
		})
	}
	slices.SortStableFunc(out, func(a, b ProcessUsage) int {
		return cmp.Compare(b.MemoryMB, a.MemoryMB)
	})
	return out, nil
}

// Optimize asks the OS to reclaim memory. It never fails: problems are
// described in the result's Message.
func (m *Manager) Optimize(ctx context.Context) Result {
	procs, err := m.table.Processes(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("process list unavailable for memory optimization")
		procs = nil
	}
	res := m.reclaimer.Reclaim(ctx, procs)
	log.Info().
		Bool("supported", res.Supported).
		Int("count", res.Count).
		Uint64("freed", res.FreedBytes).
		Msg(res.Message)
	return res
}
