package memory

import (
	"context"
	"sync"

	"github.com/lakshaymaurya-felt/cleanpc/internal/proc"
)

// Result describes one reclaim attempt.
type Result struct {
	// Supported is false when the platform has no reclaim mechanism.
	Supported bool
	// Count is the number of processes whose working set was trimmed.
	Count int
	// FreedBytes is the growth in free physical memory, when measurable.
	FreedBytes uint64
	// Message is a human-readable outcome, including failures.
	Message string
}

// Reclaimer is a platform mechanism for returning memory to the OS.
type Reclaimer interface {
	Reclaim(ctx context.Context, procs []proc.Process) Result
}

// SystemReclaimer returns the reclaimer for the running OS.
func SystemReclaimer() Reclaimer {
	return systemReclaimer()
}

// freed returns after-before, or 0 when memory shrank.
func freed(before, after uint64) uint64 {
	if after > before {
		return after - before
	}
	return 0
}

// MockReclaimer is a Reclaimer for tests.
type MockReclaimer struct {
	mu sync.Mutex

	Result Result
	calls  [][]proc.Process
}

// Reclaim records procs and returns Result.
func (m *MockReclaimer) Reclaim(ctx context.Context, procs []proc.Process) Result {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, procs)
	return m.Result
}

// Calls returns the process lists Reclaim was called with.
func (m *MockReclaimer) Calls() [][]proc.Process {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([][]proc.Process(nil), m.calls...)
}
