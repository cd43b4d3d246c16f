// Package proc models the OS process table behind a small capability
// interface so the cleaner and memory views can run against a test double.
package proc

import (
	"context"
	"errors"
	"fmt"
	"time"
)

var (
	// ErrNotFound means the process exited before or during the operation.
	ErrNotFound = errors.New("process not found")

	// ErrAccessDenied means the OS refused the request.
	ErrAccessDenied = errors.New("access denied")

	// ErrTimeout means the process did not exit within the wait window.
	ErrTimeout = errors.New("timed out waiting for exit")
)

// Process is a fixed-shape snapshot of one entry in the process table.
type Process struct {
	PID           int32
	PPID          int32
	Name          string
	RSS           uint64  // resident set size in bytes
	MemoryPercent float32 // RSS as a percentage of total physical memory
}

// String renders the descriptor used in analysis listings: "name (PID: n)".
func (p Process) String() string {
	return fmt.Sprintf("%s (PID: %d)", p.Name, p.PID)
}

// Table is the set of process-table operations the cleaner needs.
type Table interface {
	// Processes lists running processes. Entries whose name cannot be read
	// are omitted.
	Processes(ctx context.Context) ([]Process, error)

	// OpenFiles lists paths the process currently holds open.
	OpenFiles(ctx context.Context, pid int32) ([]string, error)

	// Terminate requests a graceful exit and waits up to timeout for it.
	Terminate(ctx context.Context, pid int32, timeout time.Duration) error
}

// Ancestors returns the PIDs of pid and every ancestor found in procs.
// Cycles (PID reuse) are cut off.
func Ancestors(procs []Process, pid int32) map[int32]bool {
	parent := make(map[int32]int32, len(procs))
	for _, p := range procs {
		parent[p.PID] = p.PPID
	}

	out := map[int32]bool{pid: true}
	for cur := pid; ; {
		ppid, ok := parent[cur]
		if !ok || ppid <= 0 || out[ppid] {
			break
		}
		out[ppid] = true
		cur = ppid
	}
	return out
}
