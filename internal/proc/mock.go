package proc

import (
	"context"
	"sync"
	"time"
)

// MockTable is an in-memory Table for tests.
type MockTable struct {
	mu sync.Mutex

	Procs []Process
	// Files maps a PID to the paths it holds open.
	Files map[int32][]string
	// FilesErr maps a PID to the error OpenFiles returns for it.
	FilesErr map[int32]error
	// TerminateErr maps a PID to the error Terminate returns for it.
	// PIDs absent from the map exit cleanly and disappear from Procs.
	TerminateErr map[int32]error
	// ListErr, when set, is returned by Processes.
	ListErr error

	terminated []int32
}

// Processes returns a copy of Procs.
func (m *MockTable) Processes(ctx context.Context) ([]Process, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ListErr != nil {
		return nil, m.ListErr
	}
	return append([]Process(nil), m.Procs...), nil
}

// OpenFiles returns Files[pid] or FilesErr[pid].
func (m *MockTable) OpenFiles(ctx context.Context, pid int32) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.FilesErr[pid]; err != nil {
		return nil, err
	}
	return append([]string(nil), m.Files[pid]...), nil
}

// Terminate records the request and applies TerminateErr.
func (m *MockTable) Terminate(ctx context.Context, pid int32, timeout time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.terminated = append(m.terminated, pid)
	if err := m.TerminateErr[pid]; err != nil {
		return err
	}
	for i, p := range m.Procs {
		if p.PID == pid {
			m.Procs = append(m.Procs[:i], m.Procs[i+1:]...)
			break
		}
	}
	return nil
}

// Terminated returns every PID Terminate was called with, in call order.
func (m *MockTable) Terminated() []int32 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]int32(nil), m.terminated...)
}
