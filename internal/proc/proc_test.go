package proc

import (
	"context"
	"errors"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/shirou/gopsutil/v4/process"
)

func TestProcessString(t *testing.T) {
	p := Process{PID: 42, Name: "chrome.exe"}
	if got := p.String(); got != "chrome.exe (PID: 42)" {
		t.Errorf("String() = %q", got)
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{"gopsutil not running", process.ErrorProcessNotRunning, ErrNotFound},
		{"process done", os.ErrProcessDone, ErrNotFound},
		{"permission", fmt.Errorf("open: %w", os.ErrPermission), ErrAccessDenied},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := classify(tt.err); !errors.Is(got, tt.want) {
				t.Errorf("classify(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}

	plain := errors.New("plain")
	if got := classify(plain); got != plain {
		t.Errorf("classify should pass unknown errors through, got %v", got)
	}
}

func TestSystemTerminateCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// The PID does not exist, so only the context error can come back.
	err := NewSystem().Terminate(ctx, 1<<30, time.Second)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Terminate() = %v, want context.Canceled", err)
	}
}

func TestAncestors(t *testing.T) {
	procs := []Process{
		{PID: 1, PPID: 0, Name: "init"},
		{PID: 10, PPID: 1, Name: "sshd"},
		{PID: 20, PPID: 10, Name: "bash"},
		{PID: 30, PPID: 20, Name: "cleanpc"},
		{PID: 40, PPID: 1, Name: "other"},
	}
	got := Ancestors(procs, 30)
	for _, pid := range []int32{30, 20, 10, 1} {
		if !got[pid] {
			t.Errorf("Ancestors missing pid %d", pid)
		}
	}
	if got[40] {
		t.Error("Ancestors should not include unrelated pid 40")
	}
}

func TestAncestorsStopsOnCycle(t *testing.T) {
	procs := []Process{
		{PID: 5, PPID: 6},
		{PID: 6, PPID: 5},
	}
	got := Ancestors(procs, 5)
	if len(got) != 2 {
		t.Errorf("Ancestors() = %v, want two entries", got)
	}
}

func TestMockTableTerminate(t *testing.T) {
	m := &MockTable{
		Procs:        []Process{{PID: 1, Name: "a"}, {PID: 2, Name: "b"}},
		TerminateErr: map[int32]error{2: ErrTimeout},
	}
	ctx := context.Background()

	if err := m.Terminate(ctx, 1, 0); err != nil {
		t.Fatalf("Terminate(1) = %v", err)
	}
	if err := m.Terminate(ctx, 2, 0); !errors.Is(err, ErrTimeout) {
		t.Fatalf("Terminate(2) = %v, want ErrTimeout", err)
	}

	procs, _ := m.Processes(ctx)
	if len(procs) != 1 || procs[0].PID != 2 {
		t.Errorf("Processes() after terminate = %v", procs)
	}
	if got := m.Terminated(); len(got) != 2 {
		t.Errorf("Terminated() = %v", got)
	}
}
