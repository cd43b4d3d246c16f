package proc

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"slices"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/shirou/gopsutil/v4/process"
)

// pollInterval is how often Terminate re-checks whether a process exited.
const pollInterval = 100 * time.Millisecond

// System is the gopsutil-backed Table for the running OS.
type System struct{}

// NewSystem returns the process table of the running OS.
func NewSystem() *System {
	return &System{}
}

// Processes lists running processes. Processes that vanish or deny access
// while being inspected are skipped; memory figures default to zero when
// they cannot be read.
func (s *System) Processes(ctx context.Context) ([]Process, error) {
	procs, err := process.ProcessesWithContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("list processes: %w", classify(err))
	}

	out := make([]Process, 0, len(procs))
	for _, p := range procs {
		name, err := p.NameWithContext(ctx)
		if err != nil || name == "" {
			log.Debug().Err(err).Int32("pid", p.Pid).Msg("skip process without name")
			continue
		}

		entry := Process{PID: p.Pid, Name: name}
		if ppid, err := p.PpidWithContext(ctx); err == nil {
			entry.PPID = ppid
		}
		if mi, err := p.MemoryInfoWithContext(ctx); err == nil && mi != nil {
			entry.RSS = mi.RSS
		}
		if pct, err := p.MemoryPercentWithContext(ctx); err == nil {
			entry.MemoryPercent = pct
		}
		out = append(out, entry)
	}
	return out, nil
}

// OpenFiles lists the paths pid holds open.
func (s *System) OpenFiles(ctx context.Context, pid int32) ([]string, error) {
	p, err := process.NewProcessWithContext(ctx, pid)
	if err != nil {
		return nil, classify(err)
	}
	files, err := p.OpenFilesWithContext(ctx)
	if err != nil {
		return nil, classify(err)
	}

	paths := make([]string, 0, len(files))
	for _, f := range files {
		if f.Path != "" {
			paths = append(paths, f.Path)
		}
	}
	return paths, nil
}

// Terminate asks pid to exit and polls until it is gone, becomes a zombie,
// or timeout elapses.
func (s *System) Terminate(ctx context.Context, pid int32, timeout time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	p, err := process.NewProcessWithContext(ctx, pid)
	if err != nil {
		return classify(err)
	}
	if err := p.TerminateWithContext(ctx); err != nil {
		return classify(err)
	}

	waitCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	for {
		if exited(waitCtx, p) {
			return nil
		}
		select {
		case <-waitCtx.Done():
			// One last look: the exit may have landed right at the deadline.
			if exited(context.Background(), p) {
				return nil
			}
			return ErrTimeout
		case <-ticker.C:
		}
	}
}

func exited(ctx context.Context, p *process.Process) bool {
	running, err := p.IsRunningWithContext(ctx)
	if err != nil || !running {
		return true
	}
	status, err := p.StatusWithContext(ctx)
	if err != nil {
		return false
	}
	return slices.Contains(status, process.Zombie)
}

// classify maps OS and gopsutil errors onto the package sentinels so callers
// can use errors.Is without knowing the platform.
func classify(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, process.ErrorProcessNotRunning),
		errors.Is(err, os.ErrProcessDone),
		errors.Is(err, fs.ErrNotExist),
		errors.Is(err, errNoSuchProcess):
		return fmt.Errorf("%w: %v", ErrNotFound, err)
	case errors.Is(err, os.ErrPermission):
		return fmt.Errorf("%w: %v", ErrAccessDenied, err)
	default:
		return err
	}
}
