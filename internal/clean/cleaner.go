package clean

import (
	"context"
	"io/fs"
	"os"

	"github.com/rs/zerolog/log"

	"github.com/lakshaymaurya-felt/cleanpc/internal/proc"
)

// Cleaner removes files and terminates processes. In dry-run mode it
// produces the same report without touching anything.
type Cleaner struct {
	policy Policy
	table  proc.Table
	opts   Options
}

// NewCleaner wires a cleaner to a whitelist policy and a process table.
func NewCleaner(policy Policy, table proc.Table, opts Options) *Cleaner {
	return &Cleaner{policy: policy, table: table, opts: opts}
}

// CleanTempFiles deletes the non-preserved files under the temp roots.
func (c *Cleaner) CleanTempFiles(ctx context.Context) *Report {
	return c.removeFiles(ctx, "clean-temp", c.opts.TempRoots)
}

// CleanCache deletes the non-preserved files under the cache roots. The
// freed size in MB is Report.MB().
func (c *Cleaner) CleanCache(ctx context.Context) *Report {
	return c.removeFiles(ctx, "clean-cache", c.opts.CacheRoots)
}

func (c *Cleaner) removeFiles(ctx context.Context, op string, roots []string) *Report {
	r := newReport(op)
	keep := NewPreserver(ctx, c.table, c.policy)
	err := scanFiles(ctx, r, roots, keep, 0, func(path string, info fs.FileInfo) bool {
		if c.opts.DryRun {
			r.done(path, info.Size())
			return true
		}
		if err := os.Remove(longPath(path)); err != nil {
			r.record(path, err)
			return false
		}
		r.done(path, info.Size())
		return true
	})
	if err != nil {
		return r.abort(err, "clean interrupted")
	}
	return r.finish()
}

// TerminateUnnecessaryProcesses asks every non-whitelisted process to exit
// and waits up to the terminate timeout for each. The cleaner's own process
// and its ancestors are skipped.
func (c *Cleaner) TerminateUnnecessaryProcesses(ctx context.Context) *Report {
	r := newReport("terminate")
	procs, err := c.table.Processes(ctx)
	if err != nil {
		return r.abort(err, "could not list processes")
	}

	self := c.opts.SelfPID
	protected := map[int32]bool{}
	if self == 0 {
		self = int32(os.Getpid())
		protected[int32(os.Getppid())] = true
	}
	for pid := range proc.Ancestors(procs, self) {
		protected[pid] = true
	}

	timeout := c.opts.terminateTimeout()
	for _, p := range procs {
		if err := ctx.Err(); err != nil {
			return r.abort(err, "terminate interrupted")
		}
		switch {
		case c.policy.IsWhitelisted(p.Name):
			r.skip(p.String(), ReasonWhitelisted, nil)
		case protected[p.PID]:
			r.skip(p.String(), ReasonSelf, nil)
		case c.opts.DryRun:
			r.done(p.String(), int64(p.RSS))
		default:
			if err := c.table.Terminate(ctx, p.PID, timeout); err != nil {
				r.record(p.String(), err)
				continue
			}
			log.Debug().Str("process", p.String()).Msg("terminated")
			r.done(p.String(), int64(p.RSS))
		}
	}
	return r.finish()
}
