// Package clean finds and removes temporary files, cache data and
// non-whitelisted processes, preserving whatever running whitelisted
// processes depend on.
package clean

import (
	"context"
	"io/fs"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/lakshaymaurya-felt/cleanpc/internal/proc"
)

// ─── Options ─────────────────────────────────────────────────────────────────

// Options tunes a pass. The zero value scans nothing.
type Options struct {
	TempRoots  []string
	CacheRoots []string

	// TerminateTimeout bounds the wait for each process to exit.
	TerminateTimeout time.Duration

	// MaxFiles caps the number of files counted by one analysis pass.
	// 0 means unlimited.
	MaxFiles int

	// DryRun makes the cleaner report what it would do without doing it.
	DryRun bool

	// SelfPID is the PID whose ancestry is never terminated.
	// 0 means the running process.
	SelfPID int32
}

const defaultTerminateTimeout = 3 * time.Second

func (o Options) terminateTimeout() time.Duration {
	if o.TerminateTimeout <= 0 {
		return defaultTerminateTimeout
	}
	return o.TerminateTimeout
}

// ─── Analyzer ────────────────────────────────────────────────────────────────

// Analyzer reports what a clean would touch. It never modifies anything.
type Analyzer struct {
	policy Policy
	table  proc.Table
	opts   Options
}

// NewAnalyzer wires an analyzer to a whitelist policy and a process table.
func NewAnalyzer(policy Policy, table proc.Table, opts Options) *Analyzer {
	return &Analyzer{policy: policy, table: table, opts: opts}
}

// AnalyzeTempFiles counts the non-preserved files under the temp roots.
func (a *Analyzer) AnalyzeTempFiles(ctx context.Context) *Report {
	return a.analyzeFiles(ctx, "analyze-temp", a.opts.TempRoots)
}

// AnalyzeCache totals the non-preserved files under the cache roots. The
// size in MB is Report.MB().
func (a *Analyzer) AnalyzeCache(ctx context.Context) *Report {
	return a.analyzeFiles(ctx, "analyze-cache", a.opts.CacheRoots)
}

func (a *Analyzer) analyzeFiles(ctx context.Context, op string, roots []string) *Report {
	r := newReport(op)
	keep := NewPreserver(ctx, a.table, a.policy)
	err := scanFiles(ctx, r, roots, keep, a.opts.MaxFiles, func(path string, info fs.FileInfo) bool {
		r.done(path, info.Size())
		return true
	})
	if err != nil {
		return r.abort(err, "scan interrupted")
	}
	return r.finish()
}

// AnalyzeUnnecessaryProcesses counts processes outside the whitelist.
// Listing() holds every process as "name (PID: n)", whitelisted or not.
func (a *Analyzer) AnalyzeUnnecessaryProcesses(ctx context.Context) *Report {
	r := newReport("analyze-processes")
	procs, err := a.table.Processes(ctx)
	if err != nil {
		return r.abort(err, "could not list processes")
	}
	for _, p := range procs {
		if a.policy.IsWhitelisted(p.Name) {
			r.skip(p.String(), ReasonWhitelisted, nil)
			continue
		}
		r.done(p.String(), int64(p.RSS))
	}
	return r.finish()
}

// ─── Shared Scanning ─────────────────────────────────────────────────────────

// scanFiles walks roots and hands every non-preserved file to act, which
// records the outcome and reports whether it counted as done. Preserved
// files are recorded as skips. The walk stops once limit done items exist
// (0 = no cap).
func scanFiles(ctx context.Context, r *Report, roots []string, keep *Preserver, limit int, act func(string, fs.FileInfo) bool) error {
	done := 0
	return walkRoots(ctx, roots, func(path string, info fs.FileInfo) error {
		if by, ok := keep.Match(path); ok {
			log.Trace().Str("path", path).Str("process", by).Msg("preserved")
			r.skip(path, ReasonPreserved, nil)
			return nil
		}
		if act(path, info) {
			done++
		}
		if limit > 0 && done >= limit {
			return errStop
		}
		return nil
	})
}
