package clean

import (
	"errors"
	"io/fs"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/lakshaymaurya-felt/cleanpc/internal/core"
	"github.com/lakshaymaurya-felt/cleanpc/internal/proc"
)

// Status is the outcome of one item in a pass.
type Status int

const (
	StatusDone Status = iota
	StatusSkipped
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusDone:
		return "done"
	case StatusSkipped:
		return "skipped"
	case StatusFailed:
		return "failed"
	}
	return "unknown"
}

// Skip reasons.
const (
	ReasonPreserved     = "preserved"
	ReasonWhitelisted   = "whitelisted"
	ReasonSelf          = "self"
	ReasonAccessDenied  = "access denied"
	ReasonNotFound      = "not found"
	ReasonTimeout       = "timeout"
	ReasonNotAccessible = "not accessible"
	ReasonCompressed    = "already compressed"
	ReasonIO            = "io error"
)

// ItemResult records what happened to one file or process.
type ItemResult struct {
	Target string
	Status Status
	Reason string
	Bytes  int64
	Err    error
}

// Report aggregates the item results of one analyze/clean pass. Reports are
// built fresh by every operation.
type Report struct {
	ID       string
	Op       string
	Started  time.Time
	Finished time.Time
	Items    []ItemResult

	// Err is set only when the pass itself could not run (e.g. the process
	// table was unreadable). Summary then holds a human-readable message.
	Err     error
	Summary string
}

func newReport(op string) *Report {
	return &Report{
		ID:      uuid.NewString(),
		Op:      op,
		Started: time.Now(),
	}
}

func (r *Report) done(target string, bytes int64) {
	r.Items = append(r.Items, ItemResult{Target: target, Status: StatusDone, Bytes: bytes})
}

func (r *Report) skip(target, reason string, err error) {
	log.Debug().Str("op", r.Op).Str("target", target).Str("reason", reason).Err(err).Msg("skipped")
	r.Items = append(r.Items, ItemResult{Target: target, Status: StatusSkipped, Reason: reason, Err: err})
}

func (r *Report) fail(target, reason string, err error) {
	log.Warn().Str("op", r.Op).Str("target", target).Err(err).Msg("failed")
	r.Items = append(r.Items, ItemResult{Target: target, Status: StatusFailed, Reason: reason, Err: err})
}

// record files an error as a skip when it is an expected transient
// condition (permission, vanished, timeout) and as a failure otherwise.
func (r *Report) record(target string, err error) {
	switch reason := reasonFor(err); reason {
	case ReasonAccessDenied, ReasonNotFound, ReasonTimeout:
		r.skip(target, reason, err)
	default:
		r.fail(target, reason, err)
	}
}

func (r *Report) abort(err error, msg string) *Report {
	r.Err = err
	r.Summary = msg + ": " + err.Error()
	log.Error().Err(err).Str("op", r.Op).Str("run", r.ID).Msg(msg)
	return r.finish()
}

func (r *Report) finish() *Report {
	r.Finished = time.Now()
	log.Info().
		Str("op", r.Op).
		Str("run", r.ID).
		Int("done", r.Count()).
		Int("skipped", r.countStatus(StatusSkipped)).
		Int("failed", r.countStatus(StatusFailed)).
		Dur("took", r.Finished.Sub(r.Started)).
		Msg("pass complete")
	return r
}

// Count returns the number of items the pass counted, removed or terminated.
func (r *Report) Count() int {
	return r.countStatus(StatusDone)
}

// Skipped returns the number of items skipped for any reason.
func (r *Report) Skipped() int {
	return r.countStatus(StatusSkipped)
}

// Failed returns the number of items that hit an unexpected error.
func (r *Report) Failed() int {
	return r.countStatus(StatusFailed)
}

func (r *Report) countStatus(s Status) int {
	n := 0
	for _, it := range r.Items {
		if it.Status == s {
			n++
		}
	}
	return n
}

// Bytes sums the bytes of done items.
func (r *Report) Bytes() int64 {
	var total int64
	for _, it := range r.Items {
		if it.Status == StatusDone {
			total += it.Bytes
		}
	}
	return total
}

// MB returns Bytes in whole megabytes, truncating.
func (r *Report) MB() int64 {
	return core.BytesToMB(r.Bytes())
}

// Details lists the targets of done items, in pass order.
func (r *Report) Details() []string {
	var out []string
	for _, it := range r.Items {
		if it.Status == StatusDone {
			out = append(out, it.Target)
		}
	}
	return out
}

// Listing lists every target the pass visited, whatever its outcome.
func (r *Report) Listing() []string {
	out := make([]string, 0, len(r.Items))
	for _, it := range r.Items {
		out = append(out, it.Target)
	}
	return out
}

// Reasons counts skipped and failed items by reason.
func (r *Report) Reasons() map[string]int {
	out := make(map[string]int)
	for _, it := range r.Items {
		if it.Status != StatusDone {
			out[it.Reason]++
		}
	}
	return out
}

func reasonFor(err error) string {
	switch {
	case errors.Is(err, fs.ErrPermission), errors.Is(err, proc.ErrAccessDenied):
		return ReasonAccessDenied
	case errors.Is(err, fs.ErrNotExist), errors.Is(err, proc.ErrNotFound):
		return ReasonNotFound
	case errors.Is(err, proc.ErrTimeout):
		return ReasonTimeout
	default:
		return ReasonIO
	}
}
