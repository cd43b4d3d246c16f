package clean

import (
	"context"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/lakshaymaurya-felt/cleanpc/internal/proc"
)

// Policy decides which process names are protected.
type Policy interface {
	IsWhitelisted(name string) bool
}

// Preserver is a snapshot of what running whitelisted processes need on
// disk. A file is preserved when its path contains the name of a running
// whitelisted process (case-insensitive, without ".exe"), or when one of
// those processes holds it open.
//
// The snapshot is taken once per pass, so processes starting mid-pass are
// not seen.
type Preserver struct {
	names []string
	open  map[string]string
}

// NewPreserver snapshots the process table. When the table cannot be read
// nothing is preserved by process, and the failure is logged.
func NewPreserver(ctx context.Context, table proc.Table, policy Policy) *Preserver {
	p := &Preserver{open: make(map[string]string)}

	procs, err := table.Processes(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("process snapshot failed, nothing preserved by process")
		return p
	}

	seen := make(map[string]bool)
	for _, pr := range procs {
		if !policy.IsWhitelisted(pr.Name) {
			continue
		}
		if stem := nameStem(pr.Name); stem != "" && !seen[stem] {
			seen[stem] = true
			p.names = append(p.names, stem)
		}
		files, err := table.OpenFiles(ctx, pr.PID)
		if err != nil {
			log.Debug().Err(err).Str("process", pr.String()).Msg("open files unavailable")
			continue
		}
		for _, f := range files {
			p.open[normalizePath(f)] = pr.Name
		}
	}
	return p
}

// Match reports whether path must be kept and which process name it matched.
func (p *Preserver) Match(path string) (string, bool) {
	if name, ok := p.open[normalizePath(path)]; ok {
		return name, true
	}
	lower := strings.ToLower(path)
	for _, stem := range p.names {
		if strings.Contains(lower, stem) {
			return stem, true
		}
	}
	return "", false
}

// nameStem lower-cases a process name and drops a trailing ".exe".
func nameStem(name string) string {
	return strings.TrimSuffix(strings.ToLower(name), ".exe")
}
