// Package whitelist owns the set of process names the cleaner must never
// terminate, and whose files it must never delete.
package whitelist

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"sync"

	"github.com/rs/zerolog/log"
)

// DefaultPath is where the user whitelist lives, relative to the working
// directory.
const DefaultPath = "config/whitelist.json"

// store is the on-disk document.
type store struct {
	Processes []string `json:"processes"`
}

// Manager answers membership queries against the compiled-in default set
// and a persisted user set. Every mutation is flushed to disk synchronously.
type Manager struct {
	path     string
	defaults map[string]struct{}

	mu   sync.RWMutex
	user map[string]struct{}
}

// Option customizes a Manager.
type Option func(*Manager)

// WithDefaults replaces the compiled-in default set.
func WithDefaults(names ...string) Option {
	return func(m *Manager) {
		m.defaults = make(map[string]struct{}, len(names))
		for _, n := range names {
			m.defaults[n] = struct{}{}
		}
	}
}

// errCorrupt marks a store that exists but does not decode.
var errCorrupt = errors.New("corrupt whitelist store")

// Open loads the user whitelist at path, creating it when missing. A missing
// or corrupt store yields an empty user set and a fresh file on disk. Any
// other read error leaves the file alone and starts with an empty user set.
// Open never fails.
func Open(path string, opts ...Option) *Manager {
	if path == "" {
		path = DefaultPath
	}
	m := &Manager{
		path:     path,
		defaults: currentDefaults(),
		user:     make(map[string]struct{}),
	}
	for _, opt := range opts {
		opt(m)
	}

	if err := m.load(); err != nil {
		m.user = make(map[string]struct{})
		if !resettable(err) {
			log.Warn().Err(err).Str("path", path).Msg("whitelist store unreadable, using defaults only")
			return m
		}
		log.Warn().Err(err).Str("path", path).Msg("whitelist store missing or corrupt, starting empty")
		if err := m.save(); err != nil {
			log.Error().Err(err).Str("path", path).Msg("failed to write whitelist store")
		}
	}
	return m
}

// Path returns the store location.
func (m *Manager) Path() string {
	return m.path
}

// IsWhitelisted reports whether name is protected, by default or by the user.
// Matching is exact and case-sensitive.
func (m *Manager) IsWhitelisted(name string) bool {
	if m.IsDefault(name) {
		return true
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.user[name]
	return ok
}

// IsDefault reports whether name is in the compiled-in set.
func (m *Manager) IsDefault(name string) bool {
	_, ok := m.defaults[name]
	return ok
}

// Add protects name and persists the change. It returns false when name is
// empty or already protected.
func (m *Manager) Add(name string) bool {
	if name == "" || m.IsDefault(name) {
		return false
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.user[name]; ok {
		return false
	}
	m.user[name] = struct{}{}
	m.persistLocked()
	return true
}

// Remove unprotects a user-added name and persists the change. Default
// entries are never removed.
func (m *Manager) Remove(name string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.user[name]; !ok {
		return false
	}
	delete(m.user, name)
	m.persistLocked()
	return true
}

// Processes returns the user-added names, sorted.
func (m *Manager) Processes() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return sortedKeys(m.user)
}

// Defaults returns the compiled-in names, sorted.
func (m *Manager) Defaults() []string {
	return sortedKeys(m.defaults)
}

// ─── Persistence ─────────────────────────────────────────────────────────────

func (m *Manager) load() error {
	data, err := os.ReadFile(m.path)
	if err != nil {
		return err
	}

	var doc store
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("decode %s: %w: %w", m.path, errCorrupt, err)
	}

	m.user = make(map[string]struct{}, len(doc.Processes))
	for _, name := range doc.Processes {
		if name != "" {
			m.user[name] = struct{}{}
		}
	}
	log.Debug().Str("path", m.path).Int("entries", len(m.user)).Msg("whitelist loaded")
	return nil
}

// resettable reports whether a load error allows overwriting the store.
func resettable(err error) bool {
	return errors.Is(err, fs.ErrNotExist) || errors.Is(err, errCorrupt)
}

// persistLocked writes the store; the in-memory set stays authoritative even
// when the write fails.
func (m *Manager) persistLocked() {
	if err := m.save(); err != nil {
		log.Error().Err(err).Str("path", m.path).Msg("failed to persist whitelist")
	}
}

func (m *Manager) save() error {
	if dir := filepath.Dir(m.path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create %s: %w", dir, err)
		}
	}

	doc := store{Processes: sortedKeys(m.user)}
	data, err := json.MarshalIndent(doc, "", "    ")
	if err != nil {
		return err
	}

	// Write a sibling then rename; readers never see a partial document.
	tmp := m.path + ".tmp"
	if err := os.WriteFile(tmp, append(data, '\n'), 0o644); err != nil {
		return err
	}
	if err := os.Rename(tmp, m.path); err != nil {
		return errors.Join(err, os.Remove(tmp))
	}
	return nil
}

func sortedKeys(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	slices.Sort(out)
	return out
}
