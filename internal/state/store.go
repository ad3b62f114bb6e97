package state

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/gofrs/flock"

	"github.com/Paintersrp/groo/internal/metrics"
)

// Store reads and writes the registry file.
type Store struct {
	path     string
	lockPath string
}

// NewStore constructs a store for the registry at path, serialising updates
// through lockPath.
func NewStore(path, lockPath string) *Store {
	return &Store{path: path, lockPath: lockPath}
}

// Path returns the registry file location.
func (s *Store) Path() string {
	return s.path
}

// Load reads the registry. A missing, unreadable or malformed file yields an
// empty registry.
func (s *Store) Load() *State {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			log.Debug("state file unreadable", "path", s.path, "err", err)
		}
		return New()
	}
	st := New()
	if err := json.Unmarshal(data, st); err != nil {
		log.Debug("state file corrupt, starting empty", "path", s.path, "err", err)
		return New()
	}
	st.ensure()
	return st
}

// Save writes the registry, creating the config directory first.
func (s *Store) Save(st *State) error {
	if st == nil {
		st = New()
	}
	st.ensure()
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	data, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return fmt.Errorf("encode state: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return fmt.Errorf("write state: %w", err)
	}
	return nil
}

// Update runs fn on a freshly loaded registry and saves the result, holding
// an exclusive file lock for the whole load-modify-save cycle. The registry
// is not saved when fn fails.
func (s *Store) Update(fn func(*State) error) error {
	if err := os.MkdirAll(filepath.Dir(s.lockPath), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	lock := flock.New(s.lockPath)
	if err := lock.Lock(); err != nil {
		return fmt.Errorf("lock state: %w", err)
	}
	defer func() {
		if err := lock.Unlock(); err != nil {
			log.Debug("unlock state", "path", s.lockPath, "err", err)
		}
	}()

	st := s.Load()
	if err := fn(st); err != nil {
		return err
	}
	return s.Save(st)
}

// Reconcile prunes stale entries under the lock and returns the cleaned
// registry.
func (s *Store) Reconcile(live Liveness) (*State, error) {
	var cleaned *State
	err := s.Update(func(st *State) error {
		if n := st.CleanStalePids(live); n > 0 {
			metrics.AddRegistryPruned(n)
			log.Debug("pruned stale services", "count", n)
		}
		cleaned = st
		return nil
	})
	return cleaned, err
}
