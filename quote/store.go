package quote

import (
	"sync"
	"time"

	"github.com/polyrabbit/folio/config"
)

// Store holds the fixed holdings and the snapshot set of the last successful cycle.
// The snapshot map is swapped as a whole, never patched.
type Store struct {
	holdings []config.Holding

	mu        sync.RWMutex
	snapshots map[string]Snapshot
	updatedAt time.Time
	lastErr   error
}

// Status describes the outcome of the most recent cycle.
type Status struct {
	UpdatedAt time.Time // completion of the last successful cycle, zero if none yet
	Err       error     // set while quotes are unavailable
}

func NewStore(holdings []config.Holding) *Store {
	return &Store{
		holdings:  append([]config.Holding(nil), holdings...),
		snapshots: map[string]Snapshot{},
	}
}

func (s *Store) Holdings() []config.Holding {
	return append([]config.Holding(nil), s.holdings...)
}

// Replace installs a new snapshot set and clears any unavailable notice.
func (s *Store) Replace(snapshots map[string]Snapshot, at time.Time) {
	next := make(map[string]Snapshot, len(snapshots))
	for k, v := range snapshots {
		next[k] = v
	}
	s.mu.Lock()
	s.snapshots = next
	s.updatedAt = at
	s.lastErr = nil
	s.mu.Unlock()
	snapshotCount.Set(float64(len(next)))
}

// MarkUnavailable records a failed cycle, the previous snapshots stay visible.
func (s *Store) MarkUnavailable(err error) {
	s.mu.Lock()
	s.lastErr = err
	s.mu.Unlock()
}

func (s *Store) Get(symbol string) (Snapshot, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sp, ok := s.snapshots[symbol]
	return sp, ok
}

// Snapshots returns a copy of the current snapshot set.
func (s *Store) Snapshots() map[string]Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]Snapshot, len(s.snapshots))
	for k, v := range s.snapshots {
		out[k] = v
	}
	return out
}

func (s *Store) Status() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Status{UpdatedAt: s.updatedAt, Err: s.lastErr}
}
