package state

import (
	"fmt"
	"sync"
	"time"

	"github.com/five82/flimmer/internal/films"
)

// Snapshot represents the collection a view currently shows.
type Snapshot struct {
	Films               []films.Film
	Loaded              bool      // at least one fetch (or cache restore) succeeded
	Stale               bool      // Films came from the offline cache
	CachedAt            time.Time // when the cached collection was stored
	LastUpdated         time.Time
	LastError           error
	ConsecutiveFailures int
}

// IsOffline returns true when the backend has been unreachable for multiple fetches.
func (s Snapshot) IsOffline() bool {
	return s.ConsecutiveFailures >= 2
}

// Store coordinates concurrent updates to one view's collection.
type Store struct {
	mu       sync.RWMutex
	snapshot Snapshot
	gen      uint64 // bumped by Append
}

// Update replaces the collection. When err is non-nil the previous data is
// kept but the error is recorded for visibility.
func (s *Store) Update(items []films.Film, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.apply(items, err)
}

// Generation identifies the local state a fetch starts from. Pass it to
// UpdateSince when the fetch completes.
func (s *Store) Generation() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.gen
}

// UpdateSince is Update for a fetch that started at generation gen. A
// successful result is dropped when a film was appended in the meantime.
// It reports whether items were applied.
func (s *Store) UpdateSince(gen uint64, items []films.Film, err error) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err == nil && gen != s.gen {
		return false
	}
	s.apply(items, err)
	return err == nil
}

func (s *Store) apply(items []films.Film, err error) {
	s.snapshot.LastUpdated = time.Now()
	if err != nil {
		s.snapshot.LastError = err
		s.snapshot.ConsecutiveFailures++
		return
	}

	s.snapshot.Films = cloneFilms(items)
	s.snapshot.Loaded = true
	s.snapshot.Stale = false
	s.snapshot.CachedAt = time.Time{}
	s.snapshot.LastError = nil
	s.snapshot.ConsecutiveFailures = 0
}

// Append adds a film the backend accepted. The backend answered, so the
// collection is no longer marked as cached; failure counters are left to
// the next fetch.
func (s *Store) Append(film films.Film) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.snapshot.Films = append(cloneFilms(s.snapshot.Films), film)
	s.snapshot.Loaded = true
	s.snapshot.Stale = false
	s.snapshot.CachedAt = time.Time{}
	s.gen++
}

// Restore installs a cached collection when nothing fresher is available.
// It is ignored once live data has been loaded.
func (s *Store) Restore(items []films.Film, cachedAt time.Time) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.snapshot.Loaded {
		return false
	}
	s.snapshot.Films = cloneFilms(items)
	s.snapshot.Loaded = true
	s.snapshot.Stale = true
	s.snapshot.CachedAt = cachedAt
	return true
}

// Snapshot returns a copy of the current snapshot.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := s.snapshot
	snap.Films = cloneFilms(s.snapshot.Films)
	if s.snapshot.LastError != nil {
		snap.LastError = fmt.Errorf("%w", s.snapshot.LastError)
	}
	return snap
}

func cloneFilms(items []films.Film) []films.Film {
	if len(items) == 0 {
		return nil
	}
	dup := make([]films.Film, len(items))
	copy(dup, items)
	return dup
}
