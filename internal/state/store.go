package state

import (
	"fmt"
	"sync"
	"time"

	"github.com/five82/localizei/internal/catalog"
)

// Snapshot represents the latest listing available to the UI.
type Snapshot struct {
	Stores              []catalog.Store
	Categories          []catalog.Category
	Loading             bool
	FromCache           bool // listing was seeded from the local cache and not yet refreshed
	LastUpdated         time.Time
	LastError           error
	ConsecutiveFailures int
}

// IsOffline returns true when the backend has been unreachable for multiple refreshes.
func (s Snapshot) IsOffline() bool {
	return s.ConsecutiveFailures >= 2
}

// HasListing reports whether any stores are available to render.
func (s Snapshot) HasListing() bool {
	return len(s.Stores) > 0
}

// Store coordinates concurrent updates to the snapshot.
type Store struct {
	mu       sync.RWMutex
	snapshot Snapshot
}

// BeginRefresh marks a fetch as in flight.
func (s *Store) BeginRefresh() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshot.Loading = true
}

// Seed installs a cached listing. It is ignored once a live refresh has
// succeeded so a slow cache read never overwrites fresher data.
func (s *Store) Seed(stores []catalog.Store, cats []catalog.Category, at time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.snapshot.LastUpdated.IsZero() && !s.snapshot.FromCache {
		return
	}
	s.snapshot.Stores = cloneStores(stores)
	if len(cats) > 0 {
		s.snapshot.Categories = cloneCategories(cats)
	}
	s.snapshot.FromCache = true
	s.snapshot.LastUpdated = at
}

// Update replaces the stored listing. When err is non-nil the previous data is
// kept but the error is recorded for visibility. A nil cats slice keeps the
// current categories.
func (s *Store) Update(stores []catalog.Store, cats []catalog.Category, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.snapshot.Loading = false
	if err != nil {
		s.snapshot.LastError = err
		s.snapshot.ConsecutiveFailures++
		return
	}

	s.snapshot.Stores = cloneStores(stores)
	if cats != nil {
		s.snapshot.Categories = cloneCategories(cats)
	}
	s.snapshot.FromCache = false
	s.snapshot.LastError = nil
	s.snapshot.LastUpdated = time.Now()
	s.snapshot.ConsecutiveFailures = 0
}

// Snapshot returns a copy of the current snapshot.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := s.snapshot
	snap.Stores = cloneStores(s.snapshot.Stores)
	snap.Categories = cloneCategories(s.snapshot.Categories)
	if s.snapshot.LastError != nil {
		snap.LastError = fmt.Errorf("%w", s.snapshot.LastError)
	}
	return snap
}

func cloneStores(items []catalog.Store) []catalog.Store {
	if len(items) == 0 {
		return nil
	}
	dup := make([]catalog.Store, len(items))
	copy(dup, items)
	return dup
}

func cloneCategories(items []catalog.Category) []catalog.Category {
	if len(items) == 0 {
		return nil
	}
	dup := make([]catalog.Category, len(items))
	copy(dup, items)
	return dup
}
