package core

import (
	"fmt"
	"slices"
	"sync/atomic"
)

// Store holds the immutable snapshot of contributions loaded at startup.
// The snapshot slice is never written after NewStore returns, so readers
// share it without locking. Close drops the reference: queries that already
// hold the snapshot finish against it, later ones get ErrStoreClosed.
type Store struct {
	snapshot atomic.Pointer[[]Contribution]
}

func NewStore(contributions []Contribution) (*Store, error) {
	seen := make(map[int64]struct{}, len(contributions))
	for _, c := range contributions {
		if _, ok := seen[c.Id]; ok {
			return nil, fmt.Errorf("%w: %d", ErrDuplicateID, c.Id)
		}

		seen[c.Id] = struct{}{}
	}

	records := slices.Clone(contributions)
	if records == nil {
		records = []Contribution{}
	}

	store := &Store{}
	store.snapshot.Store(&records)

	return store, nil
}

// Snapshot returns the records in insertion order. Callers must not modify it.
func (s *Store) Snapshot() ([]Contribution, error) {
	records := s.snapshot.Load()
	if records == nil {
		return nil, ErrStoreClosed
	}

	return *records, nil
}

func (s *Store) Len() int {
	records := s.snapshot.Load()
	if records == nil {
		return 0
	}

	return len(*records)
}

func (s *Store) Close() {
	s.snapshot.Store(nil)
}
