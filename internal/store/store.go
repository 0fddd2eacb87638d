// Package store holds the in-memory snapshot of one entity collection.
package store

import (
	"context"
	"errors"
	"sync"
	"time"
)

// ErrStale is returned by Load when a newer load started before this one finished.
// The stale result is discarded.
var ErrStale = errors.New("store: superseded by a newer load")

// Loader fetches the full collection from the backend.
type Loader[T any] func(ctx context.Context) ([]T, error)

// Store is the sole owner of the current snapshot of a collection.
// Loads replace the snapshot wholesale; patches edit it in place.
type Store[T any] struct {
	load Loader[T]
	id   func(T) int64

	mu sync.RWMutex
	// gen advances on every load start and every patch; latest is the gen of the
	// newest load started.
	gen      uint64
	latest   uint64
	items    []T
	loading  bool
	loaded   bool
	err      error
	loadedAt time.Time
}

// New returns an empty store that fetches through load and identifies records by id.
func New[T any](load Loader[T], id func(T) int64) *Store[T] {
	return &Store[T]{load: load, id: id}
}

// Load fetches the collection and replaces the snapshot. On failure the snapshot
// becomes empty and the error is kept for Err. A load that finishes after a newer
// load started, or after a patch was applied, returns ErrStale and changes nothing.
func (s *Store[T]) Load(ctx context.Context) ([]T, error) {
	s.mu.Lock()
	s.gen++
	gen := s.gen
	s.latest = gen
	s.loading = true
	s.mu.Unlock()

	items, err := s.load(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.gen {
		if s.latest == gen {
			s.loading = false
		}
		return nil, ErrStale
	}
	s.loading = false
	s.loaded = true
	s.loadedAt = time.Now()
	if err != nil {
		s.items = nil
		s.err = err
		return nil, err
	}
	s.items = append([]T(nil), items...)
	s.err = nil
	return s.copyLocked(), nil
}

// Snapshot returns a copy of the current collection.
func (s *Store[T]) Snapshot() []T {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.copyLocked()
}

func (s *Store[T]) copyLocked() []T {
	return append([]T(nil), s.items...)
}

// Loading reports whether a load is in flight.
func (s *Store[T]) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

// Loaded reports whether any load has completed, successfully or not.
func (s *Store[T]) Loaded() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loaded
}

// Err is the error of the last completed load.
func (s *Store[T]) Err() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.err
}

// LoadedAt is when the last load completed.
func (s *Store[T]) LoadedAt() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loadedAt
}

// Len is the number of records held.
func (s *Store[T]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

// Find returns the record with id.
func (s *Store[T]) Find(id int64) (T, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, it := range s.items {
		if s.id(it) == id {
			return it, true
		}
	}
	var zero T
	return zero, false
}

// Upsert replaces the record with the same id in place, or inserts v at the front.
func (s *Store[T]) Upsert(v T) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gen++
	id := s.id(v)
	for i, it := range s.items {
		if s.id(it) == id {
			s.items[i] = v
			return
		}
	}
	s.items = append([]T{v}, s.items...)
}

// Update applies fn to the record with id. It reports whether the record exists.
func (s *Store[T]) Update(id int64, fn func(T) T) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, it := range s.items {
		if s.id(it) == id {
			s.gen++
			s.items[i] = fn(it)
			return true
		}
	}
	return false
}

// Remove drops the record with id. It reports whether one was removed.
func (s *Store[T]) Remove(id int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, it := range s.items {
		if s.id(it) == id {
			s.gen++
			s.items = append(s.items[:i:i], s.items[i+1:]...)
			return true
		}
	}
	return false
}

// Replace swaps in items as the whole collection.
func (s *Store[T]) Replace(items []T) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gen++
	s.items = append([]T(nil), items...)
	s.loaded = true
	s.err = nil
}
