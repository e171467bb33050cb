// Package memory provides an in-memory registry store used for tests and
// ephemeral environments.
package memory

import (
	"context"
	"sync"

	"biochemreg/pkg/domain"
)

// Compile-time contract assertion ensuring memory.Store adheres to the domain persistence interface.
var _ domain.RegistryStore = (*Store)(nil)

// Store keeps one deep-copied snapshot.
type Store struct {
	mu    sync.RWMutex
	state domain.Snapshot
	saves int
}

// NewStore returns a store seeded with a copy of initial.
func NewStore(initial domain.Snapshot) *Store {
	state := initial.Clone()
	state.Normalize()
	return &Store{state: state}
}

// Load returns a copy of the stored snapshot.
func (s *Store) Load(ctx context.Context) (domain.Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return domain.Snapshot{}, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Clone(), nil
}

// Save replaces the stored snapshot with a copy of snapshot.
func (s *Store) Save(ctx context.Context, snapshot domain.Snapshot) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	next := snapshot.Clone()
	next.Normalize()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = next
	s.saves++
	return nil
}

// Saves reports how many times Save succeeded.
func (s *Store) Saves() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.saves
}

// Close implements domain.RegistryStore.
func (s *Store) Close() error { return nil }
