package memory

import (
	"context"
	"sync"

	"github.com/parleyio/parley/pkg/scope"
)

// Store implements ports.ScopeStore in memory. Safe for concurrent use.
type Store struct {
	mu   sync.RWMutex
	data map[string]any
}

// NewStore creates an empty in-memory scope store.
func NewStore() *Store {
	return &Store{data: make(map[string]any)}
}

// Save persists a snapshot of the scope, replacing the previous snapshot.
func (s *Store) Save(ctx context.Context, vars *scope.Map) error {
	snapshot := vars.Snapshot()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = snapshot
	return nil
}

// Load writes the persisted values into the scope.
func (s *Store) Load(ctx context.Context, vars *scope.Map) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for k, v := range s.data {
		vars.Set(k, v)
	}
	return nil
}
