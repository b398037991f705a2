package ports

import (
	"context"

	"github.com/parleyio/parley/pkg/scope"
)

// ScopeStore persists the global variable scope, so game state written by
// dialogues survives the process.
type ScopeStore interface {
	// Save persists a snapshot of the scope.
	Save(ctx context.Context, vars *scope.Map) error

	// Load populates the scope with the persisted values, overwriting
	// entries that exist in both.
	Load(ctx context.Context, vars *scope.Map) error
}
