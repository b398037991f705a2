package ports

import (
	"context"
	"errors"

	"github.com/parleyio/parley/pkg/dialogue"
)

// ErrGraphNotFound is returned when a loader has no graph under the
// requested name.
var ErrGraphNotFound = errors.New("dialogue graph not found")

// GraphLoader resolves dialogue graphs by name. The session uses it to
// expand SubDialogue nodes, whose text is the lookup key.
type GraphLoader interface {
	// Load returns the graph stored under name, or ErrGraphNotFound.
	Load(name string) (*dialogue.Graph, error)

	// List returns the names of all available graphs.
	List() ([]string, error)
}

// Watchable is implemented by loaders that can signal backend changes,
// typically for dev-mode hot reload.
type Watchable interface {
	// Watch returns a channel signaled whenever the underlying storage
	// changes. The channel closes when ctx is done.
	Watch(ctx context.Context) (<-chan struct{}, error)
}
