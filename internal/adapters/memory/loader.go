// Package memory provides map-backed adapters, mainly for tests and
// embedded use.
package memory

import (
	"fmt"
	"sort"
	"sync"

	"github.com/parleyio/parley/pkg/dialogue"
	"github.com/parleyio/parley/pkg/ports"
)

// Loader implements ports.GraphLoader over an in-memory map.
type Loader struct {
	mu     sync.RWMutex
	graphs map[string]*dialogue.Graph
}

// NewLoader creates an empty in-memory loader.
func NewLoader() *Loader {
	return &Loader{graphs: make(map[string]*dialogue.Graph)}
}

// Put stores the graph under name, replacing any previous entry.
func (l *Loader) Put(name string, g *dialogue.Graph) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.graphs[name] = g
}

// Load returns the graph stored under name.
func (l *Loader) Load(name string) (*dialogue.Graph, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	g, ok := l.graphs[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ports.ErrGraphNotFound, name)
	}
	return g, nil
}

// List returns all stored graph names in sorted order.
func (l *Loader) List() ([]string, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	names := make([]string, 0, len(l.graphs))
	for name := range l.graphs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}
