// Package file loads dialogue graphs from a directory of JSON and YAML
// files. The file name without its extension is the dialogue name.
package file

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/fsnotify/fsnotify"

	"github.com/parleyio/parley/internal/logging"
	"github.com/parleyio/parley/pkg/dialogue"
	"github.com/parleyio/parley/pkg/ports"
	"github.com/parleyio/parley/pkg/wire"
)

// Loader reads graphs from disk on every Load call, so edits are picked
// up without a restart.
type Loader struct {
	dir    string
	codec  *wire.Codec
	logger *slog.Logger
}

// Option configures a Loader.
type Option func(*Loader)

// WithLogger sets the logger used for watch events and decode warnings.
func WithLogger(logger *slog.Logger) Option {
	return func(l *Loader) {
		l.logger = logger
	}
}

// NewLoader creates a loader rooted at dir.
func NewLoader(dir string, opts ...Option) *Loader {
	l := &Loader{
		dir:    dir,
		logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(l)
	}
	l.codec = wire.NewCodec(wire.WithLogger(l.logger))
	return l
}

// Load reads and decodes the graph stored under name.
func (l *Loader) Load(name string) (*dialogue.Graph, error) {
	path, err := l.resolve(name)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read dialogue file: %w", err)
	}

	if strings.HasSuffix(path, ".json") {
		return l.codec.DecodeGraphJSON(data)
	}
	return l.codec.DecodeGraphYAML(data)
}

// List returns the dialogue names available in the directory, sorted.
func (l *Loader) List() ([]string, error) {
	entries, err := os.ReadDir(l.dir)
	if err != nil {
		return nil, fmt.Errorf("list dialogue dir: %w", err)
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		ext := filepath.Ext(e.Name())
		switch ext {
		case ".json", ".yaml", ".yml":
			names = append(names, strings.TrimSuffix(e.Name(), ext))
		}
	}
	sort.Strings(names)
	return names, nil
}

// Watch notifies on every change to a dialogue file in the directory.
// The channel closes when ctx is cancelled.
func (l *Loader) Watch(ctx context.Context) (<-chan struct{}, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if err := watcher.Add(l.dir); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("watch dialogue dir: %w", err)
	}

	changes := make(chan struct{}, 1)

	go func() {
		defer watcher.Close()
		defer close(changes)
		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if !event.Op.Has(fsnotify.Write) && !event.Op.Has(fsnotify.Create) && !event.Op.Has(fsnotify.Remove) {
					continue
				}
				l.logger.Debug("dialogue file changed", "file", event.Name, "op", event.Op.String())
				select {
				case changes <- struct{}{}:
				default:
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				l.logger.Warn("dialogue watch error", "error", err)
			}
		}
	}()

	return changes, nil
}

func (l *Loader) resolve(name string) (string, error) {
	for _, ext := range []string{".json", ".yaml", ".yml"} {
		path := filepath.Join(l.dir, name+ext)
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
	}
	return "", fmt.Errorf("dialogue %q: %w", name, ports.ErrGraphNotFound)
}

var (
	_ ports.GraphLoader = (*Loader)(nil)
	_ ports.Watchable   = (*Loader)(nil)
)
