package parley

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	fileadapter "github.com/parleyio/parley/internal/adapters/file"
	"github.com/parleyio/parley/internal/logging"
	"github.com/parleyio/parley/pkg/dialogue"
	"github.com/parleyio/parley/pkg/ports"
	"github.com/parleyio/parley/pkg/scope"
	"github.com/parleyio/parley/pkg/script"
	"github.com/parleyio/parley/pkg/session"
)

// Engine is the high-level entry point for the library. It owns the
// graph loader, the shared global scope and the function registry, and
// hands out sessions that traverse individual dialogues.
type Engine struct {
	loader      ports.GraphLoader
	store       ports.ScopeStore
	audio       ports.AudioPlayer
	globals     *scope.Map
	funcs       *script.Registry
	logger      *slog.Logger
	sessionOpts []session.Option
	Name        string
}

// Option defines a functional option for configuring the Engine.
type Option func(*Engine)

// WithLoader injects a custom GraphLoader, bypassing the default
// file-directory loader.
func WithLoader(l ports.GraphLoader) Option {
	return func(e *Engine) {
		e.loader = l
	}
}

// WithScopeStore sets the store used by LoadGlobals and SaveGlobals.
func WithScopeStore(store ports.ScopeStore) Option {
	return func(e *Engine) {
		e.store = store
	}
}

// WithAudio sets the player that dialogue audio cues are sent to.
func WithAudio(player ports.AudioPlayer) Option {
	return func(e *Engine) {
		e.audio = player
	}
}

// WithGlobals seeds the shared global scope.
func WithGlobals(vars *scope.Map) Option {
	return func(e *Engine) {
		e.globals = vars
	}
}

// WithFunctions sets the function registry used by every session.
func WithFunctions(funcs *script.Registry) Option {
	return func(e *Engine) {
		e.funcs = funcs
	}
}

// WithLogger sets a custom structured logger for the engine.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithStrict makes sessions fail on dangling transitions instead of
// synthesizing an end node.
func WithStrict(strict bool) Option {
	return func(e *Engine) {
		e.sessionOpts = append(e.sessionOpts, session.WithStrict(strict))
	}
}

// WithTypewriter makes sessions report lines as pending until the host
// marks them revealed.
func WithTypewriter(enabled bool) Option {
	return func(e *Engine) {
		e.sessionOpts = append(e.sessionOpts, session.WithTypewriter(enabled))
	}
}

// New initializes an Engine. By default dialogues are loaded from JSON
// and YAML files under dialogueDir; if WithLoader is provided,
// dialogueDir may be empty and is only used as a label.
func New(dialogueDir string, opts ...Option) (*Engine, error) {
	eng := &Engine{}

	for _, opt := range opts {
		opt(eng)
	}

	if eng.logger == nil {
		eng.logger = logging.NewNop()
	}

	if eng.loader == nil {
		if dialogueDir == "" {
			return nil, fmt.Errorf("dialogueDir is required when no custom loader is provided")
		}
		absPath, err := filepath.Abs(dialogueDir)
		if err != nil {
			return nil, fmt.Errorf("invalid path: %w", err)
		}
		eng.Name = filepath.Base(absPath)
		eng.loader = fileadapter.NewLoader(absPath, fileadapter.WithLogger(eng.logger))
	} else if dialogueDir != "" {
		eng.Name = filepath.Base(dialogueDir)
	}

	if eng.Name != "" {
		eng.logger = eng.logger.With("library", eng.Name)
	}
	if eng.globals == nil {
		eng.globals = scope.NewMap()
	}
	if eng.funcs == nil {
		eng.funcs = script.NewRegistry(script.WithRegistryLogger(eng.logger))
	}

	return eng, nil
}

// Start loads the named dialogue and begins a session on it.
func (e *Engine) Start(name string) (*session.Session, error) {
	g, err := e.loader.Load(name)
	if err != nil {
		return nil, fmt.Errorf("load dialogue %q: %w", name, err)
	}
	return e.StartGraph(g)
}

// StartGraph begins a session on an already-built graph.
func (e *Engine) StartGraph(g *dialogue.Graph) (*session.Session, error) {
	opts := []session.Option{
		session.WithGlobals(e.globals),
		session.WithFunctions(e.funcs),
		session.WithLoader(e.loader),
		session.WithLogger(e.logger),
	}
	if e.audio != nil {
		opts = append(opts, session.WithAudio(e.audio))
	}
	opts = append(opts, e.sessionOpts...)

	return session.New(g, opts...)
}

// Validate loads the named dialogue and reports structural problems.
func (e *Engine) Validate(name string) ([]error, error) {
	g, err := e.loader.Load(name)
	if err != nil {
		return nil, fmt.Errorf("load dialogue %q: %w", name, err)
	}
	return dialogue.Validate(g), nil
}

// List returns the dialogue names the loader knows about.
func (e *Engine) List() ([]string, error) {
	return e.loader.List()
}

// Watch returns a channel that signals when the underlying dialogue
// files change. Returns an error if the loader does not support it.
func (e *Engine) Watch(ctx context.Context) (<-chan struct{}, error) {
	if w, ok := e.loader.(ports.Watchable); ok {
		return w.Watch(ctx)
	}
	return nil, fmt.Errorf("current loader does not support watching")
}

// LoadGlobals restores the global scope from the configured store.
func (e *Engine) LoadGlobals(ctx context.Context) error {
	if e.store == nil {
		return nil
	}
	return e.store.Load(ctx, e.globals)
}

// SaveGlobals persists the global scope to the configured store.
func (e *Engine) SaveGlobals(ctx context.Context) error {
	if e.store == nil {
		return nil
	}
	return e.store.Save(ctx, e.globals)
}

// Globals returns the shared global scope.
func (e *Engine) Globals() *scope.Map {
	return e.globals
}

// Functions returns the function registry shared by sessions.
func (e *Engine) Functions() *script.Registry {
	return e.funcs
}

// Loader returns the underlying GraphLoader used by the engine.
func (e *Engine) Loader() ports.GraphLoader {
	return e.loader
}
