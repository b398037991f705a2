package script

import (
	"fmt"
	"log/slog"
	"strconv"
	"sync"

	"github.com/parleyio/parley/internal/logging"
)

// Handler is an invokable host function. It receives arguments already
// converted to their declared parameter types.
type Handler func(args []any) (any, error)

// Command declares one dispatchable function: its name, the declared
// parameter type names (resolved against the converter registry) and the
// implementation. Arity is len(Params).
type Command struct {
	Name   string
	Params []string
	Fn     Handler
}

// Delegate is a bundle of commands registered and removed as a unit.
type Delegate interface {
	Commands() []Command
}

// Converter parses a substituted argument string into a typed value.
type Converter func(raw string) (any, error)

// DefaultHandler is invoked when no registered function matches a
// (name, arity) pair. It cannot fail; dispatch misses are non-fatal.
type DefaultHandler func(name string, args []string) any

type funcKey struct {
	name  string
	arity int
}

type funcEntry struct {
	owner  Delegate
	params []string
	fn     Handler
}

// Registry maps (name, arity) pairs to handlers.
//
// Later registrations override earlier ones for the same pair. Unmatched
// calls fall through to a default handler that logs and returns a neutral
// zero value.
type Registry struct {
	mu         sync.RWMutex
	converters map[string]Converter
	entries    map[funcKey]funcEntry
	fallback   DefaultHandler
	logger     *slog.Logger
}

// RegistryOption configures a Registry.
type RegistryOption func(*Registry)

// WithRegistryLogger sets the logger used for dispatch-miss warnings.
func WithRegistryLogger(logger *slog.Logger) RegistryOption {
	return func(r *Registry) {
		r.logger = logger
	}
}

// NewRegistry creates a registry with the built-in string, int, float and
// bool converters.
func NewRegistry(opts ...RegistryOption) *Registry {
	r := &Registry{
		converters: map[string]Converter{
			"string": func(raw string) (any, error) { return raw, nil },
			"int": func(raw string) (any, error) {
				return strconv.Atoi(raw)
			},
			"float": func(raw string) (any, error) {
				return strconv.ParseFloat(raw, 64)
			},
			"bool": func(raw string) (any, error) {
				return strconv.ParseBool(raw)
			},
		},
		entries: make(map[funcKey]funcEntry),
		logger:  logging.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// RegisterConverter adds or replaces a converter for a parameter type name.
func (r *Registry) RegisterConverter(typeName string, conv Converter) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.converters[typeName] = conv
}

// Register adds a single function. A nil owner is fine for functions not
// managed through a delegate.
func (r *Registry) Register(name string, params []string, fn Handler) error {
	return r.register(nil, Command{Name: name, Params: params, Fn: fn})
}

// AddDelegate registers every command of the delegate, overriding any
// earlier registration with the same name and arity.
func (r *Registry) AddDelegate(d Delegate) error {
	for _, cmd := range d.Commands() {
		if err := r.register(d, cmd); err != nil {
			return err
		}
	}
	return nil
}

// RemoveDelegate drops every entry still owned by the delegate. Entries the
// delegate lost to a later override are untouched.
func (r *Registry) RemoveDelegate(d Delegate) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for key, entry := range r.entries {
		if entry.owner == d {
			delete(r.entries, key)
		}
	}
}

func (r *Registry) register(owner Delegate, cmd Command) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, p := range cmd.Params {
		if _, ok := r.converters[p]; !ok {
			return fmt.Errorf("%w: %q (function %q)", ErrUnknownConverter, p, cmd.Name)
		}
	}

	r.entries[funcKey{cmd.Name, len(cmd.Params)}] = funcEntry{
		owner:  owner,
		params: cmd.Params,
		fn:     cmd.Fn,
	}
	return nil
}

// SetDefaultHandler replaces the fallback for unmatched calls.
func (r *Registry) SetDefaultHandler(fn DefaultHandler) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.fallback = fn
}

// Exists reports whether a function with the name and arity is registered.
func (r *Registry) Exists(name string, arity int) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.entries[funcKey{name, arity}]
	return ok
}

// Call dispatches by name and argument count. Argument strings are converted
// to the entry's declared parameter types first; a conversion failure aborts
// the call. Unmatched calls go to the default handler, which logs at warning
// level and returns 0.
func (r *Registry) Call(name string, args []string) (any, error) {
	r.mu.RLock()
	entry, ok := r.entries[funcKey{name, len(args)}]
	fallback := r.fallback
	r.mu.RUnlock()

	if !ok {
		if fallback != nil {
			return fallback(name, args), nil
		}
		r.logger.Warn("no matching dialogue function, using default handler",
			"func", name,
			"args", args,
		)
		return 0, nil
	}

	converted := make([]any, len(args))
	for i, raw := range args {
		conv := r.converter(entry.params[i])
		v, err := conv(raw)
		if err != nil {
			return nil, fmt.Errorf("argument %d of %q: %w", i, name, err)
		}
		converted[i] = v
	}

	return entry.fn(converted)
}

func (r *Registry) converter(typeName string) Converter {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.converters[typeName]
}
