// Package redis persists the global dialogue scope in Redis, so game
// variables written by conversations survive the process.
package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	backend "github.com/redis/go-redis/v9"

	"github.com/parleyio/parley/pkg/scope"
)

// Store implements ports.ScopeStore using a Redis hash.
type Store struct {
	client *backend.Client
	key    string
	ttl    time.Duration
}

// Option configures a Store.
type Option func(*Store)

// WithTTL sets an expiration on the persisted scope.
func WithTTL(ttl time.Duration) Option {
	return func(s *Store) {
		s.ttl = ttl
	}
}

// WithKey sets the hash key the scope is stored under.
func WithKey(key string) Option {
	return func(s *Store) {
		s.key = key
	}
}

// New creates a Redis store with its own client.
func New(address, password string, db int, opts ...Option) *Store {
	client := backend.NewClient(&backend.Options{
		Addr:     address,
		Password: password,
		DB:       db,
	})
	return NewFromClient(client, opts...)
}

// NewFromClient creates a Redis store from an existing client.
func NewFromClient(client *backend.Client, opts ...Option) *Store {
	store := &Store{
		client: client,
		key:    "parley:globals",
	}
	for _, opt := range opts {
		opt(store)
	}
	return store
}

// entry carries an explicit type tag so ints do not come back as floats
// after the JSON round trip.
type entry struct {
	Type  string `json:"t"`
	Value any    `json:"v"`
}

// Save replaces the persisted snapshot with the scope's current contents.
func (s *Store) Save(ctx context.Context, vars *scope.Map) error {
	snapshot := vars.Snapshot()

	fields := make(map[string]string, len(snapshot))
	for name, v := range snapshot {
		e := entry{Value: v}
		switch v.(type) {
		case int:
			e.Type = "int"
		case float64:
			e.Type = "float"
		case bool:
			e.Type = "bool"
		default:
			e.Type = "string"
			e.Value = fmt.Sprintf("%v", v)
		}

		data, err := json.Marshal(e)
		if err != nil {
			return fmt.Errorf("marshal scope entry %q: %w", name, err)
		}
		fields[name] = string(data)
	}

	pipe := s.client.Pipeline()
	pipe.Del(ctx, s.key)
	if len(fields) > 0 {
		pipe.HSet(ctx, s.key, fields)
	}
	if s.ttl > 0 {
		pipe.Expire(ctx, s.key, s.ttl)
	}

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("save scope to redis: %w", err)
	}
	return nil
}

// Load writes the persisted values into the scope.
func (s *Store) Load(ctx context.Context, vars *scope.Map) error {
	fields, err := s.client.HGetAll(ctx, s.key).Result()
	if err != nil {
		return fmt.Errorf("load scope from redis: %w", err)
	}

	for name, raw := range fields {
		var e entry
		if err := json.Unmarshal([]byte(raw), &e); err != nil {
			return fmt.Errorf("unmarshal scope entry %q: %w", name, err)
		}

		switch e.Type {
		case "int":
			// JSON numbers decode as float64.
			if f, ok := e.Value.(float64); ok {
				vars.Set(name, int(f))
			}
		case "float":
			if f, ok := e.Value.(float64); ok {
				vars.Set(name, f)
			}
		case "bool":
			if b, ok := e.Value.(bool); ok {
				vars.Set(name, b)
			}
		default:
			vars.Set(name, fmt.Sprintf("%v", e.Value))
		}
	}
	return nil
}

// Close closes the underlying client.
func (s *Store) Close() error {
	return s.client.Close()
}
