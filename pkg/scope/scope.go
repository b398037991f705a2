// Package scope implements the variable namespaces a dialogue runs against:
// a global map shared across sessions and a local map private to one session.
package scope

import (
	"fmt"
	"sort"
	"sync"
)

// Map is a name -> value namespace. Safe for concurrent use, which matters
// for the global scope shared across sessions; local scopes are only ever
// touched by their owning session.
type Map struct {
	mu     sync.RWMutex
	values map[string]any
}

// NewMap creates an empty namespace.
func NewMap() *Map {
	return &Map{values: make(map[string]any)}
}

// FromValues creates a namespace pre-populated with the given values.
func FromValues(values map[string]any) *Map {
	m := NewMap()
	for k, v := range values {
		m.values[k] = v
	}
	return m
}

// Exists reports whether the name is set.
func (m *Map) Exists(name string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.values[name]
	return ok
}

// Get returns the value under name.
func (m *Map) Get(name string) (any, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.values[name]
	return v, ok
}

// Set writes the value under name, creating or overwriting it.
func (m *Map) Set(name string, value any) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[name] = value
}

// Delete removes the name.
func (m *Map) Delete(name string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.values, name)
}

// GetInt returns the int value under name.
func (m *Map) GetInt(name string) (int, error) {
	v, ok := m.Get(name)
	if !ok {
		return 0, fmt.Errorf("scope: %q not set", name)
	}
	i, ok := v.(int)
	if !ok {
		return 0, fmt.Errorf("scope: %q is %T, not int", name, v)
	}
	return i, nil
}

// GetFloat returns the float64 value under name.
func (m *Map) GetFloat(name string) (float64, error) {
	v, ok := m.Get(name)
	if !ok {
		return 0, fmt.Errorf("scope: %q not set", name)
	}
	f, ok := v.(float64)
	if !ok {
		return 0, fmt.Errorf("scope: %q is %T, not float64", name, v)
	}
	return f, nil
}

// GetBool returns the bool value under name.
func (m *Map) GetBool(name string) (bool, error) {
	v, ok := m.Get(name)
	if !ok {
		return false, fmt.Errorf("scope: %q not set", name)
	}
	b, ok := v.(bool)
	if !ok {
		return false, fmt.Errorf("scope: %q is %T, not bool", name, v)
	}
	return b, nil
}

// GetString returns the string value under name.
func (m *Map) GetString(name string) (string, error) {
	v, ok := m.Get(name)
	if !ok {
		return "", fmt.Errorf("scope: %q not set", name)
	}
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("scope: %q is %T, not string", name, v)
	}
	return s, nil
}

// Increment adds delta to the numeric value under name. An int value stays
// int when delta is integral and is promoted to float64 otherwise.
func (m *Map) Increment(name string, delta float64) error {
	return m.apply(name, func(v any) (any, error) {
		switch n := v.(type) {
		case int:
			if isIntegral(delta) {
				return n + int(delta), nil
			}
			return float64(n) + delta, nil
		case float64:
			return n + delta, nil
		}
		return nil, fmt.Errorf("scope: cannot increment %T value %q", v, name)
	})
}

// Multiply scales the numeric value under name. An int value stays int when
// factor is integral and is promoted to float64 otherwise.
func (m *Map) Multiply(name string, factor float64) error {
	return m.apply(name, func(v any) (any, error) {
		switch n := v.(type) {
		case int:
			if isIntegral(factor) {
				return n * int(factor), nil
			}
			return float64(n) * factor, nil
		case float64:
			return n * factor, nil
		}
		return nil, fmt.Errorf("scope: cannot multiply %T value %q", v, name)
	})
}

// Divide divides the numeric value under name. An int value stays int when
// divisor is integral and is promoted to float64 otherwise.
func (m *Map) Divide(name string, divisor float64) error {
	if divisor == 0 {
		return fmt.Errorf("scope: division of %q by zero", name)
	}
	return m.apply(name, func(v any) (any, error) {
		switch n := v.(type) {
		case int:
			if isIntegral(divisor) {
				return n / int(divisor), nil
			}
			return float64(n) / divisor, nil
		case float64:
			return n / divisor, nil
		}
		return nil, fmt.Errorf("scope: cannot divide %T value %q", v, name)
	})
}

func isIntegral(f float64) bool {
	return f == float64(int(f))
}

func (m *Map) apply(name string, op func(any) (any, error)) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	v, ok := m.values[name]
	if !ok {
		return fmt.Errorf("scope: %q not set", name)
	}
	next, err := op(v)
	if err != nil {
		return err
	}
	m.values[name] = next
	return nil
}

// Names returns the defined names in sorted order.
func (m *Map) Names() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	names := make([]string, 0, len(m.values))
	for k := range m.values {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// Snapshot returns a copy of the current contents.
func (m *Map) Snapshot() map[string]any {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make(map[string]any, len(m.values))
	for k, v := range m.values {
		out[k] = v
	}
	return out
}

// Len returns the number of defined names.
func (m *Map) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.values)
}

// Clear removes every name.
func (m *Map) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values = make(map[string]any)
}
