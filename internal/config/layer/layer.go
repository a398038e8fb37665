// Package layer merges configuration sources by priority.
//
// Higher priority layers override values from lower priority layers.
// Nested maps are merged key by key; any other value is replaced whole.
package layer

import (
	"slices"
	"sync"
)

// Source indicates where a configuration layer came from.
type Source uint8

const (
	// SourceBuiltin represents built-in defaults.
	SourceBuiltin Source = iota
	// SourceUser represents the user settings file.
	SourceUser
	// SourceEnv represents ALNSTORM_* environment variables.
	SourceEnv
	// SourceArgs represents command-line flags.
	SourceArgs
	// SourceSession represents values set at runtime.
	SourceSession
)

// String returns a human-readable name for the source.
func (s Source) String() string {
	switch s {
	case SourceBuiltin:
		return "builtin"
	case SourceUser:
		return "user"
	case SourceEnv:
		return "environment"
	case SourceArgs:
		return "arguments"
	case SourceSession:
		return "session"
	default:
		return "unknown"
	}
}

// Priority returns the merge priority of the source.
func (s Source) Priority() int {
	switch s {
	case SourceUser:
		return 100
	case SourceEnv:
		return 500
	case SourceArgs:
		return 600
	case SourceSession:
		return 1000
	default:
		return 0
	}
}

// Layer is a single named configuration source.
type Layer struct {
	Name   string
	Source Source
	// Path is the file the layer was read from, if any.
	Path string
	Data map[string]any
}

// New creates a layer holding data.
func New(name string, source Source, data map[string]any) *Layer {
	if data == nil {
		data = make(map[string]any)
	}
	return &Layer{Name: name, Source: source, Data: data}
}

// Manager holds layers sorted by priority and caches their merge.
type Manager struct {
	mu     sync.RWMutex
	layers []*Layer
	merged map[string]any
}

// NewManager creates an empty manager.
func NewManager() *Manager {
	return &Manager{}
}

// Put adds l, replacing any layer with the same name.
func (m *Manager) Put(l *Layer) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.layers = slices.DeleteFunc(m.layers, func(x *Layer) bool { return x.Name == l.Name })
	m.layers = append(m.layers, l)
	slices.SortStableFunc(m.layers, func(a, b *Layer) int {
		return a.Source.Priority() - b.Source.Priority()
	})
	m.merged = nil
}

// Remove removes the named layer. It reports whether the layer existed.
func (m *Manager) Remove(name string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	n := len(m.layers)
	m.layers = slices.DeleteFunc(m.layers, func(x *Layer) bool { return x.Name == name })
	if len(m.layers) == n {
		return false
	}
	m.merged = nil
	return true
}

// Get returns the named layer, or nil.
func (m *Manager) Get(name string) *Layer {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, l := range m.layers {
		if l.Name == name {
			return l
		}
	}
	return nil
}

// Names returns layer names from lowest to highest priority.
func (m *Manager) Names() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]string, len(m.layers))
	for i, l := range m.layers {
		out[i] = l.Name
	}
	return out
}

// Set writes value at path in the named layer, creating the layer with
// source when missing.
func (m *Manager) Set(name string, source Source, path string, value any) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var target *Layer
	for _, l := range m.layers {
		if l.Name == name {
			target = l
			break
		}
	}
	if target == nil {
		target = New(name, source, nil)
		m.layers = append(m.layers, target)
		slices.SortStableFunc(m.layers, func(a, b *Layer) int {
			return a.Source.Priority() - b.Source.Priority()
		})
	}
	SetByPath(target.Data, path, value)
	m.merged = nil
}

// Merge returns a copy of all layers merged by priority.
func (m *Manager) Merge() map[string]any {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.merged == nil {
		result := make(map[string]any)
		for _, l := range m.layers {
			result = DeepMerge(result, l.Data)
		}
		m.merged = result
	}
	return cloneMap(m.merged)
}

// Lookup returns the merged value at path and the name of the layer that
// supplied it.
func (m *Manager) Lookup(path string) (any, string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for i := len(m.layers) - 1; i >= 0; i-- {
		if v, ok := GetByPath(m.layers[i].Data, path); ok {
			if _, isMap := v.(map[string]any); !isMap {
				return v, m.layers[i].Name, true
			}
		}
	}
	return nil, "", false
}
