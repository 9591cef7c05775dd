package namespace

import (
	"errors"
	"fmt"
	"iter"
	"sort"
	"sync"
)

var (
	// ErrDuplicateNamespace is returned when registering an id that is
	// already present without forcing.
	ErrDuplicateNamespace = errors.New("namespace already registered")
	// ErrUnknownNamespace is returned when resolving an unregistered id.
	ErrUnknownNamespace = errors.New("unknown namespace")
)

// Registry maps namespace ids to their schemas. It is safe for concurrent
// use; the expected lifecycle is registration at startup followed by
// read-mostly resolution.
//
// There is deliberately no package-level registry: callers construct one
// (usually via Builtin) and pass it to every validation call.
type Registry struct {
	mu      sync.RWMutex
	schemas map[string]*Schema
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{schemas: make(map[string]*Schema)}
}

// Register adds a schema under its id. Registering an existing id fails
// with ErrDuplicateNamespace and leaves the registry unchanged.
func (r *Registry) Register(s *Schema) error {
	if s == nil || s.ID == "" {
		return fmt.Errorf("namespace: register: schema must have an id")
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.schemas[s.ID]; ok {
		return fmt.Errorf("namespace: register %q: %w", s.ID, ErrDuplicateNamespace)
	}
	r.schemas[s.ID] = s
	return nil
}

// RegisterForce adds a schema, replacing any existing registration.
func (r *Registry) RegisterForce(s *Schema) {
	if s == nil || s.ID == "" {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.schemas[s.ID] = s
}

// Resolve returns the schema registered under id, or ErrUnknownNamespace.
func (r *Registry) Resolve(id string) (*Schema, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.schemas[id]
	if !ok {
		return nil, fmt.Errorf("namespace: resolve %q: %w", id, ErrUnknownNamespace)
	}
	return s, nil
}

// Has reports whether id is registered.
func (r *Registry) Has(id string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.schemas[id]
	return ok
}

// Len returns the number of registered namespaces.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.schemas)
}

// IDs returns a restartable sequence of registered ids in sorted order.
// The sequence snapshots the registry at first iteration of each restart.
func (r *Registry) IDs() iter.Seq[string] {
	return func(yield func(string) bool) {
		r.mu.RLock()
		ids := make([]string, 0, len(r.schemas))
		for id := range r.schemas {
			ids = append(ids, id)
		}
		r.mu.RUnlock()
		sort.Strings(ids)

		for _, id := range ids {
			if !yield(id) {
				return
			}
		}
	}
}

// LoadDir parses every catalog file under dir and registers the schemas.
// Duplicate ids across files fail registration.
func (r *Registry) LoadDir(dir string) error {
	schemas, err := LoadDir(dir)
	if err != nil {
		return err
	}
	for _, s := range schemas {
		if err := r.Register(s); err != nil {
			return err
		}
	}
	return nil
}
