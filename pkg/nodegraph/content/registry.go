package content

import (
	"errors"
	"fmt"
	"sort"
	"sync"
)

// Factory returns a new, empty Content value of one type.
type Factory func() Content

// Sentinel errors for registration.
var (
	// ErrEmptyType indicates a registration with an empty type name.
	ErrEmptyType = errors.New("content type name cannot be empty")

	// ErrNilFactory indicates a registration without a factory.
	ErrNilFactory = errors.New("content factory cannot be nil")

	// ErrDuplicateType indicates a type name that is already registered.
	ErrDuplicateType = errors.New("content type already registered")
)

// Registry maps content type names to factories.
// It uses sync.RWMutex since lookups far outnumber registrations.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]Factory
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		factories: make(map[string]Factory),
	}
}

// Register adds a factory for a type name.
// Registering the same name twice is an error.
func (r *Registry) Register(typeName string, factory Factory) error {
	if typeName == "" {
		return ErrEmptyType
	}
	if factory == nil {
		return ErrNilFactory
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.factories[typeName]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateType, typeName)
	}
	r.factories[typeName] = factory
	return nil
}

// MustRegister is like Register but panics on error.
// Intended for package init.
func (r *Registry) MustRegister(typeName string, factory Factory) {
	if err := r.Register(typeName, factory); err != nil {
		panic("content: " + err.Error())
	}
}

// Lookup returns the factory for a type name and whether it exists.
func (r *Registry) Lookup(typeName string) (Factory, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	f, ok := r.factories[typeName]
	return f, ok
}

// Has returns true if the type name is registered.
func (r *Registry) Has(typeName string) bool {
	_, ok := r.Lookup(typeName)
	return ok
}

// Unregister removes a type name. Missing names are ignored.
func (r *Registry) Unregister(typeName string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.factories, typeName)
}

// Types returns the registered type names in sorted order.
func (r *Registry) Types() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of registered types.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.factories)
}

// Decode builds content of the named type from data.
//
// An empty type name yields nil content. Unregistered names yield *Raw so the
// payload is preserved. A nil registry treats every name as unregistered.
func (r *Registry) Decode(typeName string, data []byte) (Content, error) {
	if typeName == "" {
		return nil, nil
	}

	var factory Factory
	if r != nil {
		factory, _ = r.Lookup(typeName)
	}
	if factory == nil {
		return &Raw{Type: typeName, Data: clone(data)}, nil
	}

	c := factory()
	if c == nil {
		return nil, fmt.Errorf("content factory for %q returned nil", typeName)
	}
	if len(data) > 0 {
		if err := c.UnmarshalContent(clone(data)); err != nil {
			return nil, fmt.Errorf("unmarshal content %q: %w", typeName, err)
		}
	}
	return c, nil
}

// Clone returns an independent copy of c by encoding and decoding it.
func (r *Registry) Clone(c Content) (Content, error) {
	typeName, data, err := Encode(c)
	if err != nil {
		return nil, err
	}
	return r.Decode(typeName, data)
}
