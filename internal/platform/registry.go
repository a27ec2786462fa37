package platform

import (
	"fmt"
)

// Registry maps platform identifiers to their adapters. It is built once
// at startup and read-only afterwards; duplicate registration is a
// configuration error, not a replacement.
type Registry struct {
	adapters map[Platform]Adapter
	order    []Platform
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{adapters: make(map[Platform]Adapter)}
}

// Register adds an adapter. Registering two adapters for the same
// platform identifier is an error.
func (r *Registry) Register(a Adapter) error {
	id := a.Platform()
	if _, exists := r.adapters[id]; exists {
		return fmt.Errorf("adapter for platform %q already registered", id)
	}
	r.adapters[id] = a
	r.order = append(r.order, id)
	return nil
}

// Get returns the adapter for the given platform, or an UnknownPlatform
// error if none is registered.
func (r *Registry) Get(id Platform) (Adapter, error) {
	a, ok := r.adapters[id]
	if !ok {
		return nil, &AdapterError{Kind: UnknownPlatform, Platform: id, StepIndex: -1}
	}
	return a, nil
}

// Platforms returns registered platform identifiers in registration
// order.
func (r *Registry) Platforms() []Platform {
	out := make([]Platform, len(r.order))
	copy(out, r.order)
	return out
}
