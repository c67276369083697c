// Copyright Doctext Authors
// SPDX-License-Identifier: Apache-2.0

// Package provider is a typed registry of named backend factories.
//
// A subsystem declares one Registry for its backend interface and each
// implementation package registers itself from init(), in the style of
// database/sql drivers. Binaries blank-import the implementations they ship
// and build the configured one with Registry.New.
package provider

import (
	"context"
	"fmt"
	"sort"
	"sync"
)

// Factory builds a backend from string parameters taken from configuration.
// Unknown keys are ignored.
type Factory[T any] func(ctx context.Context, params map[string]string) (T, error)

// Registry holds the factories of one subsystem. It is safe for concurrent use.
type Registry[T any] struct {
	subsystem string
	mu        sync.RWMutex
	factories map[string]Factory[T]
}

// NewRegistry creates an empty Registry. subsystem names the registry in
// error messages.
func NewRegistry[T any](subsystem string) *Registry[T] {
	return &Registry[T]{
		subsystem: subsystem,
		factories: make(map[string]Factory[T]),
	}
}

// Register adds a named factory and panics on duplicates.
func (r *Registry[T]) Register(name string, f Factory[T]) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.factories[name]; exists {
		panic(fmt.Sprintf("provider: %s backend %q already registered", r.subsystem, name))
	}
	r.factories[name] = f
}

// Has reports whether name is registered.
func (r *Registry[T]) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.factories[name]
	return ok
}

// New builds the backend registered as name.
func (r *Registry[T]) New(ctx context.Context, name string, params map[string]string) (T, error) {
	r.mu.RLock()
	f, ok := r.factories[name]
	r.mu.RUnlock()
	if !ok {
		var zero T
		return zero, fmt.Errorf("unknown %s provider: %q (available: %v)", r.subsystem, name, r.Available())
	}
	return f(ctx, params)
}

// Available returns the registered names, sorted.
func (r *Registry[T]) Available() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
