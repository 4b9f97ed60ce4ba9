// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package handles issues revocable display handles for produced artifacts,
// the way a browser issues object URLs for blobs. A handle resolves to its
// artifact until it is released.
package handles

import (
	"sync"

	"github.com/google/uuid"

	"github.com/pdiddy/convertkit/pkg/types"
)

// Registry maps handles to artifacts. It is safe for concurrent use.
type Registry struct {
	mu      sync.RWMutex
	entries map[string]types.Artifact
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{entries: make(map[string]types.Artifact)}
}

// Allocate registers a and returns a fresh handle for it.
func (r *Registry) Allocate(a types.Artifact) string {
	h := uuid.NewString()
	a.Handle = h

	r.mu.Lock()
	r.entries[h] = a
	r.mu.Unlock()
	return h
}

// Lookup resolves a handle. Released and unknown handles report false.
func (r *Registry) Lookup(handle string) (types.Artifact, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	a, ok := r.entries[handle]
	return a, ok
}

// Release revokes a handle. Releasing an unknown handle is a no-op.
func (r *Registry) Release(handle string) {
	r.mu.Lock()
	delete(r.entries, handle)
	r.mu.Unlock()
}

// Len returns the number of live handles.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}
