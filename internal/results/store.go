// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package results holds the artifacts of the active job for one converter
// instance. Replacing the artifacts releases the display handles of the
// previous job first, so repeated jobs never leak handles.
package results

import (
	"sync"

	"github.com/pdiddy/convertkit/pkg/types"
)

// Releaser revokes display handles. *handles.Registry satisfies it.
type Releaser interface {
	Release(handle string)
}

// Store holds the artifacts of the most recent job, in creation order.
type Store struct {
	mu        sync.RWMutex
	releaser  Releaser
	artifacts []types.Artifact
}

// NewStore returns an empty store that releases handles through r.
func NewStore(r Releaser) *Store {
	return &Store{releaser: r}
}

// Replace releases every held handle, then takes ownership of artifacts.
func (s *Store) Replace(artifacts []types.Artifact) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.releaseLocked()
	s.artifacts = append([]types.Artifact(nil), artifacts...)
}

// Get returns a copy of the held artifacts in creation order.
func (s *Store) Get() []types.Artifact {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]types.Artifact(nil), s.artifacts...)
}

// Len returns the number of held artifacts.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.artifacts)
}

// Clear releases every held handle and empties the store.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.releaseLocked()
}

func (s *Store) releaseLocked() {
	for _, a := range s.artifacts {
		if a.Handle != "" {
			s.releaser.Release(a.Handle)
		}
	}
	s.artifacts = nil
}
