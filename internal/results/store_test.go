// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package results

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/convertkit/internal/handles"
	"github.com/pdiddy/convertkit/pkg/types"
)

// recordingReleaser remembers which handles were released, in order.
type recordingReleaser struct {
	released []string
}

func (r *recordingReleaser) Release(h string) { r.released = append(r.released, h) }

func artifacts(ids ...string) []types.Artifact {
	out := make([]types.Artifact, len(ids))
	for i, h := range ids {
		out[i] = types.Artifact{Ordinal: i + 1, Handle: h}
	}
	return out
}

func TestReplaceReleasesPreviousHandles(t *testing.T) {
	rel := &recordingReleaser{}
	s := NewStore(rel)

	s.Replace(artifacts("a", "b", "c"))
	assert.Empty(t, rel.released, "first replace has nothing to release")

	s.Replace(artifacts("d"))
	assert.Equal(t, []string{"a", "b", "c"}, rel.released)

	got := s.Get()
	require.Len(t, got, 1)
	assert.Equal(t, "d", got[0].Handle)
}

func TestGetPreservesCreationOrder(t *testing.T) {
	s := NewStore(&recordingReleaser{})
	s.Replace(artifacts("h1", "h2", "h3"))

	got := s.Get()
	require.Len(t, got, 3)
	for i, a := range got {
		assert.Equal(t, i+1, a.Ordinal)
	}

	// Mutating the returned slice does not affect the store.
	got[0].Handle = "changed"
	assert.Equal(t, "h1", s.Get()[0].Handle)
}

func TestClear(t *testing.T) {
	rel := &recordingReleaser{}
	s := NewStore(rel)
	s.Replace(artifacts("x", "", "y"))

	s.Clear()
	assert.Equal(t, []string{"x", "y"}, rel.released, "empty handles are skipped")
	assert.Equal(t, 0, s.Len())
	assert.Empty(t, s.Get())
}

func TestReplaceWithRegistry(t *testing.T) {
	reg := handles.NewRegistry()
	s := NewStore(reg)

	first := make([]types.Artifact, 3)
	for i := range first {
		first[i] = types.Artifact{Ordinal: i + 1}
		first[i].Handle = reg.Allocate(first[i])
	}
	s.Replace(first)
	assert.Equal(t, 3, reg.Len())

	second := []types.Artifact{{Ordinal: 1}}
	second[0].Handle = reg.Allocate(second[0])
	s.Replace(second)

	assert.Equal(t, 1, reg.Len(), "only the new job's handle stays live")
	for _, a := range first {
		_, ok := reg.Lookup(a.Handle)
		assert.False(t, ok, "handle %s should be released", a.Handle)
	}
}
