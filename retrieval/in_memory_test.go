package retrieval

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/triagemesh/core"
)

// Interface compliance (compile-time assertion)
var _ core.SearchService = (*InMemorySearch)(nil)

func TestInMemorySearchRanksByCosine(t *testing.T) {
	s := NewInMemorySearch()
	s.Upsert("col",
		Document{ID: "exact", Vector: []float32{1, 0}, Payload: map[string]any{"content": "a"}},
		Document{ID: "orthogonal", Vector: []float32{0, 1}, Payload: map[string]any{"content": "b"}},
		Document{ID: "close", Vector: []float32{0.9, 0.1}, Payload: map[string]any{"content": "c"}},
	)

	hits, err := s.Search(context.Background(), "col", []float32{1, 0}, 10)
	require.NoError(t, err)
	require.Len(t, hits, 3)

	assert.Equal(t, "exact", hits[0].ID)
	assert.Equal(t, "close", hits[1].ID)
	assert.Equal(t, "orthogonal", hits[2].ID)
	assert.InDelta(t, 1.0, hits[0].Score, 1e-6)
}

func TestInMemorySearchTopKCap(t *testing.T) {
	s := NewInMemorySearch()
	for _, id := range []string{"a", "b", "c", "d"} {
		s.Upsert("col", Document{ID: id, Vector: []float32{1, 0}})
	}

	hits, err := s.Search(context.Background(), "col", []float32{1, 0}, 2)
	require.NoError(t, err)
	assert.Len(t, hits, 2)
}

func TestInMemorySearchUnknownCollectionIsEmpty(t *testing.T) {
	s := NewInMemorySearch()
	hits, err := s.Search(context.Background(), "nope", []float32{1}, 5)
	require.NoError(t, err)
	assert.Empty(t, hits)
}

func TestInMemorySearchUpsertReplacesByID(t *testing.T) {
	s := NewInMemorySearch()
	s.Upsert("col", Document{ID: "doc", Vector: []float32{1, 0}, Payload: map[string]any{"content": "old"}})
	s.Upsert("col", Document{ID: "doc", Vector: []float32{0, 1}, Payload: map[string]any{"content": "new"}})

	assert.Equal(t, 1, s.Len("col"))

	hits, err := s.Search(context.Background(), "col", []float32{0, 1}, 5)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "new", hits[0].Payload["content"])
}

func TestInMemorySearchDimensionMismatch(t *testing.T) {
	s := NewInMemorySearch()
	s.Upsert("col", Document{ID: "doc", Vector: []float32{1, 0, 0}})

	_, err := s.Search(context.Background(), "col", []float32{1, 0}, 5)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "dimension mismatch")
}

func TestInMemorySearchPayloadIsolation(t *testing.T) {
	s := NewInMemorySearch()
	s.Upsert("col", Document{ID: "doc", Vector: []float32{1}, Payload: map[string]any{"content": "original"}})

	hits, err := s.Search(context.Background(), "col", []float32{1}, 5)
	require.NoError(t, err)
	hits[0].Payload["content"] = "mutated"

	again, err := s.Search(context.Background(), "col", []float32{1}, 5)
	require.NoError(t, err)
	assert.Equal(t, "original", again[0].Payload["content"])
}
