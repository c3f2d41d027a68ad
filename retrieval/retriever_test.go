package retrieval

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/triagemesh/core"
)

// recordingSearch tracks which collections were queried and can fail
// selectively per collection.
type recordingSearch struct {
	mu       sync.Mutex
	queried  []string
	failures map[string]error
	hits     map[string][]core.EvidenceItem
}

func newRecordingSearch() *recordingSearch {
	return &recordingSearch{
		failures: map[string]error{},
		hits:     map[string][]core.EvidenceItem{},
	}
}

func (s *recordingSearch) Search(_ context.Context, collection string, _ []float32, _ int) ([]core.EvidenceItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.queried = append(s.queried, collection)
	if err := s.failures[collection]; err != nil {
		return nil, err
	}
	return s.hits[collection], nil
}

func (s *recordingSearch) queriedSet() map[string]bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := map[string]bool{}
	for _, c := range s.queried {
		out[c] = true
	}
	return out
}

type constEmbedder struct{}

func (constEmbedder) EmbedText(context.Context, string) ([]float32, error) {
	return []float32{1, 0, 0}, nil
}

func (constEmbedder) EmbedImage(context.Context, []byte) ([]float32, error) {
	return []float32{0, 1, 0}, nil
}

func TestRetrieveQueriesAllCollectionsWhenLocationUnknown(t *testing.T) {
	search := newRecordingSearch()
	search.hits[CollectionProtocols] = []core.EvidenceItem{{ID: "sop-1", Score: 0.9}}

	r := New(constEmbedder{}, search)
	ev, err := r.Retrieve(context.Background(), Query{
		Report:       "fire at the docks",
		ImageVectors: [][]float32{{0.5, 0.5, 0}},
	})
	require.NoError(t, err)

	queried := search.queriedSet()
	assert.True(t, queried[CollectionIncidentMemory])
	assert.True(t, queried[CollectionProtocols])
	assert.True(t, queried[CollectionLandmarks])
	assert.True(t, queried[CollectionVisualEvidence])
	assert.Len(t, ev.Protocols, 1)
}

func TestRetrieveSkipsLandmarksWhenLocationKnown(t *testing.T) {
	search := newRecordingSearch()
	r := New(constEmbedder{}, search)

	_, err := r.Retrieve(context.Background(), Query{Report: "crash on main road", LocationKnown: true})
	require.NoError(t, err)

	queried := search.queriedSet()
	assert.False(t, queried[CollectionLandmarks])
	assert.True(t, queried[CollectionIncidentMemory])
}

func TestRetrieveSkipsImagesWithoutVectors(t *testing.T) {
	search := newRecordingSearch()
	r := New(constEmbedder{}, search)

	_, err := r.Retrieve(context.Background(), Query{Report: "crash on main road"})
	require.NoError(t, err)
	assert.False(t, search.queriedSet()[CollectionVisualEvidence])
}

func TestRetrieveIsolatesCollectionFailures(t *testing.T) {
	search := newRecordingSearch()
	search.failures[CollectionLandmarks] = errors.New("index offline")
	search.hits[CollectionIncidentMemory] = []core.EvidenceItem{{ID: "inc-9", Score: 0.7}}
	search.hits[CollectionProtocols] = []core.EvidenceItem{{ID: "sop-2", Score: 0.8}}

	r := New(constEmbedder{}, search)
	ev, err := r.Retrieve(context.Background(), Query{Report: "lost hiker near ridge"})
	require.NoError(t, err)

	assert.Empty(t, ev.Landmarks)
	assert.Len(t, ev.Incidents, 1)
	assert.Len(t, ev.Protocols, 1)
}

func TestRetrieveAllCollectionsFailingYieldsEmptyEvidence(t *testing.T) {
	search := newRecordingSearch()
	for _, c := range []string{CollectionIncidentMemory, CollectionProtocols, CollectionLandmarks, CollectionVisualEvidence} {
		search.failures[c] = errors.New("index offline")
	}

	r := New(constEmbedder{}, search)
	ev, err := r.Retrieve(context.Background(), Query{
		Report:       "explosion heard downtown",
		ImageVectors: [][]float32{{1, 0, 0}},
	})
	require.NoError(t, err)

	assert.Empty(t, ev.Incidents)
	assert.Empty(t, ev.Protocols)
	assert.Empty(t, ev.Landmarks)
	assert.Empty(t, ev.Images)
}

func TestRetrieveFailsOnEmbeddingError(t *testing.T) {
	failing := failingEmbedder{}
	r := New(failing, newRecordingSearch())

	_, err := r.Retrieve(context.Background(), Query{Report: "anything"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "embed query")
}

func TestRetrieveContextCancelled(t *testing.T) {
	r := New(constEmbedder{}, newRecordingSearch())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := r.Retrieve(ctx, Query{Report: "anything"})
	assert.Error(t, err)
}

type failingEmbedder struct{}

func (failingEmbedder) EmbedText(context.Context, string) ([]float32, error) {
	return nil, errors.New("embedding service unavailable")
}

func (failingEmbedder) EmbedImage(context.Context, []byte) ([]float32, error) {
	return nil, errors.New("embedding service unavailable")
}
