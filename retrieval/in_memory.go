package retrieval

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"

	"github.com/hupe1980/triagemesh/core"
)

// Document is one entry in an in-memory collection: a stable id, its vector
// and an arbitrary payload surfaced on matching evidence items.
type Document struct {
	ID      string
	Vector  []float32
	Payload map[string]any
}

// InMemorySearch is a process-local core.SearchService backed by brute-force
// cosine similarity. Searching an unknown collection yields no hits rather
// than an error, matching how a missing index behaves in practice.
//
// Concurrency: protected by RWMutex. Suitable for tests, demos and small
// corpora; swap in a vector database client for production retrieval.
type InMemorySearch struct {
	mu          sync.RWMutex
	collections map[string][]Document
}

// NewInMemorySearch creates an empty in-memory search service.
func NewInMemorySearch() *InMemorySearch {
	return &InMemorySearch{collections: make(map[string][]Document)}
}

// Upsert adds documents to a collection, replacing any existing document
// with the same id.
func (s *InMemorySearch) Upsert(collection string, docs ...Document) {
	s.mu.Lock()
	defer s.mu.Unlock()
	existing := s.collections[collection]
	for _, doc := range docs {
		replaced := false
		for i := range existing {
			if existing[i].ID == doc.ID {
				existing[i] = doc
				replaced = true
				break
			}
		}
		if !replaced {
			existing = append(existing, doc)
		}
	}
	s.collections[collection] = existing
}

// Len returns the number of documents in a collection.
func (s *InMemorySearch) Len(collection string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.collections[collection])
}

// Search implements core.SearchService.
func (s *InMemorySearch) Search(ctx context.Context, collection string, vector []float32, topK int) ([]core.EvidenceItem, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if topK <= 0 {
		topK = DefaultTopK
	}

	s.mu.RLock()
	docs := s.collections[collection]
	s.mu.RUnlock()

	results := make([]core.EvidenceItem, 0, len(docs))
	for _, doc := range docs {
		score, err := cosine(vector, doc.Vector)
		if err != nil {
			return nil, fmt.Errorf("collection %q document %q: %w", collection, doc.ID, err)
		}
		payload := make(map[string]any, len(doc.Payload))
		for k, v := range doc.Payload {
			payload[k] = v
		}
		results = append(results, core.EvidenceItem{ID: doc.ID, Score: score, Payload: payload})
	}

	sort.SliceStable(results, func(i, j int) bool { return results[i].Score > results[j].Score })
	if len(results) > topK {
		results = results[:topK]
	}
	return results, nil
}

func cosine(a, b []float32) (float64, error) {
	if len(a) != len(b) {
		return 0, fmt.Errorf("vector dimension mismatch: %d vs %d", len(a), len(b))
	}
	var dot, na, nb float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		na += float64(a[i]) * float64(a[i])
		nb += float64(b[i]) * float64(b[i])
	}
	if na == 0 || nb == 0 {
		return 0, nil
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb)), nil
}
