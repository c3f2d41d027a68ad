package core

import (
	"context"
	"errors"
)

// ErrNotFound is returned by stores when no entry exists for a key.
var ErrNotFound = errors.New("not found")

// Embedder produces vector representations of text and images.
type Embedder interface {
	EmbedText(ctx context.Context, text string) ([]float32, error)
	EmbedImage(ctx context.Context, image []byte) ([]float32, error)
}

// SearchService performs similarity search over a named collection. Each
// collection is searched independently; a failure in one collection must not
// prevent callers from searching another.
type SearchService interface {
	Search(ctx context.Context, collection string, vector []float32, topK int) ([]EvidenceItem, error)
}

// Transcriber converts audio bytes into text.
type Transcriber interface {
	Transcribe(ctx context.Context, audio []byte, filename string) (string, error)
}

// ResultCache is the idempotency store for final recommendations, keyed by
// incident identifier. Implementations must be safe for concurrent use and
// must never let a reader observe a partially written entry; last write wins
// is an acceptable relaxation for concurrent writers of the same key.
type ResultCache interface {
	// Get returns the cached recommendation for id, or ErrNotFound.
	Get(ctx context.Context, id string) (*Recommendation, error)
	// Put stores rec under id, replacing any previous entry.
	Put(ctx context.Context, id string, rec *Recommendation) error
	// Delete removes the entry for id. Deleting a missing entry is a no-op.
	Delete(ctx context.Context, id string) error
	// Clear removes all entries.
	Clear(ctx context.Context) error
}
