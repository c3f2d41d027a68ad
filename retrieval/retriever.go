package retrieval

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/hupe1980/triagemesh/core"
	"github.com/hupe1980/triagemesh/logging"
)

// Collection names searched by the retriever.
const (
	// CollectionIncidentMemory holds past incident summaries.
	CollectionIncidentMemory = "incident_memory"
	// CollectionProtocols holds protocol / SOP document chunks.
	CollectionProtocols = "protocols_sops"
	// CollectionLandmarks holds the landmark index, searched only when the
	// report location is unknown.
	CollectionLandmarks = "landmark_index"
	// CollectionVisualEvidence holds reference images, searched only when
	// image vectors accompany the report.
	CollectionVisualEvidence = "visual_evidence"
)

// DefaultTopK caps hits per collection.
const DefaultTopK = 5

// Options configure a Retriever.
type Options struct {
	// TopK caps hits per collection. Defaults to DefaultTopK.
	TopK int
	// Logger receives per-collection warnings. Defaults to NoOp.
	Logger logging.Logger
}

// Query describes one retrieval request.
type Query struct {
	// Report is the free-text emergency report; it is embedded once.
	Report string
	// ImageVectors are optional client-supplied image embeddings; when
	// present the visual-evidence collection is searched with the first.
	ImageVectors [][]float32
	// LocationKnown suppresses the landmark search when true.
	LocationKnown bool
}

// Retriever gathers the fixed-shape evidence map consumed by the workflow.
type Retriever struct {
	embedder core.Embedder
	search   core.SearchService
	topK     int
	logger   logging.Logger
}

// New creates a Retriever over an embedder and a search service.
func New(embedder core.Embedder, search core.SearchService, optFns ...func(o *Options)) *Retriever {
	opts := Options{TopK: DefaultTopK, Logger: logging.NoOpLogger{}}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.TopK <= 0 {
		opts.TopK = DefaultTopK
	}
	return &Retriever{embedder: embedder, search: search, topK: opts.TopK, logger: opts.Logger}
}

// Retrieve embeds the report once and issues up to four independent
// collection searches concurrently. A failure in one collection logs a
// warning and yields an empty list for that collection only. The returned
// error is non-nil only when the query could not be embedded at all or the
// context was cancelled.
func (r *Retriever) Retrieve(ctx context.Context, q Query) (core.Evidence, error) {
	var evidence core.Evidence

	queryVec, err := r.embedder.EmbedText(ctx, q.Report)
	if err != nil {
		return evidence, fmt.Errorf("embed query: %w", err)
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		evidence.Incidents = r.searchCollection(gctx, CollectionIncidentMemory, queryVec)
		return gctx.Err()
	})
	g.Go(func() error {
		evidence.Protocols = r.searchCollection(gctx, CollectionProtocols, queryVec)
		return gctx.Err()
	})
	if !q.LocationKnown {
		g.Go(func() error {
			evidence.Landmarks = r.searchCollection(gctx, CollectionLandmarks, queryVec)
			return gctx.Err()
		})
	}
	if len(q.ImageVectors) > 0 {
		imageVec := q.ImageVectors[0]
		g.Go(func() error {
			evidence.Images = r.searchCollection(gctx, CollectionVisualEvidence, imageVec)
			return gctx.Err()
		})
	}

	if err := g.Wait(); err != nil {
		return evidence, err
	}
	return evidence, nil
}

// searchCollection runs one collection search, converting failure into an
// empty result plus a warning.
func (r *Retriever) searchCollection(ctx context.Context, collection string, vector []float32) []core.EvidenceItem {
	start := time.Now()
	hits, err := r.search.Search(ctx, collection, vector, r.topK)
	if err != nil {
		r.logger.Warn("collection search failed", "collection", collection, "error", err, "duration", time.Since(start))
		return nil
	}
	r.logger.Debug("collection search completed", "collection", collection, "hits", len(hits), "duration", time.Since(start))
	return hits
}
