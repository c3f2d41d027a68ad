// Package triagemesh provides a high-level façade over the orchestrator and
// service abstractions (retrieval, caching, transcription & logging) for
// building emergency-report triage pipelines. Most applications interact with
// this package by:
//  1. Creating a TriageMesh via New() with a completion model, an embedder
//     and a search service (optionally overriding the default in-memory cache)
//  2. Submitting reports with Process()
//  3. Invalidating cached results with Invalidate() when an incident changes
//
// The façade delegates coordination to orchestrator.Orchestrator while keeping
// setup and usage ergonomics concise. All defaults are safe for local
// development and testing; production deployments typically supply a Redis
// cache, a transcriber and a structured logger.
package triagemesh

import (
	"context"

	"github.com/hupe1980/triagemesh/config"
	"github.com/hupe1980/triagemesh/core"
	"github.com/hupe1980/triagemesh/logging"
	"github.com/hupe1980/triagemesh/model"
	"github.com/hupe1980/triagemesh/orchestrator"
	"github.com/hupe1980/triagemesh/workflow"
)

// Request is one incident submission.
type Request = orchestrator.Request

// Options configures the TriageMesh instance.
type Options struct {
	// Config holds the orchestration knobs (mode, iteration ceiling,
	// quality threshold, retrieval depth, cache bounds, model defaults).
	Config config.Config

	// Cache is the idempotency store (defaults to a bounded in-memory
	// store if not provided).
	Cache core.ResultCache

	// Transcriber handles audio attachments. Optional; reports without
	// audio never touch it.
	Transcriber core.Transcriber

	// Registry overrides the default agent set. All six agents must be
	// set when provided.
	Registry *workflow.Registry

	// Logger (defaults to NoOp logger if nil)
	Logger logging.Logger
}

// TriageMesh is the high-level façade aggregating the underlying orchestrator
// and services.
type TriageMesh struct {
	opts Options
	orch *orchestrator.Orchestrator
}

// New creates a new TriageMesh instance with optional overrides. Any unset
// service is initialized with an in-memory implementation.
func New(m model.Model, embedder core.Embedder, search core.SearchService, optFns ...func(o *Options)) (*TriageMesh, error) {
	opts := Options{
		Config: config.Default(),
		Logger: logging.NoOpLogger{},
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	orch, err := orchestrator.New(m, embedder, search, func(o *orchestrator.Options) {
		o.Config = opts.Config
		o.Cache = opts.Cache
		o.Transcriber = opts.Transcriber
		o.Registry = opts.Registry
		o.Logger = opts.Logger
	})
	if err != nil {
		return nil, err
	}

	return &TriageMesh{opts: opts, orch: orch}, nil
}

// Process runs one incident report to a triage recommendation. Repeated
// calls with the same incident identifier replay the cached result.
func (t *TriageMesh) Process(ctx context.Context, req Request) (*core.Recommendation, error) {
	return t.orch.Process(ctx, req)
}

// Invalidate clears the cached results for the named incidents, or all
// cached results when no identifiers are given.
func (t *TriageMesh) Invalidate(ctx context.Context, ids ...string) error {
	return t.orch.Invalidate(ctx, ids...)
}
