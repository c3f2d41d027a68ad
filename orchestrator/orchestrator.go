package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	"github.com/hupe1980/triagemesh/agent"
	"github.com/hupe1980/triagemesh/cache"
	"github.com/hupe1980/triagemesh/config"
	"github.com/hupe1980/triagemesh/core"
	"github.com/hupe1980/triagemesh/logging"
	"github.com/hupe1980/triagemesh/model"
	"github.com/hupe1980/triagemesh/retrieval"
	"github.com/hupe1980/triagemesh/workflow"
)

// ErrInvalidRequest is returned when a request is missing its identifier or
// report text.
var ErrInvalidRequest = errors.New("orchestrator: invalid request")

// Request describes one incident to process.
type Request struct {
	// IncidentID is the unique identifier used for idempotent replay.
	IncidentID string
	// Report is the free-text emergency report.
	Report string

	Channel core.Channel
	Role    core.Role

	// Location, when known, suppresses the landmark search.
	Location *core.Coordinates
	// Transcript is a pre-transcribed audio attachment.
	Transcript string
	// Audio is a raw audio attachment, transcribed when no Transcript was
	// supplied and a transcriber is configured.
	Audio         []byte
	AudioFilename string
	// ImageVectors are client-supplied image embeddings.
	ImageVectors [][]float32

	// ForceReprocess bypasses the idempotency lookup (the fresh result
	// still replaces the cached entry).
	ForceReprocess bool
}

// Options configure an Orchestrator.
type Options struct {
	// Config holds the orchestration knobs. Defaults to config.Default().
	Config config.Config
	// Cache is the idempotency store. Defaults to a bounded in-memory
	// store sized from Config.Cache.
	Cache core.ResultCache
	// Transcriber handles audio attachments. Optional.
	Transcriber core.Transcriber
	// Registry overrides the default agent set built over the model.
	Registry *workflow.Registry
	// Logger receives diagnostics. Defaults to NoOp.
	Logger logging.Logger
}

// Orchestrator coordinates retrieval, mode selection, the workflow and the
// idempotency cache. Safe for concurrent use; each Process call owns its
// incident record exclusively.
type Orchestrator struct {
	cfg         config.Config
	model       model.Model
	retriever   *retrieval.Retriever
	wf          *workflow.Workflow
	cache       core.ResultCache
	transcriber core.Transcriber
	logger      logging.Logger
	group       singleflight.Group
}

// New wires an Orchestrator over a completion model, an embedder and a
// search service. Unless overridden, all six workflow agents run on m.
func New(m model.Model, embedder core.Embedder, search core.SearchService, optFns ...func(o *Options)) (*Orchestrator, error) {
	opts := Options{Config: config.Default(), Logger: logging.NoOpLogger{}}
	for _, fn := range optFns {
		fn(&opts)
	}
	if err := opts.Config.Validate(); err != nil {
		return nil, err
	}
	if opts.Logger == nil {
		opts.Logger = logging.NoOpLogger{}
	}
	if opts.Cache == nil {
		opts.Cache = cache.NewInMemoryStore(func(o *cache.Options) {
			o.TTL = opts.Config.Cache.TTL
			o.Capacity = opts.Config.Cache.Capacity
		})
	}

	reg := opts.Registry
	if reg == nil {
		agentOpts := func(o *agent.Options) {
			o.Logger = opts.Logger
			o.Temperature = opts.Config.Model.Temperature
			o.MaxTokens = opts.Config.Model.MaxTokens
		}
		reg = &workflow.Registry{
			Supervisor: agent.NewSupervisorAgent(m, agentOpts),
			Triage:     agent.NewTriageAgent(m, agentOpts),
			Geo:        agent.NewGeoAgent(m, agentOpts),
			Protocol:   agent.NewProtocolAgent(m, agentOpts),
			Vision:     agent.NewVisionAgent(m, agentOpts),
			Reflector:  agent.NewReflectorAgent(m, agentOpts),
		}
	}

	wf, err := workflow.New(*reg, func(o *workflow.Options) {
		o.QualityThreshold = opts.Config.QualityThreshold
		o.Logger = opts.Logger
	})
	if err != nil {
		return nil, err
	}

	retriever := retrieval.New(embedder, search, func(o *retrieval.Options) {
		o.TopK = opts.Config.RetrievalTopK
		o.Logger = opts.Logger
	})

	return &Orchestrator{
		cfg:         opts.Config,
		model:       m,
		retriever:   retriever,
		wf:          wf,
		cache:       opts.Cache,
		transcriber: opts.Transcriber,
		logger:      opts.Logger,
	}, nil
}

// Process runs one incident to a recommendation. Repeated calls with the
// same identifier replay the cached result unless ForceReprocess is set;
// concurrent calls with the same identifier share one computation.
func (o *Orchestrator) Process(ctx context.Context, req Request) (*core.Recommendation, error) {
	if req.IncidentID == "" {
		return nil, fmt.Errorf("%w: missing incident id", ErrInvalidRequest)
	}
	if strings.TrimSpace(req.Report) == "" {
		return nil, fmt.Errorf("%w: missing report text", ErrInvalidRequest)
	}

	start := time.Now()
	runID := uuid.NewString()

	if !req.ForceReprocess {
		rec, err := o.cache.Get(ctx, req.IncidentID)
		if err == nil {
			o.logger.Info("returning cached recommendation", "incident_id", req.IncidentID, "run_id", runID)
			return rec, nil
		}
		if !errors.Is(err, core.ErrNotFound) {
			o.logger.Warn("cache lookup failed", "incident_id", req.IncidentID, "error", err)
		}
	}

	v, err, _ := o.group.Do(req.IncidentID, func() (any, error) {
		return o.processOnce(ctx, req, runID, start)
	})
	if err != nil {
		return nil, err
	}
	return v.(*core.Recommendation), nil
}

// processOnce performs the actual computation. It returns an error only for
// context cancellation; every other failure becomes the fallback.
func (o *Orchestrator) processOnce(ctx context.Context, req Request, runID string, start time.Time) (*core.Recommendation, error) {
	logger := o.logger
	logger.Info("processing incident", "incident_id", req.IncidentID, "run_id", runID, "mode", string(o.cfg.Mode))

	transcript := o.resolveTranscript(ctx, req)

	evidence, err := o.retriever.Retrieve(ctx, retrieval.Query{
		Report:        req.Report,
		ImageVectors:  req.ImageVectors,
		LocationKnown: req.Location != nil,
	})
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		logger.Warn("retrieval degraded, proceeding with empty evidence",
			"incident_id", req.IncidentID, "error", err)
		evidence = core.Evidence{}
	}

	var rec *core.Recommendation
	var procErr error
	if o.cfg.Mode == config.ModeFast {
		rec, procErr = o.fastPath(ctx, req, transcript, evidence)
	} else {
		rec, procErr = o.fullPath(ctx, req, transcript, evidence)
	}
	if procErr != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		logger.Error("processing failed, emitting fallback recommendation",
			"incident_id", req.IncidentID, "run_id", runID, "error", procErr)
		rec = o.fallback(req.IncidentID, procErr)
	}

	rec.Mode = string(o.cfg.Mode)
	rec.ProcessingTimeMS = time.Since(start).Milliseconds()

	if err := o.cache.Put(ctx, req.IncidentID, rec); err != nil {
		logger.Warn("cache store failed", "incident_id", req.IncidentID, "error", err)
	}
	return rec, nil
}

// resolveTranscript prefers a supplied transcript, otherwise transcribes the
// audio attachment. Transcription failure degrades to no transcript.
func (o *Orchestrator) resolveTranscript(ctx context.Context, req Request) string {
	if req.Transcript != "" || len(req.Audio) == 0 || o.transcriber == nil {
		return req.Transcript
	}
	text, err := o.transcriber.Transcribe(ctx, req.Audio, req.AudioFilename)
	if err != nil {
		o.logger.Warn("transcription failed, proceeding without transcript",
			"incident_id", req.IncidentID, "error", err)
		return ""
	}
	return text
}

// fullPath builds the incident record and runs the workflow to completion.
func (o *Orchestrator) fullPath(ctx context.Context, req Request, transcript string, evidence core.Evidence) (*core.Recommendation, error) {
	rec := core.NewIncidentRecord(req.IncidentID, req.Report, func(opt *core.RecordOptions) {
		opt.Channel = req.Channel
		opt.Role = req.Role
		opt.Transcript = transcript
		opt.ImageVectors = req.ImageVectors
		opt.Location = req.Location
		opt.MaxIterations = o.cfg.MaxIterations
	})
	rec.Evidence = evidence

	final, err := o.wf.Run(ctx, rec)
	if err != nil {
		return nil, err
	}
	if final.Final == nil {
		return nil, fmt.Errorf("workflow finished without a recommendation")
	}
	return final.Final, nil
}

// fallback is the conservative fixed recommendation emitted when processing
// failed: second-highest severity, marked for review, one high-acuity asset,
// mandatory human approval. The system never silently drops a report.
func (o *Orchestrator) fallback(incidentID string, cause error) *core.Recommendation {
	return &core.Recommendation{
		IncidentID:            incidentID,
		Status:                core.StatusFallback,
		Error:                 cause.Error(),
		Priority:              core.PriorityP2,
		IncidentType:          "Unknown_RequiresReview",
		RecommendedAssets:     []core.AssetRecommendation{{Type: "ALS_Ambulance", Quantity: 1}},
		CriticalInstructions:  "Escalate to human dispatcher immediately.",
		RequiresHumanApproval: true,
	}
}

// Invalidate clears idempotency cache entries: the named identifiers, or
// everything when none are given.
func (o *Orchestrator) Invalidate(ctx context.Context, ids ...string) error {
	if len(ids) == 0 {
		return o.cache.Clear(ctx)
	}
	for _, id := range ids {
		if err := o.cache.Delete(ctx, id); err != nil {
			return err
		}
	}
	return nil
}
