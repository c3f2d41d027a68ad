package orchestrator

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/triagemesh/core"
	"github.com/hupe1980/triagemesh/embedding"
	"github.com/hupe1980/triagemesh/internal/testutil"
	"github.com/hupe1980/triagemesh/model"
	"github.com/hupe1980/triagemesh/retrieval"
	"github.com/hupe1980/triagemesh/workflow"
)

// failingEmbedder simulates an unavailable embedding service.
type failingEmbedder struct{}

func (failingEmbedder) EmbedText(context.Context, string) ([]float32, error) {
	return nil, errors.New("embedding service unavailable")
}

func (failingEmbedder) EmbedImage(context.Context, []byte) ([]float32, error) {
	return nil, errors.New("embedding service unavailable")
}

// fixedTranscriber returns a canned transcript for any audio.
type fixedTranscriber struct{ text string }

func (t fixedTranscriber) Transcribe(context.Context, []byte, string) (string, error) {
	return t.text, nil
}

func stubRegistry() (*workflow.Registry, *testutil.StubAgent, *testutil.StubAgent) {
	supervisor := testutil.NewStubAgent(core.AgentSupervisor, &core.Output{
		Result: core.SupervisorResult{Intent: "medical", InitialAssessment: "collapse reported"},
	})
	triage := testutil.NewStubAgent(core.AgentTriage, &core.Output{
		Result: core.TriageResult{
			Priority:          core.PriorityP2,
			IncidentType:      "Medical_Collapse",
			RecommendedAssets: []core.AssetRecommendation{{Type: "ALS_Ambulance", Quantity: 1}},
		},
	})
	reg := &workflow.Registry{
		Supervisor: supervisor,
		Triage:     triage,
		Geo:        testutil.NewStubAgent(core.AgentGeo, &core.Output{Result: core.GeoResult{}}),
		Protocol: testutil.NewStubAgent(core.AgentProtocol, &core.Output{
			Result: core.ProtocolResult{CriticalInstructions: "monitor airway"},
		}),
		Vision: testutil.NewStubAgent(core.AgentVision, &core.Output{Result: core.VisionResult{}}),
		Reflector: testutil.NewStubAgent(core.AgentReflector, &core.Output{
			Result: core.ReflectorResult{QualityScore: 0.9},
		}),
	}
	return reg, supervisor, triage
}

func newTestOrchestrator(t *testing.T, optFns ...func(o *Options)) (*Orchestrator, *testutil.StubAgent) {
	t.Helper()

	reg, supervisor, _ := stubRegistry()
	m := model.NewMockModel("test-model")

	fns := append([]func(o *Options){func(o *Options) { o.Registry = reg }}, optFns...)
	orch, err := New(m, embedding.NewHashingEmbedder(32), retrieval.NewInMemorySearch(), fns...)
	require.NoError(t, err)
	return orch, supervisor
}

func validRequest(id string) Request {
	return Request{IncidentID: id, Report: "person collapsed at the market"}
}

func TestProcessValidatesRequest(t *testing.T) {
	orch, _ := newTestOrchestrator(t)

	_, err := orch.Process(context.Background(), Request{Report: "no id"})
	assert.ErrorIs(t, err, ErrInvalidRequest)

	_, err = orch.Process(context.Background(), Request{IncidentID: "inc-1", Report: "   "})
	assert.ErrorIs(t, err, ErrInvalidRequest)
}

func TestProcessFullPath(t *testing.T) {
	orch, _ := newTestOrchestrator(t)

	rec, err := orch.Process(context.Background(), validRequest("inc-full"))
	require.NoError(t, err)

	assert.Equal(t, core.StatusWorkflowComplete, rec.Status)
	assert.Equal(t, core.PriorityP2, rec.Priority)
	assert.Equal(t, "Medical_Collapse", rec.IncidentType)
	assert.Equal(t, "full", rec.Mode)
	assert.True(t, rec.RequiresHumanApproval)
	assert.GreaterOrEqual(t, rec.ProcessingTimeMS, int64(0))
}

func TestProcessIdempotentReplay(t *testing.T) {
	orch, supervisor := newTestOrchestrator(t)
	ctx := context.Background()

	first, err := orch.Process(ctx, validRequest("inc-replay"))
	require.NoError(t, err)
	second, err := orch.Process(ctx, validRequest("inc-replay"))
	require.NoError(t, err)

	assert.Equal(t, 1, supervisor.Calls())

	a, err := json.Marshal(first)
	require.NoError(t, err)
	b, err := json.Marshal(second)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestProcessForceReprocess(t *testing.T) {
	orch, supervisor := newTestOrchestrator(t)
	ctx := context.Background()

	_, err := orch.Process(ctx, validRequest("inc-force"))
	require.NoError(t, err)

	req := validRequest("inc-force")
	req.ForceReprocess = true
	_, err = orch.Process(ctx, req)
	require.NoError(t, err)

	assert.Equal(t, 2, supervisor.Calls())
}

func TestProcessConcurrentSameIncident(t *testing.T) {
	orch, supervisor := newTestOrchestrator(t)
	ctx := context.Background()

	const n = 16
	results := make([]*core.Recommendation, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			rec, err := orch.Process(ctx, validRequest("inc-concurrent"))
			if assert.NoError(t, err) {
				results[i] = rec
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 1, supervisor.Calls())
	want, err := json.Marshal(results[0])
	require.NoError(t, err)
	for _, rec := range results[1:] {
		got, err := json.Marshal(rec)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
}

func TestProcessFallbackOnAgentFailure(t *testing.T) {
	reg, _, triage := stubRegistry()
	triage.FailWith(errors.New("model unavailable"))

	orch, err := New(model.NewMockModel("test-model"), embedding.NewHashingEmbedder(32),
		retrieval.NewInMemorySearch(), func(o *Options) { o.Registry = reg })
	require.NoError(t, err)

	rec, err := orch.Process(context.Background(), validRequest("inc-fallback"))
	require.NoError(t, err)

	assert.Equal(t, core.StatusFallback, rec.Status)
	assert.Equal(t, core.PriorityP2, rec.Priority)
	assert.Equal(t, "Unknown_RequiresReview", rec.IncidentType)
	assert.Equal(t, []core.AssetRecommendation{{Type: "ALS_Ambulance", Quantity: 1}}, rec.RecommendedAssets)
	assert.Equal(t, "Escalate to human dispatcher immediately.", rec.CriticalInstructions)
	assert.True(t, rec.RequiresHumanApproval)
	assert.Contains(t, rec.Error, "model unavailable")
}

func TestProcessDegradedRetrievalStillCompletes(t *testing.T) {
	reg, _, _ := stubRegistry()
	orch, err := New(model.NewMockModel("test-model"), failingEmbedder{},
		retrieval.NewInMemorySearch(), func(o *Options) { o.Registry = reg })
	require.NoError(t, err)

	rec, err := orch.Process(context.Background(), validRequest("inc-degraded"))
	require.NoError(t, err)
	assert.Equal(t, core.StatusWorkflowComplete, rec.Status)
}

func TestProcessContextCancelled(t *testing.T) {
	orch, _ := newTestOrchestrator(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := orch.Process(ctx, validRequest("inc-cancelled"))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestInvalidateForcesRecompute(t *testing.T) {
	orch, supervisor := newTestOrchestrator(t)
	ctx := context.Background()

	_, err := orch.Process(ctx, validRequest("inc-invalidate"))
	require.NoError(t, err)
	require.NoError(t, orch.Invalidate(ctx, "inc-invalidate"))

	_, err = orch.Process(ctx, validRequest("inc-invalidate"))
	require.NoError(t, err)
	assert.Equal(t, 2, supervisor.Calls())
}
