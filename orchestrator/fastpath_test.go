package orchestrator

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/triagemesh/config"
	"github.com/hupe1980/triagemesh/core"
	"github.com/hupe1980/triagemesh/embedding"
	"github.com/hupe1980/triagemesh/model"
	"github.com/hupe1980/triagemesh/retrieval"
)

func fastConfig() config.Config {
	cfg := config.Default()
	cfg.Mode = config.ModeFast
	return cfg
}

func newFastOrchestrator(t *testing.T, m model.Model, optFns ...func(o *Options)) *Orchestrator {
	t.Helper()
	fns := append([]func(o *Options){func(o *Options) { o.Config = fastConfig() }}, optFns...)
	orch, err := New(m, embedding.NewHashingEmbedder(32), retrieval.NewInMemorySearch(), fns...)
	require.NoError(t, err)
	return orch
}

func TestFastPathHighPriorityRequiresApproval(t *testing.T) {
	m := model.NewMockModel("fast-model")
	m.Enqueue(`{
		"priority": "P1",
		"incident_type": "Fire_Structure",
		"recommended_assets": [{"type": "Fire_Engine", "quantity": 2}, {"type": "Ladder", "quantity": 0}],
		"critical_instructions": "Evacuate the building.",
		"reasoning": "Persons reported inside a burning structure.",
		"confidence": 0.92
	}`)

	orch := newFastOrchestrator(t, m)
	rec, err := orch.Process(context.Background(), validRequest("inc-fast-1"))
	require.NoError(t, err)

	assert.Equal(t, core.StatusFastPathComplete, rec.Status)
	assert.Equal(t, core.PriorityP1, rec.Priority)
	assert.Equal(t, "Fire_Structure", rec.IncidentType)
	// zero quantities are lifted to one
	assert.Equal(t, []core.AssetRecommendation{
		{Type: "Fire_Engine", Quantity: 2},
		{Type: "Ladder", Quantity: 1},
	}, rec.RecommendedAssets)
	assert.True(t, rec.RequiresHumanApproval)
	assert.Equal(t, "fast", rec.Mode)
	assert.Equal(t, "fast-model", rec.ModelUsed)
	assert.InDelta(t, 0.92, rec.Confidence, 1e-9)
	assert.Greater(t, rec.TokensConsumed, 0)
}

func TestFastPathLowPriorityNeedsNoApproval(t *testing.T) {
	m := model.NewMockModel("fast-model")
	m.Enqueue(`{"priority": "P4", "incident_type": "Noise_Complaint", "recommended_assets": [], "critical_instructions": "", "reasoning": "non-urgent", "confidence": 0.8}`)

	orch := newFastOrchestrator(t, m)
	rec, err := orch.Process(context.Background(), validRequest("inc-fast-2"))
	require.NoError(t, err)

	assert.Equal(t, core.StatusFastPathComplete, rec.Status)
	assert.Equal(t, core.PriorityP4, rec.Priority)
	assert.False(t, rec.RequiresHumanApproval)
}

func TestFastPathInvalidPriorityDefaults(t *testing.T) {
	m := model.NewMockModel("fast-model")
	m.Enqueue(`{"priority": "urgent", "incident_type": "", "recommended_assets": [], "critical_instructions": "", "reasoning": "", "confidence": 0.5}`)

	orch := newFastOrchestrator(t, m)
	rec, err := orch.Process(context.Background(), validRequest("inc-fast-3"))
	require.NoError(t, err)

	assert.Equal(t, core.PriorityP3, rec.Priority)
	assert.Equal(t, "Unknown", rec.IncidentType)
}

func TestFastPathModelFailureFallsBack(t *testing.T) {
	m := model.NewMockModel("fast-model")
	m.FailWith(errors.New("rate limited"))

	orch := newFastOrchestrator(t, m)
	rec, err := orch.Process(context.Background(), validRequest("inc-fast-4"))
	require.NoError(t, err)

	assert.Equal(t, core.StatusFallback, rec.Status)
	assert.Equal(t, "fast", rec.Mode)
	assert.Contains(t, rec.Error, "rate limited")
}

func TestFastPathIncludesTranscript(t *testing.T) {
	m := model.NewMockModel("fast-model")
	// The rule only fires when the transcript text reached the prompt.
	m.AddResponse("caller reports chest pain",
		`{"priority": "P2", "incident_type": "Medical_Cardiac", "recommended_assets": [{"type": "ALS_Ambulance", "quantity": 1}], "critical_instructions": "", "reasoning": "", "confidence": 0.9}`)

	orch := newFastOrchestrator(t, m, func(o *Options) {
		o.Transcriber = fixedTranscriber{text: "caller reports chest pain"}
	})

	req := validRequest("inc-fast-5")
	req.Audio = []byte{0x01, 0x02}
	req.AudioFilename = "call.ogg"

	rec, err := orch.Process(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, core.StatusFastPathComplete, rec.Status)
	assert.Equal(t, "Medical_Cardiac", rec.IncidentType)
}
