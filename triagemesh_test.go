package triagemesh

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/triagemesh/config"
	"github.com/hupe1980/triagemesh/core"
	"github.com/hupe1980/triagemesh/embedding"
	"github.com/hupe1980/triagemesh/model"
	"github.com/hupe1980/triagemesh/retrieval"
)

func TestTriageMeshFastPathEndToEnd(t *testing.T) {
	m := model.NewMockModel("mock")
	m.Enqueue(`{"priority": "P2", "incident_type": "Flood_Urban", "recommended_assets": [{"type": "Rescue_Boat", "quantity": 1}], "critical_instructions": "Do not enter moving water.", "reasoning": "rising water reported", "confidence": 0.85}`)

	cfg := config.Default()
	cfg.Mode = config.ModeFast

	mesh, err := New(m, embedding.NewHashingEmbedder(32), retrieval.NewInMemorySearch(),
		func(o *Options) { o.Config = cfg })
	require.NoError(t, err)

	ctx := context.Background()
	rec, err := mesh.Process(ctx, Request{IncidentID: "inc-1", Report: "street flooding, car stuck"})
	require.NoError(t, err)

	assert.Equal(t, core.StatusFastPathComplete, rec.Status)
	assert.Equal(t, core.PriorityP2, rec.Priority)
	assert.True(t, rec.RequiresHumanApproval)

	// replay comes from the cache, no second model call
	again, err := mesh.Process(ctx, Request{IncidentID: "inc-1", Report: "street flooding, car stuck"})
	require.NoError(t, err)
	assert.Equal(t, rec.IncidentType, again.IncidentType)
	assert.Equal(t, 1, m.Calls())

	// invalidation forces a recompute, which now fails and falls back
	require.NoError(t, mesh.Invalidate(ctx, "inc-1"))
	fb, err := mesh.Process(ctx, Request{IncidentID: "inc-1", Report: "street flooding, car stuck"})
	require.NoError(t, err)
	assert.Equal(t, core.StatusFallback, fb.Status)
}

func TestTriageMeshRejectsInvalidConfig(t *testing.T) {
	cfg := config.Default()
	cfg.MaxIterations = 0

	_, err := New(model.NewMockModel("mock"), embedding.NewHashingEmbedder(32),
		retrieval.NewInMemorySearch(), func(o *Options) { o.Config = cfg })
	assert.Error(t, err)
}
