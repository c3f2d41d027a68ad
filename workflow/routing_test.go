package workflow

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/hupe1980/triagemesh/core"
	"github.com/hupe1980/triagemesh/internal/testutil"
)

func TestRouteAfterSupervisor(t *testing.T) {
	tests := []struct {
		name     string
		intent   core.Intent
		approval bool
		want     core.AgentName
	}{
		{"unclear goes to checkpoint", core.IntentUnclear, false, core.AgentCheckpoint},
		{"approval request goes to checkpoint", "medical", true, core.AgentCheckpoint},
		{"location unclear goes to geo", core.IntentLocationUnclear, false, core.AgentGeo},
		{"visual needed goes to vision", core.IntentVisualNeeded, false, core.AgentVision},
		{"category intent goes to triage", "fire", false, core.AgentTriage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := testutil.NewRecordBuilder("inc-r1").Build()
			rec.Intent = tt.intent
			rec.RequiresHumanApproval = tt.approval
			assert.Equal(t, tt.want, routeAfterSupervisor(rec))
		})
	}
}

func TestRouteAfterClarifier(t *testing.T) {
	rec := testutil.NewRecordBuilder("inc-r2").Build()
	assert.Equal(t, core.AgentTriage, routeAfterClarifier(rec))

	rec.RequiresMoreInfo = true
	assert.Equal(t, core.AgentCheckpoint, routeAfterClarifier(rec))
}

func TestRouteAfterReflector(t *testing.T) {
	w := mustWorkflow(t, newStubSet())

	t.Run("ceiling wins over everything", func(t *testing.T) {
		rec := testutil.NewRecordBuilder("inc-r3").MaxIterations(3).Build()
		rec.IterationCount = 3
		rec.QualityScore = 0.1
		rec.LoopBackTo = core.AgentTriage
		assert.Equal(t, core.AgentCheckpoint, w.routeAfterReflector(rec))
		assert.Equal(t, 3, rec.IterationCount)
	})

	t.Run("quality at threshold checkpoints", func(t *testing.T) {
		rec := testutil.NewRecordBuilder("inc-r4").Build()
		rec.QualityScore = DefaultQualityThreshold
		rec.LoopBackTo = core.AgentTriage
		assert.Equal(t, core.AgentCheckpoint, w.routeAfterReflector(rec))
		assert.Equal(t, 0, rec.IterationCount)
	})

	t.Run("loop-back consumes an iteration", func(t *testing.T) {
		rec := testutil.NewRecordBuilder("inc-r5").Build()
		rec.QualityScore = 0.4
		rec.LoopBackTo = core.AgentGeo
		assert.Equal(t, core.AgentGeo, w.routeAfterReflector(rec))
		assert.Equal(t, 1, rec.IterationCount)
	})

	t.Run("loop-back consuming the final iteration checkpoints", func(t *testing.T) {
		rec := testutil.NewRecordBuilder("inc-r6").MaxIterations(3).Build()
		rec.IterationCount = 2
		rec.QualityScore = 0.4
		rec.LoopBackTo = core.AgentTriage
		assert.Equal(t, core.AgentCheckpoint, w.routeAfterReflector(rec))
		assert.Equal(t, 3, rec.IterationCount)
	})

	t.Run("invalid target checkpoints", func(t *testing.T) {
		rec := testutil.NewRecordBuilder("inc-r7").Build()
		rec.QualityScore = 0.4
		rec.LoopBackTo = core.AgentProtocol
		assert.Equal(t, core.AgentCheckpoint, w.routeAfterReflector(rec))
		assert.Equal(t, 0, rec.IterationCount)
	})

	t.Run("no target checkpoints", func(t *testing.T) {
		rec := testutil.NewRecordBuilder("inc-r8").Build()
		rec.QualityScore = 0.4
		assert.Equal(t, core.AgentCheckpoint, w.routeAfterReflector(rec))
	})
}
