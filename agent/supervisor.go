package agent

import (
	"context"

	"github.com/hupe1980/triagemesh/core"
	"github.com/hupe1980/triagemesh/internal/util"
	"github.com/hupe1980/triagemesh/model"
)

const supervisorSystemPrompt = `You are the intake supervisor of an emergency response system.

Classify the incoming report and decide what must happen first.

OUTPUT FORMAT (JSON):
{
  "intent": "medical|fire|accident|crime|location_unclear|visual_needed|unclear",
  "initial_assessment": "One or two sentences summarizing the situation",
  "requires_human_approval": false,
  "ambiguities": [{"field": "...", "description": "...", "candidates": ["..."]}]
}

RULES:
- Use "location_unclear" when the incident cannot be dispatched without resolving where it is.
- Use "visual_needed" when attached imagery must be analyzed before classification.
- Use "unclear" only when the report cannot be acted on at all; a human will take over.
- Record every genuinely ambiguous field in "ambiguities".
Respond with valid JSON only.`

// SupervisorAgent classifies report intent and proposes the first branch of
// the workflow.
type SupervisorAgent struct {
	baseAgent
}

// NewSupervisorAgent creates a supervisor over the given model.
func NewSupervisorAgent(m model.Model, optFns ...func(o *Options)) *SupervisorAgent {
	return &SupervisorAgent{baseAgent: newBaseAgent(core.AgentSupervisor, m, optFns)}
}

// Execute implements core.Agent.
func (a *SupervisorAgent) Execute(ctx context.Context, in core.Input) (*core.Output, error) {
	user := util.JoinSections(
		renderReport(in),
		util.RenderEvidence("SIMILAR PAST INCIDENTS", in.Evidence.Incidents, 3),
	)

	var wire struct {
		Intent                string          `json:"intent"`
		InitialAssessment     string          `json:"initial_assessment"`
		RequiresHumanApproval bool            `json:"requires_human_approval"`
		Ambiguities           []wireAmbiguity `json:"ambiguities"`
	}
	resp, elapsed, err := a.generateObject(ctx, supervisorSystemPrompt, user, &wire)
	if err != nil {
		return nil, err
	}

	intent := core.Intent(wire.Intent)
	if intent == "" {
		intent = core.IntentUnclear
	}

	return &core.Output{
		Result: core.SupervisorResult{
			Intent:            intent,
			InitialAssessment: wire.InitialAssessment,
		},
		NextAgent:             suggestAfterSupervisor(intent),
		RequiresHumanApproval: wire.RequiresHumanApproval,
		Elapsed:               elapsed,
		TokensConsumed:        resp.Usage.TotalTokens,
		Ambiguities:           toAmbiguities(wire.Ambiguities),
	}, nil
}

// suggestAfterSupervisor mirrors the routing table's supervisor rules; the
// workflow still has the final say.
func suggestAfterSupervisor(intent core.Intent) core.AgentName {
	switch intent {
	case core.IntentUnclear:
		return core.AgentCheckpoint
	case core.IntentLocationUnclear:
		return core.AgentGeo
	case core.IntentVisualNeeded:
		return core.AgentVision
	default:
		return core.AgentTriage
	}
}
