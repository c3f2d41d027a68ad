package agent

import (
	"context"

	"github.com/hupe1980/triagemesh/core"
	"github.com/hupe1980/triagemesh/internal/util"
	"github.com/hupe1980/triagemesh/model"
)

const reflectorSystemPrompt = `You are the quality reviewer of an emergency response system.

Assess the assembled triage decision: is it complete, internally consistent
and grounded in the retrieved evidence?

OUTPUT FORMAT (JSON):
{
  "quality_score": 0.0,
  "gaps_detected": ["..."],
  "grounding_issues": ["..."],
  "loop_back_to": "supervisor|triage|geo|null"
}

SCORING:
- 1.0: complete, consistent, fully grounded
- 0.7: good enough for human sign-off
- below 0.7: name the gaps and, if a rerun would help, which agent to rerun

Only "supervisor", "triage" and "geo" are valid loop-back targets.
Respond with valid JSON only.`

// ReflectorAgent scores the assembled assessment and may name a loop-back
// target for another pass.
type ReflectorAgent struct {
	baseAgent
}

// NewReflectorAgent creates a quality reviewer over the given model.
func NewReflectorAgent(m model.Model, optFns ...func(o *Options)) *ReflectorAgent {
	return &ReflectorAgent{baseAgent: newBaseAgent(core.AgentReflector, m, optFns)}
}

// Execute implements core.Agent.
func (a *ReflectorAgent) Execute(ctx context.Context, in core.Input) (*core.Output, error) {
	user := util.JoinSections(
		renderReport(in),
		util.RenderEvidence("SIMILAR PAST INCIDENTS", in.Evidence.Incidents, 3),
		util.RenderEvidence("RELEVANT PROTOCOLS", in.Evidence.Protocols, 3),
	)

	var wire struct {
		QualityScore    float64  `json:"quality_score"`
		GapsDetected    []string `json:"gaps_detected"`
		GroundingIssues []string `json:"grounding_issues"`
		LoopBackTo      string   `json:"loop_back_to"`
	}
	resp, elapsed, err := a.generateObject(ctx, reflectorSystemPrompt, user, &wire)
	if err != nil {
		return nil, err
	}

	score := wire.QualityScore
	if score < 0 {
		score = 0
	}
	if score > 1 {
		score = 1
	}

	loopBack := core.AgentName(wire.LoopBackTo)
	switch loopBack {
	case core.AgentSupervisor, core.AgentTriage, core.AgentGeo:
	default:
		loopBack = ""
	}

	next := core.AgentCheckpoint
	if loopBack != "" {
		next = loopBack
	}

	return &core.Output{
		Result: core.ReflectorResult{
			QualityScore:    score,
			GapsDetected:    wire.GapsDetected,
			GroundingIssues: wire.GroundingIssues,
			LoopBackTo:      loopBack,
		},
		NextAgent:      next,
		Elapsed:        elapsed,
		TokensConsumed: resp.Usage.TotalTokens,
	}, nil
}
