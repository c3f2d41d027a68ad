package agent

import (
	"context"
	"fmt"

	"github.com/hupe1980/triagemesh/core"
	"github.com/hupe1980/triagemesh/internal/util"
	"github.com/hupe1980/triagemesh/model"
)

const visionSystemPrompt = `You are the visual analyst of an emergency response system.

The caller attached imagery; its nearest matches from the reference image
index are listed below. Judge whether the visual evidence confirms the
reported situation.

OUTPUT FORMAT (JSON):
{
  "analysis": "What the matched imagery suggests about the scene",
  "confirmed": false,
  "requires_more_info": false
}

Set "requires_more_info" when the imagery is unusable and a human must
request better footage.
Respond with valid JSON only.`

// VisionAgent interprets matched reference imagery for the report.
type VisionAgent struct {
	baseAgent
}

// NewVisionAgent creates a visual analyst over the given model.
func NewVisionAgent(m model.Model, optFns ...func(o *Options)) *VisionAgent {
	return &VisionAgent{baseAgent: newBaseAgent(core.AgentVision, m, optFns)}
}

// Execute implements core.Agent.
func (a *VisionAgent) Execute(ctx context.Context, in core.Input) (*core.Output, error) {
	user := util.JoinSections(
		renderReport(in),
		fmt.Sprintf("ATTACHED IMAGES: %d", len(in.ImageVectors)),
		util.RenderEvidence("MATCHED REFERENCE IMAGES", in.Evidence.Images, 5),
	)

	var wire struct {
		Analysis         string `json:"analysis"`
		Confirmed        bool   `json:"confirmed"`
		RequiresMoreInfo bool   `json:"requires_more_info"`
	}
	resp, elapsed, err := a.generateObject(ctx, visionSystemPrompt, user, &wire)
	if err != nil {
		return nil, err
	}

	next := core.AgentTriage
	if wire.RequiresMoreInfo {
		next = core.AgentCheckpoint
	}

	return &core.Output{
		Result: core.VisionResult{
			Analysis:  wire.Analysis,
			Confirmed: wire.Confirmed,
		},
		NextAgent:        next,
		RequiresMoreInfo: wire.RequiresMoreInfo,
		Elapsed:          elapsed,
		TokensConsumed:   resp.Usage.TotalTokens,
	}, nil
}
