package agent

import (
	"context"

	"github.com/hupe1980/triagemesh/core"
	"github.com/hupe1980/triagemesh/internal/util"
	"github.com/hupe1980/triagemesh/model"
)

const geoSystemPrompt = `You are the location resolver of an emergency response system.

Determine where the incident is, using the report text and the landmark
candidates provided. If the location cannot be resolved, say so and name the
missing detail; a human will ask the caller.

OUTPUT FORMAT (JSON):
{
  "location": {"lat": 0.0, "lon": 0.0},
  "address": "Best-effort street address or null",
  "nearby_landmarks": ["..."],
  "requires_more_info": false,
  "ambiguities": [{"field": "location", "description": "...", "candidates": ["..."]}]
}

Set "location" to null when no coordinates can be justified.
Respond with valid JSON only.`

// GeoAgent resolves the incident location from the report and the landmark
// index.
type GeoAgent struct {
	baseAgent
}

// NewGeoAgent creates a location resolver over the given model.
func NewGeoAgent(m model.Model, optFns ...func(o *Options)) *GeoAgent {
	return &GeoAgent{baseAgent: newBaseAgent(core.AgentGeo, m, optFns)}
}

// Execute implements core.Agent.
func (a *GeoAgent) Execute(ctx context.Context, in core.Input) (*core.Output, error) {
	user := util.JoinSections(
		renderReport(in),
		util.RenderEvidence("LANDMARK CANDIDATES", in.Evidence.Landmarks, 5),
	)

	var wire struct {
		Location         *core.Coordinates `json:"location"`
		Address          string            `json:"address"`
		NearbyLandmarks  []string          `json:"nearby_landmarks"`
		RequiresMoreInfo bool              `json:"requires_more_info"`
		Ambiguities      []wireAmbiguity   `json:"ambiguities"`
	}
	resp, elapsed, err := a.generateObject(ctx, geoSystemPrompt, user, &wire)
	if err != nil {
		return nil, err
	}

	next := core.AgentTriage
	if wire.RequiresMoreInfo {
		next = core.AgentCheckpoint
	}

	return &core.Output{
		Result: core.GeoResult{
			Location:        wire.Location,
			Address:         wire.Address,
			NearbyLandmarks: wire.NearbyLandmarks,
		},
		NextAgent:        next,
		RequiresMoreInfo: wire.RequiresMoreInfo,
		Elapsed:          elapsed,
		TokensConsumed:   resp.Usage.TotalTokens,
		Ambiguities:      toAmbiguities(wire.Ambiguities),
	}, nil
}
