package agent

import (
	"context"

	"github.com/hupe1980/triagemesh/core"
	"github.com/hupe1980/triagemesh/internal/util"
	"github.com/hupe1980/triagemesh/model"
)

const triageSystemPrompt = `You are the triage classifier of an emergency response system.

Assign a dispatch priority, an incident type and the response assets to send.

OUTPUT FORMAT (JSON):
{
  "priority": "P1|P2|P3|P4|P5",
  "incident_type": "Category_Subcategory",
  "recommended_assets": [{"type": "ALS_Ambulance", "quantity": 1}],
  "requires_human_approval": false,
  "grounded_claims": [{"claim": "...", "evidence_ids": ["..."]}]
}

PRIORITY LEVELS:
- P1 (CRITICAL): Immediate life threat
- P2 (URGENT): Serious but stable
- P3 (MODERATE): Non-life-threatening
- P4 (LOW): Scheduled response okay
- P5 (ADMIN): Information only

Ground every claim in the evidence ids provided. Be decisive.
Respond with valid JSON only.`

// TriageAgent assigns priority, incident type and recommended assets.
type TriageAgent struct {
	baseAgent
}

// NewTriageAgent creates a triage classifier over the given model.
func NewTriageAgent(m model.Model, optFns ...func(o *Options)) *TriageAgent {
	return &TriageAgent{baseAgent: newBaseAgent(core.AgentTriage, m, optFns)}
}

// Execute implements core.Agent.
func (a *TriageAgent) Execute(ctx context.Context, in core.Input) (*core.Output, error) {
	user := util.JoinSections(
		renderReport(in),
		util.RenderEvidence("SIMILAR PAST INCIDENTS", in.Evidence.Incidents, 5),
		util.RenderEvidence("RELEVANT PROTOCOLS", in.Evidence.Protocols, 3),
	)

	var wire struct {
		Priority              string      `json:"priority"`
		IncidentType          string      `json:"incident_type"`
		RecommendedAssets     []wireAsset `json:"recommended_assets"`
		RequiresHumanApproval bool        `json:"requires_human_approval"`
		GroundedClaims        []wireClaim `json:"grounded_claims"`
	}
	resp, elapsed, err := a.generateObject(ctx, triageSystemPrompt, user, &wire)
	if err != nil {
		return nil, err
	}

	priority := core.Priority(wire.Priority)
	if !priority.Valid() {
		priority = core.PriorityP3
	}
	incidentType := wire.IncidentType
	if incidentType == "" {
		incidentType = "Unknown"
	}

	return &core.Output{
		Result: core.TriageResult{
			Priority:          priority,
			IncidentType:      incidentType,
			RecommendedAssets: toAssets(wire.RecommendedAssets),
		},
		NextAgent:             core.AgentProtocol,
		RequiresHumanApproval: wire.RequiresHumanApproval,
		Elapsed:               elapsed,
		TokensConsumed:        resp.Usage.TotalTokens,
		GroundedClaims:        toClaims(wire.GroundedClaims),
	}, nil
}

type wireAsset struct {
	Type     string `json:"type"`
	Quantity int    `json:"quantity"`
}

func toAssets(in []wireAsset) []core.AssetRecommendation {
	out := make([]core.AssetRecommendation, 0, len(in))
	for _, a := range in {
		if a.Type == "" {
			continue
		}
		quantity := a.Quantity
		if quantity <= 0 {
			quantity = 1
		}
		out = append(out, core.AssetRecommendation{Type: a.Type, Quantity: quantity})
	}
	return out
}
