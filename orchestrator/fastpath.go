package orchestrator

import (
	"context"
	"fmt"

	"github.com/hupe1980/triagemesh/core"
	"github.com/hupe1980/triagemesh/internal/util"
	"github.com/hupe1980/triagemesh/model"
)

const fastPathSystemPrompt = `You are an expert emergency dispatch triage system. Assess the emergency
report in a single pass and respond with ONLY a valid JSON object:

{
  "priority": "P1" | "P2" | "P3" | "P4" | "P5",
  "incident_type": "<specific incident classification>",
  "recommended_assets": [{"type": "<asset type>", "quantity": <int>}],
  "critical_instructions": "<instructions for the dispatcher>",
  "reasoning": "<one-paragraph justification>",
  "confidence": <0.0-1.0>
}

Priority scale: P1 is immediately life-threatening, P5 is non-urgent.
Ground your assessment in the retrieved protocols when any are provided.
Be conservative: when in doubt, assign the higher priority.`

// fastPath produces a recommendation from a single model call over the report
// and a compact rendering of the retrieved evidence. High-severity results
// (P1, P2) are flagged for human approval.
func (o *Orchestrator) fastPath(ctx context.Context, req Request, transcript string, evidence core.Evidence) (*core.Recommendation, error) {
	user := util.JoinSections(
		"EMERGENCY REPORT:\n"+req.Report,
		renderTranscript(transcript),
		util.RenderEvidence("RELEVANT PROTOCOLS", evidence.Protocols, 3),
		util.RenderEvidence("SIMILAR PAST INCIDENTS", evidence.Incidents, 3),
	)

	var wire struct {
		Priority          string `json:"priority"`
		IncidentType      string `json:"incident_type"`
		RecommendedAssets []struct {
			Type     string `json:"type"`
			Quantity int    `json:"quantity"`
		} `json:"recommended_assets"`
		CriticalInstructions string  `json:"critical_instructions"`
		Reasoning            string  `json:"reasoning"`
		Confidence           float64 `json:"confidence"`
	}

	resp, err := model.GenerateObject(ctx, o.model, model.Request{
		System:      fastPathSystemPrompt,
		User:        user,
		Temperature: o.cfg.Model.Temperature,
		MaxTokens:   o.cfg.Model.MaxTokens,
	}, &wire)
	if err != nil {
		return nil, fmt.Errorf("fast path: %w", err)
	}

	priority := core.Priority(wire.Priority)
	if !priority.Valid() {
		priority = core.PriorityP3
	}
	incidentType := wire.IncidentType
	if incidentType == "" {
		incidentType = "Unknown"
	}
	assets := make([]core.AssetRecommendation, 0, len(wire.RecommendedAssets))
	for _, a := range wire.RecommendedAssets {
		if a.Type == "" {
			continue
		}
		qty := a.Quantity
		if qty <= 0 {
			qty = 1
		}
		assets = append(assets, core.AssetRecommendation{Type: a.Type, Quantity: qty})
	}

	return &core.Recommendation{
		IncidentID:            req.IncidentID,
		Status:                core.StatusFastPathComplete,
		Priority:              priority,
		IncidentType:          incidentType,
		RecommendedAssets:     assets,
		CriticalInstructions:  wire.CriticalInstructions,
		Location:              req.Location,
		RequiresHumanApproval: priority == core.PriorityP1 || priority == core.PriorityP2,
		Reasoning:             wire.Reasoning,
		Confidence:            wire.Confidence,
		ModelUsed:             resp.Model,
		TokensConsumed:        resp.Usage.TotalTokens,
	}, nil
}

func renderTranscript(transcript string) string {
	if transcript == "" {
		return ""
	}
	return "CALL TRANSCRIPT:\n" + transcript
}
