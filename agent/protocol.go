package agent

import (
	"context"

	"github.com/hupe1980/triagemesh/core"
	"github.com/hupe1980/triagemesh/internal/util"
	"github.com/hupe1980/triagemesh/model"
)

const protocolSystemPrompt = `You are the protocol advisor of an emergency response system.

Select the applicable standard operating procedures from the candidates
provided and distill the critical first actions for the dispatcher.

OUTPUT FORMAT (JSON):
{
  "selected_protocol_ids": ["..."],
  "critical_instructions": "Immediate actions for the dispatcher",
  "contraindications": "Actions to avoid, or null",
  "grounded_claims": [{"claim": "...", "evidence_ids": ["..."]}]
}

Only select ids that appear in the candidate list. Ground every instruction.
Respond with valid JSON only.`

// ProtocolAgent selects operating procedures and distills dispatcher
// instructions from the retrieved protocol evidence.
type ProtocolAgent struct {
	baseAgent
}

// NewProtocolAgent creates a protocol advisor over the given model.
func NewProtocolAgent(m model.Model, optFns ...func(o *Options)) *ProtocolAgent {
	return &ProtocolAgent{baseAgent: newBaseAgent(core.AgentProtocol, m, optFns)}
}

// Execute implements core.Agent.
func (a *ProtocolAgent) Execute(ctx context.Context, in core.Input) (*core.Output, error) {
	user := util.JoinSections(
		renderReport(in),
		util.RenderEvidence("PROTOCOL CANDIDATES", in.Evidence.Protocols, 5),
	)

	var wire struct {
		SelectedProtocolIDs  []string    `json:"selected_protocol_ids"`
		CriticalInstructions string      `json:"critical_instructions"`
		Contraindications    string      `json:"contraindications"`
		GroundedClaims       []wireClaim `json:"grounded_claims"`
	}
	resp, elapsed, err := a.generateObject(ctx, protocolSystemPrompt, user, &wire)
	if err != nil {
		return nil, err
	}

	return &core.Output{
		Result: core.ProtocolResult{
			Protocols:            selectProtocols(in.Evidence.Protocols, wire.SelectedProtocolIDs),
			CriticalInstructions: wire.CriticalInstructions,
			Contraindications:    wire.Contraindications,
		},
		NextAgent:      core.AgentReflector,
		Elapsed:        elapsed,
		TokensConsumed: resp.Usage.TotalTokens,
		GroundedClaims: toClaims(wire.GroundedClaims),
	}, nil
}

// selectProtocols resolves model-selected ids against the retrieved evidence.
// Unknown ids are dropped; the model cannot introduce protocols that were
// never retrieved.
func selectProtocols(candidates []core.EvidenceItem, ids []string) []core.EvidenceItem {
	if len(ids) == 0 {
		return nil
	}
	byID := make(map[string]core.EvidenceItem, len(candidates))
	for _, c := range candidates {
		byID[c.ID] = c
	}
	var selected []core.EvidenceItem
	for _, id := range ids {
		if item, ok := byID[id]; ok {
			selected = append(selected, item)
		}
	}
	return selected
}
