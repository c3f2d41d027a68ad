package core

// Status distinguishes how a recommendation was produced.
type Status string

const (
	// StatusWorkflowComplete marks a recommendation produced by the full
	// multi-agent workflow.
	StatusWorkflowComplete Status = "workflow_complete"
	// StatusFastPathComplete marks a recommendation produced by the
	// single-call fast path.
	StatusFastPathComplete Status = "fast_path_complete"
	// StatusFallback marks the conservative fixed recommendation emitted
	// when processing failed; Error carries the cause.
	StatusFallback Status = "fallback"
)

// Recommendation is the triage decision returned to callers. It is always
// structurally valid: even the fallback carries a priority, an incident type
// and a recommended asset, and every recommendation requires human approval
// before dispatch.
type Recommendation struct {
	IncidentID string `json:"incident_id"`
	Status     Status `json:"status"`
	Error      string `json:"error,omitempty"`

	Priority             Priority              `json:"priority"`
	IncidentType         string                `json:"incident_type"`
	RecommendedAssets    []AssetRecommendation `json:"recommended_assets"`
	Location             *Coordinates          `json:"location,omitempty"`
	Address              string                `json:"address,omitempty"`
	CriticalInstructions string                `json:"critical_instructions"`
	RecommendedProtocols []EvidenceItem        `json:"recommended_protocols,omitempty"`

	QualityScore       float64     `json:"quality_score,omitempty"`
	GapsDetected       []string    `json:"gaps_detected,omitempty"`
	GroundedClaimCount int         `json:"grounded_claim_count"`
	AgentHistory       []AgentName `json:"agent_history,omitempty"`

	RequiresHumanApproval bool `json:"requires_human_approval"`
	RequiresMoreInfo      bool `json:"requires_more_info,omitempty"`

	Reasoning  string  `json:"reasoning,omitempty"`
	Confidence float64 `json:"confidence,omitempty"`

	Mode             string `json:"mode,omitempty"`
	ModelUsed        string `json:"model_used,omitempty"`
	TokensConsumed   int    `json:"tokens_consumed"`
	ProcessingTimeMS int64  `json:"processing_time_ms"`
}
