package core

import (
	"context"
	"time"
)

// AgentName identifies a node in the triage workflow. The set is fixed;
// routing is an exhaustive dispatch over these values rather than a free-form
// string lookup, so adding a node is a compile-time-checked change.
type AgentName string

const (
	// AgentSupervisor classifies intent and picks the initial branch.
	AgentSupervisor AgentName = "supervisor"
	// AgentTriage assigns priority, incident type and response assets.
	AgentTriage AgentName = "triage"
	// AgentGeo resolves the incident location.
	AgentGeo AgentName = "geo"
	// AgentProtocol selects operating procedures and instructions.
	AgentProtocol AgentName = "protocol"
	// AgentVision analyzes attached visual evidence.
	AgentVision AgentName = "vision"
	// AgentReflector scores the assessment and may loop the workflow back.
	AgentReflector AgentName = "reflector"
	// AgentCheckpoint is the terminal human-approval node.
	AgentCheckpoint AgentName = "checkpoint"
)

// Intent is the supervisor's classification of a report. Beyond the routing
// sentinels below, intents are free-form category labels (medical, fire,
// accident, crime, ...).
type Intent string

const (
	// IntentUnclear means the report could not be classified; the run goes
	// straight to the human checkpoint.
	IntentUnclear Intent = "unclear"
	// IntentLocationUnclear means the location needs resolution first.
	IntentLocationUnclear Intent = "location_unclear"
	// IntentVisualNeeded means attached imagery should be analyzed first.
	IntentVisualNeeded Intent = "visual_needed"
)

// Input is the read-only projection of an IncidentRecord handed to an agent.
// Agents never mutate the record directly; the workflow copies fields from
// the returned Output back into the record.
type Input struct {
	IncidentID   string
	Report       string
	Channel      Channel
	Role         Role
	Transcript   string
	ImageVectors [][]float32
	Location     *Coordinates

	// Evidence is the retrieval context gathered before the run started.
	Evidence Evidence

	// AgentHistory lists the nodes executed so far, in order.
	AgentHistory []AgentName

	// PriorOutputs maps already-executed agents to their named outputs,
	// letting later (or re-run) agents build on earlier results.
	PriorOutputs map[AgentName]map[string]any
}

// Output is the uniform result of one agent execution.
type Output struct {
	// Result holds the step-specific payload: one of SupervisorResult,
	// TriageResult, GeoResult, ProtocolResult, VisionResult or
	// ReflectorResult. The workflow merge switches on the node, so a
	// mismatched payload is an execution error, never silently dropped.
	Result any

	// NextAgent is the agent's routing suggestion; the workflow's routing
	// table has the final say. Empty means no suggestion.
	NextAgent AgentName

	RequiresHumanApproval bool
	RequiresMoreInfo      bool

	Elapsed        time.Duration
	TokensConsumed int

	GroundedClaims []GroundedClaim
	Ambiguities    []AmbiguityFlag
}

// Agent is the uniform contract every reasoning step implements. Execute
// must complete or fail within the lifetime of ctx; failure surfaces as an
// error, never as a silently empty output.
type Agent interface {
	Name() AgentName
	Execute(ctx context.Context, in Input) (*Output, error)
}

// SupervisorResult is the supervisor agent's payload.
type SupervisorResult struct {
	Intent            Intent `json:"intent"`
	InitialAssessment string `json:"initial_assessment"`
}

// TriageResult is the triage agent's payload.
type TriageResult struct {
	Priority          Priority              `json:"priority"`
	IncidentType      string                `json:"incident_type"`
	RecommendedAssets []AssetRecommendation `json:"recommended_assets"`
}

// GeoResult is the geo agent's payload.
type GeoResult struct {
	Location        *Coordinates `json:"location,omitempty"`
	Address         string       `json:"address,omitempty"`
	NearbyLandmarks []string     `json:"nearby_landmarks,omitempty"`
}

// ProtocolResult is the protocol agent's payload.
type ProtocolResult struct {
	Protocols            []EvidenceItem `json:"protocols"`
	CriticalInstructions string         `json:"critical_instructions"`
	Contraindications    string         `json:"contraindications,omitempty"`
}

// VisionResult is the vision agent's payload.
type VisionResult struct {
	Analysis  string `json:"analysis"`
	Confirmed bool   `json:"confirmed"`
}

// ReflectorResult is the reflector agent's payload.
type ReflectorResult struct {
	QualityScore    float64   `json:"quality_score"`
	GapsDetected    []string  `json:"gaps_detected,omitempty"`
	GroundingIssues []string  `json:"grounding_issues,omitempty"`
	LoopBackTo      AgentName `json:"loop_back_to,omitempty"`
}
