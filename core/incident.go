package core

import "time"

// DefaultMaxIterations bounds the reflection loop when no override is given.
const DefaultMaxIterations = 5

// IncidentRecord is the single mutable state object for one workflow run.
// It is owned exclusively by the node currently executing; runs never share
// a record. Retrieved evidence is populated once before the state machine
// starts and is read-only thereafter; AgentHistory, GroundedClaims and
// Ambiguities are append-only within a run.
type IncidentRecord struct {
	// Input.
	ID           string
	Report       string
	Channel      Channel
	Role         Role
	Transcript   string
	ImageVectors [][]float32
	Location     *Coordinates

	// Retrieved evidence.
	Evidence Evidence

	// Workflow bookkeeping.
	CurrentAgent   AgentName
	AgentHistory   []AgentName
	IterationCount int
	MaxIterations  int
	NextAgent      AgentName
	LoopBackTo     AgentName

	// Supervisor outputs.
	Intent            Intent
	InitialAssessment string

	// Triage outputs.
	Priority          Priority
	IncidentType      string
	RecommendedAssets []AssetRecommendation

	// Geo outputs.
	ResolvedLocation *Coordinates
	Address          string
	NearbyLandmarks  []string

	// Protocol outputs.
	RecommendedProtocols []EvidenceItem
	CriticalInstructions string
	Contraindications    string

	// Vision outputs.
	VisualAnalysis  string
	VisualConfirmed bool

	// Reflector outputs.
	QualityScore    float64
	GapsDetected    []string
	GroundingIssues []string

	// Grounding and audit.
	GroundedClaims []GroundedClaim
	Ambiguities    []AmbiguityFlag
	Confidence     map[string]float64

	// Control flags. RequiresHumanApproval is monotonic: once true it is
	// never reset within the same run.
	RequiresHumanApproval bool
	RequiresMoreInfo      bool

	// Final output.
	Final              *Recommendation
	ProcessingComplete bool

	// Cost and audit.
	Elapsed        time.Duration
	TokensConsumed int
	Errors         []string
}

// RecordOptions configures optional incident record inputs.
type RecordOptions struct {
	Channel       Channel
	Role          Role
	Transcript    string
	ImageVectors  [][]float32
	Location      *Coordinates
	MaxIterations int
}

// NewIncidentRecord creates the initial record for a run with conservative
// defaults: priority P3, incident type "Unknown", supervisor as the entry
// node and an iteration ceiling of DefaultMaxIterations.
func NewIncidentRecord(id, report string, optFns ...func(o *RecordOptions)) *IncidentRecord {
	opts := RecordOptions{
		Channel:       ChannelWeb,
		Role:          RoleDispatcher,
		MaxIterations: DefaultMaxIterations,
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	return &IncidentRecord{
		ID:           id,
		Report:       report,
		Channel:      opts.Channel,
		Role:         opts.Role,
		Transcript:   opts.Transcript,
		ImageVectors: opts.ImageVectors,
		Location:     opts.Location,

		CurrentAgent:  AgentSupervisor,
		MaxIterations: opts.MaxIterations,

		Priority:     PriorityP3,
		IncidentType: "Unknown",
		Confidence:   map[string]float64{},
	}
}

// AgentInput projects the record into the read-only Input handed to agents.
func (r *IncidentRecord) AgentInput() Input {
	history := make([]AgentName, len(r.AgentHistory))
	copy(history, r.AgentHistory)

	return Input{
		IncidentID:   r.ID,
		Report:       r.Report,
		Channel:      r.Channel,
		Role:         r.Role,
		Transcript:   r.Transcript,
		ImageVectors: r.ImageVectors,
		Location:     r.Location,
		Evidence:     r.Evidence,
		AgentHistory: history,
		PriorOutputs: r.priorOutputs(),
	}
}

// priorOutputs collects the named outputs of agents that have already
// produced results, keyed by agent.
func (r *IncidentRecord) priorOutputs() map[AgentName]map[string]any {
	outputs := map[AgentName]map[string]any{}

	if r.Intent != "" {
		outputs[AgentSupervisor] = map[string]any{
			"intent":             string(r.Intent),
			"initial_assessment": r.InitialAssessment,
		}
	}
	if r.executed(AgentTriage) {
		outputs[AgentTriage] = map[string]any{
			"priority":           string(r.Priority),
			"incident_type":      r.IncidentType,
			"recommended_assets": r.RecommendedAssets,
		}
	}
	if r.ResolvedLocation != nil || r.Address != "" {
		outputs[AgentGeo] = map[string]any{
			"location":         r.ResolvedLocation,
			"address":          r.Address,
			"nearby_landmarks": r.NearbyLandmarks,
		}
	}
	if len(r.RecommendedProtocols) > 0 || r.CriticalInstructions != "" {
		outputs[AgentProtocol] = map[string]any{
			"protocols":             r.RecommendedProtocols,
			"critical_instructions": r.CriticalInstructions,
			"contraindications":     r.Contraindications,
		}
	}
	if r.VisualAnalysis != "" {
		outputs[AgentVision] = map[string]any{
			"analysis":  r.VisualAnalysis,
			"confirmed": r.VisualConfirmed,
		}
	}
	if r.executed(AgentReflector) {
		outputs[AgentReflector] = map[string]any{
			"quality_score":    r.QualityScore,
			"gaps_detected":    r.GapsDetected,
			"grounding_issues": r.GroundingIssues,
		}
	}

	return outputs
}

func (r *IncidentRecord) executed(name AgentName) bool {
	for _, h := range r.AgentHistory {
		if h == name {
			return true
		}
	}
	return false
}

// Executed reports whether the named node has run at least once.
func (r *IncidentRecord) Executed(name AgentName) bool { return r.executed(name) }
