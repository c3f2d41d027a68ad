package workflow

import (
	"context"
	"errors"
	"fmt"

	"github.com/hupe1980/triagemesh/core"
	"github.com/hupe1980/triagemesh/logging"
)

// DefaultQualityThreshold is the reflector score at or above which the run
// proceeds to the checkpoint.
const DefaultQualityThreshold = 0.7

// ErrAlreadyComplete is returned when Run is called on a record whose
// checkpoint has already executed. The final recommendation is produced
// exactly once per run.
var ErrAlreadyComplete = errors.New("workflow: run already complete")

// Registry names the agent implementation for every non-terminal node. All
// six must be provided; the checkpoint is internal to the workflow.
type Registry struct {
	Supervisor core.Agent
	Triage     core.Agent
	Geo        core.Agent
	Protocol   core.Agent
	Vision     core.Agent
	Reflector  core.Agent
}

func (r Registry) agents() (map[core.AgentName]core.Agent, error) {
	all := map[core.AgentName]core.Agent{
		core.AgentSupervisor: r.Supervisor,
		core.AgentTriage:     r.Triage,
		core.AgentGeo:        r.Geo,
		core.AgentProtocol:   r.Protocol,
		core.AgentVision:     r.Vision,
		core.AgentReflector:  r.Reflector,
	}
	for name, ag := range all {
		if ag == nil {
			return nil, fmt.Errorf("workflow: missing agent for node %q", name)
		}
		if ag.Name() != name {
			return nil, fmt.Errorf("workflow: agent %q registered for node %q", ag.Name(), name)
		}
	}
	return all, nil
}

// Options configure a Workflow.
type Options struct {
	// QualityThreshold overrides DefaultQualityThreshold.
	QualityThreshold float64
	// Logger receives node-level diagnostics. Defaults to NoOp.
	Logger logging.Logger
}

// Workflow executes the triage state machine over one incident record at a
// time. A Workflow is stateless across runs and safe for concurrent use;
// all mutable state lives on the record, which each run owns exclusively.
type Workflow struct {
	agents           map[core.AgentName]core.Agent
	qualityThreshold float64
	logger           logging.Logger
}

// New validates the registry and builds a Workflow.
func New(reg Registry, optFns ...func(o *Options)) (*Workflow, error) {
	agents, err := reg.agents()
	if err != nil {
		return nil, err
	}

	opts := Options{QualityThreshold: DefaultQualityThreshold, Logger: logging.NoOpLogger{}}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.Logger == nil {
		opts.Logger = logging.NoOpLogger{}
	}

	return &Workflow{
		agents:           agents,
		qualityThreshold: opts.QualityThreshold,
		logger:           opts.Logger,
	}, nil
}

// maxSteps bounds total node executions: the longest acyclic pass touches
// five nodes, and each permitted reflection adds at most one more pass.
// The routing rules alone guarantee termination; this guard only defends
// against future routing-table edits.
func maxSteps(maxIterations int) int {
	return (maxIterations + 1) * 5
}

// Run executes nodes from the record's current agent until the checkpoint,
// mutating the record in place and returning it. Agent failures propagate
// unwrapped in cause: the workflow neither retries nor converts them into a
// recommendation; that is the orchestrator's job.
func (w *Workflow) Run(ctx context.Context, rec *core.IncidentRecord) (*core.IncidentRecord, error) {
	if rec.ProcessingComplete {
		return nil, ErrAlreadyComplete
	}

	current := rec.CurrentAgent
	if current == "" {
		current = core.AgentSupervisor
	}
	routes := w.routes()
	limit := maxSteps(rec.MaxIterations)

	for step := 0; ; step++ {
		if current == core.AgentCheckpoint {
			w.checkpoint(rec)
			return rec, nil
		}
		if step >= limit {
			w.logger.Warn("step guard tripped, forcing checkpoint",
				"incident_id", rec.ID, "steps", step)
			w.checkpoint(rec)
			return rec, nil
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		ag, ok := w.agents[current]
		if !ok {
			return nil, fmt.Errorf("workflow: no agent for node %q", current)
		}

		rec.CurrentAgent = current
		w.logger.Info("running agent", "incident_id", rec.ID, "agent", string(current), "iteration", rec.IterationCount)

		out, err := ag.Execute(ctx, rec.AgentInput())
		if err != nil {
			return nil, fmt.Errorf("node %s: %w", current, err)
		}

		if err := w.merge(rec, current, out); err != nil {
			return nil, err
		}

		route, ok := routes[current]
		if !ok {
			return nil, fmt.Errorf("workflow: no route after node %q", current)
		}
		next := route(rec)
		rec.NextAgent = next
		current = next
	}
}

// merge copies one agent's output into the record. Scalar fields are
// overwritten (a re-run refines its earlier answer); history, claims and
// ambiguities are append-only; the approval flag only ever turns on.
func (w *Workflow) merge(rec *core.IncidentRecord, node core.AgentName, out *core.Output) error {
	switch node {
	case core.AgentSupervisor:
		res, ok := out.Result.(core.SupervisorResult)
		if !ok {
			return fmt.Errorf("node %s: unexpected result payload %T", node, out.Result)
		}
		rec.Intent = res.Intent
		rec.InitialAssessment = res.InitialAssessment

	case core.AgentTriage:
		res, ok := out.Result.(core.TriageResult)
		if !ok {
			return fmt.Errorf("node %s: unexpected result payload %T", node, out.Result)
		}
		rec.Priority = res.Priority
		rec.IncidentType = res.IncidentType
		rec.RecommendedAssets = append(rec.RecommendedAssets, res.RecommendedAssets...)

	case core.AgentGeo:
		res, ok := out.Result.(core.GeoResult)
		if !ok {
			return fmt.Errorf("node %s: unexpected result payload %T", node, out.Result)
		}
		rec.ResolvedLocation = res.Location
		rec.Address = res.Address
		rec.NearbyLandmarks = res.NearbyLandmarks

	case core.AgentProtocol:
		res, ok := out.Result.(core.ProtocolResult)
		if !ok {
			return fmt.Errorf("node %s: unexpected result payload %T", node, out.Result)
		}
		rec.RecommendedProtocols = res.Protocols
		rec.CriticalInstructions = res.CriticalInstructions
		rec.Contraindications = res.Contraindications

	case core.AgentVision:
		res, ok := out.Result.(core.VisionResult)
		if !ok {
			return fmt.Errorf("node %s: unexpected result payload %T", node, out.Result)
		}
		rec.VisualAnalysis = res.Analysis
		rec.VisualConfirmed = res.Confirmed

	case core.AgentReflector:
		res, ok := out.Result.(core.ReflectorResult)
		if !ok {
			return fmt.Errorf("node %s: unexpected result payload %T", node, out.Result)
		}
		rec.QualityScore = res.QualityScore
		rec.GapsDetected = res.GapsDetected
		rec.GroundingIssues = res.GroundingIssues
		rec.LoopBackTo = res.LoopBackTo

	default:
		return fmt.Errorf("workflow: merge for unknown node %q", node)
	}

	rec.AgentHistory = append(rec.AgentHistory, node)
	rec.RequiresHumanApproval = rec.RequiresHumanApproval || out.RequiresHumanApproval
	rec.RequiresMoreInfo = out.RequiresMoreInfo
	rec.Elapsed += out.Elapsed
	rec.TokensConsumed += out.TokensConsumed
	rec.GroundedClaims = append(rec.GroundedClaims, out.GroundedClaims...)
	rec.Ambiguities = append(rec.Ambiguities, out.Ambiguities...)

	return nil
}

// checkpoint assembles the final recommendation and marks the run complete.
// Every automated recommendation requires a human to authorize dispatch;
// this is a safety invariant, not a routing choice.
func (w *Workflow) checkpoint(rec *core.IncidentRecord) {
	w.logger.Info("checkpoint reached, awaiting human approval",
		"incident_id", rec.ID, "priority", string(rec.Priority), "quality_score", rec.QualityScore)

	location := rec.ResolvedLocation
	if location == nil {
		location = rec.Location
	}

	history := make([]core.AgentName, len(rec.AgentHistory), len(rec.AgentHistory)+1)
	copy(history, rec.AgentHistory)
	history = append(history, core.AgentCheckpoint)

	rec.AgentHistory = history
	rec.CurrentAgent = core.AgentCheckpoint
	rec.RequiresHumanApproval = true
	rec.ProcessingComplete = true

	rec.Final = &core.Recommendation{
		IncidentID:            rec.ID,
		Status:                core.StatusWorkflowComplete,
		Priority:              rec.Priority,
		IncidentType:          rec.IncidentType,
		RecommendedAssets:     rec.RecommendedAssets,
		Location:              location,
		Address:               rec.Address,
		CriticalInstructions:  rec.CriticalInstructions,
		RecommendedProtocols:  rec.RecommendedProtocols,
		QualityScore:          rec.QualityScore,
		GapsDetected:          rec.GapsDetected,
		GroundedClaimCount:    len(rec.GroundedClaims),
		AgentHistory:          history,
		RequiresHumanApproval: true,
		RequiresMoreInfo:      rec.RequiresMoreInfo,
		TokensConsumed:        rec.TokensConsumed,
	}
}
