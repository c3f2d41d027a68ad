package workflow

import "github.com/hupe1980/triagemesh/core"

// routeFunc decides the next node after one node finished, based solely on
// the incident record. The reflector's route is the only one with a side
// effect: consuming an iteration when it loops back.
type routeFunc func(rec *core.IncidentRecord) core.AgentName

// routes builds the per-node routing table. Unconditional edges are spelled
// out here too so the whole graph reads from one place.
func (w *Workflow) routes() map[core.AgentName]routeFunc {
	return map[core.AgentName]routeFunc{
		core.AgentSupervisor: routeAfterSupervisor,
		core.AgentGeo:        routeAfterClarifier,
		core.AgentVision:     routeAfterClarifier,
		core.AgentTriage: func(*core.IncidentRecord) core.AgentName {
			return core.AgentProtocol
		},
		core.AgentProtocol: func(*core.IncidentRecord) core.AgentName {
			return core.AgentReflector
		},
		core.AgentReflector: w.routeAfterReflector,
	}
}

// routeAfterSupervisor branches on the classified intent. Unclear intent or
// an explicit approval request goes straight to the human checkpoint.
func routeAfterSupervisor(rec *core.IncidentRecord) core.AgentName {
	if rec.Intent == core.IntentUnclear || rec.RequiresHumanApproval {
		return core.AgentCheckpoint
	}
	switch rec.Intent {
	case core.IntentLocationUnclear:
		return core.AgentGeo
	case core.IntentVisualNeeded:
		return core.AgentVision
	default:
		return core.AgentTriage
	}
}

// routeAfterClarifier covers geo and vision: when the node needs information
// only a human can supply, the run checkpoints; otherwise triage proceeds.
func routeAfterClarifier(rec *core.IncidentRecord) core.AgentName {
	if rec.RequiresMoreInfo {
		return core.AgentCheckpoint
	}
	return core.AgentTriage
}

// routeAfterReflector bounds the reflection loop. Order matters: the
// iteration ceiling wins over quality, and a loop-back consumes one
// iteration. When that consumes the last one, the run checkpoints instead
// of re-entering the target.
func (w *Workflow) routeAfterReflector(rec *core.IncidentRecord) core.AgentName {
	if rec.IterationCount >= rec.MaxIterations {
		w.logger.Warn("iteration ceiling reached, forcing checkpoint",
			"incident_id", rec.ID, "max_iterations", rec.MaxIterations)
		return core.AgentCheckpoint
	}
	if rec.QualityScore >= w.qualityThreshold {
		return core.AgentCheckpoint
	}
	switch rec.LoopBackTo {
	case core.AgentSupervisor, core.AgentTriage, core.AgentGeo:
		rec.IterationCount++
		if rec.IterationCount >= rec.MaxIterations {
			w.logger.Warn("loop-back consumed final iteration, forcing checkpoint",
				"incident_id", rec.ID, "target", string(rec.LoopBackTo))
			return core.AgentCheckpoint
		}
		return rec.LoopBackTo
	default:
		return core.AgentCheckpoint
	}
}
