package agent

import (
	"context"
	"fmt"
	"time"

	"github.com/hupe1980/triagemesh/core"
	"github.com/hupe1980/triagemesh/internal/util"
	"github.com/hupe1980/triagemesh/logging"
	"github.com/hupe1980/triagemesh/model"
)

// Options configure an agent.
type Options struct {
	// Temperature overrides the model adapter default when > 0.
	Temperature float64
	// MaxTokens overrides the model adapter default when > 0.
	MaxTokens int64
	// Logger receives per-call diagnostics. Defaults to NoOp.
	Logger logging.Logger
}

// baseAgent carries the shared plumbing of all reasoning steps: the model,
// tuning options and the timed structured-completion helper.
type baseAgent struct {
	name   core.AgentName
	model  model.Model
	logger logging.Logger
	opts   Options
}

func newBaseAgent(name core.AgentName, m model.Model, optFns []func(o *Options)) baseAgent {
	opts := Options{Logger: logging.NoOpLogger{}}
	for _, fn := range optFns {
		fn(&opts)
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.NoOpLogger{}
	}
	return baseAgent{name: name, model: m, logger: logger, opts: opts}
}

// Name implements core.Agent.
func (b *baseAgent) Name() core.AgentName { return b.name }

// generateObject issues one structured completion and decodes it into out.
// The returned duration covers the full call including decoding. Any failure
// is wrapped with the agent name and returned; agents never degrade a failed
// call into an empty output.
func (b *baseAgent) generateObject(ctx context.Context, system, user string, out any) (*model.Response, time.Duration, error) {
	start := time.Now()
	resp, err := model.GenerateObject(ctx, b.model, model.Request{
		System:      system,
		User:        user,
		Temperature: b.opts.Temperature,
		MaxTokens:   b.opts.MaxTokens,
	}, out)
	elapsed := time.Since(start)
	if err != nil {
		b.logger.Error("agent completion failed", "agent", string(b.name), "error", err, "duration", elapsed)
		return nil, elapsed, fmt.Errorf("%s agent: %w", b.name, err)
	}
	b.logger.Debug("agent completion", "agent", string(b.name), "tokens", resp.Usage.TotalTokens, "duration", elapsed)
	return resp, elapsed, nil
}

// renderReport assembles the common prompt sections shared by all agents:
// the report itself, channel/role framing, transcript, known location and
// prior agent outputs.
func renderReport(in core.Input) string {
	sections := []string{
		fmt.Sprintf("EMERGENCY REPORT (channel=%s, reported by=%s):\n%s", in.Channel, in.Role, in.Report),
	}
	if in.Transcript != "" {
		sections = append(sections, "AUDIO TRANSCRIPT:\n"+in.Transcript)
	}
	if in.Location != nil {
		sections = append(sections, fmt.Sprintf("KNOWN LOCATION: lat=%.6f lon=%.6f", in.Location.Lat, in.Location.Lon))
	}
	if prior := util.RenderPriorOutputs(in.PriorOutputs); prior != "" {
		sections = append(sections, prior)
	}
	return util.JoinSections(sections...)
}

// wireClaim and wireAmbiguity are the JSON shapes agents ask the model for.
type wireClaim struct {
	Claim       string   `json:"claim"`
	EvidenceIDs []string `json:"evidence_ids"`
}

type wireAmbiguity struct {
	Field       string   `json:"field"`
	Description string   `json:"description"`
	Candidates  []string `json:"candidates"`
}

func toClaims(in []wireClaim) []core.GroundedClaim {
	if len(in) == 0 {
		return nil
	}
	out := make([]core.GroundedClaim, 0, len(in))
	for _, c := range in {
		if c.Claim == "" {
			continue
		}
		out = append(out, core.GroundedClaim{Claim: c.Claim, EvidenceIDs: c.EvidenceIDs})
	}
	return out
}

func toAmbiguities(in []wireAmbiguity) []core.AmbiguityFlag {
	if len(in) == 0 {
		return nil
	}
	out := make([]core.AmbiguityFlag, 0, len(in))
	for _, a := range in {
		if a.Field == "" && a.Description == "" {
			continue
		}
		out = append(out, core.AmbiguityFlag{Field: a.Field, Description: a.Description, Candidates: a.Candidates})
	}
	return out
}
