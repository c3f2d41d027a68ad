package testutil

import (
	"context"
	"sync"

	"github.com/hupe1980/triagemesh/core"
)

// StubAgent is a scripted core.Agent for workflow tests. Each Execute call
// pops the next queued output; when the queue is exhausted the last output is
// repeated. A nil queue entry is replaced by an empty output.
type StubAgent struct {
	mu      sync.Mutex
	name    core.AgentName
	outputs []*core.Output
	err     error
	calls   int
}

// NewStubAgent creates a stub for the named node with a queue of outputs.
func NewStubAgent(name core.AgentName, outputs ...*core.Output) *StubAgent {
	return &StubAgent{name: name, outputs: outputs}
}

// FailWith makes every Execute call return err instead of an output.
func (a *StubAgent) FailWith(err error) *StubAgent { a.err = err; return a }

// Name implements core.Agent.
func (a *StubAgent) Name() core.AgentName { return a.name }

// Execute implements core.Agent.
func (a *StubAgent) Execute(_ context.Context, _ core.Input) (*core.Output, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.calls++
	if a.err != nil {
		return nil, a.err
	}

	var out *core.Output
	switch {
	case len(a.outputs) == 0:
		out = nil
	case a.calls <= len(a.outputs):
		out = a.outputs[a.calls-1]
	default:
		out = a.outputs[len(a.outputs)-1]
	}
	if out == nil {
		out = &core.Output{}
	}
	return out, nil
}

// Calls reports how many times Execute ran.
func (a *StubAgent) Calls() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.calls
}
