package testutil

import (
	"github.com/hupe1980/triagemesh/core"
)

// EvidenceBuilder helps construct evidence bundles with fluent chaining for
// tests. Example:
//
//	ev := NewEvidenceBuilder().Protocol("sop-1", 0.9, "apply pressure").Build()
type EvidenceBuilder struct {
	evidence core.Evidence
}

// NewEvidenceBuilder creates an empty builder.
func NewEvidenceBuilder() *EvidenceBuilder { return &EvidenceBuilder{} }

// Incident appends a past-incident hit (chainable).
func (b *EvidenceBuilder) Incident(id string, score float64, content string) *EvidenceBuilder {
	b.evidence.Incidents = append(b.evidence.Incidents, item(id, score, content))
	return b
}

// Protocol appends a protocol hit (chainable).
func (b *EvidenceBuilder) Protocol(id string, score float64, content string) *EvidenceBuilder {
	b.evidence.Protocols = append(b.evidence.Protocols, item(id, score, content))
	return b
}

// Landmark appends a landmark hit (chainable).
func (b *EvidenceBuilder) Landmark(id string, score float64, content string) *EvidenceBuilder {
	b.evidence.Landmarks = append(b.evidence.Landmarks, item(id, score, content))
	return b
}

// Image appends a visual-evidence hit (chainable).
func (b *EvidenceBuilder) Image(id string, score float64, content string) *EvidenceBuilder {
	b.evidence.Images = append(b.evidence.Images, item(id, score, content))
	return b
}

// Build returns the accumulated evidence bundle.
func (b *EvidenceBuilder) Build() core.Evidence { return b.evidence }

func item(id string, score float64, content string) core.EvidenceItem {
	return core.EvidenceItem{
		ID:      id,
		Score:   score,
		Payload: map[string]any{"content": content},
	}
}

// Vector returns a deterministic embedding of the given dimensionality,
// seeded so distinct seeds produce distinct vectors.
func Vector(dim int, seed float32) []float32 {
	v := make([]float32, dim)
	for i := range v {
		v[i] = seed + float32(i)*0.01
	}
	return v
}
