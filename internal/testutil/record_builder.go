package testutil

import (
	"github.com/hupe1980/triagemesh/core"
)

// RecordBuilder provides a fluent helper for constructing incident records in
// tests. Example:
//
//	rec := NewRecordBuilder("inc-1").Report("smoke visible").MaxIterations(3).Build()
//
// Chain only the parts you need; sensible defaults are applied.
type RecordBuilder struct {
	id            string
	report        string
	channel       core.Channel
	role          core.Role
	transcript    string
	location      *core.Coordinates
	imageVectors  [][]float32
	maxIterations int
	evidence      core.Evidence
}

// NewRecordBuilder creates a builder with a default report text.
func NewRecordBuilder(id string) *RecordBuilder {
	return &RecordBuilder{id: id, report: "test emergency report"}
}

// Report sets the free-text report (chainable).
func (b *RecordBuilder) Report(r string) *RecordBuilder { b.report = r; return b }

// Channel sets the intake channel (chainable).
func (b *RecordBuilder) Channel(c core.Channel) *RecordBuilder { b.channel = c; return b }

// Role sets the reporter role (chainable).
func (b *RecordBuilder) Role(r core.Role) *RecordBuilder { b.role = r; return b }

// Transcript sets the audio transcript (chainable).
func (b *RecordBuilder) Transcript(t string) *RecordBuilder { b.transcript = t; return b }

// Location sets known coordinates (chainable).
func (b *RecordBuilder) Location(lat, lon float64) *RecordBuilder {
	b.location = &core.Coordinates{Lat: lat, Lon: lon}
	return b
}

// ImageVector appends a client-supplied image embedding (chainable).
func (b *RecordBuilder) ImageVector(v []float32) *RecordBuilder {
	b.imageVectors = append(b.imageVectors, v)
	return b
}

// MaxIterations overrides the reflection loop ceiling (chainable).
func (b *RecordBuilder) MaxIterations(n int) *RecordBuilder { b.maxIterations = n; return b }

// Evidence sets the pre-retrieved evidence (chainable).
func (b *RecordBuilder) Evidence(ev core.Evidence) *RecordBuilder { b.evidence = ev; return b }

// Build returns a fresh *core.IncidentRecord.
func (b *RecordBuilder) Build() *core.IncidentRecord {
	rec := core.NewIncidentRecord(b.id, b.report, func(o *core.RecordOptions) {
		if b.channel != "" {
			o.Channel = b.channel
		}
		if b.role != "" {
			o.Role = b.role
		}
		o.Transcript = b.transcript
		o.ImageVectors = b.imageVectors
		o.Location = b.location
		if b.maxIterations > 0 {
			o.MaxIterations = b.maxIterations
		}
	})
	rec.Evidence = b.evidence
	return rec
}
