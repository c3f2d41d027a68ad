// Package agent implements the six reasoning steps of the triage workflow:
// supervisor, triage, geo, protocol, vision and reflector. Every agent
// satisfies core.Agent: it receives a read-only projection of the incident
// record, issues one structured completion against a model.Model, and returns
// a typed result payload plus control flags, grounded claims and ambiguity
// flags. Agents never mutate the incident record; the workflow merges their
// outputs.
package agent
