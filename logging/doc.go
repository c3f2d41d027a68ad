// Package logging provides a tiny abstraction over slog so the rest of
// TriageMesh can depend on a minimal Logger interface while users plug in any
// structured logger. It also offers a contextual TriageLogger with incident
// and run scoping plus domain helpers for agent, model and retrieval calls.
package logging
