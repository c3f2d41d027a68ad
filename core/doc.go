// Package core contains the shared domain types and service contracts used
// across TriageMesh: the incident record threaded through the workflow, the
// agent contract every reasoning step implements, retrieved evidence shapes,
// the final recommendation, and the interfaces for the external collaborators
// (embedding, similarity search, transcription, result caching).
//
// The package is intentionally dependency-free so that agents, the workflow
// state machine and the orchestrator can all depend on it without cycles.
package core
