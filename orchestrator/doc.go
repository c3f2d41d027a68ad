// Package orchestrator is the entry point of the triage core. Process takes
// one emergency report through transcription (when audio is attached),
// evidence retrieval, and either the full multi-agent workflow or the
// single-call fast path, then caches the result for idempotent replay.
//
// Failure discipline: per-collection retrieval failures degrade to empty
// evidence; any other processing failure is converted into a conservative
// fallback recommendation flagged for mandatory human approval. Callers
// always receive a structurally valid recommendation; the only errors
// Process returns are invalid arguments and context cancellation.
package orchestrator
