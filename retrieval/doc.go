// Package retrieval aggregates similarity-search evidence from multiple
// knowledge collections before a workflow run starts. The retriever embeds
// the report text once, fans out one search per collection concurrently and
// tolerates per-collection failures: a failing collection yields an empty
// list and a warning, never an aborted run.
//
// An in-memory cosine-similarity SearchService implementation is included
// for tests, demos and small deployments.
package retrieval
