// Package cache provides core.ResultCache implementations for idempotent
// replay of recommendations: a bounded in-memory store (TTL plus capacity,
// oldest-first eviction) as the default, and a Redis-backed store in the
// redis subpackage for multi-process deployments.
package cache
