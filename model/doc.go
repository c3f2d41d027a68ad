// Package model defines the completion-service contract consumed by agents
// and the orchestrator's fast path, together with a scripted MockModel for
// tests and examples. Provider adapters live in subpackages (openai,
// anthropic) and normalize vendor SDKs behind the same interface.
package model
