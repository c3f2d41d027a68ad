// Package workflow implements the triage state machine: a fixed directed
// graph of agent nodes with one entry node (supervisor) and one terminal
// node (the human-approval checkpoint).
//
//	supervisor → {triage | geo | vision | checkpoint}
//	geo        → {triage | checkpoint}
//	vision     → {triage | checkpoint}
//	triage     → protocol
//	protocol   → reflector
//	reflector  → {supervisor | triage | geo | checkpoint}
//	checkpoint → terminal
//
// Routing after each node is an explicit table of per-node functions over
// the incident record, testable without executing any agent. The reflector's
// loop-back is bounded by the record's iteration ceiling, so every run
// terminates at the checkpoint, which assembles the final recommendation and
// unconditionally requires human approval before dispatch.
package workflow
