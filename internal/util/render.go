// Package util contains prompt-rendering helpers shared by the agents and
// the orchestrator's fast path.
package util

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/hupe1980/triagemesh/core"
)

// SnippetLen is the per-item character budget when rendering evidence.
const SnippetLen = 200

// Truncate shortens s to at most n characters, appending an ellipsis when
// anything was cut.
func Truncate(s string, n int) string {
	if n <= 0 || len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

// PayloadText extracts the human-readable content of an evidence payload,
// preferring the conventional "content" key and falling back to a compact
// JSON rendering.
func PayloadText(payload map[string]any) string {
	if payload == nil {
		return ""
	}
	if content, ok := payload["content"].(string); ok {
		return content
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Sprintf("%v", payload)
	}
	return string(data)
}

// RenderEvidence formats a labelled evidence list for inclusion in a prompt.
// At most max items are rendered; zero items yields an empty string so the
// caller can skip the section entirely.
func RenderEvidence(label string, items []core.EvidenceItem, max int) string {
	if len(items) == 0 {
		return ""
	}
	if max > 0 && len(items) > max {
		items = items[:max]
	}
	var sb strings.Builder
	sb.WriteString(label)
	sb.WriteString(":\n")
	for _, item := range items {
		fmt.Fprintf(&sb, "- [%s] %s\n", item.ID, Truncate(PayloadText(item.Payload), SnippetLen))
	}
	return sb.String()
}

// RenderPriorOutputs formats earlier agents' named outputs for a prompt, in
// stable agent order.
func RenderPriorOutputs(outputs map[core.AgentName]map[string]any) string {
	if len(outputs) == 0 {
		return ""
	}
	names := make([]string, 0, len(outputs))
	for name := range outputs {
		names = append(names, string(name))
	}
	sort.Strings(names)

	var sb strings.Builder
	sb.WriteString("PRIOR AGENT OUTPUTS:\n")
	for _, name := range names {
		data, err := json.Marshal(outputs[core.AgentName(name)])
		if err != nil {
			continue
		}
		fmt.Fprintf(&sb, "- %s: %s\n", name, Truncate(string(data), 2*SnippetLen))
	}
	return sb.String()
}

// JoinSections concatenates non-empty prompt sections with blank lines.
func JoinSections(sections ...string) string {
	parts := make([]string, 0, len(sections))
	for _, s := range sections {
		if strings.TrimSpace(s) != "" {
			parts = append(parts, strings.TrimSpace(s))
		}
	}
	return strings.Join(parts, "\n\n")
}
