package model

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
)

// Request captures one normalized completion request.
type Request struct {
	// System is the system / instruction text.
	System string `json:"system"`
	// User is the user-turn text.
	User string `json:"user"`
	// Temperature overrides the adapter default when > 0.
	Temperature float64 `json:"temperature,omitempty"`
	// MaxTokens overrides the adapter default when > 0.
	MaxTokens int64 `json:"max_tokens,omitempty"`
	// JSON requests a machine-parseable JSON object response.
	JSON bool `json:"json,omitempty"`
}

// TokenUsage captures token usage statistics for a response.
type TokenUsage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// Response is the final completion result.
type Response struct {
	Content string     `json:"content"`
	Usage   TokenUsage `json:"usage"`
	Model   string     `json:"model"`
}

// Info contains metadata about a model implementation.
type Info struct {
	Name     string `json:"name"`
	Provider string `json:"provider"` // "openai", "anthropic", "mock", ...
}

// Model is the minimal interface required to drive generation. Generate must
// return an error on failure or timeout, never an empty response.
type Model interface {
	Generate(ctx context.Context, req Request) (*Response, error)
	Info() Info
}

// GenerateObject issues req with JSON output requested and unmarshals the
// response content into out. Markdown code fences around the JSON body are
// tolerated since some providers wrap structured output despite instructions.
func GenerateObject(ctx context.Context, m Model, req Request, out any) (*Response, error) {
	req.JSON = true
	resp, err := m.Generate(ctx, req)
	if err != nil {
		return nil, err
	}
	body := stripFences(resp.Content)
	if err := json.Unmarshal([]byte(body), out); err != nil {
		return nil, fmt.Errorf("malformed structured response from %s: %w", m.Info().Name, err)
	}
	return resp, nil
}

func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

type mockRule struct {
	match   string
	content string
}

// MockModel is a scripted in-memory Model for tests and examples. Responses
// are selected by substring match against the concatenated system and user
// text; unmatched requests fall back to a FIFO queue.
type MockModel struct {
	mu    sync.Mutex
	info  Info
	rules []mockRule
	queue []string
	err   error
	calls int
}

// NewMockModel constructs a MockModel with the given display name.
func NewMockModel(name string) *MockModel {
	return &MockModel{info: Info{Name: name, Provider: "mock"}}
}

// AddResponse registers a canned completion returned whenever match occurs in
// the request text. Rules are evaluated in registration order.
func (m *MockModel) AddResponse(match, content string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rules = append(m.rules, mockRule{match: match, content: content})
}

// Enqueue appends a completion returned for the next unmatched request.
func (m *MockModel) Enqueue(content string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.queue = append(m.queue, content)
}

// FailWith makes every subsequent Generate call return err. Pass nil to
// restore normal operation.
func (m *MockModel) FailWith(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// Calls returns how many Generate calls were made.
func (m *MockModel) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// Generate implements Model.
func (m *MockModel) Generate(ctx context.Context, req Request) (*Response, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++

	if m.err != nil {
		return nil, m.err
	}

	text := req.System + "\n" + req.User
	var content string
	for _, r := range m.rules {
		if strings.Contains(text, r.match) {
			content = r.content
			break
		}
	}
	if content == "" && len(m.queue) > 0 {
		content = m.queue[0]
		m.queue = m.queue[1:]
	}
	if content == "" {
		return nil, fmt.Errorf("mock model %s: no scripted response for request", m.info.Name)
	}

	tokens := len(strings.Fields(req.User)) + len(strings.Fields(content))
	return &Response{
		Content: content,
		Usage: TokenUsage{
			PromptTokens:     len(strings.Fields(req.User)),
			CompletionTokens: len(strings.Fields(content)),
			TotalTokens:      tokens,
		},
		Model: m.info.Name,
	}, nil
}

// Info implements Model.
func (m *MockModel) Info() Info { return m.info }
