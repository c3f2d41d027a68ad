package model

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateObjectStripsCodeFences(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"bare json", `{"value": 42}`},
		{"plain fences", "```\n{\"value\": 42}\n```"},
		{"json fences", "```json\n{\"value\": 42}\n```"},
		{"surrounding whitespace", "  \n{\"value\": 42}\n  "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewMockModel("mock")
			m.Enqueue(tt.content)

			var out struct {
				Value int `json:"value"`
			}
			resp, err := GenerateObject(context.Background(), m, Request{User: "give me a value"}, &out)
			require.NoError(t, err)
			assert.Equal(t, 42, out.Value)
			assert.Equal(t, "mock", resp.Model)
		})
	}
}

func TestGenerateObjectSetsJSONFlag(t *testing.T) {
	m := NewMockModel("mock")
	m.Enqueue(`{}`)

	var out map[string]any
	_, err := GenerateObject(context.Background(), m, Request{User: "x"}, &out)
	require.NoError(t, err)
}

func TestGenerateObjectMalformedResponse(t *testing.T) {
	m := NewMockModel("mock")
	m.Enqueue(`not json at all`)

	var out map[string]any
	_, err := GenerateObject(context.Background(), m, Request{User: "x"}, &out)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "malformed structured response from mock")
}

func TestMockModelRulesBeforeQueue(t *testing.T) {
	m := NewMockModel("mock")
	m.AddResponse("chest pain", `{"matched": true}`)
	m.Enqueue(`{"matched": false}`)

	resp, err := m.Generate(context.Background(), Request{User: "caller reports chest pain"})
	require.NoError(t, err)
	assert.Equal(t, `{"matched": true}`, resp.Content)

	// unmatched request drains the queue
	resp, err = m.Generate(context.Background(), Request{User: "something else"})
	require.NoError(t, err)
	assert.Equal(t, `{"matched": false}`, resp.Content)

	// nothing left
	_, err = m.Generate(context.Background(), Request{User: "something else"})
	assert.Error(t, err)
}

func TestMockModelFailWith(t *testing.T) {
	m := NewMockModel("mock")
	boom := errors.New("down")
	m.FailWith(boom)

	_, err := m.Generate(context.Background(), Request{User: "x"})
	assert.ErrorIs(t, err, boom)

	m.FailWith(nil)
	m.Enqueue("ok")
	resp, err := m.Generate(context.Background(), Request{User: "x"})
	require.NoError(t, err)
	assert.Equal(t, "ok", resp.Content)
	assert.Equal(t, 3, m.Calls())
}

func TestMockModelContextCancelled(t *testing.T) {
	m := NewMockModel("mock")
	m.Enqueue("ok")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := m.Generate(ctx, Request{User: "x"})
	assert.ErrorIs(t, err, context.Canceled)
}
