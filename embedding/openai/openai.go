// Package openai provides a core.Embedder backed by the OpenAI Embeddings
// API. Image embedding is not offered by that API; EmbedImage returns an
// error so callers fall back to client-supplied image vectors.
package openai

import (
	"context"
	"fmt"

	"github.com/openai/openai-go"
)

// Options configure the OpenAI embedder.
type Options struct {
	Model openai.EmbeddingModel
}

// Embedder wraps the OpenAI Embeddings API.
type Embedder struct {
	client *openai.Client
	opts   Options
}

// NewEmbedder creates an Embedder using the official client.
func NewEmbedder(optFns ...func(o *Options)) *Embedder {
	client := openai.NewClient()
	return NewEmbedderFromClient(&client, optFns...)
}

// NewEmbedderFromClient creates an Embedder from an existing client.
func NewEmbedderFromClient(client *openai.Client, optFns ...func(o *Options)) *Embedder {
	opts := Options{Model: openai.EmbeddingModelTextEmbedding3Small}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Embedder{client: client, opts: opts}
}

// EmbedText implements core.Embedder.
func (e *Embedder) EmbedText(ctx context.Context, text string) ([]float32, error) {
	resp, err := e.client.Embeddings.New(ctx, openai.EmbeddingNewParams{
		Model: e.opts.Model,
		Input: openai.EmbeddingNewParamsInputUnion{
			OfArrayOfStrings: []string{text},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("openai embeddings error: %w", err)
	}
	if len(resp.Data) == 0 {
		return nil, fmt.Errorf("openai embeddings: empty response")
	}
	vec := make([]float32, len(resp.Data[0].Embedding))
	for i, v := range resp.Data[0].Embedding {
		vec[i] = float32(v)
	}
	return vec, nil
}

// EmbedImage implements core.Embedder. The Embeddings API is text-only.
func (e *Embedder) EmbedImage(context.Context, []byte) ([]float32, error) {
	return nil, fmt.Errorf("openai embeddings: image input not supported")
}
