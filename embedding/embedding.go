// Package embedding provides core.Embedder implementations: a deterministic
// local feature-hashing embedder suitable for tests, demos and small
// deployments, and an OpenAI-backed adapter in the openai subpackage.
package embedding

import (
	"context"
	"hash/fnv"
	"math"
	"strings"
)

// DefaultDimensions is the vector size of the hashing embedder.
const DefaultDimensions = 256

// HashingEmbedder maps text and bytes into fixed-size vectors via feature
// hashing. It is deterministic and dependency-free; similarity is crude
// (token overlap) but stable, which is exactly what workflow tests need.
type HashingEmbedder struct {
	dims int
}

// NewHashingEmbedder creates a HashingEmbedder. dims <= 0 selects
// DefaultDimensions.
func NewHashingEmbedder(dims int) *HashingEmbedder {
	if dims <= 0 {
		dims = DefaultDimensions
	}
	return &HashingEmbedder{dims: dims}
}

// EmbedText implements core.Embedder.
func (e *HashingEmbedder) EmbedText(_ context.Context, text string) ([]float32, error) {
	vec := make([]float32, e.dims)
	for _, tok := range strings.Fields(strings.ToLower(text)) {
		h := fnv.New32a()
		_, _ = h.Write([]byte(strings.Trim(tok, ".,;:!?\"'()")))
		vec[h.Sum32()%uint32(e.dims)]++
	}
	normalize(vec)
	return vec, nil
}

// EmbedImage implements core.Embedder by hashing fixed-size byte windows.
func (e *HashingEmbedder) EmbedImage(_ context.Context, image []byte) ([]float32, error) {
	vec := make([]float32, e.dims)
	const window = 64
	for i := 0; i < len(image); i += window {
		end := i + window
		if end > len(image) {
			end = len(image)
		}
		h := fnv.New32a()
		_, _ = h.Write(image[i:end])
		vec[h.Sum32()%uint32(e.dims)]++
	}
	normalize(vec)
	return vec, nil
}

func normalize(vec []float32) {
	var sum float64
	for _, v := range vec {
		sum += float64(v) * float64(v)
	}
	if sum == 0 {
		return
	}
	norm := float32(math.Sqrt(sum))
	for i := range vec {
		vec[i] /= norm
	}
}
