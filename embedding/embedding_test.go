package embedding

import (
	"context"
	"math"
	"testing"
)

func norm(vec []float32) float64 {
	var sum float64
	for _, v := range vec {
		sum += float64(v) * float64(v)
	}
	return math.Sqrt(sum)
}

func TestHashingEmbedderDeterministic(t *testing.T) {
	e := NewHashingEmbedder(64)
	ctx := context.Background()

	a, err := e.EmbedText(ctx, "fire at the old mill")
	if err != nil {
		t.Fatalf("embed: %v", err)
	}
	b, err := e.EmbedText(ctx, "fire at the old mill")
	if err != nil {
		t.Fatalf("embed: %v", err)
	}

	if len(a) != 64 {
		t.Fatalf("expected 64 dimensions, got %d", len(a))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("embedding not deterministic at dim %d", i)
		}
	}
}

func TestHashingEmbedderNormalized(t *testing.T) {
	e := NewHashingEmbedder(0) // selects DefaultDimensions

	vec, err := e.EmbedText(context.Background(), "flooding in the underpass")
	if err != nil {
		t.Fatalf("embed: %v", err)
	}
	if len(vec) != DefaultDimensions {
		t.Fatalf("expected default dimensions, got %d", len(vec))
	}
	if n := norm(vec); math.Abs(n-1) > 1e-5 {
		t.Fatalf("expected unit norm, got %v", n)
	}
}

func TestHashingEmbedderEmptyText(t *testing.T) {
	e := NewHashingEmbedder(16)
	vec, err := e.EmbedText(context.Background(), "")
	if err != nil {
		t.Fatalf("embed: %v", err)
	}
	if n := norm(vec); n != 0 {
		t.Fatalf("expected zero vector for empty text, got norm %v", n)
	}
}

func TestHashingEmbedderCaseAndPunctuation(t *testing.T) {
	e := NewHashingEmbedder(64)
	ctx := context.Background()

	a, _ := e.EmbedText(ctx, "Fire, at the MILL!")
	b, _ := e.EmbedText(ctx, "fire at the mill")
	for i := range a {
		if a[i] != b[i] {
			t.Fatal("tokenization should fold case and strip punctuation")
		}
	}
}

func TestHashingEmbedderImage(t *testing.T) {
	e := NewHashingEmbedder(32)
	ctx := context.Background()

	img := make([]byte, 300)
	for i := range img {
		img[i] = byte(i % 7)
	}

	a, err := e.EmbedImage(ctx, img)
	if err != nil {
		t.Fatalf("embed image: %v", err)
	}
	b, _ := e.EmbedImage(ctx, img)
	for i := range a {
		if a[i] != b[i] {
			t.Fatal("image embedding not deterministic")
		}
	}
	if n := norm(a); math.Abs(n-1) > 1e-5 {
		t.Fatalf("expected unit norm, got %v", n)
	}
}
