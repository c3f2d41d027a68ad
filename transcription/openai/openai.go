// Package openai provides a core.Transcriber backed by the OpenAI audio
// transcription API (Whisper).
package openai

import (
	"bytes"
	"context"
	"fmt"

	"github.com/openai/openai-go"
)

// Options configure the transcriber.
type Options struct {
	Model openai.AudioModel
}

// Transcriber wraps the OpenAI audio transcription endpoint.
type Transcriber struct {
	client *openai.Client
	opts   Options
}

// NewTranscriber creates a Transcriber using the official client.
func NewTranscriber(optFns ...func(o *Options)) *Transcriber {
	client := openai.NewClient()
	return NewTranscriberFromClient(&client, optFns...)
}

// NewTranscriberFromClient creates a Transcriber from an existing client.
func NewTranscriberFromClient(client *openai.Client, optFns ...func(o *Options)) *Transcriber {
	opts := Options{Model: openai.AudioModelWhisper1}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Transcriber{client: client, opts: opts}
}

// Transcribe implements core.Transcriber.
func (t *Transcriber) Transcribe(ctx context.Context, audio []byte, filename string) (string, error) {
	if len(audio) == 0 {
		return "", fmt.Errorf("transcribe: empty audio payload")
	}
	resp, err := t.client.Audio.Transcriptions.New(ctx, openai.AudioTranscriptionNewParams{
		Model: t.opts.Model,
		File:  openai.File(bytes.NewReader(audio), filename, "application/octet-stream"),
	})
	if err != nil {
		return "", fmt.Errorf("openai transcription error: %w", err)
	}
	return resp.Text, nil
}
