// Package speech converts answer text into WAV artifacts on disk via a
// pluggable text-to-speech backend.
package speech

import (
	"context"

	"github.com/voicedesk/voicedesk/pkg/openai"
)

// Backend renders text to a complete WAV payload. Variants: OpenAIBackend
// (hosted TTS) and Stub (deterministic silence for credential-less runs
// and tests).
type Backend interface {
	Render(ctx context.Context, text string) ([]byte, error)
}

// OpenAIBackend is the live Backend variant.
type OpenAIBackend struct {
	Client *openai.Client
	Model  string
	Voice  string
}

func (b *OpenAIBackend) Render(ctx context.Context, text string) ([]byte, error) {
	return b.Client.Speech(ctx, b.Model, b.Voice, text)
}

// Stub renders a short block of silence. It never fails.
type Stub struct{}

func (Stub) Render(_ context.Context, text string) ([]byte, error) {
	// 50ms of silence per 10 characters, capped at 2s. Length varies with
	// input so artifacts are distinguishable in tests and demos.
	ms := (len(text)/10 + 1) * 50
	if ms > 2000 {
		ms = 2000
	}
	return encodeWAV(make([]int16, stubSampleRate*ms/1000), stubSampleRate), nil
}

const stubSampleRate = 16000
