package transcribe

import (
	"context"
	"fmt"
	"time"

	"github.com/avikm/taal/internal/subtitle"
)

// transcription result
type Result struct {
	Segments []subtitle.Segment
	Language string
	Duration time.Duration
}

// interface for audio transcription
type Transcriber interface {
	Transcribe(ctx context.Context, audioPath string) (*Result, error)
}

// transcription service provider
type Provider string

const (
	ProviderGemini Provider = "gemini"
	ProviderOpenAI Provider = "openai"
)

// transcription options
type Options struct {
	Language  string // Source language of audio
	Model     string
	Prompt    string
	WordLevel bool // request per-word timing (karaoke mode)
}

// creates transcriber based on provider
func Factory(
	ctx context.Context,
	provider Provider,
	apiKey string,
	opts Options,
) (Transcriber, error) {
	switch provider {
	case ProviderGemini:
		return NewGeminiTranscriber(ctx, apiKey, opts)
	case ProviderOpenAI:
		return NewOpenAITranscriber(ctx, apiKey, opts)
	default:
		return nil, fmt.Errorf("unsupported provider: %s", provider)
	}
}
