package transcribe

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/avikm/taal/internal/audio"
)

// implements Transcriber interface using OpenAI Audio API
type OpenAITranscriber struct {
	client  openai.Client
	model   string
	options Options
}

// verbose_json response structure from Whisper
type whisperVerboseResponse struct {
	Text     string `json:"text"`
	Segments []struct {
		Start float64 `json:"start"`
		End   float64 `json:"end"`
		Text  string  `json:"text"`
	} `json:"segments"`
	Language string  `json:"language"`
	Duration float64 `json:"duration"`
}

func NewOpenAITranscriber(
	ctx context.Context,
	apiKey string,
	opts Options,
) (*OpenAITranscriber, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("API key is required")
	}

	if opts.WordLevel {
		return nil, fmt.Errorf("word-level timing is not supported by the openai provider")
	}

	client := openai.NewClient(option.WithAPIKey(apiKey))

	model := opts.Model
	if model == "" {
		model = "whisper-1"
	}

	return &OpenAITranscriber{
		client:  client,
		model:   model,
		options: opts,
	}, nil
}

// transcribes single audio file
func (t *OpenAITranscriber) Transcribe(
	ctx context.Context,
	audioPath string,
) (*Result, error) {
	if _, err := os.Stat(audioPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("audio file not found: %s", audioPath)
	}

	file, err := os.Open(audioPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open audio file: %w", err)
	}
	defer file.Close()

	params := openai.AudioTranscriptionNewParams{
		File:           file,
		Model:          openai.AudioModel(t.model),
		ResponseFormat: openai.AudioResponseFormatVerboseJSON,
	}

	if t.options.Language != "" {
		params.Language = openai.String(t.options.Language)
	}
	if t.options.Prompt != "" {
		params.Prompt = openai.String(t.options.Prompt)
	}

	resp, err := t.client.Audio.Transcriptions.New(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("transcription failed: %w", err)
	}

	duration, _ := audio.GetDuration(audioPath)

	return t.parseVerboseJSONResponse(resp.RawJSON(), duration)
}

// parseVerboseJSONResponse routes Whisper's segments through the same raw
// record pipeline as the generative providers so ordering and field
// normalization hold regardless of provider. If verbose_json parsing
// fails, the plain transcript text becomes a single full-length segment.
func (t *OpenAITranscriber) parseVerboseJSONResponse(
	rawJSON string,
	duration time.Duration,
) (*Result, error) {
	var verbose whisperVerboseResponse
	if err := json.Unmarshal([]byte(rawJSON), &verbose); err != nil ||
		len(verbose.Segments) == 0 {
		if verbose.Text == "" {
			return nil, fmt.Errorf("no segments in whisper response")
		}
		return &Result{
			Segments: BuildSegments([]RawSegment{{
				Start: "0",
				End:   flexTime(strconv.FormatFloat(duration.Seconds(), 'f', 3, 64)),
				Text:  verbose.Text,
			}}),
			Language: verbose.Language,
			Duration: duration,
		}, nil
	}

	raw := make([]RawSegment, 0, len(verbose.Segments))
	for _, seg := range verbose.Segments {
		raw = append(raw, RawSegment{
			Start: flexTime(strconv.FormatFloat(seg.Start, 'f', 3, 64)),
			End:   flexTime(strconv.FormatFloat(seg.End, 'f', 3, 64)),
			Text:  seg.Text,
		})
	}

	language := verbose.Language
	if language == "" {
		language = t.options.Language
	}
	if verbose.Duration > 0 {
		duration = time.Duration(verbose.Duration * float64(time.Second))
	}

	return &Result{
		Segments: BuildSegments(raw),
		Language: language,
		Duration: duration,
	}, nil
}
