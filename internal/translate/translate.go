// Package translate renders transcribed lyric lines into another language
// while keeping their timing untouched. Providers speak a shared batched
// JSON protocol of index/text pairs so responses can be matched back to
// their segments regardless of the order the model returns them in.
package translate

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/avikm/taal/internal/subtitle"
)

// DefaultBatchSize is the number of lines sent per API request.
const DefaultBatchSize = 50

// one line of the wire protocol
type item struct {
	Index int    `json:"index"`
	Text  string `json:"text"`
}

// interface for segment translation
type Translator interface {
	TranslateSegments(
		ctx context.Context,
		segments []subtitle.Segment,
	) ([]subtitle.Segment, error)
}

// translation service provider
type Provider string

const (
	ProviderGemini    Provider = "gemini"
	ProviderAnthropic Provider = "anthropic"
)

type Options struct {
	TargetLanguage string
	Model          string
	Prompt         string
	BatchSize      int // items per API request (default 50)
}

// creates Translator based on provider
func Factory(
	ctx context.Context,
	provider Provider,
	apiKey string,
	opts Options,
) (Translator, error) {
	if opts.TargetLanguage == "" {
		return nil, fmt.Errorf("target language is required")
	}

	switch provider {
	case ProviderGemini:
		return NewGeminiTranslator(ctx, apiKey, opts)
	case ProviderAnthropic:
		return NewAnthropicTranslator(ctx, apiKey, opts)
	default:
		return nil, fmt.Errorf("unsupported translation provider: %s", provider)
	}
}

// buildPrompt creates the translation prompt shared by all providers
func buildPrompt(opts Options, items []item) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf(
		"Translate the following transcribed lyric lines to %s.\n\n",
		opts.TargetLanguage,
	))

	sb.WriteString("IMPORTANT INSTRUCTIONS:\n")
	sb.WriteString("1. Translate ONLY the text content, preserving the meaning.\n")
	sb.WriteString("2. Return ONLY a JSON array with the same structure.\n")
	sb.WriteString("3. Each object must have 'index' and 'text' fields.\n")
	sb.WriteString("4. The 'index' values must match the input indices exactly.\n")
	sb.WriteString("5. Do not add any explanation or markdown formatting.\n\n")

	if opts.Prompt != "" {
		sb.WriteString(fmt.Sprintf("Additional instructions: %s\n\n", opts.Prompt))
	}

	sb.WriteString("Input JSON:\n")

	inputJSON, _ := json.MarshalIndent(items, "", "  ")
	sb.Write(inputJSON)

	sb.WriteString("\n\nOutput the translated JSON array only:")

	return sb.String()
}

// translateSegments drives the shared batch loop; callers supply the
// provider-specific single-batch function.
func translateSegments(
	ctx context.Context,
	segments []subtitle.Segment,
	batchSize int,
	run func(ctx context.Context, batch []item) ([]item, error),
) ([]subtitle.Segment, error) {
	if len(segments) == 0 {
		return []subtitle.Segment{}, nil
	}
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}

	items := make([]item, len(segments))
	for i, seg := range segments {
		items[i] = item{Index: i, Text: seg.Text}
	}

	var results []item
	for i := 0; i < len(items); i += batchSize {
		end := i + batchSize
		if end > len(items) {
			end = len(items)
		}

		batchResults, err := run(ctx, items[i:end])
		if err != nil {
			return nil, fmt.Errorf("batch %d failed: %w", i/batchSize, err)
		}
		results = append(results, batchResults...)
	}

	sort.Slice(results, func(i, j int) bool {
		return results[i].Index < results[j].Index
	})

	// timing is untouched; only the display text changes
	translated := make([]subtitle.Segment, len(segments))
	copy(translated, segments)
	for _, r := range results {
		if r.Index >= 0 && r.Index < len(translated) {
			translated[r.Index].Text = r.Text
			translated[r.Index].Words = nil // word timing no longer matches
		}
	}

	return translated, nil
}

// parseItems decodes a provider response into protocol items, tolerating
// markdown fences and preamble the way the transcription side does.
func parseItems(responseText string, expected int) ([]item, error) {
	cleaned := cleanResponse(responseText)

	var results []item
	if err := json.Unmarshal([]byte(cleaned), &results); err != nil {
		return nil, fmt.Errorf(
			"failed to parse JSON response: %w (response: %s)",
			err,
			truncate(cleaned, 200),
		)
	}

	if len(results) != expected {
		return nil, fmt.Errorf("expected %d results, got %d", expected, len(results))
	}

	return results, nil
}

var fenceRegex = regexp.MustCompile("```(?:json)?\\s*")

func cleanResponse(s string) string {
	s = strings.TrimSpace(s)
	s = fenceRegex.ReplaceAllString(s, "")
	s = strings.ReplaceAll(s, "```", "")
	s = strings.TrimSpace(s)

	// tolerate prose around the array
	if start := strings.Index(s, "["); start > 0 {
		if end := strings.LastIndex(s, "]"); end > start {
			s = s[start : end+1]
		}
	}

	return s
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
