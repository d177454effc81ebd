package translate

import (
	"context"
	"fmt"

	"google.golang.org/genai"

	"github.com/avikm/taal/internal/subtitle"
)

// implements Translator using Google Gemini
type GeminiTranslator struct {
	client  *genai.Client
	model   string
	options Options
}

func NewGeminiTranslator(
	ctx context.Context,
	apiKey string,
	opts Options,
) (*GeminiTranslator, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey: apiKey,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	model := opts.Model
	if model == "" {
		model = "gemini-2.5-flash"
	}

	return &GeminiTranslator{
		client:  client,
		model:   model,
		options: opts,
	}, nil
}

func (t *GeminiTranslator) TranslateSegments(
	ctx context.Context,
	segments []subtitle.Segment,
) ([]subtitle.Segment, error) {
	return translateSegments(ctx, segments, t.options.BatchSize, t.runBatch)
}

func (t *GeminiTranslator) runBatch(
	ctx context.Context,
	batch []item,
) ([]item, error) {
	prompt := buildPrompt(t.options, batch)

	parts := []*genai.Part{genai.NewPartFromText(prompt)}
	contents := []*genai.Content{
		genai.NewContentFromParts(parts, genai.RoleUser),
	}

	response, err := t.client.Models.GenerateContent(ctx, t.model, contents, nil)
	if err != nil {
		return nil, fmt.Errorf("translation failed: %w", err)
	}

	if response == nil || len(response.Candidates) == 0 {
		return nil, fmt.Errorf("empty response from Gemini")
	}

	var responseText string
	for _, candidate := range response.Candidates {
		if candidate.Content != nil {
			for _, part := range candidate.Content.Parts {
				if part.Text != "" {
					responseText += part.Text
				}
			}
		}
	}

	if responseText == "" {
		return nil, fmt.Errorf("no text in Gemini response")
	}

	return parseItems(responseText, len(batch))
}
