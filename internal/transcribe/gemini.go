package transcribe

import (
	"context"
	"fmt"
	"os"
	"strings"

	"google.golang.org/genai"

	"github.com/avikm/taal/internal/audio"
	"github.com/avikm/taal/internal/subtitle"
)

// implements Transcriber interface using Google Gemini
type GeminiTranscriber struct {
	client  *genai.Client
	model   string
	options Options
}

func NewGeminiTranscriber(ctx context.Context, apiKey string, opts Options) (*GeminiTranscriber, error) {
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

	return &GeminiTranscriber{
		client:  client,
		model:   model,
		options: opts,
	}, nil
}

// transcribes single audio file
func (t *GeminiTranscriber) Transcribe(ctx context.Context, audioPath string) (*Result, error) {
	if _, err := os.Stat(audioPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("audio file not found: %s", audioPath)
	}

	uploadedFile, err := t.client.Files.UploadFromPath(ctx, audioPath, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to upload audio file: %w", err)
	}

	defer func() {
		_, _ = t.client.Files.Delete(ctx, uploadedFile.Name, nil)
	}()

	prompt := t.buildTranscriptionPrompt()

	parts := []*genai.Part{
		genai.NewPartFromText(prompt),
		genai.NewPartFromURI(uploadedFile.URI, uploadedFile.MIMEType),
	}
	contents := []*genai.Content{
		genai.NewContentFromParts(parts, genai.RoleUser),
	}

	response, err := t.client.Models.GenerateContent(ctx, t.model, contents, nil)
	if err != nil {
		return nil, fmt.Errorf("transcription failed: %w", err)
	}

	segments, err := t.parseTranscriptionResponse(response)
	if err != nil {
		return nil, err
	}

	duration, _ := audio.GetDuration(audioPath)

	return &Result{
		Segments: segments,
		Language: t.options.Language,
		Duration: duration,
	}, nil
}

// creates the prompt for transcription; word-level mode requests the
// nested segments/words schema, otherwise a flat array
func (t *GeminiTranscriber) buildTranscriptionPrompt() string {
	var sb strings.Builder

	sb.WriteString("Generate a detailed transcript of this audio. ")

	if t.options.WordLevel {
		sb.WriteString("Format your response as a JSON object of the form ")
		sb.WriteString(`{"segments": [{"startTime": "MM:SS.mmm", "endTime": "MM:SS.mmm", "text": "...", "words": [{"startTime": "MM:SS.mmm", "endTime": "MM:SS.mmm", "text": "..."}]}]}. `)
		sb.WriteString("Each segment is one sung or spoken line; each word entry covers a single word or CJK character run. ")
	} else {
		sb.WriteString("For each sentence or phrase, provide the start timestamp, end timestamp, and the exact text spoken. ")
		sb.WriteString("Format your response as a JSON array with objects containing 'start', 'end', and 'text' fields, ")
		sb.WriteString("where 'start' and 'end' are timestamps formatted as MM:SS.mmm. ")
	}

	if t.options.Language != "" {
		sb.WriteString(fmt.Sprintf("The audio is in %s. ", t.options.Language))
	}

	if t.options.Prompt != "" {
		sb.WriteString(t.options.Prompt)
		sb.WriteString(" ")
	}

	sb.WriteString("Return ONLY the JSON, no other text or markdown formatting.")

	return sb.String()
}

// parses Gemini's response text through the repair ladder and the segment
// post-processor
func (t *GeminiTranscriber) parseTranscriptionResponse(response *genai.GenerateContentResponse) ([]subtitle.Segment, error) {
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

	raw, err := Repair(responseText)
	if err != nil {
		return nil, err
	}

	return BuildSegments(raw), nil
}
