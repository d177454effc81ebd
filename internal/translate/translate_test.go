package translate

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/avikm/taal/internal/subtitle"
)

func TestTranslateSegmentsKeepsTiming(t *testing.T) {
	segments := []subtitle.Segment{
		{Start: 0, End: time.Second, Text: "one", Words: []subtitle.Word{
			{Start: 0, End: time.Second, Text: "one"},
		}},
		{Start: 2 * time.Second, End: 3 * time.Second, Text: "two"},
	}

	run := func(ctx context.Context, batch []item) ([]item, error) {
		out := make([]item, len(batch))
		for i, it := range batch {
			out[i] = item{Index: it.Index, Text: "<" + it.Text + ">"}
		}
		return out, nil
	}

	got, err := translateSegments(context.Background(), segments, 0, run)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got[0].Text != "<one>" || got[1].Text != "<two>" {
		t.Errorf("texts not translated: %+v", got)
	}
	if got[0].Start != 0 || got[1].Start != 2*time.Second {
		t.Errorf("timing must not change: %+v", got)
	}
	if got[0].Words != nil {
		t.Error("word timing must be dropped after translation")
	}
	if segments[0].Text != "one" {
		t.Error("input segments must not be mutated")
	}
}

func TestTranslateSegmentsBatches(t *testing.T) {
	segments := make([]subtitle.Segment, 7)
	for i := range segments {
		segments[i] = subtitle.Segment{Text: fmt.Sprintf("line %d", i)}
	}

	var batchSizes []int
	run := func(ctx context.Context, batch []item) ([]item, error) {
		batchSizes = append(batchSizes, len(batch))
		return batch, nil
	}

	if _, err := translateSegments(context.Background(), segments, 3, run); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []int{3, 3, 1}
	if len(batchSizes) != len(want) {
		t.Fatalf("got %d batches, want %d", len(batchSizes), len(want))
	}
	for i := range want {
		if batchSizes[i] != want[i] {
			t.Errorf("batch %d size = %d, want %d", i, batchSizes[i], want[i])
		}
	}
}

func TestTranslateSegmentsBatchError(t *testing.T) {
	segments := []subtitle.Segment{{Text: "x"}}

	run := func(ctx context.Context, batch []item) ([]item, error) {
		return nil, fmt.Errorf("boom")
	}

	_, err := translateSegments(context.Background(), segments, 1, run)
	if err == nil || !strings.Contains(err.Error(), "batch 0 failed") {
		t.Errorf("expected wrapped batch error, got %v", err)
	}
}

func TestParseItems(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected int
		wantErr  bool
	}{
		{
			name:     "plain array",
			input:    `[{"index":0,"text":"hola"}]`,
			expected: 1,
		},
		{
			name:     "fenced array",
			input:    "```json\n[{\"index\":0,\"text\":\"hola\"}]\n```",
			expected: 1,
		},
		{
			name:     "preamble and trailer",
			input:    "Here you go:\n[{\"index\":0,\"text\":\"hola\"}]\nEnjoy!",
			expected: 1,
		},
		{
			name:     "count mismatch",
			input:    `[{"index":0,"text":"hola"}]`,
			expected: 2,
			wantErr:  true,
		},
		{
			name:     "not JSON",
			input:    "sorry, I cannot translate that",
			expected: 1,
			wantErr:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			results, err := parseItems(tt.input, tt.expected)
			if tt.wantErr {
				if err == nil {
					t.Error("expected error but got none")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(results) != tt.expected {
				t.Errorf("got %d results, want %d", len(results), tt.expected)
			}
		})
	}
}

func TestFactoryRequiresTargetLanguage(t *testing.T) {
	_, err := Factory(context.Background(), ProviderGemini, "key", Options{})
	if err == nil {
		t.Error("expected error when target language is missing")
	}
}
