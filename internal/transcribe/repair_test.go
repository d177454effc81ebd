package transcribe

import (
	"errors"
	"strings"
	"testing"
)

func TestRepair(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wantCount int
		wantErr   bool
	}{
		{
			name: "segments envelope",
			input: `{"segments": [
				{"startTime": "00:00.000", "endTime": "00:02.500", "text": "Hello world"},
				{"startTime": "00:02.500", "endTime": "00:05.000", "text": "How are you"}
			]}`,
			wantCount: 2,
		},
		{
			name: "bare array",
			input: `[
				{"start": "0.0", "end": "2.5", "text": "Hello world"}
			]`,
			wantCount: 1,
		},
		{
			name:      "numeric timestamps",
			input:     `[{"start": 0.0, "end": 2.5, "text": "Hello world"}]`,
			wantCount: 1,
		},
		{
			name:      "single segment object wrapped",
			input:     `{"start": "0.0", "end": "2.5", "text": "Hello world"}`,
			wantCount: 1,
		},
		{
			name:      "code fenced",
			input:     "```json\n[{\"start\": \"0.0\", \"end\": \"1.5\", \"text\": \"Fenced\"}]\n```",
			wantCount: 1,
		},
		{
			name:      "truncated envelope missing closers",
			input:     `{"segments":[{"start":"00:00.000","end":"00:01.000","text":"hi"}`,
			wantCount: 1,
		},
		{
			name: "truncated mid record keeps complete ones",
			input: `{"segments":[
				{"start":"00:00.000","end":"00:01.000","text":"first"},
				{"start":"00:01.000","end":"00:02.000","text":"second"},
				{"start":"00:02.000","end":"00:0`,
			wantCount: 2,
		},
		{
			name:      "truncated bare array",
			input:     `[{"start":"0.0","end":"1.0","text":"only"}`,
			wantCount: 1,
		},
		{
			name: "preamble before array",
			input: `Here is the transcript you asked for:
			[{"start": "1.0", "end": "3.0", "text": "Test segment"}]`,
			wantCount: 1,
		},
		{
			name: "scrape from broken structure",
			input: `segments so far: "start": "00:00.000", "end": "00:01.000", "text": "one"
			and then "start": "00:01.000", "end": "00:02.000", "text": "two" trailing junk`,
			wantCount: 2,
		},
		{
			name:      "scrape with startTime keys",
			input:     `x "startTime": "00:00.000", "endTime": "00:01.000", "text": "lone" x`,
			wantCount: 1,
		},
		{
			name: "scrape with text key first",
			input: `"text": "one", "start": "00:00.000", "end": "00:01.000"
			"text": "two", "start": "00:01.000", "end": "00:02.000" junk`,
			wantCount: 2,
		},
		{
			name:      "scrape abandons incomplete record",
			input:     `"start": "00:00.000", "start": "00:01.000", "end": "00:02.000", "text": "kept"`,
			wantCount: 1,
		},
		{
			name:    "plain prose",
			input:   `The audio appears to contain music but no discernible speech.`,
			wantErr: true,
		},
		{
			name:    "empty input",
			input:   "",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			segments, err := Repair(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error but got none")
				}
				var malformed *MalformedResponseError
				if !errors.As(err, &malformed) {
					t.Fatalf("expected MalformedResponseError, got %T", err)
				}
				if malformed.Raw != tt.input {
					t.Error("error does not carry the original raw text")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(segments) != tt.wantCount {
				t.Errorf("got %d segments, want %d", len(segments), tt.wantCount)
			}
		})
	}
}

func TestRepairTruncationKeepsReceivedData(t *testing.T) {
	input := `{"segments":[{"start":"00:00.000","end":"00:01.000","text":"hi"}`

	segments, err := Repair(input)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(segments) != 1 {
		t.Fatalf("got %d segments, want 1", len(segments))
	}
	if segments[0].Text != "hi" {
		t.Errorf("text = %q, want %q", segments[0].Text, "hi")
	}
	if segments[0].StartText() != "00:00.000" {
		t.Errorf("start = %q, want %q", segments[0].StartText(), "00:00.000")
	}
	if segments[0].EndText() != "00:01.000" {
		t.Errorf("end = %q, want %q", segments[0].EndText(), "00:01.000")
	}
}

func TestRepairWordLevel(t *testing.T) {
	input := `{"segments":[{
		"startTime": "00:00.000",
		"endTime": "00:02.000",
		"text": "hello world",
		"words": [
			{"startTime": "00:00.000", "endTime": "00:01.000", "text": "hello"},
			{"startTime": "00:01.000", "endTime": "00:02.000", "text": "world"}
		]
	}]}`

	segments, err := Repair(input)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(segments) != 1 {
		t.Fatalf("got %d segments, want 1", len(segments))
	}
	if len(segments[0].Words) != 2 {
		t.Fatalf("got %d words, want 2", len(segments[0].Words))
	}
	if segments[0].Words[1].Text != "world" {
		t.Errorf("word text = %q, want %q", segments[0].Words[1].Text, "world")
	}
}

func TestCleanJSONResponse(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "plain JSON",
			input: `[{"start": 0, "end": 1, "text": "hello"}]`,
			want:  `[{"start": 0, "end": 1, "text": "hello"}]`,
		},
		{
			name:  "json code fence",
			input: "```json\n[{\"start\": 0}]\n```",
			want:  `[{"start": 0}]`,
		},
		{
			name:  "plain code fence",
			input: "```\n[{\"start\": 0}]\n```",
			want:  `[{"start": 0}]`,
		},
		{
			name:  "surrounding whitespace",
			input: "  \n\n```json\n[{\"start\": 0}]\n```\n\n  ",
			want:  `[{"start": 0}]`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := cleanJSONResponse(tt.input); got != tt.want {
				t.Errorf("cleanJSONResponse() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestScrapeUnescapesText(t *testing.T) {
	input := `"start": "0.0", "end": "1.0", "text": "she said \"hi\""`

	segments, err := Repair(input)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(segments) != 1 {
		t.Fatalf("got %d segments, want 1", len(segments))
	}
	if segments[0].Text != `she said "hi"` {
		t.Errorf("text = %q, want %q", segments[0].Text, `she said "hi"`)
	}
}

func TestMalformedResponseErrorMessage(t *testing.T) {
	longRaw := strings.Repeat("x", 500)
	err := &MalformedResponseError{Raw: longRaw}

	if len(err.Error()) > 300 {
		t.Error("error message should truncate long raw text")
	}
	if !strings.Contains(err.Error(), "500 bytes") {
		t.Errorf("error message should report raw length, got %q", err.Error())
	}
}
