package cli

import (
	"testing"

	"github.com/spf13/cobra"
)

func newTestCmd() *cobra.Command {
	cmd := &cobra.Command{}
	cmd.Flags().String("format", "srt", "")
	cmd.Flags().String("title", "", "")
	cmd.Flags().String("artist", "", "")
	cmd.Flags().String("album", "", "")
	cmd.Flags().String("by", "", "")
	return cmd
}

func TestFormatFromFlag(t *testing.T) {
	tests := []struct {
		input   string
		want    string
		wantErr bool
	}{
		{"srt", "srt", false},
		{"SRT", "srt", false},
		{"lrc", "lrc", false},
		{"ttml", "ttml", false},
		{"TTML", "ttml", false},
		{"vtt", "", true},
		{"ass", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			cmd := newTestCmd()
			if err := cmd.Flags().Set("format", tt.input); err != nil {
				t.Fatalf("failed to set flag: %v", err)
			}

			got, err := formatFromFlag(cmd)
			if tt.wantErr {
				if err == nil {
					t.Errorf("formatFromFlag(%q): expected error", tt.input)
				}
				return
			}
			if err != nil {
				t.Fatalf("formatFromFlag(%q): unexpected error: %v", tt.input, err)
			}
			if string(got) != tt.want {
				t.Errorf("formatFromFlag(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestMetadataFromFlags(t *testing.T) {
	cmd := newTestCmd()
	for flag, value := range map[string]string{
		"title":  "Song",
		"artist": "Singer",
		"album":  "Record",
		"by":     "someone",
	} {
		if err := cmd.Flags().Set(flag, value); err != nil {
			t.Fatalf("failed to set %s: %v", flag, err)
		}
	}

	meta := metadataFromFlags(cmd)
	if meta.Title != "Song" || meta.Artist != "Singer" ||
		meta.Album != "Record" || meta.By != "someone" {
		t.Errorf("metadata = %+v", meta)
	}
}
