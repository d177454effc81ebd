package subtitle

import (
	"time"
)

// a timed span of text; the atomic unit of a transcription
type Segment struct {
	Start time.Duration
	End   time.Duration
	Text  string
	Words []Word // word-level timing, present only in word-level mode
}

// a sub-span nested inside a Segment, used for karaoke-style timing
type Word struct {
	Start time.Duration
	End   time.Duration
	Text  string
}

// optional track metadata for formats that carry headers
type Metadata struct {
	Title  string
	Artist string
	Album  string
	By     string
}

// represents supported output formats
type Format string

const (
	FormatSRT  Format = "srt"
	FormatLRC  Format = "lrc"
	FormatTTML Format = "ttml"
)

// interface for writing a segment sequence to a file
type Writer interface {
	Write(segments []Segment, meta Metadata, path string) error
}
