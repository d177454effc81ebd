package subtitle

import (
	"fmt"
	"strings"
	"time"
)

// DefaultAttribution is written to the [by:] header when the caller does
// not supply one.
const DefaultAttribution = "taal"

// LRCOptions controls the clear-marker policy for silent gaps. LRC players
// keep the last line on screen until the next timestamp, so long
// instrumental breaks need an empty timestamp line to blank the display.
type LRCOptions struct {
	// gap between one segment's end and the next segment's start that
	// triggers a clear marker
	ClearGapThreshold time.Duration

	// offset after a segment's end at which the clear marker is placed.
	// Zero places the marker exactly at the prior line's end; a negative
	// value means unset and falls back to the default
	ClearOffset time.Duration

	// when true, the trailing clear marker after the final segment is only
	// emitted if TotalDuration is known and leaves room for it
	RequireDurationBound bool

	// total audio duration, if known; bounds the trailing clear marker
	TotalDuration time.Duration
}

// DefaultLRCOptions returns the documented default policy: 4 second gap
// threshold, clear marker 1 second after the prior line, trailing marker
// only when the audio duration can bound it.
func DefaultLRCOptions() LRCOptions {
	return LRCOptions{
		ClearGapThreshold:    4 * time.Second,
		ClearOffset:          time.Second,
		RequireDurationBound: true,
	}
}

// RenderLRC serializes segments as an LRC lyric file with optional
// metadata headers and gap clear markers.
func RenderLRC(segments []Segment, meta Metadata, opts LRCOptions) string {
	if opts.ClearGapThreshold <= 0 {
		opts.ClearGapThreshold = DefaultLRCOptions().ClearGapThreshold
	}
	if opts.ClearOffset < 0 {
		opts.ClearOffset = DefaultLRCOptions().ClearOffset
	}

	var sb strings.Builder

	writeLRCHeader(&sb, "ti", meta.Title)
	writeLRCHeader(&sb, "ar", meta.Artist)
	writeLRCHeader(&sb, "al", meta.Album)
	by := meta.By
	if by == "" {
		by = DefaultAttribution
	}
	writeLRCHeader(&sb, "by", by)

	for i, seg := range segments {
		sb.WriteString(fmt.Sprintf("[%s]%s\n",
			formatLRCTime(seg.Start),
			strings.ReplaceAll(seg.Text, "\n", " ")))

		if i+1 < len(segments) {
			if segments[i+1].Start-seg.End > opts.ClearGapThreshold {
				sb.WriteString(fmt.Sprintf("[%s]\n",
					formatLRCTime(seg.End+opts.ClearOffset)))
			}
			continue
		}

		// trailing clear marker after the final line
		clearAt := seg.End + opts.ClearOffset
		if opts.RequireDurationBound {
			if opts.TotalDuration > 0 && clearAt < opts.TotalDuration {
				sb.WriteString(fmt.Sprintf("[%s]\n", formatLRCTime(clearAt)))
			}
		} else {
			sb.WriteString(fmt.Sprintf("[%s]\n", formatLRCTime(clearAt)))
		}
	}

	return sb.String()
}

func writeLRCHeader(sb *strings.Builder, tag, value string) {
	if value == "" {
		return
	}
	sb.WriteString(fmt.Sprintf("[%s:%s]\n", tag, value))
}

// LRC timestamps are MM:SS.xx with centisecond precision; minutes grow
// past two digits rather than carrying into an hours field.
func formatLRCTime(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	total := d.Round(10 * time.Millisecond).Milliseconds()
	return fmt.Sprintf("%02d:%02d.%02d",
		total/60000,
		total%60000/1000,
		total%1000/10,
	)
}
