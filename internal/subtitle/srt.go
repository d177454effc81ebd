package subtitle

import (
	"fmt"
	"strings"
	"time"
)

// RenderSRT serializes segments as SubRip text: 1-based sequence number,
// comma-millisecond timing line, text, blank line between entries.
func RenderSRT(segments []Segment) string {
	entries := make([]string, 0, len(segments))

	for i, seg := range segments {
		var sb strings.Builder
		sb.WriteString(fmt.Sprintf("%d\n", i+1))
		sb.WriteString(fmt.Sprintf("%s --> %s\n",
			formatSRTTime(seg.Start),
			formatSRTTime(seg.End)))
		sb.WriteString(seg.Text)
		entries = append(entries, sb.String())
	}

	if len(entries) == 0 {
		return ""
	}
	return strings.Join(entries, "\n\n") + "\n"
}

// SRT uses a comma between seconds and milliseconds; everything else
// matches the canonical HH:MM:SS.mmm form.
func formatSRTTime(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	total := d.Round(time.Millisecond).Milliseconds()
	return fmt.Sprintf("%02d:%02d:%02d,%03d",
		total/3600000,
		total%3600000/60000,
		total%60000/1000,
		total%1000,
	)
}
