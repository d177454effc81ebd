package transcribe

import (
	"sort"
	"strings"
	"time"

	"github.com/avikm/taal/internal/subtitle"
	"github.com/avikm/taal/internal/timecode"
)

// BuildSegments maps raw records into the canonical segment model. Every
// timestamp field is normalized then parsed, word lists are sorted and
// clamped to their parent window, and the result is globally sorted by
// start time: the model is never trusted to emit segments in order.
//
// Inverted spans (end < start) pass through verbatim; the model's literal
// text is authoritative even when its times are suspect, so anomalies are
// a review concern downstream, not something to silently rewrite here.
func BuildSegments(raw []RawSegment) []subtitle.Segment {
	segments := make([]subtitle.Segment, 0, len(raw))

	for i := range raw {
		rec := &raw[i]

		seg := subtitle.Segment{
			Start: parseField(rec.StartText()),
			End:   parseField(rec.EndText()),
			Text:  strings.TrimSpace(rec.Text),
		}

		if seg.Text == "" && len(rec.Words) == 0 {
			continue
		}

		seg.Words = buildWords(rec.Words, seg.Start, seg.End)
		segments = append(segments, seg)
	}

	sort.SliceStable(segments, func(i, j int) bool {
		return segments[i].Start < segments[j].Start
	})

	return segments
}

func buildWords(raw []RawWord, parentStart, parentEnd time.Duration) []subtitle.Word {
	if len(raw) == 0 {
		return nil
	}

	words := make([]subtitle.Word, 0, len(raw))
	for i := range raw {
		rec := &raw[i]

		w := subtitle.Word{
			Start: parseField(rec.StartText()),
			End:   parseField(rec.EndText()),
			Text:  strings.TrimSpace(rec.Text),
		}
		if w.Text == "" {
			continue
		}

		// clamp word timing into the parent window rather than rejecting;
		// slightly-off word times are routine in model output
		if parentEnd >= parentStart {
			w.Start = clamp(w.Start, parentStart, parentEnd)
			w.End = clamp(w.End, parentStart, parentEnd)
		}

		words = append(words, w)
	}

	sort.SliceStable(words, func(i, j int) bool {
		return words[i].Start < words[j].Start
	})

	return words
}

// parseField resolves one timestamp field: normalize once, then parse the
// canonical form. Malformed text resolves to 0, never an error.
func parseField(text string) time.Duration {
	return timecode.Parse(timecode.Normalize(text))
}

func clamp(d, lo, hi time.Duration) time.Duration {
	if d < lo {
		return lo
	}
	if d > hi {
		return hi
	}
	return d
}
