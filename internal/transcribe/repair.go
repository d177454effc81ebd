package transcribe

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// MalformedResponseError is returned when every repair strategy has been
// exhausted. It carries the raw model output for diagnosis; nothing else in
// the pipeline hard-fails.
type MalformedResponseError struct {
	Raw string
}

func (e *MalformedResponseError) Error() string {
	return fmt.Sprintf(
		"could not recover segments from model response (%d bytes): %s",
		len(e.Raw),
		truncateString(e.Raw, 200),
	)
}

// RawSegment is one segment record as it appears in model output, before
// normalization. Both key spellings are accepted: the simple schema uses
// start/end, the mode-aware schema uses startTime/endTime. Timestamp values
// may be JSON strings or bare numbers.
type RawSegment struct {
	Start     flexTime  `json:"start"`
	StartTime flexTime  `json:"startTime"`
	End       flexTime  `json:"end"`
	EndTime   flexTime  `json:"endTime"`
	Text      string    `json:"text"`
	Words     []RawWord `json:"words"`
}

type RawWord struct {
	Start     flexTime `json:"start"`
	StartTime flexTime `json:"startTime"`
	End       flexTime `json:"end"`
	EndTime   flexTime `json:"endTime"`
	Text      string   `json:"text"`
}

// StartText returns whichever start key the source populated.
func (s *RawSegment) StartText() string {
	if s.Start != "" {
		return string(s.Start)
	}
	return string(s.StartTime)
}

func (s *RawSegment) EndText() string {
	if s.End != "" {
		return string(s.End)
	}
	return string(s.EndTime)
}

func (w *RawWord) StartText() string {
	if w.Start != "" {
		return string(w.Start)
	}
	return string(w.StartTime)
}

func (w *RawWord) EndText() string {
	if w.End != "" {
		return string(w.End)
	}
	return string(w.EndTime)
}

// flexTime holds a timestamp as text whether the JSON value was a string
// or a number.
type flexTime string

func (f *flexTime) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if s == "" || s == "null" {
		*f = ""
		return nil
	}
	if s[0] == '"' {
		var v string
		if err := json.Unmarshal(data, &v); err != nil {
			return err
		}
		*f = flexTime(v)
		return nil
	}
	// bare number: keep the literal text, the timecode parser handles it
	*f = flexTime(s)
	return nil
}

// segmentsEnvelope matches the mode-aware top-level schema.
type segmentsEnvelope struct {
	Segments []RawSegment `json:"segments"`
}

// repairStrategy attempts one recovery approach; ok reports success.
// Strategies are tried in order and the first success wins, trading
// precision for recall stage by stage.
type repairStrategy func(text string) (segments []RawSegment, ok bool)

var repairLadder = []repairStrategy{
	parseDirect,
	parseTruncated,
	parseBracketSuffixes,
	scrapeSegments,
}

// Repair turns a possibly-truncated or otherwise malformed model response
// into raw segment records. The upstream source is a token-limited text
// generator, so output cut off mid-structure is the common case, and a
// partial result always beats discarding a multi-minute transcription.
func Repair(raw string) ([]RawSegment, error) {
	text := cleanJSONResponse(raw)

	for _, strategy := range repairLadder {
		if segments, ok := strategy(text); ok {
			return segments, nil
		}
	}

	return nil, &MalformedResponseError{Raw: raw}
}

// cleanJSONResponse removes markdown code fences and surrounding
// whitespace from the response.
func cleanJSONResponse(s string) string {
	s = strings.TrimSpace(s)

	jsonBlockRegex := regexp.MustCompile("```(?:json)?\\s*")
	s = jsonBlockRegex.ReplaceAllString(s, "")
	s = strings.ReplaceAll(s, "```", "")

	return strings.TrimSpace(s)
}

// parseDirect is the optimistic stage: the text is well-formed JSON in one
// of the three known shapes.
func parseDirect(text string) ([]RawSegment, bool) {
	return parseKnownShapes(text)
}

// parseKnownShapes accepts {"segments":[...]}, a bare array (wrapped), or
// a single segment object (wrapped in a one-element list).
func parseKnownShapes(text string) ([]RawSegment, bool) {
	var envelope segmentsEnvelope
	if err := json.Unmarshal([]byte(text), &envelope); err == nil &&
		envelope.Segments != nil {
		return envelope.Segments, true
	}

	var list []RawSegment
	if err := json.Unmarshal([]byte(text), &list); err == nil && list != nil {
		return list, true
	}

	var single RawSegment
	if err := json.Unmarshal([]byte(text), &single); err == nil &&
		looksLikeSegment(&single) {
		return []RawSegment{single}, true
	}

	return nil, false
}

func looksLikeSegment(s *RawSegment) bool {
	return s.Text != "" || s.StartText() != "" || s.EndText() != ""
}

// parseTruncated repairs output cut off mid-structure. Scanning backward
// from the end, each closing brace is a candidate cut point; at each cut
// the text is re-closed under three hypotheses in order: the top level was
// {"segments":[...]} and needs "]}", it was a bare array and needs "]", or
// the candidate is already complete.
func parseTruncated(text string) ([]RawSegment, bool) {
	for cut := strings.LastIndex(text, "}"); cut >= 0; cut = strings.LastIndex(text[:cut], "}") {
		candidate := text[:cut+1]

		for _, closer := range []string{"]}", "]", ""} {
			if segments, ok := parseKnownShapes(candidate + closer); ok {
				return segments, true
			}
		}
	}

	return nil, false
}

// parseBracketSuffixes is the brute-force stage: from the first opening
// bracket, try every suffix-truncated substring (longest first) until one
// parses as an array, re-closing it when needed.
func parseBracketSuffixes(text string) ([]RawSegment, bool) {
	open := strings.Index(text, "[")
	if open < 0 {
		return nil, false
	}

	for end := len(text); end > open; end-- {
		candidate := text[open:end]

		for _, closer := range []string{"", "]"} {
			var list []RawSegment
			if err := json.Unmarshal([]byte(candidate+closer), &list); err == nil &&
				len(list) > 0 {
				return list, true
			}
		}
	}

	return nil, false
}

// matches one key/value field of a segment record regardless of
// surrounding structure; keys may use either spelling and values may be
// quoted or bare numbers
var scrapeFieldRegex = regexp.MustCompile(
	`"(start|startTime|end|endTime|text)"\s*:\s*(?:"((?:[^"\\]|\\.)*)"|([0-9:.,]+))`,
)

// scrapeSegments is the last resort: pattern-match repeating timestamp/text
// fields straight out of text too malformed to parse as JSON at all.
// Fields are grouped into records in stream order; a record is emitted once
// it holds a start, an end, and a text, whatever order its keys appeared
// in, and a repeated key abandons the partial record and starts the next.
func scrapeSegments(text string) ([]RawSegment, bool) {
	matches := scrapeFieldRegex.FindAllStringSubmatch(text, -1)
	if len(matches) == 0 {
		return nil, false
	}

	var segments []RawSegment
	var cur RawSegment
	var hasStart, hasEnd, hasText bool

	reset := func() {
		cur = RawSegment{}
		hasStart, hasEnd, hasText = false, false, false
	}

	for _, m := range matches {
		key, quoted, numeric := m[1], m[2], m[3]

		value := quoted
		if numeric != "" {
			value = numeric
		}

		switch key {
		case "start", "startTime":
			if hasStart {
				reset()
			}
			cur.Start = flexTime(value)
			hasStart = true
		case "end", "endTime":
			if hasEnd {
				reset()
			}
			cur.End = flexTime(value)
			hasEnd = true
		case "text":
			if hasText {
				reset()
			}
			cur.Text = unescapeJSONString(quoted)
			hasText = true
		}

		if hasStart && hasEnd && hasText {
			segments = append(segments, cur)
			reset()
		}
	}

	if len(segments) == 0 {
		return nil, false
	}
	return segments, true
}

// unescapeJSONString resolves backslash escapes in a scraped string value;
// on failure the raw capture is better than nothing.
func unescapeJSONString(s string) string {
	unquoted, err := strconv.Unquote(`"` + s + `"`)
	if err != nil {
		return s
	}
	return unquoted
}

// truncates a string to maxLen characters
func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
