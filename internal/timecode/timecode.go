// Package timecode converts free-form timestamp text from model output into
// durations and a canonical textual form. Model output is untrusted: values
// arrive as "1:02:03.4", "02:03,450", bare "65.5" seconds, or with stray
// characters attached, and a bad field must never abort a transcription.
package timecode

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Parse converts timestamp text to a duration. Accepted forms are
// H:MM:SS[.frac], MM:SS[.frac], SS[.frac], and bare decimal seconds.
// Commas count as decimal points, anything that is not a digit, colon, or
// dot is stripped, and unparseable input yields 0 rather than an error.
func Parse(text string) time.Duration {
	h, m, s, ms := components(text)
	d := time.Duration(h)*time.Hour +
		time.Duration(m)*time.Minute +
		time.Duration(s)*time.Second +
		time.Duration(ms)*time.Millisecond

	// absurd component values can overflow the duration range and wrap
	// negative; the result must stay non-negative
	if d < 0 {
		return 0
	}
	return d
}

// Normalize reformats any parseable timestamp as fixed-width HH:MM:SS.mmm.
// Already-canonical input comes back unchanged, so the function is
// idempotent and safe to apply before every Parse.
func Normalize(text string) string {
	h, m, s, ms := components(text)

	// carry overflowing fields so "90:00" becomes "01:30:00.000"
	total := ((h*60+m)*60 + s) * 1000
	total += ms

	return Format(time.Duration(total) * time.Millisecond)
}

// Format renders a duration as canonical HH:MM:SS.mmm text, rounded to
// the nearest millisecond.
func Format(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	total := d.Round(time.Millisecond).Milliseconds()
	return fmt.Sprintf("%02d:%02d:%02d.%03d",
		total/3600000,
		total%3600000/60000,
		total%60000/1000,
		total%1000,
	)
}

// components reduces timestamp text to integer hour/minute/second/millisecond
// fields. Fields are not clamped: overflow contributes arithmetically.
func components(text string) (h, m, s, ms int) {
	cleaned := clean(text)
	if cleaned == "" {
		return 0, 0, 0, 0
	}

	parts := strings.Split(cleaned, ":")

	// the last field may carry a fraction; earlier fields are integral
	last := parts[len(parts)-1]
	sec, frac, _ := strings.Cut(last, ".")
	s = atoi(sec)
	ms = fracMillis(frac)

	switch len(parts) {
	case 1:
		// seconds only, or a bare decimal number of seconds
	case 2:
		m = atoi(parts[0])
	default:
		h = atoi(parts[0])
		m = atoi(parts[1])
	}

	return h, m, s, ms
}

// clean strips everything except digits, colons, and dots. SRT-style comma
// millisecond separators become dots first so "00:00:01,500" survives.
func clean(text string) string {
	text = strings.ReplaceAll(text, ",", ".")

	var sb strings.Builder
	for _, r := range text {
		if (r >= '0' && r <= '9') || r == ':' || r == '.' {
			sb.WriteRune(r)
		}
	}
	return strings.Trim(sb.String(), ":.")
}

// fracMillis converts a fractional-seconds digit run to milliseconds:
// truncated after three digits, zero-filled on the right below three.
func fracMillis(frac string) int {
	frac = strings.ReplaceAll(frac, ".", "")
	if frac == "" {
		return 0
	}
	if len(frac) > 3 {
		frac = frac[:3]
	}
	for len(frac) < 3 {
		frac += "0"
	}
	return atoi(frac)
}

func atoi(s string) int {
	if s == "" {
		return 0
	}
	v, err := strconv.Atoi(s)
	if err != nil || v < 0 {
		return 0
	}
	return v
}
