package subtitle

import (
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/avikm/taal/internal/timecode"
)

// RenderTTML serializes segments as a TTML (timed text) document. Segments
// with word timing get nested <span begin end> elements; plain segments
// carry their text directly on the <p>.
func RenderTTML(segments []Segment, meta Metadata) string {
	var sb strings.Builder

	sb.WriteString(`<?xml version="1.0" encoding="utf-8"?>` + "\n")
	sb.WriteString(`<tt xmlns="http://www.w3.org/ns/ttml" xmlns:ttm="http://www.w3.org/ns/ttml#metadata">` + "\n")

	if meta.Title != "" || meta.Artist != "" {
		sb.WriteString("  <head>\n    <metadata>\n")
		if meta.Title != "" {
			sb.WriteString(fmt.Sprintf("      <ttm:title>%s</ttm:title>\n",
				escapeXML(meta.Title)))
		}
		if meta.Artist != "" {
			sb.WriteString(fmt.Sprintf("      <ttm:agent type=\"person\"><ttm:name type=\"full\">%s</ttm:name></ttm:agent>\n",
				escapeXML(meta.Artist)))
		}
		sb.WriteString("    </metadata>\n  </head>\n")
	}

	sb.WriteString("  <body>\n    <div>\n")

	for _, seg := range segments {
		sb.WriteString(fmt.Sprintf(`      <p begin="%s" end="%s">`,
			formatTTMLTime(seg.Start),
			formatTTMLTime(seg.End)))

		if len(seg.Words) == 0 {
			sb.WriteString(escapeXML(seg.Text))
		} else {
			writeWordSpans(&sb, seg.Words)
		}

		sb.WriteString("</p>\n")
	}

	sb.WriteString("    </div>\n  </body>\n</tt>\n")

	return sb.String()
}

// writeWordSpans emits one <span> per word. A literal space separates
// adjacent spans except after the final word and except where either
// neighbor is a CJK run, where a space would render incorrectly.
func writeWordSpans(sb *strings.Builder, words []Word) {
	for i, w := range words {
		sb.WriteString(fmt.Sprintf(`<span begin="%s" end="%s">%s</span>`,
			formatTTMLTime(w.Start),
			formatTTMLTime(w.End),
			escapeXML(w.Text)))

		if i+1 == len(words) {
			break
		}
		if isCJK(w.Text) || isCJK(words[i+1].Text) {
			continue
		}
		sb.WriteString(" ")
	}
}

func formatTTMLTime(d time.Duration) string {
	return timecode.Format(d)
}

// isCJK reports whether text starts a Hiragana/Katakana/CJK-ideograph/
// Hangul run; such scripts do not use inter-word spacing.
func isCJK(text string) bool {
	for _, r := range text {
		if unicode.In(r,
			unicode.Hiragana,
			unicode.Katakana,
			unicode.Han,
			unicode.Hangul,
		) {
			return true
		}
		return false
	}
	return false
}

var xmlReplacer = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&apos;",
)

func escapeXML(text string) string {
	return xmlReplacer.Replace(text)
}
