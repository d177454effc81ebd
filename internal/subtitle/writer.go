package subtitle

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// SubRip format
type SRTWriter struct{}

// LRC lyric format
type LRCWriter struct {
	Options LRCOptions
}

// TTML timed-text format
type TTMLWriter struct{}

func NewWriter(format Format) (Writer, error) {
	switch format {
	case FormatSRT:
		return &SRTWriter{}, nil
	case FormatLRC:
		return &LRCWriter{Options: DefaultLRCOptions()}, nil
	case FormatTTML:
		return &TTMLWriter{}, nil
	default:
		return nil, fmt.Errorf("unsupported format: %s", format)
	}
}

func (w *SRTWriter) Write(segments []Segment, meta Metadata, path string) error {
	return writeText(path, RenderSRT(segments))
}

func (w *LRCWriter) Write(segments []Segment, meta Metadata, path string) error {
	return writeText(path, RenderLRC(segments, meta, w.Options))
}

func (w *TTMLWriter) Write(segments []Segment, meta Metadata, path string) error {
	return writeText(path, RenderTTML(segments, meta))
}

func writeText(path, content string) error {
	if err := ensureDir(path); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(content), 0644)
}

func ensureDir(path string) error {
	dir := filepath.Dir(path)
	return os.MkdirAll(dir, 0755)
}

// subtitle format based on file extension
func GetFormatFromExtension(path string) Format {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".srt":
		return FormatSRT
	case ".lrc":
		return FormatLRC
	case ".ttml", ".xml":
		return FormatTTML
	default:
		return FormatSRT
	}
}

// file extension for a format
func GetExtensionForFormat(format Format) string {
	switch format {
	case FormatSRT:
		return ".srt"
	case FormatLRC:
		return ".lrc"
	case FormatTTML:
		return ".ttml"
	default:
		return ".srt"
	}
}
