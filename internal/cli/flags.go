package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/avikm/taal/internal/subtitle"
)

// formatFromFlag resolves the shared --format flag.
func formatFromFlag(cmd *cobra.Command) (subtitle.Format, error) {
	formatStr, _ := cmd.Flags().GetString("format")

	switch strings.ToLower(formatStr) {
	case "srt":
		return subtitle.FormatSRT, nil
	case "lrc":
		return subtitle.FormatLRC, nil
	case "ttml":
		return subtitle.FormatTTML, nil
	default:
		return "", fmt.Errorf("unsupported format %q: use srt, lrc, or ttml", formatStr)
	}
}

// metadataFromFlags collects the shared metadata flags.
func metadataFromFlags(cmd *cobra.Command) subtitle.Metadata {
	title, _ := cmd.Flags().GetString("title")
	artist, _ := cmd.Flags().GetString("artist")
	album, _ := cmd.Flags().GetString("album")
	by, _ := cmd.Flags().GetString("by")

	return subtitle.Metadata{
		Title:  title,
		Artist: artist,
		Album:  album,
		By:     by,
	}
}
