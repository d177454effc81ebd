package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/avikm/taal/internal/subtitle"
	"github.com/avikm/taal/internal/transcribe"
)

var exportCmd = &cobra.Command{
	Use:   "export [response_file]",
	Short: "Convert a saved model response into a subtitle or lyric file",
	Long: `Run a saved raw model response through the repair pipeline and
export it, with no network access. Useful for responses captured from
other tooling and for re-exporting in a different format.

The input may be clean JSON, fenced in markdown, truncated mid-record,
or too broken to parse structurally; every recovery strategy is tried
before giving up.

Examples:
  taal export response.json --format lrc --title "Song"
  taal export response.txt -f ttml -o out.ttml
  taal export response.json -f lrc --duration 215.5`,
	Args: cobra.ExactArgs(1),
	RunE: runExport,
}

func init() {
	rootCmd.AddCommand(exportCmd)

	exportCmd.Flags().
		Float64("duration", 0, "Total audio duration in seconds (bounds the LRC trailing clear marker)")
	exportCmd.Flags().
		Float64("clear-offset", 1, "Seconds after a line's end to place LRC clear markers")
	exportCmd.Flags().
		Bool("unconditional-clear", false, "Emit the trailing LRC clear marker even without a known duration")
}

func runExport(cmd *cobra.Command, args []string) error {
	inputPath := args[0]

	raw, err := os.ReadFile(inputPath)
	if err != nil {
		return fmt.Errorf("failed to read response file: %w", err)
	}

	format, err := formatFromFlag(cmd)
	if err != nil {
		return err
	}

	records, err := transcribe.Repair(string(raw))
	if err != nil {
		return fmt.Errorf("response could not be recovered: %w", err)
	}

	segments := transcribe.BuildSegments(records)

	logger.Infow("Response recovered",
		"input", inputPath,
		"segments", len(segments),
	)

	outputPath, _ := cmd.Flags().GetString("output")
	if outputPath == "" {
		baseName := strings.TrimSuffix(inputPath, filepath.Ext(inputPath))
		outputPath = baseName + subtitle.GetExtensionForFormat(format)
	}

	writer, err := subtitle.NewWriter(format)
	if err != nil {
		return fmt.Errorf("failed to create writer: %w", err)
	}

	if lrcWriter, ok := writer.(*subtitle.LRCWriter); ok {
		durationSec, _ := cmd.Flags().GetFloat64("duration")
		offsetSec, _ := cmd.Flags().GetFloat64("clear-offset")
		unconditional, _ := cmd.Flags().GetBool("unconditional-clear")

		lrcWriter.Options.TotalDuration = time.Duration(durationSec * float64(time.Second))
		lrcWriter.Options.ClearOffset = time.Duration(offsetSec * float64(time.Second))
		lrcWriter.Options.RequireDurationBound = !unconditional
	}

	if err := writer.Write(segments, metadataFromFlags(cmd), outputPath); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	absOutput, _ := filepath.Abs(outputPath)
	fmt.Printf("Output written: %s\n", absOutput)
	fmt.Printf("  Segments: %d\n", len(segments))

	return nil
}
