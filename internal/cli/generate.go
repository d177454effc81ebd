package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/avikm/taal/internal/audio"
	"github.com/avikm/taal/internal/subtitle"
	"github.com/avikm/taal/internal/transcribe"
	"github.com/avikm/taal/internal/translate"
)

var generateCmd = &cobra.Command{
	Use:   "generate [media_file]",
	Short: "Transcribe a media file and export timed lyrics or subtitles",
	Long: `Transcribe the specified audio or video file and export the result.

The command accepts audio files (mp3, wav, aac, etc.) and video files
(mp4, mkv, etc.); video audio is extracted automatically. The model's
raw response is repaired and normalized before export, so truncated or
sloppily formatted output still produces a usable file.

Examples:
  taal generate song.mp3 --format lrc --title "Song" --artist "Singer"
  taal generate video.mp4 -f srt
  taal generate song.mp3 -f ttml --word-level
  taal generate song.mp3 -f srt --translate-to spanish`,
	Args: cobra.ExactArgs(1),
	RunE: runGenerate,
}

func init() {
	rootCmd.AddCommand(generateCmd)

	generateCmd.Flags().
		StringP("api-key", "k", "", "API key (or set GEMINI_API_KEY / OPENAI_API_KEY)")
	generateCmd.Flags().
		String("provider", "gemini", "Transcription provider (gemini, openai)")
	generateCmd.Flags().
		String("model", "", "Model to use for transcription")
	generateCmd.Flags().
		StringP("language", "l", "", "Language code of the audio (e.g., en, ja)")
	generateCmd.Flags().
		Bool("word-level", false, "Request per-word timing (TTML karaoke spans)")
	generateCmd.Flags().
		String("translate-to", "", "Translate transcribed lines to this language")
	generateCmd.Flags().
		String("translate-provider", "gemini", "Translation provider (gemini, anthropic)")
	generateCmd.Flags().
		String("translate-api-key", "", "Translation API key (or set ANTHROPIC_API_KEY)")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	mediaPath := args[0]
	ctx := context.Background()

	if _, err := os.Stat(mediaPath); os.IsNotExist(err) {
		return fmt.Errorf("file not found: %s", mediaPath)
	}
	if !audio.IsMediaFile(mediaPath) {
		return fmt.Errorf(
			"unsupported file type: %s (expected audio or video file)",
			filepath.Ext(mediaPath),
		)
	}

	format, err := formatFromFlag(cmd)
	if err != nil {
		return err
	}

	providerStr, _ := cmd.Flags().GetString("provider")
	provider := transcribe.Provider(strings.ToLower(providerStr))

	apiKey, _ := cmd.Flags().GetString("api-key")
	if apiKey == "" {
		switch provider {
		case transcribe.ProviderOpenAI:
			apiKey = os.Getenv("OPENAI_API_KEY")
		default:
			apiKey = os.Getenv("GEMINI_API_KEY")
		}
	}
	if apiKey == "" {
		return fmt.Errorf("API key is required: use --api-key or set the provider's environment variable")
	}

	outputPath, _ := cmd.Flags().GetString("output")
	if outputPath == "" {
		baseName := strings.TrimSuffix(mediaPath, filepath.Ext(mediaPath))
		outputPath = baseName + subtitle.GetExtensionForFormat(format)
	}

	model, _ := cmd.Flags().GetString("model")
	language, _ := cmd.Flags().GetString("language")
	wordLevel, _ := cmd.Flags().GetBool("word-level")

	logger.Infow("Starting transcription",
		"input", mediaPath,
		"output", outputPath,
		"format", string(format),
		"provider", string(provider),
		"word_level", wordLevel,
	)

	tempDir, err := os.MkdirTemp("", "taal-*")
	if err != nil {
		return fmt.Errorf("failed to create temp directory: %w", err)
	}
	defer os.RemoveAll(tempDir)

	audioPath := filepath.Join(tempDir, "audio.mp3")
	if err := audio.Prepare(mediaPath, audioPath, audio.DefaultCompressionOptions()); err != nil {
		return fmt.Errorf("failed to prepare audio: %w", err)
	}

	duration, err := audio.GetDuration(audioPath)
	if err != nil {
		return fmt.Errorf("failed to get audio duration: %w", err)
	}

	logger.Infow("Audio prepared", "duration", duration.String())

	transcriber, err := transcribe.Factory(ctx, provider, apiKey, transcribe.Options{
		Language:  language,
		Model:     model,
		WordLevel: wordLevel,
	})
	if err != nil {
		return fmt.Errorf("failed to create transcriber: %w", err)
	}

	result, err := transcriber.Transcribe(ctx, audioPath)
	if err != nil {
		return fmt.Errorf("transcription failed: %w", err)
	}

	logger.Infow("Transcription complete", "segments", len(result.Segments))

	segments := result.Segments

	if target, _ := cmd.Flags().GetString("translate-to"); target != "" {
		segments, err = translateTo(ctx, cmd, segments, target, apiKey)
		if err != nil {
			return err
		}
		logger.Infow("Translation complete", "target", target)
	}

	meta := metadataFromFlags(cmd)

	writer, err := subtitle.NewWriter(format)
	if err != nil {
		return fmt.Errorf("failed to create writer: %w", err)
	}
	if lrcWriter, ok := writer.(*subtitle.LRCWriter); ok {
		lrcWriter.Options.TotalDuration = duration
	}

	if err := writer.Write(segments, meta, outputPath); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	absOutput, _ := filepath.Abs(outputPath)
	fmt.Printf("Output written: %s\n", absOutput)
	fmt.Printf("  Segments: %d\n", len(segments))
	fmt.Printf("  Duration: %s\n", duration.String())

	return nil
}

func translateTo(
	ctx context.Context,
	cmd *cobra.Command,
	segments []subtitle.Segment,
	target string,
	fallbackKey string,
) ([]subtitle.Segment, error) {
	providerStr, _ := cmd.Flags().GetString("translate-provider")
	provider := translate.Provider(strings.ToLower(providerStr))

	apiKey, _ := cmd.Flags().GetString("translate-api-key")
	if apiKey == "" && provider == translate.ProviderAnthropic {
		apiKey = os.Getenv("ANTHROPIC_API_KEY")
	}
	if apiKey == "" {
		apiKey = fallbackKey
	}

	translator, err := translate.Factory(ctx, provider, apiKey, translate.Options{
		TargetLanguage: target,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create translator: %w", err)
	}

	translated, err := translator.TranslateSegments(ctx, segments)
	if err != nil {
		return nil, fmt.Errorf("translation failed: %w", err)
	}

	return translated, nil
}
