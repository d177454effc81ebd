package cli

import (
	"github.com/avikm/taal/internal/logging"
	"github.com/spf13/cobra"
)

var (
	verbose bool
	logger  *logging.Logger
)

var rootCmd = &cobra.Command{
	Use:   "taal",
	Short: "AI-powered lyric and subtitle transcription",
	Long: `Taal transcribes audio with a generative model, repairs the
model's often-malformed timestamped output, and exports the result as
SRT subtitles, LRC lyrics, or TTML timed text.

It tolerates truncated responses, inconsistent timestamp formats, and
out-of-order segments; what the model produced is normalized rather
than discarded.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logger = logging.NewLogger(verbose)
	},
}

func Execute() error {
	defer func() {
		// the logger only exists once a command's PersistentPreRun fired
		if logger != nil {
			logger.Sync()
		}
	}()
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().
		BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().StringP("output", "o", "", "Output file path")
	rootCmd.PersistentFlags().
		StringP("format", "f", "srt", "Output format (srt, lrc, ttml)")
	rootCmd.PersistentFlags().String("title", "", "Track title metadata")
	rootCmd.PersistentFlags().String("artist", "", "Track artist metadata")
	rootCmd.PersistentFlags().String("album", "", "Track album metadata")
	rootCmd.PersistentFlags().String("by", "", "Attribution metadata (LRC [by:] header)")
}
