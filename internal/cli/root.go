package cli

import (
	"github.com/spf13/cobra"

	"github.com/mgpai22/lipisync/internal/logging"
)

var (
	verbose bool
	logger  *logging.Logger
)

var rootCmd = &cobra.Command{
	Use:   "lipisync",
	Short: "Align and edit a subtitle track against a reference track",
	Long: `Lipisync edits a target subtitle track while keeping it aligned with
a read-only source track, for example an original-language track when
translating.

It reads SRT, VTT, and ASS/SSA files, groups overlapping cues of both
tracks into display lines, and applies timing edits (insert, split, merge,
shift) that keep the target sorted and free of overlaps.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logger = logging.NewLogger(verbose)
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().
		BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().
		StringP("output", "o", "", "Output file path (defaults to the input file)")
	rootCmd.PersistentFlags().
		StringP("source", "s", "", "Source (reference) subtitle file")
	rootCmd.PersistentFlags().
		Duration("chunk-offset", 0, "Edit the target as a chunk starting at this media offset (e.g. 10m)")
	rootCmd.PersistentFlags().
		Duration("chunk-length", 0, "Length of the media chunk (checked against --media)")
	rootCmd.PersistentFlags().
		String("media", "", "Video or audio file the chunk is checked against")
}
