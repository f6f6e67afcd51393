package cli

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/mgpai22/lipisync/internal/align"
	"github.com/mgpai22/lipisync/internal/subtitle"
)

var alignCmd = &cobra.Command{
	Use:   "align [target_file]",
	Short: "Show the target track aligned against the source track",
	Long: `Group the cues of the target file and the --source file into display
lines and print them, one row per cue, target on the left.

Examples:
  lipisync align episode.es.srt -s episode.en.srt
  lipisync align episode.es.srt -s episode.en.srt --start 20 --end 40`,
	Args: cobra.ExactArgs(1),
	RunE: runAlign,
}

func init() {
	rootCmd.AddCommand(alignCmd)

	alignCmd.Flags().Int("start", 0, "First line to show")
	alignCmd.Flags().Int("end", -1, "Line to stop before (default: all)")
}

func runAlign(cmd *cobra.Command, args []string) error {
	start, _ := cmd.Flags().GetInt("start")
	end, _ := cmd.Flags().GetInt("end")

	ws, err := loadWorkspace(cmd, args[0])
	if err != nil {
		return err
	}

	snap := ws.session.Snapshot()
	if end < 0 {
		end = len(snap.Lines)
	}

	out := cmd.OutOrStdout()
	var shift time.Duration
	if snap.Bounded {
		shift = ws.session.Offset()
		fmt.Fprintf(out, "Chunk offset: %s (times shown on the media timeline)\n",
			subtitle.FormatTimestamp(shift))
	}
	for k, line := range snap.Window(start, end) {
		printLine(out, start+k, line, shift)
	}
	fmt.Fprintf(out, "Lines: %d\n", len(snap.Lines))
	fmt.Fprintf(out, "Version: %s\n", snap.Version)
	fmt.Fprintf(out, "Fingerprint: %s\n", snap.Fingerprint())
	return nil
}

// printLine writes one row per cue; shift moves chunk-local times onto the
// media timeline
func printLine(w io.Writer, n int, line align.Line, shift time.Duration) {
	rows := max(len(line.Target), len(line.Source))
	for r := 0; r < rows; r++ {
		label := ""
		if r == 0 {
			label = fmt.Sprintf("%d", n)
		}
		fmt.Fprintf(w, "%5s  %-52s | %s\n", label, cell(line.Target, r, shift), cell(line.Source, r, shift))
	}
}

func cell(items []align.Item, r int, shift time.Duration) string {
	if r >= len(items) {
		return ""
	}
	c := items[r].Cue
	return fmt.Sprintf("[%d] %s-%s %s",
		items[r].Index,
		subtitle.FormatTimestamp(c.Start+shift),
		subtitle.FormatTimestamp(c.End+shift),
		oneLine(c.Text),
	)
}

func oneLine(s string) string {
	return strings.ReplaceAll(s, "\n", " / ")
}
