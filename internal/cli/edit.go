package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/mgpai22/lipisync/internal/session"
)

var insertCmd = &cobra.Command{
	Use:   "insert [target_file]",
	Short: "Insert an empty cue into the target track",
	Long: `Insert an empty cue before target cue --at. With --source-from the
new cue spans source cues --source-from..--source-to; otherwise it runs for
two seconds after the previous cue, trimmed to the next one.

Examples:
  lipisync insert episode.es.srt --at 3
  lipisync insert episode.es.srt -s episode.en.srt --at 3 --source-from 4 --source-to 5`,
	Args: cobra.ExactArgs(1),
	RunE: runInsert,
}

var splitCmd = &cobra.Command{
	Use:   "split [target_file]",
	Short: "Split a target cue in two",
	Long: `Split target cue --index at --at (default: its midpoint). The second
half starts with empty text.

Examples:
  lipisync split episode.es.srt --index 7
  lipisync split episode.es.srt --index 7 --at 1m2.5s`,
	Args: cobra.ExactArgs(1),
	RunE: runSplit,
}

var mergeCmd = &cobra.Command{
	Use:   "merge [target_file]",
	Short: "Merge contiguous target cues into one",
	Long: `Merge the target cues listed in --indices into one cue spanning all of
them. The indices must be contiguous.

Examples:
  lipisync merge episode.es.srt --indices 4,5,6
  lipisync merge episode.es.srt --indices 4-6`,
	Args: cobra.ExactArgs(1),
	RunE: runMerge,
}

var shiftCmd = &cobra.Command{
	Use:   "shift [target_file]",
	Short: "Shift target cue times",
	Long: `Shift cue times by --delta. --scope all shifts every cue, before shifts
cues 0..--index, and after shifts cues --index onward.

Examples:
  lipisync shift episode.es.srt --delta 1.5s
  lipisync shift episode.es.srt --delta=-500ms --scope after --index 12`,
	Args: cobra.ExactArgs(1),
	RunE: runShift,
}

var resyncCmd = &cobra.Command{
	Use:   "resync [target_file]",
	Short: "Recompute alignment and rewrite the target under a new version",
	Args:  cobra.ExactArgs(1),
	RunE:  runResync,
}

func init() {
	rootCmd.AddCommand(insertCmd, splitCmd, mergeCmd, shiftCmd, resyncCmd)

	insertCmd.Flags().Int("at", 0, "Target position to insert before (required)")
	insertCmd.Flags().Int("source-from", -1, "First source cue the new cue spans")
	insertCmd.Flags().Int("source-to", -1, "Last source cue the new cue spans (default: --source-from)")
	insertCmd.Flags().Duration("duration", session.DefaultCueDuration, "Length of a cue inserted without a source range")
	_ = insertCmd.MarkFlagRequired("at")

	splitCmd.Flags().Int("index", 0, "Target cue to split (required)")
	splitCmd.Flags().Duration("at", 0, "Split point (default: midpoint)")
	_ = splitCmd.MarkFlagRequired("index")

	mergeCmd.Flags().String("indices", "", "Contiguous target cues to merge, e.g. 4,5,6 or 4-6 (required)")
	_ = mergeCmd.MarkFlagRequired("indices")

	shiftCmd.Flags().Duration("delta", 0, "Amount to shift by, e.g. 1.5s or -500ms (required)")
	shiftCmd.Flags().String("scope", "all", "Cues to shift: all, before, after")
	shiftCmd.Flags().Int("index", 0, "Boundary cue for before/after scopes")
	_ = shiftCmd.MarkFlagRequired("delta")
}

// edit loads the target, applies one mutation, and saves the result
func edit(
	cmd *cobra.Command,
	path string,
	apply func(*session.Session) (*session.Snapshot, error),
	opts ...session.Option,
) error {
	ws, err := loadWorkspace(cmd, path, opts...)
	if err != nil {
		return err
	}

	snap, err := apply(ws.session)
	if err != nil {
		return err
	}

	output, err := ws.save(cmd)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Saved %d cues: %s\n", len(snap.Target), output)
	return nil
}

func runInsert(cmd *cobra.Command, args []string) error {
	at, _ := cmd.Flags().GetInt("at")
	from, _ := cmd.Flags().GetInt("source-from")
	to, _ := cmd.Flags().GetInt("source-to")
	duration, _ := cmd.Flags().GetDuration("duration")

	var src *session.SourceRange
	if from >= 0 {
		if to < 0 {
			to = from
		}
		src = &session.SourceRange{From: from, To: to}
	}

	return edit(cmd, args[0], func(s *session.Session) (*session.Snapshot, error) {
		snap, ok := s.InsertAt(at, src)
		if !ok {
			return nil, fmt.Errorf("cannot insert a cue at position %d without overlapping its neighbours", at)
		}
		return snap, nil
	}, session.WithDefaultDuration(duration))
}

func runSplit(cmd *cobra.Command, args []string) error {
	index, _ := cmd.Flags().GetInt("index")
	var at *time.Duration
	if cmd.Flags().Changed("at") {
		d, _ := cmd.Flags().GetDuration("at")
		at = &d
	}

	return edit(cmd, args[0], func(s *session.Session) (*session.Snapshot, error) {
		snap, ok := s.SplitAt(index, at)
		if !ok {
			return nil, fmt.Errorf("cannot split cue %d there", index)
		}
		return snap, nil
	})
}

func runMerge(cmd *cobra.Command, args []string) error {
	raw, _ := cmd.Flags().GetString("indices")

	return edit(cmd, args[0], func(s *session.Session) (*session.Snapshot, error) {
		indices, err := parseIndices(raw, len(s.Snapshot().Target))
		if err != nil {
			return nil, err
		}
		return s.MergeRange(indices)
	})
}

func runShift(cmd *cobra.Command, args []string) error {
	delta, _ := cmd.Flags().GetDuration("delta")
	scopeName, _ := cmd.Flags().GetString("scope")
	index, _ := cmd.Flags().GetInt("index")

	scope, err := parseScope(scopeName, index)
	if err != nil {
		return err
	}

	return edit(cmd, args[0], func(s *session.Session) (*session.Snapshot, error) {
		return s.ShiftAllTimes(delta, scope)
	})
}

func runResync(cmd *cobra.Command, args []string) error {
	return edit(cmd, args[0], func(s *session.Session) (*session.Snapshot, error) {
		snap := s.Resync()
		fmt.Fprintf(cmd.OutOrStdout(), "Version: %s\n", snap.Version)
		return snap, nil
	})
}
