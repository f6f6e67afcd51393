package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mgpai22/lipisync/internal/export"
	"github.com/mgpai22/lipisync/internal/subtitle"
)

var exportCmd = &cobra.Command{
	Use:   "export [target_file]",
	Short: "Export aligned lines as CSV or a bilingual subtitle file",
	Long: `Export the aligned target and source tracks.

The csv format writes one row per aligned cue pair. The srt, vtt, and ass
formats write a bilingual track: each target cue with the source text it
overlaps on the line below.

Examples:
  lipisync export episode.es.srt -s episode.en.srt -o lines.csv
  lipisync export episode.es.srt -s episode.en.srt --format vtt`,
	Args: cobra.ExactArgs(1),
	RunE: runExport,
}

func init() {
	rootCmd.AddCommand(exportCmd)

	exportCmd.Flags().
		StringP("format", "f", "", "Export format: csv, srt, vtt, ass (default: from --output extension, else csv)")
}

func runExport(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString("format")
	outputPath, _ := cmd.Flags().GetString("output")

	format = strings.ToLower(strings.TrimPrefix(format, "."))
	if format == "" {
		format = strings.ToLower(strings.TrimPrefix(filepath.Ext(outputPath), "."))
		if format == "" {
			format = "csv"
		}
	}
	if format == "ssa" {
		format = string(subtitle.FormatASS)
	}

	switch format {
	case "csv", string(subtitle.FormatSRT), string(subtitle.FormatVTT), string(subtitle.FormatASS):
	default:
		return fmt.Errorf("unsupported export format %q: use csv, srt, vtt, or ass", format)
	}

	if outputPath == "" {
		base := strings.TrimSuffix(args[0], filepath.Ext(args[0]))
		if format == "csv" {
			outputPath = base + ".csv"
		} else {
			outputPath = base + ".bilingual" + subtitle.GetExtensionForFormat(subtitle.Format(format))
		}
	}

	ws, err := loadWorkspace(cmd, args[0])
	if err != nil {
		return err
	}
	lines := ws.session.Lines()

	if format == "csv" {
		f, err := os.Create(outputPath)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close()
		if err := export.WriteCSV(f, lines); err != nil {
			return fmt.Errorf("failed to write CSV: %w", err)
		}
	} else {
		sub := export.Bilingual(lines)
		sub.Format = format
		writer, err := subtitle.NewWriter(subtitle.Format(format))
		if err != nil {
			return err
		}
		if err := writer.Write(sub, outputPath); err != nil {
			return fmt.Errorf("failed to write output file: %w", err)
		}
	}

	absOutput, _ := filepath.Abs(outputPath)
	fmt.Fprintf(cmd.OutOrStdout(), "Exported %d lines: %s\n", len(lines), absOutput)
	return nil
}
