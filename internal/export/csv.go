// Package export renders aligned lines for consumers outside the engine.
package export

import (
	"io"
	"strings"

	"github.com/mgpai22/lipisync/internal/align"
	"github.com/mgpai22/lipisync/internal/subtitle"
)

// CSVHeader is fixed; "Source Test" is kept as-is for compatibility with
// files produced by earlier versions.
const CSVHeader = "Source Start,Source End,Source Test,Target Start,Target End,Target Text"

const crlf = "\r\n"

// CSV renders one row per source/target pair of each line: a line with two
// target cues and one source cue yields two rows, the second with empty
// source fields. Rows are CRLF separated with no trailing terminator.
func CSV(lines []align.Line) string {
	var sb strings.Builder
	sb.WriteString(CSVHeader)
	for _, line := range lines {
		rows := max(len(line.Source), len(line.Target))
		for k := 0; k < rows; k++ {
			sb.WriteString(crlf)
			writeSide(&sb, line.Source, k)
			sb.WriteByte(',')
			writeSide(&sb, line.Target, k)
		}
	}
	return sb.String()
}

func WriteCSV(w io.Writer, lines []align.Line) error {
	_, err := io.WriteString(w, CSV(lines))
	return err
}

// three fields for items[k], or three empty fields when the side ran out
func writeSide(sb *strings.Builder, items []align.Item, k int) {
	if k >= len(items) {
		sb.WriteString(",,")
		return
	}
	c := items[k].Cue
	sb.WriteString(subtitle.FormatTimestamp(c.Start))
	sb.WriteByte(',')
	sb.WriteString(subtitle.FormatTimestamp(c.End))
	sb.WriteByte(',')
	sb.WriteString(quote(c.Text))
}

func quote(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}
