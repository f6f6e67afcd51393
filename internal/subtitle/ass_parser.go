package subtitle

import (
	"bufio"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Meta keys carried over from ASS dialogue fields so the writer can restore them.
const (
	MetaStyle   = "style"
	MetaSpeaker = "speaker"
	MetaASSTags = "ass_tags"
)

var assLeadingTagRegex = regexp.MustCompile(`^(\{[^}]*\})+`)

// column positions taken from the [Events] Format line
type assColumns struct {
	count int
	start int
	end   int
	style int
	name  int
	text  int
}

func parseASS(r io.Reader) ([]Cue, error) {
	scanner := bufio.NewScanner(r)
	var cues []Cue
	var cols *assColumns
	inEvents := false
	lineNum := 0

	for scanner.Scan() {
		line := scanner.Text()
		lineNum++

		if lineNum == 1 {
			line = strings.TrimPrefix(line, "\ufeff")
		}
		trimmed := strings.TrimSpace(line)

		if strings.HasPrefix(trimmed, "[") && strings.HasSuffix(trimmed, "]") {
			section := strings.ToLower(strings.Trim(trimmed, "[]"))
			inEvents = section == "events"
			continue
		}
		if !inEvents {
			continue
		}

		switch {
		case strings.HasPrefix(trimmed, "Format:"):
			parsed, err := parseASSFormat(strings.TrimPrefix(trimmed, "Format:"))
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", lineNum, err)
			}
			cols = parsed
		case strings.HasPrefix(trimmed, "Dialogue:"):
			if cols == nil {
				return nil, fmt.Errorf(
					"line %d: Dialogue before Format line in [Events] section",
					lineNum,
				)
			}
			cue, err := cols.parseDialogue(strings.TrimPrefix(trimmed, "Dialogue:"))
			if err != nil {
				return nil, fmt.Errorf("failed to parse Dialogue at line %d: %w", lineNum, err)
			}
			cues = append(cues, cue)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading ASS file: %w", err)
	}
	if cols == nil {
		return nil, fmt.Errorf("ASS file missing Format line in [Events] section")
	}

	return cues, nil
}

func parseASSFormat(line string) (*assColumns, error) {
	columns := strings.Split(line, ",")
	cols := &assColumns{count: len(columns), start: -1, end: -1, style: -1, name: -1, text: -1}
	for i, col := range columns {
		switch strings.ToLower(strings.TrimSpace(col)) {
		case "start":
			cols.start = i
		case "end":
			cols.end = i
		case "style":
			cols.style = i
		case "name":
			cols.name = i
		case "text":
			cols.text = i
		}
	}
	if cols.text == -1 || cols.start == -1 || cols.end == -1 {
		return nil, fmt.Errorf("ASS Format line must name Start, End and Text columns")
	}
	return cols, nil
}

func (c *assColumns) parseDialogue(content string) (Cue, error) {
	parts := splitASSFields(strings.TrimSpace(content), c.count)
	if len(parts) < c.count {
		return Cue{}, fmt.Errorf("expected %d fields, got %d", c.count, len(parts))
	}

	start, err := parseASSTimestamp(parts[c.start])
	if err != nil {
		return Cue{}, fmt.Errorf("invalid start: %w", err)
	}
	end, err := parseASSTimestamp(parts[c.end])
	if err != nil {
		return Cue{}, fmt.Errorf("invalid end: %w", err)
	}

	meta := map[string]string{}
	if c.style >= 0 && parts[c.style] != "" {
		meta[MetaStyle] = strings.TrimSpace(parts[c.style])
	}
	if c.name >= 0 && parts[c.name] != "" {
		meta[MetaSpeaker] = strings.TrimSpace(parts[c.name])
	}

	text := parts[c.text]
	if tags := assLeadingTagRegex.FindString(text); tags != "" {
		meta[MetaASSTags] = tags
		text = text[len(tags):]
	}
	text = strings.ReplaceAll(text, "\\N", "\n")
	text = strings.ReplaceAll(text, "\\n", "\n")

	if len(meta) == 0 {
		meta = nil
	}
	return Cue{
		Start:    start,
		End:      end,
		Text:     text,
		Category: classify(text),
		Meta:     meta,
	}, nil
}

// the Text column is last and may itself contain commas
func splitASSFields(content string, numFields int) []string {
	if numFields <= 0 {
		return nil
	}
	return strings.SplitN(content, ",", numFields)
}

// H:MM:SS.cc
func parseASSTimestamp(ts string) (time.Duration, error) {
	parts := strings.Split(strings.TrimSpace(ts), ":")
	if len(parts) != 3 {
		return 0, fmt.Errorf("malformed timestamp %q", ts)
	}
	secParts := strings.Split(parts[2], ".")
	if len(secParts) != 2 {
		return 0, fmt.Errorf("malformed timestamp %q", ts)
	}

	var fields [4]int
	for i, s := range []string{parts[0], parts[1], secParts[0], secParts[1]} {
		n, err := strconv.Atoi(s)
		if err != nil {
			return 0, fmt.Errorf("malformed timestamp %q: %w", ts, err)
		}
		fields[i] = n
	}

	return time.Duration(fields[0])*time.Hour +
		time.Duration(fields[1])*time.Minute +
		time.Duration(fields[2])*time.Second +
		time.Duration(fields[3])*10*time.Millisecond, nil
}
