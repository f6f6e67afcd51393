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

var srtTimestampRegex = regexp.MustCompile(
	`(-?\d{2}):(\d{2}):(\d{2})[,.](\d{3})\s*-->\s*(-?\d{2}):(\d{2}):(\d{2})[,.](\d{3})`,
)

func parseSRT(r io.Reader) ([]Cue, error) {
	var cues []Cue
	scanner := bufio.NewScanner(r)

	var current *Cue
	var textLines []string
	numbered := false
	lineNum := 0

	flush := func() {
		// cues without text survive: split leaves an empty trailing half
		if current != nil {
			current.Text = strings.Join(textLines, "\n")
			current.Category = classify(current.Text)
			cues = append(cues, *current)
		}
		current = nil
		textLines = nil
		numbered = false
	}

	for scanner.Scan() {
		line := scanner.Text()
		lineNum++

		if lineNum == 1 {
			line = strings.TrimPrefix(line, "\ufeff")
		}

		if strings.TrimSpace(line) == "" {
			flush()
			continue
		}

		if current == nil && !numbered {
			if _, err := strconv.Atoi(strings.TrimSpace(line)); err == nil {
				numbered = true
				continue
			}
		}

		if current == nil {
			matches := srtTimestampRegex.FindStringSubmatch(line)
			if len(matches) != 9 {
				continue
			}
			start, err := parseClock(matches[1], matches[2], matches[3], matches[4])
			if err != nil {
				return nil, fmt.Errorf("invalid start timestamp at line %d: %w", lineNum, err)
			}
			end, err := parseClock(matches[5], matches[6], matches[7], matches[8])
			if err != nil {
				return nil, fmt.Errorf("invalid end timestamp at line %d: %w", lineNum, err)
			}
			current = &Cue{Start: start, End: end}
			continue
		}

		textLines = append(textLines, line)
	}
	flush()

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading SRT file: %w", err)
	}

	return cues, nil
}

// shared by the SRT and VTT parsers
// parseClock reads one timestamp; a leading "-" on the first field marks
// a negative chunk-local time
func parseClock(hours, minutes, seconds, millis string) (time.Duration, error) {
	neg := strings.HasPrefix(hours, "-") || strings.HasPrefix(minutes, "-")
	hours = strings.TrimPrefix(hours, "-")
	minutes = strings.TrimPrefix(minutes, "-")

	h, err := strconv.Atoi(hours)
	if err != nil {
		return 0, err
	}
	m, err := strconv.Atoi(minutes)
	if err != nil {
		return 0, err
	}
	s, err := strconv.Atoi(seconds)
	if err != nil {
		return 0, err
	}
	ms, err := strconv.Atoi(millis)
	if err != nil {
		return 0, err
	}

	d := time.Duration(h)*time.Hour +
		time.Duration(m)*time.Minute +
		time.Duration(s)*time.Second +
		time.Duration(ms)*time.Millisecond
	if neg {
		d = -d
	}
	return d, nil
}
