package subtitle

import (
	"fmt"
	"math"
	"time"
)

// MinGap is the smallest cue duration, and the smallest room between
// neighbours, that edits are allowed to produce.
const MinGap = time.Millisecond

// single timed text cue (the TimedInterval of either track)
type Cue struct {
	Start    time.Duration
	End      time.Duration
	Text     string
	Category Category
	Meta     map[string]string
}

func (c Cue) Duration() time.Duration {
	return c.End - c.Start
}

// copy with its own Meta map
func (c Cue) Clone() Cue {
	if c.Meta != nil {
		meta := make(map[string]string, len(c.Meta))
		for k, v := range c.Meta {
			meta[k] = v
		}
		c.Meta = meta
	}
	return c
}

// represents complete subtitle track
type Subtitle struct {
	Cues     []Cue
	Language string
	Format   string
}

// represents supported subtitle formats
type Format string

const (
	FormatSRT Format = "srt"
	FormatVTT Format = "vtt"
	FormatASS Format = "ass"
	// Timed Text Markup Language (and DFXP); read only
	FormatTTML Format = "ttml"
)

// interface for writing subtitles to files
type Writer interface {
	Write(subtitle *Subtitle, path string) error
}

// converts float seconds to a duration rounded to the millisecond
func Seconds(s float64) time.Duration {
	return time.Duration(math.Round(s*1000)) * time.Millisecond
}

// returns a deep copy of the cue slice
func CloneCues(cues []Cue) []Cue {
	if cues == nil {
		return nil
	}
	out := make([]Cue, len(cues))
	for i, c := range cues {
		out[i] = c.Clone()
	}
	return out
}

// ValidateTrack checks the target track invariant: every cue has a positive
// duration, cues are sorted by start and no two cues overlap.
func ValidateTrack(cues []Cue) error {
	for i, c := range cues {
		if c.End <= c.Start {
			return fmt.Errorf(
				"cue %d: end %v is not after start %v",
				i, c.End, c.Start,
			)
		}
		if i == 0 {
			continue
		}
		prev := cues[i-1]
		if c.Start < prev.Start {
			return fmt.Errorf(
				"cue %d: start %v precedes cue %d start %v",
				i, c.Start, i-1, prev.Start,
			)
		}
		if c.Start < prev.End {
			return fmt.Errorf(
				"cue %d: start %v overlaps cue %d ending at %v",
				i, c.Start, i-1, prev.End,
			)
		}
	}
	return nil
}
