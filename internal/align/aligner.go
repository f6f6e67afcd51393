package align

import (
	"strings"

	"github.com/mgpai22/lipisync/internal/subtitle"
)

// cue paired with its position in its own track
type Item struct {
	Index int
	Cue   subtitle.Cue
}

// one display row; at least one side is non-empty
type Line struct {
	Target []Item
	Source []Item
}

// matches reports whether c matches any cue already in the line.
func (l *Line) matches(c subtitle.Cue) bool {
	for _, it := range l.Source {
		if Match(it.Cue, c) {
			return true
		}
	}
	for _, it := range l.Target {
		if Match(it.Cue, c) {
			return true
		}
	}
	return false
}

// SourceRange returns the first and last source index on the line.
func (l Line) SourceRange() (from, to int, ok bool) {
	if len(l.Source) == 0 {
		return 0, 0, false
	}
	return l.Source[0].Index, l.Source[len(l.Source)-1].Index, true
}

// TargetRange returns the first and last target index on the line.
func (l Line) TargetRange() (from, to int, ok bool) {
	if len(l.Target) == 0 {
		return 0, 0, false
	}
	return l.Target[0].Index, l.Target[len(l.Target)-1].Index, true
}

// SourceText joins the non-empty text of every source cue on the line.
func (l Line) SourceText() string {
	return joinText(l.Source, func(subtitle.Cue) bool { return true })
}

// SourceTextFor joins the text of the source cues on the line that overlap c.
func (l Line) SourceTextFor(c subtitle.Cue) string {
	return joinText(l.Source, func(s subtitle.Cue) bool { return OverlapRatio(c, s) > 0 })
}

func joinText(items []Item, keep func(subtitle.Cue) bool) string {
	var parts []string
	for _, it := range items {
		if keep(it.Cue) && strings.TrimSpace(it.Cue.Text) != "" {
			parts = append(parts, it.Cue.Text)
		}
	}
	return strings.Join(parts, " ")
}

// Align walks both tracks chronologically and groups cues that match into
// shared lines. An unmatched cue gets a line of its own while both tracks
// still have cues; once one track is used up, the rest of the other track
// joins the open paired line, if any. Every cue of either track lands in
// exactly one line, in track order. The target track must be sorted and
// non-overlapping; the source track must be sorted.
func Align(source, target []subtitle.Cue) []Line {
	lines := make([]Line, 0, max(len(source), len(target)))
	i, j := 0, 0

	for i < len(source) || j < len(target) {
		switch {
		case i >= len(source):
			lines = append(lines, Line{Target: []Item{{Index: j, Cue: target[j]}}})
			j++
		case j >= len(target):
			lines = append(lines, Line{Source: []Item{{Index: i, Cue: source[i]}}})
			i++
		case Match(source[i], target[j]):
			line := Line{
				Source: []Item{{Index: i, Cue: source[i]}},
				Target: []Item{{Index: j, Cue: target[j]}},
			}
			i, j = extend(&line, source, target, i+1, j+1)
			lines = append(lines, line)
		case sourceFirst(source[i], target[j]):
			lines = append(lines, Line{Source: []Item{{Index: i, Cue: source[i]}}})
			i++
		default:
			lines = append(lines, Line{Target: []Item{{Index: j, Cue: target[j]}}})
			j++
		}
	}

	return lines
}

// extend grows an open line greedily. The next candidate is the head of
// whichever track starts earlier; it joins when it matches a cue already in
// the line, or when the other track has nothing left to pair it with.
// Returns the advanced cursors.
func extend(line *Line, source, target []subtitle.Cue, i, j int) (int, int) {
	for i < len(source) || j < len(target) {
		takeSource := j >= len(target) ||
			(i < len(source) && sourceFirst(source[i], target[j]))

		if takeSource {
			if j < len(target) && !line.matches(source[i]) {
				break
			}
			line.Source = append(line.Source, Item{Index: i, Cue: source[i]})
			i++
			continue
		}

		if i < len(source) && !line.matches(target[j]) {
			break
		}
		line.Target = append(line.Target, Item{Index: j, Cue: target[j]})
		j++
	}
	return i, j
}

// earlier start wins, then earlier end, then the source track
func sourceFirst(s, t subtitle.Cue) bool {
	if s.Start != t.Start {
		return s.Start < t.Start
	}
	return s.End <= t.End
}
