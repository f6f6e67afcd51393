package export

import (
	"cmp"
	"slices"

	"github.com/mgpai22/lipisync/internal/align"
	"github.com/mgpai22/lipisync/internal/subtitle"
)

// Bilingual flattens aligned lines into a single subtitle track. Each target
// cue shows its own text with the source text it overlaps underneath. Source
// cues no target cue overlaps keep a cue of their own, so nothing on screen
// goes missing; this covers source-only lines and trailing source cues the
// aligner folded into the last paired line.
func Bilingual(lines []align.Line) *subtitle.Subtitle {
	sub := &subtitle.Subtitle{Cues: []subtitle.Cue{}}

	for _, line := range lines {
		shown := make([]bool, len(line.Source))
		for _, it := range line.Target {
			for k, src := range line.Source {
				if align.OverlapRatio(it.Cue, src.Cue) > 0 {
					shown[k] = true
				}
			}
			c := it.Cue.Clone()
			c.Text = stack(c.Text, line.SourceTextFor(it.Cue))
			sub.Cues = append(sub.Cues, c)
		}
		for k, src := range line.Source {
			if !shown[k] {
				sub.Cues = append(sub.Cues, src.Cue.Clone())
			}
		}
	}

	slices.SortStableFunc(sub.Cues, func(a, b subtitle.Cue) int {
		return cmp.Compare(a.Start, b.Start)
	})
	return sub
}

func stack(top, bottom string) string {
	switch {
	case bottom == "":
		return top
	case top == "":
		return bottom
	default:
		return top + "\n" + bottom
	}
}
