// Package align merges a source and a target cue track into display lines.
package align

import (
	"github.com/mgpai22/lipisync/internal/subtitle"
)

// MatchThreshold is the fraction of the shorter cue that must be covered by
// the overlap for two cues to belong to the same line.
const MatchThreshold = 0.65

// OverlapRatio returns the overlap of a and b divided by the duration of the
// shorter of the two, or 0 when either cue has no duration.
func OverlapRatio(a, b subtitle.Cue) float64 {
	shorter := min(a.Duration(), b.Duration())
	if shorter <= 0 {
		return 0
	}
	overlap := min(a.End, b.End) - max(a.Start, b.Start)
	if overlap <= 0 {
		return 0
	}
	return float64(overlap) / float64(shorter)
}

// Match reports whether a and b overlap by at least MatchThreshold of the
// shorter cue. A long cue that only grazes a short neighbour does not match,
// while one that contains it does.
func Match(a, b subtitle.Cue) bool {
	return OverlapRatio(a, b) >= MatchThreshold
}
