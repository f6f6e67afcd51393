package session

import (
	"slices"
	"strings"
	"time"

	"github.com/mgpai22/lipisync/internal/subtitle"
)

// source cues From..To (inclusive) aligned on the line the user clicked
type SourceRange struct {
	From int
	To   int
}

// InsertAt inserts an empty cue before target[position]. With a source
// range the cue spans the referenced source cues; otherwise it lasts the
// default duration from the previous cue's end, trimmed to the next cue.
// Appending always succeeds. A middle insertion that would overlap a
// neighbour, leave less than subtitle.MinGap of room, or leave a non-zero
// gap under subtitle.MinGap on either side is rejected and the current
// snapshot is returned with false. Touching neighbours are fine.
func (s *Session) InsertAt(position int, src *SourceRange) (*Snapshot, bool) {
	cur := s.state.Load()
	n := len(cur.Target)

	if position < 0 || position > n {
		s.reject("insert", "position out of range", "position", position, "cues", n)
		return cur, false
	}

	hasPrev := position > 0
	var prevEnd time.Duration
	if hasPrev {
		prevEnd = cur.Target[position-1].End
	}

	cue := subtitle.Cue{}
	if src != nil {
		if src.From < 0 || src.To < src.From || src.To >= len(cur.Source) {
			s.reject("insert", "source range out of range",
				"from", src.From, "to", src.To, "source_cues", len(cur.Source))
			return cur, false
		}
		first := cur.Source[src.From]
		cue.Start = first.Start
		cue.End = cur.Source[src.To].End
		cue.Category = first.Category
	} else {
		cue.Start = prevEnd
		if !hasPrev && s.bounded && position < n && cur.Target[0].Start < subtitle.MinGap {
			// no room above zero in a chunk; end the new head cue at the first one
			cue.Start = cur.Target[0].Start - s.defaultDuration
		}
		cue.End = cue.Start + s.defaultDuration
		if position < n {
			cue.End = min(cue.End, cur.Target[position].Start)
		}
	}

	if position == n {
		dur := cue.End - cue.Start
		if dur < subtitle.MinGap {
			dur = s.defaultDuration
		}
		// starts before the previous end, or within MinGap of it, snap to it
		if hasPrev && cue.Start-prevEnd < subtitle.MinGap {
			cue.Start = prevEnd
		}
		if !s.bounded {
			cue.Start = max(cue.Start, 0)
		}
		cue.End = cue.Start + dur
	} else {
		// without a previous cue, zero is the floor unless the track is a chunk
		lowerBound, floored := prevEnd, hasPrev || !s.bounded
		nextStart := cur.Target[position].Start
		switch {
		case floored && nextStart-lowerBound < subtitle.MinGap:
			s.reject("insert", "no room between neighbours", "position", position)
			return cur, false
		case floored && cue.Start < lowerBound, cue.End > nextStart:
			s.reject("insert", "would overlap a neighbour", "position", position)
			return cur, false
		case cue.End-cue.Start < subtitle.MinGap:
			s.reject("insert", "cue shorter than minimum", "position", position)
			return cur, false
		case hasPrev && gapUnderMin(prevEnd, cue.Start), gapUnderMin(cue.End, nextStart):
			s.reject("insert", "gap to a neighbour under minimum", "position", position)
			return cur, false
		}
	}

	target := make([]subtitle.Cue, 0, n+1)
	target = append(target, cur.Target[:position]...)
	target = append(target, cue)
	target = append(target, cur.Target[position:]...)

	if err := subtitle.ValidateTrack(target); err != nil {
		s.reject("insert", err.Error(), "position", position)
		return cur, false
	}

	snap := s.commit(cur.Source, target, false)
	s.logger.Debugw("Inserted cue",
		"position", position,
		"start", cue.Start,
		"end", cue.End,
	)
	return snap, true
}

// true when b follows a by more than zero but less than subtitle.MinGap
func gapUnderMin(a, b time.Duration) bool {
	return b > a && b-a < subtitle.MinGap
}

// SplitAt splits target[index] at the given time, or at its midpoint when
// at is nil. Both halves keep the category and metadata; the trailing half
// starts with no text. Split points leaving either half shorter than
// subtitle.MinGap are rejected and false is returned.
func (s *Session) SplitAt(index int, at *time.Duration) (*Snapshot, bool) {
	cur := s.state.Load()
	n := len(cur.Target)
	if index < 0 || index >= n {
		s.reject("split", "index out of range", "index", index, "cues", n)
		return cur, false
	}

	orig := cur.Target[index]
	// formats carry millisecond precision
	point := orig.Start + (orig.Duration() / 2).Round(time.Millisecond)
	if at != nil {
		point = *at
	}
	if point-orig.Start < subtitle.MinGap || orig.End-point < subtitle.MinGap {
		s.reject("split", "split point too close to a cue edge",
			"index", index, "at", point)
		return cur, false
	}

	head := orig.Clone()
	head.End = point
	tail := orig.Clone()
	tail.Start = point
	tail.Text = ""

	target := make([]subtitle.Cue, 0, n+1)
	target = append(target, cur.Target[:index]...)
	target = append(target, head, tail)
	target = append(target, cur.Target[index+1:]...)

	snap := s.commit(cur.Source, target, false)
	s.logger.Debugw("Split cue", "index", index, "at", point)
	return snap, true
}

// MergeRange merges a contiguous run of target cues into one cue covering
// all of them. Texts are joined with a space, the first cue's category is
// kept, and metadata is merged with earlier cues winning. Indices may come
// in any order. Fewer than two indices leave the session unchanged.
func (s *Session) MergeRange(indices []int) (*Snapshot, error) {
	cur := s.state.Load()
	if len(indices) < 2 {
		return cur, nil
	}

	n := len(cur.Target)
	sorted := slices.Clone(indices)
	slices.Sort(sorted)
	for k, idx := range sorted {
		if idx < 0 || idx >= n {
			return cur, validationErrorf(KindOutOfRange, "cue %d outside 0..%d", idx, n-1)
		}
		if k > 0 && idx != sorted[k-1]+1 {
			return cur, validationErrorf(
				KindNonContiguous,
				"cues %d and %d are not adjacent", sorted[k-1], idx,
			)
		}
	}
	first, last := sorted[0], sorted[len(sorted)-1]

	merged := cur.Target[first].Clone()
	var texts []string
	for _, c := range cur.Target[first : last+1] {
		merged.Start = min(merged.Start, c.Start)
		merged.End = max(merged.End, c.End)
		if t := strings.TrimSpace(c.Text); t != "" {
			texts = append(texts, t)
		}
		for k, v := range c.Meta {
			if merged.Meta == nil {
				merged.Meta = map[string]string{}
			}
			if _, ok := merged.Meta[k]; !ok {
				merged.Meta[k] = v
			}
		}
	}
	merged.Text = strings.Join(texts, " ")

	target := make([]subtitle.Cue, 0, n-(last-first))
	target = append(target, cur.Target[:first]...)
	target = append(target, merged)
	target = append(target, cur.Target[last+1:]...)

	if err := subtitle.ValidateTrack(target); err != nil {
		return cur, validationErrorf(KindOverlap, "%v", err)
	}

	snap := s.commit(cur.Source, target, false)
	s.logger.Debugw("Merged cues", "first", first, "last", last)
	return snap, nil
}

// ShiftAllTimes moves every cue in scope by delta. It fails with a
// ValidationError when the earliest shifted cue would start before zero
// (allowed for bounded chunk sessions) or when a partial shift collides
// with cues outside the scope. Nothing is applied on failure.
func (s *Session) ShiftAllTimes(delta time.Duration, scope Scope) (*Snapshot, error) {
	cur := s.state.Load()
	n := len(cur.Target)
	if n == 0 || delta == 0 {
		return cur, nil
	}

	lo, hi, err := scope.bounds(n)
	if err != nil {
		return cur, err
	}

	if start := cur.Target[lo].Start + delta; start < 0 && !s.bounded {
		return cur, validationErrorf(
			KindNegativeStart,
			"cue %d would start at %s", lo, subtitle.FormatTimestamp(start),
		)
	}

	target := subtitle.CloneCues(cur.Target)
	for k := lo; k < hi; k++ {
		target[k].Start += delta
		target[k].End += delta
	}

	if err := subtitle.ValidateTrack(target); err != nil {
		return cur, validationErrorf(KindOverlap, "shifting %s by %v: %v", scope, delta, err)
	}

	snap := s.commit(cur.Source, target, false)
	s.logger.Debugw("Shifted cues",
		"scope", scope.String(),
		"delta", delta,
		"cues", hi-lo,
	)
	return snap, nil
}

// SetText replaces the text of target[index]; timing is untouched.
func (s *Session) SetText(index int, text string) (*Snapshot, error) {
	cur := s.state.Load()
	n := len(cur.Target)
	if index < 0 || index >= n {
		return cur, validationErrorf(KindOutOfRange, "index %d out of range (0-%d)", index, n-1)
	}

	target := slices.Clone(cur.Target)
	target[index] = target[index].Clone()
	target[index].Text = text
	return s.commit(cur.Source, target, false), nil
}
