package session

import "fmt"

type scopeKind int

const (
	scopeAll scopeKind = iota
	scopeBefore
	scopeAfter
)

// which target cues ShiftAllTimes moves
type Scope struct {
	kind  scopeKind
	index int
}

// every cue
func All() Scope { return Scope{kind: scopeAll} }

// cues 0 through index, inclusive
func Before(index int) Scope { return Scope{kind: scopeBefore, index: index} }

// cues index through the last, inclusive
func After(index int) Scope { return Scope{kind: scopeAfter, index: index} }

func (sc Scope) String() string {
	switch sc.kind {
	case scopeBefore:
		return fmt.Sprintf("before(%d)", sc.index)
	case scopeAfter:
		return fmt.Sprintf("after(%d)", sc.index)
	default:
		return "all"
	}
}

// bounds returns the half-open index range [lo, hi) covered in a track of n cues.
func (sc Scope) bounds(n int) (lo, hi int, err error) {
	if sc.kind == scopeAll {
		return 0, n, nil
	}
	if sc.index < 0 || sc.index >= n {
		return 0, 0, validationErrorf(
			KindOutOfRange,
			"scope index %d outside 0..%d", sc.index, n-1,
		)
	}
	if sc.kind == scopeBefore {
		return 0, sc.index + 1, nil
	}
	return sc.index, n, nil
}
