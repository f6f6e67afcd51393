package session

import (
	"errors"
	"fmt"
)

// ErrValidation is wrapped by every ValidationError.
var ErrValidation = errors.New("validation failed")

// what a rejected edit would have broken
type Kind int

const (
	KindNegativeStart Kind = iota + 1
	KindNonContiguous
	KindOutOfRange
	KindOverlap
)

func (k Kind) String() string {
	switch k {
	case KindNegativeStart:
		return "negative start"
	case KindNonContiguous:
		return "non-contiguous selection"
	case KindOutOfRange:
		return "index out of range"
	case KindOverlap:
		return "overlap"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// ValidationError is the recoverable signal returned by ShiftAllTimes and
// MergeRange. The session is left exactly as it was before the call.
type ValidationError struct {
	Kind    Kind
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

func validationErrorf(kind Kind, format string, args ...any) *ValidationError {
	return &ValidationError{Kind: kind, Message: fmt.Sprintf(format, args...)}
}
