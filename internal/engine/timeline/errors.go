package timeline

import (
	"errors"
	"fmt"
)

// Errors returned by timeline operations.
var (
	// ErrIndexOutOfRange indicates a snapshot index outside [0, Len()).
	ErrIndexOutOfRange = errors.New("snapshot index out of range")

	// ErrEmptyTimeline indicates a Timeline that was not built with New.
	ErrEmptyTimeline = errors.New("timeline has no snapshots")
)

// IndexError describes a rejected snapshot index.
type IndexError struct {
	Op    string // "preview", "checkout" or "get"
	Index int
	Len   int
}

func (e *IndexError) Error() string {
	return fmt.Sprintf("%s %d: %v (valid 0..%d)", e.Op, e.Index, ErrIndexOutOfRange, e.Len-1)
}

// Unwrap returns ErrIndexOutOfRange so callers can use errors.Is.
func (e *IndexError) Unwrap() error {
	return ErrIndexOutOfRange
}
