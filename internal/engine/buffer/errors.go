package buffer

import (
	"errors"
	"fmt"
)

// ErrLineOutOfRange indicates a line number outside the valid range for an operation.
var ErrLineOutOfRange = errors.New("line number out of range")

// LineRangeError describes a rejected line number.
type LineRangeError struct {
	Op   string // Operation name ("replace", "insert", "delete", "line")
	Line int    // Requested line number
	Len  int    // Buffer length at the time of the request
}

func (e *LineRangeError) Error() string {
	upper := e.Len - 1
	if e.Op == "insert" {
		upper = e.Len
	}
	if upper < 0 {
		return fmt.Sprintf("%s line %d: %v (buffer is empty)", e.Op, e.Line, ErrLineOutOfRange)
	}
	return fmt.Sprintf("%s line %d: %v (valid 0..%d)", e.Op, e.Line, ErrLineOutOfRange, upper)
}

// Unwrap returns ErrLineOutOfRange so callers can use errors.Is.
func (e *LineRangeError) Unwrap() error {
	return ErrLineOutOfRange
}
