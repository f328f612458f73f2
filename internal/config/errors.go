package config

import (
	"errors"
	"fmt"
)

// Sentinels matched by the typed errors below.
var (
	ErrTypeMismatch     = errors.New("type mismatch")
	ErrValidationFailed = errors.New("validation failed")

	// ErrFileNotFound is returned only for a file named with WithFile.
	ErrFileNotFound = errors.New("config file not found")
)

// ValidationErrorCode categorizes validation errors.
type ValidationErrorCode uint8

const (
	ErrCodeOutOfRange ValidationErrorCode = iota
	ErrCodeInvalidEnum
	ErrCodeRequiredMissing
)

var codeNames = [...]string{
	ErrCodeOutOfRange:      "out_of_range",
	ErrCodeInvalidEnum:     "invalid_enum",
	ErrCodeRequiredMissing: "required_missing",
}

func (c ValidationErrorCode) String() string {
	if int(c) < len(codeNames) {
		return codeNames[c]
	}
	return "unknown"
}

// ValidationError reports a setting whose value was parsed but is not
// acceptable, e.g. editor.label_width = 2.
type ValidationError struct {
	Path    string // Setting path such as "logging.level"
	Message string
	Value   any
	Code    ValidationErrorCode
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s (value: %v)", e.Path, e.Message, e.Value)
}

// Is matches ErrValidationFailed.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidationFailed
}

// TypeError reports a setting whose value has the wrong type, e.g. a
// string where a boolean is expected.
type TypeError struct {
	Path     string
	Expected string
	Actual   string
}

func (e *TypeError) Error() string {
	return fmt.Sprintf("%s: expected %s, got %s", e.Path, e.Expected, e.Actual)
}

// Is matches ErrTypeMismatch.
func (e *TypeError) Is(target error) bool {
	return target == ErrTypeMismatch
}
