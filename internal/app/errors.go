package app

import (
	"errors"
	"fmt"
)

// Application errors.
var (
	// ErrAlreadyRunning indicates the application is already running.
	ErrAlreadyRunning = errors.New("application already running")

	// ErrNoFile indicates no file path was given.
	ErrNoFile = errors.New("no file given")
)

// OperationError is a startup failure: loading configuration, opening the
// log file or opening the file to edit.
type OperationError struct {
	Op   string // "load config", "open log" or "open"
	Path string

	// FromFlags is set when the configuration only became invalid after
	// command-line overrides were applied.
	FromFlags bool

	Err error
}

// NewOperationError creates a new OperationError.
func NewOperationError(op, path string, err error) *OperationError {
	return &OperationError{Op: op, Path: path, Err: err}
}

func (e *OperationError) Error() string {
	msg := e.Op
	if e.Path != "" {
		msg += " " + e.Path
	}
	if e.FromFlags {
		msg += " (command-line flags)"
	}
	return fmt.Sprintf("%s: %v", msg, e.Err)
}

func (e *OperationError) Unwrap() error { return e.Err }
