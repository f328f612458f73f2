package filestore

import (
	"errors"
	"fmt"
)

// Errors returned by file store operations.
var (
	// ErrIsDirectory indicates the path names a directory.
	ErrIsDirectory = errors.New("path is a directory")

	// ErrFileTooLarge indicates the file exceeds the configured size limit.
	ErrFileTooLarge = errors.New("file too large")

	// ErrBinaryFile indicates the file does not look like text.
	ErrBinaryFile = errors.New("binary file")

	// ErrReadOnly indicates a save was attempted on a read-only document.
	ErrReadOnly = errors.New("document is read-only")
)

// PathError records an error and the operation and file path that caused it.
type PathError struct {
	Op   string // Operation that failed (load, save, backup, stat)
	Path string // File path
	Err  error  // Underlying error
}

// Error implements the error interface.
func (e *PathError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

// Unwrap returns the underlying error.
func (e *PathError) Unwrap() error {
	return e.Err
}
