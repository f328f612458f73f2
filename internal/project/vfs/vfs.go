// Package vfs abstracts the handful of file operations the file store
// performs, so saving and loading can be tested against MemFS instead of
// the real disk.
package vfs

import "io/fs"

// FileInfo is the result of Stat.
type FileInfo = fs.FileInfo

// VFS is the file system seen by the file store. Paths are absolute once
// they have passed through Abs.
type VFS interface {
	ReadFile(path string) ([]byte, error)

	// WriteFile creates or truncates path. The parent directory must exist.
	WriteFile(path string, data []byte, perm fs.FileMode) error

	Stat(path string) (FileInfo, error)

	// Rename replaces newPath if it exists. The store relies on this for
	// atomic saves.
	Rename(oldPath, newPath string) error

	Remove(path string) error

	// Exists reports false only when the path is known not to exist.
	Exists(path string) bool

	// Path helpers in the file system's own syntax.
	Abs(path string) (string, error)
	Dir(path string) string
	Base(path string) string
	Join(elem ...string) string
}
