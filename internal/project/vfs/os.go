package vfs

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
)

// OSFS is the VFS backed by the operating system.
type OSFS struct{}

var _ VFS = (*OSFS)(nil)

// NewOSFS returns the OS file system.
func NewOSFS() *OSFS {
	return &OSFS{}
}

func (*OSFS) ReadFile(path string) ([]byte, error) { return os.ReadFile(path) }
func (*OSFS) Stat(path string) (FileInfo, error)   { return os.Stat(path) }
func (*OSFS) Rename(oldPath, newPath string) error { return os.Rename(oldPath, newPath) }
func (*OSFS) Remove(path string) error             { return os.Remove(path) }
func (*OSFS) Abs(path string) (string, error)      { return filepath.Abs(path) }
func (*OSFS) Dir(path string) string               { return filepath.Dir(path) }
func (*OSFS) Base(path string) string              { return filepath.Base(path) }
func (*OSFS) Join(elem ...string) string           { return filepath.Join(elem...) }

// WriteFile writes data and fsyncs it before closing, so a rename that
// follows never exposes a partially written file after a crash.
func (*OSFS) WriteFile(path string, data []byte, perm fs.FileMode) (err error) {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, perm)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()

	if _, err = f.Write(data); err != nil {
		return err
	}
	return f.Sync()
}

// Exists treats permission errors as existing.
func (*OSFS) Exists(path string) bool {
	_, err := os.Stat(path)
	return !errors.Is(err, fs.ErrNotExist)
}
