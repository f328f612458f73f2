package filestore

import (
	"context"
	"errors"
	"io/fs"
	"time"

	"github.com/google/uuid"

	"github.com/dshills/ttedit/internal/engine/buffer"
	"github.com/dshills/ttedit/internal/project/vfs"
)

// Defaults for a Store.
const (
	DefaultBackupSuffix = ".bak"
	DefaultMaxFileSize  = 10 * 1024 * 1024 // 10MB
)

// Store reads and writes edited files through a VFS.
type Store struct {
	vfs vfs.VFS

	// Configuration
	backupSuffix  string
	maxFileSize   int64 // Maximum file size to open (0 = unlimited)
	createMissing bool
}

// Option configures a Store.
type Option func(*Store)

// WithBackupSuffix sets the suffix appended to the path for the backup file.
func WithBackupSuffix(suffix string) Option {
	return func(s *Store) {
		if suffix != "" {
			s.backupSuffix = suffix
		}
	}
}

// WithMaxFileSize sets the maximum file size.
func WithMaxFileSize(size int64) Option {
	return func(s *Store) {
		s.maxFileSize = size
	}
}

// WithCreateMissing controls whether Load creates an empty file when the
// path does not exist.
func WithCreateMissing(create bool) Option {
	return func(s *Store) {
		s.createMissing = create
	}
}

// NewStore creates a Store on top of v.
func NewStore(v vfs.VFS, opts ...Option) *Store {
	s := &Store{
		vfs:           v,
		backupSuffix:  DefaultBackupSuffix,
		maxFileSize:   DefaultMaxFileSize,
		createMissing: true,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// BackupPath returns the backup path for doc.
func (s *Store) BackupPath(doc *Document) string {
	return doc.Path + s.backupSuffix
}

// Load reads path into a Document. A missing file yields an empty Document;
// when the store creates missing files, an empty file is written as well.
func (s *Store) Load(ctx context.Context, path string) (*Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	absPath, err := s.vfs.Abs(path)
	if err != nil {
		return nil, &PathError{Op: "load", Path: path, Err: err}
	}

	info, err := s.vfs.Stat(absPath)
	if errors.Is(err, fs.ErrNotExist) {
		return s.loadMissing(absPath)
	}
	if err != nil {
		return nil, &PathError{Op: "load", Path: absPath, Err: err}
	}
	if info.IsDir() {
		return nil, &PathError{Op: "load", Path: absPath, Err: ErrIsDirectory}
	}
	if s.maxFileSize > 0 && info.Size() > s.maxFileSize {
		return nil, &PathError{Op: "load", Path: absPath, Err: ErrFileTooLarge}
	}

	data, err := s.vfs.ReadFile(absPath)
	if err != nil {
		return nil, &PathError{Op: "load", Path: absPath, Err: err}
	}
	if vfs.IsBinary(data) {
		return nil, &PathError{Op: "load", Path: absPath, Err: ErrBinaryFile}
	}

	content, bom := vfs.StripBOM(data)
	doc := newDocument(absPath, buffer.FromText(string(content)), vfs.DetectLineEnding(content), bom)
	doc.Existed = true
	doc.Mode = info.Mode().Perm()
	doc.diskModTime = info.ModTime()
	return doc, nil
}

// loadMissing builds the Document for a path that does not exist.
func (s *Store) loadMissing(absPath string) (*Document, error) {
	doc := newDocument(absPath, buffer.LineBuffer{}, vfs.LineEndingLF, false)
	if !s.createMissing {
		return doc, nil
	}

	if err := s.vfs.WriteFile(absPath, nil, doc.Mode); err != nil {
		return nil, &PathError{Op: "create", Path: absPath, Err: err}
	}
	if info, err := s.vfs.Stat(absPath); err == nil {
		doc.setDiskModTime(info.ModTime())
	}
	return doc, nil
}

// SaveResult describes a completed save.
type SaveResult struct {
	// Path is the file that was written.
	Path string

	// Bytes is the number of bytes written to Path.
	Bytes int

	// BackupPath is where the original content is kept.
	BackupPath string

	// BackupWritten is true when this save wrote the backup.
	BackupWritten bool

	// BackedUp is true when a backup exists at BackupPath, written by this
	// save or an earlier one.
	BackedUp bool

	// BackupErr is set when writing the backup failed. The save itself
	// still happened; the backup is retried on the next save.
	BackupErr error
}

// Save writes content to doc's path. The first save of a file that existed
// at load time also writes doc.Original to the backup path.
func (s *Store) Save(ctx context.Context, doc *Document, content buffer.LineBuffer) (SaveResult, error) {
	if err := ctx.Err(); err != nil {
		return SaveResult{}, err
	}
	if doc.ReadOnly() {
		return SaveResult{}, &PathError{Op: "save", Path: doc.Path, Err: ErrReadOnly}
	}

	result := SaveResult{Path: doc.Path, BackupPath: s.BackupPath(doc)}

	if doc.Existed && !doc.BackedUp() {
		if err := s.vfs.WriteFile(result.BackupPath, doc.Encode(doc.Original), doc.Mode); err != nil {
			result.BackupErr = &PathError{Op: "backup", Path: result.BackupPath, Err: err}
		} else {
			result.BackupWritten = true
			doc.mu.Lock()
			doc.backedUp = true
			doc.mu.Unlock()
		}
	}

	result.BackedUp = doc.BackedUp()

	data := doc.Encode(content)
	if err := s.writeAtomic(doc.Path, data, doc.Mode); err != nil {
		return result, &PathError{Op: "save", Path: doc.Path, Err: err}
	}
	result.Bytes = len(data)

	if info, err := s.vfs.Stat(doc.Path); err == nil {
		doc.setDiskModTime(info.ModTime())
	}
	doc.mu.Lock()
	doc.savedAt = time.Now()
	doc.mu.Unlock()

	return result, nil
}

// writeAtomic writes data to a temporary sibling file and renames it over path.
func (s *Store) writeAtomic(path string, data []byte, perm fs.FileMode) error {
	tmp := s.vfs.Join(s.vfs.Dir(path), "."+s.vfs.Base(path)+".ttedit-"+uuid.NewString()+".tmp")

	if err := s.vfs.WriteFile(tmp, data, perm); err != nil {
		return err
	}
	if err := s.vfs.Rename(tmp, path); err != nil {
		_ = s.vfs.Remove(tmp)
		return err
	}
	return nil
}

// CheckExternalChange reports whether the file on disk changed since it was
// loaded or last saved.
func (s *Store) CheckExternalChange(doc *Document) (bool, error) {
	info, err := s.vfs.Stat(doc.Path)
	if errors.Is(err, fs.ErrNotExist) {
		// A file that never existed and was not created is not a change.
		return !doc.DiskModTime().IsZero(), nil
	}
	if err != nil {
		return false, &PathError{Op: "stat", Path: doc.Path, Err: err}
	}
	return !info.ModTime().Equal(doc.DiskModTime()), nil
}
