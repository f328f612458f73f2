// Package filestore loads the edited file into a LineBuffer and writes the
// timeline head back to disk.
//
// The first save of a session also writes the originally loaded content to
// a sibling backup file. Saves go through a temporary file in the same
// directory followed by a rename, so the target is never left half written.
package filestore

import (
	"io/fs"
	"strings"
	"sync"
	"time"

	"github.com/dshills/ttedit/internal/engine/buffer"
	"github.com/dshills/ttedit/internal/project/vfs"
)

// Document is a file opened for editing.
type Document struct {
	mu sync.RWMutex

	// Path is the absolute path to the file.
	Path string

	// Original is the content as it was loaded, before any edit.
	Original buffer.LineBuffer

	// LineEnding is the detected line ending style, reused on save.
	LineEnding vfs.LineEnding

	// BOM indicates the file started with a UTF-8 byte order mark.
	BOM bool

	// Existed is false when the file was missing at load time.
	Existed bool

	// Mode is the file mode used when writing.
	Mode fs.FileMode

	// OpenedAt is when the document was loaded.
	OpenedAt time.Time

	diskModTime time.Time
	backedUp    bool
	readOnly    bool
	savedAt     time.Time
}

// newDocument creates a Document from decoded file content.
func newDocument(path string, original buffer.LineBuffer, ending vfs.LineEnding, bom bool) *Document {
	return &Document{
		Path:       path,
		Original:   original.Clone(),
		LineEnding: ending,
		BOM:        bom,
		Mode:       0644,
		OpenedAt:   time.Now(),
	}
}

// DiskModTime returns the modification time recorded at load or last save.
func (d *Document) DiskModTime() time.Time {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.diskModTime
}

func (d *Document) setDiskModTime(t time.Time) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.diskModTime = t
}

// BackedUp reports whether the backup of Original has been written.
func (d *Document) BackedUp() bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.backedUp
}

// SavedAt returns the time of the last successful save, or the zero time.
func (d *Document) SavedAt() time.Time {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.savedAt
}

// ReadOnly reports whether saves are refused.
func (d *Document) ReadOnly() bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.readOnly
}

// SetReadOnly marks the document read-only.
func (d *Document) SetReadOnly(ro bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.readOnly = ro
}

// IsModified reports whether content differs from the loaded content.
func (d *Document) IsModified(content buffer.LineBuffer) bool {
	return !d.Original.Equal(content)
}

// Encode renders content as file bytes: lines joined with the document's
// line ending, a final terminator when content is non-empty, and the BOM
// when the original file had one.
func (d *Document) Encode(content buffer.LineBuffer) []byte {
	sep := d.LineEnding.Sequence()

	var sb strings.Builder
	sb.WriteString(content.Join(sep))
	if !content.IsEmpty() {
		sb.WriteString(sep)
	}

	data := []byte(sb.String())
	if d.BOM {
		data = vfs.AddBOM(data)
	}
	return data
}
