package timeline

import (
	"time"

	"github.com/google/uuid"

	"github.com/dshills/ttedit/internal/engine/buffer"
)

// Snapshot is an immutable, labeled capture of file content.
type Snapshot struct {
	id        uuid.UUID
	label     string
	timestamp time.Time

	// content is never aliased with any other buffer.
	content buffer.LineBuffer
}

// newSnapshot captures a copy of content.
func newSnapshot(content buffer.LineBuffer, label string) *Snapshot {
	return &Snapshot{
		id:        uuid.New(),
		label:     label,
		timestamp: time.Now(),
		content:   content.Clone(),
	}
}

// ID uniquely identifies this snapshot across truncations.
func (s *Snapshot) ID() uuid.UUID {
	return s.id
}

// Label is a short description such as "replace line 2".
func (s *Snapshot) Label() string {
	return s.label
}

// Timestamp is when the snapshot was recorded.
func (s *Snapshot) Timestamp() time.Time {
	return s.timestamp
}

// Content returns a copy of the captured lines.
func (s *Snapshot) Content() buffer.LineBuffer {
	return s.content.Clone()
}

// LineCount returns the number of lines captured.
func (s *Snapshot) LineCount() int {
	return s.content.Len()
}

// Age returns how long ago this snapshot was recorded.
func (s *Snapshot) Age() time.Duration {
	return time.Since(s.timestamp)
}
