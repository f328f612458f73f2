// Package session applies line edits to a working buffer and records every
// successful edit as a new snapshot on the session's timeline.
package session

import (
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/dshills/ttedit/internal/engine/buffer"
	"github.com/dshills/ttedit/internal/engine/timeline"
)

// ErrReadOnly indicates a mutating operation on a read-only session.
var ErrReadOnly = errors.New("session is read-only")

// Labels recorded for line edits.
func replaceLabel(n int) string { return fmt.Sprintf("replace line %d", n) }
func insertLabel(n int) string  { return fmt.Sprintf("insert before line %d", n) }
func deleteLabel(n int) string  { return fmt.Sprintf("delete line %d", n) }

// Commit describes a snapshot recorded by the session.
type Commit struct {
	Index int    // Timeline index of the new snapshot
	Label string // Snapshot label
	Lines int    // Line count of the new working buffer
}

// Option configures a Session during creation.
type Option func(*Session)

// WithReadOnly creates a session that rejects edits and checkouts.
func WithReadOnly() Option {
	return func(s *Session) {
		s.readOnly = true
	}
}

// Session pairs a Timeline with the working buffer it describes.
// The working buffer always equals the content of the timeline's head.
type Session struct {
	mu sync.Mutex

	id       uuid.UUID
	timeline *timeline.Timeline
	working  buffer.LineBuffer
	readOnly bool

	onCommit []func(Commit)
}

// New creates a session whose timeline starts with initial.
func New(initial buffer.LineBuffer, opts ...Option) *Session {
	s := &Session{
		id:       uuid.New(),
		timeline: timeline.New(initial),
		working:  initial.Clone(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ID returns the session identifier.
func (s *Session) ID() uuid.UUID {
	return s.id
}

// ReadOnly reports whether the session rejects edits.
func (s *Session) ReadOnly() bool {
	return s.readOnly
}

// Timeline returns the session's timeline.
func (s *Session) Timeline() *timeline.Timeline {
	return s.timeline
}

// Buffer returns the working buffer.
func (s *Session) Buffer() buffer.LineBuffer {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.working.Clone()
}

// Current returns the head snapshot.
func (s *Session) Current() (*timeline.Snapshot, error) {
	return s.timeline.Current()
}

// OnCommit registers a handler called after every recorded snapshot.
func (s *Session) OnCommit(handler func(Commit)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onCommit = append(s.onCommit, handler)
}

// Replace sets line n to text. Returns the new snapshot index.
func (s *Session) Replace(n int, text string) (int, error) {
	return s.apply(replaceLabel(n), func(b buffer.LineBuffer) (buffer.LineBuffer, error) {
		return b.Replace(n, text)
	})
}

// Insert inserts text before line n; n == line count appends.
// Returns the new snapshot index.
func (s *Session) Insert(n int, text string) (int, error) {
	return s.apply(insertLabel(n), func(b buffer.LineBuffer) (buffer.LineBuffer, error) {
		return b.Insert(n, text)
	})
}

// Delete removes line n. Returns the new snapshot index.
func (s *Session) Delete(n int) (int, error) {
	return s.apply(deleteLabel(n), func(b buffer.LineBuffer) (buffer.LineBuffer, error) {
		return b.Delete(n)
	})
}

// Preview returns the content of snapshot index without changing anything.
func (s *Session) Preview(index int) (buffer.LineBuffer, error) {
	return s.timeline.Preview(index)
}

// Checkout makes a copy of snapshot index the new head, discarding later
// snapshots, and adopts its content as the working buffer.
// Returns the index of the new head.
func (s *Session) Checkout(index int) (int, error) {
	if s.readOnly {
		return 0, ErrReadOnly
	}

	s.mu.Lock()
	content, err := s.timeline.Checkout(index)
	if err != nil {
		s.mu.Unlock()
		return 0, err
	}
	s.working = content
	commit := Commit{Index: s.timeline.Head(), Label: timeline.CheckoutLabel(index), Lines: content.Len()}
	handlers := s.handlersLocked()
	s.mu.Unlock()

	notify(handlers, commit)
	return commit.Index, nil
}

// apply validates and performs edit on the working buffer, then records it.
// On failure neither the buffer nor the timeline changes.
func (s *Session) apply(label string, edit func(buffer.LineBuffer) (buffer.LineBuffer, error)) (int, error) {
	if s.readOnly {
		return 0, ErrReadOnly
	}

	s.mu.Lock()
	next, err := edit(s.working)
	if err != nil {
		s.mu.Unlock()
		return 0, err
	}
	s.working = next
	idx := s.timeline.Push(next, label)
	commit := Commit{Index: idx, Label: label, Lines: next.Len()}
	handlers := s.handlersLocked()
	s.mu.Unlock()

	notify(handlers, commit)
	return idx, nil
}

// handlersLocked copies the handler slice so it can be called unlocked.
func (s *Session) handlersLocked() []func(Commit) {
	handlers := make([]func(Commit), len(s.onCommit))
	copy(handlers, s.onCommit)
	return handlers
}

func notify(handlers []func(Commit), c Commit) {
	for _, h := range handlers {
		h(c)
	}
}
