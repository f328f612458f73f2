package timeline

import (
	"fmt"
	"iter"
	"slices"
	"sync"

	"github.com/dshills/ttedit/internal/engine/buffer"
)

// Labels recorded by the timeline itself.
const (
	// LabelInitial labels the snapshot created by New.
	LabelInitial = "initial load"
)

// CheckoutLabel returns the label recorded for a checkout of index.
func CheckoutLabel(index int) string {
	return fmt.Sprintf("checkout state %d", index)
}

// Timeline holds an ordered sequence of snapshots and the head position.
type Timeline struct {
	mu sync.RWMutex

	snapshots []*Snapshot
	head      int
}

// New creates a timeline whose only snapshot is initial, labeled "initial load".
func New(initial buffer.LineBuffer) *Timeline {
	return &Timeline{
		snapshots: []*Snapshot{newSnapshot(initial, LabelInitial)},
		head:      0,
	}
}

// Push records a copy of content as a new snapshot and makes it the head.
// Returns the new snapshot's index.
func (t *Timeline) Push(content buffer.LineBuffer, label string) int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.pushLocked(content, label)
}

// pushLocked appends without acquiring the lock.
func (t *Timeline) pushLocked(content buffer.LineBuffer, label string) int {
	t.snapshots = append(t.snapshots, newSnapshot(content, label))
	t.head = len(t.snapshots) - 1
	return t.head
}

// Preview returns a copy of the content at index.
// It never changes the snapshots or the head.
func (t *Timeline) Preview(index int) (buffer.LineBuffer, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if err := t.checkIndex("preview", index); err != nil {
		return buffer.LineBuffer{}, err
	}
	return t.snapshots[index].Content(), nil
}

// Checkout discards every snapshot after index, then appends a copy of the
// snapshot at index as the new head. Returns a copy of that content.
func (t *Timeline) Checkout(index int) (buffer.LineBuffer, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if err := t.checkIndex("checkout", index); err != nil {
		return buffer.LineBuffer{}, err
	}

	target := t.snapshots[index]

	// Clear the discarded tail so the old snapshots can be collected.
	clear(t.snapshots[index+1:])
	t.snapshots = t.snapshots[:index+1]

	t.pushLocked(target.content, CheckoutLabel(index))
	return target.Content(), nil
}

// Current returns the head snapshot.
func (t *Timeline) Current() (*Snapshot, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if len(t.snapshots) == 0 {
		return nil, ErrEmptyTimeline
	}
	return t.snapshots[t.head], nil
}

// Get returns the snapshot at index.
func (t *Timeline) Get(index int) (*Snapshot, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if err := t.checkIndex("get", index); err != nil {
		return nil, err
	}
	return t.snapshots[index], nil
}

// All returns an iterator over (index, snapshot) pairs in insertion order.
// Each call to the iterator walks the sequence as it was when that walk
// started; the iterator can be ranged over any number of times.
func (t *Timeline) All() iter.Seq2[int, *Snapshot] {
	return func(yield func(int, *Snapshot) bool) {
		t.mu.RLock()
		snaps := slices.Clone(t.snapshots)
		t.mu.RUnlock()

		for i, snap := range snaps {
			if !yield(i, snap) {
				return
			}
		}
	}
}

// Len returns the number of snapshots.
func (t *Timeline) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.snapshots)
}

// Head returns the index of the head snapshot.
func (t *Timeline) Head() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.head
}

// checkIndex validates index against the current sequence.
func (t *Timeline) checkIndex(op string, index int) error {
	if index < 0 || index >= len(t.snapshots) {
		return &IndexError{Op: op, Index: index, Len: len(t.snapshots)}
	}
	return nil
}
