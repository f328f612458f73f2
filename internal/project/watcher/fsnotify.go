package watcher

import (
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"
)

// FileWatcher watches a single file using fsnotify.
type FileWatcher struct {
	mu sync.Mutex

	watcher *fsnotify.Watcher
	config  Config

	// path is the absolute path of the watched file.
	path string

	events chan Event
	errors chan error

	totalEvents int64

	closed   bool
	closeCh  chan struct{}
	closedWg sync.WaitGroup
}

// New starts watching path. The file itself may not exist yet, but its
// directory must.
func New(path string, opts ...Option) (*FileWatcher, error) {
	config := DefaultConfig()
	for _, opt := range opts {
		opt(&config)
	}
	if config.DebounceDelay <= 0 {
		config.DebounceDelay = DefaultConfig().DebounceDelay
	}
	if config.BufferSize <= 0 {
		config.BufferSize = DefaultConfig().BufferSize
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}

	dir := filepath.Dir(absPath)
	info, err := os.Stat(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrPathNotExist
		}
		return nil, err
	}
	if !info.IsDir() {
		return nil, ErrPathNotExist
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fsw.Add(dir); err != nil {
		_ = fsw.Close()
		return nil, err
	}

	w := &FileWatcher{
		watcher: fsw,
		config:  config,
		path:    absPath,
		events:  make(chan Event, config.BufferSize),
		errors:  make(chan error, config.BufferSize),
		closeCh: make(chan struct{}),
	}

	w.closedWg.Add(1)
	go w.processLoop()

	return w, nil
}

// Path returns the absolute path of the watched file.
func (w *FileWatcher) Path() string {
	return w.path
}

// Events returns the event channel.
// The channel is closed when the watcher is closed.
func (w *FileWatcher) Events() <-chan Event {
	return w.events
}

// Errors returns the error channel.
// The channel is closed when the watcher is closed.
func (w *FileWatcher) Errors() <-chan error {
	return w.errors
}

// TotalEvents returns the number of events delivered so far.
func (w *FileWatcher) TotalEvents() int64 {
	return atomic.LoadInt64(&w.totalEvents)
}

// Close stops the watcher. Pending, undelivered events are discarded.
func (w *FileWatcher) Close() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil
	}
	w.closed = true
	close(w.closeCh)
	w.mu.Unlock()

	w.closedWg.Wait()

	close(w.events)
	close(w.errors)

	return w.watcher.Close()
}

// processLoop handles incoming fsnotify events and coalesces them.
func (w *FileWatcher) processLoop() {
	defer w.closedWg.Done()

	var (
		pending   Op
		lastSeen  time.Time
		timer     *time.Timer
		timerChan <-chan time.Time
	)

	for {
		select {
		case <-w.closeCh:
			if timer != nil {
				timer.Stop()
			}
			return

		case fsEvent, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			op := convertOp(fsEvent.Op)
			if op == 0 || filepath.Clean(fsEvent.Name) != w.path {
				continue
			}
			pending |= op
			lastSeen = time.Now()
			if timer == nil {
				timer = time.NewTimer(w.config.DebounceDelay)
			} else {
				if !timer.Stop() {
					select {
					case <-timer.C:
					default:
					}
				}
				timer.Reset(w.config.DebounceDelay)
			}
			timerChan = timer.C

		case <-timerChan:
			timerChan = nil
			w.sendEvent(Event{Path: w.path, Op: pending, Timestamp: lastSeen})
			pending = 0

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.sendError(err)
		}
	}
}

// convertOp converts fsnotify.Op to watcher.Op.
func convertOp(fsOp fsnotify.Op) Op {
	var op Op
	if fsOp.Has(fsnotify.Create) {
		op |= OpCreate
	}
	if fsOp.Has(fsnotify.Write) {
		op |= OpWrite
	}
	if fsOp.Has(fsnotify.Remove) {
		op |= OpRemove
	}
	if fsOp.Has(fsnotify.Rename) {
		op |= OpRename
	}
	if fsOp.Has(fsnotify.Chmod) {
		op |= OpChmod
	}
	return op
}

// sendEvent sends an event to the output channel.
func (w *FileWatcher) sendEvent(event Event) {
	select {
	case w.events <- event:
		atomic.AddInt64(&w.totalEvents, 1)
	default:
		// Channel full; the reader only needs to know something changed.
	}
}

// sendError sends an error to the output channel.
func (w *FileWatcher) sendError(err error) {
	select {
	case w.errors <- err:
	default:
	}
}
