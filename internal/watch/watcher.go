package watch

import (
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
)

// Kind classifies a change event.
type Kind int

const (
	// KindCreate indicates a new file or directory appeared.
	KindCreate Kind = iota
	// KindModify indicates existing content changed.
	KindModify
	// KindRemove indicates something was deleted or renamed away.
	KindRemove
)

// String returns a human-readable representation of the kind.
func (k Kind) String() string {
	switch k {
	case KindCreate:
		return "create"
	case KindModify:
		return "modify"
	case KindRemove:
		return "remove"
	default:
		return "unknown"
	}
}

// Event is a change observed somewhere inside the watched tree.
type Event struct {
	// Path is the absolute path the change resolved to.
	Path string
	// IsDir marks directory-level changes.
	IsDir bool
	// Kind is the operation that occurred.
	Kind Kind
}

// Watcher delivers change events for an entire directory tree.
//
// fsnotify only watches a single directory level, so the watcher adds
// every directory it finds when started and every directory it later
// observes being created. Removals cannot be classified on their own
// (the path is already gone), so they surface as a directory-level
// event on the enclosing directory, which is where reconciliation picks
// the deletion up.
type Watcher struct {
	fsw     *fsnotify.Watcher
	events  chan Event
	errors  chan error
	done    chan struct{}
	wg      sync.WaitGroup
	mu      sync.Mutex
	running bool
	logger  *slog.Logger
}

// NewWatcher creates a watcher. It must be started with Start before it
// emits events.
func NewWatcher(logger *slog.Logger) (*Watcher, error) {
	if logger == nil {
		logger = slog.Default()
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}
	return &Watcher{
		fsw:    fsw,
		events: make(chan Event, 100),
		errors: make(chan error, 10),
		done:   make(chan struct{}),
		logger: logger,
	}, nil
}

// Start subscribes to the whole tree rooted at root and begins emitting
// events on Events.
func (w *Watcher) Start(root string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.running {
		return fmt.Errorf("watcher already running")
	}

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if err := w.fsw.Add(path); err != nil {
			return fmt.Errorf("failed to watch %s: %w", path, err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	w.running = true
	w.wg.Add(1)
	go w.processEvents()
	return nil
}

// Stop stops the subscription and waits for the event goroutine to
// finish before closing the Events and Errors channels.
func (w *Watcher) Stop() error {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return nil
	}
	w.running = false
	w.mu.Unlock()

	close(w.done)
	if err := w.fsw.Close(); err != nil {
		return fmt.Errorf("failed to close watcher: %w", err)
	}
	w.wg.Wait()

	close(w.events)
	close(w.errors)
	return nil
}

// Events returns the channel emitting change events. It is closed when
// the watcher is stopped.
func (w *Watcher) Events() <-chan Event {
	return w.events
}

// Errors returns the channel emitting backend errors. It is closed when
// the watcher is stopped.
func (w *Watcher) Errors() <-chan error {
	return w.errors
}

// IsRunning reports whether the watcher is currently started.
func (w *Watcher) IsRunning() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.running
}

// Drain discards every event currently buffered, without blocking, and
// returns how many were dropped.
func (w *Watcher) Drain() int {
	n := 0
	for {
		select {
		case _, ok := <-w.events:
			if !ok {
				return n
			}
			n++
		default:
			return n
		}
	}
}

func (w *Watcher) processEvents() {
	defer w.wg.Done()

	for {
		select {
		case <-w.done:
			return

		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if ev, ok := w.translate(event); ok {
				select {
				case w.events <- ev:
				case <-w.done:
					return
				}
			}

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			select {
			case w.errors <- err:
			case <-w.done:
				return
			}
		}
	}
}

// translate converts a raw fsnotify event into an Event. New directories
// are added to the subscription here, keeping the watch recursive.
func (w *Watcher) translate(event fsnotify.Event) (Event, bool) {
	switch {
	case event.Has(fsnotify.Create):
		info, err := os.Stat(event.Name)
		if err != nil {
			// Already gone again; nothing to classify.
			return Event{}, false
		}
		if info.IsDir() {
			if err := w.fsw.Add(event.Name); err != nil {
				w.logger.Warn("failed to watch new directory", "path", event.Name, "error", err)
			}
			return Event{Path: event.Name, IsDir: true, Kind: KindCreate}, true
		}
		return Event{Path: event.Name, IsDir: false, Kind: KindCreate}, true

	case event.Has(fsnotify.Write):
		return Event{Path: event.Name, IsDir: false, Kind: KindModify}, true

	case event.Has(fsnotify.Remove), event.Has(fsnotify.Rename):
		return Event{Path: filepath.Dir(event.Name), IsDir: true, Kind: KindRemove}, true

	default:
		// Chmod and friends carry no content change.
		return Event{}, false
	}
}
