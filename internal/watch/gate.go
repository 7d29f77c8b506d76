package watch

import (
	"log/slog"
	"sync"
	"time"
)

// DefaultDrainDelay is how long Resume waits for the backend to finish
// queuing events caused by the protected writes before discarding them.
const DefaultDrainDelay = time.Second

// Gate hides the mirror engine's own filesystem writes from the watch
// loop. The loop runs every handler inside Protect: while the gate is
// paused nothing else is dispatched, and on resume the gate sleeps one
// drain delay and then discards everything the watcher buffered in the
// meantime. Correctness relies on the watcher's internal queue, not on
// OS-level delivery guarantees beyond "eventually queued".
type Gate struct {
	watcher *Watcher
	delay   time.Duration
	logger  *slog.Logger

	mu     sync.Mutex
	paused bool
}

// NewGate wraps the given watcher. A non-positive delay falls back to
// DefaultDrainDelay.
func NewGate(w *Watcher, delay time.Duration, logger *slog.Logger) *Gate {
	if delay <= 0 {
		delay = DefaultDrainDelay
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Gate{watcher: w, delay: delay, logger: logger}
}

// Pause stops event dispatch.
func (g *Gate) Pause() {
	g.mu.Lock()
	g.paused = true
	g.mu.Unlock()
	g.logger.Debug("pausing event dispatch")
}

// Resume waits one drain delay so interim events finish queuing, clears
// the watcher's buffer, and re-enables dispatch.
func (g *Gate) Resume() {
	time.Sleep(g.delay)
	n := g.watcher.Drain()

	g.mu.Lock()
	g.paused = false
	g.mu.Unlock()
	g.logger.Debug("resuming event dispatch", "discarded", n)
}

// Paused reports whether dispatch is currently suppressed.
func (g *Gate) Paused() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.paused
}

// Protect runs fn with the gate paused. Resume runs on every exit path,
// error or not, so the gate can never be left closed.
func (g *Gate) Protect(fn func() error) error {
	g.Pause()
	defer g.Resume()
	return fn()
}
