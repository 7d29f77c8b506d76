package watch

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/pitwall/setupsync/internal/mirror"
	"github.com/pitwall/setupsync/internal/setups"
)

// Config holds tunables for the watch loop.
type Config struct {
	// DrainDelay is how long the suppression gate waits after a sync
	// before discarding the events the sync itself generated.
	DrainDelay time.Duration

	// Logger for loop activity.
	Logger *slog.Logger
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		DrainDelay: DefaultDrainDelay,
		Logger:     slog.Default(),
	}
}

// Loop owns the watcher, the suppression gate and the mirror engine,
// and runs them as the long-lived watch process. Events are handled
// strictly one at a time; no two mirror passes ever overlap.
type Loop struct {
	root    string
	watcher *Watcher
	gate    *Gate
	engine  *mirror.Engine
	config  *Config
}

// NewLoop creates the loop for the given setups root.
func NewLoop(root string, config *Config) (*Loop, error) {
	if root == "" {
		return nil, fmt.Errorf("root cannot be empty")
	}
	if config == nil {
		config = DefaultConfig()
	}
	if config.Logger == nil {
		config.Logger = slog.Default()
	}

	w, err := NewWatcher(config.Logger)
	if err != nil {
		return nil, err
	}

	return &Loop{
		root:    root,
		watcher: w,
		gate:    NewGate(w, config.DrainDelay, config.Logger),
		engine:  mirror.NewEngine(config.Logger),
		config:  config,
	}, nil
}

// Run starts the recursive subscription on the root and handles events
// until ctx is cancelled, then stops the subscription and waits for the
// watcher goroutine to finish. An in-flight sync always runs to
// completion; a failing event is logged and the loop moves on to the
// next one.
func (l *Loop) Run(ctx context.Context) error {
	if err := l.watcher.Start(l.root); err != nil {
		return fmt.Errorf("failed to start watching %s: %w", l.root, err)
	}
	l.config.Logger.Info("watching setups folder", "root", l.root)

	for {
		select {
		case <-ctx.Done():
			l.config.Logger.Debug("cancellation received, stopping watcher")
			return l.watcher.Stop()

		case ev, ok := <-l.watcher.Events():
			if !ok {
				return nil
			}
			if l.gate.Paused() {
				continue
			}
			l.handleEvent(ev)

		case err, ok := <-l.watcher.Errors():
			if !ok {
				return nil
			}
			l.config.Logger.Warn("watch backend error", "error", err)
		}
	}
}

// handleEvent runs one full classify/ensure/mirror pass under the
// suppression gate.
func (l *Loop) handleEvent(ev Event) {
	err := l.gate.Protect(func() error {
		l.config.Logger.Debug("received event", "path", ev.Path, "is_dir", ev.IsDir, "kind", ev.Kind)

		ch, ok := setups.Classify(ev.Path, ev.IsDir)
		if !ok {
			l.config.Logger.Debug("ignoring event outside car/track layout", "path", ev.Path)
			return nil
		}

		if ch.IsDir() {
			l.config.Logger.Info("change detected", "car", ch.Car, "track", ch.Track, "folder", true)
		} else {
			l.config.Logger.Info("change detected", "car", ch.Car, "track", ch.Track, "setup", ch.Setup)
		}

		if err := setups.EnsureTrackDirs(ch.CarDir); err != nil {
			return err
		}
		if ch.IsDir() {
			return l.engine.SyncTrack(ch)
		}
		return l.engine.SyncSetup(ch)
	})
	if err != nil {
		l.config.Logger.Error("event handling failed", "path", ev.Path, "error", err)
	}
}
