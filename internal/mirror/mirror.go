// Package mirror propagates setup files across the track directories of
// a car, so that a setup saved under one track is available under all of
// them.
//
// Two operations cover the two shapes of change:
//
//   - SyncTrack: a whole track directory changed; its current file set
//     is authoritative. Missing files are copied to the other tracks
//     without overwriting, files absent from the source are removed
//     from the other tracks.
//   - SyncSetup: a single setup file was created or modified; its bytes
//     overwrite the same-named file under every other track.
package mirror

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/pitwall/setupsync/internal/setups"
)

// Engine executes mirror passes. It holds no filesystem state of its
// own; the tree under the setups root is the single source of truth.
type Engine struct {
	logger *slog.Logger
}

// NewEngine creates an engine that logs through the given logger.
func NewEngine(logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{logger: logger}
}

// SyncTrack reconciles every other track directory of the car against
// the source track's current file set. Files present at the source but
// missing at a target are copied; an existing target file of the same
// name is never overwritten. Files present at a target but absent from
// the source set are removed, which is how deletions propagate.
func (e *Engine) SyncTrack(ch setups.Change) error {
	srcDir := ch.TrackDir()
	files, err := setups.ListFiles(srcDir)
	if err != nil {
		return err
	}

	inSource := make(map[string]bool, len(files))
	for _, name := range files {
		inSource[name] = true
	}

	e.logger.Debug("synchronizing track", "car", ch.Car, "track", ch.Track, "setups", len(files))

	for _, track := range setups.TrackNames {
		if track == ch.Track {
			e.logger.Debug("skipping source track", "track", track)
			continue
		}
		targetDir := filepath.Join(ch.CarDir, track)

		for _, name := range files {
			target := filepath.Join(targetDir, name)
			if _, err := os.Stat(target); err == nil {
				e.logger.Debug("setup already exists", "track", track, "setup", name)
				continue
			}
			e.logger.Info("copying setup", "setup", name, "from", ch.Track, "to", track)
			if err := setups.CopyFile(filepath.Join(srcDir, name), target); err != nil {
				return err
			}
		}

		existing, err := setups.ListFiles(targetDir)
		if err != nil {
			return err
		}
		for _, name := range existing {
			if inSource[name] {
				continue
			}
			e.logger.Info("removing deleted setup", "setup", name, "track", track)
			if err := os.Remove(filepath.Join(targetDir, name)); err != nil {
				return fmt.Errorf("failed to remove %s from %s: %w", name, track, err)
			}
		}
	}
	return nil
}

// SyncSetup copies the source setup's current bytes over the same-named
// file under every other track, clobbering whatever is there.
func (e *Engine) SyncSetup(ch setups.Change) error {
	src := ch.SetupPath()
	for _, track := range setups.TrackNames {
		if track == ch.Track {
			e.logger.Debug("skipping source track", "track", track)
			continue
		}
		e.logger.Info("copying setup", "setup", ch.Setup, "from", ch.Track, "to", track)
		if err := setups.CopyFile(src, filepath.Join(ch.CarDir, track, ch.Setup)); err != nil {
			return err
		}
	}
	return nil
}
