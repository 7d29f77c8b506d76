package setups

import "path/filepath"

// Change is a classified filesystem event inside the setups tree.
type Change struct {
	// CarDir is the absolute path of the car directory.
	CarDir string
	// Car is the car directory basename.
	Car string
	// Track is the source track name.
	Track string
	// Setup is the setup filename; empty for directory-level changes.
	Setup string
}

// IsDir reports whether the change affects a whole track directory
// rather than a single setup file.
func (c Change) IsDir() bool { return c.Setup == "" }

// TrackDir returns the absolute path of the source track directory.
func (c Change) TrackDir() string { return filepath.Join(c.CarDir, c.Track) }

// SetupPath returns the absolute path of the source setup file. It is
// only meaningful for single-file changes.
func (c Change) SetupPath() string { return filepath.Join(c.CarDir, c.Track, c.Setup) }

// Classify decomposes an event path into its car, track and setup file.
// For a directory-level event the path is the track directory itself;
// for a file-level event the track is the file's parent directory and
// the setup is its basename. The car is the track's parent.
//
// Classify returns ok=false for events that do not resolve to a usable
// car/track pair: the car segment being the reserved root name (the
// watcher picked up a change directly under the root) or the track
// segment not being one of the known track names. There is no error
// value; callers are expected to log and skip.
func Classify(path string, isDir bool) (Change, bool) {
	var trackDir, setup string
	if isDir {
		trackDir = path
	} else {
		trackDir = filepath.Dir(path)
		setup = filepath.Base(path)
	}

	carDir := filepath.Dir(trackDir)
	track := filepath.Base(trackDir)
	car := filepath.Base(carDir)

	if car == reservedRootName {
		return Change{}, false
	}
	if !IsKnownTrack(track) {
		return Change{}, false
	}

	return Change{
		CarDir: carDir,
		Car:    car,
		Track:  track,
		Setup:  setup,
	}, true
}
