package mirror

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pitwall/setupsync/internal/setups"
)

// Seed prepares an existing setups tree for mirroring. For every car it
// ensures the track directories exist, renames each existing setup to
// carry its track name as a prefix (the fan-out would otherwise collide
// same-named setups from different tracks), and then copies every
// renamed setup into every other track directory.
//
// Seed is meant to run once, before the watch loop is trusted to keep
// the tree mirrored incrementally. Running it again re-prefixes the
// already prefixed names.
func (e *Engine) Seed(root string) error {
	cars, err := setups.ListDirs(root)
	if err != nil {
		return err
	}

	for _, car := range cars {
		carDir := filepath.Join(root, car)
		if err := e.seedCar(carDir, car); err != nil {
			return fmt.Errorf("failed to seed car %s: %w", car, err)
		}
	}
	return nil
}

func (e *Engine) seedCar(carDir, car string) error {
	if err := setups.EnsureTrackDirs(carDir); err != nil {
		return err
	}

	// Rename first so the copy step cannot collide two tracks' setups
	// that happen to share a filename.
	var renamed []string
	for _, track := range setups.TrackNames {
		trackDir := filepath.Join(carDir, track)
		files, err := setups.ListFiles(trackDir)
		if err != nil {
			return err
		}
		for _, name := range files {
			newName := track + "-" + name
			e.logger.Info("renaming setup", "track", track, "from", name, "to", newName)
			src := filepath.Join(trackDir, name)
			dst := filepath.Join(trackDir, newName)
			if err := os.Rename(src, dst); err != nil {
				return fmt.Errorf("failed to rename %s: %w", src, err)
			}
			renamed = append(renamed, dst)
		}
	}

	for _, src := range renamed {
		name := filepath.Base(src)
		srcTrack := filepath.Base(filepath.Dir(src))
		for _, track := range setups.TrackNames {
			if track == srcTrack {
				e.logger.Debug("skipping source track", "track", track, "setup", name)
				continue
			}
			e.logger.Info("copying setup", "setup", name, "from", srcTrack, "to", track)
			if err := setups.CopyFile(src, filepath.Join(carDir, track, name)); err != nil {
				return err
			}
		}
	}

	e.logger.Info("seeded car", "car", car, "setups", len(renamed))
	return nil
}
