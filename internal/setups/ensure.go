package setups

import (
	"fmt"
	"os"
	"path/filepath"
)

// EnsureTrackDirs creates a subdirectory under carDir for every known
// track name. Creation is single-level: carDir itself must already
// exist. The call is idempotent and never removes anything, so unknown
// extra subdirectories are left alone.
func EnsureTrackDirs(carDir string) error {
	for _, track := range TrackNames {
		dir := filepath.Join(carDir, track)
		if info, err := os.Stat(dir); err == nil && info.IsDir() {
			continue
		}
		if err := os.Mkdir(dir, 0o755); err != nil && !os.IsExist(err) {
			return fmt.Errorf("failed to create track directory %s: %w", dir, err)
		}
	}
	return nil
}
