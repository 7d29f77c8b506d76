package mirror

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/pitwall/setupsync/internal/setups"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// newCar builds a car directory with all track subdirectories.
func newCar(t *testing.T) string {
	t.Helper()
	carDir := filepath.Join(t.TempDir(), "Ferrari488")
	if err := os.Mkdir(carDir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := setups.EnsureTrackDirs(carDir); err != nil {
		t.Fatal(err)
	}
	return carDir
}

func writeSetup(t *testing.T, carDir, track, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(carDir, track, name), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func readSetup(t *testing.T, carDir, track, name string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(carDir, track, name))
	if err != nil {
		t.Fatalf("failed to read %s/%s: %v", track, name, err)
	}
	return string(data)
}

func dirChange(carDir, track string) setups.Change {
	return setups.Change{
		CarDir: carDir,
		Car:    filepath.Base(carDir),
		Track:  track,
	}
}

func fileChange(carDir, track, setup string) setups.Change {
	ch := dirChange(carDir, track)
	ch.Setup = setup
	return ch
}

// TestSyncTrack_FanOutCompleteness verifies that after a directory-level
// pass every track holds the source track's file set.
func TestSyncTrack_FanOutCompleteness(t *testing.T) {
	carDir := newCar(t)
	writeSetup(t, carDir, "monza", "quali.json", "q")
	writeSetup(t, carDir, "monza", "race.json", "r")

	engine := NewEngine(testLogger())
	if err := engine.SyncTrack(dirChange(carDir, "monza")); err != nil {
		t.Fatalf("SyncTrack() failed: %v", err)
	}

	for _, track := range setups.TrackNames {
		files, err := setups.ListFiles(filepath.Join(carDir, track))
		if err != nil {
			t.Fatal(err)
		}
		if len(files) != 2 {
			t.Errorf("track %s has %d setups, want 2: %v", track, len(files), files)
		}
		if got := readSetup(t, carDir, track, "quali.json"); got != "q" {
			t.Errorf("track %s quali.json = %q, want q", track, got)
		}
		if got := readSetup(t, carDir, track, "race.json"); got != "r" {
			t.Errorf("track %s race.json = %q, want r", track, got)
		}
	}
}

// TestSyncTrack_NonClobber verifies that a directory-level pass never
// overwrites an existing same-named file at a target track.
func TestSyncTrack_NonClobber(t *testing.T) {
	carDir := newCar(t)
	writeSetup(t, carDir, "monza", "quali.json", "monza tune")
	writeSetup(t, carDir, "Spa", "quali.json", "spa tune")

	engine := NewEngine(testLogger())
	if err := engine.SyncTrack(dirChange(carDir, "monza")); err != nil {
		t.Fatalf("SyncTrack() failed: %v", err)
	}

	if got := readSetup(t, carDir, "Spa", "quali.json"); got != "spa tune" {
		t.Errorf("Spa quali.json = %q, reconciliation must not clobber", got)
	}
	if got := readSetup(t, carDir, "Zolder", "quali.json"); got != "monza tune" {
		t.Errorf("Zolder quali.json = %q, want the monza bytes", got)
	}
}

// TestSyncTrack_DeletionPropagation verifies that removing a setup from
// the source track removes it everywhere on the next pass.
func TestSyncTrack_DeletionPropagation(t *testing.T) {
	carDir := newCar(t)
	writeSetup(t, carDir, "monza", "quali.json", "q")
	writeSetup(t, carDir, "monza", "race.json", "r")

	engine := NewEngine(testLogger())
	if err := engine.SyncTrack(dirChange(carDir, "monza")); err != nil {
		t.Fatalf("initial SyncTrack() failed: %v", err)
	}

	if err := os.Remove(filepath.Join(carDir, "monza", "quali.json")); err != nil {
		t.Fatal(err)
	}
	if err := engine.SyncTrack(dirChange(carDir, "monza")); err != nil {
		t.Fatalf("second SyncTrack() failed: %v", err)
	}

	for _, track := range setups.TrackNames {
		if _, err := os.Stat(filepath.Join(carDir, track, "quali.json")); !os.IsNotExist(err) {
			t.Errorf("track %s still has quali.json", track)
		}
		if _, err := os.Stat(filepath.Join(carDir, track, "race.json")); err != nil {
			t.Errorf("track %s lost race.json: %v", track, err)
		}
	}
}

// TestSyncTrack_SecondPassIsNoOp verifies reconciliation is idempotent.
func TestSyncTrack_SecondPassIsNoOp(t *testing.T) {
	carDir := newCar(t)
	writeSetup(t, carDir, "monza", "quali.json", "q")

	engine := NewEngine(testLogger())
	if err := engine.SyncTrack(dirChange(carDir, "monza")); err != nil {
		t.Fatalf("first SyncTrack() failed: %v", err)
	}

	// Scribble on a target copy; the second pass must leave it alone.
	writeSetup(t, carDir, "Spa", "quali.json", "tweaked")

	if err := engine.SyncTrack(dirChange(carDir, "monza")); err != nil {
		t.Fatalf("second SyncTrack() failed: %v", err)
	}
	if got := readSetup(t, carDir, "Spa", "quali.json"); got != "tweaked" {
		t.Errorf("Spa quali.json = %q, second pass must not rewrite existing files", got)
	}
}

// TestSyncTrack_MissingSource verifies the error path for a vanished
// source directory.
func TestSyncTrack_MissingSource(t *testing.T) {
	carDir := newCar(t)
	ch := dirChange(carDir, "monza")
	if err := os.RemoveAll(ch.TrackDir()); err != nil {
		t.Fatal(err)
	}

	if err := NewEngine(testLogger()).SyncTrack(ch); err == nil {
		t.Error("SyncTrack() should fail when the source track directory is gone")
	}
}

// TestSyncSetup_Clobber verifies that a single-file pass overwrites the
// same-named file at every other track with the new bytes.
func TestSyncSetup_Clobber(t *testing.T) {
	carDir := newCar(t)
	writeSetup(t, carDir, "monza", "quali.json", "v2")
	writeSetup(t, carDir, "Spa", "quali.json", "v1")
	writeSetup(t, carDir, "Suzuka", "quali.json", "v1")

	engine := NewEngine(testLogger())
	if err := engine.SyncSetup(fileChange(carDir, "monza", "quali.json")); err != nil {
		t.Fatalf("SyncSetup() failed: %v", err)
	}

	for _, track := range setups.TrackNames {
		if got := readSetup(t, carDir, track, "quali.json"); got != "v2" {
			t.Errorf("track %s quali.json = %q, want v2", track, got)
		}
	}
}

// TestSyncSetup_LeavesOtherSetupsAlone verifies the single-file pass
// touches only the named setup.
func TestSyncSetup_LeavesOtherSetupsAlone(t *testing.T) {
	carDir := newCar(t)
	writeSetup(t, carDir, "monza", "quali.json", "q")
	writeSetup(t, carDir, "Spa", "race.json", "spa race")

	engine := NewEngine(testLogger())
	if err := engine.SyncSetup(fileChange(carDir, "monza", "quali.json")); err != nil {
		t.Fatalf("SyncSetup() failed: %v", err)
	}

	if got := readSetup(t, carDir, "Spa", "race.json"); got != "spa race" {
		t.Errorf("Spa race.json = %q, must be untouched", got)
	}
}

// TestSyncSetup_MissingSource verifies the error path for a source file
// that vanished mid-event.
func TestSyncSetup_MissingSource(t *testing.T) {
	carDir := newCar(t)
	if err := NewEngine(testLogger()).SyncSetup(fileChange(carDir, "monza", "gone.json")); err == nil {
		t.Error("SyncSetup() should fail when the source file is gone")
	}
}
