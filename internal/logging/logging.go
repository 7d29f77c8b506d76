// Package logging builds the process-wide leveled logger.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/natefinch/lumberjack.v2"
)

// ParseLevel maps a verbosity name onto a slog level. Names are
// case-insensitive; "warning" is accepted as an alias for "warn".
func ParseLevel(name string) (slog.Level, error) {
	switch strings.ToLower(name) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("unknown verbosity %q (want debug, info, warn or error)", name)
	}
}

// New returns a text logger at the given verbosity. Output goes to
// stderr, or to a size-rotated log file when file is non-empty.
func New(verbosity, file string) (*slog.Logger, error) {
	level, err := ParseLevel(verbosity)
	if err != nil {
		return nil, err
	}

	var out io.Writer = os.Stderr
	if file != "" {
		out = &lumberjack.Logger{
			Filename:   file,
			MaxSize:    10, // megabytes
			MaxBackups: 3,
			MaxAge:     28, // days
		}
	}

	return slog.New(slog.NewTextHandler(out, &slog.HandlerOptions{Level: level})), nil
}
