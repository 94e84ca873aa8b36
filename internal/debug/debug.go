// Package debug holds the verbosity switches and the structured logger used
// across lg. Output is off unless LG_DEBUG is set or --verbose is passed.
package debug

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"
)

var (
	enabled     = os.Getenv("LG_DEBUG") != ""
	verboseMode = false
	quietMode   = false

	mu     sync.Mutex
	output io.Writer = os.Stderr
	logger *slog.Logger
)

func Enabled() bool {
	return enabled || verboseMode
}

// SetVerbose enables verbose/debug output
func SetVerbose(verbose bool) {
	mu.Lock()
	defer mu.Unlock()
	verboseMode = verbose
	logger = nil
}

// SetQuiet enables quiet mode (suppress non-essential output)
func SetQuiet(quiet bool) {
	quietMode = quiet
}

// IsQuiet returns true if quiet mode is enabled
func IsQuiet() bool {
	return quietMode
}

// SetOutput redirects debug output. Tests use it to capture log lines.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	output = w
	logger = nil
}

// Logger returns the process logger. When debug output is off the logger
// discards everything, so callers never need to check Enabled first.
func Logger() *slog.Logger {
	mu.Lock()
	defer mu.Unlock()
	if logger != nil {
		return logger
	}
	if !(enabled || verboseMode) {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
		return logger
	}
	logger = slog.New(slog.NewTextHandler(output, &slog.HandlerOptions{Level: slog.LevelDebug}))
	return logger
}

func Logf(format string, args ...interface{}) {
	if enabled || verboseMode {
		mu.Lock()
		w := output
		mu.Unlock()
		fmt.Fprintf(w, format, args...)
	}
}

// PrintNormal prints output unless quiet mode is enabled
// Use this for normal informational output that should be suppressed in quiet mode
func PrintNormal(format string, args ...interface{}) {
	if !quietMode {
		fmt.Printf(format, args...)
	}
}
