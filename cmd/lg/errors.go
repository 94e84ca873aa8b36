package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/steveyegge/launchgate/internal/telemetry"
)

// Replaced in tests.
var (
	osExit         = os.Exit
	flushTelemetry = telemetry.Shutdown
)

const flushTimeout = 5 * time.Second

// exit flushes telemetry and exits with code. os.Exit skips
// PersistentPostRun, so every early exit goes through here.
func exit(code int) {
	ctx, cancel := context.WithTimeout(context.Background(), flushTimeout)
	flushTelemetry(ctx)
	cancel()
	if rootCancel != nil {
		rootCancel()
	}
	osExit(code)
}

// FatalError writes an error message to stderr and exits with code 1.
func FatalError(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
	exit(1)
}

// FatalErrorWithHint writes an error message with a hint to stderr and exits.
func FatalErrorWithHint(message, hint string) {
	fmt.Fprintf(os.Stderr, "Error: %s\n", message)
	fmt.Fprintf(os.Stderr, "Hint: %s\n", hint)
	exit(1)
}

// WarnError writes a warning message to stderr and returns.
func WarnError(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "Warning: "+format+"\n", args...)
}

// outputJSON outputs data as pretty-printed JSON to stdout.
func outputJSON(v interface{}) {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(v); err != nil {
		fmt.Fprintf(os.Stderr, "Error encoding JSON: %v\n", err)
		exit(1)
	}
}
