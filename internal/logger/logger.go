// Package logger provides verbose logging for the kbase CLI.
// When verbose mode is enabled via the --verbose flag, the ingestion
// and query pipelines narrate their progress on stderr.
package logger

import (
	"fmt"
	"io"
	"os"
	"sync"
)

var (
	mu      sync.RWMutex
	verbose bool
	output  io.Writer = os.Stderr
)

// SetVerbose enables or disables verbose logging.
func SetVerbose(v bool) {
	mu.Lock()
	defer mu.Unlock()
	verbose = v
}

// IsVerbose returns true if verbose mode is enabled.
func IsVerbose() bool {
	mu.RLock()
	defer mu.RUnlock()
	return verbose
}

// SetOutput sets the output writer for verbose logs.
// Defaults to os.Stderr. Useful for testing.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	output = w
}

// logf prints one tagged line when verbose mode is enabled.
func logf(tag, format string, args ...any) {
	mu.RLock()
	defer mu.RUnlock()
	if !verbose {
		return
	}
	fmt.Fprintf(output, "[%s] "+format+"\n", append([]any{tag}, args...)...)
}

// Debug prints pipeline detail: chunk counts, skip reasons, hashes.
func Debug(format string, args ...any) {
	logf("DEBUG", format, args...)
}

// Info prints progress a user following an ingestion run cares about.
func Info(format string, args ...any) {
	logf("INFO", format, args...)
}

// Warn prints recoverable problems: degraded embeddings, rollback
// failures, watch errors.
func Warn(format string, args ...any) {
	logf("WARN", format, args...)
}

// Section marks the start of a pipeline phase.
func Section(name string) {
	mu.RLock()
	defer mu.RUnlock()
	if verbose {
		fmt.Fprintf(output, "\n--- %s ---\n", name)
	}
}
