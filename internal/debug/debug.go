// Package debug provides opt-in file-backed debug logging. The interactive
// session owns the terminal, so log output must never go to stdout/stderr.
package debug

import (
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/charmbracelet/log"
)

var (
	mu      sync.Mutex
	logger  *log.Logger
	logFile *os.File
)

// Enable turns on debug logging to the specified file.
func Enable(path string) error {
	mu.Lock()
	defer mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return err
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return err
	}

	logFile = f
	logger = log.NewWithOptions(f, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.000",
		Level:           log.DebugLevel,
	})

	logger.Debug("debug logging enabled")
	return nil
}

// Close closes the debug log file.
func Close() {
	mu.Lock()
	defer mu.Unlock()

	if logFile != nil {
		_ = logFile.Close()
		logFile = nil
	}
	logger = nil
}

// IsEnabled returns whether debug logging is enabled.
func IsEnabled() bool {
	mu.Lock()
	defer mu.Unlock()
	return logger != nil
}

// Logf writes a debug message if debugging is enabled.
func Logf(format string, args ...any) {
	mu.Lock()
	defer mu.Unlock()

	if logger != nil {
		logger.Debugf(format, args...)
	}
}

// Timed logs the duration of an operation. Usage:
//
//	defer debug.Timed("fetch work item")()
func Timed(name string) func() {
	if !IsEnabled() {
		return func() {}
	}

	start := time.Now()
	Logf("%s started", name)

	return func() {
		Logf("%s completed in %v", name, time.Since(start))
	}
}
