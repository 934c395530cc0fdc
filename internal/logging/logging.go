// Package logging sets up the application's leveled file logger. The
// terminal belongs to the UI, so nothing is written to stdout.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
)

// Prefix is attached to every log line.
const Prefix = "todoapp"

// New opens (or creates) the log file at path and returns a logger writing
// to it at the given level, plus the file so the caller can close it.
func New(path string, level string) (*log.Logger, io.Closer, error) {
	lvl, err := ParseLevel(level)
	if err != nil {
		return nil, nil, err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, nil, fmt.Errorf("create log dir: %w", err)
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}

	return NewWithWriter(f, lvl), f, nil
}

// NewWithWriter returns a logger writing to w.
func NewWithWriter(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		Level:           level,
		Formatter:       log.LogfmtFormatter,
		ReportTimestamp: true,
		Prefix:          Prefix,
	})
}

// Discard returns a logger that drops everything. Used by tests and by
// components constructed without a logger.
func Discard() *log.Logger {
	return log.New(io.Discard)
}

// ParseLevel maps a config string to a level. Empty means info.
func ParseLevel(level string) (log.Level, error) {
	if level == "" {
		return log.InfoLevel, nil
	}
	if level == "warning" {
		return log.WarnLevel, nil
	}
	lvl, err := log.ParseLevel(level)
	if err != nil {
		return log.InfoLevel, fmt.Errorf("invalid log level %q: %w", level, err)
	}
	return lvl, nil
}
