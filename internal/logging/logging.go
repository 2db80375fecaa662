// Package logging configures the logrus logger shared by spoolsync.
//
// The terminal belongs to the TUI, so log output goes to a file which the
// Logs view tails.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
)

const timestampFormat = "2006-01-02 15:04:05"

// Options configure New.
type Options struct {
	Level  string    // logrus level name; "off" or "none" discards output
	File   string    // destination file; empty writes to Output
	Output io.Writer // used when File is empty; defaults to stderr
}

// Logger wraps a logrus logger together with the file it writes to.
type Logger struct {
	*logrus.Logger
	file *os.File
	path string
}

// New builds a logger from opts. Unknown levels fall back to info.
func New(opts Options) (*Logger, error) {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		DisableColors:   true,
		TimestampFormat: timestampFormat,
	})

	level := strings.ToLower(strings.TrimSpace(opts.Level))
	if level == "off" || level == "none" {
		logger.SetOutput(io.Discard)
		return &Logger{Logger: logger}, nil
	}
	parsed, err := logrus.ParseLevel(level)
	if err != nil {
		parsed = logrus.InfoLevel
	}
	logger.SetLevel(parsed)

	if strings.TrimSpace(opts.File) == "" {
		out := opts.Output
		if out == nil {
			out = os.Stderr
		}
		logger.SetOutput(out)
		return &Logger{Logger: logger}, nil
	}

	if err := os.MkdirAll(filepath.Dir(opts.File), 0o755); err != nil {
		return nil, fmt.Errorf("create log dir: %w", err)
	}
	file, err := os.OpenFile(opts.File, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	logger.SetOutput(file)
	return &Logger{Logger: logger, file: file, path: opts.File}, nil
}

// Path returns the log file path, empty when not logging to a file.
func (l *Logger) Path() string {
	return l.path
}

// Close releases the log file.
func (l *Logger) Close() error {
	if l.file != nil {
		return l.file.Close()
	}
	return nil
}
