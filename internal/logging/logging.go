// Package logging wraps log/slog with a process-wide default suited for CLI use.
package logging

import (
	"io"
	"log/slog"
	"os"
	"sync"
)

// Options configures the logger.
type Options struct {
	Level     slog.Level
	Output    io.Writer
	AddSource bool
}

// DefaultOptions is warn-level text output to stderr, so normal runs only
// surface real problems alongside the user-facing prints.
func DefaultOptions() Options {
	return Options{
		Level:  slog.LevelWarn,
		Output: os.Stderr,
	}
}

var (
	mu     sync.Mutex
	logger *slog.Logger
)

// New builds a text logger from opts.
func New(opts Options) *slog.Logger {
	if opts.Output == nil {
		opts.Output = os.Stderr
	}
	h := slog.NewTextHandler(opts.Output, &slog.HandlerOptions{
		Level:     opts.Level,
		AddSource: opts.AddSource,
	})
	return slog.New(h)
}

// Default returns the process logger, creating one lazily.
func Default() *slog.Logger {
	mu.Lock()
	defer mu.Unlock()
	if logger == nil {
		logger = New(DefaultOptions())
	}
	return logger
}

// SetDefault replaces the process logger (also slog's own default).
func SetDefault(l *slog.Logger) {
	mu.Lock()
	defer mu.Unlock()
	logger = l
	slog.SetDefault(l)
}

func Debug(msg string, args ...any) { Default().Debug(msg, args...) }
func Info(msg string, args ...any)  { Default().Info(msg, args...) }
func Warn(msg string, args ...any)  { Default().Warn(msg, args...) }
func Error(msg string, args ...any) { Default().Error(msg, args...) }
