/*
Package log
File: logger.go
Description:
    Centralized leveled logging for the server and the simulation core.
    Wraps log/slog behind package-level helpers so the game package can log
    without carrying a logger through every call.
*/

package log

import (
	"io"
	"log/slog"
	"os"
	"sync"
)

// Logger pairs a slog.Logger with the file it writes to (if any).
type Logger struct {
	logger *slog.Logger
	file   *os.File
}

var (
	mu           sync.RWMutex
	globalLogger *Logger
)

// init creates the global logger with console output by default.
func init() {
	globalLogger = &Logger{
		logger: slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})),
		file:   os.Stdout,
	}
}

// SetFileOutput redirects all logging to the given file at debug level.
func SetFileOutput(filename string) error {
	logger, err := NewLogger(filename)
	if err != nil {
		return err
	}

	mu.Lock()
	defer mu.Unlock()
	if globalLogger != nil && globalLogger.file != os.Stdout {
		globalLogger.file.Close()
	}
	globalLogger = logger
	return nil
}

// SetOutput redirects logging to an arbitrary writer. Tests use io.Discard.
func SetOutput(w io.Writer, level slog.Level) {
	mu.Lock()
	defer mu.Unlock()
	globalLogger = &Logger{
		logger: slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})),
		file:   os.Stdout,
	}
}

// NewLogger creates a debug-level logger that appends to filename.
func NewLogger(filename string) (*Logger, error) {
	file, err := os.OpenFile(filename, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
	if err != nil {
		return nil, err
	}

	handler := slog.NewTextHandler(file, &slog.HandlerOptions{
		Level: slog.LevelDebug,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey {
				return slog.Attr{
					Key:   slog.TimeKey,
					Value: slog.StringValue(a.Value.Time().Format("2006/01/02 15:04:05.000000")),
				}
			}
			return a
		},
	})

	return &Logger{logger: slog.New(handler), file: file}, nil
}

func current() *Logger {
	mu.RLock()
	defer mu.RUnlock()
	return globalLogger
}

func Debug(msg string, args ...any) {
	if l := current(); l != nil {
		l.logger.Debug(msg, args...)
	}
}

func Info(msg string, args ...any) {
	if l := current(); l != nil {
		l.logger.Info(msg, args...)
	}
}

func Warn(msg string, args ...any) {
	if l := current(); l != nil {
		l.logger.Warn(msg, args...)
	}
}

func Error(msg string, args ...any) {
	if l := current(); l != nil {
		l.logger.Error(msg, args...)
	}
}

// Close closes the log file if one was opened.
func Close() {
	mu.Lock()
	defer mu.Unlock()
	if globalLogger != nil && globalLogger.file != os.Stdout {
		globalLogger.file.Close()
		globalLogger.file = os.Stdout
	}
}
