package logger

import (
	"io"
	"log/slog"
	"os"

	"github.com/natefinch/lumberjack"
)

// SlogLogger implements Logger on top of a slog handler.
type SlogLogger struct {
	logger *slog.Logger
	exit   func(code int)
}

func newSlogLogger(handler slog.Handler) *SlogLogger {
	return &SlogLogger{logger: slog.New(handler), exit: os.Exit}
}

// NewConsoleLogger writes human readable text records to stdout.
func NewConsoleLogger(level string) Logger {
	return NewWriterLogger(level, os.Stdout)
}

// NewWriterLogger writes text records to w.
func NewWriterLogger(level string, w io.Writer) Logger {
	return newSlogLogger(slog.NewTextHandler(w, &slog.HandlerOptions{Level: parseLevel(level)}))
}

// NewFileLogger writes JSON records to a lumberjack-rotated file.
// maxSize is in megabytes and maxAge in days.
func NewFileLogger(level string, filePath string, maxSize int, maxBackups int, maxAge int) Logger {
	writer := &lumberjack.Logger{
		Filename:   filePath,
		MaxSize:    maxSize,
		MaxBackups: maxBackups,
		MaxAge:     maxAge,
		Compress:   true,
	}
	return newSlogLogger(slog.NewJSONHandler(writer, &slog.HandlerOptions{Level: parseLevel(level)}))
}

// NewNopLogger discards everything.
func NewNopLogger() Logger {
	return newSlogLogger(slog.NewTextHandler(io.Discard, nil))
}

// Debug logs a debug message.
func (l *SlogLogger) Debug(args ...interface{}) {
	l.logger.Debug(formatArgs(args...))
}

// Info logs an informational message.
func (l *SlogLogger) Info(args ...interface{}) {
	l.logger.Info(formatArgs(args...))
}

// Warn logs a warning message.
func (l *SlogLogger) Warn(args ...interface{}) {
	l.logger.Warn(formatArgs(args...))
}

// Error logs an error message.
func (l *SlogLogger) Error(args ...interface{}) {
	l.logger.Error(formatArgs(args...))
}

// Fatal logs at error level and exits with status 1.
func (l *SlogLogger) Fatal(args ...interface{}) {
	l.logger.Error(formatArgs(args...))
	l.exit(1)
}

// Panic logs at error level and panics with the message.
func (l *SlogLogger) Panic(args ...interface{}) {
	msg := formatArgs(args...)
	l.logger.Error(msg)
	panic(msg)
}
