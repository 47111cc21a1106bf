package logging

import (
	"context"
	"io"
	"sync"
	"time"
)

// ConsoleLogger writes text entries to a terminal or any writer.
// It backs the --verbose flag.
type ConsoleLogger struct {
	out    *consoleOut
	level  Level
	fields Fields
}

type consoleOut struct {
	mu    sync.Mutex
	w     io.Writer
	color bool
}

// NewConsoleLogger creates a logger writing entries at or above level to w
func NewConsoleLogger(w io.Writer, level Level, color bool) *ConsoleLogger {
	return &ConsoleLogger{
		out:   &consoleOut{w: w, color: color},
		level: level,
	}
}

// Debug logs a debug message
func (l *ConsoleLogger) Debug(ctx context.Context, msg string, fields Fields) {
	l.log(DebugLevel, msg, nil, fields)
}

// Info logs an info message
func (l *ConsoleLogger) Info(ctx context.Context, msg string, fields Fields) {
	l.log(InfoLevel, msg, nil, fields)
}

// Warn logs a warning message
func (l *ConsoleLogger) Warn(ctx context.Context, msg string, fields Fields) {
	l.log(WarnLevel, msg, nil, fields)
}

// Error logs an error message
func (l *ConsoleLogger) Error(ctx context.Context, msg string, err error, fields Fields) {
	l.log(ErrorLevel, msg, err, fields)
}

// WithFields returns a logger with additional fields
func (l *ConsoleLogger) WithFields(fields Fields) Logger {
	return &ConsoleLogger{
		out:    l.out,
		level:  l.level,
		fields: l.fields.merge(fields),
	}
}

// Close does nothing, the writer belongs to the caller
func (l *ConsoleLogger) Close() error {
	return nil
}

func (l *ConsoleLogger) log(level Level, msg string, err error, fields Fields) {
	if level < l.level {
		return
	}
	r := record{time: time.Now(), level: level, msg: msg, err: err, fields: l.fields.merge(fields)}

	var paint func(Level, string) string
	if l.out.color {
		paint = colorLevel
	}
	line := r.encodeText(paint)

	l.out.mu.Lock()
	defer l.out.mu.Unlock()
	l.out.w.Write(line)
}

// Multi fans entries out to several loggers
type Multi []Logger

// Debug logs a debug message
func (m Multi) Debug(ctx context.Context, msg string, fields Fields) {
	for _, l := range m {
		l.Debug(ctx, msg, fields)
	}
}

// Info logs an info message
func (m Multi) Info(ctx context.Context, msg string, fields Fields) {
	for _, l := range m {
		l.Info(ctx, msg, fields)
	}
}

// Warn logs a warning message
func (m Multi) Warn(ctx context.Context, msg string, fields Fields) {
	for _, l := range m {
		l.Warn(ctx, msg, fields)
	}
}

// Error logs an error message
func (m Multi) Error(ctx context.Context, msg string, err error, fields Fields) {
	for _, l := range m {
		l.Error(ctx, msg, err, fields)
	}
}

// WithFields derives every logger
func (m Multi) WithFields(fields Fields) Logger {
	out := make(Multi, len(m))
	for i, l := range m {
		out[i] = l.WithFields(fields)
	}
	return out
}

// Close closes every logger and returns the first error
func (m Multi) Close() error {
	var first error
	for _, l := range m {
		if err := l.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}
