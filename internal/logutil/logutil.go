package logutil

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"
)

// New builds the process logger. format is "json" or "text"; level is one of
// debug, info, warn or error.
func New(level, format string, w io.Writer) (*slog.Logger, error) {
	lvl, err := ParseLevel(level)
	if err != nil {
		return nil, err
	}

	opts := &slog.HandlerOptions{Level: lvl}
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", "json":
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	case "text":
		return slog.New(slog.NewTextHandler(w, opts)), nil
	default:
		return nil, fmt.Errorf("unknown log format %q", format)
	}
}

// ParseLevel maps a level name to a slog.Level. An empty name means info.
func ParseLevel(level string) (slog.Level, error) {
	var lvl slog.Level
	if strings.TrimSpace(level) == "" {
		return slog.LevelInfo, nil
	}
	if err := lvl.UnmarshalText([]byte(strings.TrimSpace(level))); err != nil {
		return slog.LevelInfo, fmt.Errorf("unknown log level %q", level)
	}
	return lvl, nil
}

// Discard returns a logger that drops everything.
func Discard() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

// NewTimingLogger returns a closure that logs a debug message with duration when called.
// Pass in the logger, a start time, a message, and any initial fields.
func NewTimingLogger(logger *slog.Logger, start time.Time, msg string, initialFields ...any) func() {
	return func() {
		elapsed := time.Since(start)
		finalFields := append(initialFields, "duration", elapsed.String())
		logger.Debug(msg, finalFields...)
	}
}

// LogAndWrapErr logs an error with context fields and wraps it with a message.
// It returns a wrapped error (with %w) so errors.Is / errors.As still work.
func LogAndWrapErr(logger *slog.Logger, msg string, err error, fields ...any) error {
	if err == nil {
		return nil
	}
	// We conventionally put the error field at the end
	allFields := append(fields, "err", err)
	logger.Error(msg, allFields...)
	return fmt.Errorf("%s: %w", msg, err)
}

// DebugAndWrapErr logs an error at debug level with context fields and wraps it with a message.
// It returns a wrapped error (with %w) so errors.Is / errors.As still work.
func DebugAndWrapErr(logger *slog.Logger, msg string, err error, fields ...any) error {
	if err == nil {
		return nil
	}
	// We conventionally put the error field at the end
	allFields := append(fields, "err", err)
	logger.Debug(msg, allFields...)
	return fmt.Errorf("%s: %w", msg, err)
}

// LogDurationWithError runs fn and reports how long it took: at info when fn
// succeeds, at error with the error attached when it fails. fn's error is
// returned as is.
func LogDurationWithError(logger *slog.Logger, msg string, fn func() error, fields ...any) error {
	start := time.Now()
	err := fn()
	attrs := withDuration(fields, time.Since(start))
	if err != nil {
		logger.Error(msg, append(attrs, "err", err)...)
		return err
	}
	logger.Info(msg, attrs...)
	return nil
}

// LogSlowOperation runs fn and warns when it ran longer than threshold;
// otherwise the duration goes to debug. fn's error is returned as is.
func LogSlowOperation(logger *slog.Logger, threshold time.Duration, msg string, fn func() error, fields ...any) error {
	start := time.Now()
	err := fn()
	elapsed := time.Since(start)

	attrs := append(withDuration(fields, elapsed), "threshold", threshold.String())
	if elapsed > threshold {
		logger.Warn(msg+" is slow", attrs...)
	} else {
		logger.Debug(msg, attrs...)
	}
	return err
}

// withDuration copies fields so appending never writes into the caller's slice.
func withDuration(fields []any, d time.Duration) []any {
	out := make([]any, 0, len(fields)+4)
	out = append(out, fields...)
	return append(out, "duration", d.String())
}
