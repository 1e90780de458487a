// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package logging provides structured logging for causal components.
//
// The design is layered for both CLI and daemon usage:
//
//   - Default: stderr output for CLI compatibility (Unix conventions)
//   - Optional: file logging with automatic directory creation
//   - Extensible: LogExporter interface for external log shipping
//
// # Basic Usage
//
// For simple CLI usage with stderr output:
//
//	logger := logging.Default()
//	logger.Info("model loaded", "model_id", id)
//
// # File Logging
//
// To enable file logging alongside stderr:
//
//	logger := logging.New(logging.Config{
//	    Level:   logging.LevelInfo,
//	    LogDir:  "~/.causal/logs",  // Supports ~ expansion
//	    Service: "causald",
//	})
//	defer logger.Close()  // Important: flushes and closes file
//
// This creates log files named `{service}_{date}.log` in JSON format.
//
// # Log Levels
//
// Four levels are supported, matching slog conventions: Debug for
// development troubleshooting, Info for normal operations, Warn for
// recoverable issues, Error for operation failures.
//
// # Thread Safety
//
// Logger is safe for concurrent use. Internal state is protected by a
// mutex, and the underlying slog.Logger is thread-safe.
//
// # Security Considerations
//
// This package does NOT automatically redact sensitive data. Callers
// must ensure PII, tokens, and secrets are not logged.
package logging

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// =============================================================================
// Log Levels
// =============================================================================

// Level represents log severity, ordered Debug < Info < Warn < Error.
// Setting a minimum level filters out all logs below it.
type Level int

const (
	// LevelDebug is for development troubleshooting.
	LevelDebug Level = iota

	// LevelInfo is for normal operational messages.
	LevelInfo

	// LevelWarn is for potentially problematic situations the system
	// can recover from.
	LevelWarn

	// LevelError is for failed operations where the system continues.
	LevelError
)

// String returns "DEBUG", "INFO", "WARN", "ERROR", or "UNKNOWN".
func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// toSlogLevel bridges Level to the standard library.
func (l Level) toSlogLevel() slog.Level {
	switch l {
	case LevelDebug:
		return slog.LevelDebug
	case LevelWarn:
		return slog.LevelWarn
	case LevelError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// =============================================================================
// Configuration
// =============================================================================

// Config configures Logger behavior. A zero-value Config creates a
// logger that writes Info+ messages to stderr in text format.
type Config struct {
	// Level sets the minimum log level.
	// Default: LevelInfo
	Level Level

	// LogDir enables file logging to the specified directory.
	//
	// When set, logs are written to both stderr and a file named
	// "{Service}_{YYYY-MM-DD}.log" in JSON format. The directory is
	// created with 0750 permissions if it doesn't exist. Supports ~
	// expansion ("~/.causal/logs").
	//
	// Default: "" (file logging disabled)
	LogDir string

	// Service identifies the component generating logs and is attached
	// to every entry as the "service" attribute.
	//
	// Recommended values: "causal", "causald"
	// Default: "" (no service attribute)
	Service string

	// JSON switches stderr output to JSON. File logs are always JSON
	// regardless of this setting.
	// Default: false (text format for stderr)
	JSON bool

	// Quiet disables stderr output. Logs then go only to the file (if
	// LogDir is set) and the Exporter (if configured).
	// Default: false (stderr enabled)
	Quiet bool

	// Exporter is an optional extension for shipping logs elsewhere.
	// Entries are sent asynchronously; export failures are silently
	// ignored so they never disrupt normal logging.
	// Default: nil (no export)
	Exporter LogExporter
}

// =============================================================================
// Logger
// =============================================================================

// Logger wraps slog.Logger with multi-destination output (stderr +
// file + exporter) and cleanup via Close().
//
// Always call Close() on a logger with file logging or an exporter
// configured. Use With() to create request- or model-scoped child
// loggers.
type Logger struct {
	slog     *slog.Logger
	config   Config
	file     *os.File
	exporter LogExporter

	// mu serializes Close against concurrent logging.
	mu sync.Mutex
}

// New creates a Logger with the given configuration.
//
// # Inputs
//
//   - config: Logger configuration (see Config for options).
//
// # Outputs
//
//   - *Logger: Configured logger. Must be closed with Close() to
//     release resources.
func New(config Config) *Logger {
	l := &Logger{config: config, exporter: config.Exporter}

	opts := &slog.HandlerOptions{Level: config.Level.toSlogLevel()}
	sinks := l.buildSinks(config, opts)

	var handler slog.Handler
	switch len(sinks) {
	case 0:
		// Never swallow logs entirely; fall back to stderr.
		handler = slog.NewTextHandler(os.Stderr, opts)
	case 1:
		handler = sinks[0]
	default:
		handler = &multiHandler{handlers: sinks}
	}

	if config.Service != "" {
		handler = handler.WithAttrs([]slog.Attr{slog.String("service", config.Service)})
	}

	l.slog = slog.New(handler)
	return l
}

// buildSinks assembles the stderr and file handlers. File setup
// failures degrade to stderr-only rather than erroring; a daemon that
// cannot open its log file should still log somewhere.
func (l *Logger) buildSinks(config Config, opts *slog.HandlerOptions) []slog.Handler {
	var sinks []slog.Handler

	if !config.Quiet {
		if config.JSON {
			sinks = append(sinks, slog.NewJSONHandler(os.Stderr, opts))
		} else {
			sinks = append(sinks, slog.NewTextHandler(os.Stderr, opts))
		}
	}

	if config.LogDir == "" {
		return sinks
	}
	dir := expandPath(config.LogDir)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return sinks
	}
	service := config.Service
	if service == "" {
		service = "causal"
	}
	name := fmt.Sprintf("%s_%s.log", service, time.Now().Format("2006-01-02"))
	file, err := os.OpenFile(filepath.Join(dir, name), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0640)
	if err != nil {
		return sinks
	}
	l.file = file
	// File logs are always JSON (machine-parseable)
	return append(sinks, slog.NewJSONHandler(file, opts))
}

// Default returns a stderr-only text logger at Info level with the
// "causal" service attribute.
func Default() *Logger {
	return New(Config{Level: LevelInfo, Service: "causal"})
}

// Debug logs a message at Debug level.
func (l *Logger) Debug(msg string, args ...any) { l.log(LevelDebug, msg, args...) }

// Info logs a message at Info level.
func (l *Logger) Info(msg string, args ...any) { l.log(LevelInfo, msg, args...) }

// Warn logs a message at Warn level.
func (l *Logger) Warn(msg string, args ...any) { l.log(LevelWarn, msg, args...) }

// Error logs a message at Error level.
func (l *Logger) Error(msg string, args ...any) { l.log(LevelError, msg, args...) }

// With returns a new Logger carrying additional attributes. The parent
// logger is not modified; file handle and exporter are shared.
//
// Example:
//
//	modelLogger := logger.With("model_id", id)
//	modelLogger.Info("sampling")  // Includes model_id
func (l *Logger) With(args ...any) *Logger {
	return &Logger{
		slog:     l.slog.With(args...),
		config:   l.config,
		file:     l.file,
		exporter: l.exporter,
	}
}

// Slog returns the underlying slog.Logger, for handing to libraries
// that take one (or to slog.SetDefault).
func (l *Logger) Slog() *slog.Logger {
	return l.slog
}

// Close flushes the exporter, closes it, syncs the log file, and
// closes the file. Returns the first error encountered.
func (l *Logger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	var firstErr error
	record := func(err error, what string) {
		if err != nil && firstErr == nil {
			firstErr = fmt.Errorf("%s: %w", what, err)
		}
	}

	if l.exporter != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		record(l.exporter.Flush(ctx), "flush exporter")
		record(l.exporter.Close(), "close exporter")
	}
	if l.file != nil {
		record(l.file.Sync(), "sync log file")
		record(l.file.Close(), "close log file")
	}
	return firstErr
}

// log writes to all destinations.
func (l *Logger) log(level Level, msg string, args ...any) {
	switch level {
	case LevelDebug:
		l.slog.Debug(msg, args...)
	case LevelWarn:
		l.slog.Warn(msg, args...)
	case LevelError:
		l.slog.Error(msg, args...)
	default:
		l.slog.Info(msg, args...)
	}

	if l.exporter == nil || level < l.config.Level {
		return
	}
	entry := LogEntry{
		Timestamp: time.Now(),
		Level:     level,
		Message:   msg,
		Service:   l.config.Service,
		Attrs:     argsToMap(args),
	}
	// Async export to avoid blocking the log call
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = l.exporter.Export(ctx, entry)
	}()
}

// =============================================================================
// Multi-Handler (Internal)
// =============================================================================

// multiHandler fans out log records to multiple slog handlers, which
// enables simultaneous stderr and file output with different formats.
type multiHandler struct {
	handlers []slog.Handler
}

// Enabled returns true if any handler is enabled for the level.
func (m *multiHandler) Enabled(ctx context.Context, level slog.Level) bool {
	for _, h := range m.handlers {
		if h.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

// Handle sends the record to all enabled handlers.
func (m *multiHandler) Handle(ctx context.Context, r slog.Record) error {
	for _, h := range m.handlers {
		if !h.Enabled(ctx, r.Level) {
			continue
		}
		if err := h.Handle(ctx, r); err != nil {
			return err
		}
	}
	return nil
}

// WithAttrs returns a new handler with additional attributes.
func (m *multiHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	next := make([]slog.Handler, len(m.handlers))
	for i, h := range m.handlers {
		next[i] = h.WithAttrs(attrs)
	}
	return &multiHandler{handlers: next}
}

// WithGroup returns a new handler with a group name.
func (m *multiHandler) WithGroup(name string) slog.Handler {
	next := make([]slog.Handler, len(m.handlers))
	for i, h := range m.handlers {
		next[i] = h.WithGroup(name)
	}
	return &multiHandler{handlers: next}
}

// =============================================================================
// Helper Functions
// =============================================================================

// expandPath expands a leading ~ to the user's home directory.
func expandPath(path string) string {
	if len(path) > 0 && path[0] == '~' {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[1:])
		}
	}
	return path
}

// argsToMap converts slog-style key-value args to a map for
// LogEntry.Attrs.
func argsToMap(args []any) map[string]any {
	attrs := make(map[string]any)
	for i := 0; i+1 < len(args); i += 2 {
		if key, ok := args[i].(string); ok {
			attrs[key] = args[i+1]
		}
	}
	return attrs
}
