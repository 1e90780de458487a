// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package logging

import (
	"context"
	"sync"
	"time"
)

// LogExporter ships log entries to an external system (object storage,
// a log aggregator, an OTLP collector).
//
// Implementations should buffer internally and batch uploads; Export
// must not block the logging call path. Flush is called during
// graceful shutdown and should block until pending entries are sent;
// Close releases resources afterwards.
type LogExporter interface {
	// Export sends a log entry to the external system. Called
	// asynchronously for each entry with a 1-second timeout context.
	Export(ctx context.Context, entry LogEntry) error

	// Flush ensures all buffered entries are sent. Called during
	// graceful shutdown with a 5-second timeout context.
	Flush(ctx context.Context) error

	// Close releases resources held by the exporter.
	Close() error
}

// LogEntry is the structured record passed to LogExporter
// implementations.
type LogEntry struct {
	// Timestamp when the log was generated (local time)
	Timestamp time.Time

	// Level of the log (Debug, Info, Warn, Error)
	Level Level

	// Message is the primary log message
	Message string

	// Service identifies the component (from Config.Service)
	Service string

	// Attrs contains all key-value attributes
	Attrs map[string]any
}

// NopExporter discards all entries. Useful for testing or when export
// is disabled.
type NopExporter struct{}

var _ LogExporter = (*NopExporter)(nil)

// Export discards the entry (no-op).
func (e *NopExporter) Export(context.Context, LogEntry) error { return nil }

// Flush is a no-op.
func (e *NopExporter) Flush(context.Context) error { return nil }

// Close is a no-op.
func (e *NopExporter) Close() error { return nil }

// BufferedExporter collects log entries in memory. Useful in tests to
// verify log output:
//
//	exporter := logging.NewBufferedExporter()
//	logger := logging.New(logging.Config{Exporter: exporter})
//	logger.Info("sampled", "rows", 100)
//	entries := exporter.Entries()
type BufferedExporter struct {
	mu      sync.Mutex
	entries []LogEntry
}

// NewBufferedExporter creates a new BufferedExporter.
func NewBufferedExporter() *BufferedExporter {
	return &BufferedExporter{entries: make([]LogEntry, 0, 100)}
}

// Export adds the entry to the buffer.
func (e *BufferedExporter) Export(_ context.Context, entry LogEntry) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.entries = append(e.entries, entry)
	return nil
}

// Flush is a no-op (entries are already in memory).
func (e *BufferedExporter) Flush(context.Context) error { return nil }

// Close is a no-op.
func (e *BufferedExporter) Close() error { return nil }

// Entries returns a copy of all collected entries.
func (e *BufferedExporter) Entries() []LogEntry {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]LogEntry, len(e.entries))
	copy(out, e.entries)
	return out
}
