// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package telemetry

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel/trace"
)

// LoggerWithTrace attaches the active span's trace_id and span_id to
// the logger so log lines can be joined with traces downstream. The
// logger is returned unchanged when the context carries no valid
// span. A nil logger falls back to slog.Default(). Safe for
// concurrent use.
func LoggerWithTrace(ctx context.Context, logger *slog.Logger) *slog.Logger {
	if logger == nil {
		logger = slog.Default()
	}
	if ctx == nil {
		return logger
	}
	sc := trace.SpanContextFromContext(ctx)
	if !sc.IsValid() {
		return logger
	}
	return logger.With(
		slog.String("trace_id", sc.TraceID().String()),
		slog.String("span_id", sc.SpanID().String()),
	)
}

// LoggerWithModel is LoggerWithTrace plus a model_id attribute, so
// entries from different registered models stay distinguishable when
// several are queried concurrently.
func LoggerWithModel(ctx context.Context, logger *slog.Logger, modelID string) *slog.Logger {
	return LoggerWithTrace(ctx, logger).With(slog.String("model_id", modelID))
}
