// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package telemetry wires OpenTelemetry tracing and metrics for the
// causal service.
//
// The otel API is the abstraction layer: no custom interfaces sit in
// front of it, and backends are swapped by exporter configuration
// rather than code. Traces default to OTLP over gRPC (any collector,
// Jaeger included, speaks it); metrics default to a prometheus scrape
// endpoint served through MetricsHandler().
//
// Usage:
//
//	shutdown, err := telemetry.Init(ctx, telemetry.DefaultConfig())
//	if err != nil {
//	    return fmt.Errorf("init telemetry: %w", err)
//	}
//	defer shutdown(ctx)
//
//	meter := otel.Meter("services/causal")
//	metrics, err := telemetry.NewMetrics(meter)
//
// Configuration honors the standard otel environment variables:
//
//   - OTEL_EXPORTER_OTLP_ENDPOINT: OTLP endpoint (default: localhost:4317)
//   - OTEL_TRACES_EXPORTER: otlp, stdout, or none (default: otlp)
//   - OTEL_METRICS_EXPORTER: prometheus, stdout, or none (default: prometheus)
//   - CAUSAL_ENV: environment name (default: development)
//
// LoggerWithTrace and LoggerWithModel attach trace and model
// correlation attributes to slog loggers so log lines can be joined
// with spans downstream.
//
// All exported functions are safe for concurrent use after Init
// returns.
package telemetry
