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
	"errors"
	"fmt"
	"net/http"
	"os"
	"sync"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	promexporter "go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutmetric"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	"go.opentelemetry.io/otel/sdk/trace"
)

// promHandler holds the scrape handler installed when the prometheus
// metric exporter is selected. Read it through MetricsHandler().
var (
	promHandler   http.Handler
	promHandlerMu sync.RWMutex
)

// Config selects the exporters and the service identity attached to
// every span and metric. Zero values are not usable; start from
// DefaultConfig().
type Config struct {
	// ServiceName identifies this process in traces and metrics.
	ServiceName string `json:"service_name"`

	// ServiceVersion is stamped on the otel resource.
	ServiceVersion string `json:"service_version"`

	// Environment names the deployment environment.
	Environment string `json:"environment"`

	// TraceExporter is one of "otlp", "stdout", or "none".
	TraceExporter string `json:"trace_exporter"`

	// MetricExporter is one of "prometheus", "stdout", or "none".
	MetricExporter string `json:"metric_exporter"`

	// OTLPEndpoint is the gRPC endpoint spans are shipped to when the
	// otlp trace exporter is selected.
	OTLPEndpoint string `json:"otlp_endpoint"`

	// OTLPInsecure disables TLS on the OTLP connection. Local
	// collectors rarely terminate TLS, so this defaults to true.
	OTLPInsecure bool `json:"otlp_insecure"`
}

// DefaultConfig returns development defaults, honoring the standard
// otel environment variables plus CAUSAL_ENV for the environment name.
func DefaultConfig() Config {
	return Config{
		ServiceName:    "causal",
		ServiceVersion: "1.0.0",
		Environment:    envOr("CAUSAL_ENV", "development"),
		TraceExporter:  envOr("OTEL_TRACES_EXPORTER", "otlp"),
		MetricExporter: envOr("OTEL_METRICS_EXPORTER", "prometheus"),
		OTLPEndpoint:   envOr("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317"),
		OTLPInsecure:   true,
	}
}

// Init configures the global otel tracer and meter providers.
//
// Description:
//
//	Wires the configured exporters into the otel SDK and installs the
//	resulting providers globally. Once Init returns, otel.Tracer and
//	otel.Meter hand out instrumented instances anywhere in the
//	process. Call once at startup.
//
// Inputs:
//
//	ctx - Context used while dialing exporters.
//	cfg - Exporter selection and service identity.
//
// Outputs:
//
//	shutdown - Flushes and stops every provider Init created. The
//	           caller must invoke it on exit or buffered spans are
//	           lost.
//	error - Non-nil when an exporter cannot be constructed.
func Init(ctx context.Context, cfg Config) (shutdown func(context.Context) error, err error) {
	if ctx == nil {
		return nil, ErrNilContext
	}

	res := resource.NewWithAttributes(
		"",
		attribute.String("service.name", cfg.ServiceName),
		attribute.String("service.version", cfg.ServiceVersion),
		attribute.String("deployment.environment", cfg.Environment),
	)

	var cleanups []func(context.Context) error

	if cfg.TraceExporter != "none" {
		tp, err := newTraceProvider(ctx, cfg, res)
		if err != nil {
			return nil, fmt.Errorf("init tracer: %w", err)
		}
		otel.SetTracerProvider(tp)
		cleanups = append(cleanups, tp.Shutdown)
	}

	if cfg.MetricExporter != "none" {
		mp, err := newMeterProvider(cfg, res)
		if err != nil {
			return nil, fmt.Errorf("init meter: %w", err)
		}
		otel.SetMeterProvider(mp)
		cleanups = append(cleanups, mp.Shutdown)
	}

	shutdown = func(ctx context.Context) error {
		var errs []error
		for _, fn := range cleanups {
			errs = append(errs, fn(ctx))
		}
		return errors.Join(errs...)
	}
	return shutdown, nil
}

// MetricsHandler returns the prometheus scrape handler, or nil when
// the prometheus exporter is not active. Safe for concurrent use.
func MetricsHandler() http.Handler {
	promHandlerMu.RLock()
	defer promHandlerMu.RUnlock()
	return promHandler
}

func newTraceProvider(ctx context.Context, cfg Config, res *resource.Resource) (*trace.TracerProvider, error) {
	var exporter trace.SpanExporter
	var err error

	switch cfg.TraceExporter {
	case "otlp":
		opts := []otlptracegrpc.Option{otlptracegrpc.WithEndpoint(cfg.OTLPEndpoint)}
		if cfg.OTLPInsecure {
			opts = append(opts, otlptracegrpc.WithInsecure())
		}
		exporter, err = otlptracegrpc.New(ctx, opts...)
	case "stdout":
		exporter, err = stdouttrace.New(stdouttrace.WithPrettyPrint())
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownExporter, cfg.TraceExporter)
	}
	if err != nil {
		return nil, fmt.Errorf("create trace exporter: %w", err)
	}

	// Sample everything; query volume is low and the spans are the
	// whole point of running a collector locally.
	return trace.NewTracerProvider(
		trace.WithBatcher(exporter),
		trace.WithResource(res),
		trace.WithSampler(trace.AlwaysSample()),
	), nil
}

func newMeterProvider(cfg Config, res *resource.Resource) (*metric.MeterProvider, error) {
	switch cfg.MetricExporter {
	case "prometheus":
		// The otel prometheus exporter registers against the default
		// prometheus registry, so promhttp.Handler() serves our
		// instruments alongside the Go runtime collectors.
		exporter, err := promexporter.New()
		if err != nil {
			return nil, fmt.Errorf("create prometheus exporter: %w", err)
		}
		promHandlerMu.Lock()
		promHandler = promhttp.Handler()
		promHandlerMu.Unlock()
		return metric.NewMeterProvider(
			metric.WithResource(res),
			metric.WithReader(exporter),
		), nil

	case "stdout":
		exporter, err := stdoutmetric.New(stdoutmetric.WithPrettyPrint())
		if err != nil {
			return nil, fmt.Errorf("create stdout metric exporter: %w", err)
		}
		return metric.NewMeterProvider(
			metric.WithResource(res),
			metric.WithReader(metric.NewPeriodicReader(exporter)),
		), nil

	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownExporter, cfg.MetricExporter)
	}
}

// envOr returns the environment variable value or the fallback.
func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
