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
	"fmt"

	"go.opentelemetry.io/otel/metric"
)

// Metrics contains pre-defined metrics for the causal service.
//
// Description:
//
//	Provides standard counters, histograms, and gauges for HTTP requests,
//	graph queries (d-separation, backdoor, equivalence), and SCM sampling.
//	All metrics use the "causal_" prefix for consistent naming.
//
// Thread Safety: Safe for concurrent use after creation.
type Metrics struct {
	// --- HTTP Metrics ---

	// HTTPRequestsTotal counts total HTTP requests by method, path, and status.
	HTTPRequestsTotal metric.Int64Counter

	// HTTPRequestDuration records HTTP request duration in seconds.
	HTTPRequestDuration metric.Float64Histogram

	// HTTPActiveRequests tracks currently active HTTP requests.
	HTTPActiveRequests metric.Int64UpDownCounter

	// --- Query Metrics ---

	// QueriesTotal counts total causal queries by kind (dsep, backdoor,
	// independencies, equivalence) and status.
	QueriesTotal metric.Int64Counter

	// QueryDuration records causal query duration in seconds.
	QueryDuration metric.Float64Histogram

	// AdjustmentSetsYielded counts adjustment sets produced by
	// enumeration queries.
	AdjustmentSetsYielded metric.Int64Counter

	// --- SCM Metrics ---

	// SamplesTotal counts total sample rows drawn by model.
	SamplesTotal metric.Int64Counter

	// SampleDuration records SCM sampling duration in seconds.
	SampleDuration metric.Float64Histogram

	// CounterfactualsTotal counts counterfactual queries by status.
	CounterfactualsTotal metric.Int64Counter

	// ModelsActive tracks the number of models in the registry.
	ModelsActive metric.Int64ObservableGauge

	// --- Error Metrics ---

	// ErrorsTotal counts total errors by type and component.
	ErrorsTotal metric.Int64Counter
}

// NewMetrics creates a new Metrics instance with all metrics registered.
//
// Description:
//
//	Registers all pre-defined metrics with the provided meter.
//	Returns an error if any metric registration fails.
//
// Inputs:
//
//	meter - The OTel meter to use for metric registration.
//
// Outputs:
//
//	*Metrics - The metrics instance with all counters and histograms initialized.
//	error - Non-nil if metric registration fails.
//
// Example:
//
//	meter := otel.Meter("causal")
//	metrics, err := telemetry.NewMetrics(meter)
//	if err != nil {
//	    return fmt.Errorf("create metrics: %w", err)
//	}
//	metrics.QueriesTotal.Add(ctx, 1, ...)
//
// Thread Safety: Safe for concurrent use after creation.
func NewMetrics(meter metric.Meter) (*Metrics, error) {
	m := &Metrics{}
	var err error

	// --- HTTP Metrics ---
	m.HTTPRequestsTotal, err = meter.Int64Counter(
		"causal_http_requests_total",
		metric.WithDescription("Total HTTP requests"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create http_requests_total: %w", err)
	}

	m.HTTPRequestDuration, err = meter.Float64Histogram(
		"causal_http_request_duration_seconds",
		metric.WithDescription("HTTP request duration in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10),
	)
	if err != nil {
		return nil, fmt.Errorf("create http_request_duration: %w", err)
	}

	m.HTTPActiveRequests, err = meter.Int64UpDownCounter(
		"causal_http_active_requests",
		metric.WithDescription("Currently active HTTP requests"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create http_active_requests: %w", err)
	}

	// --- Query Metrics ---
	m.QueriesTotal, err = meter.Int64Counter(
		"causal_queries_total",
		metric.WithDescription("Total causal queries by kind"),
		metric.WithUnit("{query}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create queries_total: %w", err)
	}

	m.QueryDuration, err = meter.Float64Histogram(
		"causal_query_duration_seconds",
		metric.WithDescription("Causal query duration in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5),
	)
	if err != nil {
		return nil, fmt.Errorf("create query_duration: %w", err)
	}

	m.AdjustmentSetsYielded, err = meter.Int64Counter(
		"causal_adjustment_sets_yielded_total",
		metric.WithDescription("Total adjustment sets yielded by enumeration"),
		metric.WithUnit("{set}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create adjustment_sets_yielded: %w", err)
	}

	// --- SCM Metrics ---
	m.SamplesTotal, err = meter.Int64Counter(
		"causal_scm_samples_total",
		metric.WithDescription("Total sample rows drawn"),
		metric.WithUnit("{row}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create scm_samples_total: %w", err)
	}

	m.SampleDuration, err = meter.Float64Histogram(
		"causal_scm_sample_duration_seconds",
		metric.WithDescription("SCM sampling duration in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5),
	)
	if err != nil {
		return nil, fmt.Errorf("create scm_sample_duration: %w", err)
	}

	m.CounterfactualsTotal, err = meter.Int64Counter(
		"causal_counterfactuals_total",
		metric.WithDescription("Total counterfactual queries"),
		metric.WithUnit("{query}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create counterfactuals_total: %w", err)
	}

	// Note: ModelsActive requires a callback registration, handled separately

	// --- Error Metrics ---
	m.ErrorsTotal, err = meter.Int64Counter(
		"causal_errors_total",
		metric.WithDescription("Total errors by type and component"),
		metric.WithUnit("{error}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create errors_total: %w", err)
	}

	return m, nil
}

// RegisterModelsActive registers a callback for the active-models gauge.
//
// Description:
//
//	Sets up an observable gauge that reports the current size of the
//	model registry. The callback is invoked each time metrics are
//	scraped.
//
// Inputs:
//
//	meter - The OTel meter to use for registration.
//	countFunc - A function that returns the current number of stored models.
//
// Outputs:
//
//	metric.Registration - Registration handle for cleanup.
//	error - Non-nil if registration fails.
func (m *Metrics) RegisterModelsActive(meter metric.Meter, countFunc func() int64) (metric.Registration, error) {
	var err error
	m.ModelsActive, err = meter.Int64ObservableGauge(
		"causal_models_active",
		metric.WithDescription("Number of models currently in the registry"),
		metric.WithUnit("{model}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create models_active: %w", err)
	}

	return meter.RegisterCallback(func(_ context.Context, o metric.Observer) error {
		o.ObserveInt64(m.ModelsActive, countFunc())
		return nil
	}, m.ModelsActive)
}
