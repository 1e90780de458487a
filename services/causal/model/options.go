// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package model

import "runtime"

// QueryOptions configures enumeration queries (independence listing,
// adjustment-set search).
type QueryOptions struct {
	// Limit caps the number of results. Zero means unlimited.
	Limit int

	// MaxWorkers bounds parallel evaluation where a query supports it.
	// Zero means runtime.NumCPU().
	MaxWorkers int
}

// QueryOption modifies QueryOptions.
type QueryOption func(*QueryOptions)

// WithLimit caps the number of results an enumeration yields.
func WithLimit(n int) QueryOption {
	return func(o *QueryOptions) {
		o.Limit = n
	}
}

// WithMaxWorkers bounds the worker pool for parallel queries.
func WithMaxWorkers(n int) QueryOption {
	return func(o *QueryOptions) {
		o.MaxWorkers = n
	}
}

func applyQueryOptions(opts []QueryOption) QueryOptions {
	var options QueryOptions
	for _, opt := range opts {
		opt(&options)
	}
	if options.MaxWorkers <= 0 {
		options.MaxWorkers = runtime.NumCPU()
	}
	return options
}
