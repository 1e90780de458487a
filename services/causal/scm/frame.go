// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package scm

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"
)

// Frame holds a batch of sampled assignments in column-major form.
//
// # Thread Safety
//
// Immutable once returned by SampleN; safe for concurrent reads.
type Frame struct {
	columns []string
	index   map[string]int
	data    [][]float64
}

// newFrame allocates an n-row frame over the given columns.
func newFrame(columns []string, n int) *Frame {
	f := &Frame{
		columns: columns,
		index:   make(map[string]int, len(columns)),
		data:    make([][]float64, len(columns)),
	}
	for i, c := range columns {
		f.index[c] = i
		f.data[i] = make([]float64, n)
	}
	return f
}

// setRow writes one assignment into row i.
func (f *Frame) setRow(i int, values Assignment) {
	for c, col := range f.columns {
		f.data[c][i] = values[col]
	}
}

// Columns returns the column names, sorted.
func (f *Frame) Columns() []string {
	out := make([]string, len(f.columns))
	copy(out, f.columns)
	return out
}

// Len returns the number of rows.
func (f *Frame) Len() int {
	if len(f.data) == 0 {
		return 0
	}
	return len(f.data[0])
}

// Column returns the values of the named column. The returned slice
// is a copy.
//
// Errors:
//
//	ErrUnknownNode - The column does not exist
func (f *Frame) Column(name string) ([]float64, error) {
	idx, ok := f.index[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownNode, name)
	}
	out := make([]float64, len(f.data[idx]))
	copy(out, f.data[idx])
	return out, nil
}

// Row returns row i as an assignment.
func (f *Frame) Row(i int) Assignment {
	out := make(Assignment, len(f.columns))
	for c, col := range f.columns {
		out[col] = f.data[c][i]
	}
	return out
}

// Mean returns the sample mean of the named column.
//
// Errors:
//
//	ErrUnknownNode - The column does not exist
//	ErrEmptyFrame  - The frame has zero rows
func (f *Frame) Mean(name string) (float64, error) {
	idx, ok := f.index[name]
	if !ok {
		return math.NaN(), fmt.Errorf("%w: %s", ErrUnknownNode, name)
	}
	if len(f.data[idx]) == 0 {
		return math.NaN(), ErrEmptyFrame
	}
	return stat.Mean(f.data[idx], nil), nil
}

// StdDev returns the sample standard deviation of the named column.
//
// Errors:
//
//	ErrUnknownNode - The column does not exist
//	ErrEmptyFrame  - The frame has zero rows
func (f *Frame) StdDev(name string) (float64, error) {
	idx, ok := f.index[name]
	if !ok {
		return math.NaN(), fmt.Errorf("%w: %s", ErrUnknownNode, name)
	}
	if len(f.data[idx]) == 0 {
		return math.NaN(), ErrEmptyFrame
	}
	return stat.StdDev(f.data[idx], nil), nil
}

// Summary returns per-column mean and standard deviation.
func (f *Frame) Summary() map[string]ColumnSummary {
	out := make(map[string]ColumnSummary, len(f.columns))
	for _, col := range f.columns {
		mean, err := f.Mean(col)
		if err != nil {
			continue
		}
		sd, err := f.StdDev(col)
		if err != nil {
			continue
		}
		out[col] = ColumnSummary{Mean: mean, StdDev: sd}
	}
	return out
}

// ColumnSummary holds the summary statistics of one column.
type ColumnSummary struct {
	// Mean is the sample mean.
	Mean float64 `json:"mean"`

	// StdDev is the sample standard deviation.
	StdDev float64 `json:"std_dev"`
}
