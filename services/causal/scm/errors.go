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
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for structural causal model construction and
// queries.
var (
	// ErrMissingDefinition indicates a graph variable without a
	// structural definition.
	ErrMissingDefinition = errors.New("missing definition")

	// ErrNilEquation indicates a definition with a nil equation.
	ErrNilEquation = errors.New("nil equation")

	// ErrNilSampler indicates a definition with a nil noise sampler.
	ErrNilSampler = errors.New("nil noise sampler")

	// ErrUnknownNode indicates a reference to a variable absent from
	// the model.
	ErrUnknownNode = errors.New("unknown node")

	// ErrNonInvertible indicates a counterfactual query against a
	// mechanism that cannot recover its noise term.
	ErrNonInvertible = errors.New("equation not invertible")

	// ErrIncompleteObservation indicates a counterfactual query whose
	// observed assignment does not cover every variable.
	ErrIncompleteObservation = errors.New("incomplete observation")

	// ErrEmptyFrame indicates a summary statistic requested over zero
	// rows.
	ErrEmptyFrame = errors.New("empty frame")

	// ErrNegativeSampleCount indicates a sample request for a negative
	// number of rows.
	ErrNegativeSampleCount = errors.New("negative sample count")
)

// ParentMismatchError reports a definition whose declared parent set
// does not match the variable's parents in the causal graph.
type ParentMismatchError struct {
	// Node is the variable whose definition is wrong.
	Node string

	// Declared is the parent set the equation declares, sorted.
	Declared []string

	// Expected is the parent set of the graph, sorted.
	Expected []string
}

// Error implements the error interface.
func (e *ParentMismatchError) Error() string {
	return fmt.Sprintf("node %q: equation parents [%s] do not match graph parents [%s]",
		e.Node, strings.Join(e.Declared, ", "), strings.Join(e.Expected, ", "))
}

// NewParentMismatchError creates a ParentMismatchError.
func NewParentMismatchError(node string, declared, expected []string) *ParentMismatchError {
	return &ParentMismatchError{Node: node, Declared: declared, Expected: expected}
}

// NonInvertibleError names the variable whose mechanism blocks
// counterfactual abduction. It unwraps to ErrNonInvertible.
type NonInvertibleError struct {
	// Node is the variable with the non-invertible equation.
	Node string
}

// Error implements the error interface.
func (e *NonInvertibleError) Error() string {
	return fmt.Sprintf("node %q: equation not invertible in its noise argument", e.Node)
}

// Unwrap returns ErrNonInvertible so callers can match with errors.Is.
func (e *NonInvertibleError) Unwrap() error {
	return ErrNonInvertible
}

// NewNonInvertibleError creates a NonInvertibleError for the node.
func NewNonInvertibleError(node string) *NonInvertibleError {
	return &NonInvertibleError{Node: node}
}

// IncompleteObservationError lists the variables missing from a
// counterfactual observation. It unwraps to ErrIncompleteObservation.
type IncompleteObservationError struct {
	// Missing holds the unobserved variables, sorted.
	Missing []string
}

// Error implements the error interface.
func (e *IncompleteObservationError) Error() string {
	return fmt.Sprintf("observation missing variables: %s", strings.Join(e.Missing, ", "))
}

// Unwrap returns ErrIncompleteObservation so callers can match with
// errors.Is.
func (e *IncompleteObservationError) Unwrap() error {
	return ErrIncompleteObservation
}

// NewIncompleteObservationError creates an IncompleteObservationError.
func NewIncompleteObservationError(missing []string) *IncompleteObservationError {
	return &IncompleteObservationError{Missing: missing}
}
