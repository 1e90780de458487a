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

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for causal model construction and queries.
var (
	// ErrEmptyNodeSet indicates an independence query with an empty x or y set.
	ErrEmptyNodeSet = errors.New("empty node set")

	// ErrSetsOverlap indicates the x, y, z sets of an independence query
	// are not pairwise disjoint.
	ErrSetsOverlap = errors.New("node sets overlap")

	// ErrNodeSetMismatch indicates an equivalence check between graphs
	// over different variable sets.
	ErrNodeSetMismatch = errors.New("node sets differ")

	// ErrTreatmentIsOutcome indicates a backdoor query where treatment and
	// outcome are the same node.
	ErrTreatmentIsOutcome = errors.New("treatment equals outcome")

	// ErrDoNodeHasParents indicates a do-node declared with inbound edges.
	ErrDoNodeHasParents = errors.New("do-node has parents")

	// ErrNotAPath indicates a path whose consecutive nodes are not
	// adjacent in the graph.
	ErrNotAPath = errors.New("nodes do not form a path")
)

// OverlapError reports the nodes shared between sets that must be
// disjoint. It unwraps to ErrSetsOverlap.
type OverlapError struct {
	// Nodes are the offending shared nodes, sorted.
	Nodes []string
}

// Error implements the error interface.
func (e *OverlapError) Error() string {
	return fmt.Sprintf("node sets overlap on: %s", strings.Join(e.Nodes, ", "))
}

// Unwrap returns ErrSetsOverlap so callers can match with errors.Is.
func (e *OverlapError) Unwrap() error {
	return ErrSetsOverlap
}

// NewOverlapError creates an OverlapError for the given shared nodes.
func NewOverlapError(nodes []string) *OverlapError {
	return &OverlapError{Nodes: nodes}
}

// NodeSetMismatchError reports the symmetric difference between the
// node sets of two graphs compared for Markov equivalence. It unwraps
// to ErrNodeSetMismatch.
type NodeSetMismatchError struct {
	// OnlyA holds nodes present only in the first graph, sorted.
	OnlyA []string

	// OnlyB holds nodes present only in the second graph, sorted.
	OnlyB []string
}

// Error implements the error interface.
func (e *NodeSetMismatchError) Error() string {
	return fmt.Sprintf("node sets differ: only in first: [%s], only in second: [%s]",
		strings.Join(e.OnlyA, ", "), strings.Join(e.OnlyB, ", "))
}

// Unwrap returns ErrNodeSetMismatch so callers can match with errors.Is.
func (e *NodeSetMismatchError) Unwrap() error {
	return ErrNodeSetMismatch
}

// NewNodeSetMismatchError creates a NodeSetMismatchError.
func NewNodeSetMismatchError(onlyA, onlyB []string) *NodeSetMismatchError {
	return &NodeSetMismatchError{OnlyA: onlyA, OnlyB: onlyB}
}
