// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package graph provides the directed acyclic graph engine underneath
// the causal reasoning layer.
//
// Nodes are interned to dense int32 indices at build time; parent and
// child adjacency lists hold indices, not pointers. This keeps
// traversal allocation-free and avoids ownership cycles between node
// objects.
//
// # Lifecycle
//
// Graphs are built once and never mutated:
//
//  1. Building: collect nodes and edges through a Builder.
//  2. Built: Build() validates the structure (unknown endpoints,
//     duplicates, self-loops, cycles) and returns an immutable *Graph.
//
// Derivation methods (Induced, WithoutEdgesFrom, WithoutEdgesInto)
// return new graphs; the receiver is never written to after Build().
//
// # Thread Safety
//
// A Builder is single-goroutine. A built *Graph is safe for
// unsynchronized concurrent reads from any number of goroutines.
package graph

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for graph construction and queries.
var (
	// ErrNodeNotFound indicates a referenced node does not exist in the graph.
	ErrNodeNotFound = errors.New("node not found")

	// ErrDuplicateNode indicates a node name was declared more than once.
	ErrDuplicateNode = errors.New("duplicate node")

	// ErrDuplicateEdge indicates the same directed edge was declared twice.
	ErrDuplicateEdge = errors.New("duplicate edge")

	// ErrSelfLoop indicates an edge whose endpoints are the same node.
	ErrSelfLoop = errors.New("self loop")

	// ErrCycleDetected indicates the declared edges form a directed cycle.
	ErrCycleDetected = errors.New("cycle detected")

	// ErrMaxNodesExceeded indicates the builder's node limit was exceeded.
	ErrMaxNodesExceeded = errors.New("max nodes exceeded")

	// ErrEmptyNodeName indicates a node was declared with an empty name.
	ErrEmptyNodeName = errors.New("empty node name")
)

// NodeError wraps an error with the node name that caused it.
type NodeError struct {
	// Node is the name of the offending node.
	Node string

	// Err is the underlying error.
	Err error
}

// Error implements the error interface.
func (e *NodeError) Error() string {
	return fmt.Sprintf("node %q: %v", e.Node, e.Err)
}

// Unwrap returns the underlying error for errors.Is/As.
func (e *NodeError) Unwrap() error {
	return e.Err
}

// NewNodeError creates a NodeError for the given node.
func NewNodeError(node string, err error) *NodeError {
	return &NodeError{Node: node, Err: err}
}

// CycleError reports a directed cycle found during Build.
//
// Path holds the nodes forming the cycle in traversal order, with the
// first node repeated at the end.
type CycleError struct {
	Path []string
}

// Error implements the error interface.
func (e *CycleError) Error() string {
	return fmt.Sprintf("cycle detected: %s", strings.Join(e.Path, " -> "))
}

// Unwrap returns ErrCycleDetected so callers can match with errors.Is.
func (e *CycleError) Unwrap() error {
	return ErrCycleDetected
}

// NewCycleError creates a CycleError with the given path.
func NewCycleError(path []string) *CycleError {
	return &CycleError{Path: path}
}
