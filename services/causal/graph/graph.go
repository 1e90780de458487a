// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package graph

import (
	"errors"
	"fmt"
	"sort"
)

// DefaultMaxNodes is the default node limit for a Builder.
//
// Causal graphs are small by construction (tens to low thousands of
// variables); the limit exists to catch programmatic loops feeding a
// builder, not to size real models.
const DefaultMaxNodes = 100_000

// Edge is a directed edge between two named nodes.
type Edge struct {
	// From is the parent node name.
	From string `json:"from"`

	// To is the child node name.
	To string `json:"to"`
}

// String returns the edge in "from -> to" form.
func (e Edge) String() string {
	return fmt.Sprintf("%s -> %s", e.From, e.To)
}

// Graph is an immutable directed acyclic graph.
//
// # Description
//
// Node names are interned to dense int32 indices. Parent and child
// adjacency is stored as per-node index slices sorted by neighbor
// name, so every query that returns names does so in a deterministic
// order without re-sorting.
//
// # Thread Safety
//
// All methods are read-only and safe for concurrent use.
type Graph struct {
	// names maps index -> node name, in sorted name order.
	names []string

	// index maps node name -> arena index.
	index map[string]int32

	// parents[i] holds indices of nodes with an edge into node i,
	// sorted by name.
	parents [][]int32

	// children[i] holds indices of nodes node i points at, sorted
	// by name.
	children [][]int32

	// edgeCount is the total number of directed edges.
	edgeCount int
}

// NodeCount returns the number of nodes.
func (g *Graph) NodeCount() int {
	return len(g.names)
}

// EdgeCount returns the number of directed edges.
func (g *Graph) EdgeCount() int {
	return g.edgeCount
}

// Nodes returns all node names in sorted order.
//
// The returned slice is a copy; callers may modify it freely.
func (g *Graph) Nodes() []string {
	out := make([]string, len(g.names))
	copy(out, g.names)
	return out
}

// HasNode reports whether the named node exists.
func (g *Graph) HasNode(name string) bool {
	_, ok := g.index[name]
	return ok
}

// Edges returns all directed edges sorted by (From, To).
func (g *Graph) Edges() []Edge {
	out := make([]Edge, 0, g.edgeCount)
	for i, kids := range g.children {
		for _, c := range kids {
			out = append(out, Edge{From: g.names[i], To: g.names[c]})
		}
	}
	return out
}

// Parents returns the names of the direct parents of the given node,
// sorted. Returns a NodeError wrapping ErrNodeNotFound if the node
// does not exist.
func (g *Graph) Parents(name string) ([]string, error) {
	idx, ok := g.index[name]
	if !ok {
		return nil, NewNodeError(name, ErrNodeNotFound)
	}
	return g.namesOf(g.parents[idx]), nil
}

// Children returns the names of the direct children of the given
// node, sorted. Returns a NodeError wrapping ErrNodeNotFound if the
// node does not exist.
func (g *Graph) Children(name string) ([]string, error) {
	idx, ok := g.index[name]
	if !ok {
		return nil, NewNodeError(name, ErrNodeNotFound)
	}
	return g.namesOf(g.children[idx]), nil
}

// namesOf converts an index slice to a fresh name slice.
//
// Adjacency is already sorted by name, so the output is too.
func (g *Graph) namesOf(idxs []int32) []string {
	out := make([]string, len(idxs))
	for i, idx := range idxs {
		out[i] = g.names[idx]
	}
	return out
}

// lookup resolves a list of names to indices, failing on the first
// unknown name.
func (g *Graph) lookup(names []string) ([]int32, error) {
	out := make([]int32, 0, len(names))
	for _, name := range names {
		idx, ok := g.index[name]
		if !ok {
			return nil, NewNodeError(name, ErrNodeNotFound)
		}
		out = append(out, idx)
	}
	return out, nil
}

// =============================================================================
// Builder
// =============================================================================

// BuilderOptions configures graph construction limits.
type BuilderOptions struct {
	// MaxNodes caps the number of declared nodes.
	MaxNodes int
}

// BuilderOption modifies BuilderOptions.
type BuilderOption func(*BuilderOptions)

// DefaultBuilderOptions returns the default construction limits.
func DefaultBuilderOptions() BuilderOptions {
	return BuilderOptions{
		MaxNodes: DefaultMaxNodes,
	}
}

// WithMaxNodes overrides the builder node limit.
func WithMaxNodes(n int) BuilderOption {
	return func(o *BuilderOptions) {
		o.MaxNodes = n
	}
}

// pendingEdge is an edge recorded before name resolution.
type pendingEdge struct {
	from string
	to   string
}

// Builder accumulates nodes and edges, then validates and freezes
// them into a Graph.
//
// # Description
//
// AddNode and AddEdge never fail; structural problems are recorded
// and reported together by Build(). Edges may reference nodes that
// are declared later; resolution happens at Build() time.
//
// # Example
//
//	g, err := graph.NewBuilder().
//	    AddNode("rain").
//	    AddNode("sprinkler").
//	    AddNode("wet").
//	    AddEdge("rain", "wet").
//	    AddEdge("sprinkler", "wet").
//	    Build()
//
// # Thread Safety
//
// Not safe for concurrent use. The *Graph returned by Build() is.
type Builder struct {
	options BuilderOptions
	nodes   []string
	seen    map[string]bool
	edges   []pendingEdge
	errs    []error
}

// NewBuilder creates an empty Builder.
func NewBuilder(opts ...BuilderOption) *Builder {
	options := DefaultBuilderOptions()
	for _, opt := range opts {
		opt(&options)
	}

	return &Builder{
		options: options,
		seen:    make(map[string]bool),
	}
}

// AddNode declares a node. Duplicate or empty names are recorded as
// errors and reported by Build().
func (b *Builder) AddNode(name string) *Builder {
	if name == "" {
		b.errs = append(b.errs, ErrEmptyNodeName)
		return b
	}
	if b.seen[name] {
		b.errs = append(b.errs, NewNodeError(name, ErrDuplicateNode))
		return b
	}
	b.seen[name] = true
	b.nodes = append(b.nodes, name)
	return b
}

// AddNodes declares several nodes at once.
func (b *Builder) AddNodes(names ...string) *Builder {
	for _, name := range names {
		b.AddNode(name)
	}
	return b
}

// AddEdge declares a directed edge. Endpoints must be declared via
// AddNode before Build() is called, in any order.
func (b *Builder) AddEdge(from, to string) *Builder {
	b.edges = append(b.edges, pendingEdge{from: from, to: to})
	return b
}

// Build validates the accumulated structure and returns an immutable
// Graph.
//
// Description:
//
//	Validation covers, in order: errors recorded during Add calls,
//	the node limit, edge endpoint resolution, self-loops, duplicate
//	edges, and acyclicity. All Add-phase errors are joined and
//	returned together; structural errors are returned one at a time.
//
// Outputs:
//
//	*Graph - The frozen graph. Nil on error.
//	error  - Non-nil if any validation failed.
//
// Errors:
//
//	ErrDuplicateNode    - A node name was declared twice
//	ErrEmptyNodeName    - A node name was empty
//	ErrMaxNodesExceeded - More nodes than the configured limit
//	ErrNodeNotFound     - An edge endpoint was never declared
//	ErrSelfLoop         - An edge with identical endpoints
//	ErrDuplicateEdge    - The same directed edge declared twice
//	ErrCycleDetected    - The edges form a directed cycle (CycleError
//	                      carries the offending path)
func (b *Builder) Build() (*Graph, error) {
	if len(b.errs) > 0 {
		return nil, errors.Join(b.errs...)
	}
	if len(b.nodes) > b.options.MaxNodes {
		return nil, fmt.Errorf("%w: %d > %d", ErrMaxNodesExceeded, len(b.nodes), b.options.MaxNodes)
	}

	g := &Graph{
		names: make([]string, len(b.nodes)),
		index: make(map[string]int32, len(b.nodes)),
	}
	copy(g.names, b.nodes)
	sort.Strings(g.names)
	for i, name := range g.names {
		g.index[name] = int32(i)
	}
	g.parents = make([][]int32, len(g.names))
	g.children = make([][]int32, len(g.names))

	type edgeKey struct{ from, to int32 }
	seenEdges := make(map[edgeKey]bool, len(b.edges))
	for _, e := range b.edges {
		from, ok := g.index[e.from]
		if !ok {
			return nil, NewNodeError(e.from, ErrNodeNotFound)
		}
		to, ok := g.index[e.to]
		if !ok {
			return nil, NewNodeError(e.to, ErrNodeNotFound)
		}
		if from == to {
			return nil, fmt.Errorf("edge %s -> %s: %w", e.from, e.to, ErrSelfLoop)
		}
		key := edgeKey{from: from, to: to}
		if seenEdges[key] {
			return nil, fmt.Errorf("edge %s -> %s: %w", e.from, e.to, ErrDuplicateEdge)
		}
		seenEdges[key] = true
		g.children[from] = append(g.children[from], to)
		g.parents[to] = append(g.parents[to], from)
		g.edgeCount++
	}

	// Indices were interned in sorted name order, so sorting by index
	// sorts by name.
	for i := range g.parents {
		sortIndexes(g.parents[i])
		sortIndexes(g.children[i])
	}

	if path := g.findCycle(); path != nil {
		return nil, NewCycleError(path)
	}
	return g, nil
}

// sortIndexes sorts an index slice ascending.
func sortIndexes(idxs []int32) {
	sort.Slice(idxs, func(a, b int) bool { return idxs[a] < idxs[b] })
}

// findCycle runs a DFS over all nodes and returns the first directed
// cycle found as a node-name path (first node repeated at the end),
// or nil if the graph is acyclic.
func (g *Graph) findCycle() []string {
	const (
		unvisited = 0
		inStack   = 1
		done      = 2
	)
	state := make([]byte, len(g.names))

	// Iterative DFS; frame.next tracks the child cursor so the stack
	// can resume after descending.
	type frame struct {
		node int32
		next int
	}

	for start := range g.names {
		if state[start] != unvisited {
			continue
		}
		stack := []frame{{node: int32(start)}}
		state[start] = inStack

		for len(stack) > 0 {
			top := &stack[len(stack)-1]
			kids := g.children[top.node]
			if top.next < len(kids) {
				child := kids[top.next]
				top.next++
				switch state[child] {
				case unvisited:
					state[child] = inStack
					stack = append(stack, frame{node: child})
				case inStack:
					// Found a back edge; the cycle is the stack
					// suffix starting at child.
					var path []string
					for i := range stack {
						if stack[i].node == child {
							for _, f := range stack[i:] {
								path = append(path, g.names[f.node])
							}
							break
						}
					}
					path = append(path, g.names[child])
					return path
				}
				continue
			}
			state[top.node] = done
			stack = stack[:len(stack)-1]
		}
	}
	return nil
}

// HasCycle reports whether the graph contains a directed cycle.
//
// Build() rejects cyclic input, so this is always false for graphs
// produced by a Builder; the method exists so the graph satisfies the
// full capability contract the causal layer is written against.
func (g *Graph) HasCycle() bool {
	return g.findCycle() != nil
}
