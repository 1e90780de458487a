// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package model implements the causal semantics layer: causal
// graphical models, d-separation, Markov equivalence, and backdoor
// adjustment.
//
// The package never touches raw adjacency storage. Every algorithm is
// written against the Engine capability interface, satisfied by
// *graph.Graph, and every derived structure (moral graphs,
// signatures, mutilated models) is a new value; a CGM is immutable
// once constructed.
package model

import (
	"fmt"
	"sort"
	"strings"

	"github.com/AleutianAI/CausalFOSS/services/causal/graph"
)

// Edge is a directed edge between two named variables.
type Edge = graph.Edge

// Engine is the graph capability surface the causal layer consumes.
//
// *graph.Graph satisfies it. The causal algorithms only ever go
// through these methods, so alternative DAG backends can be swapped in
// for testing or embedding.
type Engine interface {
	Nodes() []string
	HasNode(name string) bool
	Edges() []graph.Edge
	Parents(name string) ([]string, error)
	Children(name string) ([]string, error)
	Ancestors(names ...string) ([]string, error)
	AncestralClosure(names ...string) ([]string, error)
	Descendants(name string) ([]string, error)
	HasCycle() bool
	TopologicalOrder() []string
	SimplePaths(from, to string, opts ...graph.PathOption) ([][]string, error)
	UndirectedSimplePaths(from, to string, opts ...graph.PathOption) ([][]string, error)
	WithoutEdgesFrom(name string) (*graph.Graph, error)
	WithoutEdgesInto(name string) (*graph.Graph, error)
}

// CGM is a causal graphical model: a DAG over named variables plus the
// set of variables currently held fixed by intervention (do-nodes).
//
// # Thread Safety
//
// Immutable after construction; safe for concurrent use.
type CGM struct {
	engine  Engine
	doNodes map[string]bool
}

// Options configures CGM construction.
type Options struct {
	// DoNodes are variables held fixed by intervention. They may not
	// have parents.
	DoNodes []string
}

// Option modifies Options.
type Option func(*Options)

// WithDoNodes marks variables as intervened-on at construction time.
func WithDoNodes(names ...string) Option {
	return func(o *Options) {
		o.DoNodes = append(o.DoNodes, names...)
	}
}

// New constructs a CGM from a node list and an edge list.
//
// Description:
//
//	The node and edge structure is validated eagerly through the graph
//	builder: duplicate or empty node names, edges touching undeclared
//	nodes, self-loops, duplicate edges, and cycles are all rejected
//	here so that queries never re-validate. Do-nodes additionally must
//	have no parents: an intervened variable has been severed from its
//	natural causes.
//
// Errors:
//
//	graph.ErrDuplicateNode / ErrEmptyNodeName / ErrNodeNotFound /
//	ErrSelfLoop / ErrDuplicateEdge - Structural problems in the input
//	graph.ErrCycleDetected         - The edges form a cycle (CycleError)
//	ErrDoNodeHasParents            - A do-node has an inbound edge
func New(nodes []string, edges []Edge, opts ...Option) (*CGM, error) {
	options := Options{}
	for _, opt := range opts {
		opt(&options)
	}

	b := graph.NewBuilder()
	for _, n := range nodes {
		b.AddNode(n)
	}
	for _, e := range edges {
		b.AddEdge(e.From, e.To)
	}
	g, err := b.Build()
	if err != nil {
		return nil, fmt.Errorf("build causal graph: %w", err)
	}

	doNodes := make(map[string]bool, len(options.DoNodes))
	for _, n := range options.DoNodes {
		if !g.HasNode(n) {
			return nil, graph.NewNodeError(n, graph.ErrNodeNotFound)
		}
		parents, err := g.Parents(n)
		if err != nil {
			return nil, err
		}
		if len(parents) > 0 {
			return nil, graph.NewNodeError(n, ErrDoNodeHasParents)
		}
		doNodes[n] = true
	}

	return &CGM{engine: g, doNodes: doNodes}, nil
}

// fromEngine wraps an already-validated engine. Used by derivations
// (Do, backdoor testing) where the structure is correct by
// construction.
func fromEngine(engine Engine, doNodes map[string]bool) *CGM {
	return &CGM{engine: engine, doNodes: doNodes}
}

// Engine returns the underlying graph capability.
func (m *CGM) Engine() Engine {
	return m.engine
}

// Nodes returns all variable names, sorted.
func (m *CGM) Nodes() []string {
	return m.engine.Nodes()
}

// HasNode reports whether the named variable exists in the model.
func (m *CGM) HasNode(name string) bool {
	return m.engine.HasNode(name)
}

// Edges returns all directed edges sorted by (From, To).
func (m *CGM) Edges() []Edge {
	return m.engine.Edges()
}

// DoNodes returns the intervened-on variables, sorted.
func (m *CGM) DoNodes() []string {
	out := make([]string, 0, len(m.doNodes))
	for n := range m.doNodes {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

// IsDoNode reports whether the named variable is held fixed by
// intervention.
func (m *CGM) IsDoNode(name string) bool {
	return m.doNodes[name]
}

// Parents returns the direct causes of the given variable, sorted.
func (m *CGM) Parents(name string) ([]string, error) {
	return m.engine.Parents(name)
}

// Children returns the direct effects of the given variable, sorted.
func (m *CGM) Children(name string) ([]string, error) {
	return m.engine.Children(name)
}

// Ancestors returns the strict ancestors of the union of the given
// variables, sorted.
func (m *CGM) Ancestors(names ...string) ([]string, error) {
	return m.engine.Ancestors(names...)
}

// Descendants returns the strict descendants of the given variable,
// sorted.
func (m *CGM) Descendants(name string) ([]string, error) {
	return m.engine.Descendants(name)
}

// TopologicalOrder returns the variables in the engine's deterministic
// topological order.
func (m *CGM) TopologicalOrder() []string {
	return m.engine.TopologicalOrder()
}

// Do returns a new model with an intervention applied to the given
// variable: its inbound edges are removed and it is marked as a
// do-node. The receiver is unchanged.
//
// Errors:
//
//	graph.ErrNodeNotFound - The variable does not exist (NodeError)
func (m *CGM) Do(node string) (*CGM, error) {
	cut, err := m.engine.WithoutEdgesInto(node)
	if err != nil {
		return nil, err
	}

	doNodes := make(map[string]bool, len(m.doNodes)+1)
	for n := range m.doNodes {
		doNodes[n] = true
	}
	doNodes[node] = true
	return fromEngine(cut, doNodes), nil
}

// DistributionString returns the factorized joint distribution implied
// by the model, e.g. "P(rain|season)P(wet|rain,sprinkler)".
//
// Do-nodes contribute no factor of their own and appear as "do(x)"
// where they parent another variable. Factors follow the engine's
// topological order, so the output is deterministic.
func (m *CGM) DistributionString() string {
	var sb strings.Builder
	for _, node := range m.engine.TopologicalOrder() {
		if m.doNodes[node] {
			continue
		}
		parents, err := m.engine.Parents(node)
		if err != nil {
			// Nodes come from the engine itself.
			continue
		}
		if len(parents) == 0 {
			fmt.Fprintf(&sb, "P(%s)", node)
			continue
		}
		rendered := make([]string, len(parents))
		for i, p := range parents {
			if m.doNodes[p] {
				rendered[i] = fmt.Sprintf("do(%s)", p)
			} else {
				rendered[i] = p
			}
		}
		fmt.Fprintf(&sb, "P(%s|%s)", node, strings.Join(rendered, ","))
	}
	return sb.String()
}

// DOT returns a Graphviz description of the model. Variables are
// drawn as ellipses; do-nodes get a double periphery.
func (m *CGM) DOT() string {
	var sb strings.Builder
	sb.WriteString("digraph {\n")
	for _, node := range m.engine.Nodes() {
		if m.doNodes[node] {
			fmt.Fprintf(&sb, "\t%q [shape=ellipse peripheries=2];\n", node)
		} else {
			fmt.Fprintf(&sb, "\t%q [shape=ellipse];\n", node)
		}
	}
	for _, e := range m.engine.Edges() {
		fmt.Fprintf(&sb, "\t%q -> %q;\n", e.From, e.To)
	}
	sb.WriteString("}\n")
	return sb.String()
}

// String returns a short textual description of the model.
func (m *CGM) String() string {
	return fmt.Sprintf("CGM(%s)", strings.Join(m.engine.Nodes(), ", "))
}
