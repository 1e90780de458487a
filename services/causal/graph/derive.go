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

// Derived graphs. Each method returns a new Graph; the receiver is
// never modified. Derivations of an acyclic graph only remove edges
// or nodes, so the results skip cycle re-validation.

// Induced returns the subgraph induced by the given nodes: those
// nodes and every edge whose endpoints are both in the set.
//
// Errors:
//
//	ErrNodeNotFound - A requested node does not exist (NodeError)
func (g *Graph) Induced(names ...string) (*Graph, error) {
	keep, err := g.lookup(names)
	if err != nil {
		return nil, err
	}
	inSet := make([]bool, len(g.names))
	for _, idx := range keep {
		inSet[idx] = true
	}

	b := NewBuilder()
	for i, name := range g.names {
		if inSet[i] {
			b.AddNode(name)
		}
	}
	for i, kids := range g.children {
		if !inSet[i] {
			continue
		}
		for _, c := range kids {
			if inSet[c] {
				b.AddEdge(g.names[i], g.names[c])
			}
		}
	}
	return b.mustBuild(), nil
}

// WithoutEdgesFrom returns a copy of the graph with every edge out
// of the given node removed. Used for backdoor testing, which works
// on the graph with the treatment's outgoing edges cut.
//
// Errors:
//
//	ErrNodeNotFound - The node does not exist (NodeError)
func (g *Graph) WithoutEdgesFrom(name string) (*Graph, error) {
	return g.withoutEdges(name, func(from, to int32, node int32) bool {
		return from == node
	})
}

// WithoutEdgesInto returns a copy of the graph with every edge into
// the given node removed. This is the structural half of an
// intervention: do(x) severs x from its natural causes.
//
// Errors:
//
//	ErrNodeNotFound - The node does not exist (NodeError)
func (g *Graph) WithoutEdgesInto(name string) (*Graph, error) {
	return g.withoutEdges(name, func(from, to int32, node int32) bool {
		return to == node
	})
}

// withoutEdges copies the graph, dropping edges for which drop
// returns true.
func (g *Graph) withoutEdges(name string, drop func(from, to, node int32) bool) (*Graph, error) {
	node, ok := g.index[name]
	if !ok {
		return nil, NewNodeError(name, ErrNodeNotFound)
	}

	b := NewBuilder()
	for _, n := range g.names {
		b.AddNode(n)
	}
	for i, kids := range g.children {
		for _, c := range kids {
			if drop(int32(i), c, node) {
				continue
			}
			b.AddEdge(g.names[i], g.names[c])
		}
	}
	return b.mustBuild(), nil
}

// mustBuild builds a graph that is valid by construction: nodes and
// edges taken from an already validated graph, with only removals
// applied. A failure here is a bug, not an input error.
func (b *Builder) mustBuild() *Graph {
	g, err := b.Build()
	if err != nil {
		panic("graph: derived build failed: " + err.Error())
	}
	return g
}
