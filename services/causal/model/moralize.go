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

import "sort"

// MoralGraph is the undirected moral graph of an ancestral subgraph.
//
// It contains an edge between two variables if the ancestral subgraph
// has a directed edge between them (direction dropped), or if they
// share a common child inside the subgraph (married parents of a
// collider).
//
// # Lifetime
//
// A MoralGraph is a derived value: computed per query, never mutated
// after construction, and safe for concurrent reads.
type MoralGraph struct {
	// names holds the member variables in sorted order.
	names []string

	// index maps variable name -> position in names.
	index map[string]int32

	// adj[i] holds the neighbor indices of names[i], sorted.
	adj [][]int32
}

// Moralize builds the moral graph of the ancestral closure of the
// given variables. With no arguments the whole model is moralized.
//
// Description:
//
//	Restricts attention to the requested variables plus all of their
//	ancestors, drops edge directions, then connects every pair of
//	parents that share a child within that closure. The input model is
//	not modified.
//
// Errors:
//
//	graph.ErrNodeNotFound - A requested variable does not exist
//	                        (graph.NodeError)
func (m *CGM) Moralize(subset ...string) (*MoralGraph, error) {
	if len(subset) == 0 {
		subset = m.engine.Nodes()
	}
	closure, err := m.engine.AncestralClosure(subset...)
	if err != nil {
		return nil, err
	}

	mg := &MoralGraph{
		names: closure,
		index: make(map[string]int32, len(closure)),
	}
	for i, name := range mg.names {
		mg.index[name] = int32(i)
	}
	edges := make(map[[2]int32]bool)

	// closure came from the engine, so per-node lookups cannot fail.
	for _, child := range mg.names {
		parents, err := m.engine.Parents(child)
		if err != nil {
			return nil, err
		}
		inClosure := parents[:0:0]
		for _, p := range parents {
			if _, ok := mg.index[p]; ok {
				inClosure = append(inClosure, p)
			}
		}

		// Dropped-direction edges parent - child.
		for _, p := range inClosure {
			addUndirected(edges, mg.index[p], mg.index[child])
		}
		// Marry parents sharing this child.
		for i := 0; i < len(inClosure); i++ {
			for j := i + 1; j < len(inClosure); j++ {
				addUndirected(edges, mg.index[inClosure[i]], mg.index[inClosure[j]])
			}
		}
	}

	mg.adj = make([][]int32, len(mg.names))
	for e := range edges {
		mg.adj[e[0]] = append(mg.adj[e[0]], e[1])
		mg.adj[e[1]] = append(mg.adj[e[1]], e[0])
	}
	for i := range mg.adj {
		sort.Slice(mg.adj[i], func(a, b int) bool { return mg.adj[i][a] < mg.adj[i][b] })
	}
	return mg, nil
}

// addUndirected records an undirected edge keyed by the smaller index
// first.
func addUndirected(edges map[[2]int32]bool, a, b int32) {
	if a > b {
		a, b = b, a
	}
	edges[[2]int32{a, b}] = true
}

// Nodes returns the member variables, sorted.
func (g *MoralGraph) Nodes() []string {
	out := make([]string, len(g.names))
	copy(out, g.names)
	return out
}

// HasNode reports whether the variable is part of the moral graph.
func (g *MoralGraph) HasNode(name string) bool {
	_, ok := g.index[name]
	return ok
}

// HasEdge reports whether the two variables are adjacent in the moral
// graph. Order of the arguments is irrelevant.
func (g *MoralGraph) HasEdge(a, b string) bool {
	ia, ok := g.index[a]
	if !ok {
		return false
	}
	ib, ok := g.index[b]
	if !ok {
		return false
	}
	for _, n := range g.adj[ia] {
		if n == ib {
			return true
		}
	}
	return false
}

// Neighbors returns the variables adjacent to the given one, sorted.
// Unknown variables yield nil.
func (g *MoralGraph) Neighbors(name string) []string {
	idx, ok := g.index[name]
	if !ok {
		return nil
	}
	out := make([]string, len(g.adj[idx]))
	for i, n := range g.adj[idx] {
		out[i] = g.names[n]
	}
	return out
}

// connectedIgnoring reports whether any path exists from a source to a
// target after deleting the removed variables. This is the residual
// connectivity test at the heart of d-separation.
func (g *MoralGraph) connectedIgnoring(sources, targets, removed []string) bool {
	deleted := make([]bool, len(g.names))
	for _, name := range removed {
		if idx, ok := g.index[name]; ok {
			deleted[idx] = true
		}
	}
	target := make([]bool, len(g.names))
	for _, name := range targets {
		if idx, ok := g.index[name]; ok && !deleted[idx] {
			target[idx] = true
		}
	}

	visited := make([]bool, len(g.names))
	var queue []int32
	for _, name := range sources {
		idx, ok := g.index[name]
		if !ok || deleted[idx] || visited[idx] {
			continue
		}
		if target[idx] {
			return true
		}
		visited[idx] = true
		queue = append(queue, idx)
	}

	for len(queue) > 0 {
		node := queue[0]
		queue = queue[1:]
		for _, next := range g.adj[node] {
			if deleted[next] || visited[next] {
				continue
			}
			if target[next] {
				return true
			}
			visited[next] = true
			queue = append(queue, next)
		}
	}
	return false
}
