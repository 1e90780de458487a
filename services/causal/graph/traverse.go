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

import "sort"

// Ancestors returns the strict ancestors of the union of the given
// nodes: every node with a directed path into at least one of them.
// The inputs themselves are excluded unless one is an ancestor of
// another. Result is sorted.
//
// Errors:
//
//	ErrNodeNotFound - A requested node does not exist (NodeError)
func (g *Graph) Ancestors(names ...string) ([]string, error) {
	return g.reach(names, g.parents, false)
}

// AncestralClosure returns the given nodes together with all of their
// ancestors, sorted. This is the node set d-separation and
// moralization operate on.
//
// Errors:
//
//	ErrNodeNotFound - A requested node does not exist (NodeError)
func (g *Graph) AncestralClosure(names ...string) ([]string, error) {
	return g.reach(names, g.parents, true)
}

// Descendants returns the strict descendants of the given node:
// every node reachable from it along directed edges. Result is
// sorted.
//
// Errors:
//
//	ErrNodeNotFound - The node does not exist (NodeError)
func (g *Graph) Descendants(name string) ([]string, error) {
	return g.reach([]string{name}, g.children, false)
}

// reach runs a BFS from the given seed nodes over the supplied
// adjacency (parents for ancestors, children for descendants) and
// returns the visited set, sorted. includeSeeds controls whether the
// seeds themselves appear in the result; a seed reached again
// through an edge is included either way.
func (g *Graph) reach(seeds []string, adj [][]int32, includeSeeds bool) ([]string, error) {
	seedIdxs, err := g.lookup(seeds)
	if err != nil {
		return nil, err
	}

	visited := make([]bool, len(g.names))
	queue := make([]int32, 0, len(seedIdxs))
	for _, idx := range seedIdxs {
		if !visited[idx] {
			visited[idx] = true
			queue = append(queue, idx)
		}
	}

	reached := make([]bool, len(g.names))
	for len(queue) > 0 {
		node := queue[0]
		queue = queue[1:]
		for _, next := range adj[node] {
			reached[next] = true
			if !visited[next] {
				visited[next] = true
				queue = append(queue, next)
			}
		}
	}

	var out []string
	for i, name := range g.names {
		if reached[i] || (includeSeeds && visited[i]) {
			out = append(out, name)
		}
	}
	return out, nil
}

// TopologicalOrder returns the nodes in a topological order:
// every edge points from an earlier node to a later one.
//
// Description:
//
//	Kahn's algorithm with a lexicographic tie-break: whenever more
//	than one node has no unprocessed parents, the alphabetically
//	first is emitted. The order is therefore a pure function of the
//	graph, which keeps downstream sampling reproducible.
func (g *Graph) TopologicalOrder() []string {
	indegree := make([]int, len(g.names))
	for i := range g.parents {
		indegree[i] = len(g.parents[i])
	}

	// ready is kept sorted ascending; indices sort identically to
	// names.
	var ready []int32
	for i := range g.names {
		if indegree[i] == 0 {
			ready = append(ready, int32(i))
		}
	}

	out := make([]string, 0, len(g.names))
	for len(ready) > 0 {
		node := ready[0]
		ready = ready[1:]
		out = append(out, g.names[node])
		for _, child := range g.children[node] {
			indegree[child]--
			if indegree[child] == 0 {
				ready = insertSorted(ready, child)
			}
		}
	}
	return out
}

// insertSorted inserts idx into a sorted slice, keeping it sorted.
func insertSorted(s []int32, idx int32) []int32 {
	pos := sort.Search(len(s), func(i int) bool { return s[i] >= idx })
	s = append(s, 0)
	copy(s[pos+1:], s[pos:])
	s[pos] = idx
	return s
}
