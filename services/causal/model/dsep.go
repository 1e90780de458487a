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
	"sort"

	"github.com/AleutianAI/CausalFOSS/services/causal/graph"
)

// IsDSeparated reports whether the variables in x are d-separated from
// those in y given the conditioning set z.
//
// Description:
//
//	Uses the moralization reduction: build the moral graph of the
//	ancestral closure of x ∪ y ∪ z, delete the conditioning variables,
//	and test connectivity between x and y in the residual undirected
//	graph. No remaining path means d-separated. The result matches the
//	classical per-path blocking rule (see IsPathBlocked).
//
//	Duplicates within each set are ignored and element order never
//	matters, so queries are idempotent under permutation. The result
//	is symmetric in x and y.
//
// Inputs:
//
//	x - First variable set. Must be non-empty.
//	y - Second variable set. Must be non-empty.
//	z - Conditioning set. May be empty.
//
// Errors:
//
//	ErrEmptyNodeSet       - x or y is empty after deduplication
//	ErrSetsOverlap        - The three sets are not pairwise disjoint
//	                        (OverlapError naming the shared variables)
//	graph.ErrNodeNotFound - A variable does not exist (graph.NodeError)
func (m *CGM) IsDSeparated(x, y, z []string) (bool, error) {
	x, y, z, err := m.normalizeQuerySets(x, y, z)
	if err != nil {
		return false, err
	}

	all := make([]string, 0, len(x)+len(y)+len(z))
	all = append(all, x...)
	all = append(all, y...)
	all = append(all, z...)
	moral, err := m.Moralize(all...)
	if err != nil {
		return false, err
	}
	return !moral.connectedIgnoring(x, y, z), nil
}

// normalizeQuerySets deduplicates and validates the three sets of an
// independence query.
func (m *CGM) normalizeQuerySets(x, y, z []string) (nx, ny, nz []string, err error) {
	nx = dedupe(x)
	ny = dedupe(y)
	nz = dedupe(z)
	if len(nx) == 0 || len(ny) == 0 {
		return nil, nil, nil, ErrEmptyNodeSet
	}
	for _, name := range nx {
		if !m.engine.HasNode(name) {
			return nil, nil, nil, graph.NewNodeError(name, graph.ErrNodeNotFound)
		}
	}
	for _, name := range ny {
		if !m.engine.HasNode(name) {
			return nil, nil, nil, graph.NewNodeError(name, graph.ErrNodeNotFound)
		}
	}
	for _, name := range nz {
		if !m.engine.HasNode(name) {
			return nil, nil, nil, graph.NewNodeError(name, graph.ErrNodeNotFound)
		}
	}
	if shared := overlap(nx, ny, nz); len(shared) > 0 {
		return nil, nil, nil, NewOverlapError(shared)
	}
	return nx, ny, nz, nil
}

// dedupe returns the unique elements of names, sorted.
func dedupe(names []string) []string {
	if len(names) == 0 {
		return nil
	}
	seen := make(map[string]bool, len(names))
	out := make([]string, 0, len(names))
	for _, n := range names {
		if !seen[n] {
			seen[n] = true
			out = append(out, n)
		}
	}
	sort.Strings(out)
	return out
}

// overlap returns every element appearing in more than one of the
// given deduplicated sets, sorted.
func overlap(sets ...[]string) []string {
	counts := make(map[string]int)
	for _, set := range sets {
		for _, n := range set {
			counts[n]++
		}
	}
	var shared []string
	for n, c := range counts {
		if c > 1 {
			shared = append(shared, n)
		}
	}
	sort.Strings(shared)
	return shared
}

// contains reports whether the sorted-or-not slice holds name.
func contains(names []string, name string) bool {
	for _, n := range names {
		if n == name {
			return true
		}
	}
	return false
}

// IsPathBlocked reports whether a single undirected path is blocked by
// the given conditioning set under the classical d-separation rule.
//
// Description:
//
//	Walks consecutive triples (a, b, c) along the path and classifies
//	each as a chain, fork, or collider. The path is blocked if some
//	chain or fork middle lies in the conditioning set, or some
//	collider's self-plus-descendants set avoids it entirely. Paths
//	shorter than three nodes are never blocked.
//
//	This is the rule the moralization oracle must agree with; it is
//	exposed for explanatory output (which backdoor path stays open and
//	why) and cross-checked against IsDSeparated in tests.
//
// Errors:
//
//	graph.ErrNodeNotFound - A path or conditioning variable is unknown
//	ErrNotAPath           - Consecutive path nodes are not adjacent in
//	                        either direction
func (m *CGM) IsPathBlocked(path []string, given []string) (bool, error) {
	for _, name := range path {
		if !m.engine.HasNode(name) {
			return false, graph.NewNodeError(name, graph.ErrNodeNotFound)
		}
	}
	for _, name := range given {
		if !m.engine.HasNode(name) {
			return false, graph.NewNodeError(name, graph.ErrNodeNotFound)
		}
	}
	if len(path) < 3 {
		return false, nil
	}

	for i := 0; i+2 < len(path); i++ {
		a, b, c := path[i], path[i+1], path[i+2]
		abEdge, err := m.hasDirectedEdge(a, b)
		if err != nil {
			return false, err
		}
		baEdge, err := m.hasDirectedEdge(b, a)
		if err != nil {
			return false, err
		}
		bcEdge, err := m.hasDirectedEdge(b, c)
		if err != nil {
			return false, err
		}
		cbEdge, err := m.hasDirectedEdge(c, b)
		if err != nil {
			return false, err
		}
		if (!abEdge && !baEdge) || (!bcEdge && !cbEdge) {
			return false, ErrNotAPath
		}

		switch {
		case abEdge && cbEdge:
			// Collider a -> b <- c: blocked unless b or one of its
			// descendants is conditioned on.
			desc, err := m.engine.Descendants(b)
			if err != nil {
				return false, err
			}
			opened := contains(given, b)
			for _, d := range desc {
				if opened {
					break
				}
				opened = contains(given, d)
			}
			if !opened {
				return true, nil
			}
		default:
			// Chain or fork: blocked when the middle is conditioned on.
			if contains(given, b) {
				return true, nil
			}
		}
	}
	return false, nil
}

// hasDirectedEdge reports whether from -> to is an edge of the model.
func (m *CGM) hasDirectedEdge(from, to string) (bool, error) {
	children, err := m.engine.Children(from)
	if err != nil {
		return false, err
	}
	return contains(children, to), nil
}
