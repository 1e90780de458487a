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

// DefaultMaxPaths caps path enumeration results.
//
// Simple-path counts grow exponentially with graph density; the cap
// bounds memory for pathological inputs. Callers that need more can
// raise it explicitly.
const DefaultMaxPaths = 10_000

// PathOptions configures path enumeration.
type PathOptions struct {
	// MaxPaths caps the number of returned paths. Zero means
	// DefaultMaxPaths.
	MaxPaths int
}

// PathOption modifies PathOptions.
type PathOption func(*PathOptions)

// WithMaxPaths caps the number of paths returned by an enumeration.
func WithMaxPaths(n int) PathOption {
	return func(o *PathOptions) {
		o.MaxPaths = n
	}
}

func applyPathOptions(opts []PathOption) PathOptions {
	options := PathOptions{MaxPaths: DefaultMaxPaths}
	for _, opt := range opts {
		opt(&options)
	}
	if options.MaxPaths <= 0 {
		options.MaxPaths = DefaultMaxPaths
	}
	return options
}

// SimplePaths returns every simple directed path from one node to
// another.
//
// Description:
//
//	Depth-first enumeration with an on-path visited set. Neighbor
//	expansion follows sorted name order, so the result order is
//	deterministic. A path includes both endpoints; from == to yields
//	the single trivial path [from].
//
// Outputs:
//
//	[][]string - Paths as node-name slices, in DFS discovery order,
//	             truncated at the MaxPaths cap.
//	error      - Non-nil if either endpoint does not exist.
//
// Errors:
//
//	ErrNodeNotFound - Either endpoint is absent (NodeError)
func (g *Graph) SimplePaths(from, to string, opts ...PathOption) ([][]string, error) {
	return g.simplePaths(from, to, g.neighborsDirected, opts)
}

// UndirectedSimplePaths returns every simple path between two nodes
// ignoring edge direction.
//
// Backdoor-path analysis works on these: a backdoor path is an
// undirected simple path whose first hop enters the treatment
// against the edge direction.
//
// Errors:
//
//	ErrNodeNotFound - Either endpoint is absent (NodeError)
func (g *Graph) UndirectedSimplePaths(from, to string, opts ...PathOption) ([][]string, error) {
	return g.simplePaths(from, to, g.neighborsUndirected, opts)
}

// neighborsDirected returns the out-neighbors of node.
func (g *Graph) neighborsDirected(node int32) []int32 {
	return g.children[node]
}

// neighborsUndirected returns parents and children merged in sorted
// order without duplicates.
func (g *Graph) neighborsUndirected(node int32) []int32 {
	ps, cs := g.parents[node], g.children[node]
	out := make([]int32, 0, len(ps)+len(cs))
	i, j := 0, 0
	for i < len(ps) && j < len(cs) {
		switch {
		case ps[i] < cs[j]:
			out = append(out, ps[i])
			i++
		case ps[i] > cs[j]:
			out = append(out, cs[j])
			j++
		default:
			out = append(out, ps[i])
			i++
			j++
		}
	}
	out = append(out, ps[i:]...)
	out = append(out, cs[j:]...)
	return out
}

// simplePaths is the shared DFS under SimplePaths and
// UndirectedSimplePaths.
func (g *Graph) simplePaths(from, to string, neighbors func(int32) []int32, opts []PathOption) ([][]string, error) {
	options := applyPathOptions(opts)

	endpoints, err := g.lookup([]string{from, to})
	if err != nil {
		return nil, err
	}
	src, dst := endpoints[0], endpoints[1]

	var (
		paths   [][]string
		path    []int32
		onPath  = make([]bool, len(g.names))
		recurse func(node int32) bool
	)

	emit := func() {
		out := make([]string, len(path))
		for i, idx := range path {
			out[i] = g.names[idx]
		}
		paths = append(paths, out)
	}

	// recurse returns false once the cap is hit, unwinding the whole
	// search.
	recurse = func(node int32) bool {
		path = append(path, node)
		onPath[node] = true
		defer func() {
			path = path[:len(path)-1]
			onPath[node] = false
		}()

		if node == dst {
			emit()
			return len(paths) < options.MaxPaths
		}
		for _, next := range neighbors(node) {
			if onPath[next] {
				continue
			}
			if !recurse(next) {
				return false
			}
		}
		return true
	}

	recurse(src)
	return paths, nil
}
