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
	"context"

	"golang.org/x/sync/errgroup"
)

// Independence is one conditional independence relationship implied by
// the graph structure: X ⟂ Y | Given.
type Independence struct {
	// X is the first variable.
	X string `json:"x"`

	// Y is the second variable.
	Y string `json:"y"`

	// Given is the conditioning set, sorted. Empty means marginal
	// independence.
	Given []string `json:"given,omitempty"`
}

// AllIndependencies lists every pairwise conditional independence
// relationship implied by the model.
//
// Description:
//
//	For each unordered variable pair (x, y) and each subset z of the
//	remaining variables, tests x ⟂ y | z. Candidate triples are
//	generated in a deterministic order (pairs sorted, subsets by
//	increasing size then lexicographically) and evaluated on a bounded
//	worker pool; the output preserves the generation order regardless
//	of scheduling.
//
//	The candidate space is exponential in the variable count. Use
//	WithLimit to cap the result and keep large models tractable.
//
// Inputs:
//
//	ctx  - Cancels the enumeration between pair evaluations.
//	opts - WithLimit caps results; WithMaxWorkers bounds parallelism.
//
// Outputs:
//
//	[]Independence - The relationships, in deterministic order.
//	error          - Context cancellation; queries on a validated
//	                 model cannot otherwise fail.
func (m *CGM) AllIndependencies(ctx context.Context, opts ...QueryOption) ([]Independence, error) {
	options := applyQueryOptions(opts)
	nodes := m.engine.Nodes()

	type candidate struct {
		x, y  string
		given []string
	}
	var candidates []candidate
	for i := 0; i < len(nodes); i++ {
		for j := i + 1; j < len(nodes); j++ {
			rest := make([]string, 0, len(nodes)-2)
			for k, n := range nodes {
				if k != i && k != j {
					rest = append(rest, n)
				}
			}
			for size := 0; size <= len(rest); size++ {
				combos := newCombinations(len(rest), size)
				for combos.next() {
					given := make([]string, 0, size)
					for _, idx := range combos.current() {
						given = append(given, rest[idx])
					}
					candidates = append(candidates, candidate{x: nodes[i], y: nodes[j], given: given})
				}
			}
		}
	}

	results := make([]bool, len(candidates))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(options.MaxWorkers)
	for i, c := range candidates {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			separated, err := m.IsDSeparated([]string{c.x}, []string{c.y}, c.given)
			if err != nil {
				return err
			}
			results[i] = separated
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var out []Independence
	for i, c := range candidates {
		if !results[i] {
			continue
		}
		out = append(out, Independence{X: c.x, Y: c.y, Given: c.given})
		if options.Limit > 0 && len(out) >= options.Limit {
			break
		}
	}
	return out, nil
}

// combinations enumerates k-element index subsets of [0, n) in
// lexicographic order.
type combinations struct {
	n, k    int
	indices []int
	started bool
	done    bool
}

// newCombinations creates an enumerator over k-subsets of n indices.
func newCombinations(n, k int) *combinations {
	return &combinations{n: n, k: k, done: k > n || k < 0}
}

// next advances to the next combination, returning false when the
// enumeration is exhausted.
func (c *combinations) next() bool {
	if c.done {
		return false
	}
	if !c.started {
		c.started = true
		c.indices = make([]int, c.k)
		for i := range c.indices {
			c.indices[i] = i
		}
		return true
	}
	// Find the rightmost index that can still move.
	i := c.k - 1
	for i >= 0 && c.indices[i] == c.n-c.k+i {
		i--
	}
	if i < 0 {
		c.done = true
		return false
	}
	c.indices[i]++
	for j := i + 1; j < c.k; j++ {
		c.indices[j] = c.indices[j-1] + 1
	}
	return true
}

// current returns the current index combination. Valid after a true
// next(). Callers must not retain the slice across calls.
func (c *combinations) current() []int {
	return c.indices
}
