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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AleutianAI/CausalFOSS/services/causal/graph"
)

// dsep is a test shorthand.
func dsep(t *testing.T, m *CGM, x, y, z []string) bool {
	t.Helper()

	separated, err := m.IsDSeparated(x, y, z)
	require.NoError(t, err)
	return separated
}

func TestIsDSeparated_Chain(t *testing.T) {
	m := createChain(t)

	assert.True(t, dsep(t, m, []string{"a"}, []string{"c"}, []string{"b"}),
		"conditioning on the middle of a chain blocks it")
	assert.False(t, dsep(t, m, []string{"a"}, []string{"c"}, nil),
		"an unconditioned chain is open")
}

func TestIsDSeparated_Fork(t *testing.T) {
	m := createCGM(t,
		[]string{"a", "b", "c"},
		[]Edge{{From: "b", To: "a"}, {From: "b", To: "c"}},
	)

	assert.True(t, dsep(t, m, []string{"a"}, []string{"c"}, []string{"b"}))
	assert.False(t, dsep(t, m, []string{"a"}, []string{"c"}, nil))
}

func TestIsDSeparated_Collider(t *testing.T) {
	m := createCGM(t,
		[]string{"a", "b", "c"},
		[]Edge{{From: "a", To: "c"}, {From: "b", To: "c"}},
	)

	assert.True(t, dsep(t, m, []string{"a"}, []string{"b"}, nil),
		"a collider blocks the path when unconditioned")
	assert.False(t, dsep(t, m, []string{"a"}, []string{"b"}, []string{"c"}),
		"conditioning on the collider opens the path")
}

func TestIsDSeparated_ColliderDescendant(t *testing.T) {
	// a -> c <- b, c -> d: conditioning on the collider's descendant
	// also opens the path.
	m := createCGM(t,
		[]string{"a", "b", "c", "d"},
		[]Edge{
			{From: "a", To: "c"},
			{From: "b", To: "c"},
			{From: "c", To: "d"},
		},
	)

	assert.True(t, dsep(t, m, []string{"a"}, []string{"b"}, nil))
	assert.False(t, dsep(t, m, []string{"a"}, []string{"b"}, []string{"d"}))
}

func TestIsDSeparated_Sprinkler(t *testing.T) {
	m := createSprinkler(t)

	tests := []struct {
		name      string
		x, y, z   []string
		separated bool
	}{
		{
			name: "wet screens season from slippery",
			x:    []string{"season"}, y: []string{"slippery"}, z: []string{"wet"},
			separated: true,
		},
		{
			name: "rain and sprinkler screen season from slippery",
			x:    []string{"season"}, y: []string{"slippery"}, z: []string{"rain", "sprinkler"},
			separated: true,
		},
		{
			name: "rain and sprinkler are marginally dependent via season",
			x:    []string{"rain"}, y: []string{"sprinkler"}, z: nil,
			separated: false,
		},
		{
			name: "season screens rain from sprinkler",
			x:    []string{"rain"}, y: []string{"sprinkler"}, z: []string{"season"},
			separated: true,
		},
		{
			name: "conditioning on the collider wet couples rain and sprinkler",
			x:    []string{"rain"}, y: []string{"sprinkler"}, z: []string{"wet"},
			separated: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.separated, dsep(t, m, tt.x, tt.y, tt.z))
		})
	}
}

func TestIsDSeparated_Symmetry(t *testing.T) {
	m := createSprinkler(t)

	x := []string{"rain"}
	y := []string{"sprinkler"}
	for _, z := range [][]string{nil, {"season"}, {"wet"}, {"season", "wet"}} {
		assert.Equal(t, dsep(t, m, x, y, z), dsep(t, m, y, x, z))
	}
}

func TestIsDSeparated_PermutationAndDuplicateInvariance(t *testing.T) {
	m := createSprinkler(t)

	base := dsep(t, m,
		[]string{"season"}, []string{"slippery"}, []string{"rain", "sprinkler"})

	assert.Equal(t, base, dsep(t, m,
		[]string{"season"}, []string{"slippery"}, []string{"sprinkler", "rain"}))
	assert.Equal(t, base, dsep(t, m,
		[]string{"season", "season"}, []string{"slippery"},
		[]string{"rain", "sprinkler", "rain"}))
}

func TestIsDSeparated_Validation(t *testing.T) {
	m := createSprinkler(t)

	_, err := m.IsDSeparated(nil, []string{"wet"}, nil)
	assert.ErrorIs(t, err, ErrEmptyNodeSet)

	_, err = m.IsDSeparated([]string{"rain"}, []string{"rain"}, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrSetsOverlap)

	var overlapErr *OverlapError
	require.ErrorAs(t, err, &overlapErr)
	assert.Equal(t, []string{"rain"}, overlapErr.Nodes)

	_, err = m.IsDSeparated([]string{"rain"}, []string{"wet"}, []string{"wet"})
	assert.ErrorIs(t, err, ErrSetsOverlap)

	_, err = m.IsDSeparated([]string{"ghost"}, []string{"wet"}, nil)
	assert.ErrorIs(t, err, graph.ErrNodeNotFound)
}

// =============================================================================
// Per-path blocking rule
// =============================================================================

func TestIsPathBlocked(t *testing.T) {
	m := createSprinkler(t)

	blocked, err := m.IsPathBlocked([]string{"rain", "season", "sprinkler"}, []string{"season"})
	require.NoError(t, err)
	assert.True(t, blocked, "fork middle in the conditioning set blocks")

	blocked, err = m.IsPathBlocked([]string{"rain", "season", "sprinkler"}, nil)
	require.NoError(t, err)
	assert.False(t, blocked)

	blocked, err = m.IsPathBlocked([]string{"rain", "wet", "sprinkler"}, nil)
	require.NoError(t, err)
	assert.True(t, blocked, "unconditioned collider blocks")

	blocked, err = m.IsPathBlocked([]string{"rain", "wet", "sprinkler"}, []string{"slippery"})
	require.NoError(t, err)
	assert.False(t, blocked, "conditioning on a collider descendant opens")

	blocked, err = m.IsPathBlocked([]string{"rain", "wet"}, []string{"wet"})
	require.NoError(t, err)
	assert.False(t, blocked, "two-node paths are never blocked")

	_, err = m.IsPathBlocked([]string{"rain", "slippery", "wet"}, nil)
	assert.ErrorIs(t, err, ErrNotAPath)
}

// TestIsPathBlocked_AgreesWithMoralization cross-checks the classical
// rule against the moralization oracle over every singleton query of
// the sprinkler model.
func TestIsPathBlocked_AgreesWithMoralization(t *testing.T) {
	m := createSprinkler(t)
	nodes := m.Nodes()

	for i := 0; i < len(nodes); i++ {
		for j := i + 1; j < len(nodes); j++ {
			x, y := nodes[i], nodes[j]
			var rest []string
			for k, n := range nodes {
				if k != i && k != j {
					rest = append(rest, n)
				}
			}
			for size := 0; size <= len(rest); size++ {
				combos := newCombinations(len(rest), size)
				for combos.next() {
					var z []string
					for _, idx := range combos.current() {
						z = append(z, rest[idx])
					}

					oracle := dsep(t, m, []string{x}, []string{y}, z)

					paths, err := m.Engine().UndirectedSimplePaths(x, y)
					require.NoError(t, err)
					allBlocked := true
					for _, path := range paths {
						blocked, err := m.IsPathBlocked(path, z)
						require.NoError(t, err)
						if !blocked {
							allBlocked = false
							break
						}
					}

					assert.Equal(t, allBlocked, oracle,
						"x=%s y=%s z=%v", x, y, z)
				}
			}
		}
	}
}

// =============================================================================
// Independence enumeration
// =============================================================================

func TestAllIndependencies_Chain(t *testing.T) {
	m := createChain(t)

	got, err := m.AllIndependencies(context.Background())
	require.NoError(t, err)

	// a ⟂ c | b is the only independence a three-node chain implies.
	require.Len(t, got, 1)
	assert.Equal(t, Independence{X: "a", Y: "c", Given: []string{"b"}}, got[0])
}

func TestAllIndependencies_Collider(t *testing.T) {
	m := createCGM(t,
		[]string{"a", "b", "c"},
		[]Edge{{From: "a", To: "c"}, {From: "b", To: "c"}},
	)

	got, err := m.AllIndependencies(context.Background())
	require.NoError(t, err)

	// Only the marginal independence of the two parents survives.
	require.Len(t, got, 1)
	assert.Equal(t, Independence{X: "a", Y: "b", Given: []string{}}, got[0])
}

func TestAllIndependencies_LimitAndDeterminism(t *testing.T) {
	m := createSprinkler(t)

	first, err := m.AllIndependencies(context.Background(), WithMaxWorkers(1))
	require.NoError(t, err)
	second, err := m.AllIndependencies(context.Background(), WithMaxWorkers(4))
	require.NoError(t, err)
	assert.Equal(t, first, second, "result order is scheduling independent")

	limited, err := m.AllIndependencies(context.Background(), WithLimit(3))
	require.NoError(t, err)
	require.Len(t, limited, 3)
	assert.Equal(t, first[:3], limited)
}

func TestAllIndependencies_Cancelled(t *testing.T) {
	m := createSprinkler(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := m.AllIndependencies(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
