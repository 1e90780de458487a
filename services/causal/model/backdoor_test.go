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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AleutianAI/CausalFOSS/services/causal/graph"
)

func TestBackdoorPaths(t *testing.T) {
	m := createConfounded(t)

	paths, err := m.BackdoorPaths("x", "y")
	require.NoError(t, err)

	// The single confounding route x <- z -> y.
	require.Len(t, paths, 1)
	assert.Equal(t, []string{"x", "z", "y"}, paths[0])
}

func TestBackdoorPaths_NoneForRoot(t *testing.T) {
	m := createChain(t)

	paths, err := m.BackdoorPaths("a", "c")
	require.NoError(t, err)
	assert.Empty(t, paths, "a root treatment has no backdoor paths")
}

func TestSatisfiesBackdoor_Confounded(t *testing.T) {
	m := createConfounded(t)

	ok, err := m.SatisfiesBackdoor("x", "y", []string{"z"})
	require.NoError(t, err)
	assert.True(t, ok, "adjusting for the confounder blocks the backdoor path")

	ok, err = m.SatisfiesBackdoor("x", "y", nil)
	require.NoError(t, err)
	assert.False(t, ok, "the empty set leaves the backdoor path open")
}

func TestSatisfiesBackdoor_RejectsTreatmentDescendant(t *testing.T) {
	// x -> m -> y: the mediator descends from the treatment and must
	// never be adjusted for.
	m := createCGM(t,
		[]string{"m", "x", "y"},
		[]Edge{{From: "x", To: "m"}, {From: "m", To: "y"}},
	)

	ok, err := m.SatisfiesBackdoor("x", "y", []string{"m"})
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSatisfiesBackdoor_Validation(t *testing.T) {
	m := createConfounded(t)

	_, err := m.SatisfiesBackdoor("x", "x", nil)
	assert.ErrorIs(t, err, ErrTreatmentIsOutcome)

	_, err = m.SatisfiesBackdoor("x", "y", []string{"x"})
	assert.ErrorIs(t, err, ErrSetsOverlap)

	_, err = m.SatisfiesBackdoor("x", "y", []string{"y"})
	assert.ErrorIs(t, err, ErrSetsOverlap)

	_, err = m.SatisfiesBackdoor("ghost", "y", nil)
	assert.ErrorIs(t, err, graph.ErrNodeNotFound)

	_, err = m.SatisfiesBackdoor("x", "y", []string{"ghost"})
	assert.ErrorIs(t, err, graph.ErrNodeNotFound)
}

func TestAdjustmentSets_Confounded(t *testing.T) {
	m := createConfounded(t)

	it, err := m.AdjustmentSets("x", "y")
	require.NoError(t, err)

	sets, err := it.Collect()
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"z"}}, sets)
}

func TestAdjustmentSets_UnconfoundedChain(t *testing.T) {
	// a -> b -> c has no backdoor path, so the empty set is the first
	// (and, with b excluded as a descendant of the treatment, only)
	// valid adjustment set.
	m := createChain(t)

	it, err := m.AdjustmentSets("a", "c")
	require.NoError(t, err)

	sets, err := it.Collect()
	require.NoError(t, err)
	assert.Equal(t, [][]string{{}}, sets)
}

func TestAdjustmentSets_IncreasingSizeOrder(t *testing.T) {
	// Two independent confounders; both must be adjusted for, and the
	// minimal set {z1, z2} comes before any superset.
	m := createCGM(t,
		[]string{"w", "x", "y", "z1", "z2"},
		[]Edge{
			{From: "z1", To: "x"},
			{From: "z1", To: "y"},
			{From: "z2", To: "x"},
			{From: "z2", To: "y"},
			{From: "x", To: "y"},
			{From: "w", To: "y"},
		},
	)

	it, err := m.AdjustmentSets("x", "y")
	require.NoError(t, err)

	sets, err := it.Collect()
	require.NoError(t, err)
	require.NotEmpty(t, sets)
	assert.Equal(t, []string{"z1", "z2"}, sets[0], "smallest valid set first")
	assert.Contains(t, sets, []string{"w", "z1", "z2"})

	for i := 1; i < len(sets); i++ {
		assert.GreaterOrEqual(t, len(sets[i]), len(sets[i-1]))
	}
}

func TestAdjustmentSets_ResetAndLimit(t *testing.T) {
	m := createConfounded(t)

	it, err := m.AdjustmentSets("x", "y", WithLimit(1))
	require.NoError(t, err)

	set, ok := it.Next()
	require.True(t, ok)
	assert.Equal(t, []string{"z"}, set)

	_, ok = it.Next()
	assert.False(t, ok, "limit reached")
	assert.NoError(t, it.Err())

	it.Reset()
	set, ok = it.Next()
	require.True(t, ok)
	assert.Equal(t, []string{"z"}, set, "restartable from the beginning")
}

func TestAdjustmentSets_Validation(t *testing.T) {
	m := createConfounded(t)

	_, err := m.AdjustmentSets("x", "x")
	assert.ErrorIs(t, err, ErrTreatmentIsOutcome)

	_, err = m.AdjustmentSets("ghost", "y")
	assert.ErrorIs(t, err, graph.ErrNodeNotFound)
}
