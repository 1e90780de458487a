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
)

func TestSignature_ChainAndCollider(t *testing.T) {
	chain := createChain(t)
	sig := chain.Signature()

	assert.Equal(t, []Edge{{From: "a", To: "b"}, {From: "b", To: "c"}}, sig.Skeleton)
	assert.Empty(t, sig.VStructures)

	collider := createCGM(t,
		[]string{"a", "b", "c"},
		[]Edge{{From: "a", To: "b"}, {From: "c", To: "b"}},
	)
	sig = collider.Signature()

	assert.Equal(t, []Edge{{From: "a", To: "b"}, {From: "b", To: "c"}}, sig.Skeleton)
	require.Len(t, sig.VStructures, 1)
	assert.Equal(t, VStructure{A: "a", B: "c", C: "b"}, sig.VStructures[0])
	assert.Equal(t, "a -> b <- c", sig.VStructures[0].String())
}

func TestSignature_ShieldedColliderIgnored(t *testing.T) {
	// a -> b <- c with a -> c: the collider is shielded, so it is not
	// an equivalence invariant.
	m := createCGM(t,
		[]string{"a", "b", "c"},
		[]Edge{{From: "a", To: "b"}, {From: "c", To: "b"}, {From: "a", To: "c"}},
	)

	assert.Empty(t, m.Signature().VStructures)
}

func TestIsMarkovEquivalent_ChainClass(t *testing.T) {
	forward := createChain(t)
	backward := createCGM(t,
		[]string{"a", "b", "c"},
		[]Edge{{From: "c", To: "b"}, {From: "b", To: "a"}},
	)
	fork := createCGM(t,
		[]string{"a", "b", "c"},
		[]Edge{{From: "b", To: "a"}, {From: "b", To: "c"}},
	)
	collider := createCGM(t,
		[]string{"a", "b", "c"},
		[]Edge{{From: "a", To: "b"}, {From: "c", To: "b"}},
	)

	// The three chains share skeleton {a-b, b-c} and no v-structures.
	class := []*CGM{forward, backward, fork}
	for i, ma := range class {
		for j, mb := range class {
			eq, err := ma.IsMarkovEquivalent(mb)
			require.NoError(t, err)
			assert.True(t, eq, "models %d and %d must be equivalent", i, j)
		}
	}

	// The v-structure a -> b <- c is distinguishable from all three.
	for i, ma := range class {
		eq, err := ma.IsMarkovEquivalent(collider)
		require.NoError(t, err)
		assert.False(t, eq, "model %d must differ from the collider", i)
	}
}

func TestIsMarkovEquivalent_DifferentSkeleton(t *testing.T) {
	chain := createChain(t)
	disconnected := createCGM(t, []string{"a", "b", "c"}, []Edge{{From: "a", To: "b"}})

	eq, err := chain.IsMarkovEquivalent(disconnected)
	require.NoError(t, err)
	assert.False(t, eq)
}

func TestIsMarkovEquivalent_NodeSetMismatch(t *testing.T) {
	chain := createChain(t)
	other := createCGM(t, []string{"a", "b", "d"}, []Edge{{From: "a", To: "b"}})

	_, err := chain.IsMarkovEquivalent(other)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNodeSetMismatch)

	var mismatch *NodeSetMismatchError
	require.ErrorAs(t, err, &mismatch)
	assert.Equal(t, []string{"c"}, mismatch.OnlyA)
	assert.Equal(t, []string{"d"}, mismatch.OnlyB)
}
