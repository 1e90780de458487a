// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package scm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIntervene_ChainDoOperator(t *testing.T) {
	s := createChainSCM(t)

	mutilated, err := s.Intervene(Intervention{"a": 5})
	require.NoError(t, err)

	values, err := mutilated.Sample(0)
	require.NoError(t, err)
	assert.InDelta(t, 5, values["a"], 1e-12)
	assert.InDelta(t, 7, values["b"], 1e-12)
	assert.InDelta(t, 14, values["c"], 1e-12)
}

func TestIntervene_DoesNotMutateSource(t *testing.T) {
	s := createChainSCM(t)

	_, err := s.Intervene(Intervention{"b": 100})
	require.NoError(t, err)

	values, err := s.Sample(0)
	require.NoError(t, err)
	assert.InDelta(t, 3, values["b"], 1e-12, "source model unchanged")
	assert.Empty(t, s.CGM().DoNodes())
}

func TestIntervene_SeversInboundEdges(t *testing.T) {
	s := createChainSCM(t)

	mutilated, err := s.Intervene(Intervention{"b": 0})
	require.NoError(t, err)

	parents, err := mutilated.CGM().Parents("b")
	require.NoError(t, err)
	assert.Empty(t, parents)
	assert.True(t, mutilated.CGM().IsDoNode("b"))

	// a keeps its mechanism; c still depends on b.
	parents, err = mutilated.CGM().Parents("c")
	require.NoError(t, err)
	assert.Equal(t, []string{"b"}, parents)
}

func TestIntervene_StructureIdempotent(t *testing.T) {
	s := createChainSCM(t)

	once, err := s.Intervene(Intervention{"a": 5})
	require.NoError(t, err)
	twice, err := once.Intervene(Intervention{"a": 5})
	require.NoError(t, err)

	assert.True(t, once.Equal(twice),
		"re-applying the same intervention is a structural no-op")
}

func TestIntervene_UnknownNode(t *testing.T) {
	s := createChainSCM(t)

	_, err := s.Intervene(Intervention{"ghost": 1})
	assert.ErrorIs(t, err, ErrUnknownNode)
}
