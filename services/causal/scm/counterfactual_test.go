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

func TestCounterfactual_AbductionActionPrediction(t *testing.T) {
	// y = 1 + 2x + e. Observed (x=2, y=6) implies e = 1; under
	// do(x=10) the same unit would have y = 1 + 20 + 1 = 22.
	s := createNoisySCM(t)

	observed := Assignment{"x": 2, "y": 6}
	result, err := s.Counterfactual(observed, Intervention{"x": 10})
	require.NoError(t, err)

	assert.InDelta(t, 10, result["x"], 1e-12)
	assert.InDelta(t, 22, result["y"], 1e-12)
}

func TestCounterfactual_EmptyInterventionReproducesObservation(t *testing.T) {
	s := createNoisySCM(t)

	// Any observation is consistent with some noise realization of a
	// linear model, so the empty counterfactual is the identity.
	observed := Assignment{"x": -1.5, "y": 0.25}
	result, err := s.Counterfactual(observed, Intervention{})
	require.NoError(t, err)

	assert.InDelta(t, observed["x"], result["x"], 1e-12)
	assert.InDelta(t, observed["y"], result["y"], 1e-12)
}

func TestCounterfactual_DeterministicChain(t *testing.T) {
	s := createChainSCM(t)

	observed, err := s.Sample(0)
	require.NoError(t, err)

	result, err := s.Counterfactual(observed, Intervention{"a": 5})
	require.NoError(t, err)
	assert.InDelta(t, 14, result["c"], 1e-12)

	same, err := s.Counterfactual(observed, Intervention{})
	require.NoError(t, err)
	assert.Equal(t, observed, same)
}

func TestCounterfactual_IncompleteObservation(t *testing.T) {
	s := createNoisySCM(t)

	_, err := s.Counterfactual(Assignment{"x": 1}, Intervention{})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrIncompleteObservation)

	var incomplete *IncompleteObservationError
	require.ErrorAs(t, err, &incomplete)
	assert.Equal(t, []string{"y"}, incomplete.Missing)
}

func TestCounterfactual_NonInvertibleMechanism(t *testing.T) {
	s, err := FromDefinitions(map[string]Definition{
		"x": {Equation: Linear(0, nil), Noise: Normal(0, 1)},
		"b": {Equation: Logistic(0, map[string]float64{"x": 1}), Noise: Uniform(0, 1)},
	})
	require.NoError(t, err)

	_, err = s.Counterfactual(Assignment{"x": 1, "b": 1}, Intervention{})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNonInvertible)

	var nonInv *NonInvertibleError
	require.ErrorAs(t, err, &nonInv)
	assert.Equal(t, "b", nonInv.Node)
}

func TestCounterfactual_InterventionExemptFromAbduction(t *testing.T) {
	// The logistic mechanism of b blocks abduction, but intervening
	// on b replaces it, so the query goes through.
	s, err := FromDefinitions(map[string]Definition{
		"x": {Equation: Linear(0, nil), Noise: Normal(0, 1)},
		"b": {Equation: Logistic(0, map[string]float64{"x": 1}), Noise: Uniform(0, 1)},
		"y": {Equation: Linear(0, map[string]float64{"b": 3}), Noise: Normal(0, 1)},
	})
	require.NoError(t, err)

	observed := Assignment{"x": 0.5, "b": 1, "y": 3.2}
	result, err := s.Counterfactual(observed, Intervention{"b": 0})
	require.NoError(t, err)

	// y's noise was 3.2 - 3·1 = 0.2; under do(b=0), y = 0.2.
	assert.InDelta(t, 0, result["b"], 1e-12)
	assert.InDelta(t, 0.2, result["y"], 1e-12)
	assert.InDelta(t, 0.5, result["x"], 1e-12)
}

func TestCounterfactual_WithInverse(t *testing.T) {
	// A custom multiplicative mechanism with an explicit inverse.
	double := WithInverse(
		FromFunc([]string{"x"}, func(p Assignment, noise float64) float64 {
			return p["x"] * noise
		}),
		func(p Assignment, value float64) (float64, error) {
			return value / p["x"], nil
		},
	)

	s, err := FromDefinitions(map[string]Definition{
		"x": {Equation: Linear(0, nil), Noise: Normal(1, 0.1)},
		"y": {Equation: double, Noise: Normal(1, 0.1)},
	})
	require.NoError(t, err)

	observed := Assignment{"x": 2, "y": 6}
	result, err := s.Counterfactual(observed, Intervention{"x": 4})
	require.NoError(t, err)
	assert.InDelta(t, 12, result["y"], 1e-12, "noise 3 carried over to x=4")
}

func TestCounterfactual_UnknownNodes(t *testing.T) {
	s := createChainSCM(t)

	_, err := s.Counterfactual(Assignment{"a": 1, "b": 3, "c": 6}, Intervention{"ghost": 0})
	assert.ErrorIs(t, err, ErrUnknownNode)

	_, err = s.Counterfactual(Assignment{"a": 1, "b": 3, "c": 6, "ghost": 0}, Intervention{})
	assert.ErrorIs(t, err, ErrUnknownNode)
}
