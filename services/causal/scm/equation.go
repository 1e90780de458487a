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
	"math"
	"sort"
)

// Assignment maps variable names to values. One Assignment is one
// full (or partial, where documented) realization of the model.
type Assignment map[string]float64

// Clone returns a copy of the assignment.
func (a Assignment) Clone() Assignment {
	out := make(Assignment, len(a))
	for k, v := range a {
		out[k] = v
	}
	return out
}

// Equation is one structural mechanism: a pure function from parent
// values and a single noise draw to the variable's value.
//
// Implementations must be deterministic and side-effect free; all
// randomness enters through the noise argument.
type Equation interface {
	// Parents returns the declared parent variables, sorted.
	Parents() []string

	// Apply evaluates the mechanism for the given parent values and
	// noise draw.
	Apply(parents Assignment, noise float64) float64
}

// Invertible is an Equation that can recover the noise draw that
// produced an observed value — the precondition for counterfactual
// abduction.
type Invertible interface {
	Equation

	// Invert returns the noise value n with
	// Apply(parents, n) == value.
	Invert(parents Assignment, value float64) (float64, error)
}

// =============================================================================
// Linear
// =============================================================================

// linearEquation is value = offset + Σ w_i · parent_i + noise.
type linearEquation struct {
	offset  float64
	weights map[string]float64
	parents []string
}

// Linear creates the additive mechanism
// value = offset + Σ weights[p]·p + noise. With no weights it defines
// a root variable driven purely by its noise distribution.
//
// Linear mechanisms are invertible: the noise is the residual.
func Linear(offset float64, weights map[string]float64) Invertible {
	eq := &linearEquation{offset: offset, weights: make(map[string]float64, len(weights))}
	for p, w := range weights {
		eq.weights[p] = w
		eq.parents = append(eq.parents, p)
	}
	sort.Strings(eq.parents)
	return eq
}

// Parents returns the declared parent variables, sorted.
func (e *linearEquation) Parents() []string {
	out := make([]string, len(e.parents))
	copy(out, e.parents)
	return out
}

// Apply evaluates the weighted sum plus noise.
func (e *linearEquation) Apply(parents Assignment, noise float64) float64 {
	v := e.offset + noise
	for _, p := range e.parents {
		v += e.weights[p] * parents[p]
	}
	return v
}

// Invert recovers the noise as the residual of the weighted sum.
func (e *linearEquation) Invert(parents Assignment, value float64) (float64, error) {
	v := value - e.offset
	for _, p := range e.parents {
		v -= e.weights[p] * parents[p]
	}
	return v, nil
}

// =============================================================================
// Logistic
// =============================================================================

// logisticEquation thresholds a uniform noise draw against
// sigmoid(offset + Σ w_i · parent_i), yielding 0 or 1.
type logisticEquation struct {
	offset  float64
	weights map[string]float64
	parents []string
}

// Logistic creates a binary mechanism: the variable is 1 with
// probability sigmoid(offset + Σ weights[p]·p). The noise draw is
// expected on [0, 1); pair it with Uniform(0, 1).
//
// The thresholding discards information, so logistic mechanisms do
// not support counterfactual abduction.
func Logistic(offset float64, weights map[string]float64) Equation {
	eq := &logisticEquation{offset: offset, weights: make(map[string]float64, len(weights))}
	for p, w := range weights {
		eq.weights[p] = w
		eq.parents = append(eq.parents, p)
	}
	sort.Strings(eq.parents)
	return eq
}

// Parents returns the declared parent variables, sorted.
func (e *logisticEquation) Parents() []string {
	out := make([]string, len(e.parents))
	copy(out, e.parents)
	return out
}

// Apply thresholds the noise draw against the sigmoid activation.
func (e *logisticEquation) Apply(parents Assignment, noise float64) float64 {
	z := e.offset
	for _, p := range e.parents {
		z += e.weights[p] * parents[p]
	}
	if noise < sigmoid(z) {
		return 1
	}
	return 0
}

// sigmoid is the standard logistic function.
func sigmoid(x float64) float64 {
	return 1 / (1 + math.Exp(-x))
}

// =============================================================================
// Constant
// =============================================================================

// constantEquation ignores parents and noise.
type constantEquation struct {
	value float64
}

// Constant creates a mechanism pinned to a fixed value, as produced by
// an intervention. Constants discard their noise draw and therefore do
// not support abduction.
func Constant(v float64) Equation {
	return &constantEquation{value: v}
}

// Parents returns the empty parent set.
func (e *constantEquation) Parents() []string {
	return nil
}

// Apply returns the fixed value regardless of inputs.
func (e *constantEquation) Apply(_ Assignment, _ float64) float64 {
	return e.value
}

// =============================================================================
// Ad-hoc mechanisms
// =============================================================================

// funcEquation wraps a caller-supplied function.
type funcEquation struct {
	parents []string
	fn      func(parents Assignment, noise float64) float64
}

// FromFunc creates a mechanism from an arbitrary function of the
// declared parents and a noise draw. The function must be pure.
//
// FromFunc mechanisms are opaque and not invertible; wrap the result
// with WithInverse to enable counterfactual queries.
func FromFunc(parents []string, fn func(parents Assignment, noise float64) float64) Equation {
	sorted := make([]string, len(parents))
	copy(sorted, parents)
	sort.Strings(sorted)
	return &funcEquation{parents: sorted, fn: fn}
}

// Parents returns the declared parent variables, sorted.
func (e *funcEquation) Parents() []string {
	out := make([]string, len(e.parents))
	copy(out, e.parents)
	return out
}

// Apply evaluates the wrapped function.
func (e *funcEquation) Apply(parents Assignment, noise float64) float64 {
	return e.fn(parents, noise)
}

// invertibleFunc pairs an equation with a caller-supplied inverse.
type invertibleFunc struct {
	Equation
	inv func(parents Assignment, value float64) (float64, error)
}

// WithInverse attaches a noise-recovery function to an equation,
// making it usable in counterfactual abduction. The inverse must
// satisfy Apply(parents, inv(parents, v)) == v for every reachable v.
func WithInverse(eq Equation, inv func(parents Assignment, value float64) (float64, error)) Invertible {
	return &invertibleFunc{Equation: eq, inv: inv}
}

// Invert delegates to the attached inverse.
func (e *invertibleFunc) Invert(parents Assignment, value float64) (float64, error) {
	return e.inv(parents, value)
}
