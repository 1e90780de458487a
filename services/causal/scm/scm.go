// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package scm implements structural causal models: a causal graph
// annotated with one structural equation and one noise distribution
// per variable.
//
// The engine answers three kinds of generative queries:
//
//   - Sample: draw full assignments from the observational
//     distribution, deterministically under a fixed seed.
//   - Intervene: apply the do-operator, producing a new mutilated
//     model with the intervened variables pinned to constants.
//   - Counterfactual: abduction-action-prediction against a fully
//     observed assignment.
//
// Models are immutable once constructed; every transformation returns
// a new *SCM.
package scm

import (
	"fmt"
	"sort"

	"github.com/AleutianAI/CausalFOSS/services/causal/model"
)

// Definition is the structural mechanism of one variable: its
// equation plus the distribution of its noise term. Variables with no
// parents are roots, defined by their noise alone (use an equation
// over the empty parent set, e.g. Linear(0, nil)).
type Definition struct {
	// Equation is the structural mechanism. Required.
	Equation Equation

	// Noise is the noise distribution. Required; use Zero() for
	// deterministic mechanisms.
	Noise Sampler
}

// SCM is a structural causal model.
//
// # Thread Safety
//
// Immutable after construction; all operations are safe for
// concurrent use.
type SCM struct {
	cgm  *model.CGM
	defs map[string]Definition
}

// New constructs an SCM over an existing causal graphical model.
//
// Description:
//
//	Validation is eager: every graph variable needs exactly one
//	definition, no definition may reference a variable outside the
//	graph, equations and samplers must be non-nil, and each equation's
//	declared parent set must equal the variable's parents in the
//	graph. Later queries assume a well-formed model and never
//	re-validate.
//
// Errors:
//
//	ErrMissingDefinition - A graph variable has no definition
//	ErrUnknownNode       - A definition references a missing variable
//	ErrNilEquation       - A definition has a nil equation
//	ErrNilSampler        - A definition has a nil sampler
//	ParentMismatchError  - Equation parents differ from graph parents
func New(cgm *model.CGM, defs map[string]Definition) (*SCM, error) {
	for name := range defs {
		if !cgm.HasNode(name) {
			return nil, fmt.Errorf("%w: %s", ErrUnknownNode, name)
		}
	}

	owned := make(map[string]Definition, len(defs))
	for _, node := range cgm.Nodes() {
		def, ok := defs[node]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrMissingDefinition, node)
		}
		if def.Equation == nil {
			return nil, fmt.Errorf("%w: %s", ErrNilEquation, node)
		}
		if def.Noise == nil {
			return nil, fmt.Errorf("%w: %s", ErrNilSampler, node)
		}

		declared := def.Equation.Parents()
		expected, err := cgm.Parents(node)
		if err != nil {
			return nil, err
		}
		if !equalStrings(declared, expected) {
			return nil, NewParentMismatchError(node, declared, expected)
		}
		owned[node] = def
	}

	return &SCM{cgm: cgm, defs: owned}, nil
}

// FromDefinitions constructs an SCM with the causal graph inferred
// from the definitions themselves: each equation's declared parents
// become the variable's inbound edges.
//
// Errors:
//
//	ErrNilEquation / ErrNilSampler - A malformed definition
//	ErrUnknownNode                 - An equation references a parent
//	                                 with no definition of its own
//	graph.ErrCycleDetected         - The declared parents form a cycle
func FromDefinitions(defs map[string]Definition) (*SCM, error) {
	nodes := make([]string, 0, len(defs))
	for name := range defs {
		nodes = append(nodes, name)
	}
	sort.Strings(nodes)

	var edges []model.Edge
	for _, node := range nodes {
		def := defs[node]
		if def.Equation == nil {
			return nil, fmt.Errorf("%w: %s", ErrNilEquation, node)
		}
		for _, parent := range def.Equation.Parents() {
			if _, ok := defs[parent]; !ok {
				return nil, fmt.Errorf("%w: %s (parent of %s)", ErrUnknownNode, parent, node)
			}
			edges = append(edges, model.Edge{From: parent, To: node})
		}
	}

	cgm, err := model.New(nodes, edges)
	if err != nil {
		return nil, err
	}
	return New(cgm, defs)
}

// CGM returns the causal graphical model underlying the SCM.
func (s *SCM) CGM() *model.CGM {
	return s.cgm
}

// Nodes returns all variable names, sorted.
func (s *SCM) Nodes() []string {
	return s.cgm.Nodes()
}

// Definition returns the structural definition of the given variable.
//
// Errors:
//
//	ErrUnknownNode - The variable does not exist
func (s *SCM) Definition(name string) (Definition, error) {
	def, ok := s.defs[name]
	if !ok {
		return Definition{}, fmt.Errorf("%w: %s", ErrUnknownNode, name)
	}
	return def, nil
}

// parentValues extracts the values of a node's equation parents from
// an assignment.
func parentValues(def Definition, values Assignment) Assignment {
	parents := def.Equation.Parents()
	out := make(Assignment, len(parents))
	for _, p := range parents {
		out[p] = values[p]
	}
	return out
}

// equalStrings reports whether two sorted string slices are equal.
func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
