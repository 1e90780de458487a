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
	"fmt"
	"sort"
)

// Intervention maps variables to the fixed values the do-operator
// pins them to.
type Intervention map[string]float64

// nodes returns the intervened variables, sorted.
func (iv Intervention) nodes() []string {
	out := make([]string, 0, len(iv))
	for n := range iv {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

// Intervene applies the do-operator, returning the mutilated model.
//
// Description:
//
//	Each intervened variable gets a constant equation and zero noise,
//	and its inbound edges are removed from the resulting graph; every
//	other definition and edge is carried over unchanged. The receiver
//	is never modified. Applying the same intervention twice yields a
//	structurally identical model.
//
// Errors:
//
//	ErrUnknownNode - The intervention references a variable absent
//	                 from the model
func (s *SCM) Intervene(iv Intervention) (*SCM, error) {
	for _, node := range iv.nodes() {
		if !s.cgm.HasNode(node) {
			return nil, fmt.Errorf("%w: %s", ErrUnknownNode, node)
		}
	}

	cgm := s.cgm
	for _, node := range iv.nodes() {
		mutilated, err := cgm.Do(node)
		if err != nil {
			return nil, err
		}
		cgm = mutilated
	}

	defs := make(map[string]Definition, len(s.defs))
	for name, def := range s.defs {
		defs[name] = def
	}
	for node, value := range iv {
		defs[node] = Definition{Equation: Constant(value), Noise: Zero()}
	}

	return New(cgm, defs)
}

// Equal reports whether two models share the same graph structure and
// definitions. Definitions compare by identity except for constants,
// which compare by value; this is the equality interventions preserve.
func (s *SCM) Equal(other *SCM) bool {
	if !equalStrings(s.Nodes(), other.Nodes()) {
		return false
	}
	a, b := s.cgm.Edges(), other.cgm.Edges()
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	for name, da := range s.defs {
		db := other.defs[name]
		ca, aConst := da.Equation.(*constantEquation)
		cb, bConst := db.Equation.(*constantEquation)
		if aConst != bConst {
			return false
		}
		if aConst {
			if ca.value != cb.value {
				return false
			}
			continue
		}
		if da.Equation != db.Equation || da.Noise != db.Noise {
			return false
		}
	}
	return true
}
