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

import "fmt"

// Counterfactual answers "what would have happened under this
// intervention, given what actually happened" by the standard
// abduction-action-prediction procedure.
//
// Description:
//
//	Abduction recovers each variable's noise term by inverting its
//	equation against the observed parent values and observed own
//	value; this requires the equation to be invertible in its noise
//	argument (a genuine restriction of the model class, not an
//	implementation shortcut). Variables named in the intervention are
//	exempt: their mechanisms are about to be replaced, so their noise
//	is never consulted. Action applies the intervention as in
//	Intervene. Prediction replays the mutilated model in topological
//	order using the recovered noise values instead of fresh draws.
//
//	With an empty intervention and an observation consistent with the
//	model's deterministic part, the result reproduces the observation
//	exactly.
//
// Inputs:
//
//	observed - One full assignment covering every variable.
//	iv       - The counterfactual intervention. May be empty.
//
// Outputs:
//
//	Assignment - The counterfactual assignment.
//	error      - Non-nil on validation or abduction failure.
//
// Errors:
//
//	IncompleteObservationError - observed misses variables (lists them)
//	NonInvertibleError         - A mechanism cannot recover its noise
//	ErrUnknownNode             - The intervention or observation names
//	                             a variable absent from the model
func (s *SCM) Counterfactual(observed Assignment, iv Intervention) (Assignment, error) {
	for _, node := range iv.nodes() {
		if !s.cgm.HasNode(node) {
			return nil, fmt.Errorf("%w: %s", ErrUnknownNode, node)
		}
	}
	for name := range observed {
		if !s.cgm.HasNode(name) {
			return nil, fmt.Errorf("%w: %s", ErrUnknownNode, name)
		}
	}

	var missing []string
	for _, node := range s.cgm.Nodes() {
		if _, ok := observed[node]; !ok {
			missing = append(missing, node)
		}
	}
	if len(missing) > 0 {
		return nil, NewIncompleteObservationError(missing)
	}

	// Abduction.
	noise := make(Assignment, len(s.defs))
	for _, node := range s.cgm.Nodes() {
		if _, intervened := iv[node]; intervened {
			continue
		}
		def := s.defs[node]
		inv, ok := def.Equation.(Invertible)
		if !ok {
			return nil, NewNonInvertibleError(node)
		}
		n, err := inv.Invert(parentValues(def, observed), observed[node])
		if err != nil {
			return nil, NewNonInvertibleError(node)
		}
		noise[node] = n
	}

	// Action.
	mutilated, err := s.Intervene(iv)
	if err != nil {
		return nil, err
	}

	// Prediction.
	values := make(Assignment, len(mutilated.defs))
	for _, node := range mutilated.cgm.TopologicalOrder() {
		def := mutilated.defs[node]
		values[node] = def.Equation.Apply(parentValues(def, values), noise[node])
	}
	return values, nil
}
