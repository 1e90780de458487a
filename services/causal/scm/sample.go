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
	"math/rand/v2"
)

// Sample draws one full assignment from the observational
// distribution of the model.
//
// Description:
//
//	Visits variables in the graph's deterministic topological order,
//	draws one noise value per variable from a single PCG stream seeded
//	with the given seed, and applies each structural equation to its
//	already-assigned parents. The same seed always yields the same
//	assignment; any valid topological order would give the same
//	distribution, and the engine's lexicographic tie-break pins down
//	one order so results are bit-reproducible.
func (s *SCM) Sample(seed uint64) (Assignment, error) {
	src := rand.NewPCG(seed, seed)
	return s.sampleOnce(src), nil
}

// sampleOnce draws one assignment consuming noise from src.
func (s *SCM) sampleOnce(src rand.Source) Assignment {
	values := make(Assignment, len(s.defs))
	for _, node := range s.cgm.TopologicalOrder() {
		def := s.defs[node]
		noise := def.Noise.Sample(src)
		values[node] = def.Equation.Apply(parentValues(def, values), noise)
	}
	return values
}

// SampleN draws n independent assignments into a Frame.
//
// All rows come from one noise stream seeded with the given seed, so
// the whole frame is reproducible. n = 0 yields an empty frame.
//
// Errors:
//
//	ErrNegativeSampleCount - n < 0
func (s *SCM) SampleN(seed uint64, n int) (*Frame, error) {
	if n < 0 {
		return nil, ErrNegativeSampleCount
	}

	frame := newFrame(s.cgm.Nodes(), n)
	src := rand.NewPCG(seed, seed)
	for i := 0; i < n; i++ {
		frame.setRow(i, s.sampleOnce(src))
	}
	return frame, nil
}
