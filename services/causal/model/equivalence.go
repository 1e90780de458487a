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
	"fmt"
	"sort"
)

// VStructure is an unshielded collider: two parents converging on a
// common child with no edge between them in either direction. A and B
// are stored in sorted order so detection is independent of edge
// declaration order.
type VStructure struct {
	// A is the lexicographically smaller parent.
	A string `json:"a"`

	// B is the lexicographically larger parent.
	B string `json:"b"`

	// C is the common child.
	C string `json:"c"`
}

// String returns the v-structure in "a -> c <- b" form.
func (v VStructure) String() string {
	return fmt.Sprintf("%s -> %s <- %s", v.A, v.C, v.B)
}

// Signature identifies the Markov equivalence class of a DAG: its
// skeleton plus its v-structures. Two DAGs over the same variables
// are observationally indistinguishable iff their signatures match.
type Signature struct {
	// Skeleton holds the undirected edges as canonical pairs with
	// From < To, sorted.
	Skeleton []Edge `json:"skeleton"`

	// VStructures holds the unshielded colliders, sorted by (A, B, C).
	VStructures []VStructure `json:"v_structures"`
}

// Signature computes the equivalence-class signature of the model.
func (m *CGM) Signature() Signature {
	var sig Signature

	for _, e := range m.engine.Edges() {
		from, to := e.From, e.To
		if from > to {
			from, to = to, from
		}
		sig.Skeleton = append(sig.Skeleton, Edge{From: from, To: to})
	}
	sort.Slice(sig.Skeleton, func(i, j int) bool {
		if sig.Skeleton[i].From != sig.Skeleton[j].From {
			return sig.Skeleton[i].From < sig.Skeleton[j].From
		}
		return sig.Skeleton[i].To < sig.Skeleton[j].To
	})

	for _, child := range m.engine.Nodes() {
		parents, err := m.engine.Parents(child)
		if err != nil {
			continue
		}
		for i := 0; i < len(parents); i++ {
			for j := i + 1; j < len(parents); j++ {
				a, b := parents[i], parents[j]
				ab, _ := m.hasDirectedEdge(a, b)
				ba, _ := m.hasDirectedEdge(b, a)
				if ab || ba {
					// Shielded collider; not an equivalence invariant.
					continue
				}
				sig.VStructures = append(sig.VStructures, VStructure{A: a, B: b, C: child})
			}
		}
	}
	sort.Slice(sig.VStructures, func(i, j int) bool {
		vi, vj := sig.VStructures[i], sig.VStructures[j]
		if vi.A != vj.A {
			return vi.A < vj.A
		}
		if vi.B != vj.B {
			return vi.B < vj.B
		}
		return vi.C < vj.C
	})
	return sig
}

// IsMarkovEquivalent reports whether the two models encode the same
// set of conditional independence relationships.
//
// Description:
//
//	Equivalence is only defined over identical variable sets; the
//	check then reduces to comparing skeletons and v-structure sets
//	(Verma & Pearl). Do-node markings play no role: equivalence is a
//	property of the DAGs.
//
// Errors:
//
//	ErrNodeSetMismatch - The models cover different variables
//	                     (NodeSetMismatchError listing the symmetric
//	                     difference)
func (m *CGM) IsMarkovEquivalent(other *CGM) (bool, error) {
	onlyA, onlyB := symmetricDifference(m.engine.Nodes(), other.engine.Nodes())
	if len(onlyA) > 0 || len(onlyB) > 0 {
		return false, NewNodeSetMismatchError(onlyA, onlyB)
	}

	sigA, sigB := m.Signature(), other.Signature()
	if len(sigA.Skeleton) != len(sigB.Skeleton) || len(sigA.VStructures) != len(sigB.VStructures) {
		return false, nil
	}
	for i := range sigA.Skeleton {
		if sigA.Skeleton[i] != sigB.Skeleton[i] {
			return false, nil
		}
	}
	for i := range sigA.VStructures {
		if sigA.VStructures[i] != sigB.VStructures[i] {
			return false, nil
		}
	}
	return true, nil
}

// symmetricDifference splits two sorted name slices into the elements
// unique to each.
func symmetricDifference(a, b []string) (onlyA, onlyB []string) {
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		switch {
		case a[i] < b[j]:
			onlyA = append(onlyA, a[i])
			i++
		case a[i] > b[j]:
			onlyB = append(onlyB, b[j])
			j++
		default:
			i++
			j++
		}
	}
	onlyA = append(onlyA, a[i:]...)
	onlyB = append(onlyB, b[j:]...)
	return onlyA, onlyB
}
