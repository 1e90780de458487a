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
	"github.com/AleutianAI/CausalFOSS/services/causal/graph"
)

// BackdoorPaths returns every backdoor path from the treatment to the
// outcome: an undirected simple path of at least three nodes whose
// first hop enters the treatment against the edge direction.
//
// These are the confounding routes the backdoor criterion must block.
//
// Errors:
//
//	graph.ErrNodeNotFound  - Either variable is unknown (NodeError)
//	ErrTreatmentIsOutcome  - treatment == outcome
func (m *CGM) BackdoorPaths(treatment, outcome string, opts ...graph.PathOption) ([][]string, error) {
	if err := m.validateTreatmentOutcome(treatment, outcome); err != nil {
		return nil, err
	}
	parents, err := m.engine.Parents(treatment)
	if err != nil {
		return nil, err
	}
	paths, err := m.engine.UndirectedSimplePaths(treatment, outcome, opts...)
	if err != nil {
		return nil, err
	}

	var out [][]string
	for _, path := range paths {
		if len(path) < 3 {
			continue
		}
		if contains(parents, path[1]) {
			out = append(out, path)
		}
	}
	return out, nil
}

// SatisfiesBackdoor reports whether the candidate set satisfies the
// backdoor criterion for estimating the causal effect of the treatment
// on the outcome.
//
// Description:
//
//	The criterion holds iff (a) no candidate member is a descendant of
//	the treatment, and (b) the candidate set blocks every backdoor
//	path. Condition (b) is tested as d-separation of {treatment} and
//	{outcome} given the candidate set in the graph with the
//	treatment's outgoing edges removed, which leaves exactly the
//	backdoor routes in place.
//
// Errors:
//
//	graph.ErrNodeNotFound - A variable is unknown (NodeError)
//	ErrTreatmentIsOutcome - treatment == outcome
//	ErrSetsOverlap        - The candidate set contains the treatment
//	                        or the outcome (OverlapError)
func (m *CGM) SatisfiesBackdoor(treatment, outcome string, candidate []string) (bool, error) {
	if err := m.validateTreatmentOutcome(treatment, outcome); err != nil {
		return false, err
	}
	candidate = dedupe(candidate)
	for _, name := range candidate {
		if !m.engine.HasNode(name) {
			return false, graph.NewNodeError(name, graph.ErrNodeNotFound)
		}
	}
	if shared := overlap(candidate, []string{treatment, outcome}); len(shared) > 0 {
		return false, NewOverlapError(shared)
	}

	descendants, err := m.engine.Descendants(treatment)
	if err != nil {
		return false, err
	}
	for _, name := range candidate {
		if contains(descendants, name) {
			return false, nil
		}
	}

	cut, err := m.engine.WithoutEdgesFrom(treatment)
	if err != nil {
		return false, err
	}
	cutModel := fromEngine(cut, m.doNodes)
	return cutModel.IsDSeparated([]string{treatment}, []string{outcome}, candidate)
}

// validateTreatmentOutcome checks a (treatment, outcome) pair for a
// backdoor query.
func (m *CGM) validateTreatmentOutcome(treatment, outcome string) error {
	if !m.engine.HasNode(treatment) {
		return graph.NewNodeError(treatment, graph.ErrNodeNotFound)
	}
	if !m.engine.HasNode(outcome) {
		return graph.NewNodeError(outcome, graph.ErrNodeNotFound)
	}
	if treatment == outcome {
		return ErrTreatmentIsOutcome
	}
	return nil
}

// AdjustmentSetIterator lazily enumerates valid backdoor adjustment
// sets in increasing-size order.
//
// # Thread Safety
//
// Not safe for concurrent use; create one iterator per consumer. The
// underlying model is shared safely.
type AdjustmentSetIterator struct {
	model      *CGM
	treatment  string
	outcome    string
	candidates []string
	options    QueryOptions

	size    int
	combos  *combinations
	yielded int
	err     error
}

// AdjustmentSets returns a lazy, restartable enumeration of the
// variable sets satisfying the backdoor criterion for (treatment,
// outcome).
//
// Description:
//
//	Candidates are drawn from the variables other than the treatment,
//	the outcome, and the treatment's descendants. Subsets are tried in
//	increasing-size order, lexicographically within a size, so the
//	first result is always a minimum-cardinality adjustment set. The
//	power set is generated on demand, never materialized.
//
//	An exhausted iterator that yielded nothing is a legitimate
//	graphical fact (no valid adjustment set exists), not an error.
//
// Errors:
//
//	graph.ErrNodeNotFound - Either variable is unknown (NodeError)
//	ErrTreatmentIsOutcome - treatment == outcome
func (m *CGM) AdjustmentSets(treatment, outcome string, opts ...QueryOption) (*AdjustmentSetIterator, error) {
	if err := m.validateTreatmentOutcome(treatment, outcome); err != nil {
		return nil, err
	}
	descendants, err := m.engine.Descendants(treatment)
	if err != nil {
		return nil, err
	}

	var candidates []string
	for _, name := range m.engine.Nodes() {
		if name == treatment || name == outcome || contains(descendants, name) {
			continue
		}
		candidates = append(candidates, name)
	}

	return &AdjustmentSetIterator{
		model:      m,
		treatment:  treatment,
		outcome:    outcome,
		candidates: candidates,
		options:    applyQueryOptions(opts),
	}, nil
}

// Next returns the next valid adjustment set, or false when the
// enumeration is exhausted, the configured limit is reached, or an
// internal error occurred (see Err). The returned slice is owned by
// the caller.
func (it *AdjustmentSetIterator) Next() ([]string, bool) {
	if it.err != nil {
		return nil, false
	}
	if it.options.Limit > 0 && it.yielded >= it.options.Limit {
		return nil, false
	}

	for it.size <= len(it.candidates) {
		if it.combos == nil {
			it.combos = newCombinations(len(it.candidates), it.size)
		}
		for it.combos.next() {
			set := make([]string, 0, it.size)
			for _, idx := range it.combos.current() {
				set = append(set, it.candidates[idx])
			}
			ok, err := it.model.SatisfiesBackdoor(it.treatment, it.outcome, set)
			if err != nil {
				it.err = err
				return nil, false
			}
			if ok {
				it.yielded++
				return set, true
			}
		}
		it.size++
		it.combos = nil
	}
	return nil, false
}

// Err returns the first error the iterator encountered, if any.
func (it *AdjustmentSetIterator) Err() error {
	return it.err
}

// Reset rewinds the iterator to the start of the enumeration.
func (it *AdjustmentSetIterator) Reset() {
	it.size = 0
	it.combos = nil
	it.yielded = 0
	it.err = nil
}

// Collect drains the iterator into a slice. Intended for small models
// and tests; production callers should prefer Next with a limit.
func (it *AdjustmentSetIterator) Collect() ([][]string, error) {
	var out [][]string
	for {
		set, ok := it.Next()
		if !ok {
			break
		}
		out = append(out, set)
	}
	return out, it.Err()
}
