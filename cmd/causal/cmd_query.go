// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/AleutianAI/CausalFOSS/services/causal/graph"
	"github.com/AleutianAI/CausalFOSS/services/causal/model"
)

// =============================================================================
// RESULT TYPES
// =============================================================================

// DSepResult holds d-separation output.
type DSepResult struct {
	X          []string `json:"x"`
	Y          []string `json:"y"`
	Given      []string `json:"given,omitempty"`
	DSeparated bool     `json:"d_separated"`
}

// AdjustListResult holds adjustment set enumeration output.
type AdjustListResult struct {
	Treatment string     `json:"treatment"`
	Outcome   string     `json:"outcome"`
	Sets      [][]string `json:"sets"`
}

// AdjustCheckResult holds backdoor criterion check output.
type AdjustCheckResult struct {
	Treatment string   `json:"treatment"`
	Outcome   string   `json:"outcome"`
	Candidate []string `json:"candidate"`
	Satisfies bool     `json:"satisfies"`
}

// EquivResult holds Markov equivalence output.
type EquivResult struct {
	ModelA     string `json:"model_a"`
	ModelB     string `json:"model_b"`
	Equivalent bool   `json:"equivalent"`
}

// MoralizeResult holds moral graph output.
type MoralizeResult struct {
	Nodes []string   `json:"nodes"`
	Edges [][]string `json:"edges"`
}

// PathsResult holds backdoor path output.
type PathsResult struct {
	Treatment string     `json:"treatment"`
	Outcome   string     `json:"outcome"`
	Paths     [][]string `json:"paths"`
}

// IndependenciesResult holds independence enumeration output.
type IndependenciesResult struct {
	Independencies []model.Independence `json:"independencies"`
	Count          int                  `json:"count"`
}

// =============================================================================
// COMMAND IMPLEMENTATION
// =============================================================================

// runDSep tests d-separation of --x and --y given --given.
func runDSep(cmd *cobra.Command, args []string) error {
	start := time.Now()
	_, cgm, err := loadCGM(args[0])
	if err != nil {
		return err
	}

	separated, err := cgm.IsDSeparated(dsepX, dsepY, dsepGiven)
	if err != nil {
		return err
	}

	result := DSepResult{X: dsepX, Y: dsepY, Given: dsepGiven, DSeparated: separated}
	verdict := "NOT d-separated"
	if separated {
		verdict = "d-separated"
	}
	text := fmt.Sprintf("{%s} and {%s} are %s given {%s}",
		strings.Join(dsepX, ", "), strings.Join(dsepY, ", "),
		verdict, strings.Join(dsepGiven, ", "))
	return OutputResult(outputConfig(), "dsep", start, result, text)
}

// runIndependencies enumerates implied conditional independencies.
func runIndependencies(cmd *cobra.Command, args []string) error {
	start := time.Now()
	_, cgm, err := loadCGM(args[0])
	if err != nil {
		return err
	}

	ctx, cancel := commandContext()
	defer cancel()

	var opts []model.QueryOption
	if queryLimit > 0 {
		opts = append(opts, model.WithLimit(queryLimit))
	}
	statements, err := cgm.AllIndependencies(ctx, opts...)
	if err != nil {
		return err
	}

	result := IndependenciesResult{Independencies: statements, Count: len(statements)}
	var b strings.Builder
	for _, s := range statements {
		if len(s.Given) == 0 {
			fmt.Fprintf(&b, "%s _|_ %s\n", s.X, s.Y)
		} else {
			fmt.Fprintf(&b, "%s _|_ %s | %s\n", s.X, s.Y, strings.Join(s.Given, ", "))
		}
	}
	if len(statements) == 0 {
		b.WriteString("(none)")
	}
	return OutputResult(outputConfig(), "independencies", start, result, b.String())
}

// runAdjustList enumerates minimal backdoor adjustment sets.
func runAdjustList(cmd *cobra.Command, args []string) error {
	start := time.Now()
	_, cgm, err := loadCGM(args[0])
	if err != nil {
		return err
	}

	var opts []model.QueryOption
	if queryLimit > 0 {
		opts = append(opts, model.WithLimit(queryLimit))
	}
	it, err := cgm.AdjustmentSets(treatment, outcome, opts...)
	if err != nil {
		return err
	}
	sets, err := it.Collect()
	if err != nil {
		return err
	}

	result := AdjustListResult{Treatment: treatment, Outcome: outcome, Sets: sets}
	return OutputResult(outputConfig(), "adjust list", start, result, renderSets(sets))
}

// runAdjustCheck tests a candidate set against the backdoor criterion.
func runAdjustCheck(cmd *cobra.Command, args []string) error {
	start := time.Now()
	_, cgm, err := loadCGM(args[0])
	if err != nil {
		return err
	}

	satisfies, err := cgm.SatisfiesBackdoor(treatment, outcome, candidateSet)
	if err != nil {
		return err
	}

	result := AdjustCheckResult{
		Treatment: treatment,
		Outcome:   outcome,
		Candidate: candidateSet,
		Satisfies: satisfies,
	}
	verdict := "does NOT satisfy"
	if satisfies {
		verdict = "satisfies"
	}
	text := fmt.Sprintf("{%s} %s the backdoor criterion for %s -> %s",
		strings.Join(candidateSet, ", "), verdict, treatment, outcome)
	return OutputResult(outputConfig(), "adjust check", start, result, text)
}

// runEquiv tests Markov equivalence of two model files.
func runEquiv(cmd *cobra.Command, args []string) error {
	start := time.Now()
	_, cgmA, err := loadCGM(args[0])
	if err != nil {
		return err
	}
	_, cgmB, err := loadCGM(args[1])
	if err != nil {
		return err
	}

	equivalent, err := cgmA.IsMarkovEquivalent(cgmB)
	if err != nil {
		return err
	}

	result := EquivResult{ModelA: args[0], ModelB: args[1], Equivalent: equivalent}
	verdict := "NOT Markov equivalent"
	if equivalent {
		verdict = "Markov equivalent"
	}
	text := fmt.Sprintf("%s and %s are %s", args[0], args[1], verdict)
	return OutputResult(outputConfig(), "equiv", start, result, text)
}

// runMoralize prints the moralized graph.
func runMoralize(cmd *cobra.Command, args []string) error {
	start := time.Now()
	_, cgm, err := loadCGM(args[0])
	if err != nil {
		return err
	}

	moral, err := cgm.Moralize()
	if err != nil {
		return err
	}

	nodes := moral.Nodes()
	var edges [][]string
	for i, a := range nodes {
		for _, b := range nodes[i+1:] {
			if moral.HasEdge(a, b) {
				edges = append(edges, []string{a, b})
			}
		}
	}

	result := MoralizeResult{Nodes: nodes, Edges: edges}
	var b strings.Builder
	fmt.Fprintf(&b, "nodes: %s\n", strings.Join(nodes, ", "))
	for _, e := range edges {
		fmt.Fprintf(&b, "%s -- %s\n", e[0], e[1])
	}
	return OutputResult(outputConfig(), "moralize", start, result, b.String())
}

// runPaths lists backdoor paths between treatment and outcome.
func runPaths(cmd *cobra.Command, args []string) error {
	start := time.Now()
	_, cgm, err := loadCGM(args[0])
	if err != nil {
		return err
	}

	var opts []graph.PathOption
	if maxPaths > 0 {
		opts = append(opts, graph.WithMaxPaths(maxPaths))
	}
	paths, err := cgm.BackdoorPaths(treatment, outcome, opts...)
	if err != nil {
		return err
	}

	result := PathsResult{Treatment: treatment, Outcome: outcome, Paths: paths}
	var b strings.Builder
	for _, path := range paths {
		b.WriteString(strings.Join(path, " - "))
		b.WriteByte('\n')
	}
	if len(paths) == 0 {
		b.WriteString("(none)")
	}
	return OutputResult(outputConfig(), "paths", start, result, b.String())
}
