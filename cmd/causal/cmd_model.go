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

	"github.com/AleutianAI/CausalFOSS/services/causal"
	"github.com/AleutianAI/CausalFOSS/services/causal/model"
)

// =============================================================================
// RESULT TYPES
// =============================================================================

// ModelShowResult holds model inspection output.
type ModelShowResult struct {
	Name          string   `json:"name"`
	Nodes         []string `json:"nodes"`
	Edges         []string `json:"edges"`
	HasMechanisms bool     `json:"has_mechanisms"`
	Distribution  string   `json:"distribution"`
}

// ModelValidateResult holds validation output.
type ModelValidateResult struct {
	Valid         bool   `json:"valid"`
	Name          string `json:"name,omitempty"`
	Nodes         int    `json:"nodes"`
	Edges         int    `json:"edges"`
	HasMechanisms bool   `json:"has_mechanisms"`
}

// =============================================================================
// COMMAND IMPLEMENTATION
// =============================================================================

// loadCGM loads a model file and builds its graph.
func loadCGM(path string) (*causal.ModelSpec, *model.CGM, error) {
	spec, err := causal.LoadModelFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load model %s: %w", path, err)
	}
	cgm, err := spec.ToCGM()
	if err != nil {
		return nil, nil, fmt.Errorf("invalid model %s: %w", path, err)
	}
	return spec, cgm, nil
}

// runModelShow prints the structure of a model file.
func runModelShow(cmd *cobra.Command, args []string) error {
	start := time.Now()
	spec, cgm, err := loadCGM(args[0])
	if err != nil {
		return err
	}

	edges := make([]string, 0, len(cgm.Edges()))
	for _, e := range cgm.Edges() {
		edges = append(edges, e.From+" -> "+e.To)
	}

	result := ModelShowResult{
		Name:          spec.Name,
		Nodes:         cgm.Nodes(),
		Edges:         edges,
		HasMechanisms: spec.HasMechanisms(),
		Distribution:  cgm.DistributionString(),
	}

	text := renderTable([][2]string{
		{"Name", result.Name},
		{"Nodes", strings.Join(result.Nodes, ", ")},
		{"Edges", strings.Join(result.Edges, ", ")},
		{"Mechanisms", fmt.Sprintf("%t", result.HasMechanisms)},
		{"Distribution", result.Distribution},
	})
	return OutputResult(outputConfig(), "model show", start, result, text)
}

// runModelDot prints the Graphviz DOT rendering of a model.
func runModelDot(cmd *cobra.Command, args []string) error {
	start := time.Now()
	_, cgm, err := loadCGM(args[0])
	if err != nil {
		return err
	}

	dot := cgm.DOT()
	return OutputResult(outputConfig(), "model dot", start,
		map[string]string{"dot": dot}, dot)
}

// runModelDistribution prints the factorized joint distribution.
func runModelDistribution(cmd *cobra.Command, args []string) error {
	start := time.Now()
	_, cgm, err := loadCGM(args[0])
	if err != nil {
		return err
	}

	dist := cgm.DistributionString()
	return OutputResult(outputConfig(), "model distribution", start,
		map[string]string{"distribution": dist}, dist)
}

// runModelValidate validates a model file end to end.
//
// # Description
//
// Parses the YAML, checks the schema, builds the graph (rejecting
// cycles), and builds the SCM when mechanisms are present (rejecting
// parent mismatches). Any failure is reported as a command error.
func runModelValidate(cmd *cobra.Command, args []string) error {
	start := time.Now()
	spec, cgm, err := loadCGM(args[0])
	if err != nil {
		return err
	}

	if spec.HasMechanisms() {
		if _, err := spec.ToSCM(); err != nil {
			return fmt.Errorf("invalid mechanisms in %s: %w", args[0], err)
		}
	}

	result := ModelValidateResult{
		Valid:         true,
		Name:          spec.Name,
		Nodes:         len(cgm.Nodes()),
		Edges:         len(cgm.Edges()),
		HasMechanisms: spec.HasMechanisms(),
	}
	text := fmt.Sprintf("%s: valid (%d nodes, %d edges, mechanisms=%t)",
		args[0], result.Nodes, result.Edges, result.HasMechanisms)
	return OutputResult(outputConfig(), "model validate", start, result, text)
}
