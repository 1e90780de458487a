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
	"os"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/AleutianAI/CausalFOSS/cmd/causal/config"
	"github.com/AleutianAI/CausalFOSS/services/causal"
	"github.com/AleutianAI/CausalFOSS/services/causal/scm"
)

// =============================================================================
// RESULT TYPES
// =============================================================================

// SampleResult holds sampling output.
type SampleResult struct {
	Columns []string                     `json:"columns"`
	Rows    [][]float64                  `json:"rows,omitempty"`
	Summary map[string]scm.ColumnSummary `json:"summary,omitempty"`
}

// CounterfactualResult holds counterfactual query output.
type CounterfactualResult struct {
	Observed      map[string]float64 `json:"observed"`
	Interventions map[string]float64 `json:"interventions,omitempty"`
	Result        map[string]float64 `json:"result"`
}

// =============================================================================
// COMMAND IMPLEMENTATION
// =============================================================================

// loadSCM loads a model file and builds its structural model.
func loadSCM(path string) (*causal.ModelSpec, *scm.SCM, error) {
	spec, err := causal.LoadModelFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load model %s: %w", path, err)
	}
	structural, err := spec.ToSCM()
	if err != nil {
		return nil, nil, fmt.Errorf("model %s: %w", path, err)
	}
	return spec, structural, nil
}

// runSample draws rows from a structural causal model.
func runSample(cmd *cobra.Command, args []string) error {
	start := time.Now()
	_, structural, err := loadSCM(args[0])
	if err != nil {
		return err
	}

	rows := sampleRows
	if rows <= 0 {
		rows = config.Global.Sampling.DefaultRows
	}
	if max := config.Global.Sampling.MaxRows; max > 0 && rows > max {
		return fmt.Errorf("requested %d rows exceeds configured maximum %d", rows, max)
	}

	frame, err := structural.SampleN(sampleSeed, rows)
	if err != nil {
		return err
	}

	columns := frame.Columns()
	result := SampleResult{Columns: columns}
	var text string
	if sampleSummary {
		result.Summary = frame.Summary()
		text = renderSummary(result.Summary)
	} else {
		result.Rows = make([][]float64, frame.Len())
		for i := 0; i < frame.Len(); i++ {
			row := frame.Row(i)
			values := make([]float64, len(columns))
			for j, name := range columns {
				values[j] = row[name]
			}
			result.Rows[i] = values
		}
		text = renderFrame(columns, result.Rows)
	}
	return OutputResult(outputConfig(), "sample", start, result, text)
}

// renderFrame renders sample rows as an aligned text table.
func renderFrame(columns []string, rows [][]float64) string {
	var b strings.Builder
	b.WriteString(strings.Join(columns, "\t"))
	b.WriteByte('\n')
	for _, row := range rows {
		parts := make([]string, len(row))
		for i, v := range row {
			parts[i] = formatFloat(v)
		}
		b.WriteString(strings.Join(parts, "\t"))
		b.WriteByte('\n')
	}
	return b.String()
}

// renderSummary renders per-column statistics.
func renderSummary(summary map[string]scm.ColumnSummary) string {
	names := make([]string, 0, len(summary))
	for name := range summary {
		names = append(names, name)
	}
	sort.Strings(names)

	rows := make([][2]string, 0, len(names))
	for _, name := range names {
		s := summary[name]
		rows = append(rows, [2]string{name,
			fmt.Sprintf("mean=%s stddev=%s", formatFloat(s.Mean), formatFloat(s.StdDev))})
	}
	return renderTable(rows)
}

// runIntervene applies do-interventions and emits the mutilated model.
//
// # Description
//
// Validates the intervention against the structural model first, then
// derives the mutilated model spec (intervened nodes become constants
// with zero noise, inbound edges cut). The result is written as YAML
// to --output or printed.
func runIntervene(cmd *cobra.Command, args []string) error {
	start := time.Now()
	spec, structural, err := loadSCM(args[0])
	if err != nil {
		return err
	}

	values, err := parseAssignments(interveneSet)
	if err != nil {
		return err
	}
	if _, err := structural.Intervene(scm.Intervention(values)); err != nil {
		return err
	}

	name := interveneName
	if name == "" {
		name = spec.Name + "-do"
	}
	mutilated := spec.Intervened(name, values)

	data, err := yaml.Marshal(mutilated)
	if err != nil {
		return fmt.Errorf("failed to encode mutilated model: %w", err)
	}

	if interveneOutput != "" {
		if err := os.WriteFile(interveneOutput, data, 0644); err != nil {
			return fmt.Errorf("failed to write %s: %w", interveneOutput, err)
		}
		text := fmt.Sprintf("wrote %s (do %s)", interveneOutput, formatAssignment(values))
		return OutputResult(outputConfig(), "intervene", start, mutilated, text)
	}
	return OutputResult(outputConfig(), "intervene", start, mutilated, string(data))
}

// runCounterfactual answers "what would Y have been had we set X".
func runCounterfactual(cmd *cobra.Command, args []string) error {
	start := time.Now()
	_, structural, err := loadSCM(args[0])
	if err != nil {
		return err
	}

	observed, err := parseAssignments(cfObserved)
	if err != nil {
		return err
	}
	interventions, err := parseAssignments(cfDo)
	if err != nil {
		return err
	}

	result, err := structural.Counterfactual(
		scm.Assignment(observed), scm.Intervention(interventions))
	if err != nil {
		return err
	}

	out := CounterfactualResult{
		Observed:      observed,
		Interventions: interventions,
		Result:        map[string]float64(result),
	}
	return OutputResult(outputConfig(), "counterfactual", start, out,
		formatAssignment(out.Result))
}
