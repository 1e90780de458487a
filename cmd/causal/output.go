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
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/mattn/go-isatty"
)

// Exit codes for CLI commands.
const (
	ExitSuccess = 0 // Operation completed successfully
	ExitError   = 1 // Operation failed
)

// OutputConfig controls output behavior.
type OutputConfig struct {
	JSON    bool // Output as JSON
	Compact bool // No indentation
}

// CommandResult wraps command output with metadata.
type CommandResult struct {
	APIVersion string      `json:"api_version"`
	Command    string      `json:"command"`
	Timestamp  time.Time   `json:"timestamp"`
	DurationMs int64       `json:"duration_ms"`
	Success    bool        `json:"success"`
	Data       interface{} `json:"data,omitempty"`
	Error      string      `json:"error,omitempty"`
}

// outputConfig snapshots the global output flags.
func outputConfig() OutputConfig {
	return OutputConfig{JSON: jsonOutput, Compact: compactOutput}
}

// stdoutIsTTY reports whether stdout is an interactive terminal.
// Piped output defaults to JSON so scripts get structured data.
func stdoutIsTTY() bool {
	fd := os.Stdout.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// OutputJSON writes structured data as JSON to stdout.
//
// # Inputs
//
//   - data: The data to encode. Must be JSON-serializable.
//   - compact: If true, output without indentation.
//
// # Outputs
//
//   - error: Non-nil if encoding fails.
func OutputJSON(data interface{}, compact bool) error {
	encoder := json.NewEncoder(os.Stdout)
	if !compact {
		encoder.SetIndent("", "  ")
	}
	return encoder.Encode(data)
}

// OutputResult emits command output in the configured format.
//
// # Inputs
//
//   - cfg: Output configuration.
//   - cmd: Command name for JSON metadata.
//   - start: Start time for duration calculation.
//   - data: The data to output in JSON mode.
//   - text: Rendered text for TTY mode.
//
// # Outputs
//
//   - error: Non-nil if encoding fails.
func OutputResult(cfg OutputConfig, cmd string, start time.Time, data interface{}, text string) error {
	if cfg.JSON {
		result := CommandResult{
			APIVersion: "1.0",
			Command:    cmd,
			Timestamp:  time.Now(),
			DurationMs: time.Since(start).Milliseconds(),
			Success:    true,
			Data:       data,
		}
		return OutputJSON(result, cfg.Compact)
	}
	fmt.Println(strings.TrimRight(text, "\n"))
	return nil
}

// renderTable renders rows of label/value pairs with aligned labels.
func renderTable(rows [][2]string) string {
	width := 0
	for _, row := range rows {
		if len(row[0]) > width {
			width = len(row[0])
		}
	}
	var b strings.Builder
	for _, row := range rows {
		fmt.Fprintf(&b, "%-*s  %s\n", width, row[0], row[1])
	}
	return b.String()
}

// renderSets renders node sets one per line, {} for the empty set.
func renderSets(sets [][]string) string {
	if len(sets) == 0 {
		return "(none)"
	}
	var b strings.Builder
	for _, set := range sets {
		fmt.Fprintf(&b, "{%s}\n", strings.Join(set, ", "))
	}
	return b.String()
}

// formatFloat renders a float compactly for text output.
func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', 6, 64)
}

// formatAssignment renders name=value pairs in sorted order.
func formatAssignment(values map[string]float64) string {
	names := make([]string, 0, len(values))
	for name := range values {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, len(names))
	for i, name := range names {
		parts[i] = name + "=" + formatFloat(values[name])
	}
	return strings.Join(parts, " ")
}

// parseAssignments parses repeated name=value flags into a map.
func parseAssignments(pairs []string) (map[string]float64, error) {
	values := make(map[string]float64, len(pairs))
	for _, pair := range pairs {
		name, raw, ok := strings.Cut(pair, "=")
		if !ok || name == "" {
			return nil, fmt.Errorf("invalid assignment %q, expected name=value", pair)
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid value in %q: %w", pair, err)
		}
		values[name] = v
	}
	return values, nil
}
