// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package config

// CausalConfig is the user-level CLI configuration.
type CausalConfig struct {
	// Server: where the daemon listens and which models it serves
	Server ServerConfig `yaml:"server" validate:"required"`

	// Sampling: defaults for sample/stream commands
	Sampling SamplingConfig `yaml:"sampling"`

	// Output: default output formatting
	Output OutputSettings `yaml:"output"`
}

type ServerConfig struct {
	Addr     string `yaml:"addr" validate:"required"` // e.g. :8095
	ModelDir string `yaml:"model_dir"`                // directory of YAML model files
}

type SamplingConfig struct {
	DefaultRows int `yaml:"default_rows" validate:"gte=0"` // e.g. 100
	MaxRows     int `yaml:"max_rows" validate:"gte=0"`     // e.g. 100000
}

type OutputSettings struct {
	JSON bool `yaml:"json"` // default to JSON output
}

func DefaultConfig() CausalConfig {
	return CausalConfig{
		Server: ServerConfig{
			Addr:     ":8095",
			ModelDir: "",
		},
		Sampling: SamplingConfig{
			DefaultRows: 100,
			MaxRows:     100000,
		},
		Output: OutputSettings{
			JSON: false,
		},
	}
}
