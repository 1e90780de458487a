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

import "testing"

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Server.Addr == "" {
		t.Error("default server addr should not be empty")
	}
	if cfg.Sampling.MaxRows < cfg.Sampling.DefaultRows {
		t.Errorf("max rows (%d) should not be below default rows (%d)",
			cfg.Sampling.MaxRows, cfg.Sampling.DefaultRows)
	}
	if cfg.Output.JSON {
		t.Error("text output should be the default")
	}
	if err := validate.Struct(&cfg); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}
