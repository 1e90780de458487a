// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package causal

import "errors"

// Sentinel errors for the causal service.
var (
	// ErrModelNotFound is returned when the requested model ID is not
	// in the registry.
	ErrModelNotFound = errors.New("model not found")

	// ErrModelLimitExceeded is returned when the registry is full.
	ErrModelLimitExceeded = errors.New("model limit exceeded")

	// ErrRowLimitExceeded is returned when a sample request asks for
	// more rows than the service allows.
	ErrRowLimitExceeded = errors.New("row limit exceeded")

	// ErrNoMechanisms is returned when an SCM operation is requested
	// on a model stored without equations.
	ErrNoMechanisms = errors.New("model has no structural equations")

	// ErrUnknownEquationType is returned for an unrecognized equation
	// type in a model spec.
	ErrUnknownEquationType = errors.New("unknown equation type")

	// ErrUnknownNoiseType is returned for an unrecognized noise type
	// in a model spec.
	ErrUnknownNoiseType = errors.New("unknown noise type")

	// ErrPartialMechanisms is returned when only some nodes of a model
	// spec carry equations.
	ErrPartialMechanisms = errors.New("equations must be given for all nodes or none")
)
