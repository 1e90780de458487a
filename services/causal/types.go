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

// ModelResponse describes one registered model.
type ModelResponse struct {
	// ID is the registry identifier.
	ID string `json:"id"`

	// Name is the model's declared name.
	Name string `json:"name"`

	// Nodes lists the variable names in insertion order.
	Nodes []string `json:"nodes"`

	// Edges lists the directed edges.
	Edges []EdgeSpec `json:"edges"`

	// HasMechanisms is true when the model supports SCM operations.
	HasMechanisms bool `json:"has_mechanisms"`

	// CreatedAtMilli is the registration time in Unix milliseconds.
	CreatedAtMilli int64 `json:"created_at_milli"`
}

// ListModelsResponse is the response for GET /v1/causal/models.
type ListModelsResponse struct {
	// Models lists all registered models, oldest first.
	Models []ModelResponse `json:"models"`
}

// DSepRequest is the request body for POST /v1/causal/models/:id/dsep.
type DSepRequest struct {
	// X is the first node set. Required.
	X []string `json:"x" binding:"required,min=1"`

	// Y is the second node set. Required.
	Y []string `json:"y" binding:"required,min=1"`

	// Given is the conditioning set. May be empty.
	Given []string `json:"given"`
}

// DSepResponse is the response for the d-separation query.
type DSepResponse struct {
	// DSeparated is true when X ⟂ Y | Given holds in the graph.
	DSeparated bool `json:"d_separated"`
}

// IndependenciesRequest is the query params for
// GET /v1/causal/models/:id/independencies.
type IndependenciesRequest struct {
	// Limit caps the number of statements returned. Default: service
	// enumeration limit.
	Limit int `form:"limit"`
}

// IndependenceStatement is one conditional independence X ⟂ Y | Given.
type IndependenceStatement struct {
	X     string   `json:"x"`
	Y     string   `json:"y"`
	Given []string `json:"given"`
}

// IndependenciesResponse lists implied conditional independencies.
type IndependenciesResponse struct {
	Independencies []IndependenceStatement `json:"independencies"`

	// Truncated is true when the limit cut the enumeration short.
	Truncated bool `json:"truncated"`
}

// AdjustRequest is the request body for
// POST /v1/causal/models/:id/adjustment-sets.
type AdjustRequest struct {
	// Treatment is the treatment variable. Required.
	Treatment string `json:"treatment" binding:"required"`

	// Outcome is the outcome variable. Required.
	Outcome string `json:"outcome" binding:"required"`

	// Limit caps the number of sets returned. Default: service
	// enumeration limit.
	Limit int `json:"limit"`
}

// AdjustResponse lists valid backdoor adjustment sets.
type AdjustResponse struct {
	// Sets lists valid adjustment sets in increasing-size order. An
	// empty inner set means no adjustment is needed.
	Sets [][]string `json:"sets"`
}

// CheckAdjustmentRequest is the request body for
// POST /v1/causal/models/:id/adjustment-sets/check.
type CheckAdjustmentRequest struct {
	Treatment string   `json:"treatment" binding:"required"`
	Outcome   string   `json:"outcome" binding:"required"`
	Candidate []string `json:"candidate"`
}

// CheckAdjustmentResponse reports whether the candidate satisfies the
// backdoor criterion.
type CheckAdjustmentResponse struct {
	Satisfies bool `json:"satisfies"`
}

// BackdoorPathsRequest is the request body for
// POST /v1/causal/models/:id/backdoor-paths.
type BackdoorPathsRequest struct {
	Treatment string `json:"treatment" binding:"required"`
	Outcome   string `json:"outcome" binding:"required"`
}

// BackdoorPathsResponse lists undirected backdoor paths.
type BackdoorPathsResponse struct {
	Paths [][]string `json:"paths"`
}

// EquivalenceRequest is the request body for
// POST /v1/causal/models/:id/equivalence. Exactly one of OtherID and
// Other must be set.
type EquivalenceRequest struct {
	// OtherID references a second registered model.
	OtherID string `json:"other_id"`

	// Other is an inline model spec to compare against.
	Other *ModelSpec `json:"other"`
}

// EquivalenceResponse reports Markov equivalence.
type EquivalenceResponse struct {
	Equivalent bool `json:"equivalent"`
}

// MoralizeResponse is the undirected moral graph.
type MoralizeResponse struct {
	Nodes []string `json:"nodes"`

	// Edges lists undirected edges with From < To.
	Edges []EdgeSpec `json:"edges"`
}

// DistributionResponse is the factorized distribution string.
type DistributionResponse struct {
	Distribution string `json:"distribution"`
}

// DOTResponse is the Graphviz rendering of the model.
type DOTResponse struct {
	DOT string `json:"dot"`
}

// SampleRequest is the request body for
// POST /v1/causal/models/:id/sample.
type SampleRequest struct {
	// Rows is the number of rows to draw. Default: service default.
	Rows int `json:"rows"`

	// Seed seeds the random stream. Same seed, same rows.
	Seed uint64 `json:"seed"`

	// Summary requests per-column mean/stddev instead of raw rows.
	Summary bool `json:"summary"`
}

// ColumnSummary is per-column summary statistics.
type ColumnSummary struct {
	Mean   float64 `json:"mean"`
	StdDev float64 `json:"std_dev"`
}

// SampleResponse carries drawn rows or their summary.
type SampleResponse struct {
	// Columns lists column names in topological order.
	Columns []string `json:"columns"`

	// Rows holds the drawn values, one inner slice per row, aligned
	// with Columns. Omitted when Summary was requested.
	Rows [][]float64 `json:"rows,omitempty"`

	// Summary holds per-column statistics when requested.
	Summary map[string]ColumnSummary `json:"summary,omitempty"`
}

// InterveneRequest is the request body for
// POST /v1/causal/models/:id/intervene.
type InterveneRequest struct {
	// Interventions maps node names to pinned values. Required.
	Interventions map[string]float64 `json:"interventions" binding:"required"`

	// Name optionally names the resulting model. Default: "<name>-do".
	Name string `json:"name"`
}

// CounterfactualRequest is the request body for
// POST /v1/causal/models/:id/counterfactual.
type CounterfactualRequest struct {
	// Observed is the complete factual observation. Required.
	Observed map[string]float64 `json:"observed" binding:"required"`

	// Interventions maps node names to counterfactual values.
	Interventions map[string]float64 `json:"interventions"`
}

// CounterfactualResponse is the counterfactual assignment.
type CounterfactualResponse struct {
	Result map[string]float64 `json:"result"`
}

// HealthResponse is the health check response.
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
	Models  int    `json:"models"`
}

// ErrorResponse is the standard error response format.
type ErrorResponse struct {
	// Error is the error message.
	Error string `json:"error"`

	// Code is the error code (optional).
	Code string `json:"code,omitempty"`

	// Details provides additional error context (optional).
	Details string `json:"details,omitempty"`
}
