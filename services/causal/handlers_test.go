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

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	// Set Gin to test mode to reduce noise
	gin.SetMode(gin.TestMode)
}

func setupTestRouter(svc *Service) *gin.Engine {
	router := gin.New()
	handlers := NewHandlers(svc)
	v1 := router.Group("/v1")
	RegisterRoutes(v1, handlers)
	return router
}

// doRequest performs a request with a raw string body.
func doRequest(router *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req, _ = http.NewRequest(method, path, nil)
	} else {
		req, _ = http.NewRequest(method, path, bytes.NewBufferString(body))
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

// createTestModel registers a model spec and returns its ID.
func createTestModel(t *testing.T, router *gin.Engine, doc string) string {
	t.Helper()

	w := doRequest(router, "POST", "/v1/causal/models", doc)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var resp ModelResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.ID)
	return resp.ID
}

func TestHandlers_HandleHealth(t *testing.T) {
	router := setupTestRouter(NewService(DefaultServiceConfig()))

	w := doRequest(router, "GET", "/v1/causal/health", "")
	require.Equal(t, http.StatusOK, w.Code)

	var resp HealthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, ServiceVersion, resp.Version)
	assert.Equal(t, 0, resp.Models)
}

func TestHandlers_ModelLifecycle(t *testing.T) {
	router := setupTestRouter(NewService(DefaultServiceConfig()))

	id := createTestModel(t, router, chainYAML)

	w := doRequest(router, "GET", "/v1/causal/models/"+id, "")
	require.Equal(t, http.StatusOK, w.Code)
	var got ModelResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, "chain", got.Name)
	assert.Equal(t, []string{"a", "b", "c"}, got.Nodes)
	assert.True(t, got.HasMechanisms)

	w = doRequest(router, "GET", "/v1/causal/models", "")
	require.Equal(t, http.StatusOK, w.Code)
	var list ListModelsResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	assert.Len(t, list.Models, 1)

	w = doRequest(router, "DELETE", "/v1/causal/models/"+id, "")
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = doRequest(router, "GET", "/v1/causal/models/"+id, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestHandlers_CreateModel_Invalid(t *testing.T) {
	router := setupTestRouter(NewService(DefaultServiceConfig()))

	w := doRequest(router, "POST", "/v1/causal/models", "name: [oops")
	require.Equal(t, http.StatusBadRequest, w.Code)

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "INVALID_SPEC", resp.Code)
}

func TestHandlers_HandleDSep(t *testing.T) {
	router := setupTestRouter(NewService(DefaultServiceConfig()))
	id := createTestModel(t, router, chainYAML)

	w := doRequest(router, "POST", "/v1/causal/models/"+id+"/dsep",
		`{"x": ["a"], "y": ["c"], "given": ["b"]}`)
	require.Equal(t, http.StatusOK, w.Code)
	var resp DSepResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.DSeparated)

	w = doRequest(router, "POST", "/v1/causal/models/"+id+"/dsep",
		`{"x": ["a"], "y": ["c"]}`)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp.DSeparated)
}

func TestHandlers_HandleDSep_Errors(t *testing.T) {
	router := setupTestRouter(NewService(DefaultServiceConfig()))
	id := createTestModel(t, router, chainYAML)

	tests := []struct {
		name       string
		path       string
		body       string
		wantStatus int
		wantCode   string
	}{
		{
			name:       "missing sets",
			path:       "/v1/causal/models/" + id + "/dsep",
			body:       `{}`,
			wantStatus: http.StatusBadRequest,
			wantCode:   "INVALID_REQUEST",
		},
		{
			name:       "overlapping sets",
			path:       "/v1/causal/models/" + id + "/dsep",
			body:       `{"x": ["a"], "y": ["a"]}`,
			wantStatus: http.StatusBadRequest,
			wantCode:   "SETS_OVERLAP",
		},
		{
			name:       "unknown node",
			path:       "/v1/causal/models/" + id + "/dsep",
			body:       `{"x": ["a"], "y": ["ghost"]}`,
			wantStatus: http.StatusBadRequest,
			wantCode:   "UNKNOWN_NODE",
		},
		{
			name:       "unknown model",
			path:       "/v1/causal/models/nope/dsep",
			body:       `{"x": ["a"], "y": ["c"]}`,
			wantStatus: http.StatusNotFound,
			wantCode:   "MODEL_NOT_FOUND",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doRequest(router, "POST", tt.path, tt.body)
			assert.Equal(t, tt.wantStatus, w.Code)

			var resp ErrorResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.Equal(t, tt.wantCode, resp.Code)
		})
	}
}

func TestHandlers_HandleAdjustmentSets(t *testing.T) {
	router := setupTestRouter(NewService(DefaultServiceConfig()))
	id := createTestModel(t, router, confoundedYAML)

	w := doRequest(router, "POST", "/v1/causal/models/"+id+"/adjustment-sets",
		`{"treatment": "x", "outcome": "y"}`)
	require.Equal(t, http.StatusOK, w.Code)

	var resp AdjustResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, [][]string{{"z"}}, resp.Sets)
}

func TestHandlers_HandleCheckAdjustment(t *testing.T) {
	router := setupTestRouter(NewService(DefaultServiceConfig()))
	id := createTestModel(t, router, confoundedYAML)

	w := doRequest(router, "POST", "/v1/causal/models/"+id+"/adjustment-sets/check",
		`{"treatment": "x", "outcome": "y", "candidate": ["z"]}`)
	require.Equal(t, http.StatusOK, w.Code)
	var resp CheckAdjustmentResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Satisfies)

	w = doRequest(router, "POST", "/v1/causal/models/"+id+"/adjustment-sets/check",
		`{"treatment": "x", "outcome": "y", "candidate": []}`)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp.Satisfies)
}

func TestHandlers_HandleBackdoorPaths(t *testing.T) {
	router := setupTestRouter(NewService(DefaultServiceConfig()))
	id := createTestModel(t, router, confoundedYAML)

	w := doRequest(router, "POST", "/v1/causal/models/"+id+"/backdoor-paths",
		`{"treatment": "x", "outcome": "y"}`)
	require.Equal(t, http.StatusOK, w.Code)

	var resp BackdoorPathsResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, [][]string{{"x", "z", "y"}}, resp.Paths)
}

func TestHandlers_HandleEquivalence(t *testing.T) {
	router := setupTestRouter(NewService(DefaultServiceConfig()))
	id := createTestModel(t, router, `
name: forward
nodes: [{name: a}, {name: b}, {name: c}]
edges: [{from: a, to: b}, {from: b, to: c}]
`)

	// The reversed chain is in the same equivalence class.
	body, _ := json.Marshal(EquivalenceRequest{Other: &ModelSpec{
		Name:  "backward",
		Nodes: []NodeSpec{{Name: "a"}, {Name: "b"}, {Name: "c"}},
		Edges: []EdgeSpec{{From: "c", To: "b"}, {From: "b", To: "a"}},
	}})
	w := doRequest(router, "POST", "/v1/causal/models/"+id+"/equivalence", string(body))
	require.Equal(t, http.StatusOK, w.Code)
	var resp EquivalenceResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Equivalent)

	// Comparing against a second stored model.
	colliderID := createTestModel(t, router, `
name: collider
nodes: [{name: a}, {name: b}, {name: c}]
edges: [{from: a, to: b}, {from: c, to: b}]
`)
	w = doRequest(router, "POST", "/v1/causal/models/"+id+"/equivalence",
		`{"other_id": "`+colliderID+`"}`)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp.Equivalent)

	// Both or neither selector is a validation error.
	w = doRequest(router, "POST", "/v1/causal/models/"+id+"/equivalence", `{}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandlers_HandleMoralize(t *testing.T) {
	router := setupTestRouter(NewService(DefaultServiceConfig()))
	id := createTestModel(t, router, confoundedYAML)

	w := doRequest(router, "GET", "/v1/causal/models/"+id+"/moral", "")
	require.Equal(t, http.StatusOK, w.Code)

	var resp MoralizeResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.ElementsMatch(t, []string{"x", "y", "z"}, resp.Nodes)
	assert.ElementsMatch(t, []EdgeSpec{
		{From: "x", To: "y"},
		{From: "x", To: "z"},
		{From: "y", To: "z"},
	}, resp.Edges)
}

func TestHandlers_HandleDistribution(t *testing.T) {
	router := setupTestRouter(NewService(DefaultServiceConfig()))
	id := createTestModel(t, router, chainYAML)

	w := doRequest(router, "GET", "/v1/causal/models/"+id+"/distribution", "")
	require.Equal(t, http.StatusOK, w.Code)

	var resp DistributionResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "P(a)P(b|a)P(c|b)", resp.Distribution)
}

func TestHandlers_HandleSample(t *testing.T) {
	router := setupTestRouter(NewService(DefaultServiceConfig()))
	id := createTestModel(t, router, chainYAML)

	w := doRequest(router, "POST", "/v1/causal/models/"+id+"/sample",
		`{"rows": 3, "seed": 7}`)
	require.Equal(t, http.StatusOK, w.Code)

	var resp SampleResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, []string{"a", "b", "c"}, resp.Columns)
	require.Len(t, resp.Rows, 3)
	for _, row := range resp.Rows {
		assert.Equal(t, []float64{1, 3, 6}, row, "deterministic chain")
	}
}

func TestHandlers_HandleSample_Summary(t *testing.T) {
	router := setupTestRouter(NewService(DefaultServiceConfig()))
	id := createTestModel(t, router, chainYAML)

	w := doRequest(router, "POST", "/v1/causal/models/"+id+"/sample",
		`{"rows": 5, "summary": true}`)
	require.Equal(t, http.StatusOK, w.Code)

	var resp SampleResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Empty(t, resp.Rows)
	require.Contains(t, resp.Summary, "c")
	assert.InDelta(t, 6, resp.Summary["c"].Mean, 1e-12)
	assert.InDelta(t, 0, resp.Summary["c"].StdDev, 1e-12)
}

func TestHandlers_HandleSample_Errors(t *testing.T) {
	cfg := DefaultServiceConfig()
	cfg.MaxSampleRows = 10
	router := setupTestRouter(NewService(cfg))

	scmID := createTestModel(t, router, chainYAML)
	graphID := createTestModel(t, router, confoundedYAML)

	w := doRequest(router, "POST", "/v1/causal/models/"+scmID+"/sample", `{"rows": 11}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doRequest(router, "POST", "/v1/causal/models/"+graphID+"/sample", `{"rows": 1}`)
	require.Equal(t, http.StatusBadRequest, w.Code)
	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "NO_MECHANISMS", resp.Code)
}

func TestHandlers_HandleIntervene(t *testing.T) {
	router := setupTestRouter(NewService(DefaultServiceConfig()))
	id := createTestModel(t, router, chainYAML)

	w := doRequest(router, "POST", "/v1/causal/models/"+id+"/intervene",
		`{"interventions": {"a": 5}}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var created ModelResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.Equal(t, "chain-do", created.Name)
	assert.NotEqual(t, id, created.ID)

	// The mutilated model samples under do(a=5).
	w = doRequest(router, "POST", "/v1/causal/models/"+created.ID+"/sample",
		`{"rows": 1}`)
	require.Equal(t, http.StatusOK, w.Code)
	var sample SampleResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &sample))
	assert.Equal(t, []float64{5, 7, 14}, sample.Rows[0])

	// The source model is unchanged.
	w = doRequest(router, "POST", "/v1/causal/models/"+id+"/sample", `{"rows": 1}`)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &sample))
	assert.Equal(t, []float64{1, 3, 6}, sample.Rows[0])
}

func TestHandlers_HandleIntervene_UnknownNode(t *testing.T) {
	router := setupTestRouter(NewService(DefaultServiceConfig()))
	id := createTestModel(t, router, chainYAML)

	w := doRequest(router, "POST", "/v1/causal/models/"+id+"/intervene",
		`{"interventions": {"ghost": 1}}`)
	require.Equal(t, http.StatusBadRequest, w.Code)

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "UNKNOWN_NODE", resp.Code)
}

func TestHandlers_HandleCounterfactual(t *testing.T) {
	router := setupTestRouter(NewService(DefaultServiceConfig()))
	id := createTestModel(t, router, chainYAML)

	w := doRequest(router, "POST", "/v1/causal/models/"+id+"/counterfactual",
		`{"observed": {"a": 1, "b": 3, "c": 6}, "interventions": {"a": 5}}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp CounterfactualResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.InDelta(t, 14, resp.Result["c"], 1e-12)
}

func TestHandlers_HandleCounterfactual_Incomplete(t *testing.T) {
	router := setupTestRouter(NewService(DefaultServiceConfig()))
	id := createTestModel(t, router, chainYAML)

	w := doRequest(router, "POST", "/v1/causal/models/"+id+"/counterfactual",
		`{"observed": {"a": 1}}`)
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "INCOMPLETE_OBSERVATION", resp.Code)
}

func TestHandlers_HandleIndependencies(t *testing.T) {
	router := setupTestRouter(NewService(DefaultServiceConfig()))
	id := createTestModel(t, router, chainYAML)

	w := doRequest(router, "GET", "/v1/causal/models/"+id+"/independencies", "")
	require.Equal(t, http.StatusOK, w.Code)

	var resp IndependenciesResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Independencies, 1)
	assert.Equal(t, IndependenceStatement{X: "a", Y: "c", Given: []string{"b"}},
		resp.Independencies[0])
	assert.False(t, resp.Truncated)
}
