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
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/AleutianAI/CausalFOSS/services/causal/graph"
	"github.com/AleutianAI/CausalFOSS/services/causal/model"
	"github.com/AleutianAI/CausalFOSS/services/causal/scm"
	"github.com/AleutianAI/CausalFOSS/services/causal/telemetry"
)

// ServiceVersion is the causal service version.
const ServiceVersion = "0.1.0"

// tracer instruments the query handlers. Degrades to no-ops when no
// provider is installed.
var tracer = otel.Tracer("services/causal")

// Handlers contains the HTTP handlers for the causal service.
type Handlers struct {
	svc     *Service
	metrics *telemetry.Metrics
}

// NewHandlers creates handlers for the given service.
func NewHandlers(svc *Service) *Handlers {
	return &Handlers{svc: svc}
}

// WithMetrics attaches a metrics instance for query instrumentation.
func (h *Handlers) WithMetrics(m *telemetry.Metrics) *Handlers {
	h.metrics = m
	return h
}

// recordQuery updates the query counters and duration histogram.
func (h *Handlers) recordQuery(ctx context.Context, kind string, start time.Time, err error) {
	if h.metrics == nil {
		return
	}
	status := "ok"
	if err != nil {
		status = "error"
	}
	attrs := metric.WithAttributes(
		attribute.String("kind", kind),
		attribute.String("status", status),
	)
	h.metrics.QueriesTotal.Add(ctx, 1, attrs)
	h.metrics.QueryDuration.Record(ctx, time.Since(start).Seconds(), attrs)
}

// mapError translates service and library errors to an HTTP status
// and a stable error code.
func mapError(err error) (int, string) {
	switch {
	case errors.Is(err, ErrModelNotFound):
		return http.StatusNotFound, "MODEL_NOT_FOUND"
	case errors.Is(err, ErrModelLimitExceeded):
		return http.StatusConflict, "MODEL_LIMIT_EXCEEDED"
	case errors.Is(err, ErrNoMechanisms):
		return http.StatusBadRequest, "NO_MECHANISMS"
	case errors.Is(err, ErrRowLimitExceeded):
		return http.StatusBadRequest, "ROW_LIMIT_EXCEEDED"
	case errors.Is(err, ErrPartialMechanisms):
		return http.StatusBadRequest, "PARTIAL_MECHANISMS"
	case errors.Is(err, graph.ErrNodeNotFound):
		return http.StatusBadRequest, "UNKNOWN_NODE"
	case errors.Is(err, graph.ErrCycleDetected):
		return http.StatusBadRequest, "CYCLE_DETECTED"
	case errors.Is(err, model.ErrSetsOverlap):
		return http.StatusBadRequest, "SETS_OVERLAP"
	case errors.Is(err, model.ErrEmptyNodeSet):
		return http.StatusBadRequest, "EMPTY_NODE_SET"
	case errors.Is(err, model.ErrTreatmentIsOutcome):
		return http.StatusBadRequest, "TREATMENT_IS_OUTCOME"
	case errors.Is(err, model.ErrNodeSetMismatch):
		return http.StatusBadRequest, "NODE_SET_MISMATCH"
	case errors.Is(err, scm.ErrUnknownNode):
		return http.StatusBadRequest, "UNKNOWN_NODE"
	case errors.Is(err, scm.ErrNegativeSampleCount):
		return http.StatusBadRequest, "NEGATIVE_SAMPLE_COUNT"
	case errors.Is(err, scm.ErrIncompleteObservation):
		return http.StatusUnprocessableEntity, "INCOMPLETE_OBSERVATION"
	case errors.Is(err, scm.ErrNonInvertible):
		return http.StatusUnprocessableEntity, "NON_INVERTIBLE"
	default:
		return http.StatusInternalServerError, "INTERNAL_ERROR"
	}
}

// writeError logs and renders an error response.
func writeError(c *gin.Context, logger *slog.Logger, err error) {
	status, code := mapError(err)
	if status >= http.StatusInternalServerError {
		logger.Error("Request failed", "error", err)
	} else {
		logger.Warn("Request rejected", "error", err, "code", code)
	}
	c.JSON(status, ErrorResponse{Error: err.Error(), Code: code})
}

// modelResponse renders a stored model for the API.
func modelResponse(m *StoredModel) ModelResponse {
	return ModelResponse{
		ID:             m.ID,
		Name:           m.Name,
		Nodes:          m.CGM.Nodes(),
		Edges:          m.Spec.Edges,
		HasMechanisms:  m.SCM != nil,
		CreatedAtMilli: m.CreatedAtMilli,
	}
}

// HandleCreateModel handles POST /v1/causal/models.
//
// Description:
//
//	Registers a new model from a YAML or JSON spec in the request
//	body. YAML subsumes JSON, so both content types go through the
//	same parser.
//
// Response:
//
//	201 Created: ModelResponse
//	400 Bad Request: Malformed or invalid spec
//	409 Conflict: Registry full
func (h *Handlers) HandleCreateModel(c *gin.Context) {
	requestID := getOrCreateRequestID(c)
	logger := slog.With("request_id", requestID, "handler", "HandleCreateModel")

	body, err := c.GetRawData()
	if err != nil {
		logger.Warn("Failed to read request body", "error", err)
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: "Failed to read request body",
			Code:  "INVALID_REQUEST",
		})
		return
	}

	spec, err := ParseModelSpec(body)
	if err != nil {
		logger.Warn("Invalid model spec", "error", err)
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: err.Error(),
			Code:  "INVALID_SPEC",
		})
		return
	}

	stored, err := h.svc.CreateModel(spec)
	if err != nil {
		writeError(c, logger, err)
		return
	}

	logger.Info("Model registered",
		"model_id", stored.ID,
		"name", stored.Name,
		"nodes", len(stored.CGM.Nodes()),
		"has_mechanisms", stored.SCM != nil)

	c.JSON(http.StatusCreated, modelResponse(stored))
}

// HandleGetModel handles GET /v1/causal/models/:id.
func (h *Handlers) HandleGetModel(c *gin.Context) {
	requestID := getOrCreateRequestID(c)
	logger := slog.With("request_id", requestID, "handler", "HandleGetModel")

	stored, err := h.svc.GetModel(c.Param("id"))
	if err != nil {
		writeError(c, logger, err)
		return
	}

	c.JSON(http.StatusOK, modelResponse(stored))
}

// HandleDeleteModel handles DELETE /v1/causal/models/:id.
func (h *Handlers) HandleDeleteModel(c *gin.Context) {
	requestID := getOrCreateRequestID(c)
	logger := slog.With("request_id", requestID, "handler", "HandleDeleteModel")

	id := c.Param("id")
	if err := h.svc.DeleteModel(id); err != nil {
		writeError(c, logger, err)
		return
	}

	logger.Info("Model deleted", "model_id", id)
	c.Status(http.StatusNoContent)
}

// HandleListModels handles GET /v1/causal/models.
func (h *Handlers) HandleListModels(c *gin.Context) {
	models := h.svc.ListModels()

	resp := ListModelsResponse{Models: make([]ModelResponse, 0, len(models))}
	for _, m := range models {
		resp.Models = append(resp.Models, modelResponse(m))
	}

	c.JSON(http.StatusOK, resp)
}

// HandleDSep handles POST /v1/causal/models/:id/dsep.
//
// Description:
//
//	Answers whether X and Y are d-separated given the conditioning
//	set in the stored model's graph.
//
// Response:
//
//	200 OK: DSepResponse
//	400 Bad Request: Validation error (overlap, empty set, unknown node)
//	404 Not Found: Unknown model
func (h *Handlers) HandleDSep(c *gin.Context) {
	requestID := getOrCreateRequestID(c)
	logger := slog.With("request_id", requestID, "handler", "HandleDSep")

	var req DSepRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Invalid request body", "error", err)
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: "Invalid request body",
			Code:  "INVALID_REQUEST",
		})
		return
	}

	stored, err := h.svc.GetModel(c.Param("id"))
	if err != nil {
		writeError(c, logger, err)
		return
	}

	ctx, span := tracer.Start(c.Request.Context(), "causal.dsep")
	defer span.End()
	start := time.Now()

	separated, err := stored.CGM.IsDSeparated(req.X, req.Y, req.Given)
	h.recordQuery(ctx, "dsep", start, err)
	if err != nil {
		writeError(c, logger, err)
		return
	}

	c.JSON(http.StatusOK, DSepResponse{DSeparated: separated})
}

// HandleIndependencies handles GET /v1/causal/models/:id/independencies.
func (h *Handlers) HandleIndependencies(c *gin.Context) {
	requestID := getOrCreateRequestID(c)
	logger := slog.With("request_id", requestID, "handler", "HandleIndependencies")

	var req IndependenciesRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		logger.Warn("Invalid query params", "error", err)
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: "Invalid query parameters",
			Code:  "INVALID_REQUEST",
		})
		return
	}

	stored, err := h.svc.GetModel(c.Param("id"))
	if err != nil {
		writeError(c, logger, err)
		return
	}

	limit := req.Limit
	if limit <= 0 || limit > h.svc.Config().EnumerationLimit {
		limit = h.svc.Config().EnumerationLimit
	}

	ctx, span := tracer.Start(c.Request.Context(), "causal.independencies")
	defer span.End()
	start := time.Now()

	independencies, err := stored.CGM.AllIndependencies(ctx, model.WithLimit(limit))
	h.recordQuery(ctx, "independencies", start, err)
	if err != nil {
		writeError(c, logger, err)
		return
	}

	resp := IndependenciesResponse{
		Independencies: make([]IndependenceStatement, 0, len(independencies)),
		Truncated:      len(independencies) == limit,
	}
	for _, ind := range independencies {
		resp.Independencies = append(resp.Independencies, IndependenceStatement{
			X:     ind.X,
			Y:     ind.Y,
			Given: ind.Given,
		})
	}

	c.JSON(http.StatusOK, resp)
}

// HandleAdjustmentSets handles POST /v1/causal/models/:id/adjustment-sets.
//
// Description:
//
//	Enumerates valid backdoor adjustment sets for the treatment and
//	outcome, smallest first. An empty result means no valid set
//	exists; a result containing only the empty set means no
//	adjustment is needed.
func (h *Handlers) HandleAdjustmentSets(c *gin.Context) {
	requestID := getOrCreateRequestID(c)
	logger := slog.With("request_id", requestID, "handler", "HandleAdjustmentSets")

	var req AdjustRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Invalid request body", "error", err)
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: "Invalid request body",
			Code:  "INVALID_REQUEST",
		})
		return
	}

	stored, err := h.svc.GetModel(c.Param("id"))
	if err != nil {
		writeError(c, logger, err)
		return
	}

	limit := req.Limit
	if limit <= 0 || limit > h.svc.Config().EnumerationLimit {
		limit = h.svc.Config().EnumerationLimit
	}

	ctx, span := tracer.Start(c.Request.Context(), "causal.adjustment_sets")
	defer span.End()
	start := time.Now()

	it, err := stored.CGM.AdjustmentSets(req.Treatment, req.Outcome, model.WithLimit(limit))
	if err != nil {
		h.recordQuery(ctx, "adjustment_sets", start, err)
		writeError(c, logger, err)
		return
	}

	sets, err := it.Collect()
	h.recordQuery(ctx, "adjustment_sets", start, err)
	if err != nil {
		writeError(c, logger, err)
		return
	}
	if h.metrics != nil {
		h.metrics.AdjustmentSetsYielded.Add(ctx, int64(len(sets)))
	}

	c.JSON(http.StatusOK, AdjustResponse{Sets: sets})
}

// HandleCheckAdjustment handles POST /v1/causal/models/:id/adjustment-sets/check.
func (h *Handlers) HandleCheckAdjustment(c *gin.Context) {
	requestID := getOrCreateRequestID(c)
	logger := slog.With("request_id", requestID, "handler", "HandleCheckAdjustment")

	var req CheckAdjustmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Invalid request body", "error", err)
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: "Invalid request body",
			Code:  "INVALID_REQUEST",
		})
		return
	}

	stored, err := h.svc.GetModel(c.Param("id"))
	if err != nil {
		writeError(c, logger, err)
		return
	}

	ctx, span := tracer.Start(c.Request.Context(), "causal.check_adjustment")
	defer span.End()
	start := time.Now()

	ok, err := stored.CGM.SatisfiesBackdoor(req.Treatment, req.Outcome, req.Candidate)
	h.recordQuery(ctx, "check_adjustment", start, err)
	if err != nil {
		writeError(c, logger, err)
		return
	}

	c.JSON(http.StatusOK, CheckAdjustmentResponse{Satisfies: ok})
}

// HandleBackdoorPaths handles POST /v1/causal/models/:id/backdoor-paths.
func (h *Handlers) HandleBackdoorPaths(c *gin.Context) {
	requestID := getOrCreateRequestID(c)
	logger := slog.With("request_id", requestID, "handler", "HandleBackdoorPaths")

	var req BackdoorPathsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Invalid request body", "error", err)
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: "Invalid request body",
			Code:  "INVALID_REQUEST",
		})
		return
	}

	stored, err := h.svc.GetModel(c.Param("id"))
	if err != nil {
		writeError(c, logger, err)
		return
	}

	ctx, span := tracer.Start(c.Request.Context(), "causal.backdoor_paths")
	defer span.End()
	start := time.Now()

	paths, err := stored.CGM.BackdoorPaths(req.Treatment, req.Outcome)
	h.recordQuery(ctx, "backdoor_paths", start, err)
	if err != nil {
		writeError(c, logger, err)
		return
	}

	c.JSON(http.StatusOK, BackdoorPathsResponse{Paths: paths})
}

// HandleEquivalence handles POST /v1/causal/models/:id/equivalence.
//
// Description:
//
//	Compares the stored model with either a second stored model
//	(other_id) or an inline spec (other) for Markov equivalence.
func (h *Handlers) HandleEquivalence(c *gin.Context) {
	requestID := getOrCreateRequestID(c)
	logger := slog.With("request_id", requestID, "handler", "HandleEquivalence")

	var req EquivalenceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Invalid request body", "error", err)
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: "Invalid request body",
			Code:  "INVALID_REQUEST",
		})
		return
	}
	if (req.OtherID == "") == (req.Other == nil) {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: "Exactly one of other_id and other must be set",
			Code:  "INVALID_REQUEST",
		})
		return
	}

	stored, err := h.svc.GetModel(c.Param("id"))
	if err != nil {
		writeError(c, logger, err)
		return
	}

	var other *model.CGM
	if req.OtherID != "" {
		otherStored, err := h.svc.GetModel(req.OtherID)
		if err != nil {
			writeError(c, logger, err)
			return
		}
		other = otherStored.CGM
	} else {
		other, err = req.Other.ToCGM()
		if err != nil {
			writeError(c, logger, err)
			return
		}
	}

	ctx, span := tracer.Start(c.Request.Context(), "causal.equivalence")
	defer span.End()
	start := time.Now()

	equivalent, err := stored.CGM.IsMarkovEquivalent(other)
	h.recordQuery(ctx, "equivalence", start, err)
	if err != nil {
		writeError(c, logger, err)
		return
	}

	c.JSON(http.StatusOK, EquivalenceResponse{Equivalent: equivalent})
}

// HandleMoralize handles GET /v1/causal/models/:id/moral.
func (h *Handlers) HandleMoralize(c *gin.Context) {
	requestID := getOrCreateRequestID(c)
	logger := slog.With("request_id", requestID, "handler", "HandleMoralize")

	stored, err := h.svc.GetModel(c.Param("id"))
	if err != nil {
		writeError(c, logger, err)
		return
	}

	moral, err := stored.CGM.Moralize()
	if err != nil {
		writeError(c, logger, err)
		return
	}

	resp := MoralizeResponse{Nodes: moral.Nodes()}
	for _, a := range moral.Nodes() {
		for _, b := range moral.Neighbors(a) {
			if a < b {
				resp.Edges = append(resp.Edges, EdgeSpec{From: a, To: b})
			}
		}
	}

	c.JSON(http.StatusOK, resp)
}

// HandleDistribution handles GET /v1/causal/models/:id/distribution.
func (h *Handlers) HandleDistribution(c *gin.Context) {
	requestID := getOrCreateRequestID(c)
	logger := slog.With("request_id", requestID, "handler", "HandleDistribution")

	stored, err := h.svc.GetModel(c.Param("id"))
	if err != nil {
		writeError(c, logger, err)
		return
	}

	c.JSON(http.StatusOK, DistributionResponse{
		Distribution: stored.CGM.DistributionString(),
	})
}

// HandleDOT handles GET /v1/causal/models/:id/dot.
func (h *Handlers) HandleDOT(c *gin.Context) {
	requestID := getOrCreateRequestID(c)
	logger := slog.With("request_id", requestID, "handler", "HandleDOT")

	stored, err := h.svc.GetModel(c.Param("id"))
	if err != nil {
		writeError(c, logger, err)
		return
	}

	c.JSON(http.StatusOK, DOTResponse{DOT: stored.CGM.DOT()})
}

// HandleSample handles POST /v1/causal/models/:id/sample.
//
// Description:
//
//	Draws rows from the stored structural model. With summary=true the
//	response carries per-column statistics instead of raw rows.
//
// Response:
//
//	200 OK: SampleResponse
//	400 Bad Request: Row limit exceeded, graph-only model
//	404 Not Found: Unknown model
func (h *Handlers) HandleSample(c *gin.Context) {
	requestID := getOrCreateRequestID(c)
	logger := slog.With("request_id", requestID, "handler", "HandleSample")

	var req SampleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Invalid request body", "error", err)
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: "Invalid request body",
			Code:  "INVALID_REQUEST",
		})
		return
	}

	stored, err := h.svc.GetModel(c.Param("id"))
	if err != nil {
		writeError(c, logger, err)
		return
	}

	structural, err := stored.RequireSCM()
	if err != nil {
		writeError(c, logger, err)
		return
	}

	rows, err := h.svc.ClampRows(req.Rows)
	if err != nil {
		writeError(c, logger, err)
		return
	}

	ctx, span := tracer.Start(c.Request.Context(), "causal.sample")
	defer span.End()
	start := time.Now()

	frame, err := structural.SampleN(req.Seed, rows)
	if h.metrics != nil {
		h.metrics.SamplesTotal.Add(ctx, int64(rows))
		h.metrics.SampleDuration.Record(ctx, time.Since(start).Seconds())
	}
	if err != nil {
		writeError(c, logger, err)
		return
	}

	logger.Info("Sampled model",
		"model_id", stored.ID,
		"rows", rows,
		"seed", req.Seed,
		"duration_ms", time.Since(start).Milliseconds())

	resp := SampleResponse{Columns: frame.Columns()}
	if req.Summary {
		resp.Summary = make(map[string]ColumnSummary, len(resp.Columns))
		for name, cs := range frame.Summary() {
			resp.Summary[name] = ColumnSummary{Mean: cs.Mean, StdDev: cs.StdDev}
		}
	} else {
		resp.Rows = make([][]float64, frame.Len())
		for i := 0; i < frame.Len(); i++ {
			row := frame.Row(i)
			values := make([]float64, len(resp.Columns))
			for j, name := range resp.Columns {
				values[j] = row[name]
			}
			resp.Rows[i] = values
		}
	}

	c.JSON(http.StatusOK, resp)
}

// HandleIntervene handles POST /v1/causal/models/:id/intervene.
//
// Description:
//
//	Applies do(interventions) to the stored structural model and
//	registers the mutilated model as a new registry entry.
//
// Response:
//
//	201 Created: ModelResponse for the new model
//	400 Bad Request: Unknown node, graph-only model
//	404 Not Found: Unknown model
//	409 Conflict: Registry full
func (h *Handlers) HandleIntervene(c *gin.Context) {
	requestID := getOrCreateRequestID(c)
	logger := slog.With("request_id", requestID, "handler", "HandleIntervene")

	var req InterveneRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Invalid request body", "error", err)
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: "Invalid request body",
			Code:  "INVALID_REQUEST",
		})
		return
	}

	stored, err := h.svc.GetModel(c.Param("id"))
	if err != nil {
		writeError(c, logger, err)
		return
	}

	structural, err := stored.RequireSCM()
	if err != nil {
		writeError(c, logger, err)
		return
	}

	ctx, span := tracer.Start(c.Request.Context(), "causal.intervene")
	defer span.End()
	start := time.Now()

	// Validate against the engine first; the spec rewrite below
	// assumes a well-formed intervention.
	if _, err := structural.Intervene(scm.Intervention(req.Interventions)); err != nil {
		h.recordQuery(ctx, "intervene", start, err)
		writeError(c, logger, err)
		return
	}

	name := req.Name
	if name == "" {
		name = stored.Name + "-do"
	}

	mutilated, err := h.svc.CreateModel(stored.Spec.Intervened(name, req.Interventions))
	h.recordQuery(ctx, "intervene", start, err)
	if err != nil {
		writeError(c, logger, err)
		return
	}

	logger.Info("Intervention applied",
		"model_id", stored.ID,
		"new_model_id", mutilated.ID,
		"interventions", len(req.Interventions))

	c.JSON(http.StatusCreated, modelResponse(mutilated))
}

// HandleCounterfactual handles POST /v1/causal/models/:id/counterfactual.
//
// Description:
//
//	Runs the abduction-action-prediction procedure on the stored
//	structural model.
//
// Response:
//
//	200 OK: CounterfactualResponse
//	400 Bad Request: Unknown node, graph-only model
//	404 Not Found: Unknown model
//	422 Unprocessable Entity: Incomplete observation or
//	    non-invertible mechanism
func (h *Handlers) HandleCounterfactual(c *gin.Context) {
	requestID := getOrCreateRequestID(c)
	logger := slog.With("request_id", requestID, "handler", "HandleCounterfactual")

	var req CounterfactualRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Invalid request body", "error", err)
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: "Invalid request body",
			Code:  "INVALID_REQUEST",
		})
		return
	}

	stored, err := h.svc.GetModel(c.Param("id"))
	if err != nil {
		writeError(c, logger, err)
		return
	}

	structural, err := stored.RequireSCM()
	if err != nil {
		writeError(c, logger, err)
		return
	}

	ctx, span := tracer.Start(c.Request.Context(), "causal.counterfactual")
	defer span.End()
	start := time.Now()

	result, err := structural.Counterfactual(
		scm.Assignment(req.Observed),
		scm.Intervention(req.Interventions),
	)
	if h.metrics != nil {
		status := "ok"
		if err != nil {
			status = "error"
		}
		h.metrics.CounterfactualsTotal.Add(ctx, 1,
			metric.WithAttributes(attribute.String("status", status)))
	}
	h.recordQuery(ctx, "counterfactual", start, err)
	if err != nil {
		writeError(c, logger, err)
		return
	}

	c.JSON(http.StatusOK, CounterfactualResponse{Result: map[string]float64(result)})
}

// HandleHealth handles GET /v1/causal/health.
func (h *Handlers) HandleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{
		Status:  "ok",
		Version: ServiceVersion,
		Models:  h.svc.ModelCount(),
	})
}

// getOrCreateRequestID gets or creates a request ID.
func getOrCreateRequestID(c *gin.Context) string {
	requestID := c.GetHeader("X-Request-ID")
	if requestID == "" {
		requestID = uuid.NewString()
	}
	c.Header("X-Request-ID", requestID)
	return requestID
}
