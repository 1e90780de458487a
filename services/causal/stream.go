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
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"golang.org/x/time/rate"
)

// streamBatchRate caps batch delivery per connection so one client
// cannot monopolize the sampler.
const streamBatchRate = 20

// defaultStreamBatch is the rows-per-batch default.
const defaultStreamBatch = 100

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
	ReadBufferSize:  4 * 1024,
	WriteBufferSize: 64 * 1024,
}

// StreamMessage is one websocket frame of the sample stream.
//
// The first frame carries only Columns; subsequent frames carry Rows
// with their Offset into the total draw; the final frame sets Done.
type StreamMessage struct {
	Columns []string    `json:"columns,omitempty"`
	Rows    [][]float64 `json:"rows,omitempty"`
	Offset  int         `json:"offset,omitempty"`
	Done    bool        `json:"done,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// HandleSampleStream handles GET /v1/causal/models/:id/sample/stream.
//
// Description:
//
//	Upgrades to a websocket and streams sample rows in batches. The
//	full draw is computed up front from the seed so the stream is
//	reproducible; batches are delivered through a rate limiter.
//
// Query Parameters:
//
//	rows: Total rows to draw (optional, default service default)
//	seed: Random seed (optional, default 0)
//	batch: Rows per frame (optional, default 100)
func (h *Handlers) HandleSampleStream(c *gin.Context) {
	requestID := getOrCreateRequestID(c)
	logger := slog.With("request_id", requestID, "handler", "HandleSampleStream")

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

	rows, err := h.svc.ClampRows(queryInt(c, "rows", 0))
	if err != nil {
		writeError(c, logger, err)
		return
	}
	seed := uint64(queryInt(c, "seed", 0))
	batch := queryInt(c, "batch", defaultStreamBatch)
	if batch <= 0 {
		batch = defaultStreamBatch
	}

	ws, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logger.Error("Failed to upgrade websocket", "error", err)
		return
	}
	defer ws.Close()

	logger.Info("Sample stream started",
		"model_id", stored.ID, "rows", rows, "seed", seed, "batch", batch)

	frame, err := structural.SampleN(seed, rows)
	if err != nil {
		_ = ws.WriteJSON(StreamMessage{Error: err.Error()})
		return
	}

	columns := frame.Columns()
	if err := ws.WriteJSON(StreamMessage{Columns: columns}); err != nil {
		logger.Info("Stream client disconnected", "error", err)
		return
	}

	limiter := rate.NewLimiter(rate.Limit(streamBatchRate), 1)
	ctx := c.Request.Context()

	for offset := 0; offset < frame.Len(); offset += batch {
		if err := limiter.Wait(ctx); err != nil {
			logger.Info("Stream cancelled", "error", err)
			return
		}

		end := offset + batch
		if end > frame.Len() {
			end = frame.Len()
		}

		batchRows := make([][]float64, 0, end-offset)
		for i := offset; i < end; i++ {
			row := frame.Row(i)
			values := make([]float64, len(columns))
			for j, name := range columns {
				values[j] = row[name]
			}
			batchRows = append(batchRows, values)
		}

		if err := ws.WriteJSON(StreamMessage{Rows: batchRows, Offset: offset}); err != nil {
			logger.Info("Stream client disconnected", "error", err)
			return
		}
	}

	if err := ws.WriteJSON(StreamMessage{Done: true}); err != nil {
		return
	}

	if h.metrics != nil {
		h.metrics.SamplesTotal.Add(ctx, int64(rows))
	}
	logger.Info("Sample stream complete", "model_id", stored.ID, "rows", rows)
}

// queryInt parses an integer query parameter with a default.
func queryInt(c *gin.Context, key string, fallback int) int {
	raw := c.Query(key)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return v
}
