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
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel"

	"github.com/AleutianAI/CausalFOSS/cmd/causal/config"
	"github.com/AleutianAI/CausalFOSS/services/causal"
	"github.com/AleutianAI/CausalFOSS/services/causal/telemetry"
)

// runServe runs the causal HTTP service in the foreground.
//
// # Description
//
// Embedded version of the causald daemon: telemetry, gin engine with
// otelgin middleware, the /v1/causal API, /metrics, /healthz, and an
// optional model-directory watcher. Shuts down gracefully on SIGINT
// or SIGTERM.
func runServe(cmd *cobra.Command, args []string) error {
	addr := serveAddr
	if addr == "" {
		addr = config.Global.Server.Addr
	}
	modelDir := serveModelDir
	if modelDir == "" {
		modelDir = config.Global.Server.ModelDir
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdown, err := telemetry.Init(ctx, telemetry.DefaultConfig())
	if err != nil {
		return err
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			slog.Warn("Telemetry shutdown failed", "error", err)
		}
	}()

	svc := causal.NewService(causal.DefaultServiceConfig())

	metrics, err := telemetry.NewMetrics(otel.Meter("services/causal"))
	if err != nil {
		return err
	}
	registration, err := metrics.RegisterModelsActive(otel.Meter("services/causal"),
		func() int64 { return int64(svc.ModelCount()) })
	if err != nil {
		return err
	}
	defer registration.Unregister()

	if modelDir != "" {
		watcher, err := causal.NewModelWatcher(modelDir, svc, nil)
		if err != nil {
			return err
		}
		if err := watcher.Start(ctx); err != nil {
			return err
		}
		defer watcher.Stop()
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(otelgin.Middleware("causal"))
	v1 := router.Group("/v1")
	causal.RegisterRoutes(v1, causal.NewHandlers(svc).WithMetrics(metrics))
	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(telemetry.MetricsHandler()))

	server := &http.Server{Addr: addr, Handler: router}

	go func() {
		slog.Info("Causal service listening", "addr", addr, "model_dir", modelDir)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Server failed", "error", err)
			os.Exit(ExitError)
		}
	}()

	<-ctx.Done()
	slog.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
