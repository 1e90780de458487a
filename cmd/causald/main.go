// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Command causald starts the causal model API server.
//
// The server keeps a registry of causal models (graphs and structural
// causal models) and answers graph queries, sampling requests, and
// counterfactuals over HTTP:
//   - Model registry with optional hot-reloaded YAML model directory
//   - d-separation, implied independencies, Markov equivalence
//   - Backdoor paths and minimal adjustment sets
//   - SCM sampling (batch and websocket streaming), interventions,
//     counterfactuals
//
// Usage:
//
//	go run ./cmd/causald
//	go run ./cmd/causald -port 8095 -model-dir ./models
//
// Example requests:
//
//	# Health check
//	curl http://localhost:8095/v1/causal/health
//
//	# Register a model
//	curl -X POST http://localhost:8095/v1/causal/models \
//	  --data-binary @models/chain.yaml
//
//	# Adjustment sets
//	curl -X POST http://localhost:8095/v1/causal/models/<id>/adjustment-sets \
//	  -H "Content-Type: application/json" \
//	  -d '{"treatment": "x", "outcome": "y"}'
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel"

	"github.com/AleutianAI/CausalFOSS/pkg/logging"
	"github.com/AleutianAI/CausalFOSS/services/causal"
	"github.com/AleutianAI/CausalFOSS/services/causal/telemetry"
)

func main() {
	port := flag.Int("port", 8095, "Port to listen on")
	modelDir := flag.String("model-dir", "", "Directory of YAML model files to load and watch")
	maxModels := flag.Int("max-models", 0, "Maximum registered models (0 = default)")
	logDir := flag.String("log-dir", "", "Directory for JSON log files (in addition to stderr)")
	debug := flag.Bool("debug", false, "Enable debug mode")
	flag.Parse()

	// Set Gin mode
	if *debug {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	logLevel := logging.LevelInfo
	if *debug {
		logLevel = logging.LevelDebug
	}
	logger := logging.New(logging.Config{
		Level:   logLevel,
		LogDir:  *logDir,
		Service: "causald",
	})
	defer logger.Close()
	slog.SetDefault(logger.Slog())

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Telemetry first so everything below is instrumented
	shutdown, err := telemetry.Init(ctx, telemetry.DefaultConfig())
	if err != nil {
		slog.Error("Failed to initialize telemetry", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			slog.Warn("Telemetry shutdown failed", slog.String("error", err.Error()))
		}
	}()

	// Create service with default config
	cfg := causal.DefaultServiceConfig()
	if *maxModels > 0 {
		cfg.MaxModels = *maxModels
	}
	svc := causal.NewService(cfg)

	meter := otel.Meter("services/causal")
	metrics, err := telemetry.NewMetrics(meter)
	if err != nil {
		slog.Error("Failed to create metrics", slog.String("error", err.Error()))
		os.Exit(1)
	}
	registration, err := metrics.RegisterModelsActive(meter,
		func() int64 { return int64(svc.ModelCount()) })
	if err != nil {
		slog.Error("Failed to register models gauge", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer registration.Unregister()

	// Optional hot-reloaded model directory
	if *modelDir != "" {
		watcher, err := causal.NewModelWatcher(*modelDir, svc, nil)
		if err != nil {
			slog.Error("Failed to create model watcher", slog.String("error", err.Error()))
			os.Exit(1)
		}
		if err := watcher.Start(ctx); err != nil {
			slog.Error("Failed to start model watcher",
				slog.String("dir", *modelDir), slog.String("error", err.Error()))
			os.Exit(1)
		}
		defer watcher.Stop()
	}

	// Setup router
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(otelgin.Middleware("causal"))
	if *debug {
		router.Use(gin.Logger())
	}

	// Register routes under /v1/causal
	v1 := router.Group("/v1")
	causal.RegisterRoutes(v1, causal.NewHandlers(svc).WithMetrics(metrics))

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(telemetry.MetricsHandler()))

	addr := fmt.Sprintf(":%d", *port)
	server := &http.Server{Addr: addr, Handler: router}

	go func() {
		slog.Info("Starting causal server",
			slog.String("address", addr),
			slog.String("version", causal.ServiceVersion),
			slog.String("model_dir", *modelDir))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Failed to start server", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}()

	// Handle graceful shutdown
	<-ctx.Done()
	slog.Info("Shutting down causal server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("Server shutdown failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
