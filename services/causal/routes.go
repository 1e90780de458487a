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
	"github.com/gin-gonic/gin"
)

// RegisterRoutes registers all causal service routes with the router.
//
// Description:
//
//	Registers all /v1/causal/* endpoints with the given Gin router
//	group. The router group should already have any required
//	middleware applied.
//
// Inputs:
//
//	rg - Gin router group (typically /v1)
//	handlers - The handlers instance
//
// Endpoints:
//
//	POST   /v1/causal/models - Register a model (YAML or JSON spec)
//	GET    /v1/causal/models - List registered models
//	GET    /v1/causal/models/:id - Get a model
//	DELETE /v1/causal/models/:id - Delete a model
//	POST   /v1/causal/models/:id/dsep - d-separation query
//	GET    /v1/causal/models/:id/independencies - Implied independencies
//	POST   /v1/causal/models/:id/adjustment-sets - Enumerate adjustment sets
//	POST   /v1/causal/models/:id/adjustment-sets/check - Check a candidate set
//	POST   /v1/causal/models/:id/backdoor-paths - List backdoor paths
//	POST   /v1/causal/models/:id/equivalence - Markov equivalence
//	GET    /v1/causal/models/:id/moral - Moral graph
//	GET    /v1/causal/models/:id/distribution - Factorized distribution string
//	GET    /v1/causal/models/:id/dot - Graphviz DOT rendering
//	POST   /v1/causal/models/:id/sample - Draw sample rows
//	GET    /v1/causal/models/:id/sample/stream - Websocket sample stream
//	POST   /v1/causal/models/:id/intervene - Register the mutilated model
//	POST   /v1/causal/models/:id/counterfactual - Counterfactual query
//	GET    /v1/causal/health - Health check
//
// Example:
//
//	service := causal.NewService(causal.DefaultServiceConfig())
//	handlers := causal.NewHandlers(service)
//
//	v1 := router.Group("/v1")
//	causal.RegisterRoutes(v1, handlers)
func RegisterRoutes(rg *gin.RouterGroup, handlers *Handlers) {
	root := rg.Group("/causal")
	{
		// Model registry
		root.POST("/models", handlers.HandleCreateModel)
		root.GET("/models", handlers.HandleListModels)
		root.GET("/models/:id", handlers.HandleGetModel)
		root.DELETE("/models/:id", handlers.HandleDeleteModel)

		// Graph queries
		root.POST("/models/:id/dsep", handlers.HandleDSep)
		root.GET("/models/:id/independencies", handlers.HandleIndependencies)
		root.POST("/models/:id/adjustment-sets", handlers.HandleAdjustmentSets)
		root.POST("/models/:id/adjustment-sets/check", handlers.HandleCheckAdjustment)
		root.POST("/models/:id/backdoor-paths", handlers.HandleBackdoorPaths)
		root.POST("/models/:id/equivalence", handlers.HandleEquivalence)
		root.GET("/models/:id/moral", handlers.HandleMoralize)
		root.GET("/models/:id/distribution", handlers.HandleDistribution)
		root.GET("/models/:id/dot", handlers.HandleDOT)

		// SCM operations
		root.POST("/models/:id/sample", handlers.HandleSample)
		root.GET("/models/:id/sample/stream", handlers.HandleSampleStream)
		root.POST("/models/:id/intervene", handlers.HandleIntervene)
		root.POST("/models/:id/counterfactual", handlers.HandleCounterfactual)

		// Health check
		root.GET("/health", handlers.HandleHealth)
	}
}
