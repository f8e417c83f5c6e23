// Copyright (C) 2025 CondoSense (dev@condosense.app)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/condosense/CondoSenseHub/services/hub/alerts"
	"github.com/condosense/CondoSenseHub/services/hub/handlers"
	"github.com/condosense/CondoSenseHub/services/hub/middleware"
	"github.com/condosense/CondoSenseHub/services/hub/reconcile"
	"github.com/condosense/CondoSenseHub/services/hub/store"
	"github.com/condosense/CondoSenseHub/services/hub/suggestions"
)

// SetupRoutes wires the hub's HTTP surface.
func SetupRoutes(router *gin.Engine, st *store.Store, engine *reconcile.Engine,
	tracker *alerts.Tracker, suggestionService *suggestions.Service, alertHub *handlers.AlertHub) {

	router.GET("/health", handlers.HealthCheck)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// API version 1 group
	v1 := router.Group("/v1")
	v1.Use(middleware.Identity())
	{
		regulations := v1.Group("/regulations")
		{
			regulations.GET("", handlers.ListRegulations(st))
			regulations.GET("/categories", handlers.ListCategories())
			regulations.POST("/analyze", middleware.RequireAdmin(), handlers.AnalyzeDocument(engine, alertHub))
		}

		updates := v1.Group("/updates")
		{
			updates.GET("", handlers.ListUpdates(st))
			updates.GET("/latest", handlers.GetLatestUpdate(st))
			updates.GET("/alert", handlers.GetAlert(st, tracker))
			updates.GET("/ws", handlers.HandleUpdatesWebSocket(alertHub))
			updates.POST("/:version/ack", handlers.AcknowledgeUpdate(tracker))
		}

		suggestionRoutes := v1.Group("/suggestions")
		{
			suggestionRoutes.GET("", handlers.ListSuggestions(suggestionService))
			suggestionRoutes.POST("", handlers.CreateSuggestion(suggestionService))
			suggestionRoutes.POST("/:id/vote", handlers.VoteSuggestion(suggestionService))
			suggestionRoutes.PATCH("/:id/status", middleware.RequireAdmin(), handlers.SetSuggestionStatus(suggestionService))
		}
	}
}
