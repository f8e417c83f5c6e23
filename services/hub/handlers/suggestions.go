// Copyright (C) 2025 CondoSense (dev@condosense.app)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/condosense/CondoSenseHub/services/hub/datatypes"
	"github.com/condosense/CondoSenseHub/services/hub/middleware"
	"github.com/condosense/CondoSenseHub/services/hub/observability"
	"github.com/condosense/CondoSenseHub/services/hub/suggestions"
)

type createSuggestionRequest struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
	Category    string `json:"category"`
}

type setStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// ListSuggestions returns all suggestions sorted by votes, with the
// caller's own-vote flag, plus the category ranking for admins.
func ListSuggestions(service *suggestions.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		resident := middleware.ResidentFrom(c)

		resp := gin.H{"suggestions": service.List(ctx, resident)}
		if middleware.RoleFrom(c) == datatypes.RoleAdmin {
			resp["ranking"] = service.CategoryRanking(ctx)
		}
		c.JSON(http.StatusOK, resp)
	}
}

// CreateSuggestion adds a new pending suggestion authored by the
// caller.
func CreateSuggestion(service *suggestions.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req createSuggestionRequest
		if err := c.BindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
			return
		}

		suggestion, err := service.Add(c.Request.Context(), middleware.ResidentFrom(c), req.Title, req.Description, req.Category)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusCreated, suggestion)
	}
}

// VoteSuggestion toggles the caller's vote on a suggestion.
func VoteSuggestion(service *suggestions.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		suggestion, err := service.Vote(c.Request.Context(), middleware.ResidentFrom(c), c.Param("id"))
		if errors.Is(err, suggestions.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "suggestion not found"})
			return
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		observability.SuggestionVotesTotal.Inc()
		c.JSON(http.StatusOK, suggestion)
	}
}

// SetSuggestionStatus moves a suggestion through its lifecycle.
// Admin-only (enforced by route middleware).
func SetSuggestionStatus(service *suggestions.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req setStatusRequest
		if err := c.BindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
			return
		}

		suggestion, err := service.SetStatus(c.Request.Context(), c.Param("id"), datatypes.SuggestionStatus(req.Status))
		if errors.Is(err, suggestions.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "suggestion not found"})
			return
		}
		if errors.Is(err, suggestions.ErrInvalidStatus) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, suggestion)
	}
}
