// Copyright (C) 2025 CondoSense (dev@condosense.app)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package handlers contains the gin handlers for the hub's HTTP API.
package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/condosense/CondoSenseHub/services/hub/datatypes"
)

// RegulationReader is the read side of the store used by the listing
// and update handlers.
type RegulationReader interface {
	GetRegulations(ctx context.Context) []datatypes.RegulationItem
	GetUpdates(ctx context.Context) []datatypes.RegulationUpdate
	GetLatestUpdate(ctx context.Context) *datatypes.RegulationUpdate
}

// ListRegulations returns the active regulation set, optionally
// filtered by `category` (exact label) and `q` (free-text search over
// title, content, summary and tags).
func ListRegulations(store RegulationReader) gin.HandlerFunc {
	return func(c *gin.Context) {
		query := c.Query("q")
		category := c.Query("category")

		items := store.GetRegulations(c.Request.Context())
		filtered := make([]datatypes.RegulationItem, 0, len(items))
		for _, item := range items {
			if category != "" && string(item.Category) != category {
				continue
			}
			if !item.Matches(query) {
				continue
			}
			filtered = append(filtered, item)
		}

		c.JSON(http.StatusOK, gin.H{
			"regulations": filtered,
			"total":       len(filtered),
		})
	}
}

// ListCategories returns the fixed category set, for sidebar rendering.
func ListCategories() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"categories": datatypes.AllCategories()})
	}
}
