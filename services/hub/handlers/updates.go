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
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/condosense/CondoSenseHub/services/hub/alerts"
	"github.com/condosense/CondoSenseHub/services/hub/middleware"
)

// ListUpdates returns the full update history, most recent first.
func ListUpdates(store RegulationReader) gin.HandlerFunc {
	return func(c *gin.Context) {
		updates := store.GetUpdates(c.Request.Context())
		c.JSON(http.StatusOK, gin.H{"updates": updates})
	}
}

// GetLatestUpdate returns the most recent update record, or 404 when
// no update has ever been recorded.
func GetLatestUpdate(store RegulationReader) gin.HandlerFunc {
	return func(c *gin.Context) {
		latest := store.GetLatestUpdate(c.Request.Context())
		if latest == nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "no updates recorded"})
			return
		}
		c.JSON(http.StatusOK, latest)
	}
}

// GetAlert reports whether the caller must be shown the regulation
// change alert, and for which update.
func GetAlert(store RegulationReader, tracker *alerts.Tracker) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		latest := store.GetLatestUpdate(ctx)
		show := tracker.ShouldAlert(ctx, middleware.RoleFrom(c), middleware.ResidentFrom(c), latest)

		resp := gin.H{"alert": show}
		if show {
			resp["update"] = latest
		}
		c.JSON(http.StatusOK, resp)
	}
}

// AcknowledgeUpdate records that the caller has seen the given
// version. Idempotent.
func AcknowledgeUpdate(tracker *alerts.Tracker) gin.HandlerFunc {
	return func(c *gin.Context) {
		version := c.Param("version")
		if version == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "missing version"})
			return
		}
		if err := tracker.Acknowledge(c.Request.Context(), middleware.ResidentFrom(c), version); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to record acknowledgement"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"acknowledged": version})
	}
}
