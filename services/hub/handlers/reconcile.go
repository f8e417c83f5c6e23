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
	"io"
	"log/slog"
	"net/http"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/condosense/CondoSenseHub/services/hub/observability"
	"github.com/condosense/CondoSenseHub/services/hub/reconcile"
)

// maxDocumentBytes bounds uploads before any processing happens.
// Gemini inline data tops out around 20MB, so there is no point
// accepting more.
const maxDocumentBytes = 20 << 20

// documentMimeTypes maps accepted upload extensions to the MIME type
// sent to the analysis gateway. Anything else is rejected with no
// state mutated.
var documentMimeTypes = map[string]string{
	".pdf": "application/pdf",
	".txt": "text/plain",
	".md":  "text/plain",
}

// reconcileInFlight serializes uploads: the engine's two-step persist
// is not reentrant, so a second upload while one is pending gets 409
// instead of racing.
var reconcileInFlight sync.Mutex

// AnalyzeDocument accepts a multipart document upload, runs one
// reconciliation cycle, and returns the new regulation set plus the
// update record when the gateway reported real changes. Any failure
// surfaces as a single error response with nothing persisted.
func AnalyzeDocument(engine *reconcile.Engine, hub *AlertHub) gin.HandlerFunc {
	return func(c *gin.Context) {
		fileHeader, err := c.FormFile("document")
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "missing 'document' file field"})
			return
		}

		mimeType, ok := documentMimeTypes[strings.ToLower(filepath.Ext(fileHeader.Filename))]
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": "unsupported document type; upload a PDF or text file"})
			return
		}
		if fileHeader.Size > maxDocumentBytes {
			c.JSON(http.StatusBadRequest, gin.H{"error": "document exceeds the 20MB limit"})
			return
		}

		if !reconcileInFlight.TryLock() {
			c.JSON(http.StatusConflict, gin.H{"error": "another document analysis is already in progress"})
			return
		}
		defer reconcileInFlight.Unlock()

		file, err := fileHeader.Open()
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "failed to open uploaded document"})
			return
		}
		defer file.Close()

		document, err := io.ReadAll(io.LimitReader(file, maxDocumentBytes+1))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read uploaded document"})
			return
		}
		if len(document) > maxDocumentBytes {
			c.JSON(http.StatusBadRequest, gin.H{"error": "document exceeds the 20MB limit"})
			return
		}

		start := time.Now()
		outcome, err := engine.Reconcile(c.Request.Context(), document, mimeType)
		observability.AnalysisDurationSeconds.Observe(time.Since(start).Seconds())
		if err != nil {
			observability.ReconciliationsTotal.WithLabelValues("error").Inc()
			slog.Error("Reconciliation failed", "filename", fileHeader.Filename, "error", err)
			c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
			return
		}

		observability.ReconciliationsTotal.WithLabelValues("success").Inc()
		observability.RegulationCount.Set(float64(len(outcome.Items)))
		if outcome.Update != nil {
			observability.RealUpdatesTotal.Inc()
			hub.Broadcast(*outcome.Update)
		}

		c.JSON(http.StatusOK, outcome)
	}
}
