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
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/condosense/CondoSenseHub/services/hub/alerts"
	"github.com/condosense/CondoSenseHub/services/hub/analysis"
	"github.com/condosense/CondoSenseHub/services/hub/handlers"
	"github.com/condosense/CondoSenseHub/services/hub/reconcile"
	"github.com/condosense/CondoSenseHub/services/hub/storage/badger"
	"github.com/condosense/CondoSenseHub/services/hub/store"
	"github.com/condosense/CondoSenseHub/services/hub/suggestions"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type noopAnalyzer struct{}

func (noopAnalyzer) Analyze(ctx context.Context, document []byte, mimeType string, current []analysis.RuleContext) (*analysis.Result, error) {
	return &analysis.Result{}, nil
}

// Smoke test: the full wiring answers on every read route.
func TestSetupRoutes(t *testing.T) {
	db, err := badger.OpenInMemory()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	st := store.New(db, nil)
	engine := reconcile.New(st, noopAnalyzer{}, nil)

	router := gin.New()
	SetupRoutes(router, st, engine, alerts.New(st), suggestions.New(st, nil), handlers.NewAlertHub())

	routes := []struct {
		method string
		path   string
		status int
	}{
		{"GET", "/health", http.StatusOK},
		{"GET", "/metrics", http.StatusOK},
		{"GET", "/v1/regulations", http.StatusOK},
		{"GET", "/v1/regulations/categories", http.StatusOK},
		{"GET", "/v1/updates", http.StatusOK},
		{"GET", "/v1/updates/latest", http.StatusNotFound},
		{"GET", "/v1/updates/alert", http.StatusOK},
		{"GET", "/v1/suggestions", http.StatusOK},
		{"POST", "/v1/regulations/analyze", http.StatusForbidden},
		{"PATCH", "/v1/suggestions/x/status", http.StatusForbidden},
	}

	for _, tc := range routes {
		req, _ := http.NewRequest(tc.method, tc.path, nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		require.Equal(t, tc.status, w.Code, "%s %s", tc.method, tc.path)
	}
}
