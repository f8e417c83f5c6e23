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
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/condosense/CondoSenseHub/services/hub/alerts"
	"github.com/condosense/CondoSenseHub/services/hub/analysis"
	"github.com/condosense/CondoSenseHub/services/hub/datatypes"
	"github.com/condosense/CondoSenseHub/services/hub/middleware"
	"github.com/condosense/CondoSenseHub/services/hub/reconcile"
	"github.com/condosense/CondoSenseHub/services/hub/storage/badger"
	"github.com/condosense/CondoSenseHub/services/hub/store"
	"github.com/condosense/CondoSenseHub/services/hub/suggestions"
)

func init() {
	// Set Gin to test mode to reduce noise
	gin.SetMode(gin.TestMode)
}

// stubAnalyzer satisfies the analysis gateway with a canned result.
type stubAnalyzer struct {
	result *analysis.Result
	err    error
}

func (s *stubAnalyzer) Analyze(ctx context.Context, document []byte, mimeType string, current []analysis.RuleContext) (*analysis.Result, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.result, nil
}

type testEnv struct {
	router *gin.Engine
	store  *store.Store
	hub    *AlertHub
}

func setupTestEnv(t *testing.T, analyzer analysis.Analyzer) *testEnv {
	t.Helper()

	db, err := badger.OpenInMemory()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	st := store.New(db, nil)
	engine := reconcile.New(st, analyzer, nil)
	tracker := alerts.New(st)
	suggestionService := suggestions.New(st, nil)
	alertHub := NewAlertHub()

	router := gin.New()
	router.GET("/health", HealthCheck)

	v1 := router.Group("/v1")
	v1.Use(middleware.Identity())
	v1.GET("/regulations", ListRegulations(st))
	v1.GET("/regulations/categories", ListCategories())
	v1.POST("/regulations/analyze", middleware.RequireAdmin(), AnalyzeDocument(engine, alertHub))
	v1.GET("/updates", ListUpdates(st))
	v1.GET("/updates/latest", GetLatestUpdate(st))
	v1.GET("/updates/alert", GetAlert(st, tracker))
	v1.POST("/updates/:version/ack", AcknowledgeUpdate(tracker))
	v1.GET("/suggestions", ListSuggestions(suggestionService))
	v1.POST("/suggestions", CreateSuggestion(suggestionService))
	v1.POST("/suggestions/:id/vote", VoteSuggestion(suggestionService))
	v1.PATCH("/suggestions/:id/status", middleware.RequireAdmin(), SetSuggestionStatus(suggestionService))

	return &testEnv{router: router, store: st, hub: alertHub}
}

func (e *testEnv) request(t *testing.T, method, path string, body []byte, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	} else {
		reader = bytes.NewReader(nil)
	}
	req, err := http.NewRequest(method, path, reader)
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func adminHeaders() map[string]string {
	return map[string]string{middleware.HeaderRole: "admin", middleware.HeaderResident: "syndic"}
}

func residentHeaders(id string) map[string]string {
	return map[string]string{middleware.HeaderResident: id}
}

func TestHealthCheck(t *testing.T) {
	env := setupTestEnv(t, &stubAnalyzer{})
	w := env.request(t, "GET", "/health", nil, nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestListRegulations(t *testing.T) {
	env := setupTestEnv(t, &stubAnalyzer{})
	ctx := context.Background()

	items := []datatypes.RegulationItem{
		{ID: "r1", Title: "Horário de Silêncio", Category: datatypes.CategoryNoise, Content: "Sem ruídos após 22h.", Tags: []string{"barulho"}},
		{ID: "r2", Title: "Animais nas áreas comuns", Category: datatypes.CategoryPets, Content: "Sempre na guia.", Tags: []string{}},
	}
	require.NoError(t, env.store.SaveRegulations(ctx, items, nil))

	decode := func(w *httptest.ResponseRecorder) (out struct {
		Regulations []datatypes.RegulationItem `json:"regulations"`
		Total       int                        `json:"total"`
	}) {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
		return out
	}

	t.Run("returns everything without filters", func(t *testing.T) {
		w := env.request(t, "GET", "/v1/regulations", nil, nil)
		require.Equal(t, http.StatusOK, w.Code)
		body := decode(w)
		assert.Equal(t, 2, body.Total)
	})

	t.Run("filters by category label", func(t *testing.T) {
		w := env.request(t, "GET", "/v1/regulations?category=Animais+de+Estima%C3%A7%C3%A3o", nil, nil)
		require.Equal(t, http.StatusOK, w.Code)
		body := decode(w)
		require.Equal(t, 1, body.Total)
		assert.Equal(t, "r2", body.Regulations[0].ID)
	})

	t.Run("filters by free-text query", func(t *testing.T) {
		w := env.request(t, "GET", "/v1/regulations?q=barulho", nil, nil)
		require.Equal(t, http.StatusOK, w.Code)
		body := decode(w)
		require.Equal(t, 1, body.Total)
		assert.Equal(t, "r1", body.Regulations[0].ID)
	})

	t.Run("filters compose", func(t *testing.T) {
		w := env.request(t, "GET", "/v1/regulations?q=barulho&category=Animais+de+Estima%C3%A7%C3%A3o", nil, nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, 0, decode(w).Total)
	})
}

func TestListCategories(t *testing.T) {
	env := setupTestEnv(t, &stubAnalyzer{})
	w := env.request(t, "GET", "/v1/regulations/categories", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Categories []string `json:"categories"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Len(t, body.Categories, 10)
	assert.Equal(t, "Geral", body.Categories[0])
}

func TestGetLatestUpdate_NoneRecorded(t *testing.T) {
	env := setupTestEnv(t, &stubAnalyzer{})
	w := env.request(t, "GET", "/v1/updates/latest", nil, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func multipartDocument(t *testing.T, filename, content string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("document", filename)
	require.NoError(t, err)
	_, err = part.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, writer.Close())
	return &buf, writer.FormDataContentType()
}

func TestAnalyzeDocument(t *testing.T) {
	result := &analysis.Result{
		Regulations: []analysis.ExtractedRule{{
			Title: "Silêncio", Category: "Silêncio e Ruídos", Content: "Sem ruídos após 22h.",
			Summary: "s", Explanation: "e", Importance: "alta", Tags: []string{},
		}},
		UpdateSummary: analysis.UpdateSummary{
			Reason:  "primeira versão",
			Changes: []analysis.ChangeEntry{{Type: "added", ItemTitle: "Silêncio", Description: "nova"}},
		},
	}

	t.Run("requires the admin role", func(t *testing.T) {
		env := setupTestEnv(t, &stubAnalyzer{result: result})
		buf, contentType := multipartDocument(t, "regimento.txt", "texto")

		req, _ := http.NewRequest("POST", "/v1/regulations/analyze", buf)
		req.Header.Set("Content-Type", contentType)
		req.Header.Set(middleware.HeaderResident, "apt-101")
		w := httptest.NewRecorder()
		env.router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("rejects unsupported extensions", func(t *testing.T) {
		env := setupTestEnv(t, &stubAnalyzer{result: result})
		buf, contentType := multipartDocument(t, "regimento.docx", "texto")

		req, _ := http.NewRequest("POST", "/v1/regulations/analyze", buf)
		req.Header.Set("Content-Type", contentType)
		req.Header.Set(middleware.HeaderRole, "admin")
		w := httptest.NewRecorder()
		env.router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("rejects a missing file field", func(t *testing.T) {
		env := setupTestEnv(t, &stubAnalyzer{result: result})
		w := env.request(t, "POST", "/v1/regulations/analyze", []byte("{}"), adminHeaders())
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("persists the outcome and reports the update", func(t *testing.T) {
		env := setupTestEnv(t, &stubAnalyzer{result: result})
		buf, contentType := multipartDocument(t, "regimento.txt", "texto do regimento")

		req, _ := http.NewRequest("POST", "/v1/regulations/analyze", buf)
		req.Header.Set("Content-Type", contentType)
		req.Header.Set(middleware.HeaderRole, "admin")
		w := httptest.NewRecorder()
		env.router.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var outcome reconcile.Outcome
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &outcome))
		require.Len(t, outcome.Items, 1)
		require.NotNil(t, outcome.Update)

		stored := env.store.GetRegulations(context.Background())
		require.Len(t, stored, 1)
		assert.Equal(t, outcome.Items[0].ID, stored[0].ID)
		assert.Len(t, env.store.GetUpdates(context.Background()), 1)
	})

	t.Run("gateway failure surfaces as 502 with nothing persisted", func(t *testing.T) {
		env := setupTestEnv(t, &stubAnalyzer{err: errors.New("backend down")})
		buf, contentType := multipartDocument(t, "regimento.txt", "texto")

		req, _ := http.NewRequest("POST", "/v1/regulations/analyze", buf)
		req.Header.Set("Content-Type", contentType)
		req.Header.Set(middleware.HeaderRole, "admin")
		w := httptest.NewRecorder()
		env.router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadGateway, w.Code)
		assert.Empty(t, env.store.GetRegulations(context.Background()))
	})
}

func TestAlertFlow(t *testing.T) {
	env := setupTestEnv(t, &stubAnalyzer{})
	ctx := context.Background()

	update := datatypes.RegulationUpdate{Version: "v-100", Date: "01/08/2026", Reason: "mudanças"}
	require.NoError(t, env.store.SaveRegulations(ctx, nil, &update))

	decode := func(w *httptest.ResponseRecorder) (out struct {
		Alert  bool                        `json:"alert"`
		Update *datatypes.RegulationUpdate `json:"update"`
	}) {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
		return out
	}

	t.Run("resident sees the alert with the update attached", func(t *testing.T) {
		w := env.request(t, "GET", "/v1/updates/alert", nil, residentHeaders("apt-101"))
		require.Equal(t, http.StatusOK, w.Code)
		body := decode(w)
		assert.True(t, body.Alert)
		require.NotNil(t, body.Update)
		assert.Equal(t, "v-100", body.Update.Version)
	})

	t.Run("admin never sees the alert", func(t *testing.T) {
		w := env.request(t, "GET", "/v1/updates/alert", nil, adminHeaders())
		require.Equal(t, http.StatusOK, w.Code)
		assert.False(t, decode(w).Alert)
	})

	t.Run("acknowledgement clears the alert for that resident only", func(t *testing.T) {
		w := env.request(t, "POST", "/v1/updates/v-100/ack", nil, residentHeaders("apt-101"))
		require.Equal(t, http.StatusOK, w.Code)

		w = env.request(t, "GET", "/v1/updates/alert", nil, residentHeaders("apt-101"))
		assert.False(t, decode(w).Alert)

		w = env.request(t, "GET", "/v1/updates/alert", nil, residentHeaders("apt-302"))
		assert.True(t, decode(w).Alert)
	})
}

func TestSuggestionEndpoints(t *testing.T) {
	env := setupTestEnv(t, &stubAnalyzer{})

	t.Run("create requires a title", func(t *testing.T) {
		w := env.request(t, "POST", "/v1/suggestions", []byte(`{"description":"sem título"}`), residentHeaders("apt-101"))
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	created := datatypes.Suggestion{}
	t.Run("create returns the stored suggestion", func(t *testing.T) {
		payload := []byte(`{"title":"Bicicletário coberto","description":"Cobertura.","category":"Áreas Comuns e Lazer"}`)
		w := env.request(t, "POST", "/v1/suggestions", payload, residentHeaders("apt-101"))
		require.Equal(t, http.StatusCreated, w.Code)
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
		assert.Equal(t, "apt-101", created.Author)
		assert.Equal(t, datatypes.StatusPending, created.Status)
	})

	t.Run("vote toggles and unknown ids are 404", func(t *testing.T) {
		w := env.request(t, "POST", "/v1/suggestions/"+created.ID+"/vote", nil, residentHeaders("apt-302"))
		require.Equal(t, http.StatusOK, w.Code)

		var voted datatypes.Suggestion
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &voted))
		assert.Equal(t, 1, voted.Votes)

		w = env.request(t, "POST", "/v1/suggestions/missing/vote", nil, residentHeaders("apt-302"))
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("status change is admin-only", func(t *testing.T) {
		payload := []byte(`{"status":"Planejado"}`)
		w := env.request(t, "PATCH", "/v1/suggestions/"+created.ID+"/status", payload, residentHeaders("apt-101"))
		assert.Equal(t, http.StatusForbidden, w.Code)

		w = env.request(t, "PATCH", "/v1/suggestions/"+created.ID+"/status", payload, adminHeaders())
		require.Equal(t, http.StatusOK, w.Code)

		var updated datatypes.Suggestion
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &updated))
		assert.Equal(t, datatypes.StatusPlanned, updated.Status)
	})

	t.Run("invalid status is a client error", func(t *testing.T) {
		w := env.request(t, "PATCH", "/v1/suggestions/"+created.ID+"/status", []byte(`{"status":"Rejeitado"}`), adminHeaders())
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("admin listing includes the category ranking", func(t *testing.T) {
		w := env.request(t, "GET", "/v1/suggestions", nil, adminHeaders())
		require.Equal(t, http.StatusOK, w.Code)

		var body map[string]json.RawMessage
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Contains(t, body, "ranking")

		w = env.request(t, "GET", "/v1/suggestions", nil, residentHeaders("apt-101"))
		require.Equal(t, http.StatusOK, w.Code)
		body = map[string]json.RawMessage{}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.NotContains(t, body, "ranking")
	})
}
