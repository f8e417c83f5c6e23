// Copyright (C) 2025 CondoSense (dev@condosense.app)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/condosense/CondoSenseHub/services/hub/datatypes"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func identityProbe() (*gin.Engine, *datatypes.UserRole, *string) {
	var role datatypes.UserRole
	var resident string

	router := gin.New()
	router.Use(Identity())
	router.GET("/probe", func(c *gin.Context) {
		role = RoleFrom(c)
		resident = ResidentFrom(c)
		c.Status(http.StatusOK)
	})
	return router, &role, &resident
}

func TestIdentity(t *testing.T) {
	t.Run("no headers means anonymous local resident", func(t *testing.T) {
		router, role, resident := identityProbe()
		req, _ := http.NewRequest("GET", "/probe", nil)
		router.ServeHTTP(httptest.NewRecorder(), req)

		if *role != datatypes.RoleResident {
			t.Errorf("expected resident role, got %q", *role)
		}
		if *resident != "local-resident" {
			t.Errorf("expected local-resident, got %q", *resident)
		}
	})

	t.Run("headers resolve role and resident", func(t *testing.T) {
		router, role, resident := identityProbe()
		req, _ := http.NewRequest("GET", "/probe", nil)
		req.Header.Set(HeaderRole, "admin")
		req.Header.Set(HeaderResident, "apt-101")
		router.ServeHTTP(httptest.NewRecorder(), req)

		if *role != datatypes.RoleAdmin {
			t.Errorf("expected admin role, got %q", *role)
		}
		if *resident != "apt-101" {
			t.Errorf("expected apt-101, got %q", *resident)
		}
	})

	t.Run("unknown roles clamp to resident", func(t *testing.T) {
		router, role, _ := identityProbe()
		req, _ := http.NewRequest("GET", "/probe", nil)
		req.Header.Set(HeaderRole, "superuser")
		router.ServeHTTP(httptest.NewRecorder(), req)

		if *role != datatypes.RoleResident {
			t.Errorf("expected resident role, got %q", *role)
		}
	})
}

func TestRequireAdmin(t *testing.T) {
	router := gin.New()
	router.Use(Identity())
	router.POST("/admin-only", RequireAdmin(), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	t.Run("forbids residents", func(t *testing.T) {
		req, _ := http.NewRequest("POST", "/admin-only", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		if w.Code != http.StatusForbidden {
			t.Errorf("expected 403, got %d", w.Code)
		}
	})

	t.Run("admits the admin", func(t *testing.T) {
		req, _ := http.NewRequest("POST", "/admin-only", nil)
		req.Header.Set(HeaderRole, "admin")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		if w.Code != http.StatusOK {
			t.Errorf("expected 200, got %d", w.Code)
		}
	})
}
