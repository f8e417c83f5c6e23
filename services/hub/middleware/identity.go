// Copyright (C) 2025 CondoSense (dev@condosense.app)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package middleware provides HTTP middleware for the hub service.
//
// The hub trusts the reverse proxy (or the local deployment) for
// authentication: identity arrives as plain headers. Login/session
// handling is explicitly out of scope; a request without headers is
// treated as an anonymous local resident, which keeps the hub usable
// with zero infrastructure, mirroring the single-building deployment
// it is built for.
package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/condosense/CondoSenseHub/services/hub/datatypes"
)

const (
	// HeaderRole carries the caller's role: "admin" or "morador".
	HeaderRole = "X-Condo-Role"

	// HeaderResident carries the caller's resident identifier. The
	// acknowledgement marker and suggestion votes are keyed by it.
	HeaderResident = "X-Resident-Id"

	roleKey     = "condosense_role"
	residentKey = "condosense_resident"

	defaultResident = "local-resident"
)

// Identity resolves the caller's role and resident id from headers
// and stores them in the gin context for downstream handlers.
func Identity() gin.HandlerFunc {
	return func(c *gin.Context) {
		role := datatypes.ParseRole(strings.TrimSpace(c.GetHeader(HeaderRole)))

		resident := strings.TrimSpace(c.GetHeader(HeaderResident))
		if resident == "" {
			resident = defaultResident
		}

		c.Set(roleKey, role)
		c.Set(residentKey, resident)
		c.Next()
	}
}

// RoleFrom returns the caller's role resolved by Identity.
func RoleFrom(c *gin.Context) datatypes.UserRole {
	if v, ok := c.Get(roleKey); ok {
		if role, ok := v.(datatypes.UserRole); ok {
			return role
		}
	}
	return datatypes.RoleResident
}

// ResidentFrom returns the caller's resident id resolved by Identity.
func ResidentFrom(c *gin.Context) string {
	if v, ok := c.Get(residentKey); ok {
		if resident, ok := v.(string); ok && resident != "" {
			return resident
		}
	}
	return defaultResident
}

// RequireAdmin aborts with 403 unless the caller is the administrator.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if RoleFrom(c) != datatypes.RoleAdmin {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "administrator role required"})
			return
		}
		c.Next()
	}
}
