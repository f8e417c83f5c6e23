// Copyright (C) 2025 CondoSense (dev@condosense.app)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package alerts decides whether a resident must be shown the
// "regulations changed" alert, backed by a per-resident
// acknowledgement marker in the store.
package alerts

import (
	"context"

	"github.com/condosense/CondoSenseHub/services/hub/datatypes"
)

// Store is the slice of the persistence layer the tracker needs.
type Store interface {
	IsVersionAcknowledged(ctx context.Context, residentID, versionID string) bool
	AcknowledgeVersion(ctx context.Context, residentID, versionID string) error
}

// Tracker tracks per-resident acknowledgement of regulation updates.
type Tracker struct {
	store Store
}

// New creates a Tracker.
func New(store Store) *Tracker {
	return &Tracker{store: store}
}

// ShouldAlert reports whether the caller must be shown the alert for
// latest. The administrator produced the update and is never alerted.
// Residents are alerted until they acknowledge that exact version; a
// newer version always starts unacknowledged regardless of what was
// acknowledged before.
func (t *Tracker) ShouldAlert(ctx context.Context, role datatypes.UserRole, residentID string, latest *datatypes.RegulationUpdate) bool {
	if role == datatypes.RoleAdmin {
		return false
	}
	if latest == nil {
		return false
	}
	return !t.store.IsVersionAcknowledged(ctx, residentID, latest.Version)
}

// Acknowledge records that the resident has seen versionID.
// Idempotent: repeating the call changes nothing.
func (t *Tracker) Acknowledge(ctx context.Context, residentID, versionID string) error {
	return t.store.AcknowledgeVersion(ctx, residentID, versionID)
}
