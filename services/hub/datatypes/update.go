// Copyright (C) 2025 CondoSense (dev@condosense.app)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package datatypes

// ChangeType classifies one entry of an update's change list.
type ChangeType string

const (
	ChangeAdded    ChangeType = "added"
	ChangeRemoved  ChangeType = "removed"
	ChangeModified ChangeType = "modified"
)

// ChangeEntry describes one detected change to a rule.
//
// Entries reference the affected rule by title, not by ID: the
// analysis gateway has no view of the IDs minted locally, so the
// title is the join key between the update history and the rules.
type ChangeEntry struct {
	Type        ChangeType `json:"type"`
	ItemTitle   string     `json:"itemTitle"`
	Description string     `json:"description"`
}

// RegulationUpdate is one detected change event. It is created only
// when a reconciliation yields at least one ChangeEntry, and is
// immutable afterwards. Update history is kept most-recent-first.
type RegulationUpdate struct {
	// Version is the time-derived identifier minted for the
	// reconciliation that produced this update.
	Version string `json:"version"`

	// Date is the human-readable pt-BR date (dd/mm/yyyy).
	Date string `json:"date"`

	// Reason is the gateway's free-text explanation of the change.
	Reason string `json:"reason"`

	Changes []ChangeEntry `json:"changes"`
}

// UserRole distinguishes the administrator from residents.
// The resident role keeps the original "morador" wire value.
type UserRole string

const (
	RoleAdmin    UserRole = "admin"
	RoleResident UserRole = "morador"
)

// ParseRole maps a raw role string to a UserRole, defaulting to
// RoleResident for anything that is not exactly the admin role.
func ParseRole(raw string) UserRole {
	if raw == string(RoleAdmin) {
		return RoleAdmin
	}
	return RoleResident
}
