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

// SuggestionStatus is the administrator-managed lifecycle state of a
// resident suggestion.
type SuggestionStatus string

const (
	StatusPending   SuggestionStatus = "Pendente"
	StatusInReview  SuggestionStatus = "Em Análise"
	StatusPlanned   SuggestionStatus = "Planejado"
	StatusCompleted SuggestionStatus = "Concluído"
)

// ValidStatus reports whether s is one of the known statuses.
func ValidStatus(s SuggestionStatus) bool {
	switch s {
	case StatusPending, StatusInReview, StatusPlanned, StatusCompleted:
		return true
	}
	return false
}

// Suggestion is one resident improvement suggestion.
//
// Votes is always len(Voters); the voter set is what is persisted so
// a resident can toggle their vote and each resident counts once.
type Suggestion struct {
	ID          string           `json:"id"`
	Title       string           `json:"title"`
	Description string           `json:"description"`
	Category    string           `json:"category"`
	Author      string           `json:"author"`
	Status      SuggestionStatus `json:"status"`
	Votes       int              `json:"votes"`
	Voters      []string         `json:"voters"`
	CreatedAt   string           `json:"createdAt"`
}

// VotedBy reports whether the given resident has voted for the
// suggestion.
func (s Suggestion) VotedBy(residentID string) bool {
	for _, v := range s.Voters {
		if v == residentID {
			return true
		}
	}
	return false
}
