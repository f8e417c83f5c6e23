// Copyright (C) 2025 CondoSense (dev@condosense.app)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package datatypes provides the data structures for the regulation hub.
//
// Everything user-facing (category labels, suggestion statuses, dates)
// is Portuguese (pt-BR) because that is what residents see; field and
// type names follow normal Go conventions.
package datatypes

import "strings"

// RuleCategory is one of the ten fixed category labels a regulation
// can belong to. The labels double as the wire and storage values.
type RuleCategory string

const (
	CategoryGeneral     RuleCategory = "Geral"
	CategoryNoise       RuleCategory = "Silêncio e Ruídos"
	CategoryPets        RuleCategory = "Animais de Estimação"
	CategoryParking     RuleCategory = "Garagem e Tráfego"
	CategoryCommonAreas RuleCategory = "Áreas Comuns e Lazer"
	CategoryRenovations RuleCategory = "Obras e Reformas"
	CategorySecurity    RuleCategory = "Segurança e Acesso"
	CategoryWaste       RuleCategory = "Lixo e Sustentabilidade"
	CategoryFees        RuleCategory = "Taxas e Multas"
	CategoryMeetings    RuleCategory = "Assembleias e Gestão"
)

// AllCategories returns the fixed category set in display order.
func AllCategories() []RuleCategory {
	return []RuleCategory{
		CategoryGeneral,
		CategoryNoise,
		CategoryPets,
		CategoryParking,
		CategoryCommonAreas,
		CategoryRenovations,
		CategorySecurity,
		CategoryWaste,
		CategoryFees,
		CategoryMeetings,
	}
}

// NormalizeCategory maps a raw category string from the analysis
// gateway onto the fixed set. Unrecognized values clamp to
// CategoryGeneral instead of failing the whole analysis.
func NormalizeCategory(raw string) RuleCategory {
	trimmed := strings.TrimSpace(raw)
	for _, c := range AllCategories() {
		if strings.EqualFold(trimmed, string(c)) {
			return c
		}
	}
	return CategoryGeneral
}

// RegulationItem is one simplified, AI-derived condominium rule.
//
// The whole regulation set is replaced atomically on each successful
// document analysis; items are never updated or deleted individually.
// IDs embed the originating version so they never collide with items
// from a previous version.
type RegulationItem struct {
	ID          string       `json:"id"`
	Title       string       `json:"title"`
	Category    RuleCategory `json:"category"`
	Content     string       `json:"content"`
	Summary     string       `json:"summary"`
	Explanation string       `json:"explanation"`
	Importance  string       `json:"importance"`
	Tags        []string     `json:"tags"`
}

// Matches reports whether the item matches a free-text search query.
// The match is case-insensitive over title, content, summary and tags,
// mirroring the hub's search box behavior. An empty query matches.
func (r RegulationItem) Matches(query string) bool {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return true
	}
	if strings.Contains(strings.ToLower(r.Title), q) ||
		strings.Contains(strings.ToLower(r.Content), q) ||
		strings.Contains(strings.ToLower(r.Summary), q) {
		return true
	}
	for _, tag := range r.Tags {
		if strings.Contains(strings.ToLower(tag), q) {
			return true
		}
	}
	return false
}
