// Copyright (C) 2025 CondoSense (dev@condosense.app)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package suggestions implements the resident suggestion and voting
// flow: residents submit improvement ideas and support each other's
// ideas with one vote each; administrators move suggestions through
// their lifecycle and read the per-category vote ranking.
package suggestions

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/condosense/CondoSenseHub/services/hub/datatypes"
)

var (
	// ErrNotFound indicates the suggestion id does not exist.
	ErrNotFound = errors.New("suggestion not found")

	// ErrInvalidStatus indicates an unknown lifecycle status.
	ErrInvalidStatus = errors.New("invalid suggestion status")
)

// Store is the slice of the persistence layer the service needs.
type Store interface {
	GetSuggestions(ctx context.Context) []datatypes.Suggestion
	SaveSuggestions(ctx context.Context, suggestions []datatypes.Suggestion) error
}

// View is a Suggestion as seen by one resident: the voter set is
// collapsed into whether this resident voted.
type View struct {
	datatypes.Suggestion
	VotedByMe bool `json:"votedByMe"`
}

// CategoryVotes is one row of the admin priority ranking.
type CategoryVotes struct {
	Category string `json:"category"`
	Votes    int    `json:"votes"`
}

// Service implements the suggestion flow over wholesale-replace
// persistence.
type Service struct {
	store  Store
	logger *slog.Logger
}

// New creates a Service. A nil logger falls back to slog.Default().
func New(store Store, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{store: store, logger: logger}
}

// List returns all suggestions sorted by vote count descending, with
// the VotedByMe flag computed for residentID.
func (s *Service) List(ctx context.Context, residentID string) []View {
	suggestions := s.store.GetSuggestions(ctx)
	sort.SliceStable(suggestions, func(i, j int) bool {
		return suggestions[i].Votes > suggestions[j].Votes
	})

	views := make([]View, len(suggestions))
	for i, sg := range suggestions {
		views[i] = View{Suggestion: sg, VotedByMe: sg.VotedBy(residentID)}
	}
	return views
}

// Add creates a new pending suggestion authored by residentID.
func (s *Service) Add(ctx context.Context, residentID, title, description, category string) (*datatypes.Suggestion, error) {
	if title == "" {
		return nil, errors.New("suggestion title must not be empty")
	}
	if category == "" {
		category = string(datatypes.CategoryGeneral)
	}

	suggestion := datatypes.Suggestion{
		ID:          uuid.New().String(),
		Title:       title,
		Description: description,
		Category:    category,
		Author:      residentID,
		Status:      datatypes.StatusPending,
		Votes:       0,
		Voters:      []string{},
		CreatedAt:   time.Now().Format("02/01/2006"),
	}

	suggestions := append(s.store.GetSuggestions(ctx), suggestion)
	if err := s.store.SaveSuggestions(ctx, suggestions); err != nil {
		return nil, fmt.Errorf("failed to save suggestion: %w", err)
	}

	s.logger.Info("Suggestion created", "id", suggestion.ID, "author", residentID)
	return &suggestion, nil
}

// Vote toggles residentID's vote on the suggestion and returns the
// updated record. Each resident counts once; voting again withdraws
// the vote.
func (s *Service) Vote(ctx context.Context, residentID, suggestionID string) (*datatypes.Suggestion, error) {
	suggestions := s.store.GetSuggestions(ctx)
	for i := range suggestions {
		if suggestions[i].ID != suggestionID {
			continue
		}

		if suggestions[i].VotedBy(residentID) {
			voters := suggestions[i].Voters[:0]
			for _, v := range suggestions[i].Voters {
				if v != residentID {
					voters = append(voters, v)
				}
			}
			suggestions[i].Voters = voters
		} else {
			suggestions[i].Voters = append(suggestions[i].Voters, residentID)
		}
		suggestions[i].Votes = len(suggestions[i].Voters)

		if err := s.store.SaveSuggestions(ctx, suggestions); err != nil {
			return nil, fmt.Errorf("failed to save vote: %w", err)
		}
		updated := suggestions[i]
		return &updated, nil
	}
	return nil, ErrNotFound
}

// SetStatus moves a suggestion to a new lifecycle status.
func (s *Service) SetStatus(ctx context.Context, suggestionID string, status datatypes.SuggestionStatus) (*datatypes.Suggestion, error) {
	if !datatypes.ValidStatus(status) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}

	suggestions := s.store.GetSuggestions(ctx)
	for i := range suggestions {
		if suggestions[i].ID != suggestionID {
			continue
		}
		suggestions[i].Status = status
		if err := s.store.SaveSuggestions(ctx, suggestions); err != nil {
			return nil, fmt.Errorf("failed to save status change: %w", err)
		}
		updated := suggestions[i]
		s.logger.Info("Suggestion status changed", "id", suggestionID, "status", status)
		return &updated, nil
	}
	return nil, ErrNotFound
}

// CategoryRanking returns categories ordered by total votes, capped
// at the top five, for the admin priority dashboard.
func (s *Service) CategoryRanking(ctx context.Context) []CategoryVotes {
	totals := make(map[string]int)
	for _, sg := range s.store.GetSuggestions(ctx) {
		totals[sg.Category] += sg.Votes
	}

	ranking := make([]CategoryVotes, 0, len(totals))
	for category, votes := range totals {
		ranking = append(ranking, CategoryVotes{Category: category, Votes: votes})
	}
	sort.Slice(ranking, func(i, j int) bool {
		if ranking[i].Votes != ranking[j].Votes {
			return ranking[i].Votes > ranking[j].Votes
		}
		return ranking[i].Category < ranking[j].Category
	})

	if len(ranking) > 5 {
		ranking = ranking[:5]
	}
	return ranking
}
