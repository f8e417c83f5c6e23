// Copyright (C) 2025 CondoSense (dev@condosense.app)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package reconcile orchestrates one upload-and-sync cycle: it sends
// the document and the current rule set to the analysis gateway,
// decides whether the returned diff is a real update, mints version
// and item identifiers, and persists the outcome.
//
// The engine is deliberately thin. All document understanding and
// diff reasoning happens in the external gateway; the engine only
// builds the comparison context, validates nothing beyond what the
// analysis layer already validated, stamps identifiers, and writes.
package reconcile

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"go.opentelemetry.io/otel"

	"github.com/condosense/CondoSenseHub/services/hub/analysis"
	"github.com/condosense/CondoSenseHub/services/hub/datatypes"
)

var engineTracer = otel.Tracer("condosense.hub.reconcile")

// Store is the slice of the persistence layer the engine needs.
type Store interface {
	GetRegulations(ctx context.Context) []datatypes.RegulationItem
	SaveRegulations(ctx context.Context, items []datatypes.RegulationItem, update *datatypes.RegulationUpdate) error
}

// Outcome is the result of one reconciliation. Update is nil when the
// gateway reported no changes; in that case nothing was appended to
// the update history.
type Outcome struct {
	Items  []datatypes.RegulationItem `json:"items"`
	Update *datatypes.RegulationUpdate `json:"update,omitempty"`
}

// Engine runs reconciliation cycles.
//
// Thread Safety: Reconcile is NOT safe for concurrent calls; the HTTP
// layer serializes uploads (at most one in flight). The version mint
// itself is safe either way.
type Engine struct {
	store    Store
	analyzer analysis.Analyzer
	logger   *slog.Logger
}

// New creates an Engine. A nil logger falls back to slog.Default().
func New(store Store, analyzer analysis.Analyzer, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{store: store, analyzer: analyzer, logger: logger}
}

// versionMint hands out time-derived, strictly increasing version
// identifiers so two reconciliations in the same millisecond can
// never collide.
var versionMint struct {
	mu   sync.Mutex
	last int64
}

func mintVersion() string {
	versionMint.mu.Lock()
	defer versionMint.mu.Unlock()

	now := time.Now().UnixMilli()
	if now <= versionMint.last {
		now = versionMint.last + 1
	}
	versionMint.last = now
	return fmt.Sprintf("v-%d", now)
}

// Reconcile runs one full cycle for an uploaded document.
//
// The gateway receives the document plus title/content pairs of the
// current rule set. Its response replaces the regulation set
// wholesale, including the empty-set case, which clears all rules
// with no rollback. A RegulationUpdate is created and persisted only
// when the gateway reported at least one change.
//
// On any gateway or persistence error nothing is written and the
// pre-upload state stands.
func (e *Engine) Reconcile(ctx context.Context, document []byte, mimeType string) (*Outcome, error) {
	ctx, span := engineTracer.Start(ctx, "reconcile")
	defer span.End()

	current := e.store.GetRegulations(ctx)
	ruleContext := make([]analysis.RuleContext, len(current))
	for i, item := range current {
		ruleContext[i] = analysis.RuleContext{Title: item.Title, Content: item.Content}
	}

	e.logger.Info("Starting reconciliation", "document_bytes", len(document), "mime_type", mimeType, "current_rules", len(current))

	result, err := e.analyzer.Analyze(ctx, document, mimeType, ruleContext)
	if err != nil {
		e.logger.Error("Document analysis failed", "error", err)
		return nil, fmt.Errorf("document analysis failed: %w", err)
	}

	version := mintVersion()

	items := make([]datatypes.RegulationItem, len(result.Regulations))
	for i, rule := range result.Regulations {
		items[i] = datatypes.RegulationItem{
			ID:          fmt.Sprintf("reg-%s-%d", version, i),
			Title:       rule.Title,
			Category:    datatypes.RuleCategory(rule.Category),
			Content:     rule.Content,
			Summary:     rule.Summary,
			Explanation: rule.Explanation,
			Importance:  rule.Importance,
			Tags:        rule.Tags,
		}
	}

	var update *datatypes.RegulationUpdate
	if len(result.UpdateSummary.Changes) > 0 {
		changes := make([]datatypes.ChangeEntry, len(result.UpdateSummary.Changes))
		for i, ch := range result.UpdateSummary.Changes {
			changes[i] = datatypes.ChangeEntry{
				Type:        datatypes.ChangeType(ch.Type),
				ItemTitle:   ch.ItemTitle,
				Description: ch.Description,
			}
		}
		update = &datatypes.RegulationUpdate{
			Version: version,
			Date:    time.Now().Format("02/01/2006"),
			Reason:  result.UpdateSummary.Reason,
			Changes: changes,
		}
	}

	if err := e.store.SaveRegulations(ctx, items, update); err != nil {
		e.logger.Error("Failed to persist reconciliation outcome", "version", version, "error", err)
		return nil, fmt.Errorf("failed to persist regulations: %w", err)
	}

	e.logger.Info("Reconciliation complete", "version", version, "rules", len(items), "real_update", update != nil)
	return &Outcome{Items: items, Update: update}, nil
}
