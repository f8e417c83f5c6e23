// Copyright (C) 2025 CondoSense (dev@condosense.app)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package observability provides Prometheus metrics for the hub.
//
// Metrics are exposed via the /metrics endpoint. All operations are
// thread-safe via Prometheus's internal locking.
package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const metricsNamespace = "condosense"

var (
	// ReconciliationsTotal counts reconciliation attempts.
	// Labels: status (success, error, rejected), outcome for success
	// is tracked separately by RealUpdatesTotal.
	ReconciliationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: metricsNamespace,
		Name:      "reconciliations_total",
		Help:      "Total document reconciliation attempts by status",
	}, []string{"status"})

	// RealUpdatesTotal counts reconciliations that produced a real
	// update record (non-empty change list).
	RealUpdatesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: metricsNamespace,
		Name:      "real_updates_total",
		Help:      "Reconciliations that produced an update record",
	})

	// AnalysisDurationSeconds observes end-to-end gateway analysis time.
	AnalysisDurationSeconds = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: metricsNamespace,
		Name:      "analysis_duration_seconds",
		Help:      "Time spent in one reconciliation cycle including the gateway call",
		Buckets:   []float64{0.5, 1, 2, 5, 10, 30, 60, 120, 300},
	})

	// RegulationCount tracks the size of the active regulation set.
	RegulationCount = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: metricsNamespace,
		Name:      "regulation_count",
		Help:      "Number of regulations in the active set",
	})

	// AlertSubscribers tracks connected update-alert websocket clients.
	AlertSubscribers = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: metricsNamespace,
		Name:      "alert_subscribers",
		Help:      "Currently connected update alert websocket clients",
	})

	// SuggestionVotesTotal counts vote toggles.
	SuggestionVotesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: metricsNamespace,
		Name:      "suggestion_votes_total",
		Help:      "Total suggestion vote toggle operations",
	})
)
