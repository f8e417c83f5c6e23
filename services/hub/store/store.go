// Copyright (C) 2025 CondoSense (dev@condosense.app)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package store implements the hub's flat key-value persistence.
//
// Four independent record kinds live in the database, each serialized
// as one JSON value under a fixed key:
//
//	regulations        []datatypes.RegulationItem
//	updates            []datatypes.RegulationUpdate (most-recent-first)
//	suggestions        []datatypes.Suggestion
//	ack/<residentID>   acknowledged version string, one per resident
//
// Reads fail soft: a missing or unparseable record is treated as
// absent (empty value) and logged, never propagated, so the hub stays
// usable over a corrupted record. Writes report errors normally.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	badgerdb "github.com/dgraph-io/badger/v4"

	"github.com/condosense/CondoSenseHub/services/hub/datatypes"
	"github.com/condosense/CondoSenseHub/services/hub/storage/badger"
)

const (
	keyRegulations = "regulations"
	keyUpdates     = "updates"
	keySuggestions = "suggestions"
	ackKeyPrefix   = "ack/"
)

// Store provides typed access to the hub's persisted records.
//
// Thread Safety: safe for concurrent use; each operation runs in its
// own BadgerDB transaction.
type Store struct {
	db     *badger.DB
	logger *slog.Logger
}

// New creates a Store over an open database. A nil logger falls back
// to slog.Default().
func New(db *badger.DB, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{db: db, logger: logger}
}

// readJSON fetches key into dest within txn. It returns false when the
// key is absent; an unparseable value is logged and also reported as
// absent so callers fall back to their empty state.
func (s *Store) readJSON(txn *badgerdb.Txn, key string, dest interface{}) bool {
	item, err := txn.Get([]byte(key))
	if errors.Is(err, badgerdb.ErrKeyNotFound) {
		return false
	}
	if err != nil {
		s.logger.Warn("failed to read record, treating as absent", "key", key, "error", err)
		return false
	}
	err = item.Value(func(val []byte) error {
		return json.Unmarshal(val, dest)
	})
	if err != nil {
		s.logger.Warn("corrupted record, treating as absent", "key", key, "error", err)
		return false
	}
	return true
}

func setJSON(txn *badgerdb.Txn, key string, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return txn.Set([]byte(key), data)
}

// GetRegulations returns the active regulation set, or an empty slice
// when none has ever been written.
func (s *Store) GetRegulations(ctx context.Context) []datatypes.RegulationItem {
	var items []datatypes.RegulationItem
	err := s.db.WithReadTxn(ctx, func(txn *badgerdb.Txn) error {
		s.readJSON(txn, keyRegulations, &items)
		return nil
	})
	if err != nil {
		s.logger.Warn("regulation read transaction failed", "error", err)
	}
	if items == nil {
		items = []datatypes.RegulationItem{}
	}
	return items
}

// SaveRegulations replaces the regulation set wholesale. When update
// is non-nil it is additionally prepended to the update history.
//
// Both writes happen inside a single read-write transaction, so a
// crash can never leave a new regulation set without its update
// record or vice versa.
func (s *Store) SaveRegulations(ctx context.Context, items []datatypes.RegulationItem, update *datatypes.RegulationUpdate) error {
	if items == nil {
		items = []datatypes.RegulationItem{}
	}
	return s.db.WithTxn(ctx, func(txn *badgerdb.Txn) error {
		if err := setJSON(txn, keyRegulations, items); err != nil {
			return err
		}
		if update == nil {
			return nil
		}
		var history []datatypes.RegulationUpdate
		s.readJSON(txn, keyUpdates, &history)
		history = append([]datatypes.RegulationUpdate{*update}, history...)
		return setJSON(txn, keyUpdates, history)
	})
}

// GetUpdates returns the update history, most recent first.
func (s *Store) GetUpdates(ctx context.Context) []datatypes.RegulationUpdate {
	var history []datatypes.RegulationUpdate
	err := s.db.WithReadTxn(ctx, func(txn *badgerdb.Txn) error {
		s.readJSON(txn, keyUpdates, &history)
		return nil
	})
	if err != nil {
		s.logger.Warn("update history read transaction failed", "error", err)
	}
	if history == nil {
		history = []datatypes.RegulationUpdate{}
	}
	return history
}

// GetLatestUpdate returns the most recent update, or nil when the
// history is empty.
func (s *Store) GetLatestUpdate(ctx context.Context) *datatypes.RegulationUpdate {
	updates := s.GetUpdates(ctx)
	if len(updates) == 0 {
		return nil
	}
	return &updates[0]
}

// IsVersionAcknowledged reports whether the resident's stored marker
// equals versionID. An absent marker acknowledges nothing.
func (s *Store) IsVersionAcknowledged(ctx context.Context, residentID, versionID string) bool {
	var acked bool
	err := s.db.WithReadTxn(ctx, func(txn *badgerdb.Txn) error {
		item, err := txn.Get([]byte(ackKeyPrefix + residentID))
		if err != nil {
			return nil
		}
		return item.Value(func(val []byte) error {
			acked = string(val) == versionID
			return nil
		})
	})
	if err != nil {
		s.logger.Warn("acknowledgement read transaction failed", "resident", residentID, "error", err)
	}
	return acked
}

// AcknowledgeVersion records versionID as the last version the
// resident has confirmed seeing. Overwrites any previous marker, so
// the call is idempotent.
func (s *Store) AcknowledgeVersion(ctx context.Context, residentID, versionID string) error {
	return s.db.WithTxn(ctx, func(txn *badgerdb.Txn) error {
		return txn.Set([]byte(ackKeyPrefix+residentID), []byte(versionID))
	})
}

// GetSuggestions returns the suggestion list, or an empty slice when
// none has ever been written.
func (s *Store) GetSuggestions(ctx context.Context) []datatypes.Suggestion {
	var suggestions []datatypes.Suggestion
	err := s.db.WithReadTxn(ctx, func(txn *badgerdb.Txn) error {
		s.readJSON(txn, keySuggestions, &suggestions)
		return nil
	})
	if err != nil {
		s.logger.Warn("suggestion read transaction failed", "error", err)
	}
	if suggestions == nil {
		suggestions = []datatypes.Suggestion{}
	}
	return suggestions
}

// SaveSuggestions replaces the suggestion list wholesale.
func (s *Store) SaveSuggestions(ctx context.Context, suggestions []datatypes.Suggestion) error {
	if suggestions == nil {
		suggestions = []datatypes.Suggestion{}
	}
	return s.db.WithTxn(ctx, func(txn *badgerdb.Txn) error {
		return setJSON(txn, keySuggestions, suggestions)
	})
}
