// ClipFeed - Self-Hosted Short-Video Feed Server
// Copyright 2026 ClipFeed Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/clipfeed/clipfeed

// Package store persists user behavior and the feed recency window in an
// embedded BadgerDB. Persistence is best-effort: callers checkpoint
// asynchronously, failures are logged and never propagated to feed or
// recommendation requests, and a missing or corrupt record loads as absent.
package store

import (
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"

	"github.com/clipfeed/clipfeed/internal/logging"
	"github.com/clipfeed/clipfeed/internal/recommend"
)

// Key layout.
const (
	behaviorKeyPrefix = "behavior:"
	recentKey         = "recent"
)

// Store is a BadgerDB-backed persistence layer.
type Store struct {
	db *badger.DB
}

// Open opens (creating if needed) the database at path.
func Open(path string) (*Store, error) {
	opts := badger.DefaultOptions(path).
		WithLogger(nil)
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger db: %w", err)
	}
	return &Store{db: db}, nil
}

// NewWithDB wraps an existing database, used by tests.
func NewWithDB(db *badger.DB) *Store {
	return &Store{db: db}
}

// Close flushes and closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// SaveBehavior writes every behavior entry. Last writer wins; there is no
// merge with concurrent checkpoints.
func (s *Store) SaveBehavior(entries map[string]recommend.BehaviorEntry) error {
	return s.db.Update(func(txn *badger.Txn) error {
		for key, entry := range entries {
			data, err := json.Marshal(entry)
			if err != nil {
				return fmt.Errorf("marshal behavior %q: %w", key, err)
			}
			if err := txn.Set([]byte(behaviorKeyPrefix+key), data); err != nil {
				return fmt.Errorf("set behavior %q: %w", key, err)
			}
		}
		return nil
	})
}

// LoadBehavior reads all persisted behavior entries. A record that fails to
// decode is logged and skipped; it does not abort the load.
func (s *Store) LoadBehavior() (map[string]recommend.BehaviorEntry, error) {
	entries := make(map[string]recommend.BehaviorEntry)

	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(behaviorKeyPrefix)
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			item := it.Item()
			key := string(item.Key()[len(behaviorKeyPrefix):])
			err := item.Value(func(val []byte) error {
				var entry recommend.BehaviorEntry
				if err := json.Unmarshal(val, &entry); err != nil {
					logging.Warn().Err(err).Str("key", key).Msg("skipping corrupt behavior record")
					return nil
				}
				entry.Key = key
				entries[key] = entry
				return nil
			})
			if err != nil {
				return fmt.Errorf("read behavior %q: %w", key, err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return entries, nil
}

// SaveRecent checkpoints the recency window contents, oldest first.
func (s *Store) SaveRecent(keys []string) error {
	data, err := json.Marshal(keys)
	if err != nil {
		return fmt.Errorf("marshal recent window: %w", err)
	}
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(recentKey), data)
	})
}

// LoadRecent reads the checkpointed recency window. A missing or corrupt
// checkpoint yields an empty list, not an error.
func (s *Store) LoadRecent() ([]string, error) {
	var keys []string

	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(recentKey))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("get recent window: %w", err)
		}
		return item.Value(func(val []byte) error {
			if err := json.Unmarshal(val, &keys); err != nil {
				logging.Warn().Err(err).Msg("corrupt recent window checkpoint, starting empty")
				keys = nil
			}
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return keys, nil
}
