// ClipFeed - Self-Hosted Short-Video Feed Server
// Copyright 2026 ClipFeed Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/clipfeed/clipfeed

package store

import (
	"reflect"
	"testing"

	"github.com/dgraph-io/badger/v4"

	"github.com/clipfeed/clipfeed/internal/recommend"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	opts := badger.DefaultOptions(t.TempDir()).WithLogger(nil)
	db, err := badger.Open(opts)
	if err != nil {
		t.Fatalf("open badger: %v", err)
	}
	s := NewWithDB(db)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestBehaviorRoundTrip(t *testing.T) {
	s := newTestStore(t)

	in := map[string]recommend.BehaviorEntry{
		"cats/c1.mp4": {Key: "cats/c1.mp4", WatchTimeSeconds: 12.5, LikeCount: 2},
		"dogs/d1.mp4": {Key: "dogs/d1.mp4", WatchTimeSeconds: 3},
	}
	if err := s.SaveBehavior(in); err != nil {
		t.Fatalf("SaveBehavior: %v", err)
	}

	out, err := s.LoadBehavior()
	if err != nil {
		t.Fatalf("LoadBehavior: %v", err)
	}
	if !reflect.DeepEqual(out, in) {
		t.Errorf("LoadBehavior = %+v, want %+v", out, in)
	}
}

func TestLoadBehaviorEmpty(t *testing.T) {
	s := newTestStore(t)
	out, err := s.LoadBehavior()
	if err != nil {
		t.Fatalf("LoadBehavior: %v", err)
	}
	if len(out) != 0 {
		t.Errorf("fresh store should have no behavior, got %d entries", len(out))
	}
}

func TestLoadBehaviorSkipsCorruptRecord(t *testing.T) {
	s := newTestStore(t)

	if err := s.SaveBehavior(map[string]recommend.BehaviorEntry{
		"ok/1.mp4": {Key: "ok/1.mp4", WatchTimeSeconds: 1},
	}); err != nil {
		t.Fatalf("SaveBehavior: %v", err)
	}
	err := s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(behaviorKeyPrefix+"bad/2.mp4"), []byte("{not json"))
	})
	if err != nil {
		t.Fatalf("seed corrupt record: %v", err)
	}

	out, err := s.LoadBehavior()
	if err != nil {
		t.Fatalf("LoadBehavior: %v", err)
	}
	if len(out) != 1 {
		t.Fatalf("got %d entries, want the 1 valid one", len(out))
	}
	if _, ok := out["ok/1.mp4"]; !ok {
		t.Error("valid record missing after corrupt-skip load")
	}
}

func TestRecentRoundTrip(t *testing.T) {
	s := newTestStore(t)

	in := []string{"a/1.mp4", "b/2.mp4", "c/3.mp4"}
	if err := s.SaveRecent(in); err != nil {
		t.Fatalf("SaveRecent: %v", err)
	}
	out, err := s.LoadRecent()
	if err != nil {
		t.Fatalf("LoadRecent: %v", err)
	}
	if !reflect.DeepEqual(out, in) {
		t.Errorf("LoadRecent = %v, want %v", out, in)
	}
}

func TestLoadRecentMissing(t *testing.T) {
	s := newTestStore(t)
	out, err := s.LoadRecent()
	if err != nil {
		t.Fatalf("LoadRecent: %v", err)
	}
	if len(out) != 0 {
		t.Errorf("missing checkpoint should load empty, got %v", out)
	}
}

func TestLoadRecentCorrupt(t *testing.T) {
	s := newTestStore(t)
	err := s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(recentKey), []byte("][garbage"))
	})
	if err != nil {
		t.Fatalf("seed corrupt checkpoint: %v", err)
	}

	out, err := s.LoadRecent()
	if err != nil {
		t.Fatalf("corrupt checkpoint must not error: %v", err)
	}
	if len(out) != 0 {
		t.Errorf("corrupt checkpoint should load empty, got %v", out)
	}
}

func TestSaveRecentOverwrites(t *testing.T) {
	s := newTestStore(t)
	if err := s.SaveRecent([]string{"a", "b"}); err != nil {
		t.Fatal(err)
	}
	if err := s.SaveRecent([]string{"c"}); err != nil {
		t.Fatal(err)
	}
	out, err := s.LoadRecent()
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(out, []string{"c"}) {
		t.Errorf("LoadRecent = %v, want [c] (last writer wins)", out)
	}
}
