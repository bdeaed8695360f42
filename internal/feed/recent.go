// ClipFeed - Self-Hosted Short-Video Feed Server
// Copyright 2026 ClipFeed Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/clipfeed/clipfeed

// Package feed generates paginated "organic" feed pages by deterministic
// pseudo-random sampling over the catalog, bounded by a recency window that
// keeps near-term repeats out of every feed surface.
package feed

import "sync"

// DefaultRecentCapacity is the number of distinct keys the window remembers.
const DefaultRecentCapacity = 50

// RecentWindow is a bounded FIFO set of the most recently emitted item keys.
// The ordered list and the membership set always mirror each other; the
// oldest key is evicted when an insert exceeds capacity. All methods are
// safe for concurrent use.
type RecentWindow struct {
	mu       sync.Mutex
	capacity int
	order    []string
	member   map[string]struct{}
}

// NewRecentWindow creates a window holding up to capacity distinct keys.
// Non-positive capacity takes DefaultRecentCapacity.
func NewRecentWindow(capacity int) *RecentWindow {
	if capacity <= 0 {
		capacity = DefaultRecentCapacity
	}
	return &RecentWindow{
		capacity: capacity,
		member:   make(map[string]struct{}, capacity),
	}
}

// TryAdd inserts key unless it is already present. It returns true when the
// key was inserted, false when it was already in the window. The membership
// check and insert happen under one lock, so two concurrent callers can
// never both emit the same key.
func (w *RecentWindow) TryAdd(key string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	if _, ok := w.member[key]; ok {
		return false
	}
	w.insertLocked(key)
	return true
}

// Add inserts key, ignoring it if already present.
func (w *RecentWindow) Add(key string) {
	w.TryAdd(key)
}

// Contains reports whether key is currently in the window.
func (w *RecentWindow) Contains(key string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	_, ok := w.member[key]
	return ok
}

// Len returns the number of keys currently held.
func (w *RecentWindow) Len() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.order)
}

// Keys returns the window contents oldest first, for checkpointing.
func (w *RecentWindow) Keys() []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]string(nil), w.order...)
}

// Restore replaces the window contents with keys (oldest first), dropping
// duplicates and, when keys exceeds capacity, keeping only the newest.
func (w *RecentWindow) Restore(keys []string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.order = w.order[:0]
	w.member = make(map[string]struct{}, w.capacity)
	for _, k := range keys {
		if _, ok := w.member[k]; ok {
			continue
		}
		w.insertLocked(k)
	}
}

func (w *RecentWindow) insertLocked(key string) {
	if len(w.order) >= w.capacity {
		oldest := w.order[0]
		w.order = w.order[1:]
		delete(w.member, oldest)
	}
	w.order = append(w.order, key)
	w.member[key] = struct{}{}
}
