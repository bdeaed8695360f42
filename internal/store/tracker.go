// ClipFeed - Self-Hosted Short-Video Feed Server
// Copyright 2026 ClipFeed Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/clipfeed/clipfeed

package store

import (
	"sync"

	"github.com/clipfeed/clipfeed/internal/recommend"
)

// Actions accepted in tracking events.
const (
	ActionLike = "like"
	ActionSkip = "skip"
)

// TrackEvent is one incoming interaction report from the player.
// WatchTime is additive seconds; a missing value means 0.
type TrackEvent struct {
	Key       string   `json:"key" validate:"required"`
	WatchTime *float64 `json:"watchTime" validate:"omitempty,gte=0"`
	Action    string   `json:"action" validate:"omitempty,oneof=like skip"`
}

// Tracker accumulates behavior entries in memory. Entries only grow within a
// process; they are checkpointed to the Store asynchronously and reloaded at
// startup. Safe for concurrent use.
type Tracker struct {
	mu      sync.RWMutex
	entries map[string]recommend.BehaviorEntry
}

// NewTracker creates an empty tracker.
func NewTracker() *Tracker {
	return &Tracker{entries: make(map[string]recommend.BehaviorEntry)}
}

// Replace swaps in a previously persisted behavior map, typically at startup.
func (t *Tracker) Replace(entries map[string]recommend.BehaviorEntry) {
	if entries == nil {
		entries = make(map[string]recommend.BehaviorEntry)
	}
	t.mu.Lock()
	t.entries = entries
	t.mu.Unlock()
}

// Apply folds one event into the behavior map. A like increments the like
// count; a skip takes one second back off the accumulated watch time,
// floored at zero.
func (t *Tracker) Apply(ev TrackEvent) {
	t.mu.Lock()
	defer t.mu.Unlock()

	entry := t.entries[ev.Key]
	entry.Key = ev.Key
	if ev.WatchTime != nil && *ev.WatchTime > 0 {
		entry.WatchTimeSeconds += *ev.WatchTime
	}
	switch ev.Action {
	case ActionLike:
		entry.LikeCount++
	case ActionSkip:
		entry.WatchTimeSeconds--
		if entry.WatchTimeSeconds < 0 {
			entry.WatchTimeSeconds = 0
		}
	}
	t.entries[ev.Key] = entry
}

// Snapshot returns a copy of the behavior map for recommendation scoring or
// checkpointing.
func (t *Tracker) Snapshot() map[string]recommend.BehaviorEntry {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make(map[string]recommend.BehaviorEntry, len(t.entries))
	for k, v := range t.entries {
		out[k] = v
	}
	return out
}

// Len returns the number of tracked items.
func (t *Tracker) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.entries)
}
