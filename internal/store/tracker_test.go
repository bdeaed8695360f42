// ClipFeed - Self-Hosted Short-Video Feed Server
// Copyright 2026 ClipFeed Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/clipfeed/clipfeed

package store

import (
	"sync"
	"testing"
)

func ptr(f float64) *float64 { return &f }

func TestTrackerWatchTimeAccumulates(t *testing.T) {
	tr := NewTracker()
	tr.Apply(TrackEvent{Key: "a/1.mp4", WatchTime: ptr(2.5)})
	tr.Apply(TrackEvent{Key: "a/1.mp4", WatchTime: ptr(1.5)})

	entry := tr.Snapshot()["a/1.mp4"]
	if entry.WatchTimeSeconds != 4 {
		t.Errorf("WatchTimeSeconds = %v, want 4", entry.WatchTimeSeconds)
	}
}

func TestTrackerLike(t *testing.T) {
	tr := NewTracker()
	tr.Apply(TrackEvent{Key: "a/1.mp4", Action: ActionLike})
	tr.Apply(TrackEvent{Key: "a/1.mp4", Action: ActionLike})

	entry := tr.Snapshot()["a/1.mp4"]
	if entry.LikeCount != 2 {
		t.Errorf("LikeCount = %d, want 2", entry.LikeCount)
	}
}

func TestTrackerSkipFloorsAtZero(t *testing.T) {
	tr := NewTracker()
	tr.Apply(TrackEvent{Key: "a/1.mp4", WatchTime: ptr(0.5)})
	tr.Apply(TrackEvent{Key: "a/1.mp4", Action: ActionSkip})

	entry := tr.Snapshot()["a/1.mp4"]
	if entry.WatchTimeSeconds != 0 {
		t.Errorf("WatchTimeSeconds = %v, want 0 (floored)", entry.WatchTimeSeconds)
	}

	// Skip on an unseen key stays at zero rather than going negative.
	tr.Apply(TrackEvent{Key: "b/2.mp4", Action: ActionSkip})
	if got := tr.Snapshot()["b/2.mp4"].WatchTimeSeconds; got != 0 {
		t.Errorf("WatchTimeSeconds = %v, want 0", got)
	}
}

func TestTrackerSkipSubtractsOne(t *testing.T) {
	tr := NewTracker()
	tr.Apply(TrackEvent{Key: "a/1.mp4", WatchTime: ptr(5)})
	tr.Apply(TrackEvent{Key: "a/1.mp4", Action: ActionSkip})

	if got := tr.Snapshot()["a/1.mp4"].WatchTimeSeconds; got != 4 {
		t.Errorf("WatchTimeSeconds = %v, want 4", got)
	}
}

func TestTrackerMissingWatchTimeIsZero(t *testing.T) {
	tr := NewTracker()
	tr.Apply(TrackEvent{Key: "a/1.mp4"})

	entry := tr.Snapshot()["a/1.mp4"]
	if entry.WatchTimeSeconds != 0 || entry.LikeCount != 0 {
		t.Errorf("entry = %+v, want zeros", entry)
	}
}

func TestTrackerSnapshotIsolation(t *testing.T) {
	tr := NewTracker()
	tr.Apply(TrackEvent{Key: "a/1.mp4", Action: ActionLike})

	snap := tr.Snapshot()
	snap["a/1.mp4"] = snap["a/1.mp4"] // mutate copy
	delete(snap, "a/1.mp4")

	if tr.Len() != 1 {
		t.Error("mutating a snapshot must not affect the tracker")
	}
}

func TestTrackerReplace(t *testing.T) {
	tr := NewTracker()
	tr.Apply(TrackEvent{Key: "old/1.mp4", Action: ActionLike})

	tr.Replace(nil)
	if tr.Len() != 0 {
		t.Errorf("Replace(nil) should empty the tracker, got %d", tr.Len())
	}
}

func TestTrackerConcurrentApply(t *testing.T) {
	tr := NewTracker()

	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 100; i++ {
				tr.Apply(TrackEvent{Key: "hot/1.mp4", Action: ActionLike})
			}
		}()
	}
	wg.Wait()

	if got := tr.Snapshot()["hot/1.mp4"].LikeCount; got != 800 {
		t.Errorf("LikeCount = %d, want 800", got)
	}
}
