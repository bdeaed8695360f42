// ClipFeed - Self-Hosted Short-Video Feed Server
// Copyright 2026 ClipFeed Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/clipfeed/clipfeed

package recommend

import (
	"sort"
	"sync/atomic"
	"time"

	"github.com/clipfeed/clipfeed/internal/feature"
	"github.com/clipfeed/clipfeed/internal/logging"
)

// Recommender owns the catalog snapshot and answers recommendation queries.
//
// Build replaces the snapshot with one atomic pointer swap; Recommend and
// Snapshot are safe to call concurrently with a rebuild and always see a
// consistent snapshot. Recommend never returns an error: missing behavior
// falls back to popularity ranking and an empty or fully-excluded catalog
// yields an empty list.
type Recommender struct {
	cfg   Config
	synth featureSource
	snap  atomic.Pointer[Snapshot]
}

// NewRecommender creates a recommender with an empty catalog.
func NewRecommender(cfg Config, synth featureSource) *Recommender {
	if synth == nil {
		synth = feature.NewSynthesizer(feature.Config{})
	}
	r := &Recommender{cfg: cfg.withDefaults(), synth: synth}
	r.snap.Store(emptySnapshot)
	return r
}

// Build rebuilds the index, feature vectors, and clusters from a
// category-to-filelist map, then publishes the result atomically. An empty
// map yields an empty catalog, not an error. Idempotent for equal input.
func (r *Recommender) Build(fileMap map[string][]string) {
	start := time.Now()
	snap := buildSnapshot(fileMap, r.synth, r.cfg.MaxRounds)
	r.snap.Store(snap)

	logging.Debug().
		Int("items", snap.Len()).
		Int("categories", len(snap.Categories)).
		Int("clusters", len(snap.Centroids)).
		Dur("elapsed", time.Since(start)).
		Msg("catalog index rebuilt")
}

// Snapshot returns the current immutable catalog view.
func (r *Recommender) Snapshot() *Snapshot {
	return r.snap.Load()
}

// Recommend returns up to limit items ordered by personalized relevance.
//
// When no behavior key is present in the catalog the result is the
// popularity fallback: larger categories first, catalog order within each.
// Otherwise items are scored by cosine similarity to the watch/like-weighted
// profile vector and reranked for diversity with MMR. Keys reported by
// excluded never appear; the result may be shorter than limit.
func (r *Recommender) Recommend(behavior map[string]BehaviorEntry, excluded Excluder, limit int) []Item {
	if limit <= 0 {
		return nil
	}
	snap := r.snap.Load()
	if snap.Len() == 0 {
		return nil
	}

	profile, ok := r.profileVector(snap, behavior)
	if !ok {
		return popularityFallback(snap, excluded, limit)
	}

	candidates := make([]candidate, 0, snap.Len())
	for _, item := range snap.Items {
		if excluded != nil && excluded.Contains(item.Key) {
			continue
		}
		candidates = append(candidates, candidate{
			item:      item,
			relevance: feature.Cosine(profile, item.Feature),
		})
	}

	return rerankMMR(candidates, limit, r.cfg.Lambda)
}

// profileVector aggregates the weighted mean of the features of every
// behavior key present in the catalog. Returns ok=false when no key matched,
// which triggers the popularity fallback.
func (r *Recommender) profileVector(snap *Snapshot, behavior map[string]BehaviorEntry) ([]float64, bool) {
	var (
		profile     []float64
		totalWeight float64
		matched     bool
	)

	for key, entry := range behavior {
		item, ok := snap.Item(key)
		if !ok {
			continue
		}
		matched = true
		w := entry.Weight(r.cfg.LikeWeight)
		if profile == nil {
			profile = make([]float64, len(item.Feature))
		}
		for i, v := range item.Feature {
			profile[i] += w * v
		}
		totalWeight += w
	}
	if !matched {
		return nil, false
	}

	// All-zero weights would divide by zero; treat the total as 1 so the
	// profile degrades to a plain sum.
	if totalWeight == 0 {
		totalWeight = 1
	}
	for i := range profile {
		profile[i] /= totalWeight
	}
	return profile, true
}

// popularityFallback emits items category by category, largest category
// first (ties keep sorted-category order), catalog order within each.
func popularityFallback(snap *Snapshot, excluded Excluder, limit int) []Item {
	order := append([]string(nil), snap.Categories...)
	sort.SliceStable(order, func(i, j int) bool {
		return len(snap.Files[order[i]]) > len(snap.Files[order[j]])
	})

	out := make([]Item, 0, limit)
	for _, cat := range order {
		for _, f := range snap.Files[cat] {
			if len(out) >= limit {
				return out
			}
			key := cat + "/" + f
			if excluded != nil && excluded.Contains(key) {
				continue
			}
			if item, ok := snap.Item(key); ok {
				out = append(out, item)
			}
		}
	}
	return out
}
