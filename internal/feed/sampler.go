// ClipFeed - Self-Hosted Short-Video Feed Server
// Copyright 2026 ClipFeed Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/clipfeed/clipfeed

package feed

import (
	"github.com/clipfeed/clipfeed/internal/feature"
	"github.com/clipfeed/clipfeed/internal/recommend"
)

// maxAttemptsFactor bounds the retry loop: a Sample call makes at most
// limit * maxAttemptsFactor draws before returning what it has.
const maxAttemptsFactor = 10

// CatalogSource provides the current catalog snapshot to draw from.
// *recommend.Recommender satisfies this.
type CatalogSource interface {
	Snapshot() *recommend.Snapshot
}

// Sampler emits paginated feed pages by seeded pseudo-random draws over the
// catalog, skipping anything in the recency window.
//
// Items are drawn in same-category pairs: output positions 2p and 2p+1 share
// the category draw of pair p and take adjacent files within it. The draw at
// each position is reseeded from (baseSeed + pairIndex + attempts), so a
// retry after a recency collision produces fresh values.
//
// Offset is not a stable cursor: the window mutates between calls and
// reseeding depends on the attempt counter, so the same offset can yield
// different items after state has changed. Callers page forward and accept
// that; do not build resumable pagination on top of it.
type Sampler struct {
	src    CatalogSource
	window *RecentWindow
	seed   uint32
}

// NewSampler creates a sampler. baseSeed is fixed for the process lifetime
// so a restart reshuffles the feed.
func NewSampler(src CatalogSource, window *RecentWindow, baseSeed uint32) *Sampler {
	return &Sampler{src: src, window: window, seed: baseSeed}
}

// Sample returns up to limit posts for the page starting at offset, pushing
// every emitted key into the recency window. Fewer than limit results is a
// valid outcome, not an error: the loop gives up after limit*10 draws when
// the catalog is small or mostly inside the window.
func (s *Sampler) Sample(offset, limit int) []Post {
	if limit <= 0 {
		return nil
	}
	snap := s.src.Snapshot()
	if len(snap.Categories) == 0 {
		return nil
	}

	posts := make([]Post, 0, limit)
	maxAttempts := limit * maxAttemptsFactor
	attempts := 0

	for len(posts) < limit && attempts < maxAttempts {
		pos := offset + len(posts)
		pairIndex := pos / 2

		rng := feature.NewRand(s.seed + uint32(pairIndex) + uint32(attempts))
		attempts++

		cat := snap.Categories[rng.Intn(len(snap.Categories))]
		files := snap.Files[cat]
		if len(files) == 0 {
			continue
		}

		start := rng.Intn(len(files))
		file := files[(start+pos%2)%len(files)]
		key := cat + "/" + file

		if !s.window.TryAdd(key) {
			continue
		}
		posts = append(posts, NewPost(cat, file))
	}

	return posts
}
