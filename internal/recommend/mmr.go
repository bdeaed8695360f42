// ClipFeed - Self-Hosted Short-Video Feed Server
// Copyright 2026 ClipFeed Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/clipfeed/clipfeed

package recommend

import "github.com/clipfeed/clipfeed/internal/feature"

// candidate pairs an item with its relevance to the profile vector.
type candidate struct {
	item      Item
	relevance float64
}

// rerankMMR selects up to limit candidates by Maximal Marginal Relevance:
// each round picks the remaining candidate maximizing
//
//	lambda*relevance - (1-lambda)*maxSimilarityToSelected
//
// Ties keep the earliest candidate in encounter order. The first pick has no
// selected set, so it is simply the most relevant candidate.
//
// O(limit * n * d); n and limit are small enough here that incremental
// max-similarity caching is not worth the bookkeeping.
func rerankMMR(candidates []candidate, limit int, lambda float64) []Item {
	if limit <= 0 || len(candidates) == 0 {
		return nil
	}
	if limit > len(candidates) {
		limit = len(candidates)
	}

	selected := make([]Item, 0, limit)
	remaining := append([]candidate(nil), candidates...)

	for len(selected) < limit && len(remaining) > 0 {
		bestIdx := 0
		bestScore := mmrScore(remaining[0], selected, lambda)
		for i := 1; i < len(remaining); i++ {
			if score := mmrScore(remaining[i], selected, lambda); score > bestScore {
				bestScore = score
				bestIdx = i
			}
		}
		selected = append(selected, remaining[bestIdx].item)
		remaining = append(remaining[:bestIdx], remaining[bestIdx+1:]...)
	}

	return selected
}

func mmrScore(c candidate, selected []Item, lambda float64) float64 {
	maxSim := 0.0
	for i, s := range selected {
		sim := feature.Cosine(c.item.Feature, s.Feature)
		if i == 0 || sim > maxSim {
			maxSim = sim
		}
	}
	return lambda*c.relevance - (1-lambda)*maxSim
}
