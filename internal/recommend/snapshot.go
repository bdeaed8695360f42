// ClipFeed - Self-Hosted Short-Video Feed Server
// Copyright 2026 ClipFeed Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/clipfeed/clipfeed

package recommend

import (
	"sort"
)

// Snapshot is one fully-built, immutable view of the catalog: items in
// catalog order, the key lookup, cluster state, and the per-category file
// lists the feed sampler draws from. Rebuilds construct a fresh Snapshot and
// publish it with a single atomic pointer swap, so a concurrent reader never
// observes items from one build paired with lookups from another.
type Snapshot struct {
	// Items in catalog order: categories sorted lexically, files in the
	// order the scanner supplied them (sorted) within each category.
	Items []Item

	// Ordinals maps item key to its index in Items.
	Ordinals map[string]int

	// Categories is the sorted category list.
	Categories []string

	// Files maps category to its ordered file list.
	Files map[string][]string

	// Labels[i] is the cluster assignment of Items[i]; Centroids holds the
	// final cluster centers. Computed on every rebuild, currently advisory.
	Labels    []int
	Centroids [][]float64
}

// emptySnapshot is what readers see before the first build.
var emptySnapshot = &Snapshot{
	Ordinals: map[string]int{},
	Files:    map[string][]string{},
}

// Item returns the item for key and whether it exists in this snapshot.
func (s *Snapshot) Item(key string) (Item, bool) {
	i, ok := s.Ordinals[key]
	if !ok {
		return Item{}, false
	}
	return s.Items[i], true
}

// Len returns the number of catalog items.
func (s *Snapshot) Len() int {
	return len(s.Items)
}

// buildSnapshot synthesizes features for every file in fileMap and clusters
// them. An empty map produces an empty snapshot.
func buildSnapshot(fileMap map[string][]string, synth featureSource, maxRounds int) *Snapshot {
	categories := make([]string, 0, len(fileMap))
	total := 0
	for cat, files := range fileMap {
		categories = append(categories, cat)
		total += len(files)
	}
	sort.Strings(categories)

	snap := &Snapshot{
		Items:      make([]Item, 0, total),
		Ordinals:   make(map[string]int, total),
		Categories: categories,
		Files:      make(map[string][]string, len(fileMap)),
	}

	vectors := make([][]float64, 0, total)
	for _, cat := range categories {
		files := append([]string(nil), fileMap[cat]...)
		snap.Files[cat] = files
		for _, f := range files {
			key := cat + "/" + f
			if _, dup := snap.Ordinals[key]; dup {
				continue
			}
			vec := synth.Synthesize(key, f)
			snap.Ordinals[key] = len(snap.Items)
			snap.Items = append(snap.Items, Item{
				Key:      key,
				Category: cat,
				File:     f,
				Feature:  vec,
			})
			vectors = append(vectors, vec)
		}
	}

	snap.Labels, snap.Centroids = kmeans(vectors, maxRounds)
	return snap
}

// featureSource is the vector synthesis dependency of the index build.
type featureSource interface {
	Synthesize(key, filename string) []float64
}
