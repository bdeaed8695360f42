// ClipFeed - Self-Hosted Short-Video Feed Server
// Copyright 2026 ClipFeed Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/clipfeed/clipfeed

// Package recommend builds the catalog index, clusters item features, and
// produces profile-weighted, diversity-reranked recommendation lists.
package recommend

// Item is one catalog entry with its synthesized feature vector.
// Items are immutable once a snapshot is built.
type Item struct {
	// Key is "<category>/<file>" and uniquely identifies the item.
	Key string `json:"key"`

	// Category is the library subdirectory the item was found in.
	Category string `json:"category"`

	// File is the bare filename within the category.
	File string `json:"file"`

	// Feature is the unit-norm feature vector (zero vector if the raw
	// synthesis produced all zeros).
	Feature []float64 `json:"-"`
}

// BehaviorEntry accumulates a user's interaction signal for one item.
// Entries are mutated additively by tracking events and never deleted.
type BehaviorEntry struct {
	Key              string  `json:"key"`
	WatchTimeSeconds float64 `json:"watchTimeSeconds"`
	LikeCount        int     `json:"likeCount"`
}

// Weight is the scalar importance of this entry when building a profile
// vector: watch seconds plus a fixed bonus per like.
func (e BehaviorEntry) Weight(likeWeight float64) float64 {
	return e.WatchTimeSeconds + likeWeight*float64(e.LikeCount)
}

// Excluder reports whether a key should be filtered out of results.
// The feed recency window satisfies this.
type Excluder interface {
	Contains(key string) bool
}

// KeySet is a map-backed Excluder for fixed exclusion sets.
type KeySet map[string]struct{}

// Contains implements Excluder.
func (s KeySet) Contains(key string) bool {
	_, ok := s[key]
	return ok
}

var _ Excluder = KeySet(nil)

// Config tunes the recommendation pipeline. Zero values take defaults.
type Config struct {
	// Lambda is the MMR relevance/diversity mixing parameter in (0,1].
	// Higher values favor relevance. Default: 0.65
	Lambda float64 `koanf:"lambda"`

	// LikeWeight is the watch-seconds-equivalent value of one like when
	// weighting behavior entries. Default: 3
	LikeWeight float64 `koanf:"like_weight"`

	// MaxRounds caps KMeans iterations per rebuild. Default: 40
	MaxRounds int `koanf:"max_rounds"`
}

// DefaultConfig returns the production defaults.
func DefaultConfig() Config {
	return Config{
		Lambda:     0.65,
		LikeWeight: 3,
		MaxRounds:  40,
	}
}

func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.Lambda <= 0 || c.Lambda > 1 {
		c.Lambda = d.Lambda
	}
	if c.LikeWeight <= 0 {
		c.LikeWeight = d.LikeWeight
	}
	if c.MaxRounds <= 0 {
		c.MaxRounds = d.MaxRounds
	}
	return c
}
