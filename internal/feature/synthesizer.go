// ClipFeed - Self-Hosted Short-Video Feed Server
// Copyright 2026 ClipFeed Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/clipfeed/clipfeed

// Package feature derives deterministic numeric feature vectors for catalog
// items, and hosts the fixed pseudo-random generator shared by clustering
// initialization and feed sampling.
package feature

import (
	"math"
	"strings"
)

// Synthesizer turns an item's key and filename into a fixed-length feature
// vector without consulting the media itself.
//
// The vector is the concatenation of three sub-vectors:
//
//   - text: a bag-of-hashed-words histogram over filename tokens. Each token
//     is hashed to a bucket; collisions are allowed and unresolved, which
//     keeps the representation vocabulary-free.
//   - audio, visual: placeholder sub-vectors standing in for real signal
//     analysis. They are drawn from a generator seeded by the item key, so
//     an item's placeholders are identical across rebuilds and two items
//     never share them unless they share a key.
//
// The result is L2-normalized; a vector that is all zeros before
// normalization stays zero. Synthesize is pure: identical inputs always
// produce bit-identical output.
type Synthesizer struct {
	textDim   int
	audioDim  int
	visualDim int
}

// Config contains sub-vector sizes for the synthesizer.
type Config struct {
	// TextDim is the size of the hashed-token histogram. Default: 64
	TextDim int

	// AudioDim is the size of the audio placeholder sub-vector. Default: 8
	AudioDim int

	// VisualDim is the size of the visual placeholder sub-vector. Default: 8
	VisualDim int
}

// NewSynthesizer creates a synthesizer, applying defaults for zero values.
func NewSynthesizer(cfg Config) *Synthesizer {
	if cfg.TextDim <= 0 {
		cfg.TextDim = 64
	}
	if cfg.AudioDim <= 0 {
		cfg.AudioDim = 8
	}
	if cfg.VisualDim <= 0 {
		cfg.VisualDim = 8
	}
	return &Synthesizer{
		textDim:   cfg.TextDim,
		audioDim:  cfg.AudioDim,
		visualDim: cfg.VisualDim,
	}
}

// Dim returns the total vector length produced by Synthesize.
func (s *Synthesizer) Dim() int {
	return s.textDim + s.audioDim + s.visualDim
}

// Synthesize derives the feature vector for an item.
// key is the catalog key ("<category>/<file>"); filename is the bare file name.
func (s *Synthesizer) Synthesize(key, filename string) []float64 {
	vec := make([]float64, s.Dim())

	// Text histogram over filename tokens.
	for _, tok := range Tokenize(filename) {
		v := NewRand(Seed(tok)).Float64()
		bucket := int(v * float64(s.textDim))
		if bucket >= s.textDim {
			bucket = s.textDim - 1
		}
		vec[bucket]++
	}

	// Key-seeded placeholders for the unavailable audio/visual analysis.
	audio := NewRand(Seed(key + ":a"))
	for i := 0; i < s.audioDim; i++ {
		vec[s.textDim+i] = audio.Float64()
	}
	visual := NewRand(Seed(key + ":v"))
	for i := 0; i < s.visualDim; i++ {
		vec[s.textDim+s.audioDim+i] = visual.Float64()
	}

	Normalize(vec)
	return vec
}

// Tokenize lowercases a filename, maps every non-alphanumeric rune to a
// space, and splits on whitespace. Empty tokens are dropped.
func Tokenize(name string) []string {
	lower := strings.ToLower(name)
	mapped := strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			return r
		}
		return ' '
	}, lower)
	return strings.Fields(mapped)
}

// Normalize scales vec to unit Euclidean norm in place.
// A zero vector is left unchanged.
func Normalize(vec []float64) {
	var sum float64
	for _, v := range vec {
		sum += v * v
	}
	if sum == 0 {
		return
	}
	norm := math.Sqrt(sum)
	for i := range vec {
		vec[i] /= norm
	}
}

// Cosine returns the cosine similarity of two equal-length vectors.
// Returns 0 when either vector has zero norm.
func Cosine(a, b []float64) float64 {
	var dot, na, nb float64
	for i := range a {
		dot += a[i] * b[i]
		na += a[i] * a[i]
		nb += b[i] * b[i]
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}
