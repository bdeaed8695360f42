// ClipFeed - Self-Hosted Short-Video Feed Server
// Copyright 2026 ClipFeed Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/clipfeed/clipfeed

package recommend

import (
	"math"

	"github.com/clipfeed/clipfeed/internal/feature"
)

// kmeansSeed fixes the centroid-initialization draw so rebuilds of an
// unchanged catalog produce identical cluster assignments.
const kmeansSeed = "clipfeed:kmeans"

const (
	minClusters = 2
	maxClusters = 12
)

// clusterCount returns k for n items: floor(sqrt(n)) clamped to [2, 12],
// further capped at n so initial centroids can be distinct items.
func clusterCount(n int) int {
	if n == 0 {
		return 0
	}
	k := int(math.Sqrt(float64(n)))
	if k < minClusters {
		k = minClusters
	}
	if k > maxClusters {
		k = maxClusters
	}
	if k > n {
		k = n
	}
	return k
}

// kmeans partitions vectors into clusterCount(len(vectors)) clusters by
// squared Euclidean distance. It returns per-vector labels and the final
// centroids. Empty input yields empty results.
//
// The loop runs at most maxRounds assignment/update rounds and stops early
// when no vector changes cluster. Distance ties assign to the lowest cluster
// index; a cluster that loses all members keeps its previous centroid.
func kmeans(vectors [][]float64, maxRounds int) (labels []int, centroids [][]float64) {
	n := len(vectors)
	k := clusterCount(n)
	if k == 0 {
		return nil, nil
	}

	centroids = initialCentroids(vectors, k)
	labels = make([]int, n)
	for i := range labels {
		labels[i] = -1
	}

	for round := 0; round < maxRounds; round++ {
		changed := false
		for i, v := range vectors {
			best := 0
			bestDist := math.Inf(1)
			for c, cent := range centroids {
				if d := squaredDistance(v, cent); d < bestDist {
					bestDist = d
					best = c
				}
			}
			if labels[i] != best {
				labels[i] = best
				changed = true
			}
		}
		if !changed {
			break
		}

		dim := len(vectors[0])
		sums := make([][]float64, k)
		counts := make([]int, k)
		for c := range sums {
			sums[c] = make([]float64, dim)
		}
		for i, v := range vectors {
			c := labels[i]
			counts[c]++
			for j, x := range v {
				sums[c][j] += x
			}
		}
		for c := range centroids {
			if counts[c] == 0 {
				continue
			}
			for j := range sums[c] {
				sums[c][j] /= float64(counts[c])
			}
			centroids[c] = sums[c]
		}
	}

	return labels, centroids
}

// initialCentroids copies k distinct vectors chosen by the fixed-seed
// generator. Requires k <= len(vectors).
func initialCentroids(vectors [][]float64, k int) [][]float64 {
	rng := feature.NewRand(feature.Seed(kmeansSeed))
	chosen := make(map[int]struct{}, k)
	centroids := make([][]float64, 0, k)
	for len(centroids) < k {
		idx := rng.Intn(len(vectors))
		if _, dup := chosen[idx]; dup {
			continue
		}
		chosen[idx] = struct{}{}
		cent := make([]float64, len(vectors[idx]))
		copy(cent, vectors[idx])
		centroids = append(centroids, cent)
	}
	return centroids
}

func squaredDistance(a, b []float64) float64 {
	var sum float64
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return sum
}
