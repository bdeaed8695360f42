// ClipFeed - Self-Hosted Short-Video Feed Server
// Copyright 2026 ClipFeed Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/clipfeed/clipfeed

// Package metrics exposes Prometheus instrumentation for the feed pipeline.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP metrics
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "clipfeed_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route", "status"},
	)

	// Feed metrics
	FeedPostsEmitted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "clipfeed_feed_posts_emitted_total",
			Help: "Total posts emitted to feeds",
		},
		[]string{"source"}, // "sampled" or "personalized"
	)

	FeedSampleUnderfills = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "clipfeed_feed_sample_underfills_total",
			Help: "Sample calls that returned fewer posts than requested",
		},
	)

	RecentWindowSize = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "clipfeed_recent_window_keys",
			Help: "Keys currently held in the recency window",
		},
	)

	// Catalog metrics
	CatalogItems = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "clipfeed_catalog_items",
			Help: "Items in the current catalog snapshot",
		},
	)

	CatalogCategories = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "clipfeed_catalog_categories",
			Help: "Categories in the current catalog snapshot",
		},
	)

	IndexRebuildDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "clipfeed_index_rebuild_duration_seconds",
			Help:    "Duration of catalog index rebuilds in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	// Tracking metrics
	TrackEvents = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "clipfeed_track_events_total",
			Help: "Tracking events applied, by action",
		},
		[]string{"action"}, // "watch", "like", "skip"
	)

	// Persistence metrics
	CheckpointErrors = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "clipfeed_checkpoint_errors_total",
			Help: "Best-effort persistence checkpoints that failed",
		},
	)
)

// RecordRebuild updates catalog gauges after an index rebuild.
func RecordRebuild(items, categories int, elapsed time.Duration) {
	CatalogItems.Set(float64(items))
	CatalogCategories.Set(float64(categories))
	IndexRebuildDuration.Observe(elapsed.Seconds())
}

// RecordFeedPage accounts one served feed page.
func RecordFeedPage(sampled, personalized, requested int) {
	FeedPostsEmitted.WithLabelValues("sampled").Add(float64(sampled))
	FeedPostsEmitted.WithLabelValues("personalized").Add(float64(personalized))
	if sampled+personalized < requested {
		FeedSampleUnderfills.Inc()
	}
}
