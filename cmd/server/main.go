// ClipFeed - Self-Hosted Short-Video Feed Server
// Copyright 2026 ClipFeed Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/clipfeed/clipfeed

// Package main is the entry point for the ClipFeed server.
//
// ClipFeed serves a swipeable short-video feed from a local library. Each
// subdirectory of the library root is a category; the server scans it
// periodically, synthesizes deterministic feature vectors for every clip,
// clusters them, and serves feed pages that mix pseudo-random sampling with
// profile-weighted, diversity-reranked recommendations built from the
// watch/like signal the player reports back.
//
// Startup order:
//
//  1. Configuration (koanf: defaults, optional YAML, CLIPFEED_* env)
//  2. Logging (zerolog)
//  3. BadgerDB store; persisted behavior and recency window are loaded
//  4. Initial library scan and index build
//  5. Supervisor tree: HTTP server, scan loop, checkpoint loop
//
// Shutdown on SIGINT/SIGTERM is graceful: the HTTP listener drains, the
// checkpoint service flushes once more, and the store closes.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/clipfeed/clipfeed/internal/api"
	"github.com/clipfeed/clipfeed/internal/config"
	"github.com/clipfeed/clipfeed/internal/feature"
	"github.com/clipfeed/clipfeed/internal/feed"
	"github.com/clipfeed/clipfeed/internal/library"
	"github.com/clipfeed/clipfeed/internal/logging"
	"github.com/clipfeed/clipfeed/internal/recommend"
	"github.com/clipfeed/clipfeed/internal/store"
	"github.com/clipfeed/clipfeed/internal/supervisor"
	"github.com/clipfeed/clipfeed/internal/supervisor/services"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})
	logging.Info().
		Str("library", cfg.Library.Root).
		Str("store", cfg.Store.Path).
		Str("addr", cfg.Server.Addr()).
		Msg("starting clipfeed")

	db, err := store.Open(cfg.Store.Path)
	if err != nil {
		logging.Fatal().Err(err).Msg("failed to open store")
	}
	defer func() {
		if err := db.Close(); err != nil {
			logging.Error().Err(err).Msg("error closing store")
		}
	}()

	// Restore persisted state. Both loads degrade to empty on corruption.
	tracker := store.NewTracker()
	if behavior, err := db.LoadBehavior(); err != nil {
		logging.Warn().Err(err).Msg("behavior load failed, starting empty")
	} else {
		tracker.Replace(behavior)
	}

	window := feed.NewRecentWindow(cfg.Feed.RecentWindowSize)
	if keys, err := db.LoadRecent(); err != nil {
		logging.Warn().Err(err).Msg("recent window load failed, starting empty")
	} else {
		window.Restore(keys)
	}
	logging.Info().
		Int("tracked_items", tracker.Len()).
		Int("recent_keys", window.Len()).
		Msg("persisted state restored")

	recommender := recommend.NewRecommender(recommend.Config{
		Lambda:     cfg.Recommend.Lambda,
		LikeWeight: cfg.Recommend.LikeWeight,
	}, feature.NewSynthesizer(feature.Config{}))

	scanner := library.NewScanner(cfg.Library.Root)
	recommender.Build(scanner.Scan())

	var thumbs services.ThumbnailExtractor
	if cfg.Library.Thumbnails {
		thumbs = library.NewThumbnailer(library.ThumbnailerConfig{
			FFmpegPath: cfg.Library.FFmpegPath,
			PerSecond:  cfg.Library.ThumbnailsPerSecond,
		})
	}

	// The sampler reseeds per process so a restart reshuffles the feed.
	baseSeed := uint32(time.Now().UnixNano())
	sampler := feed.NewSampler(recommender, window, baseSeed)

	router := api.NewRouter(cfg.Feed, recommender, sampler, window, tracker, cfg.Library.Root)
	httpServer := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      router.Handler(cfg.Server),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	tree := supervisor.NewTree(logging.NewSlogLogger(), supervisor.TreeConfig{
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
	})
	tree.Add(services.NewHTTPServerService(httpServer, cfg.Server.ShutdownTimeout))
	tree.Add(services.NewScanService(scanner, recommender, thumbs, cfg.Library.ScanInterval, logging.Logger()))
	tree.Add(services.NewCheckpointService(tracker, window, db, cfg.Store.CheckpointInterval, logging.Logger()))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logging.Info().Msg("supervisor tree starting")
	if err := tree.Serve(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logging.Error().Err(err).Msg("supervisor tree exited with error")
		os.Exit(1)
	}
	logging.Info().Msg("shutdown complete")
}
