// ClipFeed - Self-Hosted Short-Video Feed Server
// Copyright 2026 ClipFeed Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/clipfeed/clipfeed

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/clipfeed/clipfeed/internal/config"
	"github.com/clipfeed/clipfeed/internal/feed"
	"github.com/clipfeed/clipfeed/internal/recommend"
	"github.com/clipfeed/clipfeed/internal/store"
)

// Router wires the HTTP endpoints to the feed pipeline.
type Router struct {
	feedCfg     config.FeedConfig
	recommender *recommend.Recommender
	sampler     *feed.Sampler
	window      *feed.RecentWindow
	tracker     *store.Tracker
	videoRoot   string
	validate    *validator.Validate
}

// NewRouter creates the API router.
func NewRouter(
	feedCfg config.FeedConfig,
	recommender *recommend.Recommender,
	sampler *feed.Sampler,
	window *feed.RecentWindow,
	tracker *store.Tracker,
	videoRoot string,
) *Router {
	return &Router{
		feedCfg:     feedCfg,
		recommender: recommender,
		sampler:     sampler,
		window:      window,
		tracker:     tracker,
		videoRoot:   videoRoot,
		validate:    validator.New(),
	}
}

// Handler builds the full route tree.
func (rt *Router) Handler(serverCfg config.ServerConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(requestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(accessLog)
	r.Use(corsMiddleware(serverCfg.CORSOrigins))

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(instrument)
		r.Use(rateLimit(serverCfg.RateLimit))

		r.Get("/feed", rt.handleFeed)
		r.Post("/track", rt.handleTrack)
		r.Get("/recommendations", rt.handleRecommendations)
		r.Get("/catalog", rt.handleCatalog)
		r.Get("/health", rt.handleHealth)
	})

	r.Handle("/metrics", promhttp.Handler())

	// Raw media and thumbnails, straight off the library root.
	fileServer := http.StripPrefix("/videos/", http.FileServer(http.Dir(rt.videoRoot)))
	r.Get("/videos/*", func(w http.ResponseWriter, r *http.Request) {
		fileServer.ServeHTTP(w, r)
	})

	return r
}
