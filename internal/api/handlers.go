// ClipFeed - Self-Hosted Short-Video Feed Server
// Copyright 2026 ClipFeed Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/clipfeed/clipfeed

package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/goccy/go-json"

	"github.com/clipfeed/clipfeed/internal/feed"
	"github.com/clipfeed/clipfeed/internal/logging"
	"github.com/clipfeed/clipfeed/internal/metrics"
	"github.com/clipfeed/clipfeed/internal/store"
)

const maxPageSize = 100

// handleFeed serves one feed page: a few personalized recommendations in
// front, the rest drawn by the sampler. Every emitted key lands in the
// recency window, so neither surface repeats the other in the near term.
// Pages can come back short when the catalog is small or mostly recent;
// that is normal operation, not an error.
func (rt *Router) handleFeed(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	offset, ok := queryInt(r, "offset", 0)
	if !ok || offset < 0 {
		rw.BadRequest("offset must be a non-negative integer")
		return
	}
	limit, ok := queryInt(r, "limit", rt.feedCfg.PageSize)
	if !ok || limit < 1 || limit > maxPageSize {
		rw.BadRequest("limit must be between 1 and 100")
		return
	}

	personalizedCount := rt.feedCfg.PersonalizedPerPage
	if personalizedCount > limit {
		personalizedCount = limit
	}

	posts := make([]feed.Post, 0, limit)
	for _, item := range rt.recommender.Recommend(rt.tracker.Snapshot(), rt.window, personalizedCount) {
		rt.window.Add(item.Key)
		posts = append(posts, feed.NewPost(item.Category, item.File))
	}
	personalized := len(posts)

	sampled := rt.sampler.Sample(offset, limit-personalized)
	posts = append(posts, sampled...)

	metrics.RecordFeedPage(len(sampled), personalized, limit)
	metrics.RecentWindowSize.Set(float64(rt.window.Len()))

	rw.SuccessWithMeta(posts, &APIMeta{Count: len(posts), Offset: offset})
}

// handleTrack ingests one interaction event from the player.
func (rt *Router) handleTrack(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	var ev store.TrackEvent
	if err := json.NewDecoder(r.Body).Decode(&ev); err != nil {
		rw.BadRequest("invalid JSON body")
		return
	}
	if err := rt.validate.Struct(ev); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			details := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				details = append(details, fe.Field()+": failed "+fe.Tag())
			}
			rw.ValidationFailed("invalid tracking event", details)
			return
		}
		rw.BadRequest("invalid tracking event")
		return
	}

	rt.tracker.Apply(ev)

	if ev.WatchTime != nil {
		metrics.TrackEvents.WithLabelValues("watch").Inc()
	}
	if ev.Action != "" {
		metrics.TrackEvents.WithLabelValues(ev.Action).Inc()
	}
	logging.Ctx(r.Context()).Debug().
		Str("key", ev.Key).
		Str("action", ev.Action).
		Msg("tracking event applied")

	rw.Success(map[string]string{"status": "recorded"})
}

// handleRecommendations returns the current personalized ranking without
// touching the recency window, so clients can preview it repeatedly.
func (rt *Router) handleRecommendations(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	limit, ok := queryInt(r, "limit", rt.feedCfg.PageSize)
	if !ok || limit < 1 || limit > maxPageSize {
		rw.BadRequest("limit must be between 1 and 100")
		return
	}

	items := rt.recommender.Recommend(rt.tracker.Snapshot(), rt.window, limit)
	posts := make([]feed.Post, 0, len(items))
	for _, item := range items {
		posts = append(posts, feed.NewPost(item.Category, item.File))
	}

	rw.SuccessWithMeta(posts, &APIMeta{Count: len(posts)})
}

// catalogCategory is one category summary in the catalog response.
type catalogCategory struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// handleCatalog reports the current snapshot contents.
func (rt *Router) handleCatalog(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	snap := rt.recommender.Snapshot()
	categories := make([]catalogCategory, 0, len(snap.Categories))
	for _, cat := range snap.Categories {
		categories = append(categories, catalogCategory{
			Name:  cat,
			Count: len(snap.Files[cat]),
		})
	}

	rw.Success(map[string]interface{}{
		"items":      snap.Len(),
		"clusters":   len(snap.Centroids),
		"categories": categories,
	})
}

// handleHealth is the liveness probe.
func (rt *Router) handleHealth(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	rw.Success(map[string]interface{}{
		"status":  "ok",
		"items":   rt.recommender.Snapshot().Len(),
		"tracked": rt.tracker.Len(),
	})
}

// queryInt parses an integer query parameter, returning def when absent.
func queryInt(r *http.Request, name string, def int) (int, bool) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, true
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}
	return v, true
}
