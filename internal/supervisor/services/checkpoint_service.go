// ClipFeed - Self-Hosted Short-Video Feed Server
// Copyright 2026 ClipFeed Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/clipfeed/clipfeed

package services

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/clipfeed/clipfeed/internal/metrics"
	"github.com/clipfeed/clipfeed/internal/recommend"
)

// BehaviorSource yields the current behavior map for checkpointing.
type BehaviorSource interface {
	Snapshot() map[string]recommend.BehaviorEntry
}

// RecentSource yields the recency window contents, oldest first.
type RecentSource interface {
	Keys() []string
}

// CheckpointStore persists behavior and the recency window.
type CheckpointStore interface {
	SaveBehavior(entries map[string]recommend.BehaviorEntry) error
	SaveRecent(keys []string) error
}

// CheckpointService periodically flushes behavior and the recency window.
// Persistence is best-effort by contract: a failed flush is logged and
// counted, never surfaced to request handlers, and overlapping writes are
// last-writer-wins. A final flush runs on shutdown.
type CheckpointService struct {
	behavior BehaviorSource
	recent   RecentSource
	store    CheckpointStore
	interval time.Duration
	logger   zerolog.Logger
}

// NewCheckpointService creates the checkpoint loop.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewCheckpointService(behavior BehaviorSource, recent RecentSource, store CheckpointStore, interval time.Duration, logger zerolog.Logger) *CheckpointService {
	if interval <= 0 {
		interval = 30 * time.Second
	}
	return &CheckpointService{
		behavior: behavior,
		recent:   recent,
		store:    store,
		interval: interval,
		logger:   logger.With().Str("service", "checkpoint").Logger(),
	}
}

// Serve implements suture.Service.
func (s *CheckpointService) Serve(ctx context.Context) error {
	s.logger.Info().Dur("interval", s.interval).Msg("checkpoint service starting")

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			s.flush()
			s.logger.Info().Msg("checkpoint service shutting down")
			return ctx.Err()
		case <-ticker.C:
			s.flush()
		}
	}
}

func (s *CheckpointService) flush() {
	if err := s.store.SaveBehavior(s.behavior.Snapshot()); err != nil {
		metrics.CheckpointErrors.Inc()
		s.logger.Warn().Err(err).Msg("behavior checkpoint failed")
	}
	if err := s.store.SaveRecent(s.recent.Keys()); err != nil {
		metrics.CheckpointErrors.Inc()
		s.logger.Warn().Err(err).Msg("recent window checkpoint failed")
	}
}

// String identifies the service in suture logs.
func (s *CheckpointService) String() string {
	return "checkpoint"
}
