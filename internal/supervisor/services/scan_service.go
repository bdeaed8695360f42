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
)

// LibraryScanner yields the category-to-filelist catalog view.
type LibraryScanner interface {
	Root() string
	Scan() map[string][]string
}

// IndexBuilder rebuilds the recommendation index from a scan result.
type IndexBuilder interface {
	Build(fileMap map[string][]string)
}

// ThumbnailExtractor fills in missing poster images. Optional.
type ThumbnailExtractor interface {
	EnsureAll(ctx context.Context, root string, fileMap map[string][]string)
}

// ScanService rescans the library on an interval and rebuilds the index.
// The first scan runs immediately on startup so the server never serves an
// empty catalog longer than one scan takes.
type ScanService struct {
	scanner  LibraryScanner
	builder  IndexBuilder
	thumbs   ThumbnailExtractor
	interval time.Duration
	logger   zerolog.Logger
}

// NewScanService creates the scan loop. thumbs may be nil to disable
// thumbnail extraction.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewScanService(scanner LibraryScanner, builder IndexBuilder, thumbs ThumbnailExtractor, interval time.Duration, logger zerolog.Logger) *ScanService {
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	return &ScanService{
		scanner:  scanner,
		builder:  builder,
		thumbs:   thumbs,
		interval: interval,
		logger:   logger.With().Str("service", "scan").Logger(),
	}
}

// Serve implements suture.Service.
func (s *ScanService) Serve(ctx context.Context) error {
	s.logger.Info().Dur("interval", s.interval).Msg("library scan service starting")

	s.scanOnce(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			s.logger.Info().Msg("library scan service shutting down")
			return ctx.Err()
		case <-ticker.C:
			s.scanOnce(ctx)
		}
	}
}

func (s *ScanService) scanOnce(ctx context.Context) {
	start := time.Now()
	fileMap := s.scanner.Scan()
	s.builder.Build(fileMap)

	items := 0
	for _, files := range fileMap {
		items += len(files)
	}
	metrics.RecordRebuild(items, len(fileMap), time.Since(start))
	s.logger.Debug().
		Int("items", items).
		Int("categories", len(fileMap)).
		Dur("elapsed", time.Since(start)).
		Msg("library scanned")

	if s.thumbs != nil {
		s.thumbs.EnsureAll(ctx, s.scanner.Root(), fileMap)
	}
}

// String identifies the service in suture logs.
func (s *ScanService) String() string {
	return "library-scan"
}
