// ClipFeed - Self-Hosted Short-Video Feed Server
// Copyright 2026 ClipFeed Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/clipfeed/clipfeed

package library

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/clipfeed/clipfeed/internal/logging"
)

// Thumbnailer extracts a .webp poster frame for each video that lacks one,
// by shelling out to ffmpeg. Extraction is rate-limited so a large first
// scan does not saturate the host, and a failed extraction is logged and
// skipped; the feed serves such items without a poster.
type Thumbnailer struct {
	ffmpegPath string
	seekOffset string
	limiter    *rate.Limiter
	timeout    time.Duration
}

// ThumbnailerConfig tunes extraction. Zero values take defaults.
type ThumbnailerConfig struct {
	// FFmpegPath is the ffmpeg binary to invoke. Default: "ffmpeg" (PATH lookup)
	FFmpegPath string `koanf:"ffmpeg_path"`

	// PerSecond caps extractions per second. Default: 2
	PerSecond float64 `koanf:"per_second"`

	// Timeout bounds one ffmpeg invocation. Default: 30s
	Timeout time.Duration `koanf:"timeout"`
}

// NewThumbnailer creates a thumbnailer.
func NewThumbnailer(cfg ThumbnailerConfig) *Thumbnailer {
	if cfg.FFmpegPath == "" {
		cfg.FFmpegPath = "ffmpeg"
	}
	if cfg.PerSecond <= 0 {
		cfg.PerSecond = 2
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	return &Thumbnailer{
		ffmpegPath: cfg.FFmpegPath,
		seekOffset: "00:00:01",
		limiter:    rate.NewLimiter(rate.Limit(cfg.PerSecond), 1),
		timeout:    cfg.Timeout,
	}
}

// EnsureAll walks the scanned catalog and extracts any missing thumbnails.
// It returns early when ctx is canceled.
func (t *Thumbnailer) EnsureAll(ctx context.Context, root string, fileMap map[string][]string) {
	for category, files := range fileMap {
		for _, f := range files {
			if ctx.Err() != nil {
				return
			}
			videoPath := filepath.Join(root, category, f)
			thumbPath := ThumbnailPath(videoPath)
			if _, err := os.Stat(thumbPath); err == nil {
				continue
			}
			if err := t.limiter.Wait(ctx); err != nil {
				return
			}
			if err := t.extract(ctx, videoPath, thumbPath); err != nil {
				logging.Warn().Err(err).Str("video", videoPath).Msg("thumbnail extraction failed")
			}
		}
	}
}

// extract writes one poster frame. ffmpeg writes the output atomically
// enough for our purposes; a partial file from a killed run is overwritten
// on the next pass because -y forces replacement.
func (t *Thumbnailer) extract(ctx context.Context, videoPath, thumbPath string) error {
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, t.ffmpegPath,
		"-y",
		"-ss", t.seekOffset,
		"-i", videoPath,
		"-vframes", "1",
		"-vf", "scale=480:-1",
		thumbPath,
	)
	return cmd.Run()
}

// ThumbnailPath returns the poster path for a video: same directory, same
// stem, .webp extension.
func ThumbnailPath(videoPath string) string {
	ext := filepath.Ext(videoPath)
	return strings.TrimSuffix(videoPath, ext) + ".webp"
}
