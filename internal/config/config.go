// ClipFeed - Self-Hosted Short-Video Feed Server
// Copyright 2026 ClipFeed Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/clipfeed/clipfeed

// Package config holds the layered ClipFeed configuration: built-in
// defaults, an optional YAML file, then CLIPFEED_* environment variables,
// highest last.
package config

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
)

// Config is the full server configuration.
type Config struct {
	Server    ServerConfig    `koanf:"server"`
	Library   LibraryConfig   `koanf:"library"`
	Feed      FeedConfig      `koanf:"feed"`
	Recommend RecommendConfig `koanf:"recommend"`
	Store     StoreConfig     `koanf:"store"`
	Logging   LoggingConfig   `koanf:"logging"`
}

// ServerConfig configures the HTTP listener.
type ServerConfig struct {
	Host            string        `koanf:"host" validate:"required"`
	Port            int           `koanf:"port" validate:"min=1,max=65535"`
	ReadTimeout     time.Duration `koanf:"read_timeout" validate:"min=0"`
	WriteTimeout    time.Duration `koanf:"write_timeout" validate:"min=0"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout" validate:"min=0"`

	// CORSOrigins lists allowed origins; empty allows any origin, which
	// suits the single-user LAN deployment this server targets.
	CORSOrigins []string `koanf:"cors_origins"`

	// RateLimit caps requests per client IP per minute. 0 disables.
	RateLimit int `koanf:"rate_limit" validate:"min=0"`
}

// LibraryConfig configures catalog discovery and thumbnails.
type LibraryConfig struct {
	// Root is the directory whose subdirectories are feed categories.
	Root string `koanf:"root" validate:"required"`

	// ScanInterval is how often the library is rescanned and the
	// recommendation index rebuilt.
	ScanInterval time.Duration `koanf:"scan_interval" validate:"min=1s"`

	// Thumbnails toggles poster extraction via ffmpeg.
	Thumbnails bool `koanf:"thumbnails"`

	// FFmpegPath overrides the ffmpeg binary location.
	FFmpegPath string `koanf:"ffmpeg_path"`

	// ThumbnailsPerSecond rate-limits extraction.
	ThumbnailsPerSecond float64 `koanf:"thumbnails_per_second" validate:"min=0"`
}

// FeedConfig configures feed page composition.
type FeedConfig struct {
	// PageSize is the default number of posts per feed page.
	PageSize int `koanf:"page_size" validate:"min=1,max=100"`

	// PersonalizedPerPage is how many recommendation slots are mixed into
	// each page in front of the sampled posts.
	PersonalizedPerPage int `koanf:"personalized_per_page" validate:"min=0,max=100"`

	// RecentWindowSize bounds the recency-exclusion window.
	RecentWindowSize int `koanf:"recent_window_size" validate:"min=1"`
}

// RecommendConfig configures the ranking pipeline.
type RecommendConfig struct {
	// Lambda is the MMR relevance/diversity mix, in (0,1].
	Lambda float64 `koanf:"lambda" validate:"gt=0,lte=1"`

	// LikeWeight is the watch-seconds value of one like.
	LikeWeight float64 `koanf:"like_weight" validate:"gt=0"`
}

// StoreConfig configures persistence.
type StoreConfig struct {
	// Path is the BadgerDB directory.
	Path string `koanf:"path" validate:"required"`

	// CheckpointInterval is how often behavior and the recency window are
	// flushed. Checkpointing is best-effort; a failed flush is logged.
	CheckpointInterval time.Duration `koanf:"checkpoint_interval" validate:"min=1s"`
}

// LoggingConfig configures the zerolog output.
type LoggingConfig struct {
	Level  string `koanf:"level" validate:"oneof=trace debug info warn error disabled"`
	Format string `koanf:"format" validate:"oneof=json console"`
	Caller bool   `koanf:"caller"`
}

// defaultConfig returns the built-in defaults applied before file and env
// layers.
func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            8080,
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    60 * time.Second,
			ShutdownTimeout: 10 * time.Second,
			RateLimit:       300,
		},
		Library: LibraryConfig{
			Root:                "/videos",
			ScanInterval:        5 * time.Minute,
			Thumbnails:          true,
			FFmpegPath:          "ffmpeg",
			ThumbnailsPerSecond: 2,
		},
		Feed: FeedConfig{
			PageSize:            10,
			PersonalizedPerPage: 2,
			RecentWindowSize:    50,
		},
		Recommend: RecommendConfig{
			Lambda:     0.65,
			LikeWeight: 3,
		},
		Store: StoreConfig{
			Path:               "/data/clipfeed",
			CheckpointInterval: 30 * time.Second,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// Validate checks the configuration against its struct tags.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

// Addr returns the host:port listen address.
func (c *ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}
