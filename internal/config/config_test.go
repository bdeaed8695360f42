// ClipFeed - Self-Hosted Short-Video Feed Server
// Copyright 2026 ClipFeed Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/clipfeed/clipfeed

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultsValidate(t *testing.T) {
	cfg := defaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("built-in defaults must validate: %v", err)
	}
	if cfg.Server.Addr() != "0.0.0.0:8080" {
		t.Errorf("Addr() = %q", cfg.Server.Addr())
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero port", func(c *Config) { c.Server.Port = 0 }},
		{"lambda above one", func(c *Config) { c.Recommend.Lambda = 1.5 }},
		{"zero page size", func(c *Config) { c.Feed.PageSize = 0 }},
		{"empty library root", func(c *Config) { c.Library.Root = "" }},
		{"bad log level", func(c *Config) { c.Logging.Level = "verbose" }},
		{"sub-second scan interval", func(c *Config) { c.Library.ScanInterval = time.Millisecond }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := defaultConfig()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	yaml := `
server:
  port: 9090
library:
  root: /media/clips
feed:
  page_size: 25
`
	if err := os.WriteFile(path, []byte(yaml), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv(ConfigPathEnvVar, path)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Port != 9090 {
		t.Errorf("Server.Port = %d, want 9090", cfg.Server.Port)
	}
	if cfg.Library.Root != "/media/clips" {
		t.Errorf("Library.Root = %q", cfg.Library.Root)
	}
	if cfg.Feed.PageSize != 25 {
		t.Errorf("Feed.PageSize = %d, want 25", cfg.Feed.PageSize)
	}
	// Untouched sections keep defaults.
	if cfg.Feed.RecentWindowSize != 50 {
		t.Errorf("Feed.RecentWindowSize = %d, want default 50", cfg.Feed.RecentWindowSize)
	}
}

func TestEnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("server:\n  port: 9090\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv(ConfigPathEnvVar, path)
	t.Setenv("CLIPFEED_SERVER_PORT", "7070")
	t.Setenv("CLIPFEED_LIBRARY_SCAN_INTERVAL", "30s")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Port != 7070 {
		t.Errorf("Server.Port = %d, want env override 7070", cfg.Server.Port)
	}
	if cfg.Library.ScanInterval != 30*time.Second {
		t.Errorf("Library.ScanInterval = %v, want 30s", cfg.Library.ScanInterval)
	}
}

func TestEnvTransform(t *testing.T) {
	known := []string{"server.port", "server.read_timeout", "library.scan_interval"}
	fn := envTransform(known)

	tests := []struct {
		in   string
		want string
	}{
		{"CLIPFEED_SERVER_PORT", "server.port"},
		{"CLIPFEED_SERVER_READ_TIMEOUT", "server.read_timeout"},
		{"CLIPFEED_LIBRARY_SCAN_INTERVAL", "library.scan_interval"},
	}
	for _, tt := range tests {
		if got := fn(tt.in); got != tt.want {
			t.Errorf("envTransform(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
