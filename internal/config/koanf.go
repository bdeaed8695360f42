// ClipFeed - Self-Hosted Short-Video Feed Server
// Copyright 2026 ClipFeed Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/clipfeed/clipfeed

package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths are searched in order; the first existing file wins.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/clipfeed/config.yaml",
	"/etc/clipfeed/config.yml",
}

// ConfigPathEnvVar overrides the config file search.
const ConfigPathEnvVar = "CLIPFEED_CONFIG"

// envPrefix scopes the environment variable layer.
const envPrefix = "CLIPFEED_"

// Load builds the configuration from three layers: struct defaults, an
// optional YAML file, and CLIPFEED_* environment variables, each overriding
// the previous. CLIPFEED_SERVER_PORT maps to server.port,
// CLIPFEED_LIBRARY_SCAN_INTERVAL to library.scan_interval, and so on;
// compound key names are resolved against the known koanf paths.
func Load() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("load defaults: %w", err)
	}

	if path := findConfigFile(); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("load config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(envPrefix, ".", envTransform(k.Keys())), nil); err != nil {
		return nil, fmt.Errorf("load environment: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshal configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// findConfigFile returns the first readable config file path, or "".
func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}
	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// envTransform maps CLIPFEED_SECTION_FIELD_NAME to the matching known koanf
// path. Underscores are ambiguous (section separator vs multi-word field),
// so the candidate is checked against the default key set, longest section
// first.
func envTransform(knownKeys []string) func(string) string {
	known := make(map[string]struct{}, len(knownKeys))
	for _, k := range knownKeys {
		known[k] = struct{}{}
	}
	return func(key string) string {
		key = strings.ToLower(strings.TrimPrefix(key, envPrefix))
		parts := strings.Split(key, "_")
		for i := len(parts) - 1; i >= 1; i-- {
			candidate := strings.Join(parts[:i], "_") + "." + strings.Join(parts[i:], "_")
			if _, ok := known[candidate]; ok {
				return candidate
			}
		}
		// Unknown variable; pass it through dotted so it is simply unused.
		return strings.ReplaceAll(key, "_", ".")
	}
}
