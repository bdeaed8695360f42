// ClipFeed - Self-Hosted Short-Video Feed Server
// Copyright 2026 ClipFeed Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/clipfeed/clipfeed

// Package library discovers the on-disk video catalog and keeps thumbnails
// alongside the media.
package library

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/clipfeed/clipfeed/internal/logging"
)

// videoExtensions are the file types served in feeds, lowercase with dot.
var videoExtensions = map[string]struct{}{
	".mp4":  {},
	".mov":  {},
	".webm": {},
	".avi":  {},
	".mkv":  {},
}

// Scanner walks a library root one level deep: each immediate subdirectory
// is a category and its video files are the category's items. Deeper nesting
// and non-video files are ignored.
type Scanner struct {
	root string
}

// NewScanner creates a scanner over root.
func NewScanner(root string) *Scanner {
	return &Scanner{root: root}
}

// Root returns the library root path.
func (s *Scanner) Root() string {
	return s.root
}

// Scan returns the category-to-sorted-filelist map. A missing or unreadable
// root yields an empty map: the server keeps running with an empty catalog
// until the library appears.
func (s *Scanner) Scan() map[string][]string {
	fileMap := make(map[string][]string)

	dirs, err := os.ReadDir(s.root)
	if err != nil {
		logging.Warn().Err(err).Str("root", s.root).Msg("library root not readable, catalog empty")
		return fileMap
	}

	for _, d := range dirs {
		if !d.IsDir() {
			continue
		}
		category := d.Name()
		entries, err := os.ReadDir(filepath.Join(s.root, category))
		if err != nil {
			logging.Warn().Err(err).Str("category", category).Msg("skipping unreadable category")
			continue
		}

		var files []string
		for _, e := range entries {
			if e.IsDir() {
				continue
			}
			ext := strings.ToLower(filepath.Ext(e.Name()))
			if _, ok := videoExtensions[ext]; ok {
				files = append(files, e.Name())
			}
		}
		if len(files) == 0 {
			continue
		}
		sort.Strings(files)
		fileMap[category] = files
	}

	return fileMap
}
