// ClipFeed - Self-Hosted Short-Video Feed Server
// Copyright 2026 ClipFeed Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/clipfeed/clipfeed

package feed

import (
	"net/url"
	"path"
	"strings"
)

// Post is the wire shape of one feed entry as the player consumes it.
type Post struct {
	VideoURL     string `json:"videoUrl"`
	ThumbnailURL string `json:"thumbnailUrl"`
	User         string `json:"user"`
	Caption      string `json:"caption"`
	Song         string `json:"song"`
}

// NewPost builds the descriptor for a catalog item. Category and file are
// percent-encoded in the URLs; the thumbnail is the file's stem with a .webp
// extension, matching what the thumbnailer writes.
func NewPost(category, file string) Post {
	stem := strings.TrimSuffix(file, path.Ext(file))
	return Post{
		VideoURL:     "/videos/" + url.PathEscape(category) + "/" + url.PathEscape(file),
		ThumbnailURL: "/videos/" + url.PathEscape(category) + "/" + url.PathEscape(stem+".webp"),
		User:         category,
		Caption:      file,
		Song:         "",
	}
}
