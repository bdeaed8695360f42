// ClipFeed - Self-Hosted Short-Video Feed Server
// Copyright 2026 ClipFeed Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/clipfeed/clipfeed

package library

import (
	"context"
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func writeFile(t *testing.T, path string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestScan(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "cats", "b.mp4"))
	writeFile(t, filepath.Join(root, "cats", "a.mp4"))
	writeFile(t, filepath.Join(root, "cats", "notes.txt"))
	writeFile(t, filepath.Join(root, "dogs", "d.webm"))
	writeFile(t, filepath.Join(root, "stray.mp4")) // files at root are ignored

	got := NewScanner(root).Scan()
	want := map[string][]string{
		"cats": {"a.mp4", "b.mp4"},
		"dogs": {"d.webm"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Scan() = %v, want %v", got, want)
	}
}

func TestScanMissingRoot(t *testing.T) {
	got := NewScanner(filepath.Join(t.TempDir(), "nope")).Scan()
	if len(got) != 0 {
		t.Errorf("missing root should scan empty, got %v", got)
	}
}

func TestScanIgnoresNestedDirectories(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "cats", "deep", "hidden.mp4"))
	writeFile(t, filepath.Join(root, "cats", "top.mp4"))

	got := NewScanner(root).Scan()
	want := map[string][]string{"cats": {"top.mp4"}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Scan() = %v, want %v", got, want)
	}
}

func TestScanSkipsEmptyCategories(t *testing.T) {
	root := t.TempDir()
	if err := os.MkdirAll(filepath.Join(root, "empty"), 0o755); err != nil {
		t.Fatal(err)
	}
	writeFile(t, filepath.Join(root, "thumbs-only", "poster.webp"))

	if got := NewScanner(root).Scan(); len(got) != 0 {
		t.Errorf("categories without videos should be omitted, got %v", got)
	}
}

func TestScanExtensionCase(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "c", "UPPER.MP4"))

	got := NewScanner(root).Scan()
	want := map[string][]string{"c": {"UPPER.MP4"}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Scan() = %v, want %v", got, want)
	}
}

func TestThumbnailPath(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"/lib/cats/a.mp4", "/lib/cats/a.webp"},
		{"/lib/cats/a.b.mov", "/lib/cats/a.b.webp"},
		{"/lib/cats/noext", "/lib/cats/noext.webp"},
	}
	for _, tt := range tests {
		if got := ThumbnailPath(tt.in); got != tt.want {
			t.Errorf("ThumbnailPath(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestEnsureAllSkipsExisting(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "cats", "a.mp4"))
	writeFile(t, filepath.Join(root, "cats", "a.webp"))

	// ffmpeg binary that would fail loudly if invoked.
	th := NewThumbnailer(ThumbnailerConfig{FFmpegPath: "/nonexistent/ffmpeg", PerSecond: 1000})
	th.EnsureAll(context.Background(), root, map[string][]string{"cats": {"a.mp4"}})

	// The pre-existing thumbnail must be untouched.
	data, err := os.ReadFile(filepath.Join(root, "cats", "a.webp"))
	if err != nil || string(data) != "x" {
		t.Errorf("existing thumbnail was modified: %q, %v", data, err)
	}
}
