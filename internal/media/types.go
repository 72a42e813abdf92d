// Package media defines shared types for the streamdock application.
package media

import (
	"strings"
	"time"
)

// DefaultTitle is used when no title could be determined for an extraction.
const DefaultTitle = "Extracted Video"

// ExtractedVideo is the normalized result of the extraction pipeline.
// A result counts as usable only when at least one of StreamURL or
// DownloadURL is populated.
type ExtractedVideo struct {
	Title       string         `json:"title"`
	StreamURL   string         `json:"streamUrl,omitempty"`   // preferred for playback, may be a manifest
	DownloadURL string         `json:"downloadUrl,omitempty"` // preferred for saving to disk
	Thumbnail   string         `json:"thumbnail,omitempty"`
	Source      string         `json:"source"` // normalized input URL
	Duration    float64        `json:"duration,omitempty"`
	Metadata    map[string]any `json:"metadata,omitempty"`
}

// HasMedia reports whether the extraction produced a usable URL.
func (v *ExtractedVideo) HasMedia() bool {
	return v != nil && (v.StreamURL != "" || v.DownloadURL != "")
}

// PlaybackURL returns the URL to hand to a player, preferring StreamURL.
func (v *ExtractedVideo) PlaybackURL() string {
	if v.StreamURL != "" {
		return v.StreamURL
	}
	return v.DownloadURL
}

// LibraryVideo is a saved video record owned by the library store.
type LibraryVideo struct {
	ID            string    `json:"id"`
	Title         string    `json:"title"`
	URL           string    `json:"url"`
	Thumbnail     string    `json:"thumbnail,omitempty"`
	Source        string    `json:"source,omitempty"`
	DateAdded     time.Time `json:"dateAdded"`
	WatchProgress float64   `json:"watchProgress"` // fraction 0..1
	Tags          []string  `json:"tags,omitempty"`
	FolderID      string    `json:"folderId,omitempty"`
}

// manifestSuffixes are playlist-style stream descriptors that players fetch
// incrementally rather than as a single file.
var manifestSuffixes = []string{".m3u8", ".mpd"}

// IsManifest reports whether a URL points at an adaptive streaming manifest,
// judged by path suffix inspection only.
func IsManifest(rawURL string) bool {
	u := strings.ToLower(rawURL)
	if idx := strings.IndexAny(u, "?#"); idx != -1 {
		u = u[:idx]
	}
	for _, suffix := range manifestSuffixes {
		if strings.HasSuffix(u, suffix) {
			return true
		}
	}
	return false
}
