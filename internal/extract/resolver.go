package extract

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"streamdock/internal/httputil"
	"streamdock/internal/media"
)

// Resolver asks an external best-effort video resolver service (a hosted
// yt-dlp style API) to extract media from a page URL. It is the primary,
// free strategy and runs before the paid scraping fallback.
type Resolver struct {
	endpoint string
	client   *http.Client
}

// NewResolver creates a Resolver against the given service endpoint.
func NewResolver(endpoint string) *Resolver {
	return &Resolver{
		endpoint: endpoint,
		client:   httputil.NewClient(),
	}
}

func (r *Resolver) Name() string { return "resolver" }

// resolverResponse is the service's response shape. Picker entries are
// candidate renditions when several formats exist.
type resolverResponse struct {
	Status   string `json:"status"` // stream | success | redirect | picker | error
	URL      string `json:"url"`
	Filename string `json:"filename"`
	Text     string `json:"text"` // error message when status is "error"
	Picker   []struct {
		URL   string `json:"url"`
		Thumb string `json:"thumb"`
	} `json:"picker"`
}

// Extract issues one request for best-quality, non-audio-only media and
// normalizes the response. A non-OK HTTP status or a response without any
// media URL is a miss, not an error; an explicit "error" status becomes an
// UpstreamError so the pipeline can surface the service's message later.
func (r *Resolver) Extract(ctx context.Context, url string) (*media.ExtractedVideo, error) {
	payload := map[string]any{
		"url":             url,
		"vQuality":        "max",
		"aFormat":         "best",
		"filenamePattern": "basic",
		"isAudioOnly":     false,
	}

	body, status, err := httputil.PostJSON(ctx, r.client, r.endpoint, nil, payload)
	if err != nil {
		return nil, err
	}
	if status < 200 || status >= 300 {
		return nil, nil
	}

	var resp resolverResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, nil
	}

	if resp.Status == "error" {
		msg := resp.Text
		if msg == "" {
			msg = "failed to extract video"
		}
		return nil, &UpstreamError{Message: msg}
	}

	video := &media.ExtractedVideo{
		Title:  media.DefaultTitle,
		Source: url,
	}

	switch resp.Status {
	case "stream", "success", "redirect":
		video.StreamURL = resp.URL
		video.DownloadURL = resp.URL
	case "picker":
		// The service is assumed to rank best quality first. That is an
		// external contract assumption, not something we verify.
		if len(resp.Picker) > 0 {
			first := resp.Picker[0]
			video.StreamURL = first.URL
			video.DownloadURL = first.URL
			video.Thumbnail = first.Thumb
		}
	}

	if resp.Filename != "" {
		video.Title = stripExtension(resp.Filename)
	}

	if !video.HasMedia() {
		return nil, nil
	}
	return video, nil
}

// stripExtension removes a trailing file extension from a filename.
func stripExtension(name string) string {
	idx := strings.LastIndex(name, ".")
	if idx <= 0 || strings.ContainsAny(name[idx:], "/ ") {
		return name
	}
	return name[:idx]
}
