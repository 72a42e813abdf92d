package extract

import (
	"context"
	"encoding/json"
	"net/http"

	"streamdock/internal/httputil"
	"streamdock/internal/media"
)

// scrapeWaitMillis is the client-side wait granted to the scraping service
// so dynamically injected players have a chance to settle.
const scrapeWaitMillis = 3000

// Scraper is the fallback strategy: fetch the rendered page through an
// external scraping service and run the ranked pattern matchers over its
// HTML, links, and metadata. The service is paid and rate-limited, which is
// why this strategy only runs after the resolver misses.
type Scraper struct {
	endpoint string
	apiKey   string
	client   *http.Client
}

// NewScraper creates a Scraper for the given service endpoint and
// credential. An empty apiKey is allowed; extraction then short-circuits
// to a miss (a configuration gap, not an error).
func NewScraper(endpoint, apiKey string) *Scraper {
	return &Scraper{
		endpoint: endpoint,
		apiKey:   apiKey,
		client:   httputil.NewClient(),
	}
}

func (s *Scraper) Name() string { return "scraper" }

// scrapeResponse covers both response layouts the service uses: payload
// nested under "data" or at the top level.
type scrapeResponse struct {
	Data     scrapePayload `json:"data"`
	HTML     string        `json:"html"`
	Links    []string      `json:"links"`
	Metadata scrapeMeta    `json:"metadata"`
}

type scrapePayload struct {
	HTML     string     `json:"html"`
	Links    []string   `json:"links"`
	Metadata scrapeMeta `json:"metadata"`
}

type scrapeMeta struct {
	Title string `json:"title"`
}

// Extract scrapes the page and accumulates whatever the matchers find.
// The result is returned even when incomplete; the pipeline decides
// success based on the presence of media URLs. Service failures other
// than context expiry are a miss.
func (s *Scraper) Extract(ctx context.Context, url string) (*media.ExtractedVideo, error) {
	video := &media.ExtractedVideo{
		Title:  media.DefaultTitle,
		Source: url,
	}

	if s.apiKey == "" {
		return video, nil
	}

	payload := map[string]any{
		"url":             url,
		"formats":         []string{"html", "links"},
		"onlyMainContent": false,
		"waitFor":         scrapeWaitMillis,
	}
	headers := map[string]string{
		"Authorization": "Bearer " + s.apiKey,
	}

	body, status, err := httputil.PostJSON(ctx, s.client, s.endpoint, headers, payload)
	if err != nil {
		if ctx.Err() != nil {
			return nil, err
		}
		return video, nil
	}
	if status < 200 || status >= 300 {
		return video, nil
	}

	var resp scrapeResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return video, nil
	}

	html := resp.Data.HTML
	if html == "" {
		html = resp.HTML
	}
	links := resp.Data.Links
	if len(links) == 0 {
		links = resp.Links
	}
	title := resp.Data.Metadata.Title
	if title == "" {
		title = resp.Metadata.Title
	}

	if title == "" {
		title = pageTitle(html)
	}
	if title != "" {
		video.Title = title
	}

	// Manifests beat direct files for streaming.
	video.StreamURL = firstManifestURL(html)
	if video.StreamURL == "" {
		video.StreamURL = manifestFromLinks(links)
	}

	if candidates := rankDirectFiles(directFileCandidates(html)); len(candidates) > 0 {
		video.DownloadURL = candidates[0]
		if video.StreamURL == "" {
			video.StreamURL = candidates[0]
		}
	}

	video.Thumbnail = firstThumbnail(html)

	return video, nil
}
