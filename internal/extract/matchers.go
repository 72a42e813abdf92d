package extract

import (
	"net/url"
	"regexp"
	"sort"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Pattern scanning over raw HTML is inherently fragile and site-specific.
// Each heuristic below is an independent matcher run in a fixed priority
// order; keep them small and individually testable against fixture HTML.

// manifestMatchers locate adaptive-streaming manifest URLs, preferred over
// direct files for playback. Ordered: any quoted manifest URL, then one in
// an src= attribute, then ones introduced by file:/source: player-config
// keys.
var manifestMatchers = []*regexp.Regexp{
	regexp.MustCompile(`(?i)["'](https?://[^"'\s]+\.m3u8[^"'\s]*?)["']`),
	regexp.MustCompile(`(?i)src=["'](https?://[^"'\s]+\.m3u8[^"'\s]*?)["']`),
	regexp.MustCompile(`(?i)file:\s*["'](https?://[^"'\s]+\.m3u8[^"'\s]*?)["']`),
	regexp.MustCompile(`(?i)source:\s*["'](https?://[^"'\s]+\.m3u8[^"'\s]*?)["']`),
}

// directFileMatchers locate direct video file URLs.
var directFileMatchers = []*regexp.Regexp{
	regexp.MustCompile(`(?i)["'](https?://[^"'\s]+\.mp4[^"'\s]*?)["']`),
	regexp.MustCompile(`(?i)src=["'](https?://[^"'\s]+\.mp4[^"'\s]*?)["']`),
}

// thumbnailMatchers locate a preview image: poster= attribute, then a
// thumbnail key, then an Open Graph image tag.
var thumbnailMatchers = []*regexp.Regexp{
	regexp.MustCompile(`(?i)poster=["'](https?://[^"'\s]+?)["']`),
	regexp.MustCompile(`(?i)thumbnail["']?\s*[:=]\s*["'](https?://[^"'\s]+?)["']`),
	regexp.MustCompile(`(?i)og:image["']?\s*content=["'](https?://[^"'\s]+?)["']`),
}

// previewDenylist marks direct-file matches that are thumbnail or preview
// assets rather than the actual video.
var previewDenylist = []string{
	"thumbnail", "preview", "/gifs/", "/gif/", "poster", "thumb", "_small", "_preview",
}

// qualityIndicators hint that a URL points at a higher-quality rendition.
var qualityIndicators = []string{"1080", "720", "480", "hd", "high"}

// cleanMatchedURL strips stray escape backslashes and decodes
// percent-escapes in a matched URL. Undecodable input is kept as-is
// (minus the backslashes).
func cleanMatchedURL(raw string) string {
	raw = strings.ReplaceAll(raw, `\`, "")
	decoded, err := url.PathUnescape(raw)
	if err != nil {
		return raw
	}
	return decoded
}

// firstManifestURL returns the first manifest URL found by the first
// matcher that matches anything, or "".
func firstManifestURL(html string) string {
	for _, re := range manifestMatchers {
		if m := re.FindStringSubmatch(html); m != nil {
			return cleanMatchedURL(m[1])
		}
	}
	return ""
}

// manifestFromLinks returns the first outbound link containing a manifest
// marker, or "".
func manifestFromLinks(links []string) string {
	for _, link := range links {
		if strings.Contains(link, ".m3u8") {
			return link
		}
	}
	return ""
}

// directFileCandidates collects all direct video file URLs in the HTML,
// excluding preview/thumbnail assets.
func directFileCandidates(html string) []string {
	var found []string
	for _, re := range directFileMatchers {
		for _, m := range re.FindAllStringSubmatch(html, -1) {
			u := cleanMatchedURL(m[1])
			if !isPreviewAsset(u) {
				found = append(found, u)
			}
		}
	}
	return found
}

func isPreviewAsset(u string) bool {
	lower := strings.ToLower(u)
	for _, marker := range previewDenylist {
		if strings.Contains(lower, marker) {
			return true
		}
	}
	return false
}

// rankDirectFiles orders candidates best-first: URLs carrying a quality
// indicator sort before those without, ties broken by longer URL string
// (a rough proxy for a more descriptive rendition path).
func rankDirectFiles(candidates []string) []string {
	ranked := make([]string, len(candidates))
	copy(ranked, candidates)

	sort.SliceStable(ranked, func(i, j int) bool {
		qi, qj := hasQualityIndicator(ranked[i]), hasQualityIndicator(ranked[j])
		if qi != qj {
			return qi
		}
		return len(ranked[i]) > len(ranked[j])
	})

	return ranked
}

func hasQualityIndicator(u string) bool {
	lower := strings.ToLower(u)
	for _, q := range qualityIndicators {
		if strings.Contains(lower, q) {
			return true
		}
	}
	return false
}

// firstThumbnail returns the first thumbnail URL located by the ordered
// matchers, or "".
func firstThumbnail(html string) string {
	for _, re := range thumbnailMatchers {
		if m := re.FindStringSubmatch(html); m != nil {
			return m[1]
		}
	}
	return ""
}

// pageTitle extracts a display title from the document itself, used when
// the scraping service supplies no metadata title. Prefers og:title over
// the <title> element.
func pageTitle(html string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return ""
	}

	if og, ok := doc.Find(`meta[property="og:title"]`).Attr("content"); ok {
		if title := strings.TrimSpace(og); title != "" {
			return title
		}
	}

	return strings.TrimSpace(doc.Find("title").First().Text())
}
