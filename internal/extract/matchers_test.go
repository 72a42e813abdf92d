package extract

import (
	"os"
	"testing"
)

func loadFixture(t *testing.T, filename string) string {
	t.Helper()
	data, err := os.ReadFile("testdata/" + filename)
	if err != nil {
		t.Fatalf("reading test fixture %s: %v", filename, err)
	}
	return string(data)
}

func TestFirstManifestURL(t *testing.T) {
	html := loadFixture(t, "player_page.html")

	got := firstManifestURL(html)
	want := "https://cdn.example.com/bbb/master.m3u8?token=abc123"
	if got != want {
		t.Errorf("firstManifestURL = %q, want %q", got, want)
	}
}

func TestFirstManifestURLOrder(t *testing.T) {
	// The textually first quoted manifest wins when several are present.
	html := `
		"https://a.example.com/early.m3u8"
		source: "https://b.example.com/late.m3u8"
	`
	if got := firstManifestURL(html); got != "https://a.example.com/early.m3u8" {
		t.Errorf("firstManifestURL = %q, want the first quoted match", got)
	}

	if got := firstManifestURL("<p>no video here</p>"); got != "" {
		t.Errorf("firstManifestURL on plain HTML = %q, want empty", got)
	}
}

func TestCleanMatchedURL(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{`https:\/\/cdn.example.com\/v\/master.m3u8`, "https://cdn.example.com/v/master.m3u8"},
		{"https://cdn.example.com/a%20b.mp4", "https://cdn.example.com/a b.mp4"},
		{"https://cdn.example.com/plain.mp4", "https://cdn.example.com/plain.mp4"},
		{"https://cdn.example.com/bad%zz.mp4", "https://cdn.example.com/bad%zz.mp4"},
	}

	for _, tt := range tests {
		if got := cleanMatchedURL(tt.in); got != tt.want {
			t.Errorf("cleanMatchedURL(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestDirectFileCandidatesDenylist(t *testing.T) {
	html := loadFixture(t, "player_page.html")

	candidates := directFileCandidates(html)
	for _, c := range candidates {
		if c == "https://cdn.example.com/bbb/thumb_preview.mp4" {
			t.Errorf("preview asset %q not filtered out", c)
		}
	}
	if len(candidates) == 0 {
		t.Fatal("no direct file candidates found")
	}
}

func TestRankDirectFiles(t *testing.T) {
	candidates := []string{
		"https://cdn.example.com/bbb/clip.mp4",
		"https://cdn.example.com/bbb/render/video_1080.mp4",
	}

	ranked := rankDirectFiles(candidates)
	if ranked[0] != "https://cdn.example.com/bbb/render/video_1080.mp4" {
		t.Errorf("ranked[0] = %q, want the 1080 rendition first", ranked[0])
	}

	// Input order must not be mutated.
	if candidates[0] != "https://cdn.example.com/bbb/clip.mp4" {
		t.Error("rankDirectFiles mutated its input")
	}
}

func TestRankDirectFilesTieBreak(t *testing.T) {
	// Neither has a quality indicator; the longer URL wins.
	ranked := rankDirectFiles([]string{
		"https://cdn.example.com/a.mp4",
		"https://cdn.example.com/a/longer/path/video.mp4",
	})
	if ranked[0] != "https://cdn.example.com/a/longer/path/video.mp4" {
		t.Errorf("ranked[0] = %q, want the longer URL", ranked[0])
	}
}

func TestManifestFromLinks(t *testing.T) {
	links := []string{
		"https://example.com/about",
		"https://cdn.example.com/hls/index.m3u8",
		"https://cdn.example.com/other.m3u8",
	}
	if got := manifestFromLinks(links); got != "https://cdn.example.com/hls/index.m3u8" {
		t.Errorf("manifestFromLinks = %q, want first manifest link", got)
	}
	if got := manifestFromLinks([]string{"https://example.com/x"}); got != "" {
		t.Errorf("manifestFromLinks = %q, want empty", got)
	}
}

func TestFirstThumbnail(t *testing.T) {
	html := loadFixture(t, "player_page.html")

	// poster= outranks og:image.
	if got := firstThumbnail(html); got != "https://img.example.com/bbb/poster.jpg" {
		t.Errorf("firstThumbnail = %q, want the poster attribute", got)
	}

	ogOnly := `<meta property="og:image" content="https://img.example.com/og.jpg">`
	if got := firstThumbnail(ogOnly); got != "https://img.example.com/og.jpg" {
		t.Errorf("firstThumbnail og fallback = %q", got)
	}
}

func TestPageTitle(t *testing.T) {
	html := loadFixture(t, "player_page.html")

	if got := pageTitle(html); got != "Big Buck Bunny (Full Movie)" {
		t.Errorf("pageTitle = %q, want the og:title value", got)
	}

	plain := "<html><head><title> Plain Title </title></head></html>"
	if got := pageTitle(plain); got != "Plain Title" {
		t.Errorf("pageTitle = %q, want trimmed <title>", got)
	}

	if got := pageTitle("<html></html>"); got != "" {
		t.Errorf("pageTitle on empty doc = %q, want empty", got)
	}
}
