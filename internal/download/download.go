// Package download saves extracted media to disk. Direct video files are
// fetched with the hardened HTTP client; adaptive manifests go through
// ffmpeg with a stream copy. Output paths are validated against directory
// traversal.
package download

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"streamdock/internal/httputil"
	"streamdock/internal/media"
)

// Download fetches url into outputDir under a sanitized filename derived
// from title, returning the final path.
func Download(ctx context.Context, url, title, outputDir string) (string, error) {
	absDir, err := filepath.Abs(outputDir)
	if err != nil {
		return "", fmt.Errorf("resolving output directory: %w", err)
	}
	if err := os.MkdirAll(absDir, 0755); err != nil {
		return "", fmt.Errorf("creating output directory: %w", err)
	}

	if media.IsManifest(url) {
		return downloadManifest(ctx, url, title, absDir)
	}
	return downloadDirect(ctx, url, title, absDir)
}

// downloadManifest remuxes an adaptive stream into an mkv via ffmpeg,
// copying streams without re-encoding.
func downloadManifest(ctx context.Context, url, title, absDir string) (string, error) {
	ffmpegPath, err := exec.LookPath("ffmpeg")
	if err != nil {
		return "", fmt.Errorf("ffmpeg not found in PATH: %w", err)
	}

	outputPath, err := httputil.SafeDownloadPath(absDir, httputil.SanitizeFilename(title)+".mkv")
	if err != nil {
		return "", fmt.Errorf("invalid output path: %w", err)
	}

	args := []string{
		"-y",
		"-i", url,
		"-c:v", "copy",
		"-c:a", "copy",
		"-metadata", fmt.Sprintf("title=%s", title),
		outputPath,
	}

	cmd := exec.CommandContext(ctx, ffmpegPath, args...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	fmt.Fprintf(os.Stderr, "Downloading to: %s\n", outputPath)

	if err := cmd.Run(); err != nil {
		// Clean up partial download on failure
		os.Remove(outputPath)
		return "", fmt.Errorf("ffmpeg download failed: %w", err)
	}

	return outputPath, nil
}

// downloadDirect streams a direct video file to disk.
func downloadDirect(ctx context.Context, url, title, absDir string) (string, error) {
	filename := httputil.SanitizeFilename(title) + fileExtension(url)
	outputPath, err := httputil.SafeDownloadPath(absDir, filename)
	if err != nil {
		return "", fmt.Errorf("invalid output path: %w", err)
	}

	client := httputil.NewClient()
	resp, err := httputil.Get(ctx, client, url)
	if err != nil {
		return "", fmt.Errorf("downloading video: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("download returned status %d", resp.StatusCode)
	}

	f, err := os.Create(outputPath)
	if err != nil {
		return "", fmt.Errorf("creating output file: %w", err)
	}

	fmt.Fprintf(os.Stderr, "Downloading to: %s\n", outputPath)

	if _, err := io.Copy(f, resp.Body); err != nil {
		f.Close()
		os.Remove(outputPath)
		return "", fmt.Errorf("writing video file: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("closing output file: %w", err)
	}

	return outputPath, nil
}

// fileExtension guesses an output extension from the URL path,
// defaulting to .mp4.
func fileExtension(url string) string {
	path := url
	if idx := strings.IndexAny(path, "?#"); idx != -1 {
		path = path[:idx]
	}
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".mp4", ".webm", ".mov", ".mkv":
		return ext
	default:
		return ".mp4"
	}
}
