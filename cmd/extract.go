package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"streamdock/internal/download"
	"streamdock/internal/media"
)

var extractCmd = &cobra.Command{
	Use:   "extract <url>",
	Short: "Extract a video stream from a page URL",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runExtraction(args[0])
	},
}

// runExtraction performs a one-shot extraction and applies the requested
// output actions (print, save, download).
func runExtraction(rawURL string) error {
	debugf("extracting: %s", rawURL)

	video, err := newPipeline().Extract(context.Background(), rawURL)
	if err != nil {
		return err
	}

	debugf("stream URL: %s", video.StreamURL)

	if flagJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(video); err != nil {
			return err
		}
	} else {
		printVideo(video)
	}

	if flagSave {
		if err := saveVideo(video); err != nil {
			return err
		}
	}

	if flagDownload {
		dir := flagOutput
		if dir == "" {
			var err error
			dir, err = cfg.ExpandDownloadDir()
			if err != nil {
				return err
			}
		}

		url := video.DownloadURL
		if url == "" {
			url = video.StreamURL
		}
		path, err := download.Download(context.Background(), url, video.Title, dir)
		if err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "Downloaded: %s\n", path)
	}

	return nil
}

func printVideo(video *media.ExtractedVideo) {
	fmt.Printf("Title:     %s\n", video.Title)
	if video.StreamURL != "" {
		fmt.Printf("Stream:    %s\n", video.StreamURL)
	}
	if video.DownloadURL != "" && video.DownloadURL != video.StreamURL {
		fmt.Printf("Download:  %s\n", video.DownloadURL)
	}
	if video.Thumbnail != "" {
		fmt.Printf("Thumbnail: %s\n", video.Thumbnail)
	}
	fmt.Printf("Source:    %s\n", video.Source)
}

func saveVideo(video *media.ExtractedVideo) error {
	store, err := openLibrary()
	if err != nil {
		return err
	}
	defer store.Close()

	saved, err := store.Add(media.LibraryVideo{
		Title:     video.Title,
		URL:       video.PlaybackURL(),
		Thumbnail: video.Thumbnail,
		Source:    video.Source,
	})
	if err != nil {
		return fmt.Errorf("saving to library: %w", err)
	}

	fmt.Fprintf(os.Stderr, "Saved to library: %s\n", saved.ID)
	return nil
}
