package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"streamdock/internal/media"
	"streamdock/internal/player"
)

var playCmd = &cobra.Command{
	Use:   "play [id]",
	Short: "Play a saved video and track watch progress",
	Long: `Play launches the configured media player for a library entry and
persists the final watch progress back to the library. Without an id the
most recently added video is played. Adaptive manifests and direct files
are both handed to the player as-is.`,
	Args: cobra.MaximumNArgs(1),
	RunE: playRun,
}

func playRun(cmd *cobra.Command, args []string) error {
	store, err := openLibrary()
	if err != nil {
		return err
	}
	defer store.Close()

	var video media.LibraryVideo
	if len(args) == 1 {
		id, err := resolveID(store, args[0])
		if err != nil {
			return err
		}
		video, err = store.Get(id)
		if err != nil {
			return err
		}
	} else {
		videos, err := store.List()
		if err != nil {
			return fmt.Errorf("loading library: %w", err)
		}
		if len(videos) == 0 {
			return fmt.Errorf("library is empty")
		}
		video = videos[0]
	}

	debugf("playing %s (%s, manifest=%v)", video.Title, video.URL, media.IsManifest(video.URL))

	p := player.New(cfg.Player)
	if !p.Available() {
		return fmt.Errorf("player %q not found in PATH", cfg.Player)
	}

	startFraction := video.WatchProgress
	if startFraction >= 0.97 {
		// Finished last time; start over.
		startFraction = 0
	}

	fraction, err := p.Play(video.URL, video.Title, startFraction)
	if err != nil {
		return fmt.Errorf("playback failed: %w", err)
	}

	if fraction > 0 {
		if err := store.SetProgress(video.ID, fraction); err != nil {
			debugf("saving watch progress failed: %v", err)
		}
	}

	return nil
}
