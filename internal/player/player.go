// Package player launches local media players for saved streams.
// All invocations use exec.Command with explicit argument slices; no shell
// ever interprets remote data. Players handle adaptive manifests natively,
// so the stream URL is passed through unchanged.
package player

// Player is the interface for media player implementations.
type Player interface {
	// Play starts playback of url from startFraction (0..1 of the
	// duration) and returns the final watch-progress fraction.
	Play(url, title string, startFraction float64) (float64, error)

	// Name returns the player name.
	Name() string

	// Available checks if the player binary exists in PATH.
	Available() bool
}

// New creates a player by name.
func New(name string) Player {
	switch name {
	case "mpv":
		return &MPV{}
	case "vlc":
		return &VLC{}
	case "iina", "celluloid":
		return &Generic{name: name}
	default:
		return &MPV{} // Default to mpv
	}
}
