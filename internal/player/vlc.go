package player

import (
	"fmt"
	"os"
	"os/exec"
)

// VLC implements the Player interface for VLC media player.
type VLC struct{}

func (v *VLC) Name() string { return "vlc" }

func (v *VLC) Available() bool {
	_, err := exec.LookPath("vlc")
	return err == nil
}

// Play launches VLC. VLC doesn't have IPC progress tracking like mpv and
// its --start-time flag wants absolute seconds, so resume-by-fraction is
// not supported and the returned fraction is always 0.
func (v *VLC) Play(url, title string, startFraction float64) (float64, error) {
	_ = startFraction

	args := []string{
		url,
		"--meta-title", title,
		"--play-and-exit",
	}

	cmd := exec.Command("vlc", args...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	cmd.Stdin = os.Stdin

	if err := cmd.Run(); err != nil {
		if _, ok := err.(*exec.ExitError); ok {
			// VLC exits non-zero on user close
			return 0, nil
		}
		return 0, fmt.Errorf("running vlc: %w", err)
	}

	return 0, nil
}
