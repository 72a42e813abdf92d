package player

import (
	"bufio"
	"encoding/json"
	"fmt"
	"net"
	"os"
	"os/exec"
	"path/filepath"
	"time"
)

// MPV implements the Player interface for mpv.
// Uses exec.Command with explicit args (no shell interpretation)
// and IPC via Unix socket at a randomized temp path.
type MPV struct{}

func (m *MPV) Name() string { return "mpv" }

func (m *MPV) Available() bool {
	_, err := exec.LookPath("mpv")
	return err == nil
}

// Play launches mpv and returns the final watch-progress fraction,
// computed from the time-pos and duration properties observed over IPC.
func (m *MPV) Play(url, title string, startFraction float64) (float64, error) {
	// Randomized IPC socket path (prevents symlink attacks)
	socketDir, err := os.MkdirTemp("", "streamdock-mpv-*")
	if err != nil {
		return 0, fmt.Errorf("creating temp dir for mpv socket: %w", err)
	}
	defer os.RemoveAll(socketDir)

	socketPath := filepath.Join(socketDir, "socket")

	// Explicit arg slice — each arg is separate, no shell interpretation
	args := []string{
		url,
		"--force-media-title=" + title,
		"--input-ipc-server=" + socketPath,
		"--really-quiet",
	}

	if startFraction > 0 && startFraction < 1 {
		args = append(args, fmt.Sprintf("--start=%d%%", int(startFraction*100)))
	}

	cmd := exec.Command("mpv", args...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	cmd.Stdin = os.Stdin

	if err := cmd.Start(); err != nil {
		return 0, fmt.Errorf("starting mpv: %w", err)
	}

	var fraction float64
	done := make(chan struct{})
	go func() {
		defer close(done)
		fraction = m.trackProgress(socketPath)
	}()

	if err := cmd.Wait(); err != nil {
		// mpv exits non-zero on user quit; only a failure to run at all
		// counts as an error here.
		if _, ok := err.(*exec.ExitError); !ok {
			<-done
			return 0, fmt.Errorf("mpv playback: %w", err)
		}
	}

	<-done
	return fraction, nil
}

// trackProgress polls mpv's IPC socket for playback position and duration,
// returning the last observed position as a 0..1 fraction.
func (m *MPV) trackProgress(socketPath string) float64 {
	// Wait for socket to appear
	for i := 0; i < 50; i++ {
		if _, err := os.Stat(socketPath); err == nil {
			break
		}
		time.Sleep(100 * time.Millisecond)
	}

	conn, err := net.Dial("unix", socketPath)
	if err != nil {
		return 0
	}
	defer conn.Close()

	observe := func(id int, property string) {
		cmd := map[string]any{
			"command":    []any{"observe_property", id, property},
			"request_id": 100 + id,
		}
		data, _ := json.Marshal(cmd)
		data = append(data, '\n')
		conn.Write(data)
	}
	observe(1, "time-pos")
	observe(2, "duration")

	var lastPos, duration float64
	scanner := bufio.NewScanner(conn)
	for scanner.Scan() {
		var event struct {
			Event string  `json:"event"`
			Name  string  `json:"name"`
			Data  float64 `json:"data"`
		}
		if err := json.Unmarshal(scanner.Bytes(), &event); err != nil {
			continue
		}
		switch event.Name {
		case "time-pos":
			if event.Data > 0 {
				lastPos = event.Data
			}
		case "duration":
			if event.Data > 0 {
				duration = event.Data
			}
		}
	}

	if duration <= 0 {
		return 0
	}
	fraction := lastPos / duration
	if fraction > 1 {
		fraction = 1
	}
	return fraction
}
