package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaults(t *testing.T) {
	cfg := Default()

	if cfg.Listen != "127.0.0.1:8716" {
		t.Errorf("Listen = %q", cfg.Listen)
	}
	if cfg.ExtractTimeout != 45 {
		t.Errorf("ExtractTimeout = %d, want 45", cfg.ExtractTimeout)
	}
	if cfg.Player != "mpv" {
		t.Errorf("Player = %q, want mpv", cfg.Player)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config invalid: %v", err)
	}
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv(scrapeKeyEnv, "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Player != "mpv" || cfg.ExtractTimeout != 45 {
		t.Errorf("cfg = %+v, want defaults", cfg)
	}
}

func TestLoadMergesFile(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	t.Setenv(scrapeKeyEnv, "")

	confDir := filepath.Join(dir, "streamdock")
	if err := os.MkdirAll(confDir, 0755); err != nil {
		t.Fatal(err)
	}
	content := `
player = "vlc"
extract_timeout = 60
scrape_api_key = "file-key"
`
	if err := os.WriteFile(filepath.Join(confDir, "config.toml"), []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Player != "vlc" {
		t.Errorf("Player = %q, want vlc", cfg.Player)
	}
	if cfg.ExtractTimeout != 60 {
		t.Errorf("ExtractTimeout = %d, want 60", cfg.ExtractTimeout)
	}
	if cfg.ScrapeAPIKey != "file-key" {
		t.Errorf("ScrapeAPIKey = %q", cfg.ScrapeAPIKey)
	}
	// Unset keys keep their defaults.
	if cfg.Listen != "127.0.0.1:8716" {
		t.Errorf("Listen = %q, want default", cfg.Listen)
	}
}

func TestEnvOverridesFileKey(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	t.Setenv(scrapeKeyEnv, "env-key")

	confDir := filepath.Join(dir, "streamdock")
	if err := os.MkdirAll(confDir, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(confDir, "config.toml"), []byte(`scrape_api_key = "file-key"`), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.ScrapeAPIKey != "env-key" {
		t.Errorf("ScrapeAPIKey = %q, want env-key", cfg.ScrapeAPIKey)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		ok     bool
	}{
		{"defaults", func(c *Config) {}, true},
		{"vlc", func(c *Config) { c.Player = "vlc" }, true},
		{"case insensitive player", func(c *Config) { c.Player = "MPV" }, true},
		{"unknown player", func(c *Config) { c.Player = "wmplayer" }, false},
		{"zero timeout", func(c *Config) { c.ExtractTimeout = 0 }, false},
		{"excessive timeout", func(c *Config) { c.ExtractTimeout = 301 }, false},
		{"max timeout", func(c *Config) { c.ExtractTimeout = 300 }, true},
		{"empty listen", func(c *Config) { c.Listen = "" }, false},
		{"empty resolver", func(c *Config) { c.ResolverURL = "" }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.ok && err != nil {
				t.Errorf("Validate: %v, want ok", err)
			}
			if !tt.ok && err == nil {
				t.Error("Validate passed, want error")
			}
		})
	}
}

func TestResolveLibraryPath(t *testing.T) {
	t.Setenv("XDG_DATA_HOME", "/data")

	cfg := Default()
	path, err := cfg.ResolveLibraryPath()
	if err != nil {
		t.Fatalf("ResolveLibraryPath: %v", err)
	}
	if path != filepath.Join("/data", "streamdock", "library.db") {
		t.Errorf("path = %q", path)
	}

	cfg.LibraryPath = "/custom/lib.db"
	path, err = cfg.ResolveLibraryPath()
	if err != nil {
		t.Fatalf("ResolveLibraryPath: %v", err)
	}
	if path != "/custom/lib.db" {
		t.Errorf("path = %q, want the explicit setting", path)
	}
}

func TestExpandDownloadDir(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skipf("no home directory: %v", err)
	}

	cfg := Default()
	cfg.DownloadDir = "~/Videos/test"
	dir, err := cfg.ExpandDownloadDir()
	if err != nil {
		t.Fatalf("ExpandDownloadDir: %v", err)
	}
	if dir != filepath.Join(home, "Videos", "test") {
		t.Errorf("dir = %q", dir)
	}
}
