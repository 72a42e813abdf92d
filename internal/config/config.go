// Package config handles TOML-based configuration loading and validation.
// Config is parsed as data only; the scrape API key can also come from the
// environment so it never has to live in a file.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// scrapeKeyEnv overrides the scrape_api_key config value when set.
const scrapeKeyEnv = "STREAMDOCK_SCRAPE_API_KEY"

// Config holds all application configuration.
type Config struct {
	Listen         string `toml:"listen"`
	ResolverURL    string `toml:"resolver_url"`
	ScrapeURL      string `toml:"scrape_url"`
	ScrapeAPIKey   string `toml:"scrape_api_key"`
	ExtractTimeout int    `toml:"extract_timeout"` // seconds, shared across both strategies
	Player         string `toml:"player"`
	DownloadDir    string `toml:"download_dir"`
	LibraryPath    string `toml:"library_path"`
	Debug          bool   `toml:"debug"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Listen:         "127.0.0.1:8716",
		ResolverURL:    "https://api.cobalt.tools/api/json",
		ScrapeURL:      "https://api.firecrawl.dev/v1/scrape",
		ExtractTimeout: 45,
		Player:         "mpv",
		DownloadDir:    "~/Videos/streamdock",
		Debug:          false,
	}
}

// configDir returns the XDG-compliant config directory.
func configDir() (string, error) {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "streamdock"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}
	return filepath.Join(home, ".config", "streamdock"), nil
}

// ConfigPath returns the path to the config file.
func ConfigPath() (string, error) {
	dir, err := configDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// Load reads the config file and merges with defaults.
// If the config file doesn't exist, defaults are returned.
func Load() (*Config, error) {
	cfg := Default()

	path, err := ConfigPath()
	if err != nil {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg.applyEnv()
			return cfg, nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// applyEnv overlays environment-provided secrets onto the config.
func (c *Config) applyEnv() {
	if key := os.Getenv(scrapeKeyEnv); key != "" {
		c.ScrapeAPIKey = key
	}
}

// Validate checks config values are within acceptable bounds.
func (c *Config) Validate() error {
	validPlayers := map[string]bool{
		"mpv": true, "vlc": true, "iina": true, "celluloid": true,
	}
	if !validPlayers[strings.ToLower(c.Player)] {
		return fmt.Errorf("unsupported player %q (valid: mpv, vlc, iina, celluloid)", c.Player)
	}

	if c.Listen == "" {
		return fmt.Errorf("listen address cannot be empty")
	}
	if c.ResolverURL == "" {
		return fmt.Errorf("resolver URL cannot be empty")
	}
	if c.ExtractTimeout <= 0 || c.ExtractTimeout > 300 {
		return fmt.Errorf("extract_timeout must be between 1 and 300 seconds, got %d", c.ExtractTimeout)
	}

	return nil
}

// ExpandDownloadDir resolves ~ in the download directory path.
func (c *Config) ExpandDownloadDir() (string, error) {
	dir := c.DownloadDir
	if strings.HasPrefix(dir, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("expanding home dir: %w", err)
		}
		dir = filepath.Join(home, dir[2:])
	}
	return filepath.Abs(dir)
}

// ResolveLibraryPath returns the library database path, defaulting to the
// XDG data directory.
func (c *Config) ResolveLibraryPath() (string, error) {
	if c.LibraryPath != "" {
		return filepath.Abs(c.LibraryPath)
	}

	dataDir := os.Getenv("XDG_DATA_HOME")
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataDir, "streamdock", "library.db"), nil
}
