// Package cmd implements the CLI commands using Cobra.
package cmd

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"streamdock/internal/config"
	"streamdock/internal/extract"
	"streamdock/internal/library"
	"streamdock/internal/ui"
)

// Version is set at build time via ldflags.
var Version = "dev"

// Global flags
var (
	flagJSON     bool
	flagSave     bool
	flagDownload bool
	flagOutput   string
	flagPlayer   string
	flagTimeout  int
	flagDebug    bool
)

// cfg holds the loaded configuration (merged: defaults < config file < flags).
var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "streamdock [url]",
	Short: "Extract and manage video streams from the terminal",
	Long: `Streamdock turns page URLs into playable or downloadable video streams.
Given a URL argument it runs one-shot extraction; without arguments it opens
the interactive downloads/library interface.`,
	Args:              cobra.MaximumNArgs(1),
	PersistentPreRunE: loadConfig,
	RunE:              rootRun,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&flagJSON, "json", "j", false, "Output extraction result as JSON")
	rootCmd.PersistentFlags().BoolVarP(&flagSave, "save", "s", false, "Save extracted video to the library")
	rootCmd.PersistentFlags().BoolVarP(&flagDownload, "download", "d", false, "Download extracted media")
	rootCmd.PersistentFlags().StringVarP(&flagOutput, "output", "o", "", "Download directory (default from config)")
	rootCmd.PersistentFlags().StringVar(&flagPlayer, "player", "", "Media player: mpv | vlc | iina | celluloid")
	rootCmd.PersistentFlags().IntVarP(&flagTimeout, "timeout", "t", 0, "Extraction deadline in seconds")
	rootCmd.PersistentFlags().BoolVarP(&flagDebug, "debug", "x", false, "Debug logging to stderr")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(extractCmd)
	rootCmd.AddCommand(libraryCmd)
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(versionCmd)
}

func rootRun(cmd *cobra.Command, args []string) error {
	if len(args) == 1 {
		return runExtraction(args[0])
	}

	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return fmt.Errorf("interactive mode needs a terminal; pass a URL or use the serve command")
	}

	store, err := openLibrary()
	if err != nil {
		return err
	}
	defer store.Close()

	return ui.Run(newPipeline(), store)
}

// loadConfig loads and merges configuration: defaults < config file < CLI flags.
func loadConfig(cmd *cobra.Command, args []string) error {
	var err error
	cfg, err = config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	// CLI flags override config file values
	if flagPlayer != "" {
		cfg.Player = flagPlayer
	}
	if flagTimeout > 0 {
		cfg.ExtractTimeout = flagTimeout
	}
	if flagDebug {
		cfg.Debug = true
	}

	// Re-validate after flag overrides
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	log.SetOutput(os.Stderr)
	if cfg.Debug {
		log.SetPrefix("[streamdock] ")
	} else {
		log.SetFlags(0)
	}

	return nil
}

// newPipeline assembles the extraction pipeline from the active config.
func newPipeline() *extract.Pipeline {
	return extract.NewPipeline(
		time.Duration(cfg.ExtractTimeout)*time.Second,
		extract.NewResolver(cfg.ResolverURL),
		extract.NewScraper(cfg.ScrapeURL, cfg.ScrapeAPIKey),
	)
}

// openLibrary opens the library store at the configured path.
func openLibrary() (*library.Store, error) {
	path, err := cfg.ResolveLibraryPath()
	if err != nil {
		return nil, err
	}
	store, err := library.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening library: %w", err)
	}
	return store, nil
}

// debugf logs a message if debug mode is enabled.
func debugf(format string, args ...interface{}) {
	if cfg != nil && cfg.Debug {
		log.Printf(format, args...)
	}
}
