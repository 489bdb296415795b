// Package cmd implements the CLI commands using Cobra.
package cmd

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/spf13/cobra"

	"tunegrab/internal/config"
	"tunegrab/internal/cookies"
	"tunegrab/internal/youtube"
)

// Version is set at build time via ldflags.
var Version = "dev"

// Global flags
var (
	flagVideoID   bool
	flagTool      string
	flagCookieDir string
	flagDebug     bool
)

// cfg holds the loaded configuration (merged: defaults < config file < flags).
var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "tunegrab",
	Short: "Resolve and download YouTube media for music playback",
	Long: `Tunegrab resolves YouTube links, IDs, and search queries into playable
media: direct stream URLs, downloaded audio/video files, playlist listings,
and track metadata. Extraction requests rotate through a pool of cookie
files to bypass anti-bot restrictions.`,
	PersistentPreRunE: loadConfig,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&flagVideoID, "id", "i", false, "Treat the argument as a bare video/playlist ID")
	rootCmd.PersistentFlags().StringVar(&flagTool, "tool", "", "Extraction tool binary (default: yt-dlp)")
	rootCmd.PersistentFlags().StringVar(&flagCookieDir, "cookie-dir", "", "Directory of rotating cookie files")
	rootCmd.PersistentFlags().BoolVarP(&flagDebug, "debug", "x", false, "Debug logging to stderr")

	rootCmd.AddCommand(probeCmd)
	rootCmd.AddCommand(streamCmd)
	rootCmd.AddCommand(playlistCmd)
	rootCmd.AddCommand(formatsCmd)
	rootCmd.AddCommand(downloadCmd)
	rootCmd.AddCommand(trackCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(versionCmd)
}

// loadConfig loads and merges configuration: defaults < config file < CLI flags.
func loadConfig(cmd *cobra.Command, args []string) error {
	var err error
	cfg, err = config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	// CLI flags override config file values
	if flagTool != "" {
		cfg.ToolPath = flagTool
	}
	if flagCookieDir != "" {
		cfg.CookieDir = flagCookieDir
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
		log.SetPrefix("[tunegrab] ")
	} else {
		log.SetFlags(0)
	}

	return nil
}

// newClient wires the cookie pool and extraction client from config.
func newClient() (*youtube.Client, error) {
	pool, err := cookies.New(cfg.CookieDir)
	if err != nil {
		return nil, fmt.Errorf("initializing cookie pool: %w", err)
	}

	downloadDir, err := cfg.ExpandDownloadDir()
	if err != nil {
		return nil, err
	}

	return youtube.New(youtube.Options{
		Tool:           cfg.ToolPath,
		DownloadDir:    downloadDir,
		DownloadVideos: cfg.DownloadVideos,
		Workers:        cfg.Workers,
		Timeout:        time.Duration(cfg.TimeoutSeconds) * time.Second,
	}, pool), nil
}

// debugf logs a message if debug mode is enabled.
func debugf(format string, args ...interface{}) {
	if cfg != nil && cfg.Debug {
		log.Printf(format, args...)
	}
}
