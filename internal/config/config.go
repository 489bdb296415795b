// Package config handles TOML-based configuration loading and validation.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// Config holds all application configuration.
type Config struct {
	ToolPath       string `toml:"tool_path"`       // extraction tool binary
	CookieDir      string `toml:"cookie_dir"`      // rotating cookie files live here
	DownloadDir    string `toml:"download_dir"`    // downloaded media target
	DownloadVideos bool   `toml:"download_videos"` // always download video instead of direct-stream resolve
	PlaylistLimit  int    `toml:"playlist_limit"`  // cap on playlist enumeration
	Workers        int    `toml:"workers"`         // bounded extraction worker count
	TimeoutSeconds int    `toml:"timeout_seconds"` // subprocess execution deadline
	Debug          bool   `toml:"debug"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		ToolPath:       "yt-dlp",
		CookieDir:      "cookies",
		DownloadDir:    "downloads",
		DownloadVideos: false,
		PlaylistLimit:  50,
		Workers:        4,
		TimeoutSeconds: 600,
		Debug:          false,
	}
}

// configDir returns the XDG-compliant config directory.
func configDir() (string, error) {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "tunegrab"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}
	return filepath.Join(home, ".config", "tunegrab"), nil
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
			return cfg, nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// Validate checks config values are within acceptable bounds.
func (c *Config) Validate() error {
	if c.ToolPath == "" {
		return fmt.Errorf("tool_path cannot be empty")
	}
	if c.CookieDir == "" {
		return fmt.Errorf("cookie_dir cannot be empty")
	}
	if c.DownloadDir == "" {
		return fmt.Errorf("download_dir cannot be empty")
	}
	if c.PlaylistLimit < 1 || c.PlaylistLimit > 1000 {
		return fmt.Errorf("playlist_limit %d out of range [1,1000]", c.PlaylistLimit)
	}
	if c.Workers < 1 || c.Workers > 64 {
		return fmt.Errorf("workers %d out of range [1,64]", c.Workers)
	}
	if c.TimeoutSeconds < 1 {
		return fmt.Errorf("timeout_seconds must be positive, got %d", c.TimeoutSeconds)
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
	return dir, nil
}

// LedgerPath returns the path to the download ledger database.
func LedgerPath() (string, error) {
	dataDir := os.Getenv("XDG_DATA_HOME")
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataDir, "tunegrab", "ledger.db"), nil
}
