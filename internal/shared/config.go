package shared

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

//go:embed config.example.toml
var exampleConf []byte

// Config represents the application configuration loaded from a TOML file.
type Config struct {
	Player    PlayerConfig    `toml:"player"`
	Discovery DiscoveryConfig `toml:"discovery"`
	History   HistoryConfig   `toml:"history"`
	Database  DatabaseConfig  `toml:"database"`
}

// PlayerConfig contains settings for the mpv playback engine.
type PlayerConfig struct {
	Binary           string   `toml:"binary"`
	SocketDir        string   `toml:"socket_dir"`
	OSDNotifications bool     `toml:"osd_notifications"`
	ExtraArgs        []string `toml:"extra_args"`
}

// DiscoveryConfig contains settings for the related-track discovery tool.
type DiscoveryConfig struct {
	Binary             string `toml:"binary"`
	SearchPrefix       string `toml:"search_prefix"`
	ResultLimit        int    `toml:"result_limit"`
	MinIntervalSeconds int    `toml:"min_interval_seconds"`
}

// HistoryConfig contains play-history store settings.
type HistoryConfig struct {
	Path       string `toml:"path"`
	MaxEntries int    `toml:"max_entries"`
}

// DatabaseConfig contains database connection settings.
type DatabaseConfig struct {
	Path         string `toml:"path"`
	MaxOpenConns int    `toml:"max_open_conns"`
	MaxIdleConns int    `toml:"max_idle_conns"`
}

// LoadConfig reads and parses a TOML configuration file from the specified path.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := toml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return &config, nil
}

// DefaultConfig returns a Config with sensible defaults loaded from the embedded example config.
func DefaultConfig() *Config {
	var config Config
	if err := toml.Unmarshal(exampleConf, &config); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	return &config
}

// CreateConfigFile creates a config.toml file at the specified path using the embedded example config.
func CreateConfigFile(path string) error {
	// Check if file already exists
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	// Write the embedded example config to the file
	if err := os.WriteFile(path, exampleConf, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// DataDir returns the per-user data directory for driftplay, honoring
// XDG_DATA_HOME and falling back to ~/.local/share.
func DataDir() (string, error) {
	if base := os.Getenv("XDG_DATA_HOME"); base != "" {
		return filepath.Join(base, "driftplay"), nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve home directory: %w", err)
	}
	return filepath.Join(home, ".local", "share", "driftplay"), nil
}
