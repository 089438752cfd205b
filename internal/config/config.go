// Package config defines the TidyMon configuration: the scan interval,
// per-folder clutter thresholds, and bookmark thresholds. Configuration is
// reloaded at the start of every scan cycle through a Provider, so edits
// take effect on the next tick without a restart.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config represents the application configuration
type Config struct {
	CheckIntervalMinutes int            `yaml:"check_interval_minutes"`
	Folders              []FolderConfig `yaml:"folders"`
	Bookmarks            BookmarkConfig `yaml:"bookmarks"`
	LogFile              string         `yaml:"log_file,omitempty"`
	LogLevel             string         `yaml:"log_level,omitempty"`
}

// FolderConfig holds the thresholds for one watched folder. The path may be
// a symbolic token such as "shell:Desktop", resolved by the Provider.
type FolderConfig struct {
	Path          string `yaml:"path"`
	MaxFiles      int    `yaml:"max_files"`
	MaxExtensions int    `yaml:"max_extensions"`
	MaxStaleFiles int    `yaml:"max_stale_files"`
	StaleDays     int    `yaml:"stale_days"`
}

// BookmarkConfig holds the bookmark store thresholds. An empty Path means
// the platform default Chrome bookmark location.
type BookmarkConfig struct {
	Enabled          bool   `yaml:"enabled"`
	Path             string `yaml:"path,omitempty"`
	MaxUnsorted      int    `yaml:"max_unsorted"`
	MaxDuplicates    int    `yaml:"max_duplicates"`
	MaxUnusedPercent int    `yaml:"max_unused_percent"`
}

// Load loads configuration from a file. Unspecified fields keep their
// defaults; missing per-folder thresholds are filled from the folder
// defaults. A missing file returns the default configuration.
func Load(configPath string) (*Config, error) {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return GetDefault(), nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := GetDefault()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	config.applyDefaults()

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// Save saves configuration to a file
func Save(config *Config, configPath string) error {
	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// applyDefaults fills zero-valued thresholds with the documented defaults.
// A threshold of zero in the file means "use the default", matching the
// per-key fallback the original config keys had.
func (c *Config) applyDefaults() {
	if c.CheckIntervalMinutes == 0 {
		c.CheckIntervalMinutes = DefaultCheckIntervalMinutes
	}
	for i := range c.Folders {
		f := &c.Folders[i]
		if f.MaxFiles == 0 {
			f.MaxFiles = DefaultMaxFiles
		}
		if f.MaxExtensions == 0 {
			f.MaxExtensions = DefaultMaxExtensions
		}
		if f.MaxStaleFiles == 0 {
			f.MaxStaleFiles = DefaultMaxStaleFiles
		}
		if f.StaleDays == 0 {
			f.StaleDays = DefaultStaleDays
		}
	}
	b := &c.Bookmarks
	if b.MaxUnsorted == 0 {
		b.MaxUnsorted = DefaultMaxUnsorted
	}
	if b.MaxDuplicates == 0 {
		b.MaxDuplicates = DefaultMaxDuplicates
	}
	if b.MaxUnusedPercent == 0 {
		b.MaxUnusedPercent = DefaultMaxUnusedPercent
	}
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.CheckIntervalMinutes < 1 {
		return fmt.Errorf("check_interval_minutes must be >= 1")
	}
	for i, f := range c.Folders {
		if strings.TrimSpace(f.Path) == "" {
			return fmt.Errorf("folders[%d]: path must not be empty", i)
		}
		if f.MaxFiles < 0 || f.MaxExtensions < 0 || f.MaxStaleFiles < 0 {
			return fmt.Errorf("folders[%d]: thresholds must be >= 0", i)
		}
		if f.StaleDays < 0 {
			return fmt.Errorf("folders[%d]: stale_days must be >= 0", i)
		}
	}
	b := c.Bookmarks
	if b.MaxUnsorted < 0 || b.MaxDuplicates < 0 {
		return fmt.Errorf("bookmark thresholds must be >= 0")
	}
	if b.MaxUnusedPercent < 0 || b.MaxUnusedPercent > 100 {
		return fmt.Errorf("max_unused_percent must be between 0 and 100")
	}
	return nil
}

// GetConfigPath returns the default config path. The TIDYMON_CONFIG
// environment variable overrides it.
func GetConfigPath() (string, error) {
	if path := os.Getenv("TIDYMON_CONFIG"); path != "" {
		return path, nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}

	configDir := filepath.Join(homeDir, ".config", "tidymon")
	return filepath.Join(configDir, "config.yaml"), nil
}

// EnsureConfigExists creates an example config file if it doesn't exist
func EnsureConfigExists() (string, error) {
	configPath, err := GetConfigPath()
	if err != nil {
		return "", err
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		if err := os.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
			return "", fmt.Errorf("failed to create config directory: %w", err)
		}
		if err := os.WriteFile(configPath, []byte(GetExampleConfig()), 0644); err != nil {
			return "", fmt.Errorf("failed to write config file: %w", err)
		}
	}

	return configPath, nil
}
