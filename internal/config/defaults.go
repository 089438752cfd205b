package config

// Default thresholds, applied wherever the config file leaves a value unset.
const (
	DefaultCheckIntervalMinutes = 5

	DefaultMaxFiles      = 20
	DefaultMaxExtensions = 8
	DefaultMaxStaleFiles = 10
	DefaultStaleDays     = 7

	DefaultMaxUnsorted      = 10
	DefaultMaxDuplicates    = 5
	DefaultMaxUnusedPercent = 50
)

// GetDefault returns the default configuration
func GetDefault() *Config {
	return &Config{
		CheckIntervalMinutes: DefaultCheckIntervalMinutes,
		Folders: []FolderConfig{
			{
				Path:          "shell:Desktop",
				MaxFiles:      DefaultMaxFiles,
				MaxExtensions: DefaultMaxExtensions,
				MaxStaleFiles: DefaultMaxStaleFiles,
				StaleDays:     DefaultStaleDays,
			},
			{
				Path:          "shell:Downloads",
				MaxFiles:      DefaultMaxFiles,
				MaxExtensions: DefaultMaxExtensions,
				MaxStaleFiles: DefaultMaxStaleFiles,
				StaleDays:     DefaultStaleDays,
			},
		},
		Bookmarks: BookmarkConfig{
			Enabled:          true,
			MaxUnsorted:      DefaultMaxUnsorted,
			MaxDuplicates:    DefaultMaxDuplicates,
			MaxUnusedPercent: DefaultMaxUnusedPercent,
		},
		LogLevel: "info",
	}
}

// GetExampleConfig returns an example configuration with comments
func GetExampleConfig() string {
	return `# TidyMon Configuration File
# Location: ~/.config/tidymon/config.yaml
# Reloaded at the start of every scan cycle - edits apply on the next tick.

# How often the background monitor scans (in minutes, minimum 1)
check_interval_minutes: 5

# Watched folders and their clutter thresholds.
# A folder exceeds a rule when the measured value is strictly greater than
# the threshold. Each triggered rule adds one point to the clutter score:
#   0 = clean, 1 = caution, 2 = warning, 3 = critical
#
# Paths may use symbolic tokens resolved per platform:
#   shell:Desktop, shell:Downloads, shell:Documents,
#   shell:Pictures, shell:Videos, shell:Music
folders:
  - path: "shell:Desktop"
    max_files: 20        # Rule 1: total number of files
    max_extensions: 8    # Rule 2: distinct file extensions
    max_stale_files: 10  # Rule 3: files untouched for stale_days
    stale_days: 7
  - path: "shell:Downloads"
    max_files: 20
    max_extensions: 8
    max_stale_files: 10
    stale_days: 7

# Chrome bookmark store checks
bookmarks:
  enabled: true
  # path: ""             # Override the default Chrome bookmark location
  max_unsorted: 10       # URLs sitting directly on the bookmark bar root
  max_duplicates: 5      # Distinct URLs bookmarked more than once
  max_unused_percent: 50 # Percentage of bookmarks never used

# Logging (optional)
# log_file: ""           # Empty logs to stdout
log_level: info          # info or debug
`
}
