package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/tidylab/tidymon/internal/config"
	"github.com/tidylab/tidymon/internal/logging"
	"github.com/tidylab/tidymon/internal/monitor"
	"github.com/tidylab/tidymon/internal/notify"
	"github.com/tidylab/tidymon/internal/platform"
	"github.com/tidylab/tidymon/internal/schedtask"
	"github.com/tidylab/tidymon/internal/ui"
)

var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildTime = "unknown"
)

var (
	configPath string
	noNotify   bool
)

func main() {
	// Local overrides for development (TIDYMON_CONFIG etc.); absence is fine.
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "tidymon",
	Short: "Desktop and bookmark clutter monitor",
	Long: `TidyMon watches your folders and Chrome bookmarks in the background,
scores them against configurable clutter thresholds, and nags you with
leveled notifications when things pile up.`,
	Version: fmt.Sprintf("%s (commit: %s, built: %s)", Version, GitCommit, BuildTime),
	// Bare "tidymon" behaves like "tidymon run".
	RunE: func(cmd *cobra.Command, args []string) error {
		return runCmd.RunE(cmd, args)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "config file path (default ~/.config/tidymon/config.yaml)")

	scanCmd.Flags().BoolVar(&noNotify, "no-notify", false, "print reports without showing notifications")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(scanCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(autostartCmd)
	rootCmd.AddCommand(taskCmd)

	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configPathCmd)

	autostartCmd.AddCommand(autostartEnableCmd)
	autostartCmd.AddCommand(autostartDisableCmd)
	autostartCmd.AddCommand(autostartStatusCmd)

	taskCmd.AddCommand(taskRegisterCmd)
	taskCmd.AddCommand(taskUnregisterCmd)
}

// resolveConfigPath returns the config file location, honoring the --config
// flag and creating the default file on first use.
func resolveConfigPath() (string, error) {
	if configPath != "" {
		return configPath, nil
	}
	return config.EnsureConfigExists()
}

// newLogger builds the logger from the loaded configuration. Environment
// variables override the file settings.
func newLogger(cfg *config.Config) (*logging.Logger, error) {
	logFile := cfg.LogFile
	if v := os.Getenv("TIDYMON_LOG_FILE"); v != "" {
		logFile = v
	}
	logLevel := cfg.LogLevel
	if v := os.Getenv("TIDYMON_LOG_LEVEL"); v != "" {
		logLevel = v
	}
	return logging.New(logFile, logLevel)
}

// newProvider wires the config provider to the platform resolvers.
func newProvider(path string) *config.FileProvider {
	return config.NewFileProvider(path, platform.ResolveFolderToken, platform.ChromeBookmarksPath)
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the background monitor with the status panel",
	Long: `Starts the scan scheduler and the interactive status panel. The monitor
scans immediately, then on every interval tick; press s for an immediate
scan and q to quit.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := resolveConfigPath()
		if err != nil {
			return fmt.Errorf("failed to prepare config: %w", err)
		}

		provider := newProvider(path)
		cfg, err := provider.Load()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		logger, err := newLogger(cfg)
		if err != nil {
			return fmt.Errorf("failed to open log file: %w", err)
		}
		defer logger.Close()

		mon := monitor.New(provider, notify.NewToast(logger), nil, logger)

		autostart, err := platform.NewAutostart()
		if err != nil {
			return fmt.Errorf("autostart unavailable: %w", err)
		}

		shell := ui.NewShell(mon, autostart, path, logger)
		mon.SetPublisher(shell)

		logger.Info("TidyMon %s starting, config: %s", Version, path)
		go mon.Run()

		if err := shell.Run(); err != nil {
			mon.Stop()
			<-mon.Done()
			return fmt.Errorf("shell failed: %w", err)
		}

		logger.Info("TidyMon stopped")
		return nil
	},
}

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Run one scan cycle and print the reports",
	Long: `Evaluates all watched folders and the bookmark store once, prints each
report, and shows notifications for anything non-clean. This is the entry
point the OS task scheduler invokes.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := resolveConfigPath()
		if err != nil {
			return fmt.Errorf("failed to prepare config: %w", err)
		}

		provider := newProvider(path)
		cfg, err := provider.Load()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		logger, err := newLogger(cfg)
		if err != nil {
			return fmt.Errorf("failed to open log file: %w", err)
		}
		defer logger.Close()

		var dispatcher notify.Dispatcher
		if !noNotify {
			dispatcher = notify.NewToast(logger)
		}

		mon := monitor.New(provider, dispatcher, nil, logger)
		snap, err := mon.ScanOnce()
		if err != nil {
			return fmt.Errorf("scan failed: %w", err)
		}

		for _, r := range snap.Folders {
			fmt.Printf("[%s] %s: score=%d, files=%d\n",
				strings.ToUpper(string(r.Level())), r.Path, r.Score, r.TotalFiles)
			for _, reason := range r.Reasons {
				fmt.Printf("  - %s\n", reason)
			}
		}
		if snap.Bookmarks != nil {
			b := snap.Bookmarks
			fmt.Printf("[%s] bookmarks: score=%d, total=%d\n",
				strings.ToUpper(string(b.Level())), b.Score, b.TotalBookmarks)
			for _, reason := range b.Reasons {
				fmt.Printf("  - %s\n", reason)
			}
		}

		return nil
	},
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage the configuration file",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a default config file",
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := config.EnsureConfigExists()
		if err != nil {
			return fmt.Errorf("failed to create config: %w", err)
		}
		fmt.Printf("Config file: %s\n", path)
		return nil
	},
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the config file location",
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := resolveConfigPath()
		if err != nil {
			return err
		}
		fmt.Println(path)
		return nil
	},
}

var autostartCmd = &cobra.Command{
	Use:   "autostart",
	Short: "Manage login autostart",
}

var autostartEnableCmd = &cobra.Command{
	Use:   "enable",
	Short: "Start TidyMon automatically at login",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := platform.NewAutostart()
		if err != nil {
			return err
		}
		if err := a.SetEnabled(true); err != nil {
			return fmt.Errorf("failed to enable autostart: %w", err)
		}
		fmt.Println("Autostart enabled")
		return nil
	},
}

var autostartDisableCmd = &cobra.Command{
	Use:   "disable",
	Short: "Do not start TidyMon at login",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := platform.NewAutostart()
		if err != nil {
			return err
		}
		if err := a.SetEnabled(false); err != nil {
			return fmt.Errorf("failed to disable autostart: %w", err)
		}
		fmt.Println("Autostart disabled")
		return nil
	},
}

var autostartStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show whether autostart is enabled",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := platform.NewAutostart()
		if err != nil {
			return err
		}
		enabled, err := a.IsEnabled()
		if err != nil {
			return fmt.Errorf("failed to query autostart: %w", err)
		}
		if enabled {
			fmt.Println("Autostart: enabled")
		} else {
			fmt.Println("Autostart: disabled")
		}
		return nil
	},
}

var taskCmd = &cobra.Command{
	Use:   "task",
	Short: "Manage the OS scheduled scan task",
	Long: `Registers a periodic "tidymon scan" with the OS task scheduler so scans
run even when the status panel is not open.`,
}

var taskRegisterCmd = &cobra.Command{
	Use:   "register",
	Short: "Register the periodic scan task",
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := resolveConfigPath()
		if err != nil {
			return fmt.Errorf("failed to prepare config: %w", err)
		}
		cfg, err := newProvider(path).Load()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		if err := schedtask.Register(cfg.CheckIntervalMinutes); err != nil {
			return fmt.Errorf("failed to register task: %w", err)
		}
		fmt.Printf("Scan task registered (every %d minutes)\n", cfg.CheckIntervalMinutes)
		return nil
	},
}

var taskUnregisterCmd = &cobra.Command{
	Use:   "unregister",
	Short: "Remove the periodic scan task",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := schedtask.Unregister(); err != nil {
			return fmt.Errorf("failed to unregister task: %w", err)
		}
		fmt.Println("Scan task removed")
		return nil
	},
}
