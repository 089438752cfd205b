// Package schedtask registers a periodic one-shot scan with the OS task
// scheduler, for running TidyMon headless: schtasks on Windows, a systemd
// user timer on Linux, and a launchd agent on macOS.
package schedtask

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
)

const (
	windowsTaskName = "TidyMon_Monitor"
	systemdUnitName = "tidymon-scan"
	launchdLabel    = "com.tidylab.tidymon.scan"
)

// Register schedules `tidymon scan` to run every intervalMinutes.
// An existing registration is replaced.
func Register(intervalMinutes int) error {
	if intervalMinutes < 1 {
		return fmt.Errorf("interval must be >= 1 minute")
	}
	exe, err := os.Executable()
	if err != nil {
		return fmt.Errorf("failed to locate executable: %w", err)
	}

	switch runtime.GOOS {
	case "windows":
		return registerWindows(exe, intervalMinutes)
	case "darwin":
		return registerLaunchd(exe, intervalMinutes)
	default:
		return registerSystemd(exe, intervalMinutes)
	}
}

// Unregister removes the scheduled scan. Removing a task that was never
// registered is not an error.
func Unregister() error {
	switch runtime.GOOS {
	case "windows":
		out, err := exec.Command("schtasks", "/Delete", "/TN", windowsTaskName, "/F").CombinedOutput()
		if err != nil && !strings.Contains(string(out), "cannot find") {
			return fmt.Errorf("failed to delete task: %s", strings.TrimSpace(string(out)))
		}
		return nil
	case "darwin":
		return unregisterLaunchd()
	default:
		return unregisterSystemd()
	}
}

func registerWindows(exe string, intervalMinutes int) error {
	// Replace any previous registration.
	_ = exec.Command("schtasks", "/Delete", "/TN", windowsTaskName, "/F").Run()

	out, err := exec.Command("schtasks",
		"/Create",
		"/TN", windowsTaskName,
		"/TR", fmt.Sprintf(`"%s" scan`, exe),
		"/SC", "MINUTE",
		"/MO", fmt.Sprintf("%d", intervalMinutes),
		"/F",
	).CombinedOutput()
	if err != nil {
		return fmt.Errorf("failed to create task: %s", strings.TrimSpace(string(out)))
	}
	return nil
}

func systemdUnitDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "systemd", "user"), nil
}

func registerSystemd(exe string, intervalMinutes int) error {
	unitDir, err := systemdUnitDir()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(unitDir, 0755); err != nil {
		return err
	}

	service := fmt.Sprintf(`[Unit]
Description=TidyMon one-shot clutter scan

[Service]
Type=oneshot
ExecStart=%s scan
`, exe)

	timer := fmt.Sprintf(`[Unit]
Description=Run TidyMon scan every %d minutes

[Timer]
OnBootSec=1min
OnUnitActiveSec=%dmin

[Install]
WantedBy=timers.target
`, intervalMinutes, intervalMinutes)

	if err := os.WriteFile(filepath.Join(unitDir, systemdUnitName+".service"), []byte(service), 0644); err != nil {
		return err
	}
	if err := os.WriteFile(filepath.Join(unitDir, systemdUnitName+".timer"), []byte(timer), 0644); err != nil {
		return err
	}

	if out, err := exec.Command("systemctl", "--user", "daemon-reload").CombinedOutput(); err != nil {
		return fmt.Errorf("daemon-reload failed: %s", strings.TrimSpace(string(out)))
	}
	if out, err := exec.Command("systemctl", "--user", "enable", "--now", systemdUnitName+".timer").CombinedOutput(); err != nil {
		return fmt.Errorf("failed to enable timer: %s", strings.TrimSpace(string(out)))
	}
	return nil
}

func unregisterSystemd() error {
	_ = exec.Command("systemctl", "--user", "disable", "--now", systemdUnitName+".timer").Run()

	unitDir, err := systemdUnitDir()
	if err != nil {
		return err
	}
	for _, unit := range []string{systemdUnitName + ".service", systemdUnitName + ".timer"} {
		if err := os.Remove(filepath.Join(unitDir, unit)); err != nil && !os.IsNotExist(err) {
			return err
		}
	}
	_ = exec.Command("systemctl", "--user", "daemon-reload").Run()
	return nil
}

func launchdPlistPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, "Library", "LaunchAgents", launchdLabel+".plist"), nil
}

func registerLaunchd(exe string, intervalMinutes int) error {
	plistPath, err := launchdPlistPath()
	if err != nil {
		return err
	}

	plist := fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<!DOCTYPE plist PUBLIC "-//Apple//DTD PLIST 1.0//EN" "http://www.apple.com/DTDs/PropertyList-1.0.dtd">
<plist version="1.0">
<dict>
	<key>Label</key>
	<string>%s</string>
	<key>ProgramArguments</key>
	<array>
		<string>%s</string>
		<string>scan</string>
	</array>
	<key>StartInterval</key>
	<integer>%d</integer>
</dict>
</plist>
`, launchdLabel, exe, intervalMinutes*60)

	if err := os.MkdirAll(filepath.Dir(plistPath), 0755); err != nil {
		return err
	}
	if err := os.WriteFile(plistPath, []byte(plist), 0644); err != nil {
		return err
	}

	_ = exec.Command("launchctl", "unload", plistPath).Run()
	if out, err := exec.Command("launchctl", "load", plistPath).CombinedOutput(); err != nil {
		return fmt.Errorf("failed to load agent: %s", strings.TrimSpace(string(out)))
	}
	return nil
}

func unregisterLaunchd() error {
	plistPath, err := launchdPlistPath()
	if err != nil {
		return err
	}
	_ = exec.Command("launchctl", "unload", plistPath).Run()
	if err := os.Remove(plistPath); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
