package platform

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
)

const (
	autostartName = "TidyMon"

	// Windows registry Run key, managed through reg.exe.
	autostartRegKey = `HKCU\Software\Microsoft\Windows\CurrentVersion\Run`
)

// Autostart toggles whether TidyMon launches at login.
type Autostart interface {
	IsEnabled() (bool, error)
	SetEnabled(enabled bool) error
}

// NewAutostart returns the autostart implementation for the current
// platform: an XDG autostart entry on Linux, a LaunchAgent on macOS, and a
// registry Run value on Windows.
func NewAutostart() (Autostart, error) {
	exe, err := os.Executable()
	if err != nil {
		return nil, fmt.Errorf("failed to locate executable: %w", err)
	}

	switch runtime.GOOS {
	case "windows":
		return &registryAutostart{command: fmt.Sprintf(`"%s"`, exe)}, nil
	case "darwin":
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		return &launchAgentAutostart{
			executable: exe,
			plistPath:  filepath.Join(home, "Library", "LaunchAgents", "com.tidylab.tidymon.plist"),
		}, nil
	default:
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		return &xdgAutostart{
			executable:  exe,
			desktopPath: filepath.Join(home, ".config", "autostart", "tidymon.desktop"),
		}, nil
	}
}

// xdgAutostart manages an XDG autostart .desktop entry.
type xdgAutostart struct {
	executable  string
	desktopPath string
}

func (a *xdgAutostart) IsEnabled() (bool, error) {
	_, err := os.Stat(a.desktopPath)
	if os.IsNotExist(err) {
		return false, nil
	}
	return err == nil, err
}

func (a *xdgAutostart) SetEnabled(enabled bool) error {
	if !enabled {
		if err := os.Remove(a.desktopPath); err != nil && !os.IsNotExist(err) {
			return err
		}
		return nil
	}

	entry := fmt.Sprintf(`[Desktop Entry]
Type=Application
Name=%s
Exec=%s
X-GNOME-Autostart-enabled=true
`, autostartName, a.executable)

	if err := os.MkdirAll(filepath.Dir(a.desktopPath), 0755); err != nil {
		return err
	}
	return os.WriteFile(a.desktopPath, []byte(entry), 0644)
}

// launchAgentAutostart manages a macOS LaunchAgent plist.
type launchAgentAutostart struct {
	executable string
	plistPath  string
}

func (a *launchAgentAutostart) IsEnabled() (bool, error) {
	_, err := os.Stat(a.plistPath)
	if os.IsNotExist(err) {
		return false, nil
	}
	return err == nil, err
}

func (a *launchAgentAutostart) SetEnabled(enabled bool) error {
	if !enabled {
		if err := os.Remove(a.plistPath); err != nil && !os.IsNotExist(err) {
			return err
		}
		return nil
	}

	plist := fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<!DOCTYPE plist PUBLIC "-//Apple//DTD PLIST 1.0//EN" "http://www.apple.com/DTDs/PropertyList-1.0.dtd">
<plist version="1.0">
<dict>
	<key>Label</key>
	<string>com.tidylab.tidymon</string>
	<key>ProgramArguments</key>
	<array>
		<string>%s</string>
	</array>
	<key>RunAtLoad</key>
	<true/>
</dict>
</plist>
`, a.executable)

	if err := os.MkdirAll(filepath.Dir(a.plistPath), 0755); err != nil {
		return err
	}
	return os.WriteFile(a.plistPath, []byte(plist), 0644)
}

// registryAutostart manages the HKCU Run value on Windows via reg.exe,
// which keeps this package free of Windows-only imports.
type registryAutostart struct {
	command string
}

func (a *registryAutostart) IsEnabled() (bool, error) {
	out, err := exec.Command("reg", "query", autostartRegKey, "/v", autostartName).CombinedOutput()
	if err != nil {
		// reg.exe exits non-zero when the value is missing.
		return false, nil
	}
	return strings.Contains(string(out), autostartName), nil
}

func (a *registryAutostart) SetEnabled(enabled bool) error {
	if !enabled {
		out, err := exec.Command("reg", "delete", autostartRegKey, "/v", autostartName, "/f").CombinedOutput()
		if err != nil && !strings.Contains(string(out), "unable to find") {
			return fmt.Errorf("failed to remove autostart value: %s", strings.TrimSpace(string(out)))
		}
		return nil
	}

	out, err := exec.Command("reg", "add", autostartRegKey,
		"/v", autostartName, "/t", "REG_SZ", "/d", a.command, "/f").CombinedOutput()
	if err != nil {
		return fmt.Errorf("failed to set autostart value: %s", strings.TrimSpace(string(out)))
	}
	return nil
}
