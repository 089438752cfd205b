package platform

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestXDGAutostartLifecycle(t *testing.T) {
	a := &xdgAutostart{
		executable:  "/usr/local/bin/tidymon",
		desktopPath: filepath.Join(t.TempDir(), "autostart", "tidymon.desktop"),
	}

	enabled, err := a.IsEnabled()
	if err != nil {
		t.Fatalf("IsEnabled failed: %v", err)
	}
	if enabled {
		t.Fatal("autostart should start disabled")
	}

	if err := a.SetEnabled(true); err != nil {
		t.Fatalf("SetEnabled(true) failed: %v", err)
	}
	enabled, err = a.IsEnabled()
	if err != nil {
		t.Fatalf("IsEnabled failed: %v", err)
	}
	if !enabled {
		t.Error("autostart should be enabled after SetEnabled(true)")
	}

	data, err := os.ReadFile(a.desktopPath)
	if err != nil {
		t.Fatalf("failed to read desktop entry: %v", err)
	}
	if !strings.Contains(string(data), "Exec=/usr/local/bin/tidymon") {
		t.Errorf("desktop entry missing Exec line: %s", data)
	}

	if err := a.SetEnabled(false); err != nil {
		t.Fatalf("SetEnabled(false) failed: %v", err)
	}
	enabled, _ = a.IsEnabled()
	if enabled {
		t.Error("autostart should be disabled after SetEnabled(false)")
	}

	// Disabling twice is not an error.
	if err := a.SetEnabled(false); err != nil {
		t.Errorf("second SetEnabled(false) failed: %v", err)
	}
}

func TestLaunchAgentAutostartLifecycle(t *testing.T) {
	a := &launchAgentAutostart{
		executable: "/usr/local/bin/tidymon",
		plistPath:  filepath.Join(t.TempDir(), "LaunchAgents", "com.tidylab.tidymon.plist"),
	}

	if err := a.SetEnabled(true); err != nil {
		t.Fatalf("SetEnabled(true) failed: %v", err)
	}

	data, err := os.ReadFile(a.plistPath)
	if err != nil {
		t.Fatalf("failed to read plist: %v", err)
	}
	if !strings.Contains(string(data), "com.tidylab.tidymon") {
		t.Errorf("plist missing label: %s", data)
	}
	if !strings.Contains(string(data), "/usr/local/bin/tidymon") {
		t.Errorf("plist missing executable: %s", data)
	}

	if err := a.SetEnabled(false); err != nil {
		t.Fatalf("SetEnabled(false) failed: %v", err)
	}
	if enabled, _ := a.IsEnabled(); enabled {
		t.Error("autostart should be disabled after SetEnabled(false)")
	}
}
