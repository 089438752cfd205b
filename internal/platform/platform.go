// Package platform isolates OS-specific glue: resolving symbolic known
// folders, locating the Chrome bookmark store, opening paths with the
// system handler, and toggling login autostart. The core never depends on
// the internals of any of these.
package platform

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
)

// knownFolders are the symbolic folder names accepted in config paths.
// On Linux each maps to an XDG user-dirs key.
var knownFolders = map[string]string{
	"Desktop":   "XDG_DESKTOP_DIR",
	"Downloads": "XDG_DOWNLOAD_DIR",
	"Documents": "XDG_DOCUMENTS_DIR",
	"Pictures":  "XDG_PICTURES_DIR",
	"Videos":    "XDG_VIDEOS_DIR",
	"Music":     "XDG_MUSIC_DIR",
}

// KnownFolderNames returns the supported symbolic folder names, sorted.
func KnownFolderNames() []string {
	names := make([]string, 0, len(knownFolders))
	for name := range knownFolders {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ResolveFolderToken maps a symbolic folder name such as "Desktop" to the
// user's real folder path. Unknown names are an error.
func ResolveFolderToken(name string) (string, error) {
	xdgKey, ok := knownFolders[name]
	if !ok {
		return "", fmt.Errorf("unknown folder: %s (supported: %s)",
			name, strings.Join(KnownFolderNames(), ", "))
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}

	if runtime.GOOS == "linux" {
		if path := xdgUserDir(home, xdgKey); path != "" {
			return path, nil
		}
	}

	// macOS, Windows, and the Linux fallback all use home subfolders with
	// the English folder names.
	return filepath.Join(home, name), nil
}

// xdgUserDir looks up one XDG key in ~/.config/user-dirs.dirs. Returns ""
// when the file or the key is absent.
func xdgUserDir(home, key string) string {
	data, err := os.ReadFile(filepath.Join(home, ".config", "user-dirs.dirs"))
	if err != nil {
		return ""
	}
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if !strings.HasPrefix(line, key+"=") {
			continue
		}
		value := strings.Trim(strings.TrimPrefix(line, key+"="), `"`)
		value = strings.ReplaceAll(value, "$HOME", home)
		if value != "" {
			return value
		}
	}
	return ""
}

// ChromeBookmarksPath returns the default location of Chrome's bookmark
// store for the current platform.
func ChromeBookmarksPath() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("LOCALAPPDATA"),
			"Google", "Chrome", "User Data", "Default", "Bookmarks")
	case "darwin":
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		return filepath.Join(home, "Library", "Application Support",
			"Google", "Chrome", "Default", "Bookmarks")
	default:
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		return filepath.Join(home, ".config", "google-chrome", "Default", "Bookmarks")
	}
}

// Open opens a file, folder, or URL with the system default handler.
func Open(target string) error {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "windows":
		cmd = exec.Command("cmd", "/c", "start", "", target)
	case "darwin":
		cmd = exec.Command("open", target)
	default:
		cmd = exec.Command("xdg-open", target)
	}
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to open %s: %w", target, err)
	}
	// Fire and forget; reap the child in the background.
	go func() { _ = cmd.Wait() }()
	return nil
}

// FolderName returns the display name of a folder path (its last element).
func FolderName(path string) string {
	trimmed := strings.TrimRight(path, "/\\")
	if i := strings.LastIndexAny(trimmed, "/\\"); i >= 0 {
		return trimmed[i+1:]
	}
	return trimmed
}
