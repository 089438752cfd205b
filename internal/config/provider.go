package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// shellTokenPrefix marks a symbolic known-folder path in the config file,
// e.g. "shell:Desktop".
const shellTokenPrefix = "shell:"

// Provider supplies a fresh configuration for each scan cycle. The scan
// scheduler never caches configuration across cycles; it calls Load once
// per cycle so threshold edits take effect on the next tick.
type Provider interface {
	Load() (*Config, error)
}

// FileProvider loads configuration from a YAML file and resolves symbolic
// folder tokens and the default bookmark store path on every load.
type FileProvider struct {
	// Path is the config file location.
	Path string
	// ResolveFolder maps a known-folder name ("Desktop") to a real path.
	ResolveFolder func(name string) (string, error)
	// DefaultBookmarksPath supplies the bookmark store location when the
	// config does not set one.
	DefaultBookmarksPath func() string
}

// NewFileProvider creates a provider for the given config file.
func NewFileProvider(path string, resolveFolder func(string) (string, error), defaultBookmarks func() string) *FileProvider {
	return &FileProvider{
		Path:                 path,
		ResolveFolder:        resolveFolder,
		DefaultBookmarksPath: defaultBookmarks,
	}
}

// Load reads the config file and resolves every folder path. A resolution
// failure fails the whole load: the cycle cannot know what to scan.
func (p *FileProvider) Load() (*Config, error) {
	cfg, err := Load(p.Path)
	if err != nil {
		return nil, err
	}

	for i := range cfg.Folders {
		resolved, err := p.resolvePath(cfg.Folders[i].Path)
		if err != nil {
			return nil, fmt.Errorf("folders[%d]: %w", i, err)
		}
		cfg.Folders[i].Path = resolved
	}

	if cfg.Bookmarks.Path == "" && p.DefaultBookmarksPath != nil {
		cfg.Bookmarks.Path = p.DefaultBookmarksPath()
	}

	return cfg, nil
}

// resolvePath expands "shell:" tokens and a leading "~".
func (p *FileProvider) resolvePath(path string) (string, error) {
	if strings.HasPrefix(path, shellTokenPrefix) {
		name := strings.TrimPrefix(path, shellTokenPrefix)
		if p.ResolveFolder == nil {
			return "", fmt.Errorf("no resolver for symbolic path %q", path)
		}
		resolved, err := p.ResolveFolder(name)
		if err != nil {
			return "", fmt.Errorf("failed to resolve %q: %w", path, err)
		}
		return resolved, nil
	}

	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		if path == "~" {
			return home, nil
		}
		return filepath.Join(home, path[2:]), nil
	}

	return path, nil
}
