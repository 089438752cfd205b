// Package testutil provides test helpers and fixtures for tidymon tests.
// All file operations use t.TempDir() for safe, isolated testing.
package testutil

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"
)

// TestFixture holds paths to test directories and files
type TestFixture struct {
	T       *testing.T
	RootDir string // Root temp directory (auto-cleaned)
}

// NewFixture creates a new test fixture
func NewFixture(t *testing.T) *TestFixture {
	t.Helper()
	return &TestFixture{T: t, RootDir: t.TempDir()}
}

// Path returns the full path for a relative path within the fixture
func (f *TestFixture) Path(relPath string) string {
	return filepath.Join(f.RootDir, relPath)
}

// CreateFile creates a file with specified content and returns its path
func (f *TestFixture) CreateFile(relPath string, content []byte) string {
	f.T.Helper()

	fullPath := filepath.Join(f.RootDir, relPath)
	dir := filepath.Dir(fullPath)

	if err := os.MkdirAll(dir, 0755); err != nil {
		f.T.Fatalf("failed to create directory %s: %v", dir, err)
	}

	if err := os.WriteFile(fullPath, content, 0644); err != nil {
		f.T.Fatalf("failed to create file %s: %v", fullPath, err)
	}

	return fullPath
}

// CreateFileWithAge creates a file and sets its modification time to the past
func (f *TestFixture) CreateFileWithAge(relPath string, content []byte, age time.Duration) string {
	f.T.Helper()

	fullPath := f.CreateFile(relPath, content)
	oldTime := time.Now().Add(-age)

	if err := os.Chtimes(fullPath, oldTime, oldTime); err != nil {
		f.T.Fatalf("failed to set file time for %s: %v", fullPath, err)
	}

	return fullPath
}

// CreateFiles creates count empty files named with the given prefix and
// extension, e.g. CreateFiles("desk", "file", ".txt", 25).
func (f *TestFixture) CreateFiles(dir, prefix, ext string, count int) {
	f.T.Helper()
	for i := 0; i < count; i++ {
		f.CreateFile(filepath.Join(dir, fmt.Sprintf("%s%03d%s", prefix, i, ext)), []byte("x"))
	}
}

// CreateDir creates a directory and returns its path
func (f *TestFixture) CreateDir(relPath string) string {
	f.T.Helper()

	fullPath := filepath.Join(f.RootDir, relPath)
	if err := os.MkdirAll(fullPath, 0755); err != nil {
		f.T.Fatalf("failed to create directory %s: %v", fullPath, err)
	}

	return fullPath
}

// =============================================================================
// Bookmark Store Builders
// =============================================================================

// BookmarkNode mirrors one node of Chrome's bookmark JSON for building test
// stores.
type BookmarkNode struct {
	Type         string         `json:"type"`
	Name         string         `json:"name,omitempty"`
	URL          string         `json:"url,omitempty"`
	DateLastUsed string         `json:"date_last_used,omitempty"`
	Children     []BookmarkNode `json:"children,omitempty"`
}

// URLNode builds a bookmark leaf. dateLastUsed "" means the key is omitted
// entirely, like stores written before Chrome tracked usage.
func URLNode(url, dateLastUsed string) BookmarkNode {
	return BookmarkNode{Type: "url", URL: url, DateLastUsed: dateLastUsed}
}

// FolderNode builds a bookmark folder.
func FolderNode(name string, children ...BookmarkNode) BookmarkNode {
	return BookmarkNode{Type: "folder", Name: name, Children: children}
}

// BookmarksJSON renders a Chrome bookmark store with the given roots.
func BookmarksJSON(t *testing.T, roots map[string]BookmarkNode) []byte {
	t.Helper()

	data, err := json.Marshal(map[string]interface{}{
		"version": 1,
		"roots":   roots,
	})
	if err != nil {
		t.Fatalf("failed to marshal bookmarks: %v", err)
	}
	return data
}

// WriteBookmarks writes a Chrome bookmark store file and returns its path.
func (f *TestFixture) WriteBookmarks(relPath string, roots map[string]BookmarkNode) string {
	f.T.Helper()
	return f.CreateFile(relPath, BookmarksJSON(f.T, roots))
}

// =============================================================================
// Assertion Helpers
// =============================================================================

// AssertContains fails the test unless want appears in got.
func AssertContains(t *testing.T, got []string, want string) {
	t.Helper()
	for _, s := range got {
		if s == want {
			return
		}
	}
	t.Errorf("expected %q in %v", want, got)
}
