// Package rules implements the clutter evaluation engine: fixed threshold
// rules over folder snapshots and Chrome bookmark documents. Evaluation is
// pure — the only inputs are the snapshot, the thresholds, and a single
// captured "now" — so the same snapshot always yields the same report.
package rules

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/tidylab/tidymon/internal/report"
)

// FolderThresholds are the per-folder clutter thresholds.
type FolderThresholds struct {
	MaxFiles      int
	MaxExtensions int
	MaxStaleFiles int
	StaleDays     int
}

// EvaluateFolder scores one watched folder against the thresholds.
// A folder that does not exist is clean by absence: the zero-valued report
// is returned. Only direct file entries are examined; subdirectories are
// ignored. All three rules are always checked so multiple reasons can
// accumulate in one report.
func EvaluateFolder(path string, t FolderThresholds, now time.Time) report.FolderReport {
	r := report.FolderReport{Path: path}

	entries, err := os.ReadDir(path)
	if err != nil {
		return r
	}

	type fileEntry struct {
		name    string
		modTime time.Time
	}
	files := make([]fileEntry, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		files = append(files, fileEntry{name: entry.Name(), modTime: info.ModTime()})
	}
	r.TotalFiles = len(files)

	// Rule 1: too many files
	if r.TotalFiles > t.MaxFiles {
		r.Score++
		r.Reasons = append(r.Reasons, fmt.Sprintf("파일 %d개 (기준: %d개)", r.TotalFiles, t.MaxFiles))
	}

	// Rule 2: too many distinct extensions
	extensions := make(map[string]struct{})
	for _, f := range files {
		if ext := fileExtension(f.name); ext != "" {
			extensions[ext] = struct{}{}
		}
	}
	r.ExtensionCount = len(extensions)
	if r.ExtensionCount > t.MaxExtensions {
		r.Score++
		r.Reasons = append(r.Reasons, fmt.Sprintf("확장자 %d종류 (기준: %d종류)", r.ExtensionCount, t.MaxExtensions))
	}

	// Rule 3: stale files
	staleBefore := now.Add(-time.Duration(t.StaleDays) * 24 * time.Hour)
	for _, f := range files {
		if f.modTime.Before(staleBefore) {
			r.StaleFileCount++
		}
	}
	if r.StaleFileCount > t.MaxStaleFiles {
		r.Score++
		r.Reasons = append(r.Reasons, fmt.Sprintf("%d일 이상 방치 파일 %d개 (기준: %d개)",
			t.StaleDays, r.StaleFileCount, t.MaxStaleFiles))
	}

	return r
}

// fileExtension returns the lowercased extension of a file name, or "" when
// the name has none. Dotfiles (".bashrc") and trailing-dot names ("file.")
// count as having no extension.
func fileExtension(name string) string {
	i := strings.LastIndex(name, ".")
	if i <= 0 || i == len(name)-1 {
		return ""
	}
	return strings.ToLower(name[i:])
}
