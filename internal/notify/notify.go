// Package notify maps clutter reports to leveled desktop notifications.
// Delivery is fire-and-forget: failures are logged and never propagate
// back into the scan cycle.
package notify

import (
	"fmt"
	"strings"

	"github.com/gen2brain/beeep"

	"github.com/tidylab/tidymon/internal/logging"
	"github.com/tidylab/tidymon/internal/platform"
	"github.com/tidylab/tidymon/internal/report"
)

// Dispatcher receives one report per non-clean evaluation and shows it to
// the operator.
type Dispatcher interface {
	NotifyFolder(r report.FolderReport)
	NotifyBookmarks(r report.BookmarkReport)
}

// levelTitles are the toast titles per severity level.
var levelTitles = map[report.Level]string{
	report.LevelCaution:  "정리 알림",
	report.LevelWarning:  "⚠ 정리 경고",
	report.LevelCritical: "🚨 정리 심각",
}

// Toast shows desktop notifications through the system notification
// service.
type Toast struct {
	logger *logging.Logger
}

// NewToast creates a toast dispatcher.
func NewToast(logger *logging.Logger) *Toast {
	beeep.AppName = "TidyMon"
	return &Toast{logger: logger}
}

// NotifyFolder shows a toast for a non-clean folder report. Clean reports
// are a no-op.
func (t *Toast) NotifyFolder(r report.FolderReport) {
	level := r.Level()
	if level == report.LevelClean {
		return
	}
	t.show(level, folderBody(r))
}

// NotifyBookmarks shows a toast for a non-clean bookmark report. Clean
// reports are a no-op.
func (t *Toast) NotifyBookmarks(r report.BookmarkReport) {
	level := r.Level()
	if level == report.LevelClean {
		return
	}
	t.show(level, bookmarkBody(r))
}

// show delivers one toast. Critical alerts use the urgent variant.
func (t *Toast) show(level report.Level, body string) {
	title := levelTitles[level]

	var err error
	if level == report.LevelCritical {
		err = beeep.Alert(title, body, "")
	} else {
		err = beeep.Notify(title, body, "")
	}
	if err != nil {
		t.logger.Error("Failed to show notification %q: %v", title, err)
		return
	}
	t.logger.Debug("Notification sent: %s", title)
}

// folderBody builds the toast body for a folder report: a headline, the
// ordered reasons, and a call to action.
func folderBody(r report.FolderReport) string {
	lines := []string{fmt.Sprintf("🗂 %s에 파일 %d개!", platform.FolderName(r.Path), r.TotalFiles)}
	for _, reason := range r.Reasons {
		lines = append(lines, "  • "+reason)
	}
	lines = append(lines, "정리가 필요합니다.")
	return strings.Join(lines, "\n")
}

// bookmarkBody builds the toast body for a bookmark report.
func bookmarkBody(r report.BookmarkReport) string {
	lines := []string{fmt.Sprintf("🔖 북마크 %d개", r.TotalBookmarks)}
	for _, reason := range r.Reasons {
		lines = append(lines, "  • "+reason)
	}
	lines = append(lines, "북마크 정리가 필요합니다.")
	return strings.Join(lines, "\n")
}
