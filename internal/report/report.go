// Package report holds the immutable result types produced by one scan
// cycle: per-folder and bookmark clutter reports plus the severity level
// derived from their scores.
package report

// Level is the severity of a report, derived from its score.
type Level string

const (
	LevelClean    Level = "clean"
	LevelCaution  Level = "caution"
	LevelWarning  Level = "warning"
	LevelCritical Level = "critical"
)

// levelLabels are the user-facing labels shown in the shell menu.
var levelLabels = map[Level]string{
	LevelClean:    "깨끗 ✓",
	LevelCaution:  "주의",
	LevelWarning:  "경고 ⚠",
	LevelCritical: "심각 ⚠",
}

// LevelForScore maps a clutter score to its severity level. The mapping is
// a step function: 0 is clean, 1 caution, 2 warning, and 3 or more critical.
func LevelForScore(score int) Level {
	switch {
	case score >= 3:
		return LevelCritical
	case score == 2:
		return LevelWarning
	case score == 1:
		return LevelCaution
	default:
		return LevelClean
	}
}

// Priority returns the ordinal of the level: clean < caution < warning < critical.
func (l Level) Priority() int {
	switch l {
	case LevelCritical:
		return 3
	case LevelWarning:
		return 2
	case LevelCaution:
		return 1
	default:
		return 0
	}
}

// Label returns the display label for the level.
func (l Level) Label() string {
	if label, ok := levelLabels[l]; ok {
		return label
	}
	return levelLabels[LevelClean]
}

// Worst returns the highest-priority level among the given levels.
// An empty argument list is clean.
func Worst(levels ...Level) Level {
	worst := LevelClean
	for _, l := range levels {
		if l.Priority() > worst.Priority() {
			worst = l
		}
	}
	return worst
}

// FolderReport is the result of evaluating one watched folder.
// It is constructed fresh every cycle and never mutated afterwards.
type FolderReport struct {
	Path           string
	TotalFiles     int
	ExtensionCount int
	StaleFileCount int
	Score          int
	Reasons        []string
}

// Level returns the severity derived from the report's score.
func (r FolderReport) Level() Level {
	return LevelForScore(r.Score)
}

// BookmarkReport is the result of evaluating the bookmark store.
// At most one instance exists per scan cycle.
type BookmarkReport struct {
	TotalBookmarks int
	UnsortedCount  int
	DuplicateCount int
	UnusedCount    int
	Score          int
	Reasons        []string
}

// Level returns the severity derived from the report's score.
func (r BookmarkReport) Level() Level {
	return LevelForScore(r.Score)
}
