package styles

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/tidylab/tidymon/internal/report"
)

// Level colors, matching the original tray icon palette.
var (
	Clean    = lipgloss.Color("#4CAF50")
	Caution  = lipgloss.Color("#FFEB3B")
	Warning  = lipgloss.Color("#FF9800")
	Critical = lipgloss.Color("#F44336")

	Text    = lipgloss.Color("#F3F4F6")
	TextDim = lipgloss.Color("#9CA3AF")
	Border  = lipgloss.Color("#4B5563")
	Accent  = lipgloss.Color("#42A5F5")
)

// Common styles
var (
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(Accent).
			MarginBottom(1)

	PanelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Border).
			Padding(1, 2)

	SelectedStyle = lipgloss.NewStyle().
			Foreground(Accent).
			Bold(true)

	DimStyle = lipgloss.NewStyle().
			Foreground(TextDim)

	StatusStyle = lipgloss.NewStyle().
			Foreground(TextDim).
			Italic(true)

	HelpStyle = lipgloss.NewStyle().
			Foreground(TextDim)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(Critical).
			Bold(true)
)

// LevelColor returns the indicator color for a severity level.
func LevelColor(l report.Level) lipgloss.Color {
	switch l {
	case report.LevelCritical:
		return Critical
	case report.LevelWarning:
		return Warning
	case report.LevelCaution:
		return Caution
	default:
		return Clean
	}
}

// Badge renders the colored status dot for a severity level.
func Badge(l report.Level) string {
	return lipgloss.NewStyle().Foreground(LevelColor(l)).Render("●")
}

// LevelLabel renders the level label in the level's color.
func LevelLabel(l report.Level) string {
	return lipgloss.NewStyle().Foreground(LevelColor(l)).Render(l.Label())
}
