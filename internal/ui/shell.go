// Package ui implements the presentation shell: a status panel that shows
// the worst current level and a per-item menu, and exposes the manual
// actions (scan now, open item, toggle autostart, open config, quit). The
// shell only reads reports; all evaluation lives in the monitor.
package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/tidylab/tidymon/internal/logging"
	"github.com/tidylab/tidymon/internal/monitor"
	"github.com/tidylab/tidymon/internal/platform"
	"github.com/tidylab/tidymon/internal/ui/styles"
)

// bookmarksTarget is opened when the bookmark menu item is activated.
const bookmarksTarget = "chrome://bookmarks"

// snapshotMsg carries a finished scan cycle into the shell.
type snapshotMsg struct {
	snap *monitor.Snapshot
}

// workerDoneMsg reports that the monitor worker has exited; the shell may
// now quit.
type workerDoneMsg struct{}

// keyMap defines the shell's key bindings.
type keyMap struct {
	Up        key.Binding
	Down      key.Binding
	Scan      key.Binding
	Open      key.Binding
	Autostart key.Binding
	Config    key.Binding
	Quit      key.Binding
}

// ShortHelp returns the bindings shown in the help bar.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Scan, k.Open, k.Autostart, k.Config, k.Quit}
}

// FullHelp returns all bindings.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Open},
		{k.Scan, k.Autostart, k.Config, k.Quit},
	}
}

func defaultKeyMap() keyMap {
	return keyMap{
		Up:        key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "위로")),
		Down:      key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "아래로")),
		Scan:      key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "지금 검사")),
		Open:      key.NewBinding(key.WithKeys("enter", "o"), key.WithHelp("enter/o", "열기")),
		Autostart: key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "자동 시작")),
		Config:    key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "설정 열기")),
		Quit:      key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "종료")),
	}
}

// menuItem is one openable row of the status menu: a watched folder or the
// bookmark store. The open target travels with the item, so no closure
// captures a loop variable.
type menuItem struct {
	label  string
	target string
}

// model is the bubbletea model for the shell.
type model struct {
	mon        *monitor.Monitor
	autostart  platform.Autostart
	configPath string
	logger     *logging.Logger

	snap   *monitor.Snapshot
	items  []menuItem
	cursor int

	spin     spinner.Model
	keys     keyMap
	help     help.Model
	status   string
	quitting bool
}

func newModel(mon *monitor.Monitor, autostart platform.Autostart, configPath string, logger *logging.Logger) model {
	spin := spinner.New()
	spin.Spinner = spinner.Dot
	return model{
		mon:        mon,
		autostart:  autostart,
		configPath: configPath,
		logger:     logger,
		spin:       spin,
		keys:       defaultKeyMap(),
		help:       help.New(),
		status:     "검사 대기 중...",
	}
}

// Init starts the spinner.
func (m model) Init() tea.Cmd {
	return m.spin.Tick
}

// Update handles messages.
func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.help.Width = msg.Width
		return m, nil

	case snapshotMsg:
		m.snap = msg.snap
		m.items = buildMenu(msg.snap)
		if m.cursor >= len(m.items) {
			m.cursor = len(m.items) - 1
		}
		if m.cursor < 0 {
			m.cursor = 0
		}
		m.status = fmt.Sprintf("마지막 검사: %s", msg.snap.FinishedAt.Format("15:04:05"))
		return m, nil

	case workerDoneMsg:
		return m, tea.Quit

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd
	}

	return m, nil
}

// handleKey dispatches the manual actions. Actions only mutate scheduler
// or process state; no evaluation happens here.
func (m model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		if m.quitting {
			return m, nil
		}
		m.quitting = true
		m.status = "종료 중..."
		m.mon.Stop()
		return m, waitForWorker(m.mon)

	case key.Matches(msg, m.keys.Scan):
		m.mon.Wake()
		m.status = "검사 요청됨"
		return m, nil

	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
		return m, nil

	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(m.items)-1 {
			m.cursor++
		}
		return m, nil

	case key.Matches(msg, m.keys.Open):
		if m.cursor < len(m.items) {
			target := m.items[m.cursor].target
			if err := platform.Open(target); err != nil {
				m.logger.Error("Failed to open %s: %v", target, err)
				m.status = "열기 실패"
			}
		}
		return m, nil

	case key.Matches(msg, m.keys.Autostart):
		enabled, err := m.autostart.IsEnabled()
		if err == nil {
			err = m.autostart.SetEnabled(!enabled)
		}
		if err != nil {
			m.logger.Error("Failed to toggle autostart: %v", err)
			m.status = "자동 시작 변경 실패"
		} else if enabled {
			m.status = "자동 시작 해제됨"
		} else {
			m.status = "자동 시작 설정됨"
		}
		return m, nil

	case key.Matches(msg, m.keys.Config):
		if err := platform.Open(m.configPath); err != nil {
			m.logger.Error("Failed to open config: %v", err)
			m.status = "설정 열기 실패"
		}
		return m, nil
	}

	return m, nil
}

// View renders the status panel.
func (m model) View() string {
	var b strings.Builder

	b.WriteString(styles.TitleStyle.Render("TidyMon"))
	b.WriteString("\n")

	if m.snap == nil {
		b.WriteString(m.spin.View())
		b.WriteString(styles.DimStyle.Render(" 📁 (검사 대기 중...)"))
		b.WriteString("\n")
	} else {
		worst := m.snap.Worst()
		b.WriteString(fmt.Sprintf("%s %s\n\n", styles.Badge(worst), styles.LevelLabel(worst)))

		for i, item := range m.items {
			line := item.label
			if i == m.cursor {
				line = styles.SelectedStyle.Render("> " + line)
			} else {
				line = "  " + line
			}
			b.WriteString(line)
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	status := m.status
	if m.mon.State() == monitor.StateScanning {
		status = m.spin.View() + " 검사 중..."
	}
	b.WriteString(styles.StatusStyle.Render(status))
	b.WriteString("\n\n")
	b.WriteString(styles.HelpStyle.Render(m.help.View(m.keys)))

	return styles.PanelStyle.Render(b.String())
}

// buildMenu turns a snapshot into the openable menu rows.
func buildMenu(snap *monitor.Snapshot) []menuItem {
	items := make([]menuItem, 0, len(snap.Folders)+1)
	for _, r := range snap.Folders {
		items = append(items, menuItem{
			label:  fmt.Sprintf("📁 %s: %s", platform.FolderName(r.Path), styles.LevelLabel(r.Level())),
			target: r.Path,
		})
	}
	if snap.Bookmarks != nil {
		items = append(items, menuItem{
			label:  fmt.Sprintf("🔖 북마크: %s", styles.LevelLabel(snap.Bookmarks.Level())),
			target: bookmarksTarget,
		})
	}
	return items
}

// waitForWorker blocks until the monitor worker exits, then lets the shell
// quit. This guarantees the worker is gone before the process terminates.
func waitForWorker(mon *monitor.Monitor) tea.Cmd {
	return func() tea.Msg {
		<-mon.Done()
		return workerDoneMsg{}
	}
}

// Shell wraps the bubbletea program and implements monitor.Publisher so
// the worker can hand finished snapshots to the UI without tearing it down.
type Shell struct {
	prog *tea.Program
}

// NewShell creates the presentation shell.
func NewShell(mon *monitor.Monitor, autostart platform.Autostart, configPath string, logger *logging.Logger) *Shell {
	m := newModel(mon, autostart, configPath, logger)
	return &Shell{prog: tea.NewProgram(m, tea.WithAltScreen())}
}

// Publish delivers a finished snapshot to the shell. Safe to call from the
// worker goroutine.
func (s *Shell) Publish(snap *monitor.Snapshot) {
	s.prog.Send(snapshotMsg{snap: snap})
}

// Run blocks until the shell exits.
func (s *Shell) Run() error {
	_, err := s.prog.Run()
	return err
}
