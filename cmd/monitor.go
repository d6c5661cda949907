// SPDX-License-Identifier: GPL-2.0-or-later

package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/laniszew/E3J/pkg/movemaster"
)

var monitorCmd = &cobra.Command{
	Use:   "monitor",
	Short: "Interactive TUI over the controller link",
	Long: `Full-screen diagnostic console for the controller link.

Shows link status, frame traffic and statistics live, with an input line
for sending raw commands. The view is a window on the driver's events,
not a program editor.

Keys:
  Enter   send the typed command
  Ctrl+C  quit`,
	RunE: runMonitor,
}

func init() {
	rootCmd.AddCommand(monitorCmd)
}

// Styles
var (
	monTitleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	monOnlineStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("10"))
	monOfflineSty  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9"))
	monFrameStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("14"))
	monSentStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	monDimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	monBoxStyle    = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
)

// Messages
type frameMsg string
type statusMsg bool
type monitorTickMsg time.Time

type logLine struct {
	when time.Time
	text string
	sent bool
}

// monitorModel is the TUI state: link status, a bounded frame log, the
// latest statistics snapshot and the command input line.
type monitorModel struct {
	manipulator *movemaster.Manipulator
	connInfo    string
	events      chan tea.Msg

	online   bool
	log      []logLine
	maxLog   int
	stats    movemaster.StatsSnapshot
	input    textinput.Model
	width    int
	height   int
	quitting bool
}

func newMonitorModel(m *movemaster.Manipulator, connInfo string, events chan tea.Msg) monitorModel {
	input := textinput.New()
	input.Placeholder = "command (WH, ER, SP 9, ...)"
	input.Prompt = ">> "
	input.Focus()

	return monitorModel{
		manipulator: m,
		connInfo:    connInfo,
		events:      events,
		online:      m.Connected(),
		maxLog:      200,
		input:       input,
	}
}

func (m monitorModel) listen() tea.Cmd {
	return func() tea.Msg { return <-m.events }
}

func monitorTick() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg { return monitorTickMsg(t) })
}

func (m monitorModel) Init() tea.Cmd {
	return tea.Batch(m.listen(), monitorTick(), textinput.Blink)
}

func (m monitorModel) appendLog(text string, sent bool) monitorModel {
	m.log = append(m.log, logLine{when: time.Now(), text: text, sent: sent})
	if len(m.log) > m.maxLog {
		m.log = m.log[len(m.log)-m.maxLog:]
	}
	return m
}

func (m monitorModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case frameMsg:
		m = m.appendLog(movemaster.TrimFrame(string(msg)), false)
		return m, m.listen()

	case statusMsg:
		m.online = bool(msg)
		return m, m.listen()

	case monitorTickMsg:
		m.stats = m.manipulator.Transport().Stats().Snapshot()
		return m, monitorTick()

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			m.quitting = true
			return m, tea.Quit
		case tea.KeyEnter:
			line := strings.TrimSpace(m.input.Value())
			m.input.Reset()
			if line == "" {
				return m, nil
			}
			if err := m.manipulator.SendCustom(line); err != nil {
				m = m.appendLog(fmt.Sprintf("send failed: %v", err), true)
			} else {
				m = m.appendLog(line, true)
			}
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m monitorModel) View() string {
	if m.quitting {
		return ""
	}

	status := monOfflineSty.Render("OFFLINE")
	if m.online {
		status = monOnlineStyle.Render("ONLINE")
	}
	header := fmt.Sprintf("%s  %s  %s",
		monTitleStyle.Render("E3J Monitor"),
		monDimStyle.Render(m.connInfo),
		status)

	statsLine := monDimStyle.Render(fmt.Sprintf(
		"sent %d   received %d   timeouts %d   write errors %d   alarms %d",
		m.stats.FramesOut, m.stats.FramesIn, m.stats.QueryTimeouts,
		m.stats.WriteErrors, m.stats.Alarms))

	// Frame log fills the space between header and input line.
	visible := m.height - 8
	if visible < 5 {
		visible = 5
	}
	start := len(m.log) - visible
	if start < 0 {
		start = 0
	}
	var lines []string
	for _, entry := range m.log[start:] {
		stamp := monDimStyle.Render(entry.when.Format("15:04:05.000"))
		if entry.sent {
			lines = append(lines, fmt.Sprintf("%s %s", stamp, monSentStyle.Render(">> "+entry.text)))
		} else {
			lines = append(lines, fmt.Sprintf("%s %s", stamp, monFrameStyle.Render("<< "+entry.text)))
		}
	}
	if len(lines) == 0 {
		lines = append(lines, monDimStyle.Render("waiting for traffic..."))
	}

	logBox := monBoxStyle.Width(maxInt(m.width-4, 40)).Render(strings.Join(lines, "\n"))

	return strings.Join([]string{
		header,
		statsLine,
		logBox,
		m.input.View(),
		monDimStyle.Render("Enter sends, Ctrl+C quits"),
	}, "\n")
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func runMonitor(cmd *cobra.Command, args []string) error {
	m, connInfo, err := openManipulator()
	if err != nil {
		return err
	}
	defer m.Transport().Shutdown()

	events := make(chan tea.Msg, 64)
	m.Transport().OnFrame(func(frame string) {
		select {
		case events <- frameMsg(frame):
		default:
		}
	})
	m.Transport().OnStatusChanged(func(_, newStatus bool) {
		select {
		case events <- statusMsg(newStatus):
		default:
		}
	})

	program := tea.NewProgram(newMonitorModel(m, connInfo, events), tea.WithAltScreen())
	_, err = program.Run()
	return err
}
