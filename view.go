package main

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

// Color palette
const (
	ColorBlue    = "#2563EB"
	ColorGreen   = "#059669"
	ColorOrange  = "#EA580C"
	ColorCyan    = "#0891B2"
	ColorPink    = "#DB2777"
	ColorText    = "#F8FAFC"
	ColorSubtext = "#CBD5E1"
	ColorMuted   = "#64748B"
	ColorBorder  = "#334155"
)

// Styles
var (
	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(ColorText)).
			Background(lipgloss.Color(ColorBlue)).
			Padding(0, 1)

	normalStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(ColorSubtext))

	mutedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(ColorMuted))

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(ColorGreen))

	recordingStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(ColorOrange)).
			Bold(true)

	waveformStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(ColorCyan))

	accentStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(ColorPink))

	statusBarStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(ColorText)).
			Background(lipgloss.Color(ColorBlue)).
			Padding(0, 1)

	borderStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(ColorBorder)).
			Padding(0, 2)

	headerBorderStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(lipgloss.Color(ColorBlue)).
				Padding(0, 1)
)

// Render the application
func (m Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	var sections []string

	sections = append(sections, m.renderHeader())

	if m.session.Active() || m.ctrl.ActiveID() != "" {
		sections = append(sections, m.renderVisualizer())
	}

	sections = append(sections, borderStyle.Render(m.memoList.View()))

	if m.state == StateRenaming || m.state == StateSearching {
		sections = append(sections, m.renderPrompt())
	}

	sections = append(sections, m.renderStatusBar())

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// Render header
func (m Model) renderHeader() string {
	title := titleStyle.Render(" MEMOVOX ")

	var status string
	switch {
	case m.session.Active():
		indicator := "●"
		if m.recordingPulse > 10 {
			indicator = " "
		}
		status = recordingStyle.Render(fmt.Sprintf("%s REC %s", indicator, formatSeconds(m.session.Elapsed().Seconds())))
	case m.ctrl.IsPlaying():
		status = successStyle.Render("▶ PLAYING")
	default:
		if m.store.Len() == 1 {
			status = normalStyle.Render("1 memo")
		} else {
			status = normalStyle.Render(fmt.Sprintf("%d memos", m.store.Len()))
		}
	}

	if m.query != "" {
		status += mutedStyle.Render(fmt.Sprintf("  filter: %q", m.query))
	}

	header := lipgloss.JoinHorizontal(lipgloss.Top, title, " ", status)
	return headerBorderStyle.Render(header)
}

// Render the recording waveform or the playback timeline
func (m Model) renderVisualizer() string {
	var lines []string

	if m.session.Active() {
		bar := "  "
		for _, sample := range m.waveform {
			switch {
			case sample > 0.8:
				bar += "█"
			case sample > 0.6:
				bar += "▆"
			case sample > 0.4:
				bar += "▄"
			case sample > 0.2:
				bar += "▂"
			default:
				bar += "·"
			}
		}
		lines = append(lines, waveformStyle.Render(bar))
	} else if active := m.store.FindByID(m.ctrl.ActiveID()); active != nil {
		progress := 0.0
		if m.ctrl.Duration() > 0 {
			progress = m.ctrl.Position() / m.ctrl.Duration()
		}
		if progress > 1 {
			progress = 1
		}

		lines = append(lines, normalStyle.Render("  "+truncateText(active.Title, 50)))
		lines = append(lines, successStyle.Render("  "+renderTimeline(progress, 50)))
		lines = append(lines, mutedStyle.Render(fmt.Sprintf("  %s / %s   %sx   %s",
			formatSeconds(m.ctrl.Position()),
			formatSeconds(m.ctrl.Duration()),
			formatRate(m.ctrl.Rate()),
			accentStyle.Render(m.ctrl.Mode().String()))))
	}

	if len(lines) == 0 {
		return ""
	}
	return borderStyle.Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

// Render timeline scrubber
func renderTimeline(progress float64, width int) string {
	filled := int(progress * float64(width))
	timeline := "["
	for i := 0; i < width; i++ {
		if i < filled {
			timeline += "█"
		} else {
			timeline += "░"
		}
	}
	return timeline + "]"
}

// Format a rate multiplier without trailing zeros
func formatRate(rate float64) string {
	s := fmt.Sprintf("%.2f", rate)
	for len(s) > 1 && (s[len(s)-1] == '0') {
		s = s[:len(s)-1]
	}
	if s[len(s)-1] == '.' {
		s = s[:len(s)-1]
	}
	return s
}

// Render text input prompt
func (m Model) renderPrompt() string {
	var prompt string
	switch m.state {
	case StateRenaming:
		prompt = "New name: "
	case StateSearching:
		prompt = "Search: "
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		"",
		normalStyle.Render(prompt)+m.textInput.View(),
		"",
	)
}

// Render status bar
func (m Model) renderStatusBar() string {
	var status string
	switch {
	case m.session.Active():
		status = recordingStyle.Render("● RECORDING")
	case m.ctrl.IsPlaying():
		status = successStyle.Render("▶ PLAYING")
	case m.ctrl.ActiveID() != "":
		status = normalStyle.Render("⏸ PAUSED")
	default:
		status = normalStyle.Render("Ready")
	}

	if m.notification != "" {
		status += " | " + successStyle.Render(m.notification)
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		statusBarStyle.Render(status),
		m.help.View(keys),
	)
}
