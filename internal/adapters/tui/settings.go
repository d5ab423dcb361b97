package tui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/xvierd/clockin/internal/domain"
)

func (m *Model) updateSettings(msg tea.KeyMsg) {
	switch msg.String() {
	case "n", " ":
		if n := m.tracker.Notifications(); n != nil {
			n.SetEnabled(!n.Enabled())
		}
	case "esc":
		m.screen = m.prevScreen
		m.refresh()
	}
}

func (m Model) notificationsEnabled() bool {
	n := m.tracker.Notifications()
	return n != nil && n.Enabled()
}

func (m Model) viewSettings() string {
	headerStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(m.theme.ColorTask))
	helpStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.ColorHelp))
	onStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(m.theme.ColorRunning))

	var sections []string

	sections = append(sections, headerStyle.Render("Activity Monitoring"))
	sections = append(sections, m.viewActivity()...)

	sections = append(sections, "")
	sections = append(sections, headerStyle.Render("Session"))
	timer := m.state.Timer
	sections = append(sections, helpStyle.Render("Phase: "+m.state.Phase().Label()))
	if timer.IsRunning {
		sections = append(sections, helpStyle.Render("Elapsed: "+timer.Formatted()))
	}
	today, total := timer.TodaySeconds, timer.TotalSeconds
	if !timer.IsRunning && m.lastRecord != nil {
		today, total = m.lastRecord.TodayTime, m.lastRecord.TotalTime
	}
	sections = append(sections, helpStyle.Render(fmt.Sprintf("Today: %s  Total: %s",
		domain.FormatSeconds(today), domain.FormatSeconds(total))))

	sections = append(sections, "")
	sections = append(sections, headerStyle.Render("Notifications"))
	switch {
	case m.tracker.Notifications() == nil:
		sections = append(sections, helpStyle.Render("unavailable"))
	case m.notificationsEnabled():
		sections = append(sections, onStyle.Render("● on"))
	default:
		sections = append(sections, helpStyle.Render("○ off"))
	}

	sections = append(sections, "")
	sections = append(sections, helpStyle.Render("[n] toggle notifications  [esc]/tab back  [q]uit"))

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}
