package tui

import (
	"errors"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/xvierd/clockin/internal/adapters/git"
	"github.com/xvierd/clockin/internal/domain"
)

func (m *Model) updateTimer(msg tea.KeyMsg) {
	timer := m.state.Timer

	switch msg.String() {
	case "p":
		m.confirmStop = false
		if timer.IsPaused {
			m.setError(m.tracker.Resume(m.ctx))
		} else {
			m.setError(m.tracker.Pause(m.ctx))
		}
	case "b":
		m.confirmStop = false
		if timer.IsBreak {
			m.setError(m.tracker.Resume(m.ctx))
		} else {
			m.setError(m.tracker.StartBreak(m.ctx))
		}
	case "f":
		if !m.confirmStop {
			m.confirmStop = true
			return
		}
		m.confirmStop = false
		rec, err := m.tracker.Stop(m.ctx)
		m.setError(err)
		if !errors.Is(err, domain.ErrNoActiveSession) {
			m.lastRecord = &rec
		}
	case "esc":
		if m.confirmStop {
			m.confirmStop = false
			return
		}
		m.screen = screenSelection
	default:
		m.confirmStop = false
	}
	m.refresh()
}

// timerColor returns the color for the current phase.
func (m Model) timerColor() lipgloss.Color {
	switch m.state.Phase() {
	case domain.PhasePaused:
		return lipgloss.Color(m.theme.ColorPaused)
	case domain.PhaseOnBreak:
		return lipgloss.Color(m.theme.ColorBreak)
	default:
		return lipgloss.Color(m.theme.ColorRunning)
	}
}

func (m Model) viewTimer() string {
	timer := m.state.Timer
	color := m.timerColor()
	statusStyle := lipgloss.NewStyle().Foreground(color)
	taskStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(m.theme.ColorTask))
	helpStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.ColorHelp))

	var sections []string

	if task := m.state.ActiveTask; task != nil {
		sections = append(sections, taskStyle.Render(fmt.Sprintf("%s %s", m.theme.IconTask, task.Name)))
		sections = append(sections, helpStyle.Render(string(task.Status)))
	}

	sections = append(sections, statusStyle.Render("Status: "+m.state.Phase().Label()))
	sections = append(sections, "")
	sections = append(sections, renderBigTime(timer.Formatted(), color, m.width))

	if timer.IsPaused || timer.IsBreak {
		label := fmt.Sprintf("%s PAUSED", m.theme.IconPaused)
		if timer.IsBreak {
			label = "ON BREAK"
		}
		badge := lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FFFFFF")).
			Background(color).
			Padding(0, 1).
			Render(label)
		sections = append(sections, "", badge)
	}

	if task := m.state.ActiveTask; task != nil && task.EstimatedTime != nil {
		sections = append(sections, "")
		sections = append(sections, m.progress.ViewAs(m.state.Progress()))
		sections = append(sections, helpStyle.Render(fmt.Sprintf("of %dm estimated", *task.EstimatedTime)))
	}

	sections = append(sections, "")
	sections = append(sections, helpStyle.Render(fmt.Sprintf("Today %s · Total %s",
		domain.FormatSeconds(timer.TodaySeconds), domain.FormatSeconds(timer.TotalSeconds))))

	if timer.GitBranch != "" {
		sections = append(sections, helpStyle.Render(fmt.Sprintf("%s %s (%s)",
			m.theme.IconGit, timer.GitBranch, git.ShortCommit(timer.GitCommit))))
	}

	sections = append(sections, "")
	sections = append(sections, m.viewActivity()...)

	sections = append(sections, "")
	switch {
	case m.confirmStop:
		sections = append(sections, helpStyle.Render("Stop session? [f] confirm  [esc] cancel"))
	case timer.IsBreak:
		sections = append(sections, helpStyle.Render("[b] end break  [p]ause  [f]inish  [esc] tasks  tab settings"))
	case timer.IsPaused:
		sections = append(sections, helpStyle.Render("[p] resume  [b]reak  [f]inish  [esc] tasks  tab settings"))
	default:
		sections = append(sections, helpStyle.Render("[p]ause  [b]reak  [f]inish  [esc] tasks  tab settings"))
	}

	return lipgloss.JoinVertical(lipgloss.Center, sections...)
}

// viewActivity renders the simulated input counters and the last capture.
func (m Model) viewActivity() []string {
	helpStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.ColorHelp))
	activity := m.state.Activity

	lines := []string{
		helpStyle.Render(fmt.Sprintf("%s Keyboard activity: %d keystrokes", m.theme.IconActivity, activity.KeyboardCount)),
		helpStyle.Render(fmt.Sprintf("%s Mouse activity: %d movements", m.theme.IconActivity, activity.MouseCount)),
	}
	shot := "no screenshot yet"
	if activity.LastScreenshotTime != nil {
		shot = "last screenshot " + activity.LastScreenshotTime.Format(time.Kitchen)
	}
	lines = append(lines, helpStyle.Render(fmt.Sprintf("%s %s", m.theme.IconScreenshot, shot)))
	return lines
}
