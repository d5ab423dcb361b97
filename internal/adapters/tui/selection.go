package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/xvierd/clockin/internal/domain"
)

// levelItems returns the options for the picker at level. Pickers below the
// project only have options once their parent is selected.
func (m Model) levelItems(level domain.Level) []*domain.Task {
	if level == domain.LevelProject {
		return m.tracker.Children(domain.LevelProject, nil)
	}
	parent := m.state.Selection.At(level - 1)
	if parent == nil {
		return nil
	}
	return m.tracker.Children(level, parent)
}

// syncCursors points every picker at its selected item.
func (m *Model) syncCursors() {
	for level := domain.LevelProject; level <= domain.MaxLevel; level++ {
		id := m.state.Selection.At(level)
		if id == nil {
			continue
		}
		for i, t := range m.levelItems(level) {
			if t.ID == *id {
				m.cursors[level] = i
				break
			}
		}
	}
}

func (m Model) updateSelection(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	items := m.levelItems(m.focus)

	switch msg.String() {
	case "up", "k":
		if m.cursors[m.focus] > 0 {
			m.cursors[m.focus]--
		}
	case "down", "j":
		if m.cursors[m.focus] < len(items)-1 {
			m.cursors[m.focus]++
		}
	case "enter", "right", "l", " ":
		if len(items) == 0 {
			return m, nil
		}
		picked := items[m.cursors[m.focus]]
		if m.setError(m.tracker.SetSelection(domain.Select(m.focus, picked.ID))) {
			return m, nil
		}
		m.refresh()
		if m.focus < domain.MaxLevel && len(m.levelItems(m.focus+1)) > 0 {
			m.focus++
			m.cursors[m.focus] = 0
		}
	case "left", "h":
		if m.focus > domain.LevelProject {
			m.focus--
		}
	case "x", "backspace":
		if m.setError(m.tracker.SetSelection(domain.Clear(m.focus))) {
			return m, nil
		}
		m.refresh()
	case "/":
		m.filtering = true
		m.filter.Reset()
		m.matches = nil
		m.matchIdx = 0
		return m, tea.Batch(m.filter.Focus(), textinput.Blink)
	case "s":
		if m.setError(m.tracker.StartSelected(m.ctx)) {
			return m, nil
		}
		m.lastRecord = nil
		m.refresh()
		m.screen = screenTimer
	case "t":
		if m.state.Timer.IsRunning {
			m.screen = screenTimer
		}
	}
	return m, nil
}

func (m Model) updateFilter(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.closeFilter()
		return m, nil
	case "enter":
		if len(m.matches) == 0 {
			return m, nil
		}
		picked := m.matches[m.matchIdx]
		if m.setError(m.tracker.SelectPath(picked.ID)) {
			return m, nil
		}
		m.closeFilter()
		m.refresh()
		m.focus = picked.Level
		m.syncCursors()
		return m, nil
	case "up":
		if m.matchIdx > 0 {
			m.matchIdx--
		}
		return m, nil
	case "down":
		if m.matchIdx < len(m.matches)-1 {
			m.matchIdx++
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.filter, cmd = m.filter.Update(msg)
	m.matches = m.tracker.Search(m.filter.Value())
	m.matchIdx = 0
	return m, cmd
}

func (m *Model) closeFilter() {
	m.filtering = false
	m.filter.Blur()
	m.filter.Reset()
	m.matches = nil
	m.matchIdx = 0
}

func (m Model) viewSelection() string {
	helpStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.ColorHelp))

	if m.filtering {
		return m.viewFilter()
	}

	var sections []string
	for level := domain.LevelProject; level <= domain.MaxLevel; level++ {
		items := m.levelItems(level)
		if len(items) == 0 {
			break
		}
		sections = append(sections, m.viewPicker(level, items))
	}

	sections = append(sections, "")
	sections = append(sections, m.viewSelectedTask()...)

	sections = append(sections, "")
	help := "↑/↓ move · enter select · ← back · x clear · / search"
	if m.state.CanStartSession() {
		help += " · [s]tart"
	}
	if m.state.Timer.IsRunning {
		help += " · [t]imer"
	}
	sections = append(sections, helpStyle.Render(help+" · tab settings · [q]uit"))

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) viewPicker(level domain.Level, items []*domain.Task) string {
	labelStyle := lipgloss.NewStyle().Width(11).Foreground(lipgloss.Color(m.theme.ColorTitle))
	activeStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(m.theme.ColorSelected))
	chosenStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.ColorTask))
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.ColorHelp))

	label := labelStyle.Render(level.Label() + ":")
	selected := m.state.Selection.At(level)

	if level != m.focus {
		name := dimStyle.Render("none")
		if selected != nil {
			for _, t := range items {
				if t.ID == *selected {
					name = chosenStyle.Render(t.Name)
				}
			}
		}
		return label + " " + name
	}

	var b strings.Builder
	b.WriteString(label + "\n")
	for i, t := range items {
		marker := "  "
		if selected != nil && t.ID == *selected {
			marker = "✓ "
		}
		line := fmt.Sprintf("%s%s %s", marker, t.Name, dimStyle.Render("["+string(t.Status)+"]"))
		if i == m.cursors[level] {
			b.WriteString(activeStyle.Render("  ▸ ") + activeStyle.Render(line))
		} else {
			b.WriteString("    " + line)
		}
		if i < len(items)-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}

func (m Model) viewSelectedTask() []string {
	taskStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.ColorTask))
	warnStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.ColorError))
	helpStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.ColorHelp))

	task := m.state.SelectedTask
	if task == nil {
		return []string{helpStyle.Render("Select a project and a task to start tracking.")}
	}

	lines := []string{taskStyle.Render(fmt.Sprintf("%s %s (%s)", m.theme.IconTask, task.Name, task.Status))}
	if task.EstimatedTime != nil {
		lines = append(lines, helpStyle.Render(fmt.Sprintf("Estimate: %dm", *task.EstimatedTime)))
	}
	if task.IsComplete() {
		lines = append(lines, warnStyle.Render("This task is marked as complete and cannot be started again."))
	}
	return lines
}

func (m Model) viewFilter() string {
	activeStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(m.theme.ColorSelected))
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.ColorHelp))

	sections := []string{m.filter.View(), ""}
	if len(m.matches) == 0 && m.filter.Value() != "" {
		sections = append(sections, dimStyle.Render("No matching tasks"))
	}
	for i, t := range m.matches {
		line := fmt.Sprintf("%s %s", t.Name, dimStyle.Render(t.Level.Label()))
		if i == m.matchIdx {
			sections = append(sections, activeStyle.Render("▸ ")+line)
		} else {
			sections = append(sections, "  "+line)
		}
	}
	sections = append(sections, "", dimStyle.Render("↑/↓ move · enter select · esc cancel"))
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}
