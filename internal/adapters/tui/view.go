package tui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/xvierd/clockin/internal/domain"
)

// frame wraps a screen body with the title bar and the status line.
func (m Model) frame(body string) string {
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(m.theme.ColorTitle)).MarginBottom(1)
	errStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.ColorError))
	okStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.ColorRunning))

	sections := []string{titleStyle.Render(fmt.Sprintf("%s clockin · %s", m.theme.IconApp, m.screen.title())), body}

	if m.lastError != nil {
		sections = append(sections, "", errStyle.Render("Error: "+m.lastError.Error()))
	} else if m.lastRecord != nil && m.screen == screenSelection {
		rec := m.lastRecord
		sections = append(sections, "", okStyle.Render(fmt.Sprintf("Session saved: %s (today %s, total %s)",
			domain.FormatElapsed(rec.Elapsed()), domain.FormatSeconds(rec.TodayTime), domain.FormatSeconds(rec.TotalTime))))
	}

	content := lipgloss.JoinVertical(lipgloss.Center, sections...)
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
}
