package tui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/xvierd/clockin/internal/config"
	"github.com/xvierd/clockin/internal/ports"
)

// Run starts the fullscreen interface and blocks until the user quits or
// ctx is cancelled. It opens on the timer screen when a session is active.
func Run(ctx context.Context, tracker ports.TrackerControl, theme *config.ThemeConfig) error {
	model := NewModel(ctx, tracker, theme)
	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))

	if _, err := program.Run(); err != nil && ctx.Err() == nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return nil
}
