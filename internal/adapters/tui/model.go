// Package tui provides the terminal user interface implementation
// using the Bubbletea framework.
package tui

import (
	"context"
	"reflect"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/xvierd/clockin/internal/config"
	"github.com/xvierd/clockin/internal/domain"
	"github.com/xvierd/clockin/internal/ports"
)

const refreshInterval = 250 * time.Millisecond

// resolveTheme fills any empty string fields in the given ThemeConfig with defaults.
// If theme is nil, returns the full default theme.
func resolveTheme(theme *config.ThemeConfig) config.ThemeConfig {
	defaults := config.DefaultThemeConfig()
	if theme == nil {
		return defaults
	}
	resolved := *theme
	rv := reflect.ValueOf(&resolved).Elem()
	dv := reflect.ValueOf(defaults)
	for i := 0; i < rv.NumField(); i++ {
		f := rv.Field(i)
		if f.Kind() == reflect.String && f.String() == "" {
			f.SetString(dv.Field(i).String())
		}
	}
	return resolved
}

type screen int

const (
	screenSelection screen = iota
	screenTimer
	screenSettings
)

func (s screen) title() string {
	switch s {
	case screenTimer:
		return "Timer"
	case screenSettings:
		return "Settings"
	default:
		return "Task Selection"
	}
}

// tickMsg triggers a state refresh.
type tickMsg time.Time

// Model represents the TUI state.
type Model struct {
	ctx      context.Context
	tracker  ports.TrackerControl
	state    domain.CurrentState
	theme    config.ThemeConfig
	progress progress.Model
	width    int
	height   int

	screen     screen
	prevScreen screen

	// Selection screen: the focused picker and a cursor per level.
	focus     domain.Level
	cursors   [domain.MaxLevel + 1]int
	filtering bool
	filter    textinput.Model
	matches   []*domain.Task
	matchIdx  int

	confirmStop bool
	lastRecord  *domain.TimerRecord
	lastError   error
}

// NewModel creates a new TUI model.
func NewModel(ctx context.Context, tracker ports.TrackerControl, theme *config.ThemeConfig) Model {
	resolved := resolveTheme(theme)

	filter := textinput.New()
	filter.Placeholder = "search tasks"
	filter.Prompt = "/ "
	filter.CharLimit = 64
	filter.Width = 40

	m := Model{
		ctx:      ctx,
		tracker:  tracker,
		theme:    resolved,
		filter:   filter,
		progress: progress.New(progress.WithGradient(resolved.ColorRunning, resolved.ProgressGradientEnd)),
	}
	m.refresh()
	if m.state.Timer.IsRunning {
		m.screen = screenTimer
	}
	m.syncCursors()
	return m
}

// Init initializes the TUI.
func (m Model) Init() tea.Cmd {
	return tickCmd()
}

func tickCmd() tea.Cmd {
	return tea.Tick(refreshInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// refresh pulls a fresh snapshot and leaves the timer screen once the
// session is over.
func (m *Model) refresh() {
	m.state = m.tracker.State()
	if m.screen == screenTimer && !m.state.Timer.IsRunning {
		m.screen = screenSelection
		m.confirmStop = false
	}
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.progress.Width = max(msg.Width-8, 10)
		return m, nil
	case tickMsg:
		m.refresh()
		return m, tickCmd()
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		if m.filtering {
			return m.updateFilter(msg)
		}
		switch msg.String() {
		case "q":
			return m, tea.Quit
		case "tab":
			if m.screen == screenSettings {
				m.screen = m.prevScreen
			} else {
				m.prevScreen = m.screen
				m.screen = screenSettings
			}
			m.confirmStop = false
			return m, nil
		}
		switch m.screen {
		case screenTimer:
			m.updateTimer(msg)
		case screenSettings:
			m.updateSettings(msg)
		default:
			return m.updateSelection(msg)
		}
		return m, nil
	}
	return m, nil
}

// setError records err for display and returns whether it was non-nil.
func (m *Model) setError(err error) bool {
	m.lastError = err
	return err != nil
}

// View renders the TUI.
func (m Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	var body string
	switch m.screen {
	case screenTimer:
		body = m.viewTimer()
	case screenSettings:
		body = m.viewSettings()
	default:
		body = m.viewSelection()
	}
	return m.frame(body)
}
