package ports

import (
	"context"

	"github.com/xvierd/clockin/internal/domain"
)

// MCPHandler defines the interface for MCP server operations.
// This is a driving port (called by the application layer).
type MCPHandler interface {
	// Start begins serving MCP requests.
	Start(ctx context.Context) error

	// Stop gracefully shuts down the server.
	Stop() error

	// IsRunning returns true if the server is active.
	IsRunning() bool
}

// MCPStateProvider exposes tracker state and actions to the MCP server.
// This is a driven port (implemented by the services layer).
type MCPStateProvider interface {
	// GetCurrentState returns the current tracker state.
	GetCurrentState(ctx context.Context) (*domain.CurrentState, error)

	// ListTasks returns tasks at level under parentID. A nil level returns all tasks.
	ListTasks(ctx context.Context, level *domain.Level, parentID *int64) ([]*domain.Task, error)

	// SearchTasks fuzzy-matches task names.
	SearchTasks(ctx context.Context, query string) ([]*domain.Task, error)

	// SelectTask selects the path from the root down to taskID.
	SelectTask(ctx context.Context, taskID int64) (*domain.CurrentState, error)

	// StartTimer starts a session for a project/task pair.
	StartTimer(ctx context.Context, projectID, taskID int64) (*domain.CurrentState, error)

	// StartSelected starts a session for the selected task.
	StartSelected(ctx context.Context) (*domain.CurrentState, error)

	// PauseTimer pauses the running session.
	PauseTimer(ctx context.Context) (*domain.CurrentState, error)

	// ResumeTimer resumes a paused session or ends a break.
	ResumeTimer(ctx context.Context) (*domain.CurrentState, error)

	// StartBreak puts the session on break.
	StartBreak(ctx context.Context) (*domain.CurrentState, error)

	// StopTimer ends the session and returns the persisted record.
	StopTimer(ctx context.Context) (*domain.TimerRecord, error)

	// UpdateTaskStatus changes a task's status.
	UpdateTaskStatus(ctx context.Context, taskID int64, status string) (*domain.Task, error)

	// GetActivity returns the latest stored snapshot and the history.
	GetActivity(ctx context.Context) (*domain.ActivitySnapshot, []domain.ActivitySnapshot, error)

	// GetTimerHistory returns stored timer records, at most limit.
	GetTimerHistory(ctx context.Context, limit int) ([]domain.TimerRecord, error)
}
