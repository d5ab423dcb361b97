package ports

import (
	"context"

	"github.com/xvierd/clockin/internal/domain"
)

// TrackerControl is what the presentation layer needs from the tracker.
// This is a driving port (called by the TUI).
type TrackerControl interface {
	// State returns a snapshot of the tracker.
	State() domain.CurrentState

	// Children lists the tasks at level under parentID.
	Children(level domain.Level, parentID *int64) []*domain.Task

	// Search fuzzy-matches task names.
	Search(query string) []*domain.Task

	// SetSelection changes one level of the selection path.
	SetSelection(update domain.SelectionUpdate) error

	// SelectPath selects taskID and every ancestor above it.
	SelectPath(taskID int64) error

	// StartSelected starts a session for the selected task.
	StartSelected(ctx context.Context) error

	Pause(ctx context.Context) error
	Resume(ctx context.Context) error
	StartBreak(ctx context.Context) error
	Stop(ctx context.Context) (domain.TimerRecord, error)

	// Notifications returns the notifier, or nil when none is wired.
	Notifications() Notifier
}
