// Package ports defines the interfaces (driven and driving ports)
// for clockin following hexagonal architecture principles.
// These interfaces define the contracts between the domain layer and
// external infrastructure.
package ports

import (
	"context"

	"github.com/xvierd/clockin/internal/domain"
)

// TaskRepository defines the interface for task persistence.
// This is a driven port (implemented by adapters).
type TaskRepository interface {
	// Load returns the full task list. An empty store is seeded with the
	// built-in fixture first.
	Load(ctx context.Context) ([]*domain.Task, error)

	// UpdateStatus overwrites the status of one task and persists the list.
	UpdateStatus(ctx context.Context, id int64, status domain.TaskStatus) (*domain.Task, error)
}

// TimerRepository defines the interface for timer session persistence.
// Records are keyed by "{projectId}_{taskId}"; saving replaces the previous
// record for the same pair.
type TimerRepository interface {
	// SaveSession persists a stopped session.
	SaveSession(ctx context.Context, record domain.TimerRecord) error

	// FindSession returns the record for a project/task pair, or nil.
	FindSession(ctx context.Context, projectID, taskID int64) (*domain.TimerRecord, error)

	// ListSessions returns all records, most recently updated first.
	ListSessions(ctx context.Context) ([]domain.TimerRecord, error)
}

// ActivityRepository defines the interface for activity snapshot persistence.
type ActivityRepository interface {
	// SaveSnapshot stores snap as the latest snapshot and appends it to the
	// history, evicting the oldest entries beyond limit.
	SaveSnapshot(ctx context.Context, snap domain.ActivitySnapshot, limit int) error

	// Latest returns the most recent snapshot, or nil.
	Latest(ctx context.Context) (*domain.ActivitySnapshot, error)

	// History returns stored snapshots, oldest first.
	History(ctx context.Context) ([]domain.ActivitySnapshot, error)
}

// Storage is the combined repository interface.
// This is a driven port (implemented by adapters).
type Storage interface {
	// Tasks provides access to task operations.
	Tasks() TaskRepository

	// Timers provides access to timer session records.
	Timers() TimerRepository

	// Activity provides access to activity snapshots.
	Activity() ActivityRepository

	// Close closes the storage connection.
	Close() error

	// Migrate runs database migrations.
	Migrate() error
}
