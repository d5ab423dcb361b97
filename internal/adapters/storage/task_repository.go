package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/xvierd/clockin/internal/domain"
	"github.com/xvierd/clockin/internal/ports"
)

// taskRepository implements ports.TaskRepository on the "tasks" document.
type taskRepository struct {
	kv *kvStore
}

// newTaskRepository creates a new task repository.
func newTaskRepository(kv *kvStore) ports.TaskRepository {
	return &taskRepository{kv: kv}
}

// Load returns the persisted task list, seeding it from the fixture first
// when the store is empty.
func (r *taskRepository) Load(ctx context.Context) ([]*domain.Task, error) {
	var tasks []*domain.Task
	err := r.kv.update(ctx, func(tx *sql.Tx) error {
		found, err := r.kv.get(ctx, tx, keyTasks, &tasks)
		if err != nil {
			return err
		}
		if found {
			return nil
		}
		tasks = domain.DefaultTasks()
		return r.kv.put(ctx, tx, keyTasks, tasks)
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrLoadFailure, err)
	}

	if err := domain.ValidateHierarchy(tasks); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrLoadFailure, err)
	}
	return tasks, nil
}

// UpdateStatus overwrites the status of task id and persists the full list.
func (r *taskRepository) UpdateStatus(ctx context.Context, id int64, status domain.TaskStatus) (*domain.Task, error) {
	var updated *domain.Task
	err := r.kv.update(ctx, func(tx *sql.Tx) error {
		var tasks []*domain.Task
		found, err := r.kv.get(ctx, tx, keyTasks, &tasks)
		if err != nil {
			return err
		}
		if !found {
			tasks = domain.DefaultTasks()
		}

		for _, t := range tasks {
			if t.ID == id {
				t.Status = status
				updated = t
				break
			}
		}
		if updated == nil {
			return fmt.Errorf("%w: %d", domain.ErrTaskNotFound, id)
		}
		return r.kv.put(ctx, tx, keyTasks, tasks)
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}
