// Package services implements the application layer (use cases)
// following hexagonal architecture principles.
package services

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/sahilm/fuzzy"
	"github.com/xvierd/clockin/internal/domain"
	"github.com/xvierd/clockin/internal/ports"
)

// TaskService handles task-related use cases and caches the loaded list.
type TaskService struct {
	repo   ports.TaskRepository
	logger *log.Logger

	mu     sync.RWMutex
	tasks  []*domain.Task
	byID   map[int64]*domain.Task
	loaded bool
}

// NewTaskService creates a new task service.
func NewTaskService(repo ports.TaskRepository, logger *log.Logger) *TaskService {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &TaskService{repo: repo, logger: logger.WithPrefix("tasks")}
}

// Load reads the task list from storage and replaces the cache.
func (s *TaskService) Load(ctx context.Context) ([]*domain.Task, error) {
	tasks, err := s.repo.Load(ctx)
	if err != nil {
		s.logger.Error("load failed", "err", err)
		return nil, err
	}

	s.mu.Lock()
	s.setTasks(tasks)
	s.mu.Unlock()

	s.logger.Debug("tasks loaded", "count", len(tasks))
	return domain.CloneTasks(tasks), nil
}

func (s *TaskService) setTasks(tasks []*domain.Task) {
	s.tasks = tasks
	s.byID = make(map[int64]*domain.Task, len(tasks))
	for _, t := range tasks {
		s.byID[t.ID] = t
	}
	s.loaded = true
}

// Loaded reports whether Load has succeeded at least once.
func (s *TaskService) Loaded() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loaded
}

// UpdateStatus validates status, persists it and refreshes the cache.
func (s *TaskService) UpdateStatus(ctx context.Context, id int64, status string) (*domain.Task, error) {
	st, err := domain.ValidateStatus(strings.ToUpper(strings.TrimSpace(status)))
	if err != nil {
		return nil, err
	}

	task, err := s.repo.UpdateStatus(ctx, id, st)
	if err != nil {
		return nil, fmt.Errorf("failed to update task %d: %w", id, err)
	}

	s.mu.Lock()
	if cached, ok := s.byID[id]; ok {
		cached.Status = st
	}
	s.mu.Unlock()

	s.logger.Info("status updated", "task", id, "status", st)
	return task.Clone(), nil
}

// All returns every cached task in fixture order.
func (s *TaskService) All() []*domain.Task {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return domain.CloneTasks(s.tasks)
}

// ByLevelAndParent returns the tasks at level whose parent is parentID.
// Fixture order is preserved.
func (s *TaskService) ByLevelAndParent(level domain.Level, parentID *int64) []*domain.Task {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*domain.Task
	for _, t := range s.tasks {
		if t.Level == level && t.HasParent(parentID) {
			out = append(out, t.Clone())
		}
	}
	return out
}

// ByID returns a copy of the task with id.
func (s *TaskService) ByID(id int64) (*domain.Task, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, ok := s.byID[id]
	if !ok {
		return nil, false
	}
	return t.Clone(), true
}

// taskNames adapts the cache to fuzzy.Source.
type taskNames []*domain.Task

func (n taskNames) String(i int) string { return n[i].Name }
func (n taskNames) Len() int            { return len(n) }

// Search fuzzy-matches task names, best match first. An empty query
// returns nothing.
func (s *TaskService) Search(query string) []*domain.Task {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	matches := fuzzy.FindFrom(query, taskNames(s.tasks))
	out := make([]*domain.Task, 0, len(matches))
	for _, m := range matches {
		out = append(out, s.tasks[m.Index].Clone())
	}
	return out
}

// Path returns the chain of tasks from the project down to id.
func (s *TaskService) Path(id int64) ([]*domain.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.loaded {
		return nil, domain.ErrTasksNotLoaded
	}

	var path []*domain.Task
	cur, ok := s.byID[id]
	if !ok {
		return nil, fmt.Errorf("%w: %d", domain.ErrTaskNotFound, id)
	}
	for {
		path = append([]*domain.Task{cur.Clone()}, path...)
		if cur.ParentID == nil {
			return path, nil
		}
		cur, ok = s.byID[*cur.ParentID]
		if !ok {
			return nil, fmt.Errorf("%w: parent of %d", domain.ErrInvalidHierarchy, path[0].ID)
		}
	}
}
