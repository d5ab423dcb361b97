package services

import (
	"context"
	"errors"

	"github.com/xvierd/clockin/internal/domain"
	"github.com/xvierd/clockin/internal/ports"
)

// StateService implements the MCPStateProvider interface.
type StateService struct {
	storage ports.Storage
	tasks   *TaskService
	tracker *Tracker
}

// NewStateService creates a new state service.
func NewStateService(storage ports.Storage, tasks *TaskService, tracker *Tracker) *StateService {
	return &StateService{storage: storage, tasks: tasks, tracker: tracker}
}

func (s *StateService) ensureLoaded(ctx context.Context) error {
	if s.tasks.Loaded() {
		return nil
	}
	_, err := s.tasks.Load(ctx)
	return err
}

func (s *StateService) current() (*domain.CurrentState, error) {
	cs := s.tracker.State()
	return &cs, nil
}

// GetCurrentState implements ports.MCPStateProvider.
func (s *StateService) GetCurrentState(ctx context.Context) (*domain.CurrentState, error) {
	if err := s.ensureLoaded(ctx); err != nil {
		return nil, err
	}
	return s.current()
}

// ListTasks implements ports.MCPStateProvider.
func (s *StateService) ListTasks(ctx context.Context, level *domain.Level, parentID *int64) ([]*domain.Task, error) {
	if err := s.ensureLoaded(ctx); err != nil {
		return nil, err
	}
	if level == nil {
		if parentID == nil {
			return s.tasks.All(), nil
		}
		parent, ok := s.tasks.ByID(*parentID)
		if !ok {
			return nil, domain.ErrTaskNotFound
		}
		return s.tasks.ByLevelAndParent(parent.Level+1, parentID), nil
	}
	if !level.Valid() {
		return nil, domain.ErrInvalidLevel
	}
	return s.tasks.ByLevelAndParent(*level, parentID), nil
}

// SearchTasks implements ports.MCPStateProvider.
func (s *StateService) SearchTasks(ctx context.Context, query string) ([]*domain.Task, error) {
	if err := s.ensureLoaded(ctx); err != nil {
		return nil, err
	}
	return s.tasks.Search(query), nil
}

// SelectTask implements ports.MCPStateProvider.
func (s *StateService) SelectTask(ctx context.Context, taskID int64) (*domain.CurrentState, error) {
	if err := s.ensureLoaded(ctx); err != nil {
		return nil, err
	}
	if err := s.tracker.SelectPath(taskID); err != nil {
		return nil, err
	}
	return s.current()
}

// StartTimer implements ports.MCPStateProvider.
func (s *StateService) StartTimer(ctx context.Context, projectID, taskID int64) (*domain.CurrentState, error) {
	if err := s.ensureLoaded(ctx); err != nil {
		return nil, err
	}
	if err := s.tracker.Start(ctx, projectID, taskID); err != nil {
		return nil, err
	}
	return s.current()
}

// StartSelected implements ports.MCPStateProvider.
func (s *StateService) StartSelected(ctx context.Context) (*domain.CurrentState, error) {
	if err := s.tracker.StartSelected(ctx); err != nil {
		return nil, err
	}
	return s.current()
}

// PauseTimer implements ports.MCPStateProvider.
func (s *StateService) PauseTimer(ctx context.Context) (*domain.CurrentState, error) {
	if err := s.tracker.Pause(ctx); err != nil {
		return nil, err
	}
	return s.current()
}

// ResumeTimer implements ports.MCPStateProvider.
func (s *StateService) ResumeTimer(ctx context.Context) (*domain.CurrentState, error) {
	if err := s.tracker.Resume(ctx); err != nil {
		return nil, err
	}
	return s.current()
}

// StartBreak implements ports.MCPStateProvider.
func (s *StateService) StartBreak(ctx context.Context) (*domain.CurrentState, error) {
	if err := s.tracker.StartBreak(ctx); err != nil {
		return nil, err
	}
	return s.current()
}

// StopTimer implements ports.MCPStateProvider.
func (s *StateService) StopTimer(ctx context.Context) (*domain.TimerRecord, error) {
	rec, err := s.tracker.Stop(ctx)
	if errors.Is(err, domain.ErrNoActiveSession) {
		return nil, err
	}
	// A persistence failure still ends the session; report both.
	return &rec, err
}

// UpdateTaskStatus implements ports.MCPStateProvider.
func (s *StateService) UpdateTaskStatus(ctx context.Context, taskID int64, status string) (*domain.Task, error) {
	if err := s.ensureLoaded(ctx); err != nil {
		return nil, err
	}
	return s.tasks.UpdateStatus(ctx, taskID, status)
}

// GetActivity implements ports.MCPStateProvider.
func (s *StateService) GetActivity(ctx context.Context) (*domain.ActivitySnapshot, []domain.ActivitySnapshot, error) {
	latest, err := s.storage.Activity().Latest(ctx)
	if err != nil {
		return nil, nil, err
	}
	history, err := s.storage.Activity().History(ctx)
	if err != nil {
		return nil, nil, err
	}
	return latest, history, nil
}

// GetTimerHistory implements ports.MCPStateProvider.
func (s *StateService) GetTimerHistory(ctx context.Context, limit int) ([]domain.TimerRecord, error) {
	records, err := s.storage.Timers().ListSessions(ctx)
	if err != nil {
		return nil, err
	}
	if limit > 0 && len(records) > limit {
		return records[:limit], nil
	}
	return records, nil
}

// Ensure StateService implements MCPStateProvider.
var _ ports.MCPStateProvider = (*StateService)(nil)
