// Package domain contains the core business entities for clockin.
// These entities represent the task hierarchy, the selection path through it,
// the timer state machine and the simulated activity counters. They are
// independent of any storage, UI or transport.
package domain

import (
	"errors"
	"fmt"
)

// Common domain errors.
var (
	ErrLoadFailure          = errors.New("task list unavailable")
	ErrTaskNotFound         = errors.New("task not found")
	ErrPersistence          = errors.New("persistence failure")
	ErrInvalidStatus        = errors.New("invalid task status")
	ErrInvalidLevel         = errors.New("invalid task level")
	ErrInvalidHierarchy     = errors.New("invalid task hierarchy")
	ErrInvalidSelection     = errors.New("selection does not match the task hierarchy")
	ErrNoTaskSelected       = errors.New("no task selected")
	ErrTaskComplete         = errors.New("task is complete and cannot be started")
	ErrTasksNotLoaded       = errors.New("tasks not loaded")
	ErrSessionAlreadyActive = errors.New("session already active")
	ErrNoActiveSession      = errors.New("no active session")
)

// TaskStatus represents the workflow state of a task.
type TaskStatus string

const (
	StatusTodo          TaskStatus = "TODO"
	StatusInProgress    TaskStatus = "IN PROGRESS"
	StatusComplete      TaskStatus = "COMPLETE"
	StatusReview        TaskStatus = "REVIEW"
	StatusClosed        TaskStatus = "CLOSED"
	StatusBacklog       TaskStatus = "BACKLOG"
	StatusClarification TaskStatus = "CLARIFICATION"
)

// ValidStatuses lists all supported status values.
var ValidStatuses = []TaskStatus{
	StatusTodo,
	StatusInProgress,
	StatusComplete,
	StatusReview,
	StatusClosed,
	StatusBacklog,
	StatusClarification,
}

// ValidateStatus checks if a string is a valid task status.
func ValidateStatus(s string) (TaskStatus, error) {
	st := TaskStatus(s)
	for _, valid := range ValidStatuses {
		if st == valid {
			return st, nil
		}
	}
	return "", fmt.Errorf("%w %q", ErrInvalidStatus, s)
}

// Level is the depth of a task in the hierarchy.
type Level int

const (
	LevelProject Level = iota
	LevelTask
	LevelSubtask
	LevelAction
	LevelSubaction
)

// MaxLevel is the deepest level of the hierarchy.
const MaxLevel = LevelSubaction

// Valid reports whether l is within the hierarchy.
func (l Level) Valid() bool {
	return l >= LevelProject && l <= MaxLevel
}

// Label returns a human-readable label.
func (l Level) Label() string {
	switch l {
	case LevelProject:
		return "Project"
	case LevelTask:
		return "Task"
	case LevelSubtask:
		return "Subtask"
	case LevelAction:
		return "Action"
	case LevelSubaction:
		return "Subaction"
	default:
		return "Item"
	}
}

// Task is one node of the five-level hierarchy.
type Task struct {
	ID                int64      `json:"id"`
	Name              string     `json:"name"`
	Status            TaskStatus `json:"status"`
	Level             Level      `json:"level"`
	ParentID          *int64     `json:"parentId"`
	ProjectID         int64      `json:"projectId"`
	EstimatedTime     *int       `json:"estimatedTime,omitempty"`
	TotalExpectedTime *int       `json:"totalExpectedTime,omitempty"`
}

// IsComplete returns true if the task is marked complete.
func (t *Task) IsComplete() bool {
	return t.Status == StatusComplete
}

// HasParent reports whether the task's parent is id. A nil id matches
// top-level tasks.
func (t *Task) HasParent(id *int64) bool {
	if t.ParentID == nil || id == nil {
		return t.ParentID == nil && id == nil
	}
	return *t.ParentID == *id
}

// Clone returns a deep copy of the task.
func (t *Task) Clone() *Task {
	c := *t
	if t.ParentID != nil {
		p := *t.ParentID
		c.ParentID = &p
	}
	if t.EstimatedTime != nil {
		e := *t.EstimatedTime
		c.EstimatedTime = &e
	}
	if t.TotalExpectedTime != nil {
		e := *t.TotalExpectedTime
		c.TotalExpectedTime = &e
	}
	return &c
}

// ValidateHierarchy checks the structural invariants of a task list:
// unique IDs, levels in range, top-level tasks without parents, and every
// parent present exactly one level above its children.
func ValidateHierarchy(tasks []*Task) error {
	byID := make(map[int64]*Task, len(tasks))
	for _, t := range tasks {
		if _, dup := byID[t.ID]; dup {
			return fmt.Errorf("%w: duplicate id %d", ErrInvalidHierarchy, t.ID)
		}
		if !t.Level.Valid() {
			return fmt.Errorf("%w: task %d has level %d", ErrInvalidLevel, t.ID, t.Level)
		}
		byID[t.ID] = t
	}

	for _, t := range tasks {
		if t.Level == LevelProject {
			if t.ParentID != nil {
				return fmt.Errorf("%w: project %d has a parent", ErrInvalidHierarchy, t.ID)
			}
			continue
		}
		if t.ParentID == nil {
			return fmt.Errorf("%w: task %d at level %d has no parent", ErrInvalidHierarchy, t.ID, t.Level)
		}
		parent, ok := byID[*t.ParentID]
		if !ok {
			return fmt.Errorf("%w: task %d references missing parent %d", ErrInvalidHierarchy, t.ID, *t.ParentID)
		}
		if parent.Level != t.Level-1 {
			return fmt.Errorf("%w: task %d (level %d) has parent %d at level %d",
				ErrInvalidHierarchy, t.ID, t.Level, parent.ID, parent.Level)
		}
	}
	return nil
}

// CloneTasks deep-copies a task list.
func CloneTasks(tasks []*Task) []*Task {
	out := make([]*Task, len(tasks))
	for i, t := range tasks {
		out[i] = t.Clone()
	}
	return out
}
