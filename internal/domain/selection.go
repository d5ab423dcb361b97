package domain

import "fmt"

// TaskSelection is a path down the task hierarchy, one optional ID per level.
type TaskSelection struct {
	ProjectID *int64 `json:"projectId"`
	Level1ID  *int64 `json:"level1Id"`
	Level2ID  *int64 `json:"level2Id"`
	Level3ID  *int64 `json:"level3Id"`
	Level4ID  *int64 `json:"level4Id"`
}

// SelectionUpdate changes a single level of a selection. A nil ID clears it.
type SelectionUpdate struct {
	Level Level
	ID    *int64
}

// Select builds an update that sets level to taskID.
func Select(level Level, taskID int64) SelectionUpdate {
	return SelectionUpdate{Level: level, ID: &taskID}
}

// Clear builds an update that resets level and everything below it.
func Clear(level Level) SelectionUpdate {
	return SelectionUpdate{Level: level}
}

// At returns the selected ID for level, or nil.
func (s TaskSelection) At(level Level) *int64 {
	switch level {
	case LevelProject:
		return s.ProjectID
	case LevelTask:
		return s.Level1ID
	case LevelSubtask:
		return s.Level2ID
	case LevelAction:
		return s.Level3ID
	case LevelSubaction:
		return s.Level4ID
	}
	return nil
}

func (s *TaskSelection) set(level Level, id *int64) {
	switch level {
	case LevelProject:
		s.ProjectID = id
	case LevelTask:
		s.Level1ID = id
	case LevelSubtask:
		s.Level2ID = id
	case LevelAction:
		s.Level3ID = id
	case LevelSubaction:
		s.Level4ID = id
	}
}

// Apply returns the selection with u merged in. Every level strictly below
// u.Level is reset before the merge.
func (s TaskSelection) Apply(u SelectionUpdate) (TaskSelection, error) {
	if !u.Level.Valid() {
		return s, fmt.Errorf("%w: %d", ErrInvalidLevel, u.Level)
	}

	next := s.Clone()
	for l := u.Level + 1; l <= MaxLevel; l++ {
		next.set(l, nil)
	}
	if u.ID != nil {
		v := *u.ID
		next.set(u.Level, &v)
	} else {
		next.set(u.Level, nil)
	}
	return next, nil
}

// Check verifies that u is consistent with the hierarchy given the current
// selection. find resolves a task by ID.
func (s TaskSelection) Check(u SelectionUpdate, find func(int64) (*Task, bool)) error {
	if !u.Level.Valid() {
		return fmt.Errorf("%w: %d", ErrInvalidLevel, u.Level)
	}
	if u.ID == nil {
		return nil
	}

	t, ok := find(*u.ID)
	if !ok {
		return fmt.Errorf("%w: task %d does not exist", ErrInvalidSelection, *u.ID)
	}
	if t.Level != u.Level {
		return fmt.Errorf("%w: task %d is a %s, not a %s",
			ErrInvalidSelection, t.ID, t.Level.Label(), u.Level.Label())
	}
	if u.Level == LevelProject {
		return nil
	}

	parent := s.At(u.Level - 1)
	if parent == nil {
		return fmt.Errorf("%w: no %s selected", ErrInvalidSelection, (u.Level - 1).Label())
	}
	if !t.HasParent(parent) {
		return fmt.Errorf("%w: task %d is not under %d", ErrInvalidSelection, t.ID, *parent)
	}
	return nil
}

// IsSelected reports whether a task below the project tier is chosen.
func (s TaskSelection) IsSelected() bool {
	return s.Level1ID != nil
}

// HasTask reports whether any of level1..level4 is set.
func (s TaskSelection) HasTask() bool {
	return s.Level1ID != nil || s.Level2ID != nil || s.Level3ID != nil || s.Level4ID != nil
}

// Deepest returns the ID at the deepest set level among level4..level1.
// The project alone does not count.
func (s TaskSelection) Deepest() *int64 {
	for l := MaxLevel; l >= LevelTask; l-- {
		if id := s.At(l); id != nil {
			return id
		}
	}
	return nil
}

// Depth returns the number of consecutive levels set from the project down.
func (s TaskSelection) Depth() int {
	n := 0
	for l := LevelProject; l <= MaxLevel; l++ {
		if s.At(l) == nil {
			break
		}
		n++
	}
	return n
}

// Clone returns a copy that shares no pointers with s.
func (s TaskSelection) Clone() TaskSelection {
	var c TaskSelection
	for l := LevelProject; l <= MaxLevel; l++ {
		if id := s.At(l); id != nil {
			v := *id
			c.set(l, &v)
		}
	}
	return c
}
