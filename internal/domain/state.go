package domain

import (
	"time"
)

// CurrentState is a read-only view of the tracker at a point in time.
type CurrentState struct {
	Timer              TimerState
	Selection          TaskSelection
	SelectedTask       *Task
	ActiveTask         *Task
	CanNavigateToTimer bool
	Activity           ActivityCounters
	Timestamp          time.Time
}

// Phase returns the timer phase.
func (cs CurrentState) Phase() Phase {
	return cs.Timer.Phase()
}

// IsSessionActive returns true if a session is running, paused or on break.
func (cs CurrentState) IsSessionActive() bool {
	return cs.Timer.IsRunning
}

// CanStartSession returns true if a new session can be started from the
// current selection.
func (cs CurrentState) CanStartSession() bool {
	return !cs.Timer.IsRunning &&
		cs.Selection.IsSelected() &&
		cs.CanNavigateToTimer &&
		cs.SelectedTask != nil &&
		!cs.SelectedTask.IsComplete()
}

// Progress returns elapsed time against the active task's estimate
// (0.0 to 1.0). Tasks without an estimate report 0.
func (cs CurrentState) Progress() float64 {
	if cs.ActiveTask == nil || cs.ActiveTask.EstimatedTime == nil || *cs.ActiveTask.EstimatedTime <= 0 {
		return 0
	}
	estimate := time.Duration(*cs.ActiveTask.EstimatedTime) * time.Minute
	p := float64(cs.Timer.Elapsed) / float64(estimate)
	if p > 1 {
		return 1
	}
	return p
}
