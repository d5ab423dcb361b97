package domain

import (
	"testing"
	"time"
)

func TestCurrentState_CanStartSession(t *testing.T) {
	open := &Task{ID: 101221, Status: StatusInProgress}
	done := &Task{ID: 10121, Status: StatusComplete}
	sel := TaskSelection{ProjectID: taskRef(1), Level1ID: taskRef(101)}

	tests := []struct {
		name  string
		state CurrentState
		want  bool
	}{
		{"nothing selected", CurrentState{}, false},
		{"open task", CurrentState{Selection: sel, SelectedTask: open, CanNavigateToTimer: true}, true},
		{"complete task", CurrentState{Selection: sel, SelectedTask: done, CanNavigateToTimer: true}, false},
		{"navigation cleared", CurrentState{Selection: sel, SelectedTask: open}, false},
		{"timer running", CurrentState{Selection: sel, SelectedTask: open, CanNavigateToTimer: true, Timer: TimerState{IsRunning: true}}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.state.CanStartSession(); got != tt.want {
				t.Errorf("CanStartSession() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCurrentState_Progress(t *testing.T) {
	tests := []struct {
		name    string
		task    *Task
		elapsed time.Duration
		want    float64
	}{
		{"no task", nil, time.Hour, 0},
		{"no estimate", &Task{}, time.Hour, 0},
		{"half", &Task{EstimatedTime: minutes(60)}, 30 * time.Minute, 0.5},
		{"over estimate", &Task{EstimatedTime: minutes(60)}, 2 * time.Hour, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cs := CurrentState{ActiveTask: tt.task, Timer: TimerState{IsRunning: true, Elapsed: tt.elapsed}}
			if got := cs.Progress(); got != tt.want {
				t.Errorf("Progress() = %v, want %v", got, tt.want)
			}
		})
	}
}

func snapshotOnBreak() CurrentState {
	return CurrentState{Timer: TimerState{IsRunning: true, IsPaused: true, IsBreak: true}}
}

func TestCurrentState_MethodsOnReturnedValue(t *testing.T) {
	if got := snapshotOnBreak().Phase(); got != PhaseOnBreak {
		t.Errorf("Phase() = %v, want %v", got, PhaseOnBreak)
	}
	if !snapshotOnBreak().IsSessionActive() {
		t.Error("IsSessionActive() = false on break")
	}
	if snapshotOnBreak().CanStartSession() {
		t.Error("CanStartSession() = true with a session on break")
	}
}
