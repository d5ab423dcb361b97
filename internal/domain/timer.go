package domain

import (
	"fmt"
	"time"
)

// TickIncrement is the fixed amount of time credited per timer tick.
const TickIncrement = 1000 * time.Millisecond

// Phase is the externally visible state of the timer.
type Phase string

const (
	PhaseIdle    Phase = "idle"
	PhaseRunning Phase = "running"
	PhasePaused  Phase = "paused"
	PhaseOnBreak Phase = "on_break"
)

// Label returns a human-readable label for the phase.
func (p Phase) Label() string {
	switch p {
	case PhaseIdle:
		return "Idle"
	case PhaseRunning:
		return "Running"
	case PhasePaused:
		return "Paused"
	case PhaseOnBreak:
		return "On Break"
	default:
		return "Unknown"
	}
}

// TimerState tracks the active session and the accumulated totals.
// The zero value is an idle timer.
type TimerState struct {
	IsRunning    bool
	IsPaused     bool
	IsBreak      bool
	StartTime    *time.Time
	Elapsed      time.Duration
	TodaySeconds int64
	TotalSeconds int64
	TodayDate    time.Time
	ProjectID    *int64
	TaskID       *int64
	SessionID    string
	GitBranch    string
	GitCommit    string
}

// Phase derives the state machine phase from the flags.
func (s *TimerState) Phase() Phase {
	switch {
	case !s.IsRunning:
		return PhaseIdle
	case s.IsBreak:
		return PhaseOnBreak
	case s.IsPaused:
		return PhasePaused
	default:
		return PhaseRunning
	}
}

// Accruing reports whether ticks add time.
func (s *TimerState) Accruing() bool {
	return s.Phase() == PhaseRunning
}

// Start begins a session bound to projectID/taskID.
func (s *TimerState) Start(projectID, taskID int64, now time.Time) error {
	if s.IsRunning {
		return ErrSessionAlreadyActive
	}
	if !s.TodayDate.IsZero() && !sameDay(s.TodayDate, now) {
		s.TodaySeconds = 0
	}
	s.TodayDate = now
	s.IsRunning = true
	s.IsPaused = false
	s.IsBreak = false
	s.StartTime = &now
	s.Elapsed = 0
	s.ProjectID = &projectID
	s.TaskID = &taskID
	s.SessionID = generateID()
	s.GitBranch = ""
	s.GitCommit = ""
	return nil
}

// SeedTotals raises the today and total counters to a stored record's
// values. Today's value only counts when the record was written on the
// same day as the running session.
func (s *TimerState) SeedTotals(rec *TimerRecord) {
	if rec == nil {
		return
	}
	if rec.TotalTime > s.TotalSeconds {
		s.TotalSeconds = rec.TotalTime
	}
	if !s.TodayDate.IsZero() && sameDay(rec.LastUpdated, s.TodayDate) && rec.TodayTime > s.TodaySeconds {
		s.TodaySeconds = rec.TodayTime
	}
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Local().Date()
	by, bm, bd := b.Local().Date()
	return ay == by && am == bm && ad == bd
}

// SetGitContext stores git information for the session.
func (s *TimerState) SetGitContext(branch, commit string) {
	s.GitBranch = branch
	s.GitCommit = commit
}

// Pause stops accrual. A break is turned into an ordinary pause.
func (s *TimerState) Pause() error {
	if !s.IsRunning {
		return ErrNoActiveSession
	}
	s.IsPaused = true
	s.IsBreak = false
	return nil
}

// Resume continues accrual from Paused or OnBreak.
func (s *TimerState) Resume() error {
	if !s.IsRunning {
		return ErrNoActiveSession
	}
	s.IsPaused = false
	s.IsBreak = false
	return nil
}

// StartBreak moves the session to OnBreak.
func (s *TimerState) StartBreak() error {
	if !s.IsRunning {
		return ErrNoActiveSession
	}
	s.IsPaused = true
	s.IsBreak = true
	return nil
}

// Tick credits one TickIncrement when the timer is accruing.
func (s *TimerState) Tick() bool {
	if !s.Accruing() {
		return false
	}
	s.Elapsed += TickIncrement
	return true
}

// Stop ends the session, folding whole elapsed seconds into the today and
// total counters, and returns the record describing the finished session.
func (s *TimerState) Stop(now time.Time) (TimerRecord, error) {
	if !s.IsRunning {
		return TimerRecord{}, ErrNoActiveSession
	}

	secs := int64(s.Elapsed / time.Second)
	if !s.TodayDate.IsZero() && !sameDay(s.TodayDate, now) {
		s.TodaySeconds = 0
	}
	s.TodayDate = now
	s.TodaySeconds += secs
	s.TotalSeconds += secs

	rec := TimerRecord{
		ElapsedTime: s.Elapsed.Milliseconds(),
		TodayTime:   s.TodaySeconds,
		TotalTime:   s.TotalSeconds,
		LastUpdated: now,
		SessionID:   s.SessionID,
		GitBranch:   s.GitBranch,
		GitCommit:   s.GitCommit,
	}
	if s.ProjectID != nil {
		rec.ProjectID = *s.ProjectID
	}
	if s.TaskID != nil {
		rec.TaskID = *s.TaskID
	}
	if s.StartTime != nil {
		rec.StartedAt = *s.StartTime
	}

	s.IsRunning = false
	s.IsPaused = false
	s.IsBreak = false
	s.StartTime = nil
	s.Elapsed = 0
	s.ProjectID = nil
	s.TaskID = nil
	s.SessionID = ""
	s.GitBranch = ""
	s.GitCommit = ""
	return rec, nil
}

// Formatted returns the elapsed time as HH:MM:SS.
func (s *TimerState) Formatted() string {
	return FormatElapsed(s.Elapsed)
}

// Clone returns a copy that shares no pointers with s.
func (s *TimerState) Clone() TimerState {
	c := *s
	if s.StartTime != nil {
		t := *s.StartTime
		c.StartTime = &t
	}
	if s.ProjectID != nil {
		v := *s.ProjectID
		c.ProjectID = &v
	}
	if s.TaskID != nil {
		v := *s.TaskID
		c.TaskID = &v
	}
	return c
}

// FormatElapsed renders d as zero-padded HH:MM:SS. Hours are not capped.
func FormatElapsed(d time.Duration) string {
	total := int64(d / time.Second)
	if total < 0 {
		total = 0
	}
	h := total / 3600
	m := (total % 3600) / 60
	sec := total % 60
	return fmt.Sprintf("%02d:%02d:%02d", h, m, sec)
}

// FormatSeconds renders a second count the same way as FormatElapsed.
func FormatSeconds(secs int64) string {
	return FormatElapsed(time.Duration(secs) * time.Second)
}

// TimerRecord is the persisted summary of a stopped session.
type TimerRecord struct {
	ProjectID   int64     `json:"projectId"`
	TaskID      int64     `json:"taskId"`
	ElapsedTime int64     `json:"elapsedTime"`
	TodayTime   int64     `json:"todayTime"`
	TotalTime   int64     `json:"totalTime"`
	LastUpdated time.Time `json:"lastUpdated"`
	StartedAt   time.Time `json:"startedAt"`
	SessionID   string    `json:"sessionId,omitempty"`
	GitBranch   string    `json:"gitBranch,omitempty"`
	GitCommit   string    `json:"gitCommit,omitempty"`
}

// Key returns the storage key for the record.
func (r TimerRecord) Key() string {
	return TimerKey(r.ProjectID, r.TaskID)
}

// Elapsed returns the session length as a duration.
func (r TimerRecord) Elapsed() time.Duration {
	return time.Duration(r.ElapsedTime) * time.Millisecond
}

// TimerKey builds the "{projectId}_{taskId}" key for timer records.
func TimerKey(projectID, taskID int64) string {
	return fmt.Sprintf("%d_%d", projectID, taskID)
}
