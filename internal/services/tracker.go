package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/xvierd/clockin/internal/domain"
	"github.com/xvierd/clockin/internal/ports"
)

// TrackerConfig holds the timer and simulator cadences.
type TrackerConfig struct {
	TickInterval       time.Duration
	KeyboardInterval   time.Duration
	MouseInterval      time.Duration
	ScreenshotMaxDelay time.Duration
	HistoryLimit       int
	WorkingDir         string
}

// DefaultTrackerConfig returns the standard cadences.
func DefaultTrackerConfig() TrackerConfig {
	return TrackerConfig{
		TickInterval:       time.Second,
		KeyboardInterval:   10 * time.Second,
		MouseInterval:      5 * time.Second,
		ScreenshotMaxDelay: 10 * time.Minute,
		HistoryLimit:       domain.MaxActivityHistory,
	}
}

// Tracker owns the selection path, the timer state machine and the activity
// counters. All mutations are serialised by one mutex. Background loops run
// only while the timer is Running and are tied to the run epoch they were
// started for.
type Tracker struct {
	tasks    *TaskService
	timers   ports.TimerRepository
	activity ports.ActivityRepository
	capturer ports.ScreenshotCapturer
	notifier ports.Notifier
	git      ports.GitDetector
	logger   *log.Logger
	cfg      TrackerConfig

	now       func() time.Time
	randDelay func(limit time.Duration) time.Duration

	mu          sync.Mutex
	timer       domain.TimerState
	selection   domain.TaskSelection
	canNavigate bool
	counters    domain.ActivityCounters
	epoch       uint64
	cancel      context.CancelFunc
	closed      bool
	wg          sync.WaitGroup
}

// TrackerOption configures a Tracker.
type TrackerOption func(*Tracker)

// WithStorage wires the timer and activity repositories of s.
func WithStorage(s ports.Storage) TrackerOption {
	return func(t *Tracker) {
		t.timers = s.Timers()
		t.activity = s.Activity()
	}
}

// WithCapturer sets the screenshot source.
func WithCapturer(c ports.ScreenshotCapturer) TrackerOption {
	return func(t *Tracker) { t.capturer = c }
}

// WithNotifier sets the desktop notifier.
func WithNotifier(n ports.Notifier) TrackerOption {
	return func(t *Tracker) { t.notifier = n }
}

// WithGitDetector enables git context capture on start.
func WithGitDetector(g ports.GitDetector) TrackerOption {
	return func(t *Tracker) { t.git = g }
}

// WithLogger sets the logger.
func WithLogger(l *log.Logger) TrackerOption {
	return func(t *Tracker) {
		if l != nil {
			t.logger = l.WithPrefix("tracker")
		}
	}
}

// WithClock overrides time.Now.
func WithClock(now func() time.Time) TrackerOption {
	return func(t *Tracker) { t.now = now }
}

// WithRandomDelay overrides how the next screenshot delay is drawn.
// fn receives the configured upper bound.
func WithRandomDelay(fn func(limit time.Duration) time.Duration) TrackerOption {
	return func(t *Tracker) { t.randDelay = fn }
}

// NewTracker creates a tracker over a loaded (or later loaded) task service.
func NewTracker(tasks *TaskService, cfg TrackerConfig, opts ...TrackerOption) *Tracker {
	if cfg.HistoryLimit <= 0 {
		cfg.HistoryLimit = domain.MaxActivityHistory
	}
	t := &Tracker{
		tasks:     tasks,
		cfg:       cfg,
		logger:    log.New(io.Discard),
		now:       time.Now,
		randDelay: uniformDelay,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// uniformDelay draws from [0, limit).
func uniformDelay(limit time.Duration) time.Duration {
	if limit <= 0 {
		return 0
	}
	return rand.N(limit)
}

// State returns a consistent snapshot of the tracker.
func (t *Tracker) State() domain.CurrentState {
	t.mu.Lock()
	cs := domain.CurrentState{
		Timer:              t.timer.Clone(),
		Selection:          t.selection.Clone(),
		CanNavigateToTimer: t.canNavigate,
		Activity:           t.counters.Clone(),
		Timestamp:          t.now(),
	}
	t.mu.Unlock()

	if id := cs.Selection.Deepest(); id != nil {
		cs.SelectedTask, _ = t.tasks.ByID(*id)
	}
	if cs.Timer.TaskID != nil {
		cs.ActiveTask, _ = t.tasks.ByID(*cs.Timer.TaskID)
	}
	return cs
}

// Children lists the tasks at level under parentID.
func (t *Tracker) Children(level domain.Level, parentID *int64) []*domain.Task {
	return t.tasks.ByLevelAndParent(level, parentID)
}

// Search fuzzy-matches task names.
func (t *Tracker) Search(query string) []*domain.Task {
	return t.tasks.Search(query)
}

// Notifications returns the wired notifier, or nil.
func (t *Tracker) Notifications() ports.Notifier {
	return t.notifier
}

// SetSelection applies one level of the selection path. Lower levels are
// reset and the update must agree with the task hierarchy.
func (t *Tracker) SetSelection(u domain.SelectionUpdate) error {
	if !t.tasks.Loaded() {
		return domain.ErrTasksNotLoaded
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if err := t.selection.Check(u, t.tasks.ByID); err != nil {
		return err
	}
	next, err := t.selection.Apply(u)
	if err != nil {
		return err
	}
	t.selection = next
	t.canNavigate = next.HasTask()
	return nil
}

// SelectPath selects every level from the project down to taskID.
func (t *Tracker) SelectPath(taskID int64) error {
	path, err := t.tasks.Path(taskID)
	if err != nil {
		return err
	}

	var sel domain.TaskSelection
	for _, task := range path {
		u := domain.Select(task.Level, task.ID)
		if err := sel.Check(u, t.tasks.ByID); err != nil {
			return err
		}
		if sel, err = sel.Apply(u); err != nil {
			return err
		}
	}

	t.mu.Lock()
	t.selection = sel
	t.canNavigate = sel.HasTask()
	t.mu.Unlock()
	return nil
}

// Selection returns the current selection path.
func (t *Tracker) Selection() domain.TaskSelection {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.selection.Clone()
}

// IsSelected reports whether a task below the project tier is selected.
func (t *Tracker) IsSelected() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.selection.IsSelected()
}

// CanNavigateToTimer reports whether the timer screen may be opened.
func (t *Tracker) CanNavigateToTimer() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.canNavigate
}

// SelectedTask returns the task at the deepest selected level below the
// project, or nil.
func (t *Tracker) SelectedTask() *domain.Task {
	id := t.Selection().Deepest()
	if id == nil {
		return nil
	}
	task, _ := t.tasks.ByID(*id)
	return task
}

// Timer returns a copy of the timer state.
func (t *Tracker) Timer() domain.TimerState {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.timer.Clone()
}

// Counters returns a copy of the activity counters.
func (t *Tracker) Counters() domain.ActivityCounters {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.counters.Clone()
}

// Start begins a session for projectID/taskID.
func (t *Tracker) Start(ctx context.Context, projectID, taskID int64) error {
	if t.tasks.Loaded() {
		task, ok := t.tasks.ByID(taskID)
		if !ok {
			return fmt.Errorf("%w: %d", domain.ErrTaskNotFound, taskID)
		}
		if task.ProjectID != projectID {
			return fmt.Errorf("%w: task %d belongs to project %d", domain.ErrInvalidSelection, taskID, task.ProjectID)
		}
	}

	branch, commit := t.detectGit(ctx)
	stored := t.storedSession(ctx, projectID, taskID)

	t.mu.Lock()
	if err := t.timer.Start(projectID, taskID, t.now()); err != nil {
		t.mu.Unlock()
		return err
	}
	t.timer.SeedTotals(stored)
	t.timer.SetGitContext(branch, commit)
	t.canNavigate = false
	t.enterRunningLocked()
	sessionID := t.timer.SessionID
	t.mu.Unlock()

	t.logger.Info("session started", "project", projectID, "task", taskID, "session", sessionID, "branch", branch)
	return nil
}

// StartSelected starts a session for the selected task.
func (t *Tracker) StartSelected(ctx context.Context) error {
	t.mu.Lock()
	running := t.timer.IsRunning
	sel := t.selection.Clone()
	can := t.canNavigate
	t.mu.Unlock()

	if running {
		return domain.ErrSessionAlreadyActive
	}
	if !sel.IsSelected() || !can {
		return domain.ErrNoTaskSelected
	}

	task, ok := t.tasks.ByID(*sel.Deepest())
	if !ok {
		return fmt.Errorf("%w: %d", domain.ErrTaskNotFound, *sel.Deepest())
	}
	if task.IsComplete() {
		return fmt.Errorf("%w: %s", domain.ErrTaskComplete, task.Name)
	}
	return t.Start(ctx, *sel.ProjectID, task.ID)
}

// Tick credits one tick to a Running session and reports whether time
// accrued. The tick loop drives it once per TickInterval.
func (t *Tracker) Tick() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.timer.Tick()
}

// Pause stops accrual. Pausing a paused session does nothing.
func (t *Tracker) Pause(ctx context.Context) error {
	return t.suspend(ctx, (*domain.TimerState).Pause, "session paused")
}

// StartBreak moves the session on break.
func (t *Tracker) StartBreak(ctx context.Context) error {
	return t.suspend(ctx, (*domain.TimerState).StartBreak, "break started")
}

func (t *Tracker) suspend(ctx context.Context, transition func(*domain.TimerState) error, msg string) error {
	t.mu.Lock()
	wasRunning := t.timer.Accruing()
	if err := transition(&t.timer); err != nil {
		t.mu.Unlock()
		return err
	}
	if !wasRunning {
		t.mu.Unlock()
		return nil
	}
	t.leaveRunningLocked()
	snap := t.counters.Snapshot(t.now())
	elapsed := t.timer.Elapsed
	t.mu.Unlock()

	t.logger.Info(msg, "elapsed", domain.FormatElapsed(elapsed))
	return t.saveSnapshot(ctx, snap)
}

// Resume continues accrual from Paused or OnBreak.
func (t *Tracker) Resume(ctx context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	wasRunning := t.timer.Accruing()
	if err := t.timer.Resume(); err != nil {
		return err
	}
	t.canNavigate = true
	if !wasRunning {
		t.enterRunningLocked()
		t.logger.Info("session resumed")
	}
	return nil
}

// Stop ends the session and persists its record and an activity snapshot.
// The in-memory transition stands even when persistence fails.
func (t *Tracker) Stop(ctx context.Context) (domain.TimerRecord, error) {
	t.mu.Lock()
	wasRunning := t.timer.Accruing()
	rec, err := t.timer.Stop(t.now())
	if err != nil {
		t.mu.Unlock()
		return rec, err
	}
	if wasRunning {
		t.leaveRunningLocked()
	}
	t.canNavigate = true
	snap := t.counters.Snapshot(rec.LastUpdated)
	t.mu.Unlock()

	t.logger.Info("session stopped", "key", rec.Key(), "elapsed", domain.FormatElapsed(rec.Elapsed()),
		"today", rec.TodayTime, "total", rec.TotalTime)

	var errs []error
	if t.timers != nil {
		if err := t.timers.SaveSession(ctx, rec); err != nil {
			errs = append(errs, fmt.Errorf("%w: failed to save timer session: %w", domain.ErrPersistence, err))
		}
	}
	if err := t.saveSnapshot(ctx, snap); err != nil {
		errs = append(errs, err)
	}
	t.notify("Session stopped", fmt.Sprintf("Tracked %s", domain.FormatElapsed(rec.Elapsed())))

	if len(errs) > 0 {
		err := errors.Join(errs...)
		t.logger.Error("failed to persist session", "err", err)
		return rec, err
	}
	return rec, nil
}

// Close cancels background loops and waits for them to exit. It does not
// stop an active session.
func (t *Tracker) Close() {
	t.mu.Lock()
	t.closed = true
	t.leaveRunningLocked()
	t.mu.Unlock()
	t.wg.Wait()
}

func (t *Tracker) saveSnapshot(ctx context.Context, snap domain.ActivitySnapshot) error {
	if t.activity == nil {
		return nil
	}
	if err := t.activity.SaveSnapshot(ctx, snap, t.cfg.HistoryLimit); err != nil {
		return fmt.Errorf("%w: failed to save activity snapshot: %w", domain.ErrPersistence, err)
	}
	return nil
}

// storedSession returns the saved record for the pair so a new process does
// not overwrite larger stored totals.
func (t *Tracker) storedSession(ctx context.Context, projectID, taskID int64) *domain.TimerRecord {
	if t.timers == nil {
		return nil
	}
	rec, err := t.timers.FindSession(ctx, projectID, taskID)
	if err != nil {
		t.logger.Warn("failed to read stored session", "key", domain.TimerKey(projectID, taskID), "err", err)
		return nil
	}
	return rec
}

func (t *Tracker) detectGit(ctx context.Context) (branch, commit string) {
	if t.git == nil || !t.git.IsAvailable() {
		return "", ""
	}
	info, err := t.git.Detect(ctx, t.cfg.WorkingDir)
	if err != nil || info == nil {
		t.logger.Debug("no git context", "err", err)
		return "", ""
	}
	return info.Branch, info.Commit
}

func (t *Tracker) notify(title, message string) {
	if t.notifier == nil {
		return
	}
	if err := t.notifier.Notify(title, message); err != nil {
		t.logger.Warn("notification failed", "err", err)
	}
}

// Ensure Tracker implements TrackerControl.
var _ ports.TrackerControl = (*Tracker)(nil)
