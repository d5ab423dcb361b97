package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/xvierd/clockin/internal/domain"
)

// mockStateProvider is a mock implementation of ports.MCPStateProvider for testing.
type mockStateProvider struct {
	currentState *domain.CurrentState
	tasks        []*domain.Task
	history      []domain.TimerRecord
	stopRecord   *domain.TimerRecord
	stopErr      error
	actionErr    error

	gotLevel    *domain.Level
	gotParent   *int64
	gotSelect   int64
	gotStart    [2]int64
	gotStatus   string
	gotLimit    int
	startCalled bool
}

func (m *mockStateProvider) GetCurrentState(ctx context.Context) (*domain.CurrentState, error) {
	return m.currentState, nil
}

func (m *mockStateProvider) ListTasks(ctx context.Context, level *domain.Level, parentID *int64) ([]*domain.Task, error) {
	m.gotLevel, m.gotParent = level, parentID
	return m.tasks, nil
}

func (m *mockStateProvider) SearchTasks(ctx context.Context, query string) ([]*domain.Task, error) {
	var out []*domain.Task
	for _, t := range m.tasks {
		if strings.Contains(strings.ToLower(t.Name), strings.ToLower(query)) {
			out = append(out, t)
		}
	}
	return out, nil
}

func (m *mockStateProvider) SelectTask(ctx context.Context, taskID int64) (*domain.CurrentState, error) {
	m.gotSelect = taskID
	return m.currentState, m.actionErr
}

func (m *mockStateProvider) StartTimer(ctx context.Context, projectID, taskID int64) (*domain.CurrentState, error) {
	m.gotStart = [2]int64{projectID, taskID}
	return m.currentState, m.actionErr
}

func (m *mockStateProvider) StartSelected(ctx context.Context) (*domain.CurrentState, error) {
	m.startCalled = true
	return m.currentState, m.actionErr
}

func (m *mockStateProvider) PauseTimer(ctx context.Context) (*domain.CurrentState, error) {
	return m.currentState, m.actionErr
}

func (m *mockStateProvider) ResumeTimer(ctx context.Context) (*domain.CurrentState, error) {
	return m.currentState, m.actionErr
}

func (m *mockStateProvider) StartBreak(ctx context.Context) (*domain.CurrentState, error) {
	return m.currentState, m.actionErr
}

func (m *mockStateProvider) StopTimer(ctx context.Context) (*domain.TimerRecord, error) {
	return m.stopRecord, m.stopErr
}

func (m *mockStateProvider) UpdateTaskStatus(ctx context.Context, taskID int64, status string) (*domain.Task, error) {
	m.gotStatus = status
	st, err := domain.ValidateStatus(status)
	if err != nil {
		return nil, err
	}
	return &domain.Task{ID: taskID, Name: "Updated", Status: st}, nil
}

func (m *mockStateProvider) GetActivity(ctx context.Context) (*domain.ActivitySnapshot, []domain.ActivitySnapshot, error) {
	snap := domain.ActivitySnapshot{KeyboardCount: 3, MouseCount: 6, Timestamp: time.Now()}
	return &snap, []domain.ActivitySnapshot{snap}, nil
}

func (m *mockStateProvider) GetTimerHistory(ctx context.Context, limit int) ([]domain.TimerRecord, error) {
	m.gotLimit = limit
	if len(m.history) > limit {
		return m.history[:limit], nil
	}
	return m.history, nil
}

func runningState() *domain.CurrentState {
	start := time.Now()
	projectID, taskID := int64(1), int64(101221)
	estimate := 60
	task := &domain.Task{ID: taskID, Name: "Client-side Validation", Status: domain.StatusInProgress, Level: domain.LevelSubaction, ProjectID: 1, EstimatedTime: &estimate}
	return &domain.CurrentState{
		Timer: domain.TimerState{
			IsRunning: true,
			StartTime: &start,
			Elapsed:   90 * time.Second,
			ProjectID: &projectID,
			TaskID:    &taskID,
			SessionID: "abc",
			GitBranch: "main",
		},
		ActiveTask:   task,
		SelectedTask: task,
		Activity:     domain.ActivityCounters{KeyboardCount: 9, MouseCount: 18},
	}
}

func callArgs(args map[string]interface{}) mcp.CallToolRequest {
	return mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Arguments: args,
		},
	}
}

func resultJSON(t *testing.T, result *mcp.CallToolResult) map[string]interface{} {
	t.Helper()
	if result == nil {
		t.Fatal("nil result")
	}
	if len(result.Content) == 0 {
		t.Fatal("empty content")
	}
	text, ok := result.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatalf("content is %T, want mcp.TextContent", result.Content[0])
	}
	var out map[string]interface{}
	if err := json.Unmarshal([]byte(text.Text), &out); err != nil {
		t.Fatalf("result is not JSON: %v", err)
	}
	return out
}

func TestNewServer(t *testing.T) {
	mock := &mockStateProvider{}
	server := NewServer(mock, "test")

	if server == nil {
		t.Fatal("NewServer() returned nil")
	}
	if server.stateProvider != mock {
		t.Error("NewServer() did not set state provider correctly")
	}
	if server.server == nil {
		t.Error("NewServer() did not create MCP server")
	}
}

func TestServer_IsRunning(t *testing.T) {
	server := NewServer(&mockStateProvider{}, "test")
	if server.IsRunning() {
		t.Error("IsRunning() should return false before Start()")
	}
}

func TestServer_Stop(t *testing.T) {
	server := NewServer(&mockStateProvider{}, "test")
	if err := server.Stop(); err != nil {
		t.Errorf("Stop() error = %v", err)
	}
}

func TestServer_handleGetCurrentState(t *testing.T) {
	server := NewServer(&mockStateProvider{currentState: runningState()}, "test")

	result, err := server.handleGetCurrentState(context.Background(), mcp.CallToolRequest{})
	if err != nil {
		t.Fatalf("handleGetCurrentState() error = %v", err)
	}
	out := resultJSON(t, result)

	if out["phase"] != string(domain.PhaseRunning) {
		t.Errorf("phase = %v, want running", out["phase"])
	}
	if out["elapsed"] != "00:01:30" {
		t.Errorf("elapsed = %v, want 00:01:30", out["elapsed"])
	}
	if out["git_branch"] != "main" {
		t.Errorf("git_branch = %v, want main", out["git_branch"])
	}
	activity, ok := out["activity"].(map[string]interface{})
	if !ok || activity["keyboard_count"] != float64(9) {
		t.Errorf("activity = %v", out["activity"])
	}
}

func TestServer_handleGetCurrentState_Idle(t *testing.T) {
	server := NewServer(&mockStateProvider{currentState: &domain.CurrentState{}}, "test")

	result, err := server.handleGetCurrentState(context.Background(), mcp.CallToolRequest{})
	if err != nil {
		t.Fatalf("handleGetCurrentState() error = %v", err)
	}
	out := resultJSON(t, result)
	if out["phase"] != string(domain.PhaseIdle) {
		t.Errorf("phase = %v, want idle", out["phase"])
	}
	if _, ok := out["session_id"]; ok {
		t.Error("idle state should not report a session id")
	}
}

func TestServer_handleListTasks(t *testing.T) {
	mock := &mockStateProvider{tasks: domain.DefaultTasks()[:3]}
	server := NewServer(mock, "test")

	result, err := server.handleListTasks(context.Background(), callArgs(map[string]interface{}{
		"level":     float64(1),
		"parent_id": "1",
	}))
	if err != nil {
		t.Fatalf("handleListTasks() error = %v", err)
	}
	out := resultJSON(t, result)

	if out["total_count"] != float64(3) {
		t.Errorf("total_count = %v, want 3", out["total_count"])
	}
	if mock.gotLevel == nil || *mock.gotLevel != domain.LevelTask {
		t.Errorf("level = %v, want LevelTask", mock.gotLevel)
	}
	if mock.gotParent == nil || *mock.gotParent != 1 {
		t.Errorf("parent = %v, want 1", mock.gotParent)
	}
}

func TestServer_handleListTasks_BadArgument(t *testing.T) {
	server := NewServer(&mockStateProvider{}, "test")

	result, err := server.handleListTasks(context.Background(), callArgs(map[string]interface{}{
		"parent_id": "frontend",
	}))
	if err != nil {
		t.Fatalf("handleListTasks() error = %v", err)
	}
	if !result.IsError {
		t.Error("handleListTasks() should return error for non-numeric parent_id")
	}
}

func TestServer_handleSearchTasks(t *testing.T) {
	server := NewServer(&mockStateProvider{tasks: domain.DefaultTasks()}, "test")

	result, err := server.handleSearchTasks(context.Background(), callArgs(map[string]interface{}{
		"query": "validation",
	}))
	if err != nil {
		t.Fatalf("handleSearchTasks() error = %v", err)
	}
	out := resultJSON(t, result)
	if out["total_count"].(float64) < 3 {
		t.Errorf("total_count = %v, want at least 3", out["total_count"])
	}

	result, err = server.handleSearchTasks(context.Background(), callArgs(map[string]interface{}{}))
	if err != nil {
		t.Fatalf("handleSearchTasks() error = %v", err)
	}
	if !result.IsError {
		t.Error("handleSearchTasks() should return error for missing query")
	}
}

func TestServer_handleSelectTask(t *testing.T) {
	mock := &mockStateProvider{currentState: &domain.CurrentState{}}
	server := NewServer(mock, "test")

	result, err := server.handleSelectTask(context.Background(), callArgs(map[string]interface{}{
		"task_id": float64(101221),
	}))
	if err != nil {
		t.Fatalf("handleSelectTask() error = %v", err)
	}
	if result.IsError {
		t.Error("handleSelectTask() returned error result")
	}
	if mock.gotSelect != 101221 {
		t.Errorf("selected %d, want 101221", mock.gotSelect)
	}

	result, err = server.handleSelectTask(context.Background(), callArgs(map[string]interface{}{}))
	if err != nil {
		t.Fatalf("handleSelectTask() error = %v", err)
	}
	if !result.IsError {
		t.Error("handleSelectTask() should return error for missing task_id")
	}
}

func TestServer_handleStartTimer(t *testing.T) {
	mock := &mockStateProvider{currentState: runningState()}
	server := NewServer(mock, "test")

	result, err := server.handleStartTimer(context.Background(), callArgs(map[string]interface{}{
		"project_id": float64(1),
		"task_id":    float64(101221),
	}))
	if err != nil {
		t.Fatalf("handleStartTimer() error = %v", err)
	}
	if result.IsError {
		t.Error("handleStartTimer() returned error result")
	}
	if mock.gotStart != [2]int64{1, 101221} {
		t.Errorf("started %v, want [1 101221]", mock.gotStart)
	}
}

func TestServer_ActionErrorsBecomeToolErrors(t *testing.T) {
	mock := &mockStateProvider{actionErr: domain.ErrNoActiveSession}
	server := NewServer(mock, "test")
	ctx := context.Background()

	handlers := map[string]func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error){
		"start_selected": server.handleStartSelected,
		"pause_timer":    server.handlePauseTimer,
		"resume_timer":   server.handleResumeTimer,
		"start_break":    server.handleStartBreak,
	}
	for name, handle := range handlers {
		t.Run(name, func(t *testing.T) {
			result, err := handle(ctx, mcp.CallToolRequest{})
			if err != nil {
				t.Fatalf("%s error = %v", name, err)
			}
			if !result.IsError {
				t.Errorf("%s should return an error result", name)
			}
		})
	}
}

func TestServer_handleStopTimer(t *testing.T) {
	record := &domain.TimerRecord{ProjectID: 1, TaskID: 101221, ElapsedTime: 61_000, TodayTime: 61, TotalTime: 61}

	t.Run("saved", func(t *testing.T) {
		server := NewServer(&mockStateProvider{stopRecord: record}, "test")
		result, err := server.handleStopTimer(context.Background(), mcp.CallToolRequest{})
		if err != nil {
			t.Fatalf("handleStopTimer() error = %v", err)
		}
		out := resultJSON(t, result)
		if out["elapsed"] != "00:01:01" {
			t.Errorf("elapsed = %v, want 00:01:01", out["elapsed"])
		}
		if _, ok := out["warning"]; ok {
			t.Error("unexpected warning")
		}
	})

	t.Run("save failed", func(t *testing.T) {
		server := NewServer(&mockStateProvider{stopRecord: record, stopErr: domain.ErrPersistence}, "test")
		result, err := server.handleStopTimer(context.Background(), mcp.CallToolRequest{})
		if err != nil {
			t.Fatalf("handleStopTimer() error = %v", err)
		}
		out := resultJSON(t, result)
		if out["warning"] == nil {
			t.Error("expected a warning for the persistence failure")
		}
	})

	t.Run("no session", func(t *testing.T) {
		server := NewServer(&mockStateProvider{stopErr: domain.ErrNoActiveSession}, "test")
		result, err := server.handleStopTimer(context.Background(), mcp.CallToolRequest{})
		if err != nil {
			t.Fatalf("handleStopTimer() error = %v", err)
		}
		if !result.IsError {
			t.Error("handleStopTimer() should return error without a session")
		}
	})
}

func TestServer_handleUpdateTaskStatus(t *testing.T) {
	mock := &mockStateProvider{}
	server := NewServer(mock, "test")

	result, err := server.handleUpdateTaskStatus(context.Background(), callArgs(map[string]interface{}{
		"task_id": float64(1013),
		"status":  "REVIEW",
	}))
	if err != nil {
		t.Fatalf("handleUpdateTaskStatus() error = %v", err)
	}
	out := resultJSON(t, result)
	if out["status"] != "REVIEW" {
		t.Errorf("status = %v, want REVIEW", out["status"])
	}

	result, err = server.handleUpdateTaskStatus(context.Background(), callArgs(map[string]interface{}{
		"task_id": float64(1013),
		"status":  "DONE",
	}))
	if err != nil {
		t.Fatalf("handleUpdateTaskStatus() error = %v", err)
	}
	if !result.IsError {
		t.Error("handleUpdateTaskStatus() should return error for unknown status")
	}
}

func TestServer_handleGetActivity(t *testing.T) {
	server := NewServer(&mockStateProvider{}, "test")

	result, err := server.handleGetActivity(context.Background(), mcp.CallToolRequest{})
	if err != nil {
		t.Fatalf("handleGetActivity() error = %v", err)
	}
	out := resultJSON(t, result)
	if out["history_count"] != float64(1) {
		t.Errorf("history_count = %v, want 1", out["history_count"])
	}
}

func TestServer_handleGetTimerHistory(t *testing.T) {
	now := time.Now()
	mock := &mockStateProvider{history: []domain.TimerRecord{
		{ProjectID: 1, TaskID: 1011, TodayTime: 10, LastUpdated: now},
		{ProjectID: 1, TaskID: 1012, TodayTime: 20, LastUpdated: now},
	}}
	server := NewServer(mock, "test")

	result, err := server.handleGetTimerHistory(context.Background(), mcp.CallToolRequest{})
	if err != nil {
		t.Fatalf("handleGetTimerHistory() error = %v", err)
	}
	out := resultJSON(t, result)
	if out["total_sessions"] != float64(2) {
		t.Errorf("total_sessions = %v, want 2", out["total_sessions"])
	}
	if mock.gotLimit != defaultHistoryLimit {
		t.Errorf("limit = %d, want %d", mock.gotLimit, defaultHistoryLimit)
	}

	_, err = server.handleGetTimerHistory(context.Background(), callArgs(map[string]interface{}{"limit": float64(1)}))
	if err != nil {
		t.Fatalf("handleGetTimerHistory() error = %v", err)
	}
	if mock.gotLimit != 1 {
		t.Errorf("limit = %d, want 1", mock.gotLimit)
	}
}

func TestIntArg(t *testing.T) {
	tests := []struct {
		name    string
		args    map[string]interface{}
		want    int64
		present bool
		wantErr bool
	}{
		{"number", map[string]interface{}{"n": float64(42)}, 42, true, false},
		{"string", map[string]interface{}{"n": "42"}, 42, true, false},
		{"missing", map[string]interface{}{}, 0, false, false},
		{"garbage", map[string]interface{}{"n": "x"}, 0, true, true},
		{"bool", map[string]interface{}{"n": true}, 0, true, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, present, err := intArg(callArgs(tt.args), "n")
			if (err != nil) != tt.wantErr {
				t.Fatalf("intArg() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want || present != tt.present {
				t.Errorf("intArg() = %d, %v; want %d, %v", got, present, tt.want, tt.present)
			}
		})
	}

	_, err := requireIntArg(callArgs(map[string]interface{}{}), "task_id")
	if err == nil || errors.Is(err, domain.ErrTaskNotFound) {
		t.Errorf("requireIntArg() error = %v, want required error", err)
	}
}
