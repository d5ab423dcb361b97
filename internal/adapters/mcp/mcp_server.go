// Package mcp provides the MCP (Model Context Protocol) server implementation.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/xvierd/clockin/internal/domain"
	"github.com/xvierd/clockin/internal/ports"
)

const defaultHistoryLimit = 20

// Server implements the MCP server using mark3labs/mcp-go.
type Server struct {
	server        *server.MCPServer
	stateProvider ports.MCPStateProvider
	ctx           context.Context
	cancel        context.CancelFunc
}

// NewServer creates a new MCP server instance.
func NewServer(stateProvider ports.MCPStateProvider, version string) *Server {
	s := &Server{
		stateProvider: stateProvider,
	}

	s.server = server.NewMCPServer(
		"clockin",
		version,
		server.WithToolCapabilities(false),
		server.WithLogging(),
	)

	s.registerTools()

	return s
}

func (s *Server) registerTools() {
	s.server.AddTool(
		mcp.NewTool(
			"get_current_state",
			mcp.WithDescription("Get the timer phase, elapsed time, current selection and activity counters"),
		),
		s.handleGetCurrentState,
	)

	s.server.AddTool(
		mcp.NewTool(
			"list_tasks",
			mcp.WithDescription("List tasks, optionally filtered by hierarchy level and parent"),
			mcp.WithNumber(
				"level",
				mcp.Description("Hierarchy level: 0 project, 1 task, 2 subtask, 3 action, 4 subaction"),
			),
			mcp.WithNumber(
				"parent_id",
				mcp.Description("Only return children of this task"),
			),
		),
		s.handleListTasks,
	)

	s.server.AddTool(
		mcp.NewTool(
			"search_tasks",
			mcp.WithDescription("Fuzzy search tasks by name"),
			mcp.WithString(
				"query",
				mcp.Required(),
				mcp.Description("Text to match against task names"),
			),
		),
		s.handleSearchTasks,
	)

	s.server.AddTool(
		mcp.NewTool(
			"select_task",
			mcp.WithDescription("Select a task and every ancestor down from its project"),
			mcp.WithNumber(
				"task_id",
				mcp.Required(),
				mcp.Description("The ID of the task to select"),
			),
		),
		s.handleSelectTask,
	)

	s.server.AddTool(
		mcp.NewTool(
			"start_timer",
			mcp.WithDescription("Start tracking time for a project/task pair"),
			mcp.WithNumber(
				"project_id",
				mcp.Required(),
				mcp.Description("The project the task belongs to"),
			),
			mcp.WithNumber(
				"task_id",
				mcp.Required(),
				mcp.Description("The task to track"),
			),
		),
		s.handleStartTimer,
	)

	s.server.AddTool(
		mcp.NewTool(
			"start_selected",
			mcp.WithDescription("Start tracking time for the deepest selected task"),
		),
		s.handleStartSelected,
	)

	s.server.AddTool(
		mcp.NewTool(
			"pause_timer",
			mcp.WithDescription("Pause the running timer"),
		),
		s.handlePauseTimer,
	)

	s.server.AddTool(
		mcp.NewTool(
			"resume_timer",
			mcp.WithDescription("Resume a paused timer or end a break"),
		),
		s.handleResumeTimer,
	)

	s.server.AddTool(
		mcp.NewTool(
			"start_break",
			mcp.WithDescription("Put the running timer on break"),
		),
		s.handleStartBreak,
	)

	s.server.AddTool(
		mcp.NewTool(
			"stop_timer",
			mcp.WithDescription("Stop the timer and save the session totals"),
		),
		s.handleStopTimer,
	)

	s.server.AddTool(
		mcp.NewTool(
			"update_task_status",
			mcp.WithDescription("Change the status of a task"),
			mcp.WithNumber(
				"task_id",
				mcp.Required(),
				mcp.Description("The ID of the task to update"),
			),
			mcp.WithString(
				"status",
				mcp.Required(),
				mcp.Description("New status"),
				mcp.Enum(statusNames()...),
			),
		),
		s.handleUpdateTaskStatus,
	)

	s.server.AddTool(
		mcp.NewTool(
			"get_activity",
			mcp.WithDescription("Get the latest saved activity snapshot and the snapshot history"),
		),
		s.handleGetActivity,
	)

	s.server.AddTool(
		mcp.NewTool(
			"get_timer_history",
			mcp.WithDescription("Get saved timer sessions, most recent first"),
			mcp.WithNumber(
				"limit",
				mcp.Description("Maximum number of sessions to return (default: 20)"),
			),
		),
		s.handleGetTimerHistory,
	)
}

// Start begins serving MCP requests via stdio.
func (s *Server) Start(ctx context.Context) error {
	s.ctx, s.cancel = context.WithCancel(ctx)
	return server.ServeStdio(s.server)
}

// Stop gracefully shuts down the server.
func (s *Server) Stop() error {
	if s.cancel != nil {
		s.cancel()
	}
	return nil
}

// IsRunning returns true if the server is active.
func (s *Server) IsRunning() bool {
	if s.ctx == nil {
		return false
	}
	return s.ctx.Err() == nil
}

var _ ports.MCPHandler = (*Server)(nil)

func statusNames() []string {
	names := make([]string, len(domain.ValidStatuses))
	for i, st := range domain.ValidStatuses {
		names[i] = string(st)
	}
	return names
}

// intArg reads an integer argument sent either as a JSON number or a
// numeric string.
func intArg(request mcp.CallToolRequest, name string) (int64, bool, error) {
	raw, ok := request.GetArguments()[name]
	if !ok || raw == nil {
		return 0, false, nil
	}
	switch v := raw.(type) {
	case float64:
		return int64(v), true, nil
	case int:
		return int64(v), true, nil
	case int64:
		return v, true, nil
	case string:
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return 0, true, fmt.Errorf("%s must be a number", name)
		}
		return n, true, nil
	default:
		return 0, true, fmt.Errorf("%s must be a number", name)
	}
}

func requireIntArg(request mcp.CallToolRequest, name string) (int64, error) {
	n, ok, err := intArg(request, name)
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, fmt.Errorf("%s is required", name)
	}
	return n, nil
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal result: %w", err)
	}
	return mcp.NewToolResultText(string(data)), nil
}

func formatTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.Format(time.RFC3339)
}

func stateView(state *domain.CurrentState) map[string]any {
	timer := state.Timer
	result := map[string]any{
		"phase":                 string(timer.Phase()),
		"elapsed":               timer.Formatted(),
		"elapsed_ms":            timer.Elapsed.Milliseconds(),
		"today_time":            domain.FormatSeconds(timer.TodaySeconds),
		"total_time":            domain.FormatSeconds(timer.TotalSeconds),
		"started_at":            formatTime(timer.StartTime),
		"selection":             state.Selection,
		"can_navigate_to_timer": state.CanNavigateToTimer,
		"can_start":             state.CanStartSession(),
		"selected_task":         state.SelectedTask,
		"active_task":           state.ActiveTask,
		"activity": map[string]any{
			"keyboard_count":       state.Activity.KeyboardCount,
			"mouse_count":          state.Activity.MouseCount,
			"last_screenshot_time": formatTime(state.Activity.LastScreenshotTime),
		},
	}
	if timer.IsRunning {
		result["session_id"] = timer.SessionID
		result["progress"] = state.Progress()
		if timer.GitBranch != "" {
			result["git_branch"] = timer.GitBranch
			result["git_commit"] = timer.GitCommit
		}
	}
	return result
}

func (s *Server) stateResult(state *domain.CurrentState, err error, action string) (*mcp.CallToolResult, error) {
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to %s: %v", action, err)), nil
	}
	return jsonResult(stateView(state))
}

func (s *Server) handleGetCurrentState(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	state, err := s.stateProvider.GetCurrentState(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get current state: %w", err)
	}
	return jsonResult(stateView(state))
}

func (s *Server) handleListTasks(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var level *domain.Level
	n, ok, err := intArg(request, "level")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if ok {
		l := domain.Level(n)
		level = &l
	}

	var parentID *int64
	p, ok, err := intArg(request, "parent_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if ok {
		parentID = &p
	}

	tasks, err := s.stateProvider.ListTasks(ctx, level, parentID)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to list tasks: %v", err)), nil
	}

	result := map[string]any{
		"tasks":       tasks,
		"total_count": len(tasks),
	}
	if level != nil {
		result["level"] = level.Label()
	}
	if parentID != nil {
		result["parent_id"] = *parentID
	}
	return jsonResult(result)
}

func (s *Server) handleSearchTasks(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := request.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError("query is required: " + err.Error()), nil
	}

	tasks, err := s.stateProvider.SearchTasks(ctx, query)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to search tasks: %v", err)), nil
	}
	return jsonResult(map[string]any{
		"query":       query,
		"tasks":       tasks,
		"total_count": len(tasks),
	})
}

func (s *Server) handleSelectTask(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	taskID, err := requireIntArg(request, "task_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	state, err := s.stateProvider.SelectTask(ctx, taskID)
	return s.stateResult(state, err, "select task")
}

func (s *Server) handleStartTimer(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	projectID, err := requireIntArg(request, "project_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	taskID, err := requireIntArg(request, "task_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	state, err := s.stateProvider.StartTimer(ctx, projectID, taskID)
	return s.stateResult(state, err, "start timer")
}

func (s *Server) handleStartSelected(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	state, err := s.stateProvider.StartSelected(ctx)
	return s.stateResult(state, err, "start timer")
}

func (s *Server) handlePauseTimer(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	state, err := s.stateProvider.PauseTimer(ctx)
	return s.stateResult(state, err, "pause timer")
}

func (s *Server) handleResumeTimer(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	state, err := s.stateProvider.ResumeTimer(ctx)
	return s.stateResult(state, err, "resume timer")
}

func (s *Server) handleStartBreak(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	state, err := s.stateProvider.StartBreak(ctx)
	return s.stateResult(state, err, "start break")
}

func (s *Server) handleStopTimer(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	record, err := s.stateProvider.StopTimer(ctx)
	if record == nil {
		if err == nil {
			err = domain.ErrNoActiveSession
		}
		return mcp.NewToolResultError(fmt.Sprintf("failed to stop timer: %v", err)), nil
	}

	result := map[string]any{
		"record":     record,
		"elapsed":    domain.FormatElapsed(record.Elapsed()),
		"today_time": domain.FormatSeconds(record.TodayTime),
		"total_time": domain.FormatSeconds(record.TotalTime),
	}
	// The session has ended even when saving failed.
	if err != nil {
		result["warning"] = err.Error()
	}
	return jsonResult(result)
}

func (s *Server) handleUpdateTaskStatus(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	taskID, err := requireIntArg(request, "task_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	status, err := request.RequireString("status")
	if err != nil {
		return mcp.NewToolResultError("status is required: " + err.Error()), nil
	}

	task, err := s.stateProvider.UpdateTaskStatus(ctx, taskID, status)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to update task: %v", err)), nil
	}
	return jsonResult(task)
}

func (s *Server) handleGetActivity(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	latest, history, err := s.stateProvider.GetActivity(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get activity: %w", err)
	}
	return jsonResult(map[string]any{
		"latest":        latest,
		"history":       history,
		"history_count": len(history),
	})
}

func (s *Server) handleGetTimerHistory(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	limit := defaultHistoryLimit
	n, ok, err := intArg(request, "limit")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if ok && n > 0 {
		limit = int(n)
	}

	records, err := s.stateProvider.GetTimerHistory(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get timer history: %w", err)
	}

	sessions := make([]map[string]any, 0, len(records))
	for _, r := range records {
		sessions = append(sessions, map[string]any{
			"project_id":   r.ProjectID,
			"task_id":      r.TaskID,
			"elapsed":      domain.FormatElapsed(r.Elapsed()),
			"today_time":   domain.FormatSeconds(r.TodayTime),
			"total_time":   domain.FormatSeconds(r.TotalTime),
			"last_updated": r.LastUpdated.Format(time.RFC3339),
			"git_branch":   r.GitBranch,
		})
	}
	return jsonResult(map[string]any{
		"sessions":       sessions,
		"total_sessions": len(sessions),
	})
}
