package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"github.com/xvierd/clockin/internal/domain"
	"github.com/xvierd/clockin/internal/services"
)

var (
	listLevel  string
	listParent int64
	listSearch string
)

// listCmd represents the list command
var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List tasks",
	Long: `Show the task hierarchy as a tree, or a flat list filtered by level,
parent or a fuzzy search on task names.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()

		tasks, filtered, err := listTasks(app.tasks)
		if err != nil {
			return err
		}

		if jsonOutput {
			return writeJSON(out, map[string]any{
				"tasks": tasks,
				"count": len(tasks),
			})
		}

		if !filtered {
			renderTree(out, app.tasks, nil, domain.LevelProject, "")
			return nil
		}
		if len(tasks) == 0 {
			fmt.Fprintln(out, "No tasks found.")
			return nil
		}
		for _, t := range tasks {
			fmt.Fprintf(out, "%s %-9s %-6d %s\n", getStatusIcon(t.Status), t.Level.Label(), t.ID, t.Name)
		}
		return nil
	},
}

func init() {
	listCmd.Flags().StringVarP(&listLevel, "level", "l", "", "Only show one level: project, task, subtask, action, subaction")
	listCmd.Flags().Int64VarP(&listParent, "parent", "p", 0, "Only show children of this task ID")
	listCmd.Flags().StringVarP(&listSearch, "search", "s", "", "Fuzzy search task names")
	rootCmd.AddCommand(listCmd)
}

// listTasks applies the list flags. filtered is false when no flag narrows
// the result and the tree view should be used.
func listTasks(tasks *services.TaskService) (result []*domain.Task, filtered bool, err error) {
	if listSearch != "" {
		return tasks.Search(listSearch), true, nil
	}

	var parentID *int64
	if listParent != 0 {
		parent, ok := tasks.ByID(listParent)
		if !ok {
			return nil, true, fmt.Errorf("%w: %d", domain.ErrTaskNotFound, listParent)
		}
		parentID = &parent.ID
		if listLevel == "" {
			return tasks.ByLevelAndParent(parent.Level+1, parentID), true, nil
		}
	}

	if listLevel == "" {
		return tasks.All(), false, nil
	}
	level, err := parseLevel(listLevel)
	if err != nil {
		return nil, true, err
	}
	if parentID == nil && level != domain.LevelProject {
		var all []*domain.Task
		for _, t := range tasks.All() {
			if t.Level == level {
				all = append(all, t)
			}
		}
		return all, true, nil
	}
	return tasks.ByLevelAndParent(level, parentID), true, nil
}

// parseLevel accepts a level name or its depth (0-4).
func parseLevel(s string) (domain.Level, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for l := domain.LevelProject; l <= domain.MaxLevel; l++ {
		if s == strings.ToLower(l.Label()) || s == fmt.Sprint(int(l)) {
			return l, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", domain.ErrInvalidLevel, s)
}

// renderTree prints the children of parentID at level and recurses.
func renderTree(w io.Writer, tasks *services.TaskService, parentID *int64, level domain.Level, indent string) {
	children := tasks.ByLevelAndParent(level, parentID)
	for i, t := range children {
		branch, next := "├── ", "│   "
		if i == len(children)-1 {
			branch, next = "└── ", "    "
		}
		if level == domain.LevelProject {
			branch, next = "", ""
		}

		line := fmt.Sprintf("%s%s%s %s (ID: %d)", indent, branch, getStatusIcon(t.Status), t.Name, t.ID)
		if t.EstimatedTime != nil {
			line += fmt.Sprintf(" · %dm", *t.EstimatedTime)
		}
		fmt.Fprintln(w, line)

		if level < domain.MaxLevel {
			renderTree(w, tasks, &t.ID, level+1, indent+next)
		}
	}
}

func getStatusIcon(status domain.TaskStatus) string {
	switch status {
	case domain.StatusTodo:
		return "○"
	case domain.StatusInProgress:
		return "▶"
	case domain.StatusComplete:
		return "✔"
	case domain.StatusReview:
		return "◎"
	case domain.StatusClosed:
		return "■"
	case domain.StatusBacklog:
		return "…"
	case domain.StatusClarification:
		return "?"
	default:
		return "•"
	}
}
