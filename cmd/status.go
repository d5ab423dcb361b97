package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/xvierd/clockin/internal/domain"
)

// statusCmd represents the status command
var statusCmd = &cobra.Command{
	Use:   "status <task-id> <STATUS>",
	Short: "Set the status of a task",
	Long: fmt.Sprintf(`Set the workflow status of a task. The change is persisted to the task store.

Valid statuses: %s`, statusList()),
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseTaskID(args[0])
		if err != nil {
			return err
		}
		status := normalizeStatus(args[1])

		task, err := app.tasks.UpdateStatus(commandContext(cmd), id, status)
		if err != nil {
			return fmt.Errorf("failed to update task: %w", err)
		}

		out := cmd.OutOrStdout()
		if jsonOutput {
			return writeJSON(out, task)
		}
		fmt.Fprintf(out, "%s %s (ID: %d) is now %s\n", getStatusIcon(task.Status), task.Name, task.ID, task.Status)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

// normalizeStatus accepts "in_progress" or "in-progress" for "IN PROGRESS".
func normalizeStatus(s string) string {
	s = strings.ToUpper(strings.TrimSpace(s))
	return strings.NewReplacer("_", " ", "-", " ").Replace(s)
}

func statusList() string {
	names := make([]string, len(domain.ValidStatuses))
	for i, s := range domain.ValidStatuses {
		names[i] = string(s)
	}
	return strings.Join(names, ", ")
}
