package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// startCmd represents the start command
var startCmd = &cobra.Command{
	Use:   "start <task-id>",
	Short: "Start tracking a task",
	Long: `Select the task and every ancestor up to its project, start the timer and
open the timer screen. Quitting the interface stops and saves the session.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseTaskID(args[0])
		if err != nil {
			return err
		}
		if err := app.tracker.SelectPath(id); err != nil {
			return fmt.Errorf("failed to select task %d: %w", id, err)
		}
		if err := app.tracker.StartSelected(commandContext(cmd)); err != nil {
			return fmt.Errorf("failed to start timer: %w", err)
		}
		app.logger.Info("session started from cli", "task", id)
		return runTUI()
	},
}

func init() {
	rootCmd.AddCommand(startCmd)
}
