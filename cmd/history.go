package cmd

import (
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/charmbracelet/x/term"
	"github.com/spf13/cobra"
	"github.com/xvierd/clockin/internal/adapters/git"
	"github.com/xvierd/clockin/internal/domain"
	"github.com/xvierd/clockin/internal/services"
)

var historyLimit int

// historyCmd represents the history command
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show saved timer sessions",
	Long:  `List the saved timer record of each project/task pair, most recent first.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		records, err := app.state.GetTimerHistory(commandContext(cmd), historyLimit)
		if err != nil {
			return fmt.Errorf("failed to load history: %w", err)
		}

		out := cmd.OutOrStdout()
		if jsonOutput {
			return writeJSON(out, map[string]any{
				"sessions": records,
				"count":    len(records),
			})
		}
		if len(records) == 0 {
			fmt.Fprintln(out, "No sessions recorded yet.")
			return nil
		}
		fmt.Fprintln(out, renderHistory(records, app.tasks, terminalWidth()))
		return nil
	},
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "Maximum number of sessions to show (0 for all)")
	rootCmd.AddCommand(historyCmd)
}

// terminalWidth returns the stdout width, or 0 when stdout is not a terminal.
func terminalWidth() int {
	w, _, err := term.GetSize(os.Stdout.Fd())
	if err != nil {
		return 0
	}
	return w
}

// taskName resolves id to a name, falling back to the bare ID.
func taskName(tasks *services.TaskService, id int64) string {
	if t, ok := tasks.ByID(id); ok {
		return t.Name
	}
	return fmt.Sprintf("#%d", id)
}

// renderHistory lays the records out as a table. A zero width leaves the
// table at its natural size.
func renderHistory(records []domain.TimerRecord, tasks *services.TaskService, width int) string {
	headerStyle := lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle := lipgloss.NewStyle().Padding(0, 1)

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		Headers("PROJECT", "TASK", "LAST", "TODAY", "TOTAL", "UPDATED", "GIT").
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})

	for _, r := range records {
		gitInfo := ""
		if r.GitBranch != "" {
			gitInfo = fmt.Sprintf("%s@%s", r.GitBranch, git.ShortCommit(r.GitCommit))
		}
		t.Row(
			taskName(tasks, r.ProjectID),
			taskName(tasks, r.TaskID),
			domain.FormatElapsed(r.Elapsed()),
			domain.FormatSeconds(r.TodayTime),
			domain.FormatSeconds(r.TotalTime),
			r.LastUpdated.Local().Format("2006-01-02 15:04"),
			gitInfo,
		)
	}

	if width > 0 {
		t.Width(width)
	}
	return t.Render()
}
