package cmd

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"
	"github.com/xvierd/clockin/internal/domain"
	"github.com/xvierd/clockin/internal/services"
)

var (
	exportFormat string
	exportOutput string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export saved timer sessions",
	Long:  "Export the saved timer sessions in markdown or CSV format.",
	RunE: func(cmd *cobra.Command, args []string) error {
		records, err := app.state.GetTimerHistory(commandContext(cmd), 0)
		if err != nil {
			return fmt.Errorf("failed to fetch sessions: %w", err)
		}

		out := cmd.OutOrStdout()
		if exportOutput != "" {
			f, err := os.Create(exportOutput)
			if err != nil {
				return fmt.Errorf("failed to create %s: %w", exportOutput, err)
			}
			defer f.Close()
			out = f
		}

		switch exportFormat {
		case "csv":
			return exportCSV(out, records, app.tasks)
		case "md", "markdown":
			return exportMarkdown(out, records, app.tasks, time.Now())
		default:
			return fmt.Errorf("unknown format %q (use md or csv)", exportFormat)
		}
	},
}

func init() {
	exportCmd.Flags().StringVar(&exportFormat, "format", "md", "Output format: md or csv")
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "Write to a file instead of stdout")
	rootCmd.AddCommand(exportCmd)
}

func exportMarkdown(w io.Writer, records []domain.TimerRecord, tasks *services.TaskService, now time.Time) error {
	fmt.Fprintf(w, "# clockin session export\n\n")
	fmt.Fprintf(w, "Generated: %s\n\n", now.Format("2006-01-02 15:04"))

	if len(records) == 0 {
		fmt.Fprintln(w, "_No sessions recorded._")
		return nil
	}

	var total int64
	for _, r := range records {
		fmt.Fprintf(w, "## %s / %s\n", taskName(tasks, r.ProjectID), taskName(tasks, r.TaskID))
		fmt.Fprintf(w, "- Last session: %s\n", domain.FormatElapsed(r.Elapsed()))
		fmt.Fprintf(w, "- Today: %s\n", domain.FormatSeconds(r.TodayTime))
		fmt.Fprintf(w, "- Total: %s\n", domain.FormatSeconds(r.TotalTime))
		fmt.Fprintf(w, "- Updated: %s\n", r.LastUpdated.Local().Format("2006-01-02 15:04"))
		if r.GitBranch != "" {
			fmt.Fprintf(w, "- Git: %s (%s)\n", r.GitBranch, r.GitCommit)
		}
		fmt.Fprintln(w)
		total += r.TotalTime
	}
	fmt.Fprintf(w, "**Tracked in total:** %s\n", domain.FormatSeconds(total))
	return nil
}

func exportCSV(w io.Writer, records []domain.TimerRecord, tasks *services.TaskService) error {
	cw := csv.NewWriter(w)

	_ = cw.Write([]string{
		"project_id", "project", "task_id", "task", "elapsed_ms",
		"today_seconds", "total_seconds", "started_at", "last_updated",
		"git_branch", "git_commit",
	})
	for _, r := range records {
		_ = cw.Write([]string{
			strconv.FormatInt(r.ProjectID, 10),
			taskName(tasks, r.ProjectID),
			strconv.FormatInt(r.TaskID, 10),
			taskName(tasks, r.TaskID),
			strconv.FormatInt(r.ElapsedTime, 10),
			strconv.FormatInt(r.TodayTime, 10),
			strconv.FormatInt(r.TotalTime, 10),
			r.StartedAt.Format(time.RFC3339),
			r.LastUpdated.Format(time.RFC3339),
			r.GitBranch,
			r.GitCommit,
		})
	}

	cw.Flush()
	return cw.Error()
}
