package cmd

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/xvierd/clockin/internal/domain"
)

var activityLimit int

// activityCmd represents the activity command
var activityCmd = &cobra.Command{
	Use:   "activity",
	Short: "Show recorded activity snapshots",
	Long: `Show the latest activity snapshot and the most recent entries of the
snapshot history. Snapshots are saved whenever a running timer is paused,
put on break or stopped.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		latest, history, err := app.state.GetActivity(commandContext(cmd))
		if err != nil {
			return fmt.Errorf("failed to load activity: %w", err)
		}
		if activityLimit > 0 && len(history) > activityLimit {
			history = history[len(history)-activityLimit:]
		}

		out := cmd.OutOrStdout()
		if jsonOutput {
			return writeJSON(out, map[string]any{
				"latest":  latest,
				"history": history,
			})
		}
		renderActivity(out, latest, history, terminalWidth())
		return nil
	},
}

func init() {
	activityCmd.Flags().IntVarP(&activityLimit, "limit", "n", 10, "Number of history entries to show (0 for all)")
	rootCmd.AddCommand(activityCmd)
}

func renderActivity(w io.Writer, latest *domain.ActivitySnapshot, history []domain.ActivitySnapshot, width int) {
	if latest == nil {
		fmt.Fprintln(w, "No activity recorded yet.")
		return
	}

	fmt.Fprintln(w, "Latest snapshot")
	fmt.Fprintf(w, "  Taken:       %s\n", latest.Timestamp.Local().Format(time.DateTime))
	fmt.Fprintf(w, "  Keystrokes:  %d\n", latest.KeyboardCount)
	fmt.Fprintf(w, "  Movements:   %d\n", latest.MouseCount)
	fmt.Fprintf(w, "  Screenshot:  %s\n", formatScreenshot(latest.LastScreenshotTime))

	if len(history) == 0 {
		return
	}

	var peak int64
	for _, s := range history {
		peak = max(peak, s.KeyboardCount+s.MouseCount)
	}

	// Label column plus counters; the rest of the line is the bar.
	barWidth := 20
	if width > 0 {
		barWidth = max(width-46, 0)
	}

	fmt.Fprintf(w, "\nHistory (%d)\n", len(history))
	for _, s := range history {
		fmt.Fprintf(w, "  %s  %6d keys %6d moves %s\n",
			s.Timestamp.Local().Format("01-02 15:04"), s.KeyboardCount, s.MouseCount,
			activityBar(s.KeyboardCount+s.MouseCount, peak, barWidth))
	}
}

// activityBar scales total against peak into a bar of at most width cells.
func activityBar(total, peak int64, width int) string {
	if peak <= 0 || width <= 0 {
		return ""
	}
	n := int(total * int64(width) / peak)
	return strings.Repeat("▇", n)
}

func formatScreenshot(t *time.Time) string {
	if t == nil {
		return "none"
	}
	return t.Local().Format(time.DateTime)
}
