package cmd

import (
	"fmt"
	"io"
	"slices"

	"github.com/spf13/cobra"
	"github.com/xvierd/clockin/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show the configuration file and its values",
	Long:  `Print the path of the configuration file followed by every setting it holds.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		values := app.config.Values()

		if jsonOutput {
			return writeJSON(out, map[string]any{
				"path":   configFileLabel(),
				"values": values,
			})
		}
		printConfig(out, configFileLabel(), values)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
}

// configFileLabel returns the config file in use.
func configFileLabel() string {
	if configPath != "" {
		return configPath
	}
	path, err := config.GetConfigPath()
	if err != nil {
		return "config.toml"
	}
	return path
}

func printConfig(w io.Writer, path string, values map[string]any) {
	fmt.Fprintf(w, "Config file: %s\n\n", path)

	keys := make([]string, 0, len(values))
	width := 0
	for k := range values {
		keys = append(keys, k)
		width = max(width, len(k))
	}
	slices.Sort(keys)

	for _, k := range keys {
		fmt.Fprintf(w, "  %-*s  %v\n", width, k, values[k])
	}
}
