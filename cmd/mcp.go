package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/xvierd/clockin/internal/adapters/mcp"
)

// mcpCmd represents the mcp command
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the MCP server",
	Long: `Start the Model Context Protocol (MCP) server for integration with AI assistants.
The server communicates over stdio and exposes tools to browse tasks, drive
the timer and read saved sessions and activity.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if !app.config.MCP.Enabled {
			return fmt.Errorf("MCP server is disabled (set mcp.enabled = true in %s)", configFileLabel())
		}

		ctx, cancel := setupSignalHandler()
		defer cancel()

		app.logger.Info("starting MCP server")
		server := mcp.NewServer(app.state, Version)
		if err := server.Start(ctx); err != nil && ctx.Err() == nil {
			return fmt.Errorf("MCP server error: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
