// ABOUTME: CLI command for starting MCP server.
// ABOUTME: Runs stdio-based MCP server for Claude integration.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/harperreed/nutrition/internal/mcp"
	"github.com/spf13/cobra"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start MCP server",
	Long: `Start the Model Context Protocol (MCP) server for AI assistant integration.

MCP allows AI assistants like Claude to log meals, water and weight through
a standardized protocol. The server communicates via stdin/stdout.

CLAUDE DESKTOP CONFIGURATION:

  Add this to your Claude Desktop config (claude_desktop_config.json):

  {
    "mcpServers": {
      "nutrition": {
        "command": "nutrition",
        "args": ["mcp"]
      }
    }
  }

  On macOS, the config is at:
    ~/Library/Application Support/Claude/claude_desktop_config.json

AVAILABLE TOOLS:

  search_foods     Search the food catalog
  log_meal         Log foods into a meal section
  list_meals       List a day's meal entries
  delete_meal      Delete a meal entry by ID
  add_water        Add water in millilitres
  get_daily        Get a day's totals
  get_range        Get daily totals for a date range
  log_weight       Record a weight sample
  weight_history   List recent weight samples
  save_combo       Save foods as a combo
  list_combos      List saved combos
  log_combo        Log a combo into a meal section
  delete_combo     Delete a combo
  weekly_stats     Seven-day summary

AVAILABLE RESOURCES:

  nutrition://today    Today's entries and totals
  nutrition://week     Last seven days summary
  nutrition://combos   Saved combos`,
	RunE: func(cmd *cobra.Command, args []string) error {
		server, err := mcp.NewServer(led, cat, userID, log)
		if err != nil {
			return err
		}

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		// Handle shutdown signals
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		go func() {
			<-sigChan
			cancel()
		}()

		return server.Serve(ctx)
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
