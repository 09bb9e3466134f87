// ABOUTME: CLI commands for viewing and changing settings.
// ABOUTME: Reads and writes ~/.config/nutrition/config.json without opening storage.
package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/harperreed/nutrition/internal/config"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View or change settings",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show effective settings",
	RunE: func(cmd *cobra.Command, args []string) error {
		catalogPath := cfg.CatalogPath
		if catalogPath == "" {
			catalogPath = "(built-in)"
		}

		faint := color.New(color.Faint)
		fmt.Printf("%s %s\n", faint.Sprint("config      "), config.GetConfigPath())
		fmt.Printf("%s %s\n", faint.Sprint("backend     "), cfg.GetBackend())
		fmt.Printf("%s %s\n", faint.Sprint("storage     "), cfg.StoragePath())
		fmt.Printf("%s %d\n", faint.Sprint("user_id     "), cfg.GetUserID())
		fmt.Printf("%s %s\n", faint.Sprint("catalog_path"), catalogPath)
		fmt.Printf("%s %s\n", faint.Sprint("log_level   "), cfg.GetLogLevel())
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Change a setting",
	Long: `Change a setting and save it.

KEYS:

  backend        sqlite or kv
  data_dir       directory for stored data
  user_id        ledger user the CLI and MCP server act as
  catalog_path   YAML food catalog replacing the built-in one
  log_level      debug, info, warn or error

Changing backend does not move data; use 'nutrition migrate' for that.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.Set(args[0], args[1]); err != nil {
			return err
		}
		if err := cfg.Save(); err != nil {
			return fmt.Errorf("failed to save config: %w", err)
		}
		color.Green("✓ Set %s = %s", args[0], args[1])
		return nil
	},
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
	rootCmd.AddCommand(configCmd)
}
