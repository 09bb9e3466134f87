// ABOUTME: CLI commands for exporting and importing nutrition data.
// ABOUTME: Supports JSON, YAML, and Markdown export formats.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/harperreed/nutrition/internal/models"
	"github.com/harperreed/nutrition/internal/storage"
	"github.com/spf13/cobra"
)

var (
	exportOutput string
	exportSince  string
)

var exportCmd = &cobra.Command{
	Use:   "export <format>",
	Short: "Export nutrition data",
	Long: `Export nutrition data in various formats.

FORMATS:

  json       Full JSON export (suitable for backup/restore)
  yaml       YAML export grouped by day (human-readable)
  markdown   Markdown tables for the configured user

OPTIONS:

  --output, -o   Write to file instead of stdout
  --since        Only include days from this date (markdown only, YYYY-MM-DD)

EXAMPLES:

  nutrition export json                        # Export all data as JSON
  nutrition export json -o backup.json         # Save to file
  nutrition export yaml                        # Export as YAML
  nutrition export markdown --since 2024-01-01 # Export 2024 onward`,
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{"json", "yaml", "markdown"},
	RunE: func(cmd *cobra.Command, args []string) error {
		format := args[0]
		ctx := context.Background()

		var data []byte
		var err error

		switch format {
		case "json":
			data, err = storage.ExportJSON(ctx, repo)
		case "yaml":
			data, err = storage.ExportYAML(ctx, repo)
		case "markdown":
			var since models.Date
			if exportSince != "" {
				since, err = models.ParseDate(exportSince)
				if err != nil {
					return fmt.Errorf("invalid date format: %s (use YYYY-MM-DD)", exportSince)
				}
			}
			md, err := storage.ExportMarkdown(ctx, repo, userID, since)
			if err != nil {
				return fmt.Errorf("export failed: %w", err)
			}
			data = []byte(md)
		default:
			return fmt.Errorf("unknown format: %s (use json, yaml, or markdown)", format)
		}

		if err != nil {
			return fmt.Errorf("export failed: %w", err)
		}

		if exportOutput != "" {
			if err := os.WriteFile(exportOutput, data, 0600); err != nil {
				return fmt.Errorf("failed to write file: %w", err)
			}
			color.Green("✓ Exported to %s", exportOutput)
		} else {
			fmt.Println(string(data))
		}

		return nil
	},
}

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Import nutrition data from JSON",
	Long: `Import nutrition data from a JSON backup file.

Meal entries, water, combos and weights are added to the current store.
Entries get new IDs and daily totals are recomputed from the imported meals.

EXAMPLES:

  nutrition import backup.json`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		filename := args[0]

		data, err := os.ReadFile(filename)
		if err != nil {
			return fmt.Errorf("failed to read file: %w", err)
		}

		sum, err := led.ImportJSON(context.Background(), data)
		if err != nil {
			return fmt.Errorf("import failed: %w", err)
		}

		color.Green("✓ Imported from %s", filename)
		fmt.Printf("  %d meal entries, %d water days, %d combos, %d weights\n",
			sum.MealEntries, sum.WaterDays, sum.Combos, sum.Weights)
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "output file (default: stdout)")
	exportCmd.Flags().StringVar(&exportSince, "since", "", "only include data since date (YYYY-MM-DD)")

	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(importCmd)
}
