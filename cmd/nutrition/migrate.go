// ABOUTME: CLI command for moving data between storage backends.
// ABOUTME: Copies everything from the configured backend into the other one.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/harperreed/nutrition/internal/config"
	"github.com/harperreed/nutrition/internal/storage"
	"github.com/spf13/cobra"
)

var (
	migrateTo     string
	migrateDryRun bool
	migrateSwitch bool
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Migrate data to another storage backend",
	Long: `Copy all nutrition data from the configured backend to another one.

BACKENDS:

  sqlite   Single SQLite file at <data_dir>/nutrition.db (default)
  kv       Badger key/value store at <data_dir>/kv

IMPORTANT:

  - The destination must not already contain data
  - Stored daily totals are copied as-is
  - Entry, combo and weight IDs are reassigned by the destination
  - Run with --dry-run first to see what would be migrated

USAGE:

  nutrition migrate --to kv --dry-run   # Preview what would be migrated
  nutrition migrate --to kv             # Perform the migration
  nutrition migrate --to kv --switch    # Migrate and make kv the backend`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if migrateTo != config.BackendSQLite && migrateTo != config.BackendKV {
			return fmt.Errorf("invalid --to backend %q (use %s or %s)", migrateTo, config.BackendSQLite, config.BackendKV)
		}
		if migrateTo == cfg.GetBackend() {
			return fmt.Errorf("already using the %s backend", migrateTo)
		}

		dstCfg := *cfg
		dstCfg.Backend = migrateTo
		ctx := context.Background()

		if migrateDryRun {
			color.Yellow("Dry run mode - no changes will be made")
			fmt.Println()

			data, err := repo.GetAllData(ctx)
			if err != nil {
				return fmt.Errorf("read source data: %w", err)
			}
			fmt.Printf("Would migrate %s → %s (%s):\n", cfg.GetBackend(), migrateTo, dstCfg.StoragePath())
			fmt.Printf("  %d meal entries\n", len(data.Meals))
			fmt.Printf("  %d daily rows\n", len(data.Daily))
			fmt.Printf("  %d combos\n", len(data.Combos))
			fmt.Printf("  %d weights\n", len(data.Weights))
			return nil
		}

		if err := checkDestination(&dstCfg); err != nil {
			return err
		}

		dst, err := dstCfg.OpenStorage(log)
		if err != nil {
			return fmt.Errorf("failed to open destination: %w", err)
		}
		defer func() { _ = dst.Close() }()

		if existing, err := dst.GetAllData(ctx); err != nil {
			return fmt.Errorf("read destination data: %w", err)
		} else if len(existing.Meals)+len(existing.Daily)+len(existing.Combos)+len(existing.Weights) > 0 {
			return fmt.Errorf("destination %s already contains data", dstCfg.StoragePath())
		}

		sum, err := storage.MigrateData(ctx, repo, dst)
		if err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}

		color.Green("✓ Migrated %s → %s", cfg.GetBackend(), migrateTo)
		fmt.Printf("  %d meal entries, %d daily rows, %d combos, %d weights\n",
			sum.MealEntries, sum.DailyRows, sum.Combos, sum.Weights)

		if migrateSwitch {
			cfg.Backend = migrateTo
			if err := cfg.Save(); err != nil {
				return fmt.Errorf("failed to save config: %w", err)
			}
			fmt.Printf("  backend set to %s in %s\n", migrateTo, config.GetConfigPath())
		}
		return nil
	},
}

// checkDestination refuses kv directories that already hold files. SQLite
// files may exist empty, so their contents are checked after opening.
func checkDestination(c *config.Config) error {
	path := c.StoragePath()
	if c.GetBackend() != config.BackendKV {
		if info, err := os.Stat(path); err == nil && info.IsDir() {
			return fmt.Errorf("destination %s is a directory", path)
		}
		return nil
	}

	nonEmpty, err := storage.IsDirNonEmpty(path)
	if err != nil {
		return err
	}
	if nonEmpty {
		return fmt.Errorf("destination %s is not empty", path)
	}
	return nil
}

func init() {
	migrateCmd.Flags().StringVar(&migrateTo, "to", "", "destination backend (sqlite or kv)")
	migrateCmd.Flags().BoolVar(&migrateDryRun, "dry-run", false, "preview migration without making changes")
	migrateCmd.Flags().BoolVar(&migrateSwitch, "switch", false, "set the destination as the configured backend afterwards")
	rootCmd.AddCommand(migrateCmd)
}
