// ABOUTME: CLI command for logging water intake.
// ABOUTME: Adds millilitres to a day's running total.
package main

import (
	"context"
	"fmt"

	"github.com/fatih/color"
	"github.com/harperreed/nutrition/internal/units"
	"github.com/spf13/cobra"
)

var waterDate string

var waterCmd = &cobra.Command{
	Use:     "water <ml>",
	Aliases: []string{"w"},
	Short:   "Log water intake in millilitres",
	Long: `Add water to a day's total.

Examples:
  nutrition water 250
  nutrition water 500 --date 2024-01-15`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		amount := units.ParseQuantity(args[0])
		if amount == 0 {
			return fmt.Errorf("invalid amount: %s", args[0])
		}

		date, err := parseDate(waterDate)
		if err != nil {
			return err
		}

		ctx := context.Background()
		if err := led.AddWaterOn(ctx, userID, date, amount); err != nil {
			return fmt.Errorf("failed to add water: %w", err)
		}

		daily, err := led.DailyOrZero(ctx, userID, date)
		if err != nil {
			return err
		}

		color.Green("✓ Added %g ml water", amount)
		fmt.Printf("  %s %.0f ml total\n", color.New(color.Faint).Sprint(date), daily.WaterML)
		return nil
	},
}

func init() {
	waterCmd.Flags().StringVar(&waterDate, "date", "", "day to log into (YYYY-MM-DD, default today)")
	rootCmd.AddCommand(waterCmd)
}
