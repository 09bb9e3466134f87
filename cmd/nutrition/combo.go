// ABOUTME: CLI commands for combo templates.
// ABOUTME: Save a set of foods once, then log them together by combo ID.
package main

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/harperreed/nutrition/internal/storage"
	"github.com/spf13/cobra"
)

var comboDate string

var comboCmd = &cobra.Command{
	Use:     "combo",
	Aliases: []string{"c"},
	Short:   "Manage saved food combos",
}

var comboSaveCmd = &cobra.Command{
	Use:   "save <name> <food-id>:<qty>...",
	Short: "Save foods as a combo",
	Long: `Save a named combo. Nutrients are snapshotted now; later catalog
changes do not alter a saved combo.

Examples:
  nutrition combo save breakfast oats:40 milk:200 banana:1`,
	Args: cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := buildCart(cat, args[1:])
		if err != nil {
			return err
		}

		combo, err := led.SaveCombo(context.Background(), userID, args[0], c.Picks())
		if err != nil {
			return fmt.Errorf("failed to save combo: %w", err)
		}

		color.Green("✓ Saved combo %s", combo.Name)
		fmt.Printf("  %s %d item(s), %d kcal\n",
			color.New(color.Faint).Sprintf("#%d", combo.ID),
			len(combo.Items), combo.TotalCalories)
		return nil
	},
}

var comboListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List saved combos",
	RunE: func(cmd *cobra.Command, args []string) error {
		combos, err := led.ListCombos(context.Background(), userID)
		if err != nil {
			return err
		}

		if len(combos) == 0 {
			fmt.Println("No combos saved.")
			return nil
		}

		fmt.Printf("%-6s %-30s %6s %8s\n", "ID", "NAME", "ITEMS", "KCAL")
		fmt.Println(strings.Repeat("-", 53))
		for _, c := range combos {
			fmt.Printf("%-6d %-30s %6d %8d\n", c.ID, truncate(c.Name, 30), len(c.Items), c.TotalCalories)
		}
		return nil
	},
}

var comboShowCmd = &cobra.Command{
	Use:   "show <combo-id>",
	Short: "Show a combo's items",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseComboID(args[0])
		if err != nil {
			return err
		}

		c, err := led.GetCombo(context.Background(), id)
		if errors.Is(err, storage.ErrNotFound) {
			return fmt.Errorf("no combo found with ID: %d", id)
		}
		if err != nil {
			return err
		}

		color.Cyan("%s", c.Name)
		fmt.Printf("  %s %d kcal\n", color.New(color.Faint).Sprintf("#%d", c.ID), c.TotalCalories)
		for _, li := range c.Items {
			fmt.Printf("  - %s %s\n", padRight(li.Name, 28), quantityLabel(li.Unit, li.Quantity))
		}
		return nil
	},
}

var comboLogCmd = &cobra.Command{
	Use:   "log <combo-id> <section> [<food-id>:<qty>...]",
	Short: "Log a combo into a meal section",
	Long: `Log every item of a combo, plus any extra foods, into a meal section.

Examples:
  nutrition combo log 1 breakfast
  nutrition combo log 1 breakfast honey:1 --date 2024-01-15`,
	Args: cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseComboID(args[0])
		if err != nil {
			return err
		}
		section := args[1]

		date, err := parseDate(comboDate)
		if err != nil {
			return err
		}

		extra, err := buildCart(cat, args[2:])
		if err != nil {
			return err
		}

		entries, err := led.LogCombo(context.Background(), userID, id, date, section, extra.Picks())
		if errors.Is(err, storage.ErrNotFound) {
			return fmt.Errorf("no combo found with ID: %d", id)
		}
		if err != nil {
			return fmt.Errorf("failed to log combo: %w", err)
		}

		color.Green("✓ Logged %d item(s) to %s", len(entries), section)
		for _, e := range entries {
			fmt.Printf("  %s %s %.0f kcal\n",
				color.New(color.Faint).Sprintf("#%d", e.ID),
				padRight(e.Name, 28),
				e.Calories)
		}
		return nil
	},
}

var comboDeleteCmd = &cobra.Command{
	Use:     "delete <combo-id>",
	Aliases: []string{"rm"},
	Short:   "Delete a combo",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseComboID(args[0])
		if err != nil {
			return err
		}

		if err := led.DeleteCombo(context.Background(), id); err != nil {
			return fmt.Errorf("failed to delete combo: %w", err)
		}

		color.Yellow("✗ Deleted combo %d", id)
		return nil
	},
}

func parseComboID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid combo ID: %s", s)
	}
	return id, nil
}

func init() {
	comboLogCmd.Flags().StringVar(&comboDate, "date", "", "day to log into (YYYY-MM-DD, default today)")

	comboCmd.AddCommand(comboSaveCmd)
	comboCmd.AddCommand(comboListCmd)
	comboCmd.AddCommand(comboShowCmd)
	comboCmd.AddCommand(comboLogCmd)
	comboCmd.AddCommand(comboDeleteCmd)
	rootCmd.AddCommand(comboCmd)
}
