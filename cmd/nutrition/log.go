// ABOUTME: CLI commands for logging, listing and deleting meal entries.
// ABOUTME: Food picks are given as <food-id>:<quantity> arguments and staged in a cart.
package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/harperreed/nutrition/internal/cart"
	"github.com/harperreed/nutrition/internal/catalog"
	"github.com/harperreed/nutrition/internal/models"
	"github.com/harperreed/nutrition/internal/units"
	"github.com/spf13/cobra"
)

var (
	logDate   string
	logDryRun bool
	mealsDate string
)

var logCmd = &cobra.Command{
	Use:     "log <section> <food-id>:<qty>...",
	Aliases: []string{"l"},
	Short:   "Log foods into a meal section",
	Long: `Log one or more foods into a meal section. Quantities are grams or
millilitres for measured foods, and a count for unit/spoon foods.
Omitting :<qty> logs one portion.

Examples:
  nutrition log lunch white-rice:150 bread-slice:2
  nutrition log breakfast oats:40 milk:200 --date 2024-01-15
  nutrition log dinner salmon:180 --dry-run`,
	Args: cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		section := args[0]
		date, err := parseDate(logDate)
		if err != nil {
			return err
		}

		c, err := buildCart(cat, args[1:])
		if err != nil {
			return err
		}

		if logDryRun {
			fmt.Printf("Would log to %s on %s:\n", section, date)
			for _, p := range c.Picks() {
				n := cart.Preview(p.Food, p.Quantity)
				fmt.Printf("  %s %s  %.0f kcal\n", padRight(p.Food.Name, 28), quantityLabel(p.Food.Unit, p.Quantity), n.Calories)
			}
			fmt.Print("  total ")
			printNutrients("", c.Totals())
			return nil
		}

		ctx := context.Background()
		entries, err := led.CommitCart(ctx, userID, date, section, c)
		if err != nil {
			return fmt.Errorf("failed to log meal: %w", err)
		}

		color.Green("✓ Logged %d item(s) to %s", len(entries), section)
		for _, e := range entries {
			fmt.Printf("  %s %s %.0f kcal\n",
				color.New(color.Faint).Sprintf("#%d", e.ID),
				padRight(e.Name, 28),
				e.Calories)
		}

		daily, err := led.DailyOrZero(ctx, userID, date)
		if err != nil {
			return err
		}
		fmt.Printf("  %s ", color.New(color.Faint).Sprint(date))
		printNutrients("", daily.Nutrients())
		return nil
	},
}

var mealsCmd = &cobra.Command{
	Use:     "meals",
	Aliases: []string{"m"},
	Short:   "List meal entries for a day",
	RunE: func(cmd *cobra.Command, args []string) error {
		date, err := parseDate(mealsDate)
		if err != nil {
			return err
		}

		entries, err := led.ListMeals(context.Background(), userID, date)
		if err != nil {
			return err
		}

		if len(entries) == 0 {
			fmt.Printf("No meals logged on %s.\n", date)
			return nil
		}

		printEntries(entries)
		return nil
	},
}

var deleteCmd = &cobra.Command{
	Use:     "delete <entry-id>",
	Aliases: []string{"rm", "d"},
	Short:   "Delete a meal entry by ID",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid entry ID: %s", args[0])
		}

		entry, ok, err := led.DeleteMealByID(context.Background(), userID, id)
		if err != nil {
			return fmt.Errorf("failed to delete meal entry: %w", err)
		}
		if !ok {
			return fmt.Errorf("no meal entry found with ID: %d", id)
		}

		color.Yellow("✗ Deleted %s (%s, %s)", entry.Name, entry.Section, entry.Date)
		return nil
	},
}

// buildCart stages <food-id>[:<qty>] arguments in a new cart.
func buildCart(c *catalog.Catalog, args []string) (*cart.Cart, error) {
	staged := cart.New()
	for _, arg := range args {
		id, qty := arg, "1"
		if i := strings.LastIndex(arg, ":"); i >= 0 {
			id, qty = arg[:i], arg[i+1:]
		}

		food, ok := c.Lookup(id)
		if !ok {
			return nil, fmt.Errorf("unknown food: %s", id)
		}
		if _, ok := staged.Add(food, units.ParseQuantity(qty)); !ok {
			return nil, fmt.Errorf("invalid quantity for %s: %q", id, qty)
		}
	}
	return staged, nil
}

func quantityLabel(unit models.UnitKind, q float64) string {
	return fmt.Sprintf("%g %s", q, unit)
}

func printEntries(entries []*models.MealLogEntry) {
	fmt.Printf("%-6s %-10s %-28s %10s %8s %6s %6s %6s\n", "ID", "SECTION", "FOOD", "QTY", "KCAL", "P", "C", "F")
	fmt.Println(strings.Repeat("-", 90))

	var total models.Nutrients
	for _, e := range entries {
		fmt.Printf("%-6d %-10s %-28s %10s %8.0f %6.0f %6.0f %6.0f\n",
			e.ID,
			truncate(e.Section, 10),
			truncate(e.Name, 28),
			quantityLabel(e.Unit, e.Quantity),
			e.Calories, e.Protein, e.Carbs, e.Fat)
		total = total.Add(e.Nutrients())
	}

	fmt.Println(strings.Repeat("-", 90))
	fmt.Printf("%-57s %8.0f %6.0f %6.0f %6.0f\n", "TOTAL", total.Calories, total.Protein, total.Carbs, total.Fat)
}

func init() {
	logCmd.Flags().StringVar(&logDate, "date", "", "day to log into (YYYY-MM-DD, default today)")
	logCmd.Flags().BoolVar(&logDryRun, "dry-run", false, "preview nutrients without logging")
	mealsCmd.Flags().StringVar(&mealsDate, "date", "", "day to list (YYYY-MM-DD, default today)")

	rootCmd.AddCommand(logCmd)
	rootCmd.AddCommand(mealsCmd)
	rootCmd.AddCommand(deleteCmd)
}
