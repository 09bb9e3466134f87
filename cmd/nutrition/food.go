// ABOUTME: CLI commands for browsing the food catalog.
// ABOUTME: Supports search by name and showing one food's nutrients.
package main

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/harperreed/nutrition/internal/models"
	"github.com/spf13/cobra"
)

var foodCmd = &cobra.Command{
	Use:     "food",
	Aliases: []string{"f"},
	Short:   "Browse the food catalog",
}

var foodSearchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search foods by name",
	Long: `Search the catalog by case-insensitive substring. With no query, lists every food.

Examples:
  nutrition food search rice
  nutrition food search`,
	RunE: func(cmd *cobra.Command, args []string) error {
		var foods []models.FoodItem
		if len(args) == 0 {
			foods = cat.All()
		} else {
			foods = cat.Search(strings.Join(args, " "))
		}

		if len(foods) == 0 {
			fmt.Println("No foods found.")
			return nil
		}

		fmt.Printf("%-16s %-28s %8s %10s\n", "ID", "NAME", "KCAL", "PER")
		fmt.Println(strings.Repeat("-", 65))
		for _, f := range foods {
			fmt.Printf("%-16s %-28s %8.0f %10s\n",
				truncate(f.ID, 16),
				truncate(f.Name, 28),
				f.Calories,
				portionLabel(f))
		}
		return nil
	},
}

var foodShowCmd = &cobra.Command{
	Use:   "show <food-id>",
	Short: "Show one food's nutrients",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		f, ok := cat.Lookup(args[0])
		if !ok {
			return fmt.Errorf("unknown food: %s", args[0])
		}

		color.Cyan("%s", f.Name)
		fmt.Printf("  %s %s\n", color.New(color.Faint).Sprint("id"), f.ID)
		fmt.Printf("  per %s\n", portionLabel(f))
		printNutrients("  ", f.Nutrients())
		return nil
	},
}

// portionLabel describes the amount a food's nutrient values refer to.
func portionLabel(f models.FoodItem) string {
	if f.Unit.IsMeasured() {
		return fmt.Sprintf("%.0f %s", f.Portion, f.Unit)
	}
	return fmt.Sprintf("1 %s", f.Unit)
}

func printNutrients(indent string, n models.Nutrients) {
	fmt.Printf("%s%.0f kcal  P %.0fg  C %.0fg  F %.0fg\n", indent, n.Calories, n.Protein, n.Carbs, n.Fat)
}

func init() {
	foodCmd.AddCommand(foodSearchCmd)
	foodCmd.AddCommand(foodShowCmd)
	rootCmd.AddCommand(foodCmd)
}
