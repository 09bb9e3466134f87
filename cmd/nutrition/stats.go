// ABOUTME: CLI commands for day and range summaries.
// ABOUTME: today shows sections and totals; stats averages over a date range.
package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/harperreed/nutrition/internal/models"
	"github.com/spf13/cobra"
)

var (
	statsDays int
	statsEnd  string
)

var todayCmd = &cobra.Command{
	Use:     "today",
	Aliases: []string{"t"},
	Short:   "Show today's meals, water and weight",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		date := led.Today()

		entries, err := led.ListMeals(ctx, userID, date)
		if err != nil {
			return err
		}
		daily, err := led.DailyOrZero(ctx, userID, date)
		if err != nil {
			return err
		}
		kg, hasWeight, err := led.LatestWeight(ctx, userID)
		if err != nil {
			return err
		}

		color.Cyan("%s", date)
		if len(entries) == 0 {
			fmt.Println("  No meals logged yet.")
		}

		var sections []string
		bySection := make(map[string][]*models.MealLogEntry)
		for _, e := range entries {
			if _, ok := bySection[e.Section]; !ok {
				sections = append(sections, e.Section)
			}
			bySection[e.Section] = append(bySection[e.Section], e)
		}
		for _, s := range sections {
			var n models.Nutrients
			for _, e := range bySection[s] {
				n = n.Add(e.Nutrients())
			}
			fmt.Printf("  %s %.0f kcal\n", padRight(s, 12), n.Calories)
			for _, e := range bySection[s] {
				fmt.Printf("    %s %s\n", color.New(color.Faint).Sprintf("#%-5d", e.ID), truncate(e.Name, 40))
			}
		}

		fmt.Println()
		printNutrients("  total ", daily.Nutrients())
		fmt.Printf("  water %.0f ml\n", daily.WaterML)
		if hasWeight {
			fmt.Printf("  weight %.1f kg\n", kg)
		}
		return nil
	},
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Summarize intake over recent days",
	Long: `Show per-day totals and averages over a range ending on --end.
Averages count only days with food or water logged.

Examples:
  nutrition stats
  nutrition stats --days 30
  nutrition stats --days 7 --end 2024-01-31`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if statsDays < 1 {
			return fmt.Errorf("--days must be at least 1")
		}
		end, err := parseDate(statsEnd)
		if err != nil {
			return err
		}
		start := end.AddDays(-(statsDays - 1))

		s, err := led.Summarize(context.Background(), userID, start, end)
		if err != nil {
			return err
		}

		fmt.Printf("%-12s %8s %6s %6s %6s %8s\n", "DATE", "KCAL", "P", "C", "F", "WATER")
		fmt.Println(strings.Repeat("-", 51))
		for _, d := range s.Days {
			fmt.Printf("%-12s %8.0f %6.0f %6.0f %6.0f %8.0f\n", d.Date, d.Calories, d.Protein, d.Carbs, d.Fat, d.WaterML)
		}
		fmt.Println(strings.Repeat("-", 51))
		fmt.Printf("%-12s %8.0f %6.0f %6.0f %6.0f %8.0f\n", "TOTAL", s.Totals.Calories, s.Totals.Protein, s.Totals.Carbs, s.Totals.Fat, s.WaterML)
		fmt.Printf("%-12s %8.0f %6.0f %6.0f %6.0f %8.0f\n", "AVERAGE", s.Average.Calories, s.Average.Protein, s.Average.Carbs, s.Average.Fat, s.AverageWaterML)
		fmt.Printf("\n%d of %d days logged\n", s.LoggedDays, len(s.Days))

		if s.FirstWeight != nil && s.LastWeight != nil {
			fmt.Printf("weight %.1f → %.1f kg (%+.1f)\n", s.FirstWeight.Weight, s.LastWeight.Weight, s.WeightDelta)
		}
		return nil
	},
}

func init() {
	statsCmd.Flags().IntVar(&statsDays, "days", 7, "number of days to summarize")
	statsCmd.Flags().StringVar(&statsEnd, "end", "", "last day of the range (YYYY-MM-DD, default today)")

	rootCmd.AddCommand(todayCmd)
	rootCmd.AddCommand(statsCmd)
}
