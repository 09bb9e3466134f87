// ABOUTME: CLI commands for the weight ledger.
// ABOUTME: One sample per day; logging again on the same day replaces it.
package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	weightDate  string
	weightLimit int
)

var weightCmd = &cobra.Command{
	Use:   "weight",
	Short: "Track body weight",
}

var weightAddCmd = &cobra.Command{
	Use:   "add <kg>",
	Short: "Record a weight sample",
	Long: `Record body weight in kilograms. A second sample on the same day replaces the first.

Examples:
  nutrition weight add 81.4
  nutrition weight add 81.9 --date 2024-01-14`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		kg, err := strconv.ParseFloat(args[0], 64)
		if err != nil {
			return fmt.Errorf("invalid weight: %s", args[0])
		}

		date, err := parseDate(weightDate)
		if err != nil {
			return err
		}

		w, err := led.UpsertWeight(context.Background(), userID, date, kg)
		if err != nil {
			return fmt.Errorf("failed to record weight: %w", err)
		}

		color.Green("✓ Recorded weight")
		fmt.Printf("  %s %.1f kg\n", color.New(color.Faint).Sprint(w.Date), w.Weight)
		return nil
	},
}

var weightListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List recent weight samples",
	RunE: func(cmd *cobra.Command, args []string) error {
		samples, err := led.GetWeightHistory(context.Background(), userID, weightLimit)
		if err != nil {
			return err
		}

		if len(samples) == 0 {
			fmt.Println("No weight samples found.")
			return nil
		}

		fmt.Printf("%-12s %8s %8s\n", "DATE", "KG", "CHANGE")
		fmt.Println(strings.Repeat("-", 30))
		for i, s := range samples {
			change := ""
			if i > 0 {
				change = fmt.Sprintf("%+.1f", s.Weight-samples[i-1].Weight)
			}
			fmt.Printf("%-12s %8.1f %8s\n", s.Date, s.Weight, change)
		}
		return nil
	},
}

var weightLatestCmd = &cobra.Command{
	Use:   "latest",
	Short: "Show the most recent weight",
	RunE: func(cmd *cobra.Command, args []string) error {
		kg, ok, err := led.LatestWeight(context.Background(), userID)
		if err != nil {
			return err
		}
		if !ok {
			fmt.Println("No weight samples found.")
			return nil
		}
		fmt.Printf("%.1f kg\n", kg)
		return nil
	},
}

func init() {
	weightAddCmd.Flags().StringVar(&weightDate, "date", "", "day of the sample (YYYY-MM-DD, default today)")
	weightListCmd.Flags().IntVarP(&weightLimit, "limit", "n", 14, "number of samples to show")

	weightCmd.AddCommand(weightAddCmd)
	weightCmd.AddCommand(weightListCmd)
	weightCmd.AddCommand(weightLatestCmd)
	rootCmd.AddCommand(weightCmd)
}
