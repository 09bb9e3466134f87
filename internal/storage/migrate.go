// ABOUTME: Data migration between nutrition storage backends.
// ABOUTME: Copies meal entries, daily aggregates, combos, and weights from source to destination.

package storage

import (
	"context"
	"fmt"
	"os"
)

// MigrateSummary holds counts of migrated entities.
type MigrateSummary struct {
	MealEntries int
	DailyRows   int
	Combos      int
	Weights     int
}

// MigrateData copies all data from src to dst storage.
// Stored aggregates are copied as-is rather than recomputed, so the
// destination matches the source exactly. IDs are reassigned by dst.
// The destination should be empty before calling this function.
func MigrateData(ctx context.Context, src, dst Repository) (*MigrateSummary, error) {
	summary := &MigrateSummary{}

	data, err := src.GetAllData(ctx)
	if err != nil {
		return nil, fmt.Errorf("read source data: %w", err)
	}

	for _, e := range data.Meals {
		copied := *e
		if err := dst.CreateMealEntry(ctx, &copied); err != nil {
			return nil, fmt.Errorf("create meal entry %d: %w", e.ID, err)
		}
		summary.MealEntries++
	}

	for _, a := range data.Daily {
		if err := dst.UpsertDailyNutrients(ctx, a.UserID, a.Date, a.Nutrients()); err != nil {
			return nil, fmt.Errorf("copy daily %s: %w", a.Date, err)
		}
		if a.WaterML != 0 {
			if err := dst.AddWater(ctx, a.UserID, a.Date, a.WaterML); err != nil {
				return nil, fmt.Errorf("copy water %s: %w", a.Date, err)
			}
		}
		summary.DailyRows++
	}

	for _, c := range data.Combos {
		copied := *c
		if err := dst.CreateCombo(ctx, &copied); err != nil {
			return nil, fmt.Errorf("create combo %d: %w", c.ID, err)
		}
		summary.Combos++
	}

	for _, w := range data.Weights {
		copied := *w
		if err := dst.UpsertWeight(ctx, &copied); err != nil {
			return nil, fmt.Errorf("copy weight %s: %w", w.Date, err)
		}
		summary.Weights++
	}

	return summary, nil
}

// IsDirNonEmpty checks whether a directory exists and contains any files or subdirectories.
// Returns false if the directory does not exist or is empty.
func IsDirNonEmpty(path string) (bool, error) {
	entries, err := os.ReadDir(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("read directory %q: %w", path, err)
	}
	return len(entries) > 0, nil
}
