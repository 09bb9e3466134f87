// ABOUTME: Import of exported data back into a ledger.
// ABOUTME: Water is carried over as logged; nutrient totals are recomputed from entries.
package ledger

import (
	"context"
	"fmt"

	"github.com/harperreed/nutrition/internal/models"
	"github.com/harperreed/nutrition/internal/storage"
)

// ImportSummary holds counts of imported entities.
type ImportSummary struct {
	MealEntries int
	WaterDays   int
	Combos      int
	Weights     int
	Recomputed  int
}

type dayKey struct {
	user int64
	date models.Date
}

// Import writes data into the ledger. Stored ids are not preserved.
// Every day touched by an entry or a daily row is recomputed afterwards.
func (l *Ledger) Import(ctx context.Context, data *storage.ExportData) (*ImportSummary, error) {
	summary := &ImportSummary{}
	touched := make(map[dayKey]bool)
	var order []dayKey
	touch := func(k dayKey) {
		if !touched[k] {
			touched[k] = true
			order = append(order, k)
		}
	}

	for _, e := range data.Meals {
		copied := *e
		copied.ID = 0
		if err := l.repo.CreateMealEntry(ctx, &copied); err != nil {
			return summary, fmt.Errorf("import meal entry: %w", err)
		}
		summary.MealEntries++
		touch(dayKey{e.UserID, e.Date})
	}

	for _, a := range data.Daily {
		if a.WaterML > 0 {
			if err := l.repo.AddWater(ctx, a.UserID, a.Date, a.WaterML); err != nil {
				return summary, fmt.Errorf("import water: %w", err)
			}
			summary.WaterDays++
		}
		touch(dayKey{a.UserID, a.Date})
	}

	for _, c := range data.Combos {
		copied := *c
		copied.ID = 0
		if err := l.repo.CreateCombo(ctx, &copied); err != nil {
			return summary, fmt.Errorf("import combo: %w", err)
		}
		summary.Combos++
	}

	for _, w := range data.Weights {
		if _, err := l.UpsertWeight(ctx, w.UserID, w.Date, w.Weight); err != nil {
			return summary, fmt.Errorf("import weight: %w", err)
		}
		summary.Weights++
	}

	for _, k := range order {
		if err := l.Recompute(ctx, k.user, k.date); err != nil {
			return summary, err
		}
		summary.Recomputed++
	}

	l.log.Info("imported data", "meals", summary.MealEntries, "combos", summary.Combos, "weights", summary.Weights)
	return summary, nil
}

// ImportJSON parses a JSON export and imports it.
func (l *Ledger) ImportJSON(ctx context.Context, raw []byte) (*ImportSummary, error) {
	data, err := storage.ParseJSON(raw)
	if err != nil {
		return nil, err
	}
	return l.Import(ctx, data)
}
