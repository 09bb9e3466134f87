// ABOUTME: Daily aggregate reads and water logging.
// ABOUTME: Water accumulates independently of the nutrient totals.
package ledger

import (
	"context"
	"errors"
	"fmt"

	"github.com/harperreed/nutrition/internal/models"
	"github.com/harperreed/nutrition/internal/storage"
	"github.com/harperreed/nutrition/internal/units"
)

// AddWater adds amount millilitres to today's total.
func (l *Ledger) AddWater(ctx context.Context, userID int64, amount float64) error {
	return l.AddWaterOn(ctx, userID, l.Today(), amount)
}

// AddWaterOn adds amount millilitres to date's total. Unusable amounts are ignored.
func (l *Ledger) AddWaterOn(ctx context.Context, userID int64, date models.Date, amount float64) error {
	if !units.Valid(amount) {
		return nil
	}
	if err := l.repo.AddWater(ctx, userID, date, amount); err != nil {
		return fmt.Errorf("add water: %w", err)
	}
	l.log.Debug("added water", "user", userID, "date", date, "ml", amount)
	return nil
}

// GetDaily returns the aggregate for date or storage.ErrNotFound.
func (l *Ledger) GetDaily(ctx context.Context, userID int64, date models.Date) (*models.DailyAggregate, error) {
	return l.repo.GetDaily(ctx, userID, date)
}

// DailyOrZero returns the aggregate for date, or a zero row if nothing was logged.
func (l *Ledger) DailyOrZero(ctx context.Context, userID int64, date models.Date) (*models.DailyAggregate, error) {
	a, err := l.repo.GetDaily(ctx, userID, date)
	if errors.Is(err, storage.ErrNotFound) {
		return &models.DailyAggregate{UserID: userID, Date: date}, nil
	}
	return a, err
}

// GetDailyRange returns existing aggregates in [start, end], ascending.
func (l *Ledger) GetDailyRange(ctx context.Context, userID int64, start, end models.Date) ([]*models.DailyAggregate, error) {
	if end.Before(start) {
		return nil, nil
	}
	rows, err := l.repo.ListDaily(ctx, userID, start, end)
	if err != nil {
		return nil, fmt.Errorf("get daily range: %w", err)
	}
	return rows, nil
}
