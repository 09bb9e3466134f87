// ABOUTME: Weight ledger: at most one sample per user per day.
// ABOUTME: Every write is an upsert keyed by (user, date).
package ledger

import (
	"context"
	"errors"
	"fmt"

	"github.com/harperreed/nutrition/internal/models"
	"github.com/harperreed/nutrition/internal/storage"
	"github.com/harperreed/nutrition/internal/units"
)

// AddWeight records weight kg for today, replacing any sample already logged today.
func (l *Ledger) AddWeight(ctx context.Context, userID int64, weight float64) (*models.WeightSample, error) {
	return l.UpsertWeight(ctx, userID, l.Today(), weight)
}

// UpsertWeight records weight kg for date.
func (l *Ledger) UpsertWeight(ctx context.Context, userID int64, date models.Date, weight float64) (*models.WeightSample, error) {
	if !units.Valid(weight) {
		return nil, fmt.Errorf("record weight: %w: weight must be positive", ErrInvalidInput)
	}
	w := &models.WeightSample{UserID: userID, Date: date, Weight: weight}
	if err := l.repo.UpsertWeight(ctx, w); err != nil {
		return nil, fmt.Errorf("record weight: %w", err)
	}
	l.log.Debug("recorded weight", "user", userID, "date", date, "kg", weight)
	return w, nil
}

// GetWeightRange returns samples in [start, end], ascending by date.
func (l *Ledger) GetWeightRange(ctx context.Context, userID int64, start, end models.Date) ([]*models.WeightSample, error) {
	if end.Before(start) {
		return nil, nil
	}
	samples, err := l.repo.ListWeights(ctx, userID, start, end)
	if err != nil {
		return nil, fmt.Errorf("get weight range: %w", err)
	}
	return samples, nil
}

// GetWeightHistory returns the most recent limit samples, oldest first.
// A limit <= 0 returns every sample.
func (l *Ledger) GetWeightHistory(ctx context.Context, userID int64, limit int) ([]*models.WeightSample, error) {
	recent, err := l.repo.ListRecentWeights(ctx, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("get weight history: %w", err)
	}
	for i, j := 0, len(recent)-1; i < j; i, j = i+1, j-1 {
		recent[i], recent[j] = recent[j], recent[i]
	}
	return recent, nil
}

// LatestWeight returns the most recent weight. ok is false when none is logged.
func (l *Ledger) LatestWeight(ctx context.Context, userID int64) (weight float64, ok bool, err error) {
	w, err := l.repo.GetLatestWeight(ctx, userID)
	if errors.Is(err, storage.ErrNotFound) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("latest weight: %w", err)
	}
	return w.Weight, true, nil
}
