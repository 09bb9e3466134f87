// ABOUTME: Weight sample operations for SQLite storage.
// ABOUTME: One sample per (user_id, date); writes replace the day's value.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/harperreed/nutrition/internal/models"
)

const weightColumns = `id, user_id, date, weight, updated_at`

// UpsertWeight replaces the sample for w's date or inserts one, and sets w.ID.
func (d *DB) UpsertWeight(ctx context.Context, w *models.WeightSample) error {
	if w.UpdatedAt.IsZero() {
		w.UpdatedAt = time.Now()
	}
	query := `
		INSERT INTO weights (user_id, date, weight, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (user_id, date) DO UPDATE SET
			weight = excluded.weight,
			updated_at = excluded.updated_at
		RETURNING id
	`
	err := d.db.QueryRowContext(ctx, query,
		w.UserID, string(w.Date), w.Weight, w.UpdatedAt.Format(time.RFC3339)).Scan(&w.ID)
	if err != nil {
		return fmt.Errorf("upsert weight: %w", err)
	}
	return nil
}

// ListWeights returns samples with start <= date <= end, ascending by date.
func (d *DB) ListWeights(ctx context.Context, userID int64, start, end models.Date) ([]*models.WeightSample, error) {
	query := `SELECT ` + weightColumns + ` FROM weights WHERE user_id = ? AND date >= ? AND date <= ? ORDER BY date ASC`
	return d.queryWeights(ctx, query, userID, string(start), string(end))
}

// ListRecentWeights returns up to limit samples, most recent first.
// A limit of zero or less returns all samples.
func (d *DB) ListRecentWeights(ctx context.Context, userID int64, limit int) ([]*models.WeightSample, error) {
	query := `SELECT ` + weightColumns + ` FROM weights WHERE user_id = ? ORDER BY date DESC`
	args := []interface{}{userID}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}
	return d.queryWeights(ctx, query, args...)
}

// GetLatestWeight returns the most recent sample.
func (d *DB) GetLatestWeight(ctx context.Context, userID int64) (*models.WeightSample, error) {
	row := d.db.QueryRowContext(ctx,
		`SELECT `+weightColumns+` FROM weights WHERE user_id = ? ORDER BY date DESC LIMIT 1`, userID)
	w, err := scanWeight(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("latest weight: %w", ErrNotFound)
		}
		return nil, err
	}
	return w, nil
}

func (d *DB) queryWeights(ctx context.Context, query string, args ...interface{}) ([]*models.WeightSample, error) {
	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list weights: %w", err)
	}
	defer rows.Close()

	var samples []*models.WeightSample
	for rows.Next() {
		w, err := scanWeight(rows)
		if err != nil {
			return nil, err
		}
		samples = append(samples, w)
	}
	return samples, rows.Err()
}

func scanWeight(row rowScanner) (*models.WeightSample, error) {
	var w models.WeightSample
	var date, updatedAt string

	if err := row.Scan(&w.ID, &w.UserID, &date, &w.Weight, &updatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan weight: %w", err)
	}
	w.Date = models.Date(date)
	w.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt)
	return &w, nil
}
