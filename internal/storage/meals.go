// ABOUTME: Meal entry and daily aggregate operations for SQLite storage.
// ABOUTME: Aggregate upserts key on (user_id, date) and keep water separate.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/harperreed/nutrition/internal/models"
)

const mealColumns = `id, user_id, date, section, name, food_id, calories, protein, carbs, fat, quantity, unit, created_at`

// CreateMealEntry inserts a new entry and sets its store-assigned ID.
func (d *DB) CreateMealEntry(ctx context.Context, e *models.MealLogEntry) error {
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now()
	}
	query := `
		INSERT INTO meal_entries (user_id, date, section, name, food_id, calories, protein, carbs, fat, quantity, unit, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	res, err := d.db.ExecContext(ctx, query,
		e.UserID,
		string(e.Date),
		e.Section,
		e.Name,
		nullString(e.FoodID),
		e.Calories,
		e.Protein,
		e.Carbs,
		e.Fat,
		e.Quantity,
		string(e.Unit),
		e.CreatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("create meal entry: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("create meal entry: %w", err)
	}
	e.ID = id
	return nil
}

// GetMealEntry retrieves an entry by ID.
func (d *DB) GetMealEntry(ctx context.Context, id int64) (*models.MealLogEntry, error) {
	row := d.db.QueryRowContext(ctx, `SELECT `+mealColumns+` FROM meal_entries WHERE id = ?`, id)
	e, err := scanMealEntry(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("meal entry %d: %w", id, ErrNotFound)
		}
		return nil, err
	}
	return e, nil
}

// ListMealEntries returns the user's entries for one day in insertion order.
func (d *DB) ListMealEntries(ctx context.Context, userID int64, date models.Date) ([]*models.MealLogEntry, error) {
	query := `SELECT ` + mealColumns + ` FROM meal_entries WHERE user_id = ? AND date = ? ORDER BY id ASC`
	return d.queryMealEntries(ctx, query, userID, string(date))
}

// DeleteMealEntry removes an entry. Deleting a missing entry is not an error.
func (d *DB) DeleteMealEntry(ctx context.Context, userID int64, date models.Date, id int64) error {
	_, err := d.db.ExecContext(ctx,
		"DELETE FROM meal_entries WHERE id = ? AND user_id = ? AND date = ?",
		id, userID, string(date))
	if err != nil {
		return fmt.Errorf("delete meal entry: %w", err)
	}
	return nil
}

// UpsertDailyNutrients writes the nutrient totals for a day, creating the row
// if needed and leaving any logged water untouched.
func (d *DB) UpsertDailyNutrients(ctx context.Context, userID int64, date models.Date, n models.Nutrients) error {
	query := `
		INSERT INTO daily_aggregates (user_id, date, calories, protein, carbs, fat, water_ml, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, 0, ?)
		ON CONFLICT (user_id, date) DO UPDATE SET
			calories = excluded.calories,
			protein = excluded.protein,
			carbs = excluded.carbs,
			fat = excluded.fat,
			updated_at = excluded.updated_at
	`
	_, err := d.db.ExecContext(ctx, query,
		userID, string(date), n.Calories, n.Protein, n.Carbs, n.Fat,
		time.Now().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("upsert daily aggregate: %w", err)
	}
	return nil
}

// AddWater increments the day's water total, creating the row if needed.
func (d *DB) AddWater(ctx context.Context, userID int64, date models.Date, amount float64) error {
	query := `
		INSERT INTO daily_aggregates (user_id, date, calories, protein, carbs, fat, water_ml, updated_at)
		VALUES (?, ?, 0, 0, 0, 0, ?, ?)
		ON CONFLICT (user_id, date) DO UPDATE SET
			water_ml = water_ml + excluded.water_ml,
			updated_at = excluded.updated_at
	`
	_, err := d.db.ExecContext(ctx, query, userID, string(date), amount, time.Now().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("add water: %w", err)
	}
	return nil
}

// GetDaily returns the aggregate for one day.
func (d *DB) GetDaily(ctx context.Context, userID int64, date models.Date) (*models.DailyAggregate, error) {
	query := `
		SELECT user_id, date, calories, protein, carbs, fat, water_ml, updated_at
		FROM daily_aggregates
		WHERE user_id = ? AND date = ?
	`
	a, err := scanDaily(d.db.QueryRowContext(ctx, query, userID, string(date)))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("daily aggregate %s: %w", date, ErrNotFound)
		}
		return nil, err
	}
	return a, nil
}

// ListDaily returns aggregates with start <= date <= end, ascending by date.
func (d *DB) ListDaily(ctx context.Context, userID int64, start, end models.Date) ([]*models.DailyAggregate, error) {
	query := `
		SELECT user_id, date, calories, protein, carbs, fat, water_ml, updated_at
		FROM daily_aggregates
		WHERE user_id = ? AND date >= ? AND date <= ?
		ORDER BY date ASC
	`
	rows, err := d.db.QueryContext(ctx, query, userID, string(start), string(end))
	if err != nil {
		return nil, fmt.Errorf("list daily aggregates: %w", err)
	}
	defer rows.Close()

	var out []*models.DailyAggregate
	for rows.Next() {
		a, err := scanDaily(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (d *DB) queryMealEntries(ctx context.Context, query string, args ...interface{}) ([]*models.MealLogEntry, error) {
	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list meal entries: %w", err)
	}
	defer rows.Close()

	var entries []*models.MealLogEntry
	for rows.Next() {
		e, err := scanMealEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanMealEntry(row rowScanner) (*models.MealLogEntry, error) {
	var e models.MealLogEntry
	var date, unit, createdAt string
	var foodID sql.NullString

	err := row.Scan(&e.ID, &e.UserID, &date, &e.Section, &e.Name, &foodID,
		&e.Calories, &e.Protein, &e.Carbs, &e.Fat, &e.Quantity, &unit, &createdAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan meal entry: %w", err)
	}

	e.Date = models.Date(date)
	e.Unit = models.UnitKind(unit)
	e.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	if foodID.Valid {
		e.FoodID = foodID.String
	}
	return &e, nil
}

func scanDaily(row rowScanner) (*models.DailyAggregate, error) {
	var a models.DailyAggregate
	var date, updatedAt string

	err := row.Scan(&a.UserID, &date, &a.Calories, &a.Protein, &a.Carbs, &a.Fat, &a.WaterML, &updatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan daily aggregate: %w", err)
	}

	a.Date = models.Date(date)
	a.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt)
	return &a, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
