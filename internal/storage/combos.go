// ABOUTME: Combo template operations for SQLite storage.
// ABOUTME: A combo and its ordered line items are written in one transaction.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/harperreed/nutrition/internal/models"
)

// CreateCombo stores a combo with its line items and sets its ID.
func (d *DB) CreateCombo(ctx context.Context, c *models.ComboTemplate) error {
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now()
	}

	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("create combo: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx,
		`INSERT INTO combos (user_id, name, total_calories, created_at) VALUES (?, ?, ?, ?)`,
		c.UserID, c.Name, c.TotalCalories, c.CreatedAt.Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("create combo: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("create combo: %w", err)
	}

	for i := range c.Items {
		li := &c.Items[i]
		li.Position = i
		_, err := tx.ExecContext(ctx, `
			INSERT INTO combo_items (combo_id, position, name, calories, protein, carbs, fat, unit, portion, quantity)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			id, li.Position, li.Name, li.Calories, li.Protein, li.Carbs, li.Fat,
			string(li.Unit), li.Portion, li.Quantity)
		if err != nil {
			return fmt.Errorf("create combo item: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("create combo: %w", err)
	}
	c.ID = id
	return nil
}

// GetCombo retrieves a combo with its line items.
func (d *DB) GetCombo(ctx context.Context, id int64) (*models.ComboTemplate, error) {
	row := d.db.QueryRowContext(ctx,
		`SELECT id, user_id, name, total_calories, created_at FROM combos WHERE id = ?`, id)
	c, err := scanCombo(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("combo %d: %w", id, ErrNotFound)
		}
		return nil, err
	}
	if c.Items, err = d.listComboItems(ctx, c.ID); err != nil {
		return nil, err
	}
	return c, nil
}

// ListCombos returns the user's combos ordered by ID ascending.
func (d *DB) ListCombos(ctx context.Context, userID int64) ([]*models.ComboTemplate, error) {
	return d.queryCombos(ctx,
		`SELECT id, user_id, name, total_calories, created_at FROM combos WHERE user_id = ? ORDER BY id ASC`,
		userID)
}

// DeleteCombo removes a combo and its items. Deleting a missing combo is not an error.
func (d *DB) DeleteCombo(ctx context.Context, id int64) error {
	// CASCADE is enabled, so deleting the combo deletes its items
	if _, err := d.db.ExecContext(ctx, "DELETE FROM combos WHERE id = ?", id); err != nil {
		return fmt.Errorf("delete combo: %w", err)
	}
	return nil
}

func (d *DB) queryCombos(ctx context.Context, query string, args ...interface{}) ([]*models.ComboTemplate, error) {
	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list combos: %w", err)
	}

	var combos []*models.ComboTemplate
	for rows.Next() {
		c, err := scanCombo(rows)
		if err != nil {
			rows.Close()
			return nil, err
		}
		combos = append(combos, c)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, fmt.Errorf("list combos: %w", err)
	}
	// The single pooled connection must be released before loading items.
	rows.Close()

	for _, c := range combos {
		if c.Items, err = d.listComboItems(ctx, c.ID); err != nil {
			return nil, err
		}
	}
	return combos, nil
}

func (d *DB) listComboItems(ctx context.Context, comboID int64) ([]models.ComboLineItem, error) {
	rows, err := d.db.QueryContext(ctx, `
		SELECT position, name, calories, protein, carbs, fat, unit, portion, quantity
		FROM combo_items
		WHERE combo_id = ?
		ORDER BY position ASC`, comboID)
	if err != nil {
		return nil, fmt.Errorf("list combo items: %w", err)
	}
	defer rows.Close()

	var items []models.ComboLineItem
	for rows.Next() {
		var li models.ComboLineItem
		var unit string
		if err := rows.Scan(&li.Position, &li.Name, &li.Calories, &li.Protein, &li.Carbs, &li.Fat,
			&unit, &li.Portion, &li.Quantity); err != nil {
			return nil, fmt.Errorf("scan combo item: %w", err)
		}
		li.Unit = models.UnitKind(unit)
		items = append(items, li)
	}
	return items, rows.Err()
}

func scanCombo(row rowScanner) (*models.ComboTemplate, error) {
	var c models.ComboTemplate
	var createdAt string

	if err := row.Scan(&c.ID, &c.UserID, &c.Name, &c.TotalCalories, &createdAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan combo: %w", err)
	}
	c.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	return &c, nil
}
