// ABOUTME: Combo templates: frozen, denormalized snapshots of a cart.
// ABOUTME: Expanding a combo rebuilds foods from the snapshot, never from the catalog.
package ledger

import (
	"context"
	"fmt"
	"strings"

	"github.com/harperreed/nutrition/internal/cart"
	"github.com/harperreed/nutrition/internal/models"
	"github.com/harperreed/nutrition/internal/units"
)

// SaveCombo snapshots picks under name. Picks with unusable quantities are skipped;
// an empty name or no remaining picks is rejected.
func (l *Ledger) SaveCombo(ctx context.Context, userID int64, name string, picks []models.CartPick) (*models.ComboTemplate, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("save combo: %w: name is empty", ErrInvalidInput)
	}

	c := &models.ComboTemplate{UserID: userID, Name: name}
	for _, p := range picks {
		if !units.Valid(p.Quantity) {
			continue
		}
		c.Items = append(c.Items, models.ComboLineItem{
			Position: len(c.Items),
			Name:     p.Food.Name,
			Calories: p.Food.Calories,
			Protein:  p.Food.Protein,
			Carbs:    p.Food.Carbs,
			Fat:      p.Food.Fat,
			Unit:     p.Food.Unit,
			Portion:  p.Food.Portion,
			Quantity: p.Quantity,
		})
		c.TotalCalories += int(units.Convert(p.Food, p.Quantity).Calories)
	}
	if len(c.Items) == 0 {
		return nil, fmt.Errorf("save combo: %w: no items", ErrInvalidInput)
	}

	if err := l.repo.CreateCombo(ctx, c); err != nil {
		return nil, fmt.Errorf("save combo: %w", err)
	}
	l.log.Debug("saved combo", "id", c.ID, "name", c.Name, "items", len(c.Items), "calories", c.TotalCalories)
	return c, nil
}

// ListCombos returns the user's combos ordered by id.
func (l *Ledger) ListCombos(ctx context.Context, userID int64) ([]*models.ComboTemplate, error) {
	combos, err := l.repo.ListCombos(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list combos: %w", err)
	}
	return combos, nil
}

// GetCombo returns one combo or storage.ErrNotFound.
func (l *Ledger) GetCombo(ctx context.Context, id int64) (*models.ComboTemplate, error) {
	return l.repo.GetCombo(ctx, id)
}

// DeleteCombo removes a combo. Absent ids are a no-op.
func (l *Ledger) DeleteCombo(ctx context.Context, id int64) error {
	if err := l.repo.DeleteCombo(ctx, id); err != nil {
		return fmt.Errorf("delete combo: %w", err)
	}
	l.log.Debug("deleted combo", "id", id)
	return nil
}

// Expand appends the combo's line items to c as fresh picks and returns them.
func Expand(t *models.ComboTemplate, c *cart.Cart) []models.CartPick {
	var added []models.CartPick
	for _, li := range t.Items {
		if p, ok := c.AddPick(models.CartPick{Food: li.Food(), Quantity: li.Quantity}); ok {
			added = append(added, p)
		}
	}
	return added
}

// LogCombo expands combo id together with any extra picks and commits them to date.
func (l *Ledger) LogCombo(ctx context.Context, userID, id int64, date models.Date, section string, extra []models.CartPick) ([]*models.MealLogEntry, error) {
	t, err := l.repo.GetCombo(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("log combo %d: %w", id, err)
	}
	c := cart.New()
	Expand(t, c)
	for _, p := range extra {
		c.AddPick(p)
	}
	return l.CommitCart(ctx, userID, date, section, c)
}
