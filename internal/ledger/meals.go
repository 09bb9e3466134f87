// ABOUTME: Meal ledger operations: commit picks, list, delete, and recompute.
// ABOUTME: Every write to a day's entries is followed by a full recompute of its aggregate.
package ledger

import (
	"context"
	"errors"
	"fmt"

	"github.com/harperreed/nutrition/internal/cart"
	"github.com/harperreed/nutrition/internal/models"
	"github.com/harperreed/nutrition/internal/storage"
	"github.com/harperreed/nutrition/internal/units"
)

// Commit converts each pick and writes it as a meal entry, then recomputes the
// day's aggregate once. Picks with an unusable quantity are skipped.
//
// Commit is not atomic across picks. If an insert fails, the entries already
// written are returned along with the error and the aggregate still reflects them.
func (l *Ledger) Commit(ctx context.Context, userID int64, date models.Date, section string, picks []models.CartPick) ([]*models.MealLogEntry, error) {
	var written []*models.MealLogEntry
	var commitErr error

	for _, p := range picks {
		if !units.Valid(p.Quantity) {
			continue
		}
		n := units.Convert(p.Food, p.Quantity)
		e := &models.MealLogEntry{
			UserID:   userID,
			Date:     date,
			Section:  section,
			Name:     p.Food.Name,
			FoodID:   p.Food.ID,
			Calories: n.Calories,
			Protein:  n.Protein,
			Carbs:    n.Carbs,
			Fat:      n.Fat,
			Quantity: p.Quantity,
			Unit:     p.Food.Unit,
		}
		if err := l.repo.CreateMealEntry(ctx, e); err != nil {
			commitErr = fmt.Errorf("commit %s: %w", p.Food.Name, err)
			break
		}
		written = append(written, e)
	}

	if commitErr != nil && len(written) > 0 {
		l.log.Warn("partial commit", "user", userID, "date", date, "written", len(written), "error", commitErr)
	}

	if len(written) > 0 {
		if err := l.Recompute(ctx, userID, date); err != nil {
			return written, errors.Join(commitErr, err)
		}
	}

	l.log.Debug("committed meal entries", "user", userID, "date", date, "section", section, "count", len(written))
	return written, commitErr
}

// CommitCart commits the cart's picks and clears the cart if nothing failed.
func (l *Ledger) CommitCart(ctx context.Context, userID int64, date models.Date, section string, c *cart.Cart) ([]*models.MealLogEntry, error) {
	entries, err := l.Commit(ctx, userID, date, section, c.Picks())
	if err != nil {
		return entries, err
	}
	c.Clear()
	return entries, nil
}

// ListMeals returns the day's entries, oldest first.
func (l *Ledger) ListMeals(ctx context.Context, userID int64, date models.Date) ([]*models.MealLogEntry, error) {
	entries, err := l.repo.ListMealEntries(ctx, userID, date)
	if err != nil {
		return nil, fmt.Errorf("list meals: %w", err)
	}
	return entries, nil
}

// DeleteMeal removes an entry and recomputes the day. An absent id is a no-op.
func (l *Ledger) DeleteMeal(ctx context.Context, entryID, userID int64, date models.Date) error {
	if err := l.repo.DeleteMealEntry(ctx, userID, date, entryID); err != nil {
		return fmt.Errorf("delete meal: %w", err)
	}
	l.log.Debug("deleted meal entry", "id", entryID, "user", userID, "date", date)
	return l.Recompute(ctx, userID, date)
}

// DeleteMealByID looks up the entry's day and deletes it. Entries that do not
// exist or belong to another user are left alone and reported as deleted=false.
func (l *Ledger) DeleteMealByID(ctx context.Context, userID, entryID int64) (*models.MealLogEntry, bool, error) {
	e, err := l.repo.GetMealEntry(ctx, entryID)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("delete meal: %w", err)
	}
	if e.UserID != userID {
		return nil, false, nil
	}
	if err := l.DeleteMeal(ctx, entryID, userID, e.Date); err != nil {
		return nil, false, err
	}
	return e, true, nil
}

// Recompute sums the day's entries and stores them as the aggregate,
// keeping any water already logged. A day with no entries and no row stays absent.
func (l *Ledger) Recompute(ctx context.Context, userID int64, date models.Date) error {
	entries, err := l.repo.ListMealEntries(ctx, userID, date)
	if err != nil {
		return fmt.Errorf("recompute %s: %w", date, err)
	}
	if len(entries) == 0 {
		// Nothing to sum; only rewrite a row that already exists.
		if _, err := l.repo.GetDaily(ctx, userID, date); errors.Is(err, storage.ErrNotFound) {
			return nil
		} else if err != nil {
			return fmt.Errorf("recompute %s: %w", date, err)
		}
	}
	var total models.Nutrients
	for _, e := range entries {
		total = total.Add(e.Nutrients())
	}
	if err := l.repo.UpsertDailyNutrients(ctx, userID, date, total); err != nil {
		return fmt.Errorf("recompute %s: %w", date, err)
	}
	l.log.Debug("recomputed daily aggregate", "user", userID, "date", date, "entries", len(entries), "calories", total.Calories)
	return nil
}
