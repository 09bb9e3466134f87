// ABOUTME: Repository interface for nutrition ledger storage.
// ABOUTME: Defines the contract shared by the SQLite and Badger KV engines.
package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/harperreed/nutrition/internal/models"
)

var (
	// ErrNotFound is returned when a single requested row does not exist.
	ErrNotFound = errors.New("not found")
	// ErrUnavailable is returned when the storage engine cannot be opened or reached.
	ErrUnavailable = errors.New("storage unavailable")
)

// Repository defines the storage interface for nutrition data.
// Implementations are passed explicitly so tests can run against either engine.
type Repository interface {
	// Meal ledger
	CreateMealEntry(ctx context.Context, e *models.MealLogEntry) error
	GetMealEntry(ctx context.Context, id int64) (*models.MealLogEntry, error)
	ListMealEntries(ctx context.Context, userID int64, date models.Date) ([]*models.MealLogEntry, error)
	DeleteMealEntry(ctx context.Context, userID int64, date models.Date, id int64) error

	// Daily aggregates
	UpsertDailyNutrients(ctx context.Context, userID int64, date models.Date, n models.Nutrients) error
	AddWater(ctx context.Context, userID int64, date models.Date, amount float64) error
	GetDaily(ctx context.Context, userID int64, date models.Date) (*models.DailyAggregate, error)
	ListDaily(ctx context.Context, userID int64, start, end models.Date) ([]*models.DailyAggregate, error)

	// Combo templates
	CreateCombo(ctx context.Context, c *models.ComboTemplate) error
	GetCombo(ctx context.Context, id int64) (*models.ComboTemplate, error)
	ListCombos(ctx context.Context, userID int64) ([]*models.ComboTemplate, error)
	DeleteCombo(ctx context.Context, id int64) error

	// Weight samples
	UpsertWeight(ctx context.Context, w *models.WeightSample) error
	ListWeights(ctx context.Context, userID int64, start, end models.Date) ([]*models.WeightSample, error)
	ListRecentWeights(ctx context.Context, userID int64, limit int) ([]*models.WeightSample, error)
	GetLatestWeight(ctx context.Context, userID int64) (*models.WeightSample, error)

	// Export
	GetAllData(ctx context.Context) (*ExportData, error)

	// Lifecycle
	Close() error
}

// unavailable marks err as a storage availability failure.
func unavailable(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, ErrUnavailable, err)
}
