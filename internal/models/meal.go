// ABOUTME: Meal ledger entry and the derived daily aggregate row.
// ABOUTME: Entries are immutable once written; aggregates are recomputed from them.
package models

import "time"

// MealLogEntry is one committed consumption event. Nutrient fields hold
// already-converted, rounded totals for the quantity eaten.
type MealLogEntry struct {
	ID        int64     `json:"id" yaml:"id"`
	UserID    int64     `json:"user_id" yaml:"user_id"`
	Date      Date      `json:"date" yaml:"date"`
	Section   string    `json:"section" yaml:"section"`
	Name      string    `json:"name" yaml:"name"`
	FoodID    string    `json:"food_id,omitempty" yaml:"food_id,omitempty"`
	Calories  float64   `json:"calories" yaml:"calories"`
	Protein   float64   `json:"protein" yaml:"protein"`
	Carbs     float64   `json:"carbs" yaml:"carbs"`
	Fat       float64   `json:"fat" yaml:"fat"`
	Quantity  float64   `json:"quantity" yaml:"quantity"`
	Unit      UnitKind  `json:"unit" yaml:"unit"`
	CreatedAt time.Time `json:"created_at" yaml:"created_at"`
}

// Nutrients returns the entry's converted totals.
func (e *MealLogEntry) Nutrients() Nutrients {
	return Nutrients{Calories: e.Calories, Protein: e.Protein, Carbs: e.Carbs, Fat: e.Fat}
}

// DailyAggregate is the per-user-per-day rollup. Nutrient fields are derived
// from the day's MealLogEntry rows; WaterML is accumulated on its own.
type DailyAggregate struct {
	UserID    int64     `json:"user_id" yaml:"user_id"`
	Date      Date      `json:"date" yaml:"date"`
	Calories  float64   `json:"calories" yaml:"calories"`
	Protein   float64   `json:"protein" yaml:"protein"`
	Carbs     float64   `json:"carbs" yaml:"carbs"`
	Fat       float64   `json:"fat" yaml:"fat"`
	WaterML   float64   `json:"water_ml" yaml:"water_ml"`
	UpdatedAt time.Time `json:"updated_at" yaml:"updated_at"`
}

// Nutrients returns the aggregate's nutrient totals.
func (a *DailyAggregate) Nutrients() Nutrients {
	return Nutrients{Calories: a.Calories, Protein: a.Protein, Carbs: a.Carbs, Fat: a.Fat}
}

// SetNutrients overwrites the nutrient totals, leaving water untouched.
func (a *DailyAggregate) SetNutrients(n Nutrients) {
	a.Calories = n.Calories
	a.Protein = n.Protein
	a.Carbs = n.Carbs
	a.Fat = n.Fat
}
