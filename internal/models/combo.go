// ABOUTME: Combo templates: named, frozen snapshots of staged picks.
// ABOUTME: Line items copy food values and never reference the catalog by id.
package models

import "time"

// ComboLineItem is a denormalized copy of a food plus the quantity picked.
type ComboLineItem struct {
	Position int      `json:"position" yaml:"position"`
	Name     string   `json:"name" yaml:"name"`
	Calories float64  `json:"calories" yaml:"calories"`
	Protein  float64  `json:"protein" yaml:"protein"`
	Carbs    float64  `json:"carbs" yaml:"carbs"`
	Fat      float64  `json:"fat" yaml:"fat"`
	Unit     UnitKind `json:"unit" yaml:"unit"`
	Portion  float64  `json:"portion" yaml:"portion"`
	Quantity float64  `json:"quantity" yaml:"quantity"`
}

// Food rebuilds a FoodItem from the frozen values. The id is left empty.
func (li ComboLineItem) Food() FoodItem {
	return FoodItem{
		Name:     li.Name,
		Calories: li.Calories,
		Protein:  li.Protein,
		Carbs:    li.Carbs,
		Fat:      li.Fat,
		Unit:     li.Unit,
		Portion:  li.Portion,
	}
}

// ComboTemplate is a saved meal template. It is never mutated after creation.
type ComboTemplate struct {
	ID            int64           `json:"id" yaml:"id"`
	UserID        int64           `json:"user_id" yaml:"user_id"`
	Name          string          `json:"name" yaml:"name"`
	TotalCalories int             `json:"total_calories" yaml:"total_calories"`
	Items         []ComboLineItem `json:"items" yaml:"items"`
	CreatedAt     time.Time       `json:"created_at" yaml:"created_at"`
}
