// ABOUTME: Unit conversion from a requested quantity to nutrient totals.
// ABOUTME: Mass/volume foods scale by quantity/portion; discrete foods by quantity.
package units

import (
	"math"
	"strconv"
	"strings"

	"github.com/harperreed/nutrition/internal/models"
)

// Multiplier returns the factor applied to a food's per-portion nutrients for
// the requested quantity. Unusable quantities yield 0.
func Multiplier(food models.FoodItem, quantity float64) float64 {
	if !Valid(quantity) {
		return 0
	}
	if food.Unit.IsMeasured() {
		if food.Portion <= 0 {
			return 0
		}
		return quantity / food.Portion
	}
	return quantity
}

// Convert returns the food's nutrients for quantity, each field rounded to the
// nearest integer on its own.
func Convert(food models.FoodItem, quantity float64) models.Nutrients {
	m := Multiplier(food, quantity)
	return models.Nutrients{
		Calories: math.Round(food.Calories * m),
		Protein:  math.Round(food.Protein * m),
		Carbs:    math.Round(food.Carbs * m),
		Fat:      math.Round(food.Fat * m),
	}
}

// ParseQuantity parses user input as a quantity. Anything non-numeric,
// negative or non-finite parses as 0.
func ParseQuantity(s string) float64 {
	q, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || !Valid(q) {
		return 0
	}
	return q
}

// Valid reports whether q is a positive finite quantity.
func Valid(q float64) bool {
	return q > 0 && !math.IsInf(q, 0) && !math.IsNaN(q)
}
