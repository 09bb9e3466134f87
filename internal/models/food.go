// ABOUTME: Food reference item, unit kinds and the four-field nutrient value.
// ABOUTME: FoodItem values are immutable reference data read from the catalog.
package models

// UnitKind is the unit a food's portion and a requested quantity are measured in.
type UnitKind string

const (
	UnitGram  UnitKind = "g"
	UnitML    UnitKind = "ml"
	UnitCount UnitKind = "unit"
	UnitSpoon UnitKind = "spoon"
)

// AllUnitKinds lists the valid unit kinds.
var AllUnitKinds = []UnitKind{UnitGram, UnitML, UnitCount, UnitSpoon}

// IsValidUnitKind checks if a string is a known unit kind.
func IsValidUnitKind(s string) bool {
	for _, u := range AllUnitKinds {
		if string(u) == s {
			return true
		}
	}
	return false
}

// IsMeasured reports whether nutrients for this unit are stated per portion
// (mass and volume) rather than per discrete item.
func (u UnitKind) IsMeasured() bool {
	return u == UnitGram || u == UnitML
}

// Nutrients holds the four tracked nutrient values.
type Nutrients struct {
	Calories float64 `json:"calories" yaml:"calories"`
	Protein  float64 `json:"protein" yaml:"protein"`
	Carbs    float64 `json:"carbs" yaml:"carbs"`
	Fat      float64 `json:"fat" yaml:"fat"`
}

// Add returns the field-wise sum of n and o.
func (n Nutrients) Add(o Nutrients) Nutrients {
	return Nutrients{
		Calories: n.Calories + o.Calories,
		Protein:  n.Protein + o.Protein,
		Carbs:    n.Carbs + o.Carbs,
		Fat:      n.Fat + o.Fat,
	}
}

// IsZero reports whether every field is zero.
func (n Nutrients) IsZero() bool {
	return n == Nutrients{}
}

// FoodItem is a catalog entry. Nutrient values are per one Portion of Unit.
type FoodItem struct {
	ID       string   `json:"id" yaml:"id"`
	Name     string   `json:"name" yaml:"name"`
	Calories float64  `json:"calories" yaml:"calories"`
	Protein  float64  `json:"protein" yaml:"protein"`
	Carbs    float64  `json:"carbs" yaml:"carbs"`
	Fat      float64  `json:"fat" yaml:"fat"`
	Unit     UnitKind `json:"unit" yaml:"unit"`
	Portion  float64  `json:"portion" yaml:"portion"`
}

// Nutrients returns the food's per-portion nutrient values.
func (f FoodItem) Nutrients() Nutrients {
	return Nutrients{Calories: f.Calories, Protein: f.Protein, Carbs: f.Carbs, Fat: f.Fat}
}

// CartPick is a staged, not yet persisted selection of a food and a quantity.
// ID is a per-session token and never a storage identity.
type CartPick struct {
	ID       string   `json:"id"`
	Food     FoodItem `json:"food"`
	Quantity float64  `json:"quantity"`
}
