// ABOUTME: In-memory staging buffer of picks for one editing session.
// ABOUTME: Never touches storage; discarded on cancel or after commit.
package cart

import (
	"github.com/google/uuid"
	"github.com/harperreed/nutrition/internal/models"
	"github.com/harperreed/nutrition/internal/units"
)

// Cart is an ordered list of picks. It is owned by a single session and is
// not safe for concurrent use.
type Cart struct {
	picks []models.CartPick
}

// New returns an empty cart.
func New() *Cart {
	return &Cart{}
}

// Add stages food at quantity under a fresh id. Quantities that are not
// positive finite numbers are ignored and ok is false.
func (c *Cart) Add(food models.FoodItem, quantity float64) (pick models.CartPick, ok bool) {
	if !units.Valid(quantity) {
		return models.CartPick{}, false
	}
	pick = models.CartPick{
		ID:       uuid.NewString(),
		Food:     food,
		Quantity: quantity,
	}
	c.picks = append(c.picks, pick)
	return pick, true
}

// AddPick stages an already-built pick, assigning an id if it has none.
func (c *Cart) AddPick(p models.CartPick) (models.CartPick, bool) {
	if !units.Valid(p.Quantity) {
		return models.CartPick{}, false
	}
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	c.picks = append(c.picks, p)
	return p, true
}

// Remove drops the pick with the given id. Unknown ids are ignored.
func (c *Cart) Remove(pickID string) {
	for i, p := range c.picks {
		if p.ID == pickID {
			c.picks = append(c.picks[:i], c.picks[i+1:]...)
			return
		}
	}
}

// Picks returns a copy of the staged picks in order.
func (c *Cart) Picks() []models.CartPick {
	out := make([]models.CartPick, len(c.picks))
	copy(out, c.picks)
	return out
}

// Len returns the number of staged picks.
func (c *Cart) Len() int {
	return len(c.picks)
}

// Clear empties the cart.
func (c *Cart) Clear() {
	c.picks = nil
}

// Preview converts a single candidate without staging it.
func Preview(food models.FoodItem, quantity float64) models.Nutrients {
	return units.Convert(food, quantity)
}

// TotalCalories sums the converted calories of every staged pick.
func (c *Cart) TotalCalories() float64 {
	return c.Totals().Calories
}

// Totals sums the converted nutrients of every staged pick. Values are
// computed from each pick's food on every call.
func (c *Cart) Totals() models.Nutrients {
	var total models.Nutrients
	for _, p := range c.picks {
		total = total.Add(units.Convert(p.Food, p.Quantity))
	}
	return total
}
