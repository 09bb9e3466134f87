// ABOUTME: Static food reference table loaded once from YAML.
// ABOUTME: Provides case-insensitive substring search and lookup by id.
package catalog

import (
	_ "embed"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/harperreed/nutrition/internal/models"
	"gopkg.in/yaml.v3"
)

//go:embed foods.yaml
var defaultFoods []byte

// Catalog is an immutable, ordered table of foods.
type Catalog struct {
	foods []models.FoodItem
	byID  map[string]int
}

type catalogFile struct {
	Foods []models.FoodItem `yaml:"foods"`
}

var (
	defaultCatalog *Catalog
	defaultOnce    sync.Once
	defaultErr     error
)

// Default returns the built-in catalog, parsing it on first use.
func Default() (*Catalog, error) {
	defaultOnce.Do(func() {
		defaultCatalog, defaultErr = Parse(defaultFoods)
	})
	return defaultCatalog, defaultErr
}

// Load reads a catalog from a YAML file.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	c, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse catalog %s: %w", path, err)
	}
	return c, nil
}

// Parse builds a catalog from YAML of the form `foods: [{id, name, unit, portion, ...}]`.
func Parse(data []byte) (*Catalog, error) {
	var f catalogFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("unmarshal catalog: %w", err)
	}
	return New(f.Foods)
}

// New builds a catalog from foods in declaration order.
func New(foods []models.FoodItem) (*Catalog, error) {
	c := &Catalog{
		foods: make([]models.FoodItem, 0, len(foods)),
		byID:  make(map[string]int, len(foods)),
	}
	for _, f := range foods {
		if f.ID == "" {
			return nil, fmt.Errorf("food %q has no id", f.Name)
		}
		if _, dup := c.byID[f.ID]; dup {
			return nil, fmt.Errorf("duplicate food id: %s", f.ID)
		}
		if !models.IsValidUnitKind(string(f.Unit)) {
			return nil, fmt.Errorf("food %s: unknown unit %q", f.ID, f.Unit)
		}
		if f.Unit.IsMeasured() && f.Portion <= 0 {
			return nil, fmt.Errorf("food %s: portion must be positive for unit %s", f.ID, f.Unit)
		}
		c.byID[f.ID] = len(c.foods)
		c.foods = append(c.foods, f)
	}
	return c, nil
}

// Search returns foods whose name contains q, ignoring case, in catalog order.
// An empty query returns no results rather than the whole table.
func (c *Catalog) Search(q string) []models.FoodItem {
	q = strings.ToLower(strings.TrimSpace(q))
	if q == "" {
		return nil
	}
	var out []models.FoodItem
	for _, f := range c.foods {
		if strings.Contains(strings.ToLower(f.Name), q) {
			out = append(out, f)
		}
	}
	return out
}

// Lookup returns the food with the given id.
func (c *Catalog) Lookup(id string) (models.FoodItem, bool) {
	i, ok := c.byID[id]
	if !ok {
		return models.FoodItem{}, false
	}
	return c.foods[i], true
}

// All returns a copy of every food in catalog order.
func (c *Catalog) All() []models.FoodItem {
	out := make([]models.FoodItem, len(c.foods))
	copy(out, c.foods)
	return out
}

// Len returns the number of foods.
func (c *Catalog) Len() int {
	return len(c.foods)
}
