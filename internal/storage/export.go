// ABOUTME: Export functionality for nutrition data.
// ABOUTME: Supports JSON, YAML, and Markdown export formats over any Repository.
package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/harperreed/nutrition/internal/models"
	"gopkg.in/yaml.v3"
)

// ExportData represents the full export format for nutrition data.
type ExportData struct {
	Version    string                   `json:"version" yaml:"version"`
	ExportedAt time.Time                `json:"exported_at" yaml:"exported_at"`
	Tool       string                   `json:"tool" yaml:"tool"`
	Meals      []*models.MealLogEntry   `json:"meals" yaml:"meals"`
	Daily      []*models.DailyAggregate `json:"daily" yaml:"daily"`
	Combos     []*models.ComboTemplate  `json:"combos" yaml:"combos"`
	Weights    []*models.WeightSample   `json:"weights" yaml:"weights"`
}

func newExportData() *ExportData {
	return &ExportData{
		Version:    "1.0",
		ExportedAt: time.Now(),
		Tool:       "nutrition",
	}
}

// sortExport puts every section in a stable order: user, then date, then id.
func sortExport(data *ExportData) {
	sort.SliceStable(data.Meals, func(i, j int) bool {
		a, b := data.Meals[i], data.Meals[j]
		if a.UserID != b.UserID {
			return a.UserID < b.UserID
		}
		if a.Date != b.Date {
			return a.Date < b.Date
		}
		return a.ID < b.ID
	})
	sort.SliceStable(data.Daily, func(i, j int) bool {
		a, b := data.Daily[i], data.Daily[j]
		if a.UserID != b.UserID {
			return a.UserID < b.UserID
		}
		return a.Date < b.Date
	})
	sort.SliceStable(data.Combos, func(i, j int) bool {
		return data.Combos[i].ID < data.Combos[j].ID
	})
	sort.SliceStable(data.Weights, func(i, j int) bool {
		a, b := data.Weights[i], data.Weights[j]
		if a.UserID != b.UserID {
			return a.UserID < b.UserID
		}
		return a.Date < b.Date
	})
}

// GetAllData retrieves all data for export.
func (d *DB) GetAllData(ctx context.Context) (*ExportData, error) {
	data := newExportData()

	meals, err := d.queryMealEntries(ctx, `SELECT `+mealColumns+` FROM meal_entries ORDER BY user_id, date, id`)
	if err != nil {
		return nil, err
	}
	data.Meals = meals

	rows, err := d.db.QueryContext(ctx, `
		SELECT user_id, date, calories, protein, carbs, fat, water_ml, updated_at
		FROM daily_aggregates ORDER BY user_id, date`)
	if err != nil {
		return nil, fmt.Errorf("list daily aggregates: %w", err)
	}
	for rows.Next() {
		a, err := scanDaily(rows)
		if err != nil {
			rows.Close()
			return nil, err
		}
		data.Daily = append(data.Daily, a)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, fmt.Errorf("list daily aggregates: %w", err)
	}
	rows.Close()

	if data.Combos, err = d.queryCombos(ctx,
		`SELECT id, user_id, name, total_calories, created_at FROM combos ORDER BY id ASC`); err != nil {
		return nil, err
	}

	if data.Weights, err = d.queryWeights(ctx,
		`SELECT `+weightColumns+` FROM weights ORDER BY user_id, date`); err != nil {
		return nil, err
	}

	sortExport(data)
	return data, nil
}

// ExportJSON exports all data as JSON.
func ExportJSON(ctx context.Context, repo Repository) ([]byte, error) {
	data, err := repo.GetAllData(ctx)
	if err != nil {
		return nil, err
	}
	return json.MarshalIndent(data, "", "  ")
}

// ParseJSON decodes a JSON export. Malformed dates are an error.
func ParseJSON(raw []byte) (*ExportData, error) {
	var data ExportData
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("unmarshal JSON: %w", err)
	}
	if err := validateDates(&data); err != nil {
		return nil, err
	}
	return &data, nil
}

// validateDates rejects exports carrying days that are not YYYY-MM-DD.
func validateDates(data *ExportData) error {
	check := func(kind string, d models.Date) error {
		if !d.IsValid() {
			return fmt.Errorf("invalid %s date %q", kind, d)
		}
		return nil
	}
	for _, e := range data.Meals {
		if err := check("meal", e.Date); err != nil {
			return err
		}
	}
	for _, a := range data.Daily {
		if err := check("daily", a.Date); err != nil {
			return err
		}
	}
	for _, w := range data.Weights {
		if err := check("weight", w.Date); err != nil {
			return err
		}
	}
	return nil
}

// ExportYAML exports all data as YAML, with meals grouped by day.
func ExportYAML(ctx context.Context, repo Repository) ([]byte, error) {
	data, err := repo.GetAllData(ctx)
	if err != nil {
		return nil, err
	}

	yamlData := struct {
		Version    string                `yaml:"version"`
		ExportedAt string                `yaml:"exported_at"`
		Tool       string                `yaml:"tool"`
		Days       map[string][]yamlMeal `yaml:"days"`
		Daily      []yamlDaily           `yaml:"daily"`
		Combos     []yamlCombo           `yaml:"combos"`
		Weights    []yamlWeight          `yaml:"weights"`
	}{
		Version:    data.Version,
		ExportedAt: data.ExportedAt.Format(time.RFC3339),
		Tool:       data.Tool,
		Days:       make(map[string][]yamlMeal),
		Combos:     make([]yamlCombo, 0, len(data.Combos)),
	}

	for _, m := range data.Meals {
		key := string(m.Date)
		yamlData.Days[key] = append(yamlData.Days[key], yamlMeal{
			ID:       m.ID,
			User:     m.UserID,
			Section:  m.Section,
			Name:     m.Name,
			Quantity: fmt.Sprintf("%g %s", m.Quantity, m.Unit),
			Calories: m.Calories,
			Protein:  m.Protein,
			Carbs:    m.Carbs,
			Fat:      m.Fat,
		})
	}

	for _, a := range data.Daily {
		yamlData.Daily = append(yamlData.Daily, yamlDaily{
			User:     a.UserID,
			Date:     string(a.Date),
			Calories: a.Calories,
			Protein:  a.Protein,
			Carbs:    a.Carbs,
			Fat:      a.Fat,
			WaterML:  a.WaterML,
		})
	}

	for _, c := range data.Combos {
		yc := yamlCombo{ID: c.ID, User: c.UserID, Name: c.Name, TotalCalories: c.TotalCalories}
		for _, li := range c.Items {
			yc.Items = append(yc.Items, fmt.Sprintf("%s %g %s", li.Name, li.Quantity, li.Unit))
		}
		yamlData.Combos = append(yamlData.Combos, yc)
	}

	for _, w := range data.Weights {
		yamlData.Weights = append(yamlData.Weights, yamlWeight{User: w.UserID, Date: string(w.Date), Weight: w.Weight})
	}

	return yaml.Marshal(yamlData)
}

type yamlMeal struct {
	ID       int64   `yaml:"id"`
	User     int64   `yaml:"user"`
	Section  string  `yaml:"section"`
	Name     string  `yaml:"name"`
	Quantity string  `yaml:"quantity"`
	Calories float64 `yaml:"calories"`
	Protein  float64 `yaml:"protein"`
	Carbs    float64 `yaml:"carbs"`
	Fat      float64 `yaml:"fat"`
}

type yamlDaily struct {
	User     int64   `yaml:"user"`
	Date     string  `yaml:"date"`
	Calories float64 `yaml:"calories"`
	Protein  float64 `yaml:"protein"`
	Carbs    float64 `yaml:"carbs"`
	Fat      float64 `yaml:"fat"`
	WaterML  float64 `yaml:"water_ml"`
}

type yamlCombo struct {
	ID            int64    `yaml:"id"`
	User          int64    `yaml:"user"`
	Name          string   `yaml:"name"`
	TotalCalories int      `yaml:"total_calories"`
	Items         []string `yaml:"items,omitempty"`
}

type yamlWeight struct {
	User   int64   `yaml:"user"`
	Date   string  `yaml:"date"`
	Weight float64 `yaml:"weight"`
}

// ExportMarkdown renders one user's days as Markdown tables.
// When since is non-empty, only days on or after it are included.
func ExportMarkdown(ctx context.Context, repo Repository, userID int64, since models.Date) (string, error) {
	data, err := repo.GetAllData(ctx)
	if err != nil {
		return "", err
	}

	meals := make(map[models.Date][]*models.MealLogEntry)
	for _, m := range data.Meals {
		if m.UserID == userID && (since == "" || !m.Date.Before(since)) {
			meals[m.Date] = append(meals[m.Date], m)
		}
	}

	var sb strings.Builder
	now := time.Now()

	sb.WriteString(fmt.Sprintf("# Nutrition Export - %s\n\n", now.Format("2006-01-02")))
	sb.WriteString(fmt.Sprintf("Generated: %s\n\n", now.Format(time.RFC3339)))

	var days []*models.DailyAggregate
	for _, a := range data.Daily {
		if a.UserID == userID && (since == "" || !a.Date.Before(since)) {
			days = append(days, a)
		}
	}

	if len(days) > 0 {
		sb.WriteString("## Daily Totals\n\n")
		sb.WriteString("| Date | Calories | Protein | Carbs | Fat | Water |\n")
		sb.WriteString("|------|----------|---------|-------|-----|-------|\n")
		for _, a := range days {
			sb.WriteString(fmt.Sprintf("| %s | %.0f | %.0f g | %.0f g | %.0f g | %.0f ml |\n",
				a.Date, a.Calories, a.Protein, a.Carbs, a.Fat, a.WaterML))
		}
		sb.WriteString("\n")
	}

	for _, a := range days {
		entries := meals[a.Date]
		if len(entries) == 0 {
			continue
		}
		sb.WriteString(fmt.Sprintf("## %s\n\n", a.Date))
		sb.WriteString("| Section | Food | Quantity | Calories |\n")
		sb.WriteString("|---------|------|----------|----------|\n")
		for _, m := range entries {
			sb.WriteString(fmt.Sprintf("| %s | %s | %g %s | %.0f |\n",
				m.Section, m.Name, m.Quantity, m.Unit, m.Calories))
		}
		sb.WriteString("\n")
	}

	var weights []*models.WeightSample
	for _, w := range data.Weights {
		if w.UserID == userID && (since == "" || !w.Date.Before(since)) {
			weights = append(weights, w)
		}
	}
	if len(weights) > 0 {
		sb.WriteString("## Weight\n\n")
		sb.WriteString("| Date | Weight |\n")
		sb.WriteString("|------|--------|\n")
		for _, w := range weights {
			sb.WriteString(fmt.Sprintf("| %s | %.1f kg |\n", w.Date, w.Weight))
		}
	}

	return sb.String(), nil
}
