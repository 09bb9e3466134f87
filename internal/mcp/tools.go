// ABOUTME: MCP tool implementations for the nutrition ledger.
// ABOUTME: Food search, meal logging, water, weight, combos and stats.
package mcp

import (
	"context"
	"fmt"

	"github.com/harperreed/nutrition/internal/ledger"
	"github.com/harperreed/nutrition/internal/models"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

func (s *Server) registerTools() {
	// search_foods
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "search_foods",
		Description: "Search the food catalog by name (case-insensitive substring)",
	}, s.handleSearchFoods)

	// log_meal
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "log_meal",
		Description: "Log one or more catalog foods with quantities to a meal section",
	}, s.handleLogMeal)

	// list_meals
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "list_meals",
		Description: "List the meal entries logged on a day",
	}, s.handleListMeals)

	// delete_meal
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "delete_meal",
		Description: "Delete a meal entry by ID and recompute that day's totals",
	}, s.handleDeleteMeal)

	// add_water
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "add_water",
		Description: "Add water intake in millilitres",
	}, s.handleAddWater)

	// get_daily
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "get_daily",
		Description: "Get calorie, macro and water totals for a day",
	}, s.handleGetDaily)

	// get_range
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "get_range",
		Description: "Get daily totals for every logged day in a date range",
	}, s.handleGetRange)

	// log_weight
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "log_weight",
		Description: "Record body weight in kg for a day (replaces that day's value)",
	}, s.handleLogWeight)

	// weight_history
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "weight_history",
		Description: "List recent weight samples, oldest first",
	}, s.handleWeightHistory)

	// save_combo
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "save_combo",
		Description: "Save a named combo of catalog foods and quantities for quick logging",
	}, s.handleSaveCombo)

	// list_combos
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "list_combos",
		Description: "List saved combos",
	}, s.handleListCombos)

	// log_combo
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "log_combo",
		Description: "Log a saved combo, plus optional extra foods, to a meal section",
	}, s.handleLogCombo)

	// delete_combo
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "delete_combo",
		Description: "Delete a saved combo",
	}, s.handleDeleteCombo)

	// weekly_stats
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "weekly_stats",
		Description: "Summarize the seven days ending on a date: totals, averages and weight change",
	}, s.handleWeeklyStats)
}

// Tool input/output types

type foodQuantity struct {
	FoodID   string  `json:"food_id" jsonschema:"Catalog food ID (see search_foods)"`
	Quantity float64 `json:"quantity" jsonschema:"Amount in the food's unit (grams, ml, units or spoons)"`
}

type searchFoodsInput struct {
	Query string `json:"query" jsonschema:"Text to match against food names"`
	Limit int    `json:"limit,omitempty" jsonschema:"Max results (default 20)"`
}

type searchFoodsOutput struct {
	Foods []models.FoodItem `json:"foods"`
}

type logMealInput struct {
	Section string         `json:"section" jsonschema:"Meal section such as breakfast, lunch, dinner or snack"`
	Items   []foodQuantity `json:"items" jsonschema:"Foods and quantities to log"`
	Date    string         `json:"date,omitempty" jsonschema:"Day (YYYY-MM-DD), defaults to today"`
}

type logMealOutput struct {
	Entries []*models.MealLogEntry `json:"entries"`
	Daily   *models.DailyAggregate `json:"daily"`
	Message string                 `json:"message"`
}

type dateInput struct {
	Date string `json:"date,omitempty" jsonschema:"Day (YYYY-MM-DD), defaults to today"`
}

type listMealsOutput struct {
	Date    models.Date            `json:"date"`
	Entries []*models.MealLogEntry `json:"entries"`
}

type idInput struct {
	ID int64 `json:"id" jsonschema:"Numeric ID"`
}

type simpleOutput struct {
	Message string `json:"message"`
}

type addWaterInput struct {
	ML   float64 `json:"ml" jsonschema:"Water in millilitres"`
	Date string  `json:"date,omitempty" jsonschema:"Day (YYYY-MM-DD), defaults to today"`
}

type dailyOutput struct {
	Daily *models.DailyAggregate `json:"daily"`
}

type rangeInput struct {
	Start string `json:"start" jsonschema:"First day (YYYY-MM-DD)"`
	End   string `json:"end,omitempty" jsonschema:"Last day (YYYY-MM-DD), defaults to today"`
}

type rangeOutput struct {
	Days []*models.DailyAggregate `json:"days"`
}

type logWeightInput struct {
	KG   float64 `json:"kg" jsonschema:"Body weight in kilograms"`
	Date string  `json:"date,omitempty" jsonschema:"Day (YYYY-MM-DD), defaults to today"`
}

type weightOutput struct {
	Sample  *models.WeightSample `json:"sample"`
	Message string               `json:"message"`
}

type weightHistoryInput struct {
	Limit int `json:"limit,omitempty" jsonschema:"Number of most recent samples (default 30)"`
}

type weightHistoryOutput struct {
	Samples []*models.WeightSample `json:"samples"`
}

type saveComboInput struct {
	Name  string         `json:"name" jsonschema:"Combo name"`
	Items []foodQuantity `json:"items" jsonschema:"Foods and quantities in the combo"`
}

type comboOutput struct {
	Combo   *models.ComboTemplate `json:"combo"`
	Message string                `json:"message"`
}

type listCombosOutput struct {
	Combos []*models.ComboTemplate `json:"combos"`
}

type logComboInput struct {
	ID      int64          `json:"id" jsonschema:"Combo ID (see list_combos)"`
	Section string         `json:"section" jsonschema:"Meal section such as breakfast, lunch, dinner or snack"`
	Extra   []foodQuantity `json:"extra,omitempty" jsonschema:"Additional foods to log with the combo"`
	Date    string         `json:"date,omitempty" jsonschema:"Day (YYYY-MM-DD), defaults to today"`
}

type weeklyStatsInput struct {
	End string `json:"end,omitempty" jsonschema:"Last day of the week (YYYY-MM-DD), defaults to today"`
}

type weeklyStatsOutput struct {
	Summary *ledger.Summary `json:"summary"`
}

// Helpers

func (s *Server) resolveDate(v string) (models.Date, error) {
	if v == "" {
		return s.ledger.Today(), nil
	}
	return models.ParseDate(v)
}

// resolvePicks looks up each food in the catalog. Unknown ids are an error.
func (s *Server) resolvePicks(items []foodQuantity) ([]models.CartPick, error) {
	picks := make([]models.CartPick, 0, len(items))
	for _, it := range items {
		food, ok := s.catalog.Lookup(it.FoodID)
		if !ok {
			return nil, fmt.Errorf("unknown food: %s", it.FoodID)
		}
		picks = append(picks, models.CartPick{Food: food, Quantity: it.Quantity})
	}
	return picks, nil
}

// Tool handlers

func (s *Server) handleSearchFoods(ctx context.Context, req *mcp.CallToolRequest, input searchFoodsInput) (*mcp.CallToolResult, searchFoodsOutput, error) {
	if input.Limit <= 0 {
		input.Limit = 20
	}
	foods := s.catalog.Search(input.Query)
	if len(foods) > input.Limit {
		foods = foods[:input.Limit]
	}
	return nil, searchFoodsOutput{Foods: foods}, nil
}

func (s *Server) handleLogMeal(ctx context.Context, req *mcp.CallToolRequest, input logMealInput) (*mcp.CallToolResult, any, error) {
	date, err := s.resolveDate(input.Date)
	if err != nil {
		return nil, nil, err
	}
	if len(input.Items) == 0 {
		return nil, nil, fmt.Errorf("no items to log")
	}
	picks, err := s.resolvePicks(input.Items)
	if err != nil {
		return nil, nil, err
	}

	entries, err := s.ledger.Commit(ctx, s.userID, date, input.Section, picks)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to log meal: %w", err)
	}
	daily, err := s.ledger.DailyOrZero(ctx, s.userID, date)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read daily totals: %w", err)
	}

	return nil, logMealOutput{
		Entries: entries,
		Daily:   daily,
		Message: fmt.Sprintf("Logged %d item(s) to %s on %s (day total: %.0f kcal)", len(entries), input.Section, date, daily.Calories),
	}, nil
}

func (s *Server) handleListMeals(ctx context.Context, req *mcp.CallToolRequest, input dateInput) (*mcp.CallToolResult, any, error) {
	date, err := s.resolveDate(input.Date)
	if err != nil {
		return nil, nil, err
	}
	entries, err := s.ledger.ListMeals(ctx, s.userID, date)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list meals: %w", err)
	}
	if entries == nil {
		entries = []*models.MealLogEntry{}
	}
	return nil, listMealsOutput{Date: date, Entries: entries}, nil
}

func (s *Server) handleDeleteMeal(ctx context.Context, req *mcp.CallToolRequest, input idInput) (*mcp.CallToolResult, simpleOutput, error) {
	e, ok, err := s.ledger.DeleteMealByID(ctx, s.userID, input.ID)
	if err != nil {
		return nil, simpleOutput{}, fmt.Errorf("failed to delete meal: %w", err)
	}
	if !ok {
		return nil, simpleOutput{Message: fmt.Sprintf("No meal entry %d; nothing deleted", input.ID)}, nil
	}
	return nil, simpleOutput{
		Message: fmt.Sprintf("Deleted %s (%.0f kcal) from %s", e.Name, e.Calories, e.Date),
	}, nil
}

func (s *Server) handleAddWater(ctx context.Context, req *mcp.CallToolRequest, input addWaterInput) (*mcp.CallToolResult, any, error) {
	date, err := s.resolveDate(input.Date)
	if err != nil {
		return nil, nil, err
	}
	if err := s.ledger.AddWaterOn(ctx, s.userID, date, input.ML); err != nil {
		return nil, nil, fmt.Errorf("failed to add water: %w", err)
	}
	daily, err := s.ledger.DailyOrZero(ctx, s.userID, date)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read daily totals: %w", err)
	}
	return nil, dailyOutput{Daily: daily}, nil
}

func (s *Server) handleGetDaily(ctx context.Context, req *mcp.CallToolRequest, input dateInput) (*mcp.CallToolResult, any, error) {
	date, err := s.resolveDate(input.Date)
	if err != nil {
		return nil, nil, err
	}
	daily, err := s.ledger.DailyOrZero(ctx, s.userID, date)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get daily totals: %w", err)
	}
	return nil, dailyOutput{Daily: daily}, nil
}

func (s *Server) handleGetRange(ctx context.Context, req *mcp.CallToolRequest, input rangeInput) (*mcp.CallToolResult, any, error) {
	start, err := models.ParseDate(input.Start)
	if err != nil {
		return nil, nil, err
	}
	end, err := s.resolveDate(input.End)
	if err != nil {
		return nil, nil, err
	}
	days, err := s.ledger.GetDailyRange(ctx, s.userID, start, end)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get range: %w", err)
	}
	if days == nil {
		days = []*models.DailyAggregate{}
	}
	return nil, rangeOutput{Days: days}, nil
}

func (s *Server) handleLogWeight(ctx context.Context, req *mcp.CallToolRequest, input logWeightInput) (*mcp.CallToolResult, any, error) {
	date, err := s.resolveDate(input.Date)
	if err != nil {
		return nil, nil, err
	}
	w, err := s.ledger.UpsertWeight(ctx, s.userID, date, input.KG)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to log weight: %w", err)
	}
	return nil, weightOutput{
		Sample:  w,
		Message: fmt.Sprintf("Recorded %.1f kg for %s", w.Weight, w.Date),
	}, nil
}

func (s *Server) handleWeightHistory(ctx context.Context, req *mcp.CallToolRequest, input weightHistoryInput) (*mcp.CallToolResult, any, error) {
	if input.Limit <= 0 {
		input.Limit = 30
	}
	samples, err := s.ledger.GetWeightHistory(ctx, s.userID, input.Limit)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get weight history: %w", err)
	}
	if samples == nil {
		samples = []*models.WeightSample{}
	}
	return nil, weightHistoryOutput{Samples: samples}, nil
}

func (s *Server) handleSaveCombo(ctx context.Context, req *mcp.CallToolRequest, input saveComboInput) (*mcp.CallToolResult, any, error) {
	picks, err := s.resolvePicks(input.Items)
	if err != nil {
		return nil, nil, err
	}
	c, err := s.ledger.SaveCombo(ctx, s.userID, input.Name, picks)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to save combo: %w", err)
	}
	return nil, comboOutput{
		Combo:   c,
		Message: fmt.Sprintf("Saved combo %q (ID: %d, %d kcal)", c.Name, c.ID, c.TotalCalories),
	}, nil
}

func (s *Server) handleListCombos(ctx context.Context, req *mcp.CallToolRequest, input struct{}) (*mcp.CallToolResult, any, error) {
	combos, err := s.ledger.ListCombos(ctx, s.userID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list combos: %w", err)
	}
	if combos == nil {
		combos = []*models.ComboTemplate{}
	}
	return nil, listCombosOutput{Combos: combos}, nil
}

func (s *Server) handleLogCombo(ctx context.Context, req *mcp.CallToolRequest, input logComboInput) (*mcp.CallToolResult, any, error) {
	date, err := s.resolveDate(input.Date)
	if err != nil {
		return nil, nil, err
	}
	extra, err := s.resolvePicks(input.Extra)
	if err != nil {
		return nil, nil, err
	}
	entries, err := s.ledger.LogCombo(ctx, s.userID, input.ID, date, input.Section, extra)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to log combo: %w", err)
	}
	daily, err := s.ledger.DailyOrZero(ctx, s.userID, date)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read daily totals: %w", err)
	}
	return nil, logMealOutput{
		Entries: entries,
		Daily:   daily,
		Message: fmt.Sprintf("Logged combo %d (%d item(s)) to %s on %s", input.ID, len(entries), input.Section, date),
	}, nil
}

func (s *Server) handleDeleteCombo(ctx context.Context, req *mcp.CallToolRequest, input idInput) (*mcp.CallToolResult, simpleOutput, error) {
	if err := s.ledger.DeleteCombo(ctx, input.ID); err != nil {
		return nil, simpleOutput{}, fmt.Errorf("failed to delete combo: %w", err)
	}
	return nil, simpleOutput{Message: fmt.Sprintf("Deleted combo %d", input.ID)}, nil
}

func (s *Server) handleWeeklyStats(ctx context.Context, req *mcp.CallToolRequest, input weeklyStatsInput) (*mcp.CallToolResult, any, error) {
	end, err := s.resolveDate(input.End)
	if err != nil {
		return nil, nil, err
	}
	summary, err := s.ledger.Week(ctx, s.userID, end)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to summarize week: %w", err)
	}
	return nil, weeklyStatsOutput{Summary: summary}, nil
}
