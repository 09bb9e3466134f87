// ABOUTME: Tests for MCP server, tools, and resources.
// ABOUTME: Covers NewServer, tool handlers, and resource handlers.
package mcp

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/harperreed/nutrition/internal/catalog"
	"github.com/harperreed/nutrition/internal/ledger"
	"github.com/harperreed/nutrition/internal/models"
	"github.com/harperreed/nutrition/internal/storage"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// setupTestDB creates a test database in a temp directory.
func setupTestDB(t *testing.T) *storage.DB {
	t.Helper()

	tmpDir, err := os.MkdirTemp("", "nutrition-mcp-test-*")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	t.Cleanup(func() { _ = os.RemoveAll(tmpDir) })

	dbPath := filepath.Join(tmpDir, "nutrition.db")
	db, err := storage.Open(dbPath)
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	return db
}

// setupTestServer returns a server for user 1 whose "today" is 2024-01-01.
func setupTestServer(t *testing.T) *Server {
	t.Helper()

	cat, err := catalog.Default()
	if err != nil {
		t.Fatalf("Failed to load catalog: %v", err)
	}
	now := time.Date(2024, 1, 1, 9, 0, 0, 0, time.Local)
	l := ledger.New(setupTestDB(t), ledger.WithClock(func() time.Time { return now }))

	server, err := NewServer(l, cat, 1, nil)
	if err != nil {
		t.Fatalf("NewServer failed: %v", err)
	}
	return server
}

func TestNewServer(t *testing.T) {
	server := setupTestServer(t)

	if server.mcpServer == nil {
		t.Error("Expected non-nil mcpServer")
	}
	if server.ledger == nil {
		t.Error("Expected non-nil ledger")
	}
	if server.userID != 1 {
		t.Errorf("Expected user 1, got %d", server.userID)
	}
}

func TestHandleSearchFoods(t *testing.T) {
	server := setupTestServer(t)
	ctx := context.Background()

	tests := []struct {
		name      string
		input     searchFoodsInput
		wantAtMin int
		wantAtMax int
	}{
		{"match by substring", searchFoodsInput{Query: "rice"}, 1, 20},
		{"case insensitive", searchFoodsInput{Query: "APPLE"}, 1, 20},
		{"empty query", searchFoodsInput{Query: "   "}, 0, 0},
		{"no match", searchFoodsInput{Query: "zzzz"}, 0, 0},
		{"limit applied", searchFoodsInput{Query: "e", Limit: 2}, 1, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, out, err := server.handleSearchFoods(ctx, &mcp.CallToolRequest{}, tt.input)
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if len(out.Foods) < tt.wantAtMin || len(out.Foods) > tt.wantAtMax {
				t.Errorf("Expected %d..%d foods, got %d", tt.wantAtMin, tt.wantAtMax, len(out.Foods))
			}
		})
	}
}

func TestHandleLogMeal(t *testing.T) {
	server := setupTestServer(t)
	ctx := context.Background()

	tests := []struct {
		name      string
		input     logMealInput
		wantErr   bool
		errSubstr string
	}{
		{
			name: "valid meal",
			input: logMealInput{
				Section: "lunch",
				Items:   []foodQuantity{{FoodID: "white-rice", Quantity: 150}, {FoodID: "bread-slice", Quantity: 2}},
			},
		},
		{
			name:      "unknown food",
			input:     logMealInput{Section: "lunch", Items: []foodQuantity{{FoodID: "unobtainium", Quantity: 1}}},
			wantErr:   true,
			errSubstr: "unknown food",
		},
		{
			name:      "no items",
			input:     logMealInput{Section: "lunch"},
			wantErr:   true,
			errSubstr: "no items",
		},
		{
			name:      "bad date",
			input:     logMealInput{Section: "lunch", Date: "yesterday", Items: []foodQuantity{{FoodID: "apple", Quantity: 1}}},
			wantErr:   true,
			errSubstr: "invalid date",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, out, err := server.handleLogMeal(ctx, &mcp.CallToolRequest{}, tt.input)
			if tt.wantErr {
				if err == nil {
					t.Error("Expected error, got nil")
				} else if tt.errSubstr != "" && !strings.Contains(err.Error(), tt.errSubstr) {
					t.Errorf("Expected error containing %q, got %q", tt.errSubstr, err.Error())
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			res := out.(logMealOutput)
			if len(res.Entries) != 2 {
				t.Fatalf("Expected 2 entries, got %d", len(res.Entries))
			}
			// 130 kcal per 100 g of rice at 150 g, plus two 80 kcal slices.
			if res.Daily.Calories != 195+160 {
				t.Errorf("Expected 355 kcal, got %v", res.Daily.Calories)
			}
			if res.Daily.Date != "2024-01-01" {
				t.Errorf("Expected today's date, got %s", res.Daily.Date)
			}
		})
	}
}

func TestHandleListAndDeleteMeal(t *testing.T) {
	server := setupTestServer(t)
	ctx := context.Background()

	_, out, err := server.handleLogMeal(ctx, &mcp.CallToolRequest{}, logMealInput{
		Section: "breakfast",
		Date:    "2024-01-02",
		Items:   []foodQuantity{{FoodID: "apple", Quantity: 1}, {FoodID: "banana", Quantity: 1}},
	})
	if err != nil {
		t.Fatalf("handleLogMeal failed: %v", err)
	}
	logged := out.(logMealOutput)

	_, out, err = server.handleListMeals(ctx, &mcp.CallToolRequest{}, dateInput{Date: "2024-01-02"})
	if err != nil {
		t.Fatalf("handleListMeals failed: %v", err)
	}
	if got := out.(listMealsOutput); len(got.Entries) != 2 {
		t.Fatalf("Expected 2 entries, got %d", len(got.Entries))
	}

	_, msg, err := server.handleDeleteMeal(ctx, &mcp.CallToolRequest{}, idInput{ID: logged.Entries[0].ID})
	if err != nil {
		t.Fatalf("handleDeleteMeal failed: %v", err)
	}
	if !strings.Contains(msg.Message, "Deleted Apple") {
		t.Errorf("Unexpected message: %s", msg.Message)
	}

	_, msg, err = server.handleDeleteMeal(ctx, &mcp.CallToolRequest{}, idInput{ID: 9999})
	if err != nil {
		t.Fatalf("Deleting a missing entry should not error: %v", err)
	}
	if !strings.Contains(msg.Message, "nothing deleted") {
		t.Errorf("Unexpected message: %s", msg.Message)
	}

	_, out, err = server.handleGetDaily(ctx, &mcp.CallToolRequest{}, dateInput{Date: "2024-01-02"})
	if err != nil {
		t.Fatalf("handleGetDaily failed: %v", err)
	}
	if d := out.(dailyOutput).Daily; d.Calories != 105 {
		t.Errorf("Expected 105 kcal after deleting the apple, got %v", d.Calories)
	}
}

func TestHandleListMealsEmpty(t *testing.T) {
	server := setupTestServer(t)

	_, out, err := server.handleListMeals(context.Background(), &mcp.CallToolRequest{}, dateInput{})
	if err != nil {
		t.Fatalf("handleListMeals failed: %v", err)
	}
	got := out.(listMealsOutput)
	if got.Entries == nil || len(got.Entries) != 0 {
		t.Errorf("Expected empty non-nil entries, got %v", got.Entries)
	}
}

func TestHandleAddWaterAndRange(t *testing.T) {
	server := setupTestServer(t)
	ctx := context.Background()

	for _, in := range []addWaterInput{{ML: 250}, {ML: 500}, {ML: 300, Date: "2023-12-30"}, {ML: -10}} {
		if _, _, err := server.handleAddWater(ctx, &mcp.CallToolRequest{}, in); err != nil {
			t.Fatalf("handleAddWater failed: %v", err)
		}
	}

	_, out, err := server.handleGetDaily(ctx, &mcp.CallToolRequest{}, dateInput{})
	if err != nil {
		t.Fatalf("handleGetDaily failed: %v", err)
	}
	if d := out.(dailyOutput).Daily; d.WaterML != 750 {
		t.Errorf("Expected 750 ml today, got %v", d.WaterML)
	}

	_, out, err = server.handleGetRange(ctx, &mcp.CallToolRequest{}, rangeInput{Start: "2023-12-25"})
	if err != nil {
		t.Fatalf("handleGetRange failed: %v", err)
	}
	days := out.(rangeOutput).Days
	if len(days) != 2 || days[0].Date != "2023-12-30" {
		t.Errorf("Unexpected range result: %+v", days)
	}

	if _, _, err := server.handleGetRange(ctx, &mcp.CallToolRequest{}, rangeInput{Start: "bad"}); err == nil {
		t.Error("Expected error for invalid start date")
	}
}

func TestHandleWeight(t *testing.T) {
	server := setupTestServer(t)
	ctx := context.Background()

	if _, _, err := server.handleLogWeight(ctx, &mcp.CallToolRequest{}, logWeightInput{KG: 0}); err == nil {
		t.Error("Expected error for zero weight")
	}

	for _, in := range []logWeightInput{{KG: 82, Date: "2023-12-30"}, {KG: 81.5, Date: "2023-12-31"}, {KG: 81.2}, {KG: 81.0}} {
		if _, _, err := server.handleLogWeight(ctx, &mcp.CallToolRequest{}, in); err != nil {
			t.Fatalf("handleLogWeight failed: %v", err)
		}
	}

	_, out, err := server.handleWeightHistory(ctx, &mcp.CallToolRequest{}, weightHistoryInput{})
	if err != nil {
		t.Fatalf("handleWeightHistory failed: %v", err)
	}
	samples := out.(weightHistoryOutput).Samples
	if len(samples) != 3 {
		t.Fatalf("Expected 3 samples (one per day), got %d", len(samples))
	}
	if samples[0].Weight != 82 || samples[2].Weight != 81.0 {
		t.Errorf("Expected oldest-first history ending at 81.0, got %+v", samples)
	}
}

func TestHandleCombos(t *testing.T) {
	server := setupTestServer(t)
	ctx := context.Background()

	_, out, err := server.handleSaveCombo(ctx, &mcp.CallToolRequest{}, saveComboInput{
		Name:  "eggs on toast",
		Items: []foodQuantity{{FoodID: "egg", Quantity: 2}, {FoodID: "bread-slice", Quantity: 1}},
	})
	if err != nil {
		t.Fatalf("handleSaveCombo failed: %v", err)
	}
	combo := out.(comboOutput).Combo
	if len(combo.Items) != 2 {
		t.Fatalf("Expected 2 items, got %d", len(combo.Items))
	}

	if _, _, err := server.handleSaveCombo(ctx, &mcp.CallToolRequest{}, saveComboInput{Name: "empty"}); err == nil {
		t.Error("Expected error for empty combo")
	}

	_, out, err = server.handleListCombos(ctx, &mcp.CallToolRequest{}, struct{}{})
	if err != nil {
		t.Fatalf("handleListCombos failed: %v", err)
	}
	if got := out.(listCombosOutput).Combos; len(got) != 1 {
		t.Errorf("Expected 1 combo, got %d", len(got))
	}

	_, out, err = server.handleLogCombo(ctx, &mcp.CallToolRequest{}, logComboInput{
		ID:      combo.ID,
		Section: "breakfast",
		Extra:   []foodQuantity{{FoodID: "apple", Quantity: 1}},
	})
	if err != nil {
		t.Fatalf("handleLogCombo failed: %v", err)
	}
	logged := out.(logMealOutput)
	if len(logged.Entries) != 3 {
		t.Errorf("Expected 3 entries, got %d", len(logged.Entries))
	}
	if logged.Daily.Calories != float64(combo.TotalCalories)+95 {
		t.Errorf("Expected %d + 95 kcal, got %v", combo.TotalCalories, logged.Daily.Calories)
	}

	if _, _, err := server.handleLogCombo(ctx, &mcp.CallToolRequest{}, logComboInput{ID: 999, Section: "lunch"}); err == nil {
		t.Error("Expected error for missing combo")
	}

	if _, _, err := server.handleDeleteCombo(ctx, &mcp.CallToolRequest{}, idInput{ID: combo.ID}); err != nil {
		t.Fatalf("handleDeleteCombo failed: %v", err)
	}
	_, out, _ = server.handleListCombos(ctx, &mcp.CallToolRequest{}, struct{}{})
	if got := out.(listCombosOutput).Combos; len(got) != 0 {
		t.Errorf("Expected no combos after delete, got %d", len(got))
	}
}

func TestHandleWeeklyStats(t *testing.T) {
	server := setupTestServer(t)
	ctx := context.Background()

	_, _, _ = server.handleLogMeal(ctx, &mcp.CallToolRequest{}, logMealInput{
		Section: "lunch",
		Items:   []foodQuantity{{FoodID: "apple", Quantity: 2}},
	})

	_, out, err := server.handleWeeklyStats(ctx, &mcp.CallToolRequest{}, weeklyStatsInput{})
	if err != nil {
		t.Fatalf("handleWeeklyStats failed: %v", err)
	}
	s := out.(weeklyStatsOutput).Summary
	if s.Start != "2023-12-26" || s.End != "2024-01-01" {
		t.Errorf("Unexpected range %s..%s", s.Start, s.End)
	}
	if s.Totals.Calories != 190 || s.LoggedDays != 1 {
		t.Errorf("Expected 190 kcal over 1 day, got %v over %d", s.Totals.Calories, s.LoggedDays)
	}
}

func readResource(t *testing.T, fn func(context.Context, *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error)) map[string]interface{} {
	t.Helper()
	res, err := fn(context.Background(), &mcp.ReadResourceRequest{})
	if err != nil {
		t.Fatalf("Resource handler failed: %v", err)
	}
	if len(res.Contents) != 1 || res.Contents[0].MIMEType != "application/json" {
		t.Fatalf("Unexpected contents: %+v", res.Contents)
	}
	var out map[string]interface{}
	if err := json.Unmarshal([]byte(res.Contents[0].Text), &out); err != nil {
		t.Fatalf("Resource is not valid JSON: %v", err)
	}
	return out
}

func TestTodayResource(t *testing.T) {
	server := setupTestServer(t)
	ctx := context.Background()
	_, _, _ = server.handleLogMeal(ctx, &mcp.CallToolRequest{}, logMealInput{Section: "snack", Items: []foodQuantity{{FoodID: "apple", Quantity: 1}}})
	_, _, _ = server.handleLogWeight(ctx, &mcp.CallToolRequest{}, logWeightInput{KG: 80})

	out := readResource(t, server.handleTodayResource)
	if out["date"] != "2024-01-01" {
		t.Errorf("Expected date 2024-01-01, got %v", out["date"])
	}
	sections, ok := out["sections"].(map[string]interface{})
	if !ok || sections["snack"] != float64(95) {
		t.Errorf("Expected snack section with 95 kcal, got %v", out["sections"])
	}
	if out["latest_weight"] != float64(80) {
		t.Errorf("Expected latest weight 80, got %v", out["latest_weight"])
	}
}

func TestWeekResource(t *testing.T) {
	server := setupTestServer(t)

	out := readResource(t, server.handleWeekResource)
	days, ok := out["days"].([]interface{})
	if !ok || len(days) != 7 {
		t.Errorf("Expected 7 days, got %v", out["days"])
	}
}

func TestHandleSaveComboQuantities(t *testing.T) {
	server := setupTestServer(t)
	ctx := context.Background()

	_, _, err := server.handleSaveCombo(ctx, &mcp.CallToolRequest{}, saveComboInput{
		Name:  "nothing",
		Items: []foodQuantity{{FoodID: "white-rice", Quantity: 0}, {FoodID: "egg", Quantity: -1}},
	})
	if err == nil {
		t.Error("Expected error when no item has a usable quantity")
	}

	_, out, err := server.handleSaveCombo(ctx, &mcp.CallToolRequest{}, saveComboInput{
		Name:  "rice",
		Items: []foodQuantity{{FoodID: "white-rice", Quantity: 150}, {FoodID: "egg", Quantity: 0}},
	})
	if err != nil {
		t.Fatalf("handleSaveCombo failed: %v", err)
	}
	combo := out.(comboOutput).Combo
	if len(combo.Items) != 1 || combo.TotalCalories != 195 {
		t.Errorf("Expected 1 item at 195 kcal, got %d items at %d", len(combo.Items), combo.TotalCalories)
	}

	_, out, err = server.handleListCombos(ctx, &mcp.CallToolRequest{}, struct{}{})
	if err != nil {
		t.Fatalf("handleListCombos failed: %v", err)
	}
	if got := out.(listCombosOutput).Combos; len(got) != 1 {
		t.Errorf("Expected 1 combo saved, got %d", len(got))
	}
}

func TestCombosResource(t *testing.T) {
	server := setupTestServer(t)
	_, _, _ = server.handleSaveCombo(context.Background(), &mcp.CallToolRequest{}, saveComboInput{
		Name:  "fruit",
		Items: []foodQuantity{{FoodID: "apple", Quantity: 1}},
	})

	out := readResource(t, server.handleCombosResource)
	if out["count"] != float64(1) {
		t.Errorf("Expected 1 combo, got %v", out["count"])
	}
}

func TestResolveDate(t *testing.T) {
	server := setupTestServer(t)

	d, err := server.resolveDate("")
	if err != nil || d != models.Date("2024-01-01") {
		t.Errorf("Expected today, got %s (%v)", d, err)
	}
	if _, err := server.resolveDate("2024-13-01"); err == nil {
		t.Error("Expected error for invalid month")
	}
}
