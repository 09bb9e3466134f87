// ABOUTME: MCP resource implementations for the nutrition ledger.
// ABOUTME: Provides nutrition://today, nutrition://week, and nutrition://combos resources.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

func (s *Server) registerResources() {
	// nutrition://today - Today's entries and totals
	s.mcpServer.AddResource(&mcp.Resource{
		URI:         "nutrition://today",
		Name:        "Today's Nutrition",
		Description: "Meal entries, calorie/macro totals and water logged today",
		MIMEType:    "application/json",
	}, s.handleTodayResource)

	// nutrition://week - Seven-day summary ending today
	s.mcpServer.AddResource(&mcp.Resource{
		URI:         "nutrition://week",
		Name:        "Weekly Nutrition Summary",
		Description: "Daily totals, averages and weight change for the last seven days",
		MIMEType:    "application/json",
	}, s.handleWeekResource)

	// nutrition://combos - Saved combos
	s.mcpServer.AddResource(&mcp.Resource{
		URI:         "nutrition://combos",
		Name:        "Saved Combos",
		Description: "All saved meal combos with their line items",
		MIMEType:    "application/json",
	}, s.handleCombosResource)
}

func jsonResource(uri string, v interface{}) (*mcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal result: %w", err)
	}
	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

// Resource handlers

func (s *Server) handleTodayResource(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	today := s.ledger.Today()

	entries, err := s.ledger.ListMeals(ctx, s.userID, today)
	if err != nil {
		return nil, fmt.Errorf("failed to list meals: %w", err)
	}
	daily, err := s.ledger.DailyOrZero(ctx, s.userID, today)
	if err != nil {
		return nil, fmt.Errorf("failed to get daily totals: %w", err)
	}

	sections := make(map[string]float64)
	for _, e := range entries {
		sections[e.Section] += e.Calories
	}

	result := map[string]interface{}{
		"date":     today,
		"entries":  entries,
		"totals":   daily,
		"sections": sections,
		"counts": map[string]int{
			"entries": len(entries),
		},
	}
	if w, ok, err := s.ledger.LatestWeight(ctx, s.userID); err == nil && ok {
		result["latest_weight"] = w
	}

	return jsonResource("nutrition://today", result)
}

func (s *Server) handleWeekResource(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	summary, err := s.ledger.Week(ctx, s.userID, s.ledger.Today())
	if err != nil {
		return nil, fmt.Errorf("failed to summarize week: %w", err)
	}
	return jsonResource("nutrition://week", summary)
}

func (s *Server) handleCombosResource(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	combos, err := s.ledger.ListCombos(ctx, s.userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list combos: %w", err)
	}
	result := map[string]interface{}{
		"combos": combos,
		"count":  len(combos),
	}
	return jsonResource("nutrition://combos", result)
}
