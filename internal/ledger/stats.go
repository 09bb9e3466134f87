// ABOUTME: Range and weekly summaries over daily aggregates and weights.
// ABOUTME: Missing days are zero-filled; averages count only logged days.
package ledger

import (
	"context"
	"fmt"

	"github.com/harperreed/nutrition/internal/models"
)

// Summary describes a user's intake and weight over an inclusive date range.
type Summary struct {
	UserID         int64                   `json:"user_id"`
	Start          models.Date             `json:"start"`
	End            models.Date             `json:"end"`
	Days           []models.DailyAggregate `json:"days"`
	Totals         models.Nutrients        `json:"totals"`
	WaterML        float64                 `json:"water_ml"`
	LoggedDays     int                     `json:"logged_days"`
	Average        models.Nutrients        `json:"average"`
	AverageWaterML float64                 `json:"average_water_ml"`
	FirstWeight    *models.WeightSample    `json:"first_weight,omitempty"`
	LastWeight     *models.WeightSample    `json:"last_weight,omitempty"`
	WeightDelta    float64                 `json:"weight_delta"`
}

// Summarize builds a Summary for [start, end]. A reversed range yields an empty Summary;
// malformed days are ErrInvalidInput.
func (l *Ledger) Summarize(ctx context.Context, userID int64, start, end models.Date) (*Summary, error) {
	if !start.IsValid() || !end.IsValid() {
		return nil, fmt.Errorf("summarize: %w: malformed date range %q..%q", ErrInvalidInput, start, end)
	}
	s := &Summary{UserID: userID, Start: start, End: end}
	if end.Before(start) {
		return s, nil
	}

	rows, err := l.GetDailyRange(ctx, userID, start, end)
	if err != nil {
		return nil, fmt.Errorf("summarize: %w", err)
	}
	byDate := make(map[models.Date]*models.DailyAggregate, len(rows))
	for _, r := range rows {
		byDate[r.Date] = r
	}

	for _, d := range models.DaysBetween(start, end) {
		day := models.DailyAggregate{UserID: userID, Date: d}
		if r, ok := byDate[d]; ok {
			day = *r
		}
		s.Days = append(s.Days, day)
		s.Totals = s.Totals.Add(day.Nutrients())
		s.WaterML += day.WaterML
		if day.Calories > 0 || day.WaterML > 0 {
			s.LoggedDays++
		}
	}

	if s.LoggedDays > 0 {
		n := float64(s.LoggedDays)
		s.Average = models.Nutrients{
			Calories: s.Totals.Calories / n,
			Protein:  s.Totals.Protein / n,
			Carbs:    s.Totals.Carbs / n,
			Fat:      s.Totals.Fat / n,
		}
		s.AverageWaterML = s.WaterML / n
	}

	weights, err := l.GetWeightRange(ctx, userID, start, end)
	if err != nil {
		return nil, fmt.Errorf("summarize: %w", err)
	}
	if len(weights) > 0 {
		s.FirstWeight = weights[0]
		s.LastWeight = weights[len(weights)-1]
		s.WeightDelta = s.LastWeight.Weight - s.FirstWeight.Weight
	}

	return s, nil
}

// Week summarizes the seven days ending on end.
func (l *Ledger) Week(ctx context.Context, userID int64, end models.Date) (*Summary, error) {
	return l.Summarize(ctx, userID, end.AddDays(-6), end)
}
