// ABOUTME: Body-weight sample model.
// ABOUTME: At most one sample exists per user per day; writes upsert by date.
package models

import "time"

// WeightSample is a dated body-weight reading in kilograms.
type WeightSample struct {
	ID        int64     `json:"id" yaml:"id"`
	UserID    int64     `json:"user_id" yaml:"user_id"`
	Date      Date      `json:"date" yaml:"date"`
	Weight    float64   `json:"weight" yaml:"weight"`
	UpdatedAt time.Time `json:"updated_at" yaml:"updated_at"`
}
