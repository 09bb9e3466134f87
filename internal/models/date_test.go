// ABOUTME: Tests for the Date day type.
// ABOUTME: Covers parsing, arithmetic and inclusive day ranges.
package models

import (
	"testing"
	"time"
)

func TestParseDate(t *testing.T) {
	tests := []struct {
		input   string
		wantErr bool
	}{
		{"2024-01-01", false},
		{"2024-02-29", false},
		{"2023-02-29", true},
		{"01-01-2024", true},
		{"", true},
		{"2024-01-01T10:00:00Z", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			d, err := ParseDate(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Errorf("ParseDate(%q) expected error, got %q", tt.input, d)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseDate(%q) unexpected error: %v", tt.input, err)
			}
			if string(d) != tt.input {
				t.Errorf("ParseDate(%q) = %q", tt.input, d)
			}
		})
	}
}

func TestDateAddDays(t *testing.T) {
	d := Date("2024-02-28")
	if got := d.AddDays(1); got != "2024-02-29" {
		t.Errorf("AddDays(1) = %s, want 2024-02-29", got)
	}
	if got := d.AddDays(2); got != "2024-03-01" {
		t.Errorf("AddDays(2) = %s, want 2024-03-01", got)
	}
	if got := Date("2024-01-01").AddDays(-1); got != "2023-12-31" {
		t.Errorf("AddDays(-1) = %s, want 2023-12-31", got)
	}
}

func TestDateOf(t *testing.T) {
	ts := time.Date(2024, 5, 6, 23, 59, 0, 0, time.UTC)
	if got := DateOf(ts); got != "2024-05-06" {
		t.Errorf("DateOf = %s, want 2024-05-06", got)
	}
}

func TestDaysBetween(t *testing.T) {
	days := DaysBetween("2024-01-30", "2024-02-02")
	want := []Date{"2024-01-30", "2024-01-31", "2024-02-01", "2024-02-02"}
	if len(days) != len(want) {
		t.Fatalf("DaysBetween returned %d days, want %d", len(days), len(want))
	}
	for i := range want {
		if days[i] != want[i] {
			t.Errorf("day %d = %s, want %s", i, days[i], want[i])
		}
	}

	if got := DaysBetween("2024-02-02", "2024-01-30"); got != nil {
		t.Errorf("reversed range should be nil, got %v", got)
	}
	if got := DaysBetween("2024-02-02", "2024-02-02"); len(got) != 1 {
		t.Errorf("single-day range should have 1 day, got %d", len(got))
	}
}

func TestDaysBetweenMalformed(t *testing.T) {
	tests := []struct {
		start, end Date
	}{
		{start: "2024-1-5", end: "2024-01-10"},
		{start: "2024-01-05", end: "soon"},
		{start: "", end: "2024-01-10"},
	}
	for _, tt := range tests {
		if got := DaysBetween(tt.start, tt.end); got != nil {
			t.Errorf("DaysBetween(%q, %q) = %d days, want nil", tt.start, tt.end, len(got))
		}
	}
}

func TestDateIsValid(t *testing.T) {
	if !Date("2024-01-01").IsValid() {
		t.Error("expected 2024-01-01 to be valid")
	}
	if Date("yesterday").IsValid() {
		t.Error("expected 'yesterday' to be invalid")
	}
}
