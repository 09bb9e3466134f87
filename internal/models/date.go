// ABOUTME: Calendar day type used as the key for meals, aggregates and weights.
// ABOUTME: Stored as YYYY-MM-DD so lexical order matches chronological order.
package models

import (
	"fmt"
	"time"
)

// DateLayout is the storage and display format for a Date.
const DateLayout = "2006-01-02"

// Date is a calendar day with no time-of-day component.
type Date string

// ParseDate validates s and returns it as a Date.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return "", fmt.Errorf("invalid date %q (use YYYY-MM-DD)", s)
	}
	return DateOf(t), nil
}

// DateOf returns the calendar day of t in t's location.
func DateOf(t time.Time) Date {
	return Date(t.Format(DateLayout))
}

// Today returns the current local calendar day.
func Today() Date {
	return DateOf(time.Now())
}

// Time returns midnight UTC of the day. The zero time is returned for a malformed Date.
func (d Date) Time() time.Time {
	t, _ := time.Parse(DateLayout, string(d))
	return t
}

// AddDays returns the day n days after d (n may be negative).
func (d Date) AddDays(n int) Date {
	return DateOf(d.Time().AddDate(0, 0, n))
}

// Before reports whether d is strictly earlier than other.
func (d Date) Before(other Date) bool {
	return d < other
}

// IsValid reports whether d is a well-formed day.
func (d Date) IsValid() bool {
	_, err := time.Parse(DateLayout, string(d))
	return err == nil
}

func (d Date) String() string {
	return string(d)
}

// DaysBetween returns every day from start to end inclusive, ascending.
// It returns nil when start is after end or either day is malformed.
func DaysBetween(start, end Date) []Date {
	if !start.IsValid() || !end.IsValid() || end.Before(start) {
		return nil
	}
	var days []Date
	for d := start; !end.Before(d); d = d.AddDays(1) {
		days = append(days, d)
	}
	return days
}
