package services

import (
	"fmt"
	"strings"
	"time"
)

// DateLayout is the ISO date format used everywhere in attendance documents.
const DateLayout = "2006-01-02"

// MonthLayout matches the year-month slot the voice platform delivers.
const MonthLayout = "2006-01"

// FormatDate renders a time as an ISO date string.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// ParseDate parses an ISO date string.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return t, nil
}

// ParseMonth parses a year-month string like "2024-03".
func ParseMonth(s string) (int, time.Month, error) {
	t, err := time.Parse(MonthLayout, strings.TrimSpace(s))
	if err != nil {
		return 0, 0, fmt.Errorf("invalid month %q: %w", s, err)
	}
	return t.Year(), t.Month(), nil
}

// IsWeeklyOff reports whether a date is structurally non-working: Sunday is
// unconditionally off, plus any configured weekly day off.
func IsWeeklyOff(t time.Time, weeklyDaysOff []int) bool {
	weekday := int(t.Weekday())
	if weekday == 0 {
		return true
	}
	for _, off := range weeklyDaysOff {
		if off == weekday {
			return true
		}
	}
	return false
}

// SameDate reports whether two times fall on the same calendar day.
func SameDate(a, b time.Time) bool {
	return a.Year() == b.Year() && a.YearDay() == b.YearDay()
}

// ParseWeekday maps a spoken weekday name to its number (0=Sunday).
func ParseWeekday(name string) (int, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "sunday":
		return 0, nil
	case "monday":
		return 1, nil
	case "tuesday":
		return 2, nil
	case "wednesday":
		return 3, nil
	case "thursday":
		return 4, nil
	case "friday":
		return 5, nil
	case "saturday":
		return 6, nil
	}
	return 0, fmt.Errorf("unknown weekday %q", name)
}

// WeekdayName returns the spoken name for a weekday number.
func WeekdayName(weekday int) string {
	if weekday < 0 || weekday > 6 {
		return "unknown"
	}
	return time.Weekday(weekday).String()
}
