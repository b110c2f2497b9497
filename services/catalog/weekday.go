package catalog

import (
	"strings"
	"time"
)

// Weekdays is the fixed 7-day enumeration, Monday first.
var Weekdays = []string{"monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday"}

var weekdayIndex = map[string]time.Weekday{
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
	"sunday":    time.Sunday,
}

// NormalizeWeekday lowercases and trims s and reports whether it names a weekday.
func NormalizeWeekday(s string) (string, bool) {
	day := strings.ToLower(strings.TrimSpace(s))
	_, ok := weekdayIndex[day]
	return day, ok
}

// WeekdayOf maps a weekday name to time.Weekday.
func WeekdayOf(s string) (time.Weekday, bool) {
	day, _ := NormalizeWeekday(s)
	wd, ok := weekdayIndex[day]
	return wd, ok
}

// TitleDay renders "monday" as "Monday".
func TitleDay(day string) string {
	if day == "" {
		return day
	}
	return strings.ToUpper(day[:1]) + strings.ToLower(day[1:])
}
