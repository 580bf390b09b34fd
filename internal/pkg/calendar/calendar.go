package calendar

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ShiftWindow is one of the three daily shift bands
type ShiftWindow string

const (
	Morning ShiftWindow = "Morning" // 05:30 - 13:30
	Noon    ShiftWindow = "Noon"    // 13:30 - 21:30
	Night   ShiftWindow = "Night"   // 21:30 - 05:30, wraps midnight
)

// Boundaries in minutes since midnight. Starts are inclusive.
const (
	MorningStart = 5*60 + 30
	NoonStart    = 13*60 + 30
	NightStart   = 21*60 + 30
)

// DefaultTimezone is the operating timezone of the attendance floor
const DefaultTimezone = "Asia/Colombo"

// CurrentShiftWindow classifies now using the wall clock of now's location.
// Convert with now.In(loc) first to classify in another zone.
func CurrentShiftWindow(now time.Time) ShiftWindow {
	t := now.Hour()*60 + now.Minute()

	switch {
	case t >= MorningStart && t < NoonStart:
		return Morning
	case t >= NoonStart && t < NightStart:
		return Noon
	default:
		return Night
	}
}

// TimeRange returns the human readable range of the window
func (s ShiftWindow) TimeRange() string {
	switch s {
	case Morning:
		return formatRange(MorningStart, NoonStart)
	case Noon:
		return formatRange(NoonStart, NightStart)
	case Night:
		return formatRange(NightStart, MorningStart)
	}
	return ""
}

func (s ShiftWindow) String() string {
	return string(s)
}

func formatRange(from, to int) string {
	return fmt.Sprintf("%02d:%02d - %02d:%02d", from/60, from%60, to/60, to%60)
}

// DaysInMonth returns the number of days of a zero-based month (0 = January).
// Day 0 of the following month normalizes to the last day of this one.
func DaysInMonth(year, month int) int {
	return time.Date(year, time.Month(month+2), 0, 0, 0, 0, 0, time.UTC).Day()
}

// MonthKey identifies a calendar month, formatted YYYY-MM
type MonthKey string

// MonthKeyOf builds the key of a zero-based month
func MonthKeyOf(year, month int) MonthKey {
	return MonthKey(fmt.Sprintf("%04d-%02d", year, month+1))
}

func (k MonthKey) String() string {
	return string(k)
}

// ParseMonthKey splits a YYYY-MM key into year and zero-based month
func ParseMonthKey(s string) (int, int, error) {
	parts := strings.Split(s, "-")
	if len(parts) != 2 || len(parts[0]) < 4 || len(parts[1]) != 2 {
		return 0, 0, fmt.Errorf("invalid month key %q, use YYYY-MM", s)
	}

	year, err := strconv.Atoi(parts[0])
	if err != nil || year < 0 {
		return 0, 0, fmt.Errorf("invalid year in month key %q", s)
	}

	month, err := strconv.Atoi(parts[1])
	if err != nil || month < 1 || month > 12 {
		return 0, 0, fmt.Errorf("invalid month in month key %q", s)
	}

	return year, month - 1, nil
}

// CurrentYearMonth returns the calendar year and zero-based month of now
func CurrentYearMonth(now time.Time) (int, int) {
	return now.Year(), int(now.Month()) - 1
}

// DayColumns returns the day numbers "1".."N" of the month, used as assignment keys
func DayColumns(year, month int) []string {
	n := DaysInMonth(year, month)
	days := make([]string, n)
	for i := range days {
		days[i] = strconv.Itoa(i + 1)
	}
	return days
}

// ValidDay reports whether day is a day key inside the month
func ValidDay(year, month int, day string) bool {
	d, err := strconv.Atoi(day)
	if err != nil || strconv.Itoa(d) != day {
		return false
	}
	return d >= 1 && d <= DaysInMonth(year, month)
}

// LoadLocation resolves the operating timezone, falling back to UTC for an empty name
func LoadLocation(name string) (*time.Location, error) {
	if name == "" {
		return time.UTC, nil
	}
	return time.LoadLocation(name)
}
