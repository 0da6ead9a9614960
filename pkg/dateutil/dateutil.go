package dateutil

import (
	"fmt"
	"strings"
	"time"
)

// Display layouts used by reports and holiday notes
const (
	DayMonthLayout     = "02-Jan"
	DayMonthYearLayout = "02-Jan-2006"
	ISODateLayout      = "2006-01-02"
)

// Date returns midnight UTC of the given calendar date
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// StartOfYear returns Jan 1 of the year (UTC midnight)
func StartOfYear(year int) time.Time {
	return Date(year, time.January, 1)
}

// EndOfYear returns Dec 31 of the year (UTC midnight)
func EndOfYear(year int) time.Time {
	return Date(year, time.December, 31)
}

// DaysInYear returns 365 or 366
func DaysInYear(year int) int {
	return EndOfYear(year).YearDay()
}

// IsWeekend returns true if the date is Saturday or Sunday
func IsWeekend(date time.Time) bool {
	weekday := date.Weekday()
	return weekday == time.Saturday || weekday == time.Sunday
}

// IsSameMonth returns true if two dates fall in the same calendar month of the same year
func IsSameMonth(date1, date2 time.Time) bool {
	return date1.Year() == date2.Year() && date1.Month() == date2.Month()
}

// dayMonthFormats lists accepted holiday date layouts. Layouts carrying a year
// are accepted too; the year part is dropped by the caller.
var dayMonthFormats = []string{
	"02-Jan",
	"2-Jan",
	"02 Jan",
	"2 Jan",
	"Jan 2",
	"January 2",
	"2 January",
	"02-Jan-2006",
	"2-Jan-2006",
	"2006-01-02",
	"02.01.2006",
	"02/01/2006",
}

// ParseDayMonth parses a day-month string in any of the supported layouts.
// Returned time carries the parsed year (0 when the layout has none).
func ParseDayMonth(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, fmt.Errorf("empty date")
	}

	for _, format := range dayMonthFormats {
		if t, err := time.Parse(format, value); err == nil {
			return t, nil
		}
	}

	return time.Time{}, fmt.Errorf("unrecognized date %q", value)
}

// FormatDates joins dates with ", " using the given layout
func FormatDates(dates []time.Time, layout string) string {
	parts := make([]string, len(dates))
	for i, d := range dates {
		parts[i] = d.Format(layout)
	}
	return strings.Join(parts, ", ")
}
