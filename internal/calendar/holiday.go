package calendar

import (
	"fmt"
	"strings"
	"time"

	"github.com/username/leave-planner/pkg/dateutil"
)

// MonthDay is a year-agnostic calendar date. Holiday sheets carry no year;
// entries are projected onto the planning year.
type MonthDay struct {
	Month time.Month
	Day   int
}

// ParseMonthDay parses values like "26-Jan", "1 May" or "2025-08-15".
// Any year part is discarded.
func ParseMonthDay(value string) (MonthDay, error) {
	t, err := dateutil.ParseDayMonth(value)
	if err != nil {
		return MonthDay{}, err
	}
	return MonthDay{Month: t.Month(), Day: t.Day()}, nil
}

// In resolves the month-day in the given year. Returns false when the date
// does not exist in that year (Feb 29 outside leap years).
func (md MonthDay) In(year int) (time.Time, bool) {
	if md.Month < time.January || md.Month > time.December || md.Day < 1 {
		return time.Time{}, false
	}
	date := dateutil.Date(year, md.Month, md.Day)
	if date.Month() != md.Month || date.Day() != md.Day {
		return time.Time{}, false
	}
	return date, true
}

// String formats as "26-Jan"
func (md MonthDay) String() string {
	if md.Month < time.January || md.Month > time.December {
		return fmt.Sprintf("%02d-???", md.Day)
	}
	return fmt.Sprintf("%02d-%s", md.Day, md.Month.String()[:3])
}

// HolidayRecord is one row of the holiday calendar
type HolidayRecord struct {
	Date        MonthDay
	Description string
	Cities      []string
}

// ObservedIn reports whether the holiday applies to the city
func (r HolidayRecord) ObservedIn(city string) bool {
	for _, c := range r.Cities {
		if c == city {
			return true
		}
	}
	return false
}

// SkippedHoliday records a holiday that could not be placed on the calendar
type SkippedHoliday struct {
	Record HolidayRecord
	Reason string
}

func holidayNote(description string) string {
	description = strings.TrimSpace(description)
	if description == "" {
		return "Holiday"
	}
	return description
}
