package calendar

import (
	"fmt"
	"time"

	"github.com/username/leave-planner/pkg/dateutil"
)

// DayType represents the type of day
type DayType int

const (
	DayTypeWorkday DayType = iota + 1
	DayTypeWeekend
	DayTypeHoliday
)

// String returns the day type name
func (t DayType) String() string {
	switch t {
	case DayTypeWorkday:
		return "Workday"
	case DayTypeWeekend:
		return "Weekend"
	case DayTypeHoliday:
		return "Holiday"
	default:
		return fmt.Sprintf("DayType(%d)", int(t))
	}
}

// IsOff reports whether the day is non-working (holiday or weekend)
func (t DayType) IsOff() bool {
	return t == DayTypeHoliday || t == DayTypeWeekend
}

// DayInfo represents information about a specific day
type DayInfo struct {
	Date time.Time
	Type DayType
	Note string // holiday description, empty otherwise
}

// IsWorkday reports whether the day can be taken as leave
func (d DayInfo) IsWorkday() bool {
	return d.Type == DayTypeWorkday
}

// MonthInfo represents calendar information for a month
type MonthInfo struct {
	Year     int
	Month    time.Month
	WorkDays int
	Weekends int
	Holidays int
	Days     []DayInfo
}

// YearCalendar is the day classification of one city for one year.
// Days holds exactly one entry per date, indexed by day of year.
type YearCalendar struct {
	City    string
	Year    int
	Days    []DayInfo
	Skipped []SkippedHoliday
}

// Build classifies every date of the year for the city. A date is a Holiday
// if any record observed in the city falls on it, else a Weekend on
// Saturday/Sunday, else a Workday. Records that do not resolve in the year
// are collected in Skipped.
func Build(city string, records []HolidayRecord, year int) *YearCalendar {
	cal := &YearCalendar{
		City: city,
		Year: year,
		Days: make([]DayInfo, 0, dateutil.DaysInYear(year)),
	}

	// yearday -> description; later records overwrite earlier ones
	holidays := make(map[int]string)
	for _, rec := range records {
		if !rec.ObservedIn(city) {
			continue
		}
		date, ok := rec.Date.In(year)
		if !ok {
			cal.Skipped = append(cal.Skipped, SkippedHoliday{
				Record: rec,
				Reason: fmt.Sprintf("%s does not exist in %d", rec.Date, year),
			})
			continue
		}
		holidays[date.YearDay()] = holidayNote(rec.Description)
	}

	end := dateutil.EndOfYear(year)
	for date := dateutil.StartOfYear(year); !date.After(end); date = date.AddDate(0, 0, 1) {
		day := DayInfo{Date: date, Type: DayTypeWorkday}
		if note, ok := holidays[date.YearDay()]; ok {
			day.Type = DayTypeHoliday
			day.Note = note
		} else if dateutil.IsWeekend(date) {
			day.Type = DayTypeWeekend
		}
		cal.Days = append(cal.Days, day)
	}

	return cal
}

// Start returns Jan 1 of the calendar year
func (c *YearCalendar) Start() time.Time {
	return dateutil.StartOfYear(c.Year)
}

// End returns Dec 31 of the calendar year
func (c *YearCalendar) End() time.Time {
	return dateutil.EndOfYear(c.Year)
}

// Day returns the classification of a date; ok is false outside the year
func (c *YearCalendar) Day(date time.Time) (DayInfo, bool) {
	if date.Year() != c.Year {
		return DayInfo{}, false
	}
	idx := date.YearDay() - 1
	if idx < 0 || idx >= len(c.Days) {
		return DayInfo{}, false
	}
	return c.Days[idx], true
}

// IsWorkday reports whether the date is inside the year and a workday
func (c *YearCalendar) IsWorkday(date time.Time) bool {
	day, ok := c.Day(date)
	return ok && day.IsWorkday()
}

// Months splits the calendar into per-month summaries
func (c *YearCalendar) Months() []MonthInfo {
	months := make([]MonthInfo, 0, 12)
	var current *MonthInfo

	for _, day := range c.Days {
		if current == nil || current.Month != day.Date.Month() {
			months = append(months, MonthInfo{Year: c.Year, Month: day.Date.Month()})
			current = &months[len(months)-1]
		}
		current.Days = append(current.Days, day)

		switch day.Type {
		case DayTypeWorkday:
			current.WorkDays++
		case DayTypeWeekend:
			current.Weekends++
		case DayTypeHoliday:
			current.Holidays++
		}
	}

	return months
}
