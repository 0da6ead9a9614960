package report

import (
	"io"

	"github.com/username/leave-planner/internal/calendar"
	"github.com/username/leave-planner/pkg/dateutil"
)

// CalendarDocument is the JSON form of a city calendar
type CalendarDocument struct {
	City     string            `json:"city"`
	Year     int               `json:"year"`
	Months   []MonthDocument   `json:"months"`
	Holidays []HolidayDocument `json:"holidays"`
	Clusters []ClusterDocument `json:"clusters"`
	Skipped  []HolidayDocument `json:"skipped,omitempty"`
}

// MonthDocument summarizes one month
type MonthDocument struct {
	Month    string `json:"month"`
	WorkDays int    `json:"work_days"`
	Weekends int    `json:"weekends"`
	Holidays int    `json:"holidays"`
}

// HolidayDocument is one holiday of the calendar
type HolidayDocument struct {
	Date   string `json:"date"`
	Note   string `json:"note"`
	Reason string `json:"reason,omitempty"`
}

// ClusterDocument is one run of consecutive days off
type ClusterDocument struct {
	Start  string `json:"start"`
	End    string `json:"end"`
	Length int    `json:"length"`
}

// NewCalendarDocument summarizes a city calendar with its clusters
func NewCalendarDocument(cal *calendar.YearCalendar) CalendarDocument {
	doc := CalendarDocument{
		City:     cal.City,
		Year:     cal.Year,
		Months:   []MonthDocument{},
		Holidays: []HolidayDocument{},
		Clusters: []ClusterDocument{},
	}

	for _, month := range cal.Months() {
		doc.Months = append(doc.Months, MonthDocument{
			Month:    month.Month.String(),
			WorkDays: month.WorkDays,
			Weekends: month.Weekends,
			Holidays: month.Holidays,
		})
	}

	for _, day := range cal.Days {
		if day.Type == calendar.DayTypeHoliday {
			doc.Holidays = append(doc.Holidays, HolidayDocument{
				Date: day.Date.Format(dateutil.ISODateLayout),
				Note: day.Note,
			})
		}
	}

	for _, cluster := range calendar.FindClusters(cal) {
		doc.Clusters = append(doc.Clusters, ClusterDocument{
			Start:  cluster.Start().Format(dateutil.ISODateLayout),
			End:    cluster.End().Format(dateutil.ISODateLayout),
			Length: cluster.Len(),
		})
	}

	for _, skipped := range cal.Skipped {
		doc.Skipped = append(doc.Skipped, HolidayDocument{
			Date:   skipped.Record.Date.String(),
			Note:   skipped.Record.Description,
			Reason: skipped.Reason,
		})
	}

	return doc
}

// PrintCalendar writes the month summaries, holidays and the longest
// clusters of a city calendar
func PrintCalendar(w io.Writer, cal *calendar.YearCalendar, topClusters int) error {
	p := &printer{w: w}
	p.printf("%s %d\n\n", cal.City, cal.Year)

	p.printf("%-10s %9s %9s %9s\n", "Month", "Workdays", "Weekends", "Holidays")
	for _, month := range cal.Months() {
		p.printf("%-10s %9d %9d %9d\n", month.Month, month.WorkDays, month.Weekends, month.Holidays)
	}

	p.printf("\nHolidays:\n")
	holidays := 0
	for _, day := range cal.Days {
		if day.Type == calendar.DayTypeHoliday {
			holidays++
			p.printf("  %s %s: %s\n", day.Date.Format(dateutil.DayMonthYearLayout), day.Date.Weekday().String()[:3], day.Note)
		}
	}
	if holidays == 0 {
		p.printf("  none\n")
	}

	for _, skipped := range cal.Skipped {
		p.printf("  skipped %s %s: %s\n", skipped.Record.Date, skipped.Record.Description, skipped.Reason)
	}

	clusters := calendar.SortByLength(calendar.FindClusters(cal))
	if topClusters > 0 && topClusters < len(clusters) {
		clusters = clusters[:topClusters]
	}

	p.printf("\nLongest breaks:\n")
	for _, cluster := range clusters {
		p.printf("  %s to %s (%d days)\n",
			cluster.Start().Format(dateutil.DayMonthYearLayout),
			cluster.End().Format(dateutil.DayMonthYearLayout),
			cluster.Len())
	}

	return p.err
}
