package report

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/username/leave-planner/internal/planner"
	"github.com/username/leave-planner/pkg/dateutil"
)

const (
	icsProductID = "-//leave-planner//Leave Suggestions//EN"
	icsDate      = "20060102"
	icsTimestamp = "20060102T150405Z"
)

// ICSWriter writes one all-day event per suggestion
type ICSWriter struct {
	TopN int
	// Now stamps the events, time.Now when nil
	Now func() time.Time
}

// Write implements Writer
func (c *ICSWriter) Write(w io.Writer, plans []planner.Plan) error {
	now := time.Now
	if c.Now != nil {
		now = c.Now
	}
	stamp := now().UTC().Format(icsTimestamp)

	p := &printer{w: w}
	line := func(format string, args ...any) {
		p.printf(format+"\r\n", args...)
	}

	line("BEGIN:VCALENDAR")
	line("VERSION:2.0")
	line("PRODID:%s", icsProductID)
	line("CALSCALE:GREGORIAN")
	line("X-WR-CALNAME:Leave suggestions")

	for _, plan := range plans {
		owner := plan.EmployeeID
		if owner == "" {
			owner = plan.EmployeeName
		}

		for i, s := range plan.Top(c.TopN) {
			description := []string{
				"Take leave on: " + dateutil.FormatDates(s.LeaveDates, dateutil.DayMonthYearLayout),
				fmt.Sprintf("Total days off: %d", s.TotalDaysOff),
				fmt.Sprintf("Leaves required: %d", s.LeavesUsed),
			}
			if len(s.HolidayInfo) > 0 {
				description = append(description, "Holiday information: "+strings.Join(s.HolidayInfo, ", "))
			}

			line("BEGIN:VEVENT")
			line("UID:%s-%s-%d@leave-planner", uidPart(owner), s.Start.Format(icsDate), i+1)
			line("DTSTAMP:%s", stamp)
			line("DTSTART;VALUE=DATE:%s", s.Start.Format(icsDate))
			line("DTEND;VALUE=DATE:%s", s.End.AddDate(0, 0, 1).Format(icsDate))
			line("SUMMARY:%s", escapeText(fmt.Sprintf("%s: %s (%s)", plan.EmployeeName, optionLabel(i), plan.City)))
			line("DESCRIPTION:%s", escapeText(strings.Join(description, "\n")))
			line("LOCATION:%s", escapeText(plan.City))
			line("TRANSP:TRANSPARENT")
			line("END:VEVENT")
		}
	}

	line("END:VCALENDAR")

	return p.err
}

func escapeText(value string) string {
	replacer := strings.NewReplacer(
		`\`, `\\`,
		";", `\;`,
		",", `\,`,
		"\r\n", `\n`,
		"\n", `\n`,
	)
	return replacer.Replace(value)
}

func uidPart(value string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		default:
			return '-'
		}
	}, strings.TrimSpace(value))
}
