package report

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/username/leave-planner/internal/bridge"
	"github.com/username/leave-planner/internal/planner"
	"github.com/username/leave-planner/pkg/dateutil"
)

// DefaultTopN is the number of suggestions reported per employee
const DefaultTopN = 3

// ErrUnknownFormat is returned for report formats other than csv, json and ics
var ErrUnknownFormat = errors.New("unknown report format")

// Format of a report
type Format string

const (
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
	FormatICS  Format = "ics"
)

// ParseFormat parses a report format name
func ParseFormat(value string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(value))) {
	case FormatCSV:
		return FormatCSV, nil
	case FormatJSON:
		return FormatJSON, nil
	case FormatICS:
		return FormatICS, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, value)
	}
}

// Writer renders leave plans
type Writer interface {
	Write(w io.Writer, plans []planner.Plan) error
}

// New creates the writer for a format. topN <= 0 means DefaultTopN.
func New(format Format, topN int) (Writer, error) {
	if topN <= 0 {
		topN = DefaultTopN
	}

	switch format {
	case FormatCSV:
		return &CSVWriter{TopN: topN}, nil
	case FormatJSON:
		return &JSONWriter{TopN: topN, Indent: true}, nil
	case FormatICS:
		return &ICSWriter{TopN: topN}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}

// WriteFile renders the plans into a file, replacing it
func WriteFile(path string, writer Writer, plans []planner.Plan) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create report file: %w", err)
	}

	if err := writer.Write(file, plans); err != nil {
		file.Close()
		return fmt.Errorf("failed to write report: %w", err)
	}

	if err := file.Close(); err != nil {
		return fmt.Errorf("failed to close report file: %w", err)
	}

	return nil
}

// Row is one line of the spreadsheet-shaped report
type Row struct {
	EmployeeName    string
	EmployeeID      string
	City            string
	AvailableLeaves int
	Suggestion      string
	StartDate       string
	EndDate         string
	LeavesRequired  string
	TotalDaysOff    string
	LeaveDates      string
	HolidayInfo     string
}

// Rows flattens plans into report rows: up to topN "Option n" rows per
// employee, or a single placeholder row when a plan has no suggestions.
func Rows(plans []planner.Plan, topN int) []Row {
	var rows []Row

	for _, plan := range plans {
		base := Row{
			EmployeeName:    plan.EmployeeName,
			EmployeeID:      plan.EmployeeID,
			City:            plan.City,
			AvailableLeaves: plan.LeaveBalance,
		}

		suggestions := plan.Top(topN)
		if len(suggestions) == 0 {
			row := base
			row.Suggestion = planner.MessageNoSuggestions
			rows = append(rows, row)
			continue
		}

		for i, s := range suggestions {
			row := base
			row.Suggestion = optionLabel(i)
			row.StartDate = s.Start.Format(dateutil.DayMonthYearLayout)
			row.EndDate = s.End.Format(dateutil.DayMonthYearLayout)
			row.LeavesRequired = strconv.Itoa(s.LeavesUsed)
			row.TotalDaysOff = strconv.Itoa(s.TotalDaysOff)
			row.LeaveDates = dateutil.FormatDates(s.LeaveDates, dateutil.DayMonthYearLayout)
			row.HolidayInfo = strings.Join(s.HolidayInfo, ", ")
			rows = append(rows, row)
		}
	}

	return rows
}

func optionLabel(index int) string {
	return fmt.Sprintf("Option %d", index+1)
}

// PrintSummary writes the human readable per-employee summary
func PrintSummary(w io.Writer, plans []planner.Plan, topN int) error {
	if topN <= 0 {
		topN = DefaultTopN
	}

	p := &printer{w: w}
	p.printf("Top suggestions for each employee:\n")

	for _, plan := range plans {
		p.printf("\n%s (%s)\n", plan.EmployeeName, plan.City)

		for _, warning := range plan.Warnings {
			p.printf("  Warning: %s\n", warning)
		}

		suggestions := plan.Top(topN)
		if len(suggestions) == 0 {
			message := plan.Message
			if message == "" {
				message = planner.MessageNoSuggestions
			}
			p.printf("  %s\n", message)
			continue
		}

		for i, s := range suggestions {
			p.printf("  %s: %s to %s\n", optionLabel(i),
				s.Start.Format(dateutil.DayMonthYearLayout), s.End.Format(dateutil.DayMonthYearLayout))
			p.printf("    Take leave on: %s\n", dateutil.FormatDates(s.LeaveDates, dateutil.DayMonthYearLayout))
			p.printf("    Total days off: %d\n", s.TotalDaysOff)
			p.printf("    Holiday information: %s\n", holidaySummary(s))
		}
	}

	return p.err
}

func holidaySummary(s bridge.Suggestion) string {
	if len(s.HolidayInfo) == 0 {
		return "-"
	}
	return strings.Join(s.HolidayInfo, ", ")
}

// printer keeps the first write error
type printer struct {
	w   io.Writer
	err error
}

func (p *printer) printf(format string, args ...any) {
	if p.err != nil {
		return
	}
	_, p.err = fmt.Fprintf(p.w, format, args...)
}
