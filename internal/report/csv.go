package report

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/username/leave-planner/internal/planner"
)

var csvHeader = []string{
	"Employee Name",
	"Employee ID",
	"City",
	"Available Leaves",
	"Suggestion",
	"Start Date",
	"End Date",
	"Leaves Required",
	"Total Days Off",
	"Leave Dates",
	"Holiday Information",
}

// CSVWriter writes the spreadsheet-shaped report
type CSVWriter struct {
	TopN int
}

// Write implements Writer
func (c *CSVWriter) Write(w io.Writer, plans []planner.Plan) error {
	out := csv.NewWriter(w)

	if err := out.Write(csvHeader); err != nil {
		return err
	}

	for _, row := range Rows(plans, c.TopN) {
		record := []string{
			row.EmployeeName,
			row.EmployeeID,
			row.City,
			strconv.Itoa(row.AvailableLeaves),
			row.Suggestion,
			row.StartDate,
			row.EndDate,
			row.LeavesRequired,
			row.TotalDaysOff,
			row.LeaveDates,
			row.HolidayInfo,
		}
		if err := out.Write(record); err != nil {
			return err
		}
	}

	out.Flush()
	return out.Error()
}
