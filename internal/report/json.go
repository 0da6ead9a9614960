package report

import (
	"io"

	"github.com/goccy/go-json"
	"github.com/shopspring/decimal"
	"github.com/username/leave-planner/internal/bridge"
	"github.com/username/leave-planner/internal/planner"
	"github.com/username/leave-planner/pkg/dateutil"
)

// PlanDocument is the JSON form of a plan
type PlanDocument struct {
	EmployeeName  string               `json:"employee_name"`
	EmployeeID    string               `json:"employee_id,omitempty"`
	RequestedCity string               `json:"requested_city"`
	City          string               `json:"city"`
	CityMatch     string               `json:"city_match,omitempty"`
	LeaveBalance  int                  `json:"leave_balance"`
	Status        string               `json:"status"`
	Message       string               `json:"message,omitempty"`
	Warnings      []string             `json:"warnings,omitempty"`
	Suggestions   []SuggestionDocument `json:"suggestions"`
}

// SuggestionDocument is the JSON form of a suggestion
type SuggestionDocument struct {
	Option       int             `json:"option"`
	StartDate    string          `json:"start_date"`
	EndDate      string          `json:"end_date"`
	LeaveDates   []string        `json:"leave_dates"`
	LeavesUsed   int             `json:"leaves_used"`
	TotalDaysOff int             `json:"total_days_off"`
	Value        decimal.Decimal `json:"value"`
	HolidayInfo  []string        `json:"holiday_info"`
}

// NewPlanDocument converts a plan, keeping at most topN suggestions (all when topN <= 0)
func NewPlanDocument(plan planner.Plan, topN int) PlanDocument {
	doc := PlanDocument{
		EmployeeName:  plan.EmployeeName,
		EmployeeID:    plan.EmployeeID,
		RequestedCity: plan.RequestedCity,
		City:          plan.City,
		LeaveBalance:  plan.LeaveBalance,
		Status:        string(plan.Status),
		Message:       plan.Message,
		Warnings:      plan.Warnings,
		Suggestions:   []SuggestionDocument{},
	}
	if plan.CityMatch != planner.MatchNone {
		doc.CityMatch = string(plan.CityMatch)
	}

	for i, s := range plan.Top(topN) {
		doc.Suggestions = append(doc.Suggestions, NewSuggestionDocument(i, s))
	}

	return doc
}

// NewSuggestionDocument converts the suggestion at the given rank position
func NewSuggestionDocument(index int, s bridge.Suggestion) SuggestionDocument {
	leaveDates := make([]string, 0, len(s.LeaveDates))
	for _, d := range s.LeaveDates {
		leaveDates = append(leaveDates, d.Format(dateutil.ISODateLayout))
	}

	holidayInfo := s.HolidayInfo
	if holidayInfo == nil {
		holidayInfo = []string{}
	}

	return SuggestionDocument{
		Option:       index + 1,
		StartDate:    s.Start.Format(dateutil.ISODateLayout),
		EndDate:      s.End.Format(dateutil.ISODateLayout),
		LeaveDates:   leaveDates,
		LeavesUsed:   s.LeavesUsed,
		TotalDaysOff: s.TotalDaysOff,
		Value:        s.Value,
		HolidayInfo:  holidayInfo,
	}
}

// JSONWriter writes plans as a JSON array
type JSONWriter struct {
	TopN   int
	Indent bool
}

// Write implements Writer
func (j *JSONWriter) Write(w io.Writer, plans []planner.Plan) error {
	docs := make([]PlanDocument, 0, len(plans))
	for _, plan := range plans {
		docs = append(docs, NewPlanDocument(plan, j.TopN))
	}

	encoder := json.NewEncoder(w)
	if j.Indent {
		encoder.SetIndent("", "  ")
	}

	return encoder.Encode(docs)
}
