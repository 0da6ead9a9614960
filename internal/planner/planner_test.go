package planner

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/username/leave-planner/internal/bridge"
	"github.com/username/leave-planner/internal/calendar"
	"github.com/username/leave-planner/pkg/dateutil"
)

var testCities = []string{"Mumbai", "Delhi", "Bangalore", "Chennai", "Hyderabad"}

func testHolidays() []calendar.HolidayRecord {
	all := []string{"Mumbai", "Delhi", "Bangalore", "Chennai", "Hyderabad"}
	return []calendar.HolidayRecord{
		{Date: calendar.MonthDay{Month: 1, Day: 26}, Description: "Republic Day", Cities: all},
		{Date: calendar.MonthDay{Month: 3, Day: 14}, Description: "Holi", Cities: []string{"Mumbai", "Delhi"}},
		{Date: calendar.MonthDay{Month: 8, Day: 15}, Description: "Independence Day", Cities: all},
		{Date: calendar.MonthDay{Month: 10, Day: 2}, Description: "Gandhi Jayanti", Cities: all},
		{Date: calendar.MonthDay{Month: 10, Day: 20}, Description: "Diwali", Cities: []string{"Mumbai", "Bangalore"}},
		{Date: calendar.MonthDay{Month: 12, Day: 25}, Description: "Christmas", Cities: all},
	}
}

func newTestPlanner() *Planner {
	return New(testHolidays(), testCities, Options{
		Year:   2025,
		Policy: bridge.DefaultPolicy(),
	}, nil)
}

func TestPlanEmployee_Mumbai(t *testing.T) {
	p := newTestPlanner()

	plan := p.PlanEmployee(EmployeeRecord{Name: "Asha", ID: "E1", City: "Mumbai", LeaveBalance: "10"})

	require.Equal(t, StatusOK, plan.Status)
	assert.Equal(t, "Mumbai", plan.City)
	assert.Equal(t, MatchExact, plan.CityMatch)
	assert.Equal(t, 10, plan.LeaveBalance)
	assert.Empty(t, plan.Warnings)
	require.Len(t, plan.Suggestions, 3)

	top := plan.Suggestions[0]
	assert.Equal(t, dateutil.Date(2025, 10, 16), top.Start)
	assert.Equal(t, dateutil.Date(2025, 10, 20), top.End)
	assert.Equal(t, "2.5", top.Value.String())
	assert.Equal(t, []string{"20-Oct: Diwali"}, top.HolidayInfo)

	assert.Equal(t, dateutil.Date(2025, 3, 12), plan.Suggestions[1].Start)
	assert.Equal(t, dateutil.Date(2025, 3, 18), plan.Suggestions[1].End)
	assert.Equal(t, "1.75", plan.Suggestions[1].Value.String())
	assert.Equal(t, []string{"14-Mar: Holi"}, plan.Suggestions[1].HolidayInfo)

	assert.Equal(t, dateutil.Date(2025, 8, 13), plan.Suggestions[2].Start)
	assert.Equal(t, dateutil.Date(2025, 8, 19), plan.Suggestions[2].End)

	assert.LessOrEqual(t, bridge.TotalLeaves(plan.Suggestions), 10)
}

func TestNew_ZeroOptionsUseDefaults(t *testing.T) {
	records := []calendar.HolidayRecord{
		{Date: calendar.MonthDay{Month: 1, Day: 15}, Description: "Midweek", Cities: []string{"Mumbai"}},
	}

	tests := []struct {
		name string
		opts Options
	}{
		{"zero options", Options{}},
		{"year only", Options{Year: 2025}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := New(records, []string{"Mumbai"}, tt.opts, nil)
			assert.Equal(t, DefaultYear, p.Year())

			plan := p.PlanEmployee(EmployeeRecord{Name: "Asha", City: "Mumbai", LeaveBalance: "1000"})
			require.NotEmpty(t, plan.Suggestions)
			for _, s := range plan.Suggestions {
				assert.True(t, s.Value.GreaterThanOrEqual(bridge.DefaultPolicy().MinValue),
					"suggestion %s value %s below threshold", s.Start.Format("2006-01-02"), s.Value)
				assert.Equal(t, DefaultYear, s.Start.Year())
			}
		})
	}
}

func TestPlanEmployee_SmallBudget(t *testing.T) {
	p := newTestPlanner()

	plan := p.PlanEmployee(EmployeeRecord{Name: "Ravi", City: "Mumbai", LeaveBalance: "3"})

	require.Equal(t, StatusOK, plan.Status)
	require.Len(t, plan.Suggestions, 1)

	s := plan.Suggestions[0]
	assert.Equal(t, dateutil.Date(2025, 3, 12), s.Start)
	assert.Equal(t, dateutil.Date(2025, 3, 17), s.End)
	assert.Equal(t, 3, s.LeavesUsed)
	assert.Equal(t, "2", s.Value.String())
}

func TestPlanEmployee_InvalidBalanceUsesDefault(t *testing.T) {
	p := newTestPlanner()

	plan := p.PlanEmployee(EmployeeRecord{Name: "Meera", City: "Delhi", LeaveBalance: "N/A"})

	assert.Equal(t, 10, plan.LeaveBalance)
	require.Len(t, plan.Warnings, 1)
	assert.Equal(t, `Invalid leave value "N/A". Using default of 10.`, plan.Warnings[0])
	assert.Equal(t, StatusOK, plan.Status)
	assert.LessOrEqual(t, bridge.TotalLeaves(plan.Suggestions), 10)
}

func TestPlanEmployee_CustomDefaultBalance(t *testing.T) {
	p := New(testHolidays(), testCities, Options{Year: 2025, DefaultLeaveBalance: 4, Policy: bridge.DefaultPolicy()}, nil)

	plan := p.PlanEmployee(EmployeeRecord{Name: "Meera", City: "Delhi", LeaveBalance: ""})

	assert.Equal(t, 4, plan.LeaveBalance)
	assert.Len(t, plan.Warnings, 1)
	assert.LessOrEqual(t, bridge.TotalLeaves(plan.Suggestions), 4)
}

func TestPlanEmployee_FuzzyCity(t *testing.T) {
	p := newTestPlanner()

	plan := p.PlanEmployee(EmployeeRecord{Name: "Kiran", City: "banglore", LeaveBalance: "10"})

	assert.Equal(t, "Bangalore", plan.City)
	assert.Equal(t, "banglore", plan.RequestedCity)
	assert.Equal(t, MatchFuzzy, plan.CityMatch)
	assert.Equal(t, StatusOK, plan.Status)
	assert.NotEmpty(t, plan.Suggestions)
}

func TestPlanEmployee_CityNotFound(t *testing.T) {
	p := newTestPlanner()

	plan := p.PlanEmployee(EmployeeRecord{Name: "Zed", ID: "E9", City: "Atlantis", LeaveBalance: "12"})

	assert.Equal(t, StatusCityNotFound, plan.Status)
	assert.Equal(t, "City 'Atlantis' not found in holiday list", plan.Message)
	assert.Equal(t, "Atlantis", plan.City)
	assert.Equal(t, MatchNone, plan.CityMatch)
	assert.Equal(t, 0, plan.LeaveBalance)
	assert.Empty(t, plan.Suggestions)
}

func TestPlanEmployee_CityNotFoundWithInvalidBalance(t *testing.T) {
	p := newTestPlanner()

	plan := p.PlanEmployee(EmployeeRecord{Name: "Zed", City: "Atlantis", LeaveBalance: "N/A"})

	assert.Equal(t, StatusCityNotFound, plan.Status)
	assert.Equal(t, 0, plan.LeaveBalance)
	require.Len(t, plan.Warnings, 1)
	assert.Equal(t, `Invalid leave value "N/A". Not planned: city not found.`, plan.Warnings[0])
	assert.NotContains(t, plan.Warnings[0], "Using default")
}

func TestPlanEmployee_BlankCity(t *testing.T) {
	p := newTestPlanner()

	plan := p.PlanEmployee(EmployeeRecord{Name: "Zed", City: "  ", LeaveBalance: "12"})

	assert.Equal(t, StatusCityNotFound, plan.Status)
	assert.Empty(t, plan.Suggestions)
}

func TestPlanEmployee_ZeroBalance(t *testing.T) {
	p := newTestPlanner()

	plan := p.PlanEmployee(EmployeeRecord{Name: "Nil", City: "Chennai", LeaveBalance: "0"})

	assert.Equal(t, StatusNoSuggestions, plan.Status)
	assert.Equal(t, MessageNoSuggestions, plan.Message)
	assert.Empty(t, plan.Warnings)
	assert.Empty(t, plan.Suggestions)
}

func TestAssemblePlans_OrderAndIsolation(t *testing.T) {
	p := newTestPlanner()

	employees := []EmployeeRecord{
		{Name: "A", City: "Mumbai", LeaveBalance: "10"},
		{Name: "B", City: "Atlantis", LeaveBalance: "10"},
		{Name: "C", City: "Delhi", LeaveBalance: "oops"},
		{Name: "D", City: "Chennai", LeaveBalance: "0"},
	}

	plans := p.AssemblePlans(employees)

	require.Len(t, plans, len(employees))
	for i, plan := range plans {
		assert.Equal(t, employees[i].Name, plan.EmployeeName)
	}
	assert.Equal(t, StatusOK, plans[0].Status)
	assert.Equal(t, StatusCityNotFound, plans[1].Status)
	assert.Equal(t, StatusOK, plans[2].Status)
	assert.Equal(t, StatusNoSuggestions, plans[3].Status)

	alone := p.PlanEmployee(employees[0])
	assert.Equal(t, alone, plans[0])
}

func TestAssemblePlans_Idempotent(t *testing.T) {
	p := newTestPlanner()
	employees := []EmployeeRecord{
		{Name: "A", City: "mumbai", LeaveBalance: "10"},
		{Name: "B", City: "banglore", LeaveBalance: "5"},
	}

	first := p.AssemblePlans(employees)
	second := p.AssemblePlans(employees)

	assert.Equal(t, first, second)
}

func TestAssemblePlans_Empty(t *testing.T) {
	p := newTestPlanner()

	plans := p.AssemblePlans(nil)

	assert.NotNil(t, plans)
	assert.Empty(t, plans)
}

func TestPlanner_Calendar(t *testing.T) {
	p := newTestPlanner()

	cal, ok := p.Calendar("new delhi")
	require.True(t, ok)
	assert.Equal(t, "Delhi", cal.City)
	assert.Equal(t, 2025, cal.Year)

	_, ok = p.Calendar("Atlantis")
	assert.False(t, ok)
}

func TestPlan_Top(t *testing.T) {
	plan := Plan{Suggestions: make([]bridge.Suggestion, 5)}

	assert.Len(t, plan.Top(3), 3)
	assert.Len(t, plan.Top(0), 5)
	assert.Len(t, plan.Top(10), 5)
	assert.Empty(t, Plan{}.Top(3))
}

func TestResolveLeaveBalance(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    int
		wantErr bool
	}{
		{"integer", "12", 12, false},
		{"padded", " 7 ", 7, false},
		{"zero", "0", 0, false},
		{"float text", "12.0", 12, false},
		{"fraction truncated", "3.9", 3, false},
		{"empty", "", 0, true},
		{"text", "N/A", 0, true},
		{"negative", "-2", 0, true},
		{"negative float", "-2.5", 0, true},
		{"nan", "NaN", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ResolveLeaveBalance(tt.raw)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
