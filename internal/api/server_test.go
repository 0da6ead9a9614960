package api

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/username/leave-planner/internal/bridge"
	"github.com/username/leave-planner/internal/calendar"
	"github.com/username/leave-planner/internal/planner"
	"github.com/username/leave-planner/internal/report"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	records := []calendar.HolidayRecord{
		{Date: calendar.MonthDay{Month: time.March, Day: 14}, Description: "Holi", Cities: []string{"Mumbai", "Delhi"}},
		{Date: calendar.MonthDay{Month: time.October, Day: 20}, Description: "Diwali", Cities: []string{"Mumbai", "Bangalore"}},
	}
	p := planner.New(records, []string{"Mumbai", "Delhi", "Bangalore"}, planner.Options{
		Year:   2025,
		Policy: bridge.DefaultPolicy(),
	}, nil)

	employees := []planner.EmployeeRecord{
		{Name: "Asha", ID: "E1", City: "Mumbai", LeaveBalance: "10"},
		{Name: "Zed", ID: "E9", City: "Atlantis", LeaveBalance: "5"},
		{Name: "NoID", City: "Delhi", LeaveBalance: "2"},
	}

	srv := httptest.NewServer(NewServer(p, employees, Options{TopN: 3}, nil).Handler())
	t.Cleanup(srv.Close)
	return srv
}

func getJSON(t *testing.T, url string, wantStatus int, out any) {
	t.Helper()

	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, wantStatus, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))
	require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
}

func TestHealth(t *testing.T) {
	srv := newTestServer(t)

	var body map[string]string
	getJSON(t, srv.URL+"/healthz", http.StatusOK, &body)

	assert.Equal(t, "ok", body["status"])
}

func TestListCities(t *testing.T) {
	srv := newTestServer(t)

	var body CitiesResponse
	getJSON(t, srv.URL+"/api/cities", http.StatusOK, &body)

	assert.Equal(t, 2025, body.Year)
	assert.Equal(t, []string{"Mumbai", "Delhi", "Bangalore"}, body.Cities)
}

func TestGetCalendar(t *testing.T) {
	srv := newTestServer(t)

	var doc report.CalendarDocument
	getJSON(t, srv.URL+"/api/calendar/delhi", http.StatusOK, &doc)

	assert.Equal(t, "Delhi", doc.City)
	assert.Len(t, doc.Months, 12)
	assert.Equal(t, []report.HolidayDocument{{Date: "2025-03-14", Note: "Holi"}}, doc.Holidays)

	var errBody ErrorResponse
	getJSON(t, srv.URL+"/api/calendar/Atlantis", http.StatusNotFound, &errBody)
	assert.Equal(t, "City 'Atlantis' not found in holiday list", errBody.Error)
}

func TestListPlans(t *testing.T) {
	srv := newTestServer(t)

	var body PlansResponse
	getJSON(t, srv.URL+"/api/plans", http.StatusOK, &body)

	require.Len(t, body.Plans, 3)
	assert.Equal(t, "Asha", body.Plans[0].EmployeeName)
	assert.Equal(t, "ok", body.Plans[0].Status)
	assert.LessOrEqual(t, len(body.Plans[0].Suggestions), 3)
	assert.Equal(t, "city_not_found", body.Plans[1].Status)
	assert.Empty(t, body.Plans[1].Suggestions)

	var limited PlansResponse
	getJSON(t, srv.URL+"/api/plans?top=1", http.StatusOK, &limited)
	assert.Len(t, limited.Plans[0].Suggestions, 1)

	var errBody ErrorResponse
	getJSON(t, srv.URL+"/api/plans?top=-1", http.StatusBadRequest, &errBody)
	assert.Equal(t, "invalid top parameter", errBody.Error)
}

func TestGetPlan(t *testing.T) {
	srv := newTestServer(t)

	var doc report.PlanDocument
	getJSON(t, srv.URL+"/api/plans/E1", http.StatusOK, &doc)
	assert.Equal(t, "Asha", doc.EmployeeName)
	require.Len(t, doc.Suggestions, 3)
	assert.Equal(t, "2025-01-02", doc.Suggestions[0].StartDate)
	assert.Equal(t, "2", doc.Suggestions[0].Value.String())
	assert.Equal(t, "2025-10-22", doc.Suggestions[2].EndDate)
	assert.Equal(t, []string{"20-Oct: Diwali"}, doc.Suggestions[2].HolidayInfo)

	var byName report.PlanDocument
	getJSON(t, srv.URL+"/api/plans/NoID", http.StatusOK, &byName)
	assert.Equal(t, "Delhi", byName.City)

	var errBody ErrorResponse
	getJSON(t, srv.URL+"/api/plans/E404", http.StatusNotFound, &errBody)
}

func TestCreatePlans(t *testing.T) {
	srv := newTestServer(t)

	tests := []struct {
		name       string
		body       string
		wantStatus int
		check      func(t *testing.T, resp *http.Response)
	}{
		{
			name:       "mixed balances",
			body:       `{"employees": [{"name": "Kiran", "city": "banglore", "leave_balance": 10}, {"name": "Meera", "city": "Mumbai", "leave_balance": "N/A"}]}`,
			wantStatus: http.StatusOK,
			check: func(t *testing.T, resp *http.Response) {
				var body PlansResponse
				require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
				require.Len(t, body.Plans, 2)
				assert.Equal(t, "Bangalore", body.Plans[0].City)
				assert.Equal(t, "fuzzy", body.Plans[0].CityMatch)
				assert.Equal(t, 10, body.Plans[0].LeaveBalance)
				assert.Equal(t, 10, body.Plans[1].LeaveBalance)
				assert.Len(t, body.Plans[1].Warnings, 1)
			},
		},
		{
			name:       "zero budget",
			body:       `{"employees": [{"id": "E5", "city": "Delhi", "leave_balance": 0}]}`,
			wantStatus: http.StatusOK,
			check: func(t *testing.T, resp *http.Response) {
				var body PlansResponse
				require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
				require.Len(t, body.Plans, 1)
				assert.Equal(t, "no_suggestions", body.Plans[0].Status)
				assert.Equal(t, planner.MessageNoSuggestions, body.Plans[0].Message)
			},
		},
		{
			name:       "malformed json",
			body:       `{"employees": [`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "empty list",
			body:       `{"employees": []}`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "anonymous employee",
			body:       `{"employees": [{"city": "Delhi"}]}`,
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := http.Post(srv.URL+"/api/plans", "application/json", strings.NewReader(tt.body))
			require.NoError(t, err)
			defer resp.Body.Close()

			require.Equal(t, tt.wantStatus, resp.StatusCode)
			if tt.check != nil {
				tt.check(t, resp)
			}
		})
	}
}

func TestCORS(t *testing.T) {
	srv := newTestServer(t)

	req, err := http.NewRequest(http.MethodOptions, srv.URL+"/api/cities", nil)
	require.NoError(t, err)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", "GET")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))
}
