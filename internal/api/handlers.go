package api

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"
	"github.com/username/leave-planner/internal/planner"
	"github.com/username/leave-planner/internal/report"
	"go.uber.org/zap"
)

// maxBodyBytes caps POST /api/plans request bodies
const maxBodyBytes = 1 << 20

// ErrorResponse is the body of every non-2xx response
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// CitiesResponse lists the known cities
type CitiesResponse struct {
	Year   int      `json:"year"`
	Cities []string `json:"cities"`
}

// PlansResponse wraps a list of plans
type PlansResponse struct {
	Year  int                   `json:"year"`
	Plans []report.PlanDocument `json:"plans"`
}

// EmployeeRequest is one employee of a POST /api/plans request. LeaveBalance
// accepts numbers and text.
type EmployeeRequest struct {
	Name         string `json:"name"`
	ID           string `json:"id"`
	City         string `json:"city"`
	LeaveBalance any    `json:"leave_balance"`
}

// PlanRequest is the body of POST /api/plans
type PlanRequest struct {
	Employees []EmployeeRequest `json:"employees"`
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) listCities(w http.ResponseWriter, r *http.Request) {
	cities := s.planner.Cities()
	if cities == nil {
		cities = []string{}
	}

	writeJSON(w, http.StatusOK, CitiesResponse{
		Year:   s.planner.Year(),
		Cities: cities,
	})
}

func (s *Server) getCalendar(w http.ResponseWriter, r *http.Request) {
	city := chi.URLParam(r, "city")

	cal, ok := s.planner.Calendar(city)
	if !ok {
		writeError(w, http.StatusNotFound, fmt.Sprintf("City '%s' not found in holiday list", city), nil)
		return
	}

	writeJSON(w, http.StatusOK, report.NewCalendarDocument(cal))
}

func (s *Server) listPlans(w http.ResponseWriter, r *http.Request) {
	topN, err := s.topN(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid top parameter", err)
		return
	}

	s.writePlans(w, s.planner.AssemblePlans(s.employees), topN)
}

func (s *Server) getPlan(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "employeeID")

	topN, err := s.topN(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid top parameter", err)
		return
	}

	for _, employee := range s.employees {
		if employee.ID == key || (employee.ID == "" && employee.Name == key) {
			plan := s.planner.PlanEmployee(employee)
			writeJSON(w, http.StatusOK, report.NewPlanDocument(plan, topN))
			return
		}
	}

	writeError(w, http.StatusNotFound, fmt.Sprintf("employee '%s' not found", key), nil)
}

func (s *Server) createPlans(w http.ResponseWriter, r *http.Request) {
	topN, err := s.topN(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid top parameter", err)
		return
	}

	var req PlanRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}
	if len(req.Employees) == 0 {
		writeError(w, http.StatusBadRequest, "no employees given", nil)
		return
	}

	employees := make([]planner.EmployeeRecord, 0, len(req.Employees))
	for i, e := range req.Employees {
		if strings.TrimSpace(e.Name) == "" && strings.TrimSpace(e.ID) == "" {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("employee %d: name or id is required", i+1), nil)
			return
		}
		employees = append(employees, planner.EmployeeRecord{
			Name:         strings.TrimSpace(e.Name),
			ID:           strings.TrimSpace(e.ID),
			City:         strings.TrimSpace(e.City),
			LeaveBalance: balanceText(e.LeaveBalance),
		})
	}

	s.logger.Debug("Planning posted employees", zap.Int("employees", len(employees)))

	s.writePlans(w, s.planner.AssemblePlans(employees), topN)
}

func (s *Server) writePlans(w http.ResponseWriter, plans []planner.Plan, topN int) {
	docs := make([]report.PlanDocument, 0, len(plans))
	for _, plan := range plans {
		docs = append(docs, report.NewPlanDocument(plan, topN))
	}

	writeJSON(w, http.StatusOK, PlansResponse{
		Year:  s.planner.Year(),
		Plans: docs,
	})
}

// topN reads the optional ?top= parameter, 0 meaning every suggestion
func (s *Server) topN(r *http.Request) (int, error) {
	value := r.URL.Query().Get("top")
	if value == "" {
		return s.opts.TopN, nil
	}

	n, err := strconv.Atoi(value)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("top must be a non-negative integer, got %q", value)
	}

	return n, nil
}

func balanceText(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return fmt.Sprint(v)
	}
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}
