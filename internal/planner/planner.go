package planner

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/username/leave-planner/internal/bridge"
	"github.com/username/leave-planner/internal/calendar"
	"go.uber.org/zap"
)

// DefaultLeaveBalance is used when an employee's balance cannot be parsed
const DefaultLeaveBalance = 10

// DefaultYear is the planning year when none is configured
const DefaultYear = 2025

// EmployeeRecord is one employee row as handed over by the loader.
// LeaveBalance is kept as raw text and resolved during planning.
type EmployeeRecord struct {
	Name         string
	ID           string
	City         string
	LeaveBalance string
}

// Status of a plan
type Status string

const (
	StatusOK            Status = "ok"
	StatusNoSuggestions Status = "no_suggestions"
	StatusCityNotFound  Status = "city_not_found"
)

// MessageNoSuggestions is reported for employees without any suggestion
const MessageNoSuggestions = "No optimal leave periods found"

// Plan is the planning result of one employee
type Plan struct {
	EmployeeName  string
	EmployeeID    string
	RequestedCity string
	City          string
	CityMatch     MatchKind
	LeaveBalance  int
	Status        Status
	Message       string
	Warnings      []string
	Suggestions   []bridge.Suggestion
}

// Top returns at most n of the ranked suggestions (all when n <= 0)
func (p Plan) Top(n int) []bridge.Suggestion {
	if n <= 0 || n >= len(p.Suggestions) {
		return p.Suggestions
	}
	return p.Suggestions[:n]
}

// Options configure the planner
type Options struct {
	Year                int
	DefaultLeaveBalance int
	FuzzyThreshold      float64
	Policy              bridge.Policy
}

// Planner assembles leave plans for employees
type Planner struct {
	builder        *calendar.Builder
	optimizer      *bridge.Optimizer
	resolver       *CityResolver
	defaultBalance int
	logger         *zap.Logger
}

// New creates a new Planner over the holiday records and known cities
func New(records []calendar.HolidayRecord, cities []string, opts Options, logger *zap.Logger) *Planner {
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.Year <= 0 {
		opts.Year = DefaultYear
	}
	if opts.DefaultLeaveBalance <= 0 {
		opts.DefaultLeaveBalance = DefaultLeaveBalance
	}

	return &Planner{
		builder:        calendar.NewBuilder(records, opts.Year, logger),
		optimizer:      bridge.NewOptimizer(opts.Policy, logger),
		resolver:       NewCityResolver(cities, opts.FuzzyThreshold),
		defaultBalance: opts.DefaultLeaveBalance,
		logger:         logger,
	}
}

// Cities returns the known cities
func (p *Planner) Cities() []string {
	return p.resolver.Cities()
}

// Year returns the planning year
func (p *Planner) Year() int {
	return p.builder.Year()
}

// Calendar returns the year calendar of a known city. The city name goes
// through the same resolution as employee cities.
func (p *Planner) Calendar(city string) (*calendar.YearCalendar, bool) {
	resolved, _, ok := p.resolver.Resolve(city)
	if !ok {
		return nil, false
	}
	return p.builder.ForCity(resolved), true
}

// AssemblePlans plans every employee in input order. One employee's bad
// data never prevents the others from being planned.
func (p *Planner) AssemblePlans(employees []EmployeeRecord) []Plan {
	plans := make([]Plan, 0, len(employees))

	for _, employee := range employees {
		plans = append(plans, p.PlanEmployee(employee))
	}

	p.logger.Info("Leave plans assembled",
		zap.Int("employees", len(employees)),
		zap.Int("year", p.builder.Year()))

	return plans
}

// PlanEmployee builds the plan of a single employee
func (p *Planner) PlanEmployee(employee EmployeeRecord) Plan {
	plan := Plan{
		EmployeeName:  employee.Name,
		EmployeeID:    employee.ID,
		RequestedCity: employee.City,
		City:          employee.City,
	}

	balance, err := ResolveLeaveBalance(employee.LeaveBalance)
	city, match, ok := p.resolver.Resolve(employee.City)

	if err != nil {
		balance = p.defaultBalance
		warning := fmt.Sprintf("Invalid leave value %q. Using default of %d.", employee.LeaveBalance, p.defaultBalance)
		if !ok {
			warning = fmt.Sprintf("Invalid leave value %q. Not planned: city not found.", employee.LeaveBalance)
		}
		plan.Warnings = append(plan.Warnings, warning)
		p.logger.Warn("Invalid leave value, using default",
			zap.String("employee", employee.Name),
			zap.String("value", employee.LeaveBalance),
			zap.Int("default", p.defaultBalance),
			zap.Error(err))
	}

	if !ok {
		plan.Status = StatusCityNotFound
		plan.Message = fmt.Sprintf("City '%s' not found in holiday list", employee.City)
		p.logger.Warn("City not found in holiday list",
			zap.String("employee", employee.Name),
			zap.String("city", employee.City),
			zap.Strings("available_cities", p.resolver.Cities()))
		return plan
	}

	plan.City = city
	plan.LeaveBalance = balance
	plan.CityMatch = match
	if match != MatchExact {
		p.logger.Info("Found potential city match",
			zap.String("employee", employee.Name),
			zap.String("city", employee.City),
			zap.String("matched", city),
			zap.String("match", string(match)))
	}

	cal := p.builder.ForCity(city)
	clusters := calendar.SortByLength(calendar.FindClusters(cal))
	plan.Suggestions = p.optimizer.Optimize(cal, clusters, balance)

	if len(plan.Suggestions) == 0 {
		plan.Status = StatusNoSuggestions
		plan.Message = MessageNoSuggestions
	} else {
		plan.Status = StatusOK
	}

	p.logger.Debug("Employee planned",
		zap.String("employee", employee.Name),
		zap.String("city", city),
		zap.Int("leave_balance", balance),
		zap.Int("suggestions", len(plan.Suggestions)),
		zap.Int("leaves_used", bridge.TotalLeaves(plan.Suggestions)))

	return plan
}

// ResolveLeaveBalance parses a leave balance cell. Whole numbers and
// numeric text such as "12.0" are accepted (fractions are truncated);
// blanks, text and negative values are errors.
func ResolveLeaveBalance(raw string) (int, error) {
	value := strings.TrimSpace(raw)
	if value == "" {
		return 0, fmt.Errorf("empty leave balance")
	}

	if n, err := strconv.Atoi(value); err == nil {
		if n < 0 {
			return 0, fmt.Errorf("negative leave balance %d", n)
		}
		return n, nil
	}

	f, err := strconv.ParseFloat(value, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("invalid leave balance %q", raw)
	}
	if f < 0 {
		return 0, fmt.Errorf("negative leave balance %v", f)
	}
	if f > math.MaxInt32 {
		return 0, fmt.Errorf("leave balance %v out of range", f)
	}

	return int(f), nil
}
