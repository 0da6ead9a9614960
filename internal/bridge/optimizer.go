package bridge

import (
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"github.com/username/leave-planner/internal/calendar"
	"github.com/username/leave-planner/pkg/dateutil"
	"go.uber.org/zap"
)

const (
	defaultMaxBridgeDays = 2
	defaultMinValue      = "1.5"
)

// Policy holds the tunable acceptance rules of the optimizer
type Policy struct {
	// MinValue is the minimum ratio of days off to leave days for a
	// suggestion to be emitted.
	MinValue decimal.Decimal
	// MaxBridgeDays caps the workdays collected on each side of a cluster.
	MaxBridgeDays int
}

// DefaultPolicy returns the standard policy: value >= 1.5, up to 2 days per side
func DefaultPolicy() Policy {
	return Policy{
		MinValue:      decimal.RequireFromString(defaultMinValue),
		MaxBridgeDays: defaultMaxBridgeDays,
	}
}

// Suggestion is a proposed leave period around one cluster
type Suggestion struct {
	Start        time.Time
	End          time.Time
	LeaveDates   []time.Time
	LeavesUsed   int
	TotalDaysOff int
	Value        decimal.Decimal
	HolidayInfo  []string
}

// Value returns totalDaysOff / leavesUsed, or zero when no leave is used
func Value(totalDaysOff, leavesUsed int) decimal.Decimal {
	if leavesUsed <= 0 {
		return decimal.Zero
	}
	return decimal.NewFromInt(int64(totalDaysOff)).Div(decimal.NewFromInt(int64(leavesUsed)))
}

// Optimizer turns clusters of non-working days into leave suggestions
type Optimizer struct {
	policy Policy
	logger *zap.Logger
}

// NewOptimizer creates a new Optimizer. Unset policy fields take the
// DefaultPolicy values.
func NewOptimizer(policy Policy, logger *zap.Logger) *Optimizer {
	if policy.MinValue.Sign() <= 0 {
		policy.MinValue = DefaultPolicy().MinValue
	}
	if policy.MaxBridgeDays <= 0 {
		policy.MaxBridgeDays = defaultMaxBridgeDays
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Optimizer{
		policy: policy,
		logger: logger,
	}
}

// Policy returns the optimizer policy
func (o *Optimizer) Policy() Policy {
	return o.policy
}

// Optimize walks the clusters in the given order (callers pass them longest
// first) and spends the leave budget greedily. The result is ranked by value,
// highest first; equal values keep allocation order.
func (o *Optimizer) Optimize(cal *calendar.YearCalendar, clusters []calendar.Cluster, budget int) []Suggestion {
	var suggestions []Suggestion
	remaining := budget

	for _, cluster := range clusters {
		if remaining <= 0 {
			break
		}

		before := o.collectWorkdays(cal, cluster.Start(), -1)
		after := o.collectWorkdays(cal, cluster.End(), 1)

		leavesToUse := min(remaining, len(before)+len(after))
		if leavesToUse == 0 {
			continue
		}

		value := Value(cluster.Len()+leavesToUse, leavesToUse)
		if value.LessThan(o.policy.MinValue) {
			o.logger.Debug("Cluster rejected",
				zap.String("city", cal.City),
				zap.Time("start", cluster.Start()),
				zap.Int("length", cluster.Len()),
				zap.Int("leaves", leavesToUse),
				zap.String("value", value.String()))
			continue
		}

		suggestion := o.suggest(cal, cluster, before, after, leavesToUse)
		suggestions = append(suggestions, suggestion)
		remaining -= suggestion.LeavesUsed

		o.logger.Debug("Cluster accepted",
			zap.String("city", cal.City),
			zap.Time("start", suggestion.Start),
			zap.Time("end", suggestion.End),
			zap.Int("leaves", suggestion.LeavesUsed),
			zap.String("value", suggestion.Value.String()),
			zap.Int("remaining", remaining))
	}

	return Rank(suggestions)
}

// collectWorkdays scans from the cluster edge in the given direction and
// returns up to MaxBridgeDays consecutive workdays, in scan order.
func (o *Optimizer) collectWorkdays(cal *calendar.YearCalendar, edge time.Time, step int) []time.Time {
	var days []time.Time

	for date := edge.AddDate(0, 0, step); cal.IsWorkday(date); date = date.AddDate(0, 0, step) {
		days = append(days, date)
		if len(days) >= o.policy.MaxBridgeDays {
			break
		}
	}

	return days
}

func (o *Optimizer) suggest(cal *calendar.YearCalendar, cluster calendar.Cluster, before, after []time.Time, leavesToUse int) Suggestion {
	candidates := make([]time.Time, 0, len(before)+len(after))
	candidates = append(candidates, before...)
	candidates = append(candidates, after...)
	sortDates(candidates)

	leaveDates := candidates[:leavesToUse:leavesToUse]

	period := make([]time.Time, 0, cluster.Len()+len(leaveDates))
	period = append(period, cluster.Days...)
	period = append(period, leaveDates...)
	sortDates(period)

	var holidayInfo []string
	for _, date := range cluster.Days {
		day, ok := cal.Day(date)
		if ok && day.Type == calendar.DayTypeHoliday {
			holidayInfo = append(holidayInfo, fmt.Sprintf("%s: %s", date.Format(dateutil.DayMonthLayout), day.Note))
		}
	}

	return Suggestion{
		Start:        period[0],
		End:          period[len(period)-1],
		LeaveDates:   leaveDates,
		LeavesUsed:   len(leaveDates),
		TotalDaysOff: len(period),
		Value:        Value(len(period), len(leaveDates)),
		HolidayInfo:  holidayInfo,
	}
}

// Rank returns the suggestions ordered by value, highest first. The sort is
// stable so ties keep their original order.
func Rank(suggestions []Suggestion) []Suggestion {
	if len(suggestions) == 0 {
		return nil
	}

	ranked := make([]Suggestion, len(suggestions))
	copy(ranked, suggestions)

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Value.GreaterThan(ranked[j].Value)
	})

	return ranked
}

// TotalLeaves sums the leave days used by the suggestions
func TotalLeaves(suggestions []Suggestion) int {
	total := 0
	for _, s := range suggestions {
		total += s.LeavesUsed
	}
	return total
}

func sortDates(dates []time.Time) {
	sort.Slice(dates, func(i, j int) bool {
		return dates[i].Before(dates[j])
	})
}
