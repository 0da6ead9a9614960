package calendar

import (
	"sync"

	"go.uber.org/zap"
)

// Builder builds year calendars for cities from a fixed holiday set and
// caches them per city. Safe for concurrent use.
type Builder struct {
	records []HolidayRecord
	year    int
	logger  *zap.Logger
	cache   map[string]*YearCalendar
	cacheMu sync.RWMutex
}

// NewBuilder creates a new Builder for the planning year
func NewBuilder(records []HolidayRecord, year int, logger *zap.Logger) *Builder {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Builder{
		records: records,
		year:    year,
		logger:  logger,
		cache:   make(map[string]*YearCalendar),
	}
}

// Year returns the planning year
func (b *Builder) Year() int {
	return b.year
}

// ForCity returns the calendar of the city, building it on first use
func (b *Builder) ForCity(city string) *YearCalendar {
	b.cacheMu.RLock()
	if cal, ok := b.cache[city]; ok {
		b.cacheMu.RUnlock()
		b.logger.Debug("Using cached city calendar",
			zap.String("city", city))
		return cal
	}
	b.cacheMu.RUnlock()

	cal := Build(city, b.records, b.year)

	for _, skipped := range cal.Skipped {
		b.logger.Warn("Skipping holiday",
			zap.String("city", city),
			zap.String("date", skipped.Record.Date.String()),
			zap.String("description", skipped.Record.Description),
			zap.String("reason", skipped.Reason))
	}

	b.cacheMu.Lock()
	if cached, ok := b.cache[city]; ok {
		b.cacheMu.Unlock()
		return cached
	}
	b.cache[city] = cal
	b.cacheMu.Unlock()

	b.logger.Debug("City calendar built",
		zap.String("city", city),
		zap.Int("year", b.year),
		zap.Int("skipped_holidays", len(cal.Skipped)))

	return cal
}
