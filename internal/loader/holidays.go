package loader

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/goccy/go-json"
	"github.com/username/leave-planner/internal/calendar"
	"go.uber.org/zap"
)

// holidayMarker is the cell value that marks a holiday as observed in a city
const holidayMarker = "Holiday"

var (
	dateColumns        = []string{"Date", "Holiday Date", "date"}
	descriptionColumns = []string{"Holiday Description", "Description", "Holiday Name", "description"}
	ignoredColumns     = []string{"SI No", "Sl No", "S.No", "SI No.", "Day"}
)

// HolidaySet is the parsed holiday calendar
type HolidaySet struct {
	Records []calendar.HolidayRecord
	// Cities in column order
	Cities  []string
	Skipped []RowIssue
}

type holidayEntry struct {
	Date        string   `json:"date" validate:"required"`
	Description string   `json:"description"`
	Cities      []string `json:"cities"`
}

type holidayDocument struct {
	Cities   []string       `json:"cities"`
	Holidays []holidayEntry `json:"holidays"`
}

// ReadHolidays parses a holiday calendar in the given format
func (l *Loader) ReadHolidays(r io.Reader, format Format) (*HolidaySet, error) {
	switch format {
	case FormatCSV:
		return l.readHolidaysCSV(r)
	case FormatJSON:
		return l.readHolidaysJSON(r)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
}

func (l *Loader) readHolidaysCSV(r io.Reader) (*HolidaySet, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}
	header = cleanHeader(header)

	dateColumn, dateIndex := findColumn(header, dateColumns)
	if dateIndex < 0 {
		return nil, fmt.Errorf("%w: holiday date (tried %s)", ErrMissingColumn, strings.Join(dateColumns, ", "))
	}
	descriptionColumn, descriptionIndex := findColumn(header, descriptionColumns)
	if descriptionIndex < 0 {
		l.logger.Warn("Holiday description column not found, holidays will be unnamed",
			zap.Strings("tried", descriptionColumns))
	}

	set := &HolidaySet{}
	cityIndex := make(map[string]int)
	for i, column := range header {
		if column == "" || column == dateColumn || column == descriptionColumn || isIgnored(column) {
			continue
		}
		if _, exists := cityIndex[column]; exists {
			continue
		}
		cityIndex[column] = i
		set.Cities = append(set.Cities, column)
	}

	l.logger.Info("Detected cities",
		zap.Strings("columns", header),
		zap.Strings("cities", set.Cities))

	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		var parseErr *csv.ParseError
		if errors.As(err, &parseErr) {
			set.Skipped = append(set.Skipped, RowIssue{Row: parseErr.StartLine, Reason: parseErr.Err.Error()})
			l.logger.Warn("Failed to read holiday row", zap.Int("row", parseErr.StartLine), zap.Error(err))
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read holidays: %w", err)
		}
		line, _ := reader.FieldPos(0)
		if blankRow(row) {
			continue
		}

		rawDate := cell(row, dateIndex)
		date, err := calendar.ParseMonthDay(rawDate)
		if err != nil {
			set.Skipped = append(set.Skipped, RowIssue{Row: line, Reason: fmt.Sprintf("invalid date %q", rawDate)})
			l.logger.Warn("Error parsing date",
				zap.Int("row", line),
				zap.String("date", rawDate),
				zap.Error(err))
			continue
		}

		record := calendar.HolidayRecord{
			Date:        date,
			Description: cell(row, descriptionIndex),
		}
		for _, city := range set.Cities {
			if strings.EqualFold(cell(row, cityIndex[city]), holidayMarker) {
				record.Cities = append(record.Cities, city)
			}
		}

		set.Records = append(set.Records, record)
	}

	return set, nil
}

func (l *Loader) readHolidaysJSON(r io.Reader) (*HolidaySet, error) {
	data, err := io.ReadAll(bufio.NewReader(r))
	if err != nil {
		return nil, fmt.Errorf("failed to read holidays: %w", err)
	}

	var doc holidayDocument
	trimmed := bytes.TrimSpace(data)
	if bytes.HasPrefix(trimmed, []byte("{")) {
		if err := json.Unmarshal(trimmed, &doc); err != nil {
			return nil, fmt.Errorf("failed to decode holidays: %w", err)
		}
	} else if err := json.Unmarshal(trimmed, &doc.Holidays); err != nil {
		return nil, fmt.Errorf("failed to decode holidays: %w", err)
	}

	set := &HolidaySet{}
	seen := make(map[string]bool)
	addCity := func(city string) {
		city = strings.TrimSpace(city)
		if city != "" && !seen[city] {
			seen[city] = true
			set.Cities = append(set.Cities, city)
		}
	}
	for _, city := range doc.Cities {
		addCity(city)
	}

	for i, entry := range doc.Holidays {
		row := i + 1
		if err := l.validate.Struct(entry); err != nil {
			set.Skipped = append(set.Skipped, RowIssue{Row: row, Reason: "holiday date is required"})
			l.logger.Warn("Invalid holiday entry", zap.Int("row", row), zap.Error(err))
			continue
		}

		date, err := calendar.ParseMonthDay(entry.Date)
		if err != nil {
			set.Skipped = append(set.Skipped, RowIssue{Row: row, Reason: fmt.Sprintf("invalid date %q", entry.Date)})
			l.logger.Warn("Error parsing date",
				zap.Int("row", row),
				zap.String("date", entry.Date),
				zap.Error(err))
			continue
		}

		record := calendar.HolidayRecord{
			Date:        date,
			Description: strings.TrimSpace(entry.Description),
		}
		for _, city := range entry.Cities {
			city = strings.TrimSpace(city)
			if city == "" {
				continue
			}
			addCity(city)
			record.Cities = append(record.Cities, city)
		}

		set.Records = append(set.Records, record)
	}

	l.logger.Info("Detected cities", zap.Strings("cities", set.Cities))

	return set, nil
}

func isIgnored(column string) bool {
	for _, ignored := range ignoredColumns {
		if strings.EqualFold(column, ignored) {
			return true
		}
	}
	return false
}
