package loader

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

var (
	// ErrMissingColumn is returned when a required column cannot be found
	ErrMissingColumn = errors.New("missing column")
	// ErrUnsupportedFormat is returned for input files that are neither CSV nor JSON
	ErrUnsupportedFormat = errors.New("unsupported file format")
)

// Format of an input file
type Format string

const (
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
)

// DetectFormat picks the input format from the file extension
func DetectFormat(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv", ".txt":
		return FormatCSV, nil
	case ".json":
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, filepath.Base(path))
	}
}

// RowIssue describes an input row that was skipped. Row is 1-based and
// counts the header line for CSV input; for JSON it is the array position.
type RowIssue struct {
	Row    int
	Reason string
}

// Loader reads holiday calendars and employee lists
type Loader struct {
	logger     *zap.Logger
	validate   *validator.Validate
	httpClient *http.Client
}

// New creates a new Loader
func New(logger *zap.Logger) *Loader {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Loader{
		httpClient: &http.Client{
			Timeout: defaultHTTPTimeout,
		},
		logger:   logger,
		validate: validator.New(),
	}
}

// LoadHolidays reads the holiday calendar file
func (l *Loader) LoadHolidays(path string) (*HolidaySet, error) {
	format, err := DetectFormat(path)
	if err != nil {
		return nil, err
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open holiday file: %w", err)
	}
	defer file.Close()

	set, err := l.ReadHolidays(file, format)
	if err != nil {
		return nil, fmt.Errorf("failed to load holiday file %s: %w", path, err)
	}

	l.logger.Info("Successfully loaded holiday data",
		zap.String("file", path),
		zap.Int("holidays", len(set.Records)),
		zap.Int("skipped", len(set.Skipped)))

	return set, nil
}

// LoadEmployees reads the employee list file
func (l *Loader) LoadEmployees(path string) (*EmployeeSet, error) {
	format, err := DetectFormat(path)
	if err != nil {
		return nil, err
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open employee file: %w", err)
	}
	defer file.Close()

	set, err := l.ReadEmployees(file, format)
	if err != nil {
		return nil, fmt.Errorf("failed to load employee file %s: %w", path, err)
	}

	l.logger.Info("Successfully loaded employee data",
		zap.String("file", path),
		zap.Int("employees", len(set.Records)),
		zap.Int("skipped", len(set.Skipped)))

	return set, nil
}

// findColumn returns the first alias present in the header, or "" when none is
func findColumn(header []string, aliases []string) (string, int) {
	for _, alias := range aliases {
		for i, column := range header {
			if column == alias {
				return column, i
			}
		}
	}
	return "", -1
}

func cleanHeader(header []string) []string {
	cleaned := make([]string, len(header))
	for i, column := range header {
		column = strings.TrimSpace(column)
		if i == 0 {
			column = strings.TrimPrefix(column, "\ufeff")
		}
		cleaned[i] = column
	}
	return cleaned
}

func cell(row []string, index int) string {
	if index < 0 || index >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[index])
}

func blankRow(row []string) bool {
	for _, value := range row {
		if strings.TrimSpace(value) != "" {
			return false
		}
	}
	return true
}
