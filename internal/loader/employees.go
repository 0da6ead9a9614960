package loader

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/goccy/go-json"
	"github.com/username/leave-planner/internal/planner"
	"go.uber.org/zap"
)

var (
	nameColumns    = []string{"Employee Name", "Name", "EmployeeName", "Employee", "name"}
	idColumns      = []string{"Employee ID", "ID", "EmployeeID", "EmpID", "employeeid"}
	cityColumns    = []string{"City", "Location", "Place", "Office", "state"}
	balanceColumns = []string{"Available Leaves", "Leaves", "LeaveBalance", "Leave Balance", "noofleaves"}
)

// EmployeeColumns names the source columns used for each employee field
type EmployeeColumns struct {
	Name         string
	ID           string
	City         string
	LeaveBalance string
}

// EmployeeSet is the parsed employee list
type EmployeeSet struct {
	Records []planner.EmployeeRecord
	Columns EmployeeColumns
	Skipped []RowIssue
}

type employeeRow struct {
	Name         string `validate:"required_without=ID"`
	ID           string `validate:"required_without=Name"`
	City         string
	LeaveBalance string
}

// ReadEmployees parses an employee list in the given format
func (l *Loader) ReadEmployees(r io.Reader, format Format) (*EmployeeSet, error) {
	switch format {
	case FormatCSV:
		return l.readEmployeesCSV(r)
	case FormatJSON:
		return l.readEmployeesJSON(r)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
}

func (l *Loader) readEmployeesCSV(r io.Reader) (*EmployeeSet, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}
	header = cleanHeader(header)
	if blankRow(header) {
		return nil, fmt.Errorf("%w: employee header is empty", ErrMissingColumn)
	}

	set := &EmployeeSet{}
	var nameIndex, idIndex, cityIndex, balanceIndex int
	set.Columns.Name, nameIndex = l.resolveColumn(header, nameColumns)
	set.Columns.ID, idIndex = l.resolveColumn(header, idColumns)
	set.Columns.City, cityIndex = l.resolveColumn(header, cityColumns)
	set.Columns.LeaveBalance, balanceIndex = l.resolveColumn(header, balanceColumns)

	l.logUsedColumns(set.Columns)

	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		var parseErr *csv.ParseError
		if errors.As(err, &parseErr) {
			set.Skipped = append(set.Skipped, RowIssue{Row: parseErr.StartLine, Reason: parseErr.Err.Error()})
			l.logger.Warn("Failed to read employee row", zap.Int("row", parseErr.StartLine), zap.Error(err))
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read employees: %w", err)
		}
		line, _ := reader.FieldPos(0)
		if blankRow(row) {
			continue
		}

		l.addEmployee(set, line, employeeRow{
			Name:         cell(row, nameIndex),
			ID:           cell(row, idIndex),
			City:         cell(row, cityIndex),
			LeaveBalance: cell(row, balanceIndex),
		})
	}

	return set, nil
}

func (l *Loader) readEmployeesJSON(r io.Reader) (*EmployeeSet, error) {
	decoder := json.NewDecoder(r)
	decoder.UseNumber()

	var entries []map[string]any
	if err := decoder.Decode(&entries); err != nil {
		return nil, fmt.Errorf("failed to decode employees: %w", err)
	}

	set := &EmployeeSet{
		Columns: EmployeeColumns{
			Name:         jsonColumn(entries, nameColumns),
			ID:           jsonColumn(entries, idColumns),
			City:         jsonColumn(entries, cityColumns),
			LeaveBalance: jsonColumn(entries, balanceColumns),
		},
	}

	fields := []struct{ name, column string }{
		{"name", set.Columns.Name},
		{"id", set.Columns.ID},
		{"city", set.Columns.City},
		{"leave_balance", set.Columns.LeaveBalance},
	}
	for _, field := range fields {
		if field.column == "" {
			l.logger.Warn("Could not find employee field", zap.String("field", field.name))
		}
	}
	l.logUsedColumns(set.Columns)

	for i, entry := range entries {
		l.addEmployee(set, i+1, employeeRow{
			Name:         jsonValue(entry, set.Columns.Name),
			ID:           jsonValue(entry, set.Columns.ID),
			City:         jsonValue(entry, set.Columns.City),
			LeaveBalance: jsonValue(entry, set.Columns.LeaveBalance),
		})
	}

	return set, nil
}

func (l *Loader) addEmployee(set *EmployeeSet, row int, employee employeeRow) {
	if err := l.validate.Struct(employee); err != nil {
		set.Skipped = append(set.Skipped, RowIssue{Row: row, Reason: "employee name or id is required"})
		l.logger.Warn("Skipping employee row", zap.Int("row", row), zap.Error(err))
		return
	}

	set.Records = append(set.Records, planner.EmployeeRecord{
		Name:         employee.Name,
		ID:           employee.ID,
		City:         employee.City,
		LeaveBalance: employee.LeaveBalance,
	})
}

// resolveColumn finds the first matching alias and falls back to the first column
func (l *Loader) resolveColumn(header []string, aliases []string) (string, int) {
	if column, index := findColumn(header, aliases); index >= 0 {
		return column, index
	}

	l.logger.Warn("Could not find column, using first column",
		zap.Strings("tried", aliases),
		zap.String("column", header[0]))

	return header[0], 0
}

func (l *Loader) logUsedColumns(columns EmployeeColumns) {
	l.logger.Info("Using employee columns",
		zap.String("name", columns.Name),
		zap.String("id", columns.ID),
		zap.String("city", columns.City),
		zap.String("leaves", columns.LeaveBalance))
}

func jsonColumn(entries []map[string]any, aliases []string) string {
	for _, alias := range aliases {
		for _, entry := range entries {
			if _, ok := entry[alias]; ok {
				return alias
			}
		}
	}
	return ""
}

func jsonValue(entry map[string]any, key string) string {
	if key == "" {
		return ""
	}

	switch v := entry[key].(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(v)
	case json.Number:
		return v.String()
	case bool:
		return strconv.FormatBool(v)
	default:
		return fmt.Sprint(v)
	}
}
