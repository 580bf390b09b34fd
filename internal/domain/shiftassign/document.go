package shiftassign

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/kushanirosha/tws-attendance-backend-go/internal/domain/employee"
	"github.com/kushanirosha/tws-attendance-backend-go/internal/pkg/calendar"
	"github.com/kushanirosha/tws-attendance-backend-go/internal/pkg/export"
	"github.com/kushanirosha/tws-attendance-backend-go/internal/pkg/validator"
)

const (
	HeaderEmployeeID   = "EmployeeId"
	HeaderEmployeeName = "EmployeeName"
	dayHeaderPrefix    = "Day "
)

// BuildDocument serializes the grid: one row per employee in the given order,
// one column per day of the month, "-" for empty cells.
func BuildDocument(rows []employee.Employee, year, month int, a Assignments) export.Document {
	days := calendar.DayColumns(year, month)

	headers := make([]string, 0, len(days)+2)
	headers = append(headers, HeaderEmployeeID, HeaderEmployeeName)
	for _, d := range days {
		headers = append(headers, dayHeaderPrefix+d)
	}

	doc := export.Document{
		Sheet:   export.DefaultSheet,
		Headers: headers,
		Rows:    make([][]string, 0, len(rows)),
	}
	for _, e := range rows {
		row := make([]string, 0, len(headers))
		row = append(row, e.ID, e.Name)
		for _, d := range days {
			v := a.Get(e.ID, d)
			if v == "" {
				v = ExportPlaceholder
			}
			row = append(row, v)
		}
		doc.Rows = append(doc.Rows, row)
	}

	return doc
}

// AssignmentsFromDocument reads a document produced by BuildDocument back into assignments.
// Placeholder cells are dropped; any other cell must be a canonical value.
func AssignmentsFromDocument(doc export.Document, year, month int) (Assignments, error) {
	var errs validator.ValidationErrors

	idCol := -1
	dayCols := make(map[int]string)
	for i, h := range doc.Headers {
		h = strings.TrimSpace(h)
		if h == HeaderEmployeeID {
			idCol = i
			continue
		}
		day, ok := strings.CutPrefix(h, dayHeaderPrefix)
		if !ok {
			continue
		}
		if !calendar.ValidDay(year, month, day) {
			errs.Add("headers", fmt.Sprintf("column %q is outside the month", h))
			continue
		}
		dayCols[i] = day
	}
	if idCol < 0 {
		errs.Add("headers", HeaderEmployeeID+" column is required")
	}
	if err := errs.Err(); err != nil {
		return nil, err
	}

	out := make(Assignments)
	for r, row := range doc.Rows {
		if idCol >= len(row) || strings.TrimSpace(row[idCol]) == "" {
			continue
		}
		employeeID := strings.TrimSpace(row[idCol])
		for col, day := range dayCols {
			if col >= len(row) {
				continue
			}
			v := strings.TrimSpace(row[col])
			if v == "" || v == ExportPlaceholder {
				continue
			}
			if !IsCanonical(v) {
				errs.Add("row "+strconv.Itoa(r+2), fmt.Sprintf("invalid value %q for %s day %s", v, employeeID, day))
				continue
			}
			out.Set(employeeID, day, v)
		}
	}

	if err := errs.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Extension returns the file extension for the format
func (f ExportFormat) Extension() string {
	return string(f)
}

func (f ExportFormat) ContentType() string {
	if f == ExportCSV {
		return "text/csv; charset=utf-8"
	}
	return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
}

// ParseExportFormat defaults to xlsx when s is empty
func ParseExportFormat(s string) (ExportFormat, error) {
	if s == "" {
		return ExportXLSX, nil
	}
	if !validator.IsInSlice(strings.ToLower(s), ExportFormatValues) {
		return "", ErrInvalidExportFormat
	}
	return ExportFormat(strings.ToLower(s)), nil
}

// Write renders doc in this format
func (f ExportFormat) Write(w io.Writer, doc export.Document) error {
	switch f {
	case ExportXLSX:
		return export.WriteXLSX(w, doc)
	case ExportCSV:
		return export.WriteCSV(w, doc)
	}
	return ErrInvalidExportFormat
}
