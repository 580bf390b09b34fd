package shiftassign

import (
	"fmt"

	"github.com/kushanirosha/tws-attendance-backend-go/internal/pkg/calendar"
	"github.com/kushanirosha/tws-attendance-backend-go/internal/pkg/validator"
)

type SaveRequest struct {
	ProjectID   string      `json:"projectId"`
	MonthYear   string      `json:"monthYear"`
	Assignments Assignments `json:"assignments"`
}

func (r *SaveRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.ProjectID) {
		errs.Add("projectId", "projectId is required")
	}

	year, month, err := calendar.ParseMonthKey(r.MonthYear)
	if err != nil {
		errs.Add("monthYear", "monthYear must be formatted YYYY-MM")
		return errs
	}

	for employeeID, days := range r.Assignments {
		if validator.IsEmpty(employeeID) {
			errs.Add("assignments", "employee ID must not be empty")
			continue
		}
		for day, value := range days {
			field := fmt.Sprintf("assignments.%s.%s", employeeID, day)
			if !calendar.ValidDay(year, month, day) {
				errs.Add(field, fmt.Sprintf("day must be between 1 and %d", calendar.DaysInMonth(year, month)))
				continue
			}
			if !IsCanonical(value) {
				errs.Add(field, `value must be "", "RD" or a HH:MM-HH:MM time range`)
			}
		}
	}

	return errs.Err()
}

type AssignmentsResponse struct {
	ProjectID   string      `json:"projectId"`
	MonthYear   string      `json:"monthYear"`
	Assignments Assignments `json:"assignments"`
	UpdatedAt   *string     `json:"updatedAt,omitempty"`
}

type SaveResponse struct {
	Inserted bool `json:"inserted"`
}

type ExportFormat string

const (
	ExportXLSX ExportFormat = "xlsx"
	ExportCSV  ExportFormat = "csv"
)

var ExportFormatValues = []string{
	string(ExportXLSX),
	string(ExportCSV),
}

type ExportResult struct {
	FileName    string
	ContentType string
	Content     []byte
}
