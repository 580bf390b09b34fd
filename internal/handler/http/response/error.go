package response

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/kushanirosha/tws-attendance-backend-go/internal/domain/employee"
	"github.com/kushanirosha/tws-attendance-backend-go/internal/domain/project"
	"github.com/kushanirosha/tws-attendance-backend-go/internal/domain/shiftassign"
	"github.com/kushanirosha/tws-attendance-backend-go/internal/domain/staff"
	"github.com/kushanirosha/tws-attendance-backend-go/internal/domain/user"
	"github.com/kushanirosha/tws-attendance-backend-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	// Employee domain errors
	case errors.Is(err, employee.ErrEmployeeNotFound):
		NotFound(w, "Employee not found")
	case errors.Is(err, employee.ErrEmployeeIDExists):
		Conflict(w, "Employee ID already exists")

	// Project domain errors
	case errors.Is(err, project.ErrProjectNotFound),
		errors.Is(err, shiftassign.ErrProjectNotFound):
		NotFound(w, "Project not found")
	case errors.Is(err, project.ErrProjectNameExists):
		Conflict(w, "Project name already exists")
	case errors.Is(err, project.ErrInvalidEmployees):
		BadRequest(w, err.Error(), nil)

	case errors.Is(err, staff.ErrUnknownCategory):
		NotFound(w, "Staff category not found")

	// User domain errors
	case errors.Is(err, user.ErrUserNotFound):
		NotFound(w, "User not found")
	case errors.Is(err, user.ErrUserEmployeeIDExists):
		Conflict(w, "A user already exists for this employee ID")

	// Shift assignment errors
	case errors.Is(err, shiftassign.ErrAssignmentsNotFound):
		NotFound(w, "Shift assignments not found")
	case errors.Is(err, shiftassign.ErrInvalidMonthKey),
		errors.Is(err, shiftassign.ErrProjectIDRequired),
		errors.Is(err, shiftassign.ErrInvalidExportFormat):
		BadRequest(w, err.Error(), nil)
	case errors.Is(err, shiftassign.ErrSaveInProgress):
		Conflict(w, err.Error())

	// Default
	default:
		slog.Error("unhandled error", "error", err)
		InternalServerError(w, "An unexpected error occurred")
	}
}
