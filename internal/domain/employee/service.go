package employee

import (
	"context"
)

// EmployeeService defines business logic for employee operations
type EmployeeService interface {
	// ListEmployees lists employees in directory order
	ListEmployees(ctx context.Context, filter EmployeeFilter) ([]EmployeeResponse, error)

	// GetEmployee retrieves a single employee by ID
	GetEmployee(ctx context.Context, id string) (EmployeeResponse, error)

	// CreateEmployee creates a new employee with a manually entered ID
	CreateEmployee(ctx context.Context, req CreateEmployeeRequest) (EmployeeResponse, error)

	// UpdateEmployee applies a partial update
	UpdateEmployee(ctx context.Context, req UpdateEmployeeRequest) (EmployeeResponse, error)

	// DeleteEmployee removes an employee
	DeleteEmployee(ctx context.Context, id string) error
}
