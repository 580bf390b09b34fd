package staff

import (
	"context"

	"github.com/kushanirosha/tws-attendance-backend-go/internal/domain/employee"
)

// StaffService manages cleaning staff and drivers on top of the employee directory
type StaffService interface {
	// ListAllStaff returns the members of every category sorted by ID
	ListAllStaff(ctx context.Context) ([]employee.EmployeeResponse, error)

	ListStaff(ctx context.Context, category Category) ([]employee.EmployeeResponse, error)

	// GetStaff returns employee.ErrEmployeeNotFound when the employee belongs to another category
	GetStaff(ctx context.Context, category Category, id string) (employee.EmployeeResponse, error)

	// CreateStaff pins the new employee to the category project
	CreateStaff(ctx context.Context, category Category, req employee.CreateEmployeeRequest) (employee.EmployeeResponse, error)

	UpdateStaff(ctx context.Context, category Category, req employee.UpdateEmployeeRequest) (employee.EmployeeResponse, error)

	DeleteStaff(ctx context.Context, category Category, id string) error
}
