package employee

import "context"

type EmployeeRepository interface {
	// List returns employees in directory order (creation time, then ID)
	List(ctx context.Context, filter EmployeeFilter) ([]Employee, error)
	GetByID(ctx context.Context, id string) (Employee, error)
	Create(ctx context.Context, newEmployee Employee) (Employee, error)
	ExistsByID(ctx context.Context, id string) (bool, error)
	Update(ctx context.Context, id string, req UpdateEmployeeRequest) error
	Delete(ctx context.Context, id string) error
}
