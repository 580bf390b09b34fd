package user

import (
	"context"
)

type UserRepository interface {
	List(ctx context.Context) ([]User, error)
	GetByEmployeeID(ctx context.Context, employeeID string) (User, error)
	Create(ctx context.Context, newUser User) (User, error)
	ExistsByEmployeeID(ctx context.Context, employeeID string) (bool, error)
}
