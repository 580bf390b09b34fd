package user

import "context"

type UserService interface {
	ListUsers(ctx context.Context) ([]UserResponse, error)
	// CreateUser stores the account with a bcrypt hashed password
	CreateUser(ctx context.Context, req CreateUserRequest) (UserResponse, error)
}
