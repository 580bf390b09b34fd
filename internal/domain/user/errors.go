package user

import "errors"

var (
	ErrUserNotFound         = errors.New("user not found")
	ErrUserEmployeeIDExists = errors.New("a user already exists for this employee ID")
)
