package user

import "time"

type Role string

const (
	RoleSuperAdmin Role = "super_admin"
	RolePTS        Role = "pts"
	RoleAdmin      Role = "admin"
	RoleUser       Role = "user"
)

var RoleValues = []string{
	string(RoleSuperAdmin),
	string(RolePTS),
	string(RoleAdmin),
	string(RoleUser),
}

// User is a dashboard account bound to an employee ID
type User struct {
	ID           int64
	EmployeeID   string
	Name         string
	PasswordHash string
	Role         Role
	CreatedAt    time.Time
}
