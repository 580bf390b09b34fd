package user

import (
	"strings"
	"time"

	"github.com/kushanirosha/tws-attendance-backend-go/internal/pkg/validator"
)

// UserResponse represents user data in API responses, never the password hash
type UserResponse struct {
	ID         int64  `json:"id"`
	EmployeeID string `json:"employee_id"`
	Name       string `json:"name"`
	Role       string `json:"role"`
	CreatedAt  string `json:"created_at,omitempty"`
}

// CreateUserRequest represents request to create a new user
type CreateUserRequest struct {
	EmployeeID string `json:"employee_id"`
	Name       string `json:"name"`
	Password   string `json:"password"`
	Role       string `json:"role"`
}

func (r *CreateUserRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs.Add("employee_id", "employee_id is required")
	}
	if validator.IsEmpty(r.Name) {
		errs.Add("name", "name is required")
	}
	if validator.IsEmpty(r.Password) {
		errs.Add("password", "password is required")
	} else if !validator.IsValidPassword(r.Password) {
		errs.Add("password", "password must be at least 6 characters")
	}
	if !validator.IsInSlice(r.Role, RoleValues) {
		errs.Add("role", "role must be one of: "+strings.Join(RoleValues, ", "))
	}

	return errs.Err()
}

func ToResponse(u User) UserResponse {
	resp := UserResponse{
		ID:         u.ID,
		EmployeeID: u.EmployeeID,
		Name:       u.Name,
		Role:       string(u.Role),
	}
	if !u.CreatedAt.IsZero() {
		resp.CreatedAt = u.CreatedAt.Format(time.RFC3339)
	}
	return resp
}
