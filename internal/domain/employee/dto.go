package employee

import (
	"strings"
	"time"

	"github.com/kushanirosha/tws-attendance-backend-go/internal/pkg/validator"
)

type CreateEmployeeRequest struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	Gender       string  `json:"gender"`
	Status       string  `json:"status"`
	Department   string  `json:"department"`
	Project      string  `json:"project"`
	ProfileImage *string `json:"profileImage,omitempty"`
}

func (r *CreateEmployeeRequest) Validate() error {
	var errs validator.ValidationErrors

	if !validator.IsValidEmployeeID(r.ID) {
		errs.Add("id", "id is required and may only contain letters, digits, '.', '_' or '-'")
	}
	if validator.IsEmpty(r.Name) {
		errs.Add("name", "name is required")
	}
	if !validator.IsInSlice(r.Gender, GenderValues) {
		errs.Add("gender", "gender must be one of: "+strings.Join(GenderValues, ", "))
	}
	if r.Status == "" {
		r.Status = string(StatusActive)
	}
	if !validator.IsInSlice(r.Status, StatusValues) {
		errs.Add("status", "status must be one of: "+strings.Join(StatusValues, ", "))
	}
	if validator.IsEmpty(r.Department) {
		errs.Add("department", "department is required")
	}

	return errs.Err()
}

// UpdateEmployeeRequest is a partial update, nil fields are left unchanged
type UpdateEmployeeRequest struct {
	ID           string  `json:"-"`
	Name         *string `json:"name,omitempty"`
	Gender       *string `json:"gender,omitempty"`
	Status       *string `json:"status,omitempty"`
	Department   *string `json:"department,omitempty"`
	Project      *string `json:"project,omitempty"`
	ProfileImage *string `json:"profileImage,omitempty"`
}

func (r *UpdateEmployeeRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.Name != nil && validator.IsEmpty(*r.Name) {
		errs.Add("name", "name must not be empty")
	}
	if r.Gender != nil && !validator.IsInSlice(*r.Gender, GenderValues) {
		errs.Add("gender", "gender must be one of: "+strings.Join(GenderValues, ", "))
	}
	if r.Status != nil && !validator.IsInSlice(*r.Status, StatusValues) {
		errs.Add("status", "status must be one of: "+strings.Join(StatusValues, ", "))
	}
	if r.Department != nil && validator.IsEmpty(*r.Department) {
		errs.Add("department", "department must not be empty")
	}

	return errs.Err()
}

type EmployeeFilter struct {
	Department *string
	Project    *string
	Status     *string
}

type EmployeeResponse struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	Gender       string  `json:"gender"`
	Status       string  `json:"status"`
	Department   string  `json:"department"`
	Project      string  `json:"project"`
	ProfileImage *string `json:"profileImage,omitempty"`
	CreatedAt    string  `json:"created_at"`
	UpdatedAt    string  `json:"updated_at"`
}

func ToResponse(e Employee) EmployeeResponse {
	return EmployeeResponse{
		ID:           e.ID,
		Name:         e.Name,
		Gender:       string(e.Gender),
		Status:       string(e.Status),
		Department:   e.Department,
		Project:      e.Project,
		ProfileImage: e.ProfileImage,
		CreatedAt:    e.CreatedAt.Format(time.RFC3339),
		UpdatedAt:    e.UpdatedAt.Format(time.RFC3339),
	}
}
