package project

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/kushanirosha/tws-attendance-backend-go/internal/pkg/validator"
)

// EmployeeIDs accepts a JSON array of IDs, or the same array carried as a
// JSON encoded string, or a list of {"id": ...} objects.
type EmployeeIDs []string

func (e *EmployeeIDs) UnmarshalJSON(data []byte) error {
	var ids []string
	if err := json.Unmarshal(data, &ids); err == nil {
		*e = ids
		return nil
	}

	var encoded string
	if err := json.Unmarshal(data, &encoded); err == nil {
		if encoded == "" {
			*e = EmployeeIDs{}
			return nil
		}
		if err := json.Unmarshal([]byte(encoded), &ids); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidEmployees, err)
		}
		*e = ids
		return nil
	}

	var objects []struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(data, &objects); err != nil {
		return ErrInvalidEmployees
	}
	ids = make([]string, 0, len(objects))
	for _, o := range objects {
		ids = append(ids, o.ID)
	}
	*e = ids
	return nil
}

// dedupe keeps the first occurrence of every ID
func (e EmployeeIDs) dedupe() []string {
	seen := make(map[string]struct{}, len(e))
	out := make([]string, 0, len(e))
	for _, id := range e {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

type CreateProjectRequest struct {
	Name       string      `json:"name"`
	Department string      `json:"department"`
	Employees  EmployeeIDs `json:"employees"`
}

func (r *CreateProjectRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Name) {
		errs.Add("name", "name is required")
	}
	if validator.IsEmpty(r.Department) {
		errs.Add("department", "department is required")
	}
	for _, id := range r.Employees {
		if validator.IsEmpty(id) {
			errs.Add("employees", "employee IDs must not be empty")
			break
		}
	}
	r.Employees = r.Employees.dedupe()

	return errs.Err()
}

type UpdateProjectRequest struct {
	ID         string       `json:"-"`
	Name       *string      `json:"name,omitempty"`
	Department *string      `json:"department,omitempty"`
	Employees  *EmployeeIDs `json:"employees,omitempty"`
}

func (r *UpdateProjectRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.Name != nil && validator.IsEmpty(*r.Name) {
		errs.Add("name", "name must not be empty")
	}
	if r.Department != nil && validator.IsEmpty(*r.Department) {
		errs.Add("department", "department must not be empty")
	}
	if r.Employees != nil {
		for _, id := range *r.Employees {
			if validator.IsEmpty(id) {
				errs.Add("employees", "employee IDs must not be empty")
				break
			}
		}
		ids := EmployeeIDs(r.Employees.dedupe())
		r.Employees = &ids
	}

	return errs.Err()
}

type ProjectFilter struct {
	Department *string
}

type ProjectResponse struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	Department string   `json:"department"`
	Employees  []string `json:"employees"`
	CreatedAt  string   `json:"created_at"`
	UpdatedAt  string   `json:"updated_at"`
}

func ToResponse(p Project) ProjectResponse {
	ids := p.EmployeeIDs
	if ids == nil {
		ids = []string{}
	}
	return ProjectResponse{
		ID:         p.ID,
		Name:       p.Name,
		Department: p.Department,
		Employees:  ids,
		CreatedAt:  p.CreatedAt.Format(time.RFC3339),
		UpdatedAt:  p.UpdatedAt.Format(time.RFC3339),
	}
}
