package project

import (
	"time"

	"github.com/kushanirosha/tws-attendance-backend-go/internal/domain/employee"
)

type Project struct {
	ID          string
	Name        string
	Department  string
	EmployeeIDs []string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Departments known to the shift board
const (
	DepartmentIT             = "IT Department"
	DepartmentDataEntry      = "Data Entry Department"
	DepartmentAdministration = "Administration Department"
)

var DepartmentValues = []string{
	DepartmentIT,
	DepartmentDataEntry,
	DepartmentAdministration,
}

// HasEmployee reports whether id is on the project roster
func (p Project) HasEmployee(id string) bool {
	for _, e := range p.EmployeeIDs {
		if e == id {
			return true
		}
	}
	return false
}

// Roster returns the employees on the project roster in the order of all,
// not in roster order. Roster IDs without a matching employee are ignored.
func (p Project) Roster(all []employee.Employee) []employee.Employee {
	members := make(map[string]struct{}, len(p.EmployeeIDs))
	for _, id := range p.EmployeeIDs {
		members[id] = struct{}{}
	}

	rows := make([]employee.Employee, 0, len(p.EmployeeIDs))
	for _, e := range all {
		if _, ok := members[e.ID]; ok {
			rows = append(rows, e)
		}
	}
	return rows
}
