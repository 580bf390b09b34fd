package shiftassign

import (
	"time"

	"github.com/kushanirosha/tws-attendance-backend-go/internal/pkg/calendar"
)

// Assignments holds one project's month: employee ID -> day ("1".."31") -> stored cell value
type Assignments map[string]map[string]string

// Set spans months: month key -> Assignments
type Set map[calendar.MonthKey]Assignments

// ProjectMonth is the persisted record of one project's month
type ProjectMonth struct {
	ProjectID   string
	MonthKey    calendar.MonthKey
	Assignments Assignments
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Get returns the stored value of a cell, "" when any level is missing
func (a Assignments) Get(employeeID, day string) string {
	if a == nil {
		return ""
	}
	return a[employeeID][day]
}

// Set replaces exactly one cell. The employee's other days and all other
// employees are kept; the employee day map is copied, not replaced wholesale.
func (a Assignments) Set(employeeID, day, value string) Assignments {
	if a == nil {
		a = make(Assignments)
	}

	days := make(map[string]string, len(a[employeeID])+1)
	for d, v := range a[employeeID] {
		days[d] = v
	}
	days[day] = value
	a[employeeID] = days

	return a
}

// Clone deep copies the assignments
func (a Assignments) Clone() Assignments {
	out := make(Assignments, len(a))
	for emp, days := range a {
		cp := make(map[string]string, len(days))
		for d, v := range days {
			cp[d] = v
		}
		out[emp] = cp
	}
	return out
}

// Compact drops empty cells and employees without any assigned day
func (a Assignments) Compact() Assignments {
	out := make(Assignments, len(a))
	for emp, days := range a {
		for d, v := range days {
			if v == "" {
				continue
			}
			if out[emp] == nil {
				out[emp] = make(map[string]string)
			}
			out[emp][d] = v
		}
	}
	return out
}

// Normalize copies the assignments for editing. Accepted values are kept as
// stored, anything else is re-encoded through DecodeCell, and cells that read
// as unset are dropped, so a loaded month always passes save validation.
func (a Assignments) Normalize() Assignments {
	out := make(Assignments, len(a))
	for emp, days := range a {
		for d, v := range days {
			if !IsCanonical(v) {
				v = DecodeCell(v).Encode()
			}
			if v == "" {
				continue
			}
			if out[emp] == nil {
				out[emp] = make(map[string]string)
			}
			out[emp][d] = v
		}
	}
	return out
}

// GetCell returns the stored value at set[monthKey][employeeID][day], "" when absent
func GetCell(set Set, monthKey calendar.MonthKey, employeeID, day string) string {
	if set == nil {
		return ""
	}
	return set[monthKey].Get(employeeID, day)
}

// SetCell replaces one leaf of the set with a shallow merge at the employee level.
// The set is updated in place and returned; a nil set is allocated.
func SetCell(set Set, monthKey calendar.MonthKey, employeeID, day, value string) Set {
	if set == nil {
		set = make(Set)
	}
	set[monthKey] = set[monthKey].Set(employeeID, day, value)
	return set
}
