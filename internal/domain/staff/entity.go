package staff

import "strings"

// Category groups support staff kept outside the shift board.
// Members are ordinary employees pinned to the category's project.
type Category string

const (
	CategoryCleaning Category = "cleaning"
	CategoryDrivers  Category = "drivers"
)

var Categories = []Category{CategoryCleaning, CategoryDrivers}

const (
	ProjectJanitor = "JANITOR"
	ProjectDriver  = "DRIVER"

	DepartmentCleaning  = "Cleaning Services"
	DepartmentTransport = "Transport Services"
)

func ParseCategory(s string) (Category, error) {
	c := Category(strings.ToLower(strings.TrimSpace(s)))
	switch c {
	case CategoryCleaning, CategoryDrivers:
		return c, nil
	}
	return "", ErrUnknownCategory
}

// Project is the employee project every member of the category carries
func (c Category) Project() string {
	if c == CategoryDrivers {
		return ProjectDriver
	}
	return ProjectJanitor
}

// Department is used when a new member is created without one
func (c Category) Department() string {
	if c == CategoryDrivers {
		return DepartmentTransport
	}
	return DepartmentCleaning
}
