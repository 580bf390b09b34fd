package employee

import "time"

type Employee struct {
	ID           string
	Name         string
	Gender       Gender
	Status       Status
	Department   string
	Project      string
	ProfileImage *string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type Gender string

const (
	Male   Gender = "Male"
	Female Gender = "Female"
)

var GenderValues = []string{
	string(Male),
	string(Female),
}

type Status string

const (
	StatusActive   Status = "Active"
	StatusInactive Status = "Inactive"
)

var StatusValues = []string{
	string(StatusActive),
	string(StatusInactive),
}
