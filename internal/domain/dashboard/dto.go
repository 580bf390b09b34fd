package dashboard

// StatsResponse is the live dashboard payload
type StatsResponse struct {
	CurrentShift string              `json:"currentShift"`
	ShiftRange   string              `json:"shiftRange"`
	UpdatedAt    string              `json:"updatedAt"`
	MonthYear    string              `json:"monthYear"`
	Today        string              `json:"today"`
	Employees    EmployeeStats       `json:"employees"`
	Departments  map[string]int64    `json:"departments"`
	Projects     []ProjectShiftStats `json:"projects"`
}

// EmployeeStats contains directory wide counts
type EmployeeStats struct {
	Total    int64        `json:"total"`
	Inactive int64        `json:"inactive"`
	Active   GenderCounts `json:"active"`
}

type GenderCounts struct {
	Total  int64 `json:"total"`
	Male   int64 `json:"male"`
	Female int64 `json:"female"`
}

// ProjectShiftStats summarizes today's column of a project's shift grid
type ProjectShiftStats struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Department    string `json:"department"`
	Headcount     int    `json:"headcount"`
	ScheduledDay  int    `json:"scheduledToday"`
	RestDayToday  int    `json:"restDayToday"`
	UnsetToday    int    `json:"unsetToday"`
	HasAssignment bool   `json:"hasAssignments"`
}
