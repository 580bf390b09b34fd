package dashboard

import (
	"context"
)

// EmployeeSummaryStats combines all employee summary counts in single query
type EmployeeSummaryStats struct {
	Total        int64
	Active       int64
	Inactive     int64
	ActiveMale   int64
	ActiveFemale int64
}

// DepartmentCount is the active headcount of one department
type DepartmentCount struct {
	Department string
	Active     int64
}

// DashboardRepository defines the interface for dashboard data access
type DashboardRepository interface {
	// GetEmployeeSummary returns total, active, inactive and active-by-gender counts in single query
	GetEmployeeSummary(ctx context.Context) (*EmployeeSummaryStats, error)

	// GetDepartmentCounts returns active employees grouped by department
	GetDepartmentCounts(ctx context.Context) ([]DepartmentCount, error)
}
