package postgresql

import (
	"context"

	"github.com/kushanirosha/tws-attendance-backend-go/internal/domain/dashboard"
	"github.com/kushanirosha/tws-attendance-backend-go/internal/domain/employee"
	"github.com/kushanirosha/tws-attendance-backend-go/internal/pkg/database"
)

type dashboardRepositoryImpl struct {
	db *database.DB
}

func NewDashboardRepository(db *database.DB) dashboard.DashboardRepository {
	return &dashboardRepositoryImpl{db: db}
}

// GetEmployeeSummary returns all employee counts in a single query
func (r *dashboardRepositoryImpl) GetEmployeeSummary(ctx context.Context) (*dashboard.EmployeeSummaryStats, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT
			COUNT(*) AS total,
			COUNT(*) FILTER (WHERE status = $1) AS active,
			COUNT(*) FILTER (WHERE status = $2) AS inactive,
			COUNT(*) FILTER (WHERE status = $1 AND gender = $3) AS active_male,
			COUNT(*) FILTER (WHERE status = $1 AND gender = $4) AS active_female
		FROM employees
	`

	var stats dashboard.EmployeeSummaryStats
	err := q.QueryRow(ctx, query,
		employee.StatusActive, employee.StatusInactive, employee.Male, employee.Female,
	).Scan(&stats.Total, &stats.Active, &stats.Inactive, &stats.ActiveMale, &stats.ActiveFemale)
	if err != nil {
		return nil, err
	}
	return &stats, nil
}

// GetDepartmentCounts returns active employees grouped by department
func (r *dashboardRepositoryImpl) GetDepartmentCounts(ctx context.Context) ([]dashboard.DepartmentCount, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, `
		SELECT department, COUNT(*)
		FROM employees
		WHERE status = $1
		GROUP BY department
		ORDER BY department
	`, employee.StatusActive)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make([]dashboard.DepartmentCount, 0)
	for rows.Next() {
		var c dashboard.DepartmentCount
		if err := rows.Scan(&c.Department, &c.Active); err != nil {
			return nil, err
		}
		counts = append(counts, c)
	}
	return counts, rows.Err()
}
