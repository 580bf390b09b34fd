package sqlite

import (
	"context"

	"github.com/kushanirosha/tws-attendance-backend-go/internal/domain/dashboard"
	"github.com/kushanirosha/tws-attendance-backend-go/internal/domain/employee"
	"github.com/kushanirosha/tws-attendance-backend-go/internal/pkg/database"
)

type dashboardRepositoryImpl struct {
	db *database.SQLiteDB
}

func NewDashboardRepository(db *database.SQLiteDB) dashboard.DashboardRepository {
	return &dashboardRepositoryImpl{db: db}
}

// GetEmployeeSummary returns all employee counts in a single query
func (r *dashboardRepositoryImpl) GetEmployeeSummary(ctx context.Context) (*dashboard.EmployeeSummaryStats, error) {
	q := getQuerier(ctx, r.db)

	active, inactive := string(employee.StatusActive), string(employee.StatusInactive)
	male, female := string(employee.Male), string(employee.Female)

	var stats dashboard.EmployeeSummaryStats
	err := q.QueryRowContext(ctx, `
		SELECT
			COUNT(*),
			COALESCE(SUM(status = ?), 0),
			COALESCE(SUM(status = ?), 0),
			COALESCE(SUM(status = ? AND gender = ?), 0),
			COALESCE(SUM(status = ? AND gender = ?), 0)
		FROM employees
	`, active, inactive, active, male, active, female).Scan(
		&stats.Total, &stats.Active, &stats.Inactive, &stats.ActiveMale, &stats.ActiveFemale,
	)
	if err != nil {
		return nil, err
	}
	return &stats, nil
}

// GetDepartmentCounts returns active employees grouped by department
func (r *dashboardRepositoryImpl) GetDepartmentCounts(ctx context.Context) ([]dashboard.DepartmentCount, error) {
	q := getQuerier(ctx, r.db)

	rows, err := q.QueryContext(ctx, `
		SELECT department, COUNT(*)
		FROM employees
		WHERE status = ?
		GROUP BY department
		ORDER BY department
	`, string(employee.StatusActive))
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
