package postgresql

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/kushanirosha/tws-attendance-backend-go/internal/domain/employee"
	"github.com/kushanirosha/tws-attendance-backend-go/internal/pkg/database"
)

type employeeRepositoryImpl struct {
	db *database.DB
}

func NewEmployeeRepository(db *database.DB) employee.EmployeeRepository {
	return &employeeRepositoryImpl{db: db}
}

const employeeColumns = `id, name, gender, status, department, project, profile_image, created_at, updated_at`

func scanEmployee(row pgx.Row) (employee.Employee, error) {
	var e employee.Employee
	err := row.Scan(
		&e.ID, &e.Name, &e.Gender, &e.Status, &e.Department, &e.Project,
		&e.ProfileImage, &e.CreatedAt, &e.UpdatedAt,
	)
	return e, err
}

// List implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) List(ctx context.Context, filter employee.EmployeeFilter) ([]employee.Employee, error) {
	q := GetQuerier(ctx, r.db)

	var (
		where []string
		args  []interface{}
	)
	if filter.Department != nil {
		args = append(args, *filter.Department)
		where = append(where, fmt.Sprintf("department = $%d", len(args)))
	}
	if filter.Project != nil {
		args = append(args, *filter.Project)
		where = append(where, fmt.Sprintf("project = $%d", len(args)))
	}
	if filter.Status != nil {
		args = append(args, *filter.Status)
		where = append(where, fmt.Sprintf("status = $%d", len(args)))
	}

	query := "SELECT " + employeeColumns + " FROM employees"
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY created_at, id"

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	employees := make([]employee.Employee, 0)
	for rows.Next() {
		e, err := scanEmployee(rows)
		if err != nil {
			return nil, err
		}
		employees = append(employees, e)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return employees, nil
}

// GetByID implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) GetByID(ctx context.Context, id string) (employee.Employee, error) {
	q := GetQuerier(ctx, r.db)

	e, err := scanEmployee(q.QueryRow(ctx, "SELECT "+employeeColumns+" FROM employees WHERE id = $1", id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return employee.Employee{}, employee.ErrEmployeeNotFound
		}
		return employee.Employee{}, fmt.Errorf("failed to get employee with id %s: %w", id, err)
	}
	return e, nil
}

// Create implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) Create(ctx context.Context, newEmployee employee.Employee) (employee.Employee, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO employees (id, name, gender, status, department, project, profile_image)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING ` + employeeColumns

	created, err := scanEmployee(q.QueryRow(ctx, query,
		newEmployee.ID, newEmployee.Name, newEmployee.Gender, newEmployee.Status,
		newEmployee.Department, newEmployee.Project, newEmployee.ProfileImage,
	))
	if err != nil {
		if isPgCode(err, codeUniqueViolation) {
			return employee.Employee{}, employee.ErrEmployeeIDExists
		}
		return employee.Employee{}, fmt.Errorf("failed to create employee: %w", err)
	}
	return created, nil
}

// ExistsByID implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) ExistsByID(ctx context.Context, id string) (bool, error) {
	q := GetQuerier(ctx, r.db)

	var exists bool
	if err := q.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM employees WHERE id = $1)`, id).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

// Update implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) Update(ctx context.Context, id string, req employee.UpdateEmployeeRequest) error {
	q := GetQuerier(ctx, r.db)

	updates := make(map[string]interface{})

	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Gender != nil {
		updates["gender"] = *req.Gender
	}
	if req.Status != nil {
		updates["status"] = *req.Status
	}
	if req.Department != nil {
		updates["department"] = *req.Department
	}
	if req.Project != nil {
		updates["project"] = *req.Project
	}
	if req.ProfileImage != nil {
		updates["profile_image"] = *req.ProfileImage
	}

	if len(updates) == 0 {
		return nil
	}
	updates["updated_at"] = time.Now()

	setClauses := make([]string, 0, len(updates))
	args := make([]interface{}, 0, len(updates)+1)
	i := 1
	for col, val := range updates {
		setClauses = append(setClauses, fmt.Sprintf("%s = $%d", col, i))
		args = append(args, val)
		i++
	}

	sql := "UPDATE employees SET " + strings.Join(setClauses, ", ") + fmt.Sprintf(" WHERE id = $%d", i)
	args = append(args, id)

	var updatedID string
	if err := q.QueryRow(ctx, sql+" RETURNING id", args...).Scan(&updatedID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return employee.ErrEmployeeNotFound
		}
		return fmt.Errorf("failed to update employee with id %s: %w", id, err)
	}
	return nil
}

// Delete removes the employee and drops it from every project roster
func (r *employeeRepositoryImpl) Delete(ctx context.Context, id string) error {
	return WithTransaction(ctx, r.db, func(ctx context.Context) error {
		q := GetQuerier(ctx, r.db)

		tag, err := q.Exec(ctx, `DELETE FROM employees WHERE id = $1`, id)
		if err != nil {
			return fmt.Errorf("failed to delete employee with id %s: %w", id, err)
		}
		if tag.RowsAffected() == 0 {
			return employee.ErrEmployeeNotFound
		}

		_, err = q.Exec(ctx, `
			UPDATE projects
			SET employees = employees - $1::text, updated_at = NOW()
			WHERE employees ? $1::text
		`, id)
		if err != nil {
			return fmt.Errorf("failed to remove employee %s from projects: %w", id, err)
		}
		return nil
	})
}
