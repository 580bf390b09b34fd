package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/kushanirosha/tws-attendance-backend-go/internal/domain/employee"
	"github.com/kushanirosha/tws-attendance-backend-go/internal/pkg/database"
)

type employeeRepositoryImpl struct {
	db *database.SQLiteDB
}

func NewEmployeeRepository(db *database.SQLiteDB) employee.EmployeeRepository {
	return &employeeRepositoryImpl{db: db}
}

const employeeColumns = `id, name, gender, status, department, project, profile_image, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEmployee(row rowScanner) (employee.Employee, error) {
	var (
		e                    employee.Employee
		gender, status       string
		profileImage         sql.NullString
		createdAt, updatedAt string
	)
	if err := row.Scan(&e.ID, &e.Name, &gender, &status, &e.Department, &e.Project, &profileImage, &createdAt, &updatedAt); err != nil {
		return employee.Employee{}, err
	}
	e.Gender = employee.Gender(gender)
	e.Status = employee.Status(status)
	if profileImage.Valid {
		e.ProfileImage = &profileImage.String
	}

	var err error
	if e.CreatedAt, err = parseTime(createdAt); err != nil {
		return employee.Employee{}, err
	}
	if e.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return employee.Employee{}, err
	}
	return e, nil
}

func (r *employeeRepositoryImpl) List(ctx context.Context, filter employee.EmployeeFilter) ([]employee.Employee, error) {
	q := getQuerier(ctx, r.db)

	var (
		where []string
		args  []any
	)
	if filter.Department != nil {
		where = append(where, "department = ?")
		args = append(args, *filter.Department)
	}
	if filter.Project != nil {
		where = append(where, "project = ?")
		args = append(args, *filter.Project)
	}
	if filter.Status != nil {
		where = append(where, "status = ?")
		args = append(args, *filter.Status)
	}

	query := "SELECT " + employeeColumns + " FROM employees"
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY created_at, rowid"

	rows, err := q.QueryContext(ctx, query, args...)
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
	return employees, rows.Err()
}

func (r *employeeRepositoryImpl) GetByID(ctx context.Context, id string) (employee.Employee, error) {
	q := getQuerier(ctx, r.db)

	e, err := scanEmployee(q.QueryRowContext(ctx, "SELECT "+employeeColumns+" FROM employees WHERE id = ?", id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return employee.Employee{}, employee.ErrEmployeeNotFound
		}
		return employee.Employee{}, fmt.Errorf("failed to get employee with id %s: %w", id, err)
	}
	return e, nil
}

func (r *employeeRepositoryImpl) Create(ctx context.Context, newEmployee employee.Employee) (employee.Employee, error) {
	q := getQuerier(ctx, r.db)

	now := formatTime(time.Now())
	_, err := q.ExecContext(ctx, `
		INSERT INTO employees (id, name, gender, status, department, project, profile_image, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		newEmployee.ID, newEmployee.Name, string(newEmployee.Gender), string(newEmployee.Status),
		newEmployee.Department, newEmployee.Project, newEmployee.ProfileImage, now, now,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return employee.Employee{}, employee.ErrEmployeeIDExists
		}
		return employee.Employee{}, fmt.Errorf("failed to create employee: %w", err)
	}
	return r.GetByID(ctx, newEmployee.ID)
}

func (r *employeeRepositoryImpl) ExistsByID(ctx context.Context, id string) (bool, error) {
	q := getQuerier(ctx, r.db)

	var exists bool
	if err := q.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM employees WHERE id = ?)`, id).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

func (r *employeeRepositoryImpl) Update(ctx context.Context, id string, req employee.UpdateEmployeeRequest) error {
	q := getQuerier(ctx, r.db)

	var (
		setClauses []string
		args       []any
	)
	set := func(col string, val any) {
		setClauses = append(setClauses, col+" = ?")
		args = append(args, val)
	}

	if req.Name != nil {
		set("name", *req.Name)
	}
	if req.Gender != nil {
		set("gender", *req.Gender)
	}
	if req.Status != nil {
		set("status", *req.Status)
	}
	if req.Department != nil {
		set("department", *req.Department)
	}
	if req.Project != nil {
		set("project", *req.Project)
	}
	if req.ProfileImage != nil {
		set("profile_image", *req.ProfileImage)
	}
	if len(setClauses) == 0 {
		return nil
	}
	set("updated_at", formatTime(time.Now()))
	args = append(args, id)

	res, err := q.ExecContext(ctx, "UPDATE employees SET "+strings.Join(setClauses, ", ")+" WHERE id = ?", args...)
	if err != nil {
		return fmt.Errorf("failed to update employee with id %s: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return employee.ErrEmployeeNotFound
	}
	return nil
}

// Delete removes the employee and drops it from every project roster
func (r *employeeRepositoryImpl) Delete(ctx context.Context, id string) error {
	return withTransaction(ctx, r.db, func(ctx context.Context) error {
		q := getQuerier(ctx, r.db)

		res, err := q.ExecContext(ctx, `DELETE FROM employees WHERE id = ?`, id)
		if err != nil {
			return fmt.Errorf("failed to delete employee with id %s: %w", id, err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return employee.ErrEmployeeNotFound
		}

		rows, err := q.QueryContext(ctx, `
			SELECT p.id, p.employees
			FROM projects p
			WHERE EXISTS (SELECT 1 FROM json_each(p.employees) WHERE value = ?)
		`, id)
		if err != nil {
			return fmt.Errorf("failed to find rosters of employee %s: %w", id, err)
		}

		rosters := make(map[string][]string)
		for rows.Next() {
			var projectID, raw string
			if err := rows.Scan(&projectID, &raw); err != nil {
				rows.Close()
				return err
			}
			var ids []string
			if err := json.Unmarshal([]byte(raw), &ids); err != nil {
				rows.Close()
				return fmt.Errorf("decode roster of project %s: %w", projectID, err)
			}
			rosters[projectID] = ids
		}
		rows.Close()
		if err := rows.Err(); err != nil {
			return err
		}

		now := formatTime(time.Now())
		for projectID, ids := range rosters {
			kept := make([]string, 0, len(ids))
			for _, other := range ids {
				if other != id {
					kept = append(kept, other)
				}
			}
			raw, err := json.Marshal(kept)
			if err != nil {
				return err
			}
			if _, err := q.ExecContext(ctx, `UPDATE projects SET employees = ?, updated_at = ? WHERE id = ?`, string(raw), now, projectID); err != nil {
				return fmt.Errorf("failed to update roster of project %s: %w", projectID, err)
			}
		}
		return nil
	})
}
