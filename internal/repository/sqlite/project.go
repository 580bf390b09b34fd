package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/kushanirosha/tws-attendance-backend-go/internal/domain/project"
	"github.com/kushanirosha/tws-attendance-backend-go/internal/pkg/database"
)

type projectRepositoryImpl struct {
	db *database.SQLiteDB
}

func NewProjectRepository(db *database.SQLiteDB) project.ProjectRepository {
	return &projectRepositoryImpl{db: db}
}

const projectColumns = `id, name, department, employees, created_at, updated_at`

func scanProject(row rowScanner) (project.Project, error) {
	var (
		p                    project.Project
		roster               string
		createdAt, updatedAt string
	)
	if err := row.Scan(&p.ID, &p.Name, &p.Department, &roster, &createdAt, &updatedAt); err != nil {
		return project.Project{}, err
	}
	if err := json.Unmarshal([]byte(roster), &p.EmployeeIDs); err != nil {
		return project.Project{}, fmt.Errorf("decode roster of project %s: %w", p.ID, err)
	}
	if p.EmployeeIDs == nil {
		p.EmployeeIDs = []string{}
	}

	var err error
	if p.CreatedAt, err = parseTime(createdAt); err != nil {
		return project.Project{}, err
	}
	if p.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return project.Project{}, err
	}
	return p, nil
}

func encodeRoster(ids []string) (string, error) {
	if ids == nil {
		ids = []string{}
	}
	b, err := json.Marshal(ids)
	return string(b), err
}

func (r *projectRepositoryImpl) List(ctx context.Context, filter project.ProjectFilter) ([]project.Project, error) {
	q := getQuerier(ctx, r.db)

	query := "SELECT " + projectColumns + " FROM projects"
	var args []any
	if filter.Department != nil {
		query += " WHERE department = ?"
		args = append(args, *filter.Department)
	}
	query += " ORDER BY created_at, rowid"

	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	projects := make([]project.Project, 0)
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		projects = append(projects, p)
	}
	return projects, rows.Err()
}

func (r *projectRepositoryImpl) GetByID(ctx context.Context, id string) (project.Project, error) {
	q := getQuerier(ctx, r.db)

	p, err := scanProject(q.QueryRowContext(ctx, "SELECT "+projectColumns+" FROM projects WHERE id = ?", id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return project.Project{}, project.ErrProjectNotFound
		}
		return project.Project{}, fmt.Errorf("failed to get project with id %s: %w", id, err)
	}
	return p, nil
}

func (r *projectRepositoryImpl) Create(ctx context.Context, newProject project.Project) (project.Project, error) {
	q := getQuerier(ctx, r.db)

	roster, err := encodeRoster(newProject.EmployeeIDs)
	if err != nil {
		return project.Project{}, err
	}

	now := formatTime(time.Now())
	_, err = q.ExecContext(ctx, `
		INSERT INTO projects (id, name, department, employees, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, newProject.ID, newProject.Name, newProject.Department, roster, now, now)
	if err != nil {
		if isUniqueViolation(err) {
			return project.Project{}, project.ErrProjectNameExists
		}
		return project.Project{}, fmt.Errorf("failed to create project: %w", err)
	}
	return r.GetByID(ctx, newProject.ID)
}

func (r *projectRepositoryImpl) Update(ctx context.Context, req project.UpdateProjectRequest) error {
	q := getQuerier(ctx, r.db)

	var (
		setClauses []string
		args       []any
	)
	if req.Name != nil {
		setClauses = append(setClauses, "name = ?")
		args = append(args, *req.Name)
	}
	if req.Department != nil {
		setClauses = append(setClauses, "department = ?")
		args = append(args, *req.Department)
	}
	if req.Employees != nil {
		roster, err := encodeRoster(*req.Employees)
		if err != nil {
			return err
		}
		setClauses = append(setClauses, "employees = ?")
		args = append(args, roster)
	}
	if len(setClauses) == 0 {
		return nil
	}
	setClauses = append(setClauses, "updated_at = ?")
	args = append(args, formatTime(time.Now()), req.ID)

	res, err := q.ExecContext(ctx, "UPDATE projects SET "+strings.Join(setClauses, ", ")+" WHERE id = ?", args...)
	if err != nil {
		if isUniqueViolation(err) {
			return project.ErrProjectNameExists
		}
		return fmt.Errorf("failed to update project with id %s: %w", req.ID, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return project.ErrProjectNotFound
	}
	return nil
}

func (r *projectRepositoryImpl) Delete(ctx context.Context, id string) error {
	q := getQuerier(ctx, r.db)

	res, err := q.ExecContext(ctx, `DELETE FROM projects WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete project with id %s: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return project.ErrProjectNotFound
	}
	return nil
}
