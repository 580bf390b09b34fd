package postgresql

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/kushanirosha/tws-attendance-backend-go/internal/domain/project"
	"github.com/kushanirosha/tws-attendance-backend-go/internal/pkg/database"
)

type projectRepositoryImpl struct {
	db *database.DB
}

func NewProjectRepository(db *database.DB) project.ProjectRepository {
	return &projectRepositoryImpl{db: db}
}

const projectColumns = `id, name, department, employees, created_at, updated_at`

func scanProject(row pgx.Row) (project.Project, error) {
	var (
		p         project.Project
		employees []byte
	)
	if err := row.Scan(&p.ID, &p.Name, &p.Department, &employees, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return project.Project{}, err
	}
	if err := json.Unmarshal(employees, &p.EmployeeIDs); err != nil {
		return project.Project{}, fmt.Errorf("decode roster of project %s: %w", p.ID, err)
	}
	if p.EmployeeIDs == nil {
		p.EmployeeIDs = []string{}
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

// List implements project.ProjectRepository.
func (r *projectRepositoryImpl) List(ctx context.Context, filter project.ProjectFilter) ([]project.Project, error) {
	q := GetQuerier(ctx, r.db)

	query := "SELECT " + projectColumns + " FROM projects"
	var args []interface{}
	if filter.Department != nil {
		query += " WHERE department = $1"
		args = append(args, *filter.Department)
	}
	query += " ORDER BY created_at, name"

	rows, err := q.Query(ctx, query, args...)
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

	if err = rows.Err(); err != nil {
		return nil, err
	}
	return projects, nil
}

// GetByID implements project.ProjectRepository.
func (r *projectRepositoryImpl) GetByID(ctx context.Context, id string) (project.Project, error) {
	q := GetQuerier(ctx, r.db)

	p, err := scanProject(q.QueryRow(ctx, "SELECT "+projectColumns+" FROM projects WHERE id = $1", id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return project.Project{}, project.ErrProjectNotFound
		}
		return project.Project{}, fmt.Errorf("failed to get project with id %s: %w", id, err)
	}
	return p, nil
}

// Create implements project.ProjectRepository.
func (r *projectRepositoryImpl) Create(ctx context.Context, newProject project.Project) (project.Project, error) {
	q := GetQuerier(ctx, r.db)

	roster, err := encodeRoster(newProject.EmployeeIDs)
	if err != nil {
		return project.Project{}, err
	}

	query := `
		INSERT INTO projects (id, name, department, employees)
		VALUES ($1, $2, $3, $4::jsonb)
		RETURNING ` + projectColumns

	created, err := scanProject(q.QueryRow(ctx, query, newProject.ID, newProject.Name, newProject.Department, roster))
	if err != nil {
		if isPgCode(err, codeUniqueViolation) {
			return project.Project{}, project.ErrProjectNameExists
		}
		return project.Project{}, fmt.Errorf("failed to create project: %w", err)
	}
	return created, nil
}

// Update implements project.ProjectRepository.
func (r *projectRepositoryImpl) Update(ctx context.Context, req project.UpdateProjectRequest) error {
	q := GetQuerier(ctx, r.db)

	var (
		setClauses []string
		args       []interface{}
	)
	set := func(expr string, val interface{}) {
		args = append(args, val)
		setClauses = append(setClauses, fmt.Sprintf(expr, len(args)))
	}

	if req.Name != nil {
		set("name = $%d", *req.Name)
	}
	if req.Department != nil {
		set("department = $%d", *req.Department)
	}
	if req.Employees != nil {
		roster, err := encodeRoster(*req.Employees)
		if err != nil {
			return err
		}
		set("employees = $%d::jsonb", roster)
	}
	if len(setClauses) == 0 {
		return nil
	}
	set("updated_at = $%d", time.Now())

	args = append(args, req.ID)
	sql := "UPDATE projects SET " + strings.Join(setClauses, ", ") + fmt.Sprintf(" WHERE id = $%d RETURNING id", len(args))

	var updatedID string
	if err := q.QueryRow(ctx, sql, args...).Scan(&updatedID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return project.ErrProjectNotFound
		}
		if isPgCode(err, codeUniqueViolation) {
			return project.ErrProjectNameExists
		}
		return fmt.Errorf("failed to update project with id %s: %w", req.ID, err)
	}
	return nil
}

// Delete implements project.ProjectRepository. Saved grids go with the project.
func (r *projectRepositoryImpl) Delete(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `DELETE FROM projects WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete project with id %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return project.ErrProjectNotFound
	}
	return nil
}
