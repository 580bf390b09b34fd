package project

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/kushanirosha/tws-attendance-backend-go/internal/domain/employee"
	"github.com/kushanirosha/tws-attendance-backend-go/internal/domain/project"
)

type projectServiceImpl struct {
	projectRepo  project.ProjectRepository
	employeeRepo employee.EmployeeRepository
}

func NewProjectService(projectRepo project.ProjectRepository, employeeRepo employee.EmployeeRepository) project.ProjectService {
	return &projectServiceImpl{
		projectRepo:  projectRepo,
		employeeRepo: employeeRepo,
	}
}

func (s *projectServiceImpl) ListProjects(ctx context.Context, filter project.ProjectFilter) ([]project.ProjectResponse, error) {
	projects, err := s.projectRepo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}

	responses := make([]project.ProjectResponse, 0, len(projects))
	for _, p := range projects {
		responses = append(responses, project.ToResponse(p))
	}
	return responses, nil
}

func (s *projectServiceImpl) GetProject(ctx context.Context, id string) (project.ProjectResponse, error) {
	p, err := s.projectRepo.GetByID(ctx, id)
	if err != nil {
		return project.ProjectResponse{}, err
	}
	return project.ToResponse(p), nil
}

func (s *projectServiceImpl) CreateProject(ctx context.Context, req project.CreateProjectRequest) (project.ProjectResponse, error) {
	if err := req.Validate(); err != nil {
		return project.ProjectResponse{}, err
	}
	if err := s.checkEmployees(ctx, req.Employees); err != nil {
		return project.ProjectResponse{}, err
	}

	id, err := uuid.NewV7()
	if err != nil {
		return project.ProjectResponse{}, fmt.Errorf("failed to generate project ID: %w", err)
	}

	created, err := s.projectRepo.Create(ctx, project.Project{
		ID:          id.String(),
		Name:        req.Name,
		Department:  req.Department,
		EmployeeIDs: req.Employees,
	})
	if err != nil {
		return project.ProjectResponse{}, err
	}

	slog.Info("project created", "project_id", created.ID, "name", created.Name, "employees", len(created.EmployeeIDs))
	return project.ToResponse(created), nil
}

func (s *projectServiceImpl) UpdateProject(ctx context.Context, req project.UpdateProjectRequest) (project.ProjectResponse, error) {
	if err := req.Validate(); err != nil {
		return project.ProjectResponse{}, err
	}
	if _, err := s.projectRepo.GetByID(ctx, req.ID); err != nil {
		return project.ProjectResponse{}, err
	}
	if req.Employees != nil {
		if err := s.checkEmployees(ctx, *req.Employees); err != nil {
			return project.ProjectResponse{}, err
		}
	}

	if err := s.projectRepo.Update(ctx, req); err != nil {
		return project.ProjectResponse{}, err
	}

	updated, err := s.projectRepo.GetByID(ctx, req.ID)
	if err != nil {
		return project.ProjectResponse{}, err
	}
	return project.ToResponse(updated), nil
}

func (s *projectServiceImpl) DeleteProject(ctx context.Context, id string) error {
	if err := s.projectRepo.Delete(ctx, id); err != nil {
		return err
	}
	slog.Info("project deleted", "project_id", id)
	return nil
}

// checkEmployees rejects rosters referencing unknown employees
func (s *projectServiceImpl) checkEmployees(ctx context.Context, ids []string) error {
	for _, id := range ids {
		exists, err := s.employeeRepo.ExistsByID(ctx, id)
		if err != nil {
			return fmt.Errorf("failed to check employee %s: %w", id, err)
		}
		if !exists {
			return fmt.Errorf("%w: unknown employee %s", project.ErrInvalidEmployees, id)
		}
	}
	return nil
}
