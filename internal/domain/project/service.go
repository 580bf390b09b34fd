package project

import "context"

type ProjectService interface {
	ListProjects(ctx context.Context, filter ProjectFilter) ([]ProjectResponse, error)
	GetProject(ctx context.Context, id string) (ProjectResponse, error)
	CreateProject(ctx context.Context, req CreateProjectRequest) (ProjectResponse, error)
	UpdateProject(ctx context.Context, req UpdateProjectRequest) (ProjectResponse, error)
	DeleteProject(ctx context.Context, id string) error
}
