package project

import "context"

type ProjectRepository interface {
	List(ctx context.Context, filter ProjectFilter) ([]Project, error)
	GetByID(ctx context.Context, id string) (Project, error)
	Create(ctx context.Context, newProject Project) (Project, error)
	Update(ctx context.Context, req UpdateProjectRequest) error
	Delete(ctx context.Context, id string) error
}
