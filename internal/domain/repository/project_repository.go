package repository

import (
	"context"

	"github.com/expertzappdev/bizfree-backend/internal/domain/access"
	"github.com/expertzappdev/bizfree-backend/internal/domain/entity"
)

// ProjectRepository persistencia de proyectos y sus miembros.
type ProjectRepository interface {
	Create(ctx context.Context, p *entity.Project) error
	GetByID(ctx context.Context, id int64) (*entity.Project, error)
	// List aplica el predicado de visibilidad del actor.
	List(ctx context.Context, scope access.Scope, limit, offset int) ([]*entity.Project, error)

	IsMember(ctx context.Context, projectID, userID int64) (bool, error)
	AddMember(ctx context.Context, m *entity.ProjectMember) error
}
