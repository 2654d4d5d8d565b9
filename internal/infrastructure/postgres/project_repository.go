package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/expertzappdev/bizfree-backend/internal/domain"
	"github.com/expertzappdev/bizfree-backend/internal/domain/access"
	"github.com/expertzappdev/bizfree-backend/internal/domain/entity"
	"github.com/expertzappdev/bizfree-backend/internal/domain/repository"
)

var _ repository.ProjectRepository = (*ProjectRepo)(nil)

// ProjectRepo proyectos y miembros sobre PostgreSQL.
type ProjectRepo struct {
	q Querier
}

// NewProjectRepository construye el adaptador. Pasar pool o tx (Querier).
func NewProjectRepository(q Querier) *ProjectRepo {
	return &ProjectRepo{q: q}
}

const projectColumns = `p.id, p.company_id, p.name, p.description, p.status, p.budget, p.is_active, p.is_deleted,
	p.created_by, p.updated_by, p.created_at, p.updated_at`

func scanProject(row pgx.Row) (*entity.Project, error) {
	var p entity.Project
	err := row.Scan(&p.ID, &p.CompanyID, &p.Name, &p.Description, &p.Status, &p.Budget, &p.IsActive, &p.IsDeleted,
		&p.CreatedBy, &p.UpdatedBy, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Create persiste el proyecto y asigna su ID.
func (r *ProjectRepo) Create(ctx context.Context, p *entity.Project) error {
	query := `
		INSERT INTO projects (company_id, name, description, status, budget, is_active, is_deleted, created_by, updated_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, FALSE, $7, $8, $9, $10)
		RETURNING id`
	err := r.q.QueryRow(ctx, query,
		p.CompanyID, p.Name, p.Description, p.Status, p.Budget, p.IsActive,
		p.CreatedBy, p.UpdatedBy, p.CreatedAt, p.UpdatedAt,
	).Scan(&p.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.Conflict("ya existe un proyecto con ese nombre")
		}
		return fmt.Errorf("insert project: %w", err)
	}
	return nil
}

// GetByID obtiene un proyecto (incluye borrados; el caso de uso decide).
func (r *ProjectRepo) GetByID(ctx context.Context, id int64) (*entity.Project, error) {
	p, err := scanProject(r.q.QueryRow(ctx, `SELECT `+projectColumns+` FROM projects p WHERE p.id = $1`, id))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get project: %w", err)
	}
	return p, nil
}

// List proyectos vivos visibles bajo scope, ordenados por ID.
func (r *ProjectRepo) List(ctx context.Context, scope access.Scope, limit, offset int) ([]*entity.Project, error) {
	where, args := scopeClause(scope, "p", "id", 1)
	args = append(args, limit, offset)
	query := fmt.Sprintf(`SELECT %s FROM projects p
		WHERE p.is_deleted = FALSE AND %s
		ORDER BY p.id LIMIT $%d OFFSET $%d`, projectColumns, where, len(args)-1, len(args))
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	defer rows.Close()
	var out []*entity.Project
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, fmt.Errorf("scan project: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// IsMember informa si userID es miembro vivo del proyecto.
func (r *ProjectRepo) IsMember(ctx context.Context, projectID, userID int64) (bool, error) {
	var ok bool
	err := r.q.QueryRow(ctx, `
		SELECT EXISTS (SELECT 1 FROM project_members WHERE project_id = $1 AND user_id = $2 AND is_deleted = FALSE)`,
		projectID, userID).Scan(&ok)
	if err != nil {
		return false, fmt.Errorf("project membership: %w", err)
	}
	return ok, nil
}

// AddMember inserta la membresía.
func (r *ProjectRepo) AddMember(ctx context.Context, m *entity.ProjectMember) error {
	err := r.q.QueryRow(ctx, `
		INSERT INTO project_members (project_id, user_id, added_by, joined_at, is_deleted)
		VALUES ($1, $2, $3, $4, FALSE) RETURNING id`,
		m.ProjectID, m.UserID, m.AddedBy, m.JoinedAt).Scan(&m.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.Conflict("el usuario ya es miembro del proyecto")
		}
		return fmt.Errorf("insert project member: %w", err)
	}
	return nil
}
