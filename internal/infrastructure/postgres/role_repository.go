package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/expertzappdev/bizfree-backend/internal/domain/entity"
	"github.com/expertzappdev/bizfree-backend/internal/domain/repository"
)

var (
	_ repository.RoleRepository       = (*RoleRepo)(nil)
	_ repository.PermissionRepository = (*RoleRepo)(nil)
)

// RoleRepo roles y permisos concedidos.
type RoleRepo struct {
	q Querier
}

// NewRoleRepository construye el adaptador.
func NewRoleRepository(q Querier) *RoleRepo {
	return &RoleRepo{q: q}
}

// GetByID obtiene un rol.
func (r *RoleRepo) GetByID(ctx context.Context, id int64) (*entity.Role, error) {
	var role entity.Role
	err := r.q.QueryRow(ctx, `SELECT id, name, company_id, is_admin FROM roles WHERE id = $1`, id).
		Scan(&role.ID, &role.Name, &role.CompanyID, &role.IsAdmin)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get role: %w", err)
	}
	return &role, nil
}

// ListNames permisos del rol dentro de la empresa.
func (r *RoleRepo) ListNames(ctx context.Context, roleID, companyID int64) ([]string, error) {
	rows, err := r.q.Query(ctx, `
		SELECT DISTINCT p.name
		FROM role_permissions rp
		JOIN permissions p ON p.id = rp.permission_id
		WHERE rp.role_id = $1 AND rp.company_id = $2
		ORDER BY p.name`, roleID, companyID)
	if err != nil {
		return nil, fmt.Errorf("list permissions: %w", err)
	}
	names, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("scan permissions: %w", err)
	}
	return names, nil
}
