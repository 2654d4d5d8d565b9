package repository

import (
	"context"

	"github.com/expertzappdev/bizfree-backend/internal/domain/entity"
)

// RoleRepository lectura de roles.
type RoleRepository interface {
	GetByID(ctx context.Context, id int64) (*entity.Role, error)
}

// PermissionRepository lectura de permisos concedidos por rol y empresa.
type PermissionRepository interface {
	// ListNames hace el join role_permissions → permissions para (roleID, companyID).
	ListNames(ctx context.Context, roleID, companyID int64) ([]string, error)
}
