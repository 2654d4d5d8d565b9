package repository

import (
	"context"

	"github.com/expertzappdev/bizfree-backend/internal/domain/entity"
)

// CompanyRepository define el puerto de persistencia para Company (DIP).
// La implementación vive en infrastructure.
type CompanyRepository interface {
	GetByID(ctx context.Context, id int64) (*entity.Company, error)
}
