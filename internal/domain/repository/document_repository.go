package repository

import (
	"context"

	"github.com/expertzappdev/bizfree-backend/internal/domain/entity"
)

// DocumentRepository persistencia de documentos adjuntos (usable con pool o tx).
type DocumentRepository interface {
	Create(ctx context.Context, d *entity.Document) error
	GetByID(ctx context.Context, id int64) (*entity.Document, error)
	SoftDelete(ctx context.Context, id, deletedBy int64) error
	// SoftDeleteByTasks marca borrados los documentos de las tareas indicadas.
	SoftDeleteByTasks(ctx context.Context, taskIDs []int64, deletedBy int64) (int64, error)
}
