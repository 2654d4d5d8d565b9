package postgres

import (
	"context"
	"fmt"

	"github.com/expertzappdev/bizfree-backend/internal/domain/entity"
	"github.com/expertzappdev/bizfree-backend/internal/domain/repository"
)

var _ repository.DocumentRepository = (*DocumentRepo)(nil)

// DocumentRepo documentos adjuntos a proyectos y tareas (usable con pool o tx).
type DocumentRepo struct {
	q Querier
}

// NewDocumentRepository construye el adaptador.
func NewDocumentRepository(q Querier) *DocumentRepo {
	return &DocumentRepo{q: q}
}

// Create persiste el documento y asigna su ID.
func (r *DocumentRepo) Create(ctx context.Context, d *entity.Document) error {
	err := r.q.QueryRow(ctx, `
		INSERT INTO documents (owner_kind, owner_id, company_id, file_name, path, content_type, size, uploaded_by, is_deleted, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, FALSE, $9) RETURNING id`,
		d.OwnerKind, d.OwnerID, d.CompanyID, d.FileName, d.Path, d.ContentType, d.Size, d.UploadedBy, d.CreatedAt,
	).Scan(&d.ID)
	if err != nil {
		return fmt.Errorf("insert document: %w", err)
	}
	return nil
}

// GetByID obtiene un documento.
func (r *DocumentRepo) GetByID(ctx context.Context, id int64) (*entity.Document, error) {
	var d entity.Document
	err := r.q.QueryRow(ctx, `
		SELECT id, owner_kind, owner_id, company_id, file_name, path, content_type, size, uploaded_by, is_deleted, created_at
		FROM documents WHERE id = $1`, id).Scan(
		&d.ID, &d.OwnerKind, &d.OwnerID, &d.CompanyID, &d.FileName, &d.Path, &d.ContentType, &d.Size,
		&d.UploadedBy, &d.IsDeleted, &d.CreatedAt)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get document: %w", err)
	}
	return &d, nil
}

// SoftDelete marca el documento como borrado.
func (r *DocumentRepo) SoftDelete(ctx context.Context, id, deletedBy int64) error {
	_, err := r.q.Exec(ctx, `UPDATE documents SET is_deleted = TRUE, deleted_by = $2, deleted_at = now() WHERE id = $1`, id, deletedBy)
	if err != nil {
		return fmt.Errorf("soft delete document: %w", err)
	}
	return nil
}

// SoftDeleteByTasks marca los documentos vivos de las tareas indicadas.
func (r *DocumentRepo) SoftDeleteByTasks(ctx context.Context, taskIDs []int64, deletedBy int64) (int64, error) {
	if len(taskIDs) == 0 {
		return 0, nil
	}
	tag, err := r.q.Exec(ctx, `
		UPDATE documents SET is_deleted = TRUE, deleted_by = $3, deleted_at = now()
		WHERE owner_kind = $1 AND owner_id = ANY($2) AND is_deleted = FALSE`,
		entity.DocumentOwnerTask, taskIDs, deletedBy)
	if err != nil {
		return 0, fmt.Errorf("soft delete task documents: %w", err)
	}
	return tag.RowsAffected(), nil
}
