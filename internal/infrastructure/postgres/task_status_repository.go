package postgres

import (
	"context"
	"fmt"

	"github.com/expertzappdev/bizfree-backend/internal/domain"
	"github.com/expertzappdev/bizfree-backend/internal/domain/entity"
	"github.com/expertzappdev/bizfree-backend/internal/domain/repository"
)

var _ repository.TaskStatusRepository = (*TaskStatusRepo)(nil)

// TaskStatusRepo datos de referencia de estados de tarea.
type TaskStatusRepo struct {
	q Querier
}

// NewTaskStatusRepository construye el adaptador.
var errStatusInUse = domain.Conflict("el estado está en uso por tareas")

func NewTaskStatusRepository(q Querier) *TaskStatusRepo {
	return &TaskStatusRepo{q: q}
}

func (r *TaskStatusRepo) Create(ctx context.Context, s *entity.TaskStatus) error {
	err := r.q.QueryRow(ctx, `INSERT INTO task_statuses (company_id, name, created_at) VALUES ($1, $2, $3) RETURNING id`,
		s.CompanyID, s.Name, s.CreatedAt).Scan(&s.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.Conflict("ya existe un estado con ese nombre")
		}
		return fmt.Errorf("insert task status: %w", err)
	}
	return nil
}

func (r *TaskStatusRepo) GetByID(ctx context.Context, id int64) (*entity.TaskStatus, error) {
	var s entity.TaskStatus
	err := r.q.QueryRow(ctx, `SELECT id, company_id, name, created_at FROM task_statuses WHERE id = $1`, id).
		Scan(&s.ID, &s.CompanyID, &s.Name, &s.CreatedAt)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get task status: %w", err)
	}
	return &s, nil
}

func (r *TaskStatusRepo) ListByCompany(ctx context.Context, companyID int64) ([]*entity.TaskStatus, error) {
	rows, err := r.q.Query(ctx, `SELECT id, company_id, name, created_at FROM task_statuses WHERE company_id = $1 ORDER BY id`, companyID)
	if err != nil {
		return nil, fmt.Errorf("list task statuses: %w", err)
	}
	defer rows.Close()
	var out []*entity.TaskStatus
	for rows.Next() {
		var s entity.TaskStatus
		if err := rows.Scan(&s.ID, &s.CompanyID, &s.Name, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan task status: %w", err)
		}
		out = append(out, &s)
	}
	return out, rows.Err()
}

// CountReferences cuenta tareas (también borradas) que apuntan al estado.
func (r *TaskStatusRepo) CountReferences(ctx context.Context, id int64) (int64, error) {
	var n int64
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM tasks WHERE status_id = $1`, id).Scan(&n); err != nil {
		return 0, fmt.Errorf("count task status references: %w", err)
	}
	return n, nil
}

// Delete borra el estado. Si una tarea empezó a referenciarlo después del
// conteo, la clave foránea lo impide y se devuelve ErrConflict.
func (r *TaskStatusRepo) Delete(ctx context.Context, id int64) error {
	_, err := r.q.Exec(ctx, `DELETE FROM task_statuses WHERE id = $1`, id)
	if err != nil {
		if isForeignKeyViolation(err) {
			return errStatusInUse
		}
		return fmt.Errorf("delete task status: %w", err)
	}
	return nil
}
