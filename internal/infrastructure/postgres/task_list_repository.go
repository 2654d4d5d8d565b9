package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/expertzappdev/bizfree-backend/internal/domain/entity"
	"github.com/expertzappdev/bizfree-backend/internal/domain/repository"
)

var _ repository.TaskListRepository = (*TaskListRepo)(nil)

// TaskListRepo listas de tareas (usable con pool o tx).
type TaskListRepo struct {
	q Querier
}

// NewTaskListRepository construye el adaptador.
func NewTaskListRepository(q Querier) *TaskListRepo {
	return &TaskListRepo{q: q}
}

const taskListColumns = `id, project_id, company_id, name, is_deleted, created_by, created_at`

func scanTaskList(row pgx.Row) (*entity.TaskList, error) {
	var l entity.TaskList
	if err := row.Scan(&l.ID, &l.ProjectID, &l.CompanyID, &l.Name, &l.IsDeleted, &l.CreatedBy, &l.CreatedAt); err != nil {
		return nil, err
	}
	return &l, nil
}

// Create persiste la lista y asigna su ID.
func (r *TaskListRepo) Create(ctx context.Context, l *entity.TaskList) error {
	err := r.q.QueryRow(ctx, `
		INSERT INTO task_lists (project_id, company_id, name, is_deleted, created_by, created_at)
		VALUES ($1, $2, $3, FALSE, $4, $5) RETURNING id`,
		l.ProjectID, l.CompanyID, l.Name, l.CreatedBy, l.CreatedAt).Scan(&l.ID)
	if err != nil {
		return fmt.Errorf("insert task list: %w", err)
	}
	return nil
}

const (
	taskListByIDQuery          = `SELECT ` + taskListColumns + ` FROM task_lists WHERE id = $1`
	taskListByIDForUpdateQuery = taskListByIDQuery + ` FOR UPDATE`
)

// GetByID obtiene la lista sin bloquear la fila.
func (r *TaskListRepo) GetByID(ctx context.Context, id int64) (*entity.TaskList, error) {
	return r.getOne(ctx, taskListByIDQuery, id)
}

// GetByIDForUpdate obtiene la lista y la bloquea hasta el commit de la tx.
func (r *TaskListRepo) GetByIDForUpdate(ctx context.Context, id int64) (*entity.TaskList, error) {
	return r.getOne(ctx, taskListByIDForUpdateQuery, id)
}

func (r *TaskListRepo) getOne(ctx context.Context, query string, id int64) (*entity.TaskList, error) {
	l, err := scanTaskList(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get task list: %w", err)
	}
	return l, nil
}

// ListByProject listas vivas del proyecto.
func (r *TaskListRepo) ListByProject(ctx context.Context, projectID int64) ([]*entity.TaskList, error) {
	rows, err := r.q.Query(ctx, `SELECT `+taskListColumns+` FROM task_lists
		WHERE project_id = $1 AND is_deleted = FALSE ORDER BY id`, projectID)
	if err != nil {
		return nil, fmt.Errorf("list task lists: %w", err)
	}
	defer rows.Close()
	var out []*entity.TaskList
	for rows.Next() {
		l, err := scanTaskList(rows)
		if err != nil {
			return nil, fmt.Errorf("scan task list: %w", err)
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

// SoftDelete marca la lista como borrada.
func (r *TaskListRepo) SoftDelete(ctx context.Context, id, deletedBy int64) error {
	_, err := r.q.Exec(ctx, `UPDATE task_lists SET is_deleted = TRUE, deleted_by = $2, deleted_at = now() WHERE id = $1`, id, deletedBy)
	if err != nil {
		return fmt.Errorf("soft delete task list: %w", err)
	}
	return nil
}
