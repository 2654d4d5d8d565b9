package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/expertzappdev/bizfree-backend/internal/domain/access"
	"github.com/expertzappdev/bizfree-backend/internal/domain/entity"
	"github.com/expertzappdev/bizfree-backend/internal/domain/repository"
)

var _ repository.TaskRepository = (*TaskRepo)(nil)

// TaskRepo tabla plana de tareas y subtareas (parent_task_id nullable).
type TaskRepo struct {
	q Querier
}

// NewTaskRepository construye el adaptador. Pasar pool o tx (Querier).
func NewTaskRepository(q Querier) *TaskRepo {
	return &TaskRepo{q: q}
}

const taskColumns = `t.id, t.company_id, t.project_id, t.task_list_id, t.parent_task_id, t.title, t.description,
	t.status_id, t.assigned_to, t.estimated_hours, t.is_deleted, t.created_by, t.updated_by, t.created_at, t.updated_at`

func scanTask(row pgx.Row) (*entity.Task, error) {
	var t entity.Task
	err := row.Scan(&t.ID, &t.CompanyID, &t.ProjectID, &t.TaskListID, &t.ParentTaskID, &t.Title, &t.Description,
		&t.StatusID, &t.AssignedTo, &t.EstimatedHours, &t.IsDeleted, &t.CreatedBy, &t.UpdatedBy, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *TaskRepo) queryTasks(ctx context.Context, query string, args ...any) ([]*entity.Task, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	defer rows.Close()
	var out []*entity.Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("scan task: %w", err)
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// Create persiste la tarea y asigna su ID.
func (r *TaskRepo) Create(ctx context.Context, t *entity.Task) error {
	err := r.q.QueryRow(ctx, `
		INSERT INTO tasks (company_id, project_id, task_list_id, parent_task_id, title, description,
			status_id, assigned_to, estimated_hours, is_deleted, created_by, updated_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, FALSE, $10, $11, $12, $13)
		RETURNING id`,
		t.CompanyID, t.ProjectID, t.TaskListID, t.ParentTaskID, t.Title, t.Description,
		t.StatusID, t.AssignedTo, t.EstimatedHours, t.CreatedBy, t.UpdatedBy, t.CreatedAt, t.UpdatedAt,
	).Scan(&t.ID)
	if err != nil {
		return fmt.Errorf("insert task: %w", err)
	}
	return nil
}

const (
	taskByIDQuery          = `SELECT ` + taskColumns + ` FROM tasks t WHERE t.id = $1`
	taskByIDForUpdateQuery = taskByIDQuery + ` FOR UPDATE`
)

// GetByID obtiene la tarea sin bloquear la fila.
func (r *TaskRepo) GetByID(ctx context.Context, id int64) (*entity.Task, error) {
	return r.getOne(ctx, taskByIDQuery, id)
}

// GetByIDForUpdate obtiene la tarea y la bloquea hasta el commit de la tx.
func (r *TaskRepo) GetByIDForUpdate(ctx context.Context, id int64) (*entity.Task, error) {
	return r.getOne(ctx, taskByIDForUpdateQuery, id)
}

func (r *TaskRepo) getOne(ctx context.Context, query string, id int64) (*entity.Task, error) {
	t, err := scanTask(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get task: %w", err)
	}
	return t, nil
}

// Update guarda los campos editables. company_id, project_id, task_list_id y
// parent_task_id no se tocan.
func (r *TaskRepo) Update(ctx context.Context, t *entity.Task) error {
	_, err := r.q.Exec(ctx, `
		UPDATE tasks SET title = $2, description = $3, status_id = $4, assigned_to = $5,
			estimated_hours = $6, updated_by = $7, updated_at = $8
		WHERE id = $1 AND is_deleted = FALSE`,
		t.ID, t.Title, t.Description, t.StatusID, t.AssignedTo, t.EstimatedHours, t.UpdatedBy, t.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update task: %w", err)
	}
	return nil
}

// ListByTaskList tareas vivas de la lista bajo scope; padres antes que hijas.
func (r *TaskRepo) ListByTaskList(ctx context.Context, taskListID int64, scope access.Scope) ([]*entity.Task, error) {
	where, args := scopeClause(scope, "t", "project_id", 2)
	query := `SELECT ` + taskColumns + ` FROM tasks t
		WHERE t.task_list_id = $1 AND t.is_deleted = FALSE AND ` + where + `
		ORDER BY COALESCE(t.parent_task_id, t.id), t.parent_task_id NULLS FIRST, t.id`
	return r.queryTasks(ctx, query, append([]any{taskListID}, args...)...)
}

// ListByProject tareas vivas del proyecto (para el informe).
func (r *TaskRepo) ListByProject(ctx context.Context, projectID int64) ([]*entity.Task, error) {
	return r.queryTasks(ctx, `SELECT `+taskColumns+` FROM tasks t
		WHERE t.project_id = $1 AND t.is_deleted = FALSE ORDER BY t.task_list_id, t.id`, projectID)
}

// SubTaskIDs subtareas vivas directas.
func (r *TaskRepo) SubTaskIDs(ctx context.Context, parentID int64) ([]int64, error) {
	rows, err := r.q.Query(ctx, `SELECT id FROM tasks WHERE parent_task_id = $1 AND is_deleted = FALSE FOR UPDATE`, parentID)
	if err != nil {
		return nil, fmt.Errorf("subtask ids: %w", err)
	}
	return collectIDs(rows)
}

// IDsByTaskList tareas vivas de la lista más las subtareas de esas tareas,
// aunque alguna subtarea tenga otra task_list_id por datos antiguos.
func (r *TaskRepo) IDsByTaskList(ctx context.Context, taskListID int64) ([]int64, error) {
	rows, err := r.q.Query(ctx, `
		SELECT id FROM tasks
		WHERE is_deleted = FALSE
		  AND (task_list_id = $1
		       OR parent_task_id IN (SELECT id FROM tasks WHERE task_list_id = $1 AND is_deleted = FALSE))
		FOR UPDATE`, taskListID)
	if err != nil {
		return nil, fmt.Errorf("task ids by list: %w", err)
	}
	return collectIDs(rows)
}

// SoftDeleteMany marca como borradas las tareas indicadas.
func (r *TaskRepo) SoftDeleteMany(ctx context.Context, ids []int64, deletedBy int64) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	tag, err := r.q.Exec(ctx, `
		UPDATE tasks SET is_deleted = TRUE, updated_by = $2, updated_at = now()
		WHERE id = ANY($1) AND is_deleted = FALSE`, ids, deletedBy)
	if err != nil {
		return 0, fmt.Errorf("soft delete tasks: %w", err)
	}
	return tag.RowsAffected(), nil
}
