package repository

import (
	"context"

	"github.com/expertzappdev/bizfree-backend/internal/domain/access"
	"github.com/expertzappdev/bizfree-backend/internal/domain/entity"
)

// TaskListRepository persistencia de listas de tareas (usable con pool o tx).
type TaskListRepository interface {
	Create(ctx context.Context, l *entity.TaskList) error
	GetByID(ctx context.Context, id int64) (*entity.TaskList, error)
	// GetByIDForUpdate bloquea la fila hasta el commit; solo dentro de una tx.
	GetByIDForUpdate(ctx context.Context, id int64) (*entity.TaskList, error)
	ListByProject(ctx context.Context, projectID int64) ([]*entity.TaskList, error)
	SoftDelete(ctx context.Context, id, deletedBy int64) error
}

// TaskRepository persistencia de la tabla plana de tareas y subtareas (usable con pool o tx).
type TaskRepository interface {
	Create(ctx context.Context, t *entity.Task) error
	GetByID(ctx context.Context, id int64) (*entity.Task, error)
	// GetByIDForUpdate bloquea la fila hasta el commit; solo dentro de una tx.
	GetByIDForUpdate(ctx context.Context, id int64) (*entity.Task, error)
	Update(ctx context.Context, t *entity.Task) error
	// ListByTaskList devuelve las tareas vivas de la lista visibles bajo scope.
	ListByTaskList(ctx context.Context, taskListID int64, scope access.Scope) ([]*entity.Task, error)
	ListByProject(ctx context.Context, projectID int64) ([]*entity.Task, error)

	// SubTaskIDs IDs de subtareas vivas directas de parentID.
	SubTaskIDs(ctx context.Context, parentID int64) ([]int64, error)
	// IDsByTaskList IDs de tareas vivas de la lista, subtareas incluidas.
	IDsByTaskList(ctx context.Context, taskListID int64) ([]int64, error)
	SoftDeleteMany(ctx context.Context, ids []int64, deletedBy int64) (int64, error)
}

// TaskStatusRepository datos de referencia de estados de tarea.
type TaskStatusRepository interface {
	Create(ctx context.Context, s *entity.TaskStatus) error
	GetByID(ctx context.Context, id int64) (*entity.TaskStatus, error)
	ListByCompany(ctx context.Context, companyID int64) ([]*entity.TaskStatus, error)
	CountReferences(ctx context.Context, id int64) (int64, error)
	Delete(ctx context.Context, id int64) error
}
