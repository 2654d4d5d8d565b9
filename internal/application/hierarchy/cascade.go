package hierarchy

import (
	"context"
	"errors"

	"github.com/expertzappdev/bizfree-backend/internal/application/dto"
	"github.com/expertzappdev/bizfree-backend/internal/domain"
	"github.com/expertzappdev/bizfree-backend/internal/domain/access"
	"github.com/expertzappdev/bizfree-backend/internal/domain/repository"
	"github.com/expertzappdev/bizfree-backend/pkg/metrics"
)

// DeleteTask borra lógicamente la tarea, sus subtareas directas y los documentos
// de todas ellas en una sola transacción. Las tareas hermanas no se tocan.
func (uc *HierarchyUseCase) DeleteTask(ctx context.Context, actor access.Actor, id int64) (*dto.CascadeResult, error) {
	if _, _, err := uc.loadTask(ctx, actor, id, access.KindTask, access.ActionDelete); err != nil {
		return nil, err
	}
	var res dto.CascadeResult
	err := uc.tx.RunCascade(ctx, func(_ repository.TaskListRepository, tasks repository.TaskRepository, documents repository.DocumentRepository) error {
		// Relectura dentro de la transacción: otro borrado pudo adelantarse.
		t, err := tasks.GetByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if t == nil || t.IsDeleted {
			return errTaskNotFound
		}
		subs, err := tasks.SubTaskIDs(ctx, id)
		if err != nil {
			return err
		}
		ids := append([]int64{id}, subs...)
		return softDeleteTasks(ctx, tasks, documents, ids, actor.UserID, &res)
	})
	if err != nil {
		return nil, cascadeErr(err)
	}
	uc.recordCascade(res, 0)
	uc.log.Info().Int64("task_id", id).Int64("tasks", res.Tasks).Int64("documents", res.Documents).Msg("tarea borrada en cascada")
	return &res, nil
}

// DeleteTaskList borra lógicamente la lista, todas sus tareas (subtareas incluidas)
// y sus documentos en una sola transacción. El proyecto no se toca.
func (uc *HierarchyUseCase) DeleteTaskList(ctx context.Context, actor access.Actor, id int64) (*dto.CascadeResult, error) {
	if _, _, err := uc.loadTaskList(ctx, actor, id, access.KindTaskList, access.ActionDelete); err != nil {
		return nil, err
	}
	var res dto.CascadeResult
	err := uc.tx.RunCascade(ctx, func(lists repository.TaskListRepository, tasks repository.TaskRepository, documents repository.DocumentRepository) error {
		l, err := lists.GetByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if l == nil || l.IsDeleted {
			return errTaskListNotFound
		}
		ids, err := tasks.IDsByTaskList(ctx, id)
		if err != nil {
			return err
		}
		if err := softDeleteTasks(ctx, tasks, documents, ids, actor.UserID, &res); err != nil {
			return err
		}
		return lists.SoftDelete(ctx, id, actor.UserID)
	})
	if err != nil {
		return nil, cascadeErr(err)
	}
	uc.recordCascade(res, 1)
	uc.log.Info().Int64("task_list_id", id).Int64("tasks", res.Tasks).Int64("documents", res.Documents).Msg("lista borrada en cascada")
	return &res, nil
}

func softDeleteTasks(ctx context.Context, tasks repository.TaskRepository, documents repository.DocumentRepository, ids []int64, by int64, res *dto.CascadeResult) error {
	if len(ids) == 0 {
		return nil
	}
	n, err := tasks.SoftDeleteMany(ctx, ids, by)
	if err != nil {
		return err
	}
	d, err := documents.SoftDeleteByTasks(ctx, ids, by)
	if err != nil {
		return err
	}
	res.Tasks, res.Documents = n, d
	return nil
}

// cascadeErr conserva los errores de dominio y convierte el resto en ErrStorage.
func cascadeErr(err error) error {
	var de *domain.Error
	if errors.As(err, &de) {
		return err
	}
	return domain.Storage("borrado en cascada fallido; no se aplicó ningún cambio", err)
}

func (uc *HierarchyUseCase) recordCascade(res dto.CascadeResult, lists int) {
	metrics.CascadeRows.WithLabelValues("task").Add(float64(res.Tasks))
	metrics.CascadeRows.WithLabelValues("document").Add(float64(res.Documents))
	if lists > 0 {
		metrics.CascadeRows.WithLabelValues("task_list").Add(float64(lists))
	}
}
