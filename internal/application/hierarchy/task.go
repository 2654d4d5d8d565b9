package hierarchy

import (
	"context"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/expertzappdev/bizfree-backend/internal/application/dto"
	"github.com/expertzappdev/bizfree-backend/internal/domain"
	"github.com/expertzappdev/bizfree-backend/internal/domain/access"
	"github.com/expertzappdev/bizfree-backend/internal/domain/entity"
)

// CreateTask crea una tarea de primer nivel. Empresa y proyecto se copian de la lista.
func (uc *HierarchyUseCase) CreateTask(ctx context.Context, actor access.Actor, in dto.CreateTaskRequest) (*dto.TaskResponse, error) {
	if in.TaskListID == 0 {
		return nil, domain.Validation("taskListId es obligatorio")
	}
	list, _, err := uc.loadTaskList(ctx, actor, in.TaskListID, access.KindTask, access.ActionCreate)
	if err != nil {
		return nil, err
	}
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, domain.Validation("el título es obligatorio")
	}
	if err := uc.checkTaskFields(ctx, list.CompanyID, in.StatusID, in.AssignedTo, in.EstimatedHours); err != nil {
		return nil, err
	}
	listID := list.ID
	now := uc.now()
	t := &entity.Task{
		CompanyID:      list.CompanyID,
		ProjectID:      list.ProjectID,
		TaskListID:     &listID,
		Title:          title,
		Description:    strings.TrimSpace(in.Description),
		StatusID:       in.StatusID,
		AssignedTo:     in.AssignedTo,
		EstimatedHours: in.EstimatedHours,
		CreatedBy:      actor.UserID,
		UpdatedBy:      actor.UserID,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := uc.tasks.Create(ctx, t); err != nil {
		return nil, storageErr(err)
	}
	return toTaskResponse(t), nil
}

// CreateSubTask crea una subtarea. Empresa, proyecto y lista se heredan del padre
// y quedan fijos; un taskListId distinto al del padre es un error de validación.
// Las subtareas no admiten subtareas propias.
func (uc *HierarchyUseCase) CreateSubTask(ctx context.Context, actor access.Actor, in dto.CreateSubTaskRequest) (*dto.TaskResponse, error) {
	if in.ParentTaskID == 0 {
		return nil, domain.Validation("parentTaskId es obligatorio")
	}
	parent, _, err := uc.loadTask(ctx, actor, in.ParentTaskID, access.KindTask, access.ActionCreate)
	if err != nil {
		return nil, err
	}
	if parent.IsSubTask() {
		return nil, domain.Validation("una subtarea no puede tener subtareas")
	}
	if in.TaskListID != nil && *in.TaskListID != parent.List() {
		return nil, domain.Validation("taskListId no coincide con el de la tarea padre")
	}
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, domain.Validation("el título es obligatorio")
	}
	if err := uc.checkTaskFields(ctx, parent.CompanyID, in.StatusID, in.AssignedTo, in.EstimatedHours); err != nil {
		return nil, err
	}
	parentID := parent.ID
	now := uc.now()
	t := &entity.Task{
		CompanyID:      parent.CompanyID,
		ProjectID:      parent.ProjectID,
		TaskListID:     copyID(parent.TaskListID),
		ParentTaskID:   &parentID,
		Title:          title,
		Description:    strings.TrimSpace(in.Description),
		StatusID:       in.StatusID,
		AssignedTo:     in.AssignedTo,
		EstimatedHours: in.EstimatedHours,
		CreatedBy:      actor.UserID,
		UpdatedBy:      actor.UserID,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := uc.tasks.Create(ctx, t); err != nil {
		return nil, storageErr(err)
	}
	return toTaskResponse(t), nil
}

// UpdateTask modifica los campos editables. El padre de una subtarea no cambia nunca.
func (uc *HierarchyUseCase) UpdateTask(ctx context.Context, actor access.Actor, id int64, in dto.UpdateTaskRequest) (*dto.TaskResponse, error) {
	t, _, err := uc.loadTask(ctx, actor, id, access.KindTask, access.ActionUpdate)
	if err != nil {
		return nil, err
	}
	if in.ParentTaskID != nil {
		var current int64
		if t.ParentTaskID != nil {
			current = *t.ParentTaskID
		}
		if *in.ParentTaskID != current {
			return nil, domain.Validation("parentTaskId no se puede modificar")
		}
	}
	if in.Title != nil {
		title := strings.TrimSpace(*in.Title)
		if title == "" {
			return nil, domain.Validation("el título es obligatorio")
		}
		t.Title = title
	}
	if in.Description != nil {
		t.Description = strings.TrimSpace(*in.Description)
	}
	estimate := t.EstimatedHours
	if in.EstimatedHours != nil {
		estimate = *in.EstimatedHours
	}
	if err := uc.checkTaskFields(ctx, t.CompanyID, in.StatusID, in.AssignedTo, estimate); err != nil {
		return nil, err
	}
	if in.StatusID != nil {
		t.StatusID = in.StatusID
	}
	if in.AssignedTo != nil {
		t.AssignedTo = in.AssignedTo
	}
	t.EstimatedHours = estimate
	t.UpdatedBy = actor.UserID
	t.UpdatedAt = uc.now()
	if err := uc.tasks.Update(ctx, t); err != nil {
		return nil, storageErr(err)
	}
	return toTaskResponse(t), nil
}

// GetTask devuelve una tarea visible para el actor.
func (uc *HierarchyUseCase) GetTask(ctx context.Context, actor access.Actor, id int64) (*dto.TaskResponse, error) {
	t, _, err := uc.loadTask(ctx, actor, id, access.KindTask, access.ActionRead)
	if err != nil {
		return nil, err
	}
	return toTaskResponse(t), nil
}

// ListTasks lista las tareas y subtareas vivas de una lista.
func (uc *HierarchyUseCase) ListTasks(ctx context.Context, actor access.Actor, taskListID int64) ([]dto.TaskResponse, error) {
	list, _, err := uc.loadTaskList(ctx, actor, taskListID, access.KindTaskList, access.ActionRead)
	if err != nil {
		return nil, err
	}
	scope, err := access.ListScope(actor, 0)
	if err != nil {
		return nil, err
	}
	rows, err := uc.tasks.ListByTaskList(ctx, list.ID, scope)
	if err != nil {
		return nil, storageErr(err)
	}
	out := make([]dto.TaskResponse, 0, len(rows))
	for _, t := range rows {
		out = append(out, *toTaskResponse(t))
	}
	return out, nil
}

// checkTaskFields valida estado, asignado y estimación contra la empresa de la tarea.
func (uc *HierarchyUseCase) checkTaskFields(ctx context.Context, companyID int64, statusID, assignedTo *int64, estimate decimal.Decimal) error {
	if estimate.IsNegative() {
		return domain.Validation("las horas estimadas no pueden ser negativas")
	}
	if statusID != nil {
		s, err := uc.statuses.GetByID(ctx, *statusID)
		if err != nil {
			return storageErr(err)
		}
		if s == nil || s.CompanyID != companyID {
			return domain.Validation("estado de tarea inválido")
		}
	}
	if assignedTo != nil {
		u, err := uc.creds.FindByID(ctx, *assignedTo)
		if err != nil {
			return storageErr(err)
		}
		if !u.CanSignIn() || u.Company() != companyID {
			return domain.Validation("el asignado no pertenece a la empresa")
		}
	}
	return nil
}

func copyID(id *int64) *int64 {
	if id == nil {
		return nil
	}
	v := *id
	return &v
}
