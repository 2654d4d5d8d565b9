package hierarchy

import (
	"context"
	"errors"
	"strings"

	"github.com/expertzappdev/bizfree-backend/internal/application/dto"
	"github.com/expertzappdev/bizfree-backend/internal/domain"
	"github.com/expertzappdev/bizfree-backend/internal/domain/access"
	"github.com/expertzappdev/bizfree-backend/internal/domain/entity"
)

// CreateTaskStatus da de alta un estado de tarea para la empresa.
func (uc *HierarchyUseCase) CreateTaskStatus(ctx context.Context, actor access.Actor, in dto.CreateTaskStatusRequest) (*dto.TaskStatusResponse, error) {
	companyID, err := companyFor(actor, in.CompanyID)
	if err != nil {
		return nil, err
	}
	if err := access.Authorize(actor, access.KindCompany, access.ActionUpdate, access.Target{CompanyID: companyID}); err != nil {
		return nil, err
	}
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, domain.Validation("el nombre del estado es obligatorio")
	}
	s := &entity.TaskStatus{CompanyID: companyID, Name: name, CreatedAt: uc.now()}
	if err := uc.statuses.Create(ctx, s); err != nil {
		if errors.Is(err, domain.ErrConflict) {
			return nil, err
		}
		return nil, storageErr(err)
	}
	return toTaskStatusResponse(s), nil
}

// ListTaskStatuses lista los estados de la empresa.
func (uc *HierarchyUseCase) ListTaskStatuses(ctx context.Context, actor access.Actor, companyID int64) ([]dto.TaskStatusResponse, error) {
	companyID, err := companyFor(actor, companyID)
	if err != nil {
		return nil, err
	}
	if err := access.Authorize(actor, access.KindCompany, access.ActionRead, access.Target{CompanyID: companyID}); err != nil {
		return nil, err
	}
	rows, err := uc.statuses.ListByCompany(ctx, companyID)
	if err != nil {
		return nil, storageErr(err)
	}
	out := make([]dto.TaskStatusResponse, 0, len(rows))
	for _, s := range rows {
		out = append(out, *toTaskStatusResponse(s))
	}
	return out, nil
}

// DeleteTaskStatus borrado físico, solo si ninguna tarea lo referencia.
func (uc *HierarchyUseCase) DeleteTaskStatus(ctx context.Context, actor access.Actor, id int64) error {
	s, err := uc.statuses.GetByID(ctx, id)
	if err != nil {
		return storageErr(err)
	}
	if s == nil {
		return domain.NotFound("estado de tarea no encontrado")
	}
	if err := access.Authorize(actor, access.KindCompany, access.ActionDelete, access.Target{CompanyID: s.CompanyID}); err != nil {
		return err
	}
	refs, err := uc.statuses.CountReferences(ctx, id)
	if err != nil {
		return storageErr(err)
	}
	if refs > 0 {
		return domain.Conflict("el estado está en uso por tareas")
	}
	if err := uc.statuses.Delete(ctx, id); err != nil {
		if errors.Is(err, domain.ErrConflict) {
			return err
		}
		return storageErr(err)
	}
	return nil
}
