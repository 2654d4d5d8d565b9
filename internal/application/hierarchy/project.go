package hierarchy

import (
	"context"
	"errors"
	"strings"

	"github.com/expertzappdev/bizfree-backend/internal/application/dto"
	"github.com/expertzappdev/bizfree-backend/internal/application/ports"
	"github.com/expertzappdev/bizfree-backend/internal/domain"
	"github.com/expertzappdev/bizfree-backend/internal/domain/access"
	"github.com/expertzappdev/bizfree-backend/internal/domain/entity"
)

// CreateProject crea un proyecto. Solo SuperAdmin, CompanyAdmin y DepartmentHead;
// los roles de empresa solo para la propia.
func (uc *HierarchyUseCase) CreateProject(ctx context.Context, actor access.Actor, in dto.CreateProjectRequest) (*dto.ProjectResponse, error) {
	companyID, err := companyFor(actor, in.CompanyID)
	if err != nil {
		return nil, err
	}
	if err := access.CanCreateProject(actor, companyID); err != nil {
		return nil, err
	}
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, domain.Validation("el nombre del proyecto es obligatorio")
	}
	status := in.Status
	if status == "" {
		status = entity.ProjectStatusActive
	}
	if !validProjectStatus(status) {
		return nil, domain.Validation("estado de proyecto inválido")
	}
	if in.Budget.IsNegative() {
		return nil, domain.Validation("el presupuesto no puede ser negativo")
	}
	company, err := uc.companies.GetByID(ctx, companyID)
	if err != nil {
		return nil, storageErr(err)
	}
	if company == nil {
		return nil, domain.NotFound("empresa no encontrada")
	}
	if !company.IsActive {
		return nil, domain.Validation("la empresa está inactiva")
	}

	now := uc.now()
	p := &entity.Project{
		CompanyID:   companyID,
		Name:        name,
		Description: strings.TrimSpace(in.Description),
		Status:      status,
		Budget:      in.Budget,
		IsActive:    true,
		CreatedBy:   actor.UserID,
		UpdatedBy:   actor.UserID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := uc.projects.Create(ctx, p); err != nil {
		return nil, storageErr(err)
	}
	uc.log.Info().Int64("project_id", p.ID).Int64("company_id", companyID).Int64("user_id", actor.UserID).Msg("proyecto creado")
	return toProjectResponse(p), nil
}

// GetProject devuelve el proyecto si el actor puede verlo.
func (uc *HierarchyUseCase) GetProject(ctx context.Context, actor access.Actor, id int64) (*dto.ProjectResponse, error) {
	p, _, err := uc.loadProject(ctx, actor, id, access.KindProject, access.ActionRead)
	if err != nil {
		return nil, err
	}
	return toProjectResponse(p), nil
}

// ListProjects lista los proyectos visibles. filterCompanyID (0 = sin filtro) solo estrecha.
func (uc *HierarchyUseCase) ListProjects(ctx context.Context, actor access.Actor, filterCompanyID int64, page dto.PageRequest) (*dto.ListResponse, error) {
	scope, err := access.ListScope(actor, filterCompanyID)
	if err != nil {
		return nil, err
	}
	page.DefaultPage()
	list, err := uc.projects.List(ctx, scope, page.Limit, page.Offset)
	if err != nil {
		return nil, storageErr(err)
	}
	items := make([]dto.ProjectResponse, 0, len(list))
	for _, p := range list {
		items = append(items, *toProjectResponse(p))
	}
	return &dto.ListResponse{Items: items, Page: dto.PageResponse{Limit: page.Limit, Offset: page.Offset}}, nil
}

// AddProjectMember da visibilidad del proyecto a un usuario de la misma empresa.
func (uc *HierarchyUseCase) AddProjectMember(ctx context.Context, actor access.Actor, projectID int64, in dto.AddMemberRequest) (*dto.ProjectMemberResponse, error) {
	if in.UserID == 0 {
		return nil, domain.Validation("userId es obligatorio")
	}
	p, _, err := uc.loadProject(ctx, actor, projectID, access.KindProject, access.ActionUpdate)
	if err != nil {
		return nil, err
	}
	user, err := uc.creds.FindByID(ctx, in.UserID)
	if err != nil {
		return nil, storageErr(err)
	}
	if !user.CanSignIn() {
		return nil, domain.NotFound("usuario no encontrado")
	}
	if user.Company() != p.CompanyID {
		return nil, domain.Validation("el usuario pertenece a otra empresa")
	}
	already, err := uc.projects.IsMember(ctx, p.ID, user.ID)
	if err != nil {
		return nil, storageErr(err)
	}
	if already {
		return nil, domain.Conflict("el usuario ya es miembro del proyecto")
	}
	m := &entity.ProjectMember{ProjectID: p.ID, UserID: user.ID, AddedBy: actor.UserID, JoinedAt: uc.now()}
	if err := uc.projects.AddMember(ctx, m); err != nil {
		if errors.Is(err, domain.ErrConflict) {
			return nil, err
		}
		return nil, storageErr(err)
	}
	return &dto.ProjectMemberResponse{ID: m.ID, ProjectID: m.ProjectID, UserID: m.UserID, AddedBy: m.AddedBy, JoinedAt: m.JoinedAt}, nil
}

// CreateTaskList crea una lista dentro del proyecto; hereda su empresa.
func (uc *HierarchyUseCase) CreateTaskList(ctx context.Context, actor access.Actor, projectID int64, in dto.CreateTaskListRequest) (*dto.TaskListResponse, error) {
	p, _, err := uc.loadProject(ctx, actor, projectID, access.KindTaskList, access.ActionCreate)
	if err != nil {
		return nil, err
	}
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, domain.Validation("el nombre de la lista es obligatorio")
	}
	l := &entity.TaskList{
		ProjectID: p.ID,
		CompanyID: p.CompanyID,
		Name:      name,
		CreatedBy: actor.UserID,
		CreatedAt: uc.now(),
	}
	if err := uc.taskLists.Create(ctx, l); err != nil {
		return nil, storageErr(err)
	}
	return toTaskListResponse(l), nil
}

// ProjectReport genera el PDF resumen del proyecto (autorizado como lectura).
func (uc *HierarchyUseCase) ProjectReport(ctx context.Context, actor access.Actor, projectID int64) ([]byte, error) {
	p, _, err := uc.loadProject(ctx, actor, projectID, access.KindProject, access.ActionRead)
	if err != nil {
		return nil, err
	}
	lists, err := uc.taskLists.ListByProject(ctx, p.ID)
	if err != nil {
		return nil, storageErr(err)
	}
	tasks, err := uc.tasks.ListByProject(ctx, p.ID)
	if err != nil {
		return nil, storageErr(err)
	}
	pdf, err := uc.reports.GenerateProjectReport(ctx, ports.ProjectReport{Project: p, TaskLists: lists, Tasks: tasks})
	if err != nil {
		return nil, domain.Storage("no se pudo generar el informe", err)
	}
	return pdf, nil
}

func validProjectStatus(s string) bool {
	switch s {
	case entity.ProjectStatusActive, entity.ProjectStatusOnHold, entity.ProjectStatusCompleted:
		return true
	}
	return false
}
