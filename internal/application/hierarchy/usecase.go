// Package hierarchy mantiene la jerarquía Project → TaskList → Task → SubTask
// y sus documentos: alta enlazada al padre y borrado lógico en cascada.
// Toda mutación se autoriza con el paquete access antes de tocar el árbol.
package hierarchy

import (
	"context"
	"errors"
	"time"

	"github.com/expertzappdev/bizfree-backend/internal/application/ports"
	"github.com/expertzappdev/bizfree-backend/internal/domain"
	"github.com/expertzappdev/bizfree-backend/internal/domain/access"
	"github.com/expertzappdev/bizfree-backend/internal/domain/entity"
	"github.com/expertzappdev/bizfree-backend/internal/domain/repository"
	"github.com/expertzappdev/bizfree-backend/pkg/logger"
)

// Deps colaboradores del caso de uso. Clock es opcional.
type Deps struct {
	Companies   repository.CompanyRepository
	Credentials repository.CredentialRepository
	Projects    repository.ProjectRepository
	TaskLists   repository.TaskListRepository
	Tasks       repository.TaskRepository
	Statuses    repository.TaskStatusRepository
	Documents   repository.DocumentRepository
	Tx          TxRunner
	Blobs       ports.BlobStore
	Reports     ports.ProjectReportGenerator
	Logger      *logger.Logger
	Clock       func() time.Time
}

// HierarchyUseCase casos de uso de proyectos, listas, tareas y documentos.
type HierarchyUseCase struct {
	companies repository.CompanyRepository
	creds     repository.CredentialRepository
	projects  repository.ProjectRepository
	taskLists repository.TaskListRepository
	tasks     repository.TaskRepository
	statuses  repository.TaskStatusRepository
	documents repository.DocumentRepository
	tx        TxRunner
	blobs     ports.BlobStore
	reports   ports.ProjectReportGenerator
	log       *logger.Logger
	now       func() time.Time
}

// NewHierarchyUseCase construye el caso de uso.
func NewHierarchyUseCase(d Deps) *HierarchyUseCase {
	uc := &HierarchyUseCase{
		companies: d.Companies,
		creds:     d.Credentials,
		projects:  d.Projects,
		taskLists: d.TaskLists,
		tasks:     d.Tasks,
		statuses:  d.Statuses,
		documents: d.Documents,
		tx:        d.Tx,
		blobs:     d.Blobs,
		reports:   d.Reports,
		log:       d.Logger,
		now:       d.Clock,
	}
	if uc.log == nil {
		uc.log = logger.Nop()
	}
	if uc.now == nil {
		uc.now = time.Now
	}
	return uc
}

var (
	errProjectNotFound  = domain.NotFound("proyecto no encontrado")
	errTaskListNotFound = domain.NotFound("lista de tareas no encontrada")
	errTaskNotFound     = domain.NotFound("tarea no encontrada")
	errDocumentNotFound = domain.NotFound("documento no encontrado")
)

func storageErr(err error) error {
	return domain.Storage("error de base de datos", err)
}

// isMember solo consulta la membresía para Employee; el resto de roles no la usa.
func (uc *HierarchyUseCase) isMember(ctx context.Context, actor access.Actor, projectID int64) (bool, error) {
	if actor.RoleID != entity.RoleEmployee {
		return false, nil
	}
	ok, err := uc.projects.IsMember(ctx, projectID, actor.UserID)
	if err != nil {
		return false, storageErr(err)
	}
	return ok, nil
}

// liveProject carga un proyecto no borrado.
func (uc *HierarchyUseCase) liveProject(ctx context.Context, id int64) (*entity.Project, error) {
	p, err := uc.projects.GetByID(ctx, id)
	if err != nil {
		return nil, storageErr(err)
	}
	if p == nil || p.IsDeleted {
		return nil, errProjectNotFound
	}
	return p, nil
}

// loadProject carga el proyecto y autoriza action sobre kind con sus hechos.
func (uc *HierarchyUseCase) loadProject(ctx context.Context, actor access.Actor, id int64, kind access.Kind, action access.Action) (*entity.Project, bool, error) {
	p, err := uc.liveProject(ctx, id)
	if err != nil {
		return nil, false, err
	}
	member, err := uc.isMember(ctx, actor, p.ID)
	if err != nil {
		return nil, false, err
	}
	if err := access.Authorize(actor, kind, action, access.Target{CompanyID: p.CompanyID, IsMember: member}); err != nil {
		return nil, false, err
	}
	return p, member, nil
}

// liveTaskList carga una lista no borrada cuyo proyecto sigue vivo.
func (uc *HierarchyUseCase) liveTaskList(ctx context.Context, id int64) (*entity.TaskList, error) {
	l, err := uc.taskLists.GetByID(ctx, id)
	if err != nil {
		return nil, storageErr(err)
	}
	if l == nil || l.IsDeleted {
		return nil, errTaskListNotFound
	}
	if _, err := uc.liveProject(ctx, l.ProjectID); err != nil {
		if errors.Is(err, errProjectNotFound) {
			return nil, errTaskListNotFound
		}
		return nil, err
	}
	return l, nil
}

func (uc *HierarchyUseCase) loadTaskList(ctx context.Context, actor access.Actor, id int64, kind access.Kind, action access.Action) (*entity.TaskList, bool, error) {
	l, err := uc.liveTaskList(ctx, id)
	if err != nil {
		return nil, false, err
	}
	member, err := uc.isMember(ctx, actor, l.ProjectID)
	if err != nil {
		return nil, false, err
	}
	if err := access.Authorize(actor, kind, action, access.Target{CompanyID: l.CompanyID, IsMember: member}); err != nil {
		return nil, false, err
	}
	return l, member, nil
}

func (uc *HierarchyUseCase) liveTask(ctx context.Context, id int64) (*entity.Task, error) {
	t, err := uc.tasks.GetByID(ctx, id)
	if err != nil {
		return nil, storageErr(err)
	}
	if t == nil || t.IsDeleted {
		return nil, errTaskNotFound
	}
	return t, nil
}

// loadTask carga la tarea y autoriza action con membresía y asignado.
func (uc *HierarchyUseCase) loadTask(ctx context.Context, actor access.Actor, id int64, kind access.Kind, action access.Action) (*entity.Task, access.Target, error) {
	t, err := uc.liveTask(ctx, id)
	if err != nil {
		return nil, access.Target{}, err
	}
	member, err := uc.isMember(ctx, actor, t.ProjectID)
	if err != nil {
		return nil, access.Target{}, err
	}
	target := access.Target{CompanyID: t.CompanyID, IsMember: member, AssignedTo: t.Assignee()}
	if err := access.Authorize(actor, kind, action, target); err != nil {
		return nil, access.Target{}, err
	}
	return t, target, nil
}

// companyFor resuelve la empresa de una petición: la indicada o la del actor.
func companyFor(actor access.Actor, requested int64) (int64, error) {
	if requested != 0 {
		return requested, nil
	}
	if actor.CompanyID != 0 {
		return actor.CompanyID, nil
	}
	return 0, domain.Validation("companyId es obligatorio")
}
