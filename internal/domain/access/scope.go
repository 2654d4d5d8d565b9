// Package access resuelve qué filas de la jerarquía puede ver o modificar un actor
// según su rol, su empresa y su pertenencia a proyectos.
//
// Matriz de visibilidad:
//
//	SuperAdmin (1)      → toda la plataforma; el filtro de empresa es opcional.
//	CompanyAdmin (2)    → solo su empresa.
//	DepartmentHead (4)  → solo su empresa.
//	Employee (3)        → su empresa y solo proyectos donde es miembro;
//	                      modifica tareas asignadas a él.
//	Cualquier otro rol  → denegado.
//
// Es lógica pura: quien llama resuelve los hechos de la fila (Target) contra el store.
package access

import (
	"github.com/expertzappdev/bizfree-backend/internal/domain"
	"github.com/expertzappdev/bizfree-backend/internal/domain/entity"
)

// Kind tipo de entidad sobre la que se decide.
type Kind string

const (
	KindCompany  Kind = "company"
	KindProject  Kind = "project"
	KindTaskList Kind = "task_list"
	KindTask     Kind = "task"
	KindDocument Kind = "document"
)

// Action operación solicitada sobre la entidad.
type Action string

const (
	ActionRead   Action = "read"
	ActionCreate Action = "create"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
)

// Actor identidad del llamador, tomada de los claims del access token.
type Actor struct {
	UserID    int64
	RoleID    int64
	CompanyID int64 // 0 = cuenta de plataforma
}

// Target hechos de la fila objetivo.
type Target struct {
	CompanyID  int64
	IsMember   bool  // el actor es ProjectMember del proyecto dueño
	AssignedTo int64 // solo tareas
	UploadedBy int64 // solo documentos
}

// Scope predicado de filas visibles para listados. El valor cero no restringe nada.
type Scope struct {
	Unrestricted bool  // SuperAdmin
	CompanyID    int64 // company_id = CompanyID
	MemberUserID int64 // el proyecto dueño tiene a MemberUserID como miembro
}

var (
	errUnknownRole  = domain.Authorization("rol desconocido")
	errCrossCompany = domain.Authorization("acceso a otra empresa")
	errNoCompany    = domain.Authorization("la cuenta no pertenece a ninguna empresa")
	errNotMember    = domain.Authorization("no es miembro del proyecto")
	errNotAssignee  = domain.Authorization("la tarea no está asignada al usuario")
	errNotUploader  = domain.Authorization("el documento no fue subido por el usuario")
	errRoleAction   = domain.Authorization("acción no permitida para el rol")
)

// KnownRole informa si el rol participa en la matriz de visibilidad.
func KnownRole(roleID int64) bool {
	switch roleID {
	case entity.RoleSuperAdmin, entity.RoleCompanyAdmin, entity.RoleEmployee, entity.RoleDepartmentHead:
		return true
	}
	return false
}

// ListScope devuelve el predicado para leer filas. filterCompanyID (0 = sin filtro)
// solo estrecha el resultado; pedir otra empresa que la propia es un acceso cruzado.
func ListScope(actor Actor, filterCompanyID int64) (Scope, error) {
	switch actor.RoleID {
	case entity.RoleSuperAdmin:
		return Scope{Unrestricted: true, CompanyID: filterCompanyID}, nil
	case entity.RoleCompanyAdmin, entity.RoleDepartmentHead, entity.RoleEmployee:
		if actor.CompanyID == 0 {
			return Scope{}, errNoCompany
		}
		if filterCompanyID != 0 && filterCompanyID != actor.CompanyID {
			return Scope{}, errCrossCompany
		}
		s := Scope{CompanyID: actor.CompanyID}
		if actor.RoleID == entity.RoleEmployee {
			s.MemberUserID = actor.UserID
		}
		return s, nil
	default:
		return Scope{}, errUnknownRole
	}
}

// Allows evalúa el predicado sobre una fila ya cargada.
func (s Scope) Allows(t Target) bool {
	if s.CompanyID != 0 && t.CompanyID != s.CompanyID {
		return false
	}
	if s.MemberUserID != 0 && !t.IsMember {
		return false
	}
	return true
}

// Authorize decide si el actor puede ejecutar action sobre una fila de tipo kind.
// Devuelve nil o un domain.ErrAuthorization con el motivo.
func Authorize(actor Actor, kind Kind, action Action, t Target) error {
	switch actor.RoleID {
	case entity.RoleSuperAdmin:
		return nil
	case entity.RoleCompanyAdmin, entity.RoleDepartmentHead:
		return sameCompany(actor, t)
	case entity.RoleEmployee:
		if err := sameCompany(actor, t); err != nil {
			return err
		}
		return authorizeEmployee(actor, kind, action, t)
	default:
		return errUnknownRole
	}
}

// CanCreateProject solo roles 1, 2 y 4; los roles de empresa solo para la propia.
func CanCreateProject(actor Actor, companyID int64) error {
	return Authorize(actor, KindProject, ActionCreate, Target{CompanyID: companyID})
}

func sameCompany(actor Actor, t Target) error {
	if actor.CompanyID == 0 {
		return errNoCompany
	}
	if t.CompanyID != actor.CompanyID {
		return errCrossCompany
	}
	return nil
}

func authorizeEmployee(actor Actor, kind Kind, action Action, t Target) error {
	switch kind {
	case KindCompany:
		if action == ActionRead {
			return nil
		}
	case KindProject, KindTaskList:
		if action == ActionRead {
			return member(t)
		}
	case KindTask:
		switch action {
		case ActionRead, ActionCreate:
			return member(t)
		case ActionUpdate, ActionDelete:
			if t.AssignedTo != 0 && t.AssignedTo == actor.UserID {
				return nil
			}
			return errNotAssignee
		}
	case KindDocument:
		switch action {
		case ActionRead:
			return member(t)
		case ActionCreate:
			// En documentos de tarea basta con ser el asignado.
			if t.IsMember || (t.AssignedTo != 0 && t.AssignedTo == actor.UserID) {
				return nil
			}
			return errNotMember
		case ActionDelete:
			if t.UploadedBy == actor.UserID {
				return nil
			}
			return errNotUploader
		}
	}
	return errRoleAction
}

func member(t Target) error {
	if t.IsMember {
		return nil
	}
	return errNotMember
}
