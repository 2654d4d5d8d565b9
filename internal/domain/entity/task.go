package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// TaskList agrupa tareas dentro de un proyecto.
type TaskList struct {
	ID        int64
	ProjectID int64
	CompanyID int64
	Name      string
	IsDeleted bool
	CreatedBy int64
	CreatedAt time.Time
}

// Task tarea o subtarea. Tabla plana con referencia opcional al padre:
// una subtarea tiene ParentTaskID y hereda CompanyID, ProjectID y TaskListID del padre.
// Las subtareas no tienen subtareas.
type Task struct {
	ID             int64
	CompanyID      int64
	ProjectID      int64
	TaskListID     *int64
	ParentTaskID   *int64
	Title          string
	Description    string
	StatusID       *int64
	AssignedTo     *int64
	EstimatedHours decimal.Decimal
	IsDeleted      bool
	CreatedBy      int64
	UpdatedBy      int64
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// IsSubTask informa si la tarea cuelga de otra.
func (t *Task) IsSubTask() bool { return t.ParentTaskID != nil }

// List devuelve el TaskListID o 0.
func (t *Task) List() int64 {
	if t.TaskListID == nil {
		return 0
	}
	return *t.TaskListID
}

// Assignee devuelve el usuario asignado o 0.
func (t *Task) Assignee() int64 {
	if t.AssignedTo == nil {
		return 0
	}
	return *t.AssignedTo
}

// TaskStatus dato de referencia (estado de tarea) de una empresa.
// Es el único tipo con borrado físico, y solo si ninguna tarea lo referencia.
type TaskStatus struct {
	ID        int64
	CompanyID int64
	Name      string
	CreatedAt time.Time
}
