package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateProjectRequest alta de proyecto. CompanyID es obligatorio solo para SuperAdmin;
// los roles de empresa pueden omitirlo o enviar su propia empresa.
type CreateProjectRequest struct {
	CompanyID   int64           `json:"companyId"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Status      string          `json:"status"`
	Budget      decimal.Decimal `json:"budget"`
}

// AddMemberRequest alta de un miembro en el proyecto.
type AddMemberRequest struct {
	UserID int64 `json:"userId"`
}

// ProjectResponse salida de proyecto.
type ProjectResponse struct {
	ID          int64           `json:"id"`
	CompanyID   int64           `json:"companyId"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Status      string          `json:"status"`
	Budget      decimal.Decimal `json:"budget"`
	IsActive    bool            `json:"isActive"`
	CreatedBy   int64           `json:"createdBy"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

// ProjectMemberResponse miembro de proyecto.
type ProjectMemberResponse struct {
	ID        int64     `json:"id"`
	ProjectID int64     `json:"projectId"`
	UserID    int64     `json:"userId"`
	AddedBy   int64     `json:"addedBy"`
	JoinedAt  time.Time `json:"joinedAt"`
}

// CreateTaskListRequest alta de lista de tareas.
type CreateTaskListRequest struct {
	Name string `json:"name"`
}

// TaskListResponse salida de lista de tareas.
type TaskListResponse struct {
	ID        int64     `json:"id"`
	ProjectID int64     `json:"projectId"`
	CompanyID int64     `json:"companyId"`
	Name      string    `json:"name"`
	CreatedBy int64     `json:"createdBy"`
	CreatedAt time.Time `json:"createdAt"`
}

// CreateTaskRequest alta de tarea de primer nivel dentro de una lista.
type CreateTaskRequest struct {
	TaskListID     int64           `json:"taskListId"`
	Title          string          `json:"title"`
	Description    string          `json:"description"`
	StatusID       *int64          `json:"statusId"`
	AssignedTo     *int64          `json:"assignedTo"`
	EstimatedHours decimal.Decimal `json:"estimatedHours"`
}

// CreateSubTaskRequest alta de subtarea. TaskListID, si viene, debe coincidir con la del padre.
type CreateSubTaskRequest struct {
	ParentTaskID   int64           `json:"parentTaskId"`
	TaskListID     *int64          `json:"taskListId"`
	Title          string          `json:"title"`
	Description    string          `json:"description"`
	StatusID       *int64          `json:"statusId"`
	AssignedTo     *int64          `json:"assignedTo"`
	EstimatedHours decimal.Decimal `json:"estimatedHours"`
}

// UpdateTaskRequest campos modificables de una tarea; nil deja el valor actual.
// ParentTaskID solo se acepta si coincide con el actual.
type UpdateTaskRequest struct {
	Title          *string          `json:"title"`
	Description    *string          `json:"description"`
	StatusID       *int64           `json:"statusId"`
	AssignedTo     *int64           `json:"assignedTo"`
	EstimatedHours *decimal.Decimal `json:"estimatedHours"`
	ParentTaskID   *int64           `json:"parentTaskId"`
}

// TaskResponse salida de tarea o subtarea.
type TaskResponse struct {
	ID             int64           `json:"id"`
	CompanyID      int64           `json:"companyId"`
	ProjectID      int64           `json:"projectId"`
	TaskListID     *int64          `json:"taskListId"`
	ParentTaskID   *int64          `json:"parentTaskId"`
	Title          string          `json:"title"`
	Description    string          `json:"description"`
	StatusID       *int64          `json:"statusId"`
	AssignedTo     *int64          `json:"assignedTo"`
	EstimatedHours decimal.Decimal `json:"estimatedHours"`
	CreatedBy      int64           `json:"createdBy"`
	CreatedAt      time.Time       `json:"createdAt"`
	UpdatedAt      time.Time       `json:"updatedAt"`
}

// DocumentResponse salida de documento adjunto.
type DocumentResponse struct {
	ID          int64     `json:"id"`
	OwnerKind   string    `json:"ownerKind"`
	OwnerID     int64     `json:"ownerId"`
	CompanyID   int64     `json:"companyId"`
	FileName    string    `json:"fileName"`
	Path        string    `json:"path"`
	ContentType string    `json:"contentType"`
	Size        int64     `json:"size"`
	UploadedBy  int64     `json:"uploadedBy"`
	CreatedAt   time.Time `json:"createdAt"`
}

// CascadeResult filas afectadas por un borrado en cascada.
type CascadeResult struct {
	Tasks     int64 `json:"tasks"`
	Documents int64 `json:"documents"`
}

// CreateTaskStatusRequest alta de estado de tarea.
type CreateTaskStatusRequest struct {
	CompanyID int64  `json:"companyId"`
	Name      string `json:"name"`
}

// TaskStatusResponse salida de estado de tarea.
type TaskStatusResponse struct {
	ID        int64     `json:"id"`
	CompanyID int64     `json:"companyId"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
}
