package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de proyecto.
const (
	ProjectStatusActive    = "active"
	ProjectStatusOnHold    = "on_hold"
	ProjectStatusCompleted = "completed"
)

// Project proyecto de una empresa. Raíz de la jerarquía TaskList → Task → SubTask.
type Project struct {
	ID          int64
	CompanyID   int64
	Name        string
	Description string
	Status      string
	Budget      decimal.Decimal
	IsActive    bool
	IsDeleted   bool
	CreatedBy   int64
	UpdatedBy   int64
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// ProjectMember vincula un usuario a un proyecto. Define la visibilidad para Employee.
type ProjectMember struct {
	ID        int64
	ProjectID int64
	UserID    int64
	AddedBy   int64
	JoinedAt  time.Time
	IsDeleted bool
}
