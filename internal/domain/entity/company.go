package entity

import "time"

// Company representa una organización/tenant del sistema.
type Company struct {
	ID        int64
	Name      string
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}
