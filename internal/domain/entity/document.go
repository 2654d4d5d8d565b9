package entity

import "time"

// Tipos de entidad dueña de un documento.
const (
	DocumentOwnerProject = "project"
	DocumentOwnerTask    = "task"
)

// Document archivo adjunto a un Project o a una Task.
// CompanyID siempre coincide con el de su dueño.
type Document struct {
	ID          int64
	OwnerKind   string
	OwnerID     int64
	CompanyID   int64
	FileName    string
	Path        string // ruta relativa devuelta por el BlobStore
	ContentType string
	Size        int64
	UploadedBy  int64
	IsDeleted   bool
	CreatedAt   time.Time
}
