package hierarchy

import (
	"context"
	"io"

	"github.com/expertzappdev/bizfree-backend/internal/domain/repository"
)

// TxRunner ejecuta fn dentro de una transacción con repos atados a ella.
// Si fn devuelve error se hace rollback y ninguna fila cambia.
type TxRunner interface {
	RunCascade(ctx context.Context, fn func(
		taskListRepo repository.TaskListRepository,
		taskRepo repository.TaskRepository,
		documentRepo repository.DocumentRepository,
	) error) error
}

// Upload archivo recibido para adjuntar a un proyecto o tarea.
type Upload struct {
	FileName    string
	ContentType string
	Size        int64
	Body        io.Reader
}
