package ports

import (
	"context"

	"github.com/expertzappdev/bizfree-backend/internal/domain/entity"
)

// ProjectReport datos ya autorizados que se vuelcan en el informe.
type ProjectReport struct {
	Project   *entity.Project
	TaskLists []*entity.TaskList
	Tasks     []*entity.Task
}

// ProjectReportGenerator genera el PDF resumen de un proyecto.
type ProjectReportGenerator interface {
	GenerateProjectReport(ctx context.Context, report ProjectReport) ([]byte, error)
}
