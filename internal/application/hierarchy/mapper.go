package hierarchy

import (
	"github.com/expertzappdev/bizfree-backend/internal/application/dto"
	"github.com/expertzappdev/bizfree-backend/internal/domain/entity"
)

func toProjectResponse(p *entity.Project) *dto.ProjectResponse {
	return &dto.ProjectResponse{
		ID:          p.ID,
		CompanyID:   p.CompanyID,
		Name:        p.Name,
		Description: p.Description,
		Status:      p.Status,
		Budget:      p.Budget,
		IsActive:    p.IsActive,
		CreatedBy:   p.CreatedBy,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

func toTaskListResponse(l *entity.TaskList) *dto.TaskListResponse {
	return &dto.TaskListResponse{
		ID:        l.ID,
		ProjectID: l.ProjectID,
		CompanyID: l.CompanyID,
		Name:      l.Name,
		CreatedBy: l.CreatedBy,
		CreatedAt: l.CreatedAt,
	}
}

func toTaskResponse(t *entity.Task) *dto.TaskResponse {
	return &dto.TaskResponse{
		ID:             t.ID,
		CompanyID:      t.CompanyID,
		ProjectID:      t.ProjectID,
		TaskListID:     t.TaskListID,
		ParentTaskID:   t.ParentTaskID,
		Title:          t.Title,
		Description:    t.Description,
		StatusID:       t.StatusID,
		AssignedTo:     t.AssignedTo,
		EstimatedHours: t.EstimatedHours,
		CreatedBy:      t.CreatedBy,
		CreatedAt:      t.CreatedAt,
		UpdatedAt:      t.UpdatedAt,
	}
}

func toDocumentResponse(d *entity.Document) *dto.DocumentResponse {
	return &dto.DocumentResponse{
		ID:          d.ID,
		OwnerKind:   d.OwnerKind,
		OwnerID:     d.OwnerID,
		CompanyID:   d.CompanyID,
		FileName:    d.FileName,
		Path:        d.Path,
		ContentType: d.ContentType,
		Size:        d.Size,
		UploadedBy:  d.UploadedBy,
		CreatedAt:   d.CreatedAt,
	}
}

func toTaskStatusResponse(s *entity.TaskStatus) *dto.TaskStatusResponse {
	return &dto.TaskStatusResponse{ID: s.ID, CompanyID: s.CompanyID, Name: s.Name, CreatedAt: s.CreatedAt}
}
