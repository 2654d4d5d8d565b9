package hierarchy

import (
	"context"
	"fmt"
	"path"
	"strings"

	"github.com/expertzappdev/bizfree-backend/internal/application/dto"
	"github.com/expertzappdev/bizfree-backend/internal/domain"
	"github.com/expertzappdev/bizfree-backend/internal/domain/access"
	"github.com/expertzappdev/bizfree-backend/internal/domain/entity"
)

// AttachDocument guarda el archivo en el BlobStore y registra el Document con la
// empresa del dueño. Si el registro falla, el blob se borra (mejor esfuerzo).
func (uc *HierarchyUseCase) AttachDocument(ctx context.Context, actor access.Actor, ownerKind string, ownerID int64, up Upload) (*dto.DocumentResponse, error) {
	name := path.Base(strings.TrimSpace(up.FileName))
	if name == "" || name == "." || name == "/" {
		return nil, domain.Validation("el archivo es obligatorio")
	}
	if up.Body == nil || up.Size <= 0 {
		return nil, domain.Validation("el archivo está vacío")
	}

	var companyID int64
	switch ownerKind {
	case entity.DocumentOwnerProject:
		p, err := uc.liveProject(ctx, ownerID)
		if err != nil {
			return nil, err
		}
		member, err := uc.isMember(ctx, actor, p.ID)
		if err != nil {
			return nil, err
		}
		if err := access.Authorize(actor, access.KindDocument, access.ActionCreate, access.Target{CompanyID: p.CompanyID, IsMember: member}); err != nil {
			return nil, err
		}
		companyID = p.CompanyID
	case entity.DocumentOwnerTask:
		t, err := uc.liveTask(ctx, ownerID)
		if err != nil {
			return nil, err
		}
		member, err := uc.isMember(ctx, actor, t.ProjectID)
		if err != nil {
			return nil, err
		}
		target := access.Target{CompanyID: t.CompanyID, IsMember: member, AssignedTo: t.Assignee()}
		if err := access.Authorize(actor, access.KindDocument, access.ActionCreate, target); err != nil {
			return nil, err
		}
		companyID = t.CompanyID
	default:
		return nil, domain.Validation("tipo de dueño de documento inválido")
	}

	folder := fmt.Sprintf("company-%d/%s-%d", companyID, ownerKind, ownerID)
	stored, err := uc.blobs.Save(ctx, folder, name, up.ContentType, up.Body)
	if err != nil {
		return nil, domain.Storage("no se pudo guardar el archivo", err)
	}
	doc := &entity.Document{
		OwnerKind:   ownerKind,
		OwnerID:     ownerID,
		CompanyID:   companyID,
		FileName:    name,
		Path:        stored,
		ContentType: up.ContentType,
		Size:        up.Size,
		UploadedBy:  actor.UserID,
		CreatedAt:   uc.now(),
	}
	if err := uc.documents.Create(ctx, doc); err != nil {
		if delErr := uc.blobs.Delete(ctx, stored); delErr != nil {
			uc.log.Warn().Err(delErr).Str("path", stored).Msg("blob huérfano tras fallo al registrar documento")
		}
		return nil, storageErr(err)
	}
	return toDocumentResponse(doc), nil
}

// DeleteDocument marca el documento como borrado. El blob se conserva.
func (uc *HierarchyUseCase) DeleteDocument(ctx context.Context, actor access.Actor, id int64) error {
	doc, err := uc.documents.GetByID(ctx, id)
	if err != nil {
		return storageErr(err)
	}
	if doc == nil || doc.IsDeleted {
		return errDocumentNotFound
	}
	projectID := doc.OwnerID
	if doc.OwnerKind == entity.DocumentOwnerTask {
		t, err := uc.tasks.GetByID(ctx, doc.OwnerID)
		if err != nil {
			return storageErr(err)
		}
		if t == nil {
			return errDocumentNotFound
		}
		projectID = t.ProjectID
	}
	member, err := uc.isMember(ctx, actor, projectID)
	if err != nil {
		return err
	}
	target := access.Target{CompanyID: doc.CompanyID, IsMember: member, UploadedBy: doc.UploadedBy}
	if err := access.Authorize(actor, access.KindDocument, access.ActionDelete, target); err != nil {
		return err
	}
	if err := uc.documents.SoftDelete(ctx, doc.ID, actor.UserID); err != nil {
		return storageErr(err)
	}
	return nil
}
