package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/expertzappdev/bizfree-backend/internal/application/hierarchy"
	"github.com/expertzappdev/bizfree-backend/internal/domain/entity"
	"github.com/expertzappdev/bizfree-backend/pkg/logger"
)

// MaxUploadBytes tamaño máximo de un adjunto.
const MaxUploadBytes = 20 << 20

// DocumentHandler adjuntos de proyectos y tareas (multipart, campo "file").
type DocumentHandler struct {
	uc  *hierarchy.HierarchyUseCase
	log *logger.Logger
}

// NewDocumentHandler construye el handler.
func NewDocumentHandler(uc *hierarchy.HierarchyUseCase, log *logger.Logger) *DocumentHandler {
	return &DocumentHandler{uc: uc, log: log}
}

// AttachToProject POST /api/projects/:id/documents
func (h *DocumentHandler) AttachToProject(c *fiber.Ctx) error {
	return h.attach(c, entity.DocumentOwnerProject)
}

// AttachToTask POST /api/tasks/:id/documents
func (h *DocumentHandler) AttachToTask(c *fiber.Ctx) error {
	return h.attach(c, entity.DocumentOwnerTask)
}

func (h *DocumentHandler) attach(c *fiber.Ctx, ownerKind string) error {
	actor, ok := GetActor(c)
	if !ok {
		return fail(c, fiber.StatusUnauthorized, CodeUnauthorized, "sesión requerida")
	}
	ownerID, ok := paramID(c, "id")
	if !ok {
		return fail(c, fiber.StatusBadRequest, CodeValidation, invalidIDParamMsg)
	}
	fh, err := c.FormFile("file")
	if err != nil {
		return fail(c, fiber.StatusBadRequest, CodeValidation, "el campo file es obligatorio")
	}
	if fh.Size > MaxUploadBytes {
		return fail(c, fiber.StatusBadRequest, CodeValidation, "el archivo supera el tamaño máximo")
	}
	f, err := fh.Open()
	if err != nil {
		return fail(c, fiber.StatusBadRequest, CodeValidation, "no se pudo leer el archivo")
	}
	defer f.Close()

	out, err := h.uc.AttachDocument(c.UserContext(), actor, ownerKind, ownerID, hierarchy.Upload{
		FileName:    fh.Filename,
		ContentType: fh.Header.Get(fiber.HeaderContentType),
		Size:        fh.Size,
		Body:        f,
	})
	if err != nil {
		return handleError(c, h.log, err)
	}
	return respond(c, fiber.StatusCreated, "documento adjuntado", out)
}

// Delete DELETE /api/documents/:id
func (h *DocumentHandler) Delete(c *fiber.Ctx) error {
	actor, ok := GetActor(c)
	if !ok {
		return fail(c, fiber.StatusUnauthorized, CodeUnauthorized, "sesión requerida")
	}
	id, ok := paramID(c, "id")
	if !ok {
		return fail(c, fiber.StatusBadRequest, CodeValidation, invalidIDParamMsg)
	}
	if err := h.uc.DeleteDocument(c.UserContext(), actor, id); err != nil {
		return handleError(c, h.log, err)
	}
	return respond(c, fiber.StatusOK, "documento eliminado", nil)
}
