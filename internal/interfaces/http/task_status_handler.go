package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/expertzappdev/bizfree-backend/internal/application/dto"
	"github.com/expertzappdev/bizfree-backend/internal/application/hierarchy"
	"github.com/expertzappdev/bizfree-backend/pkg/logger"
)

// TaskStatusHandler estados de tarea por empresa.
type TaskStatusHandler struct {
	uc  *hierarchy.HierarchyUseCase
	log *logger.Logger
}

func NewTaskStatusHandler(uc *hierarchy.HierarchyUseCase, log *logger.Logger) *TaskStatusHandler {
	return &TaskStatusHandler{uc: uc, log: log}
}

// Create POST /api/task-statuses
func (h *TaskStatusHandler) Create(c *fiber.Ctx) error {
	actor, ok := GetActor(c)
	if !ok {
		return fail(c, fiber.StatusUnauthorized, CodeUnauthorized, "sesión requerida")
	}
	var in dto.CreateTaskStatusRequest
	if err := c.BodyParser(&in); err != nil {
		return fail(c, fiber.StatusBadRequest, CodeInvalidBody, invalidBodyMsg)
	}
	out, err := h.uc.CreateTaskStatus(c.UserContext(), actor, in)
	if err != nil {
		return handleError(c, h.log, err)
	}
	return respond(c, fiber.StatusCreated, "estado creado", out)
}

// List GET /api/task-statuses?companyId=
func (h *TaskStatusHandler) List(c *fiber.Ctx) error {
	actor, ok := GetActor(c)
	if !ok {
		return fail(c, fiber.StatusUnauthorized, CodeUnauthorized, "sesión requerida")
	}
	companyID, ok := queryID(c, "companyId")
	if !ok {
		return fail(c, fiber.StatusBadRequest, CodeValidation, "companyId inválido")
	}
	out, err := h.uc.ListTaskStatuses(c.UserContext(), actor, companyID)
	if err != nil {
		return handleError(c, h.log, err)
	}
	return respond(c, fiber.StatusOK, "estados", out)
}

// Delete DELETE /api/task-statuses/:id
func (h *TaskStatusHandler) Delete(c *fiber.Ctx) error {
	actor, ok := GetActor(c)
	if !ok {
		return fail(c, fiber.StatusUnauthorized, CodeUnauthorized, "sesión requerida")
	}
	id, ok := paramID(c, "id")
	if !ok {
		return fail(c, fiber.StatusBadRequest, CodeValidation, invalidIDParamMsg)
	}
	if err := h.uc.DeleteTaskStatus(c.UserContext(), actor, id); err != nil {
		return handleError(c, h.log, err)
	}
	return respond(c, fiber.StatusOK, "estado eliminado", nil)
}
