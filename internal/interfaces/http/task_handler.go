package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/expertzappdev/bizfree-backend/internal/application/dto"
	"github.com/expertzappdev/bizfree-backend/internal/application/hierarchy"
	"github.com/expertzappdev/bizfree-backend/pkg/logger"
)

// TaskHandler tareas, subtareas y borrados en cascada.
type TaskHandler struct {
	uc  *hierarchy.HierarchyUseCase
	log *logger.Logger
}

// NewTaskHandler construye el handler.
func NewTaskHandler(uc *hierarchy.HierarchyUseCase, log *logger.Logger) *TaskHandler {
	return &TaskHandler{uc: uc, log: log}
}

// Create POST /api/tasks
func (h *TaskHandler) Create(c *fiber.Ctx) error {
	actor, ok := GetActor(c)
	if !ok {
		return fail(c, fiber.StatusUnauthorized, CodeUnauthorized, "sesión requerida")
	}
	var in dto.CreateTaskRequest
	if err := c.BodyParser(&in); err != nil {
		return fail(c, fiber.StatusBadRequest, CodeInvalidBody, invalidBodyMsg)
	}
	out, err := h.uc.CreateTask(c.UserContext(), actor, in)
	if err != nil {
		return handleError(c, h.log, err)
	}
	return respond(c, fiber.StatusCreated, "tarea creada", out)
}

// CreateSubTask godoc
// @Summary      Crear subtarea
// @Description  Hereda empresa, proyecto y lista del padre. Un taskListId distinto al del padre es 400.
// @Tags         tasks
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateSubTaskRequest  true  "subtarea"
// @Success      201   {object}  dto.APIResponse{data=dto.TaskResponse}
// @Failure      400   {object}  dto.APIResponse
// @Failure      403   {object}  dto.APIResponse
// @Failure      404   {object}  dto.APIResponse
// @Router       /api/tasks/subtasks [post]
func (h *TaskHandler) CreateSubTask(c *fiber.Ctx) error {
	actor, ok := GetActor(c)
	if !ok {
		return fail(c, fiber.StatusUnauthorized, CodeUnauthorized, "sesión requerida")
	}
	var in dto.CreateSubTaskRequest
	if err := c.BodyParser(&in); err != nil {
		return fail(c, fiber.StatusBadRequest, CodeInvalidBody, invalidBodyMsg)
	}
	out, err := h.uc.CreateSubTask(c.UserContext(), actor, in)
	if err != nil {
		return handleError(c, h.log, err)
	}
	return respond(c, fiber.StatusCreated, "subtarea creada", out)
}

// GetByID GET /api/tasks/:id
func (h *TaskHandler) GetByID(c *fiber.Ctx) error {
	actor, ok := GetActor(c)
	if !ok {
		return fail(c, fiber.StatusUnauthorized, CodeUnauthorized, "sesión requerida")
	}
	id, ok := paramID(c, "id")
	if !ok {
		return fail(c, fiber.StatusBadRequest, CodeValidation, invalidIDParamMsg)
	}
	out, err := h.uc.GetTask(c.UserContext(), actor, id)
	if err != nil {
		return handleError(c, h.log, err)
	}
	return respond(c, fiber.StatusOK, "tarea", out)
}

// Update PUT /api/tasks/:id
func (h *TaskHandler) Update(c *fiber.Ctx) error {
	actor, ok := GetActor(c)
	if !ok {
		return fail(c, fiber.StatusUnauthorized, CodeUnauthorized, "sesión requerida")
	}
	id, ok := paramID(c, "id")
	if !ok {
		return fail(c, fiber.StatusBadRequest, CodeValidation, invalidIDParamMsg)
	}
	var in dto.UpdateTaskRequest
	if err := c.BodyParser(&in); err != nil {
		return fail(c, fiber.StatusBadRequest, CodeInvalidBody, invalidBodyMsg)
	}
	out, err := h.uc.UpdateTask(c.UserContext(), actor, id, in)
	if err != nil {
		return handleError(c, h.log, err)
	}
	return respond(c, fiber.StatusOK, "tarea actualizada", out)
}

// Delete borra la tarea, sus subtareas y sus documentos.
// DELETE /api/tasks/:id
func (h *TaskHandler) Delete(c *fiber.Ctx) error {
	actor, ok := GetActor(c)
	if !ok {
		return fail(c, fiber.StatusUnauthorized, CodeUnauthorized, "sesión requerida")
	}
	id, ok := paramID(c, "id")
	if !ok {
		return fail(c, fiber.StatusBadRequest, CodeValidation, invalidIDParamMsg)
	}
	out, err := h.uc.DeleteTask(c.UserContext(), actor, id)
	if err != nil {
		return handleError(c, h.log, err)
	}
	return respond(c, fiber.StatusOK, "tarea eliminada", out)
}

// ListByTaskList GET /api/task-lists/:id/tasks
func (h *TaskHandler) ListByTaskList(c *fiber.Ctx) error {
	actor, ok := GetActor(c)
	if !ok {
		return fail(c, fiber.StatusUnauthorized, CodeUnauthorized, "sesión requerida")
	}
	id, ok := paramID(c, "id")
	if !ok {
		return fail(c, fiber.StatusBadRequest, CodeValidation, invalidIDParamMsg)
	}
	out, err := h.uc.ListTasks(c.UserContext(), actor, id)
	if err != nil {
		return handleError(c, h.log, err)
	}
	return respond(c, fiber.StatusOK, "tareas", out)
}

// DeleteTaskList borra la lista y todo lo que cuelga de ella.
// DELETE /api/task-lists/:id
func (h *TaskHandler) DeleteTaskList(c *fiber.Ctx) error {
	actor, ok := GetActor(c)
	if !ok {
		return fail(c, fiber.StatusUnauthorized, CodeUnauthorized, "sesión requerida")
	}
	id, ok := paramID(c, "id")
	if !ok {
		return fail(c, fiber.StatusBadRequest, CodeValidation, invalidIDParamMsg)
	}
	out, err := h.uc.DeleteTaskList(c.UserContext(), actor, id)
	if err != nil {
		return handleError(c, h.log, err)
	}
	return respond(c, fiber.StatusOK, "lista eliminada", out)
}
