package http

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/expertzappdev/bizfree-backend/internal/application/dto"
	"github.com/expertzappdev/bizfree-backend/internal/application/hierarchy"
	"github.com/expertzappdev/bizfree-backend/pkg/logger"
)

// ProjectHandler proyectos, miembros, listas de tareas e informe PDF.
type ProjectHandler struct {
	uc  *hierarchy.HierarchyUseCase
	log *logger.Logger
}

// NewProjectHandler construye el handler.
func NewProjectHandler(uc *hierarchy.HierarchyUseCase, log *logger.Logger) *ProjectHandler {
	return &ProjectHandler{uc: uc, log: log}
}

// Create godoc
// @Summary      Crear proyecto
// @Tags         projects
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateProjectRequest  true  "proyecto"
// @Success      201   {object}  dto.APIResponse{data=dto.ProjectResponse}
// @Failure      400   {object}  dto.APIResponse
// @Failure      403   {object}  dto.APIResponse
// @Router       /api/projects [post]
func (h *ProjectHandler) Create(c *fiber.Ctx) error {
	actor, ok := GetActor(c)
	if !ok {
		return fail(c, fiber.StatusUnauthorized, CodeUnauthorized, "sesión requerida")
	}
	var in dto.CreateProjectRequest
	if err := c.BodyParser(&in); err != nil {
		return fail(c, fiber.StatusBadRequest, CodeInvalidBody, invalidBodyMsg)
	}
	out, err := h.uc.CreateProject(c.UserContext(), actor, in)
	if err != nil {
		return handleError(c, h.log, err)
	}
	return respond(c, fiber.StatusCreated, "proyecto creado", out)
}

// List proyectos visibles para el actor.
// GET /api/projects?companyId=&limit=&offset=
func (h *ProjectHandler) List(c *fiber.Ctx) error {
	actor, ok := GetActor(c)
	if !ok {
		return fail(c, fiber.StatusUnauthorized, CodeUnauthorized, "sesión requerida")
	}
	companyID, ok := queryID(c, "companyId")
	if !ok {
		return fail(c, fiber.StatusBadRequest, CodeValidation, "companyId inválido")
	}
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return fail(c, fiber.StatusBadRequest, CodeValidation, "paginación inválida")
	}
	out, err := h.uc.ListProjects(c.UserContext(), actor, companyID, page)
	if err != nil {
		return handleError(c, h.log, err)
	}
	return respond(c, fiber.StatusOK, "proyectos", out)
}

// GetByID GET /api/projects/:id
func (h *ProjectHandler) GetByID(c *fiber.Ctx) error {
	actor, ok := GetActor(c)
	if !ok {
		return fail(c, fiber.StatusUnauthorized, CodeUnauthorized, "sesión requerida")
	}
	id, ok := paramID(c, "id")
	if !ok {
		return fail(c, fiber.StatusBadRequest, CodeValidation, invalidIDParamMsg)
	}
	out, err := h.uc.GetProject(c.UserContext(), actor, id)
	if err != nil {
		return handleError(c, h.log, err)
	}
	return respond(c, fiber.StatusOK, "proyecto", out)
}

// AddMember POST /api/projects/:id/members
func (h *ProjectHandler) AddMember(c *fiber.Ctx) error {
	actor, ok := GetActor(c)
	if !ok {
		return fail(c, fiber.StatusUnauthorized, CodeUnauthorized, "sesión requerida")
	}
	id, ok := paramID(c, "id")
	if !ok {
		return fail(c, fiber.StatusBadRequest, CodeValidation, invalidIDParamMsg)
	}
	var in dto.AddMemberRequest
	if err := c.BodyParser(&in); err != nil {
		return fail(c, fiber.StatusBadRequest, CodeInvalidBody, invalidBodyMsg)
	}
	out, err := h.uc.AddProjectMember(c.UserContext(), actor, id, in)
	if err != nil {
		return handleError(c, h.log, err)
	}
	return respond(c, fiber.StatusCreated, "miembro agregado", out)
}

// CreateTaskList POST /api/projects/:id/task-lists
func (h *ProjectHandler) CreateTaskList(c *fiber.Ctx) error {
	actor, ok := GetActor(c)
	if !ok {
		return fail(c, fiber.StatusUnauthorized, CodeUnauthorized, "sesión requerida")
	}
	id, ok := paramID(c, "id")
	if !ok {
		return fail(c, fiber.StatusBadRequest, CodeValidation, invalidIDParamMsg)
	}
	var in dto.CreateTaskListRequest
	if err := c.BodyParser(&in); err != nil {
		return fail(c, fiber.StatusBadRequest, CodeInvalidBody, invalidBodyMsg)
	}
	out, err := h.uc.CreateTaskList(c.UserContext(), actor, id, in)
	if err != nil {
		return handleError(c, h.log, err)
	}
	return respond(c, fiber.StatusCreated, "lista creada", out)
}

// Report devuelve el PDF resumen del proyecto.
// GET /api/projects/:id/report
func (h *ProjectHandler) Report(c *fiber.Ctx) error {
	actor, ok := GetActor(c)
	if !ok {
		return fail(c, fiber.StatusUnauthorized, CodeUnauthorized, "sesión requerida")
	}
	id, ok := paramID(c, "id")
	if !ok {
		return fail(c, fiber.StatusBadRequest, CodeValidation, invalidIDParamMsg)
	}
	pdf, err := h.uc.ProjectReport(c.UserContext(), actor, id)
	if err != nil {
		return handleError(c, h.log, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`inline; filename="proyecto-%d.pdf"`, id))
	return c.Send(pdf)
}
