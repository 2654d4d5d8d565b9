package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/expertzappdev/bizfree-backend/internal/application/auth"
	"github.com/expertzappdev/bizfree-backend/internal/application/hierarchy"
	"github.com/expertzappdev/bizfree-backend/pkg/logger"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC             *auth.AuthUseCase
	HierarchyUC        *hierarchy.HierarchyUseCase
	JWTSecret          string
	JWTIssuer          string
	RateLimitPerMinute int
	Logger             *logger.Logger
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	log := deps.Logger
	if log == nil {
		log = logger.Nop()
	}
	log = log.Component("http")

	api := app.Group("/api")
	requireAuth := AuthMiddleware(deps.JWTSecret, deps.JWTIssuer)

	// Auth: las rutas públicas pasan por el rate limit por IP.
	authHandler := NewAuthHandler(deps.AuthUC, log)
	authGroup := api.Group("/auth")
	limited := RateLimit(deps.RateLimitPerMinute, 5)
	authGroup.Post("/login", limited, authHandler.Login)
	authGroup.Post("/login-cached", limited, authHandler.LoginCached)
	authGroup.Post("/refresh-token", limited, authHandler.RefreshToken)
	authGroup.Post("/forgot-password", limited, authHandler.ForgotPassword)
	authGroup.Post("/reset-password", limited, authHandler.ResetPassword)
	authGroup.Post("/logout", requireAuth, authHandler.Logout)
	authGroup.Post("/change-password", requireAuth, authHandler.ChangePassword)

	if deps.HierarchyUC == nil {
		return
	}

	// Jerarquía: todas las rutas requieren Bearer Token.
	projectHandler := NewProjectHandler(deps.HierarchyUC, log)
	taskHandler := NewTaskHandler(deps.HierarchyUC, log)
	documentHandler := NewDocumentHandler(deps.HierarchyUC, log)
	statusHandler := NewTaskStatusHandler(deps.HierarchyUC, log)

	projects := api.Group("/projects", requireAuth)
	projects.Post("/", projectHandler.Create)
	projects.Get("/", projectHandler.List)
	projects.Get("/:id", projectHandler.GetByID)
	projects.Post("/:id/members", projectHandler.AddMember)
	projects.Get("/:id/report", projectHandler.Report)
	projects.Post("/:id/task-lists", projectHandler.CreateTaskList)
	projects.Post("/:id/documents", documentHandler.AttachToProject)

	taskLists := api.Group("/task-lists", requireAuth)
	taskLists.Get("/:id/tasks", taskHandler.ListByTaskList)
	taskLists.Delete("/:id", taskHandler.DeleteTaskList)

	tasks := api.Group("/tasks", requireAuth)
	tasks.Post("/", taskHandler.Create)
	tasks.Post("/subtasks", taskHandler.CreateSubTask)
	tasks.Get("/:id", taskHandler.GetByID)
	tasks.Put("/:id", taskHandler.Update)
	tasks.Delete("/:id", taskHandler.Delete)
	tasks.Post("/:id/documents", documentHandler.AttachToTask)

	api.Delete("/documents/:id", requireAuth, documentHandler.Delete)

	statuses := api.Group("/task-statuses", requireAuth)
	statuses.Get("/", statusHandler.List)
	statuses.Post("/", statusHandler.Create)
	statuses.Delete("/:id", statusHandler.Delete)
}
