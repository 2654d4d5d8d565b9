package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/expertzappdev/bizfree-backend/internal/application/auth"
	"github.com/expertzappdev/bizfree-backend/internal/application/hierarchy"
	"github.com/expertzappdev/bizfree-backend/internal/application/permission"
	"github.com/expertzappdev/bizfree-backend/internal/infrastructure/mail"
	infrapdf "github.com/expertzappdev/bizfree-backend/internal/infrastructure/pdf"
	"github.com/expertzappdev/bizfree-backend/internal/infrastructure/postgres"
	"github.com/expertzappdev/bizfree-backend/internal/infrastructure/storage"
	httpRouter "github.com/expertzappdev/bizfree-backend/internal/interfaces/http"
	"github.com/expertzappdev/bizfree-backend/pkg/config"
	"github.com/expertzappdev/bizfree-backend/pkg/logger"
	"github.com/expertzappdev/bizfree-backend/pkg/metrics"
	"github.com/expertzappdev/bizfree-backend/pkg/password"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	metrics.Register()

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	companyRepo := postgres.NewCompanyRepository(pool)
	credentialRepo := postgres.NewCredentialRepository(pool)
	roleRepo := postgres.NewRoleRepository(pool)
	projectRepo := postgres.NewProjectRepository(pool)
	taskListRepo := postgres.NewTaskListRepository(pool)
	taskRepo := postgres.NewTaskRepository(pool)
	statusRepo := postgres.NewTaskStatusRepository(pool)
	documentRepo := postgres.NewDocumentRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	blobs, err := storage.NewS3BlobStore(ctx, cfg.Storage, log)
	if err != nil {
		log.Fatal().Err(err).Msg("cliente S3")
	}

	resolver := permission.NewResolver(roleRepo, cfg.Auth.PermissionCacheTTL, cfg.Auth.PermissionCacheSize)
	authUC := auth.NewAuthUseCase(auth.Deps{
		Credentials: credentialRepo,
		Roles:       roleRepo,
		Permissions: roleRepo,
		Resolver:    resolver,
		Notifier:    mail.NewSMTPNotifier(cfg.SMTP, log),
		Hasher:      password.NewHasher(0, cfg.Auth.AllowLegacyPlaintext),
		Logger:      log.Component("auth"),
	}, auth.Config{
		Secret:     cfg.JWT.Secret,
		Issuer:     cfg.JWT.Issuer,
		AccessTTL:  cfg.JWT.AccessTTL(),
		RefreshTTL: cfg.Auth.RefreshTTL,
		ResetTTL:   cfg.Auth.ResetTTL,
		ResetURL:   cfg.Auth.ResetURL,
	})

	hierarchyUC := hierarchy.NewHierarchyUseCase(hierarchy.Deps{
		Companies:   companyRepo,
		Credentials: credentialRepo,
		Projects:    projectRepo,
		TaskLists:   taskListRepo,
		Tasks:       taskRepo,
		Statuses:    statusRepo,
		Documents:   documentRepo,
		Tx:          txRunner,
		Blobs:       blobs,
		Reports:     infrapdf.NewMarotoReportGenerator(),
		Logger:      log.Component("hierarchy"),
	})

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
		BodyLimit:    httpRouter.MaxUploadBytes + 1<<20,
	})
	app.Use(recover.New())
	app.Use(httpRouter.RequestLogger(log))
	app.Use(httpRouter.Metrics())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "BizFree API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		if err := pool.Ping(c.UserContext()); err != nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "degraded", "service": cfg.App.Name})
		}
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})
	app.Get("/metrics", adaptor.HTTPHandler(metrics.Handler()))

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:             authUC,
		HierarchyUC:        hierarchyUC,
		JWTSecret:          cfg.JWT.Secret,
		JWTIssuer:          cfg.JWT.Issuer,
		RateLimitPerMinute: cfg.Auth.RateLimitPerMinute,
		Logger:             log,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
